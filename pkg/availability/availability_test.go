package availability

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	slots, err := Generate("2024-06-03", "2024-06-04", "09:00", "10:00", 30)
	require.NoError(t, err)
	require.Equal(t, []GeneratedSlot{
		{Start: "2024-06-03T09:00:00", End: "2024-06-03T09:30:00", Label: "9:00 AM", Date: "2024-06-03"},
		{Start: "2024-06-03T09:30:00", End: "2024-06-03T10:00:00", Label: "9:30 AM", Date: "2024-06-03"},
		{Start: "2024-06-04T09:00:00", End: "2024-06-04T09:30:00", Label: "9:00 AM", Date: "2024-06-04"},
		{Start: "2024-06-04T09:30:00", End: "2024-06-04T10:00:00", Label: "9:30 AM", Date: "2024-06-04"},
	}, slots)
}

func TestGenerateCounts(t *testing.T) {
	tests := []struct {
		name      string
		dateStart string
		dateEnd   string
		timeStart string
		timeEnd   string
		duration  int
		want      int
	}{
		{"single day hourly", "2024-06-03", "2024-06-03", "08:00", "18:00", 60, 10},
		{"week of quarter hours", "2024-06-03", "2024-06-09", "09:00", "12:00", 15, 7 * 12},
		{"trailing partial slot dropped", "2024-06-03", "2024-06-04", "09:00", "10:45", 30, 2 * 3},
		{"window shorter than duration", "2024-06-03", "2024-06-03", "09:00", "09:45", 60, 0},
		{"end date before start date", "2024-06-04", "2024-06-03", "09:00", "10:00", 30, 0},
		{"across month end", "2024-01-30", "2024-02-02", "13:00", "14:00", 30, 4 * 2},
		{"across leap day", "2024-02-28", "2024-03-01", "00:00", "01:00", 60, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots, err := Generate(tt.dateStart, tt.dateEnd, tt.timeStart, tt.timeEnd, tt.duration)
			require.NoError(t, err)
			require.Len(t, slots, tt.want)
		})
	}
}

func TestGenerateShape(t *testing.T) {
	slots, err := Generate("2024-06-03", "2024-06-05", "09:15", "17:00", 15)
	require.NoError(t, err)
	require.Len(t, slots, 3*31)

	perDay := len(slots) / 3
	for i, slot := range slots {
		key, err := slot.Key()
		require.NoError(t, err)
		require.Equal(t, slot.Date, key.Date)
		require.Equal(t, 15, key.End-key.Start)
		require.GreaterOrEqual(t, key.Start, 9*60+15)
		require.LessOrEqual(t, key.End, 17*60)
		if i%perDay != 0 {
			prev, err := slots[i-1].Key()
			require.NoError(t, err)
			require.Equal(t, prev.End, key.Start)
		}
		require.Equal(t, slots[i%perDay].Label, slot.Label)
	}
}

func TestGenerateIdempotent(t *testing.T) {
	first, err := Generate("2024-06-03", "2024-06-10", "07:30", "19:00", 30)
	require.NoError(t, err)
	second, err := Generate("2024-06-03", "2024-06-10", "07:30", "19:00", 30)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestGenerateLabels(t *testing.T) {
	slots, err := Generate("2024-06-03", "2024-06-03", "11:00", "13:00", 60)
	require.NoError(t, err)
	require.Equal(t, "11:00 AM", slots[0].Label)
	require.Equal(t, "12:00 PM", slots[1].Label)

	slots, err = Generate("2024-06-03", "2024-06-03", "00:00", "00:30", 15)
	require.NoError(t, err)
	require.Equal(t, "12:00 AM", slots[0].Label)
	require.Equal(t, "12:15 AM", slots[1].Label)
}

func TestGenerateInvalidInput(t *testing.T) {
	_, err := Generate("2024-06-03", "2024-06-03", "09:00", "10:00", 0)
	require.Error(t, err)
	_, err = Generate("2024-13-03", "2024-06-03", "09:00", "10:00", 30)
	require.Error(t, err)
	_, err = Generate("2024-06-03", "2024-06-03", "9am", "10:00", 30)
	require.Error(t, err)
}

func TestAggregate(t *testing.T) {
	slots, err := Generate("2024-06-03", "2024-06-04", "09:00", "10:00", 30)
	require.NoError(t, err)

	result := Aggregate(slots, []Respondent{
		{Name: "Alice", Selections: []Selection{
			{Start: "2024-06-03T09:00:00", End: "2024-06-03T09:30:00"},
		}},
		{Name: "Bob", Selections: []Selection{
			{Start: "2024-06-03T09:00:00", End: "2024-06-03T09:30:00"},
			{Start: "2024-06-04T09:30:00", End: "2024-06-04T10:00:00"},
		}},
	})

	require.Len(t, result, len(slots))
	counts := make([]int, 0, len(result))
	for i, r := range result {
		require.Equal(t, slots[i].Start, r.SlotStart)
		require.Equal(t, slots[i].End, r.SlotEnd)
		counts = append(counts, r.Count)
	}
	require.Equal(t, []int{2, 0, 0, 1}, counts)
	require.Equal(t, []string{"Alice", "Bob"}, result[0].Respondents)
	require.Equal(t, []string{"Bob"}, result[3].Respondents)
	require.Equal(t, 4, result[0].Heat)
	require.Equal(t, 2, result[3].Heat)
}

func TestAggregateNoResponses(t *testing.T) {
	slots, err := Generate("2024-06-03", "2024-06-03", "09:00", "11:00", 60)
	require.NoError(t, err)

	result := Aggregate(slots, nil)
	require.Len(t, result, 2)
	for _, r := range result {
		require.Zero(t, r.Count)
		require.Zero(t, r.Heat)
		require.NotNil(t, r.Respondents)
		require.Empty(t, r.Respondents)
	}
}

func TestAggregateMatching(t *testing.T) {
	slots, err := Generate("2024-06-03", "2024-06-03", "09:00", "10:00", 30)
	require.NoError(t, err)

	result := Aggregate(slots, []Respondent{
		{Name: "no seconds", Selections: []Selection{
			{Start: "2024-06-03T09:00", End: "2024-06-03T09:30"},
		}},
		{Name: "overlapping", Selections: []Selection{
			{Start: "2024-06-03T09:00:00", End: "2024-06-03T10:00:00"},
		}},
		{Name: "garbage", Selections: []Selection{
			{Start: "tomorrow", End: "later"},
		}},
		{Name: "duplicate", Selections: []Selection{
			{Start: "2024-06-03T09:30:00", End: "2024-06-03T10:00:00"},
			{Start: "2024-06-03T09:30:00", End: "2024-06-03T10:00:00"},
		}},
		{Name: "other day", Selections: []Selection{
			{Start: "2024-06-04T09:00:00", End: "2024-06-04T09:30:00"},
		}},
	})

	require.Equal(t, 1, result[0].Count)
	require.Equal(t, []string{"no seconds"}, result[0].Respondents)
	require.Equal(t, 1, result[1].Count)
	require.Equal(t, []string{"duplicate"}, result[1].Respondents)
}

func TestAggregateSumOfCounts(t *testing.T) {
	slots, err := Generate("2024-06-03", "2024-06-05", "10:00", "12:00", 30)
	require.NoError(t, err)

	respondents := []Respondent{
		{Name: "a", Selections: []Selection{{Start: slots[0].Start, End: slots[0].End}, {Start: slots[5].Start, End: slots[5].End}}},
		{Name: "b", Selections: []Selection{{Start: slots[5].Start, End: slots[5].End}}},
		{Name: "c", Selections: []Selection{{Start: slots[11].Start, End: slots[11].End}, {Start: "2024-07-01T10:00:00", End: "2024-07-01T10:30:00"}}},
	}
	result := Aggregate(slots, respondents)

	total := 0
	for _, r := range result {
		total += r.Count
	}
	require.Equal(t, 4, total)
	require.Equal(t, []string{"a", "b"}, result[5].Respondents)
}

func TestHeat(t *testing.T) {
	require.Equal(t, 0, Heat(0, 4))
	require.Equal(t, 0, Heat(3, 0))
	require.Equal(t, 1, Heat(1, 4))
	require.Equal(t, 2, Heat(2, 4))
	require.Equal(t, 3, Heat(3, 4))
	require.Equal(t, 4, Heat(4, 4))
}

func TestDisplay(t *testing.T) {
	got, err := Display("2024-06-03T09:00:00", "2024-06-03T09:30:00")
	require.NoError(t, err)
	require.Equal(t, "Mon, Jun 3, 9:00 AM - 9:30 AM", got)

	day, clock, err := LongDisplay("2024-06-03T13:00:00", "2024-06-03T14:00:00")
	require.NoError(t, err)
	require.Equal(t, "Monday, June 3, 2024", day)
	require.Equal(t, "1:00 PM - 2:00 PM", clock)

	_, err = Display("soon", "2024-06-03T09:30:00")
	require.Error(t, err)
}

func TestParseTimestamp(t *testing.T) {
	_, err := ParseTimestamp("2024-06-03T09:00:30")
	require.ErrorIs(t, err, ErrNotAligned)

	short, err := ParseTimestamp("2024-06-03T09:00")
	require.NoError(t, err)
	long, err := ParseTimestamp("2024-06-03T09:00:00")
	require.NoError(t, err)
	require.True(t, short.Equal(long))
}

func TestDates(t *testing.T) {
	dates, err := Dates("2024-12-30", "2025-01-02")
	require.NoError(t, err)
	require.Equal(t, []string{"2024-12-30", "2024-12-31", "2025-01-01", "2025-01-02"}, dates)
}
