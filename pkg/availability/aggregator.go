package availability

// Selection is one slot a respondent marked as available.
type Selection struct {
	Start string
	End   string
}

// Respondent is a single response: every response counts as a separate vote,
// even when two of them share an email address.
type Respondent struct {
	Name       string
	Selections []Selection
}

// SlotAvailability is the tally for one generated slot.
type SlotAvailability struct {
	SlotStart   string   `json:"slot_start"`
	SlotEnd     string   `json:"slot_end"`
	Count       int      `json:"count"`
	Respondents []string `json:"respondents"`
	Heat        int      `json:"heat"`
}

// Aggregate counts, for every generated slot, the responses that selected it.
// The result has one entry per slot in the same order. Respondents are listed
// in the order the responses were given.
//
// A selection matches a slot only when both bounds denote the same minute on
// the same date. Selections that do not parse, or that fall outside the grid,
// are ignored. A response is counted at most once per slot.
func Aggregate(slots []GeneratedSlot, respondents []Respondent) []SlotAvailability {
	result := make([]SlotAvailability, len(slots))
	index := make(map[Key]int, len(slots))
	for i, slot := range slots {
		result[i] = SlotAvailability{
			SlotStart:   slot.Start,
			SlotEnd:     slot.End,
			Respondents: []string{},
		}
		key, err := slot.Key()
		if err != nil {
			continue
		}
		if _, ok := index[key]; !ok {
			index[key] = i
		}
	}

	for _, r := range respondents {
		counted := make(map[int]struct{}, len(r.Selections))
		for _, sel := range r.Selections {
			key, err := ParseKey(sel.Start, sel.End)
			if err != nil {
				continue
			}
			i, ok := index[key]
			if !ok {
				continue
			}
			if _, dup := counted[i]; dup {
				continue
			}
			counted[i] = struct{}{}
			result[i].Count++
			result[i].Respondents = append(result[i].Respondents, r.Name)
		}
	}

	for i := range result {
		result[i].Heat = Heat(result[i].Count, len(respondents))
	}
	return result
}

// Heat buckets count/total into the five heatmap shades: 0 for nobody,
// then quarters up to 4.
func Heat(count, total int) int {
	if total == 0 || count == 0 {
		return 0
	}
	ratio := float64(count) / float64(total)
	switch {
	case ratio <= 0.25:
		return 1
	case ratio <= 0.5:
		return 2
	case ratio <= 0.75:
		return 3
	default:
		return 4
	}
}
