package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pershin-daniil/slotpoll/internal/rest"
	"github.com/pershin-daniil/slotpoll/pkg/config"
	"github.com/pershin-daniil/slotpoll/pkg/logger"
	"github.com/pershin-daniil/slotpoll/pkg/notifier"
	"github.com/pershin-daniil/slotpoll/pkg/pgstore"
	"github.com/pershin-daniil/slotpoll/pkg/service"
	"github.com/pershin-daniil/slotpoll/pkg/worker"
	migrate "github.com/rubenv/sql-migrate"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"golang.org/x/oauth2"
)

const version = "0.1.0"

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:    "slotpoll",
		Usage:   "Find a meeting time that works for everyone.",
		Version: version,
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			gmailAuthCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Apply migrations and start the HTTP server.",
		Action: func(c *cli.Context) error {
			cfg := config.Load()
			log := logger.New(cfg.LogLevel)

			ctx, cancel := context.WithCancel(c.Context)
			defer cancel()
			store, err := pgstore.New(ctx, log, cfg.DBDriver, cfg.DSN)
			if err != nil {
				return err
			}
			defer func() {
				if err := store.Close(); err != nil {
					log.Warnf("err closing store: %v", err)
				}
			}()
			if err = store.Migrate(migrate.Up); err != nil {
				return err
			}

			dispatcher := worker.New(log, notifier.New(ctx, log, cfg.Mail), cfg.NotifyWorkers, cfg.NotifyQueue)
			dispatched := make(chan struct{})
			go func() {
				dispatcher.Run(ctx)
				close(dispatched)
			}()

			app := service.NewMeetingService(log, store, dispatcher, cfg.BaseURL)
			server := rest.New(log, app, cfg.Address, version)
			go func() {
				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP)
				select {
				case <-sigCh:
					log.Info("Received signal, shutting down...")
				case <-ctx.Done():
				}
				cancel()
			}()
			if err = server.Run(ctx); err != nil {
				return err
			}
			cancel()
			<-dispatched
			log.Info("Server stopped")
			return nil
		},
	}
}

func migrateCommand() *cli.Command {
	run := func(direction migrate.MigrationDirection) cli.ActionFunc {
		return func(c *cli.Context) error {
			cfg := config.Load()
			log := logger.New(cfg.LogLevel)
			store, err := pgstore.New(c.Context, log, cfg.DBDriver, cfg.DSN)
			if err != nil {
				return err
			}
			defer store.Close()
			return store.Migrate(direction)
		}
	}
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply or roll back database migrations.",
		Subcommands: []*cli.Command{
			{Name: "up", Usage: "Apply all pending migrations.", Action: run(migrate.Up)},
			{Name: "down", Usage: "Roll back all migrations.", Action: run(migrate.Down)},
		},
	}
}

func gmailAuthCommand() *cli.Command {
	return &cli.Command{
		Name:  "gmail-auth",
		Usage: "Authorize the Gmail provider and store its token.",
		Action: func(c *cli.Context) error {
			cfg := config.Load()
			oauthCfg, err := notifier.GmailConfig(cfg.Mail.GmailCredentialsFile)
			if err != nil {
				return err
			}

			authURL := oauthCfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
			fmt.Printf("Go to the following link in your browser then type the "+
				"authorization code: \n%v\n", authURL)
			fmt.Print("Enter Authorization Code: ")
			code, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil {
				return fmt.Errorf("err reading authorization code: %w", err)
			}

			if err = notifier.ExchangeToken(c.Context, oauthCfg, strings.TrimSpace(code), cfg.Mail.GmailTokenFile); err != nil {
				return err
			}
			fmt.Printf("Saved token to %s\n", cfg.Mail.GmailTokenFile)
			return nil
		},
	}
}
