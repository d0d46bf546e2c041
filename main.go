package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"menuboard/app"
	"menuboard/config"
	"menuboard/logging"

	"github.com/urfave/cli/v3"
)

const name = "menuboard"

// overridden during build with ldflags
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cli.Command {
	return &cli.Command{
		Name:    name,
		Usage:   "Menu management page and reference menu API",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "env-file",
				Usage: "Load environment from the given file(s) instead of ./.env",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Sources: cli.EnvVars("LOG_LEVEL"),
				Value:   "info",
			},
		},
		Commands: []*cli.Command{
			uiCmd(),
			apiCmd(),
			devCmd(),
		},
	}
}

func uiCmd() *cli.Command {
	return &cli.Command{
		Name:  "ui",
		Usage: "Serve the menu management page",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "port",
				Usage: "Listen port (overrides UI_PORT)",
			},
			&cli.StringFlag{
				Name:  "api-url",
				Usage: "Menu API base URL (overrides MENU_API_URL)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if p := cmd.Int("port"); p > 0 {
				cfg.UI.Port = p
			}
			if u := cmd.String("api-url"); u != "" {
				cfg.UI.MenuAPIURL = u
			}
			return app.RunUI(ctx, cfg)
		},
	}
}

func apiCmd() *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Serve the reference menu API",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "port",
				Usage: "Listen port (overrides API_PORT)",
			},
			&cli.StringFlag{
				Name:  "dsn",
				Usage: "Postgres DSN (overrides DATABASE_DSN, empty keeps menus in memory)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if p := cmd.Int("port"); p > 0 {
				cfg.API.Port = p
			}
			if dsn := cmd.String("dsn"); dsn != "" {
				cfg.API.DSN = dsn
			}
			return app.RunAPI(ctx, cfg)
		},
	}
}

func devCmd() *cli.Command {
	return &cli.Command{
		Name:  "dev",
		Usage: "Run the menu API and the page together",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return app.RunDev(ctx, cfg)
		},
	}
}

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.StringSlice("env-file")...)
	if err != nil {
		return nil, err
	}
	if cmd.IsSet("log-level") {
		cfg.Log.Level = cmd.String("log-level")
	}

	logging.SetDefaultStructuredLogger(name, version, cfg.Log.Level)
	app.SetGinMode(cfg.GinMode)
	slog.Debug("configuration loaded", "ginMode", cfg.GinMode, "logLevel", cfg.Log.Level)
	return cfg, nil
}
