package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/mkrupp/recipe-api/internal/infra/config"
	"github.com/mkrupp/recipe-api/internal/infra/logging"
	"github.com/mkrupp/recipe-api/internal/infra/storage"
	"github.com/mkrupp/recipe-api/internal/svc/usersvc"
)

const (
	appName = "recipe"
	svcName = "api"
)

type Config struct {
	config.EnvConfig

	Log     logging.LoggerConfig  `envPrefix:"LOG_"`
	DB      storage.SQLiteConfig  `envPrefix:"DB_"`
	Account usersvc.AccountConfig `envPrefix:"ACCOUNT_"`
}

const usage = `usage: recipectl [--env-file PATH] <command> [flags]

commands:
  migrate          apply pending database migrations
  createsuperuser  create a staff account with all permissions
  changepassword   set a new password for an account
`

func main() {
	var (
		cfg Config
		ctx = context.Background()

		configPrefix = strings.ToUpper(strings.Join([]string{appName, svcName}, "_"))
		loggerName   = strings.ToLower(strings.Join([]string{appName, "ctl"}, "."))
	)

	flags := pflag.NewFlagSet("recipectl", pflag.ContinueOnError)
	flags.SetInterspersed(false)
	flags.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	envFile := flags.String("env-file", os.Getenv("ENV_FILE"), "dotenv file to load before reading the environment")

	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}

		os.Exit(2) //nolint:mnd
	}

	if err := config.LoadDotEnv(*envFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := config.Parse(ctx, &cfg, configPrefix); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logging.Configure(ctx, cfg.Log, loggerName)

	c := &cli{
		cfg:    cfg,
		out:    os.Stdout,
		prompt: newTerminalPrompter(os.Stdin, os.Stderr).Prompt,
	}

	if err := c.run(ctx, flags.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)

		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		}

		os.Exit(1)
	}
}
