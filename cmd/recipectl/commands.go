package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/mkrupp/recipe-api/internal/domain"
	"github.com/mkrupp/recipe-api/internal/infra/logging"
	"github.com/mkrupp/recipe-api/internal/infra/storage"
	"github.com/mkrupp/recipe-api/internal/repo/account"
	"github.com/mkrupp/recipe-api/internal/svc/usersvc"
)

var (
	errUsage            = errors.New("invalid usage")
	errPasswordMismatch = errors.New("passwords do not match")
)

type cli struct {
	cfg    Config
	out    io.Writer
	prompt func(label string) (string, error)
}

func (c *cli) run(ctx context.Context, args []string) (err error) {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}

	log := logging.GetLogger("cmd.recipectl").With("command", args[0])

	defer func() {
		if err != nil {
			log.DebugContext(ctx, "command failed", "error", err)
		} else {
			log.DebugContext(ctx, "command done")
		}
	}()

	switch args[0] {
	case "migrate":
		return c.migrate(ctx, args[1:])
	case "createsuperuser":
		return c.createSuperuser(ctx, args[1:])
	case "changepassword":
		return c.changePassword(ctx, args[1:])
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
}

func (c *cli) openAccounts(ctx context.Context) (*usersvc.AccountService, func(), error) {
	db, err := storage.Open(ctx, c.cfg.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("open storage: %w", err)
	}

	svc, err := usersvc.NewAccountService(account.NewSQLiteAccountRepository(db), c.cfg.Account)
	if err != nil {
		_ = db.Close()

		return nil, nil, fmt.Errorf("new account service: %w", err)
	}

	return svc, func() { _ = db.Close() }, nil
}

func (c *cli) migrate(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("migrate", pflag.ContinueOnError)
	flags.SetOutput(c.out)

	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	cfg := c.cfg.DB
	cfg.Migrate = false

	db, err := storage.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	if err := storage.Migrate(ctx, db.DB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	fmt.Fprintln(c.out, "migrations applied")

	return nil
}

func (c *cli) readNewPassword() (string, error) {
	password, err := c.prompt("Password: ")
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	again, err := c.prompt("Password (again): ")
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	if password != again {
		return "", errPasswordMismatch
	}

	return password, nil
}

func (c *cli) createSuperuser(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("createsuperuser", pflag.ContinueOnError)
	flags.SetOutput(c.out)
	email := flags.String("email", "", "email address of the new superuser")

	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	if *email == "" {
		return fmt.Errorf("%w: --email is required", errUsage)
	}

	accounts, closeDB, err := c.openAccounts(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	password, err := c.readNewPassword()
	if err != nil {
		return err
	}

	acc, err := accounts.CreateSuperuser(ctx, *email, password)
	if err != nil {
		return fmt.Errorf("create superuser: %w", err)
	}

	fmt.Fprintf(c.out, "Superuser created: %s\n", acc.Email)

	return nil
}

func (c *cli) changePassword(ctx context.Context, args []string) error {
	flags := pflag.NewFlagSet("changepassword", pflag.ContinueOnError)
	flags.SetOutput(c.out)
	email := flags.String("email", "", "email address of the account")

	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	if *email == "" {
		return fmt.Errorf("%w: --email is required", errUsage)
	}

	accounts, closeDB, err := c.openAccounts(ctx)
	if err != nil {
		return err
	}
	defer closeDB()

	acc, err := accounts.GetAccountByEmail(ctx, *email)
	if err != nil {
		return fmt.Errorf("get account: %w", err)
	}

	password, err := c.readNewPassword()
	if err != nil {
		return err
	}

	if _, err := accounts.UpdateProfile(ctx, acc, domain.ProfileUpdate{Password: &password}); err != nil {
		return fmt.Errorf("change password: %w", err)
	}

	fmt.Fprintf(c.out, "Password changed for %s\n", acc.Email)

	return nil
}
