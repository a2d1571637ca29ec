package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/techelevate/platform/internal/common"
	"github.com/techelevate/platform/internal/server"
	"github.com/techelevate/platform/internal/server/config"
	"github.com/techelevate/platform/internal/server/identity"
	"github.com/techelevate/platform/internal/server/services"
	"golang.org/x/term"
)

type backend interface {
	Migrate(ctx context.Context) error
	BootstrapAdministrator(ctx context.Context, in services.RegisterInput) (*identity.Account, error)
	PruneRevocations(ctx context.Context) (int64, error)
	Close() error
}

// openBackend and readPassword are replaced in tests.
var (
	openBackend = func(ctx context.Context, cfg *config.Config) (backend, error) {
		app, err := server.NewApp(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return app, nil
	}
	readPassword = term.ReadPassword
)

type rootOptions struct {
	configFile string
	dsn        string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "techelevate-admin",
		Short:        "Operator tasks for the TechElevate platform",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "path to JSON config file")
	root.PersistentFlags().StringVar(&opts.dsn, "dsn", "", "PostgreSQL DSN (overrides config)")

	root.AddCommand(
		newMigrateCmd(opts),
		newCreateAdminCmd(opts),
		newPruneCmd(opts),
	)
	return root
}

// withBackend loads the config, opens the backend, runs fn and closes it.
func withBackend(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, b backend) error) error {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if opts.dsn != "" {
		cfg.DatabaseDSN = opts.dsn
	}

	ctx := cmd.Context()
	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = b.Close() }()

	return fn(ctx, b)
}

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withBackend(cmd, opts, func(ctx context.Context, b backend) error {
				if err := b.Migrate(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
				return nil
			})
		},
	}
}

func newCreateAdminCmd(opts *rootOptions) *cobra.Command {
	var (
		in            services.RegisterInput
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			password, err := getPassword(cmd, passwordStdin)
			if err != nil {
				return err
			}
			in.Password = password

			return withBackend(cmd, opts, func(ctx context.Context, b backend) error {
				a, err := b.BootstrapAdministrator(ctx, in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "administrator %d created (%s)\n", a.ID, a.Email)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&in.Email, "email", "", "administrator e-mail")
	cmd.Flags().StringVar(&in.Username, "username", "", "administrator username")
	cmd.Flags().StringVar(&in.DisplayName, "display-name", "", "display name")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

// getPassword reads one line from stdin, or prompts without echo.
func getPassword(cmd *cobra.Command, fromStdin bool) (string, error) {
	if fromStdin {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(cmd.ErrOrStderr(), "Enter password: ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	defer common.WipeByteArray(pw)
	return string(pw), nil
}

func newPruneCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "prune-revocations",
		Short: "Delete revocation records of tokens that have expired",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withBackend(cmd, opts, func(ctx context.Context, b backend) error {
				n, err := b.PruneRevocations(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "pruned %d revocation records\n", n)
				return nil
			})
		},
	}
}
