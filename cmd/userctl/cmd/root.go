// Package cmd implements userctl, the admin tool that provisions the
// accounts Google sign-in resolves against. Logins never create accounts;
// this is the only way in.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"portal/internal/db"
	"portal/internal/logger"
	"portal/internal/user"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// Store is the subset of the user store the commands need.
type Store interface {
	Create(ctx context.Context, email string) (*user.User, error)
	List(ctx context.Context) ([]user.User, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
}

// Opener connects to the store named by dsn. The returned func releases it.
type Opener func(ctx context.Context, dsn string) (Store, func() error, error)

type cliEnv struct {
	DatabaseDSN string `env:"DATABASE_DSN"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"warn"`
}

func openPostgres(ctx context.Context, dsn string) (Store, func() error, error) {
	database, err := db.Open(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}
	return user.NewPostgresStore(database), database.Close, nil
}

type rootOptions struct {
	dsn   string
	open  Opener
	store Store
	close func() error
}

// NewRootCmd builds the command tree. Tests pass their own Opener.
func NewRootCmd(open Opener) *cobra.Command {
	var cfg cliEnv
	_ = env.Parse(&cfg)

	opts := &rootOptions{open: open}

	root := &cobra.Command{
		Use:           "userctl",
		Short:         "userctl manages the accounts allowed to sign in",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Init(cfg.LogLevel)
		},
	}
	root.PersistentFlags().StringVar(&opts.dsn, "dsn", cfg.DatabaseDSN, "Postgres DSN (default $DATABASE_DSN)")

	root.AddCommand(newUserCmd(opts))
	return root
}

// connect opens the store once per invocation.
func (o *rootOptions) connect(ctx context.Context) (Store, error) {
	if o.store != nil {
		return o.store, nil
	}
	if o.dsn == "" {
		return nil, errors.New("no database configured: pass --dsn or set DATABASE_DSN")
	}

	store, closer, err := o.open(ctx, o.dsn)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	o.store, o.close = store, closer
	return store, nil
}

func (o *rootOptions) release() {
	if o.close != nil {
		_ = o.close()
		o.close = nil
	}
	o.store = nil
}

func Execute() {
	if err := NewRootCmd(openPostgres).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "userctl:", err)
		logger.Sync()
		os.Exit(1)
	}
}
