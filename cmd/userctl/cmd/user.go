package cmd

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"portal/internal/logger"
	"portal/internal/user"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newUserCmd(opts *rootOptions) *cobra.Command {
	userCmd := &cobra.Command{
		Use:     "user",
		Short:   "Manage users",
		Aliases: []string{"users"},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			opts.release()
		},
	}

	userCmd.AddCommand(
		newUserAddCmd(opts),
		newUserListCmd(opts),
		newUserRemoveCmd(opts),
	)
	return userCmd
}

func newUserAddCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add EMAIL",
		Short: "Allow an email address to sign in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.connect(cmd.Context())
			if err != nil {
				return err
			}

			u, err := store.Create(cmd.Context(), args[0])
			if errors.Is(err, user.ErrAlreadyExists) {
				return fmt.Errorf("%s is already registered", strings.TrimSpace(args[0]))
			}
			if err != nil {
				return err
			}

			logger.Info("user created", map[string]any{
				"user_id": u.ID.String(),
			})
			fmt.Fprintf(cmd.OutOrStdout(), "created %s %s\n", u.ID, u.Email)
			return nil
		},
	}
}

func newUserListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.connect(cmd.Context())
			if err != nil {
				return err
			}

			users, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(users) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no users")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tEMAIL\tCREATED")
			for _, u := range users {
				fmt.Fprintf(w, "%s\t%s\t%s\n", u.ID, u.Email, u.CreatedAt.UTC().Format(time.RFC3339))
			}
			return w.Flush()
		},
	}
}

func newUserRemoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove ID_OR_EMAIL",
		Short:   "Revoke sign-in for a user",
		Aliases: []string{"rm"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.connect(cmd.Context())
			if err != nil {
				return err
			}

			id, err := uuid.Parse(args[0])
			if err != nil {
				u, findErr := store.FindByEmail(cmd.Context(), args[0])
				if findErr != nil {
					return findErr
				}
				if u == nil {
					return fmt.Errorf("no user %s", args[0])
				}
				id = u.ID
			}

			deleted, err := store.Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !deleted {
				return fmt.Errorf("no user %s", args[0])
			}

			logger.Info("user removed", map[string]any{
				"user_id": id.String(),
			})
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", id)
			return nil
		},
	}
}
