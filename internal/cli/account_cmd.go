package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/weekplan/internal/domain"
)

func newLoginCmd(app *App) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the backend and sync the planner there",
		RunE: func(cmd *cobra.Command, args []string) error {
			acct, err := app.account()
			if err != nil {
				return err
			}
			if password == "" {
				if password, err = app.promptPassword(); err != nil {
					return err
				}
			}
			u, err := acct.Login(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			if err := app.reload(cmd); err != nil {
				return err
			}
			printf(cmd, "Signed in as %s\n", describeUser(u))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newRegisterCmd(app *App) *cobra.Command {
	var reg domain.Registration
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a backend account and sign in",
		RunE: func(cmd *cobra.Command, args []string) error {
			acct, err := app.account()
			if err != nil {
				return err
			}
			if reg.Password == "" {
				if reg.Password, err = app.promptPassword(); err != nil {
					return err
				}
			}
			u, err := acct.Register(cmd.Context(), reg)
			if err != nil {
				return fmt.Errorf("registration failed: %w", err)
			}
			if err := app.reload(cmd); err != nil {
				return err
			}
			printf(cmd, "Welcome, %s\n", describeUser(u))
			return nil
		},
	}
	cmd.Flags().StringVar(&reg.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&reg.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&reg.Password, "password", "", "Password, at least 8 characters (prompted when omitted)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out; the planner falls back to local data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			acct, err := app.account()
			if err != nil {
				return err
			}
			if err := acct.Logout(cmd.Context()); err != nil {
				return err
			}
			printf(cmd, "Signed out\n")
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var u *domain.User
			if app.Account != nil {
				u = app.Account.User()
			}
			if u == nil {
				printf(cmd, "guest (local only)\n")
				return nil
			}
			printf(cmd, "%s\n", describeUser(u))
			return nil
		},
	}
}

// reload waits for the planner to switch over to the new session's data.
func (a *App) reload(cmd *cobra.Command) error {
	if a.Planner == nil {
		return nil
	}
	if err := a.Planner.LoadInitialSnapshot(cmd.Context()); err != nil {
		return err
	}
	return a.Planner.Flush(cmd.Context())
}

func describeUser(u *domain.User) string {
	if u.Name == "" {
		return u.Email
	}
	return fmt.Sprintf("%s <%s>", u.Name, u.Email)
}
