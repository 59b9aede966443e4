package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLoginCmd создаёт команду входа: получает пару токенов и сохраняет её локально.
//
//	shopctl login --email ivan@example.com
func NewLoginCmd(app *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Логин пользователя (получить access/refresh токены)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := passwordOrPrompt(cmd, password, "Password")
			if err != nil {
				return err
			}

			c := NewAPIClient(app.ServerURL)
			resp, err := c.Login(email, pw)
			if err != nil {
				return err
			}

			app.Creds.Email = email
			if err := app.saveTokens(resp.AccessToken, resp.RefreshToken); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "login ok (tokens saved)")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email for login")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	cmd.MarkFlagRequired("email")

	return cmd
}
