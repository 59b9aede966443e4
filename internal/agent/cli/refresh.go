package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRefreshCmd создаёт команду обновления пары токенов по сохранённому refresh токену.
//
//	shopctl refresh
func NewRefreshCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Обновить access токен по refresh токену",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Creds.RefreshToken == "" {
				return fmt.Errorf("no refresh_token in config, run: shopctl login")
			}

			c := NewAPIClient(app.ServerURL)
			resp, err := c.Refresh(app.Creds.RefreshToken)
			if err != nil {
				return err
			}
			if err := app.saveTokens(resp.AccessToken, resp.RefreshToken); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "refresh ok (tokens updated)")
			return nil
		},
	}
}
