package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-shop-api/internal/agent/config"
)

// NewLogoutCmd создаёт команду выхода.
//
// По умолчанию отзывается только сохранённый refresh токен, с --all все сессии.
// Локальный файл удаляется в любом случае после ответа сервера.
func NewLogoutCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Выйти (отозвать refresh токен)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			access, err := app.accessToken()
			if err != nil {
				return err
			}

			refresh := app.Creds.RefreshToken
			if all {
				refresh = ""
			}

			c := NewAPIClient(app.ServerURL)
			if err := c.Logout(access, refresh); err != nil {
				return err
			}
			if err := config.Clear(app.CredsPath); err != nil {
				return err
			}
			app.Creds = &config.Credentials{}

			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "revoke every session of the user")

	return cmd
}
