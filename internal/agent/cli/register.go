package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	sharedModels "github.com/IvanChernomyrdin/go-shop-api/internal/shared/models"
)

// NewRegisterCmd создаёт команду регистрации.
//
// Пароль можно передать флагом --password, иначе он спрашивается дважды
// (второй раз уходит на сервер как repeat_password).
// После успешной регистрации токены сохраняются, отдельный login не нужен.
//
//	shopctl register --name Ivan --email ivan@example.com
func NewRegisterCmd(app *App) *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Регистрация нового пользователя",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repeat := password
			if password == "" {
				var err error
				if password, err = ReadPassword(cmd, "Password"); err != nil {
					return err
				}
				if repeat, err = ReadPassword(cmd, "Repeat password"); err != nil {
					return err
				}
			}

			c := NewAPIClient(app.ServerURL)
			resp, err := c.Register(sharedModels.RegisterRequest{
				Name:           name,
				Email:          email,
				Password:       password,
				RepeatPassword: repeat,
			})
			if err != nil {
				return err
			}

			app.Creds.Email = email
			if err := app.saveTokens(resp.AccessToken, resp.RefreshToken); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "registration successful (tokens saved)")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name (3-30 chars)")
	cmd.Flags().StringVar(&email, "email", "", "email for registration")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("email")

	return cmd
}
