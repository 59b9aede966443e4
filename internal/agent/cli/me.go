package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// NewMeCmd выводит профиль текущего пользователя.
func NewMeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Профиль текущего пользователя",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			access, err := app.accessToken()
			if err != nil {
				return err
			}

			p, err := NewAPIClient(app.ServerURL).Me(access)
			if err != nil {
				return err
			}
			return printJSON(cmd, p)
		},
	}
}

func printJSON(cmd *cobra.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}
