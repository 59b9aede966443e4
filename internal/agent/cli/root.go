// Package cli реализует командный интерфейс shopctl, консольного клиента магазина.
//
// Пакет отвечает за:
//   - определение root-команды и набора подкоманд;
//   - разбор аргументов и флагов командной строки;
//   - загрузку локальных учётных данных (access/refresh токены) из файла;
//   - выполнение команд и вывод результата пользователю.
//
// Точка входа пакета — функция Execute.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/IvanChernomyrdin/go-shop-api/internal/agent/config"
)

const defaultServerURL = "http://127.0.0.1:8080"

// App содержит состояние CLI-приложения, разделяемое между командами.
type App struct {
	// ServerURL — базовый URL сервера (например, "http://127.0.0.1:8080").
	ServerURL string

	// CredsPath — путь к файлу с сохранёнными токенами.
	CredsPath string
	// Creds — загруженные учётные данные. nil до PersistentPreRunE.
	Creds *config.Credentials
}

// accessToken возвращает сохранённый access токен или ошибку с подсказкой.
func (a *App) accessToken() (string, error) {
	if !a.Creds.LoggedIn() {
		return "", fmt.Errorf("not logged in, run: shopctl login")
	}
	return a.Creds.AccessToken, nil
}

// saveTokens запоминает пару токенов и пишет файл.
func (a *App) saveTokens(access, refresh string) error {
	a.Creds.AccessToken = access
	a.Creds.RefreshToken = refresh
	return config.Save(a.CredsPath, a.Creds)
}

// NewRootCmd создаёт root-команду CLI и регистрирует подкоманды.
//
// buildVersion и buildDate выводятся командой version.
// В PersistentPreRunE определяется путь к файлу учётных данных и загружаются токены.
func NewRootCmd(buildVersion, buildDate string) *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "shopctl",
		Short:         "shopctl — консольный клиент Shop API",
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `shopctl — консольный клиент Shop API.

Примеры:

Регистрация:
  shopctl register --name Ivan --email ivan@example.com

Логин (токены сохраняются в ~/.shopctl/credentials.json):
  shopctl login --email ivan@example.com

Профиль:
  shopctl me

Товары:
  shopctl product list
  shopctl product create --name Shirt --price 19.99 --size M --image ./shirt.png
`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.CredsPath == "" {
				p, err := config.DefaultPath()
				if err != nil {
					return err
				}
				app.CredsPath = p
			}

			creds, err := config.Load(app.CredsPath)
			if err != nil {
				return fmt.Errorf("load credentials %s: %w", app.CredsPath, err)
			}
			app.Creds = creds
			return nil
		},
	}

	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().StringVar(&app.ServerURL, "server", envOr("SHOPCTL_SERVER", defaultServerURL), "server base URL")
	cmd.PersistentFlags().StringVar(&app.CredsPath, "creds", "", "credentials file (default ~/.shopctl/credentials.json)")

	cmd.AddCommand(NewRegisterCmd(app))
	cmd.AddCommand(NewLoginCmd(app))
	cmd.AddCommand(NewRefreshCmd(app))
	cmd.AddCommand(NewLogoutCmd(app))
	cmd.AddCommand(NewMeCmd(app))
	cmd.AddCommand(NewProductCmd(app))
	cmd.AddCommand(NewVersionCmd(buildVersion, buildDate))

	return cmd
}

// Execute запускает обработку CLI-команд.
// При ошибке сообщение выводится в stderr, процесс завершается с кодом 1.
func Execute(buildVersion, buildDate string) {
	if err := NewRootCmd(buildVersion, buildDate).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
