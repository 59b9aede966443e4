// Package main содержит точку входа shopctl, консольного клиента Shop API.
//
// Пакет передаёт информацию о версии и дате сборки в CLI-слой.
package main

import "github.com/IvanChernomyrdin/go-shop-api/internal/agent/cli"

var (
	// buildVersion задаётся при сборке через -ldflags.
	buildVersion = "dev"
	// buildDate задаётся при сборке через -ldflags.
	buildDate = "unknown"
)

func main() {
	cli.Execute(buildVersion, buildDate)
}
