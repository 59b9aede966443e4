package cli

import (
	"github.com/IvanChernomyrdin/go-shop-api/internal/agent/api"
)

// для тестов
var (
	NewAPIClient = api.NewClient
	ReadPassword = readPassword
)
