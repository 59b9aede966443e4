// В этом файле описаны методы клиента для эндпоинтов аутентификации:
// регистрация, вход, обновление токенов, выход и профиль.
package api

import (
	sharedModels "github.com/IvanChernomyrdin/go-shop-api/internal/shared/models"
)

// Register регистрирует пользователя и возвращает пару токенов.
//
//	POST /register
func (c *Client) Register(req sharedModels.RegisterRequest) (sharedModels.TokenResponse, error) {
	var resp sharedModels.TokenResponse
	err := c.PostJSON("/register", req, &resp, "")
	return resp, err
}

// Login выполняет вход и возвращает пару токенов.
//
//	POST /login
func (c *Client) Login(email, password string) (sharedModels.TokenResponse, error) {
	var resp sharedModels.TokenResponse
	err := c.PostJSON("/login", sharedModels.LoginRequest{Email: email, Password: password}, &resp, "")
	return resp, err
}

// Refresh меняет refresh токен на новую пару.
//
//	POST /refresh
func (c *Client) Refresh(refreshToken string) (sharedModels.TokenResponse, error) {
	var resp sharedModels.TokenResponse
	err := c.PostJSON("/refresh", sharedModels.RefreshRequest{RefreshToken: refreshToken}, &resp, "")
	return resp, err
}

// Logout отзывает refresh токен. Пустой refreshToken завершает все сессии пользователя.
//
//	POST /logout
func (c *Client) Logout(accessToken, refreshToken string) error {
	var req any
	if refreshToken != "" {
		req = sharedModels.RefreshRequest{RefreshToken: refreshToken}
	}
	return c.PostJSON("/logout", req, nil, accessToken)
}

// Me возвращает профиль владельца accessToken.
//
//	GET /me
func (c *Client) Me(accessToken string) (sharedModels.Profile, error) {
	var resp sharedModels.Profile
	err := c.GetJSON("/me", &resp, accessToken)
	return resp, err
}
