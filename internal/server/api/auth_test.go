package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/IvanChernomyrdin/go-shop-api/internal/server/crypto"
	srvmodels "github.com/IvanChernomyrdin/go-shop-api/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-shop-api/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-shop-api/internal/shared/models"
)

func bob() models.RegisterRequest {
	return models.RegisterRequest{
		Name:           "Bob",
		Email:          "bob@x.io",
		Password:       "abc123",
		RepeatPassword: "abc123",
	}
}

// Регистрация: 200 и access_token с _id и role новой записи
func TestRegister_OK(t *testing.T) {
	h, d := NewTestHandler(t)

	userID := uuid.New()

	d.users.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u srvmodels.User) (srvmodels.User, error) {
			u.ID = userID
			return u, nil
		})
	d.sessions.EXPECT().
		Create(gomock.Any(), userID, gomock.Any(), gomock.Any()).
		Return(uuid.New(), nil)

	rr := httptest.NewRecorder()
	h.Register(rr, jsonRequest(t, http.MethodPost, "/register", bob()))

	require.Equal(t, http.StatusOK, rr.Code)

	var resp models.TokenResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.NotEmpty(t, resp.RefreshToken)

	id, err := crypto.ParseAccessToken(resp.AccessToken, d.jwt())
	require.NoError(t, err)
	require.Equal(t, userID, id.UserID)
	require.Equal(t, srvmodels.RoleCustomer, id.Role)
}

// Повторная регистрация того же email: 409, второй пользователь не создаётся
func TestRegister_DuplicateEmail(t *testing.T) {
	h, d := NewTestHandler(t)

	created := 0
	d.users.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u srvmodels.User) (srvmodels.User, error) {
			if created > 0 {
				return srvmodels.User{}, serr.ErrAlreadyExists
			}
			created++
			u.ID = uuid.New()
			return u, nil
		}).
		Times(2)
	d.sessions.EXPECT().
		Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(uuid.New(), nil).
		Times(1)

	rr := httptest.NewRecorder()
	h.Register(rr, jsonRequest(t, http.MethodPost, "/register", bob()))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.Register(rr, jsonRequest(t, http.MethodPost, "/register", bob()))
	require.Equal(t, http.StatusConflict, rr.Code)
	require.Equal(t, "This email is already taken", decodeError(t, rr))
	require.Equal(t, 1, created)
}

func TestRegister_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body any
		msg  string
	}{
		{
			name: "short name",
			body: models.RegisterRequest{Name: "Bo", Email: "bob@x.io", Password: "abc123", RepeatPassword: "abc123"},
			msg:  `"name" length must be at least 3 characters long`,
		},
		{
			name: "bad email",
			body: models.RegisterRequest{Name: "Bob", Email: "bob", Password: "abc123", RepeatPassword: "abc123"},
			msg:  `"email" must be a valid email`,
		},
		{
			name: "password mismatch",
			body: models.RegisterRequest{Name: "Bob", Email: "bob@x.io", Password: "abc123", RepeatPassword: "zzz999"},
			msg:  `"repeat_password" must match "password"`,
		},
		{
			name: "unknown field",
			body: `{"name":"Bob","email":"bob@x.io","password":"abc123","repeat_password":"abc123","admin":true}`,
			msg:  `"admin" is not allowed`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := NewTestHandler(t)

			rr := httptest.NewRecorder()
			h.Register(rr, jsonRequest(t, http.MethodPost, "/register", tt.body))

			require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
			require.Equal(t, tt.msg, decodeError(t, rr))
		})
	}
}

func TestRegister_BadJSON(t *testing.T) {
	h, _ := NewTestHandler(t)

	rr := httptest.NewRecorder()
	h.Register(rr, jsonRequest(t, http.MethodPost, "/register", `{"name":`))

	require.Equal(t, http.StatusBadRequest, rr.Code)
	require.Equal(t, serr.ErrBadJSON.Error(), decodeError(t, rr))
}

// Логин: ответ той же формы, что и у регистрации
func TestLogin_OK(t *testing.T) {
	h, d := NewTestHandler(t)

	userID := uuid.New()
	hash, err := crypto.BcryptHasher{Cost: 4}.Hash("abc123")
	require.NoError(t, err)

	d.users.EXPECT().
		GetByEmail(gomock.Any(), "bob@x.io").
		Return(srvmodels.User{ID: userID, Email: "bob@x.io", PasswordHash: hash, Role: srvmodels.RoleAdmin}, nil)
	d.sessions.EXPECT().
		Create(gomock.Any(), userID, gomock.Any(), gomock.Any()).
		Return(uuid.New(), nil)

	rr := httptest.NewRecorder()
	h.Login(rr, jsonRequest(t, http.MethodPost, "/login", models.LoginRequest{Email: "bob@x.io", Password: "abc123"}))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp models.TokenResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))

	id, err := crypto.ParseAccessToken(resp.AccessToken, d.jwt())
	require.NoError(t, err)
	require.Equal(t, srvmodels.RoleAdmin, id.Role)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	h, d := NewTestHandler(t)

	d.users.EXPECT().
		GetByEmail(gomock.Any(), "bob@x.io").
		Return(srvmodels.User{}, serr.ErrNotFound)

	rr := httptest.NewRecorder()
	h.Login(rr, jsonRequest(t, http.MethodPost, "/login", models.LoginRequest{Email: "bob@x.io", Password: "abc123"}))

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, serr.ErrInvalidCredentials.Error(), decodeError(t, rr))
}

func TestRefresh_Unauthorized(t *testing.T) {
	h, d := NewTestHandler(t)

	d.sessions.EXPECT().
		GetByRefreshHash(gomock.Any(), crypto.HashRefreshToken("unknown")).
		Return(srvmodels.Session{}, serr.ErrUnauthorized)

	rr := httptest.NewRecorder()
	h.Refresh(rr, jsonRequest(t, http.MethodPost, "/refresh", models.RefreshRequest{RefreshToken: "unknown"}))

	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestMe(t *testing.T) {
	h, d := NewTestHandler(t)

	userID := uuid.New()
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	d.users.EXPECT().
		GetByID(gomock.Any(), userID).
		Return(srvmodels.User{ID: userID, Name: "Bob", Email: "bob@x.io", PasswordHash: "secret-hash", Role: srvmodels.RoleCustomer, CreatedAt: created}, nil)

	req := withIdentity(httptest.NewRequest(http.MethodGet, "/me", nil), crypto.Identity{UserID: userID, Role: srvmodels.RoleCustomer})
	rr := httptest.NewRecorder()
	h.Me(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotContains(t, rr.Body.String(), "secret-hash")
	require.JSONEq(t, `{
		"_id": "`+userID.String()+`",
		"name": "Bob",
		"email": "bob@x.io",
		"role": "customer",
		"createdAt": "2024-01-02T03:04:05Z"
	}`, rr.Body.String())
}

func TestMe_NoIdentity(t *testing.T) {
	h, _ := NewTestHandler(t)

	rr := httptest.NewRecorder()
	h.Me(rr, httptest.NewRequest(http.MethodGet, "/me", nil))

	require.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLogout(t *testing.T) {
	h, d := NewTestHandler(t)

	userID := uuid.New()
	id := crypto.Identity{UserID: userID, Role: srvmodels.RoleCustomer}

	d.sessions.EXPECT().
		RevokeByHash(gomock.Any(), userID, crypto.HashRefreshToken("r1")).
		Return(nil)

	rr := httptest.NewRecorder()
	h.Logout(rr, withIdentity(jsonRequest(t, http.MethodPost, "/logout", models.RefreshRequest{RefreshToken: "r1"}), id))
	require.Equal(t, http.StatusNoContent, rr.Code)

	// пустое тело — выход со всех устройств
	d.sessions.EXPECT().
		RevokeAllForUser(gomock.Any(), userID).
		Return(nil)

	rr = httptest.NewRecorder()
	h.Logout(rr, withIdentity(jsonRequest(t, http.MethodPost, "/logout", nil), id))
	require.Equal(t, http.StatusNoContent, rr.Code)
}
