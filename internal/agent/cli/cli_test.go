package cli_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-shop-api/internal/agent/cli"
	"github.com/IvanChernomyrdin/go-shop-api/internal/agent/config"
	sharedModels "github.com/IvanChernomyrdin/go-shop-api/internal/shared/models"
)

func newApp(t *testing.T, serverURL string, creds *config.Credentials) *cli.App {
	t.Helper()
	if creds == nil {
		creds = &config.Credentials{}
	}
	return &cli.App{
		ServerURL: serverURL,
		CredsPath: filepath.Join(t.TempDir(), "creds.json"),
		Creds:     creds,
	}
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func tokenHandler(t *testing.T, access, refresh string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sharedModels.TokenResponse{AccessToken: access, RefreshToken: refresh})
	}
}

func TestNewRootCmd_HasExpectedSubcommands(t *testing.T) {
	cmd := cli.NewRootCmd("1.0.0", "2026-01-16")

	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}

	for _, w := range []string{"register", "login", "refresh", "logout", "me", "product", "version"} {
		require.True(t, names[w], "expected subcommand %q", w)
	}
}

func TestNewRootCmd_LoadsCredsFromFlag(t *testing.T) {
	p := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, config.Save(p, &config.Credentials{AccessToken: "a1"}))

	mux := http.NewServeMux()
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer a1", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(sharedModels.Profile{ID: "u1", Email: "ivan@example.com"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	out, err := run(t, cli.NewRootCmd("1.0.0", "2026-01-16"), "--server", srv.URL, "--creds", p, "me")
	require.NoError(t, err)
	require.Contains(t, out, `"email": "ivan@example.com"`)
}

func TestNewRootCmd_BadCredsFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(p, []byte("{not-json"), 0o600))

	_, err := run(t, cli.NewRootCmd("1.0.0", "2026-01-16"), "--creds", p, "version")
	require.Error(t, err)
	require.Contains(t, err.Error(), "load credentials")
}

func TestNewVersionCmd_PrintsVersionAndBuildDate(t *testing.T) {
	out, err := run(t, cli.NewVersionCmd("1.2.3", "2026-01-16"))
	require.NoError(t, err)
	require.Contains(t, out, "version=1.2.3")
	require.Contains(t, out, "build_date=2026-01-16")
}

func TestNewRegisterCmd_WithPasswordFlag_SavesTokens(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/register", func(w http.ResponseWriter, r *http.Request) {
		var req sharedModels.RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "Ivan", req.Name)
		require.Equal(t, "secret123", req.Password)
		require.Equal(t, "secret123", req.RepeatPassword)
		tokenHandler(t, "access-1", "refresh-1")(w, r)
	})
	srv := httptest.NewTLSServer(mux)
	defer srv.Close()

	app := newApp(t, srv.URL, nil)
	out, err := run(t, cli.NewRegisterCmd(app),
		"--name", "Ivan", "--email", "ivan@example.com", "--password", "secret123")
	require.NoError(t, err)
	require.Contains(t, out, "registration successful")

	saved, err := config.Load(app.CredsPath)
	require.NoError(t, err)
	require.Equal(t, "access-1", saved.AccessToken)
	require.Equal(t, "refresh-1", saved.RefreshToken)
	require.Equal(t, "ivan@example.com", saved.Email)
}

func TestNewRegisterCmd_PromptsTwice(t *testing.T) {
	var prompts []string
	orig := cli.ReadPassword
	cli.ReadPassword = func(cmd *cobra.Command, prompt string) (string, error) {
		prompts = append(prompts, prompt)
		if prompt == "Password" {
			return "secret123", nil
		}
		return "other456", nil
	}
	t.Cleanup(func() { cli.ReadPassword = orig })

	mux := http.NewServeMux()
	mux.HandleFunc("/register", func(w http.ResponseWriter, r *http.Request) {
		var req sharedModels.RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "other456", req.RepeatPassword)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"\"repeat_password\" must be [ref:password]"}`))
	})
	srv := httptest.NewTLSServer(mux)
	defer srv.Close()

	app := newApp(t, srv.URL, nil)
	_, err := run(t, cli.NewRegisterCmd(app), "--name", "Ivan", "--email", "ivan@example.com")
	require.Error(t, err)
	require.Contains(t, err.Error(), "repeat_password")
	require.Equal(t, []string{"Password", "Repeat password"}, prompts)

	_, statErr := os.Stat(app.CredsPath)
	require.True(t, os.IsNotExist(statErr))
}

func TestNewLoginCmd_PasswordFromStdin(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		var req sharedModels.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "ivan@example.com", req.Email)
		require.Equal(t, "secret123", req.Password)
		tokenHandler(t, "access-1", "refresh-1")(w, r)
	})
	srv := httptest.NewTLSServer(mux)
	defer srv.Close()

	app := newApp(t, srv.URL, nil)
	cmd := cli.NewLoginCmd(app)
	cmd.SetIn(strings.NewReader("secret123\n"))

	out, err := run(t, cmd, "--email", "ivan@example.com")
	require.NoError(t, err)
	require.Contains(t, out, "login ok (tokens saved)")

	saved, err := config.Load(app.CredsPath)
	require.NoError(t, err)
	require.Equal(t, "access-1", saved.AccessToken)
}

func TestNewLoginCmd_MissingEmail(t *testing.T) {
	_, err := run(t, cli.NewLoginCmd(newApp(t, "http://127.0.0.1:1", nil)), "--password", "x")
	require.Error(t, err)
	require.Contains(t, err.Error(), "required")
}

func TestNewLoginCmd_ServerError_DoesNotWriteCredsFile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid credentials"}`))
	})
	srv := httptest.NewTLSServer(mux)
	defer srv.Close()

	app := newApp(t, srv.URL, nil)
	_, err := run(t, cli.NewLoginCmd(app), "--email", "ivan@example.com", "--password", "wrong")
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid credentials")

	_, statErr := os.Stat(app.CredsPath)
	require.True(t, os.IsNotExist(statErr))
}

func TestNewRefreshCmd(t *testing.T) {
	t.Run("no refresh token", func(t *testing.T) {
		_, err := run(t, cli.NewRefreshCmd(newApp(t, "http://127.0.0.1:1", nil)))
		require.Error(t, err)
		require.Contains(t, err.Error(), "shopctl login")
	})

	t.Run("rotates", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/refresh", tokenHandler(t, "access-2", "refresh-2"))
		srv := httptest.NewTLSServer(mux)
		defer srv.Close()

		app := newApp(t, srv.URL, &config.Credentials{AccessToken: "a1", RefreshToken: "r1"})
		out, err := run(t, cli.NewRefreshCmd(app))
		require.NoError(t, err)
		require.Contains(t, out, "refresh ok")

		saved, err := config.Load(app.CredsPath)
		require.NoError(t, err)
		require.Equal(t, "refresh-2", saved.RefreshToken)
	})
}

func TestNewLogoutCmd_ClearsCreds(t *testing.T) {
	var gotBody sharedModels.RefreshRequest
	mux := http.NewServeMux()
	mux.HandleFunc("/logout", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer a1", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusNoContent)
	})
	srv := httptest.NewTLSServer(mux)
	defer srv.Close()

	app := newApp(t, srv.URL, &config.Credentials{AccessToken: "a1", RefreshToken: "r1"})
	require.NoError(t, config.Save(app.CredsPath, app.Creds))

	out, err := run(t, cli.NewLogoutCmd(app))
	require.NoError(t, err)
	require.Contains(t, out, "logged out")
	require.Equal(t, "r1", gotBody.RefreshToken)

	_, statErr := os.Stat(app.CredsPath)
	require.True(t, os.IsNotExist(statErr))
	require.False(t, app.Creds.LoggedIn())
}

func TestNewMeCmd_NotLoggedIn(t *testing.T) {
	_, err := run(t, cli.NewMeCmd(newApp(t, "http://127.0.0.1:1", nil)))
	require.Error(t, err)
	require.Contains(t, err.Error(), "not logged in")
}

func TestNewProductCmd(t *testing.T) {
	img := filepath.Join(t.TempDir(), "shirt.png")
	require.NoError(t, os.WriteFile(img, []byte("png"), 0o600))

	mux := http.NewServeMux()
	mux.HandleFunc("POST /products", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer admin", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(sharedModels.Product{ID: "p1", Name: r.FormValue("name"), Price: 19.99, Size: "M", Image: "uploads/1-1.png"})
	})
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]sharedModels.Product{{ID: "p1", Name: "Shirt", Price: 19.99, Size: "M", Image: "uploads/1-1.png"}})
	})
	mux.HandleFunc("GET /products/{id}", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(sharedModels.Product{ID: r.PathValue("id"), Name: "Shirt"})
	})
	mux.HandleFunc("DELETE /products/{id}", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(sharedModels.Product{ID: r.PathValue("id"), Name: "Shirt"})
	})
	srv := httptest.NewTLSServer(mux)
	defer srv.Close()

	app := newApp(t, srv.URL, &config.Credentials{AccessToken: "admin"})

	out, err := run(t, cli.NewProductCmd(app), "create", "--name", "Shirt", "--price", "19.99", "--size", "M", "--image", img)
	require.NoError(t, err)
	require.Contains(t, out, `"_id": "p1"`)

	out, err = run(t, cli.NewProductCmd(app), "list")
	require.NoError(t, err)
	require.Contains(t, out, "p1\tShirt\t19.99\tM\tuploads/1-1.png")

	out, err = run(t, cli.NewProductCmd(app), "get", "p1")
	require.NoError(t, err)
	require.Contains(t, out, `"name": "Shirt"`)

	out, err = run(t, cli.NewProductCmd(app), "delete", "p1")
	require.NoError(t, err)
	require.Contains(t, out, "deleted product p1 (Shirt)")
}

func TestNewProductCmd_CreateRequiresLogin(t *testing.T) {
	_, err := run(t, cli.NewProductCmd(newApp(t, "http://127.0.0.1:1", nil)),
		"create", "--name", "Shirt", "--price", "1", "--size", "M", "--image", "x.png")
	require.Error(t, err)
	require.Contains(t, err.Error(), "not logged in")
}
