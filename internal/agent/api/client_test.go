package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClient_PostJSON_SetsHeaders_AndDecodesResponse(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/x", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.Equal(t, "application/json", r.Header.Get("Accept"))
		require.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))

		var got map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		require.Equal(t, float64(1), got["a"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	})

	srv := httptest.NewTLSServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL + "/")

	var resp map[string]any
	require.NoError(t, c.PostJSON("/x", map[string]any{"a": 1}, &resp, "token-1"))
	require.Equal(t, true, resp["ok"])
}

func TestClient_PostJSON_NilBody_NoContentType(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/x", func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.Header.Get("Content-Type"))
		require.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	})

	srv := httptest.NewTLSServer(mux)
	defer srv.Close()

	var resp map[string]any
	require.NoError(t, NewClient(srv.URL).PostJSON("/x", nil, &resp, ""))
	require.Nil(t, resp)
}

func TestClient_Non2xx_ReturnsAPIError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"This email is already taken"}`))
	})
	mux.HandleFunc("/text", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("  upstream down \n"))
	})
	mux.HandleFunc("/empty", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	srv := httptest.NewTLSServer(mux)
	defer srv.Close()

	c := NewClient(srv.URL)

	tests := []struct {
		path   string
		status int
		msg    string
	}{
		{"/json", http.StatusConflict, "This email is already taken"},
		{"/text", http.StatusBadGateway, "upstream down"},
		{"/empty", http.StatusInternalServerError, "500 Internal Server Error"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			err := c.GetJSON(tt.path, nil, "")
			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			require.Equal(t, tt.status, apiErr.Status)
			require.Equal(t, tt.msg, apiErr.Message)
		})
	}
}

func TestClient_EmptyBody_IsOK(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/x", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusOK)
	})

	srv := httptest.NewTLSServer(mux)
	defer srv.Close()

	var resp map[string]any
	require.NoError(t, NewClient(srv.URL).DeleteJSON("/x", &resp, "t"))
}

func TestClient_PutJSON(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/x", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		json.NewEncoder(w).Encode(map[string]string{"v": "2"})
	})

	srv := httptest.NewTLSServer(mux)
	defer srv.Close()

	var resp map[string]string
	require.NoError(t, NewClient(srv.URL).PutJSON("/x", map[string]string{"v": "1"}, &resp, "t"))
	require.Equal(t, "2", resp["v"])
}
