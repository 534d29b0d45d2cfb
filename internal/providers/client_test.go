package providers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/shelfauth/internal/providers"
	_ "github.com/dropDatabas3/shelfauth/internal/providers/kakao"
)

func newUpstream(t *testing.T, tokenStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		w.Header().Set("Content-Type", "application/json")
		if r.PostForm.Get("code") != "good-code" || r.PostForm.Get("grant_type") != "authorization_code" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid_grant", "error_description": "bad code"})
			return
		}
		w.WriteHeader(tokenStatus)
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "upstream-at", "token_type": "bearer"})
	})
	mux.HandleFunc("/v2/user/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer upstream-at" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 2905123456, "kakao_account": {"email": "r@example.com",
			"profile": {"nickname": "reader", "profile_image_url": "https://img.example/r.png"}}}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newClient(srv *httptest.Server) *providers.Client {
	return providers.NewClient(nil, map[string]providers.Credentials{
		"kakao": {
			ClientID:     "cid",
			ClientSecret: "secret",
			TokenURL:     srv.URL + "/oauth/token",
			UserInfoURL:  srv.URL + "/v2/user/me",
		},
	}, srv.Client())
}

func TestClient_Login(t *testing.T) {
	srv := newUpstream(t, http.StatusOK)

	prof, err := newClient(srv).Login(context.Background(), "kakao", "good-code")
	require.NoError(t, err)
	require.Equal(t, providers.Profile{
		ProviderID: "2905123456",
		Email:      "r@example.com",
		Nickname:   "reader",
		ImageURL:   "https://img.example/r.png",
		Provider:   "kakao",
	}, prof)
}

func TestClient_ExchangeFailure(t *testing.T) {
	srv := newUpstream(t, http.StatusOK)

	_, err := newClient(srv).Login(context.Background(), "kakao", "bad-code")
	require.ErrorIs(t, err, providers.ErrProviderExchange)
}

func TestClient_TokenEndpointStatus(t *testing.T) {
	srv := newUpstream(t, http.StatusBadGateway)

	_, err := newClient(srv).Login(context.Background(), "kakao", "good-code")
	require.ErrorIs(t, err, providers.ErrProviderExchange)
}

func TestClient_UnsupportedAndUnconfigured(t *testing.T) {
	srv := newUpstream(t, http.StatusOK)
	c := newClient(srv)

	_, err := c.Login(context.Background(), "myspace", "good-code")
	require.ErrorIs(t, err, providers.ErrUnsupportedProvider)

	// registrado pero sin credenciales
	empty := providers.NewClient(nil, nil, srv.Client())
	_, err = empty.Login(context.Background(), "kakao", "good-code")
	require.ErrorIs(t, err, providers.ErrUnsupportedProvider)

	_, err = c.Login(context.Background(), "kakao", "  ")
	require.ErrorIs(t, err, providers.ErrMissingCode)

	require.Equal(t, []string{"kakao"}, c.Enabled())
}
