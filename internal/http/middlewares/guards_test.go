package middlewares

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	httperrors "github.com/dropDatabas3/shelfauth/internal/http/errors"
)

func runGuarded(t *testing.T, id *Identity, guards ...Guard) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	ran := false
	h := Require(guards...)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ran = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	if id != nil {
		req = req.WithContext(WithIdentity(req.Context(), id))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, ran
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Code
}

func TestRequire_AuthenticatedAdminComposition(t *testing.T) {
	// anónimo
	rec, ran := runGuarded(t, nil, Authenticated, Admin)
	require.False(t, ran)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "UNAUTHORIZED", errorCode(t, rec))
	require.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))

	// autenticado sin admin
	rec, ran = runGuarded(t, &Identity{AccountID: "a1"}, Authenticated, Admin)
	require.False(t, ran)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "FORBIDDEN", errorCode(t, rec))

	// admin
	rec, ran = runGuarded(t, &Identity{AccountID: "a2", Admin: true}, Authenticated, Admin)
	require.True(t, ran)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequire_ShortCircuitsInOrder(t *testing.T) {
	called := []string{}
	track := func(name string, deny bool) Guard {
		return Guard{Name: name, Check: func(*Identity) *httperrors.AppError {
			called = append(called, name)
			if deny {
				return httperrors.ErrForbidden
			}
			return nil
		}}
	}

	_, ran := runGuarded(t, &Identity{AccountID: "a1"}, track("first", false), track("second", true), track("third", false))
	require.False(t, ran)
	require.Equal(t, []string{"first", "second"}, called)
}

func TestRequire_NoGuardsRunsHandler(t *testing.T) {
	_, ran := runGuarded(t, nil)
	require.True(t, ran)
}
