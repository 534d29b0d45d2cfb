// Package helpers contiene utilidades compartidas por los controllers.
package helpers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

// MaxJSONBody límite del body de requests JSON.
const MaxJSONBody = 64 << 10

var (
	// ErrContentType el request no declara application/json.
	ErrContentType = errors.New("content-type must be application/json")
	// ErrBadJSON el body no decodifica.
	ErrBadJSON = errors.New("invalid json body")
)

// ReadJSON decodifica el body en v de forma tolerante (campos desconocidos se
// ignoran). Un body vacío no es error y deja v en su valor cero.
func ReadJSON(w http.ResponseWriter, r *http.Request, v any) error {
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	if ct != "" && !strings.Contains(ct, "application/json") {
		return ErrContentType
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxJSONBody)
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return ErrBadJSON
	}
	return nil
}

// WriteJSON escribe una respuesta JSON estándar.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
