// Package admin contiene DTOs de los endpoints administrativos.
package admin

// PingResponse confirma que el caller pasó los guards de admin.
type PingResponse struct {
	Status    string `json:"status"`
	AccountID string `json:"accountId"`
}
