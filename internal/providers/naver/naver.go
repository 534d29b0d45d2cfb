// Package naver registra el mapper de Naver Login.
//
// Payload de /v1/nid/me:
//
//	{"resultcode": "00", "message": "success",
//	 "response": {"id": "...", "email": "...", "nickname": "...", "profile_image": "..."}}
package naver

import (
	"github.com/dropDatabas3/shelfauth/internal/providers"
)

const (
	Tag         = "naver"
	TokenURL    = "https://nid.naver.com/oauth2.0/token"
	UserInfoURL = "https://openapi.naver.com/v1/nid/me"
)

func init() {
	providers.Register(providers.Provider{
		Tag:         Tag,
		Map:         Map,
		TokenURL:    TokenURL,
		UserInfoURL: UserInfoURL,
	})
}

func Map(payload map[string]any) (providers.Profile, error) {
	if code := providers.String(payload, "resultcode"); code != "" && code != "00" {
		return providers.Profile{}, providers.ErrInvalidPayload
	}
	resp := providers.Object(payload, "response")
	id := providers.String(resp, "id")
	if id == "" {
		return providers.Profile{}, providers.ErrInvalidPayload
	}
	return providers.Profile{
		ProviderID: id,
		Email:      providers.String(resp, "email"),
		Nickname:   providers.String(resp, "nickname"),
		ImageURL:   providers.String(resp, "profile_image"),
	}, nil
}
