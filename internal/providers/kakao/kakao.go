// Package kakao registra el mapper de Kakao Login.
//
// Payload de /v2/user/me:
//
//	{"id": 123, "kakao_account": {"email": "...",
//	  "profile": {"nickname": "...", "profile_image_url": "..."}}}
package kakao

import (
	"github.com/dropDatabas3/shelfauth/internal/providers"
)

const (
	Tag         = "kakao"
	TokenURL    = "https://kauth.kakao.com/oauth/token"
	UserInfoURL = "https://kapi.kakao.com/v2/user/me"
)

func init() {
	providers.Register(providers.Provider{
		Tag:         Tag,
		Map:         Map,
		TokenURL:    TokenURL,
		UserInfoURL: UserInfoURL,
	})
}

// Map extrae el perfil de la cuenta Kakao.
func Map(payload map[string]any) (providers.Profile, error) {
	id := providers.String(payload, "id")
	if id == "" {
		return providers.Profile{}, providers.ErrInvalidPayload
	}
	account := providers.Object(payload, "kakao_account")
	profile := providers.Object(payload, "kakao_account", "profile")

	return providers.Profile{
		ProviderID: id,
		Email:      providers.String(account, "email"),
		Nickname:   providers.String(profile, "nickname"),
		ImageURL:   providers.String(profile, "profile_image_url"),
	}, nil
}
