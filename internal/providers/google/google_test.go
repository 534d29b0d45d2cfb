package google

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/shelfauth/internal/providers"
)

func TestMap(t *testing.T) {
	prof, err := providers.ExtractProfile(Tag, map[string]any{
		"sub":     "110169484474386276334",
		"email":   "reader@gmail.com",
		"name":    "Ada Reader",
		"picture": "https://lh3.googleusercontent.com/a/x",
	})
	require.NoError(t, err)
	require.Equal(t, "110169484474386276334", prof.ProviderID)
	require.Equal(t, "Ada Reader", prof.Nickname)
	require.Equal(t, "google", prof.Provider)
}

func TestMap_NicknameFallsBackToEmailLocalPart(t *testing.T) {
	prof, err := Map(map[string]any{"sub": "1", "email": "ada@example.com"})
	require.NoError(t, err)
	require.Equal(t, "ada", prof.Nickname)

	_, err = Map(map[string]any{"email": "ada@example.com"})
	require.ErrorIs(t, err, providers.ErrInvalidPayload)
}
