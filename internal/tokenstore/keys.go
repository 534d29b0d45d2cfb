package tokenstore

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
)

// digest es el blake2b-256 hex del token. Las entradas de blacklist se indexan
// por digest, nunca por el token crudo.
func digest(token string) string {
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func refreshKey(prefix, accountID string) string {
	return withPrefix(prefix, "rt:"+accountID)
}

func blacklistKey(prefix, token string) string {
	return withPrefix(prefix, "bl:"+digest(token))
}

func withPrefix(prefix, k string) string {
	if prefix == "" {
		return k
	}
	return prefix + ":" + k
}
