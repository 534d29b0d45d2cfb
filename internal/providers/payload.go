package providers

import (
	"encoding/json"
	"strconv"
)

// Lookup helpers sobre payloads JSON decodificados en map[string]any.

// Object navega claves anidadas; nil si algún tramo falta o no es objeto.
func Object(m map[string]any, path ...string) map[string]any {
	cur := m
	for _, k := range path {
		next, ok := cur[k].(map[string]any)
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

// String lee m[key] como string. Los ids numéricos (float64, json.Number)
// se formatean sin exponente.
func String(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	switch v := m[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}
