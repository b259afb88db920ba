package api

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// decodeImagePayload accepts raw base64 or a data URL
func decodeImagePayload(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if strings.HasPrefix(payload, "data:") {
		idx := strings.Index(payload, ",")
		if idx == -1 || !strings.HasSuffix(payload[:idx], ";base64") {
			return nil, fmt.Errorf("data URL must be base64 encoded")
		}
		payload = payload[idx+1:]
	}
	payload = strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, payload)
	if payload == "" {
		return nil, ErrImageRequired
	}

	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		if data, err := enc.DecodeString(payload); err == nil {
			return data, nil
		}
	}
	return nil, fmt.Errorf("image is not valid base64")
}

// imageHash is the content address of an upload: hex blake2b-256
func imageHash(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}
