package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// CalculateHash returns the hex HMAC-SHA256 of data under key. An empty key
// disables signing and yields an empty string.
func CalculateHash(data, key string) string {
	if key == "" {
		return ""
	}
	h := hmac.New(sha256.New, []byte(key))
	h.Write([]byte(data))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyHash checks a hex HMAC received alongside data. With an empty key
// verification is skipped.
func VerifyHash(data, key, hash string) error {
	if key == "" {
		return nil
	}
	expected := CalculateHash(data, key)
	if !hmac.Equal([]byte(expected), []byte(hash)) {
		return errors.New("hash mismatch")
	}
	return nil
}
