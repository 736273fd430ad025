package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// GenerateID tạo ULID, tăng dần theo thời gian
func GenerateID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Now(), entropy).String()
}

// IsValidID kiểm tra chuỗi có phải ULID không
func IsValidID(id string) bool {
	_, err := ulid.ParseStrict(id)
	return err == nil
}

// Fingerprint sha256 của chuỗi, dạng "sha256:<hex>"
func Fingerprint(s string) string {
	sum := sha256.Sum256([]byte(s))
	return "sha256:" + hex.EncodeToString(sum[:])
}
