package contentid

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// fingerprintLen is the number of hex characters kept from the digest.
// Long enough to make collisions irrelevant at this scale while keeping
// artifact filenames readable.
const fingerprintLen = 16

// Hash fingerprints a stream of source bytes.
func Hash(r io.Reader) (string, error) {
	digest := sha256.New()
	if _, err := io.Copy(digest, r); err != nil {
		return "", fmt.Errorf("hash content: %w", err)
	}
	return hex.EncodeToString(digest.Sum(nil))[:fingerprintLen], nil
}

// HashBytes fingerprints an in-memory payload.
func HashBytes(data []byte) string {
	digest := sha256.Sum256(data)
	return hex.EncodeToString(digest[:])[:fingerprintLen]
}

// HashText fingerprints pasted text.
func HashText(text string) string {
	return HashBytes([]byte(text))
}

// HashFile fingerprints a file on disk.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open for hashing: %w", err)
	}
	defer f.Close()
	return Hash(f)
}
