// Package incremental decides, per build, which outputs are stale and which are orphaned.
package incremental

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"os"
)

const chunkSize = 4096

// HashFile returns the lowercase hex SHA-256 of the file at path, or "" when the file
// cannot be opened or read. An empty hash never matches a stored one.
func HashFile(path string) string {
	f, err := os.Open(path) // #nosec G304 -- paths come from the content and theme walk
	if err != nil {
		return ""
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	buf := make([]byte, chunkSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			_, _ = h.Write(buf[:n])
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return ""
		}
	}
	return hex.EncodeToString(h.Sum(nil))
}

// HashBytes hashes in-memory data; it agrees with HashFile for identical bytes.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
