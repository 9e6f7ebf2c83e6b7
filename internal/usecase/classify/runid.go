package classify

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// generateRunID creates a sortable, human-readable run identifier from the
// invocation time and the input fingerprint. Uniqueness comes from the
// nanosecond timestamp folded into the hash.
func generateRunID(timestamp time.Time, fingerprint string) string {
	ts := timestamp.UTC().Format("20060102T150405Z")

	input := fmt.Sprintf("%s|%d", fingerprint, timestamp.UnixNano())
	hash := sha256.Sum256([]byte(input))
	shortHash := hex.EncodeToString(hash[:3])

	return fmt.Sprintf("run-%s-%s", ts, shortHash)
}
