// Package digestkey derives fixed-width partition keys from unbounded digests.
package digestkey

import (
	"crypto/sha256"
	"encoding/hex"
)

// PK computes the DynamoDB partition key for a digest. Digests are
// caller-supplied and unbounded while partition keys are not, so the key is
// the first 128 bits of the digest's SHA-256 as hex, fixed-width and evenly
// distributed across partitions.
func PK(digest []byte) string {
	h := sha256.Sum256(digest)
	return hex.EncodeToString(h[:16])
}
