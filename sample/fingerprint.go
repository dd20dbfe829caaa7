// Package sample owns the lifecycle of the Sampler's materialized sample
// collection: sizing it per §4.2, reusing a compatible existing sample,
// and dropping it when the engine is done.
package sample

import (
	"encoding/hex"
	"strconv"

	"golang.org/x/crypto/blake2b"

	"github.com/sneller-labs/mindexer/driver"
)

// fingerprint identifies a (source namespace, sample size) pair so a
// previously materialized sample can be recognized as reusable, the same
// way the teacher's environment fingerprint (fsenv.go) hashes a tenant's
// root + db name with blake2b to key a cache entry.
func fingerprint(src driver.Namespace, size int64) string {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(src.String()))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatInt(size, 10)))
	return hex.EncodeToString(h.Sum(nil))
}
