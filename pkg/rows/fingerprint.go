package rows

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Fingerprint returns a SHA-256 digest of the row set's canonical JSON
// serialization. Two row sets with identical (position, text, paid)
// sequences in identical order yield the same digest; any difference in any
// field or in ordering changes it. The sync loop uses the digest as a cheap
// equality oracle to skip reconciliation when nothing changed.
func (rs RowSet) Fingerprint() string {
	if rs == nil {
		rs = RowSet{}
	}
	// Struct field order is fixed, so json.Marshal is canonical here.
	data, err := json.Marshal(rs)
	if err != nil {
		// A RowSet of strings, ints and bools cannot fail to marshal.
		panic(err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
