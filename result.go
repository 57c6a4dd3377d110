package campsync

// Result reports what one tick did.
type Result struct {
	// Rows is how many display rows the source currently yields.
	Rows int

	// Updates and Colors count the instructions applied. Zero when Skipped.
	Updates int
	Colors  int

	// Added, Changed, Removed break the cell updates down.
	Added   int
	Changed int
	Removed int

	// Summary is the reconciler's human-readable change line.
	Summary string

	// Skipped is true when the fingerprint matched the last accepted one
	// and reconciliation was skipped entirely.
	Skipped bool

	// Fingerprint is the digest of the row set this tick produced.
	Fingerprint string
}
