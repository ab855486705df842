package hashdb

import (
	"errors"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrConsistency reports that a uniqueness conflict fired but the winning
// row could not be read back. It marks a logic fault, not a transient
// condition; callers must not retry.
var ErrConsistency = errors.New("fingerprint store consistency fault")

// isUniqueViolation recognizes the constraint error another writer triggers
// when it lands the same fingerprint first.
func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	code := serr.Code()
	return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code&0xff == sqlite3.SQLITE_CONSTRAINT
}
