package sqlite

import (
	"errors"

	msqlite "modernc.org/sqlite"
)

// sqliteConstraint is the primary result code shared by all constraint
// violations (unique, foreign key, check, not null).
const sqliteConstraint = 19

// IsConstraint reports whether err comes from a violated table constraint,
// such as a duplicate unique key or a dangling foreign key.
func IsConstraint(err error) bool {
	var se *msqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code()&0xff == sqliteConstraint
}
