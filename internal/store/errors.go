package store

import (
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrInvalidReference is returned when a row references a parent that does not exist.
	ErrInvalidReference = errors.New("invalid reference")

	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("duplicate value")
)

// translate maps SQLite constraint failures onto the package's sentinel
// errors. Other errors are returned unchanged.
func translate(err error) error {
	if err == nil {
		return nil
	}

	var se *sqlite.Error
	if !errors.As(err, &se) {
		return err
	}

	code := se.Code()
	if code&0xff != sqlite3.SQLITE_CONSTRAINT {
		return err
	}

	switch {
	case code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY,
		strings.Contains(se.Error(), "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%w: %v", ErrInvalidReference, err)
	case code == sqlite3.SQLITE_CONSTRAINT_UNIQUE,
		code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY,
		strings.Contains(se.Error(), "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}
