package datastore

import (
	"database/sql"
	"errors"
	"fmt"
)

// NoRowsError is returned when a lookup matches nothing
type NoRowsError struct {
	NoRows bool
	Err    error
}

func (nr NoRowsError) Error() string {
	return fmt.Sprintf("%v: no rows returned for scan: %v", nr.NoRows, nr.Err)
}

func (nr NoRowsError) Unwrap() error {
	return nr.Err
}

// IsNotFound reports whether err is, or wraps, a NoRowsError
func IsNotFound(err error) bool {
	var nr NoRowsError
	return errors.As(err, &nr)
}

func noRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return NoRowsError{true, err}
	}
	return err
}
