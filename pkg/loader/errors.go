package loader

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound  = errors.New("input file not found")
	ErrParse     = errors.New("input file could not be parsed")
	ErrEmptyData = errors.New("input file contains no records")
)

// ColumnMissingError is returned when the header lacks required columns.
type ColumnMissingError struct {
	Missing []string
}

func (e *ColumnMissingError) Error() string {
	return fmt.Sprintf("missing required column(s): %s", strings.Join(e.Missing, ", "))
}
