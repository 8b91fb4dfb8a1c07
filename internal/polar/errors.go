package polar

import (
	"errors"
	"fmt"
)

// ErrProtectedAngle is returned when deleting or moving the 0 or 180 degree anchor.
var ErrProtectedAngle = errors.New("boundary angles 0 and 180 cannot be deleted or moved")

// ErrInvalidAngle is returned for an angle that is not a finite value in [0, 180].
var ErrInvalidAngle = errors.New("angle must be a finite value between 0 and 180")

// ErrBandNotFound is returned when an operation addresses a wind speed the model lacks.
var ErrBandNotFound = errors.New("wind speed band not found")

// FormatError reports a data line with the wrong token layout.
type FormatError struct {
	Line int
	Msg  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("polar format error on line %d: %s", e.Line, e.Msg)
}

// NumericError reports a token that is not a finite number.
type NumericError struct {
	Line  int
	Token string
}

func (e *NumericError) Error() string {
	return fmt.Sprintf("polar numeric error on line %d: %q is not a finite number", e.Line, e.Token)
}
