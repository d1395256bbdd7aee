// asterix/errors.go
package asterix

import "fmt"

// Core ASTERIX errors
var (
	ErrInvalidMessage  = fmt.Errorf("invalid ASTERIX message")
	ErrInvalidLength   = fmt.Errorf("invalid length")
	ErrInvalidFSPEC    = fmt.Errorf("invalid FSPEC")
	ErrMandatoryField  = fmt.Errorf("mandatory field missing")
	ErrInvalidCategory = fmt.Errorf("invalid category")
	ErrUnknownDataItem = fmt.Errorf("unknown data item")
	ErrInvalidField    = fmt.Errorf("invalid field value")
	ErrUAPNotDefined   = fmt.Errorf("UAP not defined for category")
	ErrFRNOutOfRange   = fmt.Errorf("FRN out of range")
	ErrBufferTooShort  = fmt.Errorf("buffer too short")
	ErrInvalidDataType = fmt.Errorf("invalid data type")
	ErrUnknownCategory = fmt.Errorf("unknown category")

	// MalformedFrame is returned when a data block's CAT/LEN framing cannot
	// be parsed: LEN exceeds the payload, LEN < 3, or leftover bytes cannot
	// be parsed as another block.
	ErrMalformedFrame = fmt.Errorf("malformed ASTERIX frame")

	// ErrUnsupportedCategory is returned for any category outside {10,21,48}.
	ErrUnsupportedCategory = fmt.Errorf("unsupported category")

	// ErrShortItem is returned when a data item would read past the end of
	// its record. The record's already-decoded items are still emitted;
	// remaining items in that record are skipped.
	ErrShortItem = fmt.Errorf("short item: record truncated mid-field")

	// ErrOutOfRange is returned when a decoded engineering-unit value fails
	// a data model invariant (e.g. latitude outside [-90,90]).
	ErrOutOfRange = fmt.Errorf("value out of range")

	// ErrFilterDiverged is returned when a Kalman update's innovation
	// covariance is non-invertible. Callers fall back to the predicted
	// state and leave the covariance unchanged.
	ErrFilterDiverged = fmt.Errorf("kalman filter diverged")

	// ErrChecksumFailure is returned when a KLV packet's checksum does not
	// match its payload.
	ErrChecksumFailure = fmt.Errorf("checksum failure")

	// ErrConfigError is returned for invalid configuration at startup.
	ErrConfigError = fmt.Errorf("configuration error")
)

// ValidationError provides detailed context for validation failures
type ValidationError struct {
	DataItem string
	Field    string
	Value    any
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s.%s: %v - %s",
		e.DataItem, e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidField
}
