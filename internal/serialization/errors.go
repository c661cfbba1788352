package serialization

import (
	"fmt"

	"github.com/pkg/errors"
)

// Sentinel errors, matched with errors.Is.
var (
	ErrChecksumMismatch = errors.New("serialization: sha256 of the data section does not match the header")
	ErrHeaderTooLarge   = errors.New("serialization: header too large")
	ErrUnsupportedDType = errors.New("serialization: unsupported dtype")
	ErrInvalidHeader    = errors.New("serialization: malformed header")
)

// ValidationError reports a header entry that failed validation.
// Type is a stable identifier such as "offset_overlap" or "invalid_name".
type ValidationError struct {
	Type    string
	Tensor  string
	Tensor2 string // Set for errors involving two tensors
	Details string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	switch {
	case e.Tensor2 != "":
		return fmt.Sprintf("serialization: %s between %q and %q: %s", e.Type, e.Tensor, e.Tensor2, e.Details)
	case e.Tensor != "":
		return fmt.Sprintf("serialization: %s in %q: %s", e.Type, e.Tensor, e.Details)
	}
	return fmt.Sprintf("serialization: %s: %s", e.Type, e.Details)
}
