package serialization

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Header limits. Anything larger is treated as hostile input.
const (
	MaxHeaderSize    = 100 << 20
	MaxTensorCount   = 100_000
	MaxTensorNameLen = 4096
)

// ValidationLevel selects which header checks Read performs.
type ValidationLevel int

const (
	// ValidationStrict runs every check, including region overlaps. Default.
	ValidationStrict ValidationLevel = iota
	// ValidationNormal checks names, counts, shapes and sizes.
	ValidationNormal
	// ValidationNone trusts the header.
	ValidationNone
)

// ValidateTensorOffsets checks that every tensor lies inside the data
// section and that no two regions share a byte.
func ValidateTensorOffsets(tensors []TensorMeta, dataSize int64) error {
	byOffset := slices.Clone(tensors)
	slices.SortStableFunc(byOffset, func(a, b TensorMeta) int {
		return cmp.Or(cmp.Compare(a.Offset, b.Offset), cmp.Compare(a.Size, b.Size))
	})

	var prev *TensorMeta
	for i := range byOffset {
		t := &byOffset[i]
		end := t.Offset + t.Size
		switch {
		case t.Offset < 0 || t.Size < 0:
			return &ValidationError{Type: "negative_offset", Tensor: t.Name,
				Details: fmt.Sprintf("region starts at %d with %d bytes", t.Offset, t.Size)}
		case end > dataSize:
			return &ValidationError{Type: "out_of_bounds", Tensor: t.Name,
				Details: fmt.Sprintf("region [%d, %d) exceeds the %d-byte data section", t.Offset, end, dataSize)}
		case prev != nil && prev.Offset+prev.Size > t.Offset:
			return &ValidationError{Type: "offset_overlap", Tensor: prev.Name, Tensor2: t.Name,
				Details: fmt.Sprintf("[%d, %d) runs into [%d, %d)", prev.Offset, prev.Offset+prev.Size, t.Offset, end)}
		}
		prev = t
	}
	return nil
}

// ValidateTensorName rejects names that are empty, oversized, reserved or
// could be mistaken for a file path.
func ValidateTensorName(name string) error {
	reason := ""
	switch {
	case name == "":
		reason = "empty name"
	case len(name) > MaxTensorNameLen:
		return &ValidationError{Type: "name_too_long", Tensor: name[:32] + "...",
			Details: fmt.Sprintf("%d bytes, limit %d", len(name), MaxTensorNameLen)}
	case name == metadataKey:
		reason = "reserved for metadata"
	case strings.Contains(name, ".."):
		reason = `contains ".."`
	case strings.ContainsAny(name, `/\`):
		reason = "contains a path separator"
	case strings.ContainsRune(name, 0):
		reason = "contains a NUL byte"
	}
	if reason != "" {
		return &ValidationError{Type: "invalid_name", Tensor: name, Details: reason}
	}
	return nil
}

// ValidateHeader checks h against a data section of dataSize bytes.
func ValidateHeader(h *Header, dataSize int64, level ValidationLevel) error {
	if level == ValidationNone {
		return nil
	}
	if n := len(h.Tensors); n > MaxTensorCount {
		return &ValidationError{Type: "too_many_tensors",
			Details: fmt.Sprintf("%d tensors, limit %d", n, MaxTensorCount)}
	}

	for _, t := range h.Tensors {
		if err := ValidateTensorName(t.Name); err != nil {
			return err
		}
		if slices.ContainsFunc(t.Shape, func(d int) bool { return d < 0 }) {
			return &ValidationError{Type: "invalid_shape", Tensor: t.Name,
				Details: fmt.Sprintf("negative extent in %v", t.Shape)}
		}
		if want := t.NumElements() * int64(t.DType.Size()); want != t.Size {
			return &ValidationError{Type: "size_mismatch", Tensor: t.Name,
				Details: fmt.Sprintf("%s%v needs %d bytes, region holds %d", t.DType, t.Shape, want, t.Size)}
		}
	}

	if level == ValidationStrict {
		return ValidateTensorOffsets(h.Tensors, dataSize)
	}
	return nil
}
