package serialization

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
	"github.com/x448/float16"
)

// DType is a SafeTensors element type.
type DType string

// Supported element types.
const (
	F32 DType = "F32"
	F16 DType = "F16"
)

// Size returns the bytes per element.
func (d DType) Size() int {
	switch d {
	case F32:
		return 4
	case F16:
		return 2
	}
	return 0
}

// ParseDType validates a dtype name from a header.
func ParseDType(s string) (DType, error) {
	switch d := DType(s); d {
	case F32, F16:
		return d, nil
	}
	return "", errors.Wrapf(ErrUnsupportedDType, "%q", s)
}

// Metadata keys written into "__metadata__".
const (
	MetaFormat   = "format"
	MetaRunID    = "run_id"
	MetaDType    = "dtype"
	MetaChecksum = "sha256"

	// FormatName identifies files written by this package.
	FormatName = "born-matrix"

	metadataKey = "__metadata__"
)

// Header is the decoded SafeTensors header.
type Header struct {
	Tensors  []TensorMeta      // Sorted by offset
	Metadata map[string]string // "__metadata__" contents, may be nil
}

// TensorMeta describes one tensor of the data section.
type TensorMeta struct {
	Name   string
	DType  DType
	Shape  []int
	Offset int64 // Bytes from the start of the data section
	Size   int64 // Bytes
}

// NumElements returns the element count implied by the shape.
func (t TensorMeta) NumElements() int64 {
	n := int64(1)
	for _, d := range t.Shape {
		n *= int64(d)
	}
	return n
}

// safeTensorEntry is the JSON form of one header entry.
type safeTensorEntry struct {
	DType       string   `json:"dtype"`
	Shape       []int64  `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"`
}

// encode appends values in dtype d to dst.
func encode(dst []byte, values []float32, d DType) []byte {
	switch d {
	case F16:
		for _, v := range values {
			dst = binary.LittleEndian.AppendUint16(dst, float16.Fromfloat32(v).Bits())
		}
	default:
		for _, v := range values {
			dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v))
		}
	}
	return dst
}

// decode widens raw elements of dtype d into float32 values.
func decode(raw []byte, d DType) []float32 {
	n := len(raw) / d.Size()
	out := make([]float32, n)
	switch d {
	case F16:
		for i := range out {
			out[i] = float16.Frombits(binary.LittleEndian.Uint16(raw[i*2:])).Float32()
		}
	default:
		for i := range out {
			out[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
		}
	}
	return out
}
