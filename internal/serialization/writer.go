package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"io"
	"os"
	"sort"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/born-ml/matrix/internal/tensor"
)

// WriteOptions configures a SafeTensors write.
type WriteOptions struct {
	DType    DType             // Element type on disk (default F32)
	Metadata map[string]string // Extra "__metadata__" entries
}

// Write encodes tensors in SafeTensors layout to w.
//
// Tensors are written in alphabetical order by name. The returned Header
// describes what was written, including the generated metadata.
func Write(w io.Writer, tensors map[string]*tensor.Matrix, opts WriteOptions) (Header, error) {
	dtype := opts.DType
	if dtype == "" {
		dtype = F32
	}
	if _, err := ParseDType(string(dtype)); err != nil {
		return Header{}, err
	}

	names := make([]string, 0, len(tensors))
	for name := range tensors {
		if err := ValidateTensorName(name); err != nil {
			return Header{}, err
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var data []byte
	entries := make(map[string]any, len(names)+1)
	header := Header{Tensors: make([]TensorMeta, 0, len(names))}
	for _, name := range names {
		m := tensors[name]
		start := int64(len(data))
		data = encode(data, m.ToSlice(), dtype)

		shape := m.Shape()
		shape64 := make([]int64, len(shape))
		for i, d := range shape {
			shape64[i] = int64(d)
		}
		entries[name] = safeTensorEntry{
			DType:       string(dtype),
			Shape:       shape64,
			DataOffsets: [2]int64{start, int64(len(data))},
		}
		header.Tensors = append(header.Tensors, TensorMeta{
			Name:   name,
			DType:  dtype,
			Shape:  shape,
			Offset: start,
			Size:   int64(len(data)) - start,
		})
	}

	header.Metadata = map[string]string{
		MetaRunID: uuid.NewString(),
	}
	for k, v := range opts.Metadata {
		header.Metadata[k] = v
	}
	header.Metadata[MetaFormat] = FormatName
	header.Metadata[MetaDType] = string(dtype)
	header.Metadata[MetaChecksum] = ComputeChecksum(data)
	entries[metadataKey] = header.Metadata

	headerJSON, err := json.Marshal(entries)
	if err != nil {
		return Header{}, errors.Wrap(err, "failed to marshal header")
	}
	// Pad with spaces so the data section starts 8-byte aligned.
	if pad := (8 - len(headerJSON)%8) % 8; pad > 0 {
		headerJSON = append(headerJSON, bytes.Repeat([]byte{' '}, pad)...)
	}

	if err := binary.Write(w, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return Header{}, errors.Wrap(err, "failed to write header size")
	}
	if _, err := w.Write(headerJSON); err != nil {
		return Header{}, errors.Wrap(err, "failed to write header")
	}
	if _, err := w.Write(data); err != nil {
		return Header{}, errors.Wrap(err, "failed to write tensor data")
	}
	return header, nil
}

// WriteFile writes tensors to path, replacing any existing file.
func WriteFile(path string, tensors map[string]*tensor.Matrix, opts WriteOptions) (Header, error) {
	var buf bytes.Buffer
	header, err := Write(&buf, tensors, opts)
	if err != nil {
		return Header{}, err
	}
	//nolint:gosec // G306: checkpoints are not secrets
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return Header{}, errors.Wrapf(err, "failed to write %s", path)
	}
	return header, nil
}
