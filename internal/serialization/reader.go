package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"io"
	"os"
	"sort"

	"github.com/pkg/errors"

	"github.com/born-ml/matrix/internal/tensor"
)

// ReaderOptions configures a SafeTensors read.
type ReaderOptions struct {
	SkipChecksumValidation bool            // Skip checksum validation (faster but less safe)
	ValidationLevel        ValidationLevel // Validation strictness level
}

// Read decodes a SafeTensors stream into Matrices bound to backend b.
// F16 payloads are widened to float32.
func Read(r io.Reader, b tensor.Backend, opts ReaderOptions) (map[string]*tensor.Matrix, Header, error) {
	var headerSize uint64
	if err := binary.Read(r, binary.LittleEndian, &headerSize); err != nil {
		return nil, Header{}, errors.Wrap(err, "failed to read header size")
	}
	if headerSize > MaxHeaderSize {
		return nil, Header{}, errors.Wrapf(ErrHeaderTooLarge, "%d bytes", headerSize)
	}

	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return nil, Header{}, errors.Wrap(err, "failed to read header")
	}
	header, err := parseHeader(headerJSON)
	if err != nil {
		return nil, Header{}, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, Header{}, errors.Wrap(err, "failed to read tensor data")
	}
	if err := ValidateHeader(&header, int64(len(data)), opts.ValidationLevel); err != nil {
		return nil, Header{}, errors.WithMessage(err, "validation failed")
	}
	if stored, ok := header.Metadata[MetaChecksum]; ok && !opts.SkipChecksumValidation {
		if err := ValidateChecksum(data, stored); err != nil {
			return nil, Header{}, err
		}
	}

	tensors := make(map[string]*tensor.Matrix, len(header.Tensors))
	for _, t := range header.Tensors {
		if t.Offset < 0 || t.Size < 0 || t.Offset+t.Size > int64(len(data)) {
			return nil, Header{}, errors.Wrapf(ErrInvalidHeader, "tensor %q lies outside the data section", t.Name)
		}
		m, err := tensor.FromSlice(b, t.Shape, decode(data[t.Offset:t.Offset+t.Size], t.DType))
		if err != nil {
			return nil, Header{}, errors.WithMessagef(err, "tensor %q", t.Name)
		}
		tensors[t.Name] = m
	}
	return tensors, header, nil
}

// ReadFile reads a SafeTensors file.
func ReadFile(path string, b tensor.Backend, opts ReaderOptions) (map[string]*tensor.Matrix, Header, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, Header{}, errors.Wrap(err, "failed to open file")
	}
	return Read(bytes.NewReader(raw), b, opts)
}

// parseHeader decodes the JSON header into a Header sorted by offset.
func parseHeader(headerJSON []byte) (Header, error) {
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(bytes.TrimRight(headerJSON, " "), &entries); err != nil {
		return Header{}, errors.Wrapf(ErrInvalidHeader, "parsing JSON: %v", err)
	}

	var header Header
	for name, raw := range entries {
		if name == metadataKey {
			if err := json.Unmarshal(raw, &header.Metadata); err != nil {
				return Header{}, errors.Wrapf(ErrInvalidHeader, "parsing metadata: %v", err)
			}
			continue
		}

		var entry safeTensorEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			return Header{}, errors.Wrapf(ErrInvalidHeader, "parsing tensor %q: %v", name, err)
		}
		dtype, err := ParseDType(entry.DType)
		if err != nil {
			return Header{}, errors.WithMessagef(err, "tensor %q", name)
		}
		shape := make([]int, len(entry.Shape))
		for i, d := range entry.Shape {
			shape[i] = int(d)
		}
		header.Tensors = append(header.Tensors, TensorMeta{
			Name:   name,
			DType:  dtype,
			Shape:  shape,
			Offset: entry.DataOffsets[0],
			Size:   entry.DataOffsets[1] - entry.DataOffsets[0],
		})
	}

	sort.Slice(header.Tensors, func(i, j int) bool {
		if header.Tensors[i].Offset != header.Tensors[j].Offset {
			return header.Tensors[i].Offset < header.Tensors[j].Offset
		}
		return header.Tensors[i].Name < header.Tensors[j].Name
	})
	return header, nil
}
