package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/matrix/internal/backend/cpu"
	"github.com/born-ml/matrix/internal/tensor"
)

func testTensors(t *testing.T) map[string]*tensor.Matrix {
	t.Helper()
	backend := cpu.New()
	w, err := tensor.FromSlice(backend, tensor.Shape{2, 3}, []float32{1, -2, 3.5, 0, 0.25, -8})
	require.NoError(t, err)
	b, err := tensor.FromSlice(backend, tensor.Shape{2, 1}, []float32{0.5, -0.5})
	require.NoError(t, err)
	empty, err := tensor.New(backend, tensor.Shape{0, 4}, nil)
	require.NoError(t, err)
	return map[string]*tensor.Matrix{
		"layers.0.weight": w,
		"layers.0.bias":   b,
		"empty":           empty,
	}
}

func TestWriteRead_F32(t *testing.T) {
	tensors := testTensors(t)
	var buf bytes.Buffer
	written, err := Write(&buf, tensors, WriteOptions{Metadata: map[string]string{"epoch": "7"}})
	require.NoError(t, err)
	assert.Len(t, written.Tensors, 3)

	got, header, err := Read(bytes.NewReader(buf.Bytes()), cpu.New(), ReaderOptions{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	for name, m := range tensors {
		require.Contains(t, got, name)
		assert.Equal(t, m.Shape(), got[name].Shape(), name)
		assert.Equal(t, m.ToSlice(), got[name].ToSlice(), name)
	}

	assert.Equal(t, "7", header.Metadata["epoch"])
	assert.Equal(t, FormatName, header.Metadata[MetaFormat])
	assert.Equal(t, string(F32), header.Metadata[MetaDType])
	_, err = uuid.Parse(header.Metadata[MetaRunID])
	assert.NoError(t, err, "run id is a UUID")
	assert.Equal(t, written.Metadata, header.Metadata)
}

func TestWriteRead_F16(t *testing.T) {
	tensors := testTensors(t)
	var f32, f16 bytes.Buffer
	_, err := Write(&f32, tensors, WriteOptions{})
	require.NoError(t, err)
	_, err = Write(&f16, tensors, WriteOptions{DType: F16})
	require.NoError(t, err)
	assert.Less(t, f16.Len(), f32.Len())

	got, header, err := Read(&f16, cpu.New(), ReaderOptions{})
	require.NoError(t, err)
	for _, meta := range header.Tensors {
		assert.Equal(t, F16, meta.DType)
	}
	// Every test value is exactly representable in half precision.
	assert.Equal(t, tensors["layers.0.weight"].ToSlice(), got["layers.0.weight"].ToSlice())
}

func TestWrite_Layout(t *testing.T) {
	var buf bytes.Buffer
	_, err := Write(&buf, testTensors(t), WriteOptions{})
	require.NoError(t, err)

	raw := buf.Bytes()
	size := binary.LittleEndian.Uint64(raw[:8])
	assert.Zero(t, size%8, "header is padded to 8 bytes")

	var entries map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(bytes.TrimRight(raw[8:8+size], " "), &entries))
	assert.Contains(t, entries, "__metadata__")

	var bias safeTensorEntry
	require.NoError(t, json.Unmarshal(entries["layers.0.bias"], &bias))
	assert.Equal(t, "F32", bias.DType)
	assert.Equal(t, []int64{2, 1}, bias.Shape)
	// Alphabetical order: "empty" (0 bytes) then "layers.0.bias".
	assert.Equal(t, [2]int64{0, 8}, bias.DataOffsets)
}

func TestWrite_InvalidInput(t *testing.T) {
	tensors := testTensors(t)
	_, err := Write(&bytes.Buffer{}, tensors, WriteOptions{DType: "BF16"})
	assert.ErrorIs(t, err, ErrUnsupportedDType)

	tensors["../escape"] = tensors["empty"]
	_, err = Write(&bytes.Buffer{}, tensors, WriteOptions{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "invalid_name", verr.Type)
}

func TestRead_Corruption(t *testing.T) {
	var buf bytes.Buffer
	_, err := Write(&buf, testTensors(t), WriteOptions{})
	require.NoError(t, err)
	raw := buf.Bytes()

	flipped := bytes.Clone(raw)
	flipped[len(flipped)-1] ^= 0xFF
	_, _, err = Read(bytes.NewReader(flipped), cpu.New(), ReaderOptions{})
	assert.ErrorIs(t, err, ErrChecksumMismatch)

	_, _, err = Read(bytes.NewReader(flipped), cpu.New(), ReaderOptions{SkipChecksumValidation: true})
	assert.NoError(t, err)

	truncated := raw[:len(raw)-4]
	_, _, err = Read(bytes.NewReader(truncated), cpu.New(), ReaderOptions{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "out_of_bounds", verr.Type)

	huge := binary.LittleEndian.AppendUint64(nil, MaxHeaderSize+1)
	_, _, err = Read(bytes.NewReader(huge), cpu.New(), ReaderOptions{})
	assert.ErrorIs(t, err, ErrHeaderTooLarge)

	bad := binary.LittleEndian.AppendUint64(nil, 4)
	bad = append(bad, []byte("{no}")...)
	_, _, err = Read(bytes.NewReader(bad), cpu.New(), ReaderOptions{})
	assert.ErrorIs(t, err, ErrInvalidHeader)
}

func TestWriteReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.safetensors")
	tensors := testTensors(t)
	_, err := WriteFile(path, tensors, WriteOptions{})
	require.NoError(t, err)

	got, _, err := ReadFile(path, cpu.New(), ReaderOptions{})
	require.NoError(t, err)
	assert.Equal(t, tensors["layers.0.bias"].ToSlice(), got["layers.0.bias"].ToSlice())

	_, _, err = ReadFile(filepath.Join(t.TempDir(), "missing"), cpu.New(), ReaderOptions{})
	assert.Error(t, err)
}
