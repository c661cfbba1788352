// Package serialization saves and loads named Matrices in the SafeTensors
// layout used by HuggingFace and most ML tooling:
//
//	[8 bytes: header size N (uint64 LE)]
//	[N bytes: JSON header, space padded to a multiple of 8]
//	[tensor data: raw little-endian elements, row-major]
//
// The JSON header maps every tensor name to its dtype, shape and
// data_offsets (relative to the start of the data section), plus an optional
// "__metadata__" object of string pairs. Writers in this package always
// record a run id, the element dtype and a SHA-256 checksum of the data
// section there; readers verify the checksum when it is present.
//
// Payloads are F32 or F16 (half precision through github.com/x448/float16).
// F16 halves checkpoint size at the cost of precision; values are widened
// back to float32 on load.
//
// Example usage:
//
//	// Save a model
//	_, err := serialization.WriteFile("xor.safetensors", model.StateDict(), serialization.WriteOptions{})
//
//	// Load it back
//	state, header, err := serialization.ReadFile("xor.safetensors", backend, serialization.ReaderOptions{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = model.LoadStateDict(state)
package serialization
