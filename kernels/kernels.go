// Package kernels holds the WGSL compute programs of the WebGPU backend.
//
// Each operator family is one file named after its kernel (binary.wgsl,
// scalar.wgsl, matmul.wgsl, transpose.wgsl, activate.wgsl) with a "main"
// entry point. The directory doubles as the default resource path: a
// backend initialized without a path compiles the copies embedded here.
package kernels

import "embed"

// FS contains every *.wgsl program in this directory.
//
//go:embed *.wgsl
var FS embed.FS
