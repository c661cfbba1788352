// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package engine selects the execution path for Matrix arithmetic.
//
// An Engine is created for one Mode and keeps it for its lifetime:
//   - Reference ("cpu"): host loops, ready immediately
//   - Accelerated ("webgpu"): WGSL kernels, ready after Initialize
//
// The mode can come from code or from the MATRIX_BACKEND environment
// variable ("cpu", "cpu:4", "webgpu", "webgpu:/opt/kernels").
//
// Example:
//
//	eng, err := engine.NewFromEnv()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close()
//	if err := eng.Initialize(""); err != nil {
//	    log.Fatal(err)
//	}
//	w, _ := eng.Uniform(-1, 1, 4, 2)
package engine

import (
	"github.com/born-ml/matrix/internal/engine"
)

// EnvBackend names the environment variable read by NewFromEnv.
const EnvBackend = engine.EnvBackend

// Engine owns one backend and creates Matrices bound to it.
type Engine = engine.Engine

// Config describes how an Engine is built.
type Config = engine.Config

// Mode selects the execution path.
type Mode = engine.Mode

// Modes.
const (
	Reference   Mode = engine.Reference
	Accelerated Mode = engine.Accelerated
)

// New creates an Engine for cfg.
func New(cfg Config) (*Engine, error) {
	return engine.New(cfg)
}

// NewFromEnv creates an Engine configured by $MATRIX_BACKEND, defaulting to
// the reference mode when it is unset.
func NewFromEnv() (*Engine, error) {
	return engine.NewFromEnv()
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() Config {
	return engine.DefaultConfig()
}

// ParseConfig parses "<mode>[:<option>]".
func ParseConfig(s string) (Config, error) {
	return engine.ParseConfig(s)
}

// ConfigFromEnv parses $MATRIX_BACKEND, or returns DefaultConfig when it
// is unset.
func ConfigFromEnv() (Config, error) {
	return engine.ConfigFromEnv()
}

// ParseMode resolves a mode name or alias.
func ParseMode(s string) (Mode, error) {
	return engine.ParseMode(s)
}
