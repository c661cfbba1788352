package engine

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/born-ml/matrix/internal/parallel"
)

// EnvBackend is the environment variable holding the default backend
// configuration, in the format accepted by ParseConfig.
const EnvBackend = "MATRIX_BACKEND"

// Mode selects the execution path of every Matrix an Engine creates.
type Mode int

// Supported modes.
const (
	// Reference runs every operator as a host loop.
	Reference Mode = iota
	// Accelerated dispatches every operator to WGSL kernels on the GPU.
	Accelerated
)

var modeNames = map[Mode]string{
	Reference:   "cpu",
	Accelerated: "webgpu",
}

// String returns the configuration name of the mode ("cpu" or "webgpu").
func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode maps a configuration name to a Mode.
// "reference" and "accelerated" are accepted as aliases.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cpu", "reference":
		return Reference, nil
	case "webgpu", "gpu", "accelerated":
		return Accelerated, nil
	}
	return 0, errors.Errorf("engine: unknown backend %q", s)
}

// Config is the injectable backend selection.
type Config struct {
	Mode Mode

	// ResourcePath is the kernel directory of the accelerated backend.
	// Empty selects the kernels embedded in the binary.
	ResourcePath string

	// Parallel controls the fan-out of the reference backend.
	Parallel parallel.Config

	// Seed makes random fills reproducible. Zero uses the global source.
	Seed int64
}

// DefaultConfig returns the reference backend with default parallelism.
func DefaultConfig() Config {
	return Config{
		Mode:     Reference,
		Parallel: parallel.DefaultConfig(),
	}
}

// ParseConfig parses "<backend>[:<backend configuration>]".
//
// For "webgpu" the configuration is the kernel resource directory. For "cpu"
// it is the number of worker goroutines, 1 meaning sequential execution.
//
// Examples: "cpu", "cpu:4", "webgpu", "webgpu:/opt/matrix/kernels".
func ParseConfig(s string) (Config, error) {
	cfg := DefaultConfig()
	name, backendConfig, _ := strings.Cut(s, ":")

	mode, err := ParseMode(name)
	if err != nil {
		return cfg, err
	}
	cfg.Mode = mode

	switch mode {
	case Accelerated:
		cfg.ResourcePath = backendConfig
	case Reference:
		if backendConfig == "" {
			break
		}
		workers, err := strconv.Atoi(backendConfig)
		if err != nil || workers < 1 {
			return cfg, errors.Errorf("engine: invalid cpu worker count %q", backendConfig)
		}
		cfg.Parallel.NumWorkers = workers
		cfg.Parallel.Enabled = workers > 1
	}
	return cfg, nil
}

// ConfigFromEnv parses EnvBackend, or returns DefaultConfig when it is unset.
func ConfigFromEnv() (Config, error) {
	if s, found := os.LookupEnv(EnvBackend); found {
		cfg, err := ParseConfig(s)
		if err != nil {
			return cfg, errors.WithMessagef(err, "parsing $%s", EnvBackend)
		}
		return cfg, nil
	}
	return DefaultConfig(), nil
}

// String formats the config in the ParseConfig format.
func (c Config) String() string {
	switch c.Mode {
	case Accelerated:
		if c.ResourcePath != "" {
			return c.Mode.String() + ":" + c.ResourcePath
		}
	case Reference:
		if c.Parallel.NumWorkers > 0 {
			return c.Mode.String() + ":" + strconv.Itoa(c.Parallel.NumWorkers)
		}
	}
	return c.Mode.String()
}
