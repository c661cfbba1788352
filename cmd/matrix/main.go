// Command matrix runs the matrix engine from the command line.
//
// Usage:
//
//	matrix [-v=N] <command> [flags]
//
// Commands:
//
//	version    Show version
//	funcs      List activation and loss tags
//	bench      Time chained matrix products against gonum
//	xor        Train a small MLP on XOR
//
// The backend comes from -backend or $MATRIX_BACKEND ("cpu", "cpu:4",
// "webgpu", "webgpu:/path/to/kernels").
package main

import (
	"flag"
	"fmt"
	"os"

	"k8s.io/klog/v2"

	"github.com/born-ml/matrix/engine"
	"github.com/born-ml/matrix/tensor"
)

const version = "v0.1.0-dev"

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "matrix %s\n\n", version)
	fmt.Fprintln(out, "Usage: matrix [-v=N] <command> [flags]")
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  version    Show version")
	fmt.Fprintln(out, "  funcs      List activation and loss tags")
	fmt.Fprintln(out, "  bench      Time chained matrix products against gonum")
	fmt.Fprintln(out, "  xor        Train a small MLP on XOR")
	fmt.Fprintln(out, "")
	fmt.Fprintf(out, "Backend selection: -backend or $%s (cpu, cpu:<workers>, webgpu, webgpu:<kernels dir>)\n", engine.EnvBackend)
}

func main() {
	klog.InitFlags(nil)
	flag.Usage = usage
	flag.Parse()
	defer klog.Flush()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	var err error
	switch args[0] {
	case "version":
		fmt.Printf("matrix %s\n", version)
	case "funcs":
		for _, fn := range tensor.Funcs() {
			kind := "activation"
			if fn == tensor.MSE {
				kind = "loss"
			}
			fmt.Printf("%-12s %s\n", fn, kind)
		}
	case "bench":
		err = runBench(args[1:])
	case "xor":
		err = runXOR(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", args[0])
		usage()
		os.Exit(2)
	}
	if err != nil {
		klog.Errorf("%s: %+v", args[0], err)
		klog.Flush()
		os.Exit(1)
	}
}

// openEngine builds an Engine from a -backend value, falling back to
// $MATRIX_BACKEND, and initializes it.
func openEngine(backend string, seed int64) (*engine.Engine, error) {
	var (
		cfg engine.Config
		err error
	)
	if backend == "" {
		cfg, err = engine.ConfigFromEnv()
	} else {
		cfg, err = engine.ParseConfig(backend)
	}
	if err != nil {
		return nil, err
	}
	cfg.Seed = seed

	eng, err := engine.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := eng.Initialize(""); err != nil {
		eng.Close()
		return nil, err
	}
	klog.V(1).Infof("using %s", cfg)
	return eng, nil
}
