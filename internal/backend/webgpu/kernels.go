package webgpu

import (
	"io/fs"
	"os"
	"strings"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/born-ml/matrix/kernels"
)

// Kernel names one WGSL program. The program lives in "<name>.wgsl" inside
// the resource directory and exposes a compute entry point called "main".
type Kernel string

// Kernel programs, one per operator family.
const (
	KernelBinary    Kernel = "binary"
	KernelScalar    Kernel = "scalar"
	KernelMatMul    Kernel = "matmul"
	KernelTranspose Kernel = "transpose"
	KernelActivate  Kernel = "activate"
)

// Kernels returns every program the backend needs.
func Kernels() []Kernel {
	return []Kernel{KernelBinary, KernelScalar, KernelMatMul, KernelTranspose, KernelActivate}
}

// FileName returns the program's file name inside a resource directory.
func (k Kernel) FileName() string {
	return string(k) + ".wgsl"
}

// ResourceFS resolves a resource path to the file system kernels are read
// from. An empty path selects the programs embedded in the binary.
func ResourceFS(resourcePath string) fs.FS {
	if resourcePath == "" {
		return kernels.FS
	}
	return os.DirFS(resourcePath)
}

// LoadKernels reads and sanity-checks every program from fsys.
// A missing, empty or entry-point-less program fails the whole load.
func LoadKernels(fsys fs.FS) (map[Kernel]string, error) {
	programs := make(map[Kernel]string, len(Kernels()))
	for _, k := range Kernels() {
		data, err := fs.ReadFile(fsys, k.FileName())
		if err != nil {
			return nil, errors.Wrapf(err, "webgpu: loading kernel %q", k)
		}
		source := string(data)
		if strings.TrimSpace(source) == "" {
			return nil, errors.Errorf("webgpu: kernel %q is empty", k)
		}
		if !strings.Contains(source, "fn main(") {
			return nil, errors.Errorf("webgpu: kernel %q has no main entry point", k)
		}
		programs[k] = source
		klog.V(1).Infof("webgpu: loaded kernel %s (%d bytes)", k, len(data))
	}
	return programs, nil
}
