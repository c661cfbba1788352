//go:build !windows

package webgpu

// device is a placeholder on platforms without the WebGPU binding.
type device struct{}

func openDevice(map[Kernel]string) (*device, error) {
	return nil, ErrNotSupported
}

func (d *device) name() string { return "WebGPU" }

func (d *device) run(Kernel, []float32, [][]byte, []byte, uint32, uint32) error {
	return ErrNotSupported
}

func (d *device) release() {}

// IsAvailable reports whether WebGPU can be used; never on this platform.
func IsAvailable() bool {
	return false
}
