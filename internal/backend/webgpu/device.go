//go:build windows

package webgpu

import (
	"fmt"
	"unsafe"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/go-webgpu/webgpu/wgpu"
)

// device owns the WebGPU objects and one compiled pipeline per kernel.
type device struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	shaders   map[Kernel]*wgpu.ShaderModule
	pipelines map[Kernel]*wgpu.ComputePipeline
}

// openDevice requests the high-performance adapter and compiles programs.
func openDevice(programs map[Kernel]string) (dev *device, err error) {
	// Recover from panic if wgpu_native library is not found.
	defer func() {
		if r := recover(); r != nil {
			if dev != nil {
				dev.release()
			}
			dev = nil
			err = fmt.Errorf("webgpu: native library not available: %v", r)
		}
	}()

	instance, err := wgpu.CreateInstance(nil)
	if err != nil {
		return nil, errors.Wrap(err, "webgpu: failed to create instance")
	}
	dev = &device{
		instance:  instance,
		shaders:   make(map[Kernel]*wgpu.ShaderModule, len(programs)),
		pipelines: make(map[Kernel]*wgpu.ComputePipeline, len(programs)),
	}

	dev.adapter, err = instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		dev.release()
		return nil, errors.Wrap(err, "webgpu: failed to request adapter")
	}

	dev.device, err = dev.adapter.RequestDevice(nil)
	if err != nil {
		dev.release()
		return nil, errors.Wrap(err, "webgpu: failed to request device")
	}

	dev.queue = dev.device.GetQueue()
	if dev.queue == nil {
		dev.release()
		return nil, errors.New("webgpu: failed to get queue")
	}

	for _, k := range Kernels() {
		shader := dev.device.CreateShaderModuleWGSL(programs[k])
		if shader == nil {
			dev.release()
			return nil, errors.Errorf("webgpu: failed to compile kernel %q", k)
		}
		dev.shaders[k] = shader
		dev.pipelines[k] = dev.device.CreateComputePipelineSimple(nil, shader, "main")
		klog.V(1).Infof("webgpu: compiled pipeline %s", k)
	}
	return dev, nil
}

func (d *device) name() string {
	return "WebGPU"
}

// run uploads inputs, dispatches kernel k over (x, y) workgroups and reads
// the result back into dst. Bindings are inputs in order, then the result,
// then the uniform params. dst is only written after a successful readback.
func (d *device) run(k Kernel, dst []float32, inputs [][]byte, params []byte, x, y uint32) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("webgpu: %s kernel failed: %v", k, r)
		}
	}()

	pipeline := d.pipelines[k]
	entries := make([]wgpu.BindGroupEntry, 0, len(inputs)+2)
	for i, data := range inputs {
		buf := d.createBuffer(data, wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
		defer buf.Release()
		//nolint:gosec // G115: binding index is small
		entries = append(entries, wgpu.BufferBindingEntry(uint32(i), buf, 0, uint64(len(data))))
	}

	resultSize := uint64(len(dst)) * 4
	result := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst,
		Size:  resultSize,
	})
	defer result.Release()
	//nolint:gosec // G115: binding index is small
	entries = append(entries, wgpu.BufferBindingEntry(uint32(len(inputs)), result, 0, resultSize))

	uniform := d.createBuffer(params, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst)
	defer uniform.Release()
	//nolint:gosec // G115: binding index is small
	entries = append(entries, wgpu.BufferBindingEntry(uint32(len(inputs)+1), uniform, 0, uint64(len(params))))

	bindGroup := d.device.CreateBindGroupSimple(pipeline.GetBindGroupLayout(0), entries)
	defer bindGroup.Release()

	encoder := d.device.CreateCommandEncoder(nil)
	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.DispatchWorkgroups(x, y, 1)
	pass.End()
	d.queue.Submit(encoder.Finish(nil))

	data, err := d.readBuffer(result, resultSize)
	if err != nil {
		return err
	}
	copyFloat32s(dst, data)
	return nil
}

// createBuffer creates a GPU buffer holding data.
func (d *device) createBuffer(data []byte, usage wgpu.BufferUsage) *wgpu.Buffer {
	size := uint64(len(data))
	buffer := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            usage,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})

	mappedPtr := buffer.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	copy(unsafe.Slice((*byte)(mappedPtr), size), data)
	buffer.Unmap()
	return buffer
}

// readBuffer copies a storage buffer through a staging buffer into host memory.
func (d *device) readBuffer(src *wgpu.Buffer, size uint64) ([]byte, error) {
	staging := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
		Size:  size,
	})
	defer staging.Release()

	encoder := d.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(src, 0, staging, 0, size)
	d.queue.Submit(encoder.Finish(nil))

	if err := staging.MapAsync(d.device, wgpu.MapModeRead, 0, size); err != nil {
		return nil, errors.Wrap(err, "webgpu: failed to map staging buffer")
	}
	mappedPtr := staging.GetMappedRange(0, size)
	result := make([]byte, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	copy(result, unsafe.Slice((*byte)(mappedPtr), size))
	staging.Unmap()
	return result, nil
}

func (d *device) release() {
	for _, p := range d.pipelines {
		p.Release()
	}
	d.pipelines = nil
	for _, s := range d.shaders {
		s.Release()
	}
	d.shaders = nil

	if d.queue != nil {
		d.queue.Release()
		d.queue = nil
	}
	if d.device != nil {
		d.device.Release()
		d.device = nil
	}
	if d.adapter != nil {
		d.adapter.Release()
		d.adapter = nil
	}
	if d.instance != nil {
		d.instance.Release()
		d.instance = nil
	}
}

// IsAvailable checks if a WebGPU adapter can be acquired on this system.
func IsAvailable() (available bool) {
	// Recover from panic if wgpu_native library is not found.
	defer func() {
		if r := recover(); r != nil {
			available = false
		}
	}()

	instance, err := wgpu.CreateInstance(nil)
	if err != nil {
		return false
	}
	defer instance.Release()

	adapter, err := instance.RequestAdapter(nil)
	if err != nil {
		return false
	}
	adapter.Release()
	return true
}
