//go:build !nogpu

package gpu

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/leaves"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// targetFormat is the color format of the off-screen target.
const targetFormat = gputypes.TextureFormatBGRA8Unorm

// copyRowAlignment is the required bytes-per-row alignment of
// texture-to-buffer copies.
const copyRowAlignment = 256

// DefaultWaitTimeout bounds the fence wait of a readback.
const DefaultWaitTimeout = 5 * time.Second

// HALContext is a RasterContext backed by a wgpu/hal device. It owns the
// shader, the render pipeline, the unit-quad vertex buffer and the
// off-screen target; per-frame instance and staging buffers live only
// between DrawInstances and ReadPixels.
//
// HALContext is not safe for concurrent use. Use one context per surface.
type HALContext struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	external bool // device shared by a host; not destroyed on Release

	shader     hal.ShaderModule
	pipeLayout hal.PipelineLayout
	pipeline   hal.RenderPipeline
	quadBuf    hal.Buffer

	target     hal.Texture
	targetView hal.TextureView
	width      uint32

	pending *pendingFrame
	timeout time.Duration
}

// pendingFrame holds the resources of a submitted, not yet read frame.
type pendingFrame struct {
	instBuf     hal.Buffer
	staging     hal.Buffer
	cmdBuf      hal.CommandBuffer
	fence       hal.Fence
	bytesPerRow uint32
}

var _ RasterContext = (*HALContext)(nil)

// OpenHALContext opens a Vulkan device on the first discrete or
// integrated GPU (or the first adapter found) and builds the disk
// pipeline. Failures wrap leaves.ErrBackendUnavailable.
func OpenHALContext() (*HALContext, error) {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("%w: vulkan backend not available", leaves.ErrBackendUnavailable)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("%w: create instance: %w", leaves.ErrBackendUnavailable, err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("%w: no GPU adapters found", leaves.ErrBackendUnavailable)
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("%w: open device: %w", leaves.ErrBackendUnavailable, err)
	}

	c := &HALContext{
		instance: instance,
		device:   openDev.Device,
		queue:    openDev.Queue,
		timeout:  DefaultWaitTimeout,
	}
	if err := c.createPipeline(); err != nil {
		c.Release()
		return nil, err
	}
	leaves.Logger().Info("gpu: raster context opened", "adapter", selected.Info.Name)
	return c, nil
}

// NewHALContext builds the disk pipeline on a device owned by someone
// else. Release does not destroy the device.
func NewHALContext(device hal.Device, queue hal.Queue) (*HALContext, error) {
	if device == nil || queue == nil {
		return nil, fmt.Errorf("%w: nil device or queue", leaves.ErrBackendUnavailable)
	}
	c := &HALContext{
		device:   device,
		queue:    queue,
		external: true,
		timeout:  DefaultWaitTimeout,
	}
	if err := c.createPipeline(); err != nil {
		c.Release()
		return nil, err
	}
	return c, nil
}

// NewHALContextFromProvider uses the device of a host application. The
// provider must implement HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue.
func NewHALContextFromProvider(provider any) (*HALContext, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("%w: provider does not expose HAL types", leaves.ErrBackendUnavailable)
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: provider HalDevice is not hal.Device", leaves.ErrBackendUnavailable)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: provider HalQueue is not hal.Queue", leaves.ErrBackendUnavailable)
	}
	return NewHALContext(device, queue)
}

// Name returns the context name.
func (c *HALContext) Name() string { return "hal" }

// SetWaitTimeout changes the readback fence timeout. Non-positive values
// are ignored.
func (c *HALContext) SetWaitTimeout(d time.Duration) {
	if d > 0 {
		c.timeout = d
	}
}

// createPipeline compiles the disk shader and creates the render pipeline
// and the unit-quad vertex buffer.
func (c *HALContext) createPipeline() error {
	code, err := compileDiskShader()
	if err != nil {
		return fmt.Errorf("%w: %w", leaves.ErrBackendUnavailable, err)
	}

	shader, err := c.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "disk_shader",
		Source: hal.ShaderSource{SPIRV: code},
	})
	if err != nil {
		return fmt.Errorf("%w: create shader module: %w", leaves.ErrBackendUnavailable, err)
	}
	c.shader = shader

	pipeLayout, err := c.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "disk_pipe_layout",
	})
	if err != nil {
		return fmt.Errorf("%w: create pipeline layout: %w", leaves.ErrBackendUnavailable, err)
	}
	c.pipeLayout = pipeLayout

	// No blend state: fragments replace the target, so the draw order of
	// instances decides which disk is visible.
	pipeline, err := c.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "disk_pipeline",
		Layout: c.pipeLayout,
		Vertex: hal.VertexState{
			Module:     c.shader,
			EntryPoint: "vs_main",
			Buffers:    diskVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     c.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    targetFormat,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("%w: create render pipeline: %w", leaves.ErrBackendUnavailable, err)
	}
	c.pipeline = pipeline

	quadBuf, err := c.createAndUploadBuffer("disk_quad", encodeQuad(),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return fmt.Errorf("%w: %w", leaves.ErrBackendUnavailable, err)
	}
	c.quadBuf = quadBuf
	return nil
}

// diskVertexLayout returns the two vertex buffer layouts: the per-vertex
// unit quad and the per-instance disk records.
func diskVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: quadStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0}, // corner
			},
		},
		{
			ArrayStride: instanceStride,
			StepMode:    gputypes.VertexStepModeInstance,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 1},  // translation
				{Format: gputypes.VertexFormatFloat32, Offset: 8, ShaderLocation: 2},    // scale
				{Format: gputypes.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 3}, // color
			},
		},
	}
}

// CreateTarget creates or recreates the off-screen target.
func (c *HALContext) CreateTarget(width int) error {
	if c.device == nil {
		return fmt.Errorf("%w: context released", leaves.ErrBackendUnavailable)
	}
	if width <= 0 {
		return fmt.Errorf("%w: target width %d", leaves.ErrInvalidParameter, width)
	}
	w := uint32(width) //nolint:gosec // checked positive
	if c.width == w && c.target != nil {
		return nil
	}
	c.releasePending()
	c.destroyTarget()

	target, err := c.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "disk_target",
		Size:          hal.Extent3D{Width: w, Height: w, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        targetFormat,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("%w: create target: %w", leaves.ErrBackendUnavailable, err)
	}
	c.target = target

	view, err := c.device.CreateTextureView(target, &hal.TextureViewDescriptor{
		Label:         "disk_target_view",
		Format:        targetFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		c.destroyTarget()
		return fmt.Errorf("%w: create target view: %w", leaves.ErrBackendUnavailable, err)
	}
	c.targetView = view
	c.width = w
	return nil
}

// DrawInstances encodes the clear, the instanced draw and the copy of the
// target into a staging buffer, and submits them. It does not wait.
func (c *HALContext) DrawInstances(instances []Instance, bg leaves.Color) error {
	if c.target == nil {
		return fmt.Errorf("%w: no target", leaves.ErrInvalidState)
	}
	c.releasePending()

	frame := &pendingFrame{}
	ok := false
	defer func() {
		if !ok {
			c.destroyFrame(frame)
		}
	}()

	n := uint32(len(instances)) //nolint:gosec // disk count fits uint32
	if n > 0 {
		buf, err := c.createAndUploadBuffer("disk_instances", encodeInstances(instances),
			gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
		if err != nil {
			return fmt.Errorf("%w: %w", leaves.ErrReadback, err)
		}
		frame.instBuf = buf
	}

	w := c.width
	frame.bytesPerRow = alignUp(w*4, copyRowAlignment)
	staging, err := c.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "disk_staging",
		Size:  uint64(frame.bytesPerRow) * uint64(w),
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("%w: create staging buffer: %w", leaves.ErrReadback, err)
	}
	frame.staging = staging

	encoder, err := c.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "disk_encoder",
	})
	if err != nil {
		return fmt.Errorf("%w: create command encoder: %w", leaves.ErrReadback, err)
	}
	if err := encoder.BeginEncoding("disk_frame"); err != nil {
		return fmt.Errorf("%w: begin encoding: %w", leaves.ErrReadback, err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "disk_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{
			{
				View:    c.targetView,
				LoadOp:  gputypes.LoadOpClear,
				StoreOp: gputypes.StoreOpStore,
				ClearValue: gputypes.Color{
					R: float64(bg.R) / 255,
					G: float64(bg.G) / 255,
					B: float64(bg.B) / 255,
					A: 1,
				},
			},
		},
	})
	if n > 0 {
		rp.SetPipeline(c.pipeline)
		rp.SetVertexBuffer(0, c.quadBuf, 0)
		rp.SetVertexBuffer(1, frame.instBuf, 0)
		rp.Draw(quadVertexCount, n, 0, 0)
	}
	rp.End()

	// The target leaves the pass in attachment layout; the copy needs it
	// as a transfer source. No-op on Metal, GLES, software and noop.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: c.target,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	encoder.CopyTextureToBuffer(c.target, frame.staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: frame.bytesPerRow, RowsPerImage: w},
		TextureBase:  hal.ImageCopyTexture{Texture: c.target, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: w, DepthOrArrayLayers: 1},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("%w: end encoding: %w", leaves.ErrReadback, err)
	}
	frame.cmdBuf = cmdBuf

	fence, err := c.device.CreateFence()
	if err != nil {
		return fmt.Errorf("%w: create fence: %w", leaves.ErrReadback, err)
	}
	frame.fence = fence

	if err := c.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("%w: submit: %w", leaves.ErrReadback, err)
	}

	leaves.Logger().Debug("gpu: frame submitted", "instances", n, "width", w)
	c.pending = frame
	ok = true
	return nil
}

// ReadPixels waits for the submitted frame and converts the BGRA staging
// rows into a tightly packed RGB buffer.
func (c *HALContext) ReadPixels() ([]byte, error) {
	frame := c.pending
	if frame == nil {
		return nil, fmt.Errorf("%w: nothing drawn", leaves.ErrReadback)
	}
	defer c.releasePending()

	fenceOK, err := c.device.Wait(frame.fence, 1, c.timeout)
	if err != nil || !fenceOK {
		return nil, fmt.Errorf("%w: wait for GPU: ok=%v err=%w", leaves.ErrReadback, fenceOK, err)
	}

	w := int(c.width)
	raw := make([]byte, int(frame.bytesPerRow)*w)
	if err := c.queue.ReadBuffer(frame.staging, 0, raw); err != nil {
		return nil, fmt.Errorf("%w: %w", leaves.ErrReadback, err)
	}
	return bgraRowsToRGB(raw, w, int(frame.bytesPerRow)), nil
}

// Release destroys every resource in reverse creation order. The device is
// destroyed only when the context opened it.
func (c *HALContext) Release() {
	if c.device == nil {
		return
	}
	c.releasePending()
	c.destroyTarget()
	if c.quadBuf != nil {
		c.device.DestroyBuffer(c.quadBuf)
		c.quadBuf = nil
	}
	if c.pipeline != nil {
		c.device.DestroyRenderPipeline(c.pipeline)
		c.pipeline = nil
	}
	if c.pipeLayout != nil {
		c.device.DestroyPipelineLayout(c.pipeLayout)
		c.pipeLayout = nil
	}
	if c.shader != nil {
		c.device.DestroyShaderModule(c.shader)
		c.shader = nil
	}
	if !c.external {
		c.device.Destroy()
		if c.instance != nil {
			c.instance.Destroy()
		}
	}
	c.device = nil
	c.queue = nil
	c.instance = nil
}

func (c *HALContext) releasePending() {
	if c.pending != nil {
		c.destroyFrame(c.pending)
		c.pending = nil
	}
}

func (c *HALContext) destroyFrame(f *pendingFrame) {
	if f.fence != nil {
		c.device.DestroyFence(f.fence)
	}
	if f.cmdBuf != nil {
		c.device.FreeCommandBuffer(f.cmdBuf)
	}
	if f.staging != nil {
		c.device.DestroyBuffer(f.staging)
	}
	if f.instBuf != nil {
		c.device.DestroyBuffer(f.instBuf)
	}
}

func (c *HALContext) destroyTarget() {
	if c.targetView != nil {
		c.device.DestroyTextureView(c.targetView)
		c.targetView = nil
	}
	if c.target != nil {
		c.device.DestroyTexture(c.target)
		c.target = nil
	}
	c.width = 0
}

// createAndUploadBuffer creates a GPU buffer and uploads data.
func (c *HALContext) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := c.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	c.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

func alignUp(v, a uint32) uint32 {
	return (v + a - 1) / a * a
}

// bgraRowsToRGB drops row padding and alpha and swaps B and R.
func bgraRowsToRGB(raw []byte, width, bytesPerRow int) []byte {
	out := make([]byte, width*width*leaves.BytesPerPixel)
	for y := 0; y < width; y++ {
		src := raw[y*bytesPerRow:]
		dst := out[y*width*3:]
		for x := 0; x < width; x++ {
			dst[x*3+0] = src[x*4+2]
			dst[x*3+1] = src[x*4+1]
			dst[x*3+2] = src[x*4+0]
		}
	}
	return out
}

// Available reports whether a HAL backend is compiled in.
func Available() bool {
	_, ok := hal.GetBackend(gputypes.BackendVulkan)
	return ok
}

// Open opens a GPU raster context on a device of its own. A positive
// waitTimeout replaces DefaultWaitTimeout for readback.
func Open(waitTimeout time.Duration) (RasterContext, error) {
	c, err := OpenHALContext()
	if err != nil {
		return nil, err
	}
	c.SetWaitTimeout(waitTimeout)
	return c, nil
}

// OpenShared opens a GPU raster context on a host-provided device.
func OpenShared(provider any, waitTimeout time.Duration) (RasterContext, error) {
	c, err := NewHALContextFromProvider(provider)
	if err != nil {
		return nil, err
	}
	c.SetWaitTimeout(waitTimeout)
	return c, nil
}
