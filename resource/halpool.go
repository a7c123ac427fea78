// Copyright 2026 The mdimension Authors
// SPDX-License-Identifier: BSD-3-Clause

package resource

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	types "github.com/gogpu/gputypes"

	rendergraph "github.com/michael-h-patrianna/mdimension-sub006"
)

// HAL pool errors.
var (
	// ErrNoDevice is returned when acquiring before a device is set.
	ErrNoDevice = errors.New("resource: no HAL device configured")

	// ErrNoHALTypes is returned when a device provider does not expose
	// HAL handles.
	ErrNoHALTypes = errors.New("resource: provider does not expose HAL types")
)

// HALTarget is a Target backed by a wgpu HAL texture. The view is created
// lazily and cached; after Invalidate both handles are nil but the target's
// bookkeeping (dimensions, descriptor) survives for reallocation.
type HALTarget struct {
	desc    Desc
	width   int
	height  int
	texture hal.Texture
	view    hal.TextureView
}

func (t *HALTarget) Desc() Desc        { return t.desc }
func (t *HALTarget) Width() int        { return t.width }
func (t *HALTarget) Height() int       { return t.height }
func (t *HALTarget) SizeBytes() uint64 { return t.desc.SizeBytes(t.width, t.height) }

// Texture returns the backing HAL texture, or nil after context loss.
func (t *HALTarget) Texture() hal.Texture { return t.texture }

// View returns the default texture view, or nil after context loss.
func (t *HALTarget) View() hal.TextureView { return t.view }

// HALPool allocates targets as wgpu HAL textures on a shared GPU device.
//
// The device is received from the host application, never created here,
// so GPU resources can be shared with whatever windowing stack owns the
// context. Allocation is lazy: a target gets backing storage on first
// Acquire and is reallocated on Resize when its size policy is
// viewport-relative.
type HALPool struct {
	device hal.Device
	queue  hal.Queue

	viewportW int
	viewportH int
	targets   map[string]*HALTarget
	order     []string
	disposed  bool
}

var _ Pool = (*HALPool)(nil)

// NewHALPool creates a pool on an existing HAL device and queue.
func NewHALPool(device hal.Device, queue hal.Queue, viewportW, viewportH int) (*HALPool, error) {
	if device == nil {
		return nil, ErrNoDevice
	}
	return &HALPool{
		device:    device,
		queue:     queue,
		viewportW: viewportW,
		viewportH: viewportH,
		targets:   make(map[string]*HALTarget),
	}, nil
}

// halDeviceSource exposes a device token's HAL layer. *wgpu.Device
// satisfies it.
type halDeviceSource interface {
	HalDevice() hal.Device
	HalQueue() hal.Queue
}

// NewHALPoolFromProvider creates a pool from the host's [DeviceHandle]
// (e.g., a gogpu window or app). The provider's Device token must expose
// its HAL layer, as *wgpu.Device does.
func NewHALPoolFromProvider(provider DeviceHandle, viewportW, viewportH int) (*HALPool, error) {
	if provider == nil {
		return nil, ErrNoDevice
	}
	src, ok := provider.Device().(halDeviceSource)
	if !ok {
		return nil, fmt.Errorf("%w: device token does not expose a HAL layer", ErrNoHALTypes)
	}
	device := src.HalDevice()
	if device == nil {
		return nil, ErrNoDevice
	}
	queue := src.HalQueue()
	if queue == nil {
		return nil, fmt.Errorf("%w: provider has no HAL queue", ErrNoHALTypes)
	}
	return NewHALPool(device, queue, viewportW, viewportH)
}

// Queue returns the pool's submission queue for passes that encode work.
func (p *HALPool) Queue() hal.Queue { return p.queue }

// Device returns the pool's HAL device.
func (p *HALPool) Device() hal.Device { return p.device }

// Acquire returns the target for desc, allocating backing storage on first
// use or after a context loss.
func (p *HALPool) Acquire(desc Desc) (Target, error) {
	if p.disposed {
		return nil, ErrPoolDisposed
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	if t, ok := p.targets[desc.ID]; ok {
		if t.texture == nil {
			if err := p.allocate(t); err != nil {
				return nil, err
			}
		}
		return t, nil
	}

	w, h := desc.Size.Resolve(p.viewportW, p.viewportH)
	t := &HALTarget{desc: desc, width: w, height: h}
	if err := p.allocate(t); err != nil {
		return nil, err
	}
	p.targets[desc.ID] = t
	p.order = append(p.order, desc.ID)
	return t, nil
}

// Get returns an already-acquired target.
func (p *HALPool) Get(id string) (Target, bool) {
	t, ok := p.targets[id]
	if !ok {
		return nil, false
	}
	return t, true
}

// Resize updates the viewport and reallocates every viewport-relative
// target, returning the ids whose backing storage changed.
func (p *HALPool) Resize(viewportW, viewportH int) []string {
	p.viewportW, p.viewportH = viewportW, viewportH
	var changed []string
	for _, id := range p.order {
		t := p.targets[id]
		if !t.desc.Size.ViewportRelative() {
			continue
		}
		w, h := t.desc.Size.Resolve(viewportW, viewportH)
		if w == t.width && h == t.height {
			continue
		}
		p.free(t)
		t.width, t.height = w, h
		if err := p.allocate(t); err != nil {
			rendergraph.Logger().Warn("resize reallocation failed",
				"resource", id, "err", err)
		}
		changed = append(changed, id)
	}
	return changed
}

// Release frees one target.
func (p *HALPool) Release(id string) error {
	t, ok := p.targets[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTarget, id)
	}
	p.free(t)
	delete(p.targets, id)
	for i, oid := range p.order {
		if oid == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	return nil
}

// Invalidate drops all backing handles without freeing. After a
// backing-context loss the GPU memory no longer exists; destroying the
// stale handles would be a double-free attempt. Targets stay registered
// and reallocate lazily on the next Acquire.
func (p *HALPool) Invalidate() {
	for _, t := range p.targets {
		t.texture = nil
		t.view = nil
	}
	rendergraph.Logger().Info("HAL pool invalidated", "targets", len(p.targets))
}

// Dispose explicitly releases every target and marks the pool unusable.
func (p *HALPool) Dispose() {
	for _, id := range p.order {
		p.free(p.targets[id])
	}
	p.targets = nil
	p.order = nil
	p.disposed = true
	rendergraph.Logger().Info("HAL pool disposed")
}

// MemoryStats reports estimated allocation totals.
func (p *HALPool) MemoryStats() MemoryStats {
	var s MemoryStats
	for _, t := range p.targets {
		if t.texture == nil {
			continue
		}
		s.UsedBytes += t.SizeBytes()
		s.TargetCount++
	}
	return s
}

// allocate creates the HAL texture and default view for t.
func (p *HALPool) allocate(t *HALTarget) error {
	if p.device == nil {
		return ErrNoDevice
	}

	samples := t.desc.Samples
	if samples < 1 {
		samples = 1
	}
	tex, err := p.device.CreateTexture(&hal.TextureDescriptor{
		Label: t.desc.ID,
		Size: hal.Extent3D{
			Width:              uint32(t.width),
			Height:             uint32(t.height),
			DepthOrArrayLayers: uint32(t.desc.layerCount()),
		},
		MipLevelCount: 1,
		SampleCount:   uint32(samples),
		Dimension:     types.TextureDimension2D,
		Format:        halFormat(t.desc),
		Usage:         halUsage(t.desc),
	})
	if err != nil {
		return fmt.Errorf("resource: create texture %q: %w", t.desc.ID, err)
	}

	view, err := p.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:  t.desc.ID + " (default view)",
		Format: types.TextureFormatUndefined, // inherit from texture
		Aspect: types.TextureAspectAll,
	})
	if err != nil {
		p.device.DestroyTexture(tex)
		return fmt.Errorf("resource: create view %q: %w", t.desc.ID, err)
	}

	t.texture = tex
	t.view = view
	rendergraph.Logger().Debug("allocated target",
		"resource", t.desc.ID, "size", fmt.Sprintf("%dx%d", t.width, t.height))
	return nil
}

// free destroys t's backing storage if it exists.
func (p *HALPool) free(t *HALTarget) {
	if t.view != nil {
		p.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.texture != nil {
		p.device.DestroyTexture(t.texture)
		t.texture = nil
	}
}

// halFormat maps a descriptor's format and precision hint to the HAL
// texture format. Half precision is promoted to 32-bit float storage.
func halFormat(d Desc) types.TextureFormat {
	if d.Precision != PrecisionByte {
		return types.TextureFormatRGBA32Float
	}
	switch d.Format {
	case gputypes.TextureFormatBGRA8Unorm:
		return types.TextureFormatBGRA8Unorm
	case gputypes.TextureFormatR8Unorm:
		return types.TextureFormatR8Unorm
	case gputypes.TextureFormatDepth24PlusStencil8:
		return types.TextureFormatDepth24PlusStencil8
	default:
		return types.TextureFormatRGBA8Unorm
	}
}

// halUsage derives usage flags from the descriptor.
func halUsage(d Desc) types.TextureUsage {
	usage := types.TextureUsageTextureBinding | types.TextureUsageCopySrc
	switch d.Type {
	case TypeBuffer:
		usage |= types.TextureUsageStorageBinding | types.TextureUsageCopyDst
	default:
		usage |= types.TextureUsageRenderAttachment
	}
	return usage
}
