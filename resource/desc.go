// Copyright 2026 The mdimension Authors
// SPDX-License-Identifier: BSD-3-Clause

package resource

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
)

// Descriptor errors.
var (
	// ErrEmptyID is returned when a descriptor has no id.
	ErrEmptyID = errors.New("resource: descriptor id is empty")

	// ErrInvalidSize is returned when a size policy cannot produce
	// positive dimensions.
	ErrInvalidSize = errors.New("resource: invalid size policy")
)

// Type classifies the physical shape of a resource.
type Type uint8

const (
	// TypeBuffer is a single linear GPU buffer.
	TypeBuffer Type = iota

	// TypeRenderTarget is a single-attachment color target.
	TypeRenderTarget

	// TypeMultiTarget is a multi-attachment target (e.g., G-buffer with
	// color + normal + depth attachments).
	TypeMultiTarget

	// TypeCubeMap is a six-face cube texture.
	TypeCubeMap
)

// String returns a human-readable name for the type.
func (t Type) String() string {
	switch t {
	case TypeBuffer:
		return "Buffer"
	case TypeRenderTarget:
		return "RenderTarget"
	case TypeMultiTarget:
		return "MultiTarget"
	case TypeCubeMap:
		return "CubeMap"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// SizeMode selects how a resource's dimensions are derived.
type SizeMode uint8

const (
	// SizeViewport sizes the resource to the full viewport.
	SizeViewport SizeMode = iota

	// SizeFixed uses explicit Width/Height.
	SizeFixed

	// SizeFraction sizes the resource to a fraction of the viewport
	// (e.g., half-resolution bloom chains).
	SizeFraction
)

// SizePolicy describes how a resource's physical dimensions follow the
// viewport. Viewport-relative resources are reallocated by the pool on
// Resize; fixed ones are not.
type SizePolicy struct {
	Mode     SizeMode
	Width    int
	Height   int
	Fraction float32
}

// Viewport is the size policy for full-viewport resources.
func Viewport() SizePolicy { return SizePolicy{Mode: SizeViewport} }

// Fixed is the size policy for explicit dimensions.
func Fixed(w, h int) SizePolicy { return SizePolicy{Mode: SizeFixed, Width: w, Height: h} }

// Fractional is the size policy for viewport-fraction dimensions.
func Fractional(f float32) SizePolicy { return SizePolicy{Mode: SizeFraction, Fraction: f} }

// Resolve computes concrete dimensions for the given viewport. Dimensions
// are clamped to at least 1x1.
func (p SizePolicy) Resolve(viewportW, viewportH int) (int, int) {
	var w, h int
	switch p.Mode {
	case SizeFixed:
		w, h = p.Width, p.Height
	case SizeFraction:
		w = int(float32(viewportW) * p.Fraction)
		h = int(float32(viewportH) * p.Fraction)
	default:
		w, h = viewportW, viewportH
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// ViewportRelative reports whether a viewport resize changes the resolved
// dimensions.
func (p SizePolicy) ViewportRelative() bool { return p.Mode != SizeFixed }

// Precision is a storage-precision hint layered over the texture format.
type Precision uint8

const (
	// PrecisionByte is 8 bits per channel.
	PrecisionByte Precision = iota

	// PrecisionHalf is 16-bit float per channel (HDR intermediates).
	PrecisionHalf

	// PrecisionFloat is 32-bit float per channel.
	PrecisionFloat
)

// bytesFactor returns the multiplier over 8-bit channels.
func (p Precision) bytesFactor() int {
	switch p {
	case PrecisionHalf:
		return 2
	case PrecisionFloat:
		return 4
	default:
		return 1
	}
}

// Desc declares a resource. Descriptors are created at graph-build time;
// the pool allocates and resizes backing storage lazily.
type Desc struct {
	// ID is the stable identity every access refers to.
	ID string

	// Type is the physical shape.
	Type Type

	// Size derives dimensions from the viewport.
	Size SizePolicy

	// Format is the texel format. Zero value means RGBA8.
	Format gputypes.TextureFormat

	// Precision is a storage-precision hint over Format.
	Precision Precision

	// Persistent marks resources whose content is meaningful across
	// frames (temporal history). Persistence does not exempt a resource
	// from the per-frame written-then-read validation.
	Persistent bool

	// Samples is the MSAA sample count. Zero means 1.
	Samples int

	// DepthBuffer attaches a depth buffer to a render target.
	DepthBuffer bool

	// Attachments is the attachment count for TypeMultiTarget. Zero
	// means 1.
	Attachments int
}

// Validate checks a descriptor for configuration errors.
func (d Desc) Validate() error {
	if d.ID == "" {
		return ErrEmptyID
	}
	switch d.Size.Mode {
	case SizeFixed:
		if d.Size.Width <= 0 || d.Size.Height <= 0 {
			return fmt.Errorf("%w: fixed %dx%d for %q", ErrInvalidSize, d.Size.Width, d.Size.Height, d.ID)
		}
	case SizeFraction:
		if d.Size.Fraction <= 0 {
			return fmt.Errorf("%w: fraction %v for %q", ErrInvalidSize, d.Size.Fraction, d.ID)
		}
	}
	return nil
}

// bytesPerPixel estimates the per-texel storage cost.
func (d Desc) bytesPerPixel() int {
	var base int
	switch d.Format {
	case gputypes.TextureFormatR8Unorm:
		base = 1
	case gputypes.TextureFormatDepth24PlusStencil8:
		base = 4
	default:
		// RGBA8/BGRA8 and the zero value.
		base = 4
	}
	return base * d.Precision.bytesFactor()
}

// layerCount returns the number of 2D layers backing the resource.
func (d Desc) layerCount() int {
	switch d.Type {
	case TypeCubeMap:
		return 6
	case TypeMultiTarget:
		if d.Attachments > 1 {
			return d.Attachments
		}
	}
	return 1
}

// SizeBytes estimates the allocation size for the given dimensions.
func (d Desc) SizeBytes(w, h int) uint64 {
	samples := d.Samples
	if samples < 1 {
		samples = 1
	}
	bytes := uint64(w) * uint64(h) * uint64(d.bytesPerPixel()) * uint64(d.layerCount()) * uint64(samples)
	if d.DepthBuffer {
		bytes += uint64(w) * uint64(h) * 4
	}
	return bytes
}
