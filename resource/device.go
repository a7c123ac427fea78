// Copyright 2026 The mdimension Authors
// SPDX-License-Identifier: BSD-3-Clause

package resource

import "github.com/gogpu/gpucontext"

// DeviceHandle provides GPU device access from the host application.
//
// The host application (window/context layer) implements DeviceHandle and
// passes it down; the render graph RECEIVES the device, it does not create
// one. This keeps device ownership with the layer that also owns the
// swapchain and is the boundary across which backing-context loss is
// reported.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider so hosts already
// integrated with the gpucontext ecosystem plug in without adaptation.
// [NewHALPoolFromProvider] consumes the handle directly: the provider's
// Device token must expose its HAL layer, as *wgpu.Device does.
type DeviceHandle = gpucontext.DeviceProvider
