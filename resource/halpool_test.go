// Copyright 2026 The mdimension Authors
// SPDX-License-Identifier: BSD-3-Clause

package resource

import (
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// mockDevice is a device token with no HAL layer.
type mockDevice struct{}

// mockProvider implements gpucontext.DeviceProvider for testing.
type mockProvider struct {
	device gpucontext.Device
}

func (m *mockProvider) Device() gpucontext.Device             { return m.device }
func (m *mockProvider) Queue() gpucontext.Queue               { return nil }
func (m *mockProvider) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatBGRA8Unorm }
func (m *mockProvider) Adapter() gpucontext.Adapter           { return nil }
func (m *mockProvider) AdapterInfo() gpucontext.AdapterInfo   { return gpucontext.AdapterInfo{} }

// TestNewHALPoolFromProvider tests the DeviceHandle path: the provider is
// consumed as a gpucontext.DeviceProvider and its device token must
// expose the HAL layer.
func TestNewHALPoolFromProvider(t *testing.T) {
	if _, err := NewHALPoolFromProvider(nil, 64, 64); !errors.Is(err, ErrNoDevice) {
		t.Errorf("nil provider: err = %v, want ErrNoDevice", err)
	}

	var handle DeviceHandle = &mockProvider{device: &mockDevice{}}
	if _, err := NewHALPoolFromProvider(handle, 64, 64); !errors.Is(err, ErrNoHALTypes) {
		t.Errorf("token without HAL layer: err = %v, want ErrNoHALTypes", err)
	}
}

// TestNewHALPoolNilDevice tests the direct constructor's device guard.
func TestNewHALPoolNilDevice(t *testing.T) {
	if _, err := NewHALPool(nil, nil, 64, 64); !errors.Is(err, ErrNoDevice) {
		t.Errorf("NewHALPool(nil) = %v, want ErrNoDevice", err)
	}
}
