// Copyright 2026 The mdimension Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package shader compiles WGSL pass programs and manages their GPU
// lifetime. Passes own the programs they create and release them from
// their dispose hooks.
package shader

import (
	"errors"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// ErrEmptySource is returned when compiling an empty shader.
var ErrEmptySource = errors.New("shader: empty source")

// CompileWGSL compiles WGSL source to a SPIR-V uint32 slice.
func CompileWGSL(source string) ([]uint32, error) {
	if source == "" {
		return nil, ErrEmptySource
	}
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("shader: compile: %w", err)
	}

	// SPIR-V is little-endian 32-bit words.
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return code, nil
}

// Program is a compiled shader module bound to the device that created
// it. A Program is privately owned by one pass; the pool never touches it.
type Program struct {
	label  string
	device hal.Device
	module hal.ShaderModule
	code   []uint32
}

// NewProgram compiles WGSL and creates the shader module on device.
func NewProgram(device hal.Device, label, source string) (*Program, error) {
	code, err := CompileWGSL(source)
	if err != nil {
		return nil, fmt.Errorf("shader: program %q: %w", label, err)
	}
	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: hal.ShaderSource{SPIRV: code},
	})
	if err != nil {
		return nil, fmt.Errorf("shader: program %q: create module: %w", label, err)
	}
	return &Program{label: label, device: device, module: module, code: code}, nil
}

// Label returns the program's debug label.
func (p *Program) Label() string { return p.label }

// Module returns the HAL shader module.
func (p *Program) Module() hal.ShaderModule { return p.module }

// Code returns the compiled SPIR-V words.
func (p *Program) Code() []uint32 { return p.code }

// Destroy releases the shader module. Safe to call more than once.
func (p *Program) Destroy() {
	if p.module != nil && p.device != nil {
		p.device.DestroyShaderModule(p.module)
		p.module = nil
	}
}
