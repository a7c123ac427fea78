// Copyright 2026 The mdimension Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package settings loads and persists the quality and performance knobs
// as TOML. The execution loop never reads settings live; a Getter feeds
// them into the per-frame snapshot so mid-frame edits take effect at the
// next frame boundary.
package settings

import (
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/michael-h-patrianna/mdimension-sub006/frame"
)

// Quality holds the render-quality knobs.
type Quality struct {
	// Preset is the named quality preset ("low", "medium", "high").
	Preset string `toml:"preset"`

	// ResolutionScale scales internal targets relative to the viewport.
	ResolutionScale float32 `toml:"resolution_scale"`

	// TemporalAccumulation toggles history-based effects.
	TemporalAccumulation bool `toml:"temporal_accumulation"`

	// MaxFPS caps the frame rate; 0 means uncapped.
	MaxFPS int `toml:"max_fps"`
}

// Debug holds the diagnostics knobs.
type Debug struct {
	// History enables state-machine transition recording.
	History bool `toml:"history"`

	// StrictMode turns state violations into frame failures.
	StrictMode bool `toml:"strict_mode"`
}

// Settings is the persisted configuration root.
type Settings struct {
	Quality Quality `toml:"quality"`
	Debug   Debug   `toml:"debug"`
}

// Defaults returns the settings used when no file exists.
func Defaults() Settings {
	return Settings{
		Quality: Quality{
			Preset:               "high",
			ResolutionScale:      1.0,
			TemporalAccumulation: true,
		},
	}
}

// Load reads TOML settings from r, over the defaults: absent keys keep
// their default values.
func Load(r io.Reader) (Settings, error) {
	s := Defaults()
	dec := toml.NewDecoder(r)
	if err := dec.Decode(&s); err != nil {
		return Defaults(), fmt.Errorf("settings: decode: %w", err)
	}
	if err := s.validate(); err != nil {
		return Defaults(), err
	}
	return s, nil
}

// LoadFile reads TOML settings from path. A missing file is not an
// error; it yields the defaults.
func LoadFile(path string) (Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Defaults(), nil
		}
		return Defaults(), fmt.Errorf("settings: open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Save writes the settings as TOML to w.
func (s Settings) Save(w io.Writer) error {
	enc := toml.NewEncoder(w)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("settings: encode: %w", err)
	}
	return nil
}

// SaveFile writes the settings as TOML to path.
func (s Settings) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("settings: create %s: %w", path, err)
	}
	defer f.Close()
	return s.Save(f)
}

// validate clamps and rejects out-of-range values.
func (s *Settings) validate() error {
	if s.Quality.ResolutionScale <= 0 || s.Quality.ResolutionScale > 2 {
		return fmt.Errorf("settings: resolution_scale %v out of range (0, 2]", s.Quality.ResolutionScale)
	}
	if s.Quality.MaxFPS < 0 {
		return fmt.Errorf("settings: max_fps %d is negative", s.Quality.MaxFPS)
	}
	return nil
}

// QualityState converts the settings into the snapshot form the capture
// sources hand to the execution loop.
func (s Settings) QualityState() frame.QualityState {
	return frame.QualityState{
		Preset:               s.Quality.Preset,
		ResolutionScale:      s.Quality.ResolutionScale,
		TemporalAccumulation: s.Quality.TemporalAccumulation,
		MaxFPS:               s.Quality.MaxFPS,
		DebugHistory:         s.Debug.History,
	}
}
