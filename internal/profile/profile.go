// Package profile holds the sport-specific optimal joint-angle tables.
// A profile is selected once at session start and is read-only for the
// session's lifetime; unknown sports fall back to a wide default range
// for every scored joint.
package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banshee-data/motion.report/internal/pose"
)

// DefaultConfigPath is the path to the canonical profile defaults file.
// This is the single source of truth for the built-in angle tables.
const DefaultConfigPath = "config/profiles.defaults.json"

// Known sport identifiers. Sports without a dedicated angle table use
// the default ranges.
const (
	Badminton  = "badminton"
	Tennis     = "tennis"
	Basketball = "basketball"
	Golf       = "golf"
	Running    = "running"
	Yoga       = "yoga"
)

// Sports lists every sport identifier the service accepts.
var Sports = []string{Badminton, Tennis, Basketball, Golf, Running, Yoga}

// IsKnownSport reports whether sport is in the accepted list.
func IsKnownSport(sport string) bool {
	for _, s := range Sports {
		if s == sport {
			return true
		}
	}
	return false
}

// AngleRange is an inclusive optimal range in degrees.
type AngleRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// SportProfile maps each scored joint name to its optimal angle range.
type SportProfile map[string]AngleRange

// defaultRange covers sports without a tuned table. Wide enough to
// score form without penalising unfamiliar disciplines.
var defaultRange = AngleRange{Low: 45, High: 135}

// builtinProfiles carries the tuned tables compiled into the binary.
// The JSON defaults file can override these at startup.
var builtinProfiles = map[string]SportProfile{
	Badminton: {
		"left_elbow":     {90, 150},
		"right_elbow":    {90, 150},
		"left_shoulder":  {70, 120},
		"right_shoulder": {70, 120},
		"left_knee":      {120, 170},
		"right_knee":     {120, 170},
		"left_hip":       {90, 150},
		"right_hip":      {90, 150},
	},
	Tennis: {
		"left_elbow":     {80, 140},
		"right_elbow":    {80, 140},
		"left_shoulder":  {60, 110},
		"right_shoulder": {60, 110},
		"left_knee":      {110, 160},
		"right_knee":     {110, 160},
		"left_hip":       {85, 145},
		"right_hip":      {85, 145},
	},
}

// Registry resolves sport identifiers to profiles. It is built once at
// startup and read-only afterwards.
type Registry struct {
	profiles map[string]SportProfile
}

// NewRegistry returns a registry carrying only the built-in tables.
func NewRegistry() *Registry {
	r := &Registry{profiles: make(map[string]SportProfile, len(builtinProfiles))}
	for sport, p := range builtinProfiles {
		cp := make(SportProfile, len(p))
		for joint, rng := range p {
			cp[joint] = rng
		}
		r.profiles[sport] = cp
	}
	return r
}

// Lookup returns the complete joint table for a sport. Joints missing
// from the sport's table, and sports with no table at all, get the wide
// default range so every scored joint always has bounds.
func (r *Registry) Lookup(sport string) SportProfile {
	full := make(SportProfile, len(pose.ScoredJoints))
	base := r.profiles[sport]
	for _, jt := range pose.ScoredJoints {
		if rng, ok := base[jt.Name]; ok {
			full[jt.Name] = rng
		} else {
			full[jt.Name] = defaultRange
		}
	}
	return full
}

// LoadFile merges profile overrides from a JSON file into the registry.
// The file is validated for extension and size; partial files are safe,
// only the sports and joints present are replaced.
func (r *Registry) LoadFile(path string) error {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return fmt.Errorf("profiles file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return fmt.Errorf("stat profiles file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return fmt.Errorf("profiles file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return fmt.Errorf("read profiles file: %w", err)
	}

	var overrides map[string]SportProfile
	if err := json.Unmarshal(data, &overrides); err != nil {
		return fmt.Errorf("parse profiles JSON: %w", err)
	}

	for sport, p := range overrides {
		if err := validateProfile(sport, p); err != nil {
			return err
		}
		merged := r.profiles[sport]
		if merged == nil {
			merged = make(SportProfile, len(p))
		}
		for joint, rng := range p {
			merged[joint] = rng
		}
		r.profiles[sport] = merged
	}
	return nil
}

func validateProfile(sport string, p SportProfile) error {
	known := make(map[string]bool, len(pose.ScoredJoints))
	for _, jt := range pose.ScoredJoints {
		known[jt.Name] = true
	}
	for joint, rng := range p {
		if !known[joint] {
			return fmt.Errorf("sport %q: unknown joint %q", sport, joint)
		}
		if rng.Low < 0 || rng.High > 180 || rng.Low >= rng.High {
			return fmt.Errorf("sport %q joint %q: invalid range [%f, %f]", sport, joint, rng.Low, rng.High)
		}
	}
	return nil
}
