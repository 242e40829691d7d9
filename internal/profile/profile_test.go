package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/banshee-data/motion.report/internal/pose"
)

func TestLookup_TunedSport(t *testing.T) {
	r := NewRegistry()
	p := r.Lookup(Badminton)

	if len(p) != len(pose.ScoredJoints) {
		t.Fatalf("expected %d joints, got %d", len(pose.ScoredJoints), len(p))
	}
	if rng := p["left_elbow"]; rng.Low != 90 || rng.High != 150 {
		t.Errorf("badminton left_elbow = [%f, %f], want [90, 150]", rng.Low, rng.High)
	}
	if rng := p["left_knee"]; rng.Low != 120 || rng.High != 170 {
		t.Errorf("badminton left_knee = [%f, %f], want [120, 170]", rng.Low, rng.High)
	}
}

func TestLookup_UnknownSportFallsBack(t *testing.T) {
	r := NewRegistry()
	for _, sport := range []string{Yoga, Running, "freestyle-unicycling"} {
		p := r.Lookup(sport)
		if len(p) != len(pose.ScoredJoints) {
			t.Fatalf("sport %s: expected full joint table, got %d entries", sport, len(p))
		}
		for joint, rng := range p {
			if rng.Low != 45 || rng.High != 135 {
				t.Errorf("sport %s joint %s = [%f, %f], want default [45, 135]", sport, joint, rng.Low, rng.High)
			}
		}
	}
}

func TestLoadFile_Overrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profiles.json")
	content := `{"badminton": {"left_elbow": {"low": 85, "high": 155}}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry()
	if err := r.LoadFile(path); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	p := r.Lookup(Badminton)
	if rng := p["left_elbow"]; rng.Low != 85 || rng.High != 155 {
		t.Errorf("override not applied: left_elbow = [%f, %f]", rng.Low, rng.High)
	}
	// Other joints keep their built-in values.
	if rng := p["right_elbow"]; rng.Low != 90 || rng.High != 150 {
		t.Errorf("unrelated joint changed: right_elbow = [%f, %f]", rng.Low, rng.High)
	}
}

func TestLoadFile_Validation(t *testing.T) {
	dir := t.TempDir()

	cases := []struct {
		name    string
		file    string
		content string
	}{
		{"wrong extension", "profiles.yaml", `{}`},
		{"bad json", "bad.json", `{not json`},
		{"inverted range", "inverted.json", `{"tennis": {"left_elbow": {"low": 150, "high": 90}}}`},
		{"out of bounds", "bounds.json", `{"tennis": {"left_elbow": {"low": -10, "high": 200}}}`},
		{"unknown joint", "joint.json", `{"tennis": {"left_antenna": {"low": 10, "high": 20}}}`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			path := filepath.Join(dir, c.file)
			if err := os.WriteFile(path, []byte(c.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if err := NewRegistry().LoadFile(path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestIsKnownSport(t *testing.T) {
	if !IsKnownSport(Badminton) {
		t.Error("badminton should be known")
	}
	if IsKnownSport("croquet") {
		t.Error("croquet should not be known")
	}
}
