package project

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/epit3d/spycer/pkg/errors"
	"github.com/epit3d/spycer/pkg/figure"
)

var sample = []figure.Figure{
	figure.Plane{X: 0, Y: 0, Z: 10, Incline: 30, Rot: 0},
	figure.Cone{X: 1, Y: 2, Z: 20, ConeAngle: 45, Height: 15},
	figure.Plane{X: -5, Y: 3, Z: 0, Incline: -60, Rot: 90},
}

func TestFiguresRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeFigures(&buf, sample); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `type = "cone"`) {
		t.Errorf("encoded set missing cone tag:\n%s", buf.String())
	}
	got, err := DecodeFigures(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, sample) {
		t.Errorf("DecodeFigures = %v, want %v", got, sample)
	}
}

func TestDecodeFiguresErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code errors.Code
	}{
		{"unknown type", "[[figure]]\ntype = \"sphere\"\n", errors.ErrCodeInvalidFigure},
		{"mixed fields", "[[figure]]\ntype = \"plane\"\nheight = 3.0\n", errors.ErrCodeInvalidFigure},
		{"cone missing height", "[[figure]]\ntype = \"cone\"\ncone_angle = 30.0\n", errors.ErrCodeInvalidFigure},
		{"invalid incline", "[[figure]]\ntype = \"plane\"\nincline = 120.0\n", errors.ErrCodeInvalidFigure},
		{"unknown key", "[[figure]]\ntype = \"plane\"\ninclne = 10.0\n", errors.ErrCodeInvalidInput},
		{"syntax", "[[figure]\n", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeFigures(strings.NewReader(tt.doc))
			if !errors.Is(err, tt.code) {
				t.Errorf("DecodeFigures error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestDecodeEmpty(t *testing.T) {
	figs, err := DecodeFigures(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if len(figs) != 0 {
		t.Errorf("len = %d, want 0", len(figs))
	}
}

func TestFigureFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "figures.toml")
	if err := SaveFigures(path, sample); err != nil {
		t.Fatal(err)
	}
	got, err := LoadFigures(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(sample) {
		t.Errorf("len = %d, want %d", len(got), len(sample))
	}
	if _, err := LoadFigures(filepath.Join(t.TempDir(), "none.toml")); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing file error = %v, want NOT_FOUND", err)
	}
}

func TestProjectRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "part.spycer.toml")
	in := Project{
		Model:   filepath.Join(dir, "models", "part.stl"),
		Gcode:   "/elsewhere/part.gcode",
		Figures: sample[:2],
		Scrub:   42,
	}
	if err := Save(path, in); err != nil {
		t.Fatal(err)
	}

	raw, _ := os.ReadFile(path)
	if !strings.Contains(string(raw), `model = "models`) {
		t.Errorf("model path should be stored relative:\n%s", raw)
	}

	out, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if out.Model != in.Model {
		t.Errorf("Model = %q, want %q", out.Model, in.Model)
	}
	if out.Gcode != in.Gcode {
		t.Errorf("Gcode = %q, want %q", out.Gcode, in.Gcode)
	}
	if out.Scrub != 42 {
		t.Errorf("Scrub = %d, want 42", out.Scrub)
	}
	if !reflect.DeepEqual(out.Figures, in.Figures) {
		t.Errorf("Figures = %v, want %v", out.Figures, in.Figures)
	}
}

func TestProjectLoadErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	_ = os.WriteFile(path, []byte("scrub = -1\n"), 0644)
	if _, err := Load(path); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("negative scrub error = %v, want INVALID_INPUT", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing error = %v, want NOT_FOUND", err)
	}
}
