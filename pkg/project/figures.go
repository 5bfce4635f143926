// Package project reads and writes figure sets and project files.
//
// Both are TOML documents. A figure set is a list of [[figure]] tables
// tagged with type = "plane" or type = "cone":
//
//	[[figure]]
//	type = "plane"
//	x = 0.0
//	y = 0.0
//	z = 10.0
//	incline = 30.0
//	rot = 0.0
//
//	[[figure]]
//	type = "cone"
//	x = 0.0
//	y = 0.0
//	z = 20.0
//	cone_angle = 45.0
//	height = 15.0
//
// A project file adds the model and gcode paths and the scrub position.
package project

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/epit3d/spycer/pkg/errors"
	"github.com/epit3d/spycer/pkg/figure"
)

type figureRecord struct {
	Type      string   `toml:"type"`
	X         float64  `toml:"x"`
	Y         float64  `toml:"y"`
	Z         float64  `toml:"z"`
	Incline   *float64 `toml:"incline,omitempty"`
	Rot       *float64 `toml:"rot,omitempty"`
	ConeAngle *float64 `toml:"cone_angle,omitempty"`
	Height    *float64 `toml:"height,omitempty"`
}

type figureSet struct {
	Figures []figureRecord `toml:"figure"`
}

func toRecord(f figure.Figure) figureRecord {
	switch f := f.(type) {
	case figure.Plane:
		return figureRecord{Type: string(figure.KindPlane), X: f.X, Y: f.Y, Z: f.Z, Incline: &f.Incline, Rot: &f.Rot}
	case figure.Cone:
		return figureRecord{Type: string(figure.KindCone), X: f.X, Y: f.Y, Z: f.Z, ConeAngle: &f.ConeAngle, Height: &f.Height}
	}
	errors.Invariant("unknown figure type %T", f)
	return figureRecord{}
}

func val(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func (r figureRecord) figure(i int) (figure.Figure, error) {
	var f figure.Figure
	switch figure.Kind(strings.ToLower(r.Type)) {
	case figure.KindPlane:
		if r.ConeAngle != nil || r.Height != nil {
			return nil, errors.New(errors.ErrCodeInvalidFigure, "figure %d: plane has cone fields", i+1)
		}
		f = figure.Plane{X: r.X, Y: r.Y, Z: r.Z, Incline: val(r.Incline), Rot: val(r.Rot)}
	case figure.KindCone:
		if r.Incline != nil || r.Rot != nil {
			return nil, errors.New(errors.ErrCodeInvalidFigure, "figure %d: cone has plane fields", i+1)
		}
		if r.ConeAngle == nil || r.Height == nil {
			return nil, errors.New(errors.ErrCodeInvalidFigure, "figure %d: cone needs cone_angle and height", i+1)
		}
		f = figure.Cone{X: r.X, Y: r.Y, Z: r.Z, ConeAngle: *r.ConeAngle, Height: *r.Height}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFigure, "figure %d: unknown type %q", i+1, r.Type)
	}
	if err := f.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFigure, err, "figure %d", i+1)
	}
	return f, nil
}

// EncodeFigures writes figs as a figure set.
func EncodeFigures(w io.Writer, figs []figure.Figure) error {
	set := figureSet{Figures: make([]figureRecord, len(figs))}
	for i, f := range figs {
		set.Figures[i] = toRecord(f)
	}
	return toml.NewEncoder(w).Encode(set)
}

// DecodeFigures reads a figure set. Every figure is validated; unknown keys
// are rejected so that typos do not silently become zero values.
func DecodeFigures(r io.Reader) ([]figure.Figure, error) {
	var set figureSet
	md, err := toml.NewDecoder(r).Decode(&set)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode figures")
	}
	if un := md.Undecoded(); len(un) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown figure key %q", un[0].String())
	}
	return toFigures(set.Figures)
}

func toFigures(recs []figureRecord) ([]figure.Figure, error) {
	out := make([]figure.Figure, len(recs))
	for i, rec := range recs {
		f, err := rec.figure(i)
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

// SaveFigures writes a figure set file.
func SaveFigures(path string, figs []figure.Figure) error {
	var buf bytes.Buffer
	if err := EncodeFigures(&buf, figs); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// LoadFigures reads a figure set file.
func LoadFigures(path string) ([]figure.Figure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
	}
	defer f.Close()
	return DecodeFigures(f)
}
