// Package gcode reads multi-axis slicer output into the layer stack the
// viewer plays back.
//
// The dialect is the slicing engine's:
//
//	;ORIGIN:0 0 -50      rotation reference origin (optional)
//	;LAYER:0             starts layer 0
//	G0 X10 Y10 Z0.2      travel, ends the current polyline
//	G1 X20 Y10 E1.5      print move, extends the current polyline
//	G1 A30 C90           rotary axes: A about X, C about Z (degrees)
//	G90 / G91            absolute / relative positioning
//
// Every distinct (A, C) pair becomes a rotation group, numbered in order of
// first appearance; group 0 is the starting orientation (0, 0). A layer
// belongs to the group active when its ;LAYER line is read.
package gcode

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/epit3d/spycer/pkg/errors"
	"github.com/epit3d/spycer/pkg/render"
	"github.com/epit3d/spycer/pkg/transform"
)

// Orientation is a rotary axis setting in degrees.
type Orientation struct {
	A float64 `json:"a"`
	C float64 `json:"c"`
}

// Layer is one printed layer.
type Layer struct {
	// Number is the value of the ;LAYER comment.
	Number int
	// Paths are the print polylines in the frame of the layer's group.
	Paths [][]transform.Vec3
}

// Result is a parsed gcode program.
type Result struct {
	Layers       []Layer
	Rotations    []int
	Orientations []Orientation
	Origin       transform.Vec3

	// Source is the program text as read.
	Source []byte
}

// Groups returns the orientation transform of each rotation group, applied
// about Origin.
func (r *Result) Groups() []transform.Transform {
	out := make([]transform.Transform, len(r.Orientations))
	for i, o := range r.Orientations {
		out[i] = transform.RotationAbout(r.Origin, transform.Vec3{o.A, 0, o.C})
	}
	return out
}

// Validate checks that the result can be installed in the viewer.
func (r *Result) Validate() error {
	if len(r.Layers) == 0 {
		return errors.New(errors.ErrCodeLoadFailure, "gcode contains no layers")
	}
	if len(r.Layers) != len(r.Rotations) {
		return errors.New(errors.ErrCodeLoadFailure, "%d layers but %d rotation entries", len(r.Layers), len(r.Rotations))
	}
	for i, g := range r.Rotations {
		if g < 0 || g >= len(r.Orientations) {
			return errors.New(errors.ErrCodeLoadFailure, "layer %d references unknown rotation group %d", i, g)
		}
	}
	return nil
}

// Descriptor returns the render descriptor of layer i.
func (r *Result) Descriptor(i int) render.Descriptor {
	return render.Descriptor{
		Kind:  render.KindLayer,
		Label: fmt.Sprintf("layer %d", r.Layers[i].Number),
		Paths: r.Layers[i].Paths,
	}
}

// ParseFile parses the gcode file at path.
func ParseFile(path string) (*Result, error) {
	if err := errors.ValidateExtension(path, ".gcode", ".gco", ".nc"); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLoadFailure, err, "open gcode %s", path)
	}
	defer f.Close()
	return Parse(f)
}

type parser struct {
	res      Result
	groups   map[Orientation]int
	pos      transform.Vec3
	orient   Orientation
	relative bool
	layer    *Layer
	path     []transform.Vec3
}

// Parse reads a gcode program. Malformed words are load failures reported
// with their line number.
func Parse(r io.Reader) (*Result, error) {
	var src bytes.Buffer
	p := &parser{groups: map[Orientation]int{}}
	p.group(Orientation{})

	sc := bufio.NewScanner(io.TeeReader(r, &src))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for n := 1; sc.Scan(); n++ {
		if err := p.line(sc.Text()); err != nil {
			return nil, errors.Wrap(errors.ErrCodeLoadFailure, err, "line %d", n)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeLoadFailure, err, "read gcode")
	}
	p.closeLayer()
	p.res.Source = src.Bytes()

	if err := p.res.Validate(); err != nil {
		return nil, err
	}
	return &p.res, nil
}

func (p *parser) group(o Orientation) int {
	if g, ok := p.groups[o]; ok {
		return g
	}
	g := len(p.res.Orientations)
	p.groups[o] = g
	p.res.Orientations = append(p.res.Orientations, o)
	return g
}

func (p *parser) line(s string) error {
	code, comment, _ := strings.Cut(s, ";")
	if c := strings.TrimSpace(comment); c != "" {
		if err := p.comment(c); err != nil {
			return err
		}
	}

	fields := strings.Fields(strings.ToUpper(code))
	if len(fields) == 0 {
		return nil
	}
	switch fields[0] {
	case "G90":
		p.relative = false
	case "G91":
		p.relative = true
	case "G0", "G00", "G1", "G01":
		return p.move(fields[0] == "G1" || fields[0] == "G01", fields[1:])
	}
	return nil
}

func (p *parser) comment(c string) error {
	switch {
	case strings.HasPrefix(c, "LAYER:"):
		n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(c, "LAYER:")))
		if err != nil {
			return fmt.Errorf("bad layer comment %q", c)
		}
		p.closeLayer()
		p.layer = &Layer{Number: n}
		p.res.Rotations = append(p.res.Rotations, p.group(p.orient))
	case strings.HasPrefix(c, "ORIGIN:"):
		f := strings.Fields(strings.TrimPrefix(c, "ORIGIN:"))
		if len(f) != 3 {
			return fmt.Errorf("bad origin comment %q", c)
		}
		for i, s := range f {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return fmt.Errorf("bad origin comment %q", c)
			}
			p.res.Origin[i] = v
		}
	}
	return nil
}

func (p *parser) move(printing bool, words []string) error {
	next := p.pos
	orient := p.orient
	for _, w := range words {
		if len(w) < 2 {
			continue
		}
		v, err := strconv.ParseFloat(w[1:], 64)
		if err != nil {
			return fmt.Errorf("bad word %q", w)
		}
		switch w[0] {
		case 'X', 'Y', 'Z':
			axis := int(w[0] - 'X')
			if p.relative {
				next[axis] += v
			} else {
				next[axis] = v
			}
		case 'A':
			orient.A = v
		case 'C':
			orient.C = v
		}
	}

	if orient != p.orient {
		p.orient = orient
		p.group(orient)
		p.flush()
	}
	if !printing {
		p.flush()
	} else if p.layer != nil && next != p.pos {
		if len(p.path) == 0 {
			p.path = append(p.path, p.pos)
		}
		p.path = append(p.path, next)
	}
	p.pos = next
	return nil
}

func (p *parser) flush() {
	if p.layer != nil && len(p.path) >= 2 {
		p.layer.Paths = append(p.layer.Paths, p.path)
	}
	p.path = nil
}

func (p *parser) closeLayer() {
	p.flush()
	if p.layer != nil {
		p.res.Layers = append(p.res.Layers, *p.layer)
		p.layer = nil
	}
}
