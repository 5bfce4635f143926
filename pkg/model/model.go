// Package model loads the solid model shown and sliced by the viewer.
package model

import (
	"bytes"
	"io"
	"math"
	"os"

	"github.com/hschendel/stl"

	"github.com/epit3d/spycer/pkg/errors"
	"github.com/epit3d/spycer/pkg/render"
	"github.com/epit3d/spycer/pkg/transform"
)

// Mesh is a triangle mesh in model space.
type Mesh struct {
	Name      string
	Triangles [][3]transform.Vec3
	Min, Max  transform.Vec3
}

// Load reads an ASCII or binary STL file.
func Load(path string) (*Mesh, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	if err := errors.ValidateExtension(path, ".stl"); err != nil {
		return nil, err
	}
	solid, err := stl.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLoadFailure, err, "load model %s", path)
	}
	return FromSolid(solid)
}

// Read decodes STL data.
func Read(r io.Reader) (*Mesh, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLoadFailure, err, "read stl")
	}
	solid, err := stl.ReadAll(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLoadFailure, err, "parse stl")
	}
	return FromSolid(solid)
}

// FromSolid converts a decoded STL solid. A solid without triangles is a
// load failure.
func FromSolid(s *stl.Solid) (*Mesh, error) {
	if len(s.Triangles) == 0 {
		return nil, errors.New(errors.ErrCodeLoadFailure, "model has no triangles")
	}
	m := &Mesh{
		Name:      s.Name,
		Triangles: make([][3]transform.Vec3, len(s.Triangles)),
		Min:       transform.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)},
		Max:       transform.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}
	for i, t := range s.Triangles {
		for j, v := range t.Vertices {
			p := transform.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
			m.Triangles[i][j] = p
			for k := 0; k < 3; k++ {
				m.Min[k] = math.Min(m.Min[k], p[k])
				m.Max[k] = math.Max(m.Max[k], p[k])
			}
		}
	}
	return m, nil
}

// MinZ returns the lowest z of the mesh placed by t.
func (m *Mesh) MinZ(t transform.Transform) float64 {
	z := math.Inf(1)
	for _, tri := range m.Triangles {
		for _, v := range tri {
			z = math.Min(z, t.Apply(v).Z())
		}
	}
	return z
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() transform.Vec3 {
	return m.Min.Add(m.Max).Mul(0.5)
}

// Size returns the bounding box extents.
func (m *Mesh) Size() transform.Vec3 {
	return m.Max.Sub(m.Min)
}

// Descriptor returns the render descriptor: one closed outline per triangle.
func (m *Mesh) Descriptor() render.Descriptor {
	paths := make([][]transform.Vec3, len(m.Triangles))
	for i, t := range m.Triangles {
		paths[i] = []transform.Vec3{t[0], t[1], t[2], t[0]}
	}
	return render.Descriptor{
		Kind:      render.KindModel,
		Label:     m.Name,
		Origin:    m.Center(),
		Paths:     paths,
		Triangles: len(m.Triangles),
	}
}

// Write encodes the mesh placed by t as binary STL, which is what the
// slicing engine reads.
func (m *Mesh) Write(w io.Writer, t transform.Transform) error {
	solid := &stl.Solid{Name: m.Name, Triangles: make([]stl.Triangle, len(m.Triangles))}
	for i, tri := range m.Triangles {
		a, b, c := t.Apply(tri[0]), t.Apply(tri[1]), t.Apply(tri[2])
		n := b.Sub(a).Cross(c.Sub(a))
		if l := n.Len(); l > 0 {
			n = n.Mul(1 / l)
		}
		solid.Triangles[i] = stl.Triangle{
			Normal:   toSTL(n),
			Vertices: [3]stl.Vec3{toSTL(a), toSTL(b), toSTL(c)},
		}
	}
	return solid.WriteAll(w)
}

// WriteFile writes the placed mesh to path.
func (m *Mesh) WriteFile(path string, t transform.Transform) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := m.Write(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func toSTL(v transform.Vec3) stl.Vec3 {
	return stl.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}
