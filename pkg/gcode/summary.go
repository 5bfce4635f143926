package gcode

import (
	"fmt"
	"math"
	"strings"

	"github.com/epit3d/spycer/pkg/transform"
)

// Summary describes a parsed program for operators.
type Summary struct {
	Layers       int            `json:"layers"`
	Paths        int            `json:"paths"`
	Points       int            `json:"points"`
	Groups       []GroupSummary `json:"groups"`
	Min          transform.Vec3 `json:"min"`
	Max          transform.Vec3 `json:"max"`
	Origin       transform.Vec3 `json:"origin"`
	GroupChanges int            `json:"group_changes"`
}

// GroupSummary describes one rotation group.
type GroupSummary struct {
	ID          int         `json:"id"`
	Orientation Orientation `json:"orientation"`
	Layers      int         `json:"layers"`
	First       int         `json:"first_layer"`
}

// Summary computes layer, path and group statistics.
func (r *Result) Summary() Summary {
	s := Summary{
		Layers: len(r.Layers),
		Origin: r.Origin,
		Min:    transform.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)},
		Max:    transform.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}
	for i, o := range r.Orientations {
		s.Groups = append(s.Groups, GroupSummary{ID: i, Orientation: o, First: -1})
	}
	for i, l := range r.Layers {
		g := r.Rotations[i]
		s.Groups[g].Layers++
		if s.Groups[g].First < 0 {
			s.Groups[g].First = i
		}
		if i > 0 && r.Rotations[i-1] != g {
			s.GroupChanges++
		}
		s.Paths += len(l.Paths)
		for _, path := range l.Paths {
			s.Points += len(path)
			for _, p := range path {
				for k := 0; k < 3; k++ {
					s.Min[k] = math.Min(s.Min[k], p[k])
					s.Max[k] = math.Max(s.Max[k], p[k])
				}
			}
		}
	}
	if s.Points == 0 {
		s.Min, s.Max = transform.Vec3{}, transform.Vec3{}
	}
	return s
}

// String renders the summary as a short report.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d layers, %d paths, %d points\n", s.Layers, s.Paths, s.Points)
	fmt.Fprintf(&b, "bounds (%s, %s, %s) .. (%s, %s, %s)\n",
		num(s.Min[0]), num(s.Min[1]), num(s.Min[2]), num(s.Max[0]), num(s.Max[1]), num(s.Max[2]))
	fmt.Fprintf(&b, "%d rotation groups, %d group changes\n", len(s.Groups), s.GroupChanges)
	for _, g := range s.Groups {
		fmt.Fprintf(&b, "  group %d: A=%s C=%s, %d layers", g.ID, num(g.Orientation.A), num(g.Orientation.C), g.Layers)
		if g.First >= 0 {
			fmt.Fprintf(&b, ", first at %d", g.First)
		}
		b.WriteString("\n")
	}
	return b.String()
}

var num = transform.FormatFloat
