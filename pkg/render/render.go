package render

import (
	"github.com/epit3d/spycer/pkg/transform"
)

// Handle is an opaque reference to an actor owned by an Adapter.
// The zero Handle never refers to an actor.
type Handle uint64

// Kind identifies what a Descriptor describes.
type Kind int

const (
	KindLayer Kind = iota + 1
	KindPlane
	KindCone
	KindModel
	KindReferencePlane
	KindGizmo
)

var kindNames = map[Kind]string{
	KindLayer:          "layer",
	KindPlane:          "plane",
	KindCone:           "cone",
	KindModel:          "model",
	KindReferencePlane: "reference_plane",
	KindGizmo:          "gizmo",
}

// String returns the lowercase kind name.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Descriptor carries the geometry an Adapter needs to build an actor.
type Descriptor struct {
	Kind  Kind   `json:"kind"`
	Label string `json:"label,omitempty"`

	// Origin is the anchor point of planes, cones and the reference plane.
	Origin transform.Vec3 `json:"origin"`

	// Paths are polylines in the actor's local frame: toolpaths for layers,
	// outlines for figures and the reference plane.
	Paths [][]transform.Vec3 `json:"paths,omitempty"`

	// Params holds shape parameters by name ("incline", "cone_angle", ...).
	Params map[string]float64 `json:"params,omitempty"`

	// Triangles is the facet count of a model actor.
	Triangles int `json:"triangles,omitempty"`
}

// Adapter is implemented by the rendering collaborator.
// All methods are called from the interactive thread.
type Adapter interface {
	CreateHandle(d Descriptor) Handle
	DestroyHandle(h Handle)
	SetVisible(h Handle, visible bool)
	SetTransform(h Handle, t transform.Transform)
	SetColor(h Handle, c RGB)
	SetLineWidth(h Handle, w float64)
	RequestRedraw()
}
