package scene

import (
	"github.com/epit3d/spycer/pkg/figure"
	"github.com/epit3d/spycer/pkg/mode"
	"github.com/epit3d/spycer/pkg/transform"
)

// State is a read-only view of the scene for UI collaborators.
type State struct {
	Mode      mode.Mode        `json:"mode"`
	Permitted []mode.Operation `json:"permitted"`

	Scrub  int `json:"scrub"`
	Layers int `json:"layers"`
	Groups int `json:"groups"`
	// Group is the rotation group in effect at Scrub.
	Group int `json:"group"`

	Figures       []FigureState `json:"figures"`
	Selected      *int          `json:"selected"`
	FiguresHidden bool          `json:"figures_hidden"`

	ModelLoaded bool            `json:"model_loaded"`
	ModelShown  bool            `json:"model_shown"`
	ModelPose   *transform.Pose `json:"model_pose,omitempty"`
}

// FigureState describes one figure.
type FigureState struct {
	Label   string      `json:"label"`
	Kind    figure.Kind `json:"kind"`
	Summary string      `json:"summary"`
}

// State returns a snapshot of the scene.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := State{
		Mode:          c.machine.Current(),
		Permitted:     mode.Capabilities(c.machine.Current()).Operations(),
		Scrub:         c.scrub,
		Layers:        len(c.layers),
		FiguresHidden: c.figures.Hidden(),
		ModelLoaded:   c.mesh != nil,
		ModelShown:    c.mesh != nil && c.modelView,
	}
	if c.engine != nil {
		s.Groups = len(c.program.Orientations)
		s.Group = c.engine.Group(c.scrub)
	}
	for i, f := range c.figures.Figures() {
		s.Figures = append(s.Figures, FigureState{Label: figure.Label(i), Kind: f.Kind(), Summary: f.String()})
	}
	if i, ok := c.figures.Selected(); ok {
		s.Selected = &i
	}
	if c.mesh != nil {
		p := c.modelTransform.Pose()
		s.ModelPose = &p
	}
	return s
}
