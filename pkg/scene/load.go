package scene

import (
	"time"

	"github.com/epit3d/spycer/pkg/errors"
	"github.com/epit3d/spycer/pkg/gcode"
	"github.com/epit3d/spycer/pkg/mode"
	"github.com/epit3d/spycer/pkg/model"
	"github.com/epit3d/spycer/pkg/observability"
	"github.com/epit3d/spycer/pkg/playback"
	"github.com/epit3d/spycer/pkg/render"
	"github.com/epit3d/spycer/pkg/transform"
)

// LoadModel replaces the current model with m, placed untransformed. Loaded
// layers stay, and the scene shows the model.
func (c *Controller) LoadModel(m *model.Mesh) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.check(mode.Load); err != nil {
		return err
	}
	if m == nil || len(m.Triangles) == 0 {
		err := errors.New(errors.ErrCodeLoadFailure, "model has no triangles")
		observability.Scene().OnLoad("model", 0, 0, err)
		return err
	}
	start := time.Now()
	from := c.machine.Current()

	c.clearModel()
	c.mesh = m
	c.modelTransform = transform.Identity()
	c.modelHandle = c.adapter.CreateHandle(m.Descriptor())
	c.adapter.SetColor(c.modelHandle, c.style.Model)

	if err := c.machine.ModelLoaded(); err != nil {
		errors.Invariant("model load accepted in mode %s: %v", from, err)
	}
	c.setModelView(true)
	c.figures.SetHidden(c.machine.Current() != mode.ShowingModel)
	c.adapter.RequestRedraw()

	d := time.Since(start)
	c.logTransition(from)
	c.logger.Info("model loaded", "name", m.Name, "triangles", len(m.Triangles), "duration", d)
	observability.Scene().OnLoad("model", 0, d, nil)
	return nil
}

// LoadGcode replaces the current layer stack with res and shows all layers
// (scrub position N). A loaded model is hidden. Invalid results are rejected
// before anything on screen changes.
func (c *Controller) LoadGcode(res *gcode.Result) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.check(mode.Load); err != nil {
		return err
	}
	if res == nil {
		return errors.New(errors.ErrCodeLoadFailure, "no gcode")
	}
	if err := res.Validate(); err != nil {
		observability.Scene().OnLoad("gcode", 0, 0, err)
		return err
	}
	start := time.Now()
	from := c.machine.Current()

	c.clearLayers()
	c.program = res
	c.layers = make([]render.Handle, len(res.Layers))
	for i := range res.Layers {
		c.layers[i] = c.adapter.CreateHandle(res.Descriptor(i))
	}
	c.engine = playback.New(c.adapter, c.style, playback.Input{
		Layers:    c.layers,
		Rotations: res.Rotations,
		Groups:    res.Groups(),
		Plane:     c.plane,
	})
	c.engine.Initialize()
	c.scrub = len(c.layers)

	if err := c.machine.GcodeLoaded(); err != nil {
		errors.Invariant("gcode load accepted in mode %s: %v", from, err)
	}
	c.setModelView(false)
	c.figures.SetHidden(true)
	c.adapter.RequestRedraw()

	d := time.Since(start)
	c.logTransition(from)
	c.logger.Info("gcode loaded", "layers", len(res.Layers), "groups", len(res.Orientations), "duration", d)
	observability.Scene().OnLoad("gcode", len(res.Layers), d, nil)
	return nil
}

func (c *Controller) clearModel() {
	if c.gizmo != 0 {
		c.adapter.DestroyHandle(c.gizmo)
		c.gizmo = 0
	}
	if c.modelHandle != 0 {
		c.adapter.DestroyHandle(c.modelHandle)
		c.modelHandle = 0
	}
	c.mesh = nil
}

func (c *Controller) clearLayers() {
	for _, h := range c.layers {
		c.adapter.DestroyHandle(h)
	}
	c.layers = nil
	c.engine = nil
	c.program = nil
	c.scrub = 0
	c.adapter.SetTransform(c.plane, transform.Identity())
}
