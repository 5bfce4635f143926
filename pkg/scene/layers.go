package scene

import (
	"io"

	"github.com/epit3d/spycer/pkg/errors"
	"github.com/epit3d/spycer/pkg/mode"
	"github.com/epit3d/spycer/pkg/observability"
	"github.com/epit3d/spycer/pkg/playback"
)

// Scrub moves the scrub position to next, which must lie in [0, N], and
// returns it. In ShowingBoth the layers are brought on screen first.
func (c *Controller) Scrub(next int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.check(mode.Scrub); err != nil {
		return c.scrub, err
	}
	if err := errors.ValidateScrub(next, len(c.layers)); err != nil {
		return c.scrub, err
	}
	if c.modelView {
		c.setModelView(false)
	}

	plan := c.engine.Plan(c.scrub, next)
	c.engine.Apply(plan)
	observability.Scene().OnScrub(c.scrub, next, len(plan.Reframe))
	c.scrub = next
	return next, nil
}

// ScrubPosition returns the current scrub position.
func (c *Controller) ScrubPosition() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scrub
}

// ToggleModelGcodeSwitch flips between showing the model and showing the
// layers. It returns true when the model is now shown.
func (c *Controller) ToggleModelGcodeSwitch() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.check(mode.SwitchView); err != nil {
		return c.modelView, err
	}
	c.setModelView(!c.modelView)
	c.adapter.RequestRedraw()
	return c.modelView, nil
}

// setModelView shows either the model or the visible layer prefix.
func (c *Controller) setModelView(model bool) {
	c.modelView = model
	if c.modelHandle != 0 {
		c.adapter.SetVisible(c.modelHandle, model)
	}
	upper := playback.Upper(c.scrub, len(c.layers))
	for b, h := range c.layers {
		c.adapter.SetVisible(h, !model && b < upper)
	}
}

// ExportGcode writes the loaded gcode program to w.
func (c *Controller) ExportGcode(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.check(mode.Export); err != nil {
		return err
	}
	if _, err := w.Write(c.program.Source); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "export gcode")
	}
	return nil
}
