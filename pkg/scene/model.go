package scene

import (
	"github.com/epit3d/spycer/pkg/errors"
	"github.com/epit3d/spycer/pkg/mode"
	"github.com/epit3d/spycer/pkg/model"
	"github.com/epit3d/spycer/pkg/render"
	"github.com/epit3d/spycer/pkg/transform"
)

// ToggleMoveMode starts or finishes moving the model. Finishing re-snaps the
// model so its lowest point rests on z = 0. It returns true while moving.
func (c *Controller) ToggleMoveMode() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	from := c.machine.Current()
	if c.machine.Moving() {
		if err := c.machine.LeaveMoving(); err != nil {
			return true, err
		}
		c.snapToPlane()
		c.adapter.SetVisible(c.gizmo, false)
		c.setModelView(c.resumeView)
		c.adapter.RequestRedraw()
		c.logTransition(from)
		return false, nil
	}

	if err := c.machine.EnterMoving(); err != nil {
		c.reject(mode.MoveModel, err)
		return false, err
	}
	c.resumeView = c.modelView
	if c.gizmo == 0 {
		c.gizmo = c.adapter.CreateHandle(render.Descriptor{
			Kind:   render.KindGizmo,
			Label:  "gizmo",
			Origin: c.mesh.Center(),
		})
	}
	c.adapter.SetTransform(c.gizmo, c.modelTransform)
	c.adapter.SetVisible(c.gizmo, true)
	c.setModelView(true)
	c.adapter.RequestRedraw()
	c.logTransition(from)
	return true, nil
}

// snapToPlane appends a translation lifting the model's lowest point to
// z = 0 and propagates it to the gizmo.
func (c *Controller) snapToPlane() {
	zmin := c.mesh.MinZ(c.modelTransform)
	c.modelTransform = c.modelTransform.PostTranslate(0, 0, -zmin)
	c.adapter.SetTransform(c.modelHandle, c.modelTransform)
	c.adapter.SetTransform(c.gizmo, c.modelTransform)
	c.logger.Debug("model snapped to plane", "zmin", zmin)
}

// MoveModel places the model with t. It is only legal while moving.
func (c *Controller) MoveModel(t transform.Transform) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.machine.Moving() {
		err := errors.New(errors.ErrCodeIllegalOperation, "operation %s not permitted in mode %s: model is not being moved", mode.MoveModel, c.machine.Current())
		c.reject(mode.MoveModel, err)
		return err
	}
	c.modelTransform = t
	c.adapter.SetTransform(c.modelHandle, t)
	c.adapter.SetTransform(c.gizmo, t)
	c.adapter.RequestRedraw()
	return nil
}

// ModelPose returns the model's position, scale and orientation.
func (c *Controller) ModelPose() (transform.Pose, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mesh == nil {
		return transform.Pose{}, false
	}
	return c.modelTransform.Pose(), true
}

// ModelTransform returns the model's current placement.
func (c *Controller) ModelTransform() (transform.Transform, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mesh == nil {
		return transform.Transform{}, false
	}
	return c.modelTransform, true
}

// Model returns the loaded mesh, if any.
func (c *Controller) Model() *model.Mesh {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mesh
}

// RecolorModel paints the model with col.
func (c *Controller) RecolorModel(col render.RGB) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.check(mode.Recolor); err != nil {
		return err
	}
	c.adapter.SetColor(c.modelHandle, col)
	c.adapter.RequestRedraw()
	return nil
}
