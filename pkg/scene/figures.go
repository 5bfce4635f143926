package scene

import (
	"github.com/epit3d/spycer/pkg/figure"
	"github.com/epit3d/spycer/pkg/mode"
)

// AddFigure appends f and selects it.
func (c *Controller) AddFigure(f figure.Figure) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.check(mode.EditFigures); err != nil {
		return -1, err
	}
	return c.figures.Add(f)
}

// UpdateFigure replaces figure i.
func (c *Controller) UpdateFigure(i int, f figure.Figure) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.check(mode.EditFigures); err != nil {
		return err
	}
	return c.figures.Update(i, f)
}

// RemoveFigure deletes figure i.
func (c *Controller) RemoveFigure(i int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.check(mode.EditFigures); err != nil {
		return err
	}
	return c.figures.Remove(i)
}

// SelectFigure highlights figure i.
func (c *Controller) SelectFigure(i int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.check(mode.EditFigures); err != nil {
		return err
	}
	return c.figures.Select(i)
}

// ResetFigures replaces the whole figure set, as when a figure file is
// opened.
func (c *Controller) ResetFigures(figs []figure.Figure) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.check(mode.EditFigures); err != nil {
		return err
	}
	return c.figures.Reset(figs)
}

// SetFiguresHidden shows or hides all figures. It is allowed in every mode.
func (c *Controller) SetFiguresHidden(hidden bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.figures.SetHidden(hidden)
}

// Figures returns a copy of the figure sequence.
func (c *Controller) Figures() []figure.Figure {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.figures.Figures()
}

// SelectedFigure returns the selected figure index, if any.
func (c *Controller) SelectedFigure() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.figures.Selected()
}
