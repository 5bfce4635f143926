package scene

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/epit3d/spycer/pkg/figure"
	"github.com/epit3d/spycer/pkg/gcode"
	"github.com/epit3d/spycer/pkg/mode"
	"github.com/epit3d/spycer/pkg/model"
	"github.com/epit3d/spycer/pkg/observability"
	"github.com/epit3d/spycer/pkg/playback"
	"github.com/epit3d/spycer/pkg/render"
	"github.com/epit3d/spycer/pkg/transform"
)

// Option configures a Controller.
type Option func(*Controller)

// WithStyle sets the colors and widths applied to actors.
func WithStyle(s render.Style) Option {
	return func(c *Controller) { c.style = s }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// Controller is the scene façade. It is safe for concurrent use.
type Controller struct {
	mu      sync.Mutex
	adapter render.Adapter
	style   render.Style
	logger  *log.Logger
	machine *mode.Machine
	figures *figure.Registry

	plane render.Handle

	mesh           *model.Mesh
	modelHandle    render.Handle
	modelTransform transform.Transform
	gizmo          render.Handle

	program *gcode.Result
	layers  []render.Handle
	engine  *playback.Engine
	scrub   int

	// modelView is set while the model, not the layers, is on screen.
	modelView bool
	// resumeView is modelView before the model was picked up.
	resumeView bool
}

// backgroundSetter is implemented by adapters that draw a background.
type backgroundSetter interface {
	SetBackground(render.RGB)
}

// New creates a controller in mode Nothing and draws the reference plane.
func New(adapter render.Adapter, opts ...Option) *Controller {
	c := &Controller{
		adapter: adapter,
		style:   render.DefaultStyle(),
		logger:  log.NewWithOptions(io.Discard, log.Options{}),
		machine: mode.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.figures = figure.NewRegistry(adapter, c.style)

	if bg, ok := adapter.(backgroundSetter); ok {
		bg.SetBackground(c.style.Background)
	}
	c.plane = adapter.CreateHandle(referencePlane(c.style))
	adapter.RequestRedraw()
	return c
}

func referencePlane(s render.Style) render.Descriptor {
	hx, hy := s.PlaneSizeX/2, s.PlaneSizeY/2
	return render.Descriptor{
		Kind:  render.KindReferencePlane,
		Label: "reference plane",
		Paths: [][]transform.Vec3{{{-hx, -hy, 0}, {hx, -hy, 0}, {hx, hy, 0}, {-hx, hy, 0}, {-hx, -hy, 0}}},
	}
}

// Mode returns the current operating mode.
func (c *Controller) Mode() mode.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.Current()
}

// IsPermitted reports whether op is legal in the current mode.
func (c *Controller) IsPermitted(op mode.Operation) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.IsPermitted(op)
}

// Check returns an ILLEGAL_OPERATION error when op is not permitted in the
// current mode. Rejections are logged and reported like any other.
func (c *Controller) Check(op mode.Operation) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.check(op)
}

// Style returns the style the controller draws with.
func (c *Controller) Style() render.Style { return c.style }

// check gates op and reports rejections. c.mu must be held.
func (c *Controller) check(op mode.Operation) error {
	if err := c.machine.Check(op); err != nil {
		c.reject(op, err)
		return err
	}
	return nil
}

func (c *Controller) reject(op mode.Operation, err error) {
	c.logger.Debug("operation rejected", "op", op, "mode", c.machine.Current(), "err", err)
	observability.Scene().OnRejected(op.String(), c.machine.Current().String())
}

func (c *Controller) logTransition(from mode.Mode) {
	if to := c.machine.Current(); to != from {
		c.logger.Debug("mode changed", "from", from, "to", to)
	}
}
