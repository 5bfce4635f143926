package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/epit3d/spycer/pkg/figure"
	"github.com/epit3d/spycer/pkg/mode"
	"github.com/epit3d/spycer/pkg/render"
	"github.com/epit3d/spycer/pkg/render/sink"
	"github.com/epit3d/spycer/pkg/scene"
	"github.com/epit3d/spycer/pkg/slicer"
	"github.com/epit3d/spycer/pkg/transform"
)

type viewOpts struct {
	project string
	noCache bool
	workDir string
}

func (c *CLI) viewCommand() *cobra.Command {
	var opts viewOpts
	cmd := &cobra.Command{
		Use:   "view [file...]",
		Short: "Browse a scene interactively in the terminal",
		Long: `Open models, G-code and projects in an interactive terminal viewer.

Scrub layers with the arrow keys, edit figures, move the model and run the
slicing engine without leaving the viewer. Frames are exported as SVG.`,
		Example: `  spycer view part.stl part.gcode
  spycer view session.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd, args, opts)
		},
	}
	cmd.Flags().StringVar(&opts.project, "project", "project.toml", "project file written by the save key")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the slicing result cache")
	cmd.Flags().StringVar(&opts.workDir, "work-dir", "", "directory for slicing job files")
	return cmd
}

func (c *CLI) runView(cmd *cobra.Command, args []string, opts viewOpts) error {
	ctx := cmd.Context()
	ctrl, rec, err := c.newScene()
	if err != nil {
		return err
	}
	// The viewer owns the terminal; keep log lines out of it.
	c.SetLogLevel(log.ErrorLevel)

	vm := newViewModel(ctx, ctrl, rec)
	vm.projectPath = opts.project
	for _, a := range args {
		kind, err := classify(a)
		if err != nil {
			return err
		}
		switch kind {
		case inputModel:
			vm.modelPath = a
		case inputGcode:
			vm.gcodePath = a
		case inputProject:
			vm.projectPath = a
		}
	}
	if err := openInputs(ctrl, args...); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache, opts.workDir)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()
	vm.runner = runner
	vm.params = c.settings.SlicingParams()
	vm.command = c.settings.Command()
	vm.output = c.settings.Output()
	if center, err := c.settings.PlaneCenter(); err == nil {
		vm.planeCenter = center
	}

	_, err = tea.NewProgram(vm, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// =============================================================================
// viewModel - bubbletea model driving a scene controller
// =============================================================================

// Step sizes for keyboard edits.
const (
	moveStep   = 5.0
	rotateStep = 15.0
	figureStep = 10.0
)

// sliceDoneMsg carries a finished slicing job back into the update loop.
type sliceDoneMsg slicer.Completion

type viewModel struct {
	ctx  context.Context
	ctrl *scene.Controller
	rec  *render.Recorder

	runner  *slicer.Runner
	params  map[string]string
	command string
	output  string

	modelPath   string
	gcodePath   string
	projectPath string
	planeCenter [3]float64

	slicing   bool
	status    string
	statusErr bool
	width     int
}

func newViewModel(ctx context.Context, ctrl *scene.Controller, rec *render.Recorder) *viewModel {
	return &viewModel{ctx: ctx, ctrl: ctrl, rec: rec, output: "out.gcode", width: 80}
}

func (m *viewModel) Init() tea.Cmd { return nil }

func (m *viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case sliceDoneMsg:
		m.finishSlice(slicer.Completion(msg))
	case tea.KeyMsg:
		return m, m.key(msg.String())
	}
	return m, nil
}

func (m *viewModel) key(k string) tea.Cmd {
	if k == "q" || k == "ctrl+c" || k == "esc" {
		return tea.Quit
	}
	if m.ctrl.Mode() == mode.MovingModel {
		m.moveKey(k)
		return nil
	}

	st := m.ctrl.State()
	var err error
	switch k {
	case "left", "j":
		_, err = m.ctrl.Scrub(st.Scrub - 1)
	case "right", "k":
		_, err = m.ctrl.Scrub(st.Scrub + 1)
	case "home":
		_, err = m.ctrl.Scrub(0)
	case "end":
		_, err = m.ctrl.Scrub(st.Layers)
	case "s":
		_, err = m.ctrl.ToggleModelGcodeSwitch()
	case "m":
		_, err = m.ctrl.ToggleMoveMode()
	case "a":
		err = m.addFigure()
	case "d", "delete":
		if st.Selected == nil {
			m.setStatus("no figure selected", true)
			return nil
		}
		err = m.ctrl.RemoveFigure(*st.Selected)
	case "tab":
		if len(st.Figures) > 0 {
			next := 0
			if st.Selected != nil {
				next = (*st.Selected + 1) % len(st.Figures)
			}
			err = m.ctrl.SelectFigure(next)
		}
	case "up", "down":
		err = m.nudgeFigure(st, k)
	case "h":
		m.ctrl.SetFiguresHidden(!st.FiguresHidden)
	case "e":
		err = m.exportFrame(st)
	case "w":
		err = m.saveProject()
	case "S":
		return m.startSlice()
	default:
		return nil
	}
	if err != nil {
		m.setStatus(err.Error(), true)
	}
	return nil
}

// moveKey handles keys while the model is being moved: arrows translate in
// X/Y, pgup/pgdown in Z, r turns about Z and m finishes.
func (m *viewModel) moveKey(k string) {
	if k == "m" || k == "enter" {
		if _, err := m.ctrl.ToggleMoveMode(); err != nil {
			m.setStatus(err.Error(), true)
			return
		}
		m.setStatus("model placed", false)
		return
	}
	cur, ok := m.ctrl.ModelTransform()
	if !ok {
		return
	}
	var next transform.Transform
	switch k {
	case "left":
		next = cur.PostTranslate(-moveStep, 0, 0)
	case "right":
		next = cur.PostTranslate(moveStep, 0, 0)
	case "up":
		next = cur.PostTranslate(0, moveStep, 0)
	case "down":
		next = cur.PostTranslate(0, -moveStep, 0)
	case "pgup":
		next = cur.PostTranslate(0, 0, moveStep)
	case "pgdown":
		next = cur.PostTranslate(0, 0, -moveStep)
	case "r":
		center := cur.Apply(m.ctrl.Model().Center())
		next = cur.Then(transform.RotationAbout(center, transform.Vec3{0, 0, rotateStep}))
	default:
		return
	}
	if err := m.ctrl.MoveModel(next); err != nil {
		m.setStatus(err.Error(), true)
	}
}

// addFigure appends a plane above the highest existing figure.
func (m *viewModel) addFigure() error {
	z := m.planeCenter[2]
	for _, f := range m.ctrl.Figures() {
		if o := f.Origin(); o.Z()+figureStep > z {
			z = o.Z() + figureStep
		}
	}
	i, err := m.ctrl.AddFigure(figure.Plane{X: m.planeCenter[0], Y: m.planeCenter[1], Z: z})
	if err != nil {
		return err
	}
	m.setStatus("added "+figure.Label(i), false)
	return nil
}

// nudgeFigure moves the selected figure up or down by one step.
func (m *viewModel) nudgeFigure(st scene.State, k string) error {
	if st.Selected == nil {
		return nil
	}
	i := *st.Selected
	dz := figureStep
	if k == "down" {
		dz = -dz
	}
	var next figure.Figure
	switch f := m.ctrl.Figures()[i].(type) {
	case figure.Plane:
		f.Z += dz
		next = f
	case figure.Cone:
		f.Z += dz
		next = f
	}
	return m.ctrl.UpdateFigure(i, next)
}

func (m *viewModel) exportFrame(st scene.State) error {
	if err := m.ctrl.Check(mode.Export); err != nil {
		return err
	}
	base := "scene"
	if m.gcodePath != "" {
		base = strings.TrimSuffix(filepath.Base(m.gcodePath), filepath.Ext(m.gcodePath))
	}
	path := fmt.Sprintf("%s-layer-%d.svg", base, st.Scrub)
	data := sink.RenderSVG(m.rec.Snapshot(),
		sink.WithView(sink.ViewSide),
		sink.WithCaption(fmt.Sprintf("%s | layer %d/%d", st.Mode, st.Scrub, st.Layers)))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}
	m.setStatus("wrote "+path, false)
	return nil
}

func (m *viewModel) saveProject() error {
	if err := saveProject(m.ctrl, m.projectPath, m.modelPath, m.gcodePath); err != nil {
		return err
	}
	m.setStatus("saved "+m.projectPath, false)
	return nil
}

// startSlice launches the engine in the background. The scene stays usable
// while the job runs; the result arrives as a sliceDoneMsg.
func (m *viewModel) startSlice() tea.Cmd {
	if m.slicing {
		m.setStatus("slicing already running", true)
		return nil
	}
	if m.runner == nil {
		m.setStatus("slicing is not configured", true)
		return nil
	}
	if err := m.ctrl.Check(mode.Slice); err != nil {
		m.setStatus(err.Error(), true)
		return nil
	}
	pose, _ := m.ctrl.ModelTransform()
	ch := m.runner.Async(m.ctx, slicer.Request{
		Model:   m.ctrl.Model(),
		Pose:    pose,
		Figures: m.ctrl.Figures(),
		Params:  m.params,
		Command: m.command,
	})
	m.slicing = true
	m.setStatus("slicing...", false)
	return func() tea.Msg { return sliceDoneMsg(<-ch) }
}

func (m *viewModel) finishSlice(done slicer.Completion) {
	m.slicing = false
	if done.Err != nil {
		m.setStatus("slicing failed: "+done.Err.Error(), true)
		return
	}
	res := done.Result
	if err := os.WriteFile(m.output, res.Gcode.Source, 0644); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	if err := m.ctrl.LoadGcode(res.Gcode); err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.gcodePath = m.output
	how := "sliced"
	if res.CacheHit {
		how = "cached"
	}
	m.setStatus(fmt.Sprintf("%s %d layers in %s, wrote %s", how, len(res.Gcode.Layers), res.Duration.Round(time.Millisecond), m.output), false)
}

func (m *viewModel) setStatus(s string, isErr bool) {
	m.status, m.statusErr = s, isErr
}

// =============================================================================
// Rendering
// =============================================================================

var (
	viewBarFull  = lipgloss.NewStyle().Foreground(colorCyan)
	viewBarEmpty = lipgloss.NewStyle().Foreground(colorDim)
	viewSelected = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	viewMode     = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	viewPanel    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 1)
)

func (m *viewModel) View() string {
	st := m.ctrl.State()
	var b strings.Builder

	b.WriteString(StyleTitle.Render(appName) + "  " + viewMode.Render(st.Mode.String()))
	if m.slicing {
		b.WriteString("  " + StyleWarning.Render("slicing"))
	}
	b.WriteString("\n\n")

	b.WriteString(viewPanel.Render(m.layersPanel(st)))
	b.WriteString("\n")
	b.WriteString(viewPanel.Render(m.modelPanel(st)))
	b.WriteString("\n")
	b.WriteString(viewPanel.Render(m.figuresPanel(st)))
	b.WriteString("\n")

	if m.status != "" {
		if m.statusErr {
			b.WriteString(StyleError.Render(iconError+" "+m.status) + "\n")
		} else {
			b.WriteString(StyleSuccess.Render(iconSuccess+" "+m.status) + "\n")
		}
	}
	b.WriteString(StyleDim.Render(m.help(st)))
	return b.String()
}

func (m *viewModel) layersPanel(st scene.State) string {
	if st.Layers == 0 {
		return StyleDim.Render("no G-code loaded")
	}
	width := max(10, min(m.width-30, 60))
	full := width * st.Scrub / st.Layers
	bar := viewBarFull.Render(strings.Repeat("█", full)) + viewBarEmpty.Render(strings.Repeat("░", width-full))
	return fmt.Sprintf("%s %s/%d  group %s/%d",
		bar, StyleValue.Render(fmt.Sprint(st.Scrub)), st.Layers,
		StyleHighlight.Render(fmt.Sprint(st.Group+1)), st.Groups)
}

func (m *viewModel) modelPanel(st scene.State) string {
	if !st.ModelLoaded {
		return StyleDim.Render("no model loaded")
	}
	name := "model"
	if m.modelPath != "" {
		name = filepath.Base(m.modelPath)
	}
	shown := "hidden"
	if st.ModelShown {
		shown = "shown"
	}
	out := StyleValue.Render(name) + " " + StyleDim.Render(shown)
	if st.ModelPose != nil {
		out += "\n" + st.ModelPose.String()
	}
	return out
}

func (m *viewModel) figuresPanel(st scene.State) string {
	if len(st.Figures) == 0 {
		return StyleDim.Render("no figures")
	}
	lines := make([]string, len(st.Figures))
	for i, f := range st.Figures {
		line := fmt.Sprintf("%s  %s", f.Label, f.Summary)
		if st.Selected != nil && *st.Selected == i {
			line = viewSelected.Render("▸ " + line)
		} else {
			line = "  " + line
		}
		lines[i] = line
	}
	if st.FiguresHidden {
		lines = append(lines, StyleDim.Render("(hidden)"))
	}
	return strings.Join(lines, "\n")
}

func (m *viewModel) help(st scene.State) string {
	if st.Mode == mode.MovingModel {
		return "←/→/↑/↓ move  pgup/pgdn lift  r rotate  m done  q quit"
	}
	return "←/→ scrub  s switch  m move  a/d add/del  tab select  ↑/↓ nudge  h hide  e export  w save  S slice  q quit"
}
