package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/epit3d/spycer/pkg/figure"
	"github.com/epit3d/spycer/pkg/gcode"
	"github.com/epit3d/spycer/pkg/mode"
	"github.com/epit3d/spycer/pkg/model"
	"github.com/epit3d/spycer/pkg/render"
	"github.com/epit3d/spycer/pkg/scene"
	"github.com/epit3d/spycer/pkg/slicer"
	"github.com/epit3d/spycer/pkg/transform"
)

const viewProgram = `;LAYER:0
G1 X0 Y0 Z0.2
G1 X10 Y0 E1
;LAYER:1
G1 X10 Y10 Z0.4 E2
;LAYER:2
G1 A30 C90
G1 X0 Y10 Z0.6 E3
`

func parseProgram(t *testing.T) *gcode.Result {
	t.Helper()
	res, err := gcode.Parse(strings.NewReader(viewProgram))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return res
}

func gcodeView(t *testing.T) *viewModel {
	t.Helper()
	rec := render.NewRecorder()
	ctrl := scene.New(rec)
	if err := ctrl.LoadGcode(parseProgram(t)); err != nil {
		t.Fatalf("LoadGcode: %v", err)
	}
	return newViewModel(context.Background(), ctrl, rec)
}

func tetra() *model.Mesh {
	a, b, c, d := transform.Vec3{0, 0, 0}, transform.Vec3{10, 0, 0}, transform.Vec3{0, 10, 0}, transform.Vec3{0, 0, 10}
	return &model.Mesh{
		Name:      "tetra",
		Triangles: [][3]transform.Vec3{{a, c, b}, {a, b, d}, {b, c, d}, {c, a, d}},
		Min:       a,
		Max:       transform.Vec3{10, 10, 10},
	}
}

func modelView(t *testing.T) *viewModel {
	t.Helper()
	rec := render.NewRecorder()
	ctrl := scene.New(rec)
	if err := ctrl.LoadModel(tetra()); err != nil {
		t.Fatalf("LoadModel: %v", err)
	}
	return newViewModel(context.Background(), ctrl, rec)
}

func press(m *viewModel, keys ...tea.KeyMsg) {
	for _, k := range keys {
		m.Update(k)
	}
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestViewScrub(t *testing.T) {
	m := gcodeView(t)
	tests := []struct {
		key  tea.KeyMsg
		want int
	}{
		{tea.KeyMsg{Type: tea.KeyLeft}, 2},
		{tea.KeyMsg{Type: tea.KeyLeft}, 1},
		{tea.KeyMsg{Type: tea.KeyHome}, 0},
		{tea.KeyMsg{Type: tea.KeyLeft}, 0},
		{tea.KeyMsg{Type: tea.KeyEnd}, 3},
		{tea.KeyMsg{Type: tea.KeyRight}, 3},
	}
	for _, tt := range tests {
		press(m, tt.key)
		if got := m.ctrl.ScrubPosition(); got != tt.want {
			t.Errorf("after %s: scrub = %d, want %d", tt.key, got, tt.want)
		}
	}
	if !m.statusErr {
		t.Error("scrubbing past the end should leave an error status")
	}
}

func TestViewFigures(t *testing.T) {
	m := modelView(t)
	m.planeCenter = [3]float64{100, 100, 0}

	press(m, runes("a"), runes("a"))
	figs := m.ctrl.Figures()
	if len(figs) != 2 {
		t.Fatalf("len(Figures) = %d, want 2", len(figs))
	}
	if got := figs[1].Origin().Z(); got != figureStep {
		t.Errorf("second figure z = %v, want %v", got, figureStep)
	}
	if i, ok := m.ctrl.SelectedFigure(); !ok || i != 1 {
		t.Errorf("selected = %d, %v, want 1, true", i, ok)
	}

	press(m, tea.KeyMsg{Type: tea.KeyTab})
	if i, _ := m.ctrl.SelectedFigure(); i != 0 {
		t.Errorf("after tab selected = %d, want 0", i)
	}
	press(m, tea.KeyMsg{Type: tea.KeyUp})
	if p := m.ctrl.Figures()[0].(figure.Plane); p.Z != figureStep {
		t.Errorf("nudged z = %v, want %v", p.Z, figureStep)
	}

	press(m, runes("h"))
	if !m.ctrl.State().FiguresHidden {
		t.Error("h should hide figures")
	}
	press(m, runes("d"))
	if n := len(m.ctrl.Figures()); n != 1 {
		t.Errorf("after delete len(Figures) = %d, want 1", n)
	}

	out := m.View()
	for _, want := range []string{"ShowingModel", "Figure 1", "(hidden)"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestViewIllegalKey(t *testing.T) {
	m := gcodeView(t)
	press(m, runes("m"))
	if m.ctrl.Mode() != mode.ShowingGcode {
		t.Errorf("Mode = %v, want ShowingGcode", m.ctrl.Mode())
	}
	if !m.statusErr || !strings.Contains(m.status, "not permitted") {
		t.Errorf("status = %q, want a rejection", m.status)
	}
	m.setStatus("", false)
	press(m, runes("a"))
	if !m.statusErr || len(m.ctrl.Figures()) != 0 {
		t.Errorf("adding a figure without a model: status = %q, figures = %d", m.status, len(m.ctrl.Figures()))
	}
	if cmd := m.startSlice(); cmd != nil {
		t.Error("slicing without a model should not start a job")
	}
}

func TestViewQuit(t *testing.T) {
	m := gcodeView(t)
	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestViewFinishSlice(t *testing.T) {
	rec := render.NewRecorder()
	m := newViewModel(context.Background(), scene.New(rec), rec)
	m.output = filepath.Join(t.TempDir(), "out.gcode")
	m.slicing = true

	m.Update(sliceDoneMsg{Err: errors.New("engine exploded")})
	if m.slicing || !m.statusErr {
		t.Errorf("failed job: slicing = %v, statusErr = %v", m.slicing, m.statusErr)
	}

	res := parseProgram(t)
	m.Update(sliceDoneMsg{Result: &slicer.Result{Gcode: res, CacheHit: true}})
	if m.statusErr {
		t.Fatalf("status = %q", m.status)
	}
	if got := m.ctrl.State().Layers; got != 3 {
		t.Errorf("Layers = %d, want 3", got)
	}
	if m.gcodePath != m.output {
		t.Errorf("gcodePath = %q, want %q", m.gcodePath, m.output)
	}
	data, err := os.ReadFile(m.output)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != viewProgram {
		t.Error("output file should hold the sliced program")
	}
}

func TestViewSaveProject(t *testing.T) {
	dir := t.TempDir()
	gpath := filepath.Join(dir, "part.gcode")
	if err := os.WriteFile(gpath, []byte(viewProgram), 0644); err != nil {
		t.Fatal(err)
	}
	mpath := filepath.Join(dir, "part.stl")
	if err := tetra().WriteFile(mpath, transform.Identity()); err != nil {
		t.Fatal(err)
	}
	m := modelView(t)
	if err := m.ctrl.LoadGcode(parseProgram(t)); err != nil {
		t.Fatal(err)
	}
	m.modelPath, m.gcodePath = mpath, gpath
	m.projectPath = filepath.Join(dir, "session.toml")
	press(m, runes("a"), tea.KeyMsg{Type: tea.KeyLeft}, runes("w"))
	if m.statusErr {
		t.Fatalf("save status = %q", m.status)
	}

	rec := render.NewRecorder()
	ctrl := scene.New(rec)
	if err := openInputs(ctrl, m.projectPath); err != nil {
		t.Fatalf("openInputs: %v", err)
	}
	st := ctrl.State()
	if st.Scrub != 2 || st.Layers != 3 || len(st.Figures) != 1 {
		t.Errorf("restored scrub=%d layers=%d figures=%d, want 2, 3, 1", st.Scrub, st.Layers, len(st.Figures))
	}
}
