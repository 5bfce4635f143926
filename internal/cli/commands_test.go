package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/epit3d/spycer/pkg/figure"
	"github.com/epit3d/spycer/pkg/project"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	settings := filepath.Join(t.TempDir(), "settings.yaml")
	root.SetArgs(append([]string{"--settings", settings}, args...))
	return root.ExecuteContext(context.Background())
}

func TestParseOverrides(t *testing.T) {
	tests := []struct {
		in      []string
		want    map[string]string
		wantErr bool
	}{
		{nil, map[string]string{}, false},
		{[]string{"nozzle=0.6", " fill_density =40"}, map[string]string{"nozzle": "0.6", "fill_density": "40"}, false},
		{[]string{"empty="}, map[string]string{"empty": ""}, false},
		{[]string{"novalue"}, nil, true},
		{[]string{"=3"}, nil, true},
	}
	for _, tt := range tests {
		got, err := parseOverrides(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseOverrides(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("parseOverrides(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for k, v := range tt.want {
			if got[k] != v {
				t.Errorf("parseOverrides(%q)[%q] = %q, want %q", tt.in, k, got[k], v)
			}
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		path    string
		want    inputKind
		wantErr bool
	}{
		{"part.STL", inputModel, false},
		{"part.gcode", inputGcode, false},
		{"part.nc", inputGcode, false},
		{"session.toml", inputProject, false},
		{"part.obj", 0, true},
	}
	for _, tt := range tests {
		got, err := classify(tt.path)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("classify(%q) = %v, %v, want %v, wantErr %v", tt.path, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestFiguresAddExportImport(t *testing.T) {
	dir := t.TempDir()
	set := filepath.Join(dir, "planes.toml")

	if err := execute(t, "figures", "add", set, "--z", "10", "--incline", "30"); err != nil {
		t.Fatalf("figures add: %v", err)
	}
	if err := execute(t, "figures", "add", set, "--type", "cone", "--z", "20", "--cone-angle", "40", "--height", "5"); err != nil {
		t.Fatalf("figures add cone: %v", err)
	}
	if err := execute(t, "figures", "add", set, "--incline", "120"); err == nil {
		t.Error("an incline outside [-90, 90] should be rejected")
	}
	if err := execute(t, "figures", "add", set, "--type", "sphere"); err == nil {
		t.Error("an unknown figure type should be rejected")
	}

	figs, err := project.LoadFigures(set)
	if err != nil {
		t.Fatal(err)
	}
	want := []figure.Figure{
		figure.Plane{Z: 10, Incline: 30},
		figure.Cone{Z: 20, ConeAngle: 40, Height: 5},
	}
	if len(figs) != len(want) {
		t.Fatalf("len(figs) = %d, want %d", len(figs), len(want))
	}
	for i := range want {
		if figs[i] != want[i] {
			t.Errorf("figs[%d] = %v, want %v", i, figs[i], want[i])
		}
	}

	proj := filepath.Join(dir, "session.toml")
	if err := execute(t, "figures", "import", set, "--project", proj); err != nil {
		t.Fatalf("figures import: %v", err)
	}
	if err := execute(t, "figures", "list", proj); err != nil {
		t.Errorf("figures list on a project: %v", err)
	}
	out := filepath.Join(dir, "exported.toml")
	if err := execute(t, "figures", "export", proj, "-o", out); err != nil {
		t.Fatalf("figures export: %v", err)
	}
	back, err := project.LoadFigures(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(back) != 2 {
		t.Errorf("exported %d figures, want 2", len(back))
	}
}

func TestSettingsInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "settings.yaml")
	if err := execute(t, "settings", "init", path); err != nil {
		t.Fatalf("settings init: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("settings file not written: %v", err)
	}
	if err := execute(t, "settings", "show"); err != nil {
		t.Errorf("settings show: %v", err)
	}
}

func TestModesCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "modes.dot")
	if err := execute(t, "modes", "--format", "dot", "-o", out); err != nil {
		t.Fatalf("modes: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Error("modes.dot is empty")
	}
}
