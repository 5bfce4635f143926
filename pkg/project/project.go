package project

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/epit3d/spycer/pkg/errors"
	"github.com/epit3d/spycer/pkg/figure"
)

// Project is a saved viewer session.
type Project struct {
	// Model and Gcode are file paths. Relative paths are resolved against
	// the project file's directory by Load.
	Model string
	Gcode string

	Figures []figure.Figure
	Scrub   int
}

type projectFile struct {
	Model   string         `toml:"model,omitempty"`
	Gcode   string         `toml:"gcode,omitempty"`
	Scrub   int            `toml:"scrub"`
	Figures []figureRecord `toml:"figure"`
}

// Save writes p to path. Model and gcode paths inside the project's
// directory are stored relative to it.
func Save(path string, p Project) error {
	dir := filepath.Dir(path)
	pf := projectFile{
		Model: relTo(dir, p.Model),
		Gcode: relTo(dir, p.Gcode),
		Scrub: p.Scrub,
	}
	for _, f := range p.Figures {
		pf.Figures = append(pf.Figures, toRecord(f))
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(pf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// Load reads a project file.
func Load(path string) (*Project, error) {
	var pf projectFile
	md, err := toml.DecodeFile(path, &pf)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode project %s", path)
	}
	if un := md.Undecoded(); len(un) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown project key %q", un[0].String())
	}
	if pf.Scrub < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "negative scrub position %d", pf.Scrub)
	}
	figs, err := toFigures(pf.Figures)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	return &Project{
		Model:   resolve(dir, pf.Model),
		Gcode:   resolve(dir, pf.Gcode),
		Figures: figs,
		Scrub:   pf.Scrub,
	}, nil
}

func relTo(dir, p string) string {
	if p == "" || !filepath.IsAbs(p) {
		return p
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return p
	}
	rel, err := filepath.Rel(absDir, p)
	if err != nil || rel == ".." || len(rel) > 2 && rel[:3] == ".."+string(filepath.Separator) {
		return p
	}
	return rel
}

func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}
