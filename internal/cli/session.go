package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/epit3d/spycer/pkg/gcode"
	"github.com/epit3d/spycer/pkg/mode"
	"github.com/epit3d/spycer/pkg/model"
	"github.com/epit3d/spycer/pkg/project"
	"github.com/epit3d/spycer/pkg/scene"
)

// inputKind classifies a file given on the command line.
type inputKind int

const (
	inputModel inputKind = iota
	inputGcode
	inputProject
)

func classify(path string) (inputKind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".stl":
		return inputModel, nil
	case ".gcode", ".gc", ".nc":
		return inputGcode, nil
	case ".toml":
		return inputProject, nil
	}
	return 0, fmt.Errorf("unsupported file %q: want .stl, .gcode or .toml", path)
}

// openInputs loads each file into ctrl in order. Projects restore their
// model, layers, figures and scrub position.
func openInputs(ctrl *scene.Controller, paths ...string) error {
	for _, p := range paths {
		if p == "" {
			continue
		}
		kind, err := classify(p)
		if err != nil {
			return err
		}
		switch kind {
		case inputModel:
			err = openModel(ctrl, p)
		case inputGcode:
			err = openGcode(ctrl, p)
		case inputProject:
			err = openProject(ctrl, p)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func openModel(ctrl *scene.Controller, path string) error {
	m, err := model.Load(path)
	if err != nil {
		return err
	}
	return ctrl.LoadModel(m)
}

func openGcode(ctrl *scene.Controller, path string) error {
	res, err := gcode.ParseFile(path)
	if err != nil {
		return err
	}
	return ctrl.LoadGcode(res)
}

func openProject(ctrl *scene.Controller, path string) error {
	p, err := project.Load(path)
	if err != nil {
		return err
	}
	if p.Model != "" {
		if err := openModel(ctrl, p.Model); err != nil {
			return err
		}
	}
	if p.Gcode != "" {
		if err := openGcode(ctrl, p.Gcode); err != nil {
			return err
		}
	}
	if len(p.Figures) > 0 {
		if !ctrl.IsPermitted(mode.EditFigures) {
			printWarning("%s: %d figures skipped, no model loaded", path, len(p.Figures))
		} else if err := ctrl.ResetFigures(p.Figures); err != nil {
			return err
		}
	}
	if p.Gcode != "" {
		if _, err := ctrl.Scrub(p.Scrub); err != nil {
			return err
		}
	}
	return nil
}

// saveProject records the controller's session in a project file. Model and
// gcode paths are those the session was opened from.
func saveProject(ctrl *scene.Controller, path, modelPath, gcodePath string) error {
	return project.Save(path, project.Project{
		Model:   modelPath,
		Gcode:   gcodePath,
		Figures: ctrl.Figures(),
		Scrub:   ctrl.ScrubPosition(),
	})
}
