package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/epit3d/spycer/pkg/errors"
	"github.com/epit3d/spycer/pkg/figure"
	"github.com/epit3d/spycer/pkg/project"
)

func (c *CLI) figuresCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "figures",
		Short: "Edit figure sets and move them between projects",
	}
	cmd.AddCommand(c.figuresListCommand())
	cmd.AddCommand(c.figuresAddCommand())
	cmd.AddCommand(c.figuresExportCommand())
	cmd.AddCommand(c.figuresImportCommand())
	return cmd
}

// loadAnyFigures reads a figure set, or the figures of a project file when
// the document has project keys.
func loadAnyFigures(path string) ([]figure.Figure, error) {
	figs, err := project.LoadFigures(path)
	if err == nil {
		return figs, nil
	}
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		return nil, err
	}
	p, perr := project.Load(path)
	if perr != nil {
		return nil, err
	}
	return p.Figures, nil
}

func (c *CLI) figuresListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list <file.toml>",
		Short: "List the figures of a figure set or project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			figs, err := loadAnyFigures(args[0])
			if err != nil {
				return err
			}
			if len(figs) == 0 {
				printInfo("No figures in %s", args[0])
				return nil
			}
			fmt.Println(StyleTitle.Render(filepath.Base(args[0])))
			for i, f := range figs {
				printKeyValue(figure.Label(i), f.String())
			}
			return nil
		},
	}
}

type figureFlags struct {
	kind              string
	x, y, z           float64
	incline, rot      float64
	coneAngle, height float64
}

func (ff figureFlags) figure() (figure.Figure, error) {
	var f figure.Figure
	switch figure.Kind(strings.ToLower(ff.kind)) {
	case figure.KindPlane:
		f = figure.Plane{X: ff.x, Y: ff.y, Z: ff.z, Incline: ff.incline, Rot: ff.rot}
	case figure.KindCone:
		f = figure.Cone{X: ff.x, Y: ff.y, Z: ff.z, ConeAngle: ff.coneAngle, Height: ff.height}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFigure, "unknown figure type %q", ff.kind)
	}
	return f, f.Validate()
}

func (c *CLI) figuresAddCommand() *cobra.Command {
	ff := figureFlags{kind: string(figure.KindPlane)}
	cmd := &cobra.Command{
		Use:   "add <set.toml>",
		Short: "Append a figure to a figure set file",
		Example: `  spycer figures add planes.toml --z 10 --incline 30
  spycer figures add planes.toml --type cone --z 20 --cone-angle 45 --height 15`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ff.figure()
			if err != nil {
				return err
			}
			figs, err := project.LoadFigures(args[0])
			if err != nil && !errors.Is(err, errors.ErrCodeNotFound) {
				return err
			}
			figs = append(figs, f)
			if err := project.SaveFigures(args[0], figs); err != nil {
				return err
			}
			printSuccess("Added %s: %s", figure.Label(len(figs)-1), f)
			printFile(args[0])
			return nil
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&ff.kind, "type", ff.kind, "figure type: plane or cone")
	fl.Float64Var(&ff.x, "x", 0, "origin X")
	fl.Float64Var(&ff.y, "y", 0, "origin Y")
	fl.Float64Var(&ff.z, "z", 0, "origin Z")
	fl.Float64Var(&ff.incline, "incline", 0, "plane incline about X, degrees in [-90, 90]")
	fl.Float64Var(&ff.rot, "rot", 0, "plane rotation about Z, degrees")
	fl.Float64Var(&ff.coneAngle, "cone-angle", 45, "cone half-angle, degrees in (0, 90)")
	fl.Float64Var(&ff.height, "height", 10, "cone height")
	return cmd
}

func (c *CLI) figuresExportCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export <project.toml>",
		Short: "Write a project's figures to a figure set file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := project.Load(args[0])
			if err != nil {
				return err
			}
			if err := project.SaveFigures(out, p.Figures); err != nil {
				return err
			}
			printSuccess("Exported %d figures", len(p.Figures))
			printFile(out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "figures.toml", "figure set file")
	return cmd
}

func (c *CLI) figuresImportCommand() *cobra.Command {
	var into string
	cmd := &cobra.Command{
		Use:   "import <set.toml>",
		Short: "Replace a project's figures with a figure set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			figs, err := project.LoadFigures(args[0])
			if err != nil {
				return err
			}
			p, err := project.Load(into)
			if errors.Is(err, errors.ErrCodeNotFound) {
				p, err = &project.Project{}, nil
			}
			if err != nil {
				return err
			}
			p.Figures = figs
			if err := project.Save(into, *p); err != nil {
				return err
			}
			printSuccess("Imported %d figures", len(figs))
			printFile(into)
			return nil
		},
	}
	cmd.Flags().StringVar(&into, "project", "project.toml", "project file to update")
	return cmd
}
