package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/epit3d/spycer/pkg/figure"
	"github.com/epit3d/spycer/pkg/model"
	"github.com/epit3d/spycer/pkg/project"
	"github.com/epit3d/spycer/pkg/slicer"
	"github.com/epit3d/spycer/pkg/transform"
)

type sliceOpts struct {
	out     string
	figures string
	set     []string
	lift    bool
	noCache bool
	refresh bool
	keep    bool
	workDir string
}

func (c *CLI) sliceCommand() *cobra.Command {
	var opts sliceOpts
	cmd := &cobra.Command{
		Use:   "slice <model.stl>",
		Short: "Run the slicing engine on a model",
		Long: `Run the external slicing engine configured in slicing.command and write the
resulting G-code.

The model is placed on the build plate (lowest point at z = 0) unless
--lift=false is given. Figures come from a figure set file. Results are cached
by model, parameters, figures and command.`,
		Example: `  spycer slice part.stl --figures planes.toml -o part.gcode
  spycer slice part.stl --set fill_density=40 --set nozzle=0.6`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSlice(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output G-code file (default slicing.output)")
	cmd.Flags().StringVar(&opts.figures, "figures", "", "figure set file (TOML)")
	cmd.Flags().StringArrayVar(&opts.set, "set", nil, "override a slicing parameter (key=value)")
	cmd.Flags().BoolVar(&opts.lift, "lift", true, "place the model on the build plate")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-slice even when cached")
	cmd.Flags().BoolVar(&opts.keep, "keep", false, "keep job files in the work directory")
	cmd.Flags().StringVar(&opts.workDir, "work-dir", "", "directory for job files (default system temp)")
	return cmd
}

// parseOverrides parses key=value pairs.
func parseOverrides(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid --set %q: want key=value", p)
		}
		out[strings.TrimSpace(k)] = v
	}
	return out, nil
}

func (c *CLI) runSlice(cmd *cobra.Command, path string, opts sliceOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	mesh, err := model.Load(path)
	if err != nil {
		return err
	}
	var figs []figure.Figure
	if opts.figures != "" {
		if figs, err = project.LoadFigures(opts.figures); err != nil {
			return err
		}
	}
	params := c.settings.SlicingParams()
	overrides, err := parseOverrides(opts.set)
	if err != nil {
		return err
	}
	for k, v := range overrides {
		params[k] = v
	}

	pose := transform.Identity()
	if opts.lift {
		pose = pose.PostTranslate(0, 0, -mesh.MinZ(pose))
	}

	runner, err := c.newRunner(ctx, opts.noCache, opts.workDir)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()
	logger.Debug("slicing", "model", path, "triangles", len(mesh.Triangles), "figures", len(figs))

	spinner := newSpinner(ctx, "Slicing "+path+"...")
	spinner.Start()
	res, err := runner.Slice(ctx, slicer.Request{
		Model:   mesh,
		Pose:    pose,
		Figures: figs,
		Params:  params,
		Command: c.settings.Command(),
		Refresh: opts.refresh,
		Keep:    opts.keep,
	})
	if err != nil {
		spinner.StopWithError("Slicing failed")
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Sliced %s (%s)", path, res.Duration.Round(time.Millisecond)))
	printSliceStats(len(res.Gcode.Layers), len(res.Gcode.Orientations), res.CacheHit)

	out := opts.out
	if out == "" {
		out = c.settings.Output()
	}
	if err := os.WriteFile(out, res.Gcode.Source, 0644); err != nil {
		return err
	}
	printFile(out)
	if opts.keep {
		printDetail("job %s kept in %s", res.Job, runner.WorkDir)
	}
	printNextStep("Inspect it", "spycer inspect "+out)
	return nil
}
