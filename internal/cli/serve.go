package cli

import (
	"github.com/spf13/cobra"

	"github.com/epit3d/spycer/internal/server"
)

type serveOpts struct {
	addr    string
	noCache bool
	workDir string
}

func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts
	cmd := &cobra.Command{
		Use:   "serve [file...]",
		Short: "Serve a scene over an HTTP JSON API",
		Long: `Start an HTTP server holding one scene. Files given as arguments (.stl,
.gcode or a .toml project) are loaded before the server starts.

Routes live under /api: state, permitted/{op}, model, gcode, slice, scrub,
switch, move, figures and scene.svg.`,
		Example: `  spycer serve part.stl part.gcode --addr :9000
  curl -X POST localhost:9000/api/scrub -d '{"position": 3}'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, args, opts)
		},
	}
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default server.addr)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the slicing result cache")
	cmd.Flags().StringVar(&opts.workDir, "work-dir", "", "directory for slicing job files")
	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, args []string, opts serveOpts) error {
	ctx := cmd.Context()
	ctrl, rec, err := c.newScene()
	if err != nil {
		return err
	}
	if err := openInputs(ctrl, args...); err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, opts.noCache, opts.workDir)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	addr := opts.addr
	if addr == "" {
		addr = c.settings.ServerAddr()
	}
	srv := server.New(server.Config{
		Controller: ctrl,
		Recorder:   rec,
		Logger:     c.Logger,
		Slicer:     runner,
		Params:     c.settings.SlicingParams(),
		Command:    c.settings.Command(),
	})
	printInfo("Listening on %s", StyleHighlight.Render(addr))
	return srv.ListenAndServe(ctx, addr)
}
