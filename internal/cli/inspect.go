package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/epit3d/spycer/pkg/gcode"
	"github.com/epit3d/spycer/pkg/render/sink"
)

type inspectOpts struct {
	json  bool
	out   string
	view  string
	at    int
	scale float64
}

func (c *CLI) inspectCommand() *cobra.Command {
	opts := inspectOpts{at: -1}
	cmd := &cobra.Command{
		Use:   "inspect <file.gcode>",
		Short: "Summarize a G-code program's layers and rotation groups",
		Long: `Parse a multi-axis G-code program and print its layer and rotation group summary.

With --out, also render the layer stack at a scrub position as SVG, PNG or PDF
(PNG and PDF need rsvg-convert).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd, args[0], opts)
		},
	}
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the summary as JSON")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "render a frame to this file (.svg, .png, .pdf)")
	cmd.Flags().StringVar(&opts.view, "view", "side", "projection for --out: side or top")
	cmd.Flags().IntVar(&opts.at, "at", -1, "scrub position for --out (default: all layers)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 2, "PNG scale factor")
	return cmd
}

func (c *CLI) runInspect(cmd *cobra.Command, path string, opts inspectOpts) error {
	prog := newProgress(loggerFromContext(cmd.Context()))
	res, err := gcode.ParseFile(path)
	if err != nil {
		return err
	}
	sum := res.Summary()
	prog.done(fmt.Sprintf("Parsed %d layers", sum.Layers))

	if opts.json {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(sum); err != nil {
			return err
		}
	} else {
		fmt.Println(StyleTitle.Render(filepath.Base(path)))
		fmt.Print(sum.String())
	}

	if opts.out == "" {
		return nil
	}
	return c.renderFrame(res, opts)
}

// renderFrame loads res into a recorded scene, scrubs to opts.at and writes
// the frame.
func (c *CLI) renderFrame(res *gcode.Result, opts inspectOpts) error {
	ctrl, rec, err := c.newScene()
	if err != nil {
		return err
	}
	if err := ctrl.LoadGcode(res); err != nil {
		return err
	}
	if opts.at >= 0 {
		if _, err := ctrl.Scrub(opts.at); err != nil {
			return err
		}
	}

	view := sink.ViewSide
	if opts.view == "top" {
		view = sink.ViewTop
	}
	st := ctrl.State()
	svgOpts := []sink.SVGOption{
		sink.WithView(view),
		sink.WithCaption(fmt.Sprintf("layer %d/%d, group %d", st.Scrub, st.Layers, st.Group)),
	}

	var data []byte
	switch ext := strings.ToLower(filepath.Ext(opts.out)); ext {
	case ".svg":
		data = sink.RenderSVG(rec.Snapshot(), svgOpts...)
	case ".png":
		data, err = sink.RenderPNG(rec.Snapshot(), opts.scale, svgOpts...)
	case ".pdf":
		data, err = sink.RenderPDF(rec.Snapshot(), svgOpts...)
	default:
		return fmt.Errorf("unsupported output format %q", ext)
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.out, data, 0644); err != nil {
		return err
	}
	printFile(opts.out)
	return nil
}
