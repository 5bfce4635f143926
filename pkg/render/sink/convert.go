package sink

import (
	"bytes"
	"fmt"
	"os/exec"

	"github.com/epit3d/spycer/pkg/render"
)

// RenderPNG renders the snapshot as PNG at the given scale.
func RenderPNG(s render.Snapshot, scale float64, opts ...SVGOption) ([]byte, error) {
	return rsvgConvert(RenderSVG(s, opts...), "png", "-z", fmt.Sprintf("%.2f", scale))
}

// RenderPDF renders the snapshot as PDF.
func RenderPDF(s render.Snapshot, opts ...SVGOption) ([]byte, error) {
	return rsvgConvert(RenderSVG(s, opts...), "pdf")
}

func rsvgConvert(svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		return nil, fmt.Errorf("%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.Command("rsvg-convert", args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rsvg-convert: %v: %s", err, errBuf.String())
	}
	return out.Bytes(), nil
}
