package server

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/epit3d/spycer/pkg/errors"
	"github.com/epit3d/spycer/pkg/figure"
	"github.com/epit3d/spycer/pkg/gcode"
	"github.com/epit3d/spycer/pkg/mode"
	"github.com/epit3d/spycer/pkg/model"
	"github.com/epit3d/spycer/pkg/render"
	"github.com/epit3d/spycer/pkg/render/sink"
	"github.com/epit3d/spycer/pkg/slicer"
	"github.com/epit3d/spycer/pkg/transform"
)

const maxUpload = 256 << 20

func (s *Server) state(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, s.ctrl.State())
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.state(w)
}

func (s *Server) handlePermitted(w http.ResponseWriter, r *http.Request) {
	op, err := mode.ParseOperation(chi.URLParam(r, "op"))
	if err != nil {
		writeError(w, err, false)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"operation": op,
		"mode":      s.ctrl.Mode(),
		"permitted": s.ctrl.IsPermitted(op),
	})
}

func (s *Server) handleModes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	_, _ = w.Write([]byte(mode.DOT()))
}

func (s *Server) handleLoadModel(w http.ResponseWriter, r *http.Request) {
	m, err := model.Read(http.MaxBytesReader(w, r.Body, maxUpload))
	if err == nil {
		err = s.ctrl.LoadModel(m)
	}
	if err != nil {
		writeError(w, err, false)
		return
	}
	s.state(w)
}

func (s *Server) handleLoadGcode(w http.ResponseWriter, r *http.Request) {
	g, err := gcode.Parse(http.MaxBytesReader(w, r.Body, maxUpload))
	if err == nil {
		err = s.ctrl.LoadGcode(g)
	}
	if err != nil {
		writeError(w, err, false)
		return
	}
	s.state(w)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.ctrl.ExportGcode(&buf); err != nil {
		writeError(w, err, false)
		return
	}
	w.Header().Set("Content-Type", "text/x-gcode")
	w.Header().Set("Content-Disposition", `attachment; filename="spycer.gcode"`)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleRecolor(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Color string `json:"color"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, err, false)
		return
	}
	c, err := render.ParseColor(body.Color)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "color"), false)
		return
	}
	if err := s.ctrl.RecolorModel(c); err != nil {
		writeError(w, err, false)
		return
	}
	s.state(w)
}

// handleSlice runs the engine on the request goroutine and installs the
// result. Cancelling the request cancels the engine.
func (s *Server) handleSlice(w http.ResponseWriter, r *http.Request) {
	if s.slicer == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "slicing is not configured"), false)
		return
	}
	if err := s.ctrl.Check(mode.Slice); err != nil {
		writeError(w, err, false)
		return
	}
	pose, _ := s.ctrl.ModelTransform()
	res, err := s.slicer.Slice(r.Context(), slicer.Request{
		Model:   s.ctrl.Model(),
		Pose:    pose,
		Figures: s.ctrl.Figures(),
		Params:  s.params,
		Command: s.command,
		Refresh: r.URL.Query().Get("refresh") == "true",
	})
	if err == nil {
		err = s.ctrl.LoadGcode(res.Gcode)
	}
	if err != nil {
		writeError(w, err, false)
		return
	}
	s.state(w)
}

func (s *Server) handleScrub(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Position int `json:"position"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, err, false)
		return
	}
	if _, err := s.ctrl.Scrub(body.Position); err != nil {
		writeError(w, err, false)
		return
	}
	s.state(w)
}

func (s *Server) handleSwitch(w http.ResponseWriter, r *http.Request) {
	if _, err := s.ctrl.ToggleModelGcodeSwitch(); err != nil {
		writeError(w, err, false)
		return
	}
	s.state(w)
}

func (s *Server) handleMoveToggle(w http.ResponseWriter, r *http.Request) {
	if _, err := s.ctrl.ToggleMoveMode(); err != nil {
		writeError(w, err, false)
		return
	}
	s.state(w)
}

// handleMove places the model. The body is a pose; a zero scale means 1.
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var p transform.Pose
	if err := decode(r, &p); err != nil {
		writeError(w, err, false)
		return
	}
	if p.Scale == (transform.Vec3{}) {
		p.Scale = transform.Vec3{1, 1, 1}
	}
	if err := s.ctrl.MoveModel(transform.Compose(p.Position, p.Scale, p.Orientation)); err != nil {
		writeError(w, err, false)
		return
	}
	s.state(w)
}

// figureBody is the JSON form of a figure.
type figureBody struct {
	Type      figure.Kind `json:"type"`
	X         float64     `json:"x"`
	Y         float64     `json:"y"`
	Z         float64     `json:"z"`
	Incline   float64     `json:"incline,omitempty"`
	Rot       float64     `json:"rot,omitempty"`
	ConeAngle float64     `json:"cone_angle,omitempty"`
	Height    float64     `json:"height,omitempty"`
}

func (b figureBody) figure() (figure.Figure, error) {
	switch b.Type {
	case figure.KindPlane, "":
		return figure.Plane{X: b.X, Y: b.Y, Z: b.Z, Incline: b.Incline, Rot: b.Rot}, nil
	case figure.KindCone:
		return figure.Cone{X: b.X, Y: b.Y, Z: b.Z, ConeAngle: b.ConeAngle, Height: b.Height}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFigure, "unknown figure type %q", b.Type)
}

func decodeFigure(r *http.Request) (figure.Figure, error) {
	var b figureBody
	if err := decode(r, &b); err != nil {
		return nil, err
	}
	return b.figure()
}

func pathIndex(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "index")
	i, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "bad figure index %q", raw)
	}
	return i, nil
}

func (s *Server) handleAddFigure(w http.ResponseWriter, r *http.Request) {
	f, err := decodeFigure(r)
	if err == nil {
		_, err = s.ctrl.AddFigure(f)
	}
	if err != nil {
		writeError(w, err, false)
		return
	}
	w.Header().Set("Location", r.URL.Path)
	writeJSON(w, http.StatusCreated, s.ctrl.State())
}

func (s *Server) handleResetFigures(w http.ResponseWriter, r *http.Request) {
	var bodies []figureBody
	if err := decode(r, &bodies); err != nil {
		writeError(w, err, false)
		return
	}
	figs := make([]figure.Figure, len(bodies))
	for i, b := range bodies {
		f, err := b.figure()
		if err != nil {
			writeError(w, err, false)
			return
		}
		figs[i] = f
	}
	if err := s.ctrl.ResetFigures(figs); err != nil {
		writeError(w, err, false)
		return
	}
	s.state(w)
}

func (s *Server) handleUpdateFigure(w http.ResponseWriter, r *http.Request) {
	i, err := pathIndex(r)
	if err != nil {
		writeError(w, err, true)
		return
	}
	f, err := decodeFigure(r)
	if err == nil {
		err = s.ctrl.UpdateFigure(i, f)
	}
	if err != nil {
		writeError(w, err, true)
		return
	}
	s.state(w)
}

func (s *Server) handleRemoveFigure(w http.ResponseWriter, r *http.Request) {
	i, err := pathIndex(r)
	if err == nil {
		err = s.ctrl.RemoveFigure(i)
	}
	if err != nil {
		writeError(w, err, true)
		return
	}
	s.state(w)
}

func (s *Server) handleSelectFigure(w http.ResponseWriter, r *http.Request) {
	i, err := pathIndex(r)
	if err == nil {
		err = s.ctrl.SelectFigure(i)
	}
	if err != nil {
		writeError(w, err, true)
		return
	}
	s.state(w)
}

func (s *Server) handleHidden(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Hidden bool `json:"hidden"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, err, false)
		return
	}
	s.ctrl.SetFiguresHidden(body.Hidden)
	s.state(w)
}

// handleSVG renders the recorded scene. ?view=top selects the X/Y
// projection; the default is the side view.
func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	if s.rec == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "no recorder attached"), false)
		return
	}
	view := sink.ViewSide
	if r.URL.Query().Get("view") == "top" {
		view = sink.ViewTop
	}
	st := s.ctrl.State()
	caption := st.Mode.String()
	if st.Layers > 0 {
		caption += " | layer " + strconv.Itoa(st.Scrub) + "/" + strconv.Itoa(st.Layers)
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(sink.RenderSVG(s.rec.Snapshot(), sink.WithView(view), sink.WithCaption(caption)))
}
