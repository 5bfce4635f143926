package slicer

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mattn/go-shellwords"

	"github.com/epit3d/spycer/pkg/cache"
	"github.com/epit3d/spycer/pkg/errors"
	"github.com/epit3d/spycer/pkg/figure"
	"github.com/epit3d/spycer/pkg/gcode"
	"github.com/epit3d/spycer/pkg/model"
	"github.com/epit3d/spycer/pkg/observability"
	"github.com/epit3d/spycer/pkg/project"
	"github.com/epit3d/spycer/pkg/transform"
)

// Request describes one slicing job.
type Request struct {
	Model *model.Mesh
	// Pose is the model placement; the engine receives the placed mesh.
	Pose    transform.Transform
	Figures []figure.Figure
	// Params fill the template's named placeholders.
	Params  map[string]string
	Command string

	// Refresh skips the cache lookup but still stores the new result.
	Refresh bool
	// Keep leaves the job files in the work directory.
	Keep bool
}

// Result is a finished job.
type Result struct {
	Job      string
	Gcode    *gcode.Result
	CacheHit bool
	Duration time.Duration
	// Output is the engine's combined stdout and stderr. Empty on cache hits.
	Output []byte
}

// Completion is delivered by Async.
type Completion struct {
	Result *Result
	Err    error
}

// Runner executes slicing jobs with caching.
// A Runner holds no per-job state and may be shared between goroutines.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
	WorkDir string
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses the default key layout, and an empty workDir uses the system temp
// directory.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger, workDir string) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if workDir == "" {
		workDir = os.TempDir()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger, WorkDir: workDir}
}

var placeholder = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Expand substitutes placeholders in tmpl and splits the result into
// arguments. Unknown placeholders are an error.
func Expand(tmpl string, vars map[string]string) ([]string, error) {
	var missing string
	line := placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := m[1 : len(m)-1]
		v, ok := vars[name]
		if !ok && missing == "" {
			missing = name
		}
		return shellQuote(v)
	})
	if missing != "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "slicer command: no value for {%s}", missing)
	}
	args, err := shellwords.Parse(line)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "slicer command")
	}
	if len(args) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "slicer command is empty")
	}
	return args, nil
}

// shellQuote protects a substituted value from further splitting.
func shellQuote(v string) string {
	if v != "" && !strings.ContainsAny(v, " \t\n'\"\\$`") {
		return v
	}
	return "'" + strings.ReplaceAll(v, "'", `'\''`) + "'"
}

// Key returns the cache key of req and the placed model bytes the engine
// would receive.
func (r *Runner) Key(req Request) (string, []byte, error) {
	if req.Pose.IsZero() {
		req.Pose = transform.Identity()
	}
	var stlBuf bytes.Buffer
	if err := req.Model.Write(&stlBuf, req.Pose); err != nil {
		return "", nil, errors.Wrap(errors.ErrCodeInternal, err, "write placed model")
	}
	figs := make([]string, len(req.Figures))
	for i, f := range req.Figures {
		figs[i] = f.String()
	}
	key := r.Keyer.SliceKey(cache.SliceKeyOpts{
		ModelHash: cache.Hash(stlBuf.Bytes()),
		Params:    req.Params,
		Figures:   figs,
		Command:   req.Command,
	})
	return key, stlBuf.Bytes(), nil
}

// Slice runs one job, or returns the cached result of an identical one.
func (r *Runner) Slice(ctx context.Context, req Request) (*Result, error) {
	if req.Model == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no model to slice")
	}
	if req.Command == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no slicer command")
	}

	job := uuid.NewString()
	start := time.Now()
	logger := r.Logger.With("job", job[:8])
	observability.Slicer().OnSliceStart(ctx, job)

	res, err := r.slice(ctx, job, req, logger)
	dur := time.Since(start)
	layers := 0
	if res != nil {
		res.Duration = dur
		layers = len(res.Gcode.Layers)
	}
	observability.Slicer().OnSliceComplete(ctx, job, layers, dur, err)
	if err != nil {
		logger.Warn("slicing failed", "error", err, "duration", dur)
		return nil, err
	}
	logger.Info("sliced", "layers", layers, "cached", res.CacheHit, "duration", dur)
	return res, nil
}

func (r *Runner) slice(ctx context.Context, job string, req Request, logger *log.Logger) (*Result, error) {
	key, stlData, err := r.Key(req)
	if err != nil {
		return nil, err
	}

	if !req.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		switch {
		case err != nil:
			logger.Debug("cache read failed", "error", err)
		case hit:
			observability.Cache().OnCacheHit(ctx, key)
			if g, err := gcode.Parse(bytes.NewReader(data)); err == nil {
				return &Result{Job: job, Gcode: g, CacheHit: true}, nil
			}
			logger.Debug("discarding unreadable cache entry", "key", key)
		default:
			observability.Cache().OnCacheMiss(ctx, key)
		}
	}

	paths := jobPaths{
		stl:     filepath.Join(r.WorkDir, job+".stl"),
		gcode:   filepath.Join(r.WorkDir, job+".gcode"),
		figures: filepath.Join(r.WorkDir, job+".figures.toml"),
	}
	if !req.Keep {
		defer paths.remove()
	}
	if err := os.MkdirAll(r.WorkDir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSlicerFailed, err, "create work dir")
	}
	if err := os.WriteFile(paths.stl, stlData, 0644); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSlicerFailed, err, "write model")
	}
	if err := project.SaveFigures(paths.figures, req.Figures); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSlicerFailed, err, "write figures")
	}

	vars := make(map[string]string, len(req.Params)+3)
	for k, v := range req.Params {
		vars[k] = v
	}
	vars["stl"] = paths.stl
	vars["gcode"] = paths.gcode
	vars["figures"] = paths.figures

	args, err := Expand(req.Command, vars)
	if err != nil {
		return nil, err
	}
	logger.Debug("running slicer", "cmd", args[0], "args", len(args)-1)

	out, err := run(ctx, args)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeSlicerFailed, err, "%s: %s", args[0], tail(out))
	}

	data, err := os.ReadFile(paths.gcode)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLoadFailure, err, "slicer produced no gcode")
	}
	g, err := gcode.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	if err := r.Cache.Set(ctx, key, data, cache.DefaultTTL); err != nil {
		logger.Debug("cache write failed", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, key, len(data))
	}
	return &Result{Job: job, Gcode: g, Output: out}, nil
}

// Async runs Slice on a new goroutine. The channel receives exactly one
// Completion and is then closed.
func (r *Runner) Async(ctx context.Context, req Request) <-chan Completion {
	ch := make(chan Completion, 1)
	go func() {
		defer close(ch)
		res, err := r.Slice(ctx, req)
		ch <- Completion{Result: res, Err: err}
	}()
	return ch
}

type jobPaths struct {
	stl, gcode, figures string
}

func (p jobPaths) remove() {
	for _, f := range []string{p.stl, p.gcode, p.figures} {
		_ = os.Remove(f)
	}
}

func run(ctx context.Context, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.WaitDelay = 2 * time.Second
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.Bytes(), err
}

// tail returns the last line of engine output for error messages.
func tail(out []byte) string {
	out = bytes.TrimSpace(out)
	if i := bytes.LastIndexByte(out, '\n'); i >= 0 {
		out = out[i+1:]
	}
	if len(out) > 200 {
		out = out[len(out)-200:]
	}
	if len(out) == 0 {
		return "no output"
	}
	return string(out)
}
