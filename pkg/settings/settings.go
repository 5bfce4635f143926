// Package settings loads and saves the viewer settings document.
//
// The document is a nested YAML file with dotted keys such as
// colors.last_layer and slicing.fill_density. Missing keys fall back to
// built-in defaults, so an empty or absent file is valid.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/epit3d/spycer/pkg/cache"
	"github.com/epit3d/spycer/pkg/errors"
	"github.com/epit3d/spycer/pkg/render"
)

// FileName is the default settings file name.
const FileName = "settings.yaml"

// DefaultCommand is the slicer invocation template. Placeholders are the
// keys of slicing.* plus {stl}, {gcode} and {figures}.
const DefaultCommand = "./goosli --stl={stl} --gcode={gcode} --figures={figures} " +
	"--thickness={thickness} --originx={originx} --originy={originy} --originz={originz} " +
	"--wall_thickness={wall_thickness} --fill_density={fill_density} " +
	"--bed_temperature={bed_temperature} --extruder_temperature={extruder_temperature} " +
	"--print_speed={print_speed} --nozzle={nozzle} --slicing_type={slicing_type}"

// Settings wraps a viper instance holding the document.
type Settings struct {
	v    *viper.Viper
	path string
}

// New returns settings populated with defaults only.
func New() *Settings {
	v := viper.New()
	setDefaults(v)
	return &Settings{v: v}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("colors.background", "SlateGray")
	v.SetDefault("colors.layer", "White")
	v.SetDefault("colors.last_layer", "Red")
	v.SetDefault("colors.splane", "Cyan")
	v.SetDefault("colors.splane_selected", "Red")
	v.SetDefault("colors.model", "Gainsboro")

	v.SetDefault("viewer.layer_width", 1.0)
	v.SetDefault("viewer.last_layer_width", 4.0)

	v.SetDefault("plane.center", []float64{0, 0, -50})
	v.SetDefault("plane.size_x", 200.0)
	v.SetDefault("plane.size_y", 200.0)
	v.SetDefault("plane.diameter", 250.0)

	v.SetDefault("slicing.command", DefaultCommand)
	v.SetDefault("slicing.output", "goosli_out.gcode")
	v.SetDefault("slicing.thickness", 0.2)
	v.SetDefault("slicing.originx", 0.0)
	v.SetDefault("slicing.originy", 0.0)
	v.SetDefault("slicing.originz", 0.0)
	v.SetDefault("slicing.wall_thickness", 0.8)
	v.SetDefault("slicing.fill_density", 20)
	v.SetDefault("slicing.bed_temperature", 60)
	v.SetDefault("slicing.extruder_temperature", 200)
	v.SetDefault("slicing.print_speed", 50)
	v.SetDefault("slicing.nozzle", 0.4)
	v.SetDefault("slicing.slicing_type", "vip")

	v.SetDefault("cache.backend", cache.BackendFile)
	v.SetDefault("cache.dir", "")
	v.SetDefault("cache.prefix", "")
	v.SetDefault("cache.redis.addr", "localhost:6379")
	v.SetDefault("cache.redis.password", "")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("cache.mongo.database", "spycer")
	v.SetDefault("cache.mongo.collection", "cache")

	v.SetDefault("server.addr", ":8080")
}

// Load reads path over the defaults. A missing file is not an error;
// Save will create it.
func Load(path string) (*Settings, error) {
	s := New()
	s.path = path
	s.v.SetConfigFile(path)
	s.v.SetConfigType("yaml")
	if err := s.v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			return s, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read settings %s", path)
	}
	return s, nil
}

// DefaultPath returns ./settings.yaml when it exists, otherwise
// <user config dir>/spycer/settings.yaml.
func DefaultPath() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(dir, "spycer", FileName)
}

// Path returns the file the settings were loaded from, if any.
func (s *Settings) Path() string { return s.path }

// Save writes the full document, defaults included, to path. An empty path
// writes back to the loaded file.
func (s *Settings) Save(path string) error {
	if path == "" {
		path = s.path
	}
	if path == "" {
		return errors.New(errors.ErrCodeInvalidPath, "no settings path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	if err := s.v.WriteConfigAs(path); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write settings %s", path)
	}
	return nil
}

// Get returns the raw value of a dotted key.
func (s *Settings) Get(key string) any { return s.v.Get(key) }

// Set overrides a dotted key for this session.
func (s *Settings) Set(key string, value any) { s.v.Set(key, value) }

// Style resolves colors and widths into a render style.
func (s *Settings) Style() (render.Style, error) {
	st := render.DefaultStyle()
	colors := []struct {
		key string
		dst *render.RGB
	}{
		{"colors.background", &st.Background},
		{"colors.layer", &st.Layer},
		{"colors.last_layer", &st.LastLayer},
		{"colors.splane", &st.Figure},
		{"colors.splane_selected", &st.SelectedFigure},
		{"colors.model", &st.Model},
	}
	for _, c := range colors {
		rgb, err := render.ParseColor(s.v.GetString(c.key))
		if err != nil {
			return render.Style{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "setting %s", c.key)
		}
		*c.dst = rgb
	}

	st.LayerWidth = s.v.GetFloat64("viewer.layer_width")
	st.LastLayerWidth = s.v.GetFloat64("viewer.last_layer_width")
	st.PlaneSizeX = s.v.GetFloat64("plane.size_x")
	st.PlaneSizeY = s.v.GetFloat64("plane.size_y")
	st.PlaneDiameter = s.v.GetFloat64("plane.diameter")
	if st.LayerWidth <= 0 || st.LastLayerWidth <= 0 {
		return render.Style{}, errors.New(errors.ErrCodeInvalidInput, "line widths must be positive")
	}
	return st, nil
}

// Command returns the slicer command template.
func (s *Settings) Command() string { return s.v.GetString("slicing.command") }

// Output returns the file name the slicer result is written to.
func (s *Settings) Output() string { return s.v.GetString("slicing.output") }

// SlicingParams returns every slicing.* key except command and output,
// formatted as strings for the command template.
func (s *Settings) SlicingParams() map[string]string {
	out := make(map[string]string)
	for _, key := range s.v.AllKeys() {
		name, ok := strings.CutPrefix(key, "slicing.")
		if !ok || name == "command" || name == "output" || strings.Contains(name, ".") {
			continue
		}
		out[name] = fmt.Sprint(s.v.Get(key))
	}
	return out
}

// SlicingKeys returns the slicing parameter names in sorted order.
func (s *Settings) SlicingKeys() []string {
	p := s.SlicingParams()
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Cache returns the cache backend configuration.
func (s *Settings) Cache() (cache.Config, error) {
	cfg := cache.Config{
		Backend: strings.ToLower(s.v.GetString("cache.backend")),
		Dir:     s.v.GetString("cache.dir"),
		Prefix:  s.v.GetString("cache.prefix"),
		Redis: cache.RedisConfig{
			Addr:     s.v.GetString("cache.redis.addr"),
			Password: s.v.GetString("cache.redis.password"),
			DB:       s.v.GetInt("cache.redis.db"),
		},
		Mongo: cache.MongoConfig{
			URI:        s.v.GetString("cache.mongo.uri"),
			Database:   s.v.GetString("cache.mongo.database"),
			Collection: s.v.GetString("cache.mongo.collection"),
		},
	}
	switch cfg.Backend {
	case cache.BackendFile, cache.BackendRedis, cache.BackendMongo, cache.BackendNone:
		return cfg, nil
	}
	return cache.Config{}, errors.New(errors.ErrCodeInvalidInput, "setting cache.backend: unknown backend %q", cfg.Backend)
}

// ServerAddr returns the HTTP listen address.
func (s *Settings) ServerAddr() string { return s.v.GetString("server.addr") }

// PlaneCenter returns plane.center as a 3-vector.
func (s *Settings) PlaneCenter() ([3]float64, error) {
	var c [3]float64
	raw := s.v.Get("plane.center")
	vals, ok := raw.([]any)
	if !ok {
		if f, ok := raw.([]float64); ok && len(f) == 3 {
			copy(c[:], f)
			return c, nil
		}
		return c, errors.New(errors.ErrCodeInvalidInput, "setting plane.center: want [x, y, z], got %v", raw)
	}
	if len(vals) != 3 {
		return c, errors.New(errors.ErrCodeInvalidInput, "setting plane.center: want 3 values, got %d", len(vals))
	}
	for i, v := range vals {
		switch n := v.(type) {
		case int:
			c[i] = float64(n)
		case float64:
			c[i] = n
		default:
			return c, errors.New(errors.ErrCodeInvalidInput, "setting plane.center[%d]: not a number", i)
		}
	}
	return c, nil
}
