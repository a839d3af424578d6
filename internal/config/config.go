// Package config holds the run conventions of gofd: which elements form the
// central line and the girders, which axes are used, and which force
// components are drawn at what scale.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alexiusacademia/gofd/internal/girder"
	"github.com/alexiusacademia/gofd/internal/model"
	"github.com/alexiusacademia/gofd/internal/results"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all run configuration
type Config struct {
	// Logging
	LogLevel  string `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat string `yaml:"log_format" validate:"oneof=console json"`

	Output  OutputConfig  `yaml:"output"`
	Line    LineConfig    `yaml:"line"`
	Girders GirdersConfig `yaml:"girders"`

	// LoadedFrom lists the sources applied, lowest priority first
	LoadedFrom []string `yaml:"-"`
}

// OutputConfig controls where and how diagrams are written
type OutputConfig struct {
	Dir    string  `yaml:"dir" validate:"required"`
	Format string  `yaml:"format" validate:"oneof=png svg pdf"`
	Width  float64 `yaml:"width" validate:"gt=0"`  // inches
	Height float64 `yaml:"height" validate:"gt=0"` // inches
}

// DiagramConfig is one force diagram, e.g. BMD from Mz_i/Mz_j
type DiagramConfig struct {
	Name      string `yaml:"name" validate:"required"`
	Title     string `yaml:"title"`
	Component string `yaml:"component" validate:"required"`

	// Start and End override the conventional <component>_i / <component>_j names
	Start string `yaml:"start"`
	End   string `yaml:"end"`

	// Scale multiplies forces before offsetting girder paths (default 1)
	Scale *float64 `yaml:"scale"`
	// AutoScale, when > 0, draws the largest force as this fraction of the model span
	AutoScale float64 `yaml:"auto_scale" validate:"gte=0"`
}

// LineConfig is the structural line drawn as a 2D diagram
type LineConfig struct {
	Name        string          `yaml:"name" validate:"required"`
	Elements    []int           `yaml:"elements" validate:"required,min=1"`
	StationAxis string          `yaml:"station_axis" validate:"axis"`
	Diagrams    []DiagramConfig `yaml:"diagrams" validate:"required,min=1,dive"`
}

// GroupConfig is one named girder
type GroupConfig struct {
	Name     string `yaml:"name" validate:"required"`
	Elements []int  `yaml:"elements" validate:"required,min=1"`
}

// ViewConfig orients the projected 3D figure
type ViewConfig struct {
	Azimuth   float64 `yaml:"azimuth"`   // degrees
	Elevation float64 `yaml:"elevation"` // degrees
}

// GirdersConfig is the multi-girder 3D diagram setup
type GirdersConfig struct {
	Groups           []GroupConfig   `yaml:"groups" validate:"required,min=1,dive"`
	DisplacementAxis string          `yaml:"displacement_axis" validate:"axis"`
	CheckContinuity  bool            `yaml:"check_continuity"`
	Workers          int             `yaml:"workers" validate:"gte=0"`
	Diagrams         []DiagramConfig `yaml:"diagrams" validate:"required,min=1,dive"`
	View             ViewConfig      `yaml:"view"`
}

var validate = newValidator()

// newValidator registers "axis", which accepts what model.ParseAxis accepts
func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("axis", func(fl validator.FieldLevel) bool {
		_, err := model.ParseAxis(fl.Field().String())
		return err == nil
	})
	return v
}

// Load builds the configuration from defaults, an optional YAML or JSON
// file, and GOFD_* environment variables, in that order of priority.
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.LoadedFrom = []string{"defaults"}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", filepath.Base(path), err)
		}
		cfg.LoadedFrom = append(cfg.LoadedFrom, path)
	}

	cfg.loadEnvironmentVariables()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadEnvironmentVariables() {
	before := *c
	c.LogLevel = getEnv("GOFD_LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("GOFD_LOG_FORMAT", c.LogFormat)
	c.Output.Dir = getEnv("GOFD_OUTPUT_DIR", c.Output.Dir)
	c.Output.Format = getEnv("GOFD_FORMAT", c.Output.Format)
	c.Girders.Workers = getEnvInt("GOFD_WORKERS", c.Girders.Workers)
	c.Girders.CheckContinuity = getEnvBool("GOFD_CHECK_CONTINUITY", c.Girders.CheckContinuity)

	if before.LogLevel != c.LogLevel || before.LogFormat != c.LogFormat ||
		before.Output != c.Output || before.Girders.Workers != c.Girders.Workers ||
		before.Girders.CheckContinuity != c.Girders.CheckContinuity {
		c.LoadedFrom = append(c.LoadedFrom, "environment")
	}
}

// Validate checks field constraints and axis names
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Pair returns the component pair of a diagram
func (d DiagramConfig) Pair() results.Pair {
	p := results.PairFor(d.Component)
	if d.Start != "" {
		p.Start = d.Start
	}
	if d.End != "" {
		p.End = d.End
	}
	return p
}

// ScaleValue returns the configured scale, 1 when unset
func (d DiagramConfig) ScaleValue() float64 {
	if d.Scale == nil {
		return 1
	}
	return *d.Scale
}

// TitleFor returns the diagram title for a structure label
func (d DiagramConfig) TitleFor(label string) string {
	title := d.Title
	if title == "" {
		title = d.Name
	}
	if label == "" {
		return title
	}
	return fmt.Sprintf("%s (%s)", title, label)
}

// Spec converts the line configuration to a builder spec
func (l LineConfig) Spec() (girder.LineSpec, error) {
	axis, err := model.ParseAxis(l.StationAxis)
	if err != nil {
		return girder.LineSpec{}, fmt.Errorf("line station_axis: %w", err)
	}
	spec := girder.LineSpec{
		Name:        l.Name,
		Elements:    append([]int(nil), l.Elements...),
		StationAxis: axis,
	}
	for _, d := range l.Diagrams {
		spec.Pairs = append(spec.Pairs, d.Pair())
	}
	return spec, nil
}

// Spec converts the girder configuration to a builder spec
func (g GirdersConfig) Spec() (girder.PathSpec, error) {
	axis, err := model.ParseAxis(g.DisplacementAxis)
	if err != nil {
		return girder.PathSpec{}, fmt.Errorf("girders displacement_axis: %w", err)
	}
	spec := girder.PathSpec{
		Axis:            axis,
		CheckContinuity: g.CheckContinuity,
		Workers:         g.Workers,
	}
	for _, grp := range g.Groups {
		spec.Groups = append(spec.Groups, girder.Group{Name: grp.Name, Elements: append([]int(nil), grp.Elements...)})
	}
	for _, d := range g.Diagrams {
		spec.Kinds = append(spec.Kinds, girder.Kind{Name: d.Name, Pair: d.Pair(), Scale: d.ScaleValue()})
	}
	return spec, nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return i
		}
	}
	return defaultValue
}
