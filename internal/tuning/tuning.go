package tuning

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"sketchnoise/internal/noise"
)

//go:embed job.schema.json
var jobSchemaJSON string

const jobSchemaURL = "sketchnoise://job.schema.json"

// Job describes one render: noise settings, the sampling mesh and how many
// animation frames to step through along z.
type Job struct {
	Name      string       `yaml:"name"`
	Noise     noise.Config `yaml:"noise"`
	Grid      Grid         `yaml:"grid"`
	Animation Animation    `yaml:"animation"`
	Output    Output       `yaml:"output"`
}

type Grid struct {
	X Axis `yaml:"x"`
	Y Axis `yaml:"y"`
	// Z is the plane of the first frame. Nil means a 2D field.
	Z *float64 `yaml:"z,omitempty"`
}

type Axis struct {
	Start float64 `yaml:"start"`
	Stop  float64 `yaml:"stop"`
	Count int     `yaml:"count"`
}

type Animation struct {
	Frames int     `yaml:"frames"`
	ZStep  float64 `yaml:"z_step"`
}

type Output struct {
	Dir    string `yaml:"dir"`
	Prefix string `yaml:"prefix"`
}

// Samples expands the axis into Count evenly spaced coordinates.
func (a Axis) Samples() []float64 {
	return noise.Linspace(a.Start, a.Stop, a.Count)
}

// Is3D reports whether frames are z slices of 3D noise.
func (j Job) Is3D() bool { return j.Grid.Z != nil }

// FrameZ returns the z plane of frame k. Only meaningful when Is3D.
func (j Job) FrameZ(k int) float64 {
	if j.Grid.Z == nil {
		return 0
	}
	return *j.Grid.Z + float64(k)*j.Animation.ZStep
}

func Defaults() Job {
	return Job{
		Name:  "default",
		Noise: noise.DefaultConfig(),
		Grid: Grid{
			X: Axis{Start: 0, Stop: 10, Count: 100},
			Y: Axis{Start: 0, Stop: 10, Count: 100},
		},
		Animation: Animation{Frames: 1, ZStep: 0.05},
		Output:    Output{Dir: "./data/fields", Prefix: "field"},
	}
}

// Load reads a YAML job. Missing keys keep their Defaults value. The raw
// document is checked against the embedded JSON schema before decoding.
func Load(path string) (Job, error) {
	j := Defaults()
	if strings.TrimSpace(path) == "" {
		j.Normalize()
		return j, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return j, err
	}
	if err := validateDocument(raw); err != nil {
		return j, fmt.Errorf("%s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &j); err != nil {
		return j, fmt.Errorf("%s: %w", path, err)
	}
	j.Normalize()
	if err := j.Validate(); err != nil {
		return j, fmt.Errorf("%s: %w", path, err)
	}
	return j, nil
}

// Normalize applies the permissive fixes: octaves clamp to >= 1, frames to
// >= 1, and an animated job without a z plane starts at z=0.
func (j *Job) Normalize() {
	j.Name = strings.TrimSpace(j.Name)
	if j.Name == "" {
		j.Name = "default"
	}
	j.Noise.Normalize()
	if j.Animation.Frames < 1 {
		j.Animation.Frames = 1
	}
	if j.Animation.Frames > 1 && j.Grid.Z == nil {
		z := 0.0
		j.Grid.Z = &z
	}
	if strings.TrimSpace(j.Output.Prefix) == "" {
		j.Output.Prefix = "field"
	}
}

func (j Job) Validate() error {
	if j.Grid.X.Count < 1 || j.Grid.Y.Count < 1 {
		return fmt.Errorf("grid: x.count and y.count must be >= 1 (got %d, %d)", j.Grid.X.Count, j.Grid.Y.Count)
	}
	if strings.TrimSpace(j.Output.Dir) == "" {
		return fmt.Errorf("output.dir is empty")
	}
	if strings.ContainsAny(j.Output.Prefix, `/\`) {
		return fmt.Errorf("output.prefix %q must not contain path separators", j.Output.Prefix)
	}
	return nil
}

var jobSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(jobSchemaURL, strings.NewReader(jobSchemaJSON)); err != nil {
		panic(fmt.Sprintf("job schema: %v", err))
	}
	return c.MustCompile(jobSchemaURL)
}

// validateDocument checks raw YAML against the job schema. YAML is round
// tripped through JSON so the validator only sees JSON value types.
func validateDocument(raw []byte) error {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return err
	}
	if doc == nil {
		return nil
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("job document: %w", err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if err := jobSchema.Validate(v); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}
