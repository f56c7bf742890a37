// Package scenefile loads declarative scene descriptions and builds worlds
// from them.
package scenefile

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"gopkg.in/yaml.v3"
)

type SceneSpec struct {
	Name   string      `yaml:"name"`
	World  WorldSpec   `yaml:"world"`
	Bodies []BodySpec  `yaml:"bodies"`
	Size   *VectorSpec `yaml:"size"`
}

type VectorSpec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (v VectorSpec) Vector() cp.Vector {
	return cp.Vector{X: v.X, Y: v.Y}
}

type WorldSpec struct {
	Gravity            *VectorSpec `yaml:"gravity"`
	Iterations         int         `yaml:"iterations"`
	TimeStep           float64     `yaml:"time_step"`
	SleepTimeThreshold *float64    `yaml:"sleep_time_threshold"`
	Running            *bool       `yaml:"running"`
}

// BodySpec mirrors physics.BodyDef plus item geometry. Pointer fields fall
// back to the body defaults when omitted.
type BodySpec struct {
	Name            string        `yaml:"name"`
	X               float64       `yaml:"x"`
	Y               float64       `yaml:"y"`
	Width           float64       `yaml:"width"`
	Height          float64       `yaml:"height"`
	Rotation        float64       `yaml:"rotation"`
	BodyType        string        `yaml:"body_type"`
	LinearDamping   float64       `yaml:"linear_damping"`
	AngularDamping  float64       `yaml:"angular_damping"`
	Bullet          bool          `yaml:"bullet"`
	SleepingAllowed *bool         `yaml:"sleeping_allowed"`
	FixedRotation   bool          `yaml:"fixed_rotation"`
	Active          *bool         `yaml:"active"`
	Awake           *bool         `yaml:"awake"`
	LinearVelocity  VectorSpec    `yaml:"linear_velocity"`
	AngularVelocity float64       `yaml:"angular_velocity"`
	GravityScale    *float64      `yaml:"gravity_scale"`
	Script          string        `yaml:"script"`
	Fixtures        []FixtureSpec `yaml:"fixtures"`
}

type FixtureSpec struct {
	Shape        string       `yaml:"shape"`
	X            float64      `yaml:"x"`
	Y            float64      `yaml:"y"`
	Width        float64      `yaml:"width"`
	Height       float64      `yaml:"height"`
	Radius       float64      `yaml:"radius"`
	Vertices     []VectorSpec `yaml:"vertices"`
	Points       []VectorSpec `yaml:"points"`
	Loop         bool         `yaml:"loop"`
	Density      float64      `yaml:"density"`
	Friction     *float64     `yaml:"friction"`
	Restitution  float64      `yaml:"restitution"`
	Sensor       bool         `yaml:"sensor"`
	Categories   *uint        `yaml:"categories"`
	CollidesWith *uint        `yaml:"collides_with"`
	GroupIndex   uint         `yaml:"group_index"`
}

// Parse decodes a scene description.
func Parse(data []byte) (SceneSpec, error) {
	var spec SceneSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return SceneSpec{}, fmt.Errorf("scenefile: unmarshal: %w", err)
	}
	return spec, nil
}

// LoadSpec loads and decodes the named scene.
func LoadSpec(name string) (SceneSpec, error) {
	data, err := Load(name)
	if err != nil {
		return SceneSpec{}, fmt.Errorf("scenefile: load %s: %w", name, err)
	}
	spec, err := Parse(data)
	if err != nil {
		return SceneSpec{}, fmt.Errorf("scenefile: %s: %w", name, err)
	}
	if spec.Name == "" {
		spec.Name = cleanScenePath(name)
	}
	return spec, nil
}

// Marshal encodes spec back to YAML.
func Marshal(spec SceneSpec) ([]byte, error) {
	return yaml.Marshal(spec)
}
