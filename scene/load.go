// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"golang.org/x/image/math/f32"
	"gopkg.in/yaml.v3"
)

// ErrInvalidScene is returned when a scene file is well formed YAML but
// does not describe a valid scene.
var ErrInvalidScene = errors.New("scene: invalid scene file")

// Primitive names a procedural mesh.
type Primitive uint8

const (
	PrimitiveCube Primitive = iota
	PrimitivePlane
)

var primitiveNames = [...]string{
	PrimitiveCube:  "cube",
	PrimitivePlane: "plane",
}

func (p Primitive) String() string {
	if int(p) < len(primitiveNames) {
		return primitiveNames[p]
	}
	return "unknown"
}

// ParsePrimitive returns the primitive named s, ignoring case.
func ParsePrimitive(s string) (Primitive, error) {
	for i, n := range primitiveNames {
		if strings.EqualFold(n, s) {
			return Primitive(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown mesh %q", ErrInvalidScene, s)
}

// Mesh builds the primitive with edge length size.
func (p Primitive) Mesh(size float32) *Mesh {
	if p == PrimitivePlane {
		return Plane(size)
	}
	return Cube(size)
}

// MarshalYAML implements yaml.Marshaler.
func (p Primitive) MarshalYAML() (any, error) { return p.String(), nil }

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *Primitive) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := ParsePrimitive(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*p = v
	return nil
}

// File is the YAML form of a scene. Angles are in degrees.
type File struct {
	Camera      *CameraFile             `yaml:"camera"`
	Sun         *SunFile                `yaml:"sun"`
	Environment EnvironmentFile         `yaml:"environment"`
	Ambient     *f32.Vec3               `yaml:"ambient"`
	Materials   map[string]MaterialFile `yaml:"materials"`
	Models      []ModelFile             `yaml:"models"`
}

type CameraFile struct {
	Position f32.Vec3 `yaml:"position"`
	Yaw      float32  `yaml:"yaw"`
	Pitch    float32  `yaml:"pitch"`
	Fov      float32  `yaml:"fov"`
	Near     float32  `yaml:"near"`
	Far      float32  `yaml:"far"`
	Speed    float32  `yaml:"speed"`
}

type SunFile struct {
	Direction   f32.Vec3 `yaml:"direction"`
	Color       f32.Vec3 `yaml:"color"`
	Illuminance float32  `yaml:"illuminance"`
}

type EnvironmentFile struct {
	Map        string   `yaml:"map"`
	Multiplier *float32 `yaml:"multiplier"`
}

type MaterialFile struct {
	BaseColor         string    `yaml:"baseColor"`
	BaseColorFactor   *f32.Vec4 `yaml:"baseColorFactor"`
	Normal            string    `yaml:"normal"`
	MetallicRoughness string    `yaml:"metallicRoughness"`
	Metallic          float32   `yaml:"metallic"`
	Roughness         *float32  `yaml:"roughness"`
	Emissive          string    `yaml:"emissive"`
	EmissiveFactor    f32.Vec3  `yaml:"emissiveFactor"`
}

type ModelFile struct {
	Name        string     `yaml:"name"`
	Mesh        Primitive  `yaml:"mesh"`
	Size        float32    `yaml:"size"`
	Material    string     `yaml:"material"`
	Translation f32.Vec3   `yaml:"translation"`
	Rotation    float32    `yaml:"rotation"`
	Scale       *f32.Vec3  `yaml:"scale"`
	Proxy       *ModelFile `yaml:"proxy"`
}

// Load reads and builds the scene file name from fsys.
func Load(fsys fs.FS, name string) (*Scene, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return s, nil
}

// Parse builds a scene from YAML. Unknown keys are rejected.
func Parse(data []byte) (*Scene, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("scene: %w", err)
	}
	return f.Build()
}

// Build turns the file form into a Scene.
func (f *File) Build() (*Scene, error) {
	s := New()

	if f.Camera != nil {
		if err := f.Camera.apply(s.Camera); err != nil {
			return nil, err
		}
	}

	if f.Sun != nil {
		if Length(f.Sun.Direction) == 0 {
			return nil, fmt.Errorf("%w: sun direction is zero", ErrInvalidScene)
		}
		s.Sun = DirectionalLight{
			Direction:   Normalize(f.Sun.Direction),
			Color:       f.Sun.Color,
			Illuminance: f.Sun.Illuminance,
		}
	}

	s.EnvironmentMap = f.Environment.Map
	if f.Environment.Multiplier != nil {
		s.EnvironmentMultiplier = *f.Environment.Multiplier
	}
	if f.Ambient != nil {
		s.Ambient = *f.Ambient
	}

	materials := make(map[string]*Material, len(f.Materials))
	for name, m := range f.Materials {
		materials[name] = m.build(name)
	}

	names := make(map[string]bool, len(f.Models))
	for i, mf := range f.Models {
		if mf.Name == "" {
			mf.Name = fmt.Sprintf("model%d", i)
		}
		if names[mf.Name] {
			return nil, fmt.Errorf("%w: duplicate model %q", ErrInvalidScene, mf.Name)
		}
		names[mf.Name] = true

		m, err := mf.build(materials)
		if err != nil {
			return nil, err
		}
		if mf.Proxy != nil {
			// The proxy shares the model transform through its parent.
			pf := *mf.Proxy
			pf.Translation, pf.Rotation, pf.Scale = f32.Vec3{}, 0, nil
			if pf.Name == "" {
				pf.Name = mf.Name + "-proxy"
			}
			proxy, err := pf.build(materials)
			if err != nil {
				return nil, err
			}
			m.SetProxy(proxy)
		}
		s.AddModel(m)
	}
	return s, nil
}

func (cf *CameraFile) apply(c *Camera) error {
	c.SetPosition(cf.Position)
	c.SetOrientation(Radians(cf.Yaw), Radians(cf.Pitch))
	if cf.Fov != 0 {
		if cf.Fov < 0 || cf.Fov >= 180 {
			return fmt.Errorf("%w: camera fov %v", ErrInvalidScene, cf.Fov)
		}
		c.FovY = Radians(cf.Fov)
	}
	if cf.Near != 0 {
		c.Near = cf.Near
	}
	if cf.Far != 0 {
		c.Far = cf.Far
	}
	if c.Near <= 0 || c.Far <= c.Near {
		return fmt.Errorf("%w: camera near %v far %v", ErrInvalidScene, c.Near, c.Far)
	}
	if cf.Speed != 0 {
		c.MoveSpeed = cf.Speed
	}
	return nil
}

func (m MaterialFile) build(name string) *Material {
	mat := DefaultMaterial()
	mat.Name = name
	mat.BaseColor = m.BaseColor
	if m.BaseColorFactor != nil {
		mat.BaseColorFactor = *m.BaseColorFactor
	}
	mat.Normal = m.Normal
	mat.MetallicRoughness = m.MetallicRoughness
	mat.Metallic = m.Metallic
	if m.Roughness != nil {
		mat.Roughness = *m.Roughness
	}
	mat.Emissive = m.Emissive
	mat.EmissiveFactor = m.EmissiveFactor
	return mat
}

func (mf ModelFile) build(materials map[string]*Material) (*Model, error) {
	size := mf.Size
	if size == 0 {
		size = 1
	}
	if size < 0 {
		return nil, fmt.Errorf("%w: model %q size %v", ErrInvalidScene, mf.Name, size)
	}
	scale := f32.Vec3{1, 1, 1}
	if mf.Scale != nil {
		scale = *mf.Scale
	}

	mesh := mf.Mesh.Mesh(size)
	mesh.Name = mf.Name
	if mf.Material != "" {
		mat, ok := materials[mf.Material]
		if !ok {
			return nil, fmt.Errorf("%w: model %q uses unknown material %q", ErrInvalidScene, mf.Name, mf.Material)
		}
		mesh.Material = mat
	}
	return NewModel(mf.Name, TRS(mf.Translation, Radians(mf.Rotation), scale), mesh), nil
}
