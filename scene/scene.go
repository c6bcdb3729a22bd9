// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import "golang.org/x/image/math/f32"

// Scene is everything the render nodes draw.
type Scene struct {
	Models []*Model
	Camera *Camera
	Sun    DirectionalLight

	// EnvironmentMap is the path of an equirectangular sky texture. When
	// empty the environment is a constant white scaled by the multiplier.
	EnvironmentMap        string
	EnvironmentMultiplier float32

	Ambient f32.Vec3
}

// New returns an empty scene with a default camera and sun.
func New() *Scene {
	return &Scene{
		Camera:                NewCamera(f32.Vec3{0, 1, 5}),
		Sun:                   DefaultSun(),
		EnvironmentMultiplier: 1,
		Ambient:               f32.Vec3{0.03, 0.03, 0.03},
	}
}

// AddModel appends m.
func (s *Scene) AddModel(m *Model) {
	s.Models = append(s.Models, m)
}

// ForEachModel calls fn for every model in order.
func (s *Scene) ForEachModel(fn func(index int, m *Model)) {
	for i, m := range s.Models {
		fn(i, m)
	}
}

// ForEachMesh calls fn for every mesh of every model. index counts meshes
// across the whole scene and is stable while the scene is unchanged.
func (s *Scene) ForEachMesh(fn func(index int, m *Mesh)) {
	i := 0
	for _, model := range s.Models {
		for _, mesh := range model.Meshes {
			fn(i, mesh)
			i++
		}
	}
}

// MeshCount returns the number of meshes ForEachMesh visits.
func (s *Scene) MeshCount() int {
	n := 0
	for _, m := range s.Models {
		n += len(m.Meshes)
	}
	return n
}

// Materials returns the distinct materials in mesh order.
func (s *Scene) Materials() []*Material {
	var out []*Material
	seen := make(map[*Material]bool)
	s.ForEachMesh(func(_ int, m *Mesh) {
		if m.Material != nil && !seen[m.Material] {
			seen[m.Material] = true
			out = append(out, m.Material)
		}
	})
	return out
}

// Bounds returns the world space bounding box of all meshes. An empty
// scene has zero bounds.
func (s *Scene) Bounds() (lo, hi f32.Vec3) {
	first := true
	s.ForEachMesh(func(_ int, m *Mesh) {
		mlo, mhi := m.Bounds()
		if first {
			lo, hi, first = mlo, mhi, false
			return
		}
		for c := range 3 {
			lo[c] = min(lo[c], mlo[c])
			hi[c] = max(hi[c], mhi[c])
		}
	})
	return lo, hi
}
