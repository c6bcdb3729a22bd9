// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import "golang.org/x/image/math/f32"

// Material describes the surface of a mesh. Texture fields are paths in
// the asset file system; an empty path means the factor alone is used.
type Material struct {
	Name string

	BaseColor       string
	BaseColorFactor f32.Vec4

	Normal string

	// MetallicRoughness holds metalness in blue and roughness in green.
	MetallicRoughness string
	Metallic          float32
	Roughness         float32

	Emissive       string
	EmissiveFactor f32.Vec3
}

// DefaultMaterial returns a white dielectric material.
func DefaultMaterial() *Material {
	return &Material{
		Name:            "default",
		BaseColorFactor: f32.Vec4{1, 1, 1, 1},
		Roughness:       1,
	}
}
