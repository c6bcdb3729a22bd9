// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package scene holds the data render nodes draw: models made of meshes,
// their materials and transforms, a camera, a sun and an environment.
//
// Scenes are plain data. They are built in code or loaded from YAML:
//
//	s, err := scene.Load(os.DirFS("assets"), "scenes/sponza.yaml")
//
// Matrices use golang.org/x/image/math/f32 in row major order. Nodes
// transpose them when uploading to shaders.
package scene
