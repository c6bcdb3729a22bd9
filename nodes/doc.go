// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package nodes contains the render nodes of the deferred, forward and
// ray traced pipelines.
//
// Nodes communicate only through published resources. The usual order is
//
//	scene                       camera, directionalLight, environmentData, environmentMap
//	shadow-map                  directional
//	g-buffer                    normal, depth, baseColor
//	forward                     color, depth
//	bloom                       bloom (and blends into forward/color)
//	rt-acceleration-structures  scene, proxy
//	rt-firsthit                 image
//	rt-diffuse-gi               diffuseGI
//	final                       (presents a chosen source)
//
// Shader paths are relative to Shaders, which backends should use as
// their shader file system. A combined texture and sampler at binding N
// is declared in WGSL as a texture at binding N and a sampler at binding
// N+16.
package nodes
