// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package pipeline describes a frame graph in an HCL file and builds it.
//
// A pipeline file names the backend, the window, the capabilities the
// graph needs, the scene to load and the nodes to run, in order:
//
//	backend = "headless"
//	scene   = "scenes/demo.yaml"
//	frames  = 120
//
//	window {
//	  width  = 1280
//	  height = 720
//	}
//
//	capabilities {
//	  required = ["rtx-ray-tracing"]
//	}
//
//	node "scene" {}
//	node "g-buffer" {}
//	node "rt-acceleration-structures" {}
//	node "rt-diffuse-gi" {
//	  max_samples_per_pixel = var.samples
//	}
//	node "final" {
//	  source  = "rt-diffuse-gi/diffuseGI"
//	  tonemap = "reinhard"
//	}
//
// Each node block's attributes are decoded into the parameters of its
// node type. Node types are registered with Register; every node in the
// nodes package is registered by this package.
//
// Expressions may reference caller supplied variables as var.<name> and
// call max, min, upper, lower and format.
package pipeline
