// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package headless implements gpu.Backend without a GPU.
//
// The headless backend validates every creation call the way a driver
// would, compiles WGSL shader sources to SPIR-V with naga, stores buffer
// and texture contents in memory and records frames into a command list
// it inspects but never executes. It backs the framegraph command line
// tool and the package tests.
//
// Importing the package registers it under backend.BackendHeadless:
//
//	import _ "github.com/gogpu/framegraph/backend/headless"
package headless
