// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package backend selects a gpu.Backend implementation by name.
//
// Backend packages register a factory from an init function and are
// selected at runtime:
//
//	import _ "github.com/gogpu/framegraph/backend/headless"
//
//	b, err := backend.Open("", backend.Options{Width: 1280, Height: 720})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer b.Close()
//
// An empty name opens the best available backend. Concrete GPU drivers
// register under their own names; the headless backend is always
// available and is the fallback.
package backend
