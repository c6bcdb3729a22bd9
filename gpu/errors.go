// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import "errors"

// Errors returned by backends and the command list.
var (
	// ErrInvalidDescription is returned when a creation call receives a
	// description that violates its preconditions.
	ErrInvalidDescription = errors.New("gpu: invalid description")

	// ErrOutOfMemory is returned when a backend cannot satisfy an allocation.
	ErrOutOfMemory = errors.New("gpu: out of memory")

	// ErrShaderCompile is returned when a shader fails to load or compile.
	ErrShaderCompile = errors.New("gpu: shader compilation failed")

	// ErrCapabilityInactive is returned when a resource requires a
	// capability the backend does not have active.
	ErrCapabilityInactive = errors.New("gpu: capability not active")

	// ErrReleased is returned when a released resource is used.
	ErrReleased = errors.New("gpu: resource released")

	// ErrCommandMisuse is recorded by CommandList when a command is issued
	// in a state that cannot execute it.
	ErrCommandMisuse = errors.New("gpu: invalid command")
)
