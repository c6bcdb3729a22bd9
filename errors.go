// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package framegraph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/framegraph/gpu"
)

// Sentinel errors. Typed errors below match them with errors.Is.
var (
	// ErrCapability is returned by Setup when a required capability is
	// not active on the backend.
	ErrCapability = errors.New("framegraph: required capability not active")

	// ErrResourceCreation is returned when a backend creation call fails.
	ErrResourceCreation = errors.New("framegraph: resource creation failed")

	// ErrLookupMiss is returned by the Require* lookups when no resource
	// was published under the requested name.
	ErrLookupMiss = errors.New("framegraph: published resource not found")

	// ErrDuplicatePublish is returned when a node publishes a label twice.
	ErrDuplicatePublish = errors.New("framegraph: label already published")

	// ErrPublishPhase is returned when a node publishes from
	// ConstructNode.
	ErrPublishPhase = errors.New("framegraph: publish outside ConstructFrame")

	// ErrSealed is returned when resources are created or published after
	// setup has finished.
	ErrSealed = errors.New("framegraph: registry sealed after setup")

	// ErrNotSetUp is returned by Render before a successful Setup.
	ErrNotSetUp = errors.New("framegraph: graph not set up")

	// ErrDuplicateNode is returned when two nodes share a name.
	ErrDuplicateNode = errors.New("framegraph: duplicate node name")
)

// CapabilityError lists required capabilities the backend lacks.
type CapabilityError struct {
	Missing []gpu.Capability
}

func (e *CapabilityError) Error() string {
	names := make([]string, len(e.Missing))
	for i, c := range e.Missing {
		names[i] = c.String()
	}
	return fmt.Sprintf("framegraph: required capabilities not active: %s", strings.Join(names, ", "))
}

func (e *CapabilityError) Is(target error) bool { return target == ErrCapability }

// ResourceError reports a failed creation call with the node and the
// kind of resource it was creating.
type ResourceError struct {
	Node string
	Kind gpu.ResourceKind
	Err  error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("framegraph: node %q: create %s: %v", e.Node, e.Kind, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

func (e *ResourceError) Is(target error) bool { return target == ErrResourceCreation }

// LookupError reports a published resource that was not found.
type LookupError struct {
	// Consumer is the node performing the lookup.
	Consumer string
	Node     string
	Label    string
	Kind     gpu.ResourceKind
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("framegraph: node %q: no %s published as %q by node %q",
		e.Consumer, e.Kind, e.Label, e.Node)
}

func (e *LookupError) Is(target error) bool { return target == ErrLookupMiss }

// PublishError reports a label published twice by one node.
type PublishError struct {
	Node  string
	Label string
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("framegraph: node %q already published %q", e.Node, e.Label)
}

func (e *PublishError) Is(target error) bool { return target == ErrDuplicatePublish }

// NodeError wraps an error returned by a node's construction.
type NodeError struct {
	Node  string
	Phase string
	Err   error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("framegraph: node %q: %s: %v", e.Node, e.Phase, e.Err)
}

func (e *NodeError) Unwrap() error { return e.Err }
