// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
)

// CommandType identifies the type of a recorded command.
type CommandType uint8

const (
	// Pipeline commands
	CmdSetRenderState     CommandType = iota // Bind a raster pipeline and begin rendering
	CmdEndRendering                          // End the current render pass
	CmdSetComputeState                       // Bind a compute pipeline
	CmdSetRayTracingState                    // Bind a ray tracing pipeline
	CmdBindSet                               // Bind a binding set
	CmdPushConstant                          // Write push constant bytes

	// Work commands
	CmdBindVertexBuffer // Bind a vertex buffer
	CmdBindIndexBuffer  // Bind an index buffer
	CmdDraw             // Draw vertices
	CmdDrawIndexed      // Draw indexed vertices
	CmdDispatch         // Dispatch compute workgroups
	CmdTraceRays        // Trace one ray per pixel
	CmdClearTexture     // Clear a texture to a color
	CmdCopyTexture      // Copy one texture into another

	// Synchronisation commands
	CmdDebugBarrier        // Full pipeline barrier
	CmdTextureWriteBarrier // Make writes to one texture visible
	CmdWaitEvent           // Wait for an event
	CmdResetEvent          // Reset an event
	CmdSignalEvent         // Signal an event
)

var commandTypeNames = [...]string{
	CmdSetRenderState:      "SetRenderState",
	CmdEndRendering:        "EndRendering",
	CmdSetComputeState:     "SetComputeState",
	CmdSetRayTracingState:  "SetRayTracingState",
	CmdBindSet:             "BindSet",
	CmdPushConstant:        "PushConstant",
	CmdBindVertexBuffer:    "BindVertexBuffer",
	CmdBindIndexBuffer:     "BindIndexBuffer",
	CmdDraw:                "Draw",
	CmdDrawIndexed:         "DrawIndexed",
	CmdDispatch:            "Dispatch",
	CmdTraceRays:           "TraceRays",
	CmdClearTexture:        "ClearTexture",
	CmdCopyTexture:         "CopyTexture",
	CmdDebugBarrier:        "DebugBarrier",
	CmdTextureWriteBarrier: "TextureWriteBarrier",
	CmdWaitEvent:           "WaitEvent",
	CmdResetEvent:          "ResetEvent",
	CmdSignalEvent:         "SignalEvent",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is implemented by every recorded command.
type Command interface {
	Type() CommandType
}

// PipelineStage names a point in the GPU pipeline events are keyed on.
type PipelineStage uint8

const (
	PipelineStageHost PipelineStage = iota
	PipelineStageVertex
	PipelineStageFragment
	PipelineStageCompute
	PipelineStageRayTracing
)

var pipelineStageNames = [...]string{
	PipelineStageHost:       "Host",
	PipelineStageVertex:     "Vertex",
	PipelineStageFragment:   "Fragment",
	PipelineStageCompute:    "Compute",
	PipelineStageRayTracing: "RayTracing",
}

func (s PipelineStage) String() string {
	if int(s) < len(pipelineStageNames) {
		return pipelineStageNames[s]
	}
	return "Unknown"
}

// ClearValue holds the color and depth a render pass starts from.
type ClearValue struct {
	Color gputypes.Color
	Depth float32
}

// DefaultClearValue clears to transparent black and far depth.
func DefaultClearValue() ClearValue {
	return ClearValue{Color: gputypes.ColorTransparent, Depth: 1}
}

// MaxPushConstantSize is the number of push constant bytes a pipeline
// may use.
const MaxPushConstantSize = 128

// --------------------------------------------------------------------------
// Command structs
// --------------------------------------------------------------------------

// SetRenderStateCommand binds a raster pipeline and begins rendering into
// its target.
type SetRenderStateCommand struct {
	State RenderState
	Clear ClearValue
}

// EndRenderingCommand ends the current render pass.
type EndRenderingCommand struct{}

// SetComputeStateCommand binds a compute pipeline.
type SetComputeStateCommand struct {
	State ComputeState
}

// SetRayTracingStateCommand binds a ray tracing pipeline.
type SetRayTracingStateCommand struct {
	State RayTracingState
}

// BindSetCommand binds a set at an index of the current pipeline.
type BindSetCommand struct {
	Set   BindingSet
	Index uint32
}

// PushConstantCommand writes Size bytes of Data at Offset.
type PushConstantCommand struct {
	Stages ShaderStage
	Offset uint32
	Size   uint32
	Data   [MaxPushConstantSize]byte
}

// Bytes returns the written bytes.
func (c PushConstantCommand) Bytes() []byte {
	return c.Data[:c.Size]
}

// BindVertexBufferCommand binds a vertex buffer.
type BindVertexBufferCommand struct {
	Buffer Buffer
}

// BindIndexBufferCommand binds an index buffer.
type BindIndexBufferCommand struct {
	Buffer Buffer
	Format gputypes.IndexFormat
}

// DrawCommand draws VertexCount vertices.
type DrawCommand struct {
	VertexCount uint32
}

// DrawIndexedCommand draws IndexCount indices.
type DrawIndexedCommand struct {
	IndexCount uint32
}

// DispatchCommand dispatches a grid of workgroups.
type DispatchCommand struct {
	GlobalSize Extent2D
	LocalSize  gputypes.Extent3D

	// GroupCount is GlobalSize divided by LocalSize, rounded up.
	GroupCount gputypes.Extent3D
}

// TraceRaysCommand traces one ray per pixel of Extent.
type TraceRaysCommand struct {
	Extent Extent2D
}

// ClearTextureCommand clears a texture.
type ClearTextureCommand struct {
	Texture Texture
	Color   gputypes.Color
}

// CopyTextureCommand copies Src into Dst.
type CopyTextureCommand struct {
	Src Texture
	Dst Texture
}

// DebugBarrierCommand waits for all prior work.
type DebugBarrierCommand struct{}

// TextureWriteBarrierCommand makes prior writes to Texture visible.
type TextureWriteBarrierCommand struct {
	Texture Texture
}

// EventCommand waits on, resets or signals event Index at Stage.
type EventCommand struct {
	Op    CommandType
	Index uint32
	Stage PipelineStage
}

func (SetRenderStateCommand) Type() CommandType      { return CmdSetRenderState }
func (EndRenderingCommand) Type() CommandType        { return CmdEndRendering }
func (SetComputeStateCommand) Type() CommandType     { return CmdSetComputeState }
func (SetRayTracingStateCommand) Type() CommandType  { return CmdSetRayTracingState }
func (BindSetCommand) Type() CommandType             { return CmdBindSet }
func (PushConstantCommand) Type() CommandType        { return CmdPushConstant }
func (BindVertexBufferCommand) Type() CommandType    { return CmdBindVertexBuffer }
func (BindIndexBufferCommand) Type() CommandType     { return CmdBindIndexBuffer }
func (DrawCommand) Type() CommandType                { return CmdDraw }
func (DrawIndexedCommand) Type() CommandType         { return CmdDrawIndexed }
func (DispatchCommand) Type() CommandType            { return CmdDispatch }
func (TraceRaysCommand) Type() CommandType           { return CmdTraceRays }
func (ClearTextureCommand) Type() CommandType        { return CmdClearTexture }
func (CopyTextureCommand) Type() CommandType         { return CmdCopyTexture }
func (DebugBarrierCommand) Type() CommandType        { return CmdDebugBarrier }
func (TextureWriteBarrierCommand) Type() CommandType { return CmdTextureWriteBarrier }
func (c EventCommand) Type() CommandType             { return c.Op }

// --------------------------------------------------------------------------
// CommandList
// --------------------------------------------------------------------------

type pipelineKind uint8

const (
	pipelineNone pipelineKind = iota
	pipelineRaster
	pipelineCompute
	pipelineRayTracing
)

// CommandList records the commands of one frame.
//
// The first misuse is kept and returned by Err; later commands are still
// recorded so a backend can report the full list when debugging.
//
// CommandList is not safe for concurrent use.
type CommandList struct {
	cmds []Command
	err  error

	pipeline     pipelineKind
	pipelineSets []BindingSet
	rendering    bool
	vertexBound  bool
	indexBound   bool
}

// NewCommandList returns an empty list.
func NewCommandList() *CommandList {
	return &CommandList{cmds: make([]Command, 0, 64)}
}

// Reset clears the list for reuse, keeping its capacity.
func (l *CommandList) Reset() {
	clear(l.cmds)
	l.cmds = l.cmds[:0]
	l.err = nil
	l.pipeline = pipelineNone
	l.pipelineSets = nil
	l.rendering = false
	l.vertexBound = false
	l.indexBound = false
}

// Commands returns the recorded commands. The slice is reused by Reset.
func (l *CommandList) Commands() []Command { return l.cmds }

// Len returns the number of recorded commands.
func (l *CommandList) Len() int { return len(l.cmds) }

// Err returns the first misuse recorded, or nil.
func (l *CommandList) Err() error { return l.err }

// Finish ends an open render pass.
func (l *CommandList) Finish() {
	if l.rendering {
		l.EndRendering()
	}
}

// Fail records err as the list's error unless one is already set. Execute
// functions use it to report failures outside of recording, such as a
// rejected buffer update.
func (l *CommandList) Fail(err error) {
	if l.err == nil && err != nil {
		l.err = err
	}
}

func (l *CommandList) fail(format string, args ...any) {
	if l.err == nil {
		l.err = fmt.Errorf("%w: "+format, append([]any{ErrCommandMisuse}, args...)...)
	}
}

func (l *CommandList) record(c Command) {
	l.cmds = append(l.cmds, c)
}

func (l *CommandList) bindPipeline(kind pipelineKind, sets []BindingSet) {
	if l.rendering {
		l.EndRendering()
	}
	l.pipeline = kind
	l.pipelineSets = sets
	l.vertexBound = false
	l.indexBound = false
}

// SetRenderState binds a raster pipeline and begins rendering into its
// target. An open render pass is ended first.
func (l *CommandList) SetRenderState(state RenderState, clearValue ClearValue) {
	if state == nil {
		l.fail("SetRenderState with nil state")
		return
	}
	l.bindPipeline(pipelineRaster, state.BindingSets())
	l.rendering = true
	l.record(SetRenderStateCommand{State: state, Clear: clearValue})
}

// EndRendering ends the current render pass.
func (l *CommandList) EndRendering() {
	if !l.rendering {
		l.fail("EndRendering outside a render pass")
		return
	}
	l.rendering = false
	l.record(EndRenderingCommand{})
}

// SetComputeState binds a compute pipeline.
func (l *CommandList) SetComputeState(state ComputeState) {
	if state == nil {
		l.fail("SetComputeState with nil state")
		return
	}
	l.bindPipeline(pipelineCompute, state.BindingSets())
	l.record(SetComputeStateCommand{State: state})
}

// SetRayTracingState binds a ray tracing pipeline.
func (l *CommandList) SetRayTracingState(state RayTracingState) {
	if state == nil {
		l.fail("SetRayTracingState with nil state")
		return
	}
	l.bindPipeline(pipelineRayTracing, state.BindingSets())
	l.record(SetRayTracingStateCommand{State: state})
}

// BindSet binds set at index of the current pipeline. The index must be
// within the pipeline's layout.
func (l *CommandList) BindSet(set BindingSet, index uint32) {
	switch {
	case set == nil:
		l.fail("BindSet with nil set")
		return
	case l.pipeline == pipelineNone:
		l.fail("BindSet %d without a pipeline", index)
	case int(index) >= len(l.pipelineSets):
		l.fail("BindSet index %d outside pipeline layout of %d sets", index, len(l.pipelineSets))
	}
	l.record(BindSetCommand{Set: set, Index: index})
}

// PushConstantBytes writes data at offset in the push constant block.
func (l *CommandList) PushConstantBytes(stages ShaderStage, offset uint32, data []byte) {
	if uint64(offset)+uint64(len(data)) > MaxPushConstantSize {
		l.fail("push constant range %d+%d exceeds %d bytes", offset, len(data), MaxPushConstantSize)
		return
	}
	if l.pipeline == pipelineNone {
		l.fail("PushConstant without a pipeline")
	}
	c := PushConstantCommand{Stages: stages, Offset: offset, Size: uint32(len(data))}
	copy(c.Data[:], data)
	l.record(c)
}

// PushConstantUint32 writes v at offset.
func (l *CommandList) PushConstantUint32(stages ShaderStage, offset uint32, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	l.PushConstantBytes(stages, offset, b[:])
}

// PushConstantFloat32 writes v at offset.
func (l *CommandList) PushConstantFloat32(stages ShaderStage, offset uint32, v float32) {
	l.PushConstantUint32(stages, offset, math.Float32bits(v))
}

// PushConstantBool writes v as a 32-bit boolean at offset.
func (l *CommandList) PushConstantBool(stages ShaderStage, offset uint32, v bool) {
	var u uint32
	if v {
		u = 1
	}
	l.PushConstantUint32(stages, offset, u)
}

// BindVertexBuffer binds buf for the next draws.
func (l *CommandList) BindVertexBuffer(buf Buffer) {
	if buf == nil || !buf.Usage().Contains(gputypes.BufferUsageVertex) {
		l.fail("BindVertexBuffer needs a vertex buffer")
		return
	}
	if l.pipeline != pipelineRaster {
		l.fail("BindVertexBuffer without a render state")
	}
	l.vertexBound = true
	l.record(BindVertexBufferCommand{Buffer: buf})
}

// BindIndexBuffer binds buf for the next indexed draws.
func (l *CommandList) BindIndexBuffer(buf Buffer, format gputypes.IndexFormat) {
	if buf == nil || !buf.Usage().Contains(gputypes.BufferUsageIndex) {
		l.fail("BindIndexBuffer needs an index buffer")
		return
	}
	if l.pipeline != pipelineRaster {
		l.fail("BindIndexBuffer without a render state")
	}
	l.indexBound = true
	l.record(BindIndexBufferCommand{Buffer: buf, Format: format})
}

// Draw draws vertexCount vertices. Drawing without a vertex buffer is
// allowed for full screen passes that generate vertices in the shader.
func (l *CommandList) Draw(vertexCount uint32) {
	if !l.rendering {
		l.fail("Draw outside a render pass")
	}
	l.record(DrawCommand{VertexCount: vertexCount})
}

// DrawIndexed draws indexCount indices from the bound index buffer.
func (l *CommandList) DrawIndexed(indexCount uint32) {
	switch {
	case !l.rendering:
		l.fail("DrawIndexed outside a render pass")
	case !l.indexBound:
		l.fail("DrawIndexed without an index buffer")
	}
	l.record(DrawIndexedCommand{IndexCount: indexCount})
}

// Dispatch runs the bound compute state over global invocations in
// workgroups of local size.
func (l *CommandList) Dispatch(global Extent2D, local gputypes.Extent3D) {
	if l.pipeline != pipelineCompute {
		l.fail("Dispatch without a compute state")
	}
	if local.Width == 0 || local.Height == 0 || local.DepthOrArrayLayers == 0 {
		l.fail("Dispatch with empty local size")
		return
	}
	l.record(DispatchCommand{
		GlobalSize: global,
		LocalSize:  local,
		GroupCount: gputypes.Extent3D{
			Width:              ceilDiv(global.Width, local.Width),
			Height:             ceilDiv(global.Height, local.Height),
			DepthOrArrayLayers: 1,
		},
	})
}

// TraceRays traces one ray per pixel of extent with the bound ray tracing
// state.
func (l *CommandList) TraceRays(extent Extent2D) {
	if l.pipeline != pipelineRayTracing {
		l.fail("TraceRays without a ray tracing state")
	}
	l.record(TraceRaysCommand{Extent: extent})
}

// ClearTexture clears tex to color. It must not be used inside a render
// pass.
func (l *CommandList) ClearTexture(tex Texture, color gputypes.Color) {
	if tex == nil {
		l.fail("ClearTexture with nil texture")
		return
	}
	if l.rendering {
		l.fail("ClearTexture inside a render pass")
	}
	l.record(ClearTextureCommand{Texture: tex, Color: color})
}

// CopyTexture copies src into dst. Extents and formats must match.
func (l *CommandList) CopyTexture(src, dst Texture) {
	switch {
	case src == nil || dst == nil:
		l.fail("CopyTexture with nil texture")
		return
	case src.Extent() != dst.Extent():
		l.fail("CopyTexture extent %s into %s", src.Extent(), dst.Extent())
	case src.Format() != dst.Format():
		l.fail("CopyTexture format %s into %s", src.Format(), dst.Format())
	case l.rendering:
		l.fail("CopyTexture inside a render pass")
	}
	l.record(CopyTextureCommand{Src: src, Dst: dst})
}

// DebugBarrier waits for all prior GPU work.
func (l *CommandList) DebugBarrier() {
	l.record(DebugBarrierCommand{})
}

// TextureWriteBarrier makes prior writes to tex visible to later reads.
func (l *CommandList) TextureWriteBarrier(tex Texture) {
	if tex == nil {
		l.fail("TextureWriteBarrier with nil texture")
		return
	}
	l.record(TextureWriteBarrierCommand{Texture: tex})
}

// WaitEvent waits until event index is signalled at stage.
func (l *CommandList) WaitEvent(index uint32, stage PipelineStage) {
	l.record(EventCommand{Op: CmdWaitEvent, Index: index, Stage: stage})
}

// ResetEvent resets event index at stage.
func (l *CommandList) ResetEvent(index uint32, stage PipelineStage) {
	l.record(EventCommand{Op: CmdResetEvent, Index: index, Stage: stage})
}

// SignalEvent signals event index once stage completes.
func (l *CommandList) SignalEvent(index uint32, stage PipelineStage) {
	l.record(EventCommand{Op: CmdSignalEvent, Index: index, Stage: stage})
}

func ceilDiv(a, b uint32) uint32 {
	return (a + b - 1) / b
}
