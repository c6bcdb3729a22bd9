// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu defines the backend contract the frame graph is built on.
//
// The package is deliberately free of any concrete driver. It declares:
//
//   - [Capability]: optional GPU features a backend may report as active
//   - resource handles ([Buffer], [Texture], [RenderTarget], [BindingSet],
//     [RenderState], [BottomLevelAS], [TopLevelAS], [RayTracingState],
//     [ComputeState]), one flat interface per resource kind
//   - descriptions used to create them ([TextureDescription], [Attachment],
//     [ShaderBinding], [RenderStateDescription], [ShaderBindingTable], ...)
//   - [Backend]: the resource factory, capability oracle and frame driver
//   - [CommandList]: the typed command recording handed to node
//     execute functions each frame
//
// Formats, usage flags and fixed-function enums come from
// github.com/gogpu/gputypes so a backend built on gogpu/wgpu can consume
// the descriptions without translation.
//
// # Ownership
//
// Handles returned by a Backend are owned by whoever created them. In a
// frame graph that is always the graph's Registry; nodes only ever hold
// non-owning references and never call Release.
//
// # Recording
//
// A CommandList records typed command structs rather than talking to a
// driver directly:
//
//	cmds.SetComputeState(state)
//	cmds.BindSet(set, 0)
//	cmds.PushConstantFloat32(gpu.ShaderStageCompute, 0, 0.04)
//	cmds.Dispatch(extent, gpu.LocalSize(16, 16))
//
// Misuse (a draw without a render state, a dispatch without a compute
// state) is recorded as the list's error and reported by [CommandList.Err].
package gpu
