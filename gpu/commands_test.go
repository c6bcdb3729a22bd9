// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestCommandTypeString(t *testing.T) {
	tests := []struct {
		c    CommandType
		want string
	}{
		{CmdSetRenderState, "SetRenderState"},
		{CmdDispatch, "Dispatch"},
		{CmdTraceRays, "TraceRays"},
		{CmdSignalEvent, "SignalEvent"},
		{CommandType(255), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("CommandType(%d).String() = %q, want %q", tt.c, got, tt.want)
		}
	}
}

func TestCommandListComputeSequence(t *testing.T) {
	set := &testSet{}
	state := &testPipeline{kind: KindComputeState, sets: []BindingSet{set}}

	l := NewCommandList()
	l.SetComputeState(state)
	l.BindSet(set, 0)
	l.PushConstantFloat32(ShaderStageCompute, 0, 0.04)
	l.Dispatch(Extent2D{Width: 100, Height: 33}, LocalSize(16, 16))

	if err := l.Err(); err != nil {
		t.Fatalf("Err() = %v, want nil", err)
	}
	want := []CommandType{CmdSetComputeState, CmdBindSet, CmdPushConstant, CmdDispatch}
	if l.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", l.Len(), len(want))
	}
	for i, c := range l.Commands() {
		if c.Type() != want[i] {
			t.Errorf("command %d = %v, want %v", i, c.Type(), want[i])
		}
	}

	pc := l.Commands()[2].(PushConstantCommand)
	if got := math.Float32frombits(binary.LittleEndian.Uint32(pc.Bytes())); got != 0.04 {
		t.Errorf("push constant = %v, want 0.04", got)
	}
	d := l.Commands()[3].(DispatchCommand)
	if d.GroupCount.Width != 7 || d.GroupCount.Height != 3 || d.GroupCount.DepthOrArrayLayers != 1 {
		t.Errorf("GroupCount = %+v, want 7x3x1", d.GroupCount)
	}
}

func TestCommandListMisuse(t *testing.T) {
	tex := newColorTexture(8, 8)
	set := &testSet{}
	compute := &testPipeline{kind: KindComputeState, sets: []BindingSet{set}}
	raster := &testPipeline{kind: KindRenderState}

	tests := []struct {
		name   string
		record func(l *CommandList)
	}{
		{"draw outside pass", func(l *CommandList) { l.Draw(3) }},
		{"dispatch without compute", func(l *CommandList) { l.Dispatch(Extent2D{Width: 8, Height: 8}, LocalSize(8, 8)) }},
		{"trace rays without rt state", func(l *CommandList) {
			l.SetComputeState(compute)
			l.TraceRays(Extent2D{Width: 8, Height: 8})
		}},
		{"bind set outside layout", func(l *CommandList) {
			l.SetComputeState(compute)
			l.BindSet(set, 1)
		}},
		{"bind set without pipeline", func(l *CommandList) { l.BindSet(set, 0) }},
		{"draw indexed without index buffer", func(l *CommandList) {
			l.SetRenderState(raster, DefaultClearValue())
			l.DrawIndexed(6)
		}},
		{"clear inside pass", func(l *CommandList) {
			l.SetRenderState(raster, DefaultClearValue())
			l.ClearTexture(tex, gputypes.ColorBlack)
		}},
		{"copy mismatched extents", func(l *CommandList) { l.CopyTexture(tex, newColorTexture(4, 4)) }},
		{"push constant overflow", func(l *CommandList) {
			l.SetComputeState(compute)
			l.PushConstantBytes(ShaderStageCompute, MaxPushConstantSize-2, make([]byte, 4))
		}},
		{"end rendering twice", func(l *CommandList) {
			l.SetRenderState(raster, DefaultClearValue())
			l.EndRendering()
			l.EndRendering()
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewCommandList()
			tt.record(l)
			if !errors.Is(l.Err(), ErrCommandMisuse) {
				t.Errorf("Err() = %v, want ErrCommandMisuse", l.Err())
			}
		})
	}
}

func TestCommandListPipelineSwitchEndsPass(t *testing.T) {
	raster := &testPipeline{kind: KindRenderState}
	compute := &testPipeline{kind: KindComputeState}

	l := NewCommandList()
	l.SetRenderState(raster, DefaultClearValue())
	l.Draw(3)
	l.SetComputeState(compute)

	want := []CommandType{CmdSetRenderState, CmdDraw, CmdEndRendering, CmdSetComputeState}
	if l.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", l.Len(), len(want))
	}
	for i, c := range l.Commands() {
		if c.Type() != want[i] {
			t.Errorf("command %d = %v, want %v", i, c.Type(), want[i])
		}
	}
	if l.Err() != nil {
		t.Errorf("Err() = %v, want nil", l.Err())
	}
}

func TestCommandListReset(t *testing.T) {
	l := NewCommandList()
	l.Draw(3)
	if l.Err() == nil {
		t.Fatal("Err() = nil after draw outside pass")
	}
	l.Reset()
	if l.Len() != 0 || l.Err() != nil {
		t.Errorf("after Reset: Len() = %d, Err() = %v, want 0, nil", l.Len(), l.Err())
	}
}

func TestCommandListEvents(t *testing.T) {
	l := NewCommandList()
	l.WaitEvent(0, PipelineStageHost)
	l.ResetEvent(0, PipelineStageRayTracing)
	l.SignalEvent(0, PipelineStageRayTracing)

	want := []CommandType{CmdWaitEvent, CmdResetEvent, CmdSignalEvent}
	for i, c := range l.Commands() {
		if c.Type() != want[i] {
			t.Errorf("command %d = %v, want %v", i, c.Type(), want[i])
		}
	}
	if ev := l.Commands()[0].(EventCommand); ev.Stage != PipelineStageHost {
		t.Errorf("wait stage = %v, want Host", ev.Stage)
	}
}

func TestCommandListFinish(t *testing.T) {
	l := NewCommandList()
	l.SetRenderState(&testPipeline{kind: KindRenderState}, DefaultClearValue())
	l.Finish()
	if last := l.Commands()[l.Len()-1]; last.Type() != CmdEndRendering {
		t.Errorf("last command = %v, want EndRendering", last.Type())
	}
}

func TestCommandListFail(t *testing.T) {
	l := NewCommandList()
	first := errors.New("upload failed")
	l.Fail(nil)
	if l.Err() != nil {
		t.Fatalf("Fail(nil) set Err() = %v", l.Err())
	}
	l.Fail(first)
	l.Fail(errors.New("second"))
	if l.Err() != first {
		t.Errorf("Err() = %v, want %v", l.Err(), first)
	}
	l.Reset()
	if l.Err() != nil {
		t.Errorf("Err() after Reset = %v, want nil", l.Err())
	}
}
