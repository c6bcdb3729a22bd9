// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

import (
	"encoding/binary"
	"testing"

	"github.com/gogpu/gpucontext"
	"golang.org/x/image/math/f32"

	"github.com/gogpu/framegraph/input"
)

func TestVertexLayoutMatchesStruct(t *testing.T) {
	size := binary.Size(Vertex{})
	if size != 48 {
		t.Fatalf("binary.Size(Vertex{}) = %d, want 48", size)
	}
	layout := VertexLayout()
	if layout.Stride != uint64(size) {
		t.Errorf("VertexLayout().Stride = %d, want %d", layout.Stride, size)
	}
	offsets := []uint64{0, 12, 24, 32}
	for i, a := range layout.Attributes {
		if a.Offset != offsets[i] {
			t.Errorf("attribute %d offset = %d, want %d", i, a.Offset, offsets[i])
		}
	}
}

func TestPrimitives(t *testing.T) {
	tests := []struct {
		name     string
		mesh     *Mesh
		vertices int
		indices  int
	}{
		{"cube", Cube(2), 24, 36},
		{"plane", Plane(10), 4, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.mesh.Validate(); err != nil {
				t.Fatalf("Validate() = %v", err)
			}
			if got := tt.mesh.VertexCount(); got != tt.vertices {
				t.Errorf("VertexCount() = %d, want %d", got, tt.vertices)
			}
			if got := len(tt.mesh.Indices); got != tt.indices {
				t.Errorf("len(Indices) = %d, want %d", got, tt.indices)
			}
			// Triangles wind counter clockwise around their normal.
			for i := 0; i < len(tt.mesh.Indices); i += 3 {
				a := tt.mesh.Positions[tt.mesh.Indices[i]]
				b := tt.mesh.Positions[tt.mesh.Indices[i+1]]
				c := tt.mesh.Positions[tt.mesh.Indices[i+2]]
				n := Cross(Sub(b, a), Sub(c, a))
				if Dot(n, tt.mesh.Normals[tt.mesh.Indices[i]]) <= 0 {
					t.Fatalf("triangle %d winds against its normal", i/3)
				}
			}
		})
	}
}

func TestCubeBounds(t *testing.T) {
	lo, hi := Cube(2).Bounds()
	if !vecNear(lo, f32.Vec3{-1, -1, -1}) || !vecNear(hi, f32.Vec3{1, 1, 1}) {
		t.Errorf("Bounds() = %v, %v, want ±1", lo, hi)
	}
}

func TestMeshValidate(t *testing.T) {
	m := Plane(1)
	m.Indices[0] = 99
	if err := m.Validate(); err == nil {
		t.Error("Validate() with out of range index = nil, want error")
	}
	m = Plane(1)
	m.Normals = m.Normals[:2]
	if err := m.Validate(); err == nil {
		t.Error("Validate() with short normals = nil, want error")
	}
}

func TestModelTransformHierarchy(t *testing.T) {
	model := NewModel("box", TRS(f32.Vec3{10, 0, 0}, 0, f32.Vec3{1, 1, 1}), Cube(2))
	mesh := model.Meshes[0]
	if mesh.Material == nil {
		t.Fatal("AddMesh() left material nil")
	}
	got := TransformPoint(mesh.Transform.World(), f32.Vec3{})
	if !vecNear(got, f32.Vec3{10, 0, 0}) {
		t.Errorf("mesh origin in world = %v, want (10 0 0)", got)
	}

	// Moving the model moves its meshes.
	model.Transform.Local = Translation(f32.Vec3{0, 5, 0})
	got = TransformPoint(mesh.Transform.World(), f32.Vec3{})
	if !vecNear(got, f32.Vec3{0, 5, 0}) {
		t.Errorf("mesh origin after move = %v, want (0 5 0)", got)
	}
}

func TestForEachMesh(t *testing.T) {
	s := New()
	s.AddModel(NewModel("a", NewTransform(), Cube(1), Plane(1)))
	s.AddModel(NewModel("b", NewTransform(), Cube(1)))

	var indices []int
	s.ForEachMesh(func(i int, _ *Mesh) { indices = append(indices, i) })
	if len(indices) != 3 || indices[2] != 2 {
		t.Errorf("ForEachMesh indices = %v, want [0 1 2]", indices)
	}
	if got := s.MeshCount(); got != 3 {
		t.Errorf("MeshCount() = %d, want 3", got)
	}
	if got := len(s.Materials()); got != 3 {
		t.Errorf("len(Materials()) = %d, want 3 default materials", got)
	}
}

func TestCameraDidModify(t *testing.T) {
	c := NewCamera(f32.Vec3{})
	v := c.Version()
	if c.DidModify(v) {
		t.Fatal("DidModify() = true before any change")
	}
	c.SetPosition(f32.Vec3{})
	if c.DidModify(v) {
		t.Error("DidModify() = true after setting the same position")
	}
	c.SetPosition(f32.Vec3{1, 0, 0})
	if !c.DidModify(v) {
		t.Error("DidModify() = false after moving")
	}
}

func TestCameraUpdate(t *testing.T) {
	c := NewCamera(f32.Vec3{})
	in := input.NewState()

	if c.Update(in, 1) {
		t.Error("Update() without input = true, want false")
	}

	in.KeyPress(gpucontext.KeyW, 0)
	if !c.Update(in, 0.5) {
		t.Fatal("Update() with W held = false, want true")
	}
	want := f32.Vec3{0, 0, -c.MoveSpeed * 0.5}
	if got := c.Position(); !vecNear(got, want) {
		t.Errorf("Position() = %v, want %v", got, want)
	}
	in.KeyRelease(gpucontext.KeyW, 0)

	in.MouseButton(gpucontext.MouseButtonRight, true, 0, 0)
	in.MouseMove(10, 0)
	c.Update(in, 0)
	if got, want := c.Yaw(), -10*c.LookSpeed; !near(got, want) {
		t.Errorf("Yaw() = %v, want %v", got, want)
	}
}

func TestCameraPitchClamped(t *testing.T) {
	c := NewCamera(f32.Vec3{})
	c.SetOrientation(0, 10)
	if c.Pitch() >= Radians(90) {
		t.Errorf("Pitch() = %v, want below 90°", c.Pitch())
	}
}

func TestSunViewProjection(t *testing.T) {
	sun := DirectionalLight{Direction: f32.Vec3{0, -1, 0}}
	vp := sun.ViewProjection(f32.Vec3{}, 10)
	// The center lands in the middle of the shadow map, halfway in depth.
	got := TransformPoint(vp, f32.Vec3{})
	if !vecNear(got, f32.Vec3{0, 0, 0.5}) {
		t.Errorf("center in light clip space = %v, want (0 0 0.5)", got)
	}
}
