// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package scene

// Model is a group of meshes sharing one transform.
//
// Proxy optionally holds a cheaper stand-in used by ray traced effects
// that do not need full detail. It shares the model's transform.
type Model struct {
	Name      string
	Meshes    []*Mesh
	Transform Transform
	Proxy     *Model
}

// NewModel returns a model owning meshes. Each mesh transform is parented
// to the model transform.
func NewModel(name string, t Transform, meshes ...*Mesh) *Model {
	m := &Model{Name: name, Transform: t}
	for _, mesh := range meshes {
		m.AddMesh(mesh)
	}
	return m
}

// AddMesh appends mesh and parents its transform to the model.
func (m *Model) AddMesh(mesh *Mesh) {
	mesh.Transform.Parent = &m.Transform
	if mesh.Material == nil {
		mesh.Material = DefaultMaterial()
	}
	m.Meshes = append(m.Meshes, mesh)
}

// SetProxy installs proxy as the model's stand-in. The proxy transform is
// parented to the model.
func (m *Model) SetProxy(proxy *Model) {
	if proxy != nil {
		proxy.Transform.Parent = &m.Transform
	}
	m.Proxy = proxy
}

// ProxyOrSelf returns the proxy, or m when it has none.
func (m *Model) ProxyOrSelf() *Model {
	if m.Proxy != nil {
		return m.Proxy
	}
	return m
}
