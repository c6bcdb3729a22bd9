// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/nodes"
)

const testPipeline = `
scene  = "box.yaml"
frames = 5

window {
  width  = 64
  height = 32
}

node "scene" {}
node "shadow-map" {
  resolution = 128
}
node "forward" {}
node "bloom" {
  enabled = var.bloom
}
node "final" {}
`

const testScene = `
models:
  - name: box
    mesh: cube
`

func writePipeline(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, data := range map[string]string{"pipeline.hcl": testPipeline, "box.yaml": testScene} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return filepath.Join(dir, "pipeline.hcl")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	err := app.Run(append([]string{"framegraph"}, args...))
	return out.String(), err
}

func TestRender(t *testing.T) {
	path := writePipeline(t)
	out, err := run(t, "render", "--frames", "2", "--var", "bloom=true", path)
	if err != nil {
		t.Fatalf("render error = %v\n%s", err, out)
	}
	for _, want := range []string{"rendered 2 frames", "SetRenderState", "Dispatch", "TOTAL"} {
		if !strings.Contains(out, want) {
			t.Errorf("render output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderErrors(t *testing.T) {
	path := writePipeline(t)
	tests := []struct {
		name string
		args []string
	}{
		{"no file", []string{"render"}},
		{"missing file", []string{"render", filepath.Join(t.TempDir(), "nope.hcl")}},
		{"bad var", []string{"render", "--var", "bloom", path}},
		{"undefined var", []string{"render", path}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.args...); err == nil {
				t.Errorf("run(%v) error = nil, want error", tt.args)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	path := writePipeline(t)
	out, err := run(t, "validate", "--var", "bloom=false", path)
	if err != nil {
		t.Fatalf("validate error = %v\n%s", err, out)
	}
	for _, want := range []string{"Shadow Mapping", "directional", "color, depth", "5 nodes"} {
		if !strings.Contains(out, want) {
			t.Errorf("validate output missing %q:\n%s", want, out)
		}
	}
}

func TestCapabilities(t *testing.T) {
	out, err := run(t, "capabilities")
	if err != nil {
		t.Fatalf("capabilities error = %v", err)
	}
	for _, want := range []string{"backend: headless", "adapter: Headless", "RtxRayTracing", "Shader16BitFloat"} {
		if !strings.Contains(out, want) {
			t.Errorf("capabilities output missing %q:\n%s", want, out)
		}
	}
	if _, err := run(t, "capabilities", "--backend", "metal"); err == nil {
		t.Errorf("capabilities --backend metal error = nil, want error")
	}
}

func TestGlobalFlags(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"--help"}, "render"},
		{[]string{"--version"}, "0.1.0"},
		{[]string{"-v", "capabilities"}, "backend: headless"},
		{[]string{"-vv", "capabilities"}, "backend: headless"},
	}
	for _, tt := range tests {
		out, err := run(t, tt.args...)
		if err != nil {
			t.Errorf("run(%v) error = %v", tt.args, err)
			continue
		}
		if !strings.Contains(out, tt.want) {
			t.Errorf("run(%v) output missing %q:\n%s", tt.args, tt.want, out)
		}
	}
}

func TestParseVars(t *testing.T) {
	vars, err := parseVars([]string{"samples=16", "name=a=b"})
	if err != nil {
		t.Fatalf("parseVars() error = %v", err)
	}
	if vars["samples"] != "16" || vars["name"] != "a=b" {
		t.Errorf("parseVars() = %v", vars)
	}
	if _, err := parseVars([]string{"=1"}); err == nil {
		t.Errorf("parseVars(=1) error = nil, want error")
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		node framegraph.Node
		want string
	}{
		{nodes.NewBloom(), "Bloom"},
		{nodes.NewFinal(), "Final"},
		{framegraph.NodeFunc{NodeName: "tone-map"}, "Tone Map"},
	}
	for _, tt := range tests {
		if got := displayName(tt.node); got != tt.want {
			t.Errorf("displayName(%s) = %q, want %q", tt.node.Name(), got, tt.want)
		}
	}
}
