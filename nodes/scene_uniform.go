// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package nodes

import (
	"golang.org/x/image/math/f32"

	"github.com/gogpu/framegraph"
	"github.com/gogpu/framegraph/gpu"
	"github.com/gogpu/framegraph/scene"
)

// SceneUniform publishes the per frame scene data every other node reads:
// the camera, the sun, the environment parameters and, when the scene
// names one, the environment map.
type SceneUniform struct {
	scene *scene.Scene

	// ControlCamera moves the camera from input each frame.
	ControlCamera bool
}

// NewSceneUniform returns a scene node that controls the camera.
func NewSceneUniform(s *scene.Scene) *SceneUniform {
	return &SceneUniform{scene: s, ControlCamera: true}
}

func (n *SceneUniform) Name() string        { return SceneName }
func (n *SceneUniform) DisplayName() string { return "Scene" }

func (n *SceneUniform) ConstructFrame(reg *framegraph.Registry) (framegraph.ExecuteFunc, error) {
	camera, err := uniformBuffer[cameraUniform](reg)
	if err != nil {
		return nil, err
	}
	light, err := uniformBuffer[directionalLightUniform](reg)
	if err != nil {
		return nil, err
	}
	env, err := uniformBuffer[environmentUniform](reg)
	if err != nil {
		return nil, err
	}
	published := []struct {
		label string
		buf   gpu.Buffer
	}{{"camera", camera}, {"directionalLight", light}, {"environmentData", env}}
	for _, p := range published {
		if err := reg.Publish(p.label, p.buf); err != nil {
			return nil, err
		}
	}

	if n.scene.EnvironmentMap != "" {
		tex, err := reg.LoadTexture2D(n.scene.EnvironmentMap, true, false)
		if err != nil {
			return nil, err
		}
		if err := reg.Publish("environmentMap", tex); err != nil {
			return nil, err
		}
	}

	// Geometry is static, so the shadow volume is fixed at setup.
	lo, hi := n.scene.Bounds()
	center := scene.ScaleVec(scene.Add(lo, hi), 0.5)
	radius := max(scene.Length(scene.Sub(hi, lo))/2, 1)

	return func(frame *framegraph.FrameContext, cmds *gpu.CommandList) {
		s := n.scene
		if n.ControlCamera {
			s.Camera.Update(frame.Input, float32(frame.DeltaTime))
		}
		upload(cmds, camera, newCameraUniform(s.Camera, frame.WindowExtent))
		upload(cmds, light, directionalLightUniform{
			Color:                    vec4(s.Sun.Color, s.Sun.Illuminance),
			WorldDirection:           vec4(scene.Normalize(s.Sun.Direction), 0),
			LightProjectionFromWorld: scene.Transpose(s.Sun.ViewProjection(center, radius)),
		})
		upload(cmds, env, environmentUniform{
			Ambient:    vec4(s.Ambient, 0),
			Multiplier: f32.Vec4{s.EnvironmentMultiplier},
		})
	}, nil
}
