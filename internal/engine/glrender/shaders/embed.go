// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// BlinnPhongVertexShader transforms vertices and passes view-space
// position, normal and UV to the fragment stage.
//
//go:embed blinnphong.vert
var BlinnPhongVertexShader string

// BlinnPhongFragmentShader shades one point light with ambient, diffuse
// and specular terms.
//
//go:embed blinnphong.frag
var BlinnPhongFragmentShader string

// LineVertexShader is the vertex shader for bounding box wireframes.
//
//go:embed line.vert
var LineVertexShader string

// LineFragmentShader is the fragment shader for bounding box wireframes.
//
//go:embed line.frag
var LineFragmentShader string
