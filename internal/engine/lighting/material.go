package lighting

// Material holds the Blinn-Phong coefficients of a surface.
type Material struct {
	Ambient   Color
	Diffuse   Color
	Specular  Color
	Shininess float32

	// Texture is a path resolved by the texture loader. Empty means the
	// diffuse color is used as is.
	Texture string
}

// HasTexture reports whether the material references a texture.
func (m Material) HasTexture() bool {
	return m.Texture != ""
}
