package renderer

// Uniforms the cube shaders must declare.
//
//	uniform mat4 u_Model;       // set once at startup
//	uniform mat4 u_View;        // per frame
//	uniform mat4 u_Projection;  // per frame
//	uniform sampler2D u_Texture;
const (
	UniformModel      = "u_Model"
	UniformView       = "u_View"
	UniformProjection = "u_Projection"
	UniformTexture    = "u_Texture"
)

// TextureUnit is the unit the cube texture is bound to.
const TextureUnit = 0
