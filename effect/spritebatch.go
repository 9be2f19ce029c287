package effect

import (
	"github.com/db47h/sprite/gpu"
	"github.com/pkg/errors"
)

// SpriteBatch is the name of the built-in technique used by the sprite batcher.
// It draws textured, vertex-colored quads with a single pass and does not
// override any state.
//
const SpriteBatch = "SpriteBatch"

// TransformUniform is the name of the mat4 uniform receiving the effect
// transform.
//
const TransformUniform = "uTransform"

func init() {
	Register(SpriteBatch, newSpriteBatch)
}

var spriteVertexShader = []byte(`#version 330 core
layout(location = 0) in vec3 aPosition;
layout(location = 1) in vec4 aColor;
layout(location = 2) in vec2 aTexCoords;

out vec4 vColor;
out vec2 vTexCoords;

uniform mat4 uTransform;

void main()
{
	gl_Position = uTransform * vec4(aPosition, 1.0);
	vColor = aColor;
	vTexCoords = aTexCoords;
}
`)

var spriteFragmentShader = []byte(`#version 330 core
in vec4 vColor;
in vec2 vTexCoords;

out vec4 fragColor;

uniform sampler2D uTexture;

void main()
{
	fragColor = vColor * texture(uTexture, vTexCoords);
}
`)

func newSpriteBatch(dev gpu.Device, params *Parameters) (*Technique, error) {
	prog, err := dev.CreateProgram(spriteVertexShader, spriteFragmentShader)
	if err != nil {
		return nil, errors.Wrap(err, "sprite program")
	}
	var uploaded uint64
	bind := func(dev gpu.Device) error {
		if err := dev.UseProgram(prog); err != nil {
			return err
		}
		if v := params.Version(); v != uploaded {
			m := params.Transform()
			if err := dev.SetUniformMatrix(prog, TransformUniform, &m); err != nil {
				return err
			}
			uploaded = v
		}
		return nil
	}
	return &Technique{
		Name:      SpriteBatch,
		Passes:    []*Pass{{Name: "Sprite", Bind: bind}},
		Resources: []gpu.Releaser{prog},
	}, nil
}
