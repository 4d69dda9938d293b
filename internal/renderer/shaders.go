package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// =============================================================
//
//	Shaders
//
// =============================================================
type Shader struct {
	vertexSource   string
	fragmentSource string
	program        uint32
	isCompiled     bool
	uniforms       *UniformCache
}

func NewShader(vertexSource, fragmentSource string) *Shader {
	return &Shader{vertexSource: vertexSource, fragmentSource: fragmentSource}
}

// Compile builds the program once. It must run on the GL thread.
func (shader *Shader) Compile() error {
	if shader.isCompiled {
		return nil
	}
	vs, err := GenShader(shader.vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return err
	}
	fs, err := GenShader(shader.fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return err
	}
	program, err := GenShaderProgram(vs, fs)
	if err != nil {
		return err
	}
	shader.program = program
	shader.uniforms = NewUniformCache(program)
	shader.isCompiled = true
	return nil
}

func (shader *Shader) Use() {
	gl.UseProgram(shader.program)
}

func (shader *Shader) Delete() {
	if shader.isCompiled {
		gl.DeleteProgram(shader.program)
		shader.isCompiled = false
	}
}

func (shader *Shader) SetVec2(name string, value mgl32.Vec2) {
	shader.uniforms.SetVec2(name, value.X(), value.Y())
}

func (shader *Shader) SetVec3(name string, value mgl32.Vec3) {
	shader.uniforms.SetVec3(name, value.X(), value.Y(), value.Z())
}

func (shader *Shader) SetVec4(name string, value mgl32.Vec4) {
	shader.uniforms.SetVec4(name, value.X(), value.Y(), value.Z(), value.W())
}

func (shader *Shader) SetFloat(name string, value float32) {
	shader.uniforms.SetFloat(name, value)
}

func (shader *Shader) SetInt(name string, value int32) {
	shader.uniforms.SetInt(name, value)
}

func (shader *Shader) SetMat4(name string, value mgl32.Mat4) {
	shader.uniforms.SetMat4(name, value)
}

var sceneVertexSource = `#version 330 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec2 inTexCoord;
layout(location = 2) in vec3 inNormal;

uniform mat4 model;
uniform mat4 viewProjection;

out vec3 Normal;
out vec3 FragPos;

void main() {
    FragPos = vec3(model * vec4(inPosition, 1.0));
    Normal = mat3(transpose(inverse(model))) * inNormal;
    gl_Position = viewProjection * vec4(FragPos, 1.0);
}
` + "\x00"

var sceneFragmentSource = `#version 330 core
in vec3 Normal;
in vec3 FragPos;

uniform vec3 ambientColor;
uniform struct Light {
    vec3 position;
    vec3 direction;
    vec3 color;
    float intensity;
    int isDirectional;
} light;
uniform int hasLight;
uniform vec3 viewPos;
uniform vec3 diffuseColor;
uniform vec3 specularColor;
uniform float shininess;

out vec4 FragColor;

void main() {
    vec3 norm = normalize(Normal);
    vec3 color = ambientColor * diffuseColor;
    if (hasLight == 1) {
        vec3 lightDir = light.isDirectional == 1 ? normalize(-light.direction) : normalize(light.position - FragPos);
        float diff = max(dot(norm, lightDir), 0.0);
        vec3 viewDir = normalize(viewPos - FragPos);
        vec3 halfway = normalize(lightDir + viewDir);
        float spec = pow(max(dot(norm, halfway), 0.0), shininess);
        color += light.color * light.intensity * (diff * diffuseColor + 0.25 * spec * specularColor);
    }
    FragColor = vec4(color, 1.0);
}
` + "\x00"

// Mask shader writes a flat color; the outline pass uses it to mark the
// selected silhouette (green) and its depth-tested visible part (red).
var maskFragmentSource = `#version 330 core
uniform vec4 maskColor;
out vec4 FragColor;
void main() {
    FragColor = maskColor;
}
` + "\x00"

var fullscreenVertexSource = `#version 330 core
layout(location = 0) in vec2 inPosition;
out vec2 vUv;
void main() {
    vUv = inPosition * 0.5 + 0.5;
    gl_Position = vec4(inPosition, 0.0, 1.0);
}
` + "\x00"

var copyFragmentSource = `#version 330 core
in vec2 vUv;
uniform sampler2D tDiffuse;
out vec4 FragColor;
void main() {
    FragColor = texture(tDiffuse, vUv);
}
` + "\x00"

var edgeFragmentSource = `#version 330 core
in vec2 vUv;
uniform sampler2D tDiffuse;
uniform sampler2D tMask;
uniform vec2 texelSize;
uniform float edgeStrength;
uniform float edgeThickness;
uniform float edgeGlow;
uniform vec3 visibleEdgeColor;
uniform vec3 hiddenEdgeColor;
out vec4 FragColor;

void main() {
    vec4 base = texture(tDiffuse, vUv);
    vec4 center = texture(tMask, vUv);
    int radius = int(ceil(edgeThickness + edgeGlow));
    float silhouette = 0.0;
    float visible = 0.0;
    for (int x = -radius; x <= radius; x++) {
        for (int y = -radius; y <= radius; y++) {
            vec2 offset = vec2(float(x), float(y));
            if (length(offset) > edgeThickness + edgeGlow) {
                continue;
            }
            vec4 m = texture(tMask, vUv + offset * texelSize);
            silhouette = max(silhouette, m.g);
            visible = max(visible, m.r);
        }
    }
    float edge = silhouette * (1.0 - center.g);
    vec3 edgeColor = mix(hiddenEdgeColor, visibleEdgeColor, visible);
    FragColor = vec4(base.rgb + edgeColor * edge * edgeStrength, base.a);
    FragColor.rgb = min(FragColor.rgb, vec3(1.0));
}
` + "\x00"

var outputFragmentSource = `#version 330 core
in vec2 vUv;
uniform sampler2D tDiffuse;
out vec4 FragColor;

vec3 linearToSRGB(vec3 c) {
    return mix(c * 12.92, 1.055 * pow(c, vec3(1.0 / 2.4)) - 0.055, step(vec3(0.0031308), c));
}

void main() {
    vec4 c = texture(tDiffuse, vUv);
    FragColor = vec4(linearToSRGB(c.rgb), c.a);
}
` + "\x00"

// FXAA, the console variant: luma edge detection along two diagonals.
var fxaaFragmentSource = `#version 330 core
in vec2 vUv;
uniform sampler2D tDiffuse;
uniform vec2 resolution;
out vec4 FragColor;

#define FXAA_REDUCE_MIN (1.0 / 128.0)
#define FXAA_REDUCE_MUL (1.0 / 8.0)
#define FXAA_SPAN_MAX 8.0

void main() {
    vec3 rgbNW = texture(tDiffuse, vUv + vec2(-1.0, -1.0) * resolution).rgb;
    vec3 rgbNE = texture(tDiffuse, vUv + vec2(1.0, -1.0) * resolution).rgb;
    vec3 rgbSW = texture(tDiffuse, vUv + vec2(-1.0, 1.0) * resolution).rgb;
    vec3 rgbSE = texture(tDiffuse, vUv + vec2(1.0, 1.0) * resolution).rgb;
    vec4 rgbaM = texture(tDiffuse, vUv);
    vec3 rgbM = rgbaM.rgb;
    vec3 luma = vec3(0.299, 0.587, 0.114);

    float lumaNW = dot(rgbNW, luma);
    float lumaNE = dot(rgbNE, luma);
    float lumaSW = dot(rgbSW, luma);
    float lumaSE = dot(rgbSE, luma);
    float lumaM = dot(rgbM, luma);
    float lumaMin = min(lumaM, min(min(lumaNW, lumaNE), min(lumaSW, lumaSE)));
    float lumaMax = max(lumaM, max(max(lumaNW, lumaNE), max(lumaSW, lumaSE)));

    vec2 dir;
    dir.x = -((lumaNW + lumaNE) - (lumaSW + lumaSE));
    dir.y = ((lumaNW + lumaSW) - (lumaNE + lumaSE));

    float dirReduce = max((lumaNW + lumaNE + lumaSW + lumaSE) * (0.25 * FXAA_REDUCE_MUL), FXAA_REDUCE_MIN);
    float rcpDirMin = 1.0 / (min(abs(dir.x), abs(dir.y)) + dirReduce);
    dir = min(vec2(FXAA_SPAN_MAX), max(vec2(-FXAA_SPAN_MAX), dir * rcpDirMin)) * resolution;

    vec3 rgbA = 0.5 * (
        texture(tDiffuse, vUv + dir * (1.0 / 3.0 - 0.5)).rgb +
        texture(tDiffuse, vUv + dir * (2.0 / 3.0 - 0.5)).rgb);
    vec3 rgbB = rgbA * 0.5 + 0.25 * (
        texture(tDiffuse, vUv + dir * -0.5).rgb +
        texture(tDiffuse, vUv + dir * 0.5).rgb);

    float lumaB = dot(rgbB, luma);
    if (lumaB < lumaMin || lumaB > lumaMax) {
        FragColor = vec4(rgbA, rgbaM.a);
    } else {
        FragColor = vec4(rgbB, rgbaM.a);
    }
}
` + "\x00"

// Screen-space quads for panels and the fade overlay. Rect is in pixels
// with a top-left origin.
var overlayVertexSource = `#version 330 core
layout(location = 0) in vec2 inPosition;
uniform vec4 rect;
uniform vec2 screen;
out vec2 vUv;
void main() {
    vec2 unit = inPosition * 0.5 + 0.5;
    vUv = vec2(unit.x, 1.0 - unit.y);
    vec2 pixel = rect.xy + vec2(unit.x, 1.0 - unit.y) * rect.zw;
    vec2 ndc = vec2(pixel.x / screen.x * 2.0 - 1.0, 1.0 - pixel.y / screen.y * 2.0);
    gl_Position = vec4(ndc, 0.0, 1.0);
}
` + "\x00"

var overlayFragmentSource = `#version 330 core
in vec2 vUv;
uniform sampler2D tDiffuse;
uniform int useTexture;
uniform vec4 color;
out vec4 FragColor;
void main() {
    if (useTexture == 1) {
        FragColor = texture(tDiffuse, vUv) * color;
    } else {
        FragColor = color;
    }
}
` + "\x00"
