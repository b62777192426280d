package app

// All material shaders share one vertex stage that hands the view-space
// normal to the fragment stage.
const vertexShader = `#version 330
in vec3 vertexPosition;
in vec3 vertexNormal;

uniform mat4 mvp;
uniform mat4 matView;
uniform mat4 matNormal;

out vec3 fragNormal;

void main() {
    vec3 worldNormal = normalize(mat3(matNormal) * vertexNormal);
    fragNormal = normalize(mat3(matView) * worldNormal);
    gl_Position = mvp * vec4(vertexPosition, 1.0);
}
`

// texture0 is the matcap image; its first row is the top of the sphere
const matcapFragmentShader = `#version 330
in vec3 fragNormal;

uniform sampler2D texture0;

out vec4 finalColor;

void main() {
    vec3 n = normalize(fragNormal);
    vec2 uv = n.xy * 0.495 + 0.5;
    finalColor = vec4(texture(texture0, vec2(uv.x, 1.0 - uv.y)).rgb, 1.0);
}
`

const normalFragmentShader = `#version 330
in vec3 fragNormal;

out vec4 finalColor;

void main() {
    finalColor = vec4(normalize(fragNormal) * 0.5 + 0.5, 1.0);
}
`

const depthFragmentShader = `#version 330
in vec3 fragNormal;

out vec4 finalColor;

void main() {
    finalColor = vec4(vec3(1.0 - gl_FragCoord.z), 1.0);
}
`
