// Package shader composes the fragment program text at startup. The source
// is assembled from a fixed header, a generated per-segment blend section
// and a fixed footer; once composed it never changes.
package shader

import (
	"fmt"
	"strings"
)

// VertexSource returns the pass-through vertex shader for the panel quads.
func VertexSource() string {
	return `#version 330 core
layout(location = 0) in vec3 pos;
layout(location = 1) in vec2 coord;
out vec2 fragCoord;

void main() {
    fragCoord = coord;
    gl_Position = vec4(pos, 1.0);
}
`
}

const fragmentHeader = `#version 330 core
const int SEGMENTS = %d;
uniform float heatLevel;
uniform float segment[SEGMENTS];
uniform float age;
uniform float time;
uniform int geom;
uniform vec3 bgColor;
uniform vec3 elementColor;
uniform float width;   // 0..100
uniform float percent; // 0..1
in vec2 fragCoord;
out vec4 outColor;

// Unified wobble term shared by every shape.
float getWobble(vec2 uv) {
    return (sin(normalize(uv).y * 5.0 + time * 2.0) - sin(normalize(uv).x * 5.0 + time * 2.0)) / 100.0;
}

float ring(vec2 uv, float w0, float w, float segf) {
    float f = length(uv) + getWobble(uv);
    float ww = w + w * segf * 0.1;
    return smoothstep(w0 - ww, w0, f) - smoothstep(w0, w0 + ww, f);
}

float sdBox(vec2 p, float b, float w, float segf) {
    float wobble = (geom == 2) ? getWobble(p) : 0.0;
    vec2 d = abs(p) - b;
    float f = length(max(d, 0.0)) + min(max(d.x, d.y), 0.0) + wobble;
    float ww = w + w * segf * 0.1;
    return smoothstep(ww, 0.0, abs(f));
}

float triangle(vec2 p, float r, float w, float segf) {
    const float k = sqrt(3.0);
    float wobble = (geom == 3) ? getWobble(p) : 0.0;
    p.x = abs(p.x) - r;
    p.y = p.y + r / k;
    if (p.x + k * p.y > 0.0) p = vec2(p.x - k * p.y, -k * p.x - p.y) / 2.0;
    p.x -= clamp(p.x, -2.0 * r, 0.0);
    float f = -length(p) * sign(p.y) + wobble;
    float ww = w + w * segf * 0.1;
    return smoothstep(ww, 0.0, abs(f));
}

// Arc coverage mask with feathered ends. Full coverage returns 1.0
// outright so the ring closes without a seam.
float arcMask(vec2 uv, float pct) {
    if (pct >= 0.99) return 1.0;
    float angle = (atan(uv.y, uv.x) + 3.14159265) / 6.28318530;
    float feather = 0.03;
    float startRamp = smoothstep(0.0, feather, angle);
    float endRamp = smoothstep(pct + feather, pct - feather, angle);
    return startRamp * endRamp;
}

void main() {
    vec2 coords = fragCoord.xy * 0.5;
    float phi = (atan(coords.y, coords.x) + 3.14159) / 3.14159 * float(SEGMENTS) * 0.5;
    float segmentf = 0.0;
`

const fragmentFooter = `
    // Procedural shimmer background, tinted by bgColor.
    vec2 p = fragCoord.xy * 0.5 * 10.0 - vec2(19.0);
    vec2 i = p;
    float c = 1.0;
    float inten = 0.05;
    for (int n = 0; n < 8; n++) {
        float tn = time * (0.7 - (0.2 / float(n + 1)));
        i = p + vec2(cos(tn - i.x) + sin(tn + i.y), sin(tn - i.y) + cos(tn + i.x));
        c += 1.0 / length(vec2(p.x / (2.0 * sin(i.x + tn) / inten), p.y / (cos(i.y + tn) / inten)));
    }
    c /= 8.0;
    c = 1.5 - sqrt(c * c);

    float shift = (coords.x + coords.y + sin(time * 0.5)) * 0.5;
    vec3 shimmerColor = vec3(
        bgColor.r + (sin(shift * 3.14) * 0.10),
        bgColor.g + (cos(shift * 3.14) * 0.10),
        bgColor.b + (sin(shift * 6.28) * 0.10)
    );

    // Blue/teal backgrounds keep the original horizontal green shift.
    if (bgColor.b > 0.5 && bgColor.r < 0.3) {
        shimmerColor.g = clamp(coords.x + 0.4, 0.0, 1.0) * 1.1;
        shimmerColor.b *= 0.8;
    }

    vec3 background = shimmerColor * c * c * c * c;

    float pmask = arcMask(coords, percent);

    // Commanded thickness blends with the always-visible thin base along
    // the arc mask; wobble perturbs only the active part.
    float widthActive = mix(0.003, 0.08, clamp(width / 100.0, 0.0, 1.0));
    float widthInactive = 0.01;
    float baseWidth = mix(widthInactive, widthActive, pmask);
    float activeWobble = segmentf * pmask;

    float shape = 0.0;
    if (geom == 0) {
        shape = ring(coords, 0.25, baseWidth, activeWobble);
    } else if (geom == 1) {
        // Filled disc: width softens the edge, and the disc is hidden
        // outside the arc instead of thinning to a base line.
        float r0 = 0.25;
        float edge = mix(0.01, 0.08, clamp(width / 100.0, 0.0, 1.0));
        shape = (1.0 - smoothstep(r0 - edge, r0 + edge, length(coords) + getWobble(coords))) * pmask;
    } else if (geom == 2) {
        shape = sdBox(coords, 0.22, baseWidth, activeWobble);
    } else if (geom == 3) {
        shape = triangle(coords, 0.25, baseWidth, activeWobble);
    } else if (geom == 4) {
        vec2 d = abs(coords);
        float dist = abs(d.x - d.y) + getWobble(coords) * pmask;
        float w = baseWidth + baseWidth * activeWobble * 0.1;
        shape = ((dist < w && length(coords) < 0.3) ? 1.0 : 0.0);
    }

    // The element alpha-blends over the background rather than
    // multiplying, so it always reads as its pure color in front.
    // The signal-loss fade desaturates the background only: the gray mix
    // runs before the element is composed back on top.
    vec3 grayBg = vec3(dot(vec3(0.3, 0.59, 0.11), background));
    vec3 fadedBg = mix(background, grayBg, smoothstep(GRAY_START, GRAY_END, age));
    vec3 finalColor = mix(fadedBg, elementColor, clamp(shape, 0.0, 1.0));

    outColor = vec4(finalColor, 1.0);
}
`

// FragmentSource composes the full fragment shader for the given segment
// count and gray-fade timing. For each segment the angular distance to the
// fragment angle is taken in circular (wrap-around) space; linear distance
// would leave a visible seam of alternating thick/thin artifacts where the
// segment index wraps.
func FragmentSource(segments int, grayStart, grayEnd float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, fragmentHeader, segments)

	for i := 0; i < segments; i++ {
		fmt.Fprintf(&b,
			"    float d%d = abs(phi - %d.0);\n"+
				"    d%d = min(d%d, float(SEGMENTS) - d%d);\n"+
				"    segmentf += smoothstep(1.0, 0.0, d%d) * segment[%d];\n",
			i, i, i, i, i, i, i)
	}

	// Segments arrive in API units (0..100); normalizing here keeps shape
	// thickness consistent between heat and custom mode.
	b.WriteString("    segmentf = clamp(segmentf / 100.0, 0.0, 1.0);\n")

	fmt.Fprintf(&b, "    const float GRAY_START = %.1f;\n", grayStart)
	fmt.Fprintf(&b, "    const float GRAY_END = %.1f;\n", grayEnd)

	b.WriteString(fragmentFooter)
	return b.String()
}
