package shader

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// textureCallPattern matches the generation-specific sampling calls of GLSL 1.20.
	// 2DArray must precede 2D so the longer name wins.
	textureCallPattern = regexp.MustCompile(`\btexture(2DArrayLod|2DArray|2DLod|2D|CubeLod|Cube)\b`)

	clipAssignPattern = regexp.MustCompile(`\b` + ClipPositionVariable + `\s*=`)
	mainPattern       = regexp.MustCompile(`\bvoid\s+main\s*\(`)
	identPattern      = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// maskComments returns a copy of source with the contents of // and /* */ comments
// replaced by spaces. Offsets into the result are valid offsets into source, so
// searches run on the masked copy can splice the original text.
func maskComments(source string) string {
	b := []byte(source)
	for i := 0; i < len(b); i++ {
		if b[i] != '/' || i+1 >= len(b) {
			continue
		}
		switch b[i+1] {
		case '/':
			for ; i < len(b) && b[i] != '\n'; i++ {
				b[i] = ' '
			}
		case '*':
			b[i], b[i+1] = ' ', ' '
			i += 2
			for ; i < len(b); i++ {
				if b[i] == '*' && i+1 < len(b) && b[i+1] == '/' {
					b[i], b[i+1] = ' ', ' '
					i++
					break
				}
				if b[i] != '\n' {
					b[i] = ' '
				}
			}
		}
	}
	return string(b)
}

// hasMain reports whether the body declares a main entry point outside comments.
func hasMain(body string) bool {
	return mainPattern.MatchString(maskComments(body))
}

// normalizeTextureCalls rewrites texture2D, textureCube and texture2DArray (and their
// Lod variants) to the unified texture / textureLod calls of the core generation.
func normalizeTextureCalls(body string) string {
	return textureCallPattern.ReplaceAllStringFunc(body, func(call string) string {
		if strings.HasSuffix(call, "Lod") {
			return "textureLod"
		}
		return "texture"
	})
}

// replaceIdentifier replaces every whole-word occurrence of from with to.
func replaceIdentifier(body, from, to string) string {
	if from == to {
		return body
	}
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(from) + `\b`)
	return re.ReplaceAllLiteralString(body, to)
}

// clipAssignments returns the [start, end) offsets of every assignment to gl_Position
// in the body, skipping comparisons and commented-out code.
func clipAssignments(body string) [][]int {
	masked := maskComments(body)
	var out [][]int
	for _, m := range clipAssignPattern.FindAllStringIndex(masked, -1) {
		if m[1] < len(masked) && masked[m[1]] == '=' {
			continue
		}
		out = append(out, m)
	}
	return out
}

// rewriteTwoD retargets the single gl_Position assignment of a 2D vertex body to the
// pixel-space Position2DVariable and appends, directly after that statement, the
// orthographic pixel-to-clip conversion using ResolutionUniform.
//
// Parameters:
//   - body: the vertex body
//
// Returns:
//   - string: the rewritten body
//   - error: ErrClipAssignment if the body has zero or several gl_Position assignments
//     or the assignment is not terminated
func rewriteTwoD(body string) (string, error) {
	assigns := clipAssignments(body)
	if len(assigns) != 1 {
		return "", fmt.Errorf("%w: found %d", ErrClipAssignment, len(assigns))
	}
	start, end := assigns[0][0], assigns[0][1]

	semi := strings.IndexByte(maskComments(body)[end:], ';')
	if semi < 0 {
		return "", fmt.Errorf("%w: assignment is not terminated", ErrClipAssignment)
	}
	stmtEnd := end + semi + 1

	lineStart := strings.LastIndexByte(body[:start], '\n') + 1
	indent := body[lineStart:start]
	if strings.TrimSpace(indent) != "" {
		indent = "\t"
	}

	var sb strings.Builder
	sb.WriteString(body[:start])
	sb.WriteString(Position2DVariable)
	sb.WriteString(" =")
	sb.WriteString(body[end:stmtEnd])
	for _, line := range twoDStatements() {
		sb.WriteByte('\n')
		sb.WriteString(indent)
		sb.WriteString(line)
	}
	sb.WriteString(body[stmtEnd:])
	return sb.String(), nil
}

// twoDStatements returns the statements converting Position2DVariable from pixels to
// clip space: center on the screen, scale to [-1, 1] with y flipped, emit z=0, w=1.
func twoDStatements() []string {
	return []string{
		fmt.Sprintf("%s -= %s * 0.5;", Position2DVariable, ResolutionUniform),
		fmt.Sprintf("%s /= vec2(%s.x, -%s.y) * 0.5;", Position2DVariable, ResolutionUniform, ResolutionUniform),
		fmt.Sprintf("%s = vec4(%s, 0.0, 1.0);", ClipPositionVariable, Position2DVariable),
	}
}
