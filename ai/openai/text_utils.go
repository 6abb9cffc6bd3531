package openai

import (
	"regexp"
	"strings"
)

// stripCodeFences removes markdown code-fence wrappers some models put
// around their JSON answer, including an optional language tag.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// unquotedKeyPattern matches an object key missing its opening quote, a
// malformation some models produce: `{ type": "video"` or `, url": "..."`.
var unquotedKeyPattern = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)":`)

// repairJSON fixes the common malformations seen in model JSON output.
// Currently that is only the missing opening quote before object keys.
func repairJSON(s string) string {
	return unquotedKeyPattern.ReplaceAllString(s, `$1"$2":`)
}
