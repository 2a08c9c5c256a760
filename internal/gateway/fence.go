package gateway

import "strings"

const fence = "```"

// StripFences removes a Markdown code-block pair wrapping a completion.
//
// A pair is stripped only when the trimmed text both starts and ends with a
// fence. A lone opening or closing fence leaves the text unchanged, so prose
// around a block is never half-stripped. After the opening fence, a language
// tag on its own line is dropped, as is a tag glued to a JSON body
// (```json[]```). The tag is never interpreted, so ```json,
// ```sql, ```python and a bare ``` behave the same. Stripping repeats until
// no outer pair remains, which makes StripFences idempotent.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	for {
		next, ok := stripPair(s)
		if !ok {
			return s
		}
		s = next
	}
}

func stripPair(s string) (string, bool) {
	if len(s) < 2*len(fence) || !strings.HasPrefix(s, fence) || !strings.HasSuffix(s, fence) {
		return s, false
	}
	body := s[len(fence) : len(s)-len(fence)]
	if rest, ok := dropTagLine(body); ok {
		return strings.TrimSpace(rest), true
	}
	return strings.TrimSpace(dropJSONTag(body)), true
}

// dropTagLine removes the remainder of the opening fence line when it holds
// nothing but a language tag.
func dropTagLine(s string) (string, bool) {
	nl := strings.IndexByte(s, '\n')
	if nl < 0 || !isTag(strings.TrimSpace(s[:nl])) {
		return s, false
	}
	return s[nl+1:], true
}

// dropJSONTag removes a language tag glued to a JSON document, as in the
// single-line form ```json{"a":1}```. A body that does not start with a tag
// run directly followed by '{' or '[' is returned unchanged.
func dropJSONTag(s string) string {
	i := strings.IndexAny(s, "{[")
	if i <= 0 || !isTag(s[:i]) {
		return s
	}
	return s[i:]
}

func isTag(s string) bool {
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_' || r == '-' || r == '+' || r == '.' || r == '#':
		default:
			return false
		}
	}
	return true
}
