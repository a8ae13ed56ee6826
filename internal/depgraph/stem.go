package depgraph

import (
	"strings"

	"github.com/kljensen/snowball/english"
)

// stemWord lowercases and Porter-stems s. Multi-word identifiers
// ("albumId", "album_id") are split on case and underscore boundaries and
// stemmed word-by-word, since the Porter algorithm is defined over single
// words.
func stemWord(s string) string {
	words := splitWords(s)
	if len(words) == 0 {
		return ""
	}
	stemmed := make([]string, len(words))
	for i, w := range words {
		stemmed[i] = english.Stem(strings.ToLower(w), false)
	}
	return strings.Join(stemmed, "")
}

// splitWords breaks an identifier into words on underscore, hyphen, space
// and camelCase boundaries. Each word keeps its original case; stemWord
// lowercases them.
func splitWords(s string) []string {
	var words []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == ' ':
			flush()
		case r >= 'A' && r <= 'Z' && i > 0 && !(runes[i-1] >= 'A' && runes[i-1] <= 'Z'):
			flush()
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return words
}

// normalizeParam computes the normalised key for a single non-body
// parameter or top-level body field named name, with context as the
// operation's context word. If name is "context_suffix" and stem(context) ==
// stem(prefix), the redundant prefix is dropped before stemming. The result
// is "stem(context)|stem(name)", or just stem(name) when context is empty.
func normalizeParam(context, name string) string {
	stemmedContext := stemWord(context)
	if parts := strings.SplitN(name, "_", 2); len(parts) == 2 {
		if stemWord(parts[0]) == stemmedContext {
			name = parts[1]
		}
	}
	stemmedName := stemWord(name)
	if context == "" {
		return stemmedName
	}
	return stemmedContext + "|" + stemmedName
}

// normalizeBodyPath computes the normalised key for a (possibly nested)
// body field addressed by path (outermost field first), joining stemmed
// path segments with "||" Only the first segment is eligible for the
// redundant-context-prefix drop, matching normalizeParam.
func normalizeBodyPath(context string, path []string) string {
	if len(path) == 0 {
		return stemWord(context)
	}
	stemmedContext := stemWord(context)
	first := path[0]
	if parts := strings.SplitN(first, "_", 2); len(parts) == 2 {
		if stemWord(parts[0]) == stemmedContext {
			first = parts[1]
		}
	}
	segs := make([]string, len(path))
	segs[0] = stemWord(first)
	for i := 1; i < len(path); i++ {
		segs[i] = stemWord(path[i])
	}
	joined := strings.Join(segs, "||")
	if context == "" {
		return joined
	}
	return stemmedContext + "|" + joined
}
