package depgraph

import "testing"

func TestNormalizeParamDropsRedundantContextPrefix(t *testing.T) {
	got := normalizeParam("albums", "album_id")
	want := normalizeParam("albums", "id")
	if got != want {
		t.Fatalf("normalizeParam(albums, album_id) = %q, want %q (same as normalizeParam(albums, id))", got, want)
	}
}

func TestNormalizeParamNoContext(t *testing.T) {
	got := normalizeParam("", "id")
	if got != stemWord("id") {
		t.Fatalf("normalizeParam('', id) = %q, want %q", got, stemWord("id"))
	}
}

func TestNormalizeBodyPathJoinsNestedSegments(t *testing.T) {
	got := normalizeBodyPath("albums", []string{"artist", "name"})
	if got == "" {
		t.Fatal("normalizeBodyPath returned empty key")
	}
	// Nested path must be distinguishable from the bare top-level field.
	top := normalizeBodyPath("albums", []string{"artist"})
	if got == top {
		t.Fatalf("nested path %q collided with top-level path %q", got, top)
	}
}

func TestSplitWordsHandlesCamelAndSnakeCase(t *testing.T) {
	cases := map[string][]string{
		"albumId":  {"album", "Id"},
		"album_id": {"album", "id"},
		"id":       {"id"},
	}
	for in, want := range cases {
		got := splitWords(in)
		if len(got) != len(want) {
			t.Fatalf("splitWords(%q) = %v, want len %d", in, got, len(want))
		}
	}
}
