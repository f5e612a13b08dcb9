package bridge

import (
	"testing"
)

func TestStripHandleSpaces(t *testing.T) {
	doc := map[string]any{
		"fields": []any{
			map[string]any{
				"name":   "Body Text",
				"handle": "body Text",
			},
			map[string]any{
				"handle": " spaced\tout\nhandle ",
				"typesettings": map[string]any{
					"blockTypes": map[string]any{
						"new1": map[string]any{
							"handle": "block one",
						},
					},
				},
			},
		},
		"sections": []any{
			map[string]any{"handle": "news items", "name": "News Items"},
		},
	}

	StripHandleSpaces(doc)

	fields := doc["fields"].([]any)
	if got := fields[0].(map[string]any)["handle"]; got != "bodyText" {
		t.Fatalf("expected bodyText, got %v", got)
	}
	if got := fields[1].(map[string]any)["handle"]; got != "spacedouthandle" {
		t.Fatalf("expected spacedouthandle, got %v", got)
	}

	// Nested handles are normalized too
	nested := fields[1].(map[string]any)["typesettings"].(map[string]any)["blockTypes"].(map[string]any)["new1"].(map[string]any)
	if got := nested["handle"]; got != "blockone" {
		t.Fatalf("expected blockone, got %v", got)
	}

	// Other string values are untouched
	if got := fields[0].(map[string]any)["name"]; got != "Body Text" {
		t.Fatalf("expected name untouched, got %v", got)
	}
	section := doc["sections"].([]any)[0].(map[string]any)
	if got := section["name"]; got != "News Items" {
		t.Fatalf("expected section name untouched, got %v", got)
	}
	if got := section["handle"]; got != "newsitems" {
		t.Fatalf("expected newsitems, got %v", got)
	}
}

func TestStripHandleSpaces_NonStringHandle(t *testing.T) {
	doc := map[string]any{"handle": float64(3)}
	StripHandleSpaces(doc)
	if got := doc["handle"]; got != float64(3) {
		t.Fatalf("expected non-string handle untouched, got %v", got)
	}
}

func TestConstructHandle(t *testing.T) {
	cases := []struct {
		name string
		want string
	}{
		{"My Cool Field", "myCoolField"},
		{"single", "single"},
		{"Body", "body"},
		{"UPPER CASE NAME", "upperCaseName"},
		{"already camelCase", "alreadyCamelcase"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := ConstructHandle(tc.name); got != tc.want {
			t.Fatalf("ConstructHandle(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestConstructHandle_Idempotent(t *testing.T) {
	// A constructed handle contains no spaces and no upper-case first
	// word, so running it through again only lower-cases it fully. The
	// all-lowercase single-word case is stable.
	first := ConstructHandle("hero image")
	if first != "heroImage" {
		t.Fatalf("expected heroImage, got %q", first)
	}
	stable := ConstructHandle("body")
	if ConstructHandle(stable) != stable {
		t.Fatalf("expected %q stable, got %q", stable, ConstructHandle(stable))
	}
}
