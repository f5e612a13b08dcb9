package bridge

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"schemaport/internal/schema"
)

func strPtr(s string) *string { return &s }

func intPtr(n int64) *int64 { return &n }

func TestExporter_EmptySelection(t *testing.T) {
	ex := NewExporter(newFakeServices())

	output, err := ex.Export(context.Background(), Selection{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(output) != 0 {
		t.Fatalf("expected empty document, got %v", output)
	}
}

func TestExporter_Sections(t *testing.T) {
	ctx := context.Background()
	svc := newFakeServices()
	svc.sections = []schema.Section{
		{
			ID: 1, Name: "News", Handle: "news", Type: schema.SectionChannel,
			EnableVersioning: true, HasUrls: true, Template: "news/_entry",
			Locales: map[string]schema.SectionLocale{
				"en": {Locale: "en", URLFormat: strPtr("news/{slug}"), NestedURLFormat: strPtr("news/{level1}/{slug}")},
			},
		},
		{ID: 2, Name: "About", Handle: "about", Type: schema.SectionSingle, EnableVersioning: true},
		{
			ID: 3, Name: "Docs", Handle: "docs", Type: schema.SectionStructure,
			MaxLevels: intPtr(4),
		},
	}
	svc.nextID = 3
	ex := NewExporter(svc)

	output, err := ex.Export(ctx, Selection{SectionSelection: []int64{1, 2, 3, 99}})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	sections, ok := output["sections"].([]any)
	if !ok || len(sections) != 3 {
		t.Fatalf("expected 3 sections (missing ID skipped), got %v", output["sections"])
	}

	news := sections[0].(map[string]any)
	ts := news["typesettings"].(map[string]any)
	if ts["urlFormat"] != "news/{slug}" {
		t.Fatalf("expected primary urlFormat, got %v", ts["urlFormat"])
	}
	if ts["nestedUrlFormat"] != "news/{level1}/{slug}" {
		t.Fatalf("expected nestedUrlFormat, got %v", ts["nestedUrlFormat"])
	}
	if ts["hasUrls"] != true {
		t.Fatalf("expected hasUrls on channel, got %v", ts["hasUrls"])
	}
	if ts["template"] != "news/_entry" {
		t.Fatalf("expected template, got %v", ts["template"])
	}
	if _, present := ts["maxLevels"]; present {
		t.Fatal("expected maxLevels omitted when unset")
	}

	about := sections[1].(map[string]any)
	ts = about["typesettings"].(map[string]any)
	// Singles carry no hasUrls toggle
	if _, present := ts["hasUrls"]; present {
		t.Fatal("expected hasUrls omitted for single")
	}
	// urlFormat is always present, even when empty
	if v, present := ts["urlFormat"]; !present || v != nil {
		t.Fatalf("expected nil urlFormat present, got %v (present=%v)", v, present)
	}
	if _, present := ts["nestedUrlFormat"]; present {
		t.Fatal("expected nestedUrlFormat omitted when unset")
	}

	docs := sections[2].(map[string]any)
	ts = docs["typesettings"].(map[string]any)
	if ts["maxLevels"] != int64(4) {
		t.Fatalf("expected maxLevels 4, got %v", ts["maxLevels"])
	}

	// Nothing selected from the other top-level kinds
	for _, key := range []string{"groups", "fields", "transforms", "globals"} {
		if _, present := output[key]; present {
			t.Fatalf("expected %q omitted, got %v", key, output[key])
		}
	}
}

func TestExporter_EntryTypes(t *testing.T) {
	ctx := context.Background()
	svc := newFakeServices()
	svc.fields = []schema.Field{
		{ID: 10, Handle: "body"},
		{ID: 11, Handle: "heroImage"},
	}
	svc.sections = []schema.Section{{ID: 1, Name: "News", Handle: "news"}}
	svc.entryTypes = []schema.EntryType{
		{
			ID: 2, SectionID: 1, Name: "Article", Handle: "article",
			HasTitleField: true, TitleLabel: "Title",
			FieldLayout: &schema.FieldLayout{Type: schema.ElementEntry, Tabs: []schema.LayoutTab{
				{Name: "Content", FieldIDs: []int64{10, 11}},
				{Name: "Meta", FieldIDs: []int64{99}},
			}},
		},
		{ID: 3, SectionID: 1, Name: "Link", Handle: "link", TitleFormat: "{url}"},
	}
	svc.nextID = 11
	ex := NewExporter(svc)

	output, err := ex.Export(ctx, Selection{SectionSelection: []int64{1}})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	entryTypes, ok := output["entryTypes"].([]any)
	if !ok || len(entryTypes) != 2 {
		t.Fatalf("expected 2 entry types, got %v", output["entryTypes"])
	}

	article := entryTypes[0].(map[string]any)
	if article["sectionHandle"] != "news" {
		t.Fatalf("expected sectionHandle news, got %v", article["sectionHandle"])
	}
	if article["titleLabel"] != "Title" {
		t.Fatalf("expected titleLabel, got %v", article["titleLabel"])
	}
	if _, present := article["titleFormat"]; present {
		t.Fatal("expected titleFormat absent in titleLabel mode")
	}

	// Layout keeps tab order and maps IDs to handles; dangling IDs drop
	raw, err := json.Marshal(article["fieldLayout"])
	if err != nil {
		t.Fatalf("marshal layout: %v", err)
	}
	want := `{"Content":["body","heroImage"],"Meta":[]}`
	if string(raw) != want {
		t.Fatalf("expected layout %s, got %s", want, raw)
	}

	link := entryTypes[1].(map[string]any)
	if link["titleFormat"] != "{url}" {
		t.Fatalf("expected titleFormat, got %v", link["titleFormat"])
	}
	if _, present := link["titleLabel"]; present {
		t.Fatal("expected titleLabel absent in titleFormat mode")
	}
}

func TestExporter_FieldsGroupDedup(t *testing.T) {
	ctx := context.Background()
	svc := newFakeServices()
	svc.groups = []schema.FieldGroup{{ID: 1, Name: "Content"}, {ID: 2, Name: "Media"}}
	svc.fields = []schema.Field{
		{ID: 10, GroupID: 1, Name: "Body", Handle: "body", Type: "RichText"},
		{ID: 11, GroupID: 2, Name: "Hero", Handle: "hero", Type: "Assets"},
		{ID: 12, GroupID: 1, Name: "Summary", Handle: "summary", Type: "PlainText"},
	}
	svc.nextID = 12
	ex := NewExporter(svc)

	output, err := ex.Export(ctx, Selection{FieldSelection: []int64{10, 11, 12}})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	groups, ok := output["groups"].([]string)
	if !ok {
		t.Fatalf("expected group name list, got %T", output["groups"])
	}
	// First-seen order, no duplicates
	if len(groups) != 2 || groups[0] != "Content" || groups[1] != "Media" {
		t.Fatalf("expected [Content Media], got %v", groups)
	}

	fields := output["fields"].([]any)
	if len(fields) != 3 {
		t.Fatalf("expected 3 fields, got %d", len(fields))
	}
	body := fields[0].(map[string]any)
	if body["group"] != "Content" || body["handle"] != "body" {
		t.Fatalf("unexpected field export %v", body)
	}
}

func TestExporter_FieldsInverseResolution(t *testing.T) {
	ctx := context.Background()
	svc := newFakeServices()
	svc.groups = []schema.FieldGroup{{ID: 1, Name: "Content"}}
	svc.sections = []schema.Section{{ID: 14, Handle: "news"}}
	svc.fields = []schema.Field{
		{ID: 10, GroupID: 1, Name: "Related", Handle: "related", Type: "Entries",
			Settings: map[string]any{"sources": []any{"section:14"}}},
	}
	svc.nextID = 14
	ex := NewExporter(svc)

	output, err := ex.Export(ctx, Selection{FieldSelection: []int64{10}})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	field := output["fields"].([]any)[0].(map[string]any)
	sources := field["typesettings"].(map[string]any)["sources"].([]any)
	if sources[0] != "news" {
		t.Fatalf("expected handle back from composite reference, got %v", sources[0])
	}
}

func TestExporter_NeoFieldsLast(t *testing.T) {
	ctx := context.Background()
	svc := newFakeServices()
	svc.groups = []schema.FieldGroup{{ID: 1, Name: "Content"}}
	svc.fields = []schema.Field{
		{ID: 10, GroupID: 1, Name: "Builder", Handle: "builder", Type: "Neo",
			Settings: map[string]any{"blockTypes": map[string]any{}}},
		{ID: 11, GroupID: 1, Name: "Body", Handle: "body", Type: "RichText"},
	}
	svc.nextID = 11
	ex := NewExporter(svc)

	output, err := ex.Export(ctx, Selection{FieldSelection: []int64{10, 11}})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	fields := output["fields"].([]any)
	// Selected first, emitted last
	if fields[0].(map[string]any)["handle"] != "body" {
		t.Fatalf("expected body first, got %v", fields[0])
	}
	if fields[1].(map[string]any)["handle"] != "builder" {
		t.Fatalf("expected Neo field last, got %v", fields[1])
	}
}

func TestExporter_MatrixBlocks(t *testing.T) {
	ctx := context.Background()
	svc := newFakeServices()
	svc.groups = []schema.FieldGroup{{ID: 1, Name: "Content"}}
	svc.sections = []schema.Section{{ID: 4, Handle: "blog"}}
	svc.fields = []schema.Field{
		{ID: 10, GroupID: 1, Name: "Blocks", Handle: "blocks", Type: "Matrix",
			Settings: map[string]any{"blockTypes": map[string]any{
				"7": map[string]any{
					"name": "Text", "handle": "text",
					"fields": map[string]any{
						"12": map[string]any{
							"name": "Copy", "handle": "copy", "instructions": "", "required": false,
							"type":         "Entries",
							"typesettings": map[string]any{"sources": []any{"section:4"}},
						},
					},
				},
			}},
		},
	}
	svc.nextID = 10
	ex := NewExporter(svc)

	output, err := ex.Export(ctx, Selection{FieldSelection: []int64{10}})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	field := output["fields"].([]any)[0].(map[string]any)
	raw, err := json.Marshal(field["typesettings"].(map[string]any)["blockTypes"])
	if err != nil {
		t.Fatalf("marshal blocks: %v", err)
	}
	// Fresh new1.. keys with inverse-resolved nested settings
	if !strings.Contains(string(raw), `"new1":{`) {
		t.Fatalf("expected re-keyed block, got %s", raw)
	}
	if !strings.Contains(string(raw), `"sources":["blog"]`) {
		t.Fatalf("expected nested sources inverted, got %s", raw)
	}
}

func TestExporter_NeoLayoutDeterministic(t *testing.T) {
	ctx := context.Background()
	svc := newFakeServices()
	svc.groups = []schema.FieldGroup{{ID: 1, Name: "Content"}}
	svc.fields = []schema.Field{
		{ID: 20, GroupID: 1, Handle: "body"},
		{ID: 21, GroupID: 1, Handle: "summary"},
		{ID: 10, GroupID: 1, Name: "Builder", Handle: "builder", Type: "Neo",
			Settings: map[string]any{"blockTypes": map[string]any{
				"3": map[string]any{
					"name": "Section", "handle": "section",
					"fieldLayout": map[string]any{
						"TabTwo": []any{float64(21)},
						"TabOne": []any{float64(20)},
					},
				},
			}},
		},
	}
	svc.nextID = 21
	ex := NewExporter(svc)

	// Identical store state must serialize identically on every run
	var first string
	for i := 0; i < 40; i++ {
		output, err := ex.Export(ctx, Selection{FieldSelection: []int64{10}})
		if err != nil {
			t.Fatalf("export: %v", err)
		}
		raw, err := json.Marshal(output["fields"])
		if err != nil {
			t.Fatalf("marshal fields: %v", err)
		}
		if i == 0 {
			first = string(raw)
			continue
		}
		if string(raw) != first {
			t.Fatalf("run %d diverged:\n%s\nvs\n%s", i, raw, first)
		}
	}
	if !strings.Contains(first, `"TabOne":["body"],"TabTwo":["summary"]`) {
		t.Fatalf("expected tabs in name order, got %s", first)
	}
}

func TestExporter_DoesNotMutateStoredSettings(t *testing.T) {
	ctx := context.Background()
	svc := newFakeServices()
	svc.groups = []schema.FieldGroup{{ID: 1, Name: "Content"}}
	svc.sections = []schema.Section{{ID: 14, Handle: "news"}}
	entriesSettings := map[string]any{"sources": []any{"section:14"}}
	matrixSettings := map[string]any{"blockTypes": map[string]any{
		"7": map[string]any{
			"name": "Text", "handle": "text",
			"fields": map[string]any{
				"12": map[string]any{
					"name": "Copy", "handle": "copy", "type": "Entries",
					"typesettings": map[string]any{"sources": []any{"section:14"}},
				},
			},
		},
	}}
	svc.fields = []schema.Field{
		{ID: 10, GroupID: 1, Name: "Related", Handle: "related", Type: "Entries", Settings: entriesSettings},
		{ID: 11, GroupID: 1, Name: "Blocks", Handle: "blocks", Type: "Matrix", Settings: matrixSettings},
	}
	svc.nextID = 14
	ex := NewExporter(svc)

	if _, err := ex.Export(ctx, Selection{FieldSelection: []int64{10, 11}}); err != nil {
		t.Fatalf("export: %v", err)
	}

	// The store's settings keep their composite references and block keys
	if got := entriesSettings["sources"].([]any)[0]; got != "section:14" {
		t.Fatalf("stored Entries settings rewritten: %v", got)
	}
	blocks := matrixSettings["blockTypes"].(map[string]any)
	block, ok := blocks["7"].(map[string]any)
	if !ok {
		t.Fatalf("stored Matrix block keys rewritten: %v", blocks)
	}
	nested := block["fields"].(map[string]any)["12"].(map[string]any)
	if got := nested["typesettings"].(map[string]any)["sources"].([]any)[0]; got != "section:14" {
		t.Fatalf("stored nested settings rewritten: %v", got)
	}
}

func TestExporter_NeoBlocks(t *testing.T) {
	ctx := context.Background()
	svc := newFakeServices()
	svc.groups = []schema.FieldGroup{{ID: 1, Name: "Content"}}
	svc.fields = []schema.Field{
		{ID: 20, GroupID: 1, Handle: "body"},
		{ID: 10, GroupID: 1, Name: "Builder", Handle: "builder", Type: "Neo",
			Settings: map[string]any{"blockTypes": map[string]any{
				"3": map[string]any{
					"sortOrder": float64(1), "name": "Section", "handle": "section",
					"maxBlocks": nil, "childBlocks": nil, "topLevel": true,
					"fieldLayout": map[string]any{
						"Tab 1": []any{float64(20), float64(99)},
					},
				},
			}},
		},
	}
	svc.nextID = 20
	ex := NewExporter(svc)

	output, err := ex.Export(ctx, Selection{FieldSelection: []int64{10}})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	field := output["fields"].([]any)[0].(map[string]any)
	raw, err := json.Marshal(field["typesettings"].(map[string]any)["blockTypes"])
	if err != nil {
		t.Fatalf("marshal blocks: %v", err)
	}
	// Neo keys start at new0; layout IDs map back to handles and
	// dangling IDs drop
	if !strings.Contains(string(raw), `"new0":{`) {
		t.Fatalf("expected new0 key, got %s", raw)
	}
	if !strings.Contains(string(raw), `"Tab 1":["body"]`) {
		t.Fatalf("expected layout handles, got %s", raw)
	}
}
