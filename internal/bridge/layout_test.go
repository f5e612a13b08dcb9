package bridge

import (
	"encoding/json"
	"testing"

	"schemaport/internal/schema"
)

func TestParseFieldLayout_PreservesTabOrder(t *testing.T) {
	raw := json.RawMessage(`{
		"Content": ["body", "heroImage"],
		"Meta": ["summary"],
		"Advanced": []
	}`)

	tabs, err := parseFieldLayout(raw)
	if err != nil {
		t.Fatalf("parse layout: %v", err)
	}
	if len(tabs) != 3 {
		t.Fatalf("expected 3 tabs, got %d", len(tabs))
	}
	wantNames := []string{"Content", "Meta", "Advanced"}
	for i, name := range wantNames {
		if tabs[i].Name != name {
			t.Fatalf("tab %d: expected %q, got %q", i, name, tabs[i].Name)
		}
	}
	if tabs[0].FieldRefs[0] != "body" || tabs[0].FieldRefs[1] != "heroImage" {
		t.Fatalf("expected field order preserved, got %v", tabs[0].FieldRefs)
	}
}

func TestParseFieldLayout_BadTabValue(t *testing.T) {
	raw := json.RawMessage(`{"Content": "not a list"}`)
	if _, err := parseFieldLayout(raw); err == nil {
		t.Fatal("expected error for non-list tab value")
	}
}

func TestAssembleLayout(t *testing.T) {
	fields := []schema.Field{
		{ID: 1, Name: "Body", Handle: "body"},
		{ID: 2, Name: "Hero Image", Handle: "heroImage"},
		{ID: 3, Name: "Summary", Handle: "summary"},
	}
	tabs := []layoutTabSpec{
		{Name: "Content", FieldRefs: []string{"body", "Hero Image", "unknown"}},
		{Name: "Meta", FieldRefs: []string{"summary"}},
	}

	layout := AssembleLayout(tabs, []string{"body", "nothere"}, schema.ElementEntry, fields)

	if layout.Type != schema.ElementEntry {
		t.Fatalf("expected element type %q, got %q", schema.ElementEntry, layout.Type)
	}
	if len(layout.Tabs) != 2 {
		t.Fatalf("expected 2 tabs, got %d", len(layout.Tabs))
	}

	content := layout.Tabs[0]
	// Handle match, name match, then the sentinel for the unknown ref
	want := []int64{1, 2, schema.UnknownFieldID}
	for i, id := range want {
		if content.FieldIDs[i] != id {
			t.Fatalf("field %d: expected %d, got %d", i, id, content.FieldIDs[i])
		}
	}
	if !content.IsRequired(1) {
		t.Fatal("expected body required on Content tab")
	}
	if content.IsRequired(2) {
		t.Fatal("expected heroImage not required")
	}

	meta := layout.Tabs[1]
	if len(meta.FieldIDs) != 1 || meta.FieldIDs[0] != 3 {
		t.Fatalf("expected Meta tab [3], got %v", meta.FieldIDs)
	}
	if len(meta.Required) != 0 {
		t.Fatalf("expected no required fields on Meta, got %v", meta.Required)
	}
}

func TestAssembleLayout_EmptyTabs(t *testing.T) {
	layout := AssembleLayout(nil, nil, schema.ElementGlobalSet, nil)
	if layout.Type != schema.ElementGlobalSet {
		t.Fatalf("expected element type kept, got %q", layout.Type)
	}
	if len(layout.Tabs) != 0 {
		t.Fatalf("expected no tabs, got %d", len(layout.Tabs))
	}
}

func TestOrderedObject_MarshalKeepsInsertionOrder(t *testing.T) {
	obj := newOrderedObject()
	obj.Set("Zebra", []string{"a"})
	obj.Set("Apple", []string{"b"})
	obj.Set("Mango", []string{})

	out, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"Zebra":["a"],"Apple":["b"],"Mango":[]}`
	if string(out) != want {
		t.Fatalf("expected %s, got %s", want, out)
	}
}

func TestSortedBlockKeys(t *testing.T) {
	keys := sortedBlockKeys(map[string]any{
		"new10": nil,
		"new2":  nil,
		"new1":  nil,
	})
	if len(keys) != 3 || keys[0] != "new1" || keys[1] != "new2" || keys[2] != "new10" {
		t.Fatalf("expected numeric order, got %v", keys)
	}
}
