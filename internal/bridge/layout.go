package bridge

import (
	"encoding/json"
	"fmt"

	"schemaport/internal/schema"
)

// layoutTabSpec is one tab of a document field layout: a name and an
// ordered list of field references (handle or name).
type layoutTabSpec struct {
	Name      string
	FieldRefs []string
}

// parseFieldLayout decodes a document fieldLayout object into ordered
// tab specs.
func parseFieldLayout(raw json.RawMessage) ([]layoutTabSpec, error) {
	obj, err := parseOrderedObject(raw)
	if err != nil {
		return nil, fmt.Errorf("parse field layout: %w", err)
	}
	tabs := make([]layoutTabSpec, 0, obj.Len())
	for _, name := range obj.keys {
		rawRefs, _ := obj.values[name].(json.RawMessage)
		var refs []string
		if err := json.Unmarshal(rawRefs, &refs); err != nil {
			return nil, fmt.Errorf("parse field layout tab %q: %w", name, err)
		}
		tabs = append(tabs, layoutTabSpec{Name: name, FieldRefs: refs})
	}
	return tabs, nil
}

// AssembleLayout converts ordered tab specs into the host field-layout
// representation. Each reference resolves against the field snapshot by
// handle or name; unresolvable references become the UnknownFieldID
// sentinel rather than failing the layout. Tab and field order is
// preserved exactly.
func AssembleLayout(tabs []layoutTabSpec, required []string, elementType string, fields []schema.Field) *schema.FieldLayout {
	requiredIDs := make(map[int64]bool, len(required))
	for _, ref := range required {
		if id := fieldIDFromSnapshot(fields, ref); id != schema.UnknownFieldID {
			requiredIDs[id] = true
		}
	}

	layout := &schema.FieldLayout{Type: elementType}
	for _, tab := range tabs {
		lt := schema.LayoutTab{Name: tab.Name}
		for _, ref := range tab.FieldRefs {
			id := fieldIDFromSnapshot(fields, ref)
			lt.FieldIDs = append(lt.FieldIDs, id)
			if requiredIDs[id] {
				lt.Required = append(lt.Required, id)
			}
		}
		layout.Tabs = append(layout.Tabs, lt)
	}
	return layout
}

// fieldIDFromSnapshot resolves a field reference by handle or name
// against a point-in-time field snapshot.
func fieldIDFromSnapshot(fields []schema.Field, ref string) int64 {
	for _, f := range fields {
		if f.Handle == ref {
			return f.ID
		}
		if f.Name == ref {
			return f.ID
		}
	}
	return schema.UnknownFieldID
}
