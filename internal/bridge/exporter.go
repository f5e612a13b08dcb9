package bridge

import (
	"context"
	"fmt"
	"sort"

	"schemaport/internal/schema"
)

// Selection names the entities to export by internal ID.
type Selection struct {
	SectionSelection []int64 `json:"sectionSelection"`
	FieldSelection   []int64 `json:"fieldSelection"`
}

// Exporter builds a portable document from a selection of existing
// entities, mapping internal references back to handles. Export never
// mutates the store.
type Exporter struct {
	svc      schema.Services
	resolver *Resolver
}

func NewExporter(svc schema.Services) *Exporter {
	return &Exporter{svc: svc, resolver: NewResolver(svc)}
}

// Export produces the inverse of the import format. Top-level keys
// whose value would be empty are omitted entirely.
func (ex *Exporter) Export(ctx context.Context, sel Selection) (map[string]any, error) {
	sections, entryTypes, err := ex.exportSections(ctx, sel.SectionSelection)
	if err != nil {
		return nil, err
	}
	groups, fields, err := ex.exportFields(ctx, sel.FieldSelection)
	if err != nil {
		return nil, err
	}

	output := map[string]any{}
	if len(groups) > 0 {
		output["groups"] = groups
	}
	if len(sections) > 0 {
		output["sections"] = sections
	}
	if len(fields) > 0 {
		output["fields"] = fields
	}
	if len(entryTypes) > 0 {
		output["entryTypes"] = entryTypes
	}
	return output, nil
}

func (ex *Exporter) exportSections(ctx context.Context, ids []int64) ([]any, []any, error) {
	var sections []any
	var entryTypes []any

	primary, err := ex.svc.PrimaryLocale(ctx)
	if err != nil {
		return nil, nil, err
	}

	for _, id := range ids {
		section, err := ex.svc.SectionByID(ctx, id)
		if err != nil {
			return nil, nil, fmt.Errorf("export section %d: %w", id, err)
		}
		if section == nil {
			continue
		}

		typesettings := map[string]any{
			"urlFormat": nil,
			"template":  section.Template,
		}
		if loc, ok := section.Locales[primary]; ok {
			if loc.URLFormat != nil {
				typesettings["urlFormat"] = *loc.URLFormat
			}
			if loc.NestedURLFormat != nil {
				typesettings["nestedUrlFormat"] = *loc.NestedURLFormat
			}
		}
		// Singles have no URL toggle to round-trip.
		if section.Type != schema.SectionSingle {
			typesettings["hasUrls"] = section.HasUrls
		}
		if section.MaxLevels != nil {
			typesettings["maxLevels"] = *section.MaxLevels
		}

		sections = append(sections, map[string]any{
			"name":             section.Name,
			"handle":           section.Handle,
			"type":             section.Type,
			"enableVersioning": section.EnableVersioning,
			"typesettings":     typesettings,
		})

		ownedTypes, err := ex.svc.EntryTypesBySection(ctx, section.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("export entry types for section %d: %w", id, err)
		}
		for _, et := range ownedTypes {
			exported, err := ex.exportEntryType(ctx, section.Handle, et)
			if err != nil {
				return nil, nil, err
			}
			entryTypes = append(entryTypes, exported)
		}
	}
	return sections, entryTypes, nil
}

func (ex *Exporter) exportEntryType(ctx context.Context, sectionHandle string, et schema.EntryType) (map[string]any, error) {
	exported := map[string]any{
		"sectionHandle": sectionHandle,
		"hasTitleField": et.HasTitleField,
		"name":          et.Name,
		"handle":        et.Handle,
		"fieldLayout":   newOrderedObject(),
	}
	if et.HasTitleField {
		exported["titleLabel"] = et.TitleLabel
	} else {
		exported["titleFormat"] = et.TitleFormat
	}

	layout, err := ex.layoutToDocument(ctx, et.FieldLayout)
	if err != nil {
		return nil, err
	}
	exported["fieldLayout"] = layout
	return exported, nil
}

// layoutToDocument maps a stored layout's field IDs back to handles,
// keeping tab and field order.
func (ex *Exporter) layoutToDocument(ctx context.Context, layout *schema.FieldLayout) (*orderedObject, error) {
	doc := newOrderedObject()
	if layout == nil {
		return doc, nil
	}
	for _, tab := range layout.Tabs {
		handles := []string{}
		for _, fieldID := range tab.FieldIDs {
			field, err := ex.svc.FieldByID(ctx, fieldID)
			if err != nil {
				return nil, fmt.Errorf("resolve layout field %d: %w", fieldID, err)
			}
			if field == nil {
				continue
			}
			handles = append(handles, field.Handle)
		}
		doc.Set(tab.Name, handles)
	}
	return doc, nil
}

func (ex *Exporter) exportFields(ctx context.Context, ids []int64) ([]string, []any, error) {
	var groups []string
	seenGroups := map[string]bool{}
	var fields []any
	var fieldsLast []any

	groupNames, err := ex.groupNamesByID(ctx)
	if err != nil {
		return nil, nil, err
	}

	for _, id := range ids {
		field, err := ex.svc.FieldByID(ctx, id)
		if err != nil {
			return nil, nil, fmt.Errorf("export field %d: %w", id, err)
		}
		if field == nil {
			continue
		}

		groupName := groupNames[field.GroupID]
		if !seenGroups[groupName] {
			seenGroups[groupName] = true
			groups = append(groups, groupName)
		}

		// Inverse resolution rewrites values, so it runs on a copy; the
		// store's settings stay untouched.
		settings := copySettings(field.Settings)
		ex.resolver.InvertSettings(ctx, field.Type, settings)

		exported := map[string]any{
			"group":        groupName,
			"name":         field.Name,
			"handle":       field.Handle,
			"instructions": field.Instructions,
			"required":     field.Required,
			"type":         field.Type,
			"typesettings": settings,
		}

		switch field.Type {
		case "Matrix":
			if err := ex.exportMatrixBlocks(ctx, settings); err != nil {
				return nil, nil, err
			}
		case "Neo":
			if err := ex.exportNeoBlocks(ctx, settings); err != nil {
				return nil, nil, err
			}
		}

		// Neo layouts reference other fields by handle; they must come
		// last so a re-import sees those fields already created.
		if field.Type == "Neo" {
			fieldsLast = append(fieldsLast, exported)
		} else {
			fields = append(fields, exported)
		}
	}

	fields = append(fields, fieldsLast...)
	return groups, fields, nil
}

// exportMatrixBlocks rebuilds blockTypes with fresh new1.. keys and
// inverse-resolved nested field settings.
func (ex *Exporter) exportMatrixBlocks(ctx context.Context, settings map[string]any) error {
	stored, _ := settings["blockTypes"].(map[string]any)
	if stored == nil {
		return nil
	}

	rebuilt := newOrderedObject()
	blockCount := 1
	for _, blockKey := range sortedBlockKeys(stored) {
		block, ok := stored[blockKey].(map[string]any)
		if !ok {
			continue
		}

		blockFields := newOrderedObject()
		storedFields, _ := block["fields"].(map[string]any)
		fieldCount := 1
		for _, fieldKey := range sortedBlockKeys(storedFields) {
			nested, ok := storedFields[fieldKey].(map[string]any)
			if !ok {
				continue
			}
			nestedSettings, _ := nested["typesettings"].(map[string]any)
			if nestedSettings != nil {
				ex.resolver.InvertSettings(ctx, docString(nested, "type"), nestedSettings)
			}
			blockFields.Set(fmt.Sprintf("new%d", fieldCount), map[string]any{
				"name":         nested["name"],
				"handle":       nested["handle"],
				"instructions": nested["instructions"],
				"required":     nested["required"],
				"type":         nested["type"],
				"typesettings": nestedSettings,
			})
			fieldCount++
		}

		rebuilt.Set(fmt.Sprintf("new%d", blockCount), map[string]any{
			"name":   block["name"],
			"handle": block["handle"],
			"fields": blockFields,
		})
		blockCount++
	}

	settings["blockTypes"] = rebuilt
	return nil
}

// exportNeoBlocks rebuilds blockTypes with fresh new0.. keys, mapping
// each field-layout ID back to its handle.
func (ex *Exporter) exportNeoBlocks(ctx context.Context, settings map[string]any) error {
	stored, _ := settings["blockTypes"].(map[string]any)
	if stored == nil {
		return nil
	}

	rebuilt := newOrderedObject()
	blockCount := 0
	for _, blockKey := range sortedBlockKeys(stored) {
		block, ok := stored[blockKey].(map[string]any)
		if !ok {
			continue
		}

		layout := newOrderedObject()
		storedLayout, _ := block["fieldLayout"].(map[string]any)
		// Stored settings round-trip through plain JSON maps, which drop
		// authoring tab order; tabs are emitted in name order so identical
		// store state always serializes identically.
		tabNames := make([]string, 0, len(storedLayout))
		for tab := range storedLayout {
			tabNames = append(tabNames, tab)
		}
		sort.Strings(tabNames)
		for _, tab := range tabNames {
			list, _ := storedLayout[tab].([]any)
			handles := []string{}
			for _, ref := range list {
				fieldID := asFieldID(ref)
				if fieldID == schema.UnknownFieldID {
					continue
				}
				field, err := ex.svc.FieldByID(ctx, fieldID)
				if err != nil {
					return fmt.Errorf("resolve neo layout field %d: %w", fieldID, err)
				}
				if field == nil {
					continue
				}
				handles = append(handles, field.Handle)
			}
			layout.Set(tab, handles)
		}

		rebuilt.Set(fmt.Sprintf("new%d", blockCount), map[string]any{
			"sortOrder":   block["sortOrder"],
			"name":        block["name"],
			"handle":      block["handle"],
			"maxBlocks":   block["maxBlocks"],
			"childBlocks": block["childBlocks"],
			"topLevel":    block["topLevel"],
			"fieldLayout": layout,
		})
		blockCount++
	}

	settings["blockTypes"] = rebuilt
	return nil
}

func (ex *Exporter) groupNamesByID(ctx context.Context) (map[int64]string, error) {
	groups, err := ex.svc.AllFieldGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("load field groups: %w", err)
	}
	names := make(map[int64]string, len(groups))
	for _, group := range groups {
		names[group.ID] = group.Name
	}
	return names, nil
}

// copySettings deep-copies a settings document so export can rewrite
// references without touching what the store handed out.
func copySettings(settings map[string]any) map[string]any {
	if settings == nil {
		return map[string]any{}
	}
	return copyValue(settings).(map[string]any)
}

func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[k] = copyValue(child)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = copyValue(child)
		}
		return out
	default:
		return v
	}
}

// asFieldID coerces a stored layout entry to a field ID. Entries may be
// int64 (resolved at import) or float64 (JSON round-trip).
func asFieldID(v any) int64 {
	switch id := v.(type) {
	case int64:
		return id
	case float64:
		return int64(id)
	case int:
		return int64(id)
	}
	return schema.UnknownFieldID
}
