package bridge

import (
	"context"
	"strconv"
	"strings"

	"schemaport/internal/schema"
)

// Composite reference prefixes embedded in relation-field settings.
const (
	refSection  = "section:"
	refFolder   = "folder:"
	refGroup    = "group:"
	refTagGroup = "taggroup:"
)

// Resolver translates relation-field settings between portable handles
// and composite reference strings ("section:14", "folder:3", ...).
// Lookups that fail leave the original value untouched; some documents
// reference entities created later in the same run.
type Resolver struct {
	svc schema.Services
}

func NewResolver(svc schema.Services) *Resolver {
	return &Resolver{svc: svc}
}

// referenceHandler is one per relation-capable field type.
type referenceHandler interface {
	// resolve rewrites handles to composite reference strings in a field
	// description prior to saving (import direction).
	resolve(ctx context.Context, r *Resolver, field map[string]any)
}

// inverseHandler maps composite reference strings back to handles in a
// field's stored settings (export direction). Block-structured types
// are walked by the exporter instead.
type inverseHandler interface {
	invert(ctx context.Context, r *Resolver, settings map[string]any)
}

var forwardHandlers = map[string]referenceHandler{
	"Entries":    entriesHandler{},
	"Assets":     assetsHandler{},
	"Categories": categoriesHandler{},
	"Tags":       tagsHandler{},
	"Users":      usersHandler{},
	"Matrix":     blockFieldsHandler{},
	"SuperTable": blockFieldsHandler{},
	"Neo":        neoHandler{},
}

var inverseHandlers = map[string]inverseHandler{
	"Entries":    entriesHandler{},
	"Assets":     assetsHandler{},
	"Categories": categoriesHandler{},
	"Tags":       tagsHandler{},
	"Users":      usersHandler{},
}

// Resolve rewrites every reference inside a field description, recursing
// into nested block structures. The field map is mutated in place.
func (r *Resolver) Resolve(ctx context.Context, field map[string]any) {
	fieldType, _ := field["type"].(string)
	if h, ok := forwardHandlers[fieldType]; ok {
		h.resolve(ctx, r, field)
	}
}

// InvertSettings rewrites composite reference strings back to handles
// for a relation-typed field's settings map.
func (r *Resolver) InvertSettings(ctx context.Context, fieldType string, settings map[string]any) {
	if h, ok := inverseHandlers[fieldType]; ok {
		h.invert(ctx, r, settings)
	}
}

// --- Entries ---

type entriesHandler struct{}

func (entriesHandler) resolve(ctx context.Context, r *Resolver, field map[string]any) {
	mapSources(field, func(v string) (string, bool) {
		sec := r.sectionByHandleOrName(ctx, v)
		if sec == nil {
			return "", false
		}
		return refSection + strconv.FormatInt(sec.ID, 10), true
	})
}

func (entriesHandler) invert(ctx context.Context, r *Resolver, settings map[string]any) {
	invertSources(settings, refSection, func(id int64) (string, bool) {
		sec, err := r.svc.SectionByID(ctx, id)
		if err != nil || sec == nil {
			return "", false
		}
		return sec.Handle, true
	})
}

// --- Assets ---

type assetsHandler struct{}

func (assetsHandler) resolve(ctx context.Context, r *Resolver, field map[string]any) {
	mapSources(field, func(v string) (string, bool) {
		src, err := r.svc.AssetSourceByHandle(ctx, v)
		if err != nil || src == nil {
			return "", false
		}
		return refFolder + strconv.FormatInt(src.ID, 10), true
	})
}

func (assetsHandler) invert(ctx context.Context, r *Resolver, settings map[string]any) {
	invertSources(settings, refFolder, func(id int64) (string, bool) {
		src, err := r.svc.AssetSourceByID(ctx, id)
		if err != nil || src == nil {
			return "", false
		}
		return src.Handle, true
	})
}

// --- Categories ---

type categoriesHandler struct{}

func (categoriesHandler) resolve(ctx context.Context, r *Resolver, field map[string]any) {
	mapSource(field, func(v string) (string, bool) {
		grp, err := r.svc.CategoryGroupByHandle(ctx, v)
		if err != nil || grp == nil {
			return "", false
		}
		return refGroup + strconv.FormatInt(grp.ID, 10), true
	})
}

func (categoriesHandler) invert(ctx context.Context, r *Resolver, settings map[string]any) {
	invertSource(settings, refGroup, func(id int64) (string, bool) {
		grp, err := r.svc.CategoryGroupByID(ctx, id)
		if err != nil || grp == nil {
			return "", false
		}
		return grp.Handle, true
	})
}

// --- Tags ---

type tagsHandler struct{}

func (tagsHandler) resolve(ctx context.Context, r *Resolver, field map[string]any) {
	mapSource(field, func(v string) (string, bool) {
		grp, err := r.svc.TagGroupByHandle(ctx, v)
		if err != nil || grp == nil {
			return "", false
		}
		return refTagGroup + strconv.FormatInt(grp.ID, 10), true
	})
}

func (tagsHandler) invert(ctx context.Context, r *Resolver, settings map[string]any) {
	invertSource(settings, refTagGroup, func(id int64) (string, bool) {
		grp, err := r.svc.TagGroupByID(ctx, id)
		if err != nil || grp == nil {
			return "", false
		}
		return grp.Handle, true
	})
}

// --- Users ---

type usersHandler struct{}

func (usersHandler) resolve(ctx context.Context, r *Resolver, field map[string]any) {
	mapSources(field, func(v string) (string, bool) {
		grp, err := r.svc.UserGroupByHandle(ctx, v)
		if err != nil || grp == nil {
			return "", false
		}
		return refGroup + strconv.FormatInt(grp.ID, 10), true
	})
}

func (usersHandler) invert(ctx context.Context, r *Resolver, settings map[string]any) {
	invertSources(settings, refGroup, func(id int64) (string, bool) {
		grp, err := r.svc.UserGroupByID(ctx, id)
		if err != nil || grp == nil {
			return "", false
		}
		return grp.Handle, true
	})
}

// --- Matrix / SuperTable ---

// blockFieldsHandler recurses into every nested field of every block
// type, applying the full resolver to each.
type blockFieldsHandler struct{}

func (blockFieldsHandler) resolve(ctx context.Context, r *Resolver, field map[string]any) {
	for _, block := range blockTypes(field) {
		fields, _ := block["fields"].(map[string]any)
		for _, nested := range fields {
			if nestedField, ok := nested.(map[string]any); ok {
				r.Resolve(ctx, nestedField)
			}
		}
	}
}

// --- Neo ---

// neoHandler resolves every field-layout handle inside every block type
// directly to a raw field ID. Neo layouts store IDs, not composite
// reference strings.
type neoHandler struct{}

func (neoHandler) resolve(ctx context.Context, r *Resolver, field map[string]any) {
	for _, block := range blockTypes(field) {
		layout, _ := block["fieldLayout"].(map[string]any)
		for tab, refs := range layout {
			list, ok := refs.([]any)
			if !ok {
				continue
			}
			for i, ref := range list {
				handle, ok := ref.(string)
				if !ok {
					continue
				}
				f, err := r.svc.FieldByHandle(ctx, handle)
				if err != nil || f == nil {
					continue
				}
				list[i] = f.ID
			}
			layout[tab] = list
		}
	}
}

// --- shared helpers ---

func (r *Resolver) sectionByHandleOrName(ctx context.Context, ref string) *schema.Section {
	sec, err := r.svc.SectionByHandle(ctx, ref)
	if err == nil && sec != nil {
		return sec
	}
	sections, err := r.svc.AllSections(ctx)
	if err != nil {
		return nil
	}
	for i := range sections {
		if sections[i].Name == ref {
			return &sections[i]
		}
	}
	return nil
}

func typesettings(field map[string]any) map[string]any {
	ts, _ := field["typesettings"].(map[string]any)
	return ts
}

func blockTypes(field map[string]any) []map[string]any {
	ts := typesettings(field)
	if ts == nil {
		return nil
	}
	raw, _ := ts["blockTypes"].(map[string]any)
	blocks := make([]map[string]any, 0, len(raw))
	for _, key := range sortedBlockKeys(raw) {
		if block, ok := raw[key].(map[string]any); ok {
			blocks = append(blocks, block)
		}
	}
	return blocks
}

// mapSources rewrites each entry of typesettings.sources that the
// lookup can resolve, leaving the rest untouched.
func mapSources(field map[string]any, lookup func(string) (string, bool)) {
	ts := typesettings(field)
	if ts == nil {
		return
	}
	sources, ok := ts["sources"].([]any)
	if !ok {
		return
	}
	for i, src := range sources {
		v, ok := src.(string)
		if !ok {
			continue
		}
		if resolved, ok := lookup(v); ok {
			sources[i] = resolved
		}
	}
}

// mapSource is the singular-source variant (Categories, Tags).
func mapSource(field map[string]any, lookup func(string) (string, bool)) {
	ts := typesettings(field)
	if ts == nil {
		return
	}
	v, ok := ts["source"].(string)
	if !ok {
		return
	}
	if resolved, ok := lookup(v); ok {
		ts["source"] = resolved
	}
}

func invertSources(settings map[string]any, prefix string, lookup func(int64) (string, bool)) {
	sources, ok := settings["sources"].([]any)
	if !ok {
		return
	}
	for i, src := range sources {
		v, ok := src.(string)
		if !ok {
			continue
		}
		if id, ok := parseRef(prefix, v); ok {
			if handle, ok := lookup(id); ok {
				sources[i] = handle
			}
		}
	}
}

func invertSource(settings map[string]any, prefix string, lookup func(int64) (string, bool)) {
	v, ok := settings["source"].(string)
	if !ok {
		return
	}
	if id, ok := parseRef(prefix, v); ok {
		if handle, ok := lookup(id); ok {
			settings["source"] = handle
		}
	}
}

// parseRef extracts the trailing integer ID from a composite reference
// string with the given prefix.
func parseRef(prefix, s string) (int64, bool) {
	if !strings.HasPrefix(s, prefix) {
		return 0, false
	}
	id, err := strconv.ParseInt(s[len(prefix):], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
