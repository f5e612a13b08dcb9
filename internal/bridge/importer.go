package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"schemaport/internal/schema"
)

// Importer applies a portable schema document against the store:
// groups, then fields, sections, entry types, asset sources, asset
// transforms and global sets, in that order. Later kinds reference
// earlier ones by handle, so the order is load-bearing. Failures are
// recorded per entity and never abort the run.
type Importer struct {
	svc      schema.Services
	resolver *Resolver

	// Point-in-time snapshots, refreshed at fixed checkpoints. Entities
	// of the same kind created later in a pass are not visible until
	// the next run.
	groups   []schema.FieldGroup
	fields   []schema.Field
	sections []schema.Section
}

func NewImporter(svc schema.Services) *Importer {
	return &Importer{svc: svc, resolver: NewResolver(svc)}
}

// rawDocument retains the undecoded entity descriptions whose field
// layouts need order-preserving parsing.
type rawDocument struct {
	EntryTypes []json.RawMessage `json:"entryTypes"`
	Sources    []json.RawMessage `json:"sources"`
	Globals    []json.RawMessage `json:"globals"`
}

// Run imports one JSON document and returns the ordered notice list.
func (im *Importer) Run(ctx context.Context, doc []byte) (*ImportResult, error) {
	var generic map[string]any
	if err := json.Unmarshal(doc, &generic); err != nil {
		return nil, fmt.Errorf("parse import document: %w", err)
	}
	var raw rawDocument
	if err := json.Unmarshal(doc, &raw); err != nil {
		return nil, fmt.Errorf("parse import document: %w", err)
	}

	// Handles must be clean before anything else touches the document.
	StripHandleSpaces(generic)

	result := &ImportResult{RunID: uuid.New().String(), Notices: []Notice{}}

	im.importGroups(ctx, generic, result)
	if err := im.refreshGroups(ctx); err != nil {
		return nil, err
	}

	im.importFields(ctx, generic, result)
	if err := im.refreshFields(ctx); err != nil {
		return nil, err
	}

	im.importSections(ctx, generic, result)
	if err := im.refreshSections(ctx); err != nil {
		return nil, err
	}

	im.importEntryTypes(ctx, generic, raw, result)
	im.importAssetSources(ctx, generic, raw, result)
	im.importAssetTransforms(ctx, generic, result)
	im.importGlobalSets(ctx, generic, raw, result)

	log.Printf("Import run %s applied %d notices", result.RunID, len(result.Notices))
	return result, nil
}

// --- snapshot refresh points ---

func (im *Importer) refreshGroups(ctx context.Context) error {
	groups, err := im.svc.AllFieldGroups(ctx)
	if err != nil {
		return fmt.Errorf("refresh group snapshot: %w", err)
	}
	im.groups = groups
	return nil
}

func (im *Importer) refreshFields(ctx context.Context) error {
	fields, err := im.svc.AllFields(ctx)
	if err != nil {
		return fmt.Errorf("refresh field snapshot: %w", err)
	}
	im.fields = fields
	return nil
}

func (im *Importer) refreshSections(ctx context.Context) error {
	sections, err := im.svc.AllSections(ctx)
	if err != nil {
		return fmt.Errorf("refresh section snapshot: %w", err)
	}
	im.sections = sections
	return nil
}

// --- groups ---

func (im *Importer) importGroups(ctx context.Context, doc map[string]any, result *ImportResult) {
	for _, entry := range docList(doc, "groups") {
		name, _ := entry.(string)
		group := schema.FieldGroup{Name: name}
		err := im.svc.SaveFieldGroup(ctx, &group)
		result.Notices = append(result.Notices, Notice{
			Type:   "Group",
			Name:   name,
			Result: err == nil,
			Errors: false,
		})
	}
}

// --- fields ---

func (im *Importer) importFields(ctx context.Context, doc map[string]any, result *ImportResult) {
	for _, entry := range docList(doc, "fields") {
		desc, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		im.resolver.Resolve(ctx, desc)

		field := im.buildField(desc)
		err := im.svc.SaveField(ctx, &field)

		notice := Notice{Type: "Field", Name: field.Name, Result: err == nil, Errors: false, ErrorsAlt: false}
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			notice.Errors = verr.Errors
			if verr.SettingsErrors != nil {
				notice.ErrorsAlt = verr.SettingsErrors
			}
		}
		result.Notices = append(result.Notices, notice)
	}
}

func (im *Importer) buildField(desc map[string]any) schema.Field {
	field := schema.Field{
		Name: docString(desc, "name"),
		Type: docString(desc, "type"),
	}
	if group := docString(desc, "group"); group != "" {
		field.GroupID = im.groupID(group)
	}
	field.Handle = docString(desc, "handle")
	if field.Handle == "" {
		field.Handle = ConstructHandle(field.Name)
	}
	field.Instructions = docString(desc, "instructions")
	field.Translatable = docBool(desc, "translatable", false)
	field.Required = docBool(desc, "required", false)
	if ts, ok := desc["typesettings"].(map[string]any); ok {
		field.Settings = ts
	}
	return field
}

// --- sections ---

func (im *Importer) importSections(ctx context.Context, doc map[string]any, result *ImportResult) {
	for _, entry := range docList(doc, "sections") {
		desc, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		section := schema.Section{
			Name: docString(desc, "name"),
			Type: docString(desc, "type"),
		}
		section.Handle = docString(desc, "handle")
		if section.Handle == "" {
			section.Handle = ConstructHandle(section.Name)
		}

		ts, _ := desc["typesettings"].(map[string]any)
		section.EnableVersioning = docBool(ts, "enableVersioning", true)
		section.HasUrls = docBool(ts, "hasUrls", false)
		section.Template = docString(ts, "template")
		section.MaxLevels = docInt64Ptr(ts, "maxLevels")
		section.Locales = im.assembleSectionLocales(ctx, ts)

		err := im.svc.SaveSection(ctx, &section)
		notice := Notice{Type: "Sections", Name: section.Name, Result: err == nil, Errors: false}
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			notice.Errors = verr.Errors
		}
		result.Notices = append(result.Notices, notice)
	}
}

// assembleSectionLocales builds the locale map from typesettings. Every
// known locale is checked for a keyed sub-object; the primary locale is
// then processed a second time from the flat urlFormat keys, and that
// pass wins for the primary locale. A locale only gets a record when at
// least one URL format is present.
func (im *Importer) assembleSectionLocales(ctx context.Context, ts map[string]any) map[string]schema.SectionLocale {
	locales := make(map[string]schema.SectionLocale)

	allLocales, err := im.svc.AllLocales(ctx)
	if err == nil {
		for _, locale := range allLocales {
			sub, _ := ts[locale.ID].(map[string]any)
			if sub == nil {
				continue
			}
			if loc, ok := buildSectionLocale(locale.ID, sub); ok {
				locales[locale.ID] = loc
			}
		}
	}

	primary, err := im.svc.PrimaryLocale(ctx)
	if err == nil {
		if loc, ok := buildSectionLocale(primary, ts); ok {
			locales[primary] = loc
		}
	}

	if len(locales) == 0 {
		return nil
	}
	return locales
}

func buildSectionLocale(localeID string, src map[string]any) (schema.SectionLocale, bool) {
	urlFormat := docStringPtr(src, "urlFormat")
	nestedURLFormat := docStringPtr(src, "nestedUrlFormat")
	if urlFormat == nil && nestedURLFormat == nil {
		return schema.SectionLocale{}, false
	}
	return schema.SectionLocale{
		Locale:           localeID,
		EnabledByDefault: docBool(src, "defaultLocaleStatus", true),
		URLFormat:        urlFormat,
		NestedURLFormat:  nestedURLFormat,
	}, true
}

// --- entry types ---

func (im *Importer) importEntryTypes(ctx context.Context, doc map[string]any, raw rawDocument, result *ImportResult) {
	for i, entry := range docList(doc, "entryTypes") {
		desc, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		titleName := docString(desc, "titleLabel")
		if !docHas(desc, "titleLabel") {
			titleName = docString(desc, "titleFormat")
		}

		et, err := im.buildEntryType(ctx, desc, rawAt(raw.EntryTypes, i))
		if err == nil {
			err = im.svc.SaveEntryType(ctx, et)
		}

		// Channels might carry an additional name.
		noticeName := docString(desc, "sectionHandle")
		if name := docString(desc, "name"); name != "" {
			noticeName += " > " + name
		}
		noticeName += " > " + titleName

		notice := Notice{Type: "Entry Types", Name: noticeName, Result: err == nil, Errors: false}
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			notice.Errors = verr.Errors
		}
		result.Notices = append(result.Notices, notice)
	}
}

func (im *Importer) buildEntryType(ctx context.Context, desc map[string]any, rawDesc json.RawMessage) (*schema.EntryType, error) {
	handle := docString(desc, "handle")
	if handle == "" {
		handle = ConstructHandle(docString(desc, "name"))
	}
	sectionID := im.sectionID(docString(desc, "sectionHandle"))

	et := &schema.EntryType{SectionID: sectionID, Handle: handle}

	// Upsert: a matching entry type under the section is updated, not
	// duplicated. Unique among the entity kinds here.
	if sectionID != 0 {
		existing, err := im.svc.EntryTypeByHandle(ctx, sectionID, handle)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			et = existing
		}
	}

	et.Name = docString(desc, "name")
	if docHas(desc, "titleLabel") {
		et.HasTitleField = true
		et.TitleLabel = docString(desc, "titleLabel")
		et.TitleFormat = ""
	} else {
		et.HasTitleField = false
		et.TitleFormat = docString(desc, "titleFormat")
		et.TitleLabel = ""
	}

	if layout, err := im.layoutFromDoc(desc, rawDesc, schema.ElementEntry, true); err != nil {
		return nil, err
	} else if layout != nil {
		et.FieldLayout = layout
	}

	return et, nil
}

// --- asset sources ---

func (im *Importer) importAssetSources(ctx context.Context, doc map[string]any, raw rawDocument, result *ImportResult) {
	for i, entry := range docList(doc, "sources") {
		desc, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		source := schema.AssetSource{
			Name: docString(desc, "name"),
			Type: docString(desc, "type"),
		}
		source.Handle = docString(desc, "handle")
		if source.Handle == "" {
			source.Handle = ConstructHandle(source.Name)
		}
		if settings, ok := desc["settings"].(map[string]any); ok {
			source.Settings = settings
		}

		layout, err := im.layoutFromDoc(desc, rawAt(raw.Sources, i), schema.ElementAsset, true)
		if err == nil {
			source.FieldLayout = layout
			err = im.svc.SaveAssetSource(ctx, &source)
		}

		notice := Notice{Type: "Asset Source", Name: source.Name, Result: err == nil, Errors: false}
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			notice.Errors = verr.Errors
		}
		result.Notices = append(result.Notices, notice)
	}
}

// --- asset transforms ---

func (im *Importer) importAssetTransforms(ctx context.Context, doc map[string]any, result *ImportResult) {
	for _, entry := range docList(doc, "transforms") {
		desc, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		result.Notices = append(result.Notices, Notice{
			Type:   "Asset Transform",
			Name:   docString(desc, "name"),
			Result: im.addAssetTransform(ctx, desc),
			Errors: false,
		})
	}
}

func (im *Importer) addAssetTransform(ctx context.Context, desc map[string]any) bool {
	transform := schema.AssetTransform{Name: docString(desc, "name")}
	transform.Handle = docString(desc, "handle")
	if transform.Handle == "" {
		transform.Handle = ConstructHandle(transform.Name)
	}

	// At least one dimension is required; without it the transform is
	// abandoned before any save attempt.
	transform.Width = docInt64Ptr(desc, "width")
	transform.Height = docInt64Ptr(desc, "height")
	if transform.Width == nil && transform.Height == nil {
		return false
	}

	transform.Mode = docString(desc, "mode")
	transform.Position = docString(desc, "position")
	if quality := docInt64Ptr(desc, "quality"); quality != nil {
		clamped := *quality
		if clamped < 1 {
			clamped = 1
		} else if clamped > 100 {
			clamped = 100
		}
		transform.Quality = &clamped
	}
	transform.Format = docStringPtr(desc, "format")

	return im.svc.SaveAssetTransform(ctx, &transform) == nil
}

// --- global sets ---

func (im *Importer) importGlobalSets(ctx context.Context, doc map[string]any, raw rawDocument, result *ImportResult) {
	for i, entry := range docList(doc, "globals") {
		desc, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		globalSet := schema.GlobalSet{Name: docString(desc, "name")}
		globalSet.Handle = docString(desc, "handle")
		if globalSet.Handle == "" {
			globalSet.Handle = ConstructHandle(globalSet.Name)
		}

		// Global sets never honor requiredFields; layouts import with
		// nothing marked required.
		layout, err := im.layoutFromDoc(desc, rawAt(raw.Globals, i), schema.ElementGlobalSet, false)
		if err == nil {
			globalSet.FieldLayout = layout
			err = im.svc.SaveGlobalSet(ctx, &globalSet)
		}

		result.Notices = append(result.Notices, Notice{
			Type:   "GlobalSet",
			Name:   globalSet.Name,
			Result: err == nil,
			Errors: false,
		})
	}
}

// --- shared builders ---

// layoutFromDoc assembles a field layout when the description carries
// one, pulling ordered tabs from the raw document bytes.
func (im *Importer) layoutFromDoc(desc map[string]any, rawDesc json.RawMessage, elementType string, withRequired bool) (*schema.FieldLayout, error) {
	if !docHas(desc, "fieldLayout") || rawDesc == nil {
		return nil, nil
	}

	var holder struct {
		FieldLayout json.RawMessage `json:"fieldLayout"`
	}
	if err := json.Unmarshal(rawDesc, &holder); err != nil {
		return nil, fmt.Errorf("parse field layout: %w", err)
	}
	tabs, err := parseFieldLayout(holder.FieldLayout)
	if err != nil {
		return nil, err
	}

	var required []string
	if withRequired {
		for _, entry := range docList(desc, "requiredFields") {
			if ref, ok := entry.(string); ok {
				required = append(required, ref)
			}
		}
	}

	return AssembleLayout(tabs, required, elementType, im.fields), nil
}

// groupID resolves a group name against the snapshot. A miss falls back
// to the first known group. TODO: confirm upstream whether the fallback
// is intentional; documents relying on it exist, so it stays for now.
func (im *Importer) groupID(name string) int64 {
	if len(im.groups) == 0 {
		return 0
	}
	for _, group := range im.groups {
		if group.Name == name {
			return group.ID
		}
	}
	return im.groups[0].ID
}

// sectionID resolves a section reference by handle or name against the
// snapshot; zero when nothing matches.
func (im *Importer) sectionID(ref string) int64 {
	for _, section := range im.sections {
		if section.Handle == ref {
			return section.ID
		}
		if section.Name == ref {
			return section.ID
		}
	}
	return 0
}

// --- document accessors ---

func docList(doc map[string]any, key string) []any {
	if doc == nil {
		return nil
	}
	list, _ := doc[key].([]any)
	return list
}

// docHas mirrors PHP isset: a key set to null counts as absent.
func docHas(m map[string]any, key string) bool {
	v, ok := m[key]
	return ok && v != nil
}

func docString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

func docStringPtr(m map[string]any, key string) *string {
	if m == nil {
		return nil
	}
	if s, ok := m[key].(string); ok {
		return &s
	}
	return nil
}

func docBool(m map[string]any, key string, fallback bool) bool {
	if m == nil {
		return fallback
	}
	switch v := m[key].(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		return v == "1" || v == "true"
	}
	return fallback
}

func docInt64Ptr(m map[string]any, key string) *int64 {
	if m == nil {
		return nil
	}
	switch v := m[key].(type) {
	case float64:
		n := int64(v)
		return &n
	case string:
		if v == "" {
			return nil
		}
		var n int64
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return &n
		}
	}
	return nil
}

func rawAt(list []json.RawMessage, i int) json.RawMessage {
	if i < 0 || i >= len(list) {
		return nil
	}
	return list[i]
}
