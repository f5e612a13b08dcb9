package schema

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"schemaport/internal/store"
)

// SQLServices implements Services against the schema system tables.
type SQLServices struct {
	store *store.Store
}

func NewSQLServices(s *store.Store) *SQLServices {
	return &SQLServices{store: s}
}

// --- Field groups ---

func (s *SQLServices) SaveFieldGroup(ctx context.Context, g *FieldGroup) error {
	if g.Name == "" {
		return &ValidationError{Errors: map[string][]string{"name": {"Name cannot be blank."}}}
	}
	if g.ID == 0 {
		id, err := s.store.Dialect.InsertID(ctx, s.store.DB,
			"INSERT INTO _field_groups (name) VALUES ($1)", g.Name)
		if err != nil {
			return fmt.Errorf("insert field group: %w", err)
		}
		g.ID = id
		return nil
	}
	_, err := store.Exec(ctx, s.store.DB,
		s.rebind("UPDATE _field_groups SET name = $1, updated_at = "+s.store.Dialect.NowExpr()+" WHERE id = $2"),
		g.Name, g.ID)
	if err != nil {
		return fmt.Errorf("update field group: %w", err)
	}
	return nil
}

func (s *SQLServices) AllFieldGroups(ctx context.Context) ([]FieldGroup, error) {
	rows, err := store.QueryRows(ctx, s.store.DB,
		"SELECT id, name FROM _field_groups ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("load field groups: %w", err)
	}
	groups := make([]FieldGroup, 0, len(rows))
	for _, row := range rows {
		groups = append(groups, FieldGroup{ID: asInt64(row["id"]), Name: asString(row["name"])})
	}
	return groups, nil
}

// --- Fields ---

func (s *SQLServices) SaveField(ctx context.Context, f *Field) error {
	verr := &ValidationError{Errors: map[string][]string{}}
	if f.Name == "" {
		verr.Errors["name"] = []string{"Name cannot be blank."}
	}
	if f.Handle == "" {
		verr.Errors["handle"] = []string{"Handle cannot be blank."}
	}
	if f.Type == "" {
		verr.Errors["type"] = []string{"Type cannot be blank."}
	}
	if len(verr.Errors) > 0 {
		return verr
	}

	settingsJSON, err := json.Marshal(f.Settings)
	if err != nil {
		return fmt.Errorf("marshal field settings: %w", err)
	}

	if f.ID == 0 {
		id, err := s.store.Dialect.InsertID(ctx, s.store.DB,
			`INSERT INTO _fields (group_id, name, handle, instructions, translatable, required, type, settings)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			nullableID(f.GroupID), f.Name, f.Handle, f.Instructions, f.Translatable, f.Required, f.Type, string(settingsJSON))
		if err != nil {
			return s.mapSaveError(err, "handle", f.Handle)
		}
		f.ID = id
		return nil
	}
	_, err = store.Exec(ctx, s.store.DB,
		s.rebind(`UPDATE _fields SET group_id = $1, name = $2, handle = $3, instructions = $4,
		 translatable = $5, required = $6, type = $7, settings = $8, updated_at = `+s.store.Dialect.NowExpr()+` WHERE id = $9`),
		nullableID(f.GroupID), f.Name, f.Handle, f.Instructions, f.Translatable, f.Required, f.Type, string(settingsJSON), f.ID)
	if err != nil {
		return s.mapSaveError(err, "handle", f.Handle)
	}
	return nil
}

func (s *SQLServices) AllFields(ctx context.Context) ([]Field, error) {
	rows, err := store.QueryRows(ctx, s.store.DB,
		"SELECT id, group_id, name, handle, instructions, translatable, required, type, settings FROM _fields ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("load fields: %w", err)
	}
	fields := make([]Field, 0, len(rows))
	for _, row := range rows {
		fields = append(fields, scanField(row))
	}
	return fields, nil
}

func (s *SQLServices) FieldByID(ctx context.Context, id int64) (*Field, error) {
	return s.fieldWhere(ctx, "id = $1", id)
}

func (s *SQLServices) FieldByHandle(ctx context.Context, handle string) (*Field, error) {
	return s.fieldWhere(ctx, "handle = $1", handle)
}

func (s *SQLServices) fieldWhere(ctx context.Context, cond string, arg any) (*Field, error) {
	row, err := store.QueryRow(ctx, s.store.DB,
		s.rebind("SELECT id, group_id, name, handle, instructions, translatable, required, type, settings FROM _fields WHERE "+cond), arg)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load field: %w", err)
	}
	f := scanField(row)
	return &f, nil
}

func scanField(row map[string]any) Field {
	return Field{
		ID:           asInt64(row["id"]),
		GroupID:      asInt64(row["group_id"]),
		Name:         asString(row["name"]),
		Handle:       asString(row["handle"]),
		Instructions: asString(row["instructions"]),
		Translatable: asBool(row["translatable"]),
		Required:     asBool(row["required"]),
		Type:         asString(row["type"]),
		Settings:     asJSONMap(row["settings"]),
	}
}

// --- Sections ---

func (s *SQLServices) SaveSection(ctx context.Context, sec *Section) error {
	verr := &ValidationError{Errors: map[string][]string{}}
	if sec.Name == "" {
		verr.Errors["name"] = []string{"Name cannot be blank."}
	}
	if sec.Handle == "" {
		verr.Errors["handle"] = []string{"Handle cannot be blank."}
	}
	switch sec.Type {
	case SectionSingle, SectionChannel, SectionStructure:
	default:
		verr.Errors["type"] = []string{fmt.Sprintf("Type %q is not valid.", sec.Type)}
	}
	if len(verr.Errors) > 0 {
		return verr
	}

	if sec.ID == 0 {
		id, err := s.store.Dialect.InsertID(ctx, s.store.DB,
			`INSERT INTO _sections (name, handle, type, enable_versioning, has_urls, template, max_levels)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			sec.Name, sec.Handle, sec.Type, sec.EnableVersioning, sec.HasUrls, sec.Template, sec.MaxLevels)
		if err != nil {
			return s.mapSaveError(err, "handle", sec.Handle)
		}
		sec.ID = id
	} else {
		_, err := store.Exec(ctx, s.store.DB,
			s.rebind(`UPDATE _sections SET name = $1, handle = $2, type = $3, enable_versioning = $4,
			 has_urls = $5, template = $6, max_levels = $7, updated_at = `+s.store.Dialect.NowExpr()+` WHERE id = $8`),
			sec.Name, sec.Handle, sec.Type, sec.EnableVersioning, sec.HasUrls, sec.Template, sec.MaxLevels, sec.ID)
		if err != nil {
			return s.mapSaveError(err, "handle", sec.Handle)
		}
	}

	// Replace locale rows wholesale; the section model is the source of truth.
	if _, err := store.Exec(ctx, s.store.DB,
		s.rebind("DELETE FROM _section_locales WHERE section_id = $1"), sec.ID); err != nil {
		return fmt.Errorf("clear section locales: %w", err)
	}
	for _, loc := range sec.Locales {
		_, err := store.Exec(ctx, s.store.DB,
			s.rebind(`INSERT INTO _section_locales (section_id, locale, enabled_by_default, url_format, nested_url_format)
			 VALUES ($1, $2, $3, $4, $5)`),
			sec.ID, loc.Locale, loc.EnabledByDefault, loc.URLFormat, loc.NestedURLFormat)
		if err != nil {
			return fmt.Errorf("insert section locale %s: %w", loc.Locale, err)
		}
	}
	return nil
}

func (s *SQLServices) AllSections(ctx context.Context) ([]Section, error) {
	rows, err := store.QueryRows(ctx, s.store.DB,
		"SELECT id, name, handle, type, enable_versioning, has_urls, template, max_levels FROM _sections ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("load sections: %w", err)
	}
	sections := make([]Section, 0, len(rows))
	for _, row := range rows {
		sec := scanSection(row)
		if err := s.loadSectionLocales(ctx, &sec); err != nil {
			return nil, err
		}
		sections = append(sections, sec)
	}
	return sections, nil
}

func (s *SQLServices) SectionByID(ctx context.Context, id int64) (*Section, error) {
	return s.sectionWhere(ctx, "id = $1", id)
}

func (s *SQLServices) SectionByHandle(ctx context.Context, handle string) (*Section, error) {
	return s.sectionWhere(ctx, "handle = $1", handle)
}

func (s *SQLServices) sectionWhere(ctx context.Context, cond string, arg any) (*Section, error) {
	row, err := store.QueryRow(ctx, s.store.DB,
		s.rebind("SELECT id, name, handle, type, enable_versioning, has_urls, template, max_levels FROM _sections WHERE "+cond), arg)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load section: %w", err)
	}
	sec := scanSection(row)
	if err := s.loadSectionLocales(ctx, &sec); err != nil {
		return nil, err
	}
	return &sec, nil
}

func (s *SQLServices) loadSectionLocales(ctx context.Context, sec *Section) error {
	rows, err := store.QueryRows(ctx, s.store.DB,
		s.rebind("SELECT locale, enabled_by_default, url_format, nested_url_format FROM _section_locales WHERE section_id = $1"),
		sec.ID)
	if err != nil {
		return fmt.Errorf("load section locales: %w", err)
	}
	if len(rows) == 0 {
		return nil
	}
	sec.Locales = make(map[string]SectionLocale, len(rows))
	for _, row := range rows {
		loc := SectionLocale{
			Locale:           asString(row["locale"]),
			EnabledByDefault: asBool(row["enabled_by_default"]),
			URLFormat:        asNullableString(row["url_format"]),
			NestedURLFormat:  asNullableString(row["nested_url_format"]),
		}
		sec.Locales[loc.Locale] = loc
	}
	return nil
}

func scanSection(row map[string]any) Section {
	return Section{
		ID:               asInt64(row["id"]),
		Name:             asString(row["name"]),
		Handle:           asString(row["handle"]),
		Type:             asString(row["type"]),
		EnableVersioning: asBool(row["enable_versioning"]),
		HasUrls:          asBool(row["has_urls"]),
		Template:         asString(row["template"]),
		MaxLevels:        asNullableInt64(row["max_levels"]),
	}
}

// --- Entry types ---

func (s *SQLServices) SaveEntryType(ctx context.Context, et *EntryType) error {
	verr := &ValidationError{Errors: map[string][]string{}}
	if et.Name == "" {
		verr.Errors["name"] = []string{"Name cannot be blank."}
	}
	if et.SectionID == 0 {
		verr.Errors["sectionId"] = []string{"Section is required."}
	}
	if len(verr.Errors) > 0 {
		return verr
	}

	layoutJSON, err := marshalLayout(et.FieldLayout)
	if err != nil {
		return err
	}

	if et.ID == 0 {
		id, err := s.store.Dialect.InsertID(ctx, s.store.DB,
			`INSERT INTO _entry_types (section_id, name, handle, has_title_field, title_label, title_format, field_layout)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			et.SectionID, et.Name, et.Handle, et.HasTitleField, et.TitleLabel, et.TitleFormat, layoutJSON)
		if err != nil {
			return s.mapSaveError(err, "handle", et.Handle)
		}
		et.ID = id
		return nil
	}
	_, err = store.Exec(ctx, s.store.DB,
		s.rebind(`UPDATE _entry_types SET section_id = $1, name = $2, handle = $3, has_title_field = $4,
		 title_label = $5, title_format = $6, field_layout = $7, updated_at = `+s.store.Dialect.NowExpr()+` WHERE id = $8`),
		et.SectionID, et.Name, et.Handle, et.HasTitleField, et.TitleLabel, et.TitleFormat, layoutJSON, et.ID)
	if err != nil {
		return s.mapSaveError(err, "handle", et.Handle)
	}
	return nil
}

func (s *SQLServices) EntryTypeByHandle(ctx context.Context, sectionID int64, handle string) (*EntryType, error) {
	row, err := store.QueryRow(ctx, s.store.DB,
		s.rebind(`SELECT id, section_id, name, handle, has_title_field, title_label, title_format, field_layout
		 FROM _entry_types WHERE section_id = $1 AND handle = $2`), sectionID, handle)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load entry type: %w", err)
	}
	et := scanEntryType(row)
	return &et, nil
}

func (s *SQLServices) EntryTypesBySection(ctx context.Context, sectionID int64) ([]EntryType, error) {
	rows, err := store.QueryRows(ctx, s.store.DB,
		s.rebind(`SELECT id, section_id, name, handle, has_title_field, title_label, title_format, field_layout
		 FROM _entry_types WHERE section_id = $1 ORDER BY id`), sectionID)
	if err != nil {
		return nil, fmt.Errorf("load entry types: %w", err)
	}
	types := make([]EntryType, 0, len(rows))
	for _, row := range rows {
		types = append(types, scanEntryType(row))
	}
	return types, nil
}

func scanEntryType(row map[string]any) EntryType {
	return EntryType{
		ID:            asInt64(row["id"]),
		SectionID:     asInt64(row["section_id"]),
		Name:          asString(row["name"]),
		Handle:        asString(row["handle"]),
		HasTitleField: asBool(row["has_title_field"]),
		TitleLabel:    asString(row["title_label"]),
		TitleFormat:   asString(row["title_format"]),
		FieldLayout:   unmarshalLayout(row["field_layout"]),
	}
}

// --- Asset sources ---

func (s *SQLServices) SaveAssetSource(ctx context.Context, src *AssetSource) error {
	verr := &ValidationError{Errors: map[string][]string{}}
	if src.Name == "" {
		verr.Errors["name"] = []string{"Name cannot be blank."}
	}
	if src.Handle == "" {
		verr.Errors["handle"] = []string{"Handle cannot be blank."}
	}
	if len(verr.Errors) > 0 {
		return verr
	}

	settingsJSON, err := json.Marshal(src.Settings)
	if err != nil {
		return fmt.Errorf("marshal source settings: %w", err)
	}
	layoutJSON, err := marshalLayout(src.FieldLayout)
	if err != nil {
		return err
	}

	if src.ID == 0 {
		id, err := s.store.Dialect.InsertID(ctx, s.store.DB,
			`INSERT INTO _asset_sources (name, handle, type, settings, field_layout) VALUES ($1, $2, $3, $4, $5)`,
			src.Name, src.Handle, src.Type, string(settingsJSON), layoutJSON)
		if err != nil {
			return s.mapSaveError(err, "handle", src.Handle)
		}
		src.ID = id
		return nil
	}
	_, err = store.Exec(ctx, s.store.DB,
		s.rebind(`UPDATE _asset_sources SET name = $1, handle = $2, type = $3, settings = $4, field_layout = $5,
		 updated_at = `+s.store.Dialect.NowExpr()+` WHERE id = $6`),
		src.Name, src.Handle, src.Type, string(settingsJSON), layoutJSON, src.ID)
	if err != nil {
		return s.mapSaveError(err, "handle", src.Handle)
	}
	return nil
}

func (s *SQLServices) AllAssetSources(ctx context.Context) ([]AssetSource, error) {
	rows, err := store.QueryRows(ctx, s.store.DB,
		"SELECT id, name, handle, type, settings, field_layout FROM _asset_sources ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("load asset sources: %w", err)
	}
	sources := make([]AssetSource, 0, len(rows))
	for _, row := range rows {
		sources = append(sources, scanAssetSource(row))
	}
	return sources, nil
}

func (s *SQLServices) AssetSourceByID(ctx context.Context, id int64) (*AssetSource, error) {
	return s.assetSourceWhere(ctx, "id = $1", id)
}

func (s *SQLServices) AssetSourceByHandle(ctx context.Context, handle string) (*AssetSource, error) {
	return s.assetSourceWhere(ctx, "handle = $1", handle)
}

func (s *SQLServices) assetSourceWhere(ctx context.Context, cond string, arg any) (*AssetSource, error) {
	row, err := store.QueryRow(ctx, s.store.DB,
		s.rebind("SELECT id, name, handle, type, settings, field_layout FROM _asset_sources WHERE "+cond), arg)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load asset source: %w", err)
	}
	src := scanAssetSource(row)
	return &src, nil
}

func scanAssetSource(row map[string]any) AssetSource {
	return AssetSource{
		ID:          asInt64(row["id"]),
		Name:        asString(row["name"]),
		Handle:      asString(row["handle"]),
		Type:        asString(row["type"]),
		Settings:    asJSONMap(row["settings"]),
		FieldLayout: unmarshalLayout(row["field_layout"]),
	}
}

// --- Asset transforms ---

func (s *SQLServices) SaveAssetTransform(ctx context.Context, tr *AssetTransform) error {
	verr := &ValidationError{Errors: map[string][]string{}}
	if tr.Name == "" {
		verr.Errors["name"] = []string{"Name cannot be blank."}
	}
	if tr.Handle == "" {
		verr.Errors["handle"] = []string{"Handle cannot be blank."}
	}
	if len(verr.Errors) > 0 {
		return verr
	}

	if tr.ID == 0 {
		id, err := s.store.Dialect.InsertID(ctx, s.store.DB,
			`INSERT INTO _asset_transforms (name, handle, width, height, mode, position, quality, format)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			tr.Name, tr.Handle, tr.Width, tr.Height, tr.Mode, tr.Position, tr.Quality, tr.Format)
		if err != nil {
			return s.mapSaveError(err, "handle", tr.Handle)
		}
		tr.ID = id
		return nil
	}
	_, err := store.Exec(ctx, s.store.DB,
		s.rebind(`UPDATE _asset_transforms SET name = $1, handle = $2, width = $3, height = $4, mode = $5,
		 position = $6, quality = $7, format = $8, updated_at = `+s.store.Dialect.NowExpr()+` WHERE id = $9`),
		tr.Name, tr.Handle, tr.Width, tr.Height, tr.Mode, tr.Position, tr.Quality, tr.Format, tr.ID)
	if err != nil {
		return s.mapSaveError(err, "handle", tr.Handle)
	}
	return nil
}

// --- Global sets ---

func (s *SQLServices) SaveGlobalSet(ctx context.Context, gs *GlobalSet) error {
	verr := &ValidationError{Errors: map[string][]string{}}
	if gs.Name == "" {
		verr.Errors["name"] = []string{"Name cannot be blank."}
	}
	if gs.Handle == "" {
		verr.Errors["handle"] = []string{"Handle cannot be blank."}
	}
	if len(verr.Errors) > 0 {
		return verr
	}

	layoutJSON, err := marshalLayout(gs.FieldLayout)
	if err != nil {
		return err
	}

	if gs.ID == 0 {
		id, err := s.store.Dialect.InsertID(ctx, s.store.DB,
			`INSERT INTO _global_sets (name, handle, field_layout) VALUES ($1, $2, $3)`,
			gs.Name, gs.Handle, layoutJSON)
		if err != nil {
			return s.mapSaveError(err, "handle", gs.Handle)
		}
		gs.ID = id
		return nil
	}
	_, err = store.Exec(ctx, s.store.DB,
		s.rebind(`UPDATE _global_sets SET name = $1, handle = $2, field_layout = $3,
		 updated_at = `+s.store.Dialect.NowExpr()+` WHERE id = $4`),
		gs.Name, gs.Handle, layoutJSON, gs.ID)
	if err != nil {
		return s.mapSaveError(err, "handle", gs.Handle)
	}
	return nil
}

// --- Reference groups ---

func (s *SQLServices) CategoryGroupByHandle(ctx context.Context, handle string) (*RefGroup, error) {
	return s.refGroupWhere(ctx, "_category_groups", "handle = $1", handle)
}

func (s *SQLServices) CategoryGroupByID(ctx context.Context, id int64) (*RefGroup, error) {
	return s.refGroupWhere(ctx, "_category_groups", "id = $1", id)
}

func (s *SQLServices) TagGroupByHandle(ctx context.Context, handle string) (*RefGroup, error) {
	return s.refGroupWhere(ctx, "_tag_groups", "handle = $1", handle)
}

func (s *SQLServices) TagGroupByID(ctx context.Context, id int64) (*RefGroup, error) {
	return s.refGroupWhere(ctx, "_tag_groups", "id = $1", id)
}

func (s *SQLServices) UserGroupByHandle(ctx context.Context, handle string) (*RefGroup, error) {
	return s.refGroupWhere(ctx, "_user_groups", "handle = $1", handle)
}

func (s *SQLServices) UserGroupByID(ctx context.Context, id int64) (*RefGroup, error) {
	return s.refGroupWhere(ctx, "_user_groups", "id = $1", id)
}

func (s *SQLServices) refGroupWhere(ctx context.Context, table, cond string, arg any) (*RefGroup, error) {
	row, err := store.QueryRow(ctx, s.store.DB,
		s.rebind("SELECT id, name, handle FROM "+table+" WHERE "+cond), arg)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", table, err)
	}
	return &RefGroup{ID: asInt64(row["id"]), Name: asString(row["name"]), Handle: asString(row["handle"])}, nil
}

// --- Locales ---

func (s *SQLServices) AllLocales(ctx context.Context) ([]Locale, error) {
	rows, err := store.QueryRows(ctx, s.store.DB,
		"SELECT id, is_primary FROM _locales ORDER BY sort_order, id")
	if err != nil {
		return nil, fmt.Errorf("load locales: %w", err)
	}
	locales := make([]Locale, 0, len(rows))
	for _, row := range rows {
		locales = append(locales, Locale{ID: asString(row["id"]), Primary: asBool(row["is_primary"])})
	}
	return locales, nil
}

func (s *SQLServices) PrimaryLocale(ctx context.Context) (string, error) {
	locales, err := s.AllLocales(ctx)
	if err != nil {
		return "", err
	}
	for _, loc := range locales {
		if loc.Primary {
			return loc.ID, nil
		}
	}
	if len(locales) > 0 {
		return locales[0].ID, nil
	}
	return "", fmt.Errorf("no locales configured")
}

// --- helpers ---

func (s *SQLServices) rebind(query string) string {
	return s.store.Dialect.Rebind(query)
}

// mapSaveError converts a unique violation into a ValidationError so the
// import pipeline records it per-entity instead of aborting the run.
func (s *SQLServices) mapSaveError(err error, attr, value string) error {
	mapped := s.store.Dialect.MapError(err)
	if errors.Is(mapped, store.ErrUniqueViolation) {
		return &ValidationError{Errors: map[string][]string{
			attr: {fmt.Sprintf("%q has already been taken.", value)},
		}}
	}
	return mapped
}

func marshalLayout(layout *FieldLayout) (any, error) {
	if layout == nil {
		return nil, nil
	}
	b, err := json.Marshal(layout)
	if err != nil {
		return nil, fmt.Errorf("marshal field layout: %w", err)
	}
	return string(b), nil
}

func unmarshalLayout(v any) *FieldLayout {
	s := asString(v)
	if s == "" {
		return nil
	}
	var layout FieldLayout
	if err := json.Unmarshal([]byte(s), &layout); err != nil {
		return nil
	}
	return &layout
}

func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

func asString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	}
	return ""
}

func asNullableString(v any) *string {
	if v == nil {
		return nil
	}
	s := asString(v)
	return &s
}

func asInt64(v any) int64 {
	switch val := v.(type) {
	case int64:
		return val
	case int:
		return int64(val)
	case float64:
		return int64(val)
	}
	return 0
}

func asNullableInt64(v any) *int64 {
	if v == nil {
		return nil
	}
	n := asInt64(v)
	return &n
}

// asBool handles SQLite storing booleans as 0/1 integers.
func asBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case int64:
		return val != 0
	case int:
		return val != 0
	case float64:
		return val != 0
	}
	return false
}

func asJSONMap(v any) map[string]any {
	s := asString(v)
	if s == "" {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil
	}
	return m
}
