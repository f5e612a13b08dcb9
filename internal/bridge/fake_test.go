package bridge

import (
	"context"

	"schemaport/internal/schema"
)

// fakeServices is an in-memory schema.Services for exercising the
// import and export pipelines without a database.
type fakeServices struct {
	nextID int64

	groups     []schema.FieldGroup
	fields     []schema.Field
	sections   []schema.Section
	entryTypes []schema.EntryType
	sources    []schema.AssetSource
	transforms []schema.AssetTransform
	globalSets []schema.GlobalSet

	categoryGroups []schema.RefGroup
	tagGroups      []schema.RefGroup
	userGroups     []schema.RefGroup

	locales []schema.Locale

	// Injected failures, keyed by entity name.
	fieldErrors   map[string]*schema.ValidationError
	sectionErrors map[string]*schema.ValidationError
}

func newFakeServices() *fakeServices {
	return &fakeServices{
		locales: []schema.Locale{{ID: "en", Primary: true}},
	}
}

func (f *fakeServices) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeServices) SaveFieldGroup(ctx context.Context, g *schema.FieldGroup) error {
	if g.ID == 0 {
		g.ID = f.id()
		f.groups = append(f.groups, *g)
		return nil
	}
	for i := range f.groups {
		if f.groups[i].ID == g.ID {
			f.groups[i] = *g
		}
	}
	return nil
}

func (f *fakeServices) AllFieldGroups(ctx context.Context) ([]schema.FieldGroup, error) {
	return append([]schema.FieldGroup(nil), f.groups...), nil
}

func (f *fakeServices) SaveField(ctx context.Context, fl *schema.Field) error {
	if verr, ok := f.fieldErrors[fl.Name]; ok {
		return verr
	}
	if fl.ID == 0 {
		fl.ID = f.id()
		f.fields = append(f.fields, *fl)
		return nil
	}
	for i := range f.fields {
		if f.fields[i].ID == fl.ID {
			f.fields[i] = *fl
		}
	}
	return nil
}

func (f *fakeServices) AllFields(ctx context.Context) ([]schema.Field, error) {
	return append([]schema.Field(nil), f.fields...), nil
}

func (f *fakeServices) FieldByID(ctx context.Context, id int64) (*schema.Field, error) {
	for i := range f.fields {
		if f.fields[i].ID == id {
			fl := f.fields[i]
			return &fl, nil
		}
	}
	return nil, nil
}

func (f *fakeServices) FieldByHandle(ctx context.Context, handle string) (*schema.Field, error) {
	for i := range f.fields {
		if f.fields[i].Handle == handle {
			fl := f.fields[i]
			return &fl, nil
		}
	}
	return nil, nil
}

func (f *fakeServices) SaveSection(ctx context.Context, s *schema.Section) error {
	if verr, ok := f.sectionErrors[s.Name]; ok {
		return verr
	}
	if s.ID == 0 {
		s.ID = f.id()
		f.sections = append(f.sections, *s)
		return nil
	}
	for i := range f.sections {
		if f.sections[i].ID == s.ID {
			f.sections[i] = *s
		}
	}
	return nil
}

func (f *fakeServices) AllSections(ctx context.Context) ([]schema.Section, error) {
	return append([]schema.Section(nil), f.sections...), nil
}

func (f *fakeServices) SectionByID(ctx context.Context, id int64) (*schema.Section, error) {
	for i := range f.sections {
		if f.sections[i].ID == id {
			s := f.sections[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (f *fakeServices) SectionByHandle(ctx context.Context, handle string) (*schema.Section, error) {
	for i := range f.sections {
		if f.sections[i].Handle == handle {
			s := f.sections[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (f *fakeServices) SaveEntryType(ctx context.Context, et *schema.EntryType) error {
	if et.ID == 0 {
		et.ID = f.id()
		f.entryTypes = append(f.entryTypes, *et)
		return nil
	}
	for i := range f.entryTypes {
		if f.entryTypes[i].ID == et.ID {
			f.entryTypes[i] = *et
		}
	}
	return nil
}

func (f *fakeServices) EntryTypeByHandle(ctx context.Context, sectionID int64, handle string) (*schema.EntryType, error) {
	for i := range f.entryTypes {
		if f.entryTypes[i].SectionID == sectionID && f.entryTypes[i].Handle == handle {
			et := f.entryTypes[i]
			return &et, nil
		}
	}
	return nil, nil
}

func (f *fakeServices) EntryTypesBySection(ctx context.Context, sectionID int64) ([]schema.EntryType, error) {
	var out []schema.EntryType
	for _, et := range f.entryTypes {
		if et.SectionID == sectionID {
			out = append(out, et)
		}
	}
	return out, nil
}

func (f *fakeServices) SaveAssetSource(ctx context.Context, src *schema.AssetSource) error {
	if src.ID == 0 {
		src.ID = f.id()
		f.sources = append(f.sources, *src)
		return nil
	}
	for i := range f.sources {
		if f.sources[i].ID == src.ID {
			f.sources[i] = *src
		}
	}
	return nil
}

func (f *fakeServices) AllAssetSources(ctx context.Context) ([]schema.AssetSource, error) {
	return append([]schema.AssetSource(nil), f.sources...), nil
}

func (f *fakeServices) AssetSourceByID(ctx context.Context, id int64) (*schema.AssetSource, error) {
	for i := range f.sources {
		if f.sources[i].ID == id {
			s := f.sources[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (f *fakeServices) AssetSourceByHandle(ctx context.Context, handle string) (*schema.AssetSource, error) {
	for i := range f.sources {
		if f.sources[i].Handle == handle {
			s := f.sources[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (f *fakeServices) SaveAssetTransform(ctx context.Context, tr *schema.AssetTransform) error {
	if tr.ID == 0 {
		tr.ID = f.id()
	}
	f.transforms = append(f.transforms, *tr)
	return nil
}

func (f *fakeServices) SaveGlobalSet(ctx context.Context, gs *schema.GlobalSet) error {
	if gs.ID == 0 {
		gs.ID = f.id()
	}
	f.globalSets = append(f.globalSets, *gs)
	return nil
}

func refGroupByHandle(groups []schema.RefGroup, handle string) (*schema.RefGroup, error) {
	for i := range groups {
		if groups[i].Handle == handle {
			g := groups[i]
			return &g, nil
		}
	}
	return nil, nil
}

func refGroupByID(groups []schema.RefGroup, id int64) (*schema.RefGroup, error) {
	for i := range groups {
		if groups[i].ID == id {
			g := groups[i]
			return &g, nil
		}
	}
	return nil, nil
}

func (f *fakeServices) CategoryGroupByHandle(ctx context.Context, handle string) (*schema.RefGroup, error) {
	return refGroupByHandle(f.categoryGroups, handle)
}

func (f *fakeServices) CategoryGroupByID(ctx context.Context, id int64) (*schema.RefGroup, error) {
	return refGroupByID(f.categoryGroups, id)
}

func (f *fakeServices) TagGroupByHandle(ctx context.Context, handle string) (*schema.RefGroup, error) {
	return refGroupByHandle(f.tagGroups, handle)
}

func (f *fakeServices) TagGroupByID(ctx context.Context, id int64) (*schema.RefGroup, error) {
	return refGroupByID(f.tagGroups, id)
}

func (f *fakeServices) UserGroupByHandle(ctx context.Context, handle string) (*schema.RefGroup, error) {
	return refGroupByHandle(f.userGroups, handle)
}

func (f *fakeServices) UserGroupByID(ctx context.Context, id int64) (*schema.RefGroup, error) {
	return refGroupByID(f.userGroups, id)
}

func (f *fakeServices) AllLocales(ctx context.Context) ([]schema.Locale, error) {
	return append([]schema.Locale(nil), f.locales...), nil
}

func (f *fakeServices) PrimaryLocale(ctx context.Context) (string, error) {
	for _, l := range f.locales {
		if l.Primary {
			return l.ID, nil
		}
	}
	return "", nil
}
