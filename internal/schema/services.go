package schema

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// ValidationError carries the structured rejection payload from a save.
// Fields can additionally fail on their type-specific settings.
type ValidationError struct {
	Errors         map[string][]string `json:"errors"`
	SettingsErrors map[string][]string `json:"settingsErrors,omitempty"`
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Errors)+len(e.SettingsErrors))
	for k := range e.Errors {
		keys = append(keys, k)
	}
	for k := range e.SettingsErrors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("validation failed: %s", strings.Join(keys, ", "))
}

// Services is the schema store the bridge runs against. Save methods
// assign IDs on insert and return *ValidationError when the store
// rejects the entity. Lookup methods return (nil, nil) when nothing
// matches; soft-fail resolution depends on that.
type Services interface {
	SaveFieldGroup(ctx context.Context, g *FieldGroup) error
	AllFieldGroups(ctx context.Context) ([]FieldGroup, error)

	SaveField(ctx context.Context, f *Field) error
	AllFields(ctx context.Context) ([]Field, error)
	FieldByID(ctx context.Context, id int64) (*Field, error)
	FieldByHandle(ctx context.Context, handle string) (*Field, error)

	SaveSection(ctx context.Context, s *Section) error
	AllSections(ctx context.Context) ([]Section, error)
	SectionByID(ctx context.Context, id int64) (*Section, error)
	SectionByHandle(ctx context.Context, handle string) (*Section, error)

	SaveEntryType(ctx context.Context, et *EntryType) error
	EntryTypeByHandle(ctx context.Context, sectionID int64, handle string) (*EntryType, error)
	EntryTypesBySection(ctx context.Context, sectionID int64) ([]EntryType, error)

	SaveAssetSource(ctx context.Context, src *AssetSource) error
	AllAssetSources(ctx context.Context) ([]AssetSource, error)
	AssetSourceByID(ctx context.Context, id int64) (*AssetSource, error)
	AssetSourceByHandle(ctx context.Context, handle string) (*AssetSource, error)

	SaveAssetTransform(ctx context.Context, tr *AssetTransform) error

	SaveGlobalSet(ctx context.Context, gs *GlobalSet) error

	CategoryGroupByHandle(ctx context.Context, handle string) (*RefGroup, error)
	CategoryGroupByID(ctx context.Context, id int64) (*RefGroup, error)
	TagGroupByHandle(ctx context.Context, handle string) (*RefGroup, error)
	TagGroupByID(ctx context.Context, id int64) (*RefGroup, error)
	UserGroupByHandle(ctx context.Context, handle string) (*RefGroup, error)
	UserGroupByID(ctx context.Context, id int64) (*RefGroup, error)

	AllLocales(ctx context.Context) ([]Locale, error)
	PrimaryLocale(ctx context.Context) (string, error)
}
