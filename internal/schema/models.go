package schema

// Element type tags for field layouts.
const (
	ElementEntry     = "Entry"
	ElementAsset     = "Asset"
	ElementGlobalSet = "GlobalSet"
)

// UnknownFieldID is the sentinel stored in a layout when a field
// reference cannot be resolved.
const UnknownFieldID int64 = 0

// Section types.
const (
	SectionSingle    = "single"
	SectionChannel   = "channel"
	SectionStructure = "structure"
)

type FieldGroup struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Field is a schema field definition. Settings is an arbitrary nested
// structure whose shape depends on Type; for relation types it embeds
// composite reference strings ("section:14", "folder:3", ...).
type Field struct {
	ID           int64          `json:"id"`
	GroupID      int64          `json:"groupId"`
	Name         string         `json:"name"`
	Handle       string         `json:"handle"`
	Instructions string         `json:"instructions,omitempty"`
	Translatable bool           `json:"translatable,omitempty"`
	Required     bool           `json:"required,omitempty"`
	Type         string         `json:"type"`
	Settings     map[string]any `json:"settings,omitempty"`
}

type Section struct {
	ID               int64                    `json:"id"`
	Name             string                   `json:"name"`
	Handle           string                   `json:"handle"`
	Type             string                   `json:"type"`
	EnableVersioning bool                     `json:"enableVersioning"`
	HasUrls          bool                     `json:"hasUrls,omitempty"`
	Template         string                   `json:"template,omitempty"`
	MaxLevels        *int64                   `json:"maxLevels,omitempty"`
	Locales          map[string]SectionLocale `json:"locales,omitempty"`
}

type SectionLocale struct {
	Locale           string  `json:"locale"`
	EnabledByDefault bool    `json:"enabledByDefault"`
	URLFormat        *string `json:"urlFormat,omitempty"`
	NestedURLFormat  *string `json:"nestedUrlFormat,omitempty"`
}

// EntryType is a named schema variant within a section. Exactly one of
// TitleLabel/TitleFormat is meaningful, selected by HasTitleField.
type EntryType struct {
	ID            int64        `json:"id"`
	SectionID     int64        `json:"sectionId"`
	Name          string       `json:"name"`
	Handle        string       `json:"handle"`
	HasTitleField bool         `json:"hasTitleField"`
	TitleLabel    string       `json:"titleLabel,omitempty"`
	TitleFormat   string       `json:"titleFormat,omitempty"`
	FieldLayout   *FieldLayout `json:"fieldLayout,omitempty"`
}

type AssetSource struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Handle      string         `json:"handle"`
	Type        string         `json:"type"`
	Settings    map[string]any `json:"settings,omitempty"`
	FieldLayout *FieldLayout   `json:"fieldLayout,omitempty"`
}

type AssetTransform struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Handle   string  `json:"handle"`
	Width    *int64  `json:"width,omitempty"`
	Height   *int64  `json:"height,omitempty"`
	Mode     string  `json:"mode,omitempty"`
	Position string  `json:"position,omitempty"`
	Quality  *int64  `json:"quality,omitempty"`
	Format   *string `json:"format,omitempty"`
}

type GlobalSet struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Handle      string       `json:"handle"`
	FieldLayout *FieldLayout `json:"fieldLayout,omitempty"`
}

// FieldLayout is an ordered grouping of field IDs into named tabs,
// tagged with the element type it belongs to. Tab and field order is
// semantically meaningful.
type FieldLayout struct {
	Type string      `json:"type"`
	Tabs []LayoutTab `json:"tabs"`
}

type LayoutTab struct {
	Name     string  `json:"name"`
	FieldIDs []int64 `json:"fieldIds"`
	Required []int64 `json:"requiredFieldIds,omitempty"`
}

// IsRequired reports whether a field ID is marked required on this tab.
func (t LayoutTab) IsRequired(fieldID int64) bool {
	for _, id := range t.Required {
		if id == fieldID {
			return true
		}
	}
	return false
}

// RefGroup is a lightweight category/tag/user group used for reference
// resolution only.
type RefGroup struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Handle string `json:"handle"`
}

type Locale struct {
	ID      string `json:"id"`
	Primary bool   `json:"primary"`
}
