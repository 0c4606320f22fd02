package storage

// Template описывает схему отчёта для одного типа оборудования.
type Template struct {
	ID            int                      `json:"ID" yaml:"-"`
	EquipmentType string                   `json:"equipment_type" yaml:"equipment_type"`
	Name          string                   `json:"name" yaml:"name"`
	ToggleGroup   string                   `json:"toggle_group" yaml:"toggle_group"`
	Checklist     []ChecklistItem          `json:"checklist" yaml:"checklist"`
	Sections      map[string]SectionSchema `json:"sections" yaml:"sections"`
	Defaults      map[string]bool          `json:"defaults" yaml:"defaults"`
	IsActive      bool                     `json:"is_active" yaml:"-"`
}

// ChecklistItem is a checklist row. Status is one of yes, no, na.
type ChecklistItem struct {
	ID      int    `json:"id" yaml:"id"`
	Item    string `json:"item" yaml:"item"`
	Status  string `json:"status" yaml:"status,omitempty"`
	Remarks string `json:"remarks" yaml:"remarks,omitempty"`
}

// SectionSchema declares either fixed sub-fields or a row template.
type SectionSchema struct {
	Title         string            `json:"title" yaml:"title"`
	Order         int               `json:"order" yaml:"order"`
	Fields        []string          `json:"fields,omitempty" yaml:"fields,omitempty"`
	FieldDefaults map[string]string `json:"field_defaults,omitempty" yaml:"field_defaults,omitempty"`
	Columns       []string          `json:"columns,omitempty" yaml:"columns,omitempty"`
	DefaultRows   int               `json:"default_rows,omitempty" yaml:"default_rows,omitempty"`
	RowDefaults   map[string]string `json:"row_defaults,omitempty" yaml:"row_defaults,omitempty"`
	Recover       bool              `json:"recover,omitempty" yaml:"recover,omitempty"`
}

func (s SectionSchema) IsRows() bool {
	return len(s.Columns) > 0 || s.DefaultRows > 0
}

// TemplateSummary: строка списка шаблонов.
type TemplateSummary struct {
	ID            int    `json:"ID"`
	EquipmentType string `json:"equipment_type"`
	Name          string `json:"name"`
	IsActive      bool   `json:"is_active"`
}
