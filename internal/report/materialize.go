package report

import (
	"opsconsole/internal/constants"
	"opsconsole/internal/storage"
)

// ToggleGroupName returns the toggle group of a template,
// "<equipment_type>_section_toggles" when the template does not name one.
func ToggleGroupName(t storage.Template) string {
	if t.ToggleGroup != "" {
		return t.ToggleGroup
	}
	return t.EquipmentType + "_section_toggles"
}

// Materialize строит пустую форму по шаблону: все секции, строки по
// default_rows, чек-лист со статусом "yes" и тумблеры секций.
func Materialize(t storage.Template) FormState {
	s := FormState{
		EquipmentType: t.EquipmentType,
		Checklist:     make([]storage.ChecklistItem, 0, len(t.Checklist)),
		Equipment: Equipment{
			Type:         t.EquipmentType,
			ToggleGroup:  ToggleGroupName(t),
			Fields:       make(map[string]map[string]string),
			Rows:         make(map[string][]Row),
			Toggles:      make(map[string]bool),
			RowTemplates: make(map[string]Row),
		},
	}

	for _, item := range t.Checklist {
		s.Checklist = append(s.Checklist, storage.ChecklistItem{
			ID:      item.ID,
			Item:    item.Item,
			Status:  constants.StatusYes,
			Remarks: "",
		})
	}

	for name, schema := range t.Sections {
		if schema.IsRows() {
			tmpl := emptyRow(schema)
			rows := make([]Row, schema.DefaultRows)
			for i := range rows {
				rows[i] = tmpl.clone()
			}
			s.Equipment.Rows[name] = rows
			s.Equipment.RowTemplates[name] = tmpl
		} else {
			s.Equipment.Fields[name] = emptyFields(schema)
		}

		enabled, ok := t.Defaults[name]
		if !ok {
			enabled = true
		}
		s.Equipment.Toggles[name] = enabled
	}

	// defaults может объявлять тумблеры без собственной секции
	for name, enabled := range t.Defaults {
		s.Equipment.Toggles[name] = enabled
	}

	return s
}

func emptyRow(schema storage.SectionSchema) Row {
	row := make(Row, len(schema.Columns)+len(schema.RowDefaults))
	for _, col := range schema.Columns {
		row[col] = schema.RowDefaults[col]
	}
	for col, v := range schema.RowDefaults {
		row[col] = v
	}
	return row
}

func emptyFields(schema storage.SectionSchema) map[string]string {
	fields := make(map[string]string, len(schema.Fields)+len(schema.FieldDefaults))
	for _, f := range schema.Fields {
		fields[f] = schema.FieldDefaults[f]
	}
	for f, v := range schema.FieldDefaults {
		fields[f] = v
	}
	return fields
}
