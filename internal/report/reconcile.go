package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"opsconsole/internal/constants"
	"opsconsole/internal/storage"
)

// Reconcile накладывает сохранённый отчёт на пустую форму шаблона.
//
// Значения переносятся поле за полем и только для полей, которые есть в
// шаблоне; null и отсутствующие ключи оставляют значение по умолчанию.
// Тип оборудования всегда берётся из шаблона.
func Reconcile(t storage.Template, persisted map[string]any) FormState {
	s := Materialize(t)
	if persisted == nil {
		return s
	}

	if id, ok := scalarString(persisted["id"]); ok {
		s.ID = id
	}

	for _, f := range scalarFields {
		v, ok := lookup(persisted, f.path)
		if !ok || v == nil {
			continue
		}
		dst := f.ref(&s)
		if f.recover {
			*dst = RecoverString(v, *dst)
			continue
		}
		if str, ok := scalarString(v); ok {
			*dst = str
		}
	}

	reconcileChecklist(&s, persisted["checklist"])

	for name, schema := range t.Sections {
		if schema.IsRows() {
			reconcileRows(&s, name, schema, persisted[name+rowsSuffix])
		} else {
			reconcileFields(&s, name, schema, persisted[name])
		}
	}

	if toggles, ok := persisted[s.Equipment.ToggleGroup].(map[string]any); ok {
		for name := range s.Equipment.Toggles {
			if b, ok := toggles[name].(bool); ok {
				s.Equipment.Toggles[name] = b
			}
		}
	}

	syncLegacy(&s)

	return s
}

// ReconcileJSON decodes a persisted record and reconciles it. A body that is
// not a JSON object is the only error; null yields the materialized form.
func ReconcileJSON(t storage.Template, raw []byte) (FormState, error) {
	const op = "report.ReconcileJSON"

	var persisted map[string]any
	if len(bytes.TrimSpace(raw)) > 0 {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&persisted); err != nil {
			return FormState{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	return Reconcile(t, persisted), nil
}

// PersistedType returns equipment_type of a raw record, "" when absent.
func PersistedType(raw []byte) string {
	var probe struct {
		EquipmentType any `json:"equipment_type"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return ""
	}
	s, _ := probe.EquipmentType.(string)
	return s
}

func lookup(m map[string]any, path string) (any, bool) {
	head, rest, nested := strings.Cut(path, ".")
	v, ok := m[head]
	if !ok {
		return nil, false
	}
	if !nested {
		return v, true
	}
	sub, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	return lookup(sub, rest)
}

// reconcileChecklist matches items by id. Items unknown to the template are dropped.
func reconcileChecklist(s *FormState, v any) {
	items, ok := v.([]any)
	if !ok {
		return
	}

	byID := make(map[string]map[string]any, len(items))
	for _, it := range items {
		obj, ok := it.(map[string]any)
		if !ok {
			continue
		}
		id, ok := scalarString(obj["id"])
		if !ok {
			continue
		}
		if _, dup := byID[id]; !dup {
			byID[id] = obj
		}
	}

	for i := range s.Checklist {
		obj, ok := byID[fmt.Sprint(s.Checklist[i].ID)]
		if !ok {
			continue
		}
		if status, ok := obj["status"].(string); ok && constants.ChecklistStatuses[status] {
			s.Checklist[i].Status = status
		}
		if obj["remarks"] != nil {
			if remarks, ok := scalarString(obj["remarks"]); ok {
				s.Checklist[i].Remarks = remarks
			}
		}
	}
}

// reconcileRows берёт количество строк из сохранённого массива,
// даже если оно меньше или больше default_rows.
func reconcileRows(s *FormState, name string, schema storage.SectionSchema, v any) {
	items, ok := v.([]any)
	if !ok {
		return
	}

	tmpl := s.Equipment.RowTemplates[name]
	rows := make([]Row, len(items))
	for i, it := range items {
		row := tmpl.clone()
		if obj, ok := it.(map[string]any); ok {
			assignValues(row, obj, schema.Recover)
		}
		rows[i] = row
	}
	s.Equipment.Rows[name] = rows
}

func reconcileFields(s *FormState, name string, schema storage.SectionSchema, v any) {
	obj, ok := v.(map[string]any)
	if !ok {
		return
	}
	assignValues(s.Equipment.Fields[name], obj, schema.Recover)
}

// assignValues переносит значения только для ключей, уже существующих в dst.
func assignValues(dst map[string]string, src map[string]any, recover bool) {
	for key, cur := range dst {
		v := src[key]
		if v == nil {
			continue
		}
		if recover {
			dst[key] = RecoverString(v, cur)
			continue
		}
		if str, ok := scalarString(v); ok {
			dst[key] = str
		}
	}
}
