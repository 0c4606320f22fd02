package report

import (
	"fmt"
	"strconv"
	"strings"

	"opsconsole/internal/constants"
	"opsconsole/internal/storage"
)

// LegacyMapping связывает старое плоское поле с полем структуры.
type LegacyMapping struct {
	Legacy     string
	Structured string
}

var LegacyMappings = []LegacyMapping{
	{Legacy: "customer_name", Structured: "customer_info.company_name"},
	{Legacy: "location", Structured: "customer_info.site_location"},
	{Legacy: "tested_by", Structured: "service_provider.engineer_name"},
}

func (m LegacyMapping) refs(s *FormState) (legacy, structured *string) {
	l, _ := findScalar(m.Legacy)
	st, _ := findScalar(m.Structured)
	return l.ref(s), st.ref(s)
}

// syncLegacy приводит пары к одному значению после слияния:
// непустое значение структуры важнее старого поля.
func syncLegacy(s *FormState) {
	for _, m := range LegacyMappings {
		legacy, structured := m.refs(s)
		if *structured == "" {
			*structured = *legacy
		} else {
			*legacy = *structured
		}
	}
}

func mappingFor(path string) (LegacyMapping, bool) {
	for _, m := range LegacyMappings {
		if m.Legacy == path || m.Structured == path {
			return m, true
		}
	}
	return LegacyMapping{}, false
}

func setMirrored(s *FormState, path, value string) bool {
	m, ok := mappingFor(path)
	if !ok {
		return false
	}
	legacy, structured := m.refs(s)
	*legacy = value
	*structured = value
	return true
}

// ApplyFieldEdit записывает значение по пути. Для путей из LegacyMappings
// значение пишется в обе стороны пары. Исходное состояние не меняется.
//
// Поддерживаемые пути:
//
//	report_title, customer_info.company_name, ...
//	<section>.<field>
//	<section>_rows.<index>.<column>
//	checklist.<index>.status | checklist.<index>.remarks
func ApplyFieldEdit(s FormState, path, value string) (FormState, error) {
	out := s.Clone()

	if setMirrored(&out, path, value) {
		return out, nil
	}

	if f, ok := findScalar(path); ok {
		*f.ref(&out) = value
		return out, nil
	}

	parts := strings.Split(path, ".")

	if parts[0] == "checklist" {
		if err := editChecklist(&out, parts, value); err != nil {
			return s, err
		}
		return out, nil
	}

	if len(parts) == 3 && strings.HasSuffix(parts[0], rowsSuffix) {
		section := strings.TrimSuffix(parts[0], rowsSuffix)
		rows, ok := out.Equipment.Rows[section]
		if !ok {
			return s, fmt.Errorf("%w: %s", ErrUnknownPath, path)
		}
		idx, err := strconv.Atoi(parts[1])
		if err != nil || idx < 0 || idx >= len(rows) {
			return s, fmt.Errorf("%w: %s", ErrRowIndex, path)
		}
		if _, ok := rows[idx][parts[2]]; !ok {
			return s, fmt.Errorf("%w: %s", ErrUnknownPath, path)
		}
		rows[idx][parts[2]] = value
		return out, nil
	}

	if len(parts) == 2 {
		fields, ok := out.Equipment.Fields[parts[0]]
		if ok {
			if _, ok := fields[parts[1]]; ok {
				fields[parts[1]] = value
				return out, nil
			}
		}
	}

	return s, fmt.Errorf("%w: %s", ErrUnknownPath, path)
}

func editChecklist(s *FormState, parts []string, value string) error {
	path := strings.Join(parts, ".")
	if len(parts) != 3 {
		return fmt.Errorf("%w: %s", ErrUnknownPath, path)
	}

	idx, err := strconv.Atoi(parts[1])
	if err != nil || idx < 0 || idx >= len(s.Checklist) {
		return fmt.Errorf("%w: %s", ErrRowIndex, path)
	}

	switch parts[2] {
	case "status":
		if !constants.ChecklistStatuses[value] {
			return fmt.Errorf("%w: %q", ErrInvalidStatus, value)
		}
		s.Checklist[idx].Status = value
	case "remarks":
		s.Checklist[idx].Remarks = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownPath, path)
	}

	return nil
}

// SelectProject заполняет данные заказчика из выбранного проекта одним обновлением.
func SelectProject(s FormState, p storage.Project) FormState {
	out := s.Clone()

	setMirrored(&out, "customer_info.company_name", p.Client)
	setMirrored(&out, "customer_info.site_location", p.Location)
	out.CustomerInfo.ProjectName = p.ProjectName

	return out
}

// SelectEngineer назначает ответственного инженера и подставляет его контакты.
func SelectEngineer(s FormState, m storage.TeamMember) FormState {
	out := s.Clone()

	setMirrored(&out, "service_provider.engineer_name", m.Name)
	out.ServiceProvider.EngineerEmail = m.Email
	out.ServiceProvider.EngineerMobile = m.Phone

	return out
}

// AddRow appends an empty row to a row section.
func AddRow(s FormState, section string) (FormState, error) {
	tmpl, ok := s.Equipment.RowTemplates[section]
	if !ok {
		return s, fmt.Errorf("%w: %s", ErrUnknownSection, section)
	}

	out := s.Clone()
	out.Equipment.Rows[section] = append(out.Equipment.Rows[section], tmpl.clone())

	return out, nil
}

// RemoveRow deletes the row at idx; later rows shift up.
func RemoveRow(s FormState, section string, idx int) (FormState, error) {
	rows, ok := s.Equipment.Rows[section]
	if !ok {
		return s, fmt.Errorf("%w: %s", ErrUnknownSection, section)
	}
	if idx < 0 || idx >= len(rows) {
		return s, fmt.Errorf("%w: %s[%d]", ErrRowIndex, section, idx)
	}

	out := s.Clone()
	cp := out.Equipment.Rows[section]
	out.Equipment.Rows[section] = append(cp[:idx:idx], cp[idx+1:]...)

	return out, nil
}
