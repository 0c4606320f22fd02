package report

import (
	"encoding/json"
	"errors"

	"opsconsole/internal/storage"
)

const rowsSuffix = "_rows"

var (
	ErrUnknownPath        = errors.New("unknown field path")
	ErrInvalidStatus      = errors.New("invalid checklist status")
	ErrUnknownToggleGroup = errors.New("unknown toggle group")
	ErrUnknownSection     = errors.New("unknown section")
	ErrRowIndex           = errors.New("row index out of range")
)

// FormState: полное состояние редактируемого отчёта.
// Общая шапка отчёта плюс блок оборудования активного типа.
type FormState struct {
	ID                 string
	EquipmentType      string
	ReportTitle        string
	ReportDate         string
	JobReference       string
	CustomerName       string
	Location           string
	TestedBy           string
	AmbientTemperature string
	Humidity           string
	NextServiceDate    string
	Observations       string
	Recommendations    string

	CustomerInfo    CustomerInfo
	ServiceProvider ServiceProvider
	Checklist       []storage.ChecklistItem

	Equipment Equipment
}

type CustomerInfo struct {
	CompanyName   string `json:"company_name"`
	SiteLocation  string `json:"site_location"`
	ProjectName   string `json:"project_name"`
	ContactPerson string `json:"contact_person"`
	ContactEmail  string `json:"contact_email"`
	ContactPhone  string `json:"contact_phone"`
}

type ServiceProvider struct {
	CompanyName    string `json:"company_name"`
	EngineerName   string `json:"engineer_name"`
	EngineerEmail  string `json:"engineer_email"`
	EngineerMobile string `json:"engineer_mobile"`
}

// Equipment is the block of the active equipment type. Type is the
// discriminant; only sections declared by that type's template exist here.
type Equipment struct {
	Type        string
	ToggleGroup string
	Fields      map[string]map[string]string
	Rows        map[string][]Row
	Toggles     map[string]bool

	// RowTemplates holds an empty row per row section, used by AddRow.
	RowTemplates map[string]Row
}

// Row is one generated row. Its identity is its position in the slice.
type Row map[string]string

func (r Row) clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Clone returns a deep copy.
func (s FormState) Clone() FormState {
	out := s

	out.Checklist = make([]storage.ChecklistItem, len(s.Checklist))
	copy(out.Checklist, s.Checklist)

	out.Equipment.Fields = make(map[string]map[string]string, len(s.Equipment.Fields))
	for name, fields := range s.Equipment.Fields {
		cp := make(map[string]string, len(fields))
		for k, v := range fields {
			cp[k] = v
		}
		out.Equipment.Fields[name] = cp
	}

	out.Equipment.Rows = make(map[string][]Row, len(s.Equipment.Rows))
	for name, rows := range s.Equipment.Rows {
		cp := make([]Row, len(rows))
		for i, r := range rows {
			cp[i] = r.clone()
		}
		out.Equipment.Rows[name] = cp
	}

	out.Equipment.Toggles = make(map[string]bool, len(s.Equipment.Toggles))
	for k, v := range s.Equipment.Toggles {
		out.Equipment.Toggles[k] = v
	}

	out.Equipment.RowTemplates = make(map[string]Row, len(s.Equipment.RowTemplates))
	for k, r := range s.Equipment.RowTemplates {
		out.Equipment.RowTemplates[k] = r.clone()
	}

	return out
}

// MarshalJSON пишет состояние в плоском виде, который ждёт фронтенд:
// секции блока оборудования лежат на верхнем уровне рядом с шапкой.
func (s FormState) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(scalarFields)+len(s.Equipment.Fields)+len(s.Equipment.Rows)+4)

	for _, f := range scalarFields {
		if f.nested {
			continue
		}
		out[f.path] = *f.ref(&s)
	}
	if s.ID != "" {
		out["id"] = s.ID
	}
	out["equipment_type"] = s.EquipmentType
	out["customer_info"] = s.CustomerInfo
	out["service_provider"] = s.ServiceProvider

	checklist := s.Checklist
	if checklist == nil {
		checklist = []storage.ChecklistItem{}
	}
	out["checklist"] = checklist

	for name, fields := range s.Equipment.Fields {
		out[name] = fields
	}
	for name, rows := range s.Equipment.Rows {
		if rows == nil {
			rows = []Row{}
		}
		out[name+rowsSuffix] = rows
	}
	if s.Equipment.ToggleGroup != "" {
		toggles := s.Equipment.Toggles
		if toggles == nil {
			toggles = map[string]bool{}
		}
		out[s.Equipment.ToggleGroup] = toggles
	}

	return json.Marshal(out)
}

// scalarField связывает путь поля в JSON с полем структуры.
type scalarField struct {
	path    string
	nested  bool
	recover bool
	ref     func(*FormState) *string
}

var scalarFields = []scalarField{
	{path: "report_title", ref: func(s *FormState) *string { return &s.ReportTitle }},
	{path: "report_date", ref: func(s *FormState) *string { return &s.ReportDate }},
	{path: "job_reference", ref: func(s *FormState) *string { return &s.JobReference }},
	{path: "customer_name", ref: func(s *FormState) *string { return &s.CustomerName }},
	{path: "location", ref: func(s *FormState) *string { return &s.Location }},
	{path: "tested_by", ref: func(s *FormState) *string { return &s.TestedBy }},
	{path: "ambient_temperature", recover: true, ref: func(s *FormState) *string { return &s.AmbientTemperature }},
	{path: "humidity", recover: true, ref: func(s *FormState) *string { return &s.Humidity }},
	{path: "next_service_date", ref: func(s *FormState) *string { return &s.NextServiceDate }},
	{path: "observations", ref: func(s *FormState) *string { return &s.Observations }},
	{path: "recommendations", ref: func(s *FormState) *string { return &s.Recommendations }},

	{path: "customer_info.company_name", nested: true, ref: func(s *FormState) *string { return &s.CustomerInfo.CompanyName }},
	{path: "customer_info.site_location", nested: true, ref: func(s *FormState) *string { return &s.CustomerInfo.SiteLocation }},
	{path: "customer_info.project_name", nested: true, ref: func(s *FormState) *string { return &s.CustomerInfo.ProjectName }},
	{path: "customer_info.contact_person", nested: true, ref: func(s *FormState) *string { return &s.CustomerInfo.ContactPerson }},
	{path: "customer_info.contact_email", nested: true, ref: func(s *FormState) *string { return &s.CustomerInfo.ContactEmail }},
	{path: "customer_info.contact_phone", nested: true, ref: func(s *FormState) *string { return &s.CustomerInfo.ContactPhone }},

	{path: "service_provider.company_name", nested: true, ref: func(s *FormState) *string { return &s.ServiceProvider.CompanyName }},
	{path: "service_provider.engineer_name", nested: true, ref: func(s *FormState) *string { return &s.ServiceProvider.EngineerName }},
	{path: "service_provider.engineer_email", nested: true, ref: func(s *FormState) *string { return &s.ServiceProvider.EngineerEmail }},
	{path: "service_provider.engineer_mobile", nested: true, ref: func(s *FormState) *string { return &s.ServiceProvider.EngineerMobile }},
}

func findScalar(path string) (scalarField, bool) {
	for _, f := range scalarFields {
		if f.path == path {
			return f, true
		}
	}
	return scalarField{}, false
}
