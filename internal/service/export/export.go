package export

import (
	"context"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"opsconsole/internal/report"
	"opsconsole/internal/storage"
)

const SheetName = "Service report"

type FormLoader interface {
	LoadWithTemplate(ctx context.Context, id, equipmentType string) (report.FormState, storage.Template, error)
}

type ExportService struct {
	forms FormLoader
}

func NewExportService(forms FormLoader) *ExportService {
	return &ExportService{forms: forms}
}

// ReportExcel собирает xlsx для сохранённого отчёта.
func (e *ExportService) ReportExcel(ctx context.Context, id string) ([]byte, error) {
	const op = "service.export.ReportExcel"

	form, tmpl, err := e.forms.LoadWithTemplate(ctx, id, "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	data, err := Render(form, tmpl)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return data, nil
}

type sheetWriter struct {
	f       *excelize.File
	row     int
	header  int
	caption int
}

func (w *sheetWriter) line(values ...any) {
	for i, v := range values {
		w.f.SetCellValue(SheetName, cellName(i+1, w.row), v)
	}
	w.row++
}

func (w *sheetWriter) styled(style int, values ...any) {
	first := w.row
	w.line(values...)
	last := len(values)
	if last == 0 {
		last = 1
	}
	w.f.SetCellStyle(SheetName, cellName(1, first), cellName(last, first), style)
}

func (w *sheetWriter) gap() { w.row++ }

// Render пишет форму в книгу Excel. Выключенные секции не попадают в файл.
func Render(form report.FormState, tmpl storage.Template) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	// --- СТИЛИ ---
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	captionStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 13},
	})
	if err != nil {
		return nil, fmt.Errorf("caption style: %w", err)
	}

	w := &sheetWriter{f: f, row: 1, header: headerStyle, caption: captionStyle}

	title := form.ReportTitle
	if title == "" {
		title = tmpl.Name
	}
	w.styled(captionStyle, title)
	w.gap()

	// шапка отчёта
	for _, kv := range [][2]string{
		{"Equipment type", form.EquipmentType},
		{"Report date", form.ReportDate},
		{"Job reference", form.JobReference},
		{"Customer", form.CustomerInfo.CompanyName},
		{"Site location", form.CustomerInfo.SiteLocation},
		{"Project", form.CustomerInfo.ProjectName},
		{"Contact person", form.CustomerInfo.ContactPerson},
		{"Service provider", form.ServiceProvider.CompanyName},
		{"Engineer", form.ServiceProvider.EngineerName},
		{"Engineer email", form.ServiceProvider.EngineerEmail},
		{"Engineer mobile", form.ServiceProvider.EngineerMobile},
		{"Ambient temperature", form.AmbientTemperature},
		{"Humidity", form.Humidity},
		{"Next service date", form.NextServiceDate},
	} {
		w.line(kv[0], kv[1])
	}
	w.gap()

	if len(form.Checklist) > 0 {
		w.styled(captionStyle, "Checklist")
		w.styled(headerStyle, "#", "Item", "Status", "Remarks")
		for i, item := range form.Checklist {
			w.line(i+1, item.Item, item.Status, item.Remarks)
		}
		w.gap()
	}

	for _, name := range sectionOrder(tmpl) {
		if !report.Enabled(form, name) {
			continue
		}
		schema := tmpl.Sections[name]

		caption := schema.Title
		if caption == "" {
			caption = name
		}
		w.styled(captionStyle, caption)

		if schema.IsRows() {
			writeRows(w, schema, form.Equipment.Rows[name])
		} else {
			fields := form.Equipment.Fields[name]
			for _, key := range orderedKeys(schema.Fields, fields) {
				w.line(key, fields[key])
			}
		}
		w.gap()
	}

	if form.Observations != "" {
		w.styled(captionStyle, "Observations")
		w.line(form.Observations)
		w.gap()
	}
	if form.Recommendations != "" {
		w.styled(captionStyle, "Recommendations")
		w.line(form.Recommendations)
	}

	f.SetColWidth(SheetName, "A", "A", 24)
	f.SetColWidth(SheetName, "B", "H", 18)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write buffer: %w", err)
	}

	return buf.Bytes(), nil
}

func writeRows(w *sheetWriter, schema storage.SectionSchema, rows []report.Row) {
	seen := make(map[string]string)
	for _, r := range rows {
		for k, v := range r {
			seen[k] = v
		}
	}
	for k, v := range schema.RowDefaults {
		seen[k] = v
	}
	columns := orderedKeys(schema.Columns, seen)

	header := make([]any, 0, len(columns)+1)
	header = append(header, "#")
	for _, c := range columns {
		header = append(header, c)
	}
	w.styled(w.header, header...)

	for i, r := range rows {
		values := make([]any, 0, len(columns)+1)
		values = append(values, i+1)
		for _, c := range columns {
			values = append(values, r[c])
		}
		w.line(values...)
	}
}

// sectionOrder сортирует секции по order, при равенстве по имени.
func sectionOrder(tmpl storage.Template) []string {
	names := make([]string, 0, len(tmpl.Sections))
	for name := range tmpl.Sections {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		oi, oj := tmpl.Sections[names[i]].Order, tmpl.Sections[names[j]].Order
		if oi != oj {
			return oi < oj
		}
		return names[i] < names[j]
	})
	return names
}

// orderedKeys: сначала объявленные в шаблоне, потом остальные по алфавиту.
func orderedKeys(declared []string, values map[string]string) []string {
	keys := make([]string, 0, len(values))
	used := make(map[string]bool, len(declared))
	for _, k := range declared {
		if used[k] {
			continue
		}
		used[k] = true
		keys = append(keys, k)
	}

	var extra []string
	for k := range values {
		if !used[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)

	return append(keys, extra...)
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
