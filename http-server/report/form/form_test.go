package form

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"opsconsole/internal/report"
	"opsconsole/internal/service/editor"
	"opsconsole/internal/storage"
)

type MockFormEditor struct {
	mock.Mock
}

func (m *MockFormEditor) state(args mock.Arguments) (report.FormState, error) {
	if args.Get(0) == nil {
		return report.FormState{}, args.Error(1)
	}
	return args.Get(0).(report.FormState), args.Error(1)
}

func (m *MockFormEditor) New(ctx context.Context, equipmentType string) (report.FormState, error) {
	return m.state(m.Called(ctx, equipmentType))
}

func (m *MockFormEditor) Load(ctx context.Context, id, equipmentType string) (report.FormState, error) {
	return m.state(m.Called(ctx, id, equipmentType))
}

func (m *MockFormEditor) Edit(ctx context.Context, raw json.RawMessage, path, value string) (report.FormState, error) {
	return m.state(m.Called(ctx, string(raw), path, value))
}

func (m *MockFormEditor) Toggle(ctx context.Context, raw json.RawMessage, group, section string) (report.FormState, error) {
	return m.state(m.Called(ctx, string(raw), group, section))
}

func (m *MockFormEditor) Rows(ctx context.Context, raw json.RawMessage, section, action string, index int) (report.FormState, error) {
	return m.state(m.Called(ctx, string(raw), section, action, index))
}

func (m *MockFormEditor) SelectProject(ctx context.Context, raw json.RawMessage, projectID int64) (report.FormState, error) {
	return m.state(m.Called(ctx, string(raw), projectID))
}

func (m *MockFormEditor) SelectEngineer(ctx context.Context, raw json.RawMessage, memberID int64) (report.FormState, error) {
	return m.state(m.Called(ctx, string(raw), memberID))
}

func newRouter(svc FormEditor) http.Handler {
	log := slog.Default()
	r := chi.NewRouter()
	r.Get("/api/reports/new", NewForm(log, svc))
	r.Get("/api/reports/{id}/form", LoadForm(log, svc))
	r.Post("/api/reports/form/edit", EditField(log, svc))
	r.Post("/api/reports/form/toggle", ToggleSection(log, svc))
	r.Post("/api/reports/form/rows", EditRows(log, svc))
	r.Post("/api/reports/form/select-project", SelectProject(log, svc))
	r.Post("/api/reports/form/select-engineer", SelectEngineer(log, svc))
	return r
}

func batteryForm() report.FormState {
	return report.Materialize(storage.Template{
		EquipmentType: "battery",
		ToggleGroup:   "battery_section_toggles",
		Checklist:     []storage.ChecklistItem{{ID: 1, Item: "Terminals clean"}},
		Sections: map[string]storage.SectionSchema{
			"cell_readings": {Columns: []string{"cell_no", "voltage"}, DefaultRows: 2},
		},
	})
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestNewForm(t *testing.T) {
	svc := new(MockFormEditor)
	svc.On("New", mock.Anything, "battery").Return(batteryForm(), nil)

	rr := do(t, newRouter(svc), http.MethodGet, "/api/reports/new?equipment_type=battery", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]any
	require.NoError(t, render.DecodeJSON(rr.Body, &resp))
	assert.Equal(t, "battery", resp["equipment_type"])
	assert.Len(t, resp["cell_readings_rows"], 2)
	assert.Equal(t, map[string]any{"cell_readings": true}, resp["battery_section_toggles"])
}

func TestNewForm_MissingType(t *testing.T) {
	svc := new(MockFormEditor)

	rr := do(t, newRouter(svc), http.MethodGet, "/api/reports/new", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "New")
}

func TestLoadForm(t *testing.T) {
	svc := new(MockFormEditor)
	form := batteryForm()
	form.ID = "r-9"
	svc.On("Load", mock.Anything, "r-9", "battery").Return(form, nil)

	rr := do(t, newRouter(svc), http.MethodGet, "/api/reports/r-9/form?equipment_type=battery", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"id":"r-9"`)
	svc.AssertExpectations(t)
}

func TestLoadForm_NotFound(t *testing.T) {
	svc := new(MockFormEditor)
	svc.On("Load", mock.Anything, "gone", "").Return(nil, fmt.Errorf("load: %w", storage.ErrNotFound))

	rr := do(t, newRouter(svc), http.MethodGet, "/api/reports/gone/form", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestEditField(t *testing.T) {
	svc := new(MockFormEditor)
	edited := batteryForm()
	edited.TestedBy = "A. Khan"
	edited.ServiceProvider.EngineerName = "A. Khan"
	svc.On("Edit", mock.Anything, `{"equipment_type":"battery"}`, "tested_by", "A. Khan").Return(edited, nil)

	rr := do(t, newRouter(svc), http.MethodPost, "/api/reports/form/edit",
		`{"state": {"equipment_type":"battery"}, "path": "tested_by", "value": "A. Khan"}`)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]any
	require.NoError(t, render.DecodeJSON(rr.Body, &resp))
	assert.Equal(t, "A. Khan", resp["tested_by"])
	assert.Equal(t, "A. Khan", resp["service_provider"].(map[string]any)["engineer_name"])
}

func TestEditField_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{name: "invalid json", body: `{`, status: http.StatusBadRequest},
		{name: "missing path", body: `{"state": {}}`, status: http.StatusBadRequest},
		{name: "unknown path", body: `{"state": {}, "path": "nope"}`, err: report.ErrUnknownPath, status: http.StatusBadRequest},
		{name: "bad status", body: `{"state": {}, "path": "checklist.0.status", "value": "x"}`, err: report.ErrInvalidStatus, status: http.StatusBadRequest},
		{name: "no type", body: `{"state": {}, "path": "humidity"}`, err: editor.ErrNoEquipmentType, status: http.StatusBadRequest},
		{name: "storage", body: `{"state": {}, "path": "humidity"}`, err: errors.New("db down"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockFormEditor)
			if tt.err != nil {
				svc.On("Edit", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)
			}

			rr := do(t, newRouter(svc), http.MethodPost, "/api/reports/form/edit", tt.body)
			assert.Equal(t, tt.status, rr.Code)
		})
	}
}

func TestToggleSection(t *testing.T) {
	svc := new(MockFormEditor)
	toggled, err := report.Toggle(batteryForm(), "battery_section_toggles", "cell_readings")
	require.NoError(t, err)
	svc.On("Toggle", mock.Anything, `{"equipment_type":"battery"}`, "battery_section_toggles", "cell_readings").Return(toggled, nil)

	rr := do(t, newRouter(svc), http.MethodPost, "/api/reports/form/toggle",
		`{"state": {"equipment_type":"battery"}, "group": "battery_section_toggles", "section": "cell_readings"}`)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]any
	require.NoError(t, render.DecodeJSON(rr.Body, &resp))
	assert.Equal(t, false, resp["battery_section_toggles"].(map[string]any)["cell_readings"])
	// данные выключенной секции остаются в ответе
	assert.Len(t, resp["cell_readings_rows"], 2)
}

func TestToggleSection_UnknownGroup(t *testing.T) {
	svc := new(MockFormEditor)
	svc.On("Toggle", mock.Anything, mock.Anything, "acb_section_toggles", "x").Return(nil, report.ErrUnknownToggleGroup)

	rr := do(t, newRouter(svc), http.MethodPost, "/api/reports/form/toggle",
		`{"state": {"equipment_type":"battery"}, "group": "acb_section_toggles", "section": "x"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestEditRows(t *testing.T) {
	svc := new(MockFormEditor)
	added, err := report.AddRow(batteryForm(), "cell_readings")
	require.NoError(t, err)
	svc.On("Rows", mock.Anything, mock.Anything, "cell_readings", "add", 0).Return(added, nil)
	svc.On("Rows", mock.Anything, mock.Anything, "cell_readings", "remove", 7).Return(nil, report.ErrRowIndex)

	rr := do(t, newRouter(svc), http.MethodPost, "/api/reports/form/rows",
		`{"state": {"equipment_type":"battery"}, "section": "cell_readings", "action": "add"}`)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]any
	require.NoError(t, render.DecodeJSON(rr.Body, &resp))
	assert.Len(t, resp["cell_readings_rows"], 3)

	rr = do(t, newRouter(svc), http.MethodPost, "/api/reports/form/rows",
		`{"state": {"equipment_type":"battery"}, "section": "cell_readings", "action": "remove", "index": 7}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSelectProject(t *testing.T) {
	svc := new(MockFormEditor)
	selected := report.SelectProject(batteryForm(), storage.Project{ID: 5, Client: "Acme", Location: "Chennai", ProjectName: "DC-2"})
	svc.On("SelectProject", mock.Anything, mock.Anything, int64(5)).Return(selected, nil)

	rr := do(t, newRouter(svc), http.MethodPost, "/api/reports/form/select-project",
		`{"state": {"equipment_type":"battery"}, "project_id": 5}`)
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]any
	require.NoError(t, render.DecodeJSON(rr.Body, &resp))
	assert.Equal(t, "Acme", resp["customer_name"])
	assert.Equal(t, "Chennai", resp["location"])
}

func TestSelectProject_MissingID(t *testing.T) {
	svc := new(MockFormEditor)

	rr := do(t, newRouter(svc), http.MethodPost, "/api/reports/form/select-project", `{"state": {}}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	svc.AssertNotCalled(t, "SelectProject")
}

func TestSelectEngineer_NotFound(t *testing.T) {
	svc := new(MockFormEditor)
	svc.On("SelectEngineer", mock.Anything, mock.Anything, int64(77)).Return(nil, storage.ErrNotFound)

	rr := do(t, newRouter(svc), http.MethodPost, "/api/reports/form/select-engineer",
		`{"state": {"equipment_type":"battery"}, "member_id": 77}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestStatusFor(t *testing.T) {
	var syntaxErr error = &json.SyntaxError{}
	assert.Equal(t, http.StatusBadRequest, StatusFor(fmt.Errorf("wrap: %w", syntaxErr)))
	assert.Equal(t, http.StatusBadRequest, StatusFor(editor.ErrRowsAction))
	assert.Equal(t, http.StatusNotFound, StatusFor(storage.ErrNotFound))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("x")))
}
