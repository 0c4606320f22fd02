package editor

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"opsconsole/internal/catalog"
	"opsconsole/internal/report"
	"opsconsole/internal/storage"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) GetTemplate(ctx context.Context, equipmentType string) (*storage.Template, error) {
	args := m.Called(ctx, equipmentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Template), args.Error(1)
}

func (m *MockStorage) GetReport(ctx context.Context, id string) (*storage.ReportRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.ReportRecord), args.Error(1)
}

func (m *MockStorage) CreateReport(ctx context.Context, rec storage.ReportRecord) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *MockStorage) UpdateReport(ctx context.Context, rec storage.ReportRecord) error {
	return m.Called(ctx, rec).Error(0)
}

func (m *MockStorage) GetTeamMember(ctx context.Context, id int64) (*storage.TeamMember, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.TeamMember), args.Error(1)
}

func (m *MockStorage) GetProject(ctx context.Context, id int64) (*storage.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.Project), args.Error(1)
}

func earthPit(t *testing.T) *storage.Template {
	t.Helper()
	tmpl, err := catalog.Get("earth_pit")
	require.NoError(t, err)
	return &tmpl
}

func newTestService(st Storage) *Service {
	svc := NewEditorService(st)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }
	svc.newID = func() string { return "7f1c0e4a-0000-4000-8000-000000000001" }
	return svc
}

func TestNew(t *testing.T) {
	st := new(MockStorage)
	st.On("GetTemplate", mock.Anything, "earth_pit").Return(earthPit(t), nil)

	form, err := newTestService(st).New(context.Background(), "earth_pit")
	require.NoError(t, err)

	assert.Equal(t, "earth_pit", form.EquipmentType)
	assert.Len(t, form.Equipment.Rows["electrical_checks"], 6)
	assert.Len(t, form.Checklist, 4)
	st.AssertExpectations(t)
}

func TestNew_Errors(t *testing.T) {
	st := new(MockStorage)
	svc := newTestService(st)

	_, err := svc.New(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoEquipmentType)

	st.On("GetTemplate", mock.Anything, "unknown").Return(nil, storage.ErrNotFound)
	_, err = svc.New(context.Background(), "unknown")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLoad_WithEditorType(t *testing.T) {
	st := new(MockStorage)
	st.On("GetTemplate", mock.Anything, "earth_pit").Return(earthPit(t), nil)
	st.On("GetReport", mock.Anything, "r-1").Return(&storage.ReportRecord{
		ID:            "r-1",
		EquipmentType: "earth_pit",
		Payload: json.RawMessage(`{
			"equipment_type": "earth_pit",
			"customer_name": "Acme",
			"electrical_checks_rows": [{"pit_no": "1"}, {"pit_no": "2"}]
		}`),
	}, nil)

	form, err := newTestService(st).Load(context.Background(), "r-1", "earth_pit")
	require.NoError(t, err)

	assert.Equal(t, "r-1", form.ID)
	assert.Equal(t, "Acme", form.CustomerInfo.CompanyName)
	require.Len(t, form.Equipment.Rows["electrical_checks"], 2)
	assert.Equal(t, "2", form.Equipment.Rows["electrical_checks"][1]["pit_no"])
	st.AssertExpectations(t)
}

func TestLoad_TypeFromPayload(t *testing.T) {
	st := new(MockStorage)
	st.On("GetReport", mock.Anything, "r-2").Return(&storage.ReportRecord{
		ID:      "r-2",
		Payload: json.RawMessage(`{"equipment_type": "earth_pit", "report_title": "Pits"}`),
	}, nil)
	st.On("GetTemplate", mock.Anything, "earth_pit").Return(earthPit(t), nil)

	form, tmpl, err := newTestService(st).LoadWithTemplate(context.Background(), "r-2", "")
	require.NoError(t, err)

	assert.Equal(t, "Pits", form.ReportTitle)
	assert.Equal(t, "earth_pit", tmpl.EquipmentType)
}

func TestLoad_NotFound(t *testing.T) {
	st := new(MockStorage)
	st.On("GetTemplate", mock.Anything, "earth_pit").Return(earthPit(t), nil).Maybe()
	st.On("GetReport", mock.Anything, "missing").Return(nil, storage.ErrNotFound)

	_, err := newTestService(st).Load(context.Background(), "missing", "earth_pit")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestLoad_BrokenPayload(t *testing.T) {
	st := new(MockStorage)
	st.On("GetTemplate", mock.Anything, "earth_pit").Return(earthPit(t), nil)
	st.On("GetReport", mock.Anything, "r-3").Return(&storage.ReportRecord{
		ID:      "r-3",
		Payload: json.RawMessage(`[1, 2, 3]`),
	}, nil)

	form, err := newTestService(st).Load(context.Background(), "r-3", "earth_pit")
	require.NoError(t, err)

	assert.Equal(t, "r-3", form.ID)
	assert.Len(t, form.Equipment.Rows["continuity_checks"], 6)
}

func TestNormalize_MissingType(t *testing.T) {
	_, err := newTestService(new(MockStorage)).Normalize(context.Background(), json.RawMessage(`{"report_title": "x"}`))
	assert.ErrorIs(t, err, ErrNoEquipmentType)
}

func TestEdit(t *testing.T) {
	st := new(MockStorage)
	st.On("GetTemplate", mock.Anything, "earth_pit").Return(earthPit(t), nil)
	svc := newTestService(st)

	raw := json.RawMessage(`{"equipment_type": "earth_pit"}`)

	form, err := svc.Edit(context.Background(), raw, "tested_by", "R. Iyer")
	require.NoError(t, err)
	assert.Equal(t, "R. Iyer", form.ServiceProvider.EngineerName)

	_, err = svc.Edit(context.Background(), raw, "checklist.0.status", "maybe")
	assert.ErrorIs(t, err, report.ErrInvalidStatus)
}

func TestToggleAndRows(t *testing.T) {
	st := new(MockStorage)
	st.On("GetTemplate", mock.Anything, "earth_pit").Return(earthPit(t), nil)
	svc := newTestService(st)

	raw := json.RawMessage(`{"equipment_type": "earth_pit"}`)

	form, err := svc.Toggle(context.Background(), raw, "earth_pit_section_toggles", "continuity_checks")
	require.NoError(t, err)
	assert.False(t, form.Equipment.Toggles["continuity_checks"])

	form, err = svc.Rows(context.Background(), raw, "electrical_checks", RowsAdd, 0)
	require.NoError(t, err)
	assert.Len(t, form.Equipment.Rows["electrical_checks"], 7)

	form, err = svc.Rows(context.Background(), raw, "electrical_checks", RowsRemove, 0)
	require.NoError(t, err)
	assert.Len(t, form.Equipment.Rows["electrical_checks"], 5)

	_, err = svc.Rows(context.Background(), raw, "electrical_checks", "shuffle", 0)
	assert.ErrorIs(t, err, ErrRowsAction)
}

func TestSelectProject(t *testing.T) {
	st := new(MockStorage)
	st.On("GetTemplate", mock.Anything, "earth_pit").Return(earthPit(t), nil)
	st.On("GetProject", mock.Anything, int64(4)).Return(&storage.Project{
		ID: 4, Client: "Nova Mills", Location: "Pune", ProjectName: "Substation B",
	}, nil)

	form, err := newTestService(st).SelectProject(context.Background(), json.RawMessage(`{"equipment_type": "earth_pit"}`), 4)
	require.NoError(t, err)

	assert.Equal(t, "Nova Mills", form.CustomerName)
	assert.Equal(t, "Nova Mills", form.CustomerInfo.CompanyName)
	assert.Equal(t, "Pune", form.Location)
	assert.Equal(t, "Substation B", form.CustomerInfo.ProjectName)
}

func TestSelectEngineer_NotFound(t *testing.T) {
	st := new(MockStorage)
	st.On("GetTemplate", mock.Anything, "earth_pit").Return(earthPit(t), nil).Maybe()
	st.On("GetTeamMember", mock.Anything, int64(9)).Return(nil, storage.ErrNotFound)

	_, err := newTestService(st).SelectEngineer(context.Background(), json.RawMessage(`{"equipment_type": "earth_pit"}`), 9)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSubmit(t *testing.T) {
	st := new(MockStorage)
	st.On("GetTemplate", mock.Anything, "earth_pit").Return(earthPit(t), nil)

	var saved storage.ReportRecord
	st.On("CreateReport", mock.Anything, mock.AnythingOfType("storage.ReportRecord")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(storage.ReportRecord) }).
		Return(nil)

	id, err := newTestService(st).Submit(context.Background(), json.RawMessage(`{
		"equipment_type": "earth_pit",
		"report_title": "Quarterly pits",
		"customer_info": {"company_name": "Acme"},
		"tested_by": "S. Rao"
	}`))
	require.NoError(t, err)

	assert.Equal(t, "7f1c0e4a-0000-4000-8000-000000000001", id)
	assert.Equal(t, id, saved.ID)
	assert.Equal(t, "earth_pit", saved.EquipmentType)
	assert.Equal(t, "Quarterly pits", saved.Title)
	assert.Equal(t, "Acme", saved.CustomerName)
	assert.Equal(t, "S. Rao", saved.TestedBy)
	assert.Equal(t, saved.CreatedAt, saved.UpdatedAt)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(saved.Payload, &payload))
	assert.Equal(t, id, payload["id"])
	assert.Equal(t, "Acme", payload["customer_name"])
	assert.Len(t, payload["electrical_checks_rows"], 6)
}

func TestUpdate_NotFound(t *testing.T) {
	st := new(MockStorage)
	st.On("GetTemplate", mock.Anything, "earth_pit").Return(earthPit(t), nil)
	st.On("UpdateReport", mock.Anything, mock.AnythingOfType("storage.ReportRecord")).Return(storage.ErrNotFound)

	err := newTestService(st).Update(context.Background(), "nope", json.RawMessage(`{"equipment_type": "earth_pit"}`))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdate_StorageError(t *testing.T) {
	st := new(MockStorage)
	st.On("GetTemplate", mock.Anything, "earth_pit").Return(earthPit(t), nil)
	st.On("UpdateReport", mock.Anything, mock.MatchedBy(func(rec storage.ReportRecord) bool {
		return rec.ID == "r-5"
	})).Return(errors.New("db down"))

	err := newTestService(st).Update(context.Background(), "r-5", json.RawMessage(`{"equipment_type": "earth_pit"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
	st.AssertExpectations(t)
}
