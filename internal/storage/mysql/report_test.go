package mysql

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsconsole/internal/storage"
)

func newRecord(equipmentType, title string) storage.ReportRecord {
	now := time.Now().UTC().Truncate(time.Second)
	return storage.ReportRecord{
		ID:            uuid.New().String(),
		EquipmentType: equipmentType,
		Title:         title,
		CustomerName:  "Acme",
		TestedBy:      "R. Iyer",
		Payload:       json.RawMessage(`{"equipment_type":"` + equipmentType + `","report_title":"` + title + `"}`),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestStorage_ReportLifecycle(t *testing.T) {
	s := requireDB(t)
	cleanupTestDB(t)
	ctx := context.Background()

	rec := newRecord("acb", "ACB annual")
	require.NoError(t, s.CreateReport(ctx, rec))

	err := s.CreateReport(ctx, rec)
	assert.ErrorIs(t, err, storage.ErrExists)

	got, err := s.GetReport(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Title, got.Title)
	assert.JSONEq(t, string(rec.Payload), string(got.Payload))

	rec.Title = "ACB annual v2"
	rec.Payload = json.RawMessage(`{"equipment_type":"acb","report_title":"ACB annual v2"}`)
	require.NoError(t, s.UpdateReport(ctx, rec))

	// те же значения: не ошибка
	require.NoError(t, s.UpdateReport(ctx, rec))

	got, err = s.GetReport(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "ACB annual v2", got.Title)

	require.NoError(t, s.DeleteReport(ctx, rec.ID))
	_, err = s.GetReport(ctx, rec.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, s.DeleteReport(ctx, rec.ID), storage.ErrNotFound)
}

func TestStorage_UpdateMissingReport(t *testing.T) {
	s := requireDB(t)
	cleanupTestDB(t)

	err := s.UpdateReport(context.Background(), newRecord("acb", "ghost"))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStorage_ListReportsFilter(t *testing.T) {
	s := requireDB(t)
	cleanupTestDB(t)
	ctx := context.Background()

	require.NoError(t, s.CreateReport(ctx, newRecord("acb", "ACB bay 1")))
	require.NoError(t, s.CreateReport(ctx, newRecord("earth_pit", "Pits north")))
	require.NoError(t, s.CreateReport(ctx, newRecord("earth_pit", "Pits south")))

	all, err := s.ListReports(ctx, storage.ReportFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	pits, err := s.ListReports(ctx, storage.ReportFilter{EquipmentType: "earth_pit"})
	require.NoError(t, err)
	assert.Len(t, pits, 2)

	south, err := s.ListReports(ctx, storage.ReportFilter{EquipmentType: "earth_pit", Search: "south"})
	require.NoError(t, err)
	require.Len(t, south, 1)
	assert.Equal(t, "Pits south", south[0].Title)
}
