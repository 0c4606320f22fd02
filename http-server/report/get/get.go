package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"opsconsole/internal/constants"
	"opsconsole/internal/storage"
)

type ReportReader interface {
	GetReport(ctx context.Context, id string) (*storage.ReportRecord, error)
	ListReports(ctx context.Context, filter storage.ReportFilter) ([]storage.ReportSummary, error)
}

type ResponseReports struct {
	Reports []storage.ReportSummary `json:"reports"`
	Error   string                  `json:"error,omitempty"`
}

// ListReports: список отчётов с фильтром по типу и поиском по заголовку/заказчику.
func ListReports(log *slog.Logger, reader ReportReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.get.ListReports"

		filter := storage.ReportFilter{
			EquipmentType: r.URL.Query().Get("equipment_type"),
			Search:        r.URL.Query().Get("search"),
		}

		if filter.EquipmentType != "" && !constants.IsEquipmentType(filter.EquipmentType) {
			http.Error(w, "Unknown equipment_type", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		reports, err := reader.ListReports(ctx, filter)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Ошибка при получении отчётов")
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, ResponseReports{Reports: []storage.ReportSummary{}, Error: "failed to load reports"})
			return
		}

		if reports == nil {
			reports = []storage.ReportSummary{}
		}

		render.JSON(w, r, ResponseReports{Reports: reports})
	}
}

// GetReport отдаёт сохранённую запись как есть, без сверки с шаблоном.
func GetReport(log *slog.Logger, reader ReportReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.get.GetReport"

		id := chi.URLParam(r, "id")
		if id == "" {
			http.Error(w, "Missing report id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		rec, err := reader.GetReport(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Report not found", http.StatusNotFound)
				return
			}
			log.With(
				slog.String("op", op),
				slog.String("id", id),
				slog.String("error", err.Error()),
			).Error("Failed to fetch report")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, rec)
	}
}
