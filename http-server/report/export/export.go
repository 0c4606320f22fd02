package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"opsconsole/internal/storage"
)

type ReportExporter interface {
	ReportExcel(ctx context.Context, id string) ([]byte, error)
}

func ReportExcel(log *slog.Logger, exporter ReportExporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.export.ReportExcel"

		id := chi.URLParam(r, "id")
		if id == "" {
			http.Error(w, "Missing report id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second) // на Excel времени побольше
		defer cancel()

		excelBytes, err := exporter.ReportExcel(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Report not found", http.StatusNotFound)
				return
			}
			log.Error("failed to generate excel", slog.String("op", op), slog.String("id", id), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		fileName := fmt.Sprintf("service_report_%s_%s.xlsx", id, time.Now().Format("2006-01-02_150405"))

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
		w.Write(excelBytes)
	}
}
