package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"opsconsole/http-server/report/form"
)

type ReportUpdater interface {
	Update(ctx context.Context, id string, raw json.RawMessage) error
}

type Response struct {
	ID string `json:"id"`
}

// UpdateReport перезаписывает отчёт; последний сохранивший выигрывает.
func UpdateReport(log *slog.Logger, updater ReportUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.update.UpdateReport"

		id := chi.URLParam(r, "id")
		if id == "" {
			http.Error(w, "Missing report id", http.StatusBadRequest)
			return
		}

		var raw json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			http.Error(w, "Неверный JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := updater.Update(ctx, id, raw); err != nil {
			status := form.StatusFor(err)
			if status == http.StatusInternalServerError {
				log.Error("Ошибка обновления отчёта", slog.String("op", op), slog.String("id", id), slog.String("error", err.Error()))
				http.Error(w, "Ошибка сервера", status)
				return
			}
			http.Error(w, err.Error(), status)
			return
		}

		render.JSON(w, r, Response{ID: id})
	}
}
