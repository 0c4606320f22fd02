package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"opsconsole/internal/storage"
)

type ReportDeleter interface {
	DeleteReport(ctx context.Context, id string) error
}

// DeleteReport: удаление отчёта из админки.
func DeleteReport(log *slog.Logger, deleter ReportDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.update.DeleteReport"

		id := chi.URLParam(r, "id")
		if id == "" {
			http.Error(w, "Missing report id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := deleter.DeleteReport(ctx, id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Report not found", http.StatusNotFound)
				return
			}
			log.Error("Ошибка удаления отчёта", slog.String("op", op), slog.String("id", id), slog.String("error", err.Error()))
			http.Error(w, "Ошибка сервера", http.StatusInternalServerError)
			return
		}

		log.Info("report deleted", slog.String("op", op), slog.String("id", id))

		w.WriteHeader(http.StatusNoContent)
	}
}
