package save

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"opsconsole/http-server/report/form"
)

type ReportSubmitter interface {
	Submit(ctx context.Context, raw json.RawMessage) (string, error)
}

type Response struct {
	ID string `json:"id"`
}

// SaveReport принимает состояние формы целиком и создаёт новый отчёт.
func SaveReport(log *slog.Logger, submitter ReportSubmitter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.save.SaveReport"

		raw, ok := readState(w, r, log, op)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id, err := submitter.Submit(ctx, raw)
		if err != nil {
			status := form.StatusFor(err)
			if status == http.StatusInternalServerError {
				log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Ошибка сохранения отчёта")
				http.Error(w, "Internal server error", status)
				return
			}
			http.Error(w, err.Error(), status)
			return
		}

		log.Info("report created", slog.String("op", op), slog.String("id", id))

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Response{ID: id})
	}
}

func readState(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string) (json.RawMessage, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read body", slog.String("op", op), slog.String("error", err.Error()))
		http.Error(w, "Bad request", http.StatusBadRequest)
		return nil, false
	}
	if !json.Valid(body) {
		http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
		return nil, false
	}
	return body, true
}
