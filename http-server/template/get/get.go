package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"opsconsole/internal/storage"
)

type TemplateProvider interface {
	GetTemplate(ctx context.Context, equipmentType string) (*storage.Template, error)
	GetAllTemplates(ctx context.Context) ([]storage.TemplateSummary, error)
}

// GetTemplate отдаёт шаблон по типу оборудования.
func GetTemplate(log *slog.Logger, provider TemplateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.template.GetTemplate"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		equipmentType := r.URL.Query().Get("equipment_type")
		if equipmentType == "" {
			log.Error("Missing 'equipment_type' in query parameters")
			http.Error(w, "Missing required query parameter 'equipment_type'", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		template, err := provider.GetTemplate(ctx, equipmentType)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				log.Warn("Template not found", slog.String("equipment_type", equipmentType))
				http.Error(w, "Template not found", http.StatusNotFound)
				return
			}

			log.Error("Failed to fetch template",
				slog.String("equipment_type", equipmentType),
				slog.String("error", err.Error()),
			)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, template)
	}
}

type ResponseAllTemplates struct {
	Templates []storage.TemplateSummary `json:"templates"`
	Error     string                    `json:"error,omitempty"`
}

func GetAllTemplates(log *slog.Logger, provider TemplateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.template.GetAllTemplates"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		templates, err := provider.GetAllTemplates(ctx)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Failed to fetch templates")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if templates == nil {
			templates = []storage.TemplateSummary{}
		}

		render.JSON(w, r, ResponseAllTemplates{Templates: templates})
	}
}
