package save

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"opsconsole/internal/storage"
)

type TemplateSeeder interface {
	UpsertTemplates(ctx context.Context, templates []storage.Template) error
}

// CatalogLoader возвращает встроенные шаблоны (catalog.Load в проде).
type CatalogLoader func() ([]storage.Template, error)

type ResponseSeed struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// SeedTemplates перезаливает встроенный каталог шаблонов в базу.
func SeedTemplates(log *slog.Logger, seeder TemplateSeeder, load CatalogLoader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.save.SeedTemplates"

		templates, err := load()
		if err != nil {
			log.Error("ошибка чтения каталога шаблонов", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "ошибка чтения каталога шаблонов", http.StatusInternalServerError)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		if err := seeder.UpsertTemplates(ctx, templates); err != nil {
			log.Error("ошибка записи шаблонов", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "ошибка записи шаблонов", http.StatusInternalServerError)
			return
		}

		log.Info("templates seeded", slog.String("op", op), slog.Int("count", len(templates)))

		render.JSON(w, r, ResponseSeed{Status: "seeded", Count: len(templates)})
	}
}
