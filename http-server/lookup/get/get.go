package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"opsconsole/internal/storage"
)

type Team interface {
	GetTeamMembers(ctx context.Context) ([]storage.TeamMember, error)
}

type Projects interface {
	GetProjects(ctx context.Context) ([]storage.Project, error)
}

// GetTeam: справочник инженеров для выбора ответственного.
func GetTeam(log *slog.Logger, team Team) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.lookup.get.GetTeam"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		members, err := team.GetTeamMembers(ctx)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Ошибка при получении сотрудников")
			http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
			return
		}

		if members == nil {
			members = []storage.TeamMember{}
		}

		render.JSON(w, r, members)
	}
}

func GetProjects(log *slog.Logger, projects Projects) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.lookup.get.GetProjects"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := projects.GetProjects(ctx)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("Ошибка при получении проектов")
			http.Error(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
			return
		}

		if list == nil {
			list = []storage.Project{}
		}

		render.JSON(w, r, list)
	}
}
