package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	seedtemplates "opsconsole/http-server/admin/save"
	deletereport "opsconsole/http-server/admin/update"
	lookup "opsconsole/http-server/lookup/get"
	"opsconsole/http-server/report/form"
	reportexport "opsconsole/http-server/report/export"
	getreport "opsconsole/http-server/report/get"
	savereport "opsconsole/http-server/report/save"
	updatereport "opsconsole/http-server/report/update"
	gettemplate "opsconsole/http-server/template/get"
	"opsconsole/internal/catalog"
	"opsconsole/internal/config"
	"opsconsole/internal/middleware/auth"
	"opsconsole/internal/service/editor"
	"opsconsole/internal/service/export"
	"opsconsole/internal/storage/mysql"
)

const frontendDir = "./frontend-dist"

func routes(cfg config.Config, log *slog.Logger, storage *mysql.Storage, editorService *editor.Service, exportService *export.ExportService) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)

	router.Use(middleware.RequestID)
	//ip пользователя
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// шаблоны
	router.Get("/api/template", gettemplate.GetTemplate(log, storage))
	router.Get("/api/all_templates", gettemplate.GetAllTemplates(log, storage))

	// справочники для формы
	router.Get("/api/team", lookup.GetTeam(log, storage))
	router.Get("/api/projects", lookup.GetProjects(log, storage))

	router.Route("/api/reports", func(r chi.Router) {
		r.Get("/", getreport.ListReports(log, storage))
		r.Post("/", savereport.SaveReport(log, editorService))

		r.Get("/new", form.NewForm(log, editorService))

		// форма живёт на клиенте, сервер каждый раз пересобирает её по шаблону
		r.Post("/form/edit", form.EditField(log, editorService))
		r.Post("/form/toggle", form.ToggleSection(log, editorService))
		r.Post("/form/rows", form.EditRows(log, editorService))
		r.Post("/form/select-project", form.SelectProject(log, editorService))
		r.Post("/form/select-engineer", form.SelectEngineer(log, editorService))

		r.Get("/{id}", getreport.GetReport(log, storage))
		r.Put("/{id}", updatereport.UpdateReport(log, editorService))
		r.Get("/{id}/form", form.LoadForm(log, editorService))
		r.Get("/{id}/excel", reportexport.ReportExcel(log, exportService))
	})

	adminRouter := chi.NewRouter()
	adminRouter.Use(auth.BasicAuth(log, cfg.AdminLogin, cfg.AdminPass))

	adminRouter.Post("/templates/seed", seedtemplates.SeedTemplates(log, storage, catalog.Load))
	adminRouter.Delete("/reports/{id}", deletereport.DeleteReport(log, storage))

	router.Mount("/api/admin", adminRouter)

	mountFrontend(router, log)

	return router
}

// mountFrontend отдаёт собранный SPA, если папка есть рядом с бинарником.
func mountFrontend(router *chi.Mux, log *slog.Logger) {
	if _, err := os.Stat(frontendDir); err != nil {
		log.Warn("Папка фронтенда не найдена, отдаём только API", "path", frontendDir)
		return
	}

	fileServer := http.FileServer(http.Dir(frontendDir))

	router.Handle("/assets/*", fileServer)
	router.Handle("/js/*", fileServer)
	router.Handle("/css/*", fileServer)
	router.Handle("/img/*", fileServer)

	// SPA fallback: любой другой путь → index.html
	router.HandleFunc("/*", func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(frontendDir, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			http.ServeFile(w, r, path)
			return
		}
		http.ServeFile(w, r, filepath.Join(frontendDir, "index.html"))
	})
}
