package form

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"opsconsole/internal/report"
	"opsconsole/internal/service/editor"
	"opsconsole/internal/storage"
)

// FormEditor: операции редактора, которые нужны обработчикам формы.
type FormEditor interface {
	New(ctx context.Context, equipmentType string) (report.FormState, error)
	Load(ctx context.Context, id, equipmentType string) (report.FormState, error)
	Edit(ctx context.Context, raw json.RawMessage, path, value string) (report.FormState, error)
	Toggle(ctx context.Context, raw json.RawMessage, group, section string) (report.FormState, error)
	Rows(ctx context.Context, raw json.RawMessage, section, action string, index int) (report.FormState, error)
	SelectProject(ctx context.Context, raw json.RawMessage, projectID int64) (report.FormState, error)
	SelectEngineer(ctx context.Context, raw json.RawMessage, memberID int64) (report.FormState, error)
}

// NewForm: пустая форма для режима создания.
func NewForm(log *slog.Logger, svc FormEditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.form.NewForm"

		equipmentType := r.URL.Query().Get("equipment_type")
		if equipmentType == "" {
			http.Error(w, "Missing required query parameter 'equipment_type'", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		form, err := svc.New(ctx, equipmentType)
		if err != nil {
			writeError(w, r, log, op, err)
			return
		}

		render.JSON(w, r, form)
	}
}

// LoadForm: сохранённый отчёт, сверенный с шаблоном, для режима редактирования.
func LoadForm(log *slog.Logger, svc FormEditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.form.LoadForm"

		id := chi.URLParam(r, "id")
		if id == "" {
			http.Error(w, "Missing report id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		form, err := svc.Load(ctx, id, r.URL.Query().Get("equipment_type"))
		if err != nil {
			writeError(w, r, log, op, err)
			return
		}

		render.JSON(w, r, form)
	}
}

type EditRequest struct {
	State json.RawMessage `json:"state"`
	Path  string          `json:"path"`
	Value string          `json:"value"`
}

func EditField(log *slog.Logger, svc FormEditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.form.EditField"

		var req EditRequest
		if !decode(w, r, log, op, &req) {
			return
		}
		if req.Path == "" {
			http.Error(w, "Missing 'path'", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		form, err := svc.Edit(ctx, req.State, req.Path, req.Value)
		if err != nil {
			writeError(w, r, log, op, err)
			return
		}

		render.JSON(w, r, form)
	}
}

type ToggleRequest struct {
	State   json.RawMessage `json:"state"`
	Group   string          `json:"group"`
	Section string          `json:"section"`
}

func ToggleSection(log *slog.Logger, svc FormEditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.form.ToggleSection"

		var req ToggleRequest
		if !decode(w, r, log, op, &req) {
			return
		}
		if req.Group == "" || req.Section == "" {
			http.Error(w, "Missing 'group' or 'section'", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		form, err := svc.Toggle(ctx, req.State, req.Group, req.Section)
		if err != nil {
			writeError(w, r, log, op, err)
			return
		}

		render.JSON(w, r, form)
	}
}

type RowsRequest struct {
	State   json.RawMessage `json:"state"`
	Section string          `json:"section"`
	Action  string          `json:"action"`
	Index   int             `json:"index"`
}

func EditRows(log *slog.Logger, svc FormEditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.form.EditRows"

		var req RowsRequest
		if !decode(w, r, log, op, &req) {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		form, err := svc.Rows(ctx, req.State, req.Section, req.Action, req.Index)
		if err != nil {
			writeError(w, r, log, op, err)
			return
		}

		render.JSON(w, r, form)
	}
}

type SelectProjectRequest struct {
	State     json.RawMessage `json:"state"`
	ProjectID int64           `json:"project_id"`
}

func SelectProject(log *slog.Logger, svc FormEditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.form.SelectProject"

		var req SelectProjectRequest
		if !decode(w, r, log, op, &req) {
			return
		}
		if req.ProjectID == 0 {
			http.Error(w, "Missing 'project_id'", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		form, err := svc.SelectProject(ctx, req.State, req.ProjectID)
		if err != nil {
			writeError(w, r, log, op, err)
			return
		}

		render.JSON(w, r, form)
	}
}

type SelectEngineerRequest struct {
	State    json.RawMessage `json:"state"`
	MemberID int64           `json:"member_id"`
}

func SelectEngineer(log *slog.Logger, svc FormEditor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.form.SelectEngineer"

		var req SelectEngineerRequest
		if !decode(w, r, log, op, &req) {
			return
		}
		if req.MemberID == 0 {
			http.Error(w, "Missing 'member_id'", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		form, err := svc.SelectEngineer(ctx, req.State, req.MemberID)
		if err != nil {
			writeError(w, r, log, op, err)
			return
		}

		render.JSON(w, r, form)
	}
}

func decode(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Warn("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
		http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
		return false
	}
	return true
}

// StatusFor переводит ошибку редактора в HTTP-статус.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, editor.ErrNoEquipmentType),
		errors.Is(err, editor.ErrRowsAction),
		errors.Is(err, report.ErrUnknownPath),
		errors.Is(err, report.ErrInvalidStatus),
		errors.Is(err, report.ErrUnknownToggleGroup),
		errors.Is(err, report.ErrUnknownSection),
		errors.Is(err, report.ErrRowIndex):
		return http.StatusBadRequest
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string, err error) {
	status := StatusFor(err)

	l := log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("error", err.Error()),
	)

	if status == http.StatusInternalServerError {
		l.Error("Form operation failed")
		http.Error(w, "Internal server error", status)
		return
	}

	l.Warn("Form request rejected", slog.Int("status", status))
	http.Error(w, err.Error(), status)
}
