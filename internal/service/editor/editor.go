package editor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"opsconsole/internal/report"
	"opsconsole/internal/storage"
)

var ErrNoEquipmentType = errors.New("equipment_type is required")

type Storage interface {
	GetTemplate(ctx context.Context, equipmentType string) (*storage.Template, error)
	GetReport(ctx context.Context, id string) (*storage.ReportRecord, error)
	CreateReport(ctx context.Context, rec storage.ReportRecord) error
	UpdateReport(ctx context.Context, rec storage.ReportRecord) error
	GetTeamMember(ctx context.Context, id int64) (*storage.TeamMember, error)
	GetProject(ctx context.Context, id int64) (*storage.Project, error)
}

// Service связывает хранилище с функциями формы из пакета report.
// Сама форма живёт у клиента и каждый раз присылается целиком.
type Service struct {
	storage Storage
	now     func() time.Time
	newID   func() string
}

func NewEditorService(storage Storage) *Service {
	return &Service{
		storage: storage,
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
}

// New возвращает пустую форму для режима создания.
func (s *Service) New(ctx context.Context, equipmentType string) (report.FormState, error) {
	const op = "service.editor.New"

	if equipmentType == "" {
		return report.FormState{}, fmt.Errorf("%s: %w", op, ErrNoEquipmentType)
	}

	tmpl, err := s.storage.GetTemplate(ctx, equipmentType)
	if err != nil {
		return report.FormState{}, fmt.Errorf("%s: %w", op, err)
	}

	return report.Materialize(*tmpl), nil
}

// Load открывает сохранённый отчёт в режиме редактирования.
// Если тип оборудования редактора не задан, используется тип из отчёта.
func (s *Service) Load(ctx context.Context, id, equipmentType string) (report.FormState, error) {
	form, _, err := s.LoadWithTemplate(ctx, id, equipmentType)
	return form, err
}

func (s *Service) LoadWithTemplate(ctx context.Context, id, equipmentType string) (report.FormState, storage.Template, error) {
	const op = "service.editor.Load"

	var (
		rec  *storage.ReportRecord
		tmpl *storage.Template
	)

	if equipmentType != "" {
		// тип известен заранее: шаблон и отчёт грузим параллельно
		g, gCtx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			rec, err = s.storage.GetReport(gCtx, id)
			if err != nil {
				return fmt.Errorf("report: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			var err error
			tmpl, err = s.storage.GetTemplate(gCtx, equipmentType)
			if err != nil {
				return fmt.Errorf("template: %w", err)
			}
			return nil
		})

		if err := g.Wait(); err != nil {
			return report.FormState{}, storage.Template{}, fmt.Errorf("%s: %w", op, err)
		}
	} else {
		var err error
		rec, err = s.storage.GetReport(ctx, id)
		if err != nil {
			return report.FormState{}, storage.Template{}, fmt.Errorf("%s: report: %w", op, err)
		}

		equipmentType = report.PersistedType(rec.Payload)
		if equipmentType == "" {
			equipmentType = rec.EquipmentType
		}
		if equipmentType == "" {
			return report.FormState{}, storage.Template{}, fmt.Errorf("%s: %w", op, ErrNoEquipmentType)
		}

		tmpl, err = s.storage.GetTemplate(ctx, equipmentType)
		if err != nil {
			return report.FormState{}, storage.Template{}, fmt.Errorf("%s: template: %w", op, err)
		}
	}

	form, err := report.ReconcileJSON(*tmpl, rec.Payload)
	if err != nil {
		// испорченный payload не должен блокировать редактирование
		form = report.Materialize(*tmpl)
	}
	form.ID = rec.ID

	return form, *tmpl, nil
}

// Normalize пересобирает присланное клиентом состояние по шаблону его типа.
func (s *Service) Normalize(ctx context.Context, raw json.RawMessage) (report.FormState, error) {
	const op = "service.editor.Normalize"

	equipmentType := report.PersistedType(raw)
	if equipmentType == "" {
		return report.FormState{}, fmt.Errorf("%s: %w", op, ErrNoEquipmentType)
	}

	tmpl, err := s.storage.GetTemplate(ctx, equipmentType)
	if err != nil {
		return report.FormState{}, fmt.Errorf("%s: %w", op, err)
	}

	form, err := report.ReconcileJSON(*tmpl, raw)
	if err != nil {
		return report.FormState{}, fmt.Errorf("%s: %w", op, err)
	}

	return form, nil
}

func (s *Service) Edit(ctx context.Context, raw json.RawMessage, path, value string) (report.FormState, error) {
	form, err := s.Normalize(ctx, raw)
	if err != nil {
		return report.FormState{}, err
	}
	return report.ApplyFieldEdit(form, path, value)
}

func (s *Service) Toggle(ctx context.Context, raw json.RawMessage, group, section string) (report.FormState, error) {
	form, err := s.Normalize(ctx, raw)
	if err != nil {
		return report.FormState{}, err
	}
	return report.Toggle(form, group, section)
}

const (
	RowsAdd    = "add"
	RowsRemove = "remove"
)

var ErrRowsAction = errors.New("unknown rows action")

func (s *Service) Rows(ctx context.Context, raw json.RawMessage, section, action string, index int) (report.FormState, error) {
	form, err := s.Normalize(ctx, raw)
	if err != nil {
		return report.FormState{}, err
	}

	switch action {
	case RowsAdd:
		return report.AddRow(form, section)
	case RowsRemove:
		return report.RemoveRow(form, section, index)
	}

	return report.FormState{}, fmt.Errorf("%w: %q", ErrRowsAction, action)
}

func (s *Service) SelectProject(ctx context.Context, raw json.RawMessage, projectID int64) (report.FormState, error) {
	const op = "service.editor.SelectProject"

	var (
		form    report.FormState
		project *storage.Project
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		form, err = s.Normalize(gCtx, raw)
		return err
	})
	g.Go(func() error {
		var err error
		project, err = s.storage.GetProject(gCtx, projectID)
		return err
	})
	if err := g.Wait(); err != nil {
		return report.FormState{}, fmt.Errorf("%s: %w", op, err)
	}

	return report.SelectProject(form, *project), nil
}

func (s *Service) SelectEngineer(ctx context.Context, raw json.RawMessage, memberID int64) (report.FormState, error) {
	const op = "service.editor.SelectEngineer"

	var (
		form   report.FormState
		member *storage.TeamMember
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		form, err = s.Normalize(gCtx, raw)
		return err
	})
	g.Go(func() error {
		var err error
		member, err = s.storage.GetTeamMember(gCtx, memberID)
		return err
	})
	if err := g.Wait(); err != nil {
		return report.FormState{}, fmt.Errorf("%s: %w", op, err)
	}

	return report.SelectEngineer(form, *member), nil
}

// Submit сохраняет новый отчёт и возвращает его id.
func (s *Service) Submit(ctx context.Context, raw json.RawMessage) (string, error) {
	const op = "service.editor.Submit"

	form, err := s.Normalize(ctx, raw)
	if err != nil {
		return "", err
	}
	form.ID = s.newID()

	rec, err := s.record(form)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	rec.CreatedAt = rec.UpdatedAt

	if err := s.storage.CreateReport(ctx, rec); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return form.ID, nil
}

// Update перезаписывает отчёт целиком.
func (s *Service) Update(ctx context.Context, id string, raw json.RawMessage) error {
	const op = "service.editor.Update"

	form, err := s.Normalize(ctx, raw)
	if err != nil {
		return err
	}
	form.ID = id

	rec, err := s.record(form)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.UpdateReport(ctx, rec); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Service) record(form report.FormState) (storage.ReportRecord, error) {
	payload, err := json.Marshal(form)
	if err != nil {
		return storage.ReportRecord{}, fmt.Errorf("ошибка сериализации формы: %w", err)
	}

	return storage.ReportRecord{
		ID:            form.ID,
		EquipmentType: form.EquipmentType,
		Title:         form.ReportTitle,
		CustomerName:  form.CustomerName,
		TestedBy:      form.TestedBy,
		Payload:       payload,
		UpdatedAt:     s.now().UTC(),
	}, nil
}
