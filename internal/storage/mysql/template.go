package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"opsconsole/internal/storage"
)

func (s *Storage) GetTemplate(ctx context.Context, equipmentType string) (*storage.Template, error) {
	const op = "storage.mysql.GetTemplate"

	query := `
		SELECT id, equipment_type, name, toggle_group, checklist, sections, defaults, is_active
		FROM equipment_templates
		WHERE equipment_type = ? AND is_active = TRUE
	`

	template := &storage.Template{}

	// JSON колонки сканируем как строки
	var checklistJSON, sectionsJSON, defaultsJSON string
	err := s.db.QueryRowContext(ctx, query, equipmentType).Scan(
		&template.ID,
		&template.EquipmentType,
		&template.Name,
		&template.ToggleGroup,
		&checklistJSON,
		&sectionsJSON,
		&defaultsJSON,
		&template.IsActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: шаблон '%s' не найден: %w", op, equipmentType, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: выполнение запроса завершилось ошибкой: %w", op, err)
	}

	if err := json.Unmarshal([]byte(checklistJSON), &template.Checklist); err != nil {
		return nil, fmt.Errorf("%s: ошибка парсинга JSON чек-листа: %w", op, err)
	}
	if err := json.Unmarshal([]byte(sectionsJSON), &template.Sections); err != nil {
		return nil, fmt.Errorf("%s: ошибка парсинга JSON секций: %w", op, err)
	}
	if err := json.Unmarshal([]byte(defaultsJSON), &template.Defaults); err != nil {
		return nil, fmt.Errorf("%s: ошибка парсинга JSON тумблеров: %w", op, err)
	}

	return template, nil
}

func (s *Storage) GetAllTemplates(ctx context.Context) ([]storage.TemplateSummary, error) {
	const op = "storage.mysql.GetAllTemplates"

	stmt := `SELECT id, equipment_type, name, is_active FROM equipment_templates WHERE is_active = TRUE ORDER BY equipment_type`

	rows, err := s.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var templates []storage.TemplateSummary

	for rows.Next() {
		var t storage.TemplateSummary

		if err := rows.Scan(&t.ID, &t.EquipmentType, &t.Name, &t.IsActive); err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строки: %w", op, err)
		}

		templates = append(templates, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return templates, nil
}

// UpsertTemplates записывает шаблоны одной транзакцией.
// Существующий шаблон того же типа перезаписывается.
func (s *Storage) UpsertTemplates(ctx context.Context, templates []storage.Template) error {
	const op = "storage.mysql.UpsertTemplates"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: не удалось начать транзакцию: %w", op, err)
	}

	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO equipment_templates (equipment_type, name, toggle_group, checklist, sections, defaults, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			name = VALUES(name),
			toggle_group = VALUES(toggle_group),
			checklist = VALUES(checklist),
			sections = VALUES(sections),
			defaults = VALUES(defaults),
			is_active = VALUES(is_active)
	`)
	if err != nil {
		return fmt.Errorf("%s: не удалось подготовить запрос: %w", op, err)
	}
	defer stmt.Close()

	for _, t := range templates {
		checklist, sections, defaults, err := marshalTemplate(t)
		if err != nil {
			return fmt.Errorf("%s: %s: %w", op, t.EquipmentType, err)
		}

		if _, err := stmt.ExecContext(ctx, t.EquipmentType, t.Name, t.ToggleGroup, checklist, sections, defaults, t.IsActive); err != nil {
			return fmt.Errorf("%s: ошибка сохранения шаблона '%s': %w", op, t.EquipmentType, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: не удалось закоммитить транзакцию: %w", op, err)
	}

	return nil
}

func marshalTemplate(t storage.Template) (checklist, sections, defaults string, err error) {
	if t.Checklist == nil {
		t.Checklist = []storage.ChecklistItem{}
	}
	if t.Sections == nil {
		t.Sections = map[string]storage.SectionSchema{}
	}
	if t.Defaults == nil {
		t.Defaults = map[string]bool{}
	}

	c, err := json.Marshal(t.Checklist)
	if err != nil {
		return "", "", "", err
	}
	s, err := json.Marshal(t.Sections)
	if err != nil {
		return "", "", "", err
	}
	d, err := json.Marshal(t.Defaults)
	if err != nil {
		return "", "", "", err
	}

	return string(c), string(s), string(d), nil
}
