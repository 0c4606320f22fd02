package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"opsconsole/internal/storage"
)

func (s *Storage) GetTeamMembers(ctx context.Context) ([]storage.TeamMember, error) {
	const op = "storage.mysql.GetTeamMembers"

	rows, err := s.db.QueryContext(ctx, `SELECT id, name, email, phone FROM team_members WHERE is_active = TRUE ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка получения сотрудников: %w", op, err)
	}
	defer rows.Close()

	members := []storage.TeamMember{}
	for rows.Next() {
		var m storage.TeamMember
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone); err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строк для сотрудников: %w", op, err)
		}
		members = append(members, m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return members, nil
}

func (s *Storage) GetTeamMember(ctx context.Context, id int64) (*storage.TeamMember, error) {
	const op = "storage.mysql.GetTeamMember"

	m := &storage.TeamMember{}
	err := s.db.QueryRowContext(ctx, `SELECT id, name, email, phone FROM team_members WHERE id = ?`, id).
		Scan(&m.ID, &m.Name, &m.Email, &m.Phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: сотрудник %d не найден: %w", op, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return m, nil
}

func (s *Storage) GetProjects(ctx context.Context) ([]storage.Project, error) {
	const op = "storage.mysql.GetProjects"

	rows, err := s.db.QueryContext(ctx, `SELECT id, client, location, project_name FROM projects WHERE is_active = TRUE ORDER BY client ASC`)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка получения проектов: %w", op, err)
	}
	defer rows.Close()

	projects := []storage.Project{}
	for rows.Next() {
		var p storage.Project
		if err := rows.Scan(&p.ID, &p.Client, &p.Location, &p.ProjectName); err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строк для проектов: %w", op, err)
		}
		projects = append(projects, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return projects, nil
}

func (s *Storage) GetProject(ctx context.Context, id int64) (*storage.Project, error) {
	const op = "storage.mysql.GetProject"

	p := &storage.Project{}
	err := s.db.QueryRowContext(ctx, `SELECT id, client, location, project_name FROM projects WHERE id = ?`, id).
		Scan(&p.ID, &p.Client, &p.Location, &p.ProjectName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: проект %d не найден: %w", op, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}
