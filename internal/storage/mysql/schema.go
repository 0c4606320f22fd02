package mysql

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS equipment_templates (
		id INT AUTO_INCREMENT PRIMARY KEY,
		equipment_type VARCHAR(64) NOT NULL UNIQUE,
		name VARCHAR(255) NOT NULL,
		toggle_group VARCHAR(128) NOT NULL,
		checklist JSON NOT NULL,
		sections JSON NOT NULL,
		defaults JSON NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS service_reports (
		id CHAR(36) PRIMARY KEY,
		equipment_type VARCHAR(64) NOT NULL,
		report_title VARCHAR(255) NOT NULL DEFAULT '',
		customer_name VARCHAR(255) NOT NULL DEFAULT '',
		tested_by VARCHAR(255) NOT NULL DEFAULT '',
		payload JSON NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		INDEX idx_service_reports_type (equipment_type),
		INDEX idx_service_reports_updated (updated_at)
	)`,
	`CREATE TABLE IF NOT EXISTS team_members (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL DEFAULT '',
		phone VARCHAR(64) NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS projects (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		client VARCHAR(255) NOT NULL,
		location VARCHAR(255) NOT NULL DEFAULT '',
		project_name VARCHAR(255) NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT TRUE
	)`,
}

// CreateSchema создаёт таблицы, если их ещё нет. Можно вызывать повторно.
func (s *Storage) CreateSchema(ctx context.Context) error {
	const op = "storage.mysql.CreateSchema"

	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: ошибка создания схемы: %w", op, err)
		}
	}

	return nil
}
