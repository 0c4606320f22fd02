package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	"opsconsole/internal/storage"
)

func (s *Storage) GetReport(ctx context.Context, id string) (*storage.ReportRecord, error) {
	const op = "storage.mysql.GetReport"

	query := `
		SELECT id, equipment_type, report_title, customer_name, tested_by, payload, created_at, updated_at
		FROM service_reports
		WHERE id = ?
	`

	rec := &storage.ReportRecord{}
	var payload string

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID,
		&rec.EquipmentType,
		&rec.Title,
		&rec.CustomerName,
		&rec.TestedBy,
		&payload,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: отчёт '%s' не найден: %w", op, id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: выполнение запроса завершилось ошибкой: %w", op, err)
	}
	rec.Payload = []byte(payload)

	return rec, nil
}

func (s *Storage) ListReports(ctx context.Context, filter storage.ReportFilter) ([]storage.ReportSummary, error) {
	const op = "storage.mysql.ListReports"

	query := `SELECT id, equipment_type, report_title, customer_name, tested_by, updated_at FROM service_reports`

	var (
		where []string
		args  []interface{}
	)
	if filter.EquipmentType != "" {
		where = append(where, "equipment_type = ?")
		args = append(args, filter.EquipmentType)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		where = append(where, "(report_title LIKE ? OR customer_name LIKE ? OR tested_by LIKE ?)")
		args = append(args, like, like, like)
	}
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY updated_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: ошибка получения списка отчётов: %w", op, err)
	}
	defer rows.Close()

	reports := []storage.ReportSummary{}
	for rows.Next() {
		var r storage.ReportSummary
		if err := rows.Scan(&r.ID, &r.EquipmentType, &r.Title, &r.CustomerName, &r.TestedBy, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: ошибка сканирования строки: %w", op, err)
		}
		reports = append(reports, r)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: ошибка при итерации по строкам: %w", op, err)
	}

	return reports, nil
}

func (s *Storage) CreateReport(ctx context.Context, rec storage.ReportRecord) error {
	const op = "storage.mysql.CreateReport"

	stmt := `INSERT INTO service_reports (id, equipment_type, report_title, customer_name, tested_by, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, stmt, rec.ID, rec.EquipmentType, rec.Title, rec.CustomerName, rec.TestedBy,
		string(rec.Payload), rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == errDuplicateEntry {
			return fmt.Errorf("%s: отчёт '%s': %w", op, rec.ID, storage.ErrExists)
		}
		return fmt.Errorf("%s: ошибка сохранения отчёта: %w", op, err)
	}

	return nil
}

// UpdateReport перезаписывает payload целиком; последний сохранивший побеждает.
func (s *Storage) UpdateReport(ctx context.Context, rec storage.ReportRecord) error {
	const op = "storage.mysql.UpdateReport"

	stmt := `UPDATE service_reports
		SET equipment_type = ?, report_title = ?, customer_name = ?, tested_by = ?, payload = ?, updated_at = ?
		WHERE id = ?`

	res, err := s.db.ExecContext(ctx, stmt, rec.EquipmentType, rec.Title, rec.CustomerName, rec.TestedBy,
		string(rec.Payload), rec.UpdatedAt, rec.ID)
	if err != nil {
		return fmt.Errorf("%s: ошибка обновления отчёта: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		// MySQL не считает строку изменённой, если значения совпали
		exists, err := s.reportExists(ctx, rec.ID)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if !exists {
			return fmt.Errorf("%s: отчёт '%s' не найден: %w", op, rec.ID, storage.ErrNotFound)
		}
	}

	return nil
}

func (s *Storage) DeleteReport(ctx context.Context, id string) error {
	const op = "storage.mysql.DeleteReport"

	res, err := s.db.ExecContext(ctx, `DELETE FROM service_reports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%s: ошибка удаления отчёта: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: отчёт '%s' не найден: %w", op, id, storage.ErrNotFound)
	}

	return nil
}

func (s *Storage) reportExists(ctx context.Context, id string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM service_reports WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
