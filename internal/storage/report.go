package storage

import (
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("not found")
	ErrExists   = errors.New("already exists")
)

// ReportRecord is a persisted service report. Payload is stored verbatim.
type ReportRecord struct {
	ID            string          `json:"id"`
	EquipmentType string          `json:"equipment_type"`
	Title         string          `json:"report_title"`
	CustomerName  string          `json:"customer_name"`
	TestedBy      string          `json:"tested_by"`
	Payload       json.RawMessage `json:"payload"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type ReportSummary struct {
	ID            string    `json:"id"`
	EquipmentType string    `json:"equipment_type"`
	Title         string    `json:"report_title"`
	CustomerName  string    `json:"customer_name"`
	TestedBy      string    `json:"tested_by"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ReportFilter struct {
	EquipmentType string
	Search        string
}
