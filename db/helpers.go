package db

import (
	_ "embed"
	"time"

	"gorm.io/gorm"
)

//go:embed queries/export_summary.sql
var exportSummarySql string

type ExportSummary struct {
	ID           uint
	CreatedAt    time.Time
	UUID         string
	Source       string
	Output       string
	Profile      string
	StartSeconds float64
	EndSeconds   float64
	Outcome      string
	ExitCode     int
	LogLines     int
}

// ListExports returns the most recent exports first. A non-positive
// limit returns everything.
func ListExports(db *gorm.DB, limit int) ([]ExportSummary, error) {
	if limit <= 0 {
		limit = -1
	}
	var result []ExportSummary
	if err := db.Raw(exportSummarySql, limit).Scan(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}
