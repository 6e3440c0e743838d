package services

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/alimgiray/streakcard/internal/models"
)

const (
	DefaultTopUsernames = 10
	maxExportRows       = 10000

	summarySheet = "Summary"
	rendersSheet = "Renders"
)

// UsageRepository reads stored card render records.
type UsageRepository interface {
	Summary(topLimit int) (*models.UsageSummary, error)
	List(limit int) ([]*models.CardRender, error)
}

// UsageService reports on recorded card renders.
type UsageService struct {
	repo UsageRepository
}

// NewUsageService creates a new usage service
func NewUsageService(repo UsageRepository) *UsageService {
	return &UsageService{repo: repo}
}

// Summary returns totals plus the topLimit most requested usernames.
func (s *UsageService) Summary(topLimit int) (*models.UsageSummary, error) {
	if topLimit <= 0 {
		topLimit = DefaultTopUsernames
	}
	summary, err := s.repo.Summary(topLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize usage: %w", err)
	}
	return summary, nil
}

// ExportXLSX writes a workbook with a Summary sheet and a Renders sheet of recent records.
func (s *UsageService) ExportXLSX(w io.Writer) error {
	summary, err := s.Summary(DefaultTopUsernames)
	if err != nil {
		return err
	}
	renders, err := s.repo.List(maxExportRows)
	if err != nil {
		return fmt.Errorf("failed to list renders: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(rendersSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	if err := writeSummarySheet(f, summary, header); err != nil {
		return err
	}
	if err := writeRendersSheet(f, renders, header); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, summary *models.UsageSummary, header int) error {
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total renders", summary.TotalRenders},
		{"Error renders", summary.ErrorRenders},
		{"Avatar embedded", summary.AvatarEmbedded},
		{},
		{"Username", "Renders"},
	}
	for _, row := range summary.TopUsernames {
		rows = append(rows, []interface{}{row.Username, row.Count})
	}

	if err := setRows(f, summarySheet, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", "B1", header); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A6", "B6", header); err != nil {
		return err
	}
	return f.SetColWidth(summarySheet, "A", "A", 20)
}

func writeRendersSheet(f *excelize.File, renders []*models.CardRender, header int) error {
	rows := [][]interface{}{
		{"ID", "Username", "Variant", "Status", "Avatar Embedded", "Duration (ms)", "Created At"},
	}
	for _, r := range renders {
		rows = append(rows, []interface{}{
			r.ID,
			r.Username,
			string(r.Variant),
			string(r.Status),
			r.AvatarEmbedded,
			r.DurationMS,
			r.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	if err := setRows(f, rendersSheet, rows); err != nil {
		return err
	}
	if err := f.SetCellStyle(rendersSheet, "A1", "G1", header); err != nil {
		return err
	}
	return f.SetColWidth(rendersSheet, "A", "A", 38)
}

func setRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
