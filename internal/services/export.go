package services

import (
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/AnshRaj112/feedback-portal/internal/models"
)

const ExportSheet = "Feedback"

var exportHeader = []interface{}{"Submitted At", "Name", "Email", "Comment"}

// WriteFeedbackWorkbook writes feedbacks as an xlsx workbook, one row per record in the given order.
func WriteFeedbackWorkbook(w io.Writer, feedbacks []models.Feedback) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close workbook")
		}
	}()

	if err := f.SetSheetName("Sheet1", ExportSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(ExportSheet, "A1", &exportHeader); err != nil {
		return err
	}

	for i, fb := range feedbacks {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			fb.SubmittedAt.UTC().Format(time.RFC3339),
			fb.StudentName,
			fb.Email,
			fb.Comment,
		}
		if err := f.SetSheetRow(ExportSheet, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(ExportSheet, "A", "C", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(ExportSheet, "D", "D", 80); err != nil {
		return err
	}

	return f.Write(w)
}
