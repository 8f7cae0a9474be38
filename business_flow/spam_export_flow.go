package businessflow

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/amirphl/spam-guard/app/dto"
	"github.com/amirphl/spam-guard/models"
	"github.com/amirphl/spam-guard/repository"
	"github.com/amirphl/spam-guard/utils"
	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
)

// Export formats
const (
	ExportFormatXLSX = "xlsx"
	ExportFormatCSV  = "csv"

	exportSheetName = "numeros_spam"
	exportBaseName  = "numeros_spam"
)

// ExportFile is a rendered registry dump ready to be sent as an attachment
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

// SpamExportFlow renders the whole registry as a downloadable file
type SpamExportFlow interface {
	Export(ctx context.Context, format string) (*ExportFile, error)
}

type SpamExportFlowImpl struct {
	spamRepo repository.SpamNumberRepository
}

func NewSpamExportFlow(spamRepo repository.SpamNumberRepository) SpamExportFlow {
	return &SpamExportFlowImpl{spamRepo: spamRepo}
}

// Export renders every spam number in id order. An empty format means xlsx.
func (f *SpamExportFlowImpl) Export(ctx context.Context, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatXLSX
	}
	if format != ExportFormatXLSX && format != ExportFormatCSV {
		return nil, NewBusinessErrorf("UNSUPPORTED_EXPORT_FORMAT", "Unsupported export format %q", ErrUnsupportedExportFormat, format)
	}

	rows, err := f.spamRepo.ByFilter(ctx, models.SpamNumberFilter{}, "id ASC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("FETCH_SPAM_NUMBERS_FAILED", "Failed to fetch spam numbers", err)
	}

	records := make([]*dto.SpamNumberExportRow, 0, len(rows))
	for _, r := range rows {
		records = append(records, toExportRow(r))
	}

	if format == ExportFormatCSV {
		content, err := gocsv.MarshalBytes(&records)
		if err != nil {
			return nil, NewBusinessError("CSV_WRITE_ERROR", "Failed to write CSV file", err)
		}
		return &ExportFile{
			Filename:    exportBaseName + ".csv",
			ContentType: "text/csv; charset=utf-8",
			Content:     content,
		}, nil
	}

	content, err := renderSpamNumbersXLSX(records)
	if err != nil {
		return nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}
	return &ExportFile{
		Filename:    exportBaseName + ".xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Content:     content,
	}, nil
}

func toExportRow(spam *models.SpamNumber) *dto.SpamNumberExportRow {
	return &dto.SpamNumberExportRow{
		ID:           spam.ID,
		Number:       spam.Number,
		Note:         utils.DerefOr(spam.Note, ""),
		AddedBy:      spam.AddedBy,
		RegisteredAt: utils.FormatRFC3339(spam.RegisteredAt),
	}
}

func renderSpamNumbersXLSX(records []*dto.SpamNumberExportRow) ([]byte, error) {
	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	if err := xl.SetSheetName(xl.GetSheetName(0), exportSheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	header := []string{"id", "numero", "nota", "quienagrego", "fecharegistro"}
	if err := xl.SetSheetRow(exportSheetName, "A1", &header); err != nil {
		return nil, err
	}

	for i, r := range records {
		record := []string{
			strconv.FormatUint(uint64(r.ID), 10),
			r.Number,
			r.Note,
			r.AddedBy,
			r.RegisteredAt,
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := xl.SetSheetRow(exportSheetName, cellRef, &record); err != nil {
			return nil, err
		}
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
