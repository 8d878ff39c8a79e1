package checkpoint

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/harvestly/siteharvest/internal/model"
)

// summarySheet is the worksheet name for the flattened page summaries.
const summarySheet = "Pages"

// writeWorkbook writes one flattened SummaryRow per record into an xlsx
// workbook: a header row followed by one row per page in result order.
func writeWorkbook(path string, records []*model.PageRecord) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}

	header := model.SummaryHeader()
	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := setRow(f, 1, headerRow); err != nil {
		return err
	}

	for i, record := range records {
		row := record.Flatten()
		cells := []any{
			row.URL,
			row.Title,
			row.MainText,
			row.HeadingsCount,
			row.ParagraphsCount,
			row.ListsCount,
			row.ImagesCount,
			row.Description,
			row.Keywords,
		}
		if err := setRow(f, i+2, cells); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	return nil
}

// setRow writes one worksheet row starting at column A.
func setRow(f *excelize.File, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to compute cell name: %w", err)
	}
	if err := f.SetSheetRow(summarySheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}
