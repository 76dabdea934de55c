// Package export renders the full inventory listing, the single-item fact
// sheet and the daily audit report into the three document flavors:
// spreadsheet, prose document and paginated report.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"almacen/internal/model"
	"almacen/internal/report"
)

// InventoryXLSX writes the full inventory listing as a workbook.
func InventoryXLSX(path string, items []*model.Item, now time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Inventory"
	f.SetSheetName("Sheet1", sheet)

	header := []any{"ID", "Code", "Name", "Quantity", "Location", "Status Today", "Description"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := boldRow(f, sheet, 1, len(header)); err != nil {
		return err
	}

	for i, item := range items {
		row := []any{item.ID, item.Code, item.Name, item.Quantity, item.Location,
			item.StatusToday(now), item.Description}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

// ItemXLSX writes a single-item fact sheet: fields plus full history.
func ItemXLSX(path string, item *model.Item) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Fact Sheet"
	f.SetSheetName("Sheet1", sheet)

	rows := [][]any{
		{"FACT SHEET"},
		{"ID", "Code", "Name", "Stock", "Location"},
		{item.ID, item.Code, item.Name, item.Quantity, item.Location},
		{},
		{"DESCRIPTION:", item.Description},
		{},
		{"HISTORY"},
	}
	for _, line := range item.History {
		rows = append(rows, []any{line})
	}

	for i := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}
	if err := boldRow(f, sheet, 1, 1); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

// DailyXLSX writes the daily audit report: summary block plus the
// chronological entry list.
func DailyXLSX(path string, s report.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Daily Report"
	f.SetSheetName("Sheet1", sheet)

	rows := [][]any{
		{fmt.Sprintf("ACTIVITY REPORT - %s", s.Date)},
		{},
		{"--- SUMMARY ---"},
		{"Action", "Total"},
		{"Items created", s.Created},
		{"Items deleted", s.Deleted},
		{"Loans", s.Loans},
		{"Returns", s.Returns},
		{},
		{"TIME", "ACTION", "CODE", "ITEM", "DETAIL"},
	}
	for _, e := range s.Chronological {
		rows = append(rows, []any{e.Time, string(e.Action), e.Code, e.Name, e.Detail})
	}

	for i := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}
	if err := boldRow(f, sheet, 10, 5); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

func boldRow(f *excelize.File, sheet string, row, cols int) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}
	first := fmt.Sprintf("A%d", row)
	last, _ := excelize.CoordinatesToCellName(cols, row)
	if err := f.SetCellStyle(sheet, first, last, style); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}
	return nil
}
