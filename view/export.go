package view

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"menuboard/model"
)

const exportSheet = "Menus"

// ExportWorkbook writes records as an xlsx workbook with a header row.
func ExportWorkbook(w io.Writer, records []model.MenuRecord, baseURL string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := []any{"#", "ชื่อเมนู", "ราคา", "ต้นทุน", "รูปภาพ"}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, rec := range records {
		image := MsgNoImage
		if rec.HasImage() {
			image = baseURL + rec.Image
		}
		row := []any{i + 1, rec.Name, rec.Price, rec.Cost, image}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
