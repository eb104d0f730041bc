// Package report renders an extraction run summary as an XLSX workbook.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/NightNord/odis2vcp/internal/common"
	"github.com/NightNord/odis2vcp/internal/controller"
)

const sheet = "Datasets"

// Write produces a workbook at path with one row per container record plus a
// trailing totals row. Row order matches container order.
func Write(path string, sum controller.Summary) error {
	data, err := Build(sum)
	if err != nil {
		return err
	}
	f, err := buildWorkbook(data)
	if err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return common.IOError("write report", err)
	}
	return nil
}

// Row is one rendered report line.
type Row struct {
	Index   int
	Module  string
	Kind    string
	Name    string
	Version string
	Size    int
	Outcome string
	Reason  string
}

// Build shapes the summary into report rows.
func Build(sum controller.Summary) ([]Row, error) {
	rows := make([]Row, 0, len(sum.Records))
	for _, rec := range sum.Records {
		outcome := "accepted"
		if !rec.Accepted {
			outcome = "skipped"
		}
		kind := ""
		if rec.Kind >= 0 {
			kind = fmt.Sprintf("0x%02X", rec.Kind)
		}
		rows = append(rows, Row{
			Index:   rec.Index,
			Module:  rec.Module,
			Kind:    kind,
			Name:    rec.Name,
			Version: rec.Version,
			Size:    rec.SizeBytes,
			Outcome: outcome,
			Reason:  rec.Reason,
		})
	}
	return rows, nil
}

func buildWorkbook(rows []Row) (*excelize.File, error) {
	f := excelize.NewFile()
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{"#", "Module", "Diagnostic Address", "ZDC Name", "ZDC Version", "Size (bytes)", "Outcome", "Reason"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	rowNum := 2
	accepted, skipped := 0, 0
	for _, r := range rows {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, rowNum)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, r.Index)
		write(2, r.Module)
		write(3, r.Kind)
		write(4, r.Name)
		write(5, r.Version)
		write(6, r.Size)
		write(7, r.Outcome)
		write(8, r.Reason)
		if r.Outcome == "accepted" {
			accepted++
		} else {
			skipped++
		}
		rowNum++
	}

	totalCell, _ := excelize.CoordinatesToCellName(1, rowNum+1)
	_ = f.SetCellValue(sheet, totalCell, fmt.Sprintf("%d accepted, %d skipped, %d total", accepted, skipped, len(rows)))
	return f, nil
}
