package report

import (
	"github.com/xuri/excelize/v2"

	"github.com/NightNord/odis2vcp/internal/common"
	"github.com/NightNord/odis2vcp/internal/controller"
)

const batchSheet = "Runs"

// WriteBatch produces a workbook summarizing a batch: one row per converted
// container.
func WriteBatch(path string, sums []controller.Summary) error {
	f := excelize.NewFile()
	if index, _ := f.GetSheetIndex(batchSheet); index == -1 {
		if _, err := f.NewSheet(batchSheet); err != nil {
			return err
		}
	}
	activeIndex, _ := f.GetSheetIndex(batchSheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{"Input", "Output", "Status", "Accepted", "Skipped", "Total"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(batchSheet, cell, h)
	}

	for row, sum := range sums {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row+2)
			_ = f.SetCellValue(batchSheet, cell, v)
		}
		write(1, sum.InputPath)
		write(2, sum.OutputPath)
		write(3, string(sum.Status))
		write(4, sum.Accepted)
		write(5, sum.Skipped)
		write(6, sum.Total)
	}

	if err := f.SaveAs(path); err != nil {
		return common.IOError("write batch report", err)
	}
	return nil
}
