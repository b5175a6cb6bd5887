package report

import (
	"MotifFinderSampler/backend/go/internal/models"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the motif workbook.
const (
	MotifsSheet    = "Motifs"
	LocationsSheet = "Locations"
)

var (
	motifsHeader    = []interface{}{"Motif", "Consensus", "Width", "Sites"}
	locationsHeader = []interface{}{"Motif", "Sequence", "Start", "End", "Strand", "Site"}
)

// WriteWorkbook exports set as an xlsx file with one row per motif and one row
// per site.
func WriteWorkbook(path string, set *models.MotifSet) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", MotifsSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(LocationsSheet); err != nil {
		return err
	}

	if err := setRow(f, MotifsSheet, 1, motifsHeader); err != nil {
		return err
	}
	if err := setRow(f, LocationsSheet, 1, locationsHeader); err != nil {
		return err
	}

	locRow := 2
	if set != nil {
		for i, m := range set.Motifs {
			name := motifName(i)
			row := []interface{}{name, m.IupacSequence, m.PWM.Width(), len(m.Locations)}
			if err := setRow(f, MotifsSheet, i+2, row); err != nil {
				return err
			}
			for _, loc := range m.Locations {
				row := []interface{}{name, loc.SequenceID, loc.Start, loc.End, loc.Orientation, loc.Sequence}
				if err := setRow(f, LocationsSheet, locRow, row); err != nil {
					return err
				}
				locRow++
			}
		}
	}

	f.SetActiveSheet(0)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
