package report

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/poi-parking/internal/model"
)

// SummarySheet is the name of the first sheet of the workbook.
const SummarySheet = "summary"

// WriteXLSX saves a workbook with a summary sheet followed by one sheet per
// confidence tier that has records. Tier sheets use the CSV column layout.
func WriteXLSX(path string, records []model.Record) error {
	f := xlsx.NewFile()

	summary, err := f.AddSheet(SummarySheet)
	if err != nil {
		return eris.Wrap(err, "xlsx: add summary sheet")
	}
	addRow(summary, "tier", "count")
	groups := Group(records)
	for _, tier := range model.Tiers {
		r := summary.AddRow()
		r.AddCell().SetString(string(tier))
		r.AddCell().SetInt(len(groups[tier]))
	}
	r := summary.AddRow()
	r.AddCell().SetString("total")
	r.AddCell().SetInt(len(records))

	for _, tier := range model.Tiers {
		rows := groups[tier]
		if len(rows) == 0 {
			continue
		}
		sheet, err := f.AddSheet(string(tier))
		if err != nil {
			return eris.Wrapf(err, "xlsx: add sheet %s", tier)
		}
		addRow(sheet, model.Columns...)
		for _, rec := range rows {
			writeRecord(sheet.AddRow(), rec)
		}
	}

	return eris.Wrapf(f.Save(path), "xlsx: save %s", path)
}

func addRow(sheet *xlsx.Sheet, values ...string) {
	r := sheet.AddRow()
	for _, v := range values {
		r.AddCell().SetString(v)
	}
}

// writeRecord keeps numeric columns numeric so spreadsheets can sort them.
func writeRecord(r *xlsx.Row, rec model.Record) {
	for i, v := range row(rec) {
		cell := r.AddCell()
		switch model.Columns[i] {
		case "rowid":
			cell.SetInt(rec.RowID)
		case "latitude":
			cell.SetFloat(rec.Latitude)
		case "longitude":
			cell.SetFloat(rec.Longitude)
		default:
			cell.SetString(v)
		}
	}
}
