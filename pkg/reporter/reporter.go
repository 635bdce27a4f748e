// Package reporter renders fleet statistics reports as Excel workbooks.
package reporter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/tealeg/xlsx/v3"

	"asset-tracking-api/internal/service"
)

// Workbook builds an Excel workbook from a statistics report. The workbook
// carries a summary sheet plus one sheet each for the variant and office
// breakdowns.
func Workbook(rep *service.Report) (*xlsx.File, error) {
	file := xlsx.NewFile()

	summary, err := file.AddSheet("Summary")
	if err != nil {
		return nil, fmt.Errorf("failed to add sheet: %w", err)
	}
	addPair(summary, "Generated At", rep.GeneratedAt.Format("2006-01-02 15:04:05"))
	addPair(summary, "Total Assets", strconv.Itoa(rep.TotalAssets))
	addPair(summary, "Total Value (USD)", rep.TotalValue.StringFixed(2))
	addPair(summary, "Near End Of Life", strconv.Itoa(rep.NearEndOfLife))
	if rep.Oldest != nil {
		addPair(summary, "Oldest Asset", assetLine(rep.Oldest.Manufacturer, rep.Oldest.Model, rep.Oldest.PurchaseDate.Format("2006-01-02")))
	}
	if rep.Newest != nil {
		addPair(summary, "Newest Asset", assetLine(rep.Newest.Manufacturer, rep.Newest.Model, rep.Newest.PurchaseDate.Format("2006-01-02")))
	}

	variants, err := file.AddSheet("By Variant")
	if err != nil {
		return nil, fmt.Errorf("failed to add sheet: %w", err)
	}
	header := variants.AddRow()
	header.AddCell().SetString("Variant")
	header.AddCell().SetString("Count")
	for _, vc := range rep.ByKind {
		row := variants.AddRow()
		row.AddCell().SetString(string(vc.Kind))
		row.AddCell().SetInt(vc.Count)
	}

	offices, err := file.AddSheet("By Office")
	if err != nil {
		return nil, fmt.Errorf("failed to add sheet: %w", err)
	}
	header = offices.AddRow()
	header.AddCell().SetString("Office")
	header.AddCell().SetString("Count")
	header.AddCell().SetString("Total Value (USD)")
	for _, o := range rep.ByOffice {
		row := offices.AddRow()
		row.AddCell().SetString(o.Name)
		row.AddCell().SetInt(o.Count)
		row.AddCell().SetString(o.TotalValue.StringFixed(2))
	}

	return file, nil
}

// Write renders the report workbook to w.
func Write(rep *service.Report, w io.Writer) error {
	file, err := Workbook(rep)
	if err != nil {
		return err
	}
	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func addPair(sheet *xlsx.Sheet, label, value string) {
	row := sheet.AddRow()
	row.AddCell().SetString(label)
	row.AddCell().SetString(value)
}

func assetLine(manufacturer, model, purchased string) string {
	return fmt.Sprintf("%s %s (purchased %s)", manufacturer, model, purchased)
}
