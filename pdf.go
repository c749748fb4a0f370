package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth  = 210 // A4 width in mm
	pdfMargin     = 10  // Margin in mm
	pdfLineHeight = 6   // Row height in mm
	pdfFontSize   = 9
)

// Column widths in mm; each table spans the printable width.
var (
	pdfTotalsColumns = []float64{40, 50, 40, 60}
	pdfTopColumns    = []float64{30, 30, 130}
)

// generatePDF writes the report tables for the scanned input to outputPath.
func generatePDF(report AggregateReport, scanned string, outputPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "") // Portrait, mm, A4, default font dir
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("") // Core fonts are cp1252

	pdf.SetFont("Helvetica", "B", pdfFontSize+4)
	pdf.MultiCell(pdfPageWidth-2*pdfMargin, pdfLineHeight, tr("Line counts for "+scanned), "", "L", false)
	pdf.Ln(pdfLineHeight / 2)

	exts := report.Extensions()

	writePDFRow(pdf, pdfTotalsColumns, []string{"Extension", "Language", "Files", "Line Count"}, true)
	for _, ext := range exts {
		writePDFRow(pdf, pdfTotalsColumns, []string{
			ext,
			languageName(ext),
			humanize.Comma(int64(report.Files[ext])),
			humanize.Comma(int64(report.Totals[ext])),
		}, false)
	}
	writePDFRow(pdf, pdfTotalsColumns, []string{"Total", "", humanize.Comma(int64(countFiles(report))), humanize.Comma(int64(report.TotalLines))}, true)

	for _, ext := range exts {
		pdf.Ln(pdfLineHeight)
		pdf.SetFont("Helvetica", "B", pdfFontSize+1)
		pdf.CellFormat(0, pdfLineHeight, fmt.Sprintf("Top %d biggest files for extension: %s", topFilesLimit, ext), "", 1, "L", false, 0, "")

		writePDFRow(pdf, pdfTopColumns, []string{"Extension", "Line Count", "Path"}, true)
		for _, file := range report.TopFiles[ext] {
			path := fitPDFText(pdf, tr(file.Path), pdfTopColumns[2]-2)
			writePDFRow(pdf, pdfTopColumns, []string{file.Extension, strconv.Itoa(file.LineCount), path}, false)
		}
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("error building PDF: %w", err)
	}
	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("error writing PDF %s: %w", outputPath, err)
	}
	return nil
}

// writePDFRow prints one bordered table row.
func writePDFRow(pdf *gofpdf.Fpdf, widths []float64, cells []string, header bool) {
	style := ""
	if header {
		style = "B"
		pdf.SetFillColor(230, 230, 230)
	}
	pdf.SetFont("Helvetica", style, pdfFontSize)
	for i, cell := range cells {
		pdf.CellFormat(widths[i], pdfLineHeight, cell, "1", 0, "L", header, 0, "")
	}
	pdf.Ln(-1)
}

// fitPDFText shortens text from the left until it fits into width.
func fitPDFText(pdf *gofpdf.Fpdf, text string, width float64) string {
	if pdf.GetStringWidth(text) <= width {
		return text
	}
	for len(text) > 0 && pdf.GetStringWidth("..."+text) > width {
		text = text[1:]
	}
	return "..." + text
}
