package export

import (
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"

	"almacen/internal/model"
	"almacen/internal/report"
)

// newReportPDF builds the shared page template: a centered title header
// and a page-number footer.
func newReportPDF() *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 10, "INVENTORY MANAGEMENT SYSTEM", "", 1, "C", false, 0, "")
		pdf.Ln(5)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	return pdf
}

var iconReplacer = strings.NewReplacer(
	"📤", ">>",
	"📥", "<<",
	"✅", "OK",
)

// cleanText makes a string printable with the core latin-1 fonts: known
// icons become ASCII markers, anything else outside latin-1 becomes "?".
func cleanText(text string) string {
	text = iconReplacer.Replace(text)
	var b strings.Builder
	for _, r := range text {
		if r > 0xFF {
			b.WriteByte('?')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func clip(text string, max int) string {
	if len(text) > max {
		return text[:max]
	}
	return text
}

// InventoryPDF writes the full inventory listing as a paginated table.
func InventoryPDF(path string, items []*model.Item) error {
	pdf := newReportPDF()
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 9)
	widths := []float64{10, 20, 60, 15, 20, 65}
	for i, h := range []string{"ID", "Code", "Name", "Qty", "Loc", "Description"} {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, item := range items {
		cells := []string{
			item.ID, item.Code, clip(item.Name, 30),
			fmt.Sprintf("%d", item.Quantity), item.Location, clip(item.Description, 35),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 8, cleanText(c), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.OutputFileAndClose(path)
}

// ItemPDF writes a single-item fact sheet with the full movement history.
func ItemPDF(path string, item *model.Item) error {
	pdf := newReportPDF()
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, cleanText("FACT SHEET: "+item.Name), "", 1, "", false, 0, "")
	pdf.Ln(5)

	field := func(label, value string) {
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(35, 8, label, "", 0, "", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 8, cleanText(value), "", 1, "", false, 0, "")
	}
	field("CODE:", item.Code)
	field("LOCATION:", item.Location)
	field("CURRENT STOCK:", fmt.Sprintf("%d", item.Quantity))
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 8, "DESCRIPTION:", "", 1, "", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 5, cleanText(item.Description), "", "", false)
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 8, "MOVEMENT HISTORY:", "", 1, "", false, 0, "")
	pdf.SetFont("Arial", "", 8)
	if len(item.History) == 0 {
		pdf.CellFormat(0, 6, "No recorded movements", "1", 1, "", false, 0, "")
	}
	for _, line := range item.History {
		pdf.CellFormat(0, 6, cleanText(line), "1", 1, "", false, 0, "")
	}

	return pdf.OutputFileAndClose(path)
}

// DailyPDF writes the daily audit report as a chronological table.
func DailyPDF(path string, s report.Summary) error {
	pdf := newReportPDF()
	pdf.AddPage()

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 10, "Report date: "+s.Date, "", 1, "", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 9)
	widths := []float64{20, 25, 20, 50, 75}
	for i, h := range []string{"Time", "Action", "Code", "Item", "Detail"} {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, e := range s.Chronological {
		cells := []string{e.Time, string(e.Action), e.Code, clip(e.Name, 25), clip(e.Detail, 40)}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 8, cleanText(c), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.OutputFileAndClose(path)
}
