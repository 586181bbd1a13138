package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/Shreshth-Agarwal/real-estate-hub-sub000/internal/model"
)

type Generator struct {
	fontName string
}

func NewGenerator() *Generator {
	return &Generator{fontName: "Helvetica"}
}

// Award renders the one-page award summary of an accepted RFQ.
func (g *Generator) Award(doc model.AwardDocument) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetTitle("RFQ award "+doc.RFQ.ID.String(), true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(g.fontName, "B", 14)
	pdf.CellFormat(0, 10, "RFQ award summary", "", 1, "C", false, 0, "")
	pdf.SetFont(g.fontName, "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated %s", formatDateTime(doc.GeneratedAt)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	section(pdf, g.fontName, "Request")
	rows := [][2]string{
		{"RFQ", doc.RFQ.ID.String()},
		{"Consumer", doc.RFQ.ConsumerID.String()},
		{"Quantity", fmt.Sprintf("%s %s", doc.RFQ.Quantity.String(), doc.RFQ.Unit)},
		{"Preferred date", formatDate(doc.RFQ.PreferredDate)},
		{"Message", safeValue(doc.RFQ.Message)},
	}
	drawTable(pdf, g.fontName, tr, rows)
	pdf.Ln(4)

	section(pdf, g.fontName, "Accepted quote")
	rows = [][2]string{
		{"Quote", doc.Accepted.ID.String()},
		{"Provider", doc.Accepted.ProviderID.String()},
		{"Price", fmt.Sprintf("%s %s", doc.Accepted.Price.StringFixed(2), doc.Accepted.Currency)},
		{"Delivery", formatDays(doc.Accepted.DeliveryETADays)},
		{"Notes", safeValue(doc.Accepted.Notes)},
		{"Accepted at", formatDateTime(doc.Accepted.UpdatedAt)},
	}
	drawTable(pdf, g.fontName, tr, rows)
	pdf.Ln(4)

	pdf.SetFont(g.fontName, "", 10)
	pdf.MultiCell(0, 6, fmt.Sprintf("Competing quotes declined: %d", doc.Competitors), "", "L", false)

	pdf.Ln(8)
	signatureBlock(pdf, g.fontName, "Consumer")
	signatureBlock(pdf, g.fontName, "Provider")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func section(pdf *gofpdf.Fpdf, fontName, title string) {
	pdf.SetFont(fontName, "B", 12)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
}

func drawTable(pdf *gofpdf.Fpdf, fontName string, tr func(string) string, rows [][2]string) {
	for _, row := range rows {
		pdf.SetFont(fontName, "B", 10)
		pdf.CellFormat(45, 7, row[0], "1", 0, "L", false, 0, "")
		pdf.SetFont(fontName, "", 10)
		pdf.CellFormat(0, 7, tr(truncate(row[1], 90)), "1", 1, "L", false, 0, "")
	}
}

func signatureBlock(pdf *gofpdf.Fpdf, fontName, label string) {
	pdf.SetFont(fontName, "", 11)
	pdf.CellFormat(0, 8, fmt.Sprintf("%s: ______________________", label), "", 1, "L", false, 0, "")
}

func safeValue(value *string) string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return "-"
	}
	return *value
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit-3]) + "..."
}

func formatDays(days *int) string {
	if days == nil {
		return "-"
	}
	return fmt.Sprintf("%d days", *days)
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Format("02.01.2006")
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02.01.2006 15:04")
}
