package excel

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/Shreshth-Agarwal/real-estate-hub-sub000/internal/model"
)

const (
	summarySheet = "RFQ"
	quotesSheet  = "Quotes"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// QuoteComparison writes the RFQ summary and its quotes side by side, the
// lowest price per currency highlighted.
func (g *Generator) QuoteComparison(report model.QuoteComparison) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	g.writeSummary(file, report)

	if _, err := file.NewSheet(quotesSheet); err != nil {
		return nil, err
	}
	if err := g.writeQuotes(file, report.Quotes); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, report model.QuoteComparison) {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(summarySheet, cell, value)
	}

	rfq := report.RFQ
	set("A1", "RFQ")
	set("B1", rfq.ID.String())
	set("A2", "Status")
	set("B2", string(rfq.Status))
	set("A3", "Quantity")
	set("B3", rfq.Quantity.String())
	set("A4", "Unit")
	set("B4", rfq.Unit)
	set("A5", "Preferred date")
	set("B5", formatDatePtr(rfq.PreferredDate))
	set("A6", "Message")
	set("B6", formatString(rfq.Message))
	set("A7", "Quotes")
	set("B7", len(report.Quotes))
	set("A8", "Generated at")
	set("B8", formatDateTime(report.GeneratedAt))

	_ = file.SetColWidth(summarySheet, "A", "A", 18)
	_ = file.SetColWidth(summarySheet, "B", "B", 45)
}

func (g *Generator) writeQuotes(file *excelize.File, quotes []model.Quote) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(quotesSheet, cell, value)
	}

	headers := []string{
		"Provider",
		"Price",
		"Currency",
		"Delivery, days",
		"Status",
		"Notes",
		"Updated at",
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}

	best, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#C6EFCE"}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	lowest := lowestPrices(quotes)

	for i, quote := range quotes {
		row := i + 2
		set(fmt.Sprintf("A%d", row), quote.ProviderID.String())
		set(fmt.Sprintf("B%d", row), quote.Price.InexactFloat64())
		set(fmt.Sprintf("C%d", row), quote.Currency)
		set(fmt.Sprintf("D%d", row), formatInt(quote.DeliveryETADays))
		set(fmt.Sprintf("E%d", row), string(quote.Status))
		set(fmt.Sprintf("F%d", row), formatString(quote.Notes))
		set(fmt.Sprintf("G%d", row), formatDateTime(quote.UpdatedAt))

		if price, ok := lowest[quote.Currency]; ok && price.Equal(quote.Price) {
			if err := file.SetCellStyle(quotesSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("G%d", row), best); err != nil {
				return err
			}
		}
	}

	_ = file.SetColWidth(quotesSheet, "A", "A", 38)
	_ = file.SetColWidth(quotesSheet, "B", "E", 14)
	_ = file.SetColWidth(quotesSheet, "F", "F", 40)
	_ = file.SetColWidth(quotesSheet, "G", "G", 20)
	return nil
}

// lowestPrices skips rejected quotes; they are out of the running.
func lowestPrices(quotes []model.Quote) map[string]decimal.Decimal {
	lowest := make(map[string]decimal.Decimal)
	for _, quote := range quotes {
		if quote.Status == model.QuoteStatusRejected {
			continue
		}
		if current, ok := lowest[quote.Currency]; !ok || quote.Price.LessThan(current) {
			lowest[quote.Currency] = quote.Price
		}
	}
	return lowest
}

func formatDatePtr(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

func formatString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func formatInt(value *int) string {
	if value == nil {
		return ""
	}
	return fmt.Sprintf("%d", *value)
}
