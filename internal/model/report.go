package model

import "time"

// QuoteComparison feeds the quote comparison workbook.
type QuoteComparison struct {
	RFQ         RFQ
	Quotes      []Quote
	GeneratedAt time.Time
}

// AwardDocument feeds the award summary PDF of an accepted RFQ.
type AwardDocument struct {
	RFQ         RFQ
	Accepted    Quote
	Competitors int
	GeneratedAt time.Time
}
