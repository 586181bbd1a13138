package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Shreshth-Agarwal/real-estate-hub-sub000/internal/model"
	"github.com/Shreshth-Agarwal/real-estate-hub-sub000/internal/repository"
)

type ExcelGenerator interface {
	QuoteComparison(report model.QuoteComparison) ([]byte, error)
}

type PDFGenerator interface {
	Award(doc model.AwardDocument) ([]byte, error)
}

type ReportService struct {
	store *repository.Store
	auth  Authorizer
	excel ExcelGenerator
	pdf   PDFGenerator
}

type Document struct {
	FileName    string
	ContentType string
	Content     []byte
}

func NewReportService(store *repository.Store, auth Authorizer, excel ExcelGenerator, pdf PDFGenerator) *ReportService {
	return &ReportService{store: store, auth: auth, excel: excel, pdf: pdf}
}

// ExportQuotes builds the quote comparison workbook for the RFQ owner.
func (s *ReportService) ExportQuotes(ctx context.Context, p model.Principal, rfqID uuid.UUID) (*Document, error) {
	rfq, err := loadRFQ(ctx, s.store, rfqID)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() && !s.auth.IsOwningConsumer(p, *rfq) {
		return nil, forbidden(CodeNotOwner, "only the owning consumer can export quotes")
	}
	quotes, err := s.store.Quotes.ListByRFQ(ctx, rfqID, nil)
	if err != nil {
		return nil, internalError("list quotes", err)
	}

	content, err := s.excel.QuoteComparison(model.QuoteComparison{
		RFQ:         *rfq,
		Quotes:      quotes,
		GeneratedAt: now(),
	})
	if err != nil {
		return nil, internalError("render quote comparison", err)
	}
	return &Document{
		FileName:    fmt.Sprintf("rfq-%s-quotes.xlsx", shortID(rfqID)),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Content:     content,
	}, nil
}

// AwardPDF renders the award summary of an accepted RFQ for the owner and
// the winning provider.
func (s *ReportService) AwardPDF(ctx context.Context, p model.Principal, rfqID uuid.UUID) (*Document, error) {
	rfq, err := loadRFQ(ctx, s.store, rfqID)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() && !s.auth.IsOwningConsumer(p, *rfq) && !s.auth.IsRespondingProvider(p, *rfq) {
		return nil, forbidden(CodeNotOwner, "award summary is only available to the parties")
	}
	if rfq.Status != model.RFQStatusAccepted {
		return nil, notFound("rfq %s has no accepted quote", rfqID)
	}
	quotes, err := s.store.Quotes.ListByRFQ(ctx, rfqID, nil)
	if err != nil {
		return nil, internalError("list quotes", err)
	}

	doc := model.AwardDocument{RFQ: *rfq, GeneratedAt: now()}
	found := false
	for _, quote := range quotes {
		if quote.Status == model.QuoteStatusAccepted {
			doc.Accepted = quote
			found = true
			continue
		}
		doc.Competitors++
	}
	if !found {
		return nil, notFound("rfq %s has no accepted quote", rfqID)
	}

	content, err := s.pdf.Award(doc)
	if err != nil {
		return nil, internalError("render award", err)
	}
	return &Document{
		FileName:    fmt.Sprintf("rfq-%s-award.pdf", shortID(rfqID)),
		ContentType: "application/pdf",
		Content:     content,
	}, nil
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}
