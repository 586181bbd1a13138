package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Shreshth-Agarwal/real-estate-hub-sub000/internal/http/middleware"
	"github.com/Shreshth-Agarwal/real-estate-hub-sub000/internal/model"
	"github.com/Shreshth-Agarwal/real-estate-hub-sub000/internal/service"
)

type Handler struct {
	rfqs    *service.RFQService
	quotes  *service.QuoteService
	reports *service.ReportService
	log     zerolog.Logger
}

func NewHandler(
	rfqs *service.RFQService,
	quotes *service.QuoteService,
	reports *service.ReportService,
	log zerolog.Logger,
) *Handler {
	return &Handler{rfqs: rfqs, quotes: quotes, reports: reports, log: log}
}

// Register mounts the API. quoteLimiter guards quote submission.
func (h *Handler) Register(router *gin.Engine, authMiddleware, quoteLimiter gin.HandlerFunc) {
	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.POST("/rfqs", h.createRFQ)
	protected.GET("/rfqs", h.listRFQs)
	protected.GET("/rfqs/:id", h.getRFQ)
	protected.PATCH("/rfqs/:id", h.transitionRFQ)
	protected.DELETE("/rfqs/:id", h.deleteRFQ)
	protected.GET("/rfqs/:id/history", h.listHistory)
	protected.GET("/rfqs/:id/export", h.exportQuotes)
	protected.GET("/rfqs/:id/award", h.awardPDF)

	protected.POST("/rfqs/:id/quotes", quoteLimiter, h.submitQuote)
	protected.GET("/rfqs/:id/quotes", h.listQuotes)
	protected.POST("/rfqs/:id/quotes/:quoteId/accept", h.acceptQuote)
	protected.POST("/rfqs/:id/quotes/:quoteId/reject", h.rejectQuote)
}

type createRFQRequest struct {
	CatalogID     *string     `json:"catalog_id"`
	ProviderID    *string     `json:"provider_id"`
	Quantity      json.Number `json:"quantity"`
	Unit          string      `json:"unit"`
	Message       *string     `json:"message"`
	PreferredDate *string     `json:"preferred_date"`
	Status        string      `json:"status"`
}

type transitionRFQRequest struct {
	Status        string       `json:"status"`
	CatalogID     *string      `json:"catalog_id"`
	ProviderID    *string      `json:"provider_id"`
	Quantity      *json.Number `json:"quantity"`
	Unit          *string      `json:"unit"`
	Message       *string      `json:"message"`
	PreferredDate *string      `json:"preferred_date"`
}

type submitQuoteRequest struct {
	Price           json.Number `json:"price"`
	Currency        string      `json:"currency"`
	DeliveryETADays *int        `json:"delivery_eta_days"`
	Notes           *string     `json:"notes"`
}

func (h *Handler) createRFQ(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	var req createRFQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := service.CreateRFQInput{
		Unit:    req.Unit,
		Message: req.Message,
		Status:  model.RFQStatus(strings.ToLower(strings.TrimSpace(req.Status))),
	}
	var err error
	if input.Quantity, err = service.ParsePositive("quantity", req.Quantity.String()); err != nil {
		h.handleError(c, err)
		return
	}
	if input.CatalogID, err = parseOptionalUUID("catalog_id", req.CatalogID); err != nil {
		h.handleError(c, err)
		return
	}
	if input.ProviderID, err = parseOptionalUUID("provider_id", req.ProviderID); err != nil {
		h.handleError(c, err)
		return
	}
	if input.PreferredDate, err = parseOptionalDate("preferred_date", req.PreferredDate); err != nil {
		h.handleError(c, err)
		return
	}

	rfq, err := h.rfqs.CreateRFQ(c.Request.Context(), principal, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": rfq})
}

func (h *Handler) listRFQs(c *gin.Context) {
	principal, ok := h.principal(c)
	if !ok {
		return
	}

	var input service.ListRFQsInput
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status, ok := model.ParseRFQStatus(strings.ToLower(raw))
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status", "code": service.CodeInvalidField})
			return
		}
		input.Status = &status
	}
	var err error
	if input.Limit, err = queryInt(c, "limit"); err != nil {
		h.handleError(c, err)
		return
	}
	if input.Offset, err = queryInt(c, "offset"); err != nil {
		h.handleError(c, err)
		return
	}

	rfqs, err := h.rfqs.ListRFQs(c.Request.Context(), principal, input)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rfqs})
}

func (h *Handler) getRFQ(c *gin.Context) {
	principal, rfqID, ok := h.principalAndID(c)
	if !ok {
		return
	}
	rfq, err := h.rfqs.GetRFQ(c.Request.Context(), principal, rfqID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rfq})
}

func (h *Handler) transitionRFQ(c *gin.Context) {
	principal, rfqID, ok := h.principalAndID(c)
	if !ok {
		return
	}

	var req transitionRFQRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := model.RFQPatch{Unit: req.Unit, Message: req.Message}
	var err error
	if req.Quantity != nil {
		quantity, err := service.ParsePositive("quantity", req.Quantity.String())
		if err != nil {
			h.handleError(c, err)
			return
		}
		patch.Quantity = &quantity
	}
	if patch.CatalogID, err = parseOptionalUUID("catalog_id", req.CatalogID); err != nil {
		h.handleError(c, err)
		return
	}
	if patch.ProviderID, err = parseOptionalUUID("provider_id", req.ProviderID); err != nil {
		h.handleError(c, err)
		return
	}
	if patch.PreferredDate, err = parseOptionalDate("preferred_date", req.PreferredDate); err != nil {
		h.handleError(c, err)
		return
	}

	status := model.RFQStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	rfq, err := h.rfqs.Transition(c.Request.Context(), principal, rfqID, status, patch)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rfq})
}

func (h *Handler) deleteRFQ(c *gin.Context) {
	principal, rfqID, ok := h.principalAndID(c)
	if !ok {
		return
	}
	if err := h.rfqs.DeleteRFQ(c.Request.Context(), principal, rfqID); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) listHistory(c *gin.Context) {
	principal, rfqID, ok := h.principalAndID(c)
	if !ok {
		return
	}
	events, err := h.rfqs.ListHistory(c.Request.Context(), principal, rfqID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": events})
}

func (h *Handler) submitQuote(c *gin.Context) {
	principal, rfqID, ok := h.principalAndID(c)
	if !ok {
		return
	}

	var req submitQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	price, err := service.ParsePositive("price", req.Price.String())
	if err != nil {
		h.handleError(c, err)
		return
	}

	quote, err := h.quotes.SubmitQuote(c.Request.Context(), principal, rfqID, service.SubmitQuoteInput{
		Price:           price,
		Currency:        req.Currency,
		DeliveryETADays: req.DeliveryETADays,
		Notes:           req.Notes,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": quote})
}

func (h *Handler) listQuotes(c *gin.Context) {
	principal, rfqID, ok := h.principalAndID(c)
	if !ok {
		return
	}
	quotes, err := h.quotes.ListQuotes(c.Request.Context(), principal, rfqID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": quotes})
}

func (h *Handler) acceptQuote(c *gin.Context) {
	principal, rfqID, ok := h.principalAndID(c)
	if !ok {
		return
	}
	quoteID, ok := h.pathUUID(c, "quoteId")
	if !ok {
		return
	}
	result, err := h.quotes.AcceptQuote(c.Request.Context(), principal, rfqID, quoteID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": result})
}

func (h *Handler) rejectQuote(c *gin.Context) {
	principal, rfqID, ok := h.principalAndID(c)
	if !ok {
		return
	}
	quoteID, ok := h.pathUUID(c, "quoteId")
	if !ok {
		return
	}
	quote, err := h.quotes.RejectQuote(c.Request.Context(), principal, rfqID, quoteID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": quote})
}

func (h *Handler) exportQuotes(c *gin.Context) {
	principal, rfqID, ok := h.principalAndID(c)
	if !ok {
		return
	}
	doc, err := h.reports.ExportQuotes(c.Request.Context(), principal, rfqID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.sendDocument(c, doc)
}

func (h *Handler) awardPDF(c *gin.Context) {
	principal, rfqID, ok := h.principalAndID(c)
	if !ok {
		return
	}
	doc, err := h.reports.AwardPDF(c.Request.Context(), principal, rfqID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.sendDocument(c, doc)
}

func (h *Handler) sendDocument(c *gin.Context, doc *service.Document) {
	c.Header("Content-Disposition", "attachment; filename=\""+doc.FileName+"\"")
	c.Data(http.StatusOK, doc.ContentType, doc.Content)
}

func (h *Handler) principal(c *gin.Context) (model.Principal, bool) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing principal"})
	}
	return principal, ok
}

func (h *Handler) principalAndID(c *gin.Context) (model.Principal, uuid.UUID, bool) {
	principal, ok := h.principal(c)
	if !ok {
		return principal, uuid.Nil, false
	}
	id, ok := h.pathUUID(c, "id")
	return principal, id, ok
}

func (h *Handler) pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name, "code": service.CodeInvalidField})
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) || errors.Is(err, service.ErrInternal) {
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "kind": service.ErrInternal.Error()})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrInvalidTransition), errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
	}
	body := gin.H{"error": svcErr.Message, "kind": svcErr.Kind.Error()}
	if svcErr.Code != "" {
		body["code"] = svcErr.Code
	}
	c.JSON(status, body)
}

func parseOptionalUUID(field string, raw *string) (*uuid.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*raw))
	if err != nil {
		return nil, invalidField(field)
	}
	return &id, nil
}

func parseOptionalDate(field string, raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	layouts := []string{
		"2006-01-02",
		time.RFC3339,
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, strings.TrimSpace(*raw)); err == nil {
			return &parsed, nil
		}
	}
	return nil, invalidField(field)
}

func queryInt(c *gin.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidField(name)
	}
	return value, nil
}

func invalidField(field string) error {
	return &service.Error{Kind: service.ErrValidation, Code: service.CodeInvalidField, Message: "invalid " + field}
}
