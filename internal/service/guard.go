package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Shreshth-Agarwal/real-estate-hub-sub000/internal/model"
)

// Directory is the read-only catalog and provider lookup.
type Directory interface {
	Exists(ctx context.Context, kind model.DirectoryKind, id uuid.UUID) (bool, error)
}

// Authorizer decides who may act on an RFQ. The RFQ and quote services share
// one instance.
type Authorizer interface {
	IsOwningConsumer(p model.Principal, rfq model.RFQ) bool
	IsRespondingProvider(p model.Principal, rfq model.RFQ) bool
}

type OwnershipPolicy struct{}

func (OwnershipPolicy) IsOwningConsumer(p model.Principal, rfq model.RFQ) bool {
	return p.IsConsumer() && p.UserID != uuid.Nil && p.UserID == rfq.ConsumerID
}

func (OwnershipPolicy) IsRespondingProvider(p model.Principal, rfq model.RFQ) bool {
	return p.IsProvider() && rfq.ProviderID != nil && *rfq.ProviderID == p.UserID
}

func RequirePositive(field string, value decimal.Decimal) error {
	if !value.IsPositive() {
		return validationError(CodeInvalidField, "%s must be greater than 0", field)
	}
	return nil
}

// amountPrecision is the total digit count of the NUMERIC amount columns.
const amountPrecision int32 = 18

// RequireScale rejects amounts the database would round or overflow when
// storing them with the given number of fractional digits.
func RequireScale(field string, value decimal.Decimal, places int32) error {
	if !value.Equal(value.Truncate(places)) {
		return validationError(CodeInvalidField, "%s must have at most %d decimal places", field, places)
	}
	if value.Abs().GreaterThanOrEqual(decimal.New(1, amountPrecision-places)) {
		return validationError(CodeInvalidField, "%s is too large", field)
	}
	return nil
}

// RequirePositiveInt accepts nil as "not supplied".
func RequirePositiveInt(field string, value *int) error {
	if value != nil && *value <= 0 {
		return validationError(CodeInvalidField, "%s must be greater than 0", field)
	}
	return nil
}

// ParsePositive parses a decimal from user input and requires it to be > 0.
func ParsePositive(field, raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, validationError(CodeInvalidField, "%s must be a number", field)
	}
	if err := RequirePositive(field, value); err != nil {
		return decimal.Zero, err
	}
	return value, nil
}

// RequireNonEmpty returns the trimmed value.
func RequireNonEmpty(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", validationError(CodeInvalidField, "%s is required", field)
	}
	return value, nil
}

// CheckReference fails NOT_FOUND when id is set but absent from the directory.
func CheckReference(ctx context.Context, dir Directory, kind model.DirectoryKind, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	ok, err := dir.Exists(ctx, kind, *id)
	if err != nil {
		return internalError("directory lookup", err)
	}
	if !ok {
		return notFound("%s %s not found", kind, *id)
	}
	return nil
}

func optionalText(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
