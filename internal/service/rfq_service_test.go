package service_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Shreshth-Agarwal/real-estate-hub-sub000/internal/model"
	"github.com/Shreshth-Agarwal/real-estate-hub-sub000/internal/service"
)

func TestCreateRFQDefaultsToDraft(t *testing.T) {
	env := newTestEnv(t)

	message := "  OPC 53 grade  "
	date := time.Date(2026, 6, 1, 15, 30, 0, 0, time.UTC)
	rfq, err := env.rfqs.CreateRFQ(env.ctx, env.consumer, service.CreateRFQInput{
		CatalogID:     &env.catalogID,
		Quantity:      decimal.NewFromInt(500),
		Unit:          " bags ",
		Message:       &message,
		PreferredDate: &date,
	})
	require.NoError(t, err)
	require.Equal(t, model.RFQStatusDraft, rfq.Status)
	require.Equal(t, env.consumer.UserID, rfq.ConsumerID)
	require.Equal(t, "bags", rfq.Unit)
	require.Equal(t, "OPC 53 grade", *rfq.Message)
	require.True(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC).Equal(*rfq.PreferredDate))

	stored, err := env.rfqs.GetRFQ(env.ctx, env.consumer, rfq.ID)
	require.NoError(t, err)
	require.True(t, stored.Quantity.Equal(decimal.NewFromInt(500)))
	require.Equal(t, env.catalogID, *stored.CatalogID)

	history, err := env.rfqs.ListHistory(env.ctx, env.consumer, rfq.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Nil(t, history[0].FromStatus)
	require.Equal(t, model.RFQStatusDraft, history[0].ToStatus)
}

func TestCreateRFQValidation(t *testing.T) {
	env := newTestEnv(t)
	unknown := uuid.New()

	cases := []struct {
		name  string
		p     model.Principal
		input service.CreateRFQInput
		kind  error
		code  string
	}{
		{
			name:  "zero quantity",
			p:     env.consumer,
			input: service.CreateRFQInput{Quantity: decimal.Zero, Unit: "bags"},
			kind:  service.ErrValidation,
			code:  service.CodeInvalidField,
		},
		{
			name:  "negative quantity",
			p:     env.consumer,
			input: service.CreateRFQInput{Quantity: decimal.NewFromInt(-3), Unit: "bags"},
			kind:  service.ErrValidation,
			code:  service.CodeInvalidField,
		},
		{
			name:  "quantity finer than stored",
			p:     env.consumer,
			input: service.CreateRFQInput{Quantity: decimal.RequireFromString("0.0004"), Unit: "bags"},
			kind:  service.ErrValidation,
			code:  service.CodeInvalidField,
		},
		{
			name:  "blank unit",
			p:     env.consumer,
			input: service.CreateRFQInput{Quantity: decimal.NewFromInt(1), Unit: "   "},
			kind:  service.ErrValidation,
			code:  service.CodeInvalidField,
		},
		{
			name:  "unknown status",
			p:     env.consumer,
			input: service.CreateRFQInput{Quantity: decimal.NewFromInt(1), Unit: "bags", Status: "closed"},
			kind:  service.ErrValidation,
			code:  service.CodeInvalidField,
		},
		{
			name:  "responded without provider",
			p:     env.consumer,
			input: service.CreateRFQInput{Quantity: decimal.NewFromInt(1), Unit: "bags", Status: model.RFQStatusResponded},
			kind:  service.ErrValidation,
			code:  service.CodeProviderRequired,
		},
		{
			name:  "unknown catalog item",
			p:     env.consumer,
			input: service.CreateRFQInput{Quantity: decimal.NewFromInt(1), Unit: "bags", CatalogID: &unknown},
			kind:  service.ErrNotFound,
		},
		{
			name:  "unknown provider",
			p:     env.consumer,
			input: service.CreateRFQInput{Quantity: decimal.NewFromInt(1), Unit: "bags", ProviderID: &unknown},
			kind:  service.ErrNotFound,
		},
		{
			name:  "provider caller",
			p:     env.providerA,
			input: service.CreateRFQInput{Quantity: decimal.NewFromInt(1), Unit: "bags"},
			kind:  service.ErrForbidden,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.rfqs.CreateRFQ(env.ctx, tc.p, tc.input)
			requireKind(t, err, tc.kind, tc.code)
		})
	}
}

func TestCreateRFQAcceptsProviderStatusWithProvider(t *testing.T) {
	env := newTestEnv(t)
	rfq := env.createRFQ(t, model.RFQStatusResponded, &env.providerA.UserID)
	require.Equal(t, model.RFQStatusResponded, rfq.Status)
	require.Equal(t, env.providerA.UserID, *rfq.ProviderID)
}

func TestTransitionTableClosure(t *testing.T) {
	env := newTestEnv(t)

	for _, from := range model.RFQStatuses {
		for _, to := range model.RFQStatuses {
			if from == to {
				continue
			}
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				rfq := env.createRFQ(t, from, &env.providerA.UserID)

				got, err := env.rfqs.Transition(env.ctx, env.consumer, rfq.ID, to, model.RFQPatch{})
				if service.CanTransition(from, to) {
					require.NoError(t, err)
					require.Equal(t, to, got.Status)
					return
				}
				requireKind(t, err, service.ErrInvalidTransition, "")
				require.Contains(t, err.Error(), string(from))
				require.Contains(t, err.Error(), string(to))

				stored, err := env.rfqs.GetRFQ(env.ctx, env.consumer, rfq.ID)
				require.NoError(t, err)
				require.Equal(t, from, stored.Status)
			})
		}
	}
}

func TestTransitionTerminalStatuses(t *testing.T) {
	for _, status := range []model.RFQStatus{model.RFQStatusAccepted, model.RFQStatusRejected, model.RFQStatusExpired} {
		require.True(t, service.IsTerminal(status), status)
	}
	for _, status := range []model.RFQStatus{model.RFQStatusDraft, model.RFQStatusSubmitted, model.RFQStatusResponded} {
		require.False(t, service.IsTerminal(status), status)
	}
}

func TestTransitionProviderRequired(t *testing.T) {
	env := newTestEnv(t)
	rfq := env.createRFQ(t, model.RFQStatusSubmitted, nil)

	_, err := env.rfqs.Transition(env.ctx, env.consumer, rfq.ID, model.RFQStatusResponded, model.RFQPatch{})
	requireKind(t, err, service.ErrValidation, service.CodeProviderRequired)

	_, err = env.rfqs.Transition(env.ctx, env.consumer, rfq.ID, model.RFQStatusRejected, model.RFQPatch{})
	requireKind(t, err, service.ErrValidation, service.CodeProviderRequired)

	got, err := env.rfqs.Transition(env.ctx, env.consumer, rfq.ID, model.RFQStatusResponded, model.RFQPatch{
		ProviderID: &env.providerA.UserID,
	})
	require.NoError(t, err)
	require.Equal(t, model.RFQStatusResponded, got.Status)
	require.Equal(t, env.providerA.UserID, *got.ProviderID)
}

func TestTransitionSubmittedToExpiredWithoutProvider(t *testing.T) {
	env := newTestEnv(t)
	rfq := env.createRFQ(t, model.RFQStatusDraft, nil)

	_, err := env.rfqs.Transition(env.ctx, env.consumer, rfq.ID, model.RFQStatusSubmitted, model.RFQPatch{})
	require.NoError(t, err)

	got, err := env.rfqs.Transition(env.ctx, env.consumer, rfq.ID, model.RFQStatusExpired, model.RFQPatch{})
	require.NoError(t, err)
	require.Equal(t, model.RFQStatusExpired, got.Status)
	require.Nil(t, got.ProviderID)
}

func TestTransitionFieldOnlyUpdate(t *testing.T) {
	env := newTestEnv(t)
	rfq := env.createRFQ(t, model.RFQStatusSubmitted, nil)

	message := "need delivery before monsoon"
	quantity := decimal.NewFromInt(650)
	got, err := env.rfqs.Transition(env.ctx, env.consumer, rfq.ID, "", model.RFQPatch{
		Message:  &message,
		Quantity: &quantity,
	})
	require.NoError(t, err)
	require.Equal(t, model.RFQStatusSubmitted, got.Status)
	require.Equal(t, message, *got.Message)
	require.True(t, got.UpdatedAt.After(rfq.UpdatedAt) || got.UpdatedAt.Equal(rfq.UpdatedAt))

	stored, err := env.rfqs.GetRFQ(env.ctx, env.consumer, rfq.ID)
	require.NoError(t, err)
	require.True(t, stored.Quantity.Equal(quantity))

	zero := decimal.Zero
	_, err = env.rfqs.Transition(env.ctx, env.consumer, rfq.ID, model.RFQStatusSubmitted, model.RFQPatch{Quantity: &zero})
	requireKind(t, err, service.ErrValidation, service.CodeInvalidField)

	blank := " "
	_, err = env.rfqs.Transition(env.ctx, env.consumer, rfq.ID, model.RFQStatusSubmitted, model.RFQPatch{Unit: &blank})
	requireKind(t, err, service.ErrValidation, service.CodeInvalidField)

	unknown := uuid.New()
	_, err = env.rfqs.Transition(env.ctx, env.consumer, rfq.ID, model.RFQStatusSubmitted, model.RFQPatch{CatalogID: &unknown})
	requireKind(t, err, service.ErrNotFound, "")

	history, err := env.rfqs.ListHistory(env.ctx, env.consumer, rfq.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
}

func TestTransitionNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.rfqs.Transition(env.ctx, env.consumer, uuid.New(), model.RFQStatusSubmitted, model.RFQPatch{})
	requireKind(t, err, service.ErrNotFound, "")
}

func TestTransitionAuthorization(t *testing.T) {
	env := newTestEnv(t)
	rfq := env.createRFQ(t, model.RFQStatusSubmitted, nil)
	stranger := model.Principal{UserID: uuid.New(), Role: model.RoleConsumer}

	_, err := env.rfqs.Transition(env.ctx, stranger, rfq.ID, model.RFQStatusExpired, model.RFQPatch{})
	requireKind(t, err, service.ErrForbidden, service.CodeNotOwner)

	unit := "tonnes"
	_, err = env.rfqs.Transition(env.ctx, env.providerA, rfq.ID, model.RFQStatusResponded, model.RFQPatch{
		ProviderID: &env.providerA.UserID,
		Unit:       &unit,
	})
	requireKind(t, err, service.ErrForbidden, service.CodeNotOwner)

	_, err = env.rfqs.Transition(env.ctx, env.providerA, rfq.ID, model.RFQStatusResponded, model.RFQPatch{
		ProviderID: &env.providerB.UserID,
	})
	requireKind(t, err, service.ErrForbidden, service.CodeNotOwner)

	_, err = env.rfqs.Transition(env.ctx, env.providerA, rfq.ID, model.RFQStatusExpired, model.RFQPatch{})
	requireKind(t, err, service.ErrForbidden, service.CodeNotOwner)

	got, err := env.rfqs.Transition(env.ctx, env.providerA, rfq.ID, model.RFQStatusResponded, model.RFQPatch{
		ProviderID: &env.providerA.UserID,
	})
	require.NoError(t, err)
	require.Equal(t, env.providerA.UserID, *got.ProviderID)

	_, err = env.rfqs.Transition(env.ctx, env.providerB, rfq.ID, model.RFQStatusRejected, model.RFQPatch{})
	requireKind(t, err, service.ErrForbidden, service.CodeNotOwner)

	got, err = env.rfqs.Transition(env.ctx, env.providerA, rfq.ID, model.RFQStatusRejected, model.RFQPatch{})
	require.NoError(t, err)
	require.Equal(t, model.RFQStatusRejected, got.Status)

	expired := env.createRFQ(t, model.RFQStatusSubmitted, nil)
	_, err = env.rfqs.Transition(env.ctx, env.admin, expired.ID, model.RFQStatusExpired, model.RFQPatch{})
	require.NoError(t, err)
}

func TestTransitionToAcceptedRequiresQuoteWhenPending(t *testing.T) {
	env := newTestEnv(t)
	rfq := env.createRFQ(t, model.RFQStatusSubmitted, nil)
	env.submitQuote(t, env.providerA, rfq.ID, 420)

	_, err := env.rfqs.Transition(env.ctx, env.consumer, rfq.ID, model.RFQStatusAccepted, model.RFQPatch{})
	requireKind(t, err, service.ErrForbidden, service.CodeAcceptViaQuote)
}

func TestTransitionProviderLockedAfterAcceptance(t *testing.T) {
	env := newTestEnv(t)
	rfq := env.createRFQ(t, model.RFQStatusSubmitted, nil)
	quote := env.submitQuote(t, env.providerA, rfq.ID, 420)
	_, err := env.quotes.AcceptQuote(env.ctx, env.consumer, rfq.ID, quote.ID)
	require.NoError(t, err)

	_, err = env.rfqs.Transition(env.ctx, env.consumer, rfq.ID, "", model.RFQPatch{ProviderID: &env.providerB.UserID})
	requireKind(t, err, service.ErrValidation, service.CodeProviderLocked)

	message := "thanks"
	got, err := env.rfqs.Transition(env.ctx, env.consumer, rfq.ID, "", model.RFQPatch{Message: &message})
	require.NoError(t, err)
	require.Equal(t, model.RFQStatusAccepted, got.Status)
	require.Equal(t, env.providerA.UserID, *got.ProviderID)
}

func TestDeleteRFQOnlyInDraft(t *testing.T) {
	env := newTestEnv(t)

	draft := env.createRFQ(t, model.RFQStatusDraft, nil)
	stranger := model.Principal{UserID: uuid.New(), Role: model.RoleConsumer}
	requireKind(t, env.rfqs.DeleteRFQ(env.ctx, stranger, draft.ID), service.ErrForbidden, service.CodeNotOwner)

	require.NoError(t, env.rfqs.DeleteRFQ(env.ctx, env.consumer, draft.ID))
	_, err := env.rfqs.GetRFQ(env.ctx, env.consumer, draft.ID)
	requireKind(t, err, service.ErrNotFound, "")

	for _, status := range model.RFQStatuses {
		if status == model.RFQStatusDraft {
			continue
		}
		rfq := env.createRFQ(t, status, &env.providerA.UserID)
		err := env.rfqs.DeleteRFQ(env.ctx, env.consumer, rfq.ID)
		requireKind(t, err, service.ErrForbidden, service.CodeDeleteNotAllowed)

		_, err = env.rfqs.GetRFQ(env.ctx, env.consumer, rfq.ID)
		require.NoError(t, err)
	}

	requireKind(t, env.rfqs.DeleteRFQ(env.ctx, env.consumer, uuid.New()), service.ErrNotFound, "")
}

func TestListRFQsVisibility(t *testing.T) {
	env := newTestEnv(t)

	draft := env.createRFQ(t, model.RFQStatusDraft, nil)
	open := env.createRFQ(t, model.RFQStatusSubmitted, nil)
	engaged := env.createRFQ(t, model.RFQStatusAccepted, &env.providerA.UserID)
	env.createRFQ(t, model.RFQStatusExpired, nil)

	all, err := env.rfqs.ListRFQs(env.ctx, env.consumer, service.ListRFQsInput{})
	require.NoError(t, err)
	require.Len(t, all, 4)

	stranger := model.Principal{UserID: uuid.New(), Role: model.RoleConsumer}
	none, err := env.rfqs.ListRFQs(env.ctx, stranger, service.ListRFQsInput{})
	require.NoError(t, err)
	require.Empty(t, none)

	visible, err := env.rfqs.ListRFQs(env.ctx, env.providerA, service.ListRFQsInput{})
	require.NoError(t, err)
	ids := make([]uuid.UUID, 0, len(visible))
	for _, rfq := range visible {
		ids = append(ids, rfq.ID)
	}
	require.ElementsMatch(t, []uuid.UUID{open.ID, engaged.ID}, ids)

	status := model.RFQStatusDraft
	drafts, err := env.rfqs.ListRFQs(env.ctx, env.admin, service.ListRFQsInput{Status: &status})
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	require.Equal(t, draft.ID, drafts[0].ID)

	page, err := env.rfqs.ListRFQs(env.ctx, env.consumer, service.ListRFQsInput{Limit: 3, Offset: 2})
	require.NoError(t, err)
	require.Len(t, page, 2)

	_, err = env.rfqs.ListRFQs(env.ctx, env.consumer, service.ListRFQsInput{Offset: -1})
	requireKind(t, err, service.ErrValidation, service.CodeInvalidField)

	_, err = env.rfqs.GetRFQ(env.ctx, env.providerB, draft.ID)
	requireKind(t, err, service.ErrForbidden, service.CodeNotOwner)
	_, err = env.rfqs.GetRFQ(env.ctx, env.providerB, open.ID)
	require.NoError(t, err)
}

func TestListRFQsIncludesQuotedRFQs(t *testing.T) {
	env := newTestEnv(t)

	rfq := env.createRFQ(t, model.RFQStatusSubmitted, nil)
	winner := env.submitQuote(t, env.providerA, rfq.ID, 400)
	env.submitQuote(t, env.providerB, rfq.ID, 420)
	_, err := env.quotes.AcceptQuote(env.ctx, env.consumer, rfq.ID, winner.ID)
	require.NoError(t, err)

	_, err = env.rfqs.GetRFQ(env.ctx, env.providerB, rfq.ID)
	require.NoError(t, err)

	visible, err := env.rfqs.ListRFQs(env.ctx, env.providerB, service.ListRFQsInput{})
	require.NoError(t, err)
	require.Len(t, visible, 1)
	require.Equal(t, rfq.ID, visible[0].ID)
	require.Equal(t, model.RFQStatusAccepted, visible[0].Status)

	outsider := model.Principal{UserID: uuid.New(), Role: model.RoleProvider}
	none, err := env.rfqs.ListRFQs(env.ctx, outsider, service.ListRFQsInput{})
	require.NoError(t, err)
	require.Empty(t, none)
}
