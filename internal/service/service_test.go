package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Shreshth-Agarwal/real-estate-hub-sub000/internal/config"
	"github.com/Shreshth-Agarwal/real-estate-hub-sub000/internal/excel"
	"github.com/Shreshth-Agarwal/real-estate-hub-sub000/internal/model"
	"github.com/Shreshth-Agarwal/real-estate-hub-sub000/internal/pdf"
	"github.com/Shreshth-Agarwal/real-estate-hub-sub000/internal/repository"
	"github.com/Shreshth-Agarwal/real-estate-hub-sub000/internal/service"
	"github.com/Shreshth-Agarwal/real-estate-hub-sub000/internal/testutil"
)

type fakeDirectory struct {
	entries map[uuid.UUID]model.DirectoryKind
}

func (d *fakeDirectory) Exists(_ context.Context, kind model.DirectoryKind, id uuid.UUID) (bool, error) {
	got, ok := d.entries[id]
	return ok && got == kind, nil
}

type testEnv struct {
	ctx       context.Context
	store     *repository.Store
	directory *fakeDirectory
	rfqs      *service.RFQService
	quotes    *service.QuoteService
	reports   *service.ReportService

	consumer  model.Principal
	providerA model.Principal
	providerB model.Principal
	admin     model.Principal
	catalogID uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		RFQ: config.RFQConfig{
			DefaultCurrency:   "INR",
			AllowedCurrencies: []string{"INR", "USD"},
			ListLimit:         50,
		},
	}
	store := repository.NewStore(testutil.NewDB(t))
	env := &testEnv{
		ctx:       context.Background(),
		store:     store,
		directory: &fakeDirectory{entries: map[uuid.UUID]model.DirectoryKind{}},
		consumer:  model.Principal{UserID: uuid.New(), Role: model.RoleConsumer},
		providerA: model.Principal{UserID: uuid.New(), Role: model.RoleProvider},
		providerB: model.Principal{UserID: uuid.New(), Role: model.RoleProvider},
		admin:     model.Principal{UserID: uuid.New(), Role: model.RoleAdmin},
		catalogID: uuid.New(),
	}
	env.directory.entries[env.providerA.UserID] = model.DirectoryProvider
	env.directory.entries[env.providerB.UserID] = model.DirectoryProvider
	env.directory.entries[env.catalogID] = model.DirectoryCatalogItem

	policy := service.OwnershipPolicy{}
	env.rfqs = service.NewRFQService(store, env.directory, policy, cfg, zerolog.Nop())
	env.quotes = service.NewQuoteService(store, env.directory, policy, cfg, zerolog.Nop())
	env.reports = service.NewReportService(store, policy, excel.NewGenerator(), pdf.NewGenerator())
	return env
}

func (e *testEnv) createRFQ(t *testing.T, status model.RFQStatus, providerID *uuid.UUID) *model.RFQ {
	t.Helper()
	rfq, err := e.rfqs.CreateRFQ(e.ctx, e.consumer, service.CreateRFQInput{
		Quantity:   decimal.NewFromInt(500),
		Unit:       "bags",
		ProviderID: providerID,
		Status:     status,
	})
	require.NoError(t, err)
	return rfq
}

func (e *testEnv) submitQuote(t *testing.T, p model.Principal, rfqID uuid.UUID, price int64) *model.Quote {
	t.Helper()
	quote, err := e.quotes.SubmitQuote(e.ctx, p, rfqID, service.SubmitQuoteInput{Price: decimal.NewFromInt(price)})
	require.NoError(t, err)
	return quote
}

func requireKind(t *testing.T, err error, kind error, code string) {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, kind)
	require.Equal(t, code, service.CodeOf(err))
}
