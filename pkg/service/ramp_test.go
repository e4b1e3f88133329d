package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crypto_ramp_back/models"
	"crypto_ramp_back/pkg/poller"
	"crypto_ramp_back/pkg/provider"
	"crypto_ramp_back/pkg/repository"
)

type fakeTxRepo struct {
	txs         map[uuid.UUID]models.Transaction
	bankDetails []models.BankDetail
	updateErrs  []error
}

func newFakeTxRepo() *fakeTxRepo {
	return &fakeTxRepo{txs: make(map[uuid.UUID]models.Transaction)}
}

func (f *fakeTxRepo) CreateTransaction(tx models.Transaction) (models.Transaction, error) {
	tx.ID = uuid.New()
	tx.CreatedAt = time.Now().UTC()
	tx.UpdatedAt = tx.CreatedAt
	f.txs[tx.ID] = tx
	return tx, nil
}

func (f *fakeTxRepo) GetTransactionsByUser(userID uuid.UUID) ([]models.Transaction, error) {
	var out []models.Transaction
	for _, tx := range f.txs {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (f *fakeTxRepo) GetTransactionByID(id, userID uuid.UUID) (models.Transaction, error) {
	tx, ok := f.txs[id]
	if !ok || tx.UserID != userID {
		return models.Transaction{}, models.ErrNotFound
	}
	return tx, nil
}

func (f *fakeTxRepo) GetTransactionByProviderTxID(providerTxID string) (models.Transaction, error) {
	for _, tx := range f.txs {
		if tx.ProviderTxID != nil && *tx.ProviderTxID == providerTxID {
			return tx, nil
		}
	}
	return models.Transaction{}, models.ErrNotFound
}

func (f *fakeTxRepo) UpdateTransaction(id, userID uuid.UUID, upd models.TransactionUpdate) (models.Transaction, error) {
	if len(f.updateErrs) > 0 {
		err := f.updateErrs[0]
		f.updateErrs = f.updateErrs[1:]
		if err != nil {
			return models.Transaction{}, err
		}
	}
	tx, err := f.GetTransactionByID(id, userID)
	if err != nil {
		return models.Transaction{}, err
	}
	if upd.Status != nil {
		tx.Status = *upd.Status
	}
	if upd.ProviderTxID != nil {
		tx.ProviderTxID = upd.ProviderTxID
	}
	if upd.BlockchainHash != nil {
		tx.BlockchainHash = upd.BlockchainHash
	}
	if upd.Metadata != nil {
		tx.Metadata = upd.Metadata
	}
	tx.UpdatedAt = time.Now().UTC()
	f.txs[id] = tx
	return tx, nil
}

func (f *fakeTxRepo) UpdateStatusByProviderTxID(providerTxID string, status models.TransactionStatus) error {
	for id, tx := range f.txs {
		if tx.ProviderTxID != nil && *tx.ProviderTxID == providerTxID {
			tx.Status = status
			f.txs[id] = tx
			return nil
		}
	}
	return models.ErrNotFound
}

func (f *fakeTxRepo) CreateBankDetail(detail models.BankDetail) error {
	f.bankDetails = append(f.bankDetails, detail)
	return nil
}

type stubRates struct {
	rate float64
}

func (s stubRates) GetRate(ctx context.Context, symbol string) (models.RateQuote, error) {
	return models.RateQuote{Crypto: symbol, Fiat: "NGN", Rate: s.rate, FetchedAt: time.Now().UTC(), Source: "test"}, nil
}

type stubGateway struct {
	name      provider.Name
	buyCalls  int
	sellCalls int
}

func (g *stubGateway) Name() provider.Name { return g.name }

func (g *stubGateway) Quote(ctx context.Context, amount float64, fiatCurrency, cryptoCurrency string) (provider.Quote, error) {
	return provider.Quote{QuoteID: "q-1", FiatAmount: amount, FiatCurrency: fiatCurrency, CryptoCurrency: cryptoCurrency}, nil
}

func (g *stubGateway) ExecuteBuy(ctx context.Context, quoteID, walletAddress, fiatCurrency, cryptoCurrency string, amount float64) (provider.BuyResult, error) {
	g.buyCalls++
	return provider.BuyResult{ProviderTxID: "ptx-buy-1", WidgetURL: "https://widget.example/checkout"}, nil
}

func (g *stubGateway) ExecuteSell(ctx context.Context, quoteID, accountNumber, routingNumber, cryptoCurrency string) (provider.SellResult, error) {
	g.sellCalls++
	return provider.SellResult{ProviderTxID: "ptx-sell-1", DepositAddress: "0xdeadbeef"}, nil
}

func (g *stubGateway) Status(ctx context.Context, providerTxID string) (string, error) {
	return "pending", nil
}

func newRampFixture(t *testing.T) (*RampService, *fakeTxRepo, uuid.UUID, *stubGateway) {
	t.Helper()

	users := newFakeUserRepo()
	addr := "0x00000000000000000000000000000000000000aa"
	user := models.User{ID: uuid.New(), Email: "seller@example.com", SmartAccountAddress: &addr}
	_, err := users.CreateUser(user)
	require.NoError(t, err)

	txRepo := newFakeTxRepo()
	repos := &repository.Repository{Authorization: users, Transactions: txRepo}

	gw := &stubGateway{name: provider.Moonpay}
	registry := provider.NewRegistry(gw)

	pol := poller.New(txRepo, nil, time.Hour, 1)
	svc := NewRampService(repos, stubRates{rate: 1700}, NewSettlementCalculator(0), registry, pol, "NGN")
	return svc, txRepo, user.ID, gw
}

func TestInitiateBuyCreatesPendingTransaction(t *testing.T) {
	svc, txRepo, userID, gw := newRampFixture(t)

	tx, widgetURL, err := svc.InitiateBuy(context.Background(), userID, models.InitiateBuyInput{
		AmountFiat:     170000,
		CurrencyFiat:   "NGN",
		CurrencyCrypto: "ETH",
		Provider:       "moonpay",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://widget.example/checkout", widgetURL)
	assert.Equal(t, models.TransactionBuy, tx.Type)
	assert.Equal(t, models.StatusPending, tx.Status)
	require.NotNil(t, tx.ProviderTxID)
	assert.Equal(t, "ptx-buy-1", *tx.ProviderTxID)
	assert.Equal(t, 1, gw.buyCalls)

	var fees models.Settlement
	require.NoError(t, json.Unmarshal(tx.Fees, &fees))
	assert.InDelta(t, 1.5, fees.FeePercent, 1e-9)
	assert.InDelta(t, 98.5, fees.NetCrypto, 0.001)

	stored, err := txRepo.GetTransactionByID(tx.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, stored.Status)
}

func TestInitiateBuyValidation(t *testing.T) {
	svc, _, userID, gw := newRampFixture(t)

	_, _, err := svc.InitiateBuy(context.Background(), userID, models.InitiateBuyInput{
		AmountFiat:     -5,
		CurrencyFiat:   "NGN",
		CurrencyCrypto: "ETH",
		Provider:       "moonpay",
	})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, _, err = svc.InitiateBuy(context.Background(), userID, models.InitiateBuyInput{
		AmountFiat:     100,
		CurrencyFiat:   "NGN",
		CurrencyCrypto: "ETH",
		Provider:       "shadycoins",
	})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	assert.Equal(t, 0, gw.buyCalls)
}

func TestInitiateSellStoresBankDetail(t *testing.T) {
	svc, txRepo, userID, gw := newRampFixture(t)

	tx, depositAddress, err := svc.InitiateSell(context.Background(), userID, models.InitiateSellInput{
		AmountCrypto:   2,
		CurrencyCrypto: "ETH",
		AccountNumber:  "0123456789",
		RoutingNumber:  "058",
	})
	require.NoError(t, err)

	assert.Equal(t, "0xdeadbeef", depositAddress)
	assert.Equal(t, models.TransactionSell, tx.Type)
	assert.Equal(t, 1, gw.sellCalls)
	require.NotNil(t, tx.AmountFiat)
	// 2 ETH at 1700 less 1.5% fee
	assert.InDelta(t, 3349, *tx.AmountFiat, 0.001)

	require.Len(t, txRepo.bankDetails, 1)
	detail := txRepo.bankDetails[0]
	assert.Equal(t, tx.ID, detail.ID)
	assert.Equal(t, "0123456789", detail.AccountNumber)
	assert.NotEmpty(t, detail.ReferenceCode)
}

func TestInitiateSellRequiresBankFields(t *testing.T) {
	svc, txRepo, userID, _ := newRampFixture(t)

	_, _, err := svc.InitiateSell(context.Background(), userID, models.InitiateSellInput{
		AmountCrypto:   1,
		CurrencyCrypto: "ETH",
	})
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	assert.Empty(t, txRepo.txs)
}

func TestUpdateStatusEnforcesTransitions(t *testing.T) {
	svc, txRepo, userID, _ := newRampFixture(t)

	ptx := "ptx-x"
	created, err := txRepo.CreateTransaction(models.Transaction{
		UserID:         userID,
		Type:           models.TransactionBuy,
		Status:         models.StatusCompleted,
		CurrencyCrypto: "ETH",
		Provider:       "moonpay",
		ProviderTxID:   &ptx,
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(userID, created.ID, models.StatusPending)
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	// completed is absorbing except for the no-op self transition
	updated, err := svc.UpdateStatus(userID, created.ID, models.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)

	// another user's id must behave as if the record does not exist
	_, err = svc.UpdateStatus(uuid.New(), created.ID, models.StatusCancelled)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestHandleWebhook(t *testing.T) {
	svc, txRepo, userID, _ := newRampFixture(t)

	ptx := "ptx-hook"
	created, err := txRepo.CreateTransaction(models.Transaction{
		UserID:         userID,
		Type:           models.TransactionSell,
		Status:         models.StatusPending,
		CurrencyCrypto: "USDC",
		Provider:       "moonpay",
		ProviderTxID:   &ptx,
	})
	require.NoError(t, err)

	require.NoError(t, svc.HandleWebhook("ptx-hook", "completed"))
	stored, err := txRepo.GetTransactionByID(created.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, stored.Status)

	assert.ErrorIs(t, svc.HandleWebhook("ptx-hook", "mystery"), models.ErrInvalidInput)
	assert.ErrorIs(t, svc.HandleWebhook("no-such", "failed"), models.ErrNotFound)
}

func TestWebhookCannotReenterTerminalStatus(t *testing.T) {
	svc, txRepo, userID, _ := newRampFixture(t)

	for _, terminal := range []models.TransactionStatus{
		models.StatusCompleted, models.StatusFailed, models.StatusCancelled,
	} {
		ptx := "ptx-" + string(terminal)
		created, err := txRepo.CreateTransaction(models.Transaction{
			UserID:         userID,
			Type:           models.TransactionBuy,
			Status:         terminal,
			CurrencyCrypto: "ETH",
			Provider:       "moonpay",
			ProviderTxID:   &ptx,
		})
		require.NoError(t, err)

		// A late or replayed push is dropped, not an error back to the provider.
		require.NoError(t, svc.HandleWebhook(ptx, "processing"))

		stored, err := txRepo.GetTransactionByID(created.ID, userID)
		require.NoError(t, err)
		assert.Equal(t, terminal, stored.Status, "terminal status %s must absorb", terminal)
	}
}

func TestWebhookAllowsForwardTransition(t *testing.T) {
	svc, txRepo, userID, _ := newRampFixture(t)

	ptx := "ptx-fwd"
	created, err := txRepo.CreateTransaction(models.Transaction{
		UserID:         userID,
		Type:           models.TransactionBuy,
		Status:         models.StatusProcessing,
		CurrencyCrypto: "ETH",
		Provider:       "moonpay",
		ProviderTxID:   &ptx,
	})
	require.NoError(t, err)

	require.NoError(t, svc.HandleWebhook(ptx, "completed"))
	stored, err := txRepo.GetTransactionByID(created.ID, userID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, stored.Status)
}

func TestInitiateBuyFailsRecordWhenProviderIDWriteFails(t *testing.T) {
	svc, txRepo, userID, gw := newRampFixture(t)
	txRepo.updateErrs = []error{errors.New("connection reset")}

	_, _, err := svc.InitiateBuy(context.Background(), userID, models.InitiateBuyInput{
		AmountFiat:     170000,
		CurrencyFiat:   "NGN",
		CurrencyCrypto: "ETH",
		Provider:       "moonpay",
	})
	require.Error(t, err)
	assert.Equal(t, 1, gw.buyCalls)

	txs, err := txRepo.GetTransactionsByUser(userID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, models.StatusFailed, txs[0].Status, "record must not stay pending with no provider id")

	var meta map[string]interface{}
	require.NoError(t, json.Unmarshal(txs[0].Metadata, &meta))
	assert.Contains(t, meta, "reason")
	assert.Contains(t, meta, "quote", "failure reason must not erase the quote snapshot")
}
