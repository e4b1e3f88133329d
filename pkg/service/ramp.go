package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"crypto_ramp_back/models"
	"crypto_ramp_back/pkg/poller"
	"crypto_ramp_back/pkg/provider"
	"crypto_ramp_back/pkg/repository"
	"crypto_ramp_back/pkg/utils"
)

type RampService struct {
	repos     *repository.Repository
	rates     Rates
	calc      *SettlementCalculator
	providers *provider.Registry
	poller    *poller.Poller
	fiat      string
}

func NewRampService(repos *repository.Repository, rates Rates, calc *SettlementCalculator,
	providers *provider.Registry, pol *poller.Poller, fiat string) *RampService {
	if fiat == "" {
		fiat = "NGN"
	}
	return &RampService{
		repos:     repos,
		rates:     rates,
		calc:      calc,
		providers: providers,
		poller:    pol,
		fiat:      fiat,
	}
}

// InitiateBuy runs the on-ramp sequence: spot rate, settlement math, pending
// record, provider execution, provider id write-back, then the status poller.
// The user finishes payment inside the provider widget.
func (s *RampService) InitiateBuy(ctx context.Context, userID uuid.UUID, input models.InitiateBuyInput) (models.Transaction, string, error) {
	if input.AmountFiat <= 0 {
		return models.Transaction{}, "", fmt.Errorf("%w: amount must be positive", models.ErrInvalidInput)
	}

	name, err := provider.ParseName(input.Provider)
	if err != nil {
		return models.Transaction{}, "", err
	}
	gw, err := s.providers.Get(name)
	if err != nil {
		return models.Transaction{}, "", err
	}

	user, err := s.repos.GetUserByID(userID)
	if err != nil {
		return models.Transaction{}, "", err
	}
	if user.SmartAccountAddress == nil {
		return models.Transaction{}, "", fmt.Errorf("%w: user has no account address", models.ErrInvalidInput)
	}

	rate, err := s.rates.GetRate(ctx, input.CurrencyCrypto)
	if err != nil {
		return models.Transaction{}, "", err
	}
	settle := s.calc.BuyQuote(input.AmountFiat, rate.Rate, input.CurrencyCrypto)

	pquote, err := gw.Quote(ctx, input.AmountFiat, input.CurrencyFiat, input.CurrencyCrypto)
	if err != nil {
		return models.Transaction{}, "", err
	}

	fees, _ := json.Marshal(settle)
	meta, _ := json.Marshal(map[string]interface{}{"quote": pquote, "rate": rate})

	amountFiat := input.AmountFiat
	currencyFiat := input.CurrencyFiat
	created, err := s.repos.CreateTransaction(models.Transaction{
		UserID:         userID,
		Type:           models.TransactionBuy,
		Status:         models.StatusPending,
		AmountFiat:     &amountFiat,
		AmountCrypto:   settle.NetCrypto,
		CurrencyFiat:   &currencyFiat,
		CurrencyCrypto: input.CurrencyCrypto,
		Provider:       string(name),
		Fees:           fees,
		Metadata:       meta,
	})
	if err != nil {
		return models.Transaction{}, "", err
	}

	buy, err := gw.ExecuteBuy(ctx, pquote.QuoteID, *user.SmartAccountAddress,
		input.CurrencyFiat, input.CurrencyCrypto, input.AmountFiat)
	if err != nil {
		s.failTransaction(created, err)
		return models.Transaction{}, "", err
	}

	status := models.StatusPending
	updated, err := s.repos.UpdateTransaction(created.ID, userID, models.TransactionUpdate{
		Status:       &status,
		ProviderTxID: &buy.ProviderTxID,
	})
	if err != nil {
		// Without the provider id on record nothing can ever poll this
		// transaction to completion, so fail it rather than strand it pending.
		s.failTransaction(created, err)
		return models.Transaction{}, "", err
	}

	s.poller.Watch(context.Background(), updated, gw)
	return updated, buy.WidgetURL, nil
}

// InitiateSell runs the off-ramp sequence. Sells are routed to MoonPay, the
// only configured provider with a sell API. The returned deposit address is
// where the user's crypto must be sent before the payout is released.
func (s *RampService) InitiateSell(ctx context.Context, userID uuid.UUID, input models.InitiateSellInput) (models.Transaction, string, error) {
	if input.AmountCrypto <= 0 {
		return models.Transaction{}, "", fmt.Errorf("%w: amount must be positive", models.ErrInvalidInput)
	}
	if input.AccountNumber == "" || input.RoutingNumber == "" {
		return models.Transaction{}, "", fmt.Errorf("%w: bank account and routing number are required", models.ErrInvalidInput)
	}

	gw, err := s.providers.Get(provider.Moonpay)
	if err != nil {
		return models.Transaction{}, "", err
	}

	rate, err := s.rates.GetRate(ctx, input.CurrencyCrypto)
	if err != nil {
		return models.Transaction{}, "", err
	}
	settle := s.calc.SellQuote(input.AmountCrypto, rate.Rate, input.CurrencyCrypto)

	pquote, err := gw.Quote(ctx, input.AmountCrypto, s.fiat, input.CurrencyCrypto)
	if err != nil {
		return models.Transaction{}, "", err
	}

	sell, err := gw.ExecuteSell(ctx, pquote.QuoteID, input.AccountNumber, input.RoutingNumber, input.CurrencyCrypto)
	if err != nil {
		return models.Transaction{}, "", err
	}

	refCode, err := utils.NewReferenceCode()
	if err != nil {
		return models.Transaction{}, "", err
	}

	fees, _ := json.Marshal(settle)
	meta, _ := json.Marshal(map[string]interface{}{
		"quote":     pquote,
		"rate":      rate,
		"reference": refCode,
	})

	netFiat := settle.NetFiat
	fiat := s.fiat
	tx := models.Transaction{
		UserID:         userID,
		Type:           models.TransactionSell,
		Status:         models.StatusPending,
		AmountFiat:     &netFiat,
		AmountCrypto:   input.AmountCrypto,
		CurrencyFiat:   &fiat,
		CurrencyCrypto: input.CurrencyCrypto,
		Provider:       string(provider.Moonpay),
		ProviderTxID:   &sell.ProviderTxID,
		Fees:           fees,
		Metadata:       meta,
	}
	if input.BlockchainHash != "" {
		hash := input.BlockchainHash
		tx.BlockchainHash = &hash
	}

	created, err := s.repos.CreateTransaction(tx)
	if err != nil {
		return models.Transaction{}, "", err
	}

	if err := s.repos.CreateBankDetail(models.BankDetail{
		ID:            created.ID,
		UserID:        userID,
		AccountNumber: input.AccountNumber,
		RoutingNumber: input.RoutingNumber,
		ReferenceCode: refCode,
	}); err != nil {
		s.failTransaction(created, err)
		return models.Transaction{}, "", err
	}

	go utils.SendPayoutMail(refCode, settle.NetFiat, s.fiat, input.AmountCrypto, input.CurrencyCrypto)

	s.poller.Watch(context.Background(), created, gw)
	return created, sell.DepositAddress, nil
}

func (s *RampService) GetTransactions(userID uuid.UUID) ([]models.Transaction, error) {
	return s.repos.GetTransactionsByUser(userID)
}

// UpdateStatus applies a caller-requested status change, holding the state
// machine invariant: no record re-enters pending, terminal states absorb.
func (s *RampService) UpdateStatus(userID, id uuid.UUID, status models.TransactionStatus) (models.Transaction, error) {
	current, err := s.repos.GetTransactionByID(id, userID)
	if err != nil {
		return models.Transaction{}, err
	}
	if !models.ValidTransition(current.Status, status) {
		return models.Transaction{}, fmt.Errorf("%w: cannot move %s from %s to %s",
			models.ErrInvalidInput, id, current.Status, status)
	}

	updated, err := s.repos.UpdateTransaction(id, userID, models.TransactionUpdate{Status: &status})
	if err != nil {
		return models.Transaction{}, err
	}
	if status.Terminal() {
		s.poller.Stop(id)
	}
	return updated, nil
}

// HandleWebhook applies a provider-pushed status keyed by the provider's own
// transaction id. The state machine still holds here: a push that would move
// a record backwards or out of a terminal state is ignored, since providers
// retry webhooks and may deliver them out of order.
func (s *RampService) HandleWebhook(providerTxID string, providerStatus string) error {
	var status models.TransactionStatus
	switch providerStatus {
	case "completed":
		status = models.StatusCompleted
	case "failed":
		status = models.StatusFailed
	case "processing":
		status = models.StatusProcessing
	default:
		return fmt.Errorf("%w: unknown provider status %q", models.ErrInvalidInput, providerStatus)
	}

	current, err := s.repos.GetTransactionByProviderTxID(providerTxID)
	if err != nil {
		return err
	}
	if current.Status == status {
		return nil
	}
	if !models.ValidTransition(current.Status, status) {
		logrus.Warnf("webhook ignored for %s: cannot move %s to %s", providerTxID, current.Status, status)
		return nil
	}
	return s.repos.UpdateStatusByProviderTxID(providerTxID, status)
}

func (s *RampService) failTransaction(tx models.Transaction, cause error) {
	status := models.StatusFailed

	// Keep the quote/rate snapshot taken at creation, only add the reason.
	merged := map[string]interface{}{}
	if len(tx.Metadata) > 0 {
		if err := json.Unmarshal(tx.Metadata, &merged); err != nil {
			merged = map[string]interface{}{}
		}
	}
	merged["reason"] = cause.Error()
	meta, _ := json.Marshal(merged)
	if _, err := s.repos.UpdateTransaction(tx.ID, tx.UserID, models.TransactionUpdate{
		Status:   &status,
		Metadata: meta,
	}); err != nil {
		logrus.Errorf("failed to mark transaction %s as failed: %s", tx.ID, err)
	}
}
