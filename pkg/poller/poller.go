package poller

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"crypto_ramp_back/models"
	"crypto_ramp_back/pkg/repository"
)

// ChainChecker confirms a deposit landed on chain before the provider's
// status is trusted.
type ChainChecker interface {
	ReceiptConfirmed(ctx context.Context, txHash string) (bool, error)
}

// StatusFetcher is the slice of the provider gateway the poller needs.
type StatusFetcher interface {
	Status(ctx context.Context, providerTxID string) (string, error)
}

// Poller drives pending transactions to a terminal status. Each watched
// transaction gets its own goroutine and ticker; transactions are not
// coordinated with one another. Polling is bounded: when the attempt budget
// runs out the record is failed with a confirmation_timeout reason instead
// of spinning forever.
type Poller struct {
	store       repository.Transactions
	chain       ChainChecker
	interval    time.Duration
	maxAttempts int

	mu      sync.Mutex
	cancels map[uuid.UUID]context.CancelFunc
}

func New(store repository.Transactions, chain ChainChecker, interval time.Duration, maxAttempts int) *Poller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 60
	}
	return &Poller{
		store:       store,
		chain:       chain,
		interval:    interval,
		maxAttempts: maxAttempts,
		cancels:     make(map[uuid.UUID]context.CancelFunc),
	}
}

// Watch starts polling a transaction until it reaches a terminal status, the
// attempt budget is exhausted, or Stop is called.
func (p *Poller) Watch(ctx context.Context, tx models.Transaction, gw StatusFetcher) {
	if tx.Status.Terminal() || tx.ProviderTxID == nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	p.mu.Lock()
	if prev, ok := p.cancels[tx.ID]; ok {
		prev()
	}
	p.cancels[tx.ID] = cancel
	p.mu.Unlock()

	go p.run(ctx, tx, gw)
}

// Stop cancels polling for a transaction, e.g. on user-initiated abort.
func (p *Poller) Stop(id uuid.UUID) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if cancel, ok := p.cancels[id]; ok {
		cancel()
		delete(p.cancels, id)
	}
}

func (p *Poller) run(ctx context.Context, tx models.Transaction, gw StatusFetcher) {
	defer p.Stop(tx.ID)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			logrus.Infof("polling cancelled for transaction %s", tx.ID)
			return
		case <-ticker.C:
		}

		done := p.tick(ctx, tx, gw)
		if done {
			return
		}
	}

	// Attempt budget exhausted: fail the record so it does not sit pending forever.
	logrus.Warnf("transaction %s not confirmed after %d attempts", tx.ID, p.maxAttempts)
	status := models.StatusFailed
	meta, _ := json.Marshal(map[string]string{"reason": "confirmation_timeout"})
	if _, err := p.store.UpdateTransaction(tx.ID, tx.UserID, models.TransactionUpdate{
		Status:   &status,
		Metadata: meta,
	}); err != nil {
		logrus.Errorf("failed to mark transaction %s as timed out: %s", tx.ID, err)
	}
}

// tick runs one poll round. Transient errors are logged and swallowed; the
// next tick retries. Returns true when polling should stop.
func (p *Poller) tick(ctx context.Context, tx models.Transaction, gw StatusFetcher) bool {
	if tx.BlockchainHash != nil && p.chain != nil {
		confirmed, err := p.chain.ReceiptConfirmed(ctx, *tx.BlockchainHash)
		if err != nil {
			logrus.Errorf("receipt check failed for transaction %s: %s", tx.ID, err)
			return false
		}
		if !confirmed {
			// Deposit not mined yet, nothing to ask the provider about.
			return false
		}
	}

	providerStatus, err := gw.Status(ctx, *tx.ProviderTxID)
	if err != nil {
		logrus.Errorf("status poll failed for transaction %s: %s", tx.ID, err)
		return false
	}

	status, terminal := mapProviderStatus(providerStatus)
	if !terminal {
		return false
	}

	if _, err := p.store.UpdateTransaction(tx.ID, tx.UserID, models.TransactionUpdate{Status: &status}); err != nil {
		logrus.Errorf("failed to persist status %s for transaction %s: %s", status, tx.ID, err)
		return false
	}
	logrus.Infof("transaction %s reached terminal status %s", tx.ID, status)
	return true
}

func mapProviderStatus(s string) (models.TransactionStatus, bool) {
	switch s {
	case "completed":
		return models.StatusCompleted, true
	case "failed":
		return models.StatusFailed, true
	default:
		return models.StatusPending, false
	}
}
