package poller

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crypto_ramp_back/models"
)

type fakeStore struct {
	mu      sync.Mutex
	updates []models.TransactionUpdate
}

func (f *fakeStore) CreateTransaction(tx models.Transaction) (models.Transaction, error) {
	return tx, nil
}

func (f *fakeStore) GetTransactionsByUser(userID uuid.UUID) ([]models.Transaction, error) {
	return nil, nil
}

func (f *fakeStore) GetTransactionByID(id, userID uuid.UUID) (models.Transaction, error) {
	return models.Transaction{}, models.ErrNotFound
}

func (f *fakeStore) GetTransactionByProviderTxID(providerTxID string) (models.Transaction, error) {
	return models.Transaction{}, models.ErrNotFound
}

func (f *fakeStore) UpdateTransaction(id, userID uuid.UUID, upd models.TransactionUpdate) (models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, upd)
	return models.Transaction{ID: id, UserID: userID}, nil
}

func (f *fakeStore) UpdateStatusByProviderTxID(providerTxID string, status models.TransactionStatus) error {
	return nil
}

func (f *fakeStore) CreateBankDetail(detail models.BankDetail) error { return nil }

func (f *fakeStore) recorded() []models.TransactionUpdate {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.TransactionUpdate, len(f.updates))
	copy(out, f.updates)
	return out
}

type fakeGateway struct {
	mu       sync.Mutex
	statuses []string
	calls    int64
}

func (g *fakeGateway) Status(ctx context.Context, providerTxID string) (string, error) {
	atomic.AddInt64(&g.calls, 1)
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.statuses) == 0 {
		return "pending", nil
	}
	s := g.statuses[0]
	if len(g.statuses) > 1 {
		g.statuses = g.statuses[1:]
	}
	return s, nil
}

type fakeChain struct {
	confirmed atomic.Bool
	calls     int64
}

func (c *fakeChain) ReceiptConfirmed(ctx context.Context, txHash string) (bool, error) {
	atomic.AddInt64(&c.calls, 1)
	return c.confirmed.Load(), nil
}

func pendingTx() models.Transaction {
	providerTxID := "p-1"
	return models.Transaction{
		ID:           uuid.New(),
		UserID:       uuid.New(),
		Status:       models.StatusPending,
		ProviderTxID: &providerTxID,
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestPollerWritesTerminalStatus(t *testing.T) {
	store := &fakeStore{}
	gw := &fakeGateway{statuses: []string{"pending", "pending", "completed"}}
	p := New(store, nil, 10*time.Millisecond, 20)

	p.Watch(context.Background(), pendingTx(), gw)

	waitFor(t, 2*time.Second, func() bool { return len(store.recorded()) == 1 })

	upd := store.recorded()[0]
	require.NotNil(t, upd.Status)
	assert.Equal(t, models.StatusCompleted, *upd.Status)
}

func TestPollerTimesOutWithBoundedAttempts(t *testing.T) {
	store := &fakeStore{}
	gw := &fakeGateway{} // always pending
	p := New(store, nil, 10*time.Millisecond, 3)

	p.Watch(context.Background(), pendingTx(), gw)

	waitFor(t, 2*time.Second, func() bool { return len(store.recorded()) == 1 })

	upd := store.recorded()[0]
	require.NotNil(t, upd.Status)
	assert.Equal(t, models.StatusFailed, *upd.Status)
	assert.Contains(t, string(upd.Metadata), "confirmation_timeout")
	assert.Equal(t, int64(3), atomic.LoadInt64(&gw.calls))
}

func TestPollerSkipsProviderUntilReceiptConfirmed(t *testing.T) {
	store := &fakeStore{}
	gw := &fakeGateway{statuses: []string{"completed"}}
	chain := &fakeChain{}
	p := New(store, chain, 10*time.Millisecond, 50)

	tx := pendingTx()
	hash := "0xdeadbeef"
	tx.BlockchainHash = &hash
	p.Watch(context.Background(), tx, gw)

	waitFor(t, 2*time.Second, func() bool { return atomic.LoadInt64(&chain.calls) >= 3 })
	assert.Equal(t, int64(0), atomic.LoadInt64(&gw.calls), "provider must not be queried before the deposit is mined")

	chain.confirmed.Store(true)
	waitFor(t, 2*time.Second, func() bool { return len(store.recorded()) == 1 })
	assert.Equal(t, models.StatusCompleted, *store.recorded()[0].Status)
}

func TestPollerStopCancelsPolling(t *testing.T) {
	store := &fakeStore{}
	gw := &fakeGateway{statuses: []string{"completed"}}
	p := New(store, nil, 50*time.Millisecond, 50)

	tx := pendingTx()
	p.Watch(context.Background(), tx, gw)
	p.Stop(tx.ID)

	time.Sleep(200 * time.Millisecond)
	assert.Empty(t, store.recorded())
	assert.Equal(t, int64(0), atomic.LoadInt64(&gw.calls))
}

func TestPollerIgnoresTerminalOrUnsubmittedTransactions(t *testing.T) {
	store := &fakeStore{}
	gw := &fakeGateway{}
	p := New(store, nil, 10*time.Millisecond, 5)

	done := pendingTx()
	done.Status = models.StatusCompleted
	p.Watch(context.Background(), done, gw)

	noProvider := pendingTx()
	noProvider.ProviderTxID = nil
	p.Watch(context.Background(), noProvider, gw)

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, store.recorded())
	assert.Equal(t, int64(0), atomic.LoadInt64(&gw.calls))
}
