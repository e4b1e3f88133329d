package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"crypto_ramp_back/models"
)

const transactionColumns = `id, user_id, type, status, amount_fiat, amount_crypto,
	currency_fiat, currency_crypto, provider, provider_tx_id, blockchain_tx_hash,
	fees, metadata, created_at, updated_at`

type TransactionPostgres struct {
	db *sqlx.DB
}

func NewTransactionPostgres(db *sqlx.DB) *TransactionPostgres {
	return &TransactionPostgres{db: db}
}

func (r *TransactionPostgres) CreateTransaction(tx models.Transaction) (models.Transaction, error) {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	now := time.Now().UTC()
	tx.CreatedAt = now
	tx.UpdatedAt = now

	query := `
        INSERT INTO transactions (id, user_id, type, status, amount_fiat, amount_crypto,
            currency_fiat, currency_crypto, provider, provider_tx_id, blockchain_tx_hash,
            fees, metadata, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
        RETURNING ` + transactionColumns
	var created models.Transaction
	err := r.db.Get(&created, query,
		tx.ID, tx.UserID, tx.Type, tx.Status, tx.AmountFiat, tx.AmountCrypto,
		tx.CurrencyFiat, tx.CurrencyCrypto, tx.Provider, tx.ProviderTxID, tx.BlockchainHash,
		tx.Fees, tx.Metadata, tx.CreatedAt, tx.UpdatedAt)
	if err != nil {
		return models.Transaction{}, errors.Wrap(err, "failed to insert transaction")
	}
	return created, nil
}

func (r *TransactionPostgres) GetTransactionsByUser(userID uuid.UUID) ([]models.Transaction, error) {
	txs := make([]models.Transaction, 0)
	query := fmt.Sprintf(`SELECT %s FROM transactions WHERE user_id = $1 ORDER BY created_at DESC`, transactionColumns)
	if err := r.db.Select(&txs, query, userID); err != nil {
		return nil, errors.Wrap(err, "failed to list transactions")
	}
	return txs, nil
}

func (r *TransactionPostgres) GetTransactionByID(id, userID uuid.UUID) (models.Transaction, error) {
	var tx models.Transaction
	query := fmt.Sprintf(`SELECT %s FROM transactions WHERE id = $1 AND user_id = $2`, transactionColumns)
	err := r.db.Get(&tx, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Transaction{}, models.ErrNotFound
	}
	if err != nil {
		return models.Transaction{}, errors.Wrap(err, "failed to get transaction")
	}
	return tx, nil
}

func (r *TransactionPostgres) GetTransactionByProviderTxID(providerTxID string) (models.Transaction, error) {
	var tx models.Transaction
	query := fmt.Sprintf(`SELECT %s FROM transactions WHERE provider_tx_id = $1`, transactionColumns)
	err := r.db.Get(&tx, query, providerTxID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Transaction{}, models.ErrNotFound
	}
	if err != nil {
		return models.Transaction{}, errors.Wrap(err, "failed to get transaction")
	}
	return tx, nil
}

// UpdateTransaction merges the non-nil update fields and bumps updated_at.
// Reads and writes are scoped to the owning user.
func (r *TransactionPostgres) UpdateTransaction(id, userID uuid.UUID, upd models.TransactionUpdate) (models.Transaction, error) {
	setValues := make([]string, 0)
	args := make([]interface{}, 0)
	argID := 1

	if upd.Status != nil {
		setValues = append(setValues, fmt.Sprintf("status=$%d", argID))
		args = append(args, *upd.Status)
		argID++
	}
	if upd.ProviderTxID != nil {
		setValues = append(setValues, fmt.Sprintf("provider_tx_id=$%d", argID))
		args = append(args, *upd.ProviderTxID)
		argID++
	}
	if upd.BlockchainHash != nil {
		setValues = append(setValues, fmt.Sprintf("blockchain_tx_hash=$%d", argID))
		args = append(args, *upd.BlockchainHash)
		argID++
	}
	if upd.Fees != nil {
		setValues = append(setValues, fmt.Sprintf("fees=$%d", argID))
		args = append(args, upd.Fees)
		argID++
	}
	if upd.Metadata != nil {
		setValues = append(setValues, fmt.Sprintf("metadata=$%d", argID))
		args = append(args, upd.Metadata)
		argID++
	}

	setValues = append(setValues, fmt.Sprintf("updated_at=$%d", argID))
	args = append(args, time.Now().UTC())
	argID++

	query := fmt.Sprintf(`UPDATE transactions SET %s WHERE id=$%d AND user_id=$%d RETURNING %s`,
		strings.Join(setValues, ", "), argID, argID+1, transactionColumns)
	args = append(args, id, userID)

	var updated models.Transaction
	err := r.db.Get(&updated, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Transaction{}, models.ErrNotFound
	}
	if err != nil {
		return models.Transaction{}, errors.Wrap(err, "failed to update transaction")
	}
	return updated, nil
}

func (r *TransactionPostgres) UpdateStatusByProviderTxID(providerTxID string, status models.TransactionStatus) error {
	res, err := r.db.Exec(`UPDATE transactions SET status=$1, updated_at=$2 WHERE provider_tx_id=$3`,
		status, time.Now().UTC(), providerTxID)
	if err != nil {
		return errors.Wrap(err, "failed to update transaction status")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}
	if affected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *TransactionPostgres) CreateBankDetail(detail models.BankDetail) error {
	query := `
        INSERT INTO bank_details (id, user_id, account_number, routing_number, reference_code, encrypted_details, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW())
    `
	_, err := r.db.Exec(query,
		detail.ID, detail.UserID, detail.AccountNumber, detail.RoutingNumber,
		detail.ReferenceCode, detail.EncryptedDetails)
	if err != nil {
		return errors.Wrap(err, "failed to insert bank details")
	}
	return nil
}
