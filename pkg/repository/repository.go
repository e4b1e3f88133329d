package repository

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"crypto_ramp_back/models"
)

type Authorization interface {
	CreateUser(user models.User) (models.User, error)
	GetUserByEmail(email string) (models.User, error)
	GetUserByID(id uuid.UUID) (models.User, error)
}

type Transactions interface {
	CreateTransaction(tx models.Transaction) (models.Transaction, error)
	GetTransactionsByUser(userID uuid.UUID) ([]models.Transaction, error)
	GetTransactionByID(id, userID uuid.UUID) (models.Transaction, error)
	GetTransactionByProviderTxID(providerTxID string) (models.Transaction, error)
	UpdateTransaction(id, userID uuid.UUID, upd models.TransactionUpdate) (models.Transaction, error)
	UpdateStatusByProviderTxID(providerTxID string, status models.TransactionStatus) error
	CreateBankDetail(detail models.BankDetail) error
}

type Repository struct {
	Authorization
	Transactions
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		Authorization: NewAuthPostgres(db),
		Transactions:  NewTransactionPostgres(db),
	}
}
