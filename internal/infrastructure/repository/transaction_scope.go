package repository

import (
	"context"

	domainRepo "github.com/vendly/pos-api/internal/domain/repository"
	"gorm.io/gorm"
)

// gormTransactionScope runs sale mutations inside a single database
// transaction so stock, sale rows and customer spend commit together.
type gormTransactionScope struct {
	db *gorm.DB
}

// NewTransactionScope creates a transaction scope backed by gorm transactions
func NewTransactionScope(db *gorm.DB) domainRepo.TransactionScope {
	return &gormTransactionScope{db: db}
}

func (s *gormTransactionScope) Execute(ctx context.Context, fn func(repos domainRepo.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&transactionalRepositories{tx: tx})
	})
}

// transactionalRepositories hands out repositories bound to one open
// transaction. They are only valid for the lifetime of the Execute callback.
type transactionalRepositories struct {
	tx *gorm.DB
}

func (t *transactionalRepositories) Sales() domainRepo.SaleRepository {
	return NewSaleRepository(t.tx)
}

func (t *transactionalRepositories) Products() domainRepo.ProductRepository {
	return NewProductRepository(t.tx)
}

func (t *transactionalRepositories) Customers() domainRepo.CustomerRepository {
	return NewCustomerRepository(t.tx)
}
