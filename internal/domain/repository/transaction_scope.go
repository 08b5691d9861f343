package repository

import "context"

// TransactionScope provides transactional access to the repositories a sale
// mutation touches. When a function is executed within a transaction scope,
// all repository operations are part of the same database transaction and
// commit or roll back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories participating
// in a transaction. All repositories returned share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// Sales returns the sale repository scoped to the current transaction
	Sales() SaleRepository
	// Products returns the product repository scoped to the current transaction
	Products() ProductRepository
	// Customers returns the customer repository scoped to the current transaction
	Customers() CustomerRepository
}
