package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vendly/pos-api/internal/domain/entity"
	"github.com/vendly/pos-api/internal/domain/enum"
	"github.com/vendly/pos-api/pkg/pagination"
)

// SaleRepository defines the interface for sale data operations
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	GetByInvoiceNo(ctx context.Context, invoiceNo string) (*entity.Sale, error)
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Sale, error)

	// GetByIDForUpdate and GetWithDetailsForUpdate lock the sale row for the
	// rest of the transaction. Use them inside a TransactionScope whenever the
	// read decides a write; a plain read would let two concurrent mutations
	// both act on the same stale row.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	GetWithDetailsForUpdate(ctx context.Context, id uuid.UUID) (*entity.Sale, error)

	Update(ctx context.Context, sale *entity.Sale) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.SaleStatus) error
	AddPayment(ctx context.Context, payment *entity.SalePayment) error
	List(ctx context.Context, params *SaleFilterParams) ([]entity.Sale, int64, error)
	ListWithCursor(ctx context.Context, params *SaleCursorFilterParams) ([]entity.Sale, error)
	GetDueSales(ctx context.Context, params *pagination.PaginationParams) ([]entity.Sale, int64, error)
}

// SaleFilterParams contains filtering parameters for sale queries
type SaleFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.SaleStatus
	CustomerID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string
	SortOrder  string
}

// SaleCursorFilterParams contains cursor-based filtering for sale queries
type SaleCursorFilterParams struct {
	Cursor     *pagination.CursorParams
	Search     string
	Status     *enum.SaleStatus
	CustomerID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}
