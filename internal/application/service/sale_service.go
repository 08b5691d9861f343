package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/vendly/pos-api/internal/domain/entity"
	"github.com/vendly/pos-api/internal/domain/enum"
	"github.com/vendly/pos-api/internal/domain/repository"
	"github.com/vendly/pos-api/pkg/apperror"
	"github.com/vendly/pos-api/pkg/pagination"
	"github.com/vendly/pos-api/pkg/utils"
	"go.uber.org/zap"
)

// SaleService handles the sale lifecycle: creation, returns, cancellation
// and payment collection. Every mutation runs inside one transaction scope
// so the sale write, stock deltas and customer ledger update commit or roll
// back together.
type SaleService struct {
	scope        repository.TransactionScope
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	log          *zap.Logger
}

// NewSaleService creates a new sale service
func NewSaleService(
	scope repository.TransactionScope,
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	log *zap.Logger,
) *SaleService {
	return &SaleService{
		scope:        scope,
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		log:          log,
	}
}

// SaleItemInput represents one line of a proposed sale
type SaleItemInput struct {
	ProductID *uuid.UUID
	Quantity  int
	UnitPrice float64
	Discount  float64
	Tax       float64
	Total     float64
}

// SalePaymentInput represents one payment tendered at checkout
type SalePaymentInput struct {
	Mode   enum.PaymentMode
	Amount float64
}

// CreateSaleInput represents the create sale input. Monetary aggregates are
// caller-supplied and stored as given; they are not re-derived from the lines.
type CreateSaleInput struct {
	CustomerID     *uuid.UUID
	Notes          *string
	SubTotal       float64
	TotalDiscount  float64
	TotalTax       float64
	RoundOff       float64
	TotalAmount    float64
	AmountReceived float64
	ChangeGiven    float64
	Items          []SaleItemInput
	Payments       []SalePaymentInput
}

// CreateSale creates a new sale and applies its inventory and customer side
// effects as a single atomic unit.
//
// Line validation: a line with quantity > 0 and no product reference fails the
// whole call; lines with quantity <= 0 are silently dropped; if every line is
// dropped while the caller sent a non-empty list, the call fails.
func (s *SaleService) CreateSale(ctx context.Context, input *CreateSaleInput) (*entity.Sale, error) {
	declared := len(input.Items)

	lines := make([]SaleItemInput, 0, declared)
	for i, item := range input.Items {
		if item.Quantity <= 0 {
			continue
		}
		if item.ProductID == nil || *item.ProductID == uuid.Nil {
			return nil, apperror.NewBadRequestError(fmt.Sprintf("Line item %d has no product reference", i+1))
		}
		lines = append(lines, item)
	}

	if len(lines) == 0 && declared > 0 {
		return nil, apperror.NewBadRequestError("Sale has no valid line items")
	}

	// Batch fetch all products in one query (prevents N+1)
	productIDs := make([]uuid.UUID, len(lines))
	for i, item := range lines {
		productIDs[i] = *item.ProductID
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	saleItems := make([]entity.SaleItem, 0, len(lines))
	stockDeltas := make(map[uuid.UUID]int, len(lines))
	for _, item := range lines {
		product, exists := productMap[*item.ProductID]
		if !exists {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", item.ProductID))
		}

		saleItems = append(saleItems, entity.SaleItem{
			ProductID:   item.ProductID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   toCents(item.UnitPrice),
			Discount:    toCents(item.Discount),
			Tax:         toCents(item.Tax),
			Total:       toCents(item.Total),
		})
		stockDeltas[product.ID] -= item.Quantity
	}

	// Denormalize the customer name onto the sale
	var customerName string
	if input.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
		customerName = customer.Name
	}

	now := time.Now()
	payments := make([]entity.SalePayment, 0, len(input.Payments))
	for _, p := range input.Payments {
		payments = append(payments, entity.SalePayment{
			Mode:   p.Mode,
			Amount: toCents(p.Amount),
			PaidAt: now,
		})
	}

	totalAmount := toCents(input.TotalAmount)
	amountReceived := toCents(input.AmountReceived)

	sale := &entity.Sale{
		CustomerID:     input.CustomerID,
		CustomerName:   customerName,
		InvoiceNo:      utils.GenerateInvoiceNo(),
		SaleDate:       now,
		Status:         enum.DeriveSaleStatus(totalAmount, amountReceived, len(saleItems)),
		SubTotal:       toCents(input.SubTotal),
		TotalDiscount:  toCents(input.TotalDiscount),
		TotalTax:       toCents(input.TotalTax),
		RoundOff:       toCents(input.RoundOff),
		TotalAmount:    totalAmount,
		AmountReceived: amountReceived,
		ChangeGiven:    toCents(input.ChangeGiven),
		Notes:          input.Notes,
		Items:          saleItems,
		Payments:       payments,
	}

	err = s.scope.Execute(ctx, func(repos repository.TransactionalRepositories) error {
		if err := repos.Sales().Create(ctx, sale); err != nil {
			return err
		}
		if err := repos.Products().AdjustStockBatch(ctx, stockDeltas); err != nil {
			return err
		}
		if sale.CustomerID != nil && totalAmount > 0 {
			return repos.Customers().RecordPurchase(ctx, *sale.CustomerID, totalAmount, now)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create sale %s: %w", sale.InvoiceNo, err)
	}

	return s.saleRepo.GetWithDetails(ctx, sale.ID)
}

// ReturnSale transitions a sale to Returned and restores the stock of its
// items, atomically. The sale is re-read under a row lock inside the
// transaction, so two concurrent returns cannot both pass the status check
// and double-restock. Payments and monetary aggregates are left untouched,
// and the customer's lifetime spend is not reversed.
func (s *SaleService) ReturnSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	err := s.scope.Execute(ctx, func(repos repository.TransactionalRepositories) error {
		sale, err := repos.Sales().GetWithDetailsForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return apperror.NewNotFoundError("Sale")
		}
		if !sale.Status.CanReturn() {
			return apperror.NewConflictError(fmt.Sprintf("Sale in status %s cannot be returned", sale.Status))
		}

		if err := repos.Products().AdjustStockBatch(ctx, s.restockDeltas(sale)); err != nil {
			return err
		}
		return repos.Sales().UpdateStatus(ctx, id, enum.SaleStatusReturned)
	})
	if err != nil {
		return nil, wrapSaleErr("return sale", id, err)
	}

	return s.saleRepo.GetWithDetails(ctx, id)
}

// CancelSale cancels an unpaid or partially paid sale and restores its stock.
// Completed sales must be returned instead.
func (s *SaleService) CancelSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	err := s.scope.Execute(ctx, func(repos repository.TransactionalRepositories) error {
		sale, err := repos.Sales().GetWithDetailsForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return apperror.NewNotFoundError("Sale")
		}
		if !sale.Status.CanCancel() {
			return apperror.NewConflictError(fmt.Sprintf("Sale in status %s cannot be cancelled", sale.Status))
		}

		if err := repos.Products().AdjustStockBatch(ctx, s.restockDeltas(sale)); err != nil {
			return err
		}
		return repos.Sales().UpdateStatus(ctx, id, enum.SaleStatusCancelled)
	})
	if err != nil {
		return nil, wrapSaleErr("cancel sale", id, err)
	}

	return s.saleRepo.GetWithDetails(ctx, id)
}

// restockDeltas builds the positive stock deltas for a sale's items. Items
// with a missing product reference or non-positive quantity are skipped with
// a warning rather than failing the whole return.
func (s *SaleService) restockDeltas(sale *entity.Sale) map[uuid.UUID]int {
	deltas := make(map[uuid.UUID]int, len(sale.Items))
	for _, item := range sale.Items {
		if item.ProductID == nil || item.Quantity <= 0 {
			s.log.Warn("skipping line during stock restore",
				zap.String("sale_id", sale.ID.String()),
				zap.String("item_id", item.ID.String()),
				zap.Int("quantity", item.Quantity),
			)
			continue
		}
		deltas[*item.ProductID] += item.Quantity
	}
	return deltas
}

// AddPayment appends one payment to a pending or partially paid sale and
// re-derives the payment status. The authoritative sale is re-read under a
// row lock inside the same transaction that commits the update, so concurrent
// payments serialize on the row and cannot lose each other's increment.
// Overpayment is accepted; the excess is change given.
func (s *SaleService) AddPayment(ctx context.Context, saleID uuid.UUID, mode enum.PaymentMode, amount float64) (*entity.Sale, error) {
	amountCents := toCents(amount)
	if amountCents <= 0 {
		return nil, apperror.NewBadRequestError("Payment amount must be positive")
	}

	err := s.scope.Execute(ctx, func(repos repository.TransactionalRepositories) error {
		sale, err := repos.Sales().GetByIDForUpdate(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return apperror.NewNotFoundError("Sale")
		}
		if !sale.Status.CanAcceptPayment() {
			return apperror.NewConflictError(fmt.Sprintf("Sale in status %s cannot accept payments", sale.Status))
		}

		payment := &entity.SalePayment{
			SaleID: sale.ID,
			Mode:   mode,
			Amount: amountCents,
			PaidAt: time.Now(),
		}
		if err := repos.Sales().AddPayment(ctx, payment); err != nil {
			return err
		}

		sale.AmountReceived += amountCents
		sale.Status = sale.Status.AfterPayment(sale.TotalAmount, sale.AmountReceived)
		return repos.Sales().Update(ctx, sale)
	})
	if err != nil {
		return nil, wrapSaleErr("add payment to sale", saleID, err)
	}

	return s.saleRepo.GetWithDetails(ctx, saleID)
}

// GetSale retrieves a sale with its items and payments
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// GetSaleByInvoiceNo retrieves a sale by its invoice number
func (s *SaleService) GetSaleByInvoiceNo(ctx context.Context, invoiceNo string) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetByInvoiceNo(ctx, invoiceNo)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return s.saleRepo.GetWithDetails(ctx, sale.ID)
}

// ListSales lists sales with filtering
func (s *SaleService) ListSales(ctx context.Context, params *repository.SaleFilterParams) (*pagination.PaginatedResult[entity.Sale], error) {
	sales, total, err := s.saleRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(sales, pag), nil
}

// ListSalesWithCursor lists sales with cursor-based pagination
func (s *SaleService) ListSalesWithCursor(ctx context.Context, params *repository.SaleCursorFilterParams) (*pagination.CursorPaginatedResult[entity.Sale], error) {
	sales, err := s.saleRepo.ListWithCursor(ctx, params)
	if err != nil {
		return nil, err
	}

	hasPrev := params.Cursor.Cursor != ""

	cursorPag, items := pagination.NewCursorPagination(sales, params.Cursor.Limit,
		func(sa entity.Sale) string { return sa.ID.String() },
		func(sa entity.Sale) time.Time { return sa.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// GetDueSales returns sales with an outstanding balance
func (s *SaleService) GetDueSales(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Sale], error) {
	sales, total, err := s.saleRepo.GetDueSales(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(sales, pag), nil
}

// toCents converts a decimal amount to cents. Rounds to the nearest cent;
// plain truncation would drop a cent on amounts like 19.99.
func toCents(v float64) int64 {
	return int64(math.Round(v * 100))
}

// wrapSaleErr adds operation context to storage errors while letting
// application errors pass through untouched.
func wrapSaleErr(op string, id uuid.UUID, err error) error {
	if apperror.IsAppError(err) {
		return err
	}
	return fmt.Errorf("%s %s: %w", op, id, err)
}
