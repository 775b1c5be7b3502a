package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/events"
	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/pagination"
)

// transactionService handles ledger operations and the budget bookkeeping that
// goes with them.
type transactionService struct {
	db        *gorm.DB
	publisher events.Publisher
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, publisher events.Publisher) TransactionServicer {
	return &transactionService{
		db:        db,
		publisher: orNop(publisher),
	}
}

// AddTransaction records a ledger entry and charges its expense to the matching budget.
func (s *transactionService) AddTransaction(ctx context.Context, in TransactionInput) (*models.Transaction, error) {
	row, err := newTransactionRow(in, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	var touched []models.Budget
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(row).Error; err != nil {
			return err
		}

		deltas := budgetDeltas{}
		deltas.apply(row.Amount, row.Category)

		var txErr error
		touched, txErr = applyBudgetDeltas(tx, deltas)
		return txErr
	})
	if err != nil {
		return nil, storeError(err)
	}

	logger.Get().Infow("transaction added",
		"transaction_id", row.ID,
		"amount", row.Amount.String(),
		"budgets_updated", len(touched),
	)
	publish(ctx, s.publisher, events.TransactionCreated, row)
	return row, nil
}

// GetTransactions returns the ledger, newest first. The whole filtered ledger
// is returned unless a page is requested.
func (s *transactionService) GetTransactions(
	ctx context.Context,
	page pagination.PageRequest,
	filter TransactionFilter,
) (*pagination.PageResponse[models.Transaction], error) {
	base := s.db.WithContext(ctx).Model(&models.Transaction{})
	if filter.Category != nil {
		base = base.Where("category = ?", *filter.Category)
	}
	if filter.FromDate != nil {
		base = base.Where("date >= ?", filter.FromDate.UTC())
	}
	if filter.ToDate != nil {
		base = base.Where("date <= ?", filter.ToDate.UTC())
	}
	ordered := func() *gorm.DB {
		return base.Session(&gorm.Session{}).Order("date DESC").Order("id ASC")
	}

	var transactions []models.Transaction
	if page.Unpaged() {
		if err := ordered().Find(&transactions).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		result := pagination.NewFullResponse(transactions)
		return &result, nil
	}

	page.Normalize()

	var totalItems int64
	if err := base.Session(&gorm.Session{}).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	err := ordered().Scopes(pagination.Paginate(page)).Find(&transactions).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page, totalItems)
	return &result, nil
}

// GetTransactionByID returns a single ledger entry.
func (s *transactionService) GetTransactionByID(ctx context.Context, id uint) (*models.Transaction, error) {
	var row models.Transaction
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &row, nil
}

// UpdateTransaction replaces the fields of an entry and moves its contribution
// between budgets in one unit. The old contribution is removed and the new one
// applied, so an edit within one category nets to a single adjustment.
func (s *transactionService) UpdateTransaction(ctx context.Context, id uint, in TransactionInput) (*models.Transaction, error) {
	next, err := newTransactionRow(in, time.Time{})
	if err != nil {
		return nil, err
	}

	var row models.Transaction
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockTransaction(tx, id, &row); err != nil {
			return err
		}

		deltas := budgetDeltas{}
		deltas.revert(row.Amount, row.Category)
		deltas.apply(next.Amount, next.Category)

		row.Name = next.Name
		row.Amount = next.Amount
		row.Category = next.Category
		if !next.Date.IsZero() {
			row.Date = next.Date
		}

		err := tx.Model(&row).Updates(map[string]interface{}{
			"name":     row.Name,
			"amount":   row.Amount,
			"category": row.Category,
			"date":     row.Date,
		}).Error
		if err != nil {
			return err
		}

		_, err = applyBudgetDeltas(tx, deltas)
		return err
	})
	if err != nil {
		return nil, storeError(err)
	}

	logger.Get().Infow("transaction updated", "transaction_id", row.ID)
	publish(ctx, s.publisher, events.TransactionUpdated, &row)
	return &row, nil
}

// DeleteTransaction removes an entry and refunds its expense to the matching
// budget. Spent is not clamped at zero.
func (s *transactionService) DeleteTransaction(ctx context.Context, id uint) error {
	var row models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockTransaction(tx, id, &row); err != nil {
			return err
		}

		if err := tx.Delete(&models.Transaction{}, row.ID).Error; err != nil {
			return err
		}

		deltas := budgetDeltas{}
		deltas.revert(row.Amount, row.Category)
		_, err := applyBudgetDeltas(tx, deltas)
		return err
	})
	if err != nil {
		return storeError(err)
	}

	logger.Get().Infow("transaction deleted", "transaction_id", id)
	publish(ctx, s.publisher, events.TransactionDeleted, map[string]uint{"id": id})
	return nil
}

func lockTransaction(tx *gorm.DB, id uint, dest *models.Transaction) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(dest, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrTransactionNotFound
	}
	return err
}

// newTransactionRow validates in and builds the row to persist. A missing date
// becomes defaultDate.
func newTransactionRow(in TransactionInput, defaultDate time.Time) (*models.Transaction, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}

	category, err := normalizeCategory(in.Category)
	if err != nil {
		return nil, err
	}

	date := defaultDate
	if in.Date != nil && !in.Date.IsZero() {
		date = in.Date.UTC()
	}

	return &models.Transaction{
		Name:     name,
		Amount:   in.Amount,
		Category: category,
		Date:     date,
	}, nil
}
