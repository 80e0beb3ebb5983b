package transaction

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/investment-manager/internal"
	"github.com/frahmantamala/investment-manager/internal/account"
	"github.com/shopspring/decimal"
)

// Repository defines the data access methods for transactions.
type Repository interface {
	Create(transaction *Transaction) error
	GetByID(id int64) (*Transaction, error)
	// GetForUser returns transactions whose account has a grant for the
	// user, of any role.
	GetForUser(userID int64) ([]*Transaction, error)
}

// ReportRepository runs the admin cross-user aggregation. Separate from
// Repository because it bypasses the per-account grant filter.
type ReportRepository interface {
	ByUserWithinRange(ctx context.Context, userID int64, start, end *time.Time) ([]*Transaction, decimal.Decimal, error)
}

// AccountReader is the slice of the account store the write path needs.
type AccountReader interface {
	GetByID(id int64) (*account.Account, error)
	GetGrant(userID, accountID int64) (*account.Grant, error)
}

type Report struct {
	Transactions []*Transaction
	TotalBalance decimal.Decimal
}

type Service struct {
	repo      Repository
	reports   ReportRepository
	accounts  AccountReader
	evaluator *account.Evaluator
	logger    *slog.Logger
}

func NewService(repo Repository, reports ReportRepository, accounts AccountReader, evaluator *account.Evaluator, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		reports:   reports,
		accounts:  accounts,
		evaluator: evaluator,
		logger:    logger,
	}
}

// CreateTransaction is the write path. The role check runs against the
// target account named in the payload, not the transaction being built:
// crud and post grants may create, view may not, and a missing grant denies.
// The acting user is always the authenticated subject.
func (s *Service) CreateTransaction(subjectID int64, dto CreateTransactionDTO) (*Transaction, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("transaction validation failed", "error", err, "user_id", subjectID)
		return nil, err
	}

	if _, err := s.accounts.GetByID(dto.AccountID); err != nil {
		return nil, internal.ErrAccountNotFound
	}

	grant, err := s.accounts.GetGrant(subjectID, dto.AccountID)
	if err != nil {
		if errors.Is(err, account.ErrGrantNotFound) {
			s.logger.Warn("transaction create denied: no grant",
				"user_id", subjectID, "account_id", dto.AccountID)
			return nil, internal.ErrCannotPost
		}
		s.logger.Error("grant lookup failed", "error", err, "user_id", subjectID, "account_id", dto.AccountID)
		return nil, internal.NewInternalError("failed to check permissions", err)
	}

	if !grant.Role.CanPost() {
		s.logger.Warn("transaction create denied: role cannot post",
			"user_id", subjectID, "account_id", dto.AccountID, "role", grant.Role)
		return nil, internal.ErrCannotPost
	}

	txn := NewTransaction(dto.AccountID, subjectID, dto.Amount)
	if err := s.repo.Create(txn); err != nil {
		s.logger.Error("failed to create transaction", "error", err, "user_id", subjectID, "account_id", dto.AccountID)
		return nil, internal.NewInternalError("failed to create transaction", err)
	}

	s.logger.Info("transaction created",
		"transaction_id", txn.ID,
		"account_id", txn.AccountID,
		"user_id", subjectID,
		"amount", txn.Amount)

	return txn, nil
}

// ListTransactions returns only transactions on accounts where the subject
// holds a grant of any role.
func (s *Service) ListTransactions(subjectID int64) ([]*Transaction, error) {
	transactions, err := s.repo.GetForUser(subjectID)
	if err != nil {
		s.logger.Error("failed to list transactions", "error", err, "user_id", subjectID)
		return nil, internal.NewInternalError("failed to list transactions", err)
	}
	return transactions, nil
}

// GetTransaction fetches a single transaction, authorizing through its
// owning account.
func (s *Service) GetTransaction(subjectID, transactionID int64) (*Transaction, error) {
	txn, err := s.repo.GetByID(transactionID)
	if err != nil {
		return nil, internal.ErrTransactionNotFound
	}

	allowed, err := s.evaluator.Evaluate(subjectID, account.TransactionTarget(txn.AccountID), account.ActionRead)
	if err != nil {
		s.logger.Error("permission evaluation failed", "error", err, "transaction_id", transactionID, "user_id", subjectID)
		return nil, internal.NewInternalError("failed to evaluate permissions", err)
	}
	if !allowed {
		return nil, internal.ErrAccessDenied
	}

	return txn, nil
}

// AdminReport aggregates one user's transactions across every account,
// optionally bounded by inclusive dates. Admin gating happens at the route;
// the service trusts its caller on that.
func (s *Service) AdminReport(ctx context.Context, targetUserID int64, start, end *time.Time) (*Report, error) {
	transactions, total, err := s.reports.ByUserWithinRange(ctx, targetUserID, start, end)
	if err != nil {
		s.logger.Error("admin report query failed", "error", err, "target_user_id", targetUserID)
		return nil, internal.NewInternalError("failed to build report", err)
	}

	s.logger.Info("admin report built",
		"target_user_id", targetUserID,
		"count", len(transactions),
		"total_balance", total)

	return &Report{
		Transactions: transactions,
		TotalBalance: total,
	}, nil
}
