package transaction_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/investment-manager/internal"
	"github.com/frahmantamala/investment-manager/internal/auth"
	"github.com/frahmantamala/investment-manager/internal/transaction"
)

// Stub service for handler tests
type stubTransactionService struct {
	createResult *transaction.Transaction
	createError  error
	listResult   []*transaction.Transaction
	getResult    *transaction.Transaction
	getError     error
	report       *transaction.Report
	reportError  error
	reportCalled bool
}

func (s *stubTransactionService) CreateTransaction(subjectID int64, dto transaction.CreateTransactionDTO) (*transaction.Transaction, error) {
	if s.createError != nil {
		return nil, s.createError
	}
	return s.createResult, nil
}

func (s *stubTransactionService) ListTransactions(subjectID int64) ([]*transaction.Transaction, error) {
	return s.listResult, nil
}

func (s *stubTransactionService) GetTransaction(subjectID, transactionID int64) (*transaction.Transaction, error) {
	if s.getError != nil {
		return nil, s.getError
	}
	return s.getResult, nil
}

func (s *stubTransactionService) AdminReport(_ context.Context, targetUserID int64, start, end *time.Time) (*transaction.Report, error) {
	s.reportCalled = true
	if s.reportError != nil {
		return nil, s.reportError
	}
	return s.report, nil
}

func requestWithUser(method, target string, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := auth.ContextWithUser(req.Context(), &auth.User{
		ID:    1,
		Email: "alice@mail.com",
		Name:  "Alice",
	})
	return req.WithContext(ctx)
}

var _ = Describe("TransactionHandler", func() {
	var (
		stub    *stubTransactionService
		handler *transaction.Handler
	)

	BeforeEach(func() {
		stub = &stubTransactionService{
			report: &transaction.Report{
				Transactions: []*transaction.Transaction{},
				TotalBalance: decimal.Zero,
			},
		}
		handler = transaction.NewHandler(stub)
	})

	Describe("CreateTransaction", func() {
		It("should return 401 without an authenticated user", func() {
			body := []byte(`{"account": 10, "amount": "5.00"}`)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", bytes.NewReader(body))
			rec := httptest.NewRecorder()

			handler.CreateTransaction(rec, req)
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should return 201 with the creator nested in the response", func() {
			stub.createResult = &transaction.Transaction{
				ID:        5,
				AccountID: 10,
				UserID:    1,
				Amount:    decimal.RequireFromString("5.00"),
				Timestamp: time.Now(),
			}
			req := requestWithUser(http.MethodPost, "/api/v1/transactions", []byte(`{"account": 10, "amount": "5.00"}`))
			rec := httptest.NewRecorder()

			handler.CreateTransaction(rec, req)
			Expect(rec.Code).To(Equal(http.StatusCreated))

			var resp transaction.TransactionResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.ID).To(Equal(int64(5)))
			Expect(resp.Account).To(Equal(int64(10)))
			Expect(resp.User.Email).To(Equal("alice@mail.com"))
			Expect(resp.User.Username).To(Equal("Alice"))
		})

		It("should return 403 when the role cannot post", func() {
			stub.createError = internal.ErrCannotPost
			req := requestWithUser(http.MethodPost, "/api/v1/transactions", []byte(`{"account": 10, "amount": "5.00"}`))
			rec := httptest.NewRecorder()

			handler.CreateTransaction(rec, req)
			Expect(rec.Code).To(Equal(http.StatusForbidden))
		})

		It("should return 400 for a malformed body", func() {
			req := requestWithUser(http.MethodPost, "/api/v1/transactions", []byte(`{"account": `))
			rec := httptest.NewRecorder()

			handler.CreateTransaction(rec, req)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("AdminTransactions", func() {
		It("should return 400 when user_id is missing and never run the query", func() {
			req := requestWithUser(http.MethodGet, "/api/v1/admin-transactions", nil)
			rec := httptest.NewRecorder()

			handler.AdminTransactions(rec, req)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(stub.reportCalled).To(BeFalse())
		})

		It("should return 400 for a non-numeric user_id", func() {
			req := requestWithUser(http.MethodGet, "/api/v1/admin-transactions?user_id=abc", nil)
			rec := httptest.NewRecorder()

			handler.AdminTransactions(rec, req)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(stub.reportCalled).To(BeFalse())
		})

		It("should abort with 400 on a malformed start_date instead of ignoring it", func() {
			req := requestWithUser(http.MethodGet, "/api/v1/admin-transactions?user_id=7&start_date=01-02-2026", nil)
			rec := httptest.NewRecorder()

			handler.AdminTransactions(rec, req)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(stub.reportCalled).To(BeFalse())
		})

		It("should abort with 400 on a malformed end_date", func() {
			req := requestWithUser(http.MethodGet, "/api/v1/admin-transactions?user_id=7&end_date=not-a-date", nil)
			rec := httptest.NewRecorder()

			handler.AdminTransactions(rec, req)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(stub.reportCalled).To(BeFalse())
		})

		It("should return the report with its total for valid parameters", func() {
			stub.report = &transaction.Report{
				Transactions: []*transaction.Transaction{
					{ID: 1, AccountID: 10, UserID: 7, Amount: decimal.RequireFromString("1500.00")},
				},
				TotalBalance: decimal.RequireFromString("1500.00"),
			}
			req := requestWithUser(http.MethodGet, "/api/v1/admin-transactions?user_id=7&start_date=2026-01-01&end_date=2026-01-31", nil)
			rec := httptest.NewRecorder()

			handler.AdminTransactions(rec, req)
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(stub.reportCalled).To(BeTrue())

			var resp transaction.AdminReportResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Transactions).To(HaveLen(1))
			Expect(resp.TotalBalance.Equal(decimal.RequireFromString("1500.00"))).To(BeTrue())
		})
	})

	Describe("ListTransactions", func() {
		It("should return 401 without an authenticated user", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions", nil)
			rec := httptest.NewRecorder()

			handler.ListTransactions(rec, req)
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should wrap the slice in a transactions envelope", func() {
			stub.listResult = []*transaction.Transaction{
				{ID: 1, AccountID: 10, UserID: 1, Amount: decimal.RequireFromString("9.99")},
			}
			req := requestWithUser(http.MethodGet, "/api/v1/transactions", nil)
			rec := httptest.NewRecorder()

			handler.ListTransactions(rec, req)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp transaction.TransactionsResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Transactions).To(HaveLen(1))
		})
	})
})
