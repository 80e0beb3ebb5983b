package transaction

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/frahmantamala/investment-manager/internal/auth"
	"github.com/frahmantamala/investment-manager/internal/transport"
	"github.com/frahmantamala/investment-manager/pkg/logger"
	"github.com/go-chi/chi"
)

// dateLayout is the wire format for report date bounds.
const dateLayout = "2006-01-02"

type ServiceAPI interface {
	CreateTransaction(subjectID int64, dto CreateTransactionDTO) (*Transaction, error)
	ListTransactions(subjectID int64) ([]*Transaction, error)
	GetTransaction(subjectID, transactionID int64) (*Transaction, error)
	AdminReport(ctx context.Context, targetUserID int64, start, end *time.Time) (*Report, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateTransactionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateTransaction: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	txn, err := h.Service.CreateTransaction(user.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	txn.UserEmail = user.Email
	txn.UserName = user.Name

	h.WriteJSON(w, http.StatusCreated, txn.ToResponse())
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	transactions, err := h.Service.ListTransactions(user.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, TransactionsResponse{
		Transactions: ToResponseSlice(transactions),
	})
}

func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	idStr := chi.URLParam(r, "id")
	transactionID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.Logger.Error("GetTransaction: invalid transaction ID", "id", idStr)
		h.WriteError(w, http.StatusBadRequest, "invalid transaction ID")
		return
	}

	txn, err := h.Service.GetTransaction(user.ID, transactionID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, txn.ToResponse())
}

// AdminTransactions serves the cross-user report. The router guards this
// route with the admin middleware; here only the query parameters are
// validated. A malformed date bound aborts the whole query with a 400
// rather than being silently dropped.
func (h *Handler) AdminTransactions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	userIDStr := query.Get("user_id")
	if userIDStr == "" {
		h.WriteError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	targetUserID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		h.Logger.Error("AdminTransactions: invalid user_id", "user_id", userIDStr)
		h.WriteError(w, http.StatusBadRequest, "invalid user_id")
		return
	}

	start, err := parseDateBound(query.Get("start_date"))
	if err != nil {
		h.Logger.Error("AdminTransactions: invalid start_date", "start_date", query.Get("start_date"))
		h.WriteError(w, http.StatusBadRequest, "invalid start_date, expected YYYY-MM-DD")
		return
	}

	end, err := parseDateBound(query.Get("end_date"))
	if err != nil {
		h.Logger.Error("AdminTransactions: invalid end_date", "end_date", query.Get("end_date"))
		h.WriteError(w, http.StatusBadRequest, "invalid end_date, expected YYYY-MM-DD")
		return
	}

	report, err := h.Service.AdminReport(r.Context(), targetUserID, start, end)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, AdminReportResponse{
		Transactions: ToResponseSlice(report.Transactions),
		TotalBalance: report.TotalBalance,
	})
}

func parseDateBound(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
