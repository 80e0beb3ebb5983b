package account

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/investment-manager/internal/auth"
	"github.com/frahmantamala/investment-manager/internal/transport"
	"github.com/frahmantamala/investment-manager/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreateAccount(subjectID int64, dto CreateAccountDTO) (*Account, error)
	ListAccounts(subjectID int64) ([]*Account, error)
	GetAccount(subjectID, accountID int64) (*Account, error)
	UpdateAccount(subjectID, accountID int64, dto UpdateAccountDTO) (*Account, error)
	DeleteAccount(subjectID, accountID int64) error
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

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateAccountDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateAccount: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	acct, err := h.Service.CreateAccount(user.ID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, acct.ToResponse())
}

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	accounts, err := h.Service.ListAccounts(user.ID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	resp := AccountsResponse{Accounts: make([]AccountResponse, 0, len(accounts))}
	for _, acct := range accounts {
		resp.Accounts = append(resp.Accounts, acct.ToResponse())
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	user, accountID, ok := h.subjectAndID(w, r)
	if !ok {
		return
	}

	acct, err := h.Service.GetAccount(user.ID, accountID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, acct.ToResponse())
}

func (h *Handler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	user, accountID, ok := h.subjectAndID(w, r)
	if !ok {
		return
	}

	var dto UpdateAccountDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateAccount: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	acct, err := h.Service.UpdateAccount(user.ID, accountID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, acct.ToResponse())
}

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user, accountID, ok := h.subjectAndID(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteAccount(user.ID, accountID); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) subjectAndID(w http.ResponseWriter, r *http.Request) (*auth.User, int64, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return nil, 0, false
	}

	idStr := chi.URLParam(r, "id")
	accountID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.Logger.Error("invalid account ID", "id", idStr)
		h.WriteError(w, http.StatusBadRequest, "invalid account ID")
		return nil, 0, false
	}

	return user, accountID, true
}
