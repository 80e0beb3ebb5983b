package account

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

// Role is the closed set of grant roles. Anything outside the three known
// values denies every action.
type Role string

const (
	RoleView Role = "view"
	RoleCRUD Role = "crud"
	RolePost Role = "post"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleView, RoleCRUD, RolePost:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// Action classifies what a request wants to do with a resource.
type Action int

const (
	ActionRead Action = iota
	ActionCreate
	ActionUpdate
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionRead:
		return "read"
	case ActionCreate:
		return "create"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	}
	return "unknown"
}

// ActionForMethod maps an HTTP method onto an Action. Safe methods are
// reads; everything unrecognized is treated as an update so it never slips
// past a view-only grant.
func ActionForMethod(method string) Action {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return ActionRead
	case http.MethodPost:
		return ActionCreate
	case http.MethodDelete:
		return ActionDelete
	default:
		return ActionUpdate
	}
}

// Allows is the role decision table.
func (r Role) Allows(a Action) bool {
	switch r {
	case RoleView:
		return a == ActionRead
	case RoleCRUD:
		return true
	case RolePost:
		return a == ActionCreate
	default:
		return false
	}
}

// CanPost reports whether the role may record transactions against the
// account. Both crud and post holders can; view cannot.
func (r Role) CanPost() bool {
	return r == RoleCRUD || r == RolePost
}

// Target names the single account an authorization decision applies to.
// Accounts authorize against themselves; transactions authorize against
// their owning account.
type Target struct {
	accountID int64
}

func AccountTarget(accountID int64) Target {
	return Target{accountID: accountID}
}

func TransactionTarget(accountID int64) Target {
	return Target{accountID: accountID}
}

func (t Target) AccountID() int64 {
	return t.accountID
}

// ErrGrantNotFound signals that no grant row exists for a (user, account)
// pair. The evaluator turns it into a plain deny.
var ErrGrantNotFound = errors.New("grant not found")

// GrantReader fetches the single grant for a (user, account) pair.
type GrantReader interface {
	GetGrant(userID, accountID int64) (*Grant, error)
}

// Evaluator is the object-level permission check: given an authenticated
// subject, a target and a requested action, it answers allow or deny.
// Listings never call it per row; they filter at the query instead.
type Evaluator struct {
	grants GrantReader
	logger *slog.Logger
}

func NewEvaluator(grants GrantReader, logger *slog.Logger) *Evaluator {
	return &Evaluator{
		grants: grants,
		logger: logger,
	}
}

func (e *Evaluator) Evaluate(subjectID int64, target Target, action Action) (bool, error) {
	grant, err := e.grants.GetGrant(subjectID, target.AccountID())
	if err != nil {
		if errors.Is(err, ErrGrantNotFound) {
			return false, nil
		}
		return false, err
	}

	allowed := grant.Role.Allows(action)
	if !allowed {
		e.logger.Warn("access denied",
			"user_id", subjectID,
			"account_id", target.AccountID(),
			"role", grant.Role,
			"action", action.String())
	}
	return allowed, nil
}
