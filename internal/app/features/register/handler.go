// internal/app/features/register/handler.go

// Package register creates the caller's node in the referral tree and
// serves the caller's own profile. A node is created exactly once, under
// the sponsor named by referral code in the request.
package register

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/mav910623/nunetwork/internal/app/system/auth"
	"github.com/mav910623/nunetwork/internal/app/system/limits"
	"github.com/mav910623/nunetwork/internal/app/system/normalize"
	"github.com/mav910623/nunetwork/internal/app/system/refcode"
	"github.com/mav910623/nunetwork/internal/app/system/timeouts"
	"github.com/mav910623/nunetwork/internal/app/system/traverse"
	"github.com/mav910623/nunetwork/internal/app/system/webutil"
	"github.com/mav910623/nunetwork/internal/domain/models"
)

// Store is the slice of the record store registration needs. The mongo
// implementation lives in internal/app/store/users; tests use the fake
// in internal/testutil.
type Store interface {
	Get(ctx context.Context, id string) (*models.User, error)
	ByReferralCode(ctx context.Context, code string) (*models.User, error)
	CodeInUse(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, u *models.User) error
}

// Handler serves registration and the caller's profile. IsDupMail
// classifies Create errors as email uniqueness violations; injecting
// the predicate keeps the handler off the mongo package.
type Handler struct {
	Log       *zap.Logger
	Store     Store
	IsDupMail func(error) bool

	sanitize *bluemonday.Policy
}

// NewHandler builds the handler. isDupMail classifies store errors from
// Create as email uniqueness violations.
func NewHandler(logger *zap.Logger, store Store, isDupMail func(error) bool) *Handler {
	return &Handler{
		Log:       logger,
		Store:     store,
		IsDupMail: isDupMail,
		sanitize:  bluemonday.StrictPolicy(),
	}
}

type registerRequest struct {
	ReferralCode string `json:"referralCode"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
}

// Register handles POST /api/register. The caller's uid becomes the new
// node's id; the sponsor is resolved by referral code.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CurrentCaller(r)
	if !ok {
		webutil.Error(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	var req registerRequest
	body := http.MaxBytesReader(w, r.Body, limits.MaxRegisterBodySize)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		webutil.Error(w, http.StatusBadRequest, "bad_request")
		return
	}

	name := normalize.Name(h.sanitize.Sanitize(req.FullName))
	email := normalize.Email(req.Email)
	code := normalize.ReferralCode(req.ReferralCode)
	if name == "" || email == "" || code == "" {
		webutil.Error(w, http.StatusBadRequest, "missing_fields")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if _, err := h.Store.Get(ctx, caller.UID); err == nil {
		webutil.Error(w, http.StatusConflict, "already_registered")
		return
	} else if !errors.Is(err, traverse.ErrNotFound) {
		h.Log.Error("registration lookup failed",
			zap.String("uid", caller.UID), zap.Error(err))
		webutil.Error(w, http.StatusInternalServerError, "internal")
		return
	}

	sponsor, err := h.Store.ByReferralCode(ctx, code)
	if errors.Is(err, traverse.ErrNotFound) {
		webutil.Error(w, http.StatusBadRequest, "invalid_referral_code")
		return
	}
	if err != nil {
		h.Log.Error("sponsor lookup failed",
			zap.String("code", code), zap.Error(err))
		webutil.Error(w, http.StatusInternalServerError, "internal")
		return
	}

	newCode, err := refcode.Generate(ctx, caller.UID, h.Store.CodeInUse)
	if err != nil {
		h.Log.Error("referral code generation failed",
			zap.String("uid", caller.UID), zap.Error(err))
		webutil.Error(w, http.StatusInternalServerError, "internal")
		return
	}

	u := &models.User{
		ID:           caller.UID,
		Upline:       sponsor.ID,
		ReferralCode: newCode,
		FullName:     name,
		FullNameCI:   text.Fold(name),
		Email:        email,
		Phone:        normalize.Phone(req.Phone),
		CreatedAt:    time.Now().UTC(),
	}

	if err := h.Store.Create(ctx, u); err != nil {
		if h.IsDupMail != nil && h.IsDupMail(err) {
			webutil.Error(w, http.StatusConflict, "email_in_use")
			return
		}
		h.Log.Error("registration insert failed",
			zap.String("uid", caller.UID), zap.Error(err))
		webutil.Error(w, http.StatusInternalServerError, "internal")
		return
	}

	h.Log.Info("user registered",
		zap.String("uid", u.ID),
		zap.String("upline", u.Upline),
		zap.String("referral_code", u.ReferralCode))

	webutil.JSON(w, http.StatusCreated, map[string]any{
		"id":           u.ID,
		"upline":       u.Upline,
		"referralCode": u.ReferralCode,
		"fullName":     u.FullName,
		"email":        u.Email,
	})
}

// Me handles GET /api/me: the caller's own record.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.CurrentCaller(r)
	if !ok {
		webutil.Error(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Store.Get(ctx, caller.UID)
	if errors.Is(err, traverse.ErrNotFound) {
		webutil.Error(w, http.StatusNotFound, "not_registered")
		return
	}
	if err != nil {
		h.Log.Error("profile lookup failed",
			zap.String("uid", caller.UID), zap.Error(err))
		webutil.Error(w, http.StatusInternalServerError, "internal")
		return
	}

	webutil.JSON(w, http.StatusOK, u)
}
