package controllers

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/chackchack-dev/chackchack-backend/api/responses"
	"github.com/chackchack-dev/chackchack-backend/internal/notifications"
	"github.com/chackchack-dev/chackchack-backend/pkg/logger"
	"github.com/chackchack-dev/chackchack-backend/pkg/pagination"
)

// NotificationsController serves payment notifications: the public notify
// endpoint payers hit and the owner-facing list.
type NotificationsController struct {
	svc  notifications.Service
	logg *logger.Logger
}

func NewNotificationsController(svc notifications.Service, logg *logger.Logger) *NotificationsController {
	return &NotificationsController{svc: svc, logg: logg}
}

// Notify records that a payer opened the payment link for a QR. No body and
// no auth; the payer side has neither.
func (c *NotificationsController) Notify(w http.ResponseWriter, r *http.Request) {
	qrID, err := uuidParam(r, "qrId")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	notification, err := c.svc.Notify(r.Context(), qrID, requestIP(r))
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, notification)
}

// List returns the owner's notifications, newest first, with the QR and its
// account joined in. Supports cursor pagination via ?limit= and ?cursor=.
func (c *NotificationsController) List(w http.ResponseWriter, r *http.Request) {
	ownerID, err := ownerFromRequest(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	page, err := c.svc.List(r.Context(), ownerID, pagination.Params{
		Limit:  limit,
		Cursor: r.URL.Query().Get("cursor"),
	})
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, page)
}

func requestIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	if real := strings.TrimSpace(r.Header.Get("X-Real-IP")); real != "" {
		return real
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}
