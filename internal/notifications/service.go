package notifications

import (
	"context"

	"github.com/chackchack-dev/chackchack-backend/internal/qrcodes"
	"github.com/chackchack-dev/chackchack-backend/pkg/db/models"
	pkgerrors "github.com/chackchack-dev/chackchack-backend/pkg/errors"
	"github.com/chackchack-dev/chackchack-backend/pkg/pagination"
	"github.com/google/uuid"
)

// Page is one cursor-paginated slice of the owner's notifications.
type Page struct {
	Notifications []models.PaymentNotification `json:"notifications"`
	NextCursor    string                       `json:"nextCursor,omitempty"`
}

// Service defines payment notification operations.
type Service interface {
	Notify(ctx context.Context, qrID uuid.UUID, payerIP string) (*models.PaymentNotification, error)
	List(ctx context.Context, ownerID uuid.UUID, params pagination.Params) (*Page, error)
}

type service struct {
	repo   Repository
	qrRepo qrcodes.Repository
}

// NewService wires notification dependencies.
func NewService(repo Repository, qrRepo qrcodes.Repository) (Service, error) {
	if repo == nil || qrRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notification repositories required")
	}
	return &service{repo: repo, qrRepo: qrRepo}, nil
}

// Notify records a payer's "I paid" tap. The payer page calls this without
// any credential, so the only gate is that the QR actually exists.
func (s *service) Notify(ctx context.Context, qrID uuid.UUID, payerIP string) (*models.PaymentNotification, error) {
	qr, err := s.qrRepo.GetByID(ctx, qrID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading qr code")
	}
	if qr == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "qr code not found")
	}

	notification := &models.PaymentNotification{
		NotificationID: uuid.New(),
		QrID:           qrID,
	}
	if payerIP != "" {
		notification.PayerIPAddress = &payerIP
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating notification")
	}
	return notification, nil
}

// List returns one page of the caller's notifications joined through their QR
// codes. An extra row is fetched to decide whether a next cursor exists.
func (s *service) List(ctx context.Context, ownerID uuid.UUID, params pagination.Params) (*Page, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id required")
	}

	after, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	notifications, err := s.repo.ListByOwner(ctx, ownerID, after, limit+1)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing notifications")
	}

	page := &Page{Notifications: notifications}
	if len(notifications) > limit {
		page.Notifications = notifications[:limit]
		last := page.Notifications[limit-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.NotifiedAt,
			ID:        last.NotificationID,
		})
	}
	return page, nil
}
