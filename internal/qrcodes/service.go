package qrcodes

import (
	"context"

	"github.com/chackchack-dev/chackchack-backend/internal/accounts"
	"github.com/chackchack-dev/chackchack-backend/internal/paylink"
	"github.com/chackchack-dev/chackchack-backend/pkg/config"
	"github.com/chackchack-dev/chackchack-backend/pkg/db/models"
	pkgerrors "github.com/chackchack-dev/chackchack-backend/pkg/errors"
	"github.com/chackchack-dev/chackchack-backend/pkg/logger"
	"github.com/google/uuid"
)

// Service defines QR record operations.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, dto CreateQrCodeDTO) (*models.QrCode, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]models.QrCode, error)
	Get(ctx context.Context, qrID uuid.UUID) (*models.QrCode, error)
	Update(ctx context.Context, ownerID, qrID uuid.UUID, dto CreateQrCodeDTO) (*models.QrCode, error)
	Delete(ctx context.Context, ownerID, qrID uuid.UUID) error
	GenerateImage(ctx context.Context, qr *models.QrCode) (string, error)
	Sync(ctx context.Context, ownerID uuid.UUID, localRecords []LocalQrRecord) (*SyncResult, error)
}

type service struct {
	repo        Repository
	accountRepo accounts.Repository
	payment     config.PaymentConfig
	renderer    paylink.Renderer
	logg        *logger.Logger
}

// NewService wires QR code dependencies.
func NewService(repo Repository, accountRepo accounts.Repository, payment config.PaymentConfig, logg *logger.Logger) (Service, error) {
	if repo == nil || accountRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "qr code repositories required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{
		repo:        repo,
		accountRepo: accountRepo,
		payment:     payment,
		renderer:    paylink.NewRenderer(payment.QRPixelSize, payment.QRBorderSize),
		logg:        logg,
	}, nil
}

// Create persists a new QR record after confirming the referenced bank
// account belongs to the caller.
func (s *service) Create(ctx context.Context, ownerID uuid.UUID, dto CreateQrCodeDTO) (*models.QrCode, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id required")
	}

	account, err := s.accountRepo.GetOwned(ctx, ownerID, dto.AccountID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading bank account")
	}
	if account == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "bank account not found")
	}

	qr := &models.QrCode{
		QrID:            uuid.New(),
		OwnerID:         ownerID,
		AccountID:       dto.AccountID,
		QrName:          dto.QrName,
		BaseAmount:      dto.BaseAmount,
		DiscountType:    dto.DiscountType,
		DiscountValue:   dto.DiscountValue,
		StyleConfigJSON: dto.StyleConfig,
	}
	if err := s.repo.Create(ctx, qr); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating qr code")
	}

	// reload joined with the account so responses carry the full shape
	created, err := s.repo.GetByID(ctx, qr.QrID)
	if err != nil || created == nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reloading qr code")
	}
	return created, nil
}

// List returns the owner's QR records, newest first, joined with accounts.
func (s *service) List(ctx context.Context, ownerID uuid.UUID) ([]models.QrCode, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id required")
	}
	qrs, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing qr codes")
	}
	return qrs, nil
}

// Get is an unauthenticated read; the payer page fetches by id alone. There
// is deliberately no ownership check here.
func (s *service) Get(ctx context.Context, qrID uuid.UUID) (*models.QrCode, error) {
	qr, err := s.repo.GetByID(ctx, qrID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading qr code")
	}
	if qr == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "qr code not found")
	}
	return qr, nil
}

// Update rewrites a QR record. A missing record or a foreign new account is
// NotFound; a record owned by someone else is Forbidden. Ownership itself
// never changes.
func (s *service) Update(ctx context.Context, ownerID, qrID uuid.UUID, dto CreateQrCodeDTO) (*models.QrCode, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id required")
	}

	existing, err := s.repo.GetByID(ctx, qrID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading qr code")
	}
	if existing == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "qr code not found")
	}
	if existing.OwnerID != ownerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "you can only update your own qr codes")
	}

	account, err := s.accountRepo.GetOwned(ctx, ownerID, dto.AccountID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading bank account")
	}
	if account == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "bank account not found")
	}

	existing.AccountID = dto.AccountID
	existing.QrName = dto.QrName
	existing.BaseAmount = dto.BaseAmount
	existing.DiscountType = dto.DiscountType
	existing.DiscountValue = dto.DiscountValue
	existing.StyleConfigJSON = dto.StyleConfig
	existing.BankAccount = nil

	if err := s.repo.Save(ctx, existing); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving qr code")
	}

	updated, err := s.repo.GetByID(ctx, qrID)
	if err != nil || updated == nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reloading qr code")
	}
	return updated, nil
}

// Delete removes an owned QR record; notifications cascade at the database.
func (s *service) Delete(ctx context.Context, ownerID, qrID uuid.UUID) error {
	if ownerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "owner id required")
	}

	qr, err := s.repo.GetByID(ctx, qrID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading qr code")
	}
	if qr == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "qr code not found")
	}
	if qr.OwnerID != ownerID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "you can only delete your own qr codes")
	}

	if err := s.repo.Delete(ctx, qrID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting qr code")
	}
	return nil
}

// GenerateImage renders the payment URL for a joined QR record into a data
// URL. The final amount only rides along when a base amount is set and
// nonzero.
func (s *service) GenerateImage(ctx context.Context, qr *models.QrCode) (string, error) {
	if qr == nil || qr.BankAccount == nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "qr code is missing its bank account")
	}

	params := paylink.LinkParams{
		BankName:      qr.BankAccount.BankName,
		AccountNumber: qr.BankAccount.AccountNumber,
		AccountHolder: qr.BankAccount.AccountHolder,
		QrID:          qr.QrID.String(),
	}
	if qr.BaseAmount != nil && !qr.BaseAmount.IsZero() {
		final := paylink.FinalAmount(*qr.BaseAmount, qr.DiscountType, qr.DiscountValue)
		params.Amount = &final
	}

	return s.renderer.DataURL(paylink.BuildPaymentURL(s.payment.BaseURL, params))
}
