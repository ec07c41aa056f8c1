package qrcodes

import (
	"context"
	"fmt"

	"github.com/chackchack-dev/chackchack-backend/pkg/db/models"
	pkgerrors "github.com/chackchack-dev/chackchack-backend/pkg/errors"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// Sync reconciles client-held local records into the server store, once,
// right after a guest upgrades to an authenticated owner.
//
// Records are processed one by one with no wrapping transaction. A record is
// skipped when a server QR with the same name already points at the same
// (bankName, accountNumber, accountHolder) triple; otherwise the account is
// found or created and a new QR is written. Per-record failures are counted
// and logged but never abort the batch; an account created just before a QR
// write fails stays behind as an orphan, which is accepted.
func (s *service) Sync(ctx context.Context, ownerID uuid.UUID, localRecords []LocalQrRecord) (*SyncResult, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id required")
	}

	if len(localRecords) == 0 {
		all, err := s.List(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		return &SyncResult{
			Message:    "no qr codes to sync",
			AllQrCodes: all,
		}, nil
	}

	var (
		synced  int
		skipped int
		errs    error
	)

	for i, local := range localRecords {
		duplicate, err := s.syncOne(ctx, ownerID, local)
		if err != nil {
			skipped++
			errs = multierr.Append(errs, fmt.Errorf("record %d (%q): %w", i, local.QrName, err))
			continue
		}
		if duplicate {
			skipped++
			continue
		}
		synced++
	}

	if errs != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"ownerId":      ownerID.String(),
			"syncedCount":  synced,
			"skippedCount": skipped,
		}), fmt.Sprintf("sync completed with per-record failures: %v", errs))
	}

	all, err := s.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	return &SyncResult{
		Message:      fmt.Sprintf("sync complete: %d added, %d skipped", synced, skipped),
		SyncedCount:  synced,
		SkippedCount: skipped,
		AllQrCodes:   all,
	}, nil
}

// syncOne processes a single local record. It reports duplicate=true when the
// dedup rule matched and nothing was written.
func (s *service) syncOne(ctx context.Context, ownerID uuid.UUID, local LocalQrRecord) (duplicate bool, err error) {
	if local.QrName == "" {
		return false, fmt.Errorf("missing qrName")
	}
	if local.BankAccount.BankName == "" || local.BankAccount.AccountNumber == "" || local.BankAccount.AccountHolder == "" {
		return false, fmt.Errorf("missing bank account fields")
	}

	existing, err := s.repo.GetOwnedByName(ctx, ownerID, local.QrName)
	if err != nil {
		return false, fmt.Errorf("looking up existing qr: %w", err)
	}
	if existing != nil && existing.BankAccount != nil &&
		existing.BankAccount.BankName == local.BankAccount.BankName &&
		existing.BankAccount.AccountNumber == local.BankAccount.AccountNumber &&
		existing.BankAccount.AccountHolder == local.BankAccount.AccountHolder {
		return true, nil
	}

	account, err := s.accountRepo.FindByTriple(ctx, ownerID,
		local.BankAccount.BankName, local.BankAccount.AccountNumber, local.BankAccount.AccountHolder)
	if err != nil {
		return false, fmt.Errorf("looking up bank account: %w", err)
	}
	if account == nil {
		account = &models.BankAccount{
			AccountID:     uuid.New(),
			OwnerID:       ownerID,
			BankName:      local.BankAccount.BankName,
			AccountNumber: local.BankAccount.AccountNumber,
			AccountHolder: local.BankAccount.AccountHolder,
			IsDefault:     false,
		}
		if err := s.accountRepo.Create(ctx, account); err != nil {
			return false, fmt.Errorf("creating bank account: %w", err)
		}
	}

	qr := &models.QrCode{
		QrID:          uuid.New(),
		OwnerID:       ownerID,
		AccountID:     account.AccountID,
		QrName:        local.QrName,
		BaseAmount:    local.BaseAmount,
		DiscountType:  local.DiscountType,
		DiscountValue: local.DiscountValue,
	}
	if err := s.repo.Create(ctx, qr); err != nil {
		return false, fmt.Errorf("creating qr code: %w", err)
	}
	return false, nil
}
