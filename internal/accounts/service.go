package accounts

import (
	"context"

	"github.com/chackchack-dev/chackchack-backend/pkg/db/models"
	pkgerrors "github.com/chackchack-dev/chackchack-backend/pkg/errors"
	"github.com/google/uuid"
)

// Service defines bank account operations scoped to the calling owner.
type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, dto CreateAccountDTO) (*models.BankAccount, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]models.BankAccount, error)
	Update(ctx context.Context, ownerID, accountID uuid.UUID, dto UpdateAccountDTO) (*models.BankAccount, error)
	Delete(ctx context.Context, ownerID, accountID uuid.UUID) error
}

type service struct {
	repo Repository
}

// NewService wires account dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "accounts repository required")
	}
	return &service{repo: repo}, nil
}

// Create persists a new bank account. A new default demotes the previous
// default first; the two writes are not wrapped in a transaction, so two
// concurrent "set default" calls for one owner can still race.
func (s *service) Create(ctx context.Context, ownerID uuid.UUID, dto CreateAccountDTO) (*models.BankAccount, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id required")
	}

	if dto.IsDefault {
		if err := s.repo.ClearDefault(ctx, ownerID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing previous default account")
		}
	}

	account := &models.BankAccount{
		AccountID:     uuid.New(),
		OwnerID:       ownerID,
		BankName:      dto.BankName,
		AccountNumber: dto.AccountNumber,
		AccountHolder: dto.AccountHolder,
		IsDefault:     dto.IsDefault,
	}
	if err := s.repo.Create(ctx, account); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating bank account")
	}
	return account, nil
}

// List returns the owner's accounts with the default account first.
func (s *service) List(ctx context.Context, ownerID uuid.UUID) ([]models.BankAccount, error) {
	if ownerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id required")
	}

	accounts, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing bank accounts")
	}
	return accounts, nil
}

func (s *service) Update(ctx context.Context, ownerID, accountID uuid.UUID, dto UpdateAccountDTO) (*models.BankAccount, error) {
	if ownerID == uuid.Nil || accountID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id and account id required")
	}

	account, err := s.repo.GetOwned(ctx, ownerID, accountID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading bank account")
	}
	if account == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
	}

	if dto.IsDefault != nil && *dto.IsDefault {
		if err := s.repo.ClearDefault(ctx, ownerID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing previous default account")
		}
	}

	if dto.BankName != nil {
		account.BankName = *dto.BankName
	}
	if dto.AccountNumber != nil {
		account.AccountNumber = *dto.AccountNumber
	}
	if dto.AccountHolder != nil {
		account.AccountHolder = *dto.AccountHolder
	}
	if dto.IsDefault != nil {
		account.IsDefault = *dto.IsDefault
	}

	if err := s.repo.Save(ctx, account); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving bank account")
	}
	return account, nil
}

func (s *service) Delete(ctx context.Context, ownerID, accountID uuid.UUID) error {
	if ownerID == uuid.Nil || accountID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "owner id and account id required")
	}

	affected, err := s.repo.Delete(ctx, ownerID, accountID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting bank account")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "account not found")
	}
	return nil
}
