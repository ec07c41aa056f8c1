package accounts

import (
	"context"
	"testing"

	pkgerrors "github.com/chackchack-dev/chackchack-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAccountsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS bank_accounts (
  account_id TEXT PRIMARY KEY,
  owner_id TEXT NOT NULL,
  bank_name TEXT NOT NULL,
  account_number TEXT NOT NULL,
  account_holder TEXT NOT NULL,
  is_default INTEGER NOT NULL DEFAULT 0
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func newAccountsService(t *testing.T) (Service, Repository) {
	t.Helper()

	db := setupAccountsTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func TestCreateAccountDemotesPreviousDefault(t *testing.T) {
	svc, repo := newAccountsService(t)
	ctx := context.Background()
	ownerID := uuid.New()

	first, err := svc.Create(ctx, ownerID, CreateAccountDTO{
		BankName:      "Kookmin",
		AccountNumber: "111-111",
		AccountHolder: "Kim",
		IsDefault:     true,
	})
	require.NoError(t, err)
	require.True(t, first.IsDefault)

	second, err := svc.Create(ctx, ownerID, CreateAccountDTO{
		BankName:      "Shinhan",
		AccountNumber: "222-222",
		AccountHolder: "Kim",
		IsDefault:     true,
	})
	require.NoError(t, err)
	require.True(t, second.IsDefault)

	reloaded, err := repo.GetOwned(ctx, ownerID, first.AccountID)
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	assert.False(t, reloaded.IsDefault, "previous default must be demoted")

	accounts, err := svc.List(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	defaults := 0
	for _, account := range accounts {
		if account.IsDefault {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults, "exactly one default account per owner")
	assert.Equal(t, second.AccountID, accounts[0].AccountID, "default account listed first")
}

func TestCreateAccountDoesNotTouchOtherOwners(t *testing.T) {
	svc, repo := newAccountsService(t)
	ctx := context.Background()
	ownerA := uuid.New()
	ownerB := uuid.New()

	accountA, err := svc.Create(ctx, ownerA, CreateAccountDTO{
		BankName:      "Kookmin",
		AccountNumber: "111-111",
		AccountHolder: "Kim",
		IsDefault:     true,
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, ownerB, CreateAccountDTO{
		BankName:      "Woori",
		AccountNumber: "333-333",
		AccountHolder: "Park",
		IsDefault:     true,
	})
	require.NoError(t, err)

	reloaded, err := repo.GetOwned(ctx, ownerA, accountA.AccountID)
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	assert.True(t, reloaded.IsDefault, "other owners' defaults must be untouched")
}

func TestUpdateAccount(t *testing.T) {
	svc, _ := newAccountsService(t)
	ctx := context.Background()
	ownerID := uuid.New()

	account, err := svc.Create(ctx, ownerID, CreateAccountDTO{
		BankName:      "Kookmin",
		AccountNumber: "111-111",
		AccountHolder: "Kim",
	})
	require.NoError(t, err)

	newHolder := "Kim Min Ji"
	makeDefault := true
	updated, err := svc.Update(ctx, ownerID, account.AccountID, UpdateAccountDTO{
		AccountHolder: &newHolder,
		IsDefault:     &makeDefault,
	})
	require.NoError(t, err)
	assert.Equal(t, newHolder, updated.AccountHolder)
	assert.True(t, updated.IsDefault)
	assert.Equal(t, "Kookmin", updated.BankName, "unset fields stay untouched")
}

func TestUpdateAccountNotFound(t *testing.T) {
	svc, _ := newAccountsService(t)
	ctx := context.Background()

	_, err := svc.Update(ctx, uuid.New(), uuid.New(), UpdateAccountDTO{})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestUpdateAccountOwnedByAnotherOwnerIsNotFound(t *testing.T) {
	svc, _ := newAccountsService(t)
	ctx := context.Background()
	ownerID := uuid.New()

	account, err := svc.Create(ctx, ownerID, CreateAccountDTO{
		BankName:      "Kookmin",
		AccountNumber: "111-111",
		AccountHolder: "Kim",
	})
	require.NoError(t, err)

	name := "Hacked"
	_, err = svc.Update(ctx, uuid.New(), account.AccountID, UpdateAccountDTO{BankName: &name})
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestDeleteAccount(t *testing.T) {
	svc, repo := newAccountsService(t)
	ctx := context.Background()
	ownerID := uuid.New()

	account, err := svc.Create(ctx, ownerID, CreateAccountDTO{
		BankName:      "Kookmin",
		AccountNumber: "111-111",
		AccountHolder: "Kim",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, ownerID, account.AccountID))

	gone, err := repo.GetOwned(ctx, ownerID, account.AccountID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	err = svc.Delete(ctx, ownerID, account.AccountID)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestFindByTripleMatchesExactFields(t *testing.T) {
	svc, repo := newAccountsService(t)
	ctx := context.Background()
	ownerID := uuid.New()

	created, err := svc.Create(ctx, ownerID, CreateAccountDTO{
		BankName:      "Kookmin",
		AccountNumber: "123-456",
		AccountHolder: "Kim",
	})
	require.NoError(t, err)

	found, err := repo.FindByTriple(ctx, ownerID, "Kookmin", "123-456", "Kim")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.AccountID, found.AccountID)

	miss, err := repo.FindByTriple(ctx, ownerID, "Kookmin", "123-456", "Lee")
	require.NoError(t, err)
	assert.Nil(t, miss)
}
