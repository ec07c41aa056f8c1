package accounts

// CreateAccountDTO holds creation-time data for a new bank account.
type CreateAccountDTO struct {
	BankName      string
	AccountNumber string
	AccountHolder string
	IsDefault     bool
}

// UpdateAccountDTO carries partial updates; nil fields are left untouched.
type UpdateAccountDTO struct {
	BankName      *string
	AccountNumber *string
	AccountHolder *string
	IsDefault     *bool
}
