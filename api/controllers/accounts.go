package controllers

import (
	"net/http"

	"github.com/chackchack-dev/chackchack-backend/api/responses"
	"github.com/chackchack-dev/chackchack-backend/api/validators"
	"github.com/chackchack-dev/chackchack-backend/internal/accounts"
	"github.com/chackchack-dev/chackchack-backend/pkg/logger"
)

// AccountsController serves bank account CRUD for the authenticated owner.
type AccountsController struct {
	svc  accounts.Service
	logg *logger.Logger
}

func NewAccountsController(svc accounts.Service, logg *logger.Logger) *AccountsController {
	return &AccountsController{svc: svc, logg: logg}
}

type createAccountRequest struct {
	BankName      string `json:"bankName" validate:"required,min=1,max=100"`
	AccountNumber string `json:"accountNumber" validate:"required,min=1,max=50"`
	AccountHolder string `json:"accountHolder" validate:"required,min=1,max=100"`
	IsDefault     bool   `json:"isDefault"`
}

type updateAccountRequest struct {
	BankName      *string `json:"bankName" validate:"omitempty,min=1,max=100"`
	AccountNumber *string `json:"accountNumber" validate:"omitempty,min=1,max=50"`
	AccountHolder *string `json:"accountHolder" validate:"omitempty,min=1,max=100"`
	IsDefault     *bool   `json:"isDefault"`
}

func (c *AccountsController) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, err := ownerFromRequest(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	var req createAccountRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	account, err := c.svc.Create(r.Context(), ownerID, accounts.CreateAccountDTO{
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		AccountHolder: req.AccountHolder,
		IsDefault:     req.IsDefault,
	})
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, account)
}

func (c *AccountsController) List(w http.ResponseWriter, r *http.Request) {
	ownerID, err := ownerFromRequest(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	list, err := c.svc.List(r.Context(), ownerID)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, list)
}

func (c *AccountsController) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, err := ownerFromRequest(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	accountID, err := uuidParam(r, "accountId")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	var req updateAccountRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	account, err := c.svc.Update(r.Context(), ownerID, accountID, accounts.UpdateAccountDTO{
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		AccountHolder: req.AccountHolder,
		IsDefault:     req.IsDefault,
	})
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, account)
}

func (c *AccountsController) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, err := ownerFromRequest(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	accountID, err := uuidParam(r, "accountId")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	if err := c.svc.Delete(r.Context(), ownerID, accountID); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]string{"message": "account deleted"})
}
