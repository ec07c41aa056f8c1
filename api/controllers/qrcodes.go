package controllers

import (
	"net/http"

	"github.com/chackchack-dev/chackchack-backend/api/responses"
	"github.com/chackchack-dev/chackchack-backend/api/validators"
	"github.com/chackchack-dev/chackchack-backend/internal/qrcodes"
	"github.com/chackchack-dev/chackchack-backend/pkg/db/models"
	dbtypes "github.com/chackchack-dev/chackchack-backend/pkg/db/types"
	pkgerrors "github.com/chackchack-dev/chackchack-backend/pkg/errors"
	"github.com/chackchack-dev/chackchack-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QrCodesController serves QR record CRUD, image rendering, and local sync.
type QrCodesController struct {
	svc  qrcodes.Service
	logg *logger.Logger
}

func NewQrCodesController(svc qrcodes.Service, logg *logger.Logger) *QrCodesController {
	return &QrCodesController{svc: svc, logg: logg}
}

type qrCodeRequest struct {
	AccountID     string           `json:"accountId" validate:"required,uuid"`
	QrName        string           `json:"qrName" validate:"required,min=1,max=100"`
	BaseAmount    *decimal.Decimal `json:"baseAmount"`
	DiscountType  *string          `json:"discountType" validate:"omitempty,oneof=percentage fixed"`
	DiscountValue *decimal.Decimal `json:"discountValue"`
	StyleConfig   dbtypes.JSONMap  `json:"styleConfig"`
}

type syncRequest struct {
	LocalQrCodes []qrcodes.LocalQrRecord `json:"localQrCodes" validate:"required"`
}

func (c *QrCodesController) decodeQrRequest(r *http.Request) (qrcodes.CreateQrCodeDTO, error) {
	var req qrCodeRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		return qrcodes.CreateQrCodeDTO{}, err
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		return qrcodes.CreateQrCodeDTO{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid accountId")
	}

	return qrcodes.CreateQrCodeDTO{
		AccountID:     accountID,
		QrName:        req.QrName,
		BaseAmount:    req.BaseAmount,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		StyleConfig:   req.StyleConfig,
	}, nil
}

// withImage bundles a QR record with its freshly rendered image. Rendering
// failures surface as errors rather than a record without an image.
func (c *QrCodesController) withImage(r *http.Request, qr *models.QrCode) (*qrcodes.QrCodeWithImage, error) {
	image, err := c.svc.GenerateImage(r.Context(), qr)
	if err != nil {
		return nil, err
	}
	return &qrcodes.QrCodeWithImage{QrCode: *qr, QrCodeImage: image}, nil
}

func (c *QrCodesController) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, err := ownerFromRequest(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	dto, err := c.decodeQrRequest(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	qr, err := c.svc.Create(r.Context(), ownerID, dto)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	payload, err := c.withImage(r, qr)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccessStatus(w, http.StatusCreated, payload)
}

func (c *QrCodesController) List(w http.ResponseWriter, r *http.Request) {
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

	payload := make([]qrcodes.QrCodeWithImage, 0, len(list))
	for i := range list {
		item, err := c.withImage(r, &list[i])
		if err != nil {
			responses.WriteError(r.Context(), c.logg, w, err)
			return
		}
		payload = append(payload, *item)
	}
	responses.WriteSuccess(w, payload)
}

// Get serves a single QR record without requiring authentication; the payer
// page loads it by id alone.
func (c *QrCodesController) Get(w http.ResponseWriter, r *http.Request) {
	qrID, err := uuidParam(r, "qrId")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	qr, err := c.svc.Get(r.Context(), qrID)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	payload, err := c.withImage(r, qr)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, payload)
}

func (c *QrCodesController) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, err := ownerFromRequest(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	qrID, err := uuidParam(r, "qrId")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	dto, err := c.decodeQrRequest(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	qr, err := c.svc.Update(r.Context(), ownerID, qrID, dto)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	payload, err := c.withImage(r, qr)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, payload)
}

func (c *QrCodesController) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, err := ownerFromRequest(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	qrID, err := uuidParam(r, "qrId")
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	if err := c.svc.Delete(r.Context(), ownerID, qrID); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, map[string]string{"message": "qr code deleted"})
}

// Sync uploads client-held records created before login and returns the full
// server-side list.
func (c *QrCodesController) Sync(w http.ResponseWriter, r *http.Request) {
	ownerID, err := ownerFromRequest(r)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	var req syncRequest
	if err := validators.DecodeJSONBody(r, &req); err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}

	result, err := c.svc.Sync(r.Context(), ownerID, req.LocalQrCodes)
	if err != nil {
		responses.WriteError(r.Context(), c.logg, w, err)
		return
	}
	responses.WriteSuccess(w, result)
}
