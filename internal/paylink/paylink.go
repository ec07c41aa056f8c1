// Package paylink builds the payment URLs encoded into QR images and shown on
// the payer page, and computes the final amount a payer owes after discounts.
package paylink

import (
	"net/url"
	"strings"

	"github.com/chackchack-dev/chackchack-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// LinkParams are the inputs for one payment link. Amount is the computed
// final amount, pre-rounding; leave it nil when the QR has no base amount.
type LinkParams struct {
	BankName      string
	AccountNumber string
	AccountHolder string
	QrID          string
	Amount        *decimal.Decimal
}

// BuildPaymentURL renders the payer page URL. Parameter order is fixed
// (bank, account, holder, qrId, amount) so identical inputs always produce
// byte-identical strings. Every free-text value is percent-encoded on its
// own; bank names and holders routinely carry spaces, ampersands, and Hangul.
func BuildPaymentURL(baseURL string, p LinkParams) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(baseURL, "/"))
	b.WriteString("/payer.html?bank=")
	b.WriteString(url.QueryEscape(p.BankName))
	b.WriteString("&account=")
	b.WriteString(url.QueryEscape(p.AccountNumber))
	b.WriteString("&holder=")
	b.WriteString(url.QueryEscape(p.AccountHolder))
	if p.QrID != "" {
		b.WriteString("&qrId=")
		b.WriteString(url.QueryEscape(p.QrID))
	}
	if p.Amount != nil {
		b.WriteString("&amount=")
		b.WriteString(p.Amount.Round(0).String())
	}
	return b.String()
}

// FinalAmount applies an optional discount rule to a base amount.
//
// A missing type, a missing value, or a zero value all mean "no discount".
// Percentage discounts are not clamped; a rate over 100 goes negative, which
// matches how the mobile clients have always computed it. Fixed discounts
// clamp at zero. Unrecognized type strings are ignored rather than rejected
// so stale client payloads keep working.
func FinalAmount(base decimal.Decimal, discountType *string, discountValue *decimal.Decimal) decimal.Decimal {
	if discountType == nil || *discountType == "" || discountValue == nil || discountValue.IsZero() {
		return base
	}
	switch enums.DiscountType(*discountType) {
	case enums.DiscountTypePercentage:
		rate := decimal.NewFromInt(1).Sub(discountValue.Div(decimal.NewFromInt(100)))
		return base.Mul(rate)
	case enums.DiscountTypeFixed:
		out := base.Sub(*discountValue)
		if out.IsNegative() {
			return decimal.Zero
		}
		return out
	default:
		return base
	}
}
