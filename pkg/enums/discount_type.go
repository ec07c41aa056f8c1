package enums

// DiscountType describes how a QR code's base amount is reduced. The column is
// free text for compatibility with old clients; unrecognized values are
// treated as "no discount" rather than rejected.
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

// IsValid reports whether the value is one of the known discount types.
func (d DiscountType) IsValid() bool {
	return d == DiscountTypePercentage || d == DiscountTypeFixed
}
