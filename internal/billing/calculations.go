// Package billing holds the arithmetic shared by invoices and quotes.
package billing

// Totals breaks down a document total.
//
// TotalAmount = subTotal - discount + VAT. The retenue (withholding)
// is deducted after VAT, so NetAPayer = TotalAmount - RetenueAmount.
// Amounts accumulate as floats with no intermediate rounding.
type Totals struct {
	SubTotal        float64
	DiscountPercent float64
	DiscountAmount  float64
	VATPercent      float64
	VATAmount       float64
	RetenuePercent  float64
	RetenueAmount   float64
	TotalAmount     float64
	NetAPayer       float64
}

// Compute derives all amounts from the sub-total and the three rates.
func Compute(subTotal, discountPercent, vatPercent, retenuePercent float64) Totals {
	discountAmount := subTotal * (discountPercent / 100)
	base := subTotal - discountAmount
	vatAmount := base * (vatPercent / 100)
	totalAmount := base + vatAmount
	retenueAmount := totalAmount * (retenuePercent / 100)

	return Totals{
		SubTotal:        subTotal,
		DiscountPercent: discountPercent,
		DiscountAmount:  discountAmount,
		VATPercent:      vatPercent,
		VATAmount:       vatAmount,
		RetenuePercent:  retenuePercent,
		RetenueAmount:   retenueAmount,
		TotalAmount:     totalAmount,
		NetAPayer:       totalAmount - retenueAmount,
	}
}

// LineTotal computes a line amount.
func LineTotal(quantity, unitPrice float64) float64 {
	return quantity * unitPrice
}
