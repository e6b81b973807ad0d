package shared

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// MoneyFormatter renders monetary amounts for exports and prompts.
// Formatting is display-only; stored values stay unrounded floats.
type MoneyFormatter struct {
	printer *message.Printer
	code    string
}

// NewMoneyFormatter builds a formatter for the configured locale and currency code.
func NewMoneyFormatter(locale, code string) *MoneyFormatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.French
	}
	return &MoneyFormatter{printer: message.NewPrinter(tag), code: code}
}

// Format renders an amount with two decimals and the currency code.
func (f *MoneyFormatter) Format(v float64) string {
	if f == nil || f.printer == nil {
		return ""
	}
	return f.printer.Sprintf("%.2f %s", v, f.code)
}

// Code returns the ISO currency code.
func (f *MoneyFormatter) Code() string {
	if f == nil {
		return ""
	}
	return f.code
}
