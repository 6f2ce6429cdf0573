package utils

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ArabicPrinter formats numbers with Arabic-Indic digits and separators.
var ArabicPrinter = message.NewPrinter(language.Arabic)

// FormatAmount renders a money amount with two decimals for Arabic output.
// The integer and fraction parts are printed separately so large amounts keep every digit.
func FormatAmount(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	abs := rounded.Abs()
	cents := abs.Sub(abs.Truncate(0)).Shift(2).IntPart()

	// "٠٫٥٠" for 50 cents; the leading zero is replaced by the integer part.
	fraction := []rune(ArabicPrinter.Sprintf("%.2f", float64(cents)/100))
	out := ArabicPrinter.Sprintf("%d", abs.IntPart()) + string(fraction[1:])
	if rounded.IsNegative() {
		return "-" + out
	}
	return out
}

// FormatCount renders an integer count for Arabic output.
func FormatCount(n int) string {
	return ArabicPrinter.Sprintf("%d", n)
}
