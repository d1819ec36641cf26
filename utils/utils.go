package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var copPrinter = message.NewPrinter(language.MustParse("es-CO"))

// GenerateResetCode generates a 6-digit password reset code
func GenerateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// FormatCOP renders an amount in pesos with locale digit grouping
func FormatCOP(amount decimal.Decimal) string {
	if amount.IsInteger() {
		return copPrinter.Sprintf("$%d COP", amount.IntPart())
	}
	f, _ := amount.Round(2).Float64()
	return copPrinter.Sprintf("$%.2f COP", f)
}
