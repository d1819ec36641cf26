package payments

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// IntegritySignature is the Wompi checkout signature:
// lowercase hex SHA-256 of reference, amount in cents, currency and secret.
func IntegritySignature(reference string, amountInCents int64, currency, secret string) string {
	sum := sha256.Sum256([]byte(reference + strconv.FormatInt(amountInCents, 10) + currency + secret))
	return hex.EncodeToString(sum[:])
}

// NewReference builds DON-<donor>-<creator>-<8 hex chars>
func NewReference(donorID, creatorID uint) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("DON-%d-%d-%s", donorID, creatorID, suffix)
}

// MaxAmount is the largest amount the decimal(12,2) amount column holds
var MaxAmount = decimal.RequireFromString("9999999999.99")

// ParseAmount parses a positive peso amount with at most two decimals
func ParseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("monto inválido %q", raw)
	}
	if !amount.Equal(amount.Truncate(2)) {
		return decimal.Zero, fmt.Errorf("el monto admite máximo dos decimales")
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("el monto debe ser positivo")
	}
	if amount.GreaterThan(MaxAmount) {
		return decimal.Zero, fmt.Errorf("el monto máximo de donación es %s", MaxAmount.StringFixed(2))
	}
	return amount.Truncate(2), nil
}

// AmountInCents converts pesos to the integer minor units Wompi expects
func AmountInCents(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// AmountFromCents is the inverse of AmountInCents
func AmountFromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
