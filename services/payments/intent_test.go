package payments

import (
	"context"
	"testing"

	"levelup/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateIntent(t *testing.T) {
	f := newFixture(t)

	checkout := mustIntent(t, f, "5000")

	assert.Equal(t, "COP", checkout.Currency)
	assert.Equal(t, int64(500000), checkout.AmountInCents)
	assert.Regexp(t, `^DON-7-2-[0-9a-f]{8}$`, checkout.Reference)
	assert.Equal(t, "pub_test_key", checkout.PublicKey)
	assert.Equal(t, sha256Hex(checkout.Reference+"500000COP"+testSecret), checkout.Signature.Integrity)
	assert.Equal(t, "https://levelup.test/donacion_finalizada", checkout.RedirectURL)
	assert.Equal(t, CustomerData{Email: "ana@levelup.test", FullName: "ana"}, checkout.CustomerData)
	assert.Equal(t, CheckoutMetadata{DonorID: 7, CreatorID: 2}, checkout.Data)

	rows := f.donations(t)
	require.Len(t, rows, 1)
	d := rows[0]
	assert.Equal(t, checkout.DonationID, d.ID)
	assert.Equal(t, models.DonationPending, d.Status)
	assert.Equal(t, checkout.Reference, d.TransactionRef)
	assert.True(t, amountOf("5000").Equal(d.Amount))
	require.NotNil(t, d.DonorID)
	assert.Equal(t, uint(7), *d.DonorID)
	assert.Equal(t, uint(2), d.CreatorID)
	assert.Nil(t, d.GameID)
}

func TestCreateIntentWithGame(t *testing.T) {
	f := newFixture(t)
	gameID := f.game.ID

	checkout, err := f.svc.CreateIntent(context.Background(), f.donor.ID, IntentRequest{CreatorID: f.creator.ID, GameID: &gameID, Amount: "150.5"})
	require.NoError(t, err)
	assert.Equal(t, int64(15050), checkout.AmountInCents)

	rows := f.donations(t)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].GameID)
	assert.Equal(t, gameID, *rows[0].GameID)
}

func TestCreateIntentRejections(t *testing.T) {
	missingGame := uint(999)

	tests := []struct {
		name    string
		donorID uint
		req     IntentRequest
		mutate  func(*fixture)
		kind    Kind
		msg     string
	}{
		{name: "missing amount", donorID: 7, req: IntentRequest{CreatorID: 2}, kind: KindValidation, msg: "Faltan datos"},
		{name: "missing creator", donorID: 7, req: IntentRequest{Amount: "5000"}, kind: KindValidation, msg: "Faltan datos"},
		{name: "not a number", donorID: 7, req: IntentRequest{CreatorID: 2, Amount: "mucho"}, kind: KindValidation},
		{name: "negative", donorID: 7, req: IntentRequest{CreatorID: 2, Amount: "-500"}, kind: KindValidation},
		{name: "below minimum", donorID: 7, req: IntentRequest{CreatorID: 2, Amount: "99.99"}, kind: KindValidation, msg: "mínimo"},
		{name: "rounds up to minimum", donorID: 7, req: IntentRequest{CreatorID: 2, Amount: "99.996"}, kind: KindValidation},
		{name: "above column capacity", donorID: 7, req: IntentRequest{CreatorID: 2, Amount: "10000000000"}, kind: KindValidation, msg: "máximo"},
		{name: "beyond int64 cents", donorID: 7, req: IntentRequest{CreatorID: 2, Amount: "100000000000000000000"}, kind: KindValidation, msg: "máximo"},
		{name: "anonymous", donorID: 0, req: IntentRequest{CreatorID: 2, Amount: "5000"}, kind: KindAuth},
		{name: "unknown donor", donorID: 42, req: IntentRequest{CreatorID: 2, Amount: "5000"}, kind: KindAuth},
		{name: "recipient is not a creator", donorID: 7, req: IntentRequest{CreatorID: 7, Amount: "5000"}, kind: KindValidation},
		{name: "unknown game", donorID: 7, req: IntentRequest{CreatorID: 2, GameID: &missingGame, Amount: "5000"}, kind: KindValidation},
		{
			name: "gateway not configured", donorID: 7, req: IntentRequest{CreatorID: 2, Amount: "5000"},
			mutate: func(f *fixture) { f.svc.Config.WompiIntegrityKey = "" },
			kind:   KindConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.mutate != nil {
				tt.mutate(f)
			}

			checkout, err := f.svc.CreateIntent(context.Background(), tt.donorID, tt.req)
			require.Error(t, err)
			assert.Nil(t, checkout)
			assert.Equal(t, tt.kind, KindOf(err))
			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
			assert.Empty(t, f.donations(t))
		})
	}
}

func TestCreateIntentMinimumBoundary(t *testing.T) {
	f := newFixture(t)
	checkout := mustIntent(t, f, "100")
	assert.Equal(t, int64(10000), checkout.AmountInCents)

	for _, amount := range []string{"99.99", "99.996", "99.999999"} {
		_, err := f.svc.CreateIntent(context.Background(), f.donor.ID, IntentRequest{CreatorID: f.creator.ID, Amount: amount})
		assert.Equal(t, KindValidation, KindOf(err), amount)
	}
	assert.Len(t, f.donations(t), 1)
}

func TestCreateIntentMaximumBoundary(t *testing.T) {
	f := newFixture(t)
	checkout := mustIntent(t, f, "9999999999.99")
	assert.Equal(t, int64(999999999999), checkout.AmountInCents)
	assert.Equal(t, IntegritySignature(checkout.Reference, 999999999999, "COP", testSecret), checkout.Signature.Integrity)

	rows := f.donations(t)
	require.Len(t, rows, 1)
	assert.True(t, amountOf("9999999999.99").Equal(rows[0].Amount))
}

func TestCreateIntentUniqueReferences(t *testing.T) {
	f := newFixture(t)
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		ref := mustIntent(t, f, "1000").Reference
		assert.False(t, seen[ref])
		seen[ref] = true
	}
	assert.Len(t, f.donations(t), 20)
}

func TestCheckoutFormFields(t *testing.T) {
	f := newFixture(t)
	checkout := mustIntent(t, f, "5000")

	fields := map[string]string{}
	for _, field := range checkout.FormFields() {
		fields[field.Name] = field.Value
	}

	assert.Equal(t, "pub_test_key", fields["public-key"])
	assert.Equal(t, "500000", fields["amount-in-cents"])
	assert.Equal(t, checkout.Reference, fields["reference"])
	assert.Equal(t, checkout.Signature.Integrity, fields["signature:integrity"])
	assert.Equal(t, "ana@levelup.test", fields["customer-data:email"])
}
