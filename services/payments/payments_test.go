package payments

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"

	"levelup/config"
	"levelup/database"
	"levelup/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test_integrity_secret"

func testConfig() *config.Config {
	return &config.Config{
		WompiPublicKey:    "pub_test_key",
		WompiIntegrityKey: testSecret,
		WompiRedirectURL:  "https://levelup.test/donacion_finalizada",
		WompiCurrency:     "COP",
		MinDonation:       100,
	}
}

type fixture struct {
	db      *gorm.DB
	svc     *Service
	donor   models.User
	creator models.User
	game    models.Game
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)

	f := &fixture{db: db, svc: NewService(db, testConfig(), nil)}

	f.creator = models.User{Model: gorm.Model{ID: 2}, Username: "pixelsmith", Email: "creator@levelup.test", Document: "200", Password: "x", Role: models.RoleCreator}
	f.donor = models.User{Model: gorm.Model{ID: 7}, Username: "ana", Email: "ana@levelup.test", Document: "700", Password: "x", Role: models.RoleUser}
	require.NoError(t, db.Create(&f.creator).Error)
	require.NoError(t, db.Create(&f.donor).Error)

	f.game = models.Game{Name: "Cave Runner", Description: "roguelike", ImageURL: "cave.png", CreatorID: f.creator.ID}
	require.NoError(t, db.Create(&f.game).Error)
	return f
}

func (f *fixture) donations(t *testing.T) []models.Donation {
	t.Helper()
	var rows []models.Donation
	require.NoError(t, f.db.Order("id").Find(&rows).Error)
	return rows
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func approvedEvent(reference string, cents int64, creatorID uint) []byte {
	return []byte(fmt.Sprintf(`{
		"event": "transaction.updated",
		"data": {"transaction": {
			"id": "1234-1610641025-49201",
			"status": "APPROVED",
			"reference": %q,
			"amount_in_cents": %d,
			"data": {"donor_id": 7, "creator_id": "%d", "game_id": null}
		}},
		"timestamp": 1530291411
	}`, reference, cents, creatorID))
}

func statusEvent(reference, status string) []byte {
	return []byte(fmt.Sprintf(`{"event":"transaction.updated","data":{"transaction":{"id":"tx-1","status":%q,"reference":%q,"amount_in_cents":500000}}}`, status, reference))
}

func mustIntent(t *testing.T, f *fixture, amount string) *Checkout {
	t.Helper()
	checkout, err := f.svc.CreateIntent(context.Background(), f.donor.ID, IntentRequest{CreatorID: f.creator.ID, Amount: amount})
	require.NoError(t, err)
	return checkout
}

func amountOf(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
