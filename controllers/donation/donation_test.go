package donationController_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"levelup/config"
	"levelup/database"
	"levelup/middleware"
	"levelup/models"
	"levelup/routers"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type env struct {
	app        *fiber.App
	db         *gorm.DB
	donorToken string
}

func setup(t *testing.T) *env {
	t.Helper()
	config.AppConfig = &config.Config{
		JWTKey:            "test-key",
		SessionCookie:     "levelup_session",
		SaltRound:         4,
		WompiPublicKey:    "pub_test_key",
		WompiIntegrityKey: "test_integrity",
		WompiCheckoutURL:  "https://checkout.wompi.co/p/",
		WompiRedirectURL:  "https://levelup.test/donacion_finalizada",
		WompiCurrency:     "COP",
		MinDonation:       100,
	}

	db, err := database.OpenInMemory()
	require.NoError(t, err)
	database.Database = database.DbInstance{Db: db}

	creator := models.User{Model: gorm.Model{ID: 2}, Username: "pixelsmith", Email: "creator@levelup.test", Document: "200", Password: "x", Role: models.RoleCreator}
	donor := models.User{Model: gorm.Model{ID: 7}, Username: "ana", Email: "ana@levelup.test", Document: "700", Password: "x", Role: models.RoleUser}
	require.NoError(t, db.Create(&creator).Error)
	require.NoError(t, db.Create(&donor).Error)

	token, err := middleware.GenerateJWT(donor.ID, donor.Username, string(donor.Role), donor.Email)
	require.NoError(t, err)

	app := fiber.New()
	routers.SetupRoutes(app)
	return &env{app: app, db: db, donorToken: token}
}

func (e *env) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (e *env) donations(t *testing.T) []models.Donation {
	t.Helper()
	var rows []models.Donation
	require.NoError(t, e.db.Order("id").Find(&rows).Error)
	return rows
}

func jsonDonation(body, token string) *http.Request {
	req := httptest.NewRequest("POST", "/donaciones", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestCreateDonationJSON(t *testing.T) {
	e := setup(t)

	resp, body := e.do(t, jsonDonation(`{"creator_id": 2, "amount": "5000"}`, e.donorToken))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body)

	var out struct {
		Success bool `json:"success"`
		Wompi   struct {
			Currency      string `json:"currency"`
			AmountInCents int64  `json:"amountInCents"`
			Reference     string `json:"reference"`
			PublicKey     string `json:"publicKey"`
			Signature     struct {
				Integrity string `json:"integrity"`
			} `json:"signature"`
			Data struct {
				DonorID   uint  `json:"donor_id"`
				CreatorID uint  `json:"creator_id"`
				GameID    *uint `json:"game_id"`
			} `json:"data"`
		} `json:"wompi"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.True(t, out.Success)
	assert.Equal(t, "COP", out.Wompi.Currency)
	assert.Equal(t, int64(500000), out.Wompi.AmountInCents)
	assert.Len(t, out.Wompi.Signature.Integrity, 64)
	assert.Equal(t, uint(7), out.Wompi.Data.DonorID)
	assert.Equal(t, uint(2), out.Wompi.Data.CreatorID)
	assert.Nil(t, out.Wompi.Data.GameID)

	rows := e.donations(t)
	require.Len(t, rows, 1)
	assert.Equal(t, out.Wompi.Reference, rows[0].TransactionRef)
	assert.Equal(t, models.DonationPending, rows[0].Status)
}

func TestCreateDonationNumericAmount(t *testing.T) {
	e := setup(t)

	resp, body := e.do(t, jsonDonation(`{"creator_id": "2", "amount": 150.5}`, e.donorToken))
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body)
	assert.Contains(t, body, `"amountInCents":15050`)
}

func TestCreateDonationMissingAmount(t *testing.T) {
	e := setup(t)

	resp, body := e.do(t, jsonDonation(`{"creator_id": 2}`, e.donorToken))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, `"success":false`)
	assert.Contains(t, body, "Faltan datos")
	assert.Empty(t, e.donations(t))
}

func TestCreateDonationBelowMinimum(t *testing.T) {
	e := setup(t)

	resp, body := e.do(t, jsonDonation(`{"creator_id": 2, "amount": 50}`, e.donorToken))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "mínimo")
	assert.Empty(t, e.donations(t))
}

func TestCreateDonationAnonymous(t *testing.T) {
	e := setup(t)

	resp, body := e.do(t, jsonDonation(`{"creator_id": 2, "amount": 5000}`, ""))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, body, "no autenticado")
	assert.Empty(t, e.donations(t))
}

func TestCreateDonationGatewayNotConfigured(t *testing.T) {
	e := setup(t)
	config.AppConfig.WompiPublicKey = ""

	resp, body := e.do(t, jsonDonation(`{"creator_id": 2, "amount": 5000}`, e.donorToken))
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, body, "Wompi")
	assert.Empty(t, e.donations(t))
}

func TestCreateDonationForm(t *testing.T) {
	e := setup(t)

	form := url.Values{"creator_id": {"2"}, "amount": {"5000"}}
	req := httptest.NewRequest("POST", "/donaciones", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Cookie", "levelup_session="+e.donorToken)

	resp, body := e.do(t, req)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, body, `action="https://checkout.wompi.co/p/"`)
	assert.Contains(t, body, `name="signature:integrity"`)
	assert.Contains(t, body, `value="500000"`)
	assert.Len(t, e.donations(t), 1)
}

func TestCreateDonationFormError(t *testing.T) {
	e := setup(t)

	form := url.Values{"creator_id": {"abc"}, "amount": {"5000"}}
	req := httptest.NewRequest("POST", "/donaciones", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Cookie", "levelup_session="+e.donorToken)

	resp, body := e.do(t, req)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "creator_id inválido")
	assert.Empty(t, e.donations(t))
}

func createIntent(t *testing.T, e *env) string {
	t.Helper()
	_, body := e.do(t, jsonDonation(`{"creator_id": 2, "amount": 5000}`, e.donorToken))
	var out struct {
		Wompi struct {
			Reference string `json:"reference"`
		} `json:"wompi"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	require.NotEmpty(t, out.Wompi.Reference)
	return out.Wompi.Reference
}

func event(reference, status string) *http.Request {
	body := `{"event":"transaction.updated","data":{"transaction":{"id":"tx-1","status":"` + status +
		`","reference":"` + reference + `","amount_in_cents":500000,"data":{"donor_id":7,"creator_id":2}}},"timestamp":1530291411}`
	req := httptest.NewRequest("POST", "/wompi_events", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestWompiEventsApprovedTwice(t *testing.T) {
	e := setup(t)
	ref := createIntent(t, e)

	for i := 0; i < 2; i++ {
		resp, body := e.do(t, event(ref, "APPROVED"))
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"status":"OK"}`, body)
	}

	rows := e.donations(t)
	require.Len(t, rows, 1)
	assert.Equal(t, models.DonationApproved, rows[0].Status)
}

func TestWompiEventsDeclined(t *testing.T) {
	e := setup(t)
	ref := createIntent(t, e)

	resp, _ := e.do(t, event(ref, "DECLINED"))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	rows := e.donations(t)
	require.Len(t, rows, 1)
	assert.Equal(t, models.DonationDeclined, rows[0].Status)
}

func TestWompiEventsMalformed(t *testing.T) {
	e := setup(t)

	req := httptest.NewRequest("POST", "/wompi_events", strings.NewReader(`{"data":`))
	resp, body := e.do(t, req)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"OK"}`, body)
	assert.Empty(t, e.donations(t))
}

func TestWompiEventsForgedChecksum(t *testing.T) {
	e := setup(t)
	config.AppConfig.WompiEventsKey = "events_secret"
	ref := createIntent(t, e)

	resp, _ := e.do(t, event(ref, "APPROVED"))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, models.DonationPending, e.donations(t)[0].Status)
}

func TestWompiEventsDatabaseDown(t *testing.T) {
	e := setup(t)
	ref := createIntent(t, e)

	sqlDB, err := e.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	resp, _ := e.do(t, event(ref, "APPROVED"))
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestDonationFinished(t *testing.T) {
	e := setup(t)
	ref := createIntent(t, e)

	resp, body := e.do(t, httptest.NewRequest("GET", "/donacion_finalizada?status=PENDING&id=tx-77", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "pendiente")
	assert.Contains(t, body, "tx-77")

	resp, body = e.do(t, httptest.NewRequest("GET", "/donacion_finalizada?status=APPROVED", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Gracias")

	resp, body = e.do(t, httptest.NewRequest("GET", "/donacion_finalizada", nil))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "no pudo completarse")

	// the page never touches donations
	rows := e.donations(t)
	require.Len(t, rows, 1)
	assert.Equal(t, ref, rows[0].TransactionRef)
	assert.Equal(t, models.DonationPending, rows[0].Status)

	var events int64
	e.db.Model(&models.GatewayEvent{}).Count(&events)
	assert.Zero(t, events)
}

func TestDonationHistoryForCreatorOnly(t *testing.T) {
	e := setup(t)
	createIntent(t, e)

	req := httptest.NewRequest("GET", "/donations/history", nil)
	req.Header.Set("Authorization", "Bearer "+e.donorToken)
	resp, _ := e.do(t, req)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	creatorToken, err := middleware.GenerateJWT(2, "pixelsmith", string(models.RoleCreator), "creator@levelup.test")
	require.NoError(t, err)
	req = httptest.NewRequest("GET", "/donations/history", nil)
	req.Header.Set("Authorization", "Bearer "+creatorToken)
	resp, body := e.do(t, req)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "DON-7-2-")
}
