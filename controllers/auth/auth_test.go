package authController_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"levelup/config"
	"levelup/database"
	"levelup/models"
	"levelup/routers"
	"levelup/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type response struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	config.AppConfig = &config.Config{JWTKey: "test-key", SessionCookie: "levelup_session", SaltRound: 4}
	utils.DefaultMailer = utils.LogMailer{}

	db, err := database.OpenInMemory()
	require.NoError(t, err)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	routers.SetupRoutes(app)
	return app, db
}

func post(t *testing.T, app *fiber.App, path, body string) (int, response) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out response
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

const registerBody = `{"username":"pixelsmith","email":"Creator@LevelUp.test","document":"1020304050","password":"s3cretpass","role":"Creador"}`

func TestRegisterAndLogin(t *testing.T) {
	app, db := setupApp(t)

	code, out := post(t, app, "/register", registerBody)
	require.Equal(t, fiber.StatusCreated, code, out.Message)
	assert.NotContains(t, string(out.Data), "s3cretpass")

	var user models.User
	require.NoError(t, db.Where("username = ?", "pixelsmith").First(&user).Error)
	assert.Equal(t, "creator@levelup.test", user.Email)
	assert.Equal(t, models.RoleCreator, user.Role)

	code, out = post(t, app, "/login", `{"username":"pixelsmith","password":"s3cretpass"}`)
	require.Equal(t, fiber.StatusOK, code)
	var data struct {
		Token    string `json:"token"`
		Redirect string `json:"redirect"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &data))
	assert.NotEmpty(t, data.Token)
	assert.Equal(t, "/home_creador", data.Redirect)

	var logs int64
	db.Model(&models.LoginLog{}).Where("user_id = ?", user.ID).Count(&logs)
	assert.Equal(t, int64(1), logs)

	code, _ = post(t, app, "/login", `{"username":"pixelsmith","password":"wrong-password"}`)
	assert.Equal(t, fiber.StatusUnauthorized, code)
}

func TestRegisterDuplicate(t *testing.T) {
	app, _ := setupApp(t)

	code, _ := post(t, app, "/register", registerBody)
	require.Equal(t, fiber.StatusCreated, code)

	code, out := post(t, app, "/register", strings.Replace(registerBody, "pixelsmith", "another", 1))
	assert.Equal(t, fiber.StatusConflict, code)
	assert.Contains(t, string(out.Data), "email")
}

func TestRegisterValidation(t *testing.T) {
	app, _ := setupApp(t)

	code, out := post(t, app, "/register", `{"username":"ab","email":"nope","document":"12","password":"short","role":"Administrador"}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)

	var fields map[string]string
	require.NoError(t, json.Unmarshal(out.Data, &fields))
	for _, f := range []string{"username", "email", "document", "password", "role"} {
		assert.Contains(t, fields, f)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	app, db := setupApp(t)
	code, _ := post(t, app, "/register", registerBody)
	require.Equal(t, fiber.StatusCreated, code)

	code, unknown := post(t, app, "/request_password_reset", `{"email":"nobody@levelup.test"}`)
	assert.Equal(t, fiber.StatusOK, code)

	code, known := post(t, app, "/request_password_reset", `{"email":"creator@levelup.test"}`)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, unknown.Message, known.Message)

	var reset models.PasswordResetCode
	require.NoError(t, db.First(&reset).Error)
	assert.Len(t, reset.Code, 6)

	code, _ = post(t, app, "/verify_code", `{"email":"creator@levelup.test","code":"`+reset.Code+`"}`)
	assert.Equal(t, fiber.StatusOK, code)

	body := `{"email":"creator@levelup.test","code":"` + reset.Code + `","new_password":"brand-new-pass"}`
	code, _ = post(t, app, "/reset_password_code", body)
	require.Equal(t, fiber.StatusOK, code)

	// codes are single use
	code, _ = post(t, app, "/reset_password_code", body)
	assert.Equal(t, fiber.StatusUnauthorized, code)

	code, _ = post(t, app, "/login", `{"username":"pixelsmith","password":"brand-new-pass"}`)
	assert.Equal(t, fiber.StatusOK, code)
}

func TestExpiredResetCode(t *testing.T) {
	app, db := setupApp(t)
	code, _ := post(t, app, "/register", registerBody)
	require.Equal(t, fiber.StatusCreated, code)

	var user models.User
	require.NoError(t, db.First(&user).Error)
	require.NoError(t, db.Create(&models.PasswordResetCode{
		UserID:    user.ID,
		Code:      "123456",
		ExpiresAt: time.Now().Add(-time.Minute),
	}).Error)

	code, out := post(t, app, "/verify_code", `{"email":"creator@levelup.test","code":"123456"}`)
	assert.Equal(t, fiber.StatusUnauthorized, code)
	assert.Equal(t, "Code has expired!", out.Message)
}
