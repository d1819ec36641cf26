package donationValidator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"levelup/services/payments"
	"levelup/views"

	"github.com/gofiber/fiber/v2"
)

// DonationRequest is the parsed donation form. Missing values are left
// zero so the donation service reports them.
type DonationRequest struct {
	Intent    payments.IntentRequest
	WantsJSON bool
}

// amountField accepts 5000, 5000.5 or "5000"
type amountField string

func (a *amountField) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = amountField(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("amount must be a number")
	}
	*a = amountField(n.String())
	return nil
}

type jsonBody struct {
	CreatorID payments.ID `json:"creator_id"`
	GameID    payments.ID `json:"game_id"`
	Amount    amountField `json:"amount"`
}

// WantsJSON reports whether the caller is a script expecting JSON back
func WantsJSON(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) ||
		strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMEApplicationJSON)
}

// Donation parses either a JSON body or a regular form post. A body that
// looks like JSON is read as JSON whatever the content type says.
func Donation() fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := &DonationRequest{WantsJSON: WantsJSON(c)}

		var err error
		body := bytes.TrimSpace(c.Body())
		if len(body) > 0 && body[0] == '{' {
			err = parseJSON(body, &req.Intent)
		} else {
			err = parseForm(c, &req.Intent)
		}

		if err != nil {
			if req.WantsJSON {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "error": err.Error()})
			}
			return views.CheckoutError(c, fiber.StatusBadRequest, err.Error())
		}

		c.Locals("validatedDonation", req)
		return c.Next()
	}
}

func parseJSON(body []byte, out *payments.IntentRequest) error {
	var data jsonBody
	if err := json.Unmarshal(body, &data); err != nil {
		return fmt.Errorf("Datos inválidos: %v", err)
	}
	out.CreatorID = uint(data.CreatorID)
	out.GameID = data.GameID.Ptr()
	out.Amount = string(data.Amount)
	return nil
}

func parseForm(c *fiber.Ctx, out *payments.IntentRequest) error {
	creatorID, err := optionalID(c.FormValue("creator_id"))
	if err != nil {
		return fmt.Errorf("creator_id inválido")
	}
	gameID, err := optionalID(c.FormValue("game_id"))
	if err != nil {
		return fmt.Errorf("game_id inválido")
	}

	out.CreatorID = creatorID
	if gameID != 0 {
		out.GameID = &gameID
	}
	out.Amount = c.FormValue("amount")
	return nil
}

func optionalID(raw string) (uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	return uint(n), err
}
