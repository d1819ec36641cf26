package payments

import (
	"bytes"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"levelup/utils"

	"github.com/shopspring/decimal"
)

// ID accepts a JSON number, a numeric string or null. Zero means absent.
type ID uint

func (id *ID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if s == "" || s == "null" {
		*id = 0
		return nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", s)
	}
	*id = ID(n)
	return nil
}

// Ptr returns nil for an absent id
func (id ID) Ptr() *uint {
	if id == 0 {
		return nil
	}
	v := uint(id)
	return &v
}

type Metadata struct {
	DonorID   ID `json:"donor_id"`
	CreatorID ID `json:"creator_id"`
	GameID    ID `json:"game_id"`
}

// UnmarshalJSON never fails: an unreadable id only clears that id.
func (m *Metadata) UnmarshalJSON(b []byte) error {
	*m = Metadata{}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		utils.Log.Warn().Err(err).Msg("unreadable transaction metadata ignored")
		return nil
	}
	m.DonorID = metadataID(fields, "donor_id")
	m.CreatorID = metadataID(fields, "creator_id")
	m.GameID = metadataID(fields, "game_id")
	return nil
}

func metadataID(fields map[string]json.RawMessage, key string) ID {
	raw, ok := fields[key]
	if !ok {
		return 0
	}
	var id ID
	if err := id.UnmarshalJSON(raw); err != nil {
		utils.Log.Warn().Err(err).Str("field", key).Msg("invalid metadata id ignored")
		return 0
	}
	return id
}

// Transaction is the part of a gateway event the reconciler acts on
type Transaction struct {
	ID            string   `json:"id"`
	Status        string   `json:"status"`
	Reference     string   `json:"reference"`
	AmountInCents int64    `json:"amount_in_cents"`
	Data          Metadata `json:"data"`
}

// UnmarshalJSON only requires an object. Fields of the wrong type are left
// empty so that the status and reference can still be acted on.
func (t *Transaction) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID            json.RawMessage `json:"id"`
		Status        json.RawMessage `json:"status"`
		Reference     json.RawMessage `json:"reference"`
		AmountInCents json.RawMessage `json:"amount_in_cents"`
		Data          Metadata        `json:"data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	*t = Transaction{
		ID:        scalarText(raw.ID),
		Status:    scalarText(raw.Status),
		Reference: scalarText(raw.Reference),
		Data:      raw.Data,
	}
	t.AmountInCents = parseCents(raw.AmountInCents, t.Reference)
	return nil
}

var maxCents = decimal.NewFromInt(math.MaxInt64)

// parseCents accepts 500000, 500000.0 or "500000". Anything else is 0.
func parseCents(raw json.RawMessage, reference string) int64 {
	text := scalarText(raw)
	if text == "" {
		return 0
	}
	cents, err := decimal.NewFromString(text)
	if err == nil {
		cents = cents.Round(0)
	}
	if err != nil || cents.Abs().GreaterThan(maxCents) {
		utils.Log.Warn().Str("reference", reference).Str("amount_in_cents", text).Msg("invalid amount_in_cents ignored")
		return 0
	}
	return cents.IntPart()
}

// scalarText returns a JSON string or number as text and "" for anything else
func scalarText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	}
	return ""
}

type EventSignature struct {
	Properties []string `json:"properties"`
	Checksum   string   `json:"checksum"`
}

type EventData struct {
	Transaction Transaction `json:"transaction"`
}

// Event is a Wompi webhook body
type Event struct {
	Event       string         `json:"event"`
	Data        EventData      `json:"data"`
	Signature   EventSignature `json:"signature"`
	Timestamp   json.Number    `json:"timestamp"`
	Environment string         `json:"environment"`
}

// ParseEvent decodes a webhook body. It fails only when the body, data or
// data.transaction is not a JSON object; an unreadable signature is left
// empty and fails verification.
func ParseEvent(raw []byte) (*Event, error) {
	var body struct {
		Event       json.RawMessage `json:"event"`
		Data        EventData       `json:"data"`
		Signature   json.RawMessage `json:"signature"`
		Timestamp   json.RawMessage `json:"timestamp"`
		Environment json.RawMessage `json:"environment"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, err
	}

	ev := &Event{
		Event:       scalarText(body.Event),
		Data:        body.Data,
		Timestamp:   json.Number(scalarText(body.Timestamp)),
		Environment: scalarText(body.Environment),
	}
	if len(body.Signature) > 0 {
		if err := json.Unmarshal(body.Signature, &ev.Signature); err != nil {
			ev.Signature = EventSignature{}
		}
	}
	return ev, nil
}

// VerifyChecksum checks signature.checksum: SHA-256 of the values named by
// signature.properties (looked up under data), then timestamp, then secret.
func VerifyChecksum(raw []byte, ev *Event, secret string) bool {
	if ev.Signature.Checksum == "" || len(ev.Signature.Properties) == 0 {
		return false
	}
	expected, err := EventChecksum(raw, ev.Signature.Properties, ev.Timestamp.String(), secret)
	if err != nil {
		return false
	}
	got := strings.ToLower(ev.Signature.Checksum)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(got)) == 1
}

// EventChecksum computes the lowercase hex checksum for properties of raw
func EventChecksum(raw []byte, properties []string, timestamp, secret string) (string, error) {
	var body struct {
		Data map[string]any `json:"data"`
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, prop := range properties {
		v, ok := lookup(body.Data, prop)
		if !ok {
			return "", fmt.Errorf("property %q not found", prop)
		}
		sb.WriteString(v)
	}
	sb.WriteString(timestamp)
	sb.WriteString(secret)

	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:]), nil
}

func lookup(node map[string]any, path string) (string, bool) {
	parts := strings.Split(path, ".")
	var cur any = node
	for _, p := range parts {
		m, ok := cur.(map[string]any)
		if !ok {
			return "", false
		}
		if cur, ok = m[p]; !ok {
			return "", false
		}
	}
	switch v := cur.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	case nil:
		return "", true
	default:
		return fmt.Sprint(v), true
	}
}
