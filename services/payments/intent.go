package payments

import (
	"context"
	"errors"
	"strings"

	"levelup/config"
	"levelup/database"
	"levelup/models"
	"levelup/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service runs the donation flow against one database
type Service struct {
	DB     *gorm.DB
	Config *config.Config
	Mailer utils.Mailer // optional, notifies creators of approved donations
}

func NewService(db *gorm.DB, cfg *config.Config, mailer utils.Mailer) *Service {
	return &Service{DB: db, Config: cfg, Mailer: mailer}
}

// IntentRequest is the donor's input. Amount is kept raw so that both form
// and JSON callers share one parser.
type IntentRequest struct {
	CreatorID uint
	GameID    *uint
	Amount    string
}

type CheckoutSignature struct {
	Integrity string `json:"integrity"`
}

type CustomerData struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

type CheckoutMetadata struct {
	DonorID   uint  `json:"donor_id"`
	CreatorID uint  `json:"creator_id"`
	GameID    *uint `json:"game_id"`
}

// Checkout holds the widget parameters for a signed donation intent
type Checkout struct {
	Currency      string            `json:"currency"`
	AmountInCents int64             `json:"amountInCents"`
	Reference     string            `json:"reference"`
	PublicKey     string            `json:"publicKey"`
	Signature     CheckoutSignature `json:"signature"`
	RedirectURL   string            `json:"redirectUrl"`
	CustomerData  CustomerData      `json:"customerData"`
	Data          CheckoutMetadata  `json:"data"`

	DonationID uint            `json:"-"`
	Amount     decimal.Decimal `json:"-"`
}

// CreateIntent validates the request, stores a PENDING donation and signs
// the checkout. Nothing is persisted when an error is returned.
func (s *Service) CreateIntent(ctx context.Context, donorID uint, req IntentRequest) (*Checkout, error) {
	checkout, err := s.createIntent(ctx, donorID, req)
	outcome := "created"
	if err != nil {
		outcome = string(KindOf(err))
	}
	utils.DonationIntents.WithLabelValues(outcome).Inc()
	return checkout, err
}

func (s *Service) createIntent(ctx context.Context, donorID uint, req IntentRequest) (*Checkout, error) {
	cfg := s.Config

	if req.CreatorID == 0 || strings.TrimSpace(req.Amount) == "" {
		return nil, validationError("Faltan datos: creator_id o amount")
	}
	if donorID == 0 {
		return nil, ErrNotAuthenticated
	}

	amount, err := ParseAmount(req.Amount)
	if err != nil {
		return nil, validationError("%s", err.Error())
	}
	if amount.LessThan(decimal.NewFromInt(int64(cfg.MinDonation))) {
		return nil, validationError("El monto mínimo de donación es %d %s", cfg.MinDonation, cfg.WompiCurrency)
	}

	if !cfg.GatewayConfigured() {
		return nil, ErrGatewayConfig
	}

	db := s.DB.WithContext(ctx)

	var donor models.User
	if err := db.First(&donor, donorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, persistenceError("failed to load donor", err)
	}

	var creator models.User
	if err := db.Where("id = ? AND role = ?", req.CreatorID, models.RoleCreator).First(&creator).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationError("El creador %d no existe", req.CreatorID)
		}
		return nil, persistenceError("failed to load creator", err)
	}

	if req.GameID != nil {
		if err := db.First(&models.Game{}, *req.GameID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, validationError("El juego %d no existe", *req.GameID)
			}
			return nil, persistenceError("failed to load game", err)
		}
	}

	cents := AmountInCents(amount)
	reference := NewReference(donor.ID, creator.ID)

	tx := db.Begin()
	if tx.Error != nil {
		return nil, persistenceError("failed to start transaction", tx.Error)
	}

	donation := models.Donation{
		Amount:         amount,
		DonorID:        &donor.ID,
		CreatorID:      creator.ID,
		GameID:         req.GameID,
		TransactionRef: reference,
		Status:         models.DonationPending,
	}
	if err := tx.Create(&donation).Error; err != nil {
		tx.Rollback()
		if database.IsDuplicateKey(err) {
			return nil, &Error{Kind: KindDuplicateReference, Msg: "reference already exists", Err: err}
		}
		return nil, persistenceError("failed to save donation", err)
	}

	checkout := &Checkout{
		Currency:      cfg.WompiCurrency,
		AmountInCents: cents,
		Reference:     reference,
		PublicKey:     cfg.WompiPublicKey,
		Signature:     CheckoutSignature{Integrity: IntegritySignature(reference, cents, cfg.WompiCurrency, cfg.WompiIntegrityKey)},
		RedirectURL:   cfg.WompiRedirectURL,
		CustomerData:  CustomerData{Email: donor.Email, FullName: donor.Username},
		Data:          CheckoutMetadata{DonorID: donor.ID, CreatorID: creator.ID, GameID: req.GameID},
		DonationID:    donation.ID,
		Amount:        amount,
	}

	if err := tx.Commit().Error; err != nil {
		return nil, persistenceError("failed to commit donation", err)
	}

	utils.Log.Info().
		Uint("donation_id", donation.ID).
		Str("reference", reference).
		Int64("amount_in_cents", cents).
		Msg("donation intent created")

	return checkout, nil
}

type FormField struct {
	Name  string
	Value string
}

// FormFields lists the Wompi web checkout inputs for an auto-submitted form
func (c *Checkout) FormFields() []FormField {
	fields := []FormField{
		{"public-key", c.PublicKey},
		{"currency", c.Currency},
		{"amount-in-cents", decimal.NewFromInt(c.AmountInCents).String()},
		{"reference", c.Reference},
		{"signature:integrity", c.Signature.Integrity},
	}
	if c.RedirectURL != "" {
		fields = append(fields, FormField{"redirect-url", c.RedirectURL})
	}
	if c.CustomerData.Email != "" {
		fields = append(fields, FormField{"customer-data:email", c.CustomerData.Email})
	}
	if c.CustomerData.FullName != "" {
		fields = append(fields, FormField{"customer-data:full-name", c.CustomerData.FullName})
	}
	return fields
}
