package payments

import (
	"context"
	"errors"

	"levelup/database"
	"levelup/models"
	"levelup/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Outcome describes what a gateway event did to the donation table
type Outcome string

const (
	OutcomeApproved         Outcome = "approved"
	OutcomeAlreadyProcessed Outcome = "already_processed"
	OutcomeCreatedUnmatched Outcome = "created_unmatched"
	OutcomeDroppedUnmatched Outcome = "dropped_unmatched"
	OutcomeStatusUpdated    Outcome = "status_updated"
	OutcomeIgnored          Outcome = "ignored"
	OutcomeMalformed        Outcome = "malformed"
	OutcomeRejected         Outcome = "invalid_signature"
	OutcomeFailed           Outcome = "failed"
)

// HandleEvent processes one webhook delivery. Deliveries may repeat or
// arrive concurrently; applying the same (reference, status) twice changes
// nothing after the first time. Only database failures are returned, plus
// ErrInvalidSignature when event verification is enabled and fails.
func (s *Service) HandleEvent(ctx context.Context, raw []byte) (Outcome, error) {
	ev, err := ParseEvent(raw)
	if err != nil {
		utils.Log.Warn().Err(err).Msg("malformed gateway event ignored")
		s.record(ctx, nil, raw, false, OutcomeMalformed)
		return OutcomeMalformed, nil
	}

	txn := ev.Data.Transaction
	signed := false
	if s.Config.WompiEventsKey != "" {
		if !VerifyChecksum(raw, ev, s.Config.WompiEventsKey) {
			utils.Log.Warn().Str("reference", txn.Reference).Msg("gateway event with invalid checksum rejected")
			s.record(ctx, ev, raw, false, OutcomeRejected)
			return OutcomeRejected, ErrInvalidSignature
		}
		signed = true
	}

	outcome, err := s.Reconcile(ctx, txn)
	if err != nil {
		outcome = OutcomeFailed
	}
	s.record(ctx, ev, raw, signed, outcome)
	return outcome, err
}

// Reconcile applies a gateway transaction status to the donation with the
// same reference.
func (s *Service) Reconcile(ctx context.Context, txn Transaction) (Outcome, error) {
	if txn.Reference == "" {
		utils.Log.Warn().Str("status", txn.Status).Msg("gateway event without reference ignored")
		return OutcomeIgnored, nil
	}

	switch models.DonationStatus(txn.Status) {
	case models.DonationApproved:
		return s.approve(ctx, txn)
	case models.DonationDeclined, models.DonationVoided, models.DonationError:
		return s.fail(ctx, txn)
	default:
		utils.Log.Debug().Str("reference", txn.Reference).Str("status", txn.Status).Msg("non final status ignored")
		return OutcomeIgnored, nil
	}
}

func (s *Service) approve(ctx context.Context, txn Transaction) (Outcome, error) {
	db := s.DB.WithContext(ctx)

	// second pass only runs when a concurrent delivery inserted the row first
	for attempt := 0; attempt < 2; attempt++ {
		var donation models.Donation
		err := db.Where("transaction_ref = ?", txn.Reference).First(&donation).Error
		if err == nil {
			return s.approveExisting(ctx, &donation, txn)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return OutcomeFailed, persistenceError("failed to load donation", err)
		}

		outcome, err := s.createFromEvent(ctx, txn)
		if err == nil || !errors.Is(err, errConcurrentInsert) {
			return outcome, err
		}
	}
	return OutcomeAlreadyProcessed, nil
}

func (s *Service) approveExisting(ctx context.Context, donation *models.Donation, txn Transaction) (Outcome, error) {
	if donation.Status == models.DonationApproved {
		return OutcomeAlreadyProcessed, nil
	}

	if txn.AmountInCents != 0 && txn.AmountInCents != AmountInCents(donation.Amount) {
		utils.Log.Warn().
			Str("reference", txn.Reference).
			Int64("event_amount_in_cents", txn.AmountInCents).
			Int64("stored_amount_in_cents", AmountInCents(donation.Amount)).
			Msg("approved amount differs from intent, keeping stored amount")
	}

	res := s.DB.WithContext(ctx).Model(&models.Donation{}).
		Where("id = ? AND status <> ?", donation.ID, models.DonationApproved).
		Updates(map[string]interface{}{
			"status":                 models.DonationApproved,
			"gateway_transaction_id": txn.ID,
		})
	if res.Error != nil {
		return OutcomeFailed, persistenceError("failed to approve donation", res.Error)
	}
	if res.RowsAffected == 0 {
		return OutcomeAlreadyProcessed, nil
	}

	utils.Log.Info().Uint("donation_id", donation.ID).Str("reference", txn.Reference).Msg("donation approved")
	donation.Status = models.DonationApproved
	s.notifyCreator(ctx, donation)
	return OutcomeApproved, nil
}

var errConcurrentInsert = errors.New("donation inserted concurrently")

// createFromEvent records an approval whose reference has no row. This is
// an anomaly: intents always insert before redirecting.
func (s *Service) createFromEvent(ctx context.Context, txn Transaction) (Outcome, error) {
	logEvt := utils.Log.Warn().
		Str("reference", txn.Reference).
		Str("transaction_id", txn.ID).
		Int64("amount_in_cents", txn.AmountInCents).
		Uint("creator_id", uint(txn.Data.CreatorID))

	if txn.Data.CreatorID == 0 || txn.AmountInCents <= 0 {
		utils.UnmatchedApprovals.Inc()
		logEvt.Msg("approved transaction without matching donation and without usable metadata, dropped")
		return OutcomeDroppedUnmatched, nil
	}

	db := s.DB.WithContext(ctx)

	var creator models.User
	if err := db.First(&creator, uint(txn.Data.CreatorID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.UnmatchedApprovals.Inc()
			logEvt.Msg("approved transaction for unknown creator, dropped")
			return OutcomeDroppedUnmatched, nil
		}
		return OutcomeFailed, persistenceError("failed to load creator", err)
	}

	donation := models.Donation{
		Amount:               AmountFromCents(txn.AmountInCents),
		DonorID:              s.existingID(ctx, &models.User{}, txn.Data.DonorID),
		CreatorID:            creator.ID,
		GameID:               s.existingID(ctx, &models.Game{}, txn.Data.GameID),
		TransactionRef:       txn.Reference,
		Status:               models.DonationApproved,
		GatewayTransactionID: txn.ID,
	}
	if err := db.Create(&donation).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return OutcomeAlreadyProcessed, errConcurrentInsert
		}
		return OutcomeFailed, persistenceError("failed to save donation", err)
	}

	utils.UnmatchedApprovals.Inc()
	logEvt.Uint("donation_id", donation.ID).Msg("approved transaction without matching donation, created from event metadata")
	s.notifyCreator(ctx, &donation)
	return OutcomeCreatedUnmatched, nil
}

// fail moves a PENDING donation to the reported terminal status. Rows that
// are missing or already final are left alone.
func (s *Service) fail(ctx context.Context, txn Transaction) (Outcome, error) {
	res := s.DB.WithContext(ctx).Model(&models.Donation{}).
		Where("transaction_ref = ? AND status = ?", txn.Reference, models.DonationPending).
		Updates(map[string]interface{}{
			"status":                 models.DonationStatus(txn.Status),
			"gateway_transaction_id": txn.ID,
		})
	if res.Error != nil {
		return OutcomeFailed, persistenceError("failed to update donation", res.Error)
	}
	if res.RowsAffected == 0 {
		utils.Log.Info().Str("reference", txn.Reference).Str("status", txn.Status).Msg("no pending donation for failed transaction")
		return OutcomeIgnored, nil
	}

	utils.Log.Info().Str("reference", txn.Reference).Str("status", txn.Status).Msg("donation closed")
	return OutcomeStatusUpdated, nil
}

// existingID returns id when a row of model with that id exists
func (s *Service) existingID(ctx context.Context, model interface{}, id ID) *uint {
	if id == 0 {
		return nil
	}
	var count int64
	if err := s.DB.WithContext(ctx).Model(model).Where("id = ?", uint(id)).Count(&count).Error; err != nil || count == 0 {
		return nil
	}
	return id.Ptr()
}

func (s *Service) notifyCreator(ctx context.Context, donation *models.Donation) {
	if s.Mailer == nil {
		return
	}
	var creator models.User
	if err := s.DB.WithContext(ctx).First(&creator, donation.CreatorID).Error; err != nil {
		utils.Log.Error().Err(err).Uint("creator_id", donation.CreatorID).Msg("creator lookup for donation email failed")
		return
	}
	utils.SendDonationReceivedEmail(s.Mailer, creator.Email, creator.Username, donation.Amount, donation.TransactionRef)
}

// record stores the delivery for audit. Failures are only logged.
func (s *Service) record(ctx context.Context, ev *Event, raw []byte, signed bool, outcome Outcome) {
	row := models.GatewayEvent{SignatureValid: signed, Outcome: string(outcome)}
	status := "unknown"
	if ev != nil {
		row.Event = ev.Event
		row.Reference = ev.Data.Transaction.Reference
		row.Status = ev.Data.Transaction.Status
		row.TransactionID = ev.Data.Transaction.ID
		row.Payload = datatypes.JSON(raw)
		status = statusLabel(ev.Data.Transaction.Status)
	}
	utils.GatewayEvents.WithLabelValues(status, string(outcome)).Inc()

	if err := s.DB.WithContext(ctx).Create(&row).Error; err != nil {
		utils.Log.Error().Err(err).Str("reference", row.Reference).Msg("failed to store gateway event")
	}
}

// statusLabel bounds the metric label to the known statuses
func statusLabel(status string) string {
	st := models.DonationStatus(status)
	if st == models.DonationPending || st.Final() {
		return status
	}
	return "other"
}
