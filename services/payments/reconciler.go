package payments

import (
	"context"
	"time"

	"levelup/models"
	"levelup/utils"

	"github.com/robfig/cron/v3"
)

// TransactionLookup finds gateway transactions by merchant reference
type TransactionLookup interface {
	TransactionsByReference(ctx context.Context, reference string) ([]Transaction, error)
}

// Reconciler closes PENDING donations whose webhook never arrived by asking
// the gateway directly. It only updates existing rows.
type Reconciler struct {
	Service   *Service
	Gateway   TransactionLookup
	OlderThan time.Duration
	BatchSize int
	Now       func() time.Time
}

func NewReconciler(svc *Service, gateway TransactionLookup, olderThan time.Duration) *Reconciler {
	return &Reconciler{Service: svc, Gateway: gateway, OlderThan: olderThan, BatchSize: 100, Now: time.Now}
}

// Sweep checks stale pending donations and returns how many were closed
func (r *Reconciler) Sweep(ctx context.Context) (int, error) {
	start := time.Now()
	cutoff := r.Now().Add(-r.OlderThan)

	var pending []models.Donation
	if err := r.Service.DB.WithContext(ctx).
		Where("status = ? AND created_at < ?", models.DonationPending, cutoff).
		Order("created_at").
		Limit(r.BatchSize).
		Find(&pending).Error; err != nil {
		utils.ReconcileRuns.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return 0, persistenceError("failed to list pending donations", err)
	}

	closed := 0
	for _, d := range pending {
		txns, err := r.Gateway.TransactionsByReference(ctx, d.TransactionRef)
		if err != nil {
			utils.Log.Error().Err(err).Str("reference", d.TransactionRef).Msg("gateway lookup failed")
			continue
		}

		txn, ok := finalTransaction(txns)
		if !ok {
			continue
		}
		txn.Reference = d.TransactionRef

		outcome, err := r.Service.Reconcile(ctx, txn)
		if err != nil {
			utils.Log.Error().Err(err).Str("reference", d.TransactionRef).Msg("reconcile failed")
			continue
		}
		if outcome == OutcomeApproved || outcome == OutcomeStatusUpdated {
			closed++
		}
	}

	utils.ReconcileRuns.WithLabelValues("ok").Observe(time.Since(start).Seconds())
	utils.Log.Info().Int("checked", len(pending)).Int("closed", closed).Msg("pending donation sweep finished")
	return closed, nil
}

// finalTransaction prefers an approval over any failed attempt
func finalTransaction(txns []Transaction) (Transaction, bool) {
	var found Transaction
	ok := false
	for _, t := range txns {
		st := models.DonationStatus(t.Status)
		if st == models.DonationApproved {
			return t, true
		}
		if st.Final() && !ok {
			found, ok = t, true
		}
	}
	return found, ok
}

// Run is the cron entry point for one sweep
func (r *Reconciler) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	if _, err := r.Sweep(ctx); err != nil {
		utils.Log.Error().Err(err).Msg("pending donation sweep failed")
	}
}

// StartReconciler runs the reconciler on the cron schedule, skipping a tick
// while the previous sweep is still running. It returns nil when schedule
// is empty.
func StartReconciler(schedule string, r *Reconciler) (*cron.Cron, error) {
	if schedule == "" {
		return nil, nil
	}

	logger := cronLogger{}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	if _, err := c.AddJob(schedule, r); err != nil {
		return nil, err
	}

	c.Start()
	utils.Log.Info().Str("schedule", schedule).Msg("pending donation reconciler started")
	return c, nil
}

// cronLogger sends cron's own messages to zerolog
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	utils.Log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	utils.Log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
