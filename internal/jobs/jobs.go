package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"lpg-backend/internal/metrics"
	"lpg-backend/internal/models"
	"lpg-backend/internal/monitoring"
	"lpg-backend/internal/repositories"
	"lpg-backend/internal/services"

	"github.com/robfig/cron/v3"
)

// Runner owns the background schedules: the nightly reconciliation scan and
// the compensation outbox drain.
type Runner struct {
	cron           *cron.Cron
	tenants        *repositories.TenantRepository
	handovers      *repositories.HandoverRepository
	compensations  *repositories.CompensationRepository
	cylinders      *repositories.CylinderRepository
	reconciliation *services.ReconciliationService
	hub            *monitoring.Hub
	reconCronSpec  string
}

func NewRunner(
	tenants *repositories.TenantRepository,
	handovers *repositories.HandoverRepository,
	compensations *repositories.CompensationRepository,
	cylinders *repositories.CylinderRepository,
	reconciliation *services.ReconciliationService,
	hub *monitoring.Hub,
	reconCronSpec string,
) *Runner {
	return &Runner{
		cron:           cron.New(),
		tenants:        tenants,
		handovers:      handovers,
		compensations:  compensations,
		cylinders:      cylinders,
		reconciliation: reconciliation,
		hub:            hub,
		reconCronSpec:  reconCronSpec,
	}
}

// Start registers the schedules and kicks off the cron loop
func (r *Runner) Start() error {
	if _, err := r.cron.AddFunc(r.reconCronSpec, r.runReconciliationScan); err != nil {
		return fmt.Errorf("failed to schedule reconciliation scan: %w", err)
	}
	// Compensations should not wait for a nightly window
	if _, err := r.cron.AddFunc("@every 1m", r.drainCompensations); err != nil {
		return fmt.Errorf("failed to schedule compensation drain: %w", err)
	}
	if _, err := r.cron.AddFunc("@every 5m", r.refreshGauges); err != nil {
		return fmt.Errorf("failed to schedule gauge refresh: %w", err)
	}
	r.cron.Start()
	log.Printf("[Jobs] Scheduled reconciliation scan (%s), compensation drain (1m), gauge refresh (5m)", r.reconCronSpec)
	return nil
}

// Stop waits for running jobs to finish
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

// runReconciliationScan scans every active tenant and raises an alert when
// balances have drifted
func (r *Runner) runReconciliationScan() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	tenants, err := r.tenants.ListActive(ctx)
	if err != nil {
		log.Printf("[Jobs] Reconciliation scan: failed to list tenants: %v", err)
		return
	}

	for _, tenant := range tenants {
		report, err := r.reconciliation.Report(ctx, tenant.ID)
		if err != nil {
			log.Printf("[Jobs] Reconciliation scan failed for tenant %d: %v", tenant.ID, err)
			continue
		}
		if report.TotalDiscrepancies > 0 {
			msg := fmt.Sprintf("%s: %d of %d customer balances drifted from the ledger",
				tenant.Name, report.TotalDiscrepancies, report.TotalChecked)
			log.Printf("[Jobs] %s", msg)
			r.hub.Publish("warning", "reconciliation", msg)
		}
	}
}

// drainCompensations applies pending outbox rows. A row that keeps failing
// stays pending and is retried next cycle; the attempt counter and last error
// travel with it.
func (r *Runner) drainCompensations() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pending, err := r.compensations.ListPending(ctx, 50)
	if err != nil {
		log.Printf("[Jobs] Compensation drain: failed to list: %v", err)
		return
	}

	for _, comp := range pending {
		if err := r.applyCompensation(ctx, &comp); err != nil {
			log.Printf("[Jobs] Compensation %d (%s) failed, attempt %d: %v",
				comp.ID, comp.Kind, comp.Attempts+1, err)
			if ferr := r.compensations.RecordFailure(ctx, comp.ID, err.Error()); ferr != nil {
				log.Printf("[Jobs] Failed to record compensation failure: %v", ferr)
			}
			if comp.Attempts+1 >= 5 {
				r.hub.Publish("critical", "compensation",
					fmt.Sprintf("compensation %d (%s) failing repeatedly: %v", comp.ID, comp.Kind, err))
			}
			continue
		}
		if err := r.compensations.MarkDone(ctx, comp.ID); err != nil {
			log.Printf("[Jobs] Failed to mark compensation %d done: %v", comp.ID, err)
		}
	}
}

func (r *Runner) applyCompensation(ctx context.Context, comp *models.Compensation) error {
	switch comp.Kind {
	case "unlock_cylinders":
		var payload models.UnlockCylindersPayload
		if err := json.Unmarshal(comp.Payload, &payload); err != nil {
			return fmt.Errorf("bad payload: %w", err)
		}
		_, err := r.cylinders.UnlockSerials(ctx, comp.TenantID, payload.DriverID, payload.Serials)
		return err
	default:
		return fmt.Errorf("unknown compensation kind %q", comp.Kind)
	}
}

// refreshGauges keeps the Prometheus domain gauges current
func (r *Runner) refreshGauges() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if count, err := r.compensations.CountPending(ctx); err == nil {
		metrics.PendingCompensations.Set(float64(count))
	}

	tenants, err := r.tenants.ListActive(ctx)
	if err != nil {
		return
	}
	for _, tenant := range tenants {
		if count, err := r.handovers.CountPending(ctx, tenant.ID); err == nil {
			metrics.PendingHandovers.WithLabelValues(strconv.Itoa(tenant.ID)).Set(float64(count))
		}
	}
}
