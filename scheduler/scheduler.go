package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"taskboard/services"
)

// Auditor is satisfied by *services.InvitationAuditor.
type Auditor interface {
	Sweep(ctx context.Context) (services.AuditReport, error)
}

// Start schedules the invitation audit on a six-field (seconds first) cron
// spec and starts the runner. Overlapping runs are skipped.
func Start(spec string, auditor Auditor, log *slog.Logger) (*cron.Cron, error) {
	c := cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(spec, func() { RunAudit(context.Background(), auditor, log) }); err != nil {
		return nil, fmt.Errorf("schedule invitation audit %q: %w", spec, err)
	}
	c.Start()
	log.Info("scheduler started", "spec", spec)
	return c, nil
}

// RunAudit performs a single sweep and logs its outcome.
func RunAudit(ctx context.Context, auditor Auditor, log *slog.Logger) {
	report, err := auditor.Sweep(ctx)
	if err != nil {
		log.Error("invitation audit failed", "error", err)
		return
	}
	if report.RemovedGrants > 0 || report.UngrantedPending > 0 {
		log.Warn("invitation audit repaired state",
			"orphan_grants", report.OrphanGrants,
			"removed_grants", report.RemovedGrants,
			"ungranted_pending", report.UngrantedPending)
		return
	}
	log.Debug("invitation audit clean")
}
