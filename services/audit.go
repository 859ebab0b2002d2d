package services

import (
	"context"
	"fmt"
	"log/slog"
)

// AuditReport summarises one integrity sweep.
type AuditReport struct {
	OrphanGrants     int
	RemovedGrants    int
	UngrantedPending int
}

// InvitationAuditor repairs grants left behind without a PENDING row and
// reports PENDING rows that lost their grant. Consistent pairs are never
// touched.
type InvitationAuditor struct {
	store GrantAuditStore
	log   *slog.Logger
}

func NewInvitationAuditor(store GrantAuditStore, log *slog.Logger) *InvitationAuditor {
	return &InvitationAuditor{store: store, log: log}
}

func (a *InvitationAuditor) Sweep(ctx context.Context) (AuditReport, error) {
	var report AuditReport
	orphans, err := a.store.OrphanGrants(ctx)
	if err != nil {
		return report, fmt.Errorf("find orphan grants: %w", err)
	}
	report.OrphanGrants = len(orphans)
	for _, g := range orphans {
		// The row may have turned PENDING again since the scan.
		removed, err := a.store.DeleteOrphanGrant(ctx, g.BoardID, g.UserID)
		if err != nil {
			return report, fmt.Errorf("delete orphan grant: %w", err)
		}
		if removed {
			report.RemovedGrants++
			a.log.Info("removed orphan pending grant", "board_id", g.BoardID, "user_id", g.UserID)
		}
	}

	ungranted, err := a.store.UngrantedPending(ctx)
	if err != nil {
		return report, fmt.Errorf("find ungranted invitations: %w", err)
	}
	report.UngrantedPending = len(ungranted)
	for _, c := range ungranted {
		a.log.Warn("pending invitation has no grant", "board_id", c.BoardID, "user_id", c.UserID)
	}
	return report, nil
}
