package postgres

import (
	"context"
	"time"

	"github.com/frahmantamala/gearguard/internal/maintenance"
	"github.com/frahmantamala/gearguard/internal/report"
	"github.com/frahmantamala/gearguard/internal/user"
	"github.com/jmoiron/sqlx"
)

// ReportRepository runs the read-only aggregate queries. Queries are written
// with ? placeholders and rebound for the driver.
type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

const countsQuery = `
SELECT
	COUNT(*) AS total,
	COALESCE(SUM(CASE WHEN stage = ? THEN 1 ELSE 0 END), 0) AS completed,
	COALESCE(SUM(CASE WHEN created_at >= ? AND created_at < ? THEN 1 ELSE 0 END), 0) AS this_month,
	COALESCE(SUM(CASE WHEN stage NOT IN (?, ?) AND scheduled_date < ? THEN 1 ELSE 0 END), 0) AS overdue
FROM maintenance_requests`

func (r *ReportRepository) Counts(ctx context.Context, monthStart, monthEnd, now time.Time) (report.Counts, error) {
	var counts report.Counts
	err := r.db.GetContext(ctx, &counts, r.db.Rebind(countsQuery),
		maintenance.StageRepaired,
		monthStart, monthEnd,
		maintenance.StageRepaired, maintenance.StageScrap, now,
	)
	return counts, err
}

const byTeamQuery = `
SELECT
	COALESCE(t.name, ?) AS team_name,
	COUNT(*) AS total,
	COALESCE(SUM(CASE WHEN r.stage = ? THEN 1 ELSE 0 END), 0) AS completed,
	COALESCE(SUM(CASE WHEN r.stage = ? THEN 1 ELSE 0 END), 0) AS in_progress
FROM maintenance_requests r
LEFT JOIN teams t ON t.id = r.team_id
GROUP BY t.name
ORDER BY team_name`

// ByTeam groups on the joined name, so every request without a live team
// lands in one row.
func (r *ReportRepository) ByTeam(ctx context.Context) ([]report.TeamStat, error) {
	var stats []report.TeamStat
	err := r.db.SelectContext(ctx, &stats, r.db.Rebind(byTeamQuery),
		report.UnassignedTeam,
		maintenance.StageRepaired,
		maintenance.StageInProgress,
	)
	return stats, err
}

func (r *ReportRepository) RequestPoints(ctx context.Context) ([]report.RequestPoint, error) {
	var points []report.RequestPoint
	err := r.db.SelectContext(ctx, &points, `SELECT stage, created_at, completed_date FROM maintenance_requests`)
	return points, err
}

const adminStatsQuery = `
SELECT
	(SELECT COUNT(*) FROM users) AS total_users,
	(SELECT COUNT(*) FROM equipment) AS total_equipment,
	(SELECT COUNT(*) FROM maintenance_requests WHERE stage IN (?, ?)) AS open_requests,
	(SELECT COUNT(*) FROM users WHERE role = ? AND status = ?) AS active_technicians`

func (r *ReportRepository) AdminStats(ctx context.Context) (report.AdminStats, error) {
	var stats report.AdminStats
	err := r.db.GetContext(ctx, &stats, r.db.Rebind(adminStatsQuery),
		maintenance.StageNew, maintenance.StageInProgress,
		user.RoleTechnician, user.StatusActive,
	)
	return stats, err
}
