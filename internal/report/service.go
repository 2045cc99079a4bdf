package report

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/frahmantamala/gearguard/internal/maintenance"
)

type RepositoryAPI interface {
	Counts(ctx context.Context, monthStart, monthEnd, now time.Time) (Counts, error)
	ByTeam(ctx context.Context) ([]TeamStat, error)
	RequestPoints(ctx context.Context) ([]RequestPoint, error)
	AdminStats(ctx context.Context) (AdminStats, error)
}

// Service recomputes every report from the live tables on each call.
type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock swaps the time source used for month windows and overdue checks.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	counts, err := s.repo.Counts(ctx, monthStart, monthStart.AddDate(0, 1, 0), now)
	if err != nil {
		s.logger.Error("failed to count requests", "error", err)
		return nil, err
	}

	points, err := s.repo.RequestPoints(ctx)
	if err != nil {
		s.logger.Error("failed to load request timings", "error", err)
		return nil, err
	}

	return &Summary{
		RequestsThisMonth:  counts.ThisMonth,
		TotalRequests:      counts.Total,
		CompletedRequests:  counts.Completed,
		CompletionRate:     int(math.Round(percent(counts.Completed, counts.Total))),
		OverdueRequests:    counts.Overdue,
		AvgCompletionHours: averageHours(points),
	}, nil
}

func (s *Service) ByTeam(ctx context.Context) ([]TeamStat, error) {
	stats, err := s.repo.ByTeam(ctx)
	if err != nil {
		s.logger.Error("failed to group requests by team", "error", err)
		return nil, err
	}

	for i := range stats {
		stats[i].CompletionRate = percent(stats[i].CompletedRequests, stats[i].TotalRequests)
	}
	if stats == nil {
		stats = []TeamStat{}
	}
	return stats, nil
}

func (s *Service) Monthly(ctx context.Context) ([]MonthlyStat, error) {
	points, err := s.repo.RequestPoints(ctx)
	if err != nil {
		s.logger.Error("failed to load request timings", "error", err)
		return nil, err
	}
	return monthly(points, maintenance.StageRepaired), nil
}

func (s *Service) AdminStats(ctx context.Context) (*AdminStats, error) {
	stats, err := s.repo.AdminStats(ctx)
	if err != nil {
		s.logger.Error("failed to count admin stats", "error", err)
		return nil, err
	}
	return &stats, nil
}

// Export renders the summary, team and monthly reports as one workbook.
func (s *Service) Export(ctx context.Context) (*bytes.Buffer, error) {
	summary, err := s.Summary(ctx)
	if err != nil {
		return nil, err
	}
	teams, err := s.ByTeam(ctx)
	if err != nil {
		return nil, err
	}
	months, err := s.Monthly(ctx)
	if err != nil {
		return nil, err
	}

	buf, err := writeWorkbook(summary, teams, months)
	if err != nil {
		s.logger.Error("failed to build report workbook", "error", err)
		return nil, err
	}
	return buf, nil
}

// ExportFilename names the workbook after the current date.
func (s *Service) ExportFilename() string {
	return "gearguard-report-" + s.now().UTC().Format(time.DateOnly) + ".xlsx"
}
