package report

import (
	"math"
	"sort"
	"time"
)

// UnassignedTeam labels requests whose team no longer exists or was never set.
const UnassignedTeam = "Unassigned"

const monthsInTrend = 12

type Summary struct {
	RequestsThisMonth  int64   `json:"requestsThisMonth"`
	TotalRequests      int64   `json:"totalRequests"`
	CompletedRequests  int64   `json:"completedRequests"`
	CompletionRate     int     `json:"completionRate"`
	OverdueRequests    int64   `json:"overdueRequests"`
	AvgCompletionHours float64 `json:"avgCompletionHours"`
}

type TeamStat struct {
	TeamName           string  `json:"teamName" db:"team_name"`
	TotalRequests      int64   `json:"totalRequests" db:"total"`
	CompletedRequests  int64   `json:"completedRequests" db:"completed"`
	InProgressRequests int64   `json:"inProgressRequests" db:"in_progress"`
	CompletionRate     float64 `json:"completionRate" db:"-"`
}

type MonthlyStat struct {
	Year              int     `json:"year"`
	Month             int     `json:"month"`
	TotalRequests     int64   `json:"totalRequests"`
	CompletedRequests int64   `json:"completedRequests"`
	CompletionRate    float64 `json:"completionRate"`
}

// Label formats the bucket as YYYY-MM.
func (m MonthlyStat) Label() string {
	return time.Date(m.Year, time.Month(m.Month), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

type AdminStats struct {
	TotalUsers        int64 `json:"totalUsers" db:"total_users"`
	TotalEquipment    int64 `json:"totalEquipment" db:"total_equipment"`
	OpenRequests      int64 `json:"openRequests" db:"open_requests"`
	ActiveTechnicians int64 `json:"activeTechnicians" db:"active_technicians"`
}

// RequestPoint is the slice of a request the monthly and timing reports need.
type RequestPoint struct {
	Stage         string     `db:"stage"`
	CreatedAt     time.Time  `db:"created_at"`
	CompletedDate *time.Time `db:"completed_date"`
}

// Counts holds the scalar counters behind Summary.
type Counts struct {
	Total     int64 `db:"total"`
	Completed int64 `db:"completed"`
	ThisMonth int64 `db:"this_month"`
	Overdue   int64 `db:"overdue"`
}

// percent is completed/total as a percentage with one decimal, 0 for an
// empty total.
func percent(completed, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(completed)/float64(total)*1000) / 10
}

// averageHours is the mean of completed minus created over finished requests.
func averageHours(points []RequestPoint) float64 {
	var sum float64
	var n int
	for _, p := range points {
		if p.CompletedDate == nil {
			continue
		}
		sum += p.CompletedDate.Sub(p.CreatedAt).Hours()
		n++
	}
	if n == 0 {
		return 0
	}
	return math.Round(sum/float64(n)*10) / 10
}

// monthly buckets points by creation month in UTC and keeps the latest
// twelve buckets, oldest first.
func monthly(points []RequestPoint, completedStage string) []MonthlyStat {
	buckets := make(map[int]*MonthlyStat)
	for _, p := range points {
		created := p.CreatedAt.UTC()
		key := created.Year()*100 + int(created.Month())
		b, ok := buckets[key]
		if !ok {
			b = &MonthlyStat{Year: created.Year(), Month: int(created.Month())}
			buckets[key] = b
		}
		b.TotalRequests++
		if p.Stage == completedStage {
			b.CompletedRequests++
		}
	}

	keys := make([]int, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	if len(keys) > monthsInTrend {
		keys = keys[len(keys)-monthsInTrend:]
	}

	stats := make([]MonthlyStat, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		b.CompletionRate = percent(b.CompletedRequests, b.TotalRequests)
		stats = append(stats, *b)
	}
	return stats
}
