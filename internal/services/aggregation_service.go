package services

import (
	"context"
	"math"
	"sort"
	"time"

	"trainer_dashboard/internal/apperr"
	"trainer_dashboard/internal/cache"
	"trainer_dashboard/internal/daterange"
	"trainer_dashboard/internal/logger"
	"trainer_dashboard/internal/performance"
	"trainer_dashboard/internal/repository"
)

const (
	defaultTrendDays = 30
	topPerformersMax = 5
)

type TrainerPerformance struct {
	ID        uint               `json:"id"`
	Name      string             `json:"name"`
	JSID      string             `json:"js_id"`
	Hours     float64            `json:"hours"`
	Status    performance.Status `json:"status"`
	IsHalfDay bool               `json:"isHalfDay"`
}

type TeamPerformance struct {
	Performance performance.Counts   `json:"performance"`
	Trainers    []TrainerPerformance `json:"trainers"`
}

type ReportTask struct {
	repository.ReportRow
	DailyHours float64 `json:"daily_hours"`
}

type ReportStats struct {
	TotalHours     float64 `json:"totalHours"`
	TotalTasks     int     `json:"totalTasks"`
	AvgHoursPerDay float64 `json:"avgHoursPerDay"`
}

type TrainerReport struct {
	Tasks []ReportTask    `json:"tasks"`
	Stats ReportStats     `json:"stats"`
	Range daterange.Range `json:"range"`
}

// AggregationService answers the dashboard's read queries. Methods taking now
// expect it in the caller's zone.
type AggregationService interface {
	DailyHoursForUser(ctx context.Context, userID uint, date string) (float64, error)
	// DailyStatusForUser classifies one user's ledger-credited day.
	DailyStatusForUser(ctx context.Context, userID uint, date string) (performance.Status, error)
	TeamPerformance(ctx context.Context, date string) (*TeamPerformance, error)
	TeamTrends(ctx context.Context, days *int, now time.Time) ([]repository.TrendRow, error)
	TopPerformers(ctx context.Context, period string, now time.Time) ([]repository.OwnerTotalRow, error)
	TrainerReport(ctx context.Context, trainerID uint, kind, start, end string, now time.Time) (*TrainerReport, error)
}

type aggregationService struct {
	aggRepo  repository.AggregateRepository
	userRepo repository.UserRepository
	cache    cache.Cache
	ttl      time.Duration
	logger   logger.Interface
}

func NewAggregationService(
	aggRepo repository.AggregateRepository,
	userRepo repository.UserRepository,
	c cache.Cache,
	ttl time.Duration,
	log logger.Interface,
) AggregationService {
	return &aggregationService{aggRepo: aggRepo, userRepo: userRepo, cache: c, ttl: ttl, logger: log}
}

func (s *aggregationService) DailyHoursForUser(ctx context.Context, userID uint, date string) (float64, error) {
	if err := daterange.Validate(date); err != nil {
		return 0, apperr.Validation("%s", err.Error())
	}
	total, err := s.aggRepo.LedgerHoursForUser(ctx, userID, date)
	if err != nil {
		return 0, storeErr(err, "Task")
	}
	return total, nil
}

func (s *aggregationService) DailyStatusForUser(ctx context.Context, userID uint, date string) (performance.Status, error) {
	if err := daterange.Validate(date); err != nil {
		return "", apperr.Validation("%s", err.Error())
	}
	rows, err := s.aggRepo.LedgerRowsForUser(ctx, userID, daterange.Range{From: date, To: date})
	if err != nil {
		return "", storeErr(err, "Task")
	}
	entries := make([]performance.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, performance.Entry{TaskType: row.TaskType, Hours: row.Hours})
	}
	return performance.Classify(performance.DayFromTasks(entries)), nil
}

func (s *aggregationService) TeamPerformance(ctx context.Context, date string) (*TeamPerformance, error) {
	if err := daterange.Validate(date); err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}

	var result TeamPerformance
	err := s.cached(ctx, &result, func() error {
		rows, err := s.aggRepo.LedgerTrainerDays(ctx, date)
		if err != nil {
			return storeErr(err, "Task")
		}
		result = buildTeamPerformance(rows)
		return nil
	}, "team-performance", date)
	if err != nil {
		return nil, err
	}
	if result.Trainers == nil {
		result.Trainers = []TrainerPerformance{}
	}
	return &result, nil
}

func buildTeamPerformance(rows []repository.TrainerDayRow) TeamPerformance {
	result := TeamPerformance{Trainers: make([]TrainerPerformance, 0, len(rows))}
	for _, row := range rows {
		var hours *float64
		if row.TotalHours.Valid {
			hours = &row.TotalHours.Float64
		}
		day := performance.Day{
			Hours:     performance.HoursOrZero(hours),
			IsLeave:   row.IsLeave != 0,
			IsHoliday: row.IsHoliday != 0,
			IsHalfDay: row.IsHalfDay != 0,
		}
		status := performance.Classify(day)
		result.Performance.Add(status)
		result.Trainers = append(result.Trainers, TrainerPerformance{
			ID:        row.ID,
			Name:      row.Name,
			JSID:      row.JSID,
			Hours:     day.Hours,
			Status:    status,
			IsHalfDay: day.IsHalfDay,
		})
	}
	return result
}

func (s *aggregationService) TeamTrends(ctx context.Context, days *int, now time.Time) ([]repository.TrendRow, error) {
	window := defaultTrendDays
	if days != nil {
		window = *days
	}
	if window < 0 {
		return nil, apperr.Validation("days must be at least 0")
	}
	from := daterange.DaysAgo(now, window)

	var trends []repository.TrendRow
	err := s.cached(ctx, &trends, func() error {
		rows, err := s.aggRepo.TaskHoursTrend(ctx, from)
		if err != nil {
			return storeErr(err, "Task")
		}
		trends = rows
		return nil
	}, "team-trends", from)
	if err != nil {
		return nil, err
	}
	if trends == nil {
		trends = []repository.TrendRow{}
	}
	return trends, nil
}

func (s *aggregationService) TopPerformers(ctx context.Context, period string, now time.Time) ([]repository.OwnerTotalRow, error) {
	days := 30
	if period == daterange.KindWeek {
		days = 7
	}
	from := daterange.DaysAgo(now, days)

	var performers []repository.OwnerTotalRow
	err := s.cached(ctx, &performers, func() error {
		rows, err := s.aggRepo.TaskHoursByOwner(ctx, from)
		if err != nil {
			return storeErr(err, "Task")
		}
		performers = rankPerformers(rows)
		return nil
	}, "top-performers", from)
	if err != nil {
		return nil, err
	}
	if performers == nil {
		performers = []repository.OwnerTotalRow{}
	}
	return performers, nil
}

// rankPerformers rounds totals to one decimal and keeps the top five by
// rounded total, then name, then id.
func rankPerformers(rows []repository.OwnerTotalRow) []repository.OwnerTotalRow {
	for i := range rows {
		rows[i].TotalHours = roundTenth(rows[i].TotalHours)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TotalHours != rows[j].TotalHours {
			return rows[i].TotalHours > rows[j].TotalHours
		}
		if rows[i].Name != rows[j].Name {
			return rows[i].Name < rows[j].Name
		}
		return rows[i].ID < rows[j].ID
	})
	if len(rows) > topPerformersMax {
		rows = rows[:topPerformersMax]
	}
	return rows
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

func (s *aggregationService) TrainerReport(ctx context.Context, trainerID uint, kind, start, end string, now time.Time) (*TrainerReport, error) {
	if kind == "" {
		kind = daterange.KindWeek
	}
	dr, err := daterange.Resolve(kind, start, end, now)
	if err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}

	if _, err := s.userRepo.GetByID(ctx, trainerID); err != nil {
		return nil, storeErr(err, "Trainer")
	}

	rows, err := s.aggRepo.LedgerRowsForUser(ctx, trainerID, dr)
	if err != nil {
		return nil, storeErr(err, "Task")
	}

	report := buildReport(rows)
	report.Range = dr
	return report, nil
}

func buildReport(rows []repository.ReportRow) *TrainerReport {
	daily := make(map[string]float64)
	var total float64
	for _, row := range rows {
		daily[row.Date] += row.Hours
		total += row.Hours
	}

	tasks := make([]ReportTask, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, ReportTask{ReportRow: row, DailyHours: daily[row.Date]})
	}

	stats := ReportStats{TotalHours: total, TotalTasks: len(rows)}
	if len(daily) > 0 {
		stats.AvgHoursPerDay = total / float64(len(daily))
	}
	return &TrainerReport{Tasks: tasks, Stats: stats}
}

// cached serves dest from the aggregate cache when possible, otherwise runs
// load (which fills dest) and stores the result. Cache failures only log.
func (s *aggregationService) cached(ctx context.Context, dest interface{}, load func() error, parts ...interface{}) error {
	key := ""
	generation, err := s.cache.Generation(ctx)
	if err != nil {
		s.logger.Error("failed to read cache generation", err)
	} else {
		key = cache.Key(generation, parts...)
		found, err := s.cache.Get(ctx, key, dest)
		if err != nil {
			s.logger.Error("failed to read cache entry "+key, err)
		} else if found {
			s.logger.Debug("aggregate cache hit " + key)
			return nil
		}
	}

	if err := load(); err != nil {
		return err
	}
	s.logger.Debug("aggregate cache miss " + key)

	if key != "" {
		if err := s.cache.Set(ctx, key, dest, s.ttl); err != nil {
			s.logger.Error("failed to write cache entry "+key, err)
		}
	}
	return nil
}

// bumpGeneration invalidates every cached aggregate after a mutation.
func bumpGeneration(ctx context.Context, c cache.Cache, log logger.Interface) {
	if err := c.Bump(ctx); err != nil {
		log.Error("failed to bump cache generation", err)
	}
}
