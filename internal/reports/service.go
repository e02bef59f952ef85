package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// RepositoryPort defines the aggregate queries the service reads from.
type RepositoryPort interface {
	CollectionSummary(ctx context.Context, scope Scope) (*CollectionSummary, error)
	Defaulters(ctx context.Context, academicYearID int64, today time.Time) ([]Defaulter, error)
	ClassCollections(ctx context.Context, scope Scope) ([]ClassCollection, error)
	ModeBreakdowns(ctx context.Context, scope Scope) ([]ModeBreakdown, error)
}

// Service serves reports with a short redis cache in front of the
// aggregate queries. Reports trail live data by at most the TTL, which
// is acceptable for dashboards; singleflight collapses a stampede on a
// cold key into one database round trip.
type Service struct {
	logger *slog.Logger
	repo   RepositoryPort
	rdb    *redis.Client
	ttl    time.Duration
	group  singleflight.Group
}

// NewService builds Service instance. rdb may be nil; reads then go
// straight to the database.
func NewService(logger *slog.Logger, repo RepositoryPort, rdb *redis.Client, ttl time.Duration) *Service {
	return &Service{logger: logger, repo: repo, rdb: rdb, ttl: ttl}
}

func cached[T any](ctx context.Context, s *Service, key string, load func() (T, error)) (T, error) {
	var zero T
	if s.rdb == nil {
		return load()
	}
	raw, err, _ := s.group.Do(key, func() (any, error) {
		if data, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
			var v T
			if err := json.Unmarshal(data, &v); err == nil {
				return v, nil
			}
			// Corrupt entry: fall through and overwrite it.
		}
		v, err := load()
		if err != nil {
			return zero, err
		}
		data, err := json.Marshal(v)
		if err != nil {
			return zero, err
		}
		if err := s.rdb.Set(ctx, key, data, s.ttl).Err(); err != nil {
			s.logger.Warn("report cache write failed", slog.String("key", key), slog.Any("error", err))
		}
		return v, nil
	})
	if err != nil {
		return zero, err
	}
	return raw.(T), nil
}

// Collections returns the collection summary for the scope.
func (s *Service) Collections(ctx context.Context, scope Scope) (*CollectionSummary, error) {
	key := fmt.Sprintf("reports:collections:%d:%d:%d", scope.AcademicYearID, scope.Month, scope.Year)
	return cached(ctx, s, key, func() (*CollectionSummary, error) {
		return s.repo.CollectionSummary(ctx, scope)
	})
}

// Defaulters returns overdue charges with overdue-days as of today.
// Keyed per day so a report never shows yesterday's overdue-days.
func (s *Service) Defaulters(ctx context.Context, academicYearID int64) ([]Defaulter, error) {
	today := time.Now().Truncate(24 * time.Hour)
	key := fmt.Sprintf("reports:defaulters:%d:%s", academicYearID, today.Format("20060102"))
	return cached(ctx, s, key, func() ([]Defaulter, error) {
		return s.repo.Defaulters(ctx, academicYearID, today)
	})
}

// ClassCollections returns the per-class breakdown for the scope.
func (s *Service) ClassCollections(ctx context.Context, scope Scope) ([]ClassCollection, error) {
	key := fmt.Sprintf("reports:classes:%d:%d:%d", scope.AcademicYearID, scope.Month, scope.Year)
	return cached(ctx, s, key, func() ([]ClassCollection, error) {
		return s.repo.ClassCollections(ctx, scope)
	})
}

// ModeBreakdowns returns the per-mode breakdown for the scope.
func (s *Service) ModeBreakdowns(ctx context.Context, scope Scope) ([]ModeBreakdown, error) {
	key := fmt.Sprintf("reports:modes:%d:%d:%d", scope.AcademicYearID, scope.Month, scope.Year)
	return cached(ctx, s, key, func() ([]ModeBreakdown, error) {
		return s.repo.ModeBreakdowns(ctx, scope)
	})
}
