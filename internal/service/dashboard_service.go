package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/classtrack/classtrack-backend/internal/config"
	"github.com/classtrack/classtrack-backend/internal/model"
	"github.com/classtrack/classtrack-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// dashboardTTL bounds the staleness of cached dashboard counts.
const dashboardTTL = 30 * time.Second

// DashboardService serves role-specific count summaries, read-through
// cached in Redis.
type DashboardService struct {
	repo *repository.DashboardRepository
	rdb  *redis.Client
	log  zerolog.Logger
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(repo *repository.DashboardRepository, rdb *redis.Client, log zerolog.Logger) *DashboardService {
	return &DashboardService{
		repo: repo,
		rdb:  rdb,
		log:  log.With().Str("component", "dashboard_service").Logger(),
	}
}

// Stats returns the caller's dashboard counts. Cache failures fall
// through to the database; they are logged, never surfaced.
func (s *DashboardService) Stats(ctx context.Context, user model.SessionUser) (interface{}, error) {
	key := config.CacheKey.DashboardStatsKey(user.ID)

	if cached, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
		if stats := s.decode(user.Role, cached); stats != nil {
			return stats, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("dashboard cache read failed")
	}

	var (
		stats interface{}
		err   error
	)
	switch user.Role {
	case model.RoleTeacher:
		stats, err = s.repo.TeacherStats(ctx, user.ID)
	case model.RoleStudent:
		stats, err = s.repo.StudentStats(ctx, user.ID)
	default:
		return nil, ErrForbidden
	}
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(stats); err == nil {
		if err := s.rdb.Set(ctx, key, raw, dashboardTTL).Err(); err != nil {
			s.log.Warn().Err(err).Msg("dashboard cache write failed")
		}
	}
	return stats, nil
}

func (s *DashboardService) decode(role model.Role, raw []byte) interface{} {
	switch role {
	case model.RoleTeacher:
		d := &model.TeacherDashboard{}
		if json.Unmarshal(raw, d) == nil {
			return d
		}
	case model.RoleStudent:
		d := &model.StudentDashboard{}
		if json.Unmarshal(raw, d) == nil {
			return d
		}
	}
	return nil
}
