package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/planovate/planovate-backend/internal/config"
	"github.com/planovate/planovate-backend/internal/logger"
	"github.com/planovate/planovate-backend/internal/model"
	"github.com/planovate/planovate-backend/internal/repository"
	"github.com/planovate/planovate-backend/internal/timetable"
)

// OptionsService serves the teacher/room/course suggestion lists the
// editor autocompletes from. Suggestions only — the conflict detector
// and reconciler accept free text and never validate against these.
// Lists are cached in Redis with a TTL and invalidated on writes.
type OptionsService struct {
	teacherRepo *repository.TeacherRepository
	roomRepo    *repository.RoomRepository
	courseRepo  *repository.CourseRepository
	rdb         *redis.Client
	cfg         *config.Config
	log         zerolog.Logger
}

// NewOptionsService creates a new OptionsService.
func NewOptionsService(
	teacherRepo *repository.TeacherRepository,
	roomRepo *repository.RoomRepository,
	courseRepo *repository.CourseRepository,
	rdb *redis.Client,
	cfg *config.Config,
	log zerolog.Logger,
) *OptionsService {
	return &OptionsService{
		teacherRepo: teacherRepo,
		roomRepo:    roomRepo,
		courseRepo:  courseRepo,
		rdb:         rdb,
		cfg:         cfg,
		log:         logger.Component(log, "options_service"),
	}
}

// TeacherOptions returns teacher names for suggestion lists.
func (s *OptionsService) TeacherOptions(ctx context.Context) ([]string, error) {
	return s.cachedList(ctx, config.CacheKey.TeacherOptionsKey(), func() ([]string, error) {
		teachers, err := s.teacherRepo.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(teachers))
		for _, t := range teachers {
			names = append(names, t.Name)
		}
		return names, nil
	})
}

// RoomOptions returns room names for suggestion lists.
func (s *OptionsService) RoomOptions(ctx context.Context) ([]string, error) {
	return s.cachedList(ctx, config.CacheKey.RoomOptionsKey(), func() ([]string, error) {
		rooms, err := s.roomRepo.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(rooms))
		for _, r := range rooms {
			names = append(names, r.Name)
		}
		return names, nil
	})
}

// CourseOptions returns course names (falling back to code) for
// suggestion lists.
func (s *OptionsService) CourseOptions(ctx context.Context) ([]string, error) {
	return s.cachedList(ctx, config.CacheKey.CourseOptionsKey(), func() ([]string, error) {
		courses, err := s.courseRepo.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(courses))
		for _, c := range courses {
			name := c.Name
			if name == "" {
				name = c.Code
			}
			if name != "" {
				names = append(names, name)
			}
		}
		return names, nil
	})
}

// SemesterOptions returns the sorted distinct semesters across courses.
func (s *OptionsService) SemesterOptions(ctx context.Context) ([]string, error) {
	return s.cachedList(ctx, config.CacheKey.SemesterOptionsKey(), func() ([]string, error) {
		return s.courseRepo.DistinctSemesters(ctx)
	})
}

// AddTeacher inserts a suggestion entry and invalidates the cached list.
func (s *OptionsService) AddTeacher(ctx context.Context, name string) (*model.Teacher, error) {
	t := &model.Teacher{Name: timetable.Normalize(name)}
	if err := s.teacherRepo.Create(ctx, t); err != nil {
		return nil, err
	}
	s.invalidate(ctx, config.CacheKey.TeacherOptionsKey())
	return t, nil
}

// AddRoom inserts a suggestion entry and invalidates the cached list.
func (s *OptionsService) AddRoom(ctx context.Context, name string) (*model.Room, error) {
	r := &model.Room{Name: timetable.Normalize(name)}
	if err := s.roomRepo.Create(ctx, r); err != nil {
		return nil, err
	}
	s.invalidate(ctx, config.CacheKey.RoomOptionsKey())
	return r, nil
}

// AddCourse inserts a suggestion entry and invalidates the cached
// course and semester lists.
func (s *OptionsService) AddCourse(ctx context.Context, name, code, semester string) (*model.Course, error) {
	c := &model.Course{
		Name:     timetable.Normalize(name),
		Code:     timetable.Normalize(code),
		Semester: timetable.Normalize(semester),
	}
	if err := s.courseRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.invalidate(ctx, config.CacheKey.CourseOptionsKey())
	s.invalidate(ctx, config.CacheKey.SemesterOptionsKey())
	return c, nil
}

// cachedList serves a list from Redis, falling through to the fetch on
// a miss or any cache error. Cache failures degrade to direct reads —
// the options surface must keep working when Redis is down.
func (s *OptionsService) cachedList(ctx context.Context, key string, fetch func() ([]string, error)) ([]string, error) {
	raw, err := s.rdb.Get(ctx, key).Result()
	if err == nil {
		var cached []string
		if jsonErr := json.Unmarshal([]byte(raw), &cached); jsonErr == nil {
			return cached, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Str("key", key).Msg("Options cache read failed")
	}

	list, err := fetch()
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []string{}
	}

	if payload, jsonErr := json.Marshal(list); jsonErr == nil {
		if err := s.rdb.Set(ctx, key, payload, s.cfg.OptionsCacheTTL).Err(); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("Options cache write failed")
		}
	}
	return list, nil
}

func (s *OptionsService) invalidate(ctx context.Context, key string) {
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Options cache invalidation failed")
	}
}
