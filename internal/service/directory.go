package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"voltfind/internal/domain"
	internalRedis "voltfind/internal/redis"
	"voltfind/internal/repository"
)

// DirectoryService lists chargers and resolves the charger a booking is made against.
type DirectoryService struct {
	chargerRepo repository.ChargerRepository
	cache       internalRedis.ChargerCacheInterface
	logger      *zap.Logger
}

// NewDirectoryService creates a new DirectoryService. cache may be nil.
func NewDirectoryService(chargerRepo repository.ChargerRepository, cache internalRedis.ChargerCacheInterface, logger *zap.Logger) *DirectoryService {
	return &DirectoryService{
		chargerRepo: chargerRepo,
		cache:       cache,
		logger:      logger,
	}
}

// List returns the chargers matching the query in directory order.
func (s *DirectoryService) List(ctx context.Context, q domain.ChargerQuery) ([]*domain.Charger, error) {
	if q.Filter == "" {
		q.Filter = domain.ChargerFilterAll
	}
	if !q.Filter.IsValid() {
		return nil, ErrInvalidFilter
	}

	chargers, err := s.all(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.Charger, 0, len(chargers))
	for _, c := range chargers {
		if matches(c, q) {
			result = append(result, c)
		}
	}
	return result, nil
}

// Get retrieves a charger by ID.
func (s *DirectoryService) Get(ctx context.Context, id string) (*domain.Charger, error) {
	if id == "" {
		return nil, ErrInvalidChargerID
	}

	if s.cache != nil {
		cached, err := s.cache.GetCharger(ctx, id)
		if err != nil {
			s.logger.Warn("charger cache read failed", zap.String("charger_id", id), zap.Error(err))
		} else if cached != nil {
			return cached.ToDomain(), nil
		}
	}

	charger, err := s.chargerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetCharger(ctx, internalRedis.ToCachedCharger(charger)); err != nil {
			s.logger.Warn("charger cache write failed", zap.String("charger_id", id), zap.Error(err))
		}
	}
	return charger, nil
}

func (s *DirectoryService) all(ctx context.Context) ([]*domain.Charger, error) {
	if s.cache != nil {
		cached, err := s.cache.GetChargerList(ctx)
		if err != nil {
			s.logger.Warn("charger list cache read failed", zap.Error(err))
		} else if cached != nil {
			chargers := make([]*domain.Charger, 0, len(cached))
			for _, c := range cached {
				chargers = append(chargers, c.ToDomain())
			}
			return chargers, nil
		}
	}

	chargers, err := s.chargerRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		entries := make([]*internalRedis.CachedCharger, 0, len(chargers))
		for _, c := range chargers {
			entries = append(entries, internalRedis.ToCachedCharger(c))
		}
		if err := s.cache.SetChargerList(ctx, entries); err != nil {
			s.logger.Warn("charger list cache write failed", zap.Error(err))
		}
	}
	return chargers, nil
}

func matches(c *domain.Charger, q domain.ChargerQuery) bool {
	switch q.Filter {
	case domain.ChargerFilterFast:
		if c.PowerKW < domain.FastChargePowerKW {
			return false
		}
	case domain.ChargerFilterUltra:
		if c.PowerKW < domain.UltraChargePowerKW {
			return false
		}
	case domain.ChargerFilterAvailable:
		if c.Available < 1 {
			return false
		}
	}

	if q.Connector != "" && !containsFold(c.ConnectorType, q.Connector) {
		return false
	}

	if q.Search != "" && !containsFold(c.Name, q.Search) && !containsFold(c.Address, q.Search) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(strings.TrimSpace(substr)))
}
