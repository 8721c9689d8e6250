package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/journey-planner/internal/domain"
	"github.com/journey-planner/internal/domain/repository"
	"github.com/journey-planner/internal/usecase/dto"
	"go.uber.org/zap"
)

const defaultDeparturesCount = 10

// DeparturesUseCase - ближайшие отправления по данным realtime-провайдеров
type DeparturesUseCase struct {
	regions  *RegionManager
	realtime ProviderSource[repository.RealtimeProvider]
	now      func() time.Time
	logger   *zap.Logger
}

// NewDeparturesUseCase создает новый DeparturesUseCase
func NewDeparturesUseCase(
	regions *RegionManager,
	realtime ProviderSource[repository.RealtimeProvider],
	logger *zap.Logger,
) *DeparturesUseCase {
	return &DeparturesUseCase{
		regions:  regions,
		realtime: realtime,
		now:      time.Now,
		logger:   logger,
	}
}

// NextDepartures возвращает отправления первого провайдера, обслуживающего
// остановку. Без провайдера или при его сбое - пустой список.
func (uc *DeparturesUseCase) NextDepartures(ctx context.Context, regionName string, req dto.DeparturesRequest) (*dto.DeparturesResponse, error) {
	region, ok := uc.regions.Get(regionName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownRegion, regionName)
	}

	from := uc.now().UTC()
	if req.Datetime != "" {
		dt, err := parseDatetime(req.Datetime)
		if err != nil {
			return nil, fmt.Errorf("%w: datetime %q", domain.ErrInvalidRequest, req.Datetime)
		}
		from = dt
	}
	count := req.Count
	if count == 0 {
		count = defaultDeparturesCount
	}

	resp := &dto.DeparturesResponse{
		Stop:           req.Stop,
		Departures:     []domain.Passage{},
		FeedPublishers: []domain.FeedPublisher{},
	}

	// свойства остановки (network/operator) нужны для выбора провайдера
	stop := domain.Place{URI: req.Stop, Kind: domain.PlaceStopPoint, Region: regionName}
	if place, err := region.Places.Place(ctx, req.Stop); err == nil {
		stop = *place
	} else {
		uc.logger.Debug("Stop lookup failed, matching providers by URI only",
			zap.String("stop", req.Stop), zap.Error(err))
	}

	if uc.realtime == nil {
		return resp, nil
	}
	provider := pick(uc.realtime.Providers(ctx), stop)
	if provider == nil {
		return resp, nil
	}

	passages, err := provider.NextPassages(ctx, stop.URI, req.Line, from)
	if err != nil {
		uc.logger.Warn("Realtime provider failed",
			zap.String("provider", provider.ID()),
			zap.String("stop", req.Stop),
			zap.Error(err))
		return resp, nil
	}
	if len(passages) > count {
		passages = passages[:count]
	}
	resp.Departures = passages
	if fp := provider.FeedPublisher(); fp != nil {
		resp.FeedPublishers = append(resp.FeedPublishers, *fp)
	}
	return resp, nil
}
