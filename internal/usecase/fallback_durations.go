package usecase

import (
	"context"
	"fmt"
	"math"

	"github.com/journey-planner/internal/async"
	"github.com/journey-planner/internal/domain"
	"github.com/journey-planner/internal/domain/repository"
	"go.uber.org/zap"
)

// FallbackDirection - с какой стороны поездки считается фоллбэк
type FallbackDirection int

const (
	// FromPlace - от точки отправления к остановкам
	FromPlace FallbackDirection = iota
	// ToPlace - от остановок к точке прибытия
	ToPlace
)

func (d FallbackDirection) String() string {
	if d == ToPlace {
		return "arrival"
	}
	return "departure"
}

// FallbackDurationsPool считает карты длительностей place -> остановка для
// каждого режима. Каждый режим вычисляется ровно один раз.
type FallbackDurationsPool struct {
	place     domain.Place
	direction FallbackDirection
	tasks     map[domain.FallbackMode]*async.Task[*domain.FallbackDurations]
}

// NewFallbackDurationsPool сразу запускает задачу на каждый уникальный режим
func NewFallbackDurationsPool(
	ctx context.Context,
	places repository.PlaceRepository,
	streets repository.StreetNetworkRepository,
	place domain.Place,
	modes []domain.FallbackMode,
	params domain.JourneyRequestParameters,
	direction FallbackDirection,
	logger *zap.Logger,
) *FallbackDurationsPool {
	pool := &FallbackDurationsPool{
		place:     place,
		direction: direction,
		tasks:     make(map[domain.FallbackMode]*async.Task[*domain.FallbackDurations], len(modes)),
	}

	for _, mode := range modes {
		if _, ok := pool.tasks[mode]; ok {
			continue
		}
		c := &fallbackComputation{
			places:    places,
			streets:   streets,
			place:     place,
			mode:      mode,
			maxDur:    params.MaxDurationToPtFor(mode),
			speed:     params.SpeedFor(mode),
			direction: direction,
			logger:    logger,
		}
		pool.tasks[mode] = async.Go(func() (*domain.FallbackDurations, error) {
			return c.run(ctx)
		})
	}

	return pool
}

// Place возвращает место, для которого считается пул
func (p *FallbackDurationsPool) Place() domain.Place {
	return p.place
}

// Wait ждет карту для режима. Функциональная ошибка делает режим пустым,
// сбой транспорта становится TransportFault ветки.
func (p *FallbackDurationsPool) Wait(mode domain.FallbackMode) (*domain.FallbackDurations, error) {
	task, ok := p.tasks[mode]
	if !ok {
		return nil, fmt.Errorf("fallback mode %s was not requested for %s", mode, p.place.URI)
	}
	return task.Wait()
}

type fallbackComputation struct {
	places    repository.PlaceRepository
	streets   repository.StreetNetworkRepository
	place     domain.Place
	mode      domain.FallbackMode
	maxDur    int
	speed     float64
	direction FallbackDirection
	logger    *zap.Logger
}

func (c *fallbackComputation) run(ctx context.Context) (*domain.FallbackDurations, error) {
	reached := domain.DurationElement{Duration: 0, Status: domain.StatusReached}

	// свободно достижимые места не требуют вызова backend'а
	free := make(map[string]struct{})
	elements := make(map[string]domain.DurationElement)
	for _, uri := range c.place.FreelyReachable() {
		free[uri] = struct{}{}
		elements[uri] = reached
	}

	if c.maxDur == 0 {
		if !c.place.IsStop() {
			return domain.NewFallbackDurations(c.mode, nil), nil
		}
		elements[c.place.URI] = reached
		return domain.NewFallbackDurations(c.mode, elements), nil
	}

	radius := float64(c.maxDur) * c.speed
	nearby, err := c.places.PlacesNearby(ctx, c.place, radius)
	if err != nil {
		c.logger.Warn("Places nearby failed",
			zap.String("place", c.place.URI),
			zap.String("mode", string(c.mode)),
			zap.Error(err))
		return nil, fmt.Errorf("places nearby %s: %w", c.place.URI, err)
	}

	candidates := make([]domain.Place, 0, len(nearby))
	for _, candidate := range nearby {
		if _, ok := free[candidate.URI]; ok {
			continue
		}
		if candidate.URI == c.place.URI {
			elements[candidate.URI] = reached
			continue
		}
		candidates = append(candidates, candidate)
	}

	if len(candidates) == 0 {
		return domain.NewFallbackDurations(c.mode, elements), nil
	}

	matrix, err := c.streets.RoutingMatrix(ctx, repository.MatrixQuery{
		Mode:        c.mode,
		Origin:      c.place,
		Candidates:  candidates,
		MaxDuration: c.maxDur,
		Speed:       c.speed,
		Reverse:     c.direction == ToPlace,
	})
	if err != nil {
		c.logger.Warn("Routing matrix failed",
			zap.String("place", c.place.URI),
			zap.String("mode", string(c.mode)),
			zap.Error(err))
		return nil, fmt.Errorf("routing matrix %s/%s: %w", c.place.URI, c.mode, err)
	}

	for i, candidate := range candidates {
		el := matrix[i]
		duration := el.Duration
		switch el.Status {
		case domain.StatusReached:
		case domain.StatusUnknown:
			duration = crowFlyDuration(c.place.Coord, candidate.Coord, c.speed)
		default:
			continue
		}
		if duration >= c.maxDur {
			continue
		}
		elements[candidate.URI] = domain.DurationElement{Duration: duration, Status: domain.StatusReached}
	}

	c.logger.Debug("Fallback durations computed",
		zap.String("place", c.place.URI),
		zap.String("mode", string(c.mode)),
		zap.String("direction", c.direction.String()),
		zap.Int("candidates", len(candidates)),
		zap.Int("reachable", len(elements)))

	return domain.NewFallbackDurations(c.mode, elements), nil
}

// crowFlyDuration - оценка времени по прямой с поправкой √2 на реальную сеть
func crowFlyDuration(from, to domain.Coordinate, speed float64) int {
	if speed <= 0 {
		return math.MaxInt32
	}
	return int(from.DistanceTo(to) * math.Sqrt2 / speed)
}
