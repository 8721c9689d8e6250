package usecase

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/journey-planner/internal/async"
	"github.com/journey-planner/internal/domain"
	"github.com/journey-planner/internal/domain/repository"
	"go.uber.org/zap"
)

type ptBranch struct {
	modes domain.ModePair
	task  *async.Task[domain.BranchResult]
}

// PtJourneyPool - по одной задаче на пару режимов. Пары запускаются и
// собираются от дешевых к дорогим (сумма весов режимов).
type PtJourneyPool struct {
	branches []ptBranch
}

// PtJourneyPoolParams - входные данные пула
type PtJourneyPoolParams struct {
	Pairs        []domain.ModePair
	Origins      *FallbackDurationsPool
	Destinations *FallbackDurationsPool // nil для изохрон
	Params       domain.JourneyRequestParameters
}

// NewPtJourneyPool запускает задачи для всех пар
func NewPtJourneyPool(
	ctx context.Context,
	planner repository.PlannerRepository,
	in PtJourneyPoolParams,
	logger *zap.Logger,
) *PtJourneyPool {
	pairs := SortModePairs(in.Pairs)
	pool := &PtJourneyPool{branches: make([]ptBranch, 0, len(pairs))}

	for _, pair := range pairs {
		pair := pair
		pool.branches = append(pool.branches, ptBranch{
			modes: pair,
			task: async.Go(func() (domain.BranchResult, error) {
				return computePtBranch(ctx, planner, pair, in, logger), nil
			}),
		})
	}
	return pool
}

// SortModePairs возвращает копию, упорядоченную по весу (стабильно)
func SortModePairs(pairs []domain.ModePair) []domain.ModePair {
	sorted := make([]domain.ModePair, len(pairs))
	copy(sorted, pairs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Weight() < sorted[j].Weight()
	})
	return sorted
}

// Results ждет все ветки и возвращает их в порядке запуска
func (p *PtJourneyPool) Results() []domain.BranchResult {
	results := make([]domain.BranchResult, 0, len(p.branches))
	for _, b := range p.branches {
		res, err := b.task.Wait()
		if err != nil {
			// паника внутри задачи
			res = domain.TransportFault(b.modes, err)
		}
		results = append(results, res)
	}
	return results
}

func computePtBranch(
	ctx context.Context,
	planner repository.PlannerRepository,
	pair domain.ModePair,
	in PtJourneyPoolParams,
	logger *zap.Logger,
) domain.BranchResult {
	isochrone := in.Destinations == nil
	log := logger.With(zap.String("modes", pair.String()))

	origins, err := in.Origins.Wait(pair.Departure)
	if err != nil {
		if !isFunctionalError(err) {
			log.Warn("Origin fallback failed", zap.Error(err))
			return domain.TransportFault(pair, err)
		}
		log.Debug("Origin fallback has no solution, treating as empty", zap.Error(err))
		origins = nil
	}

	var destinations *domain.FallbackDurations
	if !isochrone {
		destinations, err = in.Destinations.Wait(pair.Arrival)
		if err != nil {
			if !isFunctionalError(err) {
				log.Warn("Destination fallback failed", zap.Error(err))
				return domain.TransportFault(pair, err)
			}
			log.Debug("Destination fallback has no solution, treating as empty", zap.Error(err))
			destinations = nil
		}
	}

	noOrigin := origins.IsEmpty()
	noDestination := !isochrone && destinations.IsEmpty()
	switch {
	case noOrigin && noDestination:
		return domain.NoRoute(pair, domain.NewNoSolution(domain.ReasonNoOriginNorDestination, "no stop reachable from origin nor destination"))
	case noOrigin:
		return domain.NoRoute(pair, domain.NewNoSolution(domain.ReasonNoOrigin, "no stop reachable from origin"))
	case noDestination:
		return domain.NoRoute(pair, domain.NewNoSolution(domain.ReasonNoDestination, "no stop reachable from destination"))
	case in.Params.MaxDuration == 0:
		return domain.NoRoute(pair, domain.NewNoSolution(domain.ReasonNoSolution, "max duration is zero"))
	}

	result, err := planner.PtJourneys(ctx, repository.PtQuery{
		Origins:      origins.Durations(),
		Destinations: destinations.Durations(),
		Params:       in.Params,
		Isochrone:    isochrone,
	})
	if err != nil {
		var noSolution *domain.NoSolutionError
		if errors.As(err, &noSolution) {
			log.Debug("Planner found no solution", zap.String("reason", string(noSolution.Reason)))
			return domain.NoRoute(pair, noSolution)
		}
		log.Warn("Planner call failed", zap.Error(err))
		return domain.TransportFault(pair, err)
	}

	if len(result.Journeys) == 0 {
		return domain.NoRoute(pair, domain.NewNoSolution(domain.ReasonNoSolution, "planner returned no journey"))
	}

	for _, j := range result.Journeys {
		j.InternalID = uuid.NewString()
		j.Modes = pair
	}

	log.Debug("Planner journeys received", zap.Int("count", len(result.Journeys)))
	return domain.Ok(pair, result.Journeys, result.FeedPublishers)
}

// isFunctionalError - ответ backend'а по существу (нет решения, ошибка
// запроса), а не сбой транспорта или открытый breaker
func isFunctionalError(err error) bool {
	var noSolution *domain.NoSolutionError
	var backendErr *domain.BackendError
	return errors.As(err, &noSolution) || errors.As(err, &backendErr)
}
