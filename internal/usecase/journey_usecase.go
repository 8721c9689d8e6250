package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/journey-planner/internal/async"
	"github.com/journey-planner/internal/domain"
	"github.com/journey-planner/internal/usecase/dto"
	"github.com/journey-planner/internal/usecase/qualifier"
	"go.uber.org/zap"
)

// navitiaDatetimeLayout - компактный формат datetime в query string
const navitiaDatetimeLayout = "20060102T150405"

// JourneyDefaults - значения по умолчанию из конфигурации
type JourneyDefaults struct {
	MaxDuration            int
	MaxNbTransfers         int
	MaxDurationToPt        map[domain.FallbackMode]int
	Speeds                 map[domain.FallbackMode]float64
	ParkDuration           int
	WalkingTransferPenalty int
	TransferPenalty        int
	FirstSectionModes      []domain.FallbackMode
	LastSectionModes       []domain.FallbackMode
}

// JourneyUseCase - оркестратор планирования поездок
type JourneyUseCase struct {
	regions  *RegionManager
	enricher *Enricher
	defaults JourneyDefaults
	now      func() time.Time
	logger   *zap.Logger
}

// NewJourneyUseCase создает новый JourneyUseCase
func NewJourneyUseCase(
	regions *RegionManager,
	enricher *Enricher,
	defaults JourneyDefaults,
	logger *zap.Logger,
) *JourneyUseCase {
	return &JourneyUseCase{
		regions:  regions,
		enricher: enricher,
		defaults: defaults,
		now:      time.Now,
		logger:   logger,
	}
}

// Plan считает поездки в регионе.
//
// Граф вычислений по запросу:
// - места отправления и назначения разрешаются один раз
// - пулы фоллбэков (по режиму) и direct path'ы запускаются сразу
// - задачи PtJourneyPool ждут обе карты длительностей
// - к поездкам на ОТ приклеиваются фоллбэки, затем разметка и обогащение
//
// Ошибка возвращается только если не осталось ни одной поездки.
func (uc *JourneyUseCase) Plan(ctx context.Context, regionName string, req dto.JourneyRequest) (*dto.JourneysResponse, error) {
	region, ok := uc.regions.Get(regionName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownRegion, regionName)
	}

	profile := qualifier.LookupProfile(req.TravelerType)
	params, err := uc.buildParams(req, profile)
	if err != nil {
		return nil, err
	}
	isochrone := req.IsIsochrone()
	log := uc.logger.With(zap.String("region", regionName), zap.String("from", req.From), zap.String("to", req.To))

	// места запроса разрешаются один раз, даже если from == to
	places := async.NewMemo[string, *domain.Place]()
	resolve := func(uri string) *async.Task[*domain.Place] {
		task, _ := places.GetOrStart(uri, func() (*domain.Place, error) {
			return resolvePlace(ctx, region, uri)
		})
		return task
	}
	originTask := resolve(req.From)
	var destinationTask *async.Task[*domain.Place]
	if !isochrone {
		destinationTask = resolve(req.To)
	}

	origin, err := originTask.Wait()
	if err != nil {
		return nil, fmt.Errorf("origin %s: %w", req.From, err)
	}
	var destination *domain.Place
	if destinationTask != nil {
		if destination, err = destinationTask.Wait(); err != nil {
			return nil, fmt.Errorf("destination %s: %w", req.To, err)
		}
	}

	firstModes := uc.allowedModes(req.FirstSectionModes, uc.defaults.FirstSectionModes, profile)
	lastModes := uc.allowedModes(req.LastSectionModes, uc.defaults.LastSectionModes, profile)
	if isochrone {
		lastModes = []domain.FallbackMode{domain.ModeWalking}
	}
	pairs := buildModePairs(firstModes, lastModes)

	origins := NewFallbackDurationsPool(ctx, region.Places, region.Streets, *origin, firstModes, params, FromPlace, log)
	var destinations *FallbackDurationsPool
	if !isochrone {
		destinations = NewFallbackDurationsPool(ctx, region.Places, region.Streets, *destination, lastModes, params, ToPlace, log)
	}

	paths := NewDirectPathPool(ctx, region.DirectPaths, params)
	type directRequest struct {
		mode domain.FallbackMode
		key  domain.PathKey
	}
	var directs []directRequest
	if !isochrone {
		for _, mode := range intersectModes(firstModes, lastModes) {
			directs = append(directs, directRequest{
				mode: mode,
				key:  paths.Add(mode, *origin, *destination, domain.RoleDirect),
			})
		}
	}

	pt := NewPtJourneyPool(ctx, region.Planner, PtJourneyPoolParams{
		Pairs:        pairs,
		Origins:      origins,
		Destinations: destinations,
		Params:       params,
	}, log)
	branches := pt.Results()

	sp := &splicer{
		origin:       *origin,
		destination:  destination,
		origins:      origins,
		destinations: destinations,
		paths:        paths,
		parkDuration: params.ParkDuration,
		logger:       log,
	}
	var legs []journeyLegs
	var feeds [][]domain.FeedPublisher
	for _, b := range branches {
		if b.Outcome != domain.OutcomeOK {
			continue
		}
		feeds = append(feeds, b.FeedPublishers)
		for _, j := range b.Journeys {
			legs = append(legs, sp.schedule(j))
		}
	}

	journeys := make([]*domain.Journey, 0, len(legs)+len(directs))
	for _, l := range legs {
		sp.apply(l)
		journeys = append(journeys, l.journey)
	}

	for _, d := range directs {
		modes := domain.ModePair{Departure: d.mode, Arrival: d.mode}
		path, err := paths.Wait(d.key)
		if err != nil {
			var noSolution *domain.NoSolutionError
			if errors.As(err, &noSolution) {
				branches = append(branches, domain.NoRoute(modes, noSolution))
			} else {
				branches = append(branches, domain.TransportFault(modes, err))
			}
			continue
		}
		j := directJourney(d.mode, path, *origin, *destination, params)
		journeys = append(journeys, j)
		feeds = append(feeds, path.Feeds)
		branches = append(branches, domain.Ok(modes, []*domain.Journey{j}, path.Feeds))
	}

	if len(journeys) == 0 {
		err := mostSpecificError(branches)
		log.Info("No journey found", zap.Int("branches", len(branches)), zap.Error(err))
		return nil, err
	}

	qualified := qualifier.Qualify(journeys, profile, qualifier.Options{
		Debug:     params.Debug,
		Isochrone: isochrone,
		Clockwise: params.Clockwise,
	})
	if len(qualified) == 0 {
		return nil, domain.NewNoSolution(domain.ReasonNoSolution, "no journey matched the traveler profile")
	}

	if uc.enricher != nil {
		feeds = append(feeds, uc.enricher.Enrich(ctx, qualified))
	}

	log.Info("Journeys planned",
		zap.Int("pairs", len(pairs)),
		zap.Int("candidates", len(journeys)),
		zap.Int("qualified", len(qualified)))

	resp := &dto.JourneysResponse{
		Region:         regionName,
		Journeys:       qualified,
		FeedPublishers: domain.MergeFeedPublishers(feeds...),
	}
	if params.Debug {
		resp.Debug = debugInfo(branches, paths.Len())
	}
	return resp, nil
}

func resolvePlace(ctx context.Context, region *Region, uri string) (*domain.Place, error) {
	place, isCoord, err := domain.ParseCoordURI(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	if isCoord {
		place.Region = region.Name
		return &place, nil
	}
	return region.Places.Place(ctx, uri)
}

func (uc *JourneyUseCase) buildParams(req dto.JourneyRequest, profile qualifier.Profile) (domain.JourneyRequestParameters, error) {
	d := uc.defaults
	params := domain.JourneyRequestParameters{
		Datetime:      uc.now().UTC().Truncate(time.Second),
		Clockwise:     req.DatetimeRepresents != "arrival",
		MaxDuration:   d.MaxDuration,
		MaxTransfers:  d.MaxNbTransfers,
		Wheelchair:    req.Wheelchair || profile.Wheelchair,
		RealtimeLevel: domain.RealtimeBaseSchedule,
		ForbiddenURIs: append([]string(nil), req.ForbiddenURIs...),
		Penalties:     domain.Penalties{Walking: d.WalkingTransferPenalty, Transfer: d.TransferPenalty},
		ParkDuration:  d.ParkDuration,
		TravelerType:  profile.Name,
		Debug:         req.Debug,
	}

	if req.Datetime != "" {
		dt, err := parseDatetime(req.Datetime)
		if err != nil {
			return params, fmt.Errorf("%w: datetime %q", domain.ErrInvalidRequest, req.Datetime)
		}
		params.Datetime = dt
	}
	if req.MaxDuration != nil {
		params.MaxDuration = *req.MaxDuration
	}
	if req.MaxNbTransfers != nil {
		params.MaxTransfers = *req.MaxNbTransfers
	}
	if req.DataFreshness != "" {
		params.RealtimeLevel = domain.RealtimeLevel(req.DataFreshness)
	}

	params.MaxDurationToPt = make(map[domain.FallbackMode]int, len(d.MaxDurationToPt))
	for mode, v := range d.MaxDurationToPt {
		params.MaxDurationToPt[mode] = v
	}
	if req.MaxDurationToPt != nil {
		for _, mode := range domain.AllFallbackModes {
			params.MaxDurationToPt[mode] = *req.MaxDurationToPt
		}
	}

	params.Speeds = make(map[domain.FallbackMode]float64, len(d.Speeds)+len(profile.Speeds))
	for mode, v := range d.Speeds {
		params.Speeds[mode] = v
	}
	for mode, v := range profile.Speeds {
		params.Speeds[mode] = v
	}

	return params, nil
}

func parseDatetime(s string) (time.Time, error) {
	if t, err := time.Parse(navitiaDatetimeLayout, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// allowedModes - режимы запроса (или по умолчанию), разрешенные профилем, без дублей
func (uc *JourneyUseCase) allowedModes(requested []string, defaults []domain.FallbackMode, profile qualifier.Profile) []domain.FallbackMode {
	candidates := defaults
	if len(requested) > 0 {
		candidates = make([]domain.FallbackMode, 0, len(requested))
		for _, s := range requested {
			mode, err := domain.ParseFallbackMode(strings.TrimSpace(s))
			if err != nil {
				continue
			}
			candidates = append(candidates, mode)
		}
	}

	seen := make(map[domain.FallbackMode]struct{})
	var modes []domain.FallbackMode
	for _, m := range candidates {
		if _, ok := seen[m]; ok || !profile.Allows(m) {
			continue
		}
		seen[m] = struct{}{}
		modes = append(modes, m)
	}
	if len(modes) == 0 {
		modes = []domain.FallbackMode{domain.ModeWalking}
	}
	return modes
}

func buildModePairs(first, last []domain.FallbackMode) []domain.ModePair {
	pairs := make([]domain.ModePair, 0, len(first)*len(last))
	for _, dep := range first {
		for _, arr := range last {
			pairs = append(pairs, domain.ModePair{Departure: dep, Arrival: arr})
		}
	}
	return pairs
}

func intersectModes(a, b []domain.FallbackMode) []domain.FallbackMode {
	var out []domain.FallbackMode
	for _, m := range a {
		for _, n := range b {
			if m == n {
				out = append(out, m)
				break
			}
		}
	}
	return out
}

// mostSpecificError: самая конкретная функциональная ошибка, иначе первый сбой транспорта
func mostSpecificError(branches []domain.BranchResult) error {
	var best *domain.NoSolutionError
	var fault error
	for _, b := range branches {
		switch b.Outcome {
		case domain.OutcomeNoRoute:
			if b.NoRoute.MoreSpecificThan(best) {
				best = b.NoRoute
			}
		case domain.OutcomeTransportFault:
			if fault == nil {
				fault = b.Err
			}
		}
	}
	if best != nil {
		return best
	}
	if fault != nil {
		return fault
	}
	return domain.NewNoSolution(domain.ReasonNoSolution, "")
}

func debugInfo(branches []domain.BranchResult, directPaths int) *dto.JourneyDebug {
	info := &dto.JourneyDebug{DirectPaths: directPaths}
	for _, b := range branches {
		bd := dto.BranchDebug{
			Modes:    b.Modes.String(),
			Outcome:  b.Outcome.String(),
			Journeys: len(b.Journeys),
		}
		if b.Err != nil {
			bd.Error = b.Err.Error()
		}
		info.Branches = append(info.Branches, bd)
	}
	return info
}
