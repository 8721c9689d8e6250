package usecase

import (
	"context"

	"github.com/journey-planner/internal/async"
	"github.com/journey-planner/internal/domain"
	"github.com/journey-planner/internal/domain/repository"
	"go.uber.org/zap"
)

// ProviderSource - объединенное представление реестра провайдеров
type ProviderSource[T repository.Provider] interface {
	Providers(ctx context.Context) []T
}

// EnricherSources - реестры по видам провайдеров, любой может быть nil
type EnricherSources struct {
	Bss         ProviderSource[repository.BssProvider]
	CarParks    ProviderSource[repository.CarParkProvider]
	Ridesharing ProviderSource[repository.RidesharingProvider]
	Equipment   ProviderSource[repository.EquipmentProvider]
	Realtime    ProviderSource[repository.RealtimeProvider]
}

// Enricher дополняет поездки live-данными провайдеров. Сбой провайдера
// только убирает соответствующий кусок данных.
type Enricher struct {
	sources EnricherSources
	logger  *zap.Logger
}

// NewEnricher создает Enricher
func NewEnricher(sources EnricherSources, logger *zap.Logger) *Enricher {
	return &Enricher{sources: sources, logger: logger}
}

// enrichment - результат одной задачи: применяется в вызывающей горутине
type enrichment struct {
	apply func()
	feed  *domain.FeedPublisher
}

// Enrich запускает все запросы к провайдерам параллельно и применяет ответы.
// Возвращает источники данных провайдеров, которые что-то добавили.
func (e *Enricher) Enrich(ctx context.Context, journeys []*domain.Journey) []domain.FeedPublisher {
	var (
		bss         []repository.BssProvider
		carParks    []repository.CarParkProvider
		ridesharing []repository.RidesharingProvider
		equipment   []repository.EquipmentProvider
		realtime    []repository.RealtimeProvider
	)
	if e.sources.Bss != nil {
		bss = e.sources.Bss.Providers(ctx)
	}
	if e.sources.CarParks != nil {
		carParks = e.sources.CarParks.Providers(ctx)
	}
	if e.sources.Ridesharing != nil {
		ridesharing = e.sources.Ridesharing.Providers(ctx)
	}
	if e.sources.Equipment != nil {
		equipment = e.sources.Equipment.Providers(ctx)
	}
	if e.sources.Realtime != nil {
		realtime = e.sources.Realtime.Providers(ctx)
	}

	var tasks []*async.Task[enrichment]
	for _, j := range journeys {
		for i := range j.Sections {
			section := &j.Sections[i]
			switch {
			case section.Kind == domain.SectionStreetNetwork && section.Mode == domain.ModeBss:
				if p := pick(bss, section.Origin); p != nil {
					tasks = append(tasks, e.stands(ctx, p, section, false))
				}
				if p := pick(bss, section.Destination); p != nil {
					tasks = append(tasks, e.stands(ctx, p, section, true))
				}
			case section.Kind == domain.SectionPark || section.Kind == domain.SectionLeaveParking:
				if p := pick(carParks, section.Origin); p != nil {
					tasks = append(tasks, e.parking(ctx, p, section))
				}
			case section.Kind == domain.SectionPublicTransport:
				if p := pick(equipment, section.Origin); p != nil {
					tasks = append(tasks, e.equipments(ctx, p, section))
				}
				if p := pick(realtime, section.Origin); p != nil {
					tasks = append(tasks, e.passage(ctx, p, section))
				}
			case section.Mode == domain.ModeRidesharing:
				if p := pick(ridesharing, section.Origin); p != nil {
					tasks = append(tasks, e.offers(ctx, p, section))
				}
			}
		}
	}

	var feeds []domain.FeedPublisher
	for _, t := range tasks {
		res, err := t.Wait()
		if err != nil {
			e.logger.Debug("Enrichment skipped", zap.Error(err))
			continue
		}
		res.apply()
		if res.feed != nil {
			feeds = append(feeds, *res.feed)
		}
	}
	return domain.MergeFeedPublishers(feeds)
}

func pick[T repository.Provider](providers []T, place domain.Place) T {
	var zero T
	for _, p := range providers {
		if p.Handles(place) {
			return p
		}
	}
	return zero
}

func (e *Enricher) stands(ctx context.Context, p repository.BssProvider, section *domain.Section, dropoff bool) *async.Task[enrichment] {
	place := section.Origin
	if dropoff {
		place = section.Destination
	}
	return async.Go(func() (enrichment, error) {
		stands, err := p.StandsAt(ctx, place)
		if err != nil {
			return enrichment{}, err
		}
		return enrichment{
			apply: func() {
				if dropoff {
					section.DropoffStands = stands
				} else {
					section.Stands = stands
				}
			},
			feed: p.FeedPublisher(),
		}, nil
	})
}

func (e *Enricher) parking(ctx context.Context, p repository.CarParkProvider, section *domain.Section) *async.Task[enrichment] {
	place := section.Origin
	return async.Go(func() (enrichment, error) {
		availability, err := p.Availability(ctx, place)
		if err != nil {
			return enrichment{}, err
		}
		return enrichment{apply: func() { section.Parking = availability }, feed: p.FeedPublisher()}, nil
	})
}

func (e *Enricher) equipments(ctx context.Context, p repository.EquipmentProvider, section *domain.Section) *async.Task[enrichment] {
	uris := []string{section.Origin.URI, section.Destination.URI}
	return async.Go(func() (enrichment, error) {
		reports, err := p.Reports(ctx, uris)
		if err != nil {
			return enrichment{}, err
		}
		return enrichment{apply: func() { section.Equipments = reports }, feed: p.FeedPublisher()}, nil
	})
}

func (e *Enricher) passage(ctx context.Context, p repository.RealtimeProvider, section *domain.Section) *async.Task[enrichment] {
	stop, line, from := section.Origin.URI, section.LineURI, section.BeginDateTime
	return async.Go(func() (enrichment, error) {
		passages, err := p.NextPassages(ctx, stop, line, from)
		if err != nil {
			return enrichment{}, err
		}
		if len(passages) == 0 {
			return enrichment{apply: func() {}}, nil
		}
		next := passages[0]
		return enrichment{apply: func() { section.Realtime = &next }, feed: p.FeedPublisher()}, nil
	})
}

func (e *Enricher) offers(ctx context.Context, p repository.RidesharingProvider, section *domain.Section) *async.Task[enrichment] {
	from, to, at := section.Origin, section.Destination, section.BeginDateTime
	return async.Go(func() (enrichment, error) {
		offers, err := p.Offers(ctx, from, to, at)
		if err != nil {
			return enrichment{}, err
		}
		return enrichment{apply: func() { section.RidesharingOffers = offers }, feed: p.FeedPublisher()}, nil
	})
}
