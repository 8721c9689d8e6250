package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/journey-planner/internal/domain"
	"go.uber.org/zap"
)

// fallbackLeg - участок без ОТ, который нужно приклеить к поездке
type fallbackLeg struct {
	mode     domain.FallbackMode
	key      domain.PathKey
	from     domain.Place
	to       domain.Place
	duration int // из карты длительностей
}

type journeyLegs struct {
	journey *domain.Journey
	begin   *fallbackLeg
	end     *fallbackLeg
}

// splicer приклеивает фоллбэки к поездкам planner'а. Сначала schedule для
// всех поездок (direct path'ы запускаются параллельно), затем apply.
type splicer struct {
	origin       domain.Place
	destination  *domain.Place
	origins      *FallbackDurationsPool
	destinations *FallbackDurationsPool
	paths        *DirectPathPool
	parkDuration int
	logger       *zap.Logger
}

func (s *splicer) schedule(j *domain.Journey) journeyLegs {
	legs := journeyLegs{journey: j}
	j.Retime()
	if len(j.Sections) == 0 {
		return legs
	}

	first := j.Sections[0]
	if first.Origin.URI != s.origin.URI {
		if d := s.mapDuration(s.origins, j.Modes.Departure, first.Origin.URI); d > 0 {
			legs.begin = &fallbackLeg{
				mode:     j.Modes.Departure,
				key:      s.paths.Add(j.Modes.Departure, s.origin, first.Origin, domain.RoleBeginningFallback),
				from:     s.origin,
				to:       first.Origin,
				duration: d,
			}
		}
	}

	if s.destination == nil {
		return legs
	}
	last := j.Sections[len(j.Sections)-1]
	if last.Destination.URI != s.destination.URI {
		if d := s.mapDuration(s.destinations, j.Modes.Arrival, last.Destination.URI); d > 0 {
			legs.end = &fallbackLeg{
				mode:     j.Modes.Arrival,
				key:      s.paths.Add(j.Modes.Arrival, last.Destination, *s.destination, domain.RoleEndingFallback),
				from:     last.Destination,
				to:       *s.destination,
				duration: d,
			}
		}
	}
	return legs
}

func (s *splicer) mapDuration(pool *FallbackDurationsPool, mode domain.FallbackMode, uri string) int {
	if pool == nil {
		return 0
	}
	durations, err := pool.Wait(mode)
	if err != nil {
		return 0
	}
	el, _ := durations.Get(uri)
	return el.Duration
}

func (s *splicer) apply(legs journeyLegs) {
	j := legs.journey
	if len(j.Sections) == 0 {
		return
	}

	if leg := legs.begin; leg != nil {
		anchor := j.Sections[0].BeginDateTime
		var prefix []domain.Section
		if leg.mode == domain.ModeCar && s.parkDuration > 0 {
			start := anchor.Add(-seconds(s.parkDuration))
			prefix = append(prefix, parkingSection(domain.SectionPark, leg.to, start, anchor))
			anchor = start
		}
		section := s.legSection(leg, anchor, false)
		prefix = append([]domain.Section{section}, prefix...)
		j.Sections = append(prefix, j.Sections...)
		j.AddTag(string(leg.mode))
	}

	if leg := legs.end; leg != nil {
		anchor := j.Sections[len(j.Sections)-1].EndDateTime
		if leg.mode == domain.ModeCar && s.parkDuration > 0 {
			end := anchor.Add(seconds(s.parkDuration))
			j.Sections = append(j.Sections, parkingSection(domain.SectionLeaveParking, leg.from, anchor, end))
			anchor = end
		}
		j.Sections = append(j.Sections, s.legSection(leg, anchor, true))
		j.AddTag(string(leg.mode))
	}

	j.Retime()
}

// legSection строит участок по direct path'у или, если его нет, по прямой
// с длительностью из карты. forward: anchor - начало участка, иначе конец.
func (s *splicer) legSection(leg *fallbackLeg, anchor time.Time, forward bool) domain.Section {
	section := domain.Section{
		ID:          uuid.NewString(),
		Kind:        domain.SectionCrowFly,
		Mode:        leg.mode,
		Origin:      leg.from,
		Destination: leg.to,
		Duration:    leg.duration,
	}

	path, err := s.paths.Wait(leg.key)
	if err == nil && path != nil && path.Duration > 0 {
		section.Kind = domain.SectionStreetNetwork
		section.Duration = path.Duration
		section.Geometry = append([][2]float64(nil), path.Geometry...)
	} else if err != nil {
		s.logger.Debug("Fallback direct path unavailable, using crow fly",
			zap.String("key", leg.key.String()),
			zap.Error(err))
	}

	if forward {
		section.BeginDateTime = anchor
		section.EndDateTime = anchor.Add(seconds(section.Duration))
	} else {
		section.EndDateTime = anchor
		section.BeginDateTime = anchor.Add(-seconds(section.Duration))
	}
	return section
}

func parkingSection(kind domain.SectionKind, place domain.Place, begin, end time.Time) domain.Section {
	return domain.Section{
		ID:            uuid.NewString(),
		Kind:          kind,
		Mode:          domain.ModeCar,
		Origin:        place,
		Destination:   place,
		BeginDateTime: begin,
		EndDateTime:   end,
		Duration:      int(end.Sub(begin) / time.Second),
	}
}

// directJourney - поездка из одного участка без ОТ
func directJourney(mode domain.FallbackMode, path *domain.DirectPath, origin, destination domain.Place, params domain.JourneyRequestParameters) *domain.Journey {
	begin := params.Datetime
	end := begin.Add(seconds(path.Duration))
	if !params.Clockwise {
		end = params.Datetime
		begin = end.Add(-seconds(path.Duration))
	}

	kind := domain.SectionStreetNetwork
	if path.Duration == 0 {
		kind = domain.SectionCrowFly
	}

	j := &domain.Journey{
		InternalID: uuid.NewString(),
		RawType:    domain.NonPtType(mode),
		Modes:      domain.ModePair{Departure: mode, Arrival: mode},
		Sections: []domain.Section{{
			ID:            uuid.NewString(),
			Kind:          kind,
			Mode:          mode,
			Origin:        origin,
			Destination:   destination,
			BeginDateTime: begin,
			EndDateTime:   end,
			Duration:      path.Duration,
			Geometry:      append([][2]float64(nil), path.Geometry...),
		}},
		Tags: []string{string(mode), "non_pt"},
	}
	j.Retime()
	return j
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
