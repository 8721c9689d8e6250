package qualifier

import (
	"testing"
	"time"

	"github.com/journey-planner/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func journey(id, rawType string, depart, arrive time.Duration, transfers int, sections ...domain.Section) *domain.Journey {
	return &domain.Journey{
		InternalID:        id,
		RawType:           rawType,
		DepartureDateTime: base.Add(depart),
		ArrivalDateTime:   base.Add(arrive),
		Duration:          int((arrive - depart).Seconds()),
		NbTransfers:       transfers,
		Sections:          sections,
	}
}

func pt(duration int) domain.Section {
	return domain.Section{Kind: domain.SectionPublicTransport, Duration: duration}
}

func walk(duration int) domain.Section {
	return domain.Section{Kind: domain.SectionStreetNetwork, Mode: domain.ModeWalking, Duration: duration}
}

func ids(journeys []*domain.Journey) []string {
	out := make([]string, len(journeys))
	for i, j := range journeys {
		out[i] = j.InternalID
	}
	return out
}

func TestQualify_StandardProfile(t *testing.T) {
	journeys := []*domain.Journey{
		journey("best", RawBest, 0, 30*time.Minute, 1, walk(300), pt(1200)),
		journey("walk-less", RawLessFallbackWalk, 0, 35*time.Minute, 2, walk(60), pt(1800)),
		journey("walk", domain.NonPtType(domain.ModeWalking), 0, 50*time.Minute, 0, walk(3000)),
		journey("car", "car_journey", 0, 20*time.Minute, 0, walk(1200)),
	}

	result := Qualify(journeys, LookupProfile("standard"), Options{Clockwise: true})

	require.Equal(t, []string{"best", "walk-less", "walk"}, ids(result))
	assert.Equal(t, LabelRapid, result[0].Type)
	assert.Equal(t, LabelComfort, result[1].Type)
	assert.Equal(t, LabelHealthy, result[2].Type)
}

func TestQualify_FirstNonEmptyBucketWins(t *testing.T) {
	journeys := []*domain.Journey{
		journey("bss", RawLessFallbackBss, 0, 30*time.Minute, 1, walk(100), pt(1000)),
		journey("fastest", RawFastest, 0, 25*time.Minute, 1, walk(200), pt(1000)),
	}

	result := Qualify(journeys, LookupProfile("standard"), Options{Clockwise: true})

	require.Len(t, result, 2)
	assert.Equal(t, LabelComfort, result[0].Type)
	// non_pt_walk, non_pt_bss и comfort пусты, healthy достается fastest
	assert.Equal(t, LabelHealthy, result[1].Type)
}

func TestQualify_OneLabelPerRule(t *testing.T) {
	journeys := []*domain.Journey{
		journey("late", RawBest, 0, 40*time.Minute, 0, pt(2400)),
		journey("early", RawBest, 0, 30*time.Minute, 0, pt(1800)),
	}

	result := Qualify(journeys, LookupProfile("standard"), Options{Clockwise: true})

	require.Len(t, result, 1)
	assert.Equal(t, "early", result[0].InternalID)
}

func TestQualify_DebugAndIsochroneKeepUnlabeled(t *testing.T) {
	build := func() []*domain.Journey {
		return []*domain.Journey{
			journey("best", RawBest, 0, 30*time.Minute, 0, pt(1800)),
			journey("other", "unknown_type", 0, 30*time.Minute, 0, pt(1800)),
		}
	}

	debug := Qualify(build(), LookupProfile("standard"), Options{Debug: true, Clockwise: true})
	require.Len(t, debug, 2)
	assert.Empty(t, debug[1].Type)
	assert.Contains(t, debug[1].Tags, TagUnqualified)

	iso := Qualify(build(), LookupProfile("standard"), Options{Isochrone: true, Clockwise: true})
	require.Len(t, iso, 2)
	assert.NotContains(t, iso[1].Tags, TagUnqualified)
}

func TestQualify_Deterministic(t *testing.T) {
	journeys := []*domain.Journey{
		journey("a", RawBest, 0, 30*time.Minute, 1, walk(300), pt(1500)),
		journey("b", RawBest, 0, 30*time.Minute, 1, walk(300), pt(1500)),
		journey("c", RawLessFallbackWalk, 0, 32*time.Minute, 0, walk(100), pt(1800)),
		journey("d", RawLessFallbackWalk, 0, 32*time.Minute, 2, walk(100), pt(1800)),
		journey("e", RawComfort, 0, 40*time.Minute, 0, pt(2400)),
	}
	profile := LookupProfile("standard")
	opts := Options{Debug: true, Clockwise: true}

	labels := func() map[string]string {
		out := make(map[string]string)
		for _, j := range Qualify(journeys, profile, opts) {
			out[j.InternalID] = j.Type
		}
		return out
	}

	first := labels()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, labels())
	}
	assert.Equal(t, LabelRapid, first["a"])
	assert.Equal(t, LabelComfort, first["c"])
	assert.Equal(t, LabelHealthy, first["e"])
}

func TestLookupProfile_UnknownFallsBackToStandard(t *testing.T) {
	p := LookupProfile("astronaut")

	assert.Equal(t, DefaultProfile, p.Name)
	assert.True(t, p.Allows(domain.ModeCar))
	assert.False(t, LookupProfile("wheelchair").Allows(domain.ModeBike))
	assert.Len(t, ProfileNames(), 7)
}
