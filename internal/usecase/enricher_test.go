package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/journey-planner/internal/domain"
	"github.com/journey-planner/internal/domain/repository"
	"github.com/journey-planner/internal/usecase/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeProvider обслуживает места с заданным префиксом URI
type fakeProvider struct {
	id     string
	prefix string
	feed   *domain.FeedPublisher
	err    error
}

func (p *fakeProvider) ID() string                           { return p.id }
func (p *fakeProvider) Handles(place domain.Place) bool      { return strings.HasPrefix(place.URI, p.prefix) }
func (p *fakeProvider) FeedPublisher() *domain.FeedPublisher { return p.feed }

type fakeBss struct{ fakeProvider }

func (p *fakeBss) StandsAt(ctx context.Context, place domain.Place) (*domain.Stands, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &domain.Stands{AvailableBikes: len(place.URI), Status: "open"}, nil
}

type fakeCarPark struct{ fakeProvider }

func (p *fakeCarPark) Availability(ctx context.Context, place domain.Place) (*domain.ParkingAvailability, error) {
	return &domain.ParkingAvailability{Available: 42}, p.err
}

type fakeEquipment struct{ fakeProvider }

func (p *fakeEquipment) Reports(ctx context.Context, uris []string) ([]domain.EquipmentReport, error) {
	if p.err != nil {
		return nil, p.err
	}
	reports := make([]domain.EquipmentReport, len(uris))
	for i, uri := range uris {
		reports[i] = domain.EquipmentReport{StopPointURI: uri, Status: "available"}
	}
	return reports, nil
}

type fakeRealtime struct {
	fakeProvider
	passages []domain.Passage
}

func (p *fakeRealtime) NextPassages(ctx context.Context, stopURI, lineURI string, from time.Time) ([]domain.Passage, error) {
	return p.passages, p.err
}

type fakeRidesharing struct{ fakeProvider }

func (p *fakeRidesharing) Offers(ctx context.Context, from, to domain.Place, datetime time.Time) ([]domain.RidesharingOffer, error) {
	return []domain.RidesharingOffer{{ID: "offer:1", PickupTime: datetime}}, p.err
}

func TestEnricher_Enrich(t *testing.T) {
	velib := &domain.FeedPublisher{ID: "velib", Name: "Velib"}
	depart := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	enricher := NewEnricher(EnricherSources{
		Bss:         staticSource[repository.BssProvider]{&fakeBss{fakeProvider{id: "velib", prefix: "bss:", feed: velib}}},
		CarParks:    staticSource[repository.CarParkProvider]{&fakeCarPark{fakeProvider{id: "parking", prefix: "sp:", err: errors.New("timeout")}}},
		Equipment:   staticSource[repository.EquipmentProvider]{&fakeEquipment{fakeProvider{id: "lifts", prefix: "sp:"}}},
		Realtime:    staticSource[repository.RealtimeProvider]{&fakeRealtime{fakeProvider: fakeProvider{id: "rt", prefix: "sp:"}, passages: []domain.Passage{{LineURI: "line:1", DateTime: depart.Add(3 * time.Minute)}}}},
		Ridesharing: staticSource[repository.RidesharingProvider]{&fakeRidesharing{fakeProvider{id: "blablacar", prefix: "addr:"}}},
	}, zap.NewNop())

	j := &domain.Journey{Sections: []domain.Section{
		{Kind: domain.SectionStreetNetwork, Mode: domain.ModeRidesharing, Origin: domain.Place{URI: "addr:1"}, Destination: domain.Place{URI: "bss:a"}, BeginDateTime: depart},
		{Kind: domain.SectionStreetNetwork, Mode: domain.ModeBss, Origin: domain.Place{URI: "bss:a"}, Destination: domain.Place{URI: "bss:bb"}},
		{Kind: domain.SectionPark, Mode: domain.ModeCar, Origin: domain.Place{URI: "sp:1"}},
		{Kind: domain.SectionPublicTransport, Origin: domain.Place{URI: "sp:1"}, Destination: domain.Place{URI: "sp:2"}, LineURI: "line:1"},
		{Kind: domain.SectionStreetNetwork, Mode: domain.ModeWalking, Origin: domain.Place{URI: "sp:2"}, Destination: domain.Place{URI: "addr:2"}},
	}}

	feeds := enricher.Enrich(context.Background(), []*domain.Journey{j})

	require.Len(t, j.Sections[0].RidesharingOffers, 1)
	assert.Equal(t, depart, j.Sections[0].RidesharingOffers[0].PickupTime)

	require.NotNil(t, j.Sections[1].Stands)
	require.NotNil(t, j.Sections[1].DropoffStands)
	assert.Equal(t, 5, j.Sections[1].Stands.AvailableBikes)
	assert.Equal(t, 6, j.Sections[1].DropoffStands.AvailableBikes)

	// сбой провайдера парковок только убирает этот кусок
	assert.Nil(t, j.Sections[2].Parking)

	require.Len(t, j.Sections[3].Equipments, 2)
	require.NotNil(t, j.Sections[3].Realtime)
	assert.Equal(t, depart.Add(3*time.Minute), j.Sections[3].Realtime.DateTime)

	assert.Nil(t, j.Sections[4].Stands)
	assert.Equal(t, []domain.FeedPublisher{*velib}, feeds)
}

func TestEnricher_NoSources(t *testing.T) {
	enricher := NewEnricher(EnricherSources{}, zap.NewNop())
	j := &domain.Journey{Sections: []domain.Section{{Kind: domain.SectionPublicTransport}}}

	feeds := enricher.Enrich(context.Background(), []*domain.Journey{j})

	assert.Empty(t, feeds)
	assert.Nil(t, j.Sections[0].Realtime)
}

func TestDeparturesUseCase_NextDepartures(t *testing.T) {
	depart := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	places := new(MockPlaceRepository)
	places.On("Place", mock.Anything, "sp:1").Return(&domain.Place{URI: "sp:1", Kind: domain.PlaceStopPoint}, nil)
	places.On("Place", mock.Anything, "other:1").Return(nil, domain.ErrPlaceNotFound)

	passages := []domain.Passage{
		{LineURI: "line:1", DateTime: depart.Add(time.Minute)},
		{LineURI: "line:1", DateTime: depart.Add(5 * time.Minute)},
		{LineURI: "line:1", DateTime: depart.Add(9 * time.Minute)},
	}
	feed := &domain.FeedPublisher{ID: "rt"}
	source := staticSource[repository.RealtimeProvider]{
		&fakeRealtime{fakeProvider: fakeProvider{id: "broken", prefix: "none:", err: errors.New("down")}},
		&fakeRealtime{fakeProvider: fakeProvider{id: "rt", prefix: "sp:", feed: feed}, passages: passages},
	}
	uc := NewDeparturesUseCase(NewRegionManager(&Region{Name: "fr-idf", Places: places}), source, zap.NewNop())

	resp, err := uc.NextDepartures(context.Background(), "fr-idf", dto.DeparturesRequest{Stop: "sp:1", Count: 2, Datetime: "20260302T080000"})
	require.NoError(t, err)
	assert.Len(t, resp.Departures, 2)
	assert.Equal(t, []domain.FeedPublisher{*feed}, resp.FeedPublishers)

	resp, err = uc.NextDepartures(context.Background(), "fr-idf", dto.DeparturesRequest{Stop: "other:1"})
	require.NoError(t, err)
	assert.Empty(t, resp.Departures)

	_, err = uc.NextDepartures(context.Background(), "mars", dto.DeparturesRequest{Stop: "sp:1"})
	assert.ErrorIs(t, err, domain.ErrUnknownRegion)
}
