package providers

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/journey-planner/internal/domain"
	"github.com/journey-planner/internal/domain/repository"
)

const (
	ClassGBFS     = "gbfs"
	ClassJCDecaux = "jcdecaux"

	defaultStationMatchRadius = 50.0
)

// GBFSArgs - аргументы класса gbfs
type GBFSArgs struct {
	CommonArgs `mapstructure:",squash"`
	FeedURL    string  `mapstructure:"feed_url" validate:"required,url"`
	MaxRadius  float64 `mapstructure:"max_radius" validate:"gte=0"`
}

type gbfsStationInformation struct {
	Data struct {
		Stations []struct {
			StationID string  `json:"station_id"`
			Lat       float64 `json:"lat"`
			Lon       float64 `json:"lon"`
			Capacity  int     `json:"capacity"`
		} `json:"stations"`
	} `json:"data"`
}

type gbfsStationStatus struct {
	Data struct {
		Stations []struct {
			StationID         string `json:"station_id"`
			NumBikesAvailable int    `json:"num_bikes_available"`
			NumDocksAvailable int    `json:"num_docks_available"`
			IsInstalled       bool   `json:"is_installed"`
			IsRenting         bool   `json:"is_renting"`
			IsReturning       bool   `json:"is_returning"`
		} `json:"stations"`
	} `json:"data"`
}

// gbfsProvider читает station_information и station_status GBFS фида
type gbfsProvider struct {
	base
	feedURL   string
	maxRadius float64
}

// NewGBFS создает провайдера по GBFS фиду
func NewGBFS(id string, args GBFSArgs, deps Deps) repository.BssProvider {
	radius := args.MaxRadius
	if radius == 0 {
		radius = defaultStationMatchRadius
	}
	return &gbfsProvider{
		base:      newBase(id, domain.ProviderBikeShare, args.CommonArgs, deps),
		feedURL:   strings.TrimSuffix(args.FeedURL, "/"),
		maxRadius: radius,
	}
}

// StandsAt ищет станцию по station_id места, иначе ближайшую в радиусе maxRadius
func (p *gbfsProvider) StandsAt(ctx context.Context, place domain.Place) (*domain.Stands, error) {
	var info gbfsStationInformation
	if err := p.getJSON(ctx, p.feedURL+"/station_information.json", &info); err != nil {
		return nil, err
	}

	stationID := place.Property("station_id")
	capacity := 0
	if stationID == "" {
		best := p.maxRadius
		for _, st := range info.Data.Stations {
			d := place.Coord.DistanceTo(domain.Coordinate{Lat: st.Lat, Lon: st.Lon})
			if d <= best {
				best = d
				stationID = st.StationID
				capacity = st.Capacity
			}
		}
	} else {
		for _, st := range info.Data.Stations {
			if st.StationID == stationID {
				capacity = st.Capacity
			}
		}
	}
	if stationID == "" {
		return nil, ErrNotFound
	}

	var status gbfsStationStatus
	if err := p.getJSON(ctx, p.feedURL+"/station_status.json", &status); err != nil {
		return nil, err
	}
	for _, st := range status.Data.Stations {
		if st.StationID != stationID {
			continue
		}
		stands := &domain.Stands{
			AvailableBikes:  st.NumBikesAvailable,
			AvailablePlaces: st.NumDocksAvailable,
			TotalStands:     capacity,
			Status:          "open",
		}
		if stands.TotalStands == 0 {
			stands.TotalStands = st.NumBikesAvailable + st.NumDocksAvailable
		}
		if !st.IsInstalled || (!st.IsRenting && !st.IsReturning) {
			stands.Status = "closed"
		}
		return stands, nil
	}
	return nil, ErrNotFound
}

// JCDecauxArgs - аргументы класса jcdecaux
type JCDecauxArgs struct {
	CommonArgs `mapstructure:",squash"`
	URL        string `mapstructure:"url" validate:"required,url"`
	Contract   string `mapstructure:"contract" validate:"required"`
}

type jcdecauxStation struct {
	Number      int    `json:"number"`
	Status      string `json:"status"`
	TotalStands struct {
		Availabilities struct {
			Bikes  int `json:"bikes"`
			Stands int `json:"stands"`
		} `json:"availabilities"`
		Capacity int `json:"capacity"`
	} `json:"totalStands"`
}

type jcdecauxProvider struct {
	base
	url      string
	contract string
	key      string
}

// NewJCDecaux создает провайдера JCDecaux (vls v3)
func NewJCDecaux(id string, args JCDecauxArgs, deps Deps) repository.BssProvider {
	common := args.CommonArgs
	// ключ JCDecaux передается query-параметром, не заголовком
	common.APIKey = ""
	return &jcdecauxProvider{
		base:     newBase(id, domain.ProviderBikeShare, common, deps),
		url:      strings.TrimSuffix(args.URL, "/"),
		contract: args.Contract,
		key:      args.APIKey,
	}
}

func (p *jcdecauxProvider) StandsAt(ctx context.Context, place domain.Place) (*domain.Stands, error) {
	query := url.Values{}
	query.Set("contract", p.contract)
	if p.key != "" {
		query.Set("apiKey", p.key)
	}
	endpoint := fmt.Sprintf("%s/vls/v3/stations/%s?%s",
		p.url, url.PathEscape(objectID(place, "station_id")), query.Encode())

	var st jcdecauxStation
	if err := p.getJSON(ctx, endpoint, &st); err != nil {
		return nil, err
	}

	status := strings.ToLower(st.Status)
	if status == "" {
		status = "unavailable"
	}
	return &domain.Stands{
		AvailableBikes:  st.TotalStands.Availabilities.Bikes,
		AvailablePlaces: st.TotalStands.Availabilities.Stands,
		TotalStands:     st.TotalStands.Capacity,
		Status:          status,
	}, nil
}
