package providers

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/journey-planner/internal/domain"
	"github.com/journey-planner/internal/domain/repository"
)

const ClassParkingHTTP = "parking_http"

// ParkingArgs - аргументы класса parking_http
type ParkingArgs struct {
	CommonArgs `mapstructure:",squash"`
	URL        string `mapstructure:"url" validate:"required,url"`
}

type parkingResponse struct {
	Available    int    `json:"available"`
	Occupied     int    `json:"occupied"`
	AvailablePRM int    `json:"available_PRM"`
	State        string `json:"state"`
}

type parkingProvider struct {
	base
	url string
}

// NewParkingHTTP создает провайдера заполненности парковок
func NewParkingHTTP(id string, args ParkingArgs, deps Deps) repository.CarParkProvider {
	return &parkingProvider{
		base: newBase(id, domain.ProviderCarPark, args.CommonArgs, deps),
		url:  strings.TrimSuffix(args.URL, "/"),
	}
}

func (p *parkingProvider) Availability(ctx context.Context, place domain.Place) (*domain.ParkingAvailability, error) {
	endpoint := fmt.Sprintf("%s/parkings/%s", p.url, url.PathEscape(objectID(place, "parking_id")))

	var resp parkingResponse
	if err := p.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return &domain.ParkingAvailability{
		Available:    resp.Available,
		Occupied:     resp.Occupied,
		AvailablePRM: resp.AvailablePRM,
		Status:       resp.State,
	}, nil
}
