package providers

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/journey-planner/internal/domain"
	"github.com/journey-planner/internal/domain/repository"
)

const ClassRidesharingHTTP = "ridesharing_http"

// RidesharingArgs - аргументы класса ridesharing_http
type RidesharingArgs struct {
	CommonArgs `mapstructure:",squash"`
	URL        string        `mapstructure:"url" validate:"required,url"`
	Operator   string        `mapstructure:"operator" validate:"required"`
	TimeMargin time.Duration `mapstructure:"time_margin"`
	MaxOffers  int           `mapstructure:"max_offers" validate:"gte=0"`
}

type ridesharingPoint struct {
	Lat  float64   `json:"lat"`
	Lon  float64   `json:"lon"`
	Time time.Time `json:"time"`
}

type ridesharingResponse struct {
	Journeys []struct {
		ID     string `json:"id"`
		Driver struct {
			Alias string `json:"alias"`
		} `json:"driver"`
		Price struct {
			Amount   float64 `json:"amount"`
			Currency string  `json:"currency"`
		} `json:"price"`
		Pickup  ridesharingPoint `json:"pickup"`
		Dropoff ridesharingPoint `json:"dropoff"`
		Seats   int              `json:"available_seats"`
	} `json:"journeys"`
}

type ridesharingProvider struct {
	base
	url       string
	operator  string
	margin    time.Duration
	maxOffers int
}

// NewRidesharingHTTP создает провайдера предложений попутчиков
func NewRidesharingHTTP(id string, args RidesharingArgs, deps Deps) repository.RidesharingProvider {
	margin := args.TimeMargin
	if margin <= 0 {
		margin = 30 * time.Minute
	}
	return &ridesharingProvider{
		base:      newBase(id, domain.ProviderRidesharing, args.CommonArgs, deps),
		url:       strings.TrimSuffix(args.URL, "/"),
		operator:  args.Operator,
		margin:    margin,
		maxOffers: args.MaxOffers,
	}
}

// Offers возвращает предложения с посадкой в окне [datetime, datetime+margin], по времени посадки
func (p *ridesharingProvider) Offers(ctx context.Context, from, to domain.Place, datetime time.Time) ([]domain.RidesharingOffer, error) {
	query := url.Values{}
	query.Set("from_lat", strconv.FormatFloat(from.Coord.Lat, 'f', 6, 64))
	query.Set("from_lon", strconv.FormatFloat(from.Coord.Lon, 'f', 6, 64))
	query.Set("to_lat", strconv.FormatFloat(to.Coord.Lat, 'f', 6, 64))
	query.Set("to_lon", strconv.FormatFloat(to.Coord.Lon, 'f', 6, 64))
	query.Set("departure", datetime.UTC().Format(time.RFC3339))

	var resp ridesharingResponse
	if err := p.getJSON(ctx, p.url+"/journeys?"+query.Encode(), &resp); err != nil {
		return nil, err
	}

	latest := datetime.Add(p.margin)
	offers := make([]domain.RidesharingOffer, 0, len(resp.Journeys))
	for _, j := range resp.Journeys {
		if j.Pickup.Time.Before(datetime) || j.Pickup.Time.After(latest) {
			continue
		}
		offers = append(offers, domain.RidesharingOffer{
			ID:             j.ID,
			Operator:       p.operator,
			DriverAlias:    j.Driver.Alias,
			Price:          j.Price.Amount,
			Currency:       j.Price.Currency,
			PickupTime:     j.Pickup.Time,
			DropoffTime:    j.Dropoff.Time,
			Pickup:         domain.Coordinate{Lat: j.Pickup.Lat, Lon: j.Pickup.Lon},
			Dropoff:        domain.Coordinate{Lat: j.Dropoff.Lat, Lon: j.Dropoff.Lon},
			AvailableSeats: j.Seats,
		})
	}
	sort.SliceStable(offers, func(i, k int) bool {
		return offers[i].PickupTime.Before(offers[k].PickupTime)
	})
	if p.maxOffers > 0 && len(offers) > p.maxOffers {
		offers = offers[:p.maxOffers]
	}
	return offers, nil
}
