package backend

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/journey-planner/internal/domain"
	"github.com/journey-planner/internal/domain/repository"
	"github.com/journey-planner/internal/transport"
	"go.uber.org/zap"
)

const (
	errUnknownObject = "unknown_object"
	nearbyCount      = 1000
)

// Sender - то, что умеет transport.Channel
type Sender interface {
	SendAndReceive(ctx context.Context, req *transport.Request, instanceKey string, timeout time.Duration) (*transport.Response, error)
}

// Timeouts - таймауты по типам запросов
type Timeouts struct {
	Places        time.Duration
	StreetNetwork time.Duration
	Planner       time.Duration
}

// Client - клиент planner backend'а одного региона
type Client struct {
	sender   Sender
	instance string
	timeouts Timeouts
	logger   *zap.Logger
}

var (
	_ repository.PlaceRepository         = (*Client)(nil)
	_ repository.StreetNetworkRepository = (*Client)(nil)
	_ repository.PlannerRepository       = (*Client)(nil)
)

// NewClient создает клиента для инстанса instance
func NewClient(sender Sender, instance string, timeouts Timeouts, logger *zap.Logger) *Client {
	return &Client{
		sender:   sender,
		instance: instance,
		timeouts: timeouts,
		logger:   logger.With(zap.String("instance", instance)),
	}
}

// Instance возвращает ключ инстанса
func (c *Client) Instance() string {
	return c.instance
}

// Place возвращает объект по URI
func (c *Client) Place(ctx context.Context, uri string) (*domain.Place, error) {
	resp, err := c.sender.SendAndReceive(ctx, &transport.Request{
		RequestedAPI: transport.APIPlaceURI,
		PlaceURI:     &transport.PlaceURIRequest{URI: uri},
	}, c.instance, c.timeouts.Places)
	if err != nil {
		return nil, err
	}
	if resp.Error != nil {
		if resp.Error.ID == errUnknownObject {
			return nil, fmt.Errorf("%w: %s", domain.ErrPlaceNotFound, uri)
		}
		return nil, &domain.BackendError{ID: resp.Error.ID, Message: resp.Error.Message}
	}
	if len(resp.Places) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrPlaceNotFound, uri)
	}

	place := resp.Places[0]
	if place.Region == "" {
		place.Region = c.instance
	}
	return &place, nil
}

// PlacesNearby возвращает stop point'ы в радиусе от места
func (c *Client) PlacesNearby(ctx context.Context, place domain.Place, radius float64) ([]domain.Place, error) {
	resp, err := c.sender.SendAndReceive(ctx, &transport.Request{
		RequestedAPI: transport.APIPlacesNearby,
		PlacesNearby: &transport.PlacesNearbyRequest{
			URI:    place.URI,
			Coord:  place.Coord,
			Radius: radius,
			Types:  []string{string(domain.PlaceStopPoint)},
			Count:  nearbyCount,
		},
	}, c.instance, c.timeouts.Places)
	if err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, &domain.BackendError{ID: resp.Error.ID, Message: resp.Error.Message}
	}

	c.logger.Debug("Places nearby received",
		zap.String("place", place.URI),
		zap.Float64("radius", radius),
		zap.Int("count", len(resp.Places)))
	return resp.Places, nil
}

// RoutingMatrix считает длительности от места до каждого кандидата (или обратно)
func (c *Client) RoutingMatrix(ctx context.Context, query repository.MatrixQuery) ([]domain.DurationElement, error) {
	origin := []transport.Point{toPoint(query.Origin)}
	candidates := make([]transport.Point, len(query.Candidates))
	for i, p := range query.Candidates {
		candidates[i] = toPoint(p)
	}

	matrix := &transport.RoutingMatrixRequest{
		Mode:        string(query.Mode),
		Sources:     origin,
		Targets:     candidates,
		MaxDuration: query.MaxDuration,
		Speed:       query.Speed,
	}
	if query.Reverse {
		matrix.Sources, matrix.Targets = candidates, origin
	}

	resp, err := c.sender.SendAndReceive(ctx, &transport.Request{
		RequestedAPI:  transport.APIRoutingMatrix,
		RoutingMatrix: matrix,
	}, c.instance, c.timeouts.StreetNetwork)
	if err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, &domain.BackendError{ID: resp.Error.ID, Message: resp.Error.Message}
	}
	if resp.RoutingMatrix == nil {
		return nil, fmt.Errorf("routing matrix response is empty")
	}

	rows := resp.RoutingMatrix.Rows
	elements := make([]domain.DurationElement, len(query.Candidates))
	for i := range query.Candidates {
		var el domain.DurationElement
		var ok bool
		if query.Reverse {
			ok = i < len(rows) && len(rows[i]) > 0
			if ok {
				el = rows[i][0]
			}
		} else {
			ok = len(rows) > 0 && i < len(rows[0])
			if ok {
				el = rows[0][i]
			}
		}
		if !ok {
			return nil, fmt.Errorf("routing matrix shape mismatch: %d candidates", len(query.Candidates))
		}
		elements[i] = el
	}
	return elements, nil
}

// DirectPath строит маршрут без ОТ между двумя местами
func (c *Client) DirectPath(ctx context.Context, query domain.DirectPathQuery) (*domain.DirectPath, error) {
	resp, err := c.sender.SendAndReceive(ctx, &transport.Request{
		RequestedAPI: transport.APIDirectPath,
		DirectPath: &transport.DirectPathRequest{
			Mode:        string(query.Key.Mode),
			Origin:      toPoint(query.Origin),
			Destination: toPoint(query.Destination),
			Datetime:    query.Datetime,
			Clockwise:   query.Clockwise,
			Speed:       query.Speed,
		},
	}, c.instance, c.timeouts.StreetNetwork)
	if err != nil {
		return nil, err
	}
	if resp.Error != nil {
		if reason, ok := domain.ParseNoSolutionReason(resp.Error.ID); ok {
			return nil, domain.NewNoSolution(reason, resp.Error.Message)
		}
		return nil, &domain.BackendError{ID: resp.Error.ID, Message: resp.Error.Message}
	}
	if resp.DirectPath == nil {
		return nil, domain.NewNoSolution(domain.ReasonNoSolution, "empty direct path")
	}

	path := *resp.DirectPath
	path.Mode = query.Key.Mode
	path.Role = query.Key.Role
	path.Feeds = resp.FeedPublishers
	return &path, nil
}

// PtJourneys запрашивает поездки на ОТ
func (c *Client) PtJourneys(ctx context.Context, query repository.PtQuery) (*repository.PtResult, error) {
	p := query.Params
	resp, err := c.sender.SendAndReceive(ctx, &transport.Request{
		RequestedAPI: transport.APIPtPlanner,
		PtPlanner: &transport.PtPlannerRequest{
			Origins:                toLocationContexts(query.Origins),
			Destinations:           toLocationContexts(query.Destinations),
			Datetime:               p.Datetime,
			Clockwise:              p.Clockwise,
			MaxDuration:            p.MaxDuration,
			MaxTransfers:           p.MaxTransfers,
			Wheelchair:             p.Wheelchair,
			RealtimeLevel:          string(p.RealtimeLevel),
			ForbiddenURIs:          p.ForbiddenURIs,
			WalkingTransferPenalty: p.Penalties.Walking,
			TransferPenalty:        p.Penalties.Transfer,
			Isochrone:              query.Isochrone,
		},
	}, c.instance, c.timeouts.Planner)
	if err != nil {
		return nil, err
	}
	if resp.Error != nil {
		if reason, ok := domain.ParseNoSolutionReason(resp.Error.ID); ok {
			return nil, domain.NewNoSolution(reason, resp.Error.Message)
		}
		return nil, &domain.BackendError{ID: resp.Error.ID, Message: resp.Error.Message}
	}

	journeys := make([]*domain.Journey, 0, len(resp.Journeys))
	for _, wj := range resp.Journeys {
		journeys = append(journeys, fromWire(wj))
	}

	return &repository.PtResult{
		Journeys:       journeys,
		FeedPublishers: resp.FeedPublishers,
	}, nil
}

func toPoint(p domain.Place) transport.Point {
	return transport.Point{URI: p.URI, Coord: p.Coord}
}

// toLocationContexts - детерминированный порядок для воспроизводимых запросов
func toLocationContexts(durations map[string]int) []transport.LocationContext {
	uris := make([]string, 0, len(durations))
	for uri := range durations {
		uris = append(uris, uri)
	}
	sort.Strings(uris)

	out := make([]transport.LocationContext, 0, len(uris))
	for _, uri := range uris {
		out = append(out, transport.LocationContext{PlaceURI: uri, AccessDuration: durations[uri]})
	}
	return out
}

func fromWire(wj transport.WireJourney) *domain.Journey {
	sections := make([]domain.Section, len(wj.Sections))
	copy(sections, wj.Sections)
	tags := append([]string(nil), wj.Tags...)

	return &domain.Journey{
		RawType:           wj.Type,
		Tags:              tags,
		Sections:          sections,
		DepartureDateTime: wj.DepartureDateTime,
		ArrivalDateTime:   wj.ArrivalDateTime,
		Duration:          wj.Duration,
		NbTransfers:       wj.NbTransfers,
	}
}
