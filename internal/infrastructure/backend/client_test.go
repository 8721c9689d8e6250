package backend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/journey-planner/internal/domain"
	"github.com/journey-planner/internal/domain/repository"
	"github.com/journey-planner/internal/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendAndReceive(ctx context.Context, req *transport.Request, instanceKey string, timeout time.Duration) (*transport.Response, error) {
	args := m.Called(ctx, req, instanceKey, timeout)
	if resp := args.Get(0); resp != nil {
		return resp.(*transport.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

var testTimeouts = Timeouts{Places: time.Second, StreetNetwork: 2 * time.Second, Planner: 3 * time.Second}

func newTestClient(sender *MockSender) *Client {
	return NewClient(sender, "fr-idf", testTimeouts, zap.NewNop())
}

func TestClient_Place(t *testing.T) {
	sender := new(MockSender)
	client := newTestClient(sender)

	sender.On("SendAndReceive", mock.Anything, mock.MatchedBy(func(r *transport.Request) bool {
		return r.RequestedAPI == transport.APIPlaceURI && r.PlaceURI.URI == "stop_area:A"
	}), "fr-idf", time.Second).Return(&transport.Response{
		Places: []domain.Place{{URI: "stop_area:A", Kind: domain.PlaceStopArea}},
	}, nil)

	place, err := client.Place(context.Background(), "stop_area:A")

	require.NoError(t, err)
	assert.Equal(t, "stop_area:A", place.URI)
	assert.Equal(t, "fr-idf", place.Region)
	sender.AssertExpectations(t)
}

func TestClient_Place_NotFound(t *testing.T) {
	sender := new(MockSender)
	client := newTestClient(sender)

	sender.On("SendAndReceive", mock.Anything, mock.Anything, "fr-idf", time.Second).
		Return(&transport.Response{Error: &transport.ResponseError{ID: "unknown_object"}}, nil)

	_, err := client.Place(context.Background(), "stop_area:missing")

	assert.ErrorIs(t, err, domain.ErrPlaceNotFound)
}

func TestClient_Place_TransportFailure(t *testing.T) {
	sender := new(MockSender)
	client := newTestClient(sender)

	dead := &transport.DeadBackendError{Instance: "fr-idf", Err: transport.ErrPollTimeout}
	sender.On("SendAndReceive", mock.Anything, mock.Anything, "fr-idf", time.Second).Return(nil, dead)

	_, err := client.Place(context.Background(), "stop_area:A")

	var target *transport.DeadBackendError
	assert.True(t, errors.As(err, &target))
}

func TestClient_RoutingMatrix(t *testing.T) {
	origin := domain.Place{URI: "address:1"}
	candidates := []domain.Place{{URI: "sp:1"}, {URI: "sp:2"}}

	t.Run("forward reads the first row", func(t *testing.T) {
		sender := new(MockSender)
		client := newTestClient(sender)

		sender.On("SendAndReceive", mock.Anything, mock.MatchedBy(func(r *transport.Request) bool {
			m := r.RoutingMatrix
			return m != nil && len(m.Sources) == 1 && len(m.Targets) == 2 && m.Sources[0].URI == "address:1"
		}), "fr-idf", 2*time.Second).Return(&transport.Response{
			RoutingMatrix: &transport.RoutingMatrixResponse{Rows: [][]domain.DurationElement{{
				{Duration: 60, Status: domain.StatusReached},
				{Duration: 0, Status: domain.StatusUnreached},
			}}},
		}, nil)

		elements, err := client.RoutingMatrix(context.Background(), repository.MatrixQuery{
			Mode: domain.ModeWalking, Origin: origin, Candidates: candidates, MaxDuration: 600,
		})

		require.NoError(t, err)
		require.Len(t, elements, 2)
		assert.Equal(t, 60, elements[0].Duration)
		assert.Equal(t, domain.StatusUnreached, elements[1].Status)
	})

	t.Run("reverse reads the first column", func(t *testing.T) {
		sender := new(MockSender)
		client := newTestClient(sender)

		sender.On("SendAndReceive", mock.Anything, mock.MatchedBy(func(r *transport.Request) bool {
			m := r.RoutingMatrix
			return m != nil && len(m.Sources) == 2 && len(m.Targets) == 1
		}), "fr-idf", 2*time.Second).Return(&transport.Response{
			RoutingMatrix: &transport.RoutingMatrixResponse{Rows: [][]domain.DurationElement{
				{{Duration: 30, Status: domain.StatusReached}},
				{{Duration: 90, Status: domain.StatusReached}},
			}},
		}, nil)

		elements, err := client.RoutingMatrix(context.Background(), repository.MatrixQuery{
			Mode: domain.ModeWalking, Origin: origin, Candidates: candidates, MaxDuration: 600, Reverse: true,
		})

		require.NoError(t, err)
		assert.Equal(t, 30, elements[0].Duration)
		assert.Equal(t, 90, elements[1].Duration)
	})

	t.Run("shape mismatch", func(t *testing.T) {
		sender := new(MockSender)
		client := newTestClient(sender)

		sender.On("SendAndReceive", mock.Anything, mock.Anything, "fr-idf", 2*time.Second).Return(&transport.Response{
			RoutingMatrix: &transport.RoutingMatrixResponse{Rows: [][]domain.DurationElement{{{Duration: 30}}}},
		}, nil)

		_, err := client.RoutingMatrix(context.Background(), repository.MatrixQuery{
			Mode: domain.ModeWalking, Origin: origin, Candidates: candidates,
		})

		assert.Error(t, err)
	})
}

func TestClient_DirectPath(t *testing.T) {
	sender := new(MockSender)
	client := newTestClient(sender)

	key := domain.PathKey{Mode: domain.ModeBike, OriginURI: "a", DestinationURI: "b", Role: domain.RoleDirect}
	feeds := []domain.FeedPublisher{{ID: "osm", Name: "OpenStreetMap"}}
	sender.On("SendAndReceive", mock.Anything, mock.MatchedBy(func(r *transport.Request) bool {
		return r.RequestedAPI == transport.APIDirectPath && r.DirectPath.Mode == "bike"
	}), "fr-idf", 2*time.Second).Return(&transport.Response{
		DirectPath:     &domain.DirectPath{Duration: 900, Distance: 4000},
		FeedPublishers: feeds,
	}, nil)

	path, err := client.DirectPath(context.Background(), domain.DirectPathQuery{
		Key:         key,
		Origin:      domain.Place{URI: "a"},
		Destination: domain.Place{URI: "b"},
		Speed:       4.1,
	})

	require.NoError(t, err)
	assert.Equal(t, 900, path.Duration)
	assert.Equal(t, domain.ModeBike, path.Mode)
	assert.Equal(t, domain.RoleDirect, path.Role)
	assert.Equal(t, feeds, path.Feeds)
}

func TestClient_PtJourneys(t *testing.T) {
	depart := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	t.Run("maps journeys and keeps the backend type aside", func(t *testing.T) {
		sender := new(MockSender)
		client := newTestClient(sender)

		sender.On("SendAndReceive", mock.Anything, mock.MatchedBy(func(r *transport.Request) bool {
			p := r.PtPlanner
			return p != nil &&
				len(p.Origins) == 2 && p.Origins[0].PlaceURI == "sp:1" && p.Origins[0].AccessDuration == 60 &&
				len(p.Destinations) == 1 && p.MaxTransfers == 3
		}), "fr-idf", 3*time.Second).Return(&transport.Response{
			Journeys: []transport.WireJourney{{
				Type:              "best",
				DepartureDateTime: depart,
				ArrivalDateTime:   depart.Add(30 * time.Minute),
				Duration:          1800,
				NbTransfers:       1,
			}},
			FeedPublishers: []domain.FeedPublisher{{ID: "gtfs"}},
		}, nil)

		result, err := client.PtJourneys(context.Background(), repository.PtQuery{
			Origins:      map[string]int{"sp:2": 120, "sp:1": 60},
			Destinations: map[string]int{"sp:9": 30},
			Params:       domain.JourneyRequestParameters{Datetime: depart, MaxTransfers: 3},
		})

		require.NoError(t, err)
		require.Len(t, result.Journeys, 1)
		assert.Equal(t, "best", result.Journeys[0].RawType)
		assert.Empty(t, result.Journeys[0].Type)
		assert.Equal(t, 1800, result.Journeys[0].Duration)
		assert.Len(t, result.FeedPublishers, 1)
	})

	t.Run("no_origin becomes a functional error", func(t *testing.T) {
		sender := new(MockSender)
		client := newTestClient(sender)

		sender.On("SendAndReceive", mock.Anything, mock.Anything, "fr-idf", 3*time.Second).
			Return(&transport.Response{Error: &transport.ResponseError{ID: "no_origin", Message: "origin not reachable"}}, nil)

		_, err := client.PtJourneys(context.Background(), repository.PtQuery{})

		var noSolution *domain.NoSolutionError
		require.True(t, errors.As(err, &noSolution))
		assert.Equal(t, domain.ReasonNoOrigin, noSolution.Reason)
	})

	t.Run("other error ids are backend errors", func(t *testing.T) {
		sender := new(MockSender)
		client := newTestClient(sender)

		sender.On("SendAndReceive", mock.Anything, mock.Anything, "fr-idf", 3*time.Second).
			Return(&transport.Response{Error: &transport.ResponseError{ID: "internal_error"}}, nil)

		_, err := client.PtJourneys(context.Background(), repository.PtQuery{})

		var backendErr *domain.BackendError
		require.True(t, errors.As(err, &backendErr))
		assert.Equal(t, "internal_error", backendErr.ID)
	})
}
