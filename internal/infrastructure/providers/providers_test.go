package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/journey-planner/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recorder собирает события статусов
type recorder struct {
	mu     sync.Mutex
	events []domain.ProviderStatusEvent
}

func (r *recorder) Record(_ context.Context, ev domain.ProviderStatusEvent) {
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
}

func (r *recorder) statuses() []domain.ProviderCallStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.ProviderCallStatus, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Status)
	}
	return out
}

func testDeps(rec *recorder) Deps {
	return Deps{
		Recorder:     rec,
		FailMax:      2,
		ResetTimeout: time.Hour,
		Timeout:      time.Second,
		Logger:       zap.NewNop(),
	}
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestGBFS_StandsAt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/gbfs/station_information.json":
			writeJSON(t, w, map[string]any{"data": map[string]any{"stations": []map[string]any{
				{"station_id": "far", "lat": 48.8600, "lon": 2.3600, "capacity": 10},
				{"station_id": "near", "lat": 48.85661, "lon": 2.35222, "capacity": 20},
			}}})
		case "/gbfs/station_status.json":
			writeJSON(t, w, map[string]any{"data": map[string]any{"stations": []map[string]any{
				{"station_id": "near", "num_bikes_available": 4, "num_docks_available": 15, "is_installed": true, "is_renting": true, "is_returning": true},
				{"station_id": "far", "num_bikes_available": 0, "num_docks_available": 10, "is_installed": true, "is_renting": false, "is_returning": false},
			}}})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	rec := &recorder{}
	p := NewGBFS("velib", GBFSArgs{FeedURL: server.URL + "/gbfs/"}, testDeps(rec))

	t.Run("nearest station", func(t *testing.T) {
		stands, err := p.StandsAt(context.Background(), domain.Place{Coord: domain.Coordinate{Lat: 48.8566, Lon: 2.3522}})
		require.NoError(t, err)
		assert.Equal(t, &domain.Stands{AvailableBikes: 4, AvailablePlaces: 15, TotalStands: 20, Status: "open"}, stands)
	})

	t.Run("station_id property", func(t *testing.T) {
		stands, err := p.StandsAt(context.Background(), domain.Place{Properties: map[string]string{"station_id": "far"}})
		require.NoError(t, err)
		assert.Equal(t, "closed", stands.Status)
		assert.Equal(t, 10, stands.TotalStands)
	})

	t.Run("no station in radius", func(t *testing.T) {
		_, err := p.StandsAt(context.Background(), domain.Place{Coord: domain.Coordinate{Lat: 45.76, Lon: 4.83}})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	for _, s := range rec.statuses() {
		assert.Equal(t, domain.CallOK, s)
	}
}

func TestJCDecaux_StandsAt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/vls/v3/stations/42", r.URL.Path)
		assert.Equal(t, "lyon", r.URL.Query().Get("contract"))
		assert.Equal(t, "secret", r.URL.Query().Get("apiKey"))
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(t, w, map[string]any{
			"number": 42,
			"status": "OPEN",
			"totalStands": map[string]any{
				"availabilities": map[string]any{"bikes": 7, "stands": 8},
				"capacity":       15,
			},
		})
	}))
	defer server.Close()

	args := JCDecauxArgs{URL: server.URL, Contract: "lyon"}
	args.APIKey = "secret"
	p := NewJCDecaux("velov", args, testDeps(&recorder{}))

	stands, err := p.StandsAt(context.Background(), domain.Place{URI: "poi:station:42"})
	require.NoError(t, err)
	assert.Equal(t, &domain.Stands{AvailableBikes: 7, AvailablePlaces: 8, TotalStands: 15, Status: "open"}, stands)
}

func TestParking_Availability(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/parkings/P1" {
			writeJSON(t, w, map[string]any{"available": 12, "occupied": 88, "available_PRM": 2, "state": "open"})
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	rec := &recorder{}
	p := NewParkingHTTP("parkings", ParkingArgs{URL: server.URL}, testDeps(rec))

	parking, err := p.Availability(context.Background(), domain.Place{URI: "poi:parking:P1"})
	require.NoError(t, err)
	assert.Equal(t, 12, parking.Available)
	assert.Equal(t, 2, parking.AvailablePRM)

	_, err = p.Availability(context.Background(), domain.Place{URI: "poi:parking:P2"})
	assert.ErrorIs(t, err, ErrNotFound)

	// 404 не является отказом провайдера
	assert.Equal(t, []domain.ProviderCallStatus{domain.CallOK, domain.CallOK}, rec.statuses())
}

func TestRidesharing_Offers(t *testing.T) {
	departure := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/journeys", r.URL.Path)
		assert.Equal(t, departure.Format(time.RFC3339), r.URL.Query().Get("departure"))
		assert.Equal(t, "48.856600", r.URL.Query().Get("from_lat"))
		assert.Equal(t, "apiKey k", r.Header.Get("Authorization"))

		offer := func(id string, pickup time.Time) map[string]any {
			return map[string]any{
				"id":              id,
				"driver":          map[string]any{"alias": "jo"},
				"price":           map[string]any{"amount": 4.5, "currency": "EUR"},
				"pickup":          map[string]any{"lat": 48.85, "lon": 2.35, "time": pickup},
				"dropoff":         map[string]any{"lat": 48.80, "lon": 2.30, "time": pickup.Add(20 * time.Minute)},
				"available_seats": 2,
			}
		}
		writeJSON(t, w, map[string]any{"journeys": []map[string]any{
			offer("late", departure.Add(20*time.Minute)),
			offer("too-early", departure.Add(-time.Minute)),
			offer("early", departure.Add(5*time.Minute)),
			offer("too-late", departure.Add(2*time.Hour)),
		}})
	}))
	defer server.Close()

	args := RidesharingArgs{URL: server.URL, Operator: "blablacar"}
	args.APIKey = "k"
	p := NewRidesharingHTTP("rs", args, testDeps(&recorder{}))

	offers, err := p.Offers(context.Background(),
		domain.Place{Coord: domain.Coordinate{Lat: 48.8566, Lon: 2.3522}},
		domain.Place{Coord: domain.Coordinate{Lat: 48.80, Lon: 2.30}},
		departure)
	require.NoError(t, err)
	require.Len(t, offers, 2)
	assert.Equal(t, "early", offers[0].ID)
	assert.Equal(t, "late", offers[1].ID)
	assert.Equal(t, "blablacar", offers[0].Operator)
	assert.Equal(t, 4.5, offers[0].Price)
}

func TestEquipment_Reports(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, []string{"sp:a", "sp:b"}, r.URL.Query()["stop_point"])
		writeJSON(t, w, map[string]any{"equipments": []map[string]any{
			{"stop_point": "sp:a", "id": "e1", "name": "Lift", "type": "elevator", "status": "available"},
			{"stop_point": "sp:z", "id": "e9", "name": "Lift", "type": "elevator", "status": "unavailable"},
		}})
	}))
	defer server.Close()

	p := NewEquipmentHTTP("eq", EquipmentArgs{URL: server.URL}, testDeps(&recorder{}))

	reports, err := p.Reports(context.Background(), []string{"sp:a", "sp:b", "sp:a"})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "e1", reports[0].EquipmentID)

	reports, err = p.Reports(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestNextDepartures_NextPassages(t *testing.T) {
	from := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/stops/87391003/next_departures", r.URL.Path)
		writeJSON(t, w, map[string]any{"departures": []map[string]any{
			{"line": "line:A", "direction": "Nord", "datetime": from.Add(9 * time.Minute), "realtime": true},
			{"line": "line:A", "direction": "Nord", "datetime": from.Add(-time.Minute), "realtime": true},
			{"line": "line:A", "direction": "Sud", "datetime": from.Add(3 * time.Minute), "realtime": false},
			{"line": "line:B", "direction": "Est", "datetime": from.Add(time.Minute), "realtime": true},
		}})
	}))
	defer server.Close()

	p := NewNextDeparturesHTTP("rt", NextDeparturesArgs{URL: server.URL}, testDeps(&recorder{}))

	passages, err := p.NextPassages(context.Background(), "stop_point:SNCF:87391003", "line:A", from)
	require.NoError(t, err)
	require.Len(t, passages, 2)
	assert.Equal(t, "Sud", passages[0].Direction)
	assert.Equal(t, "Nord", passages[1].Direction)
	assert.Equal(t, "stop_point:SNCF:87391003", passages[0].StopPointURI)
}

func TestBase_BreakerOpensAndRecordsStatus(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	rec := &recorder{}
	p := NewParkingHTTP("parkings", ParkingArgs{URL: server.URL}, testDeps(rec))

	for i := 0; i < 4; i++ {
		_, err := p.Availability(context.Background(), domain.Place{URI: "P1"})
		assert.Error(t, err)
	}

	assert.Equal(t, int32(2), atomic.LoadInt32(&hits), "no request while circuit is open")
	assert.Equal(t, []domain.ProviderCallStatus{
		domain.CallOther, domain.CallOther, domain.CallCircuitOpen, domain.CallCircuitOpen,
	}, rec.statuses())
}

func TestBase_TimeoutClassified(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	rec := &recorder{}
	args := ParkingArgs{URL: server.URL}
	args.Timeout = 50 * time.Millisecond
	p := NewParkingHTTP("slow", args, testDeps(rec))

	_, err := p.Availability(context.Background(), domain.Place{URI: "P1"})
	require.Error(t, err)
	assert.Equal(t, []domain.ProviderCallStatus{domain.CallTimeout}, rec.statuses())
}

func TestCoverage_Handles(t *testing.T) {
	args := EquipmentArgs{URL: "http://localhost"}
	args.Networks = []string{"RATP"}
	args.URIPrefixes = []string{"stop_point:SNCF:"}
	p := NewEquipmentHTTP("eq", args, testDeps(&recorder{}))

	assert.True(t, p.Handles(domain.Place{Properties: map[string]string{"network": "ratp"}}))
	assert.True(t, p.Handles(domain.Place{URI: "stop_point:SNCF:1"}))
	assert.False(t, p.Handles(domain.Place{URI: "stop_point:TCL:1"}))

	open := NewEquipmentHTTP("all", EquipmentArgs{URL: "http://localhost"}, testDeps(&recorder{}))
	assert.True(t, open.Handles(domain.Place{URI: "anything"}))
	assert.Nil(t, open.FeedPublisher())
}
