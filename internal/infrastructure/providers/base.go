// Package providers implements HTTP connectors to live-data providers
// (bike sharing, car parks, ridesharing, equipment, realtime schedules).
package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/journey-planner/internal/breaker"
	"github.com/journey-planner/internal/domain"
	"github.com/journey-planner/internal/domain/repository"
	"go.uber.org/zap"
)

const defaultTimeout = 2 * time.Second

// ErrNotFound - провайдер не знает запрошенного объекта
var ErrNotFound = errors.New("provider: object not found")

// Deps - общие зависимости всех провайдеров
type Deps struct {
	Recorder     repository.StatusRecorder
	FailMax      int
	ResetTimeout time.Duration
	Timeout      time.Duration
	Logger       *zap.Logger
}

// CommonArgs - аргументы, общие для всех классов
type CommonArgs struct {
	Timeout       time.Duration         `mapstructure:"timeout"`
	APIKey        string                `mapstructure:"api_key"`
	Networks      []string              `mapstructure:"networks"`
	Operators     []string              `mapstructure:"operators"`
	URIPrefixes   []string              `mapstructure:"uri_prefixes"`
	FeedPublisher *domain.FeedPublisher `mapstructure:"feed_publisher"`
}

// coverage пустой - провайдер обслуживает любое место
type coverage struct {
	networks  []string
	operators []string
	prefixes  []string
}

func (c coverage) empty() bool {
	return len(c.networks) == 0 && len(c.operators) == 0 && len(c.prefixes) == 0
}

func (c coverage) matches(place domain.Place) bool {
	if c.empty() {
		return true
	}
	for _, n := range c.networks {
		if strings.EqualFold(n, place.Property("network")) {
			return true
		}
	}
	for _, o := range c.operators {
		if strings.EqualFold(o, place.Property("operator")) {
			return true
		}
	}
	for _, p := range c.prefixes {
		if strings.HasPrefix(place.URI, p) {
			return true
		}
	}
	return false
}

// base - HTTP клиент, breaker и запись статусов одного провайдера
type base struct {
	id       string
	kind     domain.ProviderKind
	coverage coverage
	feed     *domain.FeedPublisher
	apiKey   string

	httpClient *http.Client
	breaker    *breaker.CircuitBreaker
	recorder   repository.StatusRecorder
	logger     *zap.Logger
	now        func() time.Time
}

func newBase(id string, kind domain.ProviderKind, args CommonArgs, deps Deps) base {
	timeout := args.Timeout
	if timeout <= 0 {
		timeout = deps.Timeout
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("provider_id", id), zap.String("provider_kind", string(kind)))

	return base{
		id:   id,
		kind: kind,
		coverage: coverage{
			networks:  args.Networks,
			operators: args.Operators,
			prefixes:  args.URIPrefixes,
		},
		feed:       args.FeedPublisher,
		apiKey:     args.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		breaker: breaker.New(breaker.Settings{
			Name:         fmt.Sprintf("provider:%s", id),
			FailMax:      deps.FailMax,
			ResetTimeout: deps.ResetTimeout,
			Logger:       logger,
		}),
		recorder: deps.Recorder,
		logger:   logger,
		now:      time.Now,
	}
}

func (b *base) ID() string {
	return b.id
}

func (b *base) Handles(place domain.Place) bool {
	return b.coverage.matches(place)
}

func (b *base) FeedPublisher() *domain.FeedPublisher {
	return b.feed
}

// getJSON выполняет GET через breaker и записывает статус вызова.
// 404 возвращается как ErrNotFound и не считается отказом провайдера.
func (b *base) getJSON(ctx context.Context, endpoint string, out any) error {
	start := b.now()
	notFound := false

	err := b.breaker.Call(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if b.apiKey != "" {
			req.Header.Set("Authorization", "apiKey "+b.apiKey)
		}

		resp, err := b.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("failed to execute request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			notFound = true
			return nil
		}
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return fmt.Errorf("provider API error: status %d, body: %s", resp.StatusCode, string(body))
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	})

	b.record(ctx, start, err)
	if err != nil {
		b.logger.Warn("Provider call failed", zap.Error(err))
		return err
	}
	if notFound {
		return ErrNotFound
	}
	return nil
}

func (b *base) record(ctx context.Context, start time.Time, err error) {
	if b.recorder == nil {
		return
	}
	event := domain.ProviderStatusEvent{
		ProviderID: b.id,
		Kind:       b.kind,
		Status:     classify(err),
		LatencyMS:  b.now().Sub(start).Milliseconds(),
		At:         start,
	}
	if err != nil {
		event.Message = err.Error()
	}
	b.recorder.Record(ctx, event)
}

func classify(err error) domain.ProviderCallStatus {
	var netErr net.Error
	switch {
	case err == nil:
		return domain.CallOK
	case errors.Is(err, breaker.ErrCircuitOpen):
		return domain.CallCircuitOpen
	case errors.Is(err, context.DeadlineExceeded):
		return domain.CallTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		return domain.CallTimeout
	default:
		return domain.CallOther
	}
}

// objectID - идентификатор объекта у провайдера: свойство места или хвост URI
func objectID(place domain.Place, property string) string {
	if v := place.Property(property); v != "" {
		return v
	}
	if i := strings.LastIndex(place.URI, ":"); i >= 0 {
		return place.URI[i+1:]
	}
	return place.URI
}
