package providers

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/journey-planner/internal/domain"
	"github.com/journey-planner/internal/domain/repository"
)

const ClassNextDeparturesHTTP = "next_departures_http"

// NextDeparturesArgs - аргументы класса next_departures_http
type NextDeparturesArgs struct {
	CommonArgs `mapstructure:",squash"`
	URL        string `mapstructure:"url" validate:"required,url"`
}

type nextDeparturesResponse struct {
	Departures []struct {
		Line      string    `json:"line"`
		Direction string    `json:"direction"`
		DateTime  time.Time `json:"datetime"`
		Realtime  bool      `json:"realtime"`
	} `json:"departures"`
}

type nextDeparturesProvider struct {
	base
	url string
}

// NewNextDeparturesHTTP создает провайдера ближайших отправлений
func NewNextDeparturesHTTP(id string, args NextDeparturesArgs, deps Deps) repository.RealtimeProvider {
	return &nextDeparturesProvider{
		base: newBase(id, domain.ProviderRealtime, args.CommonArgs, deps),
		url:  strings.TrimSuffix(args.URL, "/"),
	}
}

// NextPassages - отправления не раньше from, по времени; lineURI пустой - все линии
func (p *nextDeparturesProvider) NextPassages(ctx context.Context, stopURI, lineURI string, from time.Time) ([]domain.Passage, error) {
	// код остановки у провайдера - хвост URI ("stop_point:SNCF:87391003" -> "87391003")
	code := objectID(domain.Place{URI: stopURI}, "")
	query := url.Values{}
	if lineURI != "" {
		query.Set("line", lineURI)
	}
	query.Set("from", from.UTC().Format(time.RFC3339))
	endpoint := fmt.Sprintf("%s/stops/%s/next_departures?%s", p.url, url.PathEscape(code), query.Encode())

	var resp nextDeparturesResponse
	if err := p.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, err
	}

	passages := make([]domain.Passage, 0, len(resp.Departures))
	for _, d := range resp.Departures {
		if d.DateTime.Before(from) {
			continue
		}
		if lineURI != "" && d.Line != "" && d.Line != lineURI {
			continue
		}
		passages = append(passages, domain.Passage{
			StopPointURI: stopURI,
			LineURI:      d.Line,
			Direction:    d.Direction,
			DateTime:     d.DateTime,
			IsRealtime:   d.Realtime,
		})
	}
	sort.SliceStable(passages, func(i, j int) bool {
		return passages[i].DateTime.Before(passages[j].DateTime)
	})
	return passages, nil
}
