package usecase

import (
	"context"

	"github.com/journey-planner/internal/domain"
	"github.com/journey-planner/internal/domain/repository"
	"github.com/journey-planner/internal/usecase/dto"
)

// ProviderCatalog - объединенное представление одного реестра без типа провайдера
type ProviderCatalog interface {
	Kind() domain.ProviderKind
	List(ctx context.Context) []repository.Provider
}

// StatusLookup - последний известный статус провайдера
type StatusLookup interface {
	Latest(providerID string) (domain.ProviderStatusEvent, bool)
}

type kindedSource[T repository.Provider] interface {
	ProviderSource[T]
	Kind() domain.ProviderKind
}

type catalog[T repository.Provider] struct {
	src kindedSource[T]
}

// CatalogOf стирает тип провайдера у реестра
func CatalogOf[T repository.Provider](src kindedSource[T]) ProviderCatalog {
	return catalog[T]{src: src}
}

func (c catalog[T]) Kind() domain.ProviderKind {
	return c.src.Kind()
}

func (c catalog[T]) List(ctx context.Context) []repository.Provider {
	providers := c.src.Providers(ctx)
	out := make([]repository.Provider, 0, len(providers))
	for _, p := range providers {
		out = append(out, p)
	}
	return out
}

// ProvidersUseCase - список провайдеров всех реестров с последним статусом
type ProvidersUseCase struct {
	catalogs []ProviderCatalog
	statuses StatusLookup
}

// NewProvidersUseCase создает новый ProvidersUseCase
func NewProvidersUseCase(statuses StatusLookup, catalogs ...ProviderCatalog) *ProvidersUseCase {
	return &ProvidersUseCase{
		catalogs: catalogs,
		statuses: statuses,
	}
}

// List возвращает провайдеров в порядке реестров, внутри реестра - по id
func (uc *ProvidersUseCase) List(ctx context.Context, kind domain.ProviderKind) *dto.ProvidersResponse {
	resp := &dto.ProvidersResponse{Providers: []dto.ProviderDTO{}}
	for _, c := range uc.catalogs {
		if kind != "" && c.Kind() != kind {
			continue
		}
		for _, p := range c.List(ctx) {
			item := dto.ProviderDTO{
				ID:            p.ID(),
				Kind:          c.Kind(),
				FeedPublisher: p.FeedPublisher(),
			}
			if uc.statuses != nil {
				if ev, ok := uc.statuses.Latest(p.ID()); ok {
					item.LastStatus = &ev
				}
			}
			resp.Providers = append(resp.Providers, item)
		}
	}
	return resp
}
