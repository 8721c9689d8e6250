package usecase

import (
	"sort"

	"github.com/journey-planner/internal/domain/repository"
)

// Region - планировщик одного региона и его коллабораторы
type Region struct {
	Name        string
	Places      repository.PlaceRepository
	Streets     repository.StreetNetworkRepository
	Planner     repository.PlannerRepository
	DirectPaths *DirectPathResolver
}

// RegionManager - реестр регионов, собирается в main и передается явно
type RegionManager struct {
	regions map[string]*Region
}

// NewRegionManager создает менеджер из набора регионов
func NewRegionManager(regions ...*Region) *RegionManager {
	m := &RegionManager{regions: make(map[string]*Region, len(regions))}
	for _, r := range regions {
		m.regions[r.Name] = r
	}
	return m
}

// Get возвращает регион по имени
func (m *RegionManager) Get(name string) (*Region, bool) {
	r, ok := m.regions[name]
	return r, ok
}

// Names - отсортированные имена регионов
func (m *RegionManager) Names() []string {
	names := make([]string, 0, len(m.regions))
	for name := range m.regions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
