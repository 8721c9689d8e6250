package providers

import (
	"github.com/journey-planner/internal/domain"
	"github.com/journey-planner/internal/domain/repository"
	"github.com/journey-planner/internal/registry"
)

// BssFactory - классы gbfs, jcdecaux
func BssFactory(deps Deps) registry.Factory[repository.BssProvider] {
	return registry.NewFactory(domain.ProviderBikeShare, map[string]registry.BuildFunc[repository.BssProvider]{
		ClassGBFS: registry.Typed(func(id string, args GBFSArgs) (repository.BssProvider, error) {
			return NewGBFS(id, args, deps), nil
		}),
		ClassJCDecaux: registry.Typed(func(id string, args JCDecauxArgs) (repository.BssProvider, error) {
			return NewJCDecaux(id, args, deps), nil
		}),
	})
}

// CarParkFactory - класс parking_http
func CarParkFactory(deps Deps) registry.Factory[repository.CarParkProvider] {
	return registry.NewFactory(domain.ProviderCarPark, map[string]registry.BuildFunc[repository.CarParkProvider]{
		ClassParkingHTTP: registry.Typed(func(id string, args ParkingArgs) (repository.CarParkProvider, error) {
			return NewParkingHTTP(id, args, deps), nil
		}),
	})
}

// RidesharingFactory - класс ridesharing_http
func RidesharingFactory(deps Deps) registry.Factory[repository.RidesharingProvider] {
	return registry.NewFactory(domain.ProviderRidesharing, map[string]registry.BuildFunc[repository.RidesharingProvider]{
		ClassRidesharingHTTP: registry.Typed(func(id string, args RidesharingArgs) (repository.RidesharingProvider, error) {
			return NewRidesharingHTTP(id, args, deps), nil
		}),
	})
}

// EquipmentFactory - класс equipment_http
func EquipmentFactory(deps Deps) registry.Factory[repository.EquipmentProvider] {
	return registry.NewFactory(domain.ProviderEquipment, map[string]registry.BuildFunc[repository.EquipmentProvider]{
		ClassEquipmentHTTP: registry.Typed(func(id string, args EquipmentArgs) (repository.EquipmentProvider, error) {
			return NewEquipmentHTTP(id, args, deps), nil
		}),
	})
}

// RealtimeFactory - класс next_departures_http
func RealtimeFactory(deps Deps) registry.Factory[repository.RealtimeProvider] {
	return registry.NewFactory(domain.ProviderRealtime, map[string]registry.BuildFunc[repository.RealtimeProvider]{
		ClassNextDeparturesHTTP: registry.Typed(func(id string, args NextDeparturesArgs) (repository.RealtimeProvider, error) {
			return NewNextDeparturesHTTP(id, args, deps), nil
		}),
	})
}
