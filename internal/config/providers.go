package config

import (
	"fmt"

	"github.com/journey-planner/internal/domain"
	"github.com/spf13/viper"
)

// LegacyProviders - статические провайдеры из файла, по видам
type LegacyProviders map[domain.ProviderKind][]domain.ProviderRecord

// LoadLegacyProviders читает YAML/JSON файл вида
//
//	bss:
//	  - id: velib
//	    class: gbfs
//	    args: {feed_url: "https://..."}
//
// Пустой путь - пустой набор.
func LoadLegacyProviders(path string) (LegacyProviders, error) {
	if path == "" {
		return LegacyProviders{}, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read legacy providers: %w", err)
	}

	out := LegacyProviders{}
	for _, kind := range []domain.ProviderKind{
		domain.ProviderBikeShare,
		domain.ProviderCarPark,
		domain.ProviderRidesharing,
		domain.ProviderEquipment,
		domain.ProviderRealtime,
	} {
		var records []domain.ProviderRecord
		if err := v.UnmarshalKey(string(kind), &records); err != nil {
			return nil, fmt.Errorf("legacy providers %s: %w", kind, err)
		}
		for i, rec := range records {
			if rec.ID == "" || rec.Class == "" {
				return nil, fmt.Errorf("legacy providers %s[%d]: id and class are required", kind, i)
			}
		}
		out[kind] = records
	}
	return out, nil
}
