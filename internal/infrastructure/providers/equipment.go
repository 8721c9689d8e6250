package providers

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/journey-planner/internal/domain"
	"github.com/journey-planner/internal/domain/repository"
)

const ClassEquipmentHTTP = "equipment_http"

// EquipmentArgs - аргументы класса equipment_http
type EquipmentArgs struct {
	CommonArgs `mapstructure:",squash"`
	URL        string `mapstructure:"url" validate:"required,url"`
}

type equipmentResponse struct {
	Equipments []struct {
		StopPoint string    `json:"stop_point"`
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Type      string    `json:"type"`
		Status    string    `json:"status"`
		UpdatedAt time.Time `json:"updated_at"`
	} `json:"equipments"`
}

type equipmentProvider struct {
	base
	url string
}

// NewEquipmentHTTP создает провайдера состояния лифтов/эскалаторов
func NewEquipmentHTTP(id string, args EquipmentArgs, deps Deps) repository.EquipmentProvider {
	return &equipmentProvider{
		base: newBase(id, domain.ProviderEquipment, args.CommonArgs, deps),
		url:  strings.TrimSuffix(args.URL, "/"),
	}
}

// Reports - один запрос на все остановки; отчеты по чужим остановкам отбрасываются
func (p *equipmentProvider) Reports(ctx context.Context, stopPointURIs []string) ([]domain.EquipmentReport, error) {
	if len(stopPointURIs) == 0 {
		return nil, nil
	}

	wanted := make(map[string]struct{}, len(stopPointURIs))
	query := url.Values{}
	for _, uri := range stopPointURIs {
		if _, dup := wanted[uri]; dup {
			continue
		}
		wanted[uri] = struct{}{}
		query.Add("stop_point", uri)
	}

	var resp equipmentResponse
	if err := p.getJSON(ctx, p.url+"/equipments?"+query.Encode(), &resp); err != nil {
		return nil, err
	}

	reports := make([]domain.EquipmentReport, 0, len(resp.Equipments))
	for _, e := range resp.Equipments {
		if _, ok := wanted[e.StopPoint]; !ok {
			continue
		}
		reports = append(reports, domain.EquipmentReport{
			StopPointURI: e.StopPoint,
			EquipmentID:  e.ID,
			Name:         e.Name,
			Type:         e.Type,
			Status:       e.Status,
			UpdatedAt:    e.UpdatedAt,
		})
	}
	return reports, nil
}
