package address

import (
	"context"
	"fmt"
	"strings"

	"github.com/mokja-app/mokja-backend/pkg/errors"
	"github.com/mokja-app/mokja-backend/pkg/maps"
	"github.com/mokja-app/mokja-backend/pkg/types"
)

// Deliveries are domestic, so suggestions default to Korean results.
const defaultRegionCode = "KR"

type Service interface {
	Suggest(ctx context.Context, req SuggestRequest) ([]Suggestion, error)
	Resolve(ctx context.Context, req ResolveRequest) (types.DeliveryAddress, error)
}

type service struct {
	maps *maps.Client
}

func NewService(client *maps.Client) Service {
	return &service{maps: client}
}

func (s *service) Suggest(ctx context.Context, req SuggestRequest) ([]Suggestion, error) {
	if s == nil || s.maps == nil {
		return nil, errors.New(errors.CodeDependency, "maps client unavailable")
	}
	if strings.TrimSpace(req.Query) == "" {
		return nil, errors.New(errors.CodeValidation, "query is required")
	}

	payload := maps.AutocompleteRequest{
		Input:               req.Query,
		IncludedRegionCodes: []string{defaultRegionCode},
	}
	if lang := strings.TrimSpace(req.Language); lang != "" {
		payload.LanguageCode = lang
	}

	resp, err := s.maps.Autocomplete(ctx, payload)
	if err != nil {
		return nil, err
	}

	suggestions := make([]Suggestion, 0, len(resp))
	for _, item := range resp {
		suggestions = append(suggestions, Suggestion{
			PlaceID:     item.PlaceID,
			Description: item.Description,
		})
	}
	return suggestions, nil
}

func (s *service) Resolve(ctx context.Context, req ResolveRequest) (types.DeliveryAddress, error) {
	if s == nil || s.maps == nil {
		return types.DeliveryAddress{}, errors.New(errors.CodeDependency, "maps client unavailable")
	}
	if strings.TrimSpace(req.PlaceID) == "" {
		return types.DeliveryAddress{}, errors.New(errors.CodeValidation, "place_id is required")
	}

	details, err := s.maps.ResolvePlace(ctx, req.PlaceID)
	if err != nil {
		return types.DeliveryAddress{}, err
	}

	return mapPlaceDetails(details)
}

func mapPlaceDetails(details *maps.PlaceDetails) (types.DeliveryAddress, error) {
	if details == nil {
		return types.DeliveryAddress{}, errors.New(errors.CodeDependency, "place details missing")
	}
	if details.Location.Latitude == 0 && details.Location.Longitude == 0 {
		return types.DeliveryAddress{}, errors.New(errors.CodeDependency, "place location missing")
	}

	find := func(kind string) (string, bool) {
		for _, comp := range details.AddressComponents {
			for _, typ := range comp.Types {
				if typ == kind && comp.LongName != "" {
					return comp.LongName, true
				}
			}
		}
		return "", false
	}

	street := ""
	if number, ok := find("street_number"); ok {
		street = number
	}
	if route, ok := find("route"); ok {
		if street != "" {
			street = fmt.Sprintf("%s %s", street, route)
		} else {
			street = route
		}
	}
	if street == "" && strings.TrimSpace(details.FormattedAddress) != "" {
		parts := strings.Split(details.FormattedAddress, ",")
		street = strings.TrimSpace(parts[0])
	}
	if street == "" {
		return types.DeliveryAddress{}, errors.New(errors.CodeDependency, "street missing")
	}

	city, ok := find("locality")
	if !ok {
		// Korean addresses often map the city to the first-level division (e.g. Seoul).
		if admin1, ok2 := find("administrative_area_level_1"); ok2 {
			city = admin1
		} else if admin2, ok3 := find("administrative_area_level_2"); ok3 {
			city = admin2
		}
	}
	if city == "" {
		return types.DeliveryAddress{}, errors.New(errors.CodeDependency, "city missing")
	}

	postalCode, ok := find("postal_code")
	if !ok {
		return types.DeliveryAddress{}, errors.New(errors.CodeDependency, "postal code missing")
	}

	return types.DeliveryAddress{
		Street:     street,
		City:       city,
		PostalCode: postalCode,
		Coordinates: types.Coordinates{
			Lat: details.Location.Latitude,
			Lng: details.Location.Longitude,
		},
	}, nil
}

type SuggestRequest struct {
	Query    string
	Language string
}

type ResolveRequest struct {
	PlaceID string
}

type Suggestion struct {
	PlaceID     string `json:"place_id"`
	Description string `json:"description"`
}
