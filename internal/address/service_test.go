package address

import (
	"testing"

	"github.com/mokja-app/mokja-backend/pkg/maps"
)

func TestMapPlaceDetails(t *testing.T) {
	details := &maps.PlaceDetails{
		FormattedAddress: "427 Teheran-ro, Gangnam-gu, Seoul 06159, South Korea",
		Location: maps.LatLng{
			Latitude:  37.5051,
			Longitude: 127.0508,
		},
		AddressComponents: []maps.AddressComponent{
			{LongName: "427", Types: []string{"street_number"}},
			{LongName: "Teheran-ro", Types: []string{"route"}},
			{LongName: "Gangnam-gu", Types: []string{"locality"}},
			{LongName: "Seoul", Types: []string{"administrative_area_level_1"}},
			{LongName: "06159", Types: []string{"postal_code"}},
			{LongName: "South Korea", Types: []string{"country"}},
		},
	}

	result, err := mapPlaceDetails(details)
	if err != nil {
		t.Fatalf("mapPlaceDetails failed: %v", err)
	}
	if result.Street != "427 Teheran-ro" {
		t.Fatalf("unexpected street %q", result.Street)
	}
	if result.City != "Gangnam-gu" {
		t.Fatalf("unexpected city %q", result.City)
	}
	if result.PostalCode != "06159" {
		t.Fatalf("unexpected postal %q", result.PostalCode)
	}
	if result.Coordinates.Lat != 37.5051 || result.Coordinates.Lng != 127.0508 {
		t.Fatalf("unexpected location %+v", result.Coordinates)
	}
}

func TestMapPlaceDetailsFallsBackToProvince(t *testing.T) {
	details := &maps.PlaceDetails{
		AddressComponents: []maps.AddressComponent{
			{LongName: "1", Types: []string{"street_number"}},
			{LongName: "Sejong-daero", Types: []string{"route"}},
			{LongName: "Seoul", Types: []string{"administrative_area_level_1"}},
			{LongName: "04524", Types: []string{"postal_code"}},
		},
		Location: maps.LatLng{
			Latitude:  37.5663,
			Longitude: 126.9779,
		},
	}

	result, err := mapPlaceDetails(details)
	if err != nil {
		t.Fatalf("mapPlaceDetails failed: %v", err)
	}
	if result.City != "Seoul" {
		t.Fatalf("expected province fallback for city, got %q", result.City)
	}
}

func TestMapPlaceDetailsMissingPostalCode(t *testing.T) {
	details := &maps.PlaceDetails{
		AddressComponents: []maps.AddressComponent{
			{LongName: "427", Types: []string{"street_number"}},
			{LongName: "Teheran-ro", Types: []string{"route"}},
			{LongName: "Gangnam-gu", Types: []string{"locality"}},
		},
		Location: maps.LatLng{
			Latitude:  37.5051,
			Longitude: 127.0508,
		},
	}

	if _, err := mapPlaceDetails(details); err == nil {
		t.Fatal("expected error when postal code missing")
	}
}
