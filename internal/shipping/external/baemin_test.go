package external

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mokja-app/mokja-backend/internal/shipping"
	"github.com/mokja-app/mokja-backend/pkg/enums"
	"github.com/mokja-app/mokja-backend/pkg/types"
)

func newBaeminAdapter(t *testing.T, fn roundTripFunc) *BaeminAdapter {
	t.Helper()

	config := testConfig(map[string]any{"api_key": "baemin-key"})
	config.ProviderID = "baemin"
	config.Name = "Baemin Delivery"

	adapter := NewBaeminAdapter(config, WithHTTPClient(fakeClient(fn)))
	return adapter
}

func seoulRequest() shipping.Request {
	return shipping.Request{
		RestaurantID:  uuid.New(),
		Destination:   types.Coordinates{Lat: 37.5665, Lng: 126.978},
		Address:       "Seoul City Hall",
		OrderTotalKRW: 28000,
	}
}

func TestBaeminCanDeliverKoreaOnly(t *testing.T) {
	adapter := newBaeminAdapter(t, nil)

	cases := []struct {
		name string
		lat  float64
		lng  float64
		want bool
	}{
		{name: "seoul", lat: 37.5665, lng: 126.978, want: true},
		{name: "busan", lat: 35.1796, lng: 129.0756, want: true},
		{name: "jeju", lat: 33.4996, lng: 126.5312, want: true},
		{name: "tokyo", lat: 35.6762, lng: 139.6503, want: false},
		{name: "north of box", lat: 39.5, lng: 126.0, want: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := shipping.Request{Destination: types.Coordinates{Lat: tc.lat, Lng: tc.lng}}
			got, err := adapter.CanDeliver(context.Background(), req)
			if err != nil {
				t.Fatalf("can deliver: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %v for %s", tc.want, tc.name)
			}
		})
	}
}

func TestBaeminGetQuotesOutOfCoverageIsEmpty(t *testing.T) {
	adapter := newBaeminAdapter(t, func(req *http.Request) (*http.Response, error) {
		t.Fatal("no request expected for out-of-coverage destination")
		return nil, nil
	})

	req := shipping.Request{Destination: types.Coordinates{Lat: 35.6762, Lng: 139.6503}}
	quotes, err := adapter.GetQuotes(context.Background(), req)
	if err != nil {
		t.Fatalf("get quotes: %v", err)
	}
	if len(quotes) != 0 {
		t.Fatalf("expected no quotes, got %d", len(quotes))
	}
}

func TestBaeminGetQuotesMapsPartnerResponse(t *testing.T) {
	var captured struct {
		auth string
		body map[string]any
	}
	adapter := newBaeminAdapter(t, func(req *http.Request) (*http.Response, error) {
		captured.auth = req.Header.Get("Authorization")
		raw, _ := io.ReadAll(req.Body)
		_ = json.Unmarshal(raw, &captured.body)
		return jsonResponse(http.StatusOK, `{
			"quoteRef": "bm-ref-42",
			"deliveryFee": "3500.00",
			"estimatedMinutes": 25,
			"vehicleType": "motorcycle",
			"expressAvailable": true
		}`), nil
	})

	frozen := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	adapter.now = func() time.Time { return frozen }

	quotes, err := adapter.GetQuotes(context.Background(), seoulRequest())
	if err != nil {
		t.Fatalf("get quotes: %v", err)
	}
	if len(quotes) != 1 {
		t.Fatalf("expected one quote, got %d", len(quotes))
	}

	quote := quotes[0]
	if quote.PriceKRW != 3500 {
		t.Fatalf("expected decimal fee mapped to 3500 KRW, got %d", quote.PriceKRW)
	}
	if quote.EtaMinutes != 25 {
		t.Fatalf("expected eta 25, got %d", quote.EtaMinutes)
	}
	if quote.ProviderType != enums.ProviderTypeExternal {
		t.Fatalf("expected external provider type, got %s", quote.ProviderType)
	}
	if !quote.ValidUntil.Equal(frozen.Add(10 * time.Minute)) {
		t.Fatalf("expected 10 minute validity, got %s", quote.ValidUntil)
	}
	if !strings.HasPrefix(quote.QuoteID, "baemin_") {
		t.Fatalf("unexpected quote id %q", quote.QuoteID)
	}

	wantFeatures := map[string]bool{"fast_delivery": true, "real_time_tracking": true, "express_available": true}
	for _, feature := range quote.Features {
		delete(wantFeatures, feature)
	}
	if len(wantFeatures) != 0 {
		t.Fatalf("missing features %v in %v", wantFeatures, quote.Features)
	}

	if quote.Metadata["externalQuoteRef"] != "bm-ref-42" {
		t.Fatalf("expected partner ref in metadata, got %v", quote.Metadata)
	}

	if captured.auth != "Bearer baemin-key" {
		t.Fatalf("expected bearer auth, got %q", captured.auth)
	}
	if captured.body["orderAmount"] != "28000" {
		t.Fatalf("expected decimal order amount, got %v", captured.body["orderAmount"])
	}
}

func TestBaeminGetQuotesWithoutAPIKey(t *testing.T) {
	config := testConfig(nil)
	adapter := NewBaeminAdapter(config)

	_, err := adapter.GetQuotes(context.Background(), seoulRequest())
	var provErr *shipping.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError for missing credential, got %v", err)
	}
	if !strings.Contains(provErr.Message, "api_key") {
		t.Fatalf("expected credential name in message, got %q", provErr.Message)
	}
}

func TestBaeminBookMapsResponse(t *testing.T) {
	adapter := newBaeminAdapter(t, func(req *http.Request) (*http.Response, error) {
		if !strings.HasSuffix(req.URL.Path, "/bookings") {
			t.Fatalf("unexpected path %s", req.URL.Path)
		}
		return jsonResponse(http.StatusOK, `{
			"bookingId": "bm-book-7",
			"status": "confirmed",
			"trackingUrl": "https://track.baemin.dev/bm-book-7"
		}`), nil
	})

	quote := shipping.Quote{
		QuoteID:  "baemin_1_cafe0123",
		PriceKRW: 3500,
		Metadata: map[string]any{"externalQuoteRef": "bm-ref-42"},
	}
	snapshot := types.QuoteRequestSnapshot{
		Destination: types.Coordinates{Lat: 37.5665, Lng: 126.978},
		Address:     "Seoul City Hall",
	}

	booking, err := adapter.Book(context.Background(), quote, snapshot)
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if booking.Status != enums.BookingStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", booking.Status)
	}
	if booking.ExternalBookingID == nil || *booking.ExternalBookingID != "bm-book-7" {
		t.Fatalf("expected external booking id, got %v", booking.ExternalBookingID)
	}
	if booking.TrackingURL == nil || *booking.TrackingURL == "" {
		t.Fatal("expected tracking url")
	}
	if booking.PriceKRW != 3500 {
		t.Fatalf("expected quote price carried over, got %d", booking.PriceKRW)
	}
}

func TestBaeminBookRequiresQuoteRef(t *testing.T) {
	adapter := newBaeminAdapter(t, func(req *http.Request) (*http.Response, error) {
		t.Fatal("no request expected without quote ref")
		return nil, nil
	})

	quote := shipping.Quote{QuoteID: "baemin_1_cafe0123"}
	_, err := adapter.Book(context.Background(), quote, types.QuoteRequestSnapshot{})
	var provErr *shipping.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
}
