// AngelaMos | 2026
// entity_test.go

package tour

import (
	"testing"
)

func TestLocationListRoundTrip(t *testing.T) {
	locations := LocationList{
		{
			Type:        "Point",
			Coordinates: []float64{-118.113491, 34.111745},
			Description: "trailhead",
			Day:         1,
		},
	}

	value, err := locations.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var scanned LocationList
	if err := scanned.Scan(value); err != nil {
		t.Fatalf("scan: %v", err)
	}

	if len(scanned) != 1 {
		t.Fatalf("expected 1 location, got %d", len(scanned))
	}
	if scanned[0].Coordinates[0] != -118.113491 {
		t.Errorf("longitude lost in round trip: %v", scanned[0].Coordinates)
	}
	if scanned[0].Day != 1 {
		t.Errorf("day lost in round trip: %d", scanned[0].Day)
	}
}

func TestStringListScanHandlesNull(t *testing.T) {
	var images StringList
	if err := images.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if images != nil {
		t.Fatalf("expected nil list, got %v", images)
	}
}

func TestGeoPointValueEncodesGeoJSON(t *testing.T) {
	point := GeoPoint{Location: Location{
		Type:        "Point",
		Coordinates: []float64{-80.185942, 25.774772},
		Address:     "Miami, FL",
	}}

	value, err := point.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var scanned GeoPoint
	if err := scanned.Scan(value); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if scanned.Location.Address != "Miami, FL" {
		t.Errorf("address lost: %+v", scanned.Location)
	}
}

func TestDurationWeeks(t *testing.T) {
	tour := Tour{Duration: 14}
	if got := tour.DurationWeeks(); got != 2 {
		t.Fatalf("expected 2 weeks, got %f", got)
	}

	tour.Duration = 10
	if got := tour.DurationWeeks(); got < 1.42 || got > 1.43 {
		t.Fatalf("expected ~1.43 weeks, got %f", got)
	}
}
