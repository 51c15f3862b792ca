// AngelaMos | 2026
// service_test.go

package tour

import (
	"errors"
	"testing"

	"github.com/angelamos/trailhead/internal/core"
)

func TestValidateDiscountBelowPrice(t *testing.T) {
	discount := 100.0
	if err := validateDiscount(&discount, 400); err != nil {
		t.Fatalf("valid discount rejected: %v", err)
	}
}

func TestValidateDiscountAtOrAbovePriceFails(t *testing.T) {
	for _, discount := range []float64{400, 500} {
		d := discount
		err := validateDiscount(&d, 400)
		if !errors.Is(err, core.ErrInvalidInput) {
			t.Errorf("discount %v: expected ErrInvalidInput, got %v", discount, err)
		}
	}
}

func TestValidateDiscountNilIsFine(t *testing.T) {
	if err := validateDiscount(nil, 400); err != nil {
		t.Fatalf("nil discount rejected: %v", err)
	}
}

func TestParseStartDates(t *testing.T) {
	dates, err := parseStartDates([]string{"2026-06-19", "2026-07-20"})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(dates) != 2 {
		t.Fatalf("expected 2 dates, got %d", len(dates))
	}
	if dates[0].Month() != 6 || dates[0].Day() != 19 {
		t.Errorf("unexpected first date: %v", dates[0])
	}
}

func TestParseStartDatesRejectsBadFormat(t *testing.T) {
	_, err := parseStartDates([]string{"06/19/2026"})
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestEarthRadiusForUnit(t *testing.T) {
	if got := earthRadiusFor("mi"); got != earthRadiusMiles {
		t.Errorf("expected miles radius, got %f", got)
	}
	if got := earthRadiusFor("km"); got != earthRadiusKM {
		t.Errorf("expected km radius, got %f", got)
	}
}
