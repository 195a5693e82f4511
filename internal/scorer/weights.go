package scorer

import (
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"
)

// Weights holds every tunable point value and threshold used by the
// scorer. The defaults reproduce the shipped behavior; overrides come from
// the config file.
type Weights struct {
	// GBP opportunity points.
	GBPUnclaimed  int `yaml:"gbp_unclaimed" mapstructure:"gbp_unclaimed"`
	GBPUnverified int `yaml:"gbp_unverified" mapstructure:"gbp_unverified"`
	GBPFewReviews int `yaml:"gbp_few_reviews" mapstructure:"gbp_few_reviews"`
	GBPWeakRating int `yaml:"gbp_weak_rating" mapstructure:"gbp_weak_rating"`

	// SERCOTEC qualification points.
	SercotecClaimed      int `yaml:"sercotec_claimed" mapstructure:"sercotec_claimed"`
	SercotecVerified     int `yaml:"sercotec_verified" mapstructure:"sercotec_verified"`
	SercotecManyReviews  int `yaml:"sercotec_many_reviews" mapstructure:"sercotec_many_reviews"`
	SercotecStrongRating int `yaml:"sercotec_strong_rating" mapstructure:"sercotec_strong_rating"`
	SercotecHasPhone     int `yaml:"sercotec_has_phone" mapstructure:"sercotec_has_phone"`
	SercotecHasAddress   int `yaml:"sercotec_has_address" mapstructure:"sercotec_has_address"`

	// Thresholds.
	FewReviewsBelow  int     `yaml:"few_reviews_below" mapstructure:"few_reviews_below"`
	ManyReviewsAbove int     `yaml:"many_reviews_above" mapstructure:"many_reviews_above"`
	StrongRatingMin  float64 `yaml:"strong_rating_min" mapstructure:"strong_rating_min"`
	MinPhoneLen      int     `yaml:"min_phone_len" mapstructure:"min_phone_len"`
	MinAddressLen    int     `yaml:"min_address_len" mapstructure:"min_address_len"`

	// Aggregate weights (sum = 1.0).
	WebWeight      float64 `yaml:"web_weight" mapstructure:"web_weight"`
	GBPWeight      float64 `yaml:"gbp_weight" mapstructure:"gbp_weight"`
	SercotecWeight float64 `yaml:"sercotec_weight" mapstructure:"sercotec_weight"`
}

// DefaultWeights returns the out-of-the-box scoring weights.
func DefaultWeights() Weights {
	return Weights{
		GBPUnclaimed:  40,
		GBPUnverified: 20,
		GBPFewReviews: 20,
		GBPWeakRating: 20,

		SercotecClaimed:      25,
		SercotecVerified:     25,
		SercotecManyReviews:  20,
		SercotecStrongRating: 10,
		SercotecHasPhone:     10,
		SercotecHasAddress:   10,

		FewReviewsBelow:  5,
		ManyReviewsAbove: 10,
		StrongRatingMin:  4.0,
		MinPhoneLen:      5,
		MinAddressLen:    10,

		WebWeight:      0.4,
		GBPWeight:      0.4,
		SercotecWeight: 0.2,
	}
}

// ValidateWeights checks that a Weights is internally consistent.
func ValidateWeights(w Weights) error {
	var errs []string

	points := map[string]int{
		"gbp_unclaimed":          w.GBPUnclaimed,
		"gbp_unverified":         w.GBPUnverified,
		"gbp_few_reviews":        w.GBPFewReviews,
		"gbp_weak_rating":        w.GBPWeakRating,
		"sercotec_claimed":       w.SercotecClaimed,
		"sercotec_verified":      w.SercotecVerified,
		"sercotec_many_reviews":  w.SercotecManyReviews,
		"sercotec_strong_rating": w.SercotecStrongRating,
		"sercotec_has_phone":     w.SercotecHasPhone,
		"sercotec_has_address":   w.SercotecHasAddress,
	}
	for name, p := range points {
		if p < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
	}

	for name, f := range map[string]float64{
		"web_weight":      w.WebWeight,
		"gbp_weight":      w.GBPWeight,
		"sercotec_weight": w.SercotecWeight,
	} {
		if f < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
	}

	sum := w.WebWeight + w.GBPWeight + w.SercotecWeight
	if sum <= 0 {
		errs = append(errs, "aggregate weight sum must be > 0")
	} else if math.Abs(sum-1.0) > 0.01 {
		errs = append(errs, fmt.Sprintf("aggregate weights should sum to 1.0, got %.2f", sum))
	}

	if w.FewReviewsBelow < 0 {
		errs = append(errs, "few_reviews_below must be >= 0")
	}
	if w.ManyReviewsAbove < 0 {
		errs = append(errs, "many_reviews_above must be >= 0")
	}
	if w.StrongRatingMin < 0 || w.StrongRatingMin > 5 {
		errs = append(errs, "strong_rating_min must be between 0 and 5")
	}

	if len(errs) > 0 {
		return eris.Errorf("scorer: weight validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (w Weights) isZero() bool {
	return w == Weights{}
}
