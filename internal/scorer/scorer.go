// Package scorer turns business-profile signals into composite opportunity
// scores used to rank leads.
package scorer

import (
	"math"
	"strings"
)

// socialDomains mark websites that are really just social profiles. A lead
// whose only web presence is a social page is still a website prospect.
var socialDomains = []string{
	"instagram.com",
	"facebook.com",
	"tiktok.com",
	"linkedin.com",
}

// Signal is the immutable scoring input for one business. Callers build it
// from raw import columns via the normalize package; by the time it reaches
// the scorer every field is strictly typed.
type Signal struct {
	Website     string  `json:"website"`
	Claimed     bool    `json:"is_claimed"`
	Verified    bool    `json:"verified"`
	ReviewCount int     `json:"review_count"`
	Rating      float64 `json:"rating"`
	PhoneNumber string  `json:"phone_number"`
	FullAddress string  `json:"full_address"`
}

// Score holds the three sub-scores and their weighted aggregate, each in
// [0, 100].
type Score struct {
	Web      int `json:"web_score"`
	GBP      int `json:"gbp_score"`
	Sercotec int `json:"sercotec_score"`
	General  int `json:"general_score"`
}

// Scorer computes composite scores under a fixed set of weights.
type Scorer struct {
	w Weights
}

// New creates a Scorer. Zero-value weights fall back to the defaults.
func New(w Weights) *Scorer {
	if w.isZero() {
		w = DefaultWeights()
	}
	return &Scorer{w: w}
}

// Score computes the composite score for one business. Pure function: no
// I/O, no mutation of sig, and identical input always yields identical
// output.
func (s *Scorer) Score(sig Signal) Score {
	web := s.webScore(sig)
	gbp := s.gbpScore(sig)
	sercotec := s.sercotecScore(sig)

	general := math.Round(
		float64(web)*s.w.WebWeight +
			float64(gbp)*s.w.GBPWeight +
			float64(sercotec)*s.w.SercotecWeight,
	)

	return Score{
		Web:      web,
		GBP:      gbp,
		Sercotec: sercotec,
		General:  clamp(int(general)),
	}
}

// webScore is a binary signal: 100 when the business has no independent
// website (nothing at all, or only a social-media profile), 0 otherwise.
func (s *Scorer) webScore(sig Signal) int {
	web := strings.ToLower(sig.Website)
	if web == "" {
		return 100
	}
	for _, domain := range socialDomains {
		if strings.Contains(web, domain) {
			return 100
		}
	}
	return 0
}

// gbpScore accumulates Google Business Profile improvement opportunity:
// the less claimed, verified, and reviewed the profile, the higher the
// score. A rating of exactly zero means "no rating data" and does not
// count as a weak rating.
func (s *Scorer) gbpScore(sig Signal) int {
	score := 0
	if !sig.Claimed {
		score += s.w.GBPUnclaimed
	}
	if !sig.Verified {
		score += s.w.GBPUnverified
	}
	if sig.ReviewCount < s.w.FewReviewsBelow {
		score += s.w.GBPFewReviews
	}
	if sig.Rating > 0 && sig.Rating < s.w.StrongRatingMin {
		score += s.w.GBPWeakRating
	}
	return clamp(score)
}

// sercotecScore accumulates formality signals that estimate how likely the
// business is to qualify for a SERCOTEC grant.
func (s *Scorer) sercotecScore(sig Signal) int {
	score := 0
	if sig.Claimed {
		score += s.w.SercotecClaimed
	}
	if sig.Verified {
		score += s.w.SercotecVerified
	}
	if sig.ReviewCount > s.w.ManyReviewsAbove {
		score += s.w.SercotecManyReviews
	}
	if sig.Rating >= s.w.StrongRatingMin {
		score += s.w.SercotecStrongRating
	}
	if len(sig.PhoneNumber) > s.w.MinPhoneLen {
		score += s.w.SercotecHasPhone
	}
	if len(sig.FullAddress) > s.w.MinAddressLen {
		score += s.w.SercotecHasAddress
	}
	return clamp(score)
}

func clamp(v int) int {
	if v > 100 {
		return 100
	}
	if v < 0 {
		return 0
	}
	return v
}
