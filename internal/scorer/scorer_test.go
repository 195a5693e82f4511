package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore_NoWebPresenceHighOpportunity(t *testing.T) {
	t.Parallel()

	sc := New(DefaultWeights())
	got := sc.Score(Signal{
		Website:     "",
		Claimed:     false,
		Verified:    false,
		ReviewCount: 2,
		Rating:      0,
	})

	// Rating of exactly 0 means "no data" and must not add the
	// weak-rating points.
	assert.Equal(t, 100, got.Web)
	assert.Equal(t, 80, got.GBP)
	assert.Equal(t, 0, got.Sercotec)
	assert.Equal(t, 72, got.General) // round(100*0.4 + 80*0.4 + 0*0.2)
}

func TestScore_EstablishedBusinessLowOpportunity(t *testing.T) {
	t.Parallel()

	sc := New(DefaultWeights())
	got := sc.Score(Signal{
		Website:     "https://acme.cl",
		Claimed:     true,
		Verified:    true,
		ReviewCount: 20,
		Rating:      4.5,
		PhoneNumber: "987654321",
		FullAddress: "Av. Siempre Viva 123",
	})

	assert.Equal(t, 0, got.Web)
	assert.Equal(t, 0, got.GBP)
	assert.Equal(t, 100, got.Sercotec)
	assert.Equal(t, 20, got.General) // round(0 + 0 + 100*0.2)
}

func TestScore_SocialOnlyWebsiteCountsAsNoWebsite(t *testing.T) {
	t.Parallel()

	sc := New(DefaultWeights())

	tests := []struct {
		website string
		want    int
	}{
		{"", 100},
		{"https://instagram.com/acme", 100},
		{"https://www.FACEBOOK.com/acme", 100},
		{"https://tiktok.com/@acme", 100},
		{"https://linkedin.com/company/acme", 100},
		{"https://acme.cl", 0},
		{"https://acme.cl/contacto", 0},
	}
	for _, tt := range tests {
		t.Run(tt.website, func(t *testing.T) {
			got := sc.Score(Signal{Website: tt.website})
			assert.Equal(t, tt.want, got.Web)
		})
	}
}

func TestScore_WeakRatingAddsGBPPoints(t *testing.T) {
	t.Parallel()

	sc := New(DefaultWeights())

	// rating in (0, 4.0) adds the weak-rating term; 0 and >= 4.0 do not.
	assert.Equal(t, 100, sc.Score(Signal{Rating: 2.5}).GBP) // 40+20+20+20
	assert.Equal(t, 80, sc.Score(Signal{Rating: 0}).GBP)
	assert.Equal(t, 80, sc.Score(Signal{Rating: 4.0}).GBP)
	assert.Equal(t, 80, sc.Score(Signal{Rating: 4.9}).GBP)
}

func TestScore_ReviewCountMonotonicity(t *testing.T) {
	t.Parallel()

	sc := New(DefaultWeights())
	base := Signal{Claimed: false, Verified: false, Rating: 0}

	few := base
	few.ReviewCount = 4
	many := base
	many.ReviewCount = 11

	fewScore := sc.Score(few)
	manyScore := sc.Score(many)

	assert.Equal(t, fewScore.GBP-20, manyScore.GBP)
	assert.Equal(t, fewScore.Sercotec+20, manyScore.Sercotec)
}

func TestScore_Idempotent(t *testing.T) {
	t.Parallel()

	sc := New(DefaultWeights())
	sig := Signal{
		Website:     "https://facebook.com/x",
		Claimed:     true,
		ReviewCount: 7,
		Rating:      3.5,
		PhoneNumber: "+56987654321",
		FullAddress: "Calle Larga 456, Santiago",
	}

	first := sc.Score(sig)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, sc.Score(sig))
	}
}

func TestScore_Bounds(t *testing.T) {
	t.Parallel()

	sc := New(DefaultWeights())

	websites := []string{"", "https://instagram.com/a", "https://acme.cl"}
	bools := []bool{false, true}
	reviews := []int{0, 4, 5, 10, 11, 1000}
	ratings := []float64{0, 0.1, 3.9, 4.0, 5.0}
	phones := []string{"", "12345", "+56987654321"}
	addresses := []string{"", "short", "Av. Siempre Viva 123, Springfield"}

	for _, web := range websites {
		for _, claimed := range bools {
			for _, verified := range bools {
				for _, rc := range reviews {
					for _, rating := range ratings {
						for _, phone := range phones {
							for _, addr := range addresses {
								got := sc.Score(Signal{
									Website:     web,
									Claimed:     claimed,
									Verified:    verified,
									ReviewCount: rc,
									Rating:      rating,
									PhoneNumber: phone,
									FullAddress: addr,
								})
								for name, v := range map[string]int{
									"web": got.Web, "gbp": got.GBP,
									"sercotec": got.Sercotec, "general": got.General,
								} {
									require.GreaterOrEqual(t, v, 0, "%s score", name)
									require.LessOrEqual(t, v, 100, "%s score", name)
								}
							}
						}
					}
				}
			}
		}
	}
}

func TestScore_CustomWeights(t *testing.T) {
	t.Parallel()

	w := DefaultWeights()
	w.WebWeight = 1.0
	w.GBPWeight = 0
	w.SercotecWeight = 0
	require.NoError(t, ValidateWeights(w))

	sc := New(w)
	got := sc.Score(Signal{Website: ""})
	assert.Equal(t, 100, got.General)
}

func TestNew_ZeroWeightsFallBackToDefaults(t *testing.T) {
	t.Parallel()

	sc := New(Weights{})
	got := sc.Score(Signal{ReviewCount: 2})
	assert.Equal(t, 80, got.GBP) // defaults applied: 40+20+20
}
