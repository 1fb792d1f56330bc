// Package beaches lists the town beaches shown on the dashboard.
package beaches

import (
	"fmt"
	"math"
	"sort"
)

// MaxStars is the top of the rating scale.
const MaxStars = 5

// Beach is a swimming beach near the dashboard's area.
type Beach struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Distance in miles
	Distance    float64  `json:"distance"`
	Rating      float64  `json:"rating"`
	Features    []string `json:"features"`
	Description string   `json:"description"`
	Town        string   `json:"town"`
	ImageURL    string   `json:"imageUrl"`
}

func (b Beach) String() string {
	return fmt.Sprintf("%s (%s, CT) %.1f mi, rated %.1f", b.Name, b.Town, b.Distance, b.Rating)
}

// Default returns the beaches of Fairfield and Southport, Connecticut.
func Default() []Beach {
	return []Beach{{
		ID:          "1",
		Name:        "Jennings Beach",
		Distance:    0.5,
		Rating:      4.3,
		Features:    []string{"Swimming", "Parking", "Restrooms"},
		Description: "Popular town beach in Fairfield with lifeguards and beach facilities.",
		Town:        "Fairfield",
		ImageURL:    "https://images.unsplash.com/photo-1500375592092-40eb2168fd21?w=400&h=300&fit=crop",
	}, {
		ID:          "2",
		Name:        "Penfield Beach",
		Distance:    0.8,
		Rating:      4.1,
		Features:    []string{"Swimming", "Picnic Area", "Playground"},
		Description: "Family-friendly beach with pavilion and recreational facilities.",
		Town:        "Fairfield",
		ImageURL:    "https://images.unsplash.com/photo-1482938289607-e9573fc25ebb?w=400&h=300&fit=crop",
	}, {
		ID:          "3",
		Name:        "Sasco Beach",
		Distance:    1.2,
		Rating:      4.0,
		Features:    []string{"Swimming", "Fishing", "Walking Trails"},
		Description: "Quiet beach area perfect for fishing and peaceful walks.",
		Town:        "Fairfield",
		ImageURL:    "https://images.unsplash.com/photo-1500673922987-e212871fec22?w=400&h=300&fit=crop",
	}, {
		ID:          "4",
		Name:        "Southport Beach",
		Distance:    1.5,
		Rating:      4.4,
		Features:    []string{"Swimming", "Boating", "Marina Access"},
		Description: "Charming beach in historic Southport with harbor views.",
		Town:        "Southport",
		ImageURL:    "https://images.unsplash.com/photo-1500375592092-40eb2168fd21?w=400&h=300&fit=crop",
	}, {
		ID:          "5",
		Name:        "Harbor Beach",
		Distance:    1.8,
		Rating:      4.2,
		Features:    []string{"Swimming", "Harbor Views", "Restaurant Nearby"},
		Description: "Scenic beach with beautiful views of Southport Harbor.",
		Town:        "Southport",
		ImageURL:    "https://images.unsplash.com/photo-1482938289607-e9573fc25ebb?w=400&h=300&fit=crop",
	}}
}

// Nearby returns a copy of bs ordered from closest to farthest. Beaches at the
// same distance keep their order.
func Nearby(bs []Beach) []Beach {
	result := make([]Beach, len(bs))
	for i, b := range bs {
		b.Features = append([]string(nil), b.Features...)
		result[i] = b
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Distance < result[j].Distance
	})
	return result
}

// Stars is the number of whole stars to fill in for a rating.
func Stars(rating float64) int {
	n := int(math.Floor(rating))
	if n < 0 {
		return 0
	}
	if n > MaxStars {
		return MaxStars
	}
	return n
}

// Highlights returns the first n features and how many were left out.
func Highlights(features []string, n int) (shown []string, more int) {
	if n < 0 {
		n = 0
	}
	if len(features) <= n {
		return features, 0
	}
	return features[:n], len(features) - n
}
