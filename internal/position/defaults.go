package position

import t "github.com/llehouerou/starchart/internal/taxonomy"

// Default returns the built-in position table. Every genre appears in the
// affinities of at most two positions.
func Default() Table {
	return Table{
		{
			ID: Sun, Title: "Sun", Theme: "core musical identity",
			Affinities: []t.Genre{t.Pop, t.Rock, t.HipHop},
			Avoid:      []t.Genre{t.Classical},
		},
		{
			ID: Moon, Title: "Moon", Theme: "emotional comfort listening",
			Affinities: []t.Genre{t.RnB, t.Soul, t.Folk},
			Avoid:      []t.Genre{t.Metal},
		},
		{
			ID: Rising, Title: "Rising", Theme: "first impression, what others hear",
			Affinities: []t.Genre{t.Electronic, t.Alternative, t.Latin},
			Avoid:      []t.Genre{t.Country},
		},
		{
			ID: Venus, Title: "Venus", Theme: "romance and sensuality",
			Affinities: []t.Genre{t.RnB, t.Jazz, t.Latin},
			Avoid:      []t.Genre{t.Metal},
		},
		{
			ID: Mars, Title: "Mars", Theme: "drive and aggression",
			Affinities: []t.Genre{t.Metal, t.HipHop, t.Rock},
			Avoid:      []t.Genre{t.Classical, t.Folk},
		},
		{
			ID: Mercury, Title: "Mercury", Theme: "curiosity and wit",
			Affinities: []t.Genre{t.Alternative, t.Electronic, t.Pop},
			Avoid:      []t.Genre{t.Blues},
		},
		{
			ID: Jupiter, Title: "Jupiter", Theme: "expansion and exploration",
			Affinities: []t.Genre{t.World, t.Reggae, t.Country},
			Avoid:      []t.Genre{t.Pop},
		},
		{
			ID: Saturn, Title: "Saturn", Theme: "discipline and tradition",
			Affinities: []t.Genre{t.Classical, t.Blues, t.Jazz},
			Avoid:      []t.Genre{t.Pop, t.Electronic},
		},
		{
			ID: Uranus, Title: "Uranus", Theme: "rebellion and the unexpected",
			Affinities: []t.Genre{t.Metal, t.World},
			Avoid:      []t.Genre{t.Country},
		},
		{
			ID: Neptune, Title: "Neptune", Theme: "dreams and escapism",
			Affinities: []t.Genre{t.Folk, t.Soul, t.Reggae},
			Avoid:      []t.Genre{t.HipHop},
		},
		{
			ID: Pluto, Title: "Pluto", Theme: "depth and transformation",
			Affinities: []t.Genre{t.Classical, t.Blues, t.Country},
			Avoid:      []t.Genre{t.Pop},
		},
	}
}
