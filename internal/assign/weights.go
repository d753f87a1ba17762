package assign

// Weights are the tunable constants of position scoring. The defaults are
// empirical; the asymmetry between Affinity and Avoid is intended.
type Weights struct {
	Affinity        float64 `koanf:"affinity"`         // base score for a favored genre
	Avoid           float64 `koanf:"avoid"`            // penalty for an avoided genre
	Confidence      float64 `koanf:"confidence"`       // multiplier of mean confidence
	PerArtist       float64 `koanf:"per_artist"`       // per bucket member
	VolumeCap       float64 `koanf:"volume_cap"`       // cap of the per-artist bonus
	Repeat          float64 `koanf:"repeat"`           // penalty per earlier use of the genre
	Depth           float64 `koanf:"depth"`            // bonus when DepthMin unused artists remain
	DepthMin        int     `koanf:"depth_min"`        // unused artists needed for the depth bonus
	ConfidenceFloor float64 `koanf:"confidence_floor"` // buckets at or below are ineligible
	MaxArtists      int     `koanf:"max_artists"`      // artists per position
}

// DefaultWeights returns the standard scoring constants.
func DefaultWeights() Weights {
	return Weights{
		Affinity:        100,
		Avoid:           50,
		Confidence:      20,
		PerArtist:       5,
		VolumeCap:       25,
		Repeat:          30,
		Depth:           20,
		DepthMin:        3,
		ConfidenceFloor: 0.2,
		MaxArtists:      3,
	}
}

// WithDefaults fills zero fields from DefaultWeights.
func (w Weights) WithDefaults() Weights {
	d := DefaultWeights()
	if w.Affinity == 0 {
		w.Affinity = d.Affinity
	}
	if w.Avoid == 0 {
		w.Avoid = d.Avoid
	}
	if w.Confidence == 0 {
		w.Confidence = d.Confidence
	}
	if w.PerArtist == 0 {
		w.PerArtist = d.PerArtist
	}
	if w.VolumeCap == 0 {
		w.VolumeCap = d.VolumeCap
	}
	if w.Repeat == 0 {
		w.Repeat = d.Repeat
	}
	if w.Depth == 0 {
		w.Depth = d.Depth
	}
	if w.DepthMin <= 0 {
		w.DepthMin = d.DepthMin
	}
	if w.ConfidenceFloor <= 0 || w.ConfidenceFloor >= 1 {
		w.ConfidenceFloor = d.ConfidenceFloor
	}
	if w.MaxArtists <= 0 {
		w.MaxArtists = d.MaxArtists
	}
	return w
}
