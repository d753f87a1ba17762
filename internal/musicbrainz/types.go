package musicbrainz

// searchResponse is the artist search response.
type searchResponse struct {
	Artists []artistResult `json:"artists"`
}

type artistResult struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// artistResponse is the artist lookup response with inc=genres.
type artistResponse struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Genres []genre `json:"genres"`
}

// genre represents a MusicBrainz genre tag.
type genre struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
