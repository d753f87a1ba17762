package taxonomy

// Canonical genres of the built-in taxonomy.
const (
	HipHop      Genre = "Hip Hop"
	RnB         Genre = "R&B"
	Electronic  Genre = "Electronic"
	Rock        Genre = "Rock"
	Metal       Genre = "Metal"
	Pop         Genre = "Pop"
	Jazz        Genre = "Jazz"
	Classical   Genre = "Classical"
	Country     Genre = "Country"
	Folk        Genre = "Folk/Acoustic"
	Soul        Genre = "Soul"
	Blues       Genre = "Blues"
	Reggae      Genre = "Reggae"
	Latin       Genre = "Latin"
	World       Genre = "World/Traditional"
	Alternative Genre = "Alternative"
)

// Default returns a validated copy of the built-in taxonomy.
func Default() *Taxonomy {
	t := &Taxonomy{
		Default:    Alternative,
		Entries:    defaultEntries(),
		Categories: defaultCategories(),
		Heuristics: defaultHeuristics(),
		Signs:      defaultSigns(),
	}
	if err := t.Validate(); err != nil {
		panic(err) // built-in tables are covered by tests
	}
	return t
}

func defaultEntries() []Entry {
	return []Entry{
		{Genre: HipHop, Weight: 10, Keywords: []string{
			"hip-hop", "hiphop", "rap", "trap", "grime", "drill", "boom bap",
			"gangsta rap", "conscious hip hop", "underground hip-hop",
			"east coast rap", "west coast rap", "southern rap", "cloud rap",
		}},
		{Genre: RnB, Weight: 9, Keywords: []string{
			"rnb", "r and b", "rhythm and blues", "contemporary r&b", "neo-soul",
			"neo soul", "alternative r&b", "new jack swing",
		}},
		{Genre: Electronic, Weight: 9, Keywords: []string{
			"electronica", "electro", "edm", "house", "techno", "trance",
			"dubstep", "drum and bass", "dnb", "idm", "ambient", "synthwave",
			"synthpop", "downtempo", "breakbeat", "uk garage", "electronic dance music",
		}},
		{Genre: Rock, Weight: 8, Keywords: []string{
			"classic rock", "hard rock", "rock and roll", "rock n roll",
			"progressive rock", "psychedelic rock", "garage rock", "punk",
			"punk rock", "glam rock", "stoner rock", "southern rock", "blues rock",
		}},
		{Genre: Metal, Weight: 9, Keywords: []string{
			"heavy metal", "death metal", "black metal", "thrash metal",
			"doom metal", "metalcore", "nu metal", "power metal",
			"progressive metal", "deathcore", "sludge", "grindcore", "djent",
		}},
		{Genre: Pop, Weight: 7, Keywords: []string{
			"pop music", "dance pop", "k-pop", "j-pop", "electropop", "teen pop",
			"power pop", "art pop", "europop", "pop rock", "bubblegum",
		}},
		{Genre: Jazz, Weight: 10, Keywords: []string{
			"jazz fusion", "bebop", "smooth jazz", "swing", "big band",
			"free jazz", "acid jazz", "cool jazz", "hard bop", "vocal jazz", "nu jazz",
		}},
		{Genre: Classical, Weight: 10, Keywords: []string{
			"classical music", "baroque", "orchestral", "opera", "symphony",
			"chamber music", "contemporary classical", "modern classical",
			"piano", "composer", "minimalism", "neoclassical",
		}},
		{Genre: Country, Weight: 9, Keywords: []string{
			"alt-country", "americana", "bluegrass", "country music",
			"outlaw country", "country pop", "honky tonk", "red dirt",
		}},
		{Genre: Folk, Weight: 8, Keywords: []string{
			"folk", "acoustic", "singer-songwriter", "indie folk", "folk rock",
			"contemporary folk", "freak folk", "anti-folk", "chamber folk",
		}},
		{Genre: Soul, Weight: 9, Keywords: []string{
			"motown", "northern soul", "southern soul", "classic soul", "funk",
			"gospel", "deep soul", "psychedelic soul",
		}},
		{Genre: Blues, Weight: 9, Keywords: []string{
			"delta blues", "chicago blues", "electric blues", "blues rock",
			"country blues", "soul blues",
		}},
		{Genre: Reggae, Weight: 10, Keywords: []string{
			"roots reggae", "dub", "dancehall", "ska", "rocksteady", "lovers rock",
		}},
		{Genre: Latin, Weight: 9, Keywords: []string{
			"latin pop", "reggaeton", "salsa", "bachata", "cumbia", "latin rock",
			"latin hip hop", "latino", "musica latina", "urbano latino",
			"bossa nova", "tango", "merengue", "latin trap", "corridos",
		}},
		{Genre: World, Weight: 8, Keywords: []string{
			"world", "world music", "traditional", "afrobeat", "afrobeats",
			"celtic", "flamenco", "fado", "mpb", "highlife", "klezmer",
			"balkan", "indian classical", "bollywood",
		}},
		{Genre: Alternative, Weight: 5, Keywords: []string{
			"alternative rock", "indie", "indie rock", "indie pop", "shoegaze",
			"post-punk", "new wave", "grunge", "britpop", "dream pop", "emo",
			"art rock", "post-rock", "experimental", "noise pop",
		}},
	}
}

// Categories are ordered so that compound strings land on their more
// specific genre first ("latin pop" is Latin, "pop rap" is Hip Hop).
func defaultCategories() []Category {
	return []Category{
		{Genre: HipHop, Keywords: []string{"hip hop", "hip-hop", "rap", "trap", "drill", "grime", "boom bap"}},
		{Genre: RnB, Keywords: []string{"r&b", "rnb", "neo soul", "new jack swing"}},
		{Genre: Metal, Keywords: []string{"metal", "deathcore", "grindcore", "doom", "sludge", "djent"}},
		{Genre: Latin, Keywords: []string{"latin", "reggaeton", "salsa", "bachata", "cumbia", "urbano", "tango", "bossa nova", "corrido", "mariachi", "sertanejo"}},
		{Genre: Electronic, Keywords: []string{"edm", "house", "techno", "trance", "electro", "dubstep", "drum and bass", "idm", "breakbeat", "synthwave", "hardstyle"}},
		{Genre: Reggae, Keywords: []string{"reggae", "dancehall", "ska", "dub", "rocksteady"}},
		{Genre: Country, Keywords: []string{"country", "bluegrass", "americana", "honky tonk"}},
		{Genre: Jazz, Keywords: []string{"jazz", "bebop", "swing", "big band"}},
		{Genre: Classical, Keywords: []string{"classical", "baroque", "orchestra", "opera", "symphon", "chamber", "choral", "early music"}},
		{Genre: Blues, Keywords: []string{"blues"}},
		{Genre: Soul, Keywords: []string{"soul", "motown", "funk", "gospel"}},
		{Genre: Folk, Keywords: []string{"folk", "acoustic", "singer-songwriter"}},
		{Genre: World, Keywords: []string{"afrobeat", "afro", "world", "celtic", "flamenco", "fado", "traditional", "highlife", "mpb", "bhangra", "bollywood", "filmi"}},
		{Genre: Alternative, Keywords: []string{"indie", "alternative", "shoegaze", "post-punk", "grunge", "emo", "new wave", "dream pop", "britpop"}},
		{Genre: Rock, Keywords: []string{"rock", "punk", "psychedelic"}},
		{Genre: Pop, Keywords: []string{"pop", "boy band", "girl group", "idol"}},
	}
}

func defaultHeuristics() []Rule {
	return []Rule{
		{Contains: []string{"ambient", "chill", "lo-fi", "lofi", "downtempo", "electronic"}, Genre: Electronic},
		{Contains: []string{"instrumental", "soundtrack", "score", "cinematic"}, Genre: Classical},
		{Contains: []string{"beats", "phonk"}, Genre: HipHop},
		{Contains: []string{"worship", "christian"}, Genre: Soul},
		{Contains: []string{"dance"}, Genre: Pop},
		{Contains: []string{"experimental", "avant", "noise", "art"}, Genre: Alternative},
	}
}

func defaultSigns() SignRules {
	return SignRules{
		DominantShare: 0.4,
		Pairs: []Pair{
			{A: HipHop, B: RnB, Label: Soul},
			{A: Rock, B: Metal, Label: Metal},
			{A: Electronic, B: Pop, Label: Electronic},
			{A: Folk, B: Country, Label: Country},
			{A: Jazz, B: Blues, Label: Blues},
			{A: Alternative, B: Rock, Label: Alternative},
			{A: Latin, B: Pop, Label: Latin},
		},
		HighDiversity:  0.6,
		LowDiversity:   0.4,
		HighPopularity: 0.6,
		LowPopularity:  0.4,
		BroadAppeal:    Pop,
		Niche:          Alternative,
		Specific:       Folk,
		General:        Rock,
	}
}
