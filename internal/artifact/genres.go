package artifact

// GenreGroup is one top-level genre with its matched subgenre labels
// and the number of artists tagged with any of them.
type GenreGroup struct {
	Subgenres []string `json:"subgenres"`
	Total     int      `json:"total"`
}

// GenresDist is the genre bar-chart payload.
type GenresDist struct {
	Genres      map[string]GenreGroup `json:"genres"`
	Represented int                   `json:"represented"`
	Total       int                   `json:"total"`
}

// BuildGenresDist writes genresDist.json. Each artist counts once per
// top-level genre, however many of its subgenres match.
func (b *Builder) BuildGenresDist() error {
	rows, err := b.catalog.Query("SELECT artist_id, genre FROM genres")
	if err != nil {
		return err
	}

	byArtist := map[string][]string{}
	for _, row := range rows {
		artistID, _ := row[0].(string)
		genre, _ := row[1].(string)
		byArtist[artistID] = append(byArtist[artistID], genre)
	}

	parent := map[string]string{}
	for name, subgenres := range genreTaxonomy {
		for _, sub := range subgenres {
			parent[sub] = name
		}
	}

	genres := map[string]GenreGroup{}
	for name, subgenres := range genreTaxonomy {
		genres[name] = GenreGroup{Subgenres: subgenres}
	}
	for _, labels := range byArtist {
		seen := map[string]bool{}
		for _, label := range labels {
			name, ok := parent[label]
			if !ok || seen[name] {
				continue
			}
			seen[name] = true
			group := genres[name]
			group.Total++
			genres[name] = group
		}
	}

	represented, err := b.catalog.RepresentedArtists()
	if err != nil {
		return err
	}
	total, err := b.catalog.Count("artists")
	if err != nil {
		return err
	}

	return b.save("", "genresDist", GenresDist{
		Genres:      genres,
		Represented: represented,
		Total:       total,
	})
}

// genreTaxonomy maps top-level genres to the provider subgenre labels
// folded into them. Hand curated; labels pass through cleanStr-style
// normalization on ingest, so they are lowercase and accent free.
var genreTaxonomy = map[string][]string{
	"afrobeat": {"latin afrobeat"},
	"ambient":  {"ambient techno", "argentine ambient", "compositional ambient"},
	"blues":    {"blues latinoamericano"},
	"cantautor": {
		"cantautor", "cantautora argentina",
	},
	"clasica":   {"latin classical", "orchestral soundtrack"},
	"cristiano": {"latin christian", "latin worship"},
	"cumbia": {
		"cumbia 420", "cumbia andina mexicana", "cumbia paraguaya", "cumbia pop",
		"cumbia santafesina", "cumbia surena", "cumbia villera", "nu-cumbia",
	},
	"electronica": {
		"deconstructed club", "deep progressive house", "deep progressive trance",
		"electronica argentina", "ethnotronica", "experimental club", "experimental house",
		"folktronica", "house argentino", "latintronica", "mexican electronic",
		"microhouse", "minimal dub", "organic electronic", "organic house",
		"raw techno", "techno argentina",
	},
	"folclore": {
		"bolero", "canto popular uruguayo", "chamame", "chicha", "choro", "cuarteto",
		"fado", "folclore jujeno", "folclore salteno", "folclore santiagueno",
		"folclore tucumano", "folklore argentino", "folklore cuyano",
		"folklore nuevo argentino", "folklore surero", "musica andina",
		"musica andina chilena", "musica indigena latinoamericana", "musica mapuche",
		"musica popular colombiana", "musica puntana", "nueva cancion",
		"nuevo folklore argentino", "nuevo folklore mexicano", "polca paraguaya",
		"ranchera", "son jarocho", "trova", "zamba",
	},
	"funk":    {"latin funk"},
	"grunge":  {"grunge argentina"},
	"hip hop": {"argentine hip hop"},
	"indie": {
		"argentine indie", "argentine indie rock", "chilean indie", "indie cordoba",
		"indie folk argentino", "indie nordeste argentino", "indie platense",
		"indie tucumano", "manso indie", "mexican indie", "rosario indie",
	},
	"jazz": {
		"argentine jazz", "ecm-style jazz", "electro jazz", "harmonica jazz", "nu jazz",
	},
	"latin": {"deep latin alternative", "latin", "latin soundtrack"},
	"metal": {
		"argentine heavy metal", "argentine metal", "black metal argentino",
		"celtic metal", "deep folk metal", "folk metal latinoamericano", "gothic metal",
		"gothic symphonic metal", "instrumental progressive metal", "latin metal",
		"latincore", "melodic thrash", "mexican metal", "progressive doom",
		"progressive sludge", "retro metal", "shred", "spanish metal",
		"symphonic deathcore", "symphonic metal", "symphonic power metal",
		"technical deathcore", "trancecore", "trash rock",
	},
	"pop": {
		"argentine telepop", "experimental pop", "hyperpop en espanol", "latin pop",
		"latin arena pop", "latin viral pop", "mexican pop", "modern dream pop",
		"pop ambient", "pop argentino", "pop electronico", "pop romantico",
		"pop venezolano", "spanish electropop", "spanish new wave", "spanish pop",
	},
	"punk": {
		"argentine punk", "gypsy punk", "post-punk argentina",
		"post-punk latinoamericano", "post-rock latinoamericano",
	},
	"rap": {
		"rap conciencia", "rap cristiano", "rap latina",
		"rap underground argentino", "rap underground espanol",
	},
	"reggae":    {"argentine reggae", "reggae en espanol"},
	"reggaeton": {"reggaeton"},
	"rock": {
		"acid rock", "argentine alternative rock", "argentine hardcore",
		"argentine rock", "classic garage rock", "dark rock", "deep surf music",
		"hard stoner rock", "latin alternative", "latin american heavy psych",
		"latin rock", "latin shoegaze", "latin surf rock", "math rock latinoamericano",
		"mexican rock", "paraguayan rock", "rock cristiano", "rock en espanol",
		"rock nacional", "rock urbano mexicano", "rockabilly en espanol",
		"space rock", "spanish pop rock", "stoner rock", "surf music",
	},
	"r&b": {"r&b argentino", "r&b en espanol"},
	"ska": {
		"latin ska", "ska", "ska argentino", "ska jazz", "ska revival",
		"traditional ska",
	},
	"tango": {
		"neotango", "nuevo tango", "tango", "tango cancion", "vintage tango",
	},
	"trap": {
		"emo trap en espanol", "trap argentino", "trap chileno", "trap latino",
		"trap triste",
	},
	"tropical": {"tropical", "tropical alternativo"},
	"_misc": {
		"accordion", "background music", "bandoneon", "bases de freestyle",
		"cancion infantil latinoamericana", "cancion melodica", "charango",
		"cover acustico", "guitarra argentina", "jazz guitar", "musica para ninos",
		"soundtrack", "video game music",
	},
}
