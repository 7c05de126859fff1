// Package categories rolls fine-grained ethnicity and genre labels up into a
// small fixed set of named super-categories. The two mapping tables are
// hand-curated, process-wide constants: built once at init, read-only
// afterwards, shared by every pipeline invocation.
//
// Reduction semantics differ by column on purpose. Ethnicity indicators keep
// occurrence counts (several cast members of one group all count), because
// the diversity score downstream sums them. Genre indicators clamp to {0,1}:
// a movie either carries a genre or it does not. A raw value absent from its
// mapping contributes nothing and disappears from the descriptive string;
// the reduction counts those drops so a run summary can surface them.
package categories

import "strings"

// Group is one super-category and the raw source labels that collapse into
// it. Each raw label belongs to at most one group per mapping table.
type Group struct {
	Name    string
	Members []string
}

// EthnicityGroups is the fixed ethnicity rollup, in indicator-column order.
var EthnicityGroups = []Group{
	{Name: "African Ethnicities", Members: []string{
		"African Americans", "Afro-Asians", "Black people", "Yoruba people",
		"Igbo people", "Akan people", "Ghanaians", "Kenyans", "Nigerians",
		"Somalis", "Zulu people", "Xhosa people", "Ethiopians", "Eritreans",
		"Sierra Leone Creole people", "Berbers", "Black Canadians",
		"Black Britons", "Afro-Cuban",
	}},
	{Name: "Indigenous Peoples", Members: []string{
		"Native Americans in the United States", "Cherokee", "Apache",
		"Sioux", "Lumbee", "Inuit", "Métis", "First Nations", "Mohawk",
		"Cree", "Ojibwe", "Choctaw", "Navajo people", "Aymara", "Quechua",
		"Mapuche", "Sámi people",
	}},
	{Name: "Western European Ethnicities", Members: []string{
		"English people", "Irish people", "Irish Americans",
		"Scottish people", "Scottish Americans", "Welsh people", "French",
		"French Americans", "Dutch", "Dutch Americans", "Belgians",
		"Germans", "German Americans", "Austrians", "Swiss",
		"British", "British Americans", "Anglo-Irish people",
		"Luxembourgers", "French Canadians",
	}},
	{Name: "Northern European Ethnicities", Members: []string{
		"Swedes", "Swedish Americans", "Norwegians", "Norwegian Americans",
		"Danes", "Danish Americans", "Finns", "Finnish Americans",
		"Icelanders", "Swedish-speaking population of Finland",
	}},
	{Name: "Southern European Ethnicities", Members: []string{
		"Italians", "Italian Americans", "Sicilian Americans", "Spaniards",
		"Spanish Americans", "Portuguese", "Portuguese Americans", "Greeks",
		"Greek Americans", "Maltese people", "Greek Canadians",
	}},
	{Name: "Eastern European Ethnicities", Members: []string{
		"Russians", "Russian Americans", "Poles", "Polish Americans",
		"Ukrainians", "Ukrainian Americans", "Czechs", "Slovaks",
		"Hungarians", "Hungarian Americans", "Romanians", "Bulgarians",
		"Serbs", "Croats", "Slovenes", "Albanians", "Lithuanians",
		"Latvians", "Estonians", "Belarusians",
	}},
	{Name: "Asian Ethnicities", Members: []string{
		"Chinese", "Chinese Americans", "Han Chinese people",
		"Japanese people", "Japanese Americans", "Koreans",
		"Korean Americans", "Indians", "Indian Americans", "Bengali",
		"Punjabis", "Tamil", "Telugu people", "Marathi people",
		"Gujarati people", "Sindhis", "Kashmiri Pandit", "Filipino people",
		"Filipino Americans", "Vietnamese people", "Vietnamese Americans",
		"Thai people", "Indonesians", "Malaysians", "Sri Lankan Tamils",
		"Sinhalese", "Nepalis", "Pakistanis", "Taiwanese", "Hmong",
		"Asian Americans", "Mongols",
	}},
	{Name: "Middle Eastern and Arab Ethnicities", Members: []string{
		"Arabs", "Arab Americans", "Iranian peoples", "Persians",
		"Iranian Americans", "Turks", "Turkish Americans", "Lebanese",
		"Lebanese Americans", "Egyptians", "Syrians", "Palestinians",
		"Iraqis", "Moroccans", "Israelis", "Kurds", "Armenians",
		"Armenian Americans", "Assyrian people", "Azerbaijanis",
	}},
	{Name: "Latin American Ethnicities", Members: []string{
		"Mexicans", "Mexican Americans", "Hispanic and Latino Americans",
		"Puerto Ricans", "Stateside Puerto Ricans", "Cubans",
		"Cuban Americans", "Brazilians", "Argentines", "Chileans",
		"Colombians", "Venezuelans", "Peruvians", "Dominican Americans",
		"Hondurans", "Guatemalans", "Bolivians", "Ecuadorians",
		"Uruguayans", "Salvadoran Americans", "Latino",
	}},
	{Name: "Jewish Communities", Members: []string{
		"Jewish people", "American Jews", "Ashkenazi Jews", "Sephardi Jews",
		"Mizrahi Jews", "Israeli Jews", "British Jews", "Russian Jews",
	}},
	{Name: "American Ethnicities", Members: []string{
		"Americans", "White Americans", "European Americans",
		"Anglo-Americans", "Cajun", "Louisiana Creole people", "Canadians",
		"Canadian Americans", "Québécois", "Appalachian Americans",
	}},
	{Name: "Oceanian Ethnicities", Members: []string{
		"Australians", "Australian Americans", "New Zealanders", "Māori",
		"Indigenous Australians", "Native Hawaiians", "Samoans", "Tongans",
		"Fijians", "Pacific Islander Americans",
	}},
}

// GenreGroups is the fixed genre rollup, in indicator-column order.
var GenreGroups = []Group{
	{Name: "Action", Members: []string{
		"Action", "Action/Adventure", "Action Comedy", "Action Thrillers",
		"Martial Arts Film", "Superhero movie", "Spy", "Swashbuckler films",
		"Thriller", "Disaster", "Chase Movie", "Glamorized Spy Film",
	}},
	{Name: "Adventure", Members: []string{
		"Adventure", "Family-Oriented Adventure", "Costume Adventure",
		"Road movie", "Western", "Epic", "Jungle Film", "Treasure Hunt",
		"Costume drama",
	}},
	{Name: "Comedy", Members: []string{
		"Comedy", "Comedy film", "Black comedy", "Slapstick", "Parody",
		"Satire", "Comedy of manners", "Screwball comedy", "Comedy-drama",
		"Gross-out film", "Mockumentary", "Stand-up comedy",
		"Comedy of Errors", "Comedy Thriller",
	}},
	{Name: "Drama", Members: []string{
		"Drama", "Melodrama", "Family Drama", "Courtroom Drama",
		"Political drama", "Biographical film", "Biography",
		"Historical drama", "Period piece", "Coming of age", "Tragedy",
		"Social problem film", "Ensemble Film", "Historical fiction",
	}},
	{Name: "Fantasy and Science Fiction", Members: []string{
		"Fantasy", "Science Fiction", "Space western", "Time travel",
		"Alien Film", "Supernatural", "Sword and sorcery", "Dystopia",
		"Apocalyptic and post-apocalyptic fiction", "Cyberpunk",
		"Fairy tale", "Fantasy Adventure", "Fantasy Comedy", "Sci Fi Pictures original films",
	}},
	{Name: "Horror", Members: []string{
		"Horror", "Slasher", "Zombie Film", "Monster movie",
		"Creature Film", "Vampire movies", "Werewolf fiction",
		"Haunted House Film", "Psychological horror", "Sci-Fi Horror",
		"Splatter film", "Horror Comedy", "Natural horror films",
	}},
	{Name: "Romance", Members: []string{
		"Romance Film", "Romantic comedy", "Romantic drama",
		"Romantic fantasy", "Romantic thriller",
	}},
	{Name: "Documentary", Members: []string{
		"Documentary", "Docudrama", "Rockumentary", "Concert film",
		"Nature documentary", "Biographical documentary",
	}},
	{Name: "Crime and Mystery", Members: []string{
		"Crime Fiction", "Crime Thriller", "Crime Drama", "Mystery",
		"Detective fiction", "Detective", "Film noir", "Neo-noir",
		"Gangster Film", "Heist", "Whodunit", "Suspense", "Caper story",
		"Law & Crime", "Prison film", "Psychological thriller",
		"Crime Comedy", "Master Criminal Films",
	}},
	{Name: "Musicals and Dance", Members: []string{
		"Musical", "Music", "Dance", "Musical Drama", "Musical comedy",
		"Jukebox musical", "Backstage Musical", "Operetta",
		"Animated Musical",
	}},
	{Name: "War and Political", Members: []string{
		"War film", "Anti-war film", "Political cinema",
		"Political thriller", "Combat Films", "Political satire",
		"Propaganda film", "War effort", "Gulf War",
	}},
	{Name: "Family and Children", Members: []string{
		"Family Film", "Children's", "Children's/Family",
		"Children's Fantasy", "Children's Entertainment",
		"Children's Issues",
	}},
	{Name: "Animation", Members: []string{
		"Animation", "Animated cartoon", "Anime", "Computer Animation",
		"Stop motion", "Clay animation", "Supermarionation",
	}},
	{Name: "Sports", Members: []string{
		"Sports", "Boxing", "Baseball", "Auto racing", "Extreme Sports",
		"Horse racing",
	}},
	{Name: "Experimental and Independent", Members: []string{
		"Experimental film", "Avant-garde", "Indie", "Art film",
		"Surrealism", "Underground film", "Absurdism",
	}},
	{Name: "LGBT and Gender Issues", Members: []string{
		"LGBT", "Gay", "Gay Interest", "Gay Themed", "Queer cinema",
		"Feminist Film", "Gender Issues",
	}},
	{Name: "Erotic and Adult", Members: []string{
		"Erotica", "Erotic thriller", "Erotic Drama", "Softcore Porn",
		"Pornographic movie", "Sexploitation", "Pinku eiga",
	}},
}

// missingToken is how upstream rendering marks an absent value inside a
// multi-valued string; it never maps to a category.
const missingToken = "nan"

var (
	ethnicityIndex = memberIndex(EthnicityGroups)
	genreIndex     = memberIndex(GenreGroups)
)

func memberIndex(groups []Group) map[string]int {
	idx := make(map[string]int)
	for gi, g := range groups {
		for _, m := range g.Members {
			idx[m] = gi
		}
	}
	return idx
}

// EthnicityNames returns the ethnicity super-category names in indicator
// order.
func EthnicityNames() []string { return groupNames(EthnicityGroups) }

// GenreNames returns the genre super-category names in indicator order.
func GenreNames() []string { return groupNames(GenreGroups) }

func groupNames(groups []Group) []string {
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Name
	}
	return names
}

// Reduction is the category rollup for one movie.
type Reduction struct {
	// EthnicityCounts holds one occurrence count per ethnicity group, in
	// EthnicityGroups order.
	EthnicityCounts []int
	// GenreFlags holds one presence flag per genre group, in GenreGroups
	// order.
	GenreFlags []int

	// Ethnicities and Genres are the rebuilt descriptive strings: every
	// super-category with a positive indicator, in group order.
	Ethnicities string
	Genres      string

	// UnmappedEthnicities and UnmappedGenres count raw values that matched
	// no group and were dropped.
	UnmappedEthnicities int
	UnmappedGenres      int
}

// Reduce rolls one movie's multi-valued ethnicity and genre strings into
// super-category indicators and descriptive strings.
func Reduce(ethnicities, genres string) Reduction {
	var r Reduction
	r.EthnicityCounts, r.UnmappedEthnicities = reduceValues(splitValues(ethnicities), ethnicityIndex, len(EthnicityGroups), false)
	r.GenreFlags, r.UnmappedGenres = reduceValues(splitValues(genres), genreIndex, len(GenreGroups), true)
	r.Ethnicities = describe(EthnicityGroups, r.EthnicityCounts)
	r.Genres = describe(GenreGroups, r.GenreFlags)
	return r
}

// reduceValues counts tokens per group. With clamp set, counts collapse to
// presence flags.
func reduceValues(tokens []string, idx map[string]int, n int, clamp bool) (indicators []int, unmapped int) {
	indicators = make([]int, n)
	for _, tok := range tokens {
		gi, ok := idx[tok]
		if !ok {
			unmapped++
			continue
		}
		indicators[gi]++
	}
	if clamp {
		for i, c := range indicators {
			if c > 1 {
				indicators[i] = 1
			}
		}
	}
	return indicators, unmapped
}

// splitValues explodes a ", "-joined multi-valued string, dropping empty
// tokens and missing-value markers.
func splitValues(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || p == missingToken {
			continue
		}
		tokens = append(tokens, p)
	}
	return tokens
}

// describe rebuilds the human-readable string: every group with a positive
// indicator, in group order.
func describe(groups []Group, indicators []int) string {
	var names []string
	for i, c := range indicators {
		if c > 0 {
			names = append(names, groups[i].Name)
		}
	}
	return strings.Join(names, ", ")
}
