package media

// A small built-in gazetteer backs geographic keyword detection. It is
// deliberately shallow: enough to anchor media queries to a place and to
// catch the common historical-name aliases, not a full geocoder.

// cityRegions maps a known city to its region.
var cityRegions = map[string]string{
	"mumbai":     "india",
	"chennai":    "india",
	"kolkata":    "india",
	"delhi":      "india",
	"istanbul":   "turkey",
	"lisbon":     "portugal",
	"porto":      "portugal",
	"barcelona":  "spain",
	"valencia":   "spain",
	"naples":     "italy",
	"venice":     "italy",
	"rome":       "italy",
	"athens":     "greece",
	"marseille":  "france",
	"paris":      "france",
	"hamburg":    "germany",
	"berlin":     "germany",
	"rotterdam":  "netherlands",
	"amsterdam":  "netherlands",
	"oslo":       "norway",
	"bergen":     "norway",
	"stockholm":  "sweden",
	"copenhagen": "denmark",
	"london":     "england",
	"liverpool":  "england",
	"dublin":     "ireland",
	"boston":     "usa",
	"seattle":    "usa",
	"chicago":    "usa",
	"miami":      "usa",
	"sydney":     "australia",
	"melbourne":  "australia",
	"auckland":   "new zealand",
	"tokyo":      "japan",
	"osaka":      "japan",
	"yokohama":   "japan",
	"shanghai":   "china",
	"hong kong":  "china",
	"singapore":  "singapore",
	"cape town":  "south africa",
	"lagos":      "nigeria",
	"cairo":      "egypt",
	"alexandria": "egypt",
	"rio de janeiro": "brazil",
	"buenos aires":   "argentina",
	"vancouver":      "canada",
	"halifax":        "canada",
}

// cityAliases maps historical or colloquial names onto the canonical city.
var cityAliases = map[string]string{
	"bombay":         "mumbai",
	"madras":         "chennai",
	"calcutta":       "kolkata",
	"constantinople": "istanbul",
	"byzantium":      "istanbul",
	"saigon":         "ho chi minh city",
	"leningrad":      "saint petersburg",
	"peking":         "beijing",
	"rangoon":        "yangon",
	"ceylon":         "sri lanka",
}

// coastalCities marks cities where marine context terms are a relevance
// signal rather than noise.
var coastalCities = map[string]bool{
	"mumbai": true, "chennai": true, "istanbul": true, "lisbon": true,
	"porto": true, "barcelona": true, "valencia": true, "naples": true,
	"venice": true, "athens": true, "marseille": true, "hamburg": true,
	"rotterdam": true, "amsterdam": true, "oslo": true, "bergen": true,
	"stockholm": true, "copenhagen": true, "liverpool": true, "dublin": true,
	"boston": true, "seattle": true, "miami": true, "sydney": true,
	"auckland": true, "tokyo": true, "osaka": true, "yokohama": true,
	"shanghai": true, "hong kong": true, "singapore": true, "cape town": true,
	"lagos": true, "alexandria": true, "rio de janeiro": true,
	"buenos aires": true, "vancouver": true, "halifax": true,
}

// knownRegions is derived from cityRegions and used for mismatch checks.
var knownRegions = func() map[string]bool {
	regions := make(map[string]bool, len(cityRegions))
	for _, r := range cityRegions {
		regions[r] = true
	}
	return regions
}()

// marineTerms trigger the coastal co-occurrence bonus.
var marineTerms = []string{
	"coast", "coastal", "harbor", "harbour", "beach", "seaside",
	"ocean", "marine", "port", "bay", "pier", "waterfront", "shore",
}

// genericStockTerms penalize interchangeable stock-catalog filler.
var genericStockTerms = []string{
	"stock photo", "clipart", "illustration", "render", "template",
	"mockup", "watermark", "vector art", "generic",
}

// lookupCity resolves token (or its alias) to a canonical city name,
// returning the city and whether it was found.
func lookupCity(token string) (string, bool) {
	if _, ok := cityRegions[token]; ok {
		return token, true
	}
	if canonical, ok := cityAliases[token]; ok {
		return canonical, true
	}
	return "", false
}
