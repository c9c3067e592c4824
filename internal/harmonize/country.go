package harmonize

import "strings"

// DefaultCountry is assumed when a location gives no other signal; these
// boards are overwhelmingly US-centric.
const DefaultCountry = "USA"

// Ordered country checks. City names cover tables that only list a city.
var countryRules = []struct {
	name  string
	subs  []string
	words []string
}{
	{"Canada", []string{"canada", "toronto", "vancouver", "montreal", "ottawa", "waterloo"}, nil},
	{"UK", []string{"united kingdom", "london", "england", "scotland", "manchester"}, []string{"uk"}},
	{"Germany", []string{"germany", "berlin", "munich", "frankfurt"}, nil},
	{"Netherlands", []string{"netherlands", "amsterdam", "eindhoven"}, nil},
	{"Ireland", []string{"ireland", "dublin"}, nil},
	{"Switzerland", []string{"switzerland", "zurich", "geneva"}, nil},
	{"India", []string{"india", "bangalore", "bengaluru", "hyderabad", "mumbai", "pune", "gurgaon", "noida"}, nil},
	{"Singapore", []string{"singapore"}, nil},
	{"Australia", []string{"australia", "sydney", "melbourne"}, nil},
	{"Japan", []string{"japan", "tokyo"}, nil},
	{"Israel", []string{"israel", "tel aviv"}, nil},
	{"Poland", []string{"poland", "warsaw", "krakow"}, nil},
	{"Brazil", []string{"brazil", "sao paulo", "são paulo"}, nil},
	{"Mexico", []string{"mexico", "guadalajara"}, nil},
}

// InferCountry guesses the country for a free-text location, first match
// wins, defaulting to USA.
func InferCountry(location string) string {
	low := strings.ToLower(location)
	for _, r := range countryRules {
		for _, s := range r.subs {
			if strings.Contains(low, s) {
				return r.name
			}
		}
		for _, w := range r.words {
			if containsWord(low, w) {
				return r.name
			}
		}
	}
	return DefaultCountry
}
