// Package region maps human-readable country and language names to the
// 2-letter codes the headlines API expects.
package region

import "strings"

var countryCodes = map[string]string{
	"united arab emirates": "ae", "argentina": "ar", "austria": "at", "australia": "au",
	"belgium": "be", "bulgaria": "bg", "brazil": "br", "canada": "ca", "switzerland": "ch",
	"china": "cn", "colombia": "co", "cuba": "cu", "czech republic": "cz", "germany": "de",
	"egypt": "eg", "france": "fr", "united kingdom": "gb", "greece": "gr", "hong kong": "hk",
	"hungary": "hu", "indonesia": "id", "ireland": "ie", "israel": "il", "india": "in",
	"italy": "it", "japan": "jp", "south korea": "kr", "lithuania": "lt", "latvia": "lv",
	"morocco": "ma", "mexico": "mx", "malaysia": "my", "nigeria": "ng", "netherlands": "nl",
	"norway": "no", "new zealand": "nz", "philippines": "ph", "poland": "pl", "portugal": "pt",
	"romania": "ro", "serbia": "rs", "russia": "ru", "saudi arabia": "sa", "sweden": "se",
	"singapore": "sg", "slovenia": "si", "slovakia": "sk", "thailand": "th", "turkey": "tr",
	"taiwan": "tw", "ukraine": "ua", "united states": "us", "venezuela": "ve", "south africa": "za",
}

var languageCodes = map[string]string{
	"arabic": "ar", "german": "de", "english": "en", "spanish": "es", "french": "fr",
	"hebrew": "he", "italian": "it", "dutch": "nl", "norwegian": "no", "portuguese": "pt",
	"russian": "ru", "swedish": "sv", "urdu": "ud", "chinese": "zh",
}

// CountryCode resolves a country name or 2-letter code to the code the
// API expects. Unknown values return false.
func CountryCode(name string) (string, bool) {
	return lookup(countryCodes, name)
}

// LanguageCode resolves a language name or 2-letter code.
func LanguageCode(name string) (string, bool) {
	return lookup(languageCodes, name)
}

// CountryNames lists the supported country names, for selection UIs.
func CountryNames() []string {
	return keys(countryCodes)
}

// LanguageNames lists the supported language names.
func LanguageNames() []string {
	return keys(languageCodes)
}

func lookup(codes map[string]string, name string) (string, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "", false
	}
	if code, ok := codes[name]; ok {
		return code, true
	}
	if len(name) == 2 {
		for _, code := range codes {
			if code == name {
				return code, true
			}
		}
	}
	return "", false
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
