package schedule

import (
	"strings"

	"schedcal/internal/model"
)

// dayAliases maps lowercase weekday tokens to day codes. Longer keys come
// first so that "su" resolves to Sunday before the single-letter "s"
// (Saturday) and "th" to Thursday before "t" (Tuesday). The single letters
// follow the M/T/W/R/F/S/U convention used by registrar exports.
var dayAliases = []struct {
	alias string
	code  model.DayCode
}{
	{"sunday", model.Sunday},
	{"monday", model.Monday},
	{"tuesday", model.Tuesday},
	{"wednesday", model.Wednesday},
	{"thursday", model.Thursday},
	{"friday", model.Friday},
	{"saturday", model.Saturday},
	{"thurs", model.Thursday},
	{"tues", model.Tuesday},
	{"thur", model.Thursday},
	{"sun", model.Sunday},
	{"mon", model.Monday},
	{"tue", model.Tuesday},
	{"wed", model.Wednesday},
	{"thu", model.Thursday},
	{"fri", model.Friday},
	{"sat", model.Saturday},
	{"su", model.Sunday},
	{"mo", model.Monday},
	{"tu", model.Tuesday},
	{"we", model.Wednesday},
	{"th", model.Thursday},
	{"fr", model.Friday},
	{"sa", model.Saturday},
	{"m", model.Monday},
	{"t", model.Tuesday},
	{"w", model.Wednesday},
	{"r", model.Thursday},
	{"f", model.Friday},
	{"s", model.Saturday},
	{"u", model.Sunday},
}

var dayTokenCleaner = strings.NewReplacer(",", " ", "|", " ", ".", " ", "/", " ")

// ParseDays maps free-text weekday tokens to day codes. Tokens are
// lowercased, stripped of commas/pipes/periods, and matched against the
// alias table. Unmatched tokens are silently skipped. Duplicates are
// dropped and first-seen order is preserved.
func ParseDays(text string) []model.DayCode {
	tokens := strings.Fields(dayTokenCleaner.Replace(strings.ToLower(text)))

	var out []model.DayCode
	seen := make(map[model.DayCode]bool)
	for _, tok := range tokens {
		code, ok := dayCodeFor(tok)
		if !ok {
			continue
		}
		if seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, code)
	}
	return out
}

// dayCodeFor resolves a single lowercase token against the alias table.
func dayCodeFor(token string) (model.DayCode, bool) {
	for _, a := range dayAliases {
		if a.alias == token {
			return a.code, true
		}
	}
	return "", false
}
