package lawdict

import "strings"

// abbreviationRule rewrites a canonical title's matching suffix into a
// shorter customary form. Rules are tried in order; the first suffix match
// wins, per spec §4.2's "fixed set of morphological rewrites."
type abbreviationRule struct {
	suffix      string
	replacement string
}

// abbreviationRules is the fixed set of morphological rewrites from spec
// §4.2, ordered most-specific suffix first so e.g. "...に関する特別措置法"
// matches the 特別措置法 rule before falling through to the generic
// "...に関する法律" rule.
var abbreviationRules = []abbreviationRule{
	{suffix: "の特例に関する法律", replacement: "特例法"},
	{suffix: "に関する特別措置法", replacement: "特措法"},
	{suffix: "等に関する法律", replacement: "等法"},
	{suffix: "に関する法律", replacement: "法"},
}

// wellKnownAbbreviations is the small fixed table of customary short forms
// that do not follow the morphological rules (spec §4.2's example:
// 民事訴訟法→民訴法,民訴).
var wellKnownAbbreviations = map[string][]string{
	"民事訴訟法": {"民訴法", "民訴"},
	"刑事訴訟法": {"刑訴法", "刑訴"},
	"民事訴訟規則": {"民訴規則"},
	"独占禁止法":   {"独禁法"},
	"私的独占の禁止及び公正取引の確保に関する法律": {"独占禁止法", "独禁法"},
}

// deriveAbbreviations computes every customary short form for a canonical
// title: zero or more matches from abbreviationRules plus any entries from
// wellKnownAbbreviations. Order is preserved for deterministic first-wins
// insertion into the dictionary.
func deriveAbbreviations(canonicalTitle string) []string {
	var out []string
	seen := make(map[string]bool)

	add := func(abbr string) {
		if abbr == "" || seen[abbr] {
			return
		}
		seen[abbr] = true
		out = append(out, abbr)
	}

	for _, rule := range abbreviationRules {
		if strings.HasSuffix(canonicalTitle, rule.suffix) {
			stem := strings.TrimSuffix(canonicalTitle, rule.suffix)
			add(stem + rule.replacement)
			break
		}
	}

	for _, abbr := range wellKnownAbbreviations[canonicalTitle] {
		add(abbr)
	}

	return out
}
