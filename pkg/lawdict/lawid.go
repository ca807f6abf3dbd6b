// Package lawdict builds and serves the corpus-wide law dictionary: the
// three-way index (canonical title, abbreviation, law-number string) into
// stable LawId values that every other component resolves citations
// against. It is built once from a corpus CSV and is read-only thereafter;
// concurrent readers are safe.
package lawdict

import (
	"fmt"
	"strings"

	"go.ngs.io/jplaw-cite/pkg/numeral"
)

// LawId is an opaque, stable identifier for a statute, unique across the
// corpus. It is keyed by promulgation era+year+kind+sequence and is
// immutable once assigned (spec §3).
type LawId string

// Kind classifies a statute by promulgation instrument.
type Kind string

const (
	KindAct                  Kind = "Act"                  // 法律
	KindCabinetOrder         Kind = "CabinetOrder"          // 政令
	KindImperialOrder        Kind = "ImperialOrder"         // 勅令
	KindMinisterialOrdinance Kind = "MinisterialOrdinance"  // 省令
	KindRule                 Kind = "Rule"                  // 規則
)

// kindCode maps a Kind to the two-letter code used inside a LawId, per the
// real e-Gov law-id convention (e.g. the "AC" in 506AC0000000046, seen
// verbatim in the ngs-go-jplaw-api-v2 client's doc comments).
var kindCode = map[Kind]string{
	KindAct:                  "AC",
	KindCabinetOrder:         "CO",
	KindImperialOrder:        "IO",
	KindMinisterialOrdinance: "M",
	KindRule:                 "RU",
}

var codeKind = func() map[string]Kind {
	m := make(map[string]Kind, len(kindCode))
	for k, v := range kindCode {
		m[v] = k
	}
	return m
}()

// eraValue maps an era name (kanji) to its numeral era digit, per spec §4.3's
// table: 明治=1, 大正=2, 昭和=3, 平成=4, 令和=5.
var eraValue = map[string]int{
	"明治": 1,
	"大正": 2,
	"昭和": 3,
	"平成": 4,
	"令和": 5,
}

var valueEra = func() map[int]string {
	m := make(map[int]string, len(eraValue))
	for k, v := range eraValue {
		m[v] = k
	}
	return m
}()

// BuildLawId assembles a LawId from its components in the canonical
// "{era-digit}{year:02}{kind-code}{seq:010}" form.
func BuildLawId(eraDigit, year int, kind Kind, seq int) LawId {
	code := kindCode[kind]
	if code == "" {
		code = "AC"
	}
	return LawId(fmt.Sprintf("%d%02d%s%010d", eraDigit, year, code, seq))
}

// ParseLawNumber decodes a formal law-number string of the shape
// "<era-kanji><year-kanji>年法律第<seq-kanji>号" (spec §4.3, pattern P1) into
// its stable LawId. Only the "法律" (Act) instrument is covered by this
// exact phrase; other instruments (政令, 省令, ...) follow the same shape
// with a different middle word, handled via instrumentWord below.
func ParseLawNumber(s string) (LawId, bool) {
	s = strings.TrimSpace(s)

	kind, instrumentWord := detectInstrument(s)
	idx := strings.Index(s, "年"+instrumentWord+"第")
	if idx < 0 {
		return "", false
	}
	eraYear := s[:idx]
	rest := s[idx+len("年"+instrumentWord+"第"):]

	seqIdx := strings.Index(rest, "号")
	if seqIdx < 0 {
		return "", false
	}
	seqKanji := rest[:seqIdx]

	era, eraDigit, ok := splitEra(eraYear)
	if !ok {
		return "", false
	}
	yearKanji := eraYear[len(era):]

	year, ok := parseEraYear(yearKanji)
	if !ok {
		return "", false
	}
	seq, ok := numeral.KanjiToInt(seqKanji)
	if !ok {
		return "", false
	}

	return BuildLawId(eraDigit, year, kind, seq), true
}

// detectInstrument finds which of the known instrument words (法律, 政令,
// 省令, 規則, 勅令) appears in s, defaulting to 法律/Act when none match
// (the common case, and the one spec's example exercises).
func detectInstrument(s string) (Kind, string) {
	words := []struct {
		kind Kind
		word string
	}{
		{KindAct, "法律"},
		{KindCabinetOrder, "政令"},
		{KindMinisterialOrdinance, "省令"},
		{KindRule, "規則"},
		{KindImperialOrder, "勅令"},
	}
	for _, w := range words {
		if strings.Contains(s, w.word) {
			return w.kind, w.word
		}
	}
	return KindAct, "法律"
}

// splitEra finds which known era name prefixes s, returning the era name and
// its numeral digit.
func splitEra(s string) (era string, digit int, ok bool) {
	for name, d := range eraValue {
		if strings.HasPrefix(s, name) {
			return name, d, true
		}
	}
	return "", 0, false
}

// parseEraYear parses the numeral text following an era name, accepting the
// special first-year form "元" (gan-nen, "year 1") in addition to ordinary
// kanji numerals.
func parseEraYear(s string) (int, bool) {
	if s == "元" {
		return 1, true
	}
	return numeral.KanjiToInt(s)
}

// EncodeLawNumber is the inverse of ParseLawNumber's decoding step for the
// round-trip invariant in spec §8: decoding then re-encoding a law-number
// string yields the same id. It renders id back into its canonical law
// number text.
func EncodeLawNumber(id LawId) (string, bool) {
	if len(id) < 1+2+2 {
		return "", false
	}
	digit := int(id[0] - '0')
	era, ok := valueEra[digit]
	if !ok {
		return "", false
	}
	rest := string(id[1:])

	// Year is the next 2 digits.
	if len(rest) < 2 {
		return "", false
	}
	yearStr := rest[:2]
	rest = rest[2:]
	year, ok := numeral.ParseWesternNumber(yearStr)
	if !ok {
		return "", false
	}

	// Kind code is 1 or 2 letters (M is 1, the rest are 2).
	var code string
	var kind Kind
	for _, candidate := range []string{rest[:min(2, len(rest))], rest[:min(1, len(rest))]} {
		if k, ok := codeKind[candidate]; ok {
			code = candidate
			kind = k
			break
		}
	}
	if code == "" {
		return "", false
	}
	seqStr := rest[len(code):]
	seq, ok := numeral.ParseWesternNumber(seqStr)
	if !ok {
		return "", false
	}

	instrument := map[Kind]string{
		KindAct:                  "法律",
		KindCabinetOrder:         "政令",
		KindMinisterialOrdinance: "省令",
		KindRule:                 "規則",
		KindImperialOrder:        "勅令",
	}[kind]

	return fmt.Sprintf("%s%s年%s第%s号", era, numeral.IntToKanji(year), instrument, numeral.IntToKanji(seq)), true
}
