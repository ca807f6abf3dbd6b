// Package numeral converts between Japanese kanji numerals and integers, and
// folds full-width digits to their half-width ASCII equivalents. It backs
// every other component that needs to read or write an article, paragraph,
// or law-number numeral out of statute text (pkg/pattern, pkg/context,
// pkg/detector, pkg/lawdict).
//
// The kanji<->int codec is implemented as a small deterministic state
// machine over runes rather than string substring tricks, per the design
// note that substring-based parsing mishandles multiplier boundaries such
// as 千 (1000), 百千 and mixed kanji/full-width-digit numerals.
package numeral

import (
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

// digitValues maps a kanji digit rune to its value 0-9. 〇 is accepted as zero.
var digitValues = map[rune]int{
	'〇': 0, '一': 1, '二': 2, '三': 3, '四': 4,
	'五': 5, '六': 6, '七': 7, '八': 8, '九': 9,
}

// multiplierValues maps a kanji multiplier rune to its scale.
var multiplierValues = map[rune]int{
	'十': 10,
	'百': 100,
	'千': 1000,
}

// intToDigit is the inverse of digitValues for digits 1-9 (0 is only ever
// emitted standalone, handled separately in IntToKanji).
var intToDigit = [10]rune{'〇', '一', '二', '三', '四', '五', '六', '七', '八', '九'}

// NormalizeDigits folds full-width ASCII-range runes (e.g. full-width
// digits "１２３", but also full-width letters/punctuation that may appear
// alongside them in statute text) down to their half-width equivalents.
// It never touches kanji numerals, which are handled by KanjiToInt.
func NormalizeDigits(s string) string {
	folded, _ := width.Fold.String(s)
	return folded
}

// ParseWesternNumber parses a (possibly full-width) run of ASCII digits into
// an integer. Returns false if, after width folding, s is not composed
// entirely of ASCII digits.
func ParseWesternNumber(s string) (int, bool) {
	folded := NormalizeDigits(s)
	if folded == "" {
		return 0, false
	}
	for _, r := range folded {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(folded)
	if err != nil {
		return 0, false
	}
	return n, true
}

// KanjiToInt parses a Japanese numeral string (kanji digits/multipliers,
// optionally interleaved with full-width or half-width ASCII digits) into an
// integer. It fails (returns false) on any string containing a character
// outside that alphabet, or on an empty string.
//
// Algorithm: scan left to right. A multiplier rune closes out the pending
// digit (defaulting to 1 if none was seen) times the multiplier's scale and
// adds it to the running total; a digit rune becomes the new pending digit,
// or, when it directly follows another digit, extends the pending value
// positionally (so "１０" is 10 and "１２３" is 123).
// Any pending digit left over after the scan (the "trailing digit", e.g. the
// `四` in `二百三十四`) is added once at the end.
func KanjiToInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}

	total := 0
	pending := -1 // -1 means "no pending digit"

	for _, r := range s {
		switch {
		case isDigitRune(r):
			if pending == -1 {
				pending = digitValueOf(r)
			} else {
				pending = pending*10 + digitValueOf(r)
			}
		case multiplierValues[r] != 0:
			d := pending
			if d == -1 {
				d = 1
			}
			total += d * multiplierValues[r]
			pending = -1
		default:
			return 0, false
		}
	}

	if pending != -1 {
		total += pending
	}

	return total, true
}

func isDigitRune(r rune) bool {
	if _, ok := digitValues[r]; ok {
		return true
	}
	folded, _ := width.Fold.String(string(r))
	return len(folded) == 1 && folded[0] >= '0' && folded[0] <= '9'
}

func digitValueOf(r rune) int {
	if v, ok := digitValues[r]; ok {
		return v
	}
	folded, _ := width.Fold.String(string(r))
	return int(folded[0] - '0')
}

// IntToKanji renders n (expected in [0, 9999]) as a Japanese numeral using
// the standard multiplicative composition: for 10-99 a suppressed leading
// "一" before 十; the same suppression rule recurses for the hundreds and
// thousands places.
func IntToKanji(n int) string {
	if n == 0 {
		return "〇"
	}
	if n < 0 {
		return ""
	}

	var b strings.Builder
	thousands := n / 1000
	hundreds := (n % 1000) / 100
	tens := (n % 100) / 10
	ones := n % 10

	if thousands > 0 {
		if thousands > 1 {
			b.WriteRune(intToDigit[thousands])
		}
		b.WriteRune('千')
	}
	if hundreds > 0 {
		if hundreds > 1 {
			b.WriteRune(intToDigit[hundreds])
		}
		b.WriteRune('百')
	}
	if tens > 0 {
		if tens > 1 {
			b.WriteRune(intToDigit[tens])
		}
		b.WriteRune('十')
	}
	if ones > 0 {
		b.WriteRune(intToDigit[ones])
	}

	return b.String()
}

// EncodeArticleLabel renders a branch article label in the canonical
// "{main}の{sub}" form (e.g. main=12, sub=3 -> "十二の三"). sub == 0 means a
// plain, unbranched article and yields just IntToKanji(main).
func EncodeArticleLabel(main, sub int) string {
	if sub == 0 {
		return IntToKanji(main)
	}
	return IntToKanji(main) + "の" + IntToKanji(sub)
}

// DecodeArticleLabel parses a canonical article label, splitting the
// "{main}の{sub}" branch form if present. ok is false if either numeral
// fails to parse.
func DecodeArticleLabel(s string) (main, sub int, ok bool) {
	parts := strings.SplitN(s, "の", 2)
	main, ok = KanjiToInt(parts[0])
	if !ok {
		return 0, 0, false
	}
	if len(parts) == 1 {
		return main, 0, true
	}
	sub, ok = KanjiToInt(parts[1])
	if !ok {
		return 0, 0, false
	}
	return main, sub, true
}
