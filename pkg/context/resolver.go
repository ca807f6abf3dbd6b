package context

import "go.ngs.io/jplaw-cite/pkg/numeral"

// ResolveRelative resolves one of the fixed relative phrases (spec §4.3,
// P4) against the tracker's current position. hasExplicitParagraph/
// explicitParagraph carry a trailing "第N項" the pattern captured alongside
// the phrase (e.g. "前条第二項"): when present it overrides the arithmetic
// this function would otherwise do on the current paragraph number.
//
// ok is false when the phrase cannot be resolved from the current position
// (e.g. 前項 at paragraph 1, or 前条 before any article has been entered).
func ResolveRelative(t *Tracker, phrase string, hasExplicitParagraph bool, explicitParagraph int) (articleLabel string, paragraph int, ok bool) {
	switch phrase {
	case "前条":
		prev, ok := decrementArticle(t.currentArticle)
		if !ok {
			return "", 0, false
		}
		if hasExplicitParagraph {
			return prev, explicitParagraph, true
		}
		return prev, 0, true

	case "次条":
		next, ok := incrementArticle(t.currentArticle)
		if !ok {
			return "", 0, false
		}
		if hasExplicitParagraph {
			return next, explicitParagraph, true
		}
		return next, 0, true

	case "前項":
		if t.currentParagraph <= 1 {
			return "", 0, false
		}
		return t.currentArticle, t.currentParagraph - 1, true

	case "次項":
		return t.currentArticle, t.currentParagraph + 1, true

	case "前二項":
		if t.currentParagraph <= 1 {
			return "", 0, false
		}
		start := t.currentParagraph - 2
		if start < 1 {
			start = 1
		}
		return t.currentArticle, start, true

	case "前三項":
		if t.currentParagraph <= 1 {
			return "", 0, false
		}
		start := t.currentParagraph - 3
		if start < 1 {
			start = 1
		}
		return t.currentArticle, start, true

	case "前各項":
		if t.currentParagraph <= 1 {
			return "", 0, false
		}
		return t.currentArticle, 1, true

	default:
		return "", 0, false
	}
}

// decrementArticle returns the label of the article immediately preceding
// label, stepping down through branch articles first ("五の二" -> "五の一")
// before decrementing the main article number ("五の一" -> "五", "五" ->
// "四").
func decrementArticle(label string) (string, bool) {
	main, sub, ok := numeral.DecodeArticleLabel(label)
	if !ok {
		return "", false
	}
	if sub > 1 {
		return numeral.EncodeArticleLabel(main, sub-1), true
	}
	if sub == 1 {
		return numeral.EncodeArticleLabel(main, 0), true
	}
	if main <= 1 {
		return "", false
	}
	return numeral.EncodeArticleLabel(main-1, 0), true
}

// incrementArticle returns the label of the article immediately following
// label. Branch articles increment their sub-number; plain articles
// increment their main number.
func incrementArticle(label string) (string, bool) {
	main, sub, ok := numeral.DecodeArticleLabel(label)
	if !ok {
		return "", false
	}
	if sub > 0 {
		return numeral.EncodeArticleLabel(main, sub+1), true
	}
	return numeral.EncodeArticleLabel(main+1, 0), true
}
