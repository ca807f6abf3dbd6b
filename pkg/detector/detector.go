// Package detector runs the citation-detection pipeline over one article's
// text: definition capture, pattern matching, context/relative resolution,
// defined-term binding, optional external enrichment, and final
// dedup/sort (spec §4.5).
package detector

import (
	stdcontext "context"
	"sort"

	"go.ngs.io/jplaw-cite/pkg/citation"
	doccontext "go.ngs.io/jplaw-cite/pkg/context"
	"go.ngs.io/jplaw-cite/pkg/lawdict"
	"go.ngs.io/jplaw-cite/pkg/numeral"
	"go.ngs.io/jplaw-cite/pkg/pattern"
)

// residualConfidenceCap bounds the confidence any externally-enriched
// citation can carry, regardless of what the helper itself reports (spec
// §4.5 phase 5 / §9's open-question resolution: the helper is advisory
// only, never a primary source of truth).
const residualConfidenceCap = 0.70

// Detector runs the full detection pipeline against article text.
type Detector struct {
	catalog  *pattern.Catalog
	dict     *lawdict.Dictionary
	resolver ResidualResolver
}

// New returns a Detector. resolver may be nil, which disables phase 5
// (external enrichment) entirely; NoopResolver{} has the same effect and is
// the documented default.
func New(catalog *pattern.Catalog, dict *lawdict.Dictionary, resolver ResidualResolver) *Detector {
	if resolver == nil {
		resolver = NoopResolver{}
	}
	return &Detector{catalog: catalog, dict: dict, resolver: resolver}
}

// Detect runs the six-phase pipeline over text, mutating tracker as it
// walks (so callers must invoke tracker.EnterArticle/EnterParagraph for
// this span before calling Detect). It returns the deduplicated, sorted
// citations found in text.
func (d *Detector) Detect(ctx stdcontext.Context, text string, tracker *doccontext.Tracker) []citation.Citation {
	// Phase 1: definition capture.
	d.captureDefinitions(text, tracker)

	// Phase 2: pattern pass, coverage-aware, catalog priority order.
	spans := d.applyPatterns(text)

	// Phase 3 + 4: context/relative resolution and defined-term binding,
	// producing a Citation per surviving span.
	citations := make([]citation.Citation, 0, len(spans))
	for _, span := range spans {
		c, ok := d.resolve(span.Raw, tracker)
		if !ok {
			continue
		}
		citations = append(citations, c)
	}

	// P11: application/read-as-substituted confidence upgrade, scanning the
	// trailing window after each citation's matched text.
	d.applyApplicationTag(text, citations)

	// Phase 5: optional external enrichment of anything still unresolved.
	citations = d.enrichResidual(ctx, citations, tracker)

	// Phase 6: dedup (by byte_offset + source_text) and sort by offset.
	return dedupAndSort(citations)
}

// applyPatterns runs every non-P11 catalog entry in priority order over
// text, skipping any byte range a higher-priority entry already claimed.
func (d *Detector) applyPatterns(text string) []pattern.MatchSpan {
	var covered []pattern.MatchSpan
	for _, entry := range d.catalog.Ordered() {
		for _, span := range entry.FindAllMatches(text) {
			if overlapsAny(span, covered) {
				continue
			}
			covered = append(covered, span)
		}
	}
	sort.Slice(covered, func(i, j int) bool { return covered[i].Start < covered[j].Start })
	return covered
}

func overlapsAny(span pattern.MatchSpan, existing []pattern.MatchSpan) bool {
	for _, e := range existing {
		if span.Start < e.End && e.Start < span.End {
			return true
		}
	}
	return false
}

// resolve turns one raw pattern match into a Citation, consulting the law
// dictionary and the document's context tracker as needed for its kind.
func (d *Detector) resolve(raw pattern.RawMatch, tracker *doccontext.Tracker) (citation.Citation, bool) {
	c := citation.Citation{
		Kind:       raw.Kind,
		SourceText: raw.SourceText,
		ByteOffset: raw.ByteOffset,
		Confidence: raw.BaseConfidence,
	}

	switch raw.PatternID {
	case pattern.P1LawNumber:
		if id, ok := lawdict.ParseLawNumber(raw.LawNumberRaw); ok {
			c.TargetLawId = id
			c.ResolutionMethod = citation.MethodLawNumber
			tracker.NoteLawMention(id)
		} else if id, ok := d.dict.Resolve(raw.LawNameRaw); ok {
			c.TargetLawId = id
			c.ResolutionMethod = citation.MethodDictionary
			tracker.NoteLawMention(id)
		} else {
			return citation.Citation{}, false
		}
		c.TargetLawName = raw.LawNameRaw

	case pattern.P2NamedArticle:
		id, ok := d.dict.Resolve(raw.LawNameRaw)
		if !ok {
			return citation.Citation{}, false
		}
		c.TargetLawId = id
		c.TargetLawName = raw.LawNameRaw
		c.ResolutionMethod = citation.MethodDictionary
		c.TargetArticle = numeralLabel(raw.ArticleNumRaw)
		tracker.NoteLawMention(id)

	case pattern.P3ThisLaw:
		c.TargetLawId = tracker.DocumentLaw()
		c.ResolutionMethod = citation.MethodContext
		if raw.ArticleNumRaw != "" {
			c.TargetArticle = numeralLabel(raw.ArticleNumRaw)
		}

	case pattern.P4FixedRelative:
		hasPara := raw.ParagraphRaw != ""
		para, _ := numeral.KanjiToInt(raw.ParagraphRaw)
		article, paragraph, ok := doccontext.ResolveRelative(tracker, raw.FixedPhrase, hasPara, para)
		if !ok {
			return citation.Citation{}, false
		}
		c.TargetLawId = tracker.DocumentLaw()
		c.TargetArticle = article
		c.TargetParagraph = paragraph
		c.ResolutionMethod = citation.MethodRelative

	case pattern.P5DefinedTerm:
		def, ok := tracker.LookupDefinition(raw.FixedPhrase)
		if !ok {
			return citation.Citation{}, false
		}
		c.TargetLawId = def.TargetLaw
		c.TargetLawName = def.TargetName
		c.ResolutionMethod = citation.MethodDefinition

	case pattern.P6Contextual:
		var lawId lawdict.LawId
		if raw.LawNameRaw != "" {
			id, ok := d.dict.Resolve(raw.LawNameRaw)
			if !ok {
				return citation.Citation{}, false
			}
			lawId = id
			c.TargetLawName = raw.LawNameRaw
		} else {
			lawId = tracker.CurrentLaw()
			if lawId == "" {
				return citation.Citation{}, false
			}
		}
		c.TargetLawId = lawId
		c.ResolutionMethod = citation.MethodContext
		if raw.ArticleNumRaw != "" {
			c.TargetArticle = numeralLabel(raw.ArticleNumRaw)
		}
		tracker.NoteLawMention(lawId)

	case pattern.P8PluralArticle:
		c.TargetLawId = tracker.DocumentLaw()
		c.TargetArticle = numeralLabel(raw.ArticleNumRaw)
		c.ResolutionMethod = citation.MethodContext

	case pattern.P7ArticleRange:
		// A range names two endpoints; both are real targets, but a
		// Citation carries one TargetArticle, so the range is recorded in
		// the same "からNまで" form the source text used.
		c.TargetLawId = tracker.DocumentLaw()
		c.TargetArticle = numeralLabel(raw.ArticleNumRaw) + "から" + numeralLabel(raw.ArticleNumRaw2) + "まで"
		c.ResolutionMethod = citation.MethodContext

	case pattern.P9BranchArticle:
		main, ok1 := numeral.KanjiToInt(raw.ArticleNumRaw)
		branch, ok2 := numeral.KanjiToInt(raw.BranchNumRaw)
		if !ok1 || !ok2 {
			return citation.Citation{}, false
		}
		c.TargetLawId = tracker.DocumentLaw()
		c.TargetArticle = numeral.EncodeArticleLabel(main, branch)
		c.ResolutionMethod = citation.MethodContext
		if raw.ParagraphRaw != "" {
			if p, ok := numeral.KanjiToInt(raw.ParagraphRaw); ok {
				c.TargetParagraph = p
			}
		}

	case pattern.P10Structural:
		c.TargetLawId = tracker.DocumentLaw()
		c.ResolutionMethod = citation.MethodContext

	case pattern.P12SameArticle:
		article, ok := tracker.LastReferencedArticle()
		if !ok {
			return citation.Citation{}, false
		}
		c.TargetLawId = tracker.DocumentLaw()
		c.TargetArticle = article
		c.ResolutionMethod = citation.MethodContext
		if raw.ParagraphRaw != "" {
			if p, ok := numeral.KanjiToInt(raw.ParagraphRaw); ok {
				c.TargetParagraph = p
			}
		}

	default:
		return citation.Citation{}, false
	}

	// A same-article reference (同条) must bind to whatever single article the
	// most recent citation within this document's own law pointed at, not to
	// the tracker's own walking position. P7 is excluded: its TargetArticle
	// is a "Aからまで" range label, not a single article 同条 could mean.
	if c.TargetArticle != "" && c.TargetLawId == tracker.DocumentLaw() && raw.PatternID != pattern.P7ArticleRange {
		tracker.NoteArticleReference(c.TargetArticle)
	}

	return c, true
}

func numeralLabel(kanji string) string {
	n, ok := numeral.KanjiToInt(kanji)
	if !ok {
		return kanji
	}
	return numeral.IntToKanji(n)
}

func dedupAndSort(cs []citation.Citation) []citation.Citation {
	seen := make(map[string]bool, len(cs))
	out := make([]citation.Citation, 0, len(cs))
	for _, c := range cs {
		key := c.DedupKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ByteOffset < out[j].ByteOffset })
	return out
}
