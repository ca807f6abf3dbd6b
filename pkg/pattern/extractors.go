package pattern

// extractors is the fixed table of per-pattern field-extraction rules,
// keyed by ID. Unlike Pattern/Kind/BaseConfidence, this table is Go code,
// not YAML: the field layout a law-number citation exposes is nothing like
// a branch-article one, and forcing that into a generic data shape would
// only hide the real logic behind indirection.
var extractors = map[ID]ExtractFunc{
	P1LawNumber:     extractLawNumber,
	P2NamedArticle:  extractNamedArticle,
	P3ThisLaw:       extractFixedPhrase,
	P4FixedRelative: extractFixedPhraseWithParagraph,
	P5DefinedTerm:   extractDefinedTerm,
	P6Contextual:    extractContextual,
	P7ArticleRange:  extractArticleRange,
	P8PluralArticle: extractPluralArticle,
	P9BranchArticle: extractBranchArticle,
	P10Structural:   extractStructural,
	P12SameArticle:  extractFixedPhraseWithParagraph,
	// P11 is never applied as an independent regex pass: a detector applies
	// its phrase list as a post-hoc confidence upgrade over citations
	// already produced by the other entries (spec §4.3). Its extractor is
	// registered only so Entry.Compile succeeds for the catalog row.
	P11ApplicationTag: func(*Entry, string, []int) []RawMatch { return nil },
}

// groupLoc returns the byte span of the named capture group within text, or
// ok=false if it did not participate in the match.
func groupLoc(e *Entry, loc []int, name string) (start, end int, ok bool) {
	idx := e.compiled.SubexpIndex(name)
	if idx < 0 || 2*idx+1 >= len(loc) || loc[2*idx] < 0 {
		return 0, 0, false
	}
	return loc[2*idx], loc[2*idx+1], true
}

// group returns the text of the named capture group, or "" if it did not
// participate in the match.
func group(e *Entry, text string, loc []int, name string) string {
	start, end, ok := groupLoc(e, loc, name)
	if !ok {
		return ""
	}
	return text[start:end]
}

func matchText(text string, loc []int) string {
	return text[loc[0]:loc[1]]
}

func extractLawNumber(e *Entry, text string, loc []int) []RawMatch {
	return []RawMatch{{
		PatternID:      e.ID,
		Kind:           e.Kind,
		SourceText:     matchText(text, loc),
		ByteOffset:     loc[0],
		BaseConfidence: e.BaseConfidence,
		LawNameRaw:     group(e, text, loc, "name"),
		LawNumberRaw:   group(e, text, loc, "lawnum"),
	}}
}

func extractNamedArticle(e *Entry, text string, loc []int) []RawMatch {
	return []RawMatch{{
		PatternID:      e.ID,
		Kind:           e.Kind,
		SourceText:     matchText(text, loc),
		ByteOffset:     loc[0],
		BaseConfidence: e.BaseConfidence,
		LawNameRaw:     group(e, text, loc, "name"),
		ArticleNumRaw:  group(e, text, loc, "art"),
	}}
}

func extractFixedPhrase(e *Entry, text string, loc []int) []RawMatch {
	return []RawMatch{{
		PatternID:      e.ID,
		Kind:           e.Kind,
		SourceText:     matchText(text, loc),
		ByteOffset:     loc[0],
		BaseConfidence: e.BaseConfidence,
		FixedPhrase:    group(e, text, loc, "phrase"),
		ArticleNumRaw:  group(e, text, loc, "art"),
	}}
}

func extractFixedPhraseWithParagraph(e *Entry, text string, loc []int) []RawMatch {
	return []RawMatch{{
		PatternID:      e.ID,
		Kind:           e.Kind,
		SourceText:     matchText(text, loc),
		ByteOffset:     loc[0],
		BaseConfidence: e.BaseConfidence,
		FixedPhrase:    group(e, text, loc, "phrase"),
		ParagraphRaw:   group(e, text, loc, "para"),
	}}
}

// extractDefinedTerm extracts the matched alias text itself (新法, 旧法,
// 改正法, or a 新/旧-prefixed law name) as FixedPhrase: a detector resolves
// these by exact-string lookup against the document's definitions map
// rather than against the law dictionary.
func extractDefinedTerm(e *Entry, text string, loc []int) []RawMatch {
	return []RawMatch{{
		PatternID:      e.ID,
		Kind:           e.Kind,
		SourceText:     matchText(text, loc),
		ByteOffset:     loc[0],
		BaseConfidence: e.BaseConfidence,
		FixedPhrase:    group(e, text, loc, "term"),
	}}
}

func extractContextual(e *Entry, text string, loc []int) []RawMatch {
	return []RawMatch{{
		PatternID:      e.ID,
		Kind:           e.Kind,
		SourceText:     matchText(text, loc),
		ByteOffset:     loc[0],
		BaseConfidence: e.BaseConfidence,
		FixedPhrase:    group(e, text, loc, "phrase"),
		LawNameRaw:     group(e, text, loc, "name"),
		ArticleNumRaw:  group(e, text, loc, "art"),
	}}
}

func extractArticleRange(e *Entry, text string, loc []int) []RawMatch {
	return []RawMatch{{
		PatternID:      e.ID,
		Kind:           e.Kind,
		SourceText:     matchText(text, loc),
		ByteOffset:     loc[0],
		BaseConfidence: e.BaseConfidence,
		ArticleNumRaw:  group(e, text, loc, "a"),
		ArticleNumRaw2: group(e, text, loc, "b"),
	}}
}

// extractPluralArticle is the one extractor that returns more than one
// RawMatch: "第五条及び第七条" names two distinct articles, each its own
// citation (spec §4.3, pattern P8). Each sub-citation keeps its own
// "第N条" sub-span as ByteOffset/SourceText, not the whole match — sharing
// the enclosing span would give both the same DedupKey and collapse them
// into one citation during Detect's final dedup pass.
func extractPluralArticle(e *Entry, text string, loc []int) []RawMatch {
	var out []RawMatch
	if start, end, ok := groupLoc(e, loc, "spanA"); ok {
		out = append(out, RawMatch{
			PatternID:      e.ID,
			Kind:           e.Kind,
			SourceText:     text[start:end],
			ByteOffset:     start,
			BaseConfidence: e.BaseConfidence,
			ArticleNumRaw:  group(e, text, loc, "a"),
		})
	}
	if start, end, ok := groupLoc(e, loc, "spanB"); ok {
		out = append(out, RawMatch{
			PatternID:      e.ID,
			Kind:           e.Kind,
			SourceText:     text[start:end],
			ByteOffset:     start,
			BaseConfidence: e.BaseConfidence,
			ArticleNumRaw:  group(e, text, loc, "b"),
		})
	}
	return out
}

func extractBranchArticle(e *Entry, text string, loc []int) []RawMatch {
	return []RawMatch{{
		PatternID:      e.ID,
		Kind:           e.Kind,
		SourceText:     matchText(text, loc),
		ByteOffset:     loc[0],
		BaseConfidence: e.BaseConfidence,
		ArticleNumRaw:  group(e, text, loc, "main"),
		BranchNumRaw:   group(e, text, loc, "branch"),
		ParagraphRaw:   group(e, text, loc, "para"),
	}}
}

func extractStructural(e *Entry, text string, loc []int) []RawMatch {
	return []RawMatch{{
		PatternID:      e.ID,
		Kind:           e.Kind,
		SourceText:     matchText(text, loc),
		ByteOffset:     loc[0],
		BaseConfidence: e.BaseConfidence,
		ArticleNumRaw:  group(e, text, loc, "num"),
		StructuralUnit: group(e, text, loc, "unit"),
	}}
}
