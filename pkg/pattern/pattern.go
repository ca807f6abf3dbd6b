// Package pattern holds the closed catalog of citation-syntax patterns
// (spec §4.3, P1-P11, plus P12 for 同条 same-article resolution per spec §8
// scenario 2). Each entry pairs a compiled regular expression and a
// base confidence with the field-extraction rule for that syntax shape. The
// catalog is declarative and ordered: callers apply entries in catalog order
// and skip any byte range a higher-priority entry already covered.
package pattern

import (
	"fmt"
	"regexp"
	"sort"

	"go.ngs.io/jplaw-cite/pkg/citation"
)

// ID names one of the closed pattern shapes.
type ID string

const (
	P1LawNumber       ID = "P1"  // <law-name>（<law-number>）
	P2NamedArticle    ID = "P2"  // <law-name>第<N>条
	P3ThisLaw         ID = "P3"  // この法律／本法
	P4FixedRelative   ID = "P4"  // 前条／次条／前項／次項／前各項...
	P5DefinedTerm     ID = "P5"  // 新法／旧法／改正法／新<X>法
	P6Contextual      ID = "P6"  // 同法／当該<X>法
	P7ArticleRange    ID = "P7"  // 第<A>条から第<B>条まで
	P8PluralArticle   ID = "P8"  // 第<A>条及び第<B>条
	P9BranchArticle   ID = "P9"  // 第<N>条の<M>
	P10Structural     ID = "P10" // 第<N>章／編／節／款
	P11ApplicationTag ID = "P11" // ...を準用する／を適用する (confidence upgrade)
	P12SameArticle    ID = "P12" // 同条（第<N>項） (spec §8 scenario 2)
)

// RawMatch is what a pattern entry extracts before the detector resolves it
// against the law dictionary and the per-document context tracker. Fields
// that don't apply to a given pattern are left zero.
type RawMatch struct {
	PatternID      ID
	Kind           citation.Kind
	SourceText     string
	ByteOffset     int
	BaseConfidence float64

	LawNameRaw     string // matched law title or abbreviation text
	LawNumberRaw   string // matched formal law-number text (P1)
	ArticleNumRaw  string // kanji numeral for the (first) article
	ArticleNumRaw2 string // kanji numeral for the range's end article (P7)
	BranchNumRaw   string // kanji numeral following "の" (P9)
	ParagraphRaw   string // kanji numeral for a trailing paragraph number
	StructuralUnit string // 章/編/節/款 for P10
	FixedPhrase    string // the literal matched phrase, for P3/P4/P6/P5
}

// ExtractFunc turns one regex submatch into zero or more RawMatches. It
// returns a slice, not exactly one value, because P8 (plural article)
// splits a single match into one RawMatch per article named in the list.
type ExtractFunc func(entry *Entry, text string, loc []int) []RawMatch

// Entry is one row of the pattern catalog: a compiled regex, its
// classification and confidence, and the extraction rule that turns a match
// into RawMatches. The Pattern/Kind/BaseConfidence/Window fields are the
// declarative, YAML-configurable part of an entry; extract is wired up from
// a fixed table of Go functions (extractors.go) keyed by ID, since the
// field-extraction semantics differ per pattern shape and are not usefully
// expressible as data.
type Entry struct {
	ID             ID            `yaml:"id" json:"id"`
	Name           string        `yaml:"name" json:"name"`
	Kind           citation.Kind `yaml:"kind" json:"kind"`
	Pattern        string        `yaml:"regex" json:"regex"`
	BaseConfidence float64       `yaml:"base_confidence" json:"base_confidence"`
	Window         int           `yaml:"window,omitempty" json:"window,omitempty"`

	// Priority orders application across entries: lower runs first. It is
	// independent of the P1..P11 numbering in ID/Name, which only labels a
	// shape for cross-reference. Fixed-token patterns (この法律, 同法, 前条,
	// ...) must run before the generic named-article pattern or the
	// generic match would claim their text first.
	Priority int `yaml:"priority" json:"priority"`

	compiled *regexp.Regexp
	extract  ExtractFunc
}

// Compile compiles Pattern and wires in the fixed extractor for this entry's
// ID. Returns an error if the regex fails to compile or the ID has no
// registered extractor.
func (e *Entry) Compile() error {
	compiled, err := regexp.Compile(e.Pattern)
	if err != nil {
		return fmt.Errorf("compiling pattern %s (%s): %w", e.ID, e.Name, err)
	}
	e.compiled = compiled

	fn, ok := extractors[e.ID]
	if !ok {
		return fmt.Errorf("no extractor registered for pattern %s", e.ID)
	}
	e.extract = fn
	return nil
}

// Compiled returns the entry's compiled regular expression, for callers
// (like the P11 application-tag scan) that need to match it directly
// rather than through FindAllMatches.
func (e *Entry) Compiled() *regexp.Regexp {
	return e.compiled
}

// IsCompiled reports whether Compile has succeeded.
func (e *Entry) IsCompiled() bool {
	return e.compiled != nil && e.extract != nil
}

// MatchSpan is one pattern match, already extracted into a RawMatch, plus
// the byte range it occupies in the source text. Callers use Start/End to
// decide whether a lower-priority pattern's match overlaps one a
// higher-priority entry already claimed.
type MatchSpan struct {
	Start int
	End   int
	Raw   RawMatch
}

// FindAllMatches returns every match of this entry's regex in text, each
// already run through the entry's extractor, in left-to-right order.
func (e *Entry) FindAllMatches(text string) []MatchSpan {
	if e.compiled == nil {
		return nil
	}
	locs := e.compiled.FindAllStringSubmatchIndex(text, -1)
	var spans []MatchSpan
	for _, loc := range locs {
		for _, raw := range e.extract(e, text, loc) {
			// Start/End track the RawMatch's own span, not the enclosing
			// regex match: most extractors emit one RawMatch whose span is
			// the whole match, but P8 emits two RawMatches that each claim
			// only their own "第N条" sub-span, and both must remain
			// independently coverable.
			spans = append(spans, MatchSpan{Start: raw.ByteOffset, End: raw.ByteOffset + len(raw.SourceText), Raw: raw})
		}
	}
	return spans
}

// Validate checks the fields an entry needs before Compile.
func (e *Entry) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("pattern entry missing id")
	}
	if e.Pattern == "" {
		return fmt.Errorf("pattern entry %s missing regex", e.ID)
	}
	if e.Kind == "" {
		return fmt.Errorf("pattern entry %s missing kind", e.ID)
	}
	return nil
}

// Catalog is an ordered, compiled pattern table. Ordered applies the P11
// application-tag entry aside (it is never matched as an independent pass;
// see ApplicationTag), and returns the rest sorted by Priority.
type Catalog struct {
	entries []*Entry
}

// NewCatalog compiles entries and returns the resulting Catalog. Entries
// with duplicate IDs overwrite earlier ones, matching last-registration-wins
// semantics used when a hot-reloaded file replaces part of the catalog.
func NewCatalog(entries []*Entry) (*Catalog, error) {
	byID := make(map[ID]*Entry, len(entries))
	var order []ID
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return nil, err
		}
		if err := e.Compile(); err != nil {
			return nil, err
		}
		if _, exists := byID[e.ID]; !exists {
			order = append(order, e.ID)
		}
		byID[e.ID] = e
	}
	c := &Catalog{}
	for _, id := range order {
		c.entries = append(c.entries, byID[id])
	}
	return c, nil
}

// Ordered returns every entry except P11, sorted by ascending Priority, for
// the detector's coverage-aware matching pass.
func (c *Catalog) Ordered() []*Entry {
	var out []*Entry
	for _, e := range c.entries {
		if e.ID == P11ApplicationTag {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}

// ApplicationTag returns the compiled P11 entry, if the catalog has one.
// The detector uses its regex/Window/BaseConfidence to decide whether a
// citation already extracted by another entry sits near an application or
// read-as-substituted clause, and if so upgrades it to KindApplication.
func (c *Catalog) ApplicationTag() (*Entry, bool) {
	for _, e := range c.entries {
		if e.ID == P11ApplicationTag {
			return e, true
		}
	}
	return nil, false
}

// Get returns the entry with the given ID.
func (c *Catalog) Get(id ID) (*Entry, bool) {
	for _, e := range c.entries {
		if e.ID == id {
			return e, true
		}
	}
	return nil, false
}

// Len returns the number of entries in the catalog, P11 included.
func (c *Catalog) Len() int {
	return len(c.entries)
}
