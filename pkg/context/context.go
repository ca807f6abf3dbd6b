// Package context tracks the per-document mutable state the detector
// consults to resolve relative, contextual, and defined-term citations
// (spec §4.4). A Tracker is built fresh for each source document and
// mutated as the detector walks its articles in order; it is not safe for
// concurrent use by more than one goroutine, mirroring a single document's
// inherently sequential read order.
package context

import "go.ngs.io/jplaw-cite/pkg/lawdict"

const recentHistoryCap = 5

// Definition records where a document-local alias (新法, 旧法, a defined
// term) was bound to a target law, captured during the detector's
// definition-capture phase (spec §4.4, §4.5 phase 1).
type Definition struct {
	Term       string
	TargetLaw  lawdict.LawId
	TargetName string
}

// Tracker holds the current position and recent history within one source
// document as the detector walks it article by article.
type Tracker struct {
	documentLaw lawdict.LawId

	currentLaw       lawdict.LawId
	currentArticle   string
	currentParagraph int

	lastReferencedArticle string // article label a relative/contextual citation last resolved to

	recentLaws     []lawdict.LawId // bounded ring, most recent last
	recentArticles []string        // bounded ring, most recent last

	definitions map[string]Definition // append-only for the life of the tracker
}

// NewTracker returns a Tracker for a document whose own law id is
// documentLaw (used to resolve この法律/本法 and bare article references).
func NewTracker(documentLaw lawdict.LawId) *Tracker {
	return &Tracker{
		documentLaw: documentLaw,
		currentLaw:  documentLaw,
		definitions: make(map[string]Definition),
	}
}

// EnterArticle updates the current article position, pushing the previous
// one onto the bounded recent-articles history.
func (t *Tracker) EnterArticle(label string) {
	if t.currentArticle != "" {
		t.pushRecentArticle(t.currentArticle)
	}
	t.currentArticle = label
	t.currentParagraph = 0
}

// EnterParagraph updates the current paragraph number within the current
// article.
func (t *Tracker) EnterParagraph(n int) {
	t.currentParagraph = n
}

// NoteLawMention records that lawId was just cited by name, pushing the
// previously-current law onto the bounded recent-laws history and making
// lawId the new current law for subsequent 同法/当該 resolution.
func (t *Tracker) NoteLawMention(lawId lawdict.LawId) {
	if lawId == "" || lawId == t.currentLaw {
		return
	}
	t.pushRecentLaw(t.currentLaw)
	t.currentLaw = lawId
}

// DefineTerm binds an alias (新法, 旧法, a named defined term) to a target
// law for the remainder of the document. Definitions are append-only:
// once a term is bound, later definitions of the same term are ignored (the
// first definition in document order wins), and nothing is ever removed.
func (t *Tracker) DefineTerm(term string, targetLaw lawdict.LawId, targetName string) {
	if _, exists := t.definitions[term]; exists {
		return
	}
	t.definitions[term] = Definition{Term: term, TargetLaw: targetLaw, TargetName: targetName}
}

// LookupDefinition returns the binding for term, if one has been captured
// so far in document order.
func (t *Tracker) LookupDefinition(term string) (Definition, bool) {
	d, ok := t.definitions[term]
	return d, ok
}

// DocumentLaw returns the law id of the document being tracked, used to
// resolve この法律/本法 (spec §4.3, P3).
func (t *Tracker) DocumentLaw() lawdict.LawId {
	return t.documentLaw
}

// CurrentLaw returns the most recently established "current" law, used to
// resolve 同法/当該 contextual citations (spec §4.3, P6).
func (t *Tracker) CurrentLaw() lawdict.LawId {
	return t.currentLaw
}

// CurrentArticle returns the label of the article currently being walked.
func (t *Tracker) CurrentArticle() string {
	return t.currentArticle
}

// NoteArticleReference records label as the article a relative/contextual
// citation (前条, 次条, 同条, ...) just resolved to, so a following 同条 can
// bind to it rather than to the document's own walking position.
func (t *Tracker) NoteArticleReference(label string) {
	if label == "" {
		return
	}
	t.lastReferencedArticle = label
}

// LastReferencedArticle returns the article label most recently recorded by
// NoteArticleReference, for 同条 resolution (spec §8 scenario 2).
func (t *Tracker) LastReferencedArticle() (string, bool) {
	if t.lastReferencedArticle == "" {
		return "", false
	}
	return t.lastReferencedArticle, true
}

// CurrentParagraph returns the paragraph number currently being walked.
func (t *Tracker) CurrentParagraph() int {
	return t.currentParagraph
}

// RecentArticles returns the bounded history of previously-current article
// labels, oldest first, capped at 5 entries (spec §4.4).
func (t *Tracker) RecentArticles() []string {
	out := make([]string, len(t.recentArticles))
	copy(out, t.recentArticles)
	return out
}

// RecentLaws returns the bounded history of previously-current law ids,
// oldest first, capped at 5 entries (spec §4.4).
func (t *Tracker) RecentLaws() []lawdict.LawId {
	out := make([]lawdict.LawId, len(t.recentLaws))
	copy(out, t.recentLaws)
	return out
}

func (t *Tracker) pushRecentArticle(label string) {
	t.recentArticles = append(t.recentArticles, label)
	if len(t.recentArticles) > recentHistoryCap {
		t.recentArticles = t.recentArticles[len(t.recentArticles)-recentHistoryCap:]
	}
}

func (t *Tracker) pushRecentLaw(id lawdict.LawId) {
	t.recentLaws = append(t.recentLaws, id)
	if len(t.recentLaws) > recentHistoryCap {
		t.recentLaws = t.recentLaws[len(t.recentLaws)-recentHistoryCap:]
	}
}
