// Package citation defines the Detected citation value type shared by the
// pattern catalog, context tracker, and detector (spec §3). A Citation is
// immutable once emitted: every field is set at construction time.
package citation

import (
	"fmt"

	"go.ngs.io/jplaw-cite/pkg/lawdict"
)

// Kind classifies a detected citation (spec §3).
type Kind string

const (
	KindExternal    Kind = "External"
	KindInternal    Kind = "Internal"
	KindRelative    Kind = "Relative"
	KindStructural  Kind = "Structural"
	KindApplication Kind = "Application"
	KindContextual  Kind = "Contextual"
	KindDefined     Kind = "Defined"
)

// ResolutionMethod records which mechanism produced a citation's resolved
// target (spec §3).
type ResolutionMethod string

const (
	MethodPattern    ResolutionMethod = "Pattern"
	MethodDictionary ResolutionMethod = "Dictionary"
	MethodLawNumber  ResolutionMethod = "LawNumber"
	MethodContext    ResolutionMethod = "Context"
	MethodDefinition ResolutionMethod = "Definition"
	MethodRelative   ResolutionMethod = "Relative"
	MethodExternal   ResolutionMethod = "External"
)

// Citation is a single detected, resolved (or partially resolved) reference
// within one article's text. See spec §3's Detected citation table for the
// field-by-field semantics and invariants (i)-(iv).
type Citation struct {
	Kind             Kind             `json:"kind"`
	SourceText       string           `json:"source_text"`
	ByteOffset       int              `json:"byte_offset"`
	TargetLawId      lawdict.LawId    `json:"target_law_id,omitempty"`
	TargetLawName    string           `json:"target_law_name,omitempty"`
	TargetArticle    string           `json:"target_article_number,omitempty"`
	TargetParagraph  int              `json:"target_paragraph,omitempty"`
	Confidence       float64          `json:"confidence"`
	ResolutionMethod ResolutionMethod `json:"resolution_method"`
}

// DedupKey returns the (byte_offset, source_text) pair spec §3 invariant
// (iv) uses as the per-article deduplication key.
func (c Citation) DedupKey() string {
	return fmt.Sprintf("%d\x00%s", c.ByteOffset, c.SourceText)
}

// EndOffset returns byte_offset + len(source_text), which invariant (i)
// requires never to exceed the article text's length.
func (c Citation) EndOffset() int {
	return c.ByteOffset + len(c.SourceText)
}
