package detector

import (
	stdcontext "context"

	"go.ngs.io/jplaw-cite/pkg/citation"
	doccontext "go.ngs.io/jplaw-cite/pkg/context"
)

// ResidualResolver is the optional phase 5 external-enrichment hook (spec
// §4.5): given the source text of a citation the pipeline could not
// otherwise resolve, it proposes a candidate law name. The pipeline never
// trusts the proposal on its own — it re-validates the name against the law
// dictionary and caps the resulting confidence, per the documented
// open-question resolution that this helper is advisory only.
type ResidualResolver interface {
	ResolveResidual(ctx stdcontext.Context, sourceText string) (lawNameCandidate string, ok bool)
}

// NoopResolver disables phase 5: every residual citation is left
// unresolved. This is the default when a Detector is built without an
// explicit resolver.
type NoopResolver struct{}

// ResolveResidual always declines.
func (NoopResolver) ResolveResidual(stdcontext.Context, string) (string, bool) {
	return "", false
}

// enrichResidual runs phase 5 over any citation the earlier phases left
// without a TargetLawId, replacing each with an enriched version when the
// resolver's candidate round-trips through the dictionary.
func (d *Detector) enrichResidual(ctx stdcontext.Context, cs []citation.Citation, tracker *doccontext.Tracker) []citation.Citation {
	for i := range cs {
		if cs[i].TargetLawId != "" {
			continue
		}
		candidate, ok := d.resolver.ResolveResidual(ctx, cs[i].SourceText)
		if !ok {
			continue
		}
		id, ok := d.dict.Resolve(candidate)
		if !ok {
			continue
		}
		cs[i].TargetLawId = id
		cs[i].TargetLawName = candidate
		cs[i].ResolutionMethod = citation.MethodExternal
		if cs[i].Confidence > residualConfidenceCap {
			cs[i].Confidence = residualConfidenceCap
		}
		tracker.NoteLawMention(id)
	}
	return cs
}
