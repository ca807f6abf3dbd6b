package detector

import (
	"regexp"

	doccontext "go.ngs.io/jplaw-cite/pkg/context"
)

// definitionDeclaration matches "<law-name>（以下「<alias>」という。）", the
// standard Japanese statute idiom for introducing a document-local alias
// (typically 新法/旧法, but any short alias is legal). Phase 1 of the
// pipeline runs this before the pattern pass so later 新法/旧法 occurrences
// have a binding to resolve against.
var definitionDeclaration = regexp.MustCompile(
	`(?P<name>[^\s　、。，（）()第]{1,20}?法)（以下「(?P<alias>[^」]{1,10})」という。?）`,
)

// captureDefinitions scans text for definition declarations and binds any
// it can resolve against the law dictionary into tracker.
func (d *Detector) captureDefinitions(text string, tracker *doccontext.Tracker) {
	nameIdx := definitionDeclaration.SubexpIndex("name")
	aliasIdx := definitionDeclaration.SubexpIndex("alias")

	for _, loc := range definitionDeclaration.FindAllStringSubmatchIndex(text, -1) {
		name := text[loc[2*nameIdx]:loc[2*nameIdx+1]]
		alias := text[loc[2*aliasIdx]:loc[2*aliasIdx+1]]

		id, ok := d.dict.Resolve(name)
		if !ok {
			// An alias for a law outside the dictionary is still worth
			// recording by name alone, so a later 新法 occurrence at least
			// resolves to a name even without a stable id.
			tracker.DefineTerm(alias, "", name)
			continue
		}
		tracker.DefineTerm(alias, id, name)
	}
}
