package detector

import "go.ngs.io/jplaw-cite/pkg/citation"

// applyApplicationTag upgrades any already-resolved citation to
// KindApplication when a trailing を準用する/を適用する/と読み替える phrase
// appears within the catalog's P11 window of its end offset (spec §4.3,
// pattern P11). It mutates cs in place.
func (d *Detector) applyApplicationTag(text string, cs []citation.Citation) {
	entry, ok := d.catalog.ApplicationTag()
	if !ok {
		return
	}

	for i := range cs {
		end := cs[i].EndOffset()
		windowEnd := end + entry.Window
		if windowEnd > len(text) {
			windowEnd = len(text)
		}
		if end >= windowEnd {
			continue
		}
		if loc := entry.Compiled().FindStringIndex(text[end:windowEnd]); loc != nil {
			cs[i].Kind = citation.KindApplication
			if entry.BaseConfidence > cs[i].Confidence {
				cs[i].Confidence = entry.BaseConfidence
			}
		}
	}
}
