package citation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupKeyDistinguishesOffsetAndText(t *testing.T) {
	a := Citation{ByteOffset: 3, SourceText: "前条"}
	b := Citation{ByteOffset: 3, SourceText: "次条"}
	c := Citation{ByteOffset: 5, SourceText: "前条"}

	assert.NotEqual(t, a.DedupKey(), b.DedupKey())
	assert.NotEqual(t, a.DedupKey(), c.DedupKey())
	assert.Equal(t, a.DedupKey(), Citation{ByteOffset: 3, SourceText: "前条"}.DedupKey())
}

func TestEndOffset(t *testing.T) {
	c := Citation{ByteOffset: 10, SourceText: "前条"}
	assert.Equal(t, 10+len("前条"), c.EndOffset())
}
