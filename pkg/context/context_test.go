package context

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.ngs.io/jplaw-cite/pkg/lawdict"
)

func TestNewTrackerSeedsCurrentLawFromDocument(t *testing.T) {
	tr := NewTracker(lawdict.LawId("129AC0000000089"))
	assert.Equal(t, lawdict.LawId("129AC0000000089"), tr.DocumentLaw())
	assert.Equal(t, lawdict.LawId("129AC0000000089"), tr.CurrentLaw())
}

func TestEnterArticlePushesRecentHistory(t *testing.T) {
	tr := NewTracker("129AC0000000089")
	tr.EnterArticle("一")
	tr.EnterArticle("二")
	tr.EnterArticle("三")
	assert.Equal(t, "三", tr.CurrentArticle())
	assert.Equal(t, []string{"一", "二"}, tr.RecentArticles())
}

func TestRecentArticlesBoundedAtFive(t *testing.T) {
	tr := NewTracker("129AC0000000089")
	labels := []string{"一", "二", "三", "四", "五", "六", "七"}
	for _, l := range labels {
		tr.EnterArticle(l)
	}
	assert.Equal(t, []string{"二", "三", "四", "五", "六"}, tr.RecentArticles())
}

func TestNoteLawMentionUpdatesCurrentLawAndHistory(t *testing.T) {
	tr := NewTracker("129AC0000000089")
	tr.NoteLawMention("132AC0000000048")
	assert.Equal(t, lawdict.LawId("132AC0000000048"), tr.CurrentLaw())
	assert.Equal(t, []lawdict.LawId{"129AC0000000089"}, tr.RecentLaws())
}

func TestDefineTermFirstWriteWins(t *testing.T) {
	tr := NewTracker("129AC0000000089")
	tr.DefineTerm("新法", "132AC0000000048", "商法")
	tr.DefineTerm("新法", "408AC0000000109", "民事訴訟法")

	d, ok := tr.LookupDefinition("新法")
	require.True(t, ok)
	assert.Equal(t, lawdict.LawId("132AC0000000048"), d.TargetLaw)
}

func TestLookupDefinitionMissing(t *testing.T) {
	tr := NewTracker("129AC0000000089")
	_, ok := tr.LookupDefinition("旧法")
	assert.False(t, ok)
}

func TestResolveRelativePreviousAndNextArticle(t *testing.T) {
	tr := NewTracker("129AC0000000089")
	tr.EnterArticle("五")

	art, para, ok := ResolveRelative(tr, "前条", false, 0)
	require.True(t, ok)
	assert.Equal(t, "四", art)
	assert.Equal(t, 0, para)

	art, _, ok = ResolveRelative(tr, "次条", false, 0)
	require.True(t, ok)
	assert.Equal(t, "六", art)
}

func TestResolveRelativePreviousArticleWithExplicitParagraph(t *testing.T) {
	tr := NewTracker("129AC0000000089")
	tr.EnterArticle("五")

	art, para, ok := ResolveRelative(tr, "前条", true, 2)
	require.True(t, ok)
	assert.Equal(t, "四", art)
	assert.Equal(t, 2, para)
}

func TestResolveRelativeBranchArticleSteps(t *testing.T) {
	tr := NewTracker("129AC0000000089")
	tr.EnterArticle("五の二")

	art, _, ok := ResolveRelative(tr, "前条", false, 0)
	require.True(t, ok)
	assert.Equal(t, "五の一", art)

	tr.EnterArticle("五の一")
	art, _, ok = ResolveRelative(tr, "前条", false, 0)
	require.True(t, ok)
	assert.Equal(t, "五", art)
}

func TestResolveRelativeParagraphArithmetic(t *testing.T) {
	tr := NewTracker("129AC0000000089")
	tr.EnterArticle("五")
	tr.EnterParagraph(3)

	art, para, ok := ResolveRelative(tr, "前項", false, 0)
	require.True(t, ok)
	assert.Equal(t, "五", art)
	assert.Equal(t, 2, para)

	_, para, ok = ResolveRelative(tr, "次項", false, 0)
	require.True(t, ok)
	assert.Equal(t, 4, para)
}

func TestResolveRelativeFirstParagraphHasNoPrevious(t *testing.T) {
	tr := NewTracker("129AC0000000089")
	tr.EnterArticle("一")
	tr.EnterParagraph(1)

	_, _, ok := ResolveRelative(tr, "前項", false, 0)
	assert.False(t, ok)
}

func TestResolveRelativeBeforeAnyArticleFails(t *testing.T) {
	tr := NewTracker("129AC0000000089")
	_, _, ok := ResolveRelative(tr, "前条", false, 0)
	assert.False(t, ok)
}
