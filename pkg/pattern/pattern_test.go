package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.ngs.io/jplaw-cite/pkg/citation"
)

func mustDefaultCatalog(t *testing.T) *Catalog {
	t.Helper()
	cat, err := DefaultCatalog()
	require.NoError(t, err)
	return cat
}

func firstMatch(t *testing.T, cat *Catalog, id ID, text string) RawMatch {
	t.Helper()
	entry, ok := cat.Get(id)
	require.True(t, ok, "pattern %s not in catalog", id)
	spans := entry.FindAllMatches(text)
	require.NotEmpty(t, spans, "pattern %s did not match %q", id, text)
	return spans[0].Raw
}

func TestLawNumberPattern(t *testing.T) {
	cat := mustDefaultCatalog(t)
	raw := firstMatch(t, cat, P1LawNumber, "商法（明治三十二年法律第四十八号）第一条")
	assert.Equal(t, "商法", raw.LawNameRaw)
	assert.Equal(t, "明治三十二年法律第四十八号", raw.LawNumberRaw)
	assert.Equal(t, citation.KindExternal, raw.Kind)
}

func TestNamedArticlePattern(t *testing.T) {
	cat := mustDefaultCatalog(t)
	raw := firstMatch(t, cat, P2NamedArticle, "民法第九十条の規定により")
	assert.Equal(t, "民法", raw.LawNameRaw)
	assert.Equal(t, "九十", raw.ArticleNumRaw)
}

func TestThisLawPattern(t *testing.T) {
	cat := mustDefaultCatalog(t)
	raw := firstMatch(t, cat, P3ThisLaw, "この法律第五条に定める")
	assert.Equal(t, "この法律", raw.FixedPhrase)
	assert.Equal(t, "五", raw.ArticleNumRaw)
}

func TestFixedRelativePattern(t *testing.T) {
	cat := mustDefaultCatalog(t)
	raw := firstMatch(t, cat, P4FixedRelative, "前条第二項の規定にかかわらず")
	assert.Equal(t, "前条", raw.FixedPhrase)
	assert.Equal(t, "二", raw.ParagraphRaw)
}

func TestDefinedTermPattern(t *testing.T) {
	cat := mustDefaultCatalog(t)
	raw := firstMatch(t, cat, P5DefinedTerm, "新法の施行後は")
	assert.Equal(t, "新法", raw.FixedPhrase)
}

func TestContextualPattern(t *testing.T) {
	cat := mustDefaultCatalog(t)
	raw := firstMatch(t, cat, P6Contextual, "同法第三条の規定を準用する")
	assert.Equal(t, "同法", raw.FixedPhrase)
	assert.Equal(t, "三", raw.ArticleNumRaw)
}

func TestArticleRangePattern(t *testing.T) {
	cat := mustDefaultCatalog(t)
	raw := firstMatch(t, cat, P7ArticleRange, "第十条から第十五条までの規定")
	assert.Equal(t, "十", raw.ArticleNumRaw)
	assert.Equal(t, "十五", raw.ArticleNumRaw2)
}

func TestPluralArticlePatternSplitsIntoTwoCitations(t *testing.T) {
	cat := mustDefaultCatalog(t)
	entry, ok := cat.Get(P8PluralArticle)
	require.True(t, ok)
	spans := entry.FindAllMatches("第五条及び第七条の規定により")
	require.Len(t, spans, 2)
	assert.Equal(t, "五", spans[0].Raw.ArticleNumRaw)
	assert.Equal(t, "七", spans[1].Raw.ArticleNumRaw)
}

func TestSameArticlePattern(t *testing.T) {
	cat := mustDefaultCatalog(t)
	raw := firstMatch(t, cat, P12SameArticle, "同条第二項の適用を受ける")
	assert.Equal(t, "同条", raw.FixedPhrase)
	assert.Equal(t, "二", raw.ParagraphRaw)
}

func TestBranchArticlePattern(t *testing.T) {
	cat := mustDefaultCatalog(t)
	raw := firstMatch(t, cat, P9BranchArticle, "第三十二条の二第一項に規定する")
	assert.Equal(t, "三十二", raw.ArticleNumRaw)
	assert.Equal(t, "二", raw.BranchNumRaw)
	assert.Equal(t, "一", raw.ParagraphRaw)
}

func TestStructuralPattern(t *testing.T) {
	cat := mustDefaultCatalog(t)
	raw := firstMatch(t, cat, P10Structural, "第二章の規定に基づき")
	assert.Equal(t, "二", raw.ArticleNumRaw)
	assert.Equal(t, "章", raw.StructuralUnit)
}

func TestApplicationTagEntryIsExcludedFromOrdered(t *testing.T) {
	cat := mustDefaultCatalog(t)
	for _, e := range cat.Ordered() {
		assert.NotEqual(t, P11ApplicationTag, e.ID)
	}
	entry, ok := cat.ApplicationTag()
	require.True(t, ok)
	assert.True(t, entry.IsCompiled())
}

func TestOrderedSortsFixedTokenPatternsBeforeGenericOnes(t *testing.T) {
	cat := mustDefaultCatalog(t)
	ordered := cat.Ordered()
	indexOf := func(id ID) int {
		for i, e := range ordered {
			if e.ID == id {
				return i
			}
		}
		return -1
	}
	// P6 (同法) must run before P2 (generic named-article) so "同法第三条"
	// is claimed as Contextual, not mis-parsed as a law named "同".
	assert.Less(t, indexOf(P6Contextual), indexOf(P2NamedArticle))
}
