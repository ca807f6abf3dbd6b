package lawsource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.ngs.io/jplaw-cite/pkg/lawdict"
)

func TestListCurrentStatutesSortedById(t *testing.T) {
	src := NewMemSource()
	src.Add(&Statute{LawId: "132AC0000000048", Title: "商法"})
	src.Add(&Statute{LawId: "129AC0000000089", Title: "民法"})

	ids, err := src.ListCurrentStatutes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"129AC0000000089", "132AC0000000048"}, idsToStrings(ids))
}

func TestGetStatuteReturnsRegisteredArticles(t *testing.T) {
	src := NewMemSource()
	src.Add(&Statute{
		LawId: "129AC0000000089",
		Title: "民法",
		Articles: []Article{
			{Label: "第一条", Text: "私権は、公共の福祉に適合しなければならない。", SortOrder: 1},
		},
	})

	statute, err := src.GetStatute(context.Background(), "129AC0000000089")
	require.NoError(t, err)
	require.Len(t, statute.Articles, 1)
	assert.Equal(t, "第一条", statute.Articles[0].Label)
}

func TestGetStatuteUnknownIdReturnsError(t *testing.T) {
	src := NewMemSource()
	_, err := src.GetStatute(context.Background(), "does-not-exist")
	assert.Error(t, err)
}

func idsToStrings(ids []lawdict.LawId) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
