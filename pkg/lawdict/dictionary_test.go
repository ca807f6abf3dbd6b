package lawdict

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `kind,number,canonical_title,reading,old_title,promulgation_date,effective_date,law_id
Act,明治二十九年法律第八十九号,民法,みんぽう,,1896-04-27,1898-07-16,129AC0000000089
Act,昭和二十五年法律第二百九十六号,商法,しょうほう,,1899-03-09,1899-06-16,132AC0000000048
Act,明治二十三年法律第二十九号,民事訴訟法,みんじそしょうほう,,1890-04-21,1891-01-01,123AC0000000029
Act,平成八年法律第百九号,民事訴訟法,みんじそしょうほう,,1996-06-26,1998-01-01,408AC0000000109
Act,昭和二十二年法律第五十四号,私的独占の禁止及び公正取引の確保に関する法律,してきどくせんのきんしおよびこうせいとりひきのかくほにかんするほうりつ,,1947-04-14,1947-07-20,322AC0000000054
`

func loadSample(t *testing.T) *Dictionary {
	t.Helper()
	d := New()
	require.NoError(t, d.Load(strings.NewReader(sampleCSV)))
	return d
}

func TestFindByTitle(t *testing.T) {
	d := loadSample(t)
	id, ok := d.FindByTitle("民法")
	require.True(t, ok)
	assert.Equal(t, LawId("129AC0000000089"), id)
}

func TestFindByNumber(t *testing.T) {
	d := loadSample(t)
	id, ok := d.FindByNumber("明治二十九年法律第八十九号")
	require.True(t, ok)
	assert.Equal(t, LawId("129AC0000000089"), id)

	// Also resolvable by the re-encoded stable-id-format string.
	id2, ok := d.FindByNumber("129AC0000000089")
	require.True(t, ok)
	assert.Equal(t, id, id2)
}

func TestFindByAbbreviation_WellKnownTable(t *testing.T) {
	d := loadSample(t)
	id, ok := d.FindByAbbreviation("民訴法")
	require.True(t, ok)
	// First registration (明治 civil procedure code) wins.
	assert.Equal(t, LawId("123AC0000000029"), id)
}

func TestFindByAbbreviation_DerivedRule(t *testing.T) {
	d := loadSample(t)
	// 私的独占の禁止及び公正取引の確保に関する法律 ends in に関する法律, so the
	// morphological rules derive 私的独占の禁止及び公正取引の確保法; its
	// customary 独占禁止法 comes from wellKnownAbbreviations.
	id, ok := d.FindByAbbreviation("私的独占の禁止及び公正取引の確保法")
	require.True(t, ok)
	assert.Equal(t, LawId("322AC0000000054"), id)

	id, ok = d.FindByAbbreviation("独占禁止法")
	require.True(t, ok)
	assert.Equal(t, LawId("322AC0000000054"), id)
}

func TestAbbreviationConflictsRetainedButNotAmbiguous(t *testing.T) {
	d := loadSample(t)
	conflicts := d.Conflicts()
	ids, ok := conflicts["民訴法"]
	require.True(t, ok, "expected a recorded conflict for 民訴法")
	assert.Len(t, ids, 2)
	// First insertion still wins for lookups.
	id, _ := d.FindByAbbreviation("民訴法")
	assert.Equal(t, ids[0], id)
}

func TestDeriveAbbreviationsMorphologicalRules(t *testing.T) {
	cases := []struct {
		title string
		want  []string
	}{
		{"公害健康被害補償に関する法律", []string{"公害健康被害補償法"}},
		{"災害対策に関する特別措置法", []string{"災害対策特措法"}},
		{"震災復興の特例に関する法律", []string{"震災復興特例法"}},
		{"感染症予防等に関する法律", []string{"感染症予防等法"}},
	}
	for _, tc := range cases {
		got := deriveAbbreviations(tc.title)
		assert.Equal(t, tc.want, got, "title=%s", tc.title)
	}
}

func TestResolveFallsThroughTitleAbbreviationNumber(t *testing.T) {
	d := loadSample(t)

	id, ok := d.Resolve("商法")
	require.True(t, ok)
	assert.Equal(t, LawId("132AC0000000048"), id)

	id, ok = d.Resolve("民訴法")
	require.True(t, ok)
	assert.Equal(t, LawId("123AC0000000029"), id)

	_, ok = d.Resolve("存在しない法律")
	assert.False(t, ok)
}

func TestMetadataSkipsEmptyIdOrTitle(t *testing.T) {
	d := New()
	csvData := `kind,number,canonical_title,reading,old_title,promulgation_date,effective_date,law_id
Act,,,,,,,
Act,明治二十九年法律第八十九号,民法,みんぽう,,1896-04-27,1898-07-16,129AC0000000089
Act,昭和元年法律第一号,,,,,,999AC0000000001
`
	require.NoError(t, d.Load(strings.NewReader(csvData)))
	assert.Equal(t, 1, d.Len())
}
