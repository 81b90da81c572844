package segment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitCells(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"| ISIN | Name |", []string{"ISIN", "Name"}},
		{"| ISIN | Name |  |", []string{"ISIN", "Name", ""}},
		{"DE0007164600 |  | - | n/a | 3", []string{"DE0007164600", "", "-", "n/a", "3"}},
		{"|  |  |", nil},
		{"Trade Date    Amount", []string{"Trade Date", "Amount"}},
		{"Trade Date Amount", []string{"Trade Date Amount"}},
		{"a\t\tb", []string{"a", "b"}},
		{"   ", nil},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, SplitCells(tc.in), tc.in)
	}
}

func TestIsRule(t *testing.T) {
	assert.True(t, IsRule("|---|:---:|"))
	assert.True(t, IsRule("-----  -----"))
	assert.False(t, IsRule("| a | b |"))
	assert.False(t, IsRule("   "))
}

func TestFind(t *testing.T) {
	text := "Quarterly statement\n" +
		"\n" +
		"Holdings\n" +
		"ISIN | Name | Qty\n" +
		"|---|---|---|\n" +
		"US0378331005 | Apple Inc. | 100\n" +
		"\n" +
		"Lonely | line\n" +
		"\n" +
		"Date        Amount\n" +
		"2024-01-02  500"

	segs := Find(text)
	require.Len(t, segs, 2)

	assert.Equal(t, 3, segs[0].StartLine)
	assert.Equal(t, 5, segs[0].EndLine)
	assert.Equal(t, "ISIN | Name | Qty\n|---|---|---|\nUS0378331005 | Apple Inc. | 100", segs[0].Text)

	assert.Equal(t, 9, segs[1].StartLine)
	assert.Equal(t, 10, segs[1].EndLine)
}

func TestFindSkipsDoubleSpacedProse(t *testing.T) {
	text := "This is prose.  It has two spaces.\nSo does this.  Again here."
	assert.Empty(t, Find(text))
}

func TestFindEmpty(t *testing.T) {
	assert.Empty(t, Find(""))
}
