package chunker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLooksStructured(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{
			name: "heading marker",
			text: "intro\n# Section\nbody",
			want: true,
		},
		{
			name: "table pipes",
			text: "notes\n| a | b |\nmore",
			want: true,
		},
		{
			name: "plain paragraphs",
			text: "first paragraph\n\nsecond paragraph",
			want: false,
		},
		{
			name: "single line",
			text: "# not multiline",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, looksStructured(tt.text))
		})
	}
}

func TestParseBlocks_Kinds(t *testing.T) {
	md := "# Shipment Summary\n" +
		"\n" +
		"Carrier Name: ACME Freight\n" +
		"PO Number: PO-88421\n" +
		"\n" +
		"| Lane | Rate |\n" +
		"| --- | --- |\n" +
		"| LAX-DFW | $1,800 |\n" +
		"\n" +
		"Payment is due within thirty days\n" +
		"of the delivery date.\n"

	blocks := ParseBlocks(md)
	require.Len(t, blocks, 4)

	assert.Equal(t, BlockHeading, blocks[0].Kind)
	assert.Equal(t, "# Shipment Summary", blocks[0].Text)

	assert.Equal(t, BlockKeyValue, blocks[1].Kind)
	assert.Equal(t, "Carrier Name: ACME Freight\nPO Number: PO-88421", blocks[1].Text)

	assert.Equal(t, BlockTable, blocks[2].Kind)
	assert.Equal(t, "| Lane | Rate |\n| --- | --- |\n| LAX-DFW | $1,800 |", blocks[2].Text)

	assert.Equal(t, BlockText, blocks[3].Kind)
	assert.Equal(t, "Payment is due within thirty days\nof the delivery date.", blocks[3].Text)
}

func TestParseBlocks_HeadingBreaksParagraph(t *testing.T) {
	md := "line one\nline two\n# Next Section\nline three"

	blocks := ParseBlocks(md)
	require.Len(t, blocks, 3)
	assert.Equal(t, BlockText, blocks[0].Kind)
	assert.Equal(t, "line one\nline two", blocks[0].Text)
	assert.Equal(t, BlockHeading, blocks[1].Kind)
	assert.Equal(t, BlockText, blocks[2].Kind)
}

func TestParseBlocks_SingleTableLineIsText(t *testing.T) {
	// One pipe line with nothing table-like after it does not start a
	// table block.
	md := "| lonely | row |\n\nafter"

	blocks := ParseBlocks(md)
	require.NotEmpty(t, blocks)
	assert.Equal(t, BlockText, blocks[0].Kind)
}

func TestIsTableSep(t *testing.T) {
	assert.True(t, isTableSep("| --- | --- |"))
	assert.True(t, isTableSep("---|---"))
	assert.False(t, isTableSep("| a | b |"))
	assert.False(t, isTableSep("plain text"))
}
