package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/chapternode/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchPartsGroupsRuns(t *testing.T) {
	parts := MatchParts("Dune", []int{0, 1})
	require.Len(t, parts, 2)
	assert.Equal(t, "Du", parts[0].Text)
	require.NotNil(t, parts[0].Foreground)
	assert.Equal(t, Indigo, *parts[0].Foreground)
	assert.Equal(t, "ne", parts[1].Text)
	assert.Nil(t, parts[1].Foreground)

	plain := MatchParts("Dune", nil)
	require.Len(t, plain, 1)
	assert.Equal(t, "Dune", plain[0].Text)
}

func TestRenderListRowFillsWidth(t *testing.T) {
	parts := MatchParts("Sapiens", []int{2})
	for _, selected := range []bool{true, false} {
		row := RenderListRow(parts, selected, 20)
		assert.Equal(t, 20, lipgloss.Width(row))
	}
}

func TestStatusColor(t *testing.T) {
	assert.Equal(t, Amber, StatusColor(domain.StatusToRead))
	assert.Equal(t, Indigo, StatusColor(domain.StatusReading))
	assert.Equal(t, Green, StatusColor(domain.StatusRead))
	assert.Equal(t, Red, StatusColor(domain.StatusDNF))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "Sapiens", Truncate("Sapiens", 10))
	assert.Equal(t, "Sap...", Truncate("Sapiens", 6))
	assert.Empty(t, Truncate("Sapiens", 0))
}
