package flixpatrol

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MaheshSharan/FlixPatrol-API/services/rankings/internal/model"
)

const samplePage = `<html><body>
<div class="content">
  <div class="grid grid-cols-2">
    <div><h3> TOP 10 Movies </h3></div>
  </div>
  <table><tbody>
    <tr><td class="table-td">1.</td><td><a href="/title/kantara">Kantara</a></td><td class="table-td">12 d</td></tr>
    <tr><td class="table-td">2.</td><td><a href="/title/jawan"> Jawan </a></td><td class="table-td">5 d</td></tr>
    <tr><td class="table-td">–</td><td><a href="/ad">Sponsored</a></td><td class="table-td">x</td></tr>
    <tr><td class="table-td">3.</td><td><a href="/title/solo">Solo</a></td></tr>
  </tbody></table>
</div>
<div class="content">
  <div class="grid">
    <h3>TOP 10 TV Shows</h3>
  </div>
  <table><tbody>
    <tr><td class="table-td">1.</td><td><a href="/title/panchayat">Panchayat <span>Season 3</span></a></td><td class="table-td">20 d</td></tr>
  </tbody></table>
</div>
<div class="content">
  <h3>TOP 10 Overall</h3>
  <table><tbody></tbody></table>
</div>
</body></html>`

func TestParseSection_Movies(t *testing.T) {
	items, err := ParseSection(strings.NewReader(samplePage), "TOP 10 Movies")
	require.NoError(t, err)
	assert.Equal(t, []model.RawItem{
		{Rank: 1, Title: "Kantara", Tenure: "12 d"},
		{Rank: 2, Title: "Jawan", Tenure: "5 d"},
		{Rank: 3, Title: "Solo", Tenure: "N/A"},
	}, items)
}

func TestParseSection_TextNodesJoinedWithoutSeparator(t *testing.T) {
	items, err := ParseSection(strings.NewReader(samplePage), "TOP 10 TV Shows")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "PanchayatSeason 3", items[0].Title)
	assert.Equal(t, "20 d", items[0].Tenure)
}

func TestParseSection_MissingHeading(t *testing.T) {
	_, err := ParseSection(strings.NewReader(samplePage), "TOP 10 Kids")
	assert.ErrorIs(t, err, ErrSectionNotFound)
	assert.True(t, IsAbsent(err))
}

func TestParseSection_HeadingOutsideGrid(t *testing.T) {
	_, err := ParseSection(strings.NewReader(samplePage), "TOP 10 Overall")
	assert.ErrorIs(t, err, ErrLayout)
	assert.False(t, IsAbsent(err))
}

func TestParseSection_EmptyTable(t *testing.T) {
	page := `<div><div class="grid"><h3>TOP 10 Overall</h3></div><table><tbody>
	<tr><td class="table-td">n/a</td><td><a>Nothing</a></td></tr></tbody></table></div>`
	_, err := ParseSection(strings.NewReader(page), "TOP 10 Overall")
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestIsDigits(t *testing.T) {
	assert.True(t, isDigits("10"))
	assert.False(t, isDigits(""))
	assert.False(t, isDigits("1a"))
	assert.False(t, isDigits("-1"))
}
