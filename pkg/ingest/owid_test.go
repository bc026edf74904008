package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloomscroll/bloomscroll/pkg/config"
	"github.com/bloomscroll/bloomscroll/pkg/domain"
)

const testOWIDCSV = `Entity,Code,Year,Life expectancy
World,OWID_WRL,2019,72.8
World,OWID_WRL,2020,72.0
World,OWID_WRL,2021,71.0
France,FRA,2021,82.3
World,OWID_WRL,2022,73.2
`

func TestOWID_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/life-expectancy.csv", r.URL.Path)
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(testOWIDCSV))
	}))
	defer server.Close()

	connector := NewOWID(OWIDOptions{
		Charts: []config.OWIDChart{
			{Slug: "life-expectancy", Title: "Life expectancy", Unit: "years"},
		},
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	})
	assert.Equal(t, "owid", connector.Name())

	cards, err := connector.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, cards, 1)

	card := cards[0]
	assert.Equal(t, "owid-life-expectancy-world", card.GUID)
	assert.Equal(t, domain.SourceOWID, card.SourceType)
	assert.Equal(t, "Life expectancy", card.Title)
	assert.Contains(t, card.Summary, "2019 to 2022")
	assert.Contains(t, card.Summary, "73.2 years")

	require.NotNil(t, card.Payload.Chart)
	assert.Equal(t, "line", card.Payload.Chart.ChartType)
	assert.Equal(t, []int{2019, 2020, 2021, 2022}, card.Payload.Chart.Years) // France row excluded
	assert.Equal(t, []float64{72.8, 72.0, 71.0, 73.2}, card.Payload.Chart.Values)
	assert.Equal(t, "World", card.Payload.Chart.Entity)
}

func TestOWID_Fetch_CustomEntity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(testOWIDCSV))
	}))
	defer server.Close()

	connector := NewOWID(OWIDOptions{
		Charts: []config.OWIDChart{
			{Slug: "life-expectancy", Title: "Life expectancy", Entity: "France"},
		},
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	})

	cards, err := connector.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "owid-life-expectancy-france", cards[0].GUID)
	assert.Equal(t, []int{2021}, cards[0].Payload.Chart.Years)
}

func TestOWID_Fetch_UnknownEntitySkipped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(testOWIDCSV))
	}))
	defer server.Close()

	connector := NewOWID(OWIDOptions{
		Charts: []config.OWIDChart{
			{Slug: "life-expectancy", Title: "Life expectancy", Entity: "Atlantis"},
		},
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	})

	cards, err := connector.Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestParseOWIDCSV_TrailingYears(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("Entity,Code,Year,Value\n")
	for year := 1990; year <= 2020; year++ {
		sb.WriteString("World,OWID_WRL," + strconv.Itoa(year) + ",1.0\n")
	}

	years, values, err := parseOWIDCSV(strings.NewReader(sb.String()), "World", 5)
	require.NoError(t, err)
	assert.Equal(t, []int{2016, 2017, 2018, 2019, 2020}, years)
	assert.Len(t, values, 5)
}

func TestParseOWIDCSV_MalformedRowsSkipped(t *testing.T) {
	csvData := `Entity,Code,Year,Value
World,OWID_WRL,not-a-year,1.0
World,OWID_WRL,2020,not-a-number
World,OWID_WRL,2021,3.5
`
	years, values, err := parseOWIDCSV(strings.NewReader(csvData), "World", 10)
	require.NoError(t, err)
	assert.Equal(t, []int{2021}, years)
	assert.Equal(t, []float64{3.5}, values)
}
