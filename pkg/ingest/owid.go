package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/bloomscroll/bloomscroll/pkg/config"
	"github.com/bloomscroll/bloomscroll/pkg/domain"
)

// DefaultOWIDBaseURL is the Our World in Data grapher endpoint
const DefaultOWIDBaseURL = "https://ourworldindata.org/grapher"

const defaultOWIDYears = 20

// OWID ingests Our World in Data indicators as chart cards
type OWID struct {
	charts  []config.OWIDChart
	baseURL string
	client  *http.Client
	years   int
}

// OWIDOptions configures the OWID connector
type OWIDOptions struct {
	Charts  []config.OWIDChart
	BaseURL string
	Timeout time.Duration
	Years   int // how many trailing years of data to keep
}

// NewOWID creates an OWID connector
func NewOWID(opts OWIDOptions) *OWID {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultOWIDBaseURL
	}
	years := opts.Years
	if years <= 0 {
		years = defaultOWIDYears
	}
	return &OWID{
		charts:  opts.Charts,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  newHTTPClient(opts.Timeout),
		years:   years,
	}
}

// Name implements Connector
func (o *OWID) Name() string { return string(domain.SourceOWID) }

// Fetch downloads each configured indicator CSV and builds one chart card
// per indicator. A broken indicator is logged and skipped.
func (o *OWID) Fetch(ctx context.Context) ([]domain.Card, error) {
	var cards []domain.Card
	for _, chart := range o.charts {
		card, err := o.fetchChart(ctx, chart)
		if err != nil {
			lgr.Printf("[WARN] owid chart %s failed: %v", chart.Slug, err)
			continue
		}
		cards = append(cards, *card)
	}
	return cards, nil
}

func (o *OWID) fetchChart(ctx context.Context, chart config.OWIDChart) (*domain.Card, error) {
	entity := chart.Entity
	if entity == "" {
		entity = "World"
	}

	url := fmt.Sprintf("%s/%s.csv", o.baseURL, chart.Slug)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch csv: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	years, values, err := parseOWIDCSV(resp.Body, entity, o.years)
	if err != nil {
		return nil, fmt.Errorf("parse csv for %s: %w", chart.Slug, err)
	}
	if len(years) == 0 {
		return nil, fmt.Errorf("no data for entity %q in %s", entity, chart.Slug)
	}

	chartType := chart.ChartType
	if chartType == "" {
		chartType = "line"
	}

	card := &domain.Card{
		GUID:        fmt.Sprintf("owid-%s-%s", chart.Slug, strings.ToLower(strings.ReplaceAll(entity, " ", "-"))),
		SourceType:  domain.SourceOWID,
		Title:       chart.Title,
		Summary:     owidSummary(chart, entity, years, values),
		OriginalURL: fmt.Sprintf("%s/%s", o.baseURL, chart.Slug),
		Payload: domain.Payload{
			Type: domain.SourceOWID,
			Chart: &domain.ChartPayload{
				ChartType: chartType,
				Years:     years,
				Values:    values,
				Unit:      chart.Unit,
				Indicator: chart.Title,
				Entity:    entity,
			},
		},
	}
	return card, nil
}

// parseOWIDCSV reads the grapher CSV (Entity,Code,Year,Value) and returns the
// trailing maxYears points for the entity, sorted by year ascending
func parseOWIDCSV(r io.Reader, entity string, maxYears int) (years []int, values []float64, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) < 2 {
		return nil, nil, fmt.Errorf("csv has no data rows")
	}

	type point struct {
		year  int
		value float64
	}
	var points []point
	for _, rec := range records[1:] { // skip header
		if len(rec) < 4 || rec[0] != entity {
			continue
		}
		year, yErr := strconv.Atoi(rec[2])
		if yErr != nil {
			continue
		}
		value, vErr := strconv.ParseFloat(rec[3], 64)
		if vErr != nil {
			continue
		}
		points = append(points, point{year: year, value: value})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].year < points[j].year })
	if len(points) > maxYears {
		points = points[len(points)-maxYears:]
	}

	for _, p := range points {
		years = append(years, p.year)
		values = append(values, p.value)
	}
	return years, values, nil
}

// owidSummary builds the embedding-friendly text for a chart card
func owidSummary(chart config.OWIDChart, entity string, years []int, values []float64) string {
	last := len(years) - 1
	unit := chart.Unit
	if unit != "" {
		unit = " " + unit
	}
	return fmt.Sprintf("%s for %s from %d to %d. Latest value: %.4g%s.",
		chart.Title, entity, years[0], years[last], values[last], unit)
}
