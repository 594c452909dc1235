package holiday

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/sedes-asistencia/asistencia-backend-go/internal/pkg/civildate"
	"gopkg.in/yaml.v3"
)

//go:embed holidays.yaml
var defaultTable []byte

// Calendar is an immutable year -> holiday dates table.
type Calendar struct {
	years map[int]map[string]struct{}
}

type tableFile struct {
	Holidays map[int][]string `yaml:"holidays"`
}

// New builds a calendar from a year -> YYYY-MM-DD list table. Every date must
// parse and belong to the year it is listed under.
func New(table map[int][]string) (*Calendar, error) {
	c := &Calendar{years: make(map[int]map[string]struct{}, len(table))}
	for year, dates := range table {
		set := make(map[string]struct{}, len(dates))
		for _, d := range dates {
			parsed, err := time.Parse(civildate.DateLayout, d)
			if err != nil {
				return nil, fmt.Errorf("invalid holiday date %q: %w", d, err)
			}
			if parsed.Year() != year {
				return nil, fmt.Errorf("holiday %s listed under year %d", d, year)
			}
			set[d] = struct{}{}
		}
		c.years[year] = set
	}
	return c, nil
}

// Parse reads a YAML table with a top-level "holidays" map.
func Parse(data []byte) (*Calendar, error) {
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse holiday table: %w", err)
	}
	return New(f.Holidays)
}

// LoadFile reads a YAML holiday table from disk.
func LoadFile(path string) (*Calendar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read holiday table: %w", err)
	}
	return Parse(data)
}

// Default returns the embedded Colombian table.
func Default() *Calendar {
	c, err := Parse(defaultTable)
	if err != nil {
		panic("embedded holiday table is invalid: " + err.Error())
	}
	return c
}

// Load returns the table at path, or the embedded one when path is empty.
func Load(path string) (*Calendar, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// IsHoliday reports whether the YYYY-MM-DD date is a holiday. Unknown years
// have no holidays.
func (c *Calendar) IsHoliday(dateKey string) bool {
	if len(dateKey) < 4 {
		return false
	}
	year, err := strconv.Atoi(dateKey[:4])
	if err != nil {
		return false
	}
	_, ok := c.years[year][dateKey]
	return ok
}

// IsBusinessDay is true for Monday through Friday civil dates that are not holidays.
func (c *Calendar) IsBusinessDay(t time.Time, loc *time.Location) bool {
	if !civildate.IsWeekday(t, loc) {
		return false
	}
	return !c.IsHoliday(civildate.DateKey(t, loc))
}

// Years returns the configured years in ascending order.
func (c *Calendar) Years() []int {
	years := make([]int, 0, len(c.years))
	for y := range c.years {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Holidays returns the sorted holiday dates of a year.
func (c *Calendar) Holidays(year int) []string {
	dates := make([]string, 0, len(c.years[year]))
	for d := range c.years[year] {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}
