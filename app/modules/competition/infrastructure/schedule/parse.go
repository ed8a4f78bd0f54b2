package competitionschedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/ieee-sb/thesandbox/pkg/clock"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// layouts are tried before natural language parsing.
var layouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Parser turns committee input such as "2026-12-15 23:59" or "next friday
// 9am" into an instant in a named Indonesian timezone.
type Parser struct {
	TimezoneMap map[string]string
	clock       clock.Clock
	when        *when.Parser
}

// NewParser creates a Parser with the Indonesian timezone abbreviations.
func NewParser(clk clock.Clock) *Parser {
	if clk == nil {
		clk = clock.RealClock{}
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	return &Parser{
		TimezoneMap: map[string]string{
			"WIB":  "Asia/Jakarta",
			"WITA": "Asia/Makassar",
			"WIT":  "Asia/Jayapura",
			"UTC":  "UTC",
		},
		clock: clk,
		when:  w,
	}
}

// Location resolves an abbreviation or IANA name.
func (p *Parser) Location(tz string) (*time.Location, error) {
	if tz == "" {
		tz = "WIB"
	}
	name, ok := p.TimezoneMap[strings.ToUpper(tz)]
	if !ok {
		name = tz
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone: %s", tz)
	}
	return loc, nil
}

// Parse interprets input in timezone tz.
func (p *Parser) Parse(input, tz string) (time.Time, error) {
	loc, err := p.Location(tz)
	if err != nil {
		return time.Time{}, err
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, input, loc); err == nil {
			return t, nil
		}
	}

	r, err := p.when.Parse(strings.ToLower(input), p.clock.Now().In(loc))
	if err != nil {
		return time.Time{}, fmt.Errorf("could not parse %q: %w", input, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("could not recognize date format: %s", input)
	}

	return r.Time.In(loc), nil
}

// ParseOptional returns nil for empty input.
func (p *Parser) ParseOptional(input, tz string) (*time.Time, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}
	t, err := p.Parse(input, tz)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
