package event

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// date is a parsed calendar day, time-of-day unknown.
type date struct {
	year  int
	month time.Month
	day   int
}

// dateParser is one strategy for understanding free-text dates. Strategies
// are tried in a fixed order and the first hit wins.
type dateParser interface {
	parse(s string, now time.Time) (date, bool)
}

var dateParsers = []dateParser{
	absoluteParser{},
	namedMonthParser{},
	numericSlashParser{},
	isoParser{},
}

var ordinalRe = regexp.MustCompile(`(?i)\b(\d{1,2})(st|nd|rd|th)\b`)

// stripOrdinals rewrites "March 3rd" as "March 3".
func stripOrdinals(s string) string {
	return ordinalRe.ReplaceAllString(s, "$1")
}

// parseDate runs the strategies over the cleaned text.
func parseDate(s string, now time.Time) (date, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return date{}, false
	}
	for _, p := range dateParsers {
		if d, ok := p.parse(s, now); ok {
			return d, true
		}
	}
	return date{}, false
}

// absoluteParser accepts already well-formed timestamps.
type absoluteParser struct{}

var absoluteLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func (absoluteParser) parse(s string, _ time.Time) (date, bool) {
	for _, layout := range absoluteLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return date{year: t.Year(), month: t.Month(), day: t.Day()}, true
		}
	}
	return date{}, false
}

// namedMonthParser accepts "March 5, 2026", "Mar 5 2026", "March 3rd, 2026".
type namedMonthParser struct{}

var namedMonthRe = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(\d{1,2}),?\s+(\d{4})\b`)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

func (namedMonthParser) parse(s string, _ time.Time) (date, bool) {
	m := namedMonthRe.FindStringSubmatch(stripOrdinals(s))
	if m == nil {
		return date{}, false
	}
	month := monthsByPrefix[strings.ToLower(m[1])]
	day, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	return newDate(year, month, day)
}

// numericSlashParser accepts "3/5/2026" (month first) and "25/12/2026"
// (day first when the leading number cannot be a month). Two-digit years
// land in the 2000s.
type numericSlashParser struct{}

var numericSlashRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2,4})$`)

func (numericSlashParser) parse(s string, _ time.Time) (date, bool) {
	m := numericSlashRe.FindStringSubmatch(s)
	if m == nil {
		return date{}, false
	}
	p1, _ := strconv.Atoi(m[1])
	p2, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	if year < 100 {
		year += 2000
	}
	month, day := p1, p2
	if p1 > 12 {
		month, day = p2, p1
	}
	return newDate(year, time.Month(month), day)
}

// isoParser accepts "2026-03-05".
type isoParser struct{}

var isoRe = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)

func (isoParser) parse(s string, _ time.Time) (date, bool) {
	m := isoRe.FindStringSubmatch(s)
	if m == nil {
		return date{}, false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	return newDate(year, time.Month(month), day)
}

// newDate validates the components by round-tripping them through time.Date,
// rejecting normalized-away nonsense like February 31st.
func newDate(year int, month time.Month, day int) (date, bool) {
	if month < time.January || month > time.December || day < 1 || day > 31 {
		return date{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return date{}, false
	}
	return date{year: year, month: month, day: day}, true
}

// clockTime is a parsed time of day, 24h.
type clockTime struct {
	hour   int
	minute int
}

// Time literal patterns, tried in order against the lowercased text.
var timeLiteralRes = []*regexp.Regexp{
	regexp.MustCompile(`^(\d{1,2}):(\d{2})(?:\s*([ap]m))?$`), // 7:30, 7:30 pm
	regexp.MustCompile(`^(\d{1,2})\.(\d{2})([ap]m)$`),        // 7.30pm
	regexp.MustCompile(`^(\d{1,2})\s*([ap]m)$`),              // 7pm, 7 pm
	regexp.MustCompile(`^(\d{1,2})$`),                        // 19
}

// parseTimeLiteral understands one side of a time range.
func parseTimeLiteral(s string) (clockTime, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, re := range timeLiteralRes {
		m := re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		hour, _ := strconv.Atoi(m[1])
		var minute int
		var meridiem string
		switch len(m) {
		case 4: // hour, minute, optional meridiem
			minute, _ = strconv.Atoi(m[2])
			meridiem = m[3]
		case 3: // hour, meridiem
			meridiem = m[2]
		}
		switch meridiem {
		case "pm":
			if hour < 12 {
				hour += 12
			}
		case "am":
			if hour == 12 {
				hour = 0
			}
		}
		if hour > 23 || minute > 59 {
			return clockTime{}, false
		}
		return clockTime{hour: hour, minute: minute}, true
	}
	return clockTime{}, false
}

var timeRangeSepRe = regexp.MustCompile(`\s*[-–—]\s*`)

// splitTimeRange separates "7pm - 9pm" into its two sides; the second is
// empty when no separator is present.
func splitTimeRange(s string) (string, string) {
	parts := timeRangeSepRe.Split(strings.TrimSpace(s), 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return parts[0], ""
}
