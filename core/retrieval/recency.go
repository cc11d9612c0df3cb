package retrieval

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	dayFirstPattern  = regexp.MustCompile(`\b(\d{1,2})[/.-](\d{1,2})[/.-](\d{4})\b`)
	yearFirstPattern = regexp.MustCompile(`\b(\d{4})[/.-](\d{1,2})[/.-](\d{1,2})\b`)
	monthDayPattern  = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+(\d{1,2}),?\s+(\d{4})\b`)
	dayMonthPattern  = regexp.MustCompile(`(?i)\b(\d{1,2})\s+(january|february|march|april|may|june|july|august|september|october|november|december)\s+(\d{4})\b`)
	publishedPattern = regexp.MustCompile(`(?i)\b(?:published|updated)\b[^.]{0,40}?\b(\d{4})\b`)
	urlYearPattern   = regexp.MustCompile(`/(20\d{2})/`)

	timeSensitivePattern = regexp.MustCompile(`\b(recent|latest|new|current|today|yesterday|last week|2025|2024)\b`)
)

var monthsByName = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
}

// TimeSensitive reports whether a query asks for fresh information.
func TimeSensitive(query string) bool {
	return timeSensitivePattern.MatchString(strings.ToLower(query))
}

// ExtractTimestamp finds the best publication date hint in chunk content,
// falling back to a year in the URL path and finally to three months before
// now. First matching pattern wins.
func ExtractTimestamp(content string, url string, now time.Time) time.Time {
	if m := yearFirstPattern.FindStringSubmatch(content); m != nil {
		if ts, ok := buildDate(m[1], m[2], m[3], now); ok {
			return ts
		}
	}
	if m := dayFirstPattern.FindStringSubmatch(content); m != nil {
		day, month := m[1], m[2]
		// An unambiguous component decides the order, otherwise day first.
		if d, _ := strconv.Atoi(day); d <= 12 {
			if mo, _ := strconv.Atoi(month); mo > 12 {
				day, month = month, day
			}
		}
		if ts, ok := buildDate(m[3], month, day, now); ok {
			return ts
		}
	}
	if m := monthDayPattern.FindStringSubmatch(content); m != nil {
		if ts, ok := buildNamedDate(m[3], m[1], m[2], now); ok {
			return ts
		}
	}
	if m := dayMonthPattern.FindStringSubmatch(content); m != nil {
		if ts, ok := buildNamedDate(m[3], m[2], m[1], now); ok {
			return ts
		}
	}
	if m := publishedPattern.FindStringSubmatch(content); m != nil {
		if ts, ok := buildDate(m[1], "1", "1", now); ok {
			return ts
		}
	}
	if m := urlYearPattern.FindStringSubmatch(url); m != nil {
		if ts, ok := buildDate(m[1], "1", "1", now); ok {
			return ts
		}
	}
	return now.AddDate(0, -3, 0)
}

// RecencyBoost maps content age to a multiplicative boost in (0.5, 1.5].
// Time sensitive queries decay three times faster.
func RecencyBoost(timestamp time.Time, now time.Time, timeSensitive bool) float64 {
	ageDays := now.Sub(timestamp).Hours() / 24.0
	if ageDays < 0 {
		ageDays = 0
	}

	decayRate := 0.005
	if timeSensitive {
		decayRate = 0.015
	}
	return 0.5 + math.Exp(-decayRate*ageDays)
}

func buildDate(year string, month string, day string, now time.Time) (time.Time, bool) {
	y, err := strconv.Atoi(year)
	if err != nil || y < 1990 || y > now.Year()+1 {
		return time.Time{}, false
	}
	mo, err := strconv.Atoi(month)
	if err != nil || mo < 1 || mo > 12 {
		return time.Time{}, false
	}
	d, err := strconv.Atoi(day)
	if err != nil || d < 1 || d > 31 {
		return time.Time{}, false
	}
	return time.Date(y, time.Month(mo), d, 0, 0, 0, 0, time.UTC), true
}

func buildNamedDate(year string, month string, day string, now time.Time) (time.Time, bool) {
	mo, ok := monthsByName[strings.ToLower(month)]
	if !ok {
		return time.Time{}, false
	}
	return buildDate(year, strconv.Itoa(int(mo)), day, now)
}
