// Package dateparse turns relative or local date input into calendar dates.
//
// English and Portuguese keywords are both understood, so "tomorrow" and
// "amanhã" give the same result. Dates are returned as YYYY-MM-DD, the
// format the storefront API expects for deadlines.
package dateparse

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Layout is the wire format for dates.
const Layout = "2006-01-02"

// ErrUnrecognized is returned for input that is not a known date form.
var ErrUnrecognized = errors.New("unrecognized date")

var (
	isoPattern      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	localPattern    = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})(?:/(\d{4}))?$`)
	inDaysPattern   = regexp.MustCompile(`^(?:in|em) (\d+) (?:days?|dias?)$`)
	inWeeksPattern  = regexp.MustCompile(`^(?:in|em) (\d+) (?:weeks?|semanas?)$`)
	inMonthsPattern = regexp.MustCompile(`^(?:in|em) (\d+) (?:months?|m[eê]s|meses)$`)
)

var keywords = map[string]func(time.Time) time.Time{
	"today":          func(now time.Time) time.Time { return now },
	"hoje":           func(now time.Time) time.Time { return now },
	"tomorrow":       func(now time.Time) time.Time { return now.AddDate(0, 0, 1) },
	"amanhã":         func(now time.Time) time.Time { return now.AddDate(0, 0, 1) },
	"amanha":         func(now time.Time) time.Time { return now.AddDate(0, 0, 1) },
	"next week":      func(now time.Time) time.Time { return now.AddDate(0, 0, 7) },
	"semana que vem": func(now time.Time) time.Time { return now.AddDate(0, 0, 7) },
	"next month":     func(now time.Time) time.Time { return now.AddDate(0, 1, 0) },
	"mês que vem":    func(now time.Time) time.Time { return now.AddDate(0, 1, 0) },
	"mes que vem":    func(now time.Time) time.Time { return now.AddDate(0, 1, 0) },
	"eow":            func(now time.Time) time.Time { return nextWeekday(now, time.Friday, false) },
	"end of week":    func(now time.Time) time.Time { return nextWeekday(now, time.Friday, false) },
	"fim da semana":  func(now time.Time) time.Time { return nextWeekday(now, time.Friday, false) },
	"eom":            func(now time.Time) time.Time { return endOfMonth(now) },
	"end of month":   func(now time.Time) time.Time { return endOfMonth(now) },
	"fim do mês":     func(now time.Time) time.Time { return endOfMonth(now) },
	"fim do mes":     func(now time.Time) time.Time { return endOfMonth(now) },
}

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday, "domingo": time.Sunday, "dom": time.Sunday,
	"monday": time.Monday, "mon": time.Monday, "segunda": time.Monday, "seg": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "terça": time.Tuesday, "terca": time.Tuesday, "ter": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday, "quarta": time.Wednesday, "qua": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "quinta": time.Thursday, "qui": time.Thursday,
	"friday": time.Friday, "fri": time.Friday, "sexta": time.Friday, "sex": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday, "sábado": time.Saturday, "sabado": time.Saturday, "sab": time.Saturday,
}

// Parse resolves input relative to the current time.
func Parse(input string) (string, error) {
	return ParseFrom(input, time.Now())
}

// ParseFrom resolves input relative to now. Accepted forms:
//   - YYYY-MM-DD, DD/MM/YYYY, and DD/MM (this year)
//   - today, tomorrow, next week, next month, eow, eom
//   - weekday names, optionally prefixed with "next"
//   - +N, "in N days", "in N weeks", "in N months"
//
// Portuguese equivalents (hoje, amanhã, sexta, "em 10 dias") work too.
func ParseFrom(input string, now time.Time) (string, error) {
	t, err := resolve(strings.ToLower(strings.TrimSpace(input)), now)
	if err == nil && (t.Year() < 1 || t.Year() > 9999) {
		err = ErrUnrecognized
	}
	if err != nil {
		return "", fmt.Errorf("%w: %q", err, input)
	}
	return t.Format(Layout), nil
}

func resolve(input string, now time.Time) (time.Time, error) {
	if fn, ok := keywords[input]; ok {
		return fn(now), nil
	}

	name, forceNext := strings.CutPrefix(input, "next ")
	if !forceNext {
		name = strings.TrimSuffix(strings.TrimSuffix(input, "-feira"), " que vem")
		forceNext = strings.HasSuffix(input, " que vem")
	}
	if day, ok := weekdays[strings.TrimSuffix(name, "-feira")]; ok {
		return nextWeekday(now, day, forceNext), nil
	}

	if rest, ok := strings.CutPrefix(input, "+"); ok {
		if days, err := strconv.Atoi(rest); err == nil && days >= 0 {
			return now.AddDate(0, 0, days), nil
		}
	}
	if n, ok := submatchInt(inDaysPattern, input); ok {
		return now.AddDate(0, 0, n), nil
	}
	if n, ok := submatchInt(inWeeksPattern, input); ok {
		return now.AddDate(0, 0, n*7), nil
	}
	if n, ok := submatchInt(inMonthsPattern, input); ok {
		return now.AddDate(0, n, 0), nil
	}

	if isoPattern.MatchString(input) {
		t, err := time.ParseInLocation(Layout, input, now.Location())
		if err != nil {
			return time.Time{}, ErrUnrecognized
		}
		return t, nil
	}
	if m := localPattern.FindStringSubmatch(input); m != nil {
		return parseLocal(m, now)
	}

	return time.Time{}, ErrUnrecognized
}

// parseLocal handles day-first dates. The year defaults to now's.
func parseLocal(m []string, now time.Time) (time.Time, error) {
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year := now.Year()
	if m[3] != "" {
		year, _ = strconv.Atoi(m[3])
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
	// time.Date normalizes 31/02 to March.
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, ErrUnrecognized
	}
	return t, nil
}

func submatchInt(re *regexp.Regexp, input string) (int, bool) {
	m := re.FindStringSubmatch(input)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	return n, err == nil
}

// nextWeekday returns the next occurrence of target after now. Today's
// weekday means a week from now. With forceNext the occurrence after this
// week's is returned.
func nextWeekday(now time.Time, target time.Weekday, forceNext bool) time.Time {
	daysUntil := int(target - now.Weekday())
	sameDay := daysUntil == 0
	if daysUntil <= 0 {
		daysUntil += 7
	}
	if forceNext && !sameDay {
		daysUntil += 7
	}
	return now.AddDate(0, 0, daysUntil)
}

func endOfMonth(now time.Time) time.Time {
	year, month, _ := now.Date()
	return time.Date(year, month+1, 1, 0, 0, 0, 0, now.Location()).AddDate(0, 0, -1)
}

// Future resolves input like ParseFrom and rejects dates before now's
// calendar day.
func Future(input string, now time.Time) (string, error) {
	s, err := ParseFrom(input, now)
	if err != nil {
		return "", err
	}
	if s < now.Format(Layout) {
		return "", fmt.Errorf("date %s is in the past", s)
	}
	return s, nil
}
