package service

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	ics "github.com/arran4/golang-ical"

	"acadtrack/backend/internal/model"
)

// ── ICS timetable parsing ──
//
// A VEVENT becomes one weekly teaching slot:
//   - SUMMARY "CS501 Data Structures [A]" → subject CS501, section A
//   - DTSTART gives the weekday and start time; DTEND or DURATION the end
//   - RRULE/EXDATE expand into the term's week numbers, single events fill one week
//   - events with the same subject, section, weekday and times are merged

const (
	icsMaxFileSize  = 5 * 1024 * 1024
	icsFetchTimeout = 30 * time.Second
	icsTimezone     = "Asia/Kolkata"
)

// DURATION has no named constant in golang-ical v0.3.1
const icsPropertyDuration = ics.ComponentProperty("DURATION")

var sectionSuffix = regexp.MustCompile(`\[([^\]]+)\]\s*$`)

// teachingEvent intermediate form of one VEVENT
type teachingEvent struct {
	SubjectCode string
	Section     string
	DayOfWeek   int // 1=Monday … 7=Sunday
	StartTime   string
	EndTime     string
	Weeks       []int
}

// FetchICSContent downloads a calendar, accepting webcal:// links
func FetchICSContent(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	u := rawURL
	if strings.HasPrefix(u, "webcal://") {
		u = "https://" + strings.TrimPrefix(u, "webcal://")
	}

	ctx, cancel := context.WithTimeout(ctx, icsFetchTimeout)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("build ics request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("fetch ics: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("fetch ics: HTTP %d", resp.StatusCode)
	}

	return &limitedBody{
		Reader: io.LimitReader(resp.Body, icsMaxFileSize),
		body:   resp.Body,
		cancel: cancel,
	}, nil
}

type limitedBody struct {
	io.Reader
	body   io.Closer
	cancel context.CancelFunc
}

func (b *limitedBody) Close() error {
	defer b.cancel()
	return b.body.Close()
}

// ParseICS converts a calendar into the caller's weekly schedule for a term.
// skipped counts events that carried no usable subject code or time.
func ParseICS(reader io.Reader, userID string, term *model.AcademicTerm) (rows []model.CourseSchedule, skipped int, err error) {
	cal, err := ics.ParseCalendar(reader)
	if err != nil {
		return nil, 0, fmt.Errorf("parse ics: %w", err)
	}

	loc, err := time.LoadLocation(icsTimezone)
	if err != nil {
		loc = time.UTC
	}
	totalWeeks := termWeeks(term.StartDate, term.EndDate)

	var events []teachingEvent
	for _, comp := range cal.Events() {
		evt, ok := parseTeachingEvent(comp, term.StartDate, totalWeeks, loc)
		if !ok {
			skipped++
			continue
		}
		events = append(events, evt)
	}

	merged := mergeTeachingEvents(events)

	rows = make([]model.CourseSchedule, 0, len(merged))
	for _, evt := range merged {
		sort.Ints(evt.Weeks)
		rows = append(rows, model.CourseSchedule{
			UserID:      userID,
			TermID:      term.TermID,
			SubjectCode: evt.SubjectCode,
			Section:     evt.Section,
			DayOfWeek:   evt.DayOfWeek,
			StartTime:   evt.StartTime,
			EndTime:     evt.EndTime,
			Weeks:       model.IntArray(evt.Weeks),
			Source:      model.ScheduleSourceICS,
		})
	}
	return rows, skipped, nil
}

// parseSummary splits "CS501 Data Structures [A]" into subject and section
func parseSummary(summary string) (subject, section string) {
	s := strings.TrimSpace(summary)
	if m := sectionSuffix.FindStringSubmatch(s); m != nil {
		section = normalizeCode(m[1])
		s = strings.TrimSpace(s[:len(s)-len(m[0])])
	}
	if fields := strings.Fields(s); len(fields) > 0 {
		subject = normalizeCode(fields[0])
	}
	// subject codes always carry a digit; "Staff meeting" is not a class
	if !strings.ContainsAny(subject, "0123456789") {
		return "", ""
	}
	return subject, section
}

func parseTeachingEvent(evt *ics.VEvent, termStart time.Time, totalWeeks int, loc *time.Location) (teachingEvent, bool) {
	summary := evt.GetProperty(ics.ComponentPropertySummary)
	if summary == nil {
		return teachingEvent{}, false
	}
	subject, section := parseSummary(summary.Value)
	if subject == "" {
		return teachingEvent{}, false
	}

	dtStart, err := parseICSDateTime(evt, ics.ComponentPropertyDtStart, loc)
	if err != nil {
		return teachingEvent{}, false
	}
	dtEnd, err := parseICSDateTime(evt, ics.ComponentPropertyDtEnd, loc)
	if err != nil {
		dur := evt.GetProperty(icsPropertyDuration)
		if dur == nil {
			return teachingEvent{}, false
		}
		d, ok := parseICSDuration(dur.Value)
		if !ok {
			return teachingEvent{}, false
		}
		dtEnd = dtStart.Add(d)
	}
	if !dtEnd.After(dtStart) {
		return teachingEvent{}, false
	}

	weeks := expandWeeks(evt, dtStart, termStart, totalWeeks, loc)
	if len(weeks) == 0 {
		return teachingEvent{}, false
	}

	return teachingEvent{
		SubjectCode: subject,
		Section:     section,
		DayOfWeek:   isoWeekday(dtStart.Weekday()),
		StartTime:   dtStart.Format("15:04"),
		EndTime:     dtEnd.Format("15:04"),
		Weeks:       weeks,
	}, true
}

// expandWeeks term week numbers an event occurs in
func expandWeeks(evt *ics.VEvent, dtStart, termStart time.Time, totalWeeks int, loc *time.Location) []int {
	single := func() []int {
		wk := weekNumber(dtStart, termStart)
		if wk >= 1 && wk <= totalWeeks {
			return []int{wk}
		}
		return nil
	}

	prop := evt.GetProperty(ics.ComponentPropertyRrule)
	if prop == nil {
		return single()
	}
	rule := parseRRule(prop.Value)
	if rule.freq != "WEEKLY" {
		return single()
	}

	exDates := parseExDates(evt, loc)
	interval := rule.interval
	if interval < 1 {
		interval = 1
	}

	last := termStart.AddDate(0, 0, totalWeeks*7)
	if !rule.until.IsZero() && rule.until.Before(last) {
		last = rule.until
	}

	var weeks []int
	seen := make(map[int]bool)
	for n, cur := 0, dtStart; !cur.After(last); n, cur = n+1, cur.AddDate(0, 0, 7*interval) {
		if rule.count > 0 && n >= rule.count {
			break
		}
		wk := weekNumber(cur, termStart)
		if wk < 1 || wk > totalWeeks || seen[wk] || exDates[cur.Format("20060102")] {
			continue
		}
		seen[wk] = true
		weeks = append(weeks, wk)
	}
	return weeks
}

type rrule struct {
	freq     string
	interval int
	count    int
	until    time.Time
}

// parseRRule reads FREQ, INTERVAL, COUNT and UNTIL of an RRULE value
func parseRRule(value string) rrule {
	r := rrule{interval: 1}
	for _, part := range strings.Split(value, ";") {
		k, v, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		switch strings.ToUpper(k) {
		case "FREQ":
			r.freq = strings.ToUpper(v)
		case "INTERVAL":
			if n, err := strconv.Atoi(v); err == nil {
				r.interval = n
			}
		case "COUNT":
			if n, err := strconv.Atoi(v); err == nil {
				r.count = n
			}
		case "UNTIL":
			t, err := time.Parse("20060102T150405Z", v)
			if err != nil {
				t, _ = time.Parse("20060102", v)
			}
			r.until = t
		}
	}
	return r
}

// parseExDates excluded dates as YYYYMMDD in loc. EXDATE may repeat and may list several values.
func parseExDates(evt *ics.VEvent, loc *time.Location) map[string]bool {
	out := make(map[string]bool)
	for _, prop := range evt.Properties {
		if prop.IANAToken != string(ics.ComponentPropertyExdate) {
			continue
		}
		for _, v := range strings.Split(prop.Value, ",") {
			v = strings.TrimSpace(v)
			if t, err := time.Parse("20060102T150405Z", v); err == nil {
				out[t.In(loc).Format("20060102")] = true
				continue
			}
			for _, layout := range []string{"20060102T150405", "20060102"} {
				if t, err := time.Parse(layout, v); err == nil {
					out[t.Format("20060102")] = true
					break
				}
			}
		}
	}
	return out
}

// parseICSDuration handles the day/hour/minute/second forms of RFC 5545 durations, e.g. PT1H30M
func parseICSDuration(v string) (time.Duration, bool) {
	v = strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(v)), "+")
	if !strings.HasPrefix(v, "P") {
		return 0, false
	}
	var (
		d      time.Duration
		num    int
		inTime bool
		digits bool
	)
	for _, r := range v[1:] {
		switch {
		case r >= '0' && r <= '9':
			num = num*10 + int(r-'0')
			digits = true
			continue
		case r == 'T':
			inTime = true
			continue
		case r == 'W' && !inTime:
			d += time.Duration(num) * 7 * 24 * time.Hour
		case r == 'D' && !inTime:
			d += time.Duration(num) * 24 * time.Hour
		case r == 'H' && inTime:
			d += time.Duration(num) * time.Hour
		case r == 'M' && inTime:
			d += time.Duration(num) * time.Minute
		case r == 'S' && inTime:
			d += time.Duration(num) * time.Second
		default:
			return 0, false
		}
		num = 0
	}
	return d, digits && d > 0
}

func mergeTeachingEvents(events []teachingEvent) []teachingEvent {
	type key struct {
		Subject   string
		Section   string
		DayOfWeek int
		StartTime string
		EndTime   string
	}
	merged := make(map[key]*teachingEvent)
	var order []key

	for _, e := range events {
		k := key{e.SubjectCode, e.Section, e.DayOfWeek, e.StartTime, e.EndTime}
		existing, ok := merged[k]
		if !ok {
			cp := e
			merged[k] = &cp
			order = append(order, k)
			continue
		}
		have := make(map[int]bool, len(existing.Weeks))
		for _, w := range existing.Weeks {
			have[w] = true
		}
		for _, w := range e.Weeks {
			if !have[w] {
				existing.Weeks = append(existing.Weeks, w)
			}
		}
	}

	out := make([]teachingEvent, 0, len(order))
	for _, k := range order {
		out = append(out, *merged[k])
	}
	return out
}

// isoWeekday 1=Monday … 7=Sunday
func isoWeekday(wd time.Weekday) int {
	if wd == time.Sunday {
		return 7
	}
	return int(wd)
}

// weekNumber 1-based week of date within the term; 0 before the term starts
func weekNumber(date, termStart time.Time) int {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	s := time.Date(termStart.Year(), termStart.Month(), termStart.Day(), 0, 0, 0, 0, time.UTC)
	days := int(d.Sub(s).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days/7 + 1
}

// termWeeks number of teaching weeks between start and end
func termWeeks(start, end time.Time) int {
	days := end.Sub(start).Hours() / 24
	weeks := int(math.Ceil((days + 1) / 7.0))
	if weeks < 1 {
		weeks = 1
	}
	return weeks
}

func parseICSDateTime(evt *ics.VEvent, name ics.ComponentProperty, loc *time.Location) (time.Time, error) {
	prop := evt.GetProperty(name)
	if prop == nil {
		return time.Time{}, fmt.Errorf("missing property %s", name)
	}
	val := strings.TrimSpace(prop.Value)

	if t, err := time.Parse("20060102T150405Z", val); err == nil {
		return t.In(loc), nil
	}

	zone := loc
	for k, v := range prop.ICalParameters {
		if strings.EqualFold(k, "TZID") && len(v) > 0 {
			if tz, err := time.LoadLocation(v[0]); err == nil {
				zone = tz
			}
		}
	}
	for _, layout := range []string{"20060102T150405", "20060102"} {
		if t, err := time.ParseInLocation(layout, val, zone); err == nil {
			return t.In(loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", val)
}
