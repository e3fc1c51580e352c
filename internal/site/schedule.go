package site

import (
	"log/slog"
	"strings"
	"time"
)

// timeZoneOffsets maps the supported IANA zone names to their fixed
// offset in hours. Scheduling works at day/minute granularity, so fixed
// offsets are the deliberate trade-off over full tzdata resolution.
var timeZoneOffsets = map[string]float64{
	"UTC":       0,
	"Etc/GMT":   0,
	"Etc/GMT+0": 0,

	"Asia/Shanghai":  8,
	"Asia/Taipei":    8,
	"Asia/Tokyo":     9,
	"Asia/Seoul":     9,
	"Asia/Kolkata":   5.5,
	"Asia/Jakarta":   7,
	"Asia/Singapore": 8,
	"Asia/Hong_Kong": 8,
	"Asia/Bangkok":   7,
	"Asia/Dubai":     4,
	"Asia/Tehran":    3.5,
	"Asia/Riyadh":    3,

	"Europe/London":    0,
	"Europe/Paris":     1,
	"Europe/Berlin":    1,
	"Europe/Moscow":    3,
	"Europe/Amsterdam": 1,

	"America/New_York":               -5,
	"America/Chicago":                -6,
	"America/Denver":                 -7,
	"America/Los_Angeles":            -8,
	"America/Sao_Paulo":              -3,
	"America/Argentina/Buenos_Aires": -3,

	"Africa/Johannesburg": 2,
	"Africa/Cairo":        2,
	"Africa/Nairobi":      3,

	"Australia/Sydney": 10,
	"Australia/Perth":  8,
	"Pacific/Auckland": 13,
	"Pacific/Fiji":     12,

	"Antarctica/Palmer":  -3,
	"Antarctica/McMurdo": 13,
}

// continentDefaults picks a representative zone when the authored zone
// is not in the offset table ("Continent/City" falls back by continent).
var continentDefaults = map[string]string{
	"Asia":       "Asia/Shanghai",
	"Europe":     "Europe/London",
	"America":    "America/New_York",
	"Africa":     "Africa/Cairo",
	"Australia":  "Australia/Sydney",
	"Pacific":    "Pacific/Auckland",
	"Antarctica": "Antarctica/Palmer",
	"UTC":        "UTC",
}

// ApplySchedule demotes every page whose authored publish window does
// not contain now to Invisible. Pages with no window keep their status;
// nothing is ever promoted.
func ApplySchedule(pages []*Page, now time.Time) {
	for _, p := range pages {
		if p.Date.Empty() {
			continue
		}
		if !inRange(p.Date, now) {
			slog.Info("page outside publish window", "title", p.Title,
				"start", p.Date.StartDate, "end", p.Date.EndDate)
			p.Status = StatusInvisible
		}
	}
}

// inRange reports whether now falls inside the authored window. Missing
// times default to the start and end of day; a missing boundary is open.
func inRange(d *PageDate, now time.Time) bool {
	if start, ok := windowTime(d.StartDate, orClock(d.StartTime, "00:00"), d.TimeZone); ok && now.Before(start) {
		return false
	}
	if end, ok := windowTime(d.EndDate, orClock(d.EndTime, "23:59"), d.TimeZone); ok && now.After(end) {
		return false
	}
	return true
}

// windowTime converts an authored local date+clock in the given zone to
// an absolute time via the fixed-offset table.
func windowTime(date, clock, zone string) (time.Time, bool) {
	if date == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02 15:04", date+" "+clock)
	if err != nil {
		slog.Warn("unparseable schedule date", "date", date, "time", clock)
		return time.Time{}, false
	}
	offset := time.Duration(offsetHours(zone) * float64(time.Hour))
	return t.Add(-offset), true
}

func orClock(clock, def string) string {
	if clock == "" {
		return def
	}
	return clock
}

// offsetHours resolves a zone name against the offset table, then the
// continent fallback, then UTC.
func offsetHours(zone string) float64 {
	if zone == "" {
		return 0
	}
	if off, ok := timeZoneOffsets[zone]; ok {
		return off
	}
	continent, _, _ := strings.Cut(zone, "/")
	fallback, ok := continentDefaults[continent]
	if !ok {
		fallback = "UTC"
	}
	slog.Warn("unsupported time zone", "zone", zone, "fallback", fallback)
	return timeZoneOffsets[fallback]
}
