package dbtime

import (
	"fmt"
	"strings"
	"time"
)

// Format tanggal dengan jam tapi tanpa zona: dianggap wall-clock lokal mosque.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// DayKey menormalisasi input tanggal jadi hari kalender di timezone mosque.
// Hasilnya selalu tengah malam UTC dari (Y, M, D) itu, siap ditulis ke kolom DATE.
//
//   - "2024-03-10"                 → 10 Maret
//   - "2024-03-10T23:30:00"        → 10 Maret (jam lokal, tanpa konversi)
//   - "2024-03-10T23:30:00Z"       → dikonversi ke loc dulu (bisa jadi 11 Maret)
func DayKey(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	if loc == nil {
		loc = time.UTC
	}

	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return Midnight(t), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return Midnight(t.In(loc)), nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return Midnight(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD or RFC3339", raw)
}

// DayKeyOf: hari kalender t di loc.
func DayKeyOf(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return Midnight(t.In(loc))
}

// Midnight membuang jam dan zona: (Y, M, D) 00:00 UTC.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func FormatDay(t time.Time) string {
	return t.Format("2006-01-02")
}

func LoadLocation(name, fallback string) *time.Location {
	for _, n := range []string{name, fallback} {
		if strings.TrimSpace(n) == "" {
			continue
		}
		if loc, err := time.LoadLocation(n); err == nil {
			return loc
		}
	}
	return time.UTC
}

// DayRange: query ?from=&to= (opsional) → day key inklusif. from > to → error.
func DayRange(from, to string, loc *time.Location) (*time.Time, *time.Time, error) {
	var f, t *time.Time
	if strings.TrimSpace(from) != "" {
		d, err := DayKey(from, loc)
		if err != nil {
			return nil, nil, err
		}
		f = &d
	}
	if strings.TrimSpace(to) != "" {
		d, err := DayKey(to, loc)
		if err != nil {
			return nil, nil, err
		}
		t = &d
	}
	if f != nil && t != nil && f.After(*t) {
		return nil, nil, fmt.Errorf("from must not be after to")
	}
	return f, t, nil
}
