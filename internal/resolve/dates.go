package resolve

import (
	"time"

	"stashsync/internal/normalize"
)

// acceptableDates returns the date set a candidate must fall in for the
// date-window filter: {date, date - 1 day}. The one-day-backward
// tolerance absorbs the target catalog storing dates shifted a day
// earlier across timezones; it is intentionally not symmetric. The
// record's date comes from its release date field, else a leading date
// in its filename, else a leading date in its title. Empty when no date
// can be derived.
func acceptableDates(rec SourceRecord) []time.Time {
	day, ok := normalize.ParseDate(rec.ReleaseDate)
	if !ok {
		day, ok = normalize.LeadingDate(normalize.BasenameWithoutExt(rec.FilePath))
	}
	if !ok {
		day, ok = normalize.LeadingDate(rec.Title)
	}
	if !ok {
		return nil
	}
	return []time.Time{day, day.AddDate(0, 0, -1)}
}

// candidateDate derives a candidate's comparable date from its premiere
// date, else a leading date in its path basename, else a leading date
// in its name.
func candidateDate(c TargetCandidate) (time.Time, bool) {
	if day, ok := normalize.ParseDate(c.PremiereDate); ok {
		return day, true
	}
	if c.Path != "" {
		if day, ok := normalize.LeadingDate(normalize.BasenameWithoutExt(c.Path)); ok {
			return day, true
		}
	}
	if c.Name != "" {
		if day, ok := normalize.LeadingDate(c.Name); ok {
			return day, true
		}
	}
	return time.Time{}, false
}

func dateIn(day time.Time, set []time.Time) bool {
	for _, d := range set {
		if day.Equal(d) {
			return true
		}
	}
	return false
}
