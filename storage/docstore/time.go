package docstore

import "time"

// Stored timestamps are RFC 3339 strings; anything unreadable decodes to the
// zero time rather than failing the whole document.
const timeLayout = time.RFC3339

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
