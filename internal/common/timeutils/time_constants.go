package timeutils

// HTTP Date header layouts
const (
	// LayoutHTTPHeaderDate is the Date header layout, e.g. "Fri, 19 Oct 2024 12:00:00 GMT"
	LayoutHTTPHeaderDate = "Mon, 02 Jan 2006 15:04:05 MST"
	// LayoutHTTPHeaderDateShortDay accepts single-digit days
	LayoutHTTPHeaderDateShortDay = "Mon, 2 Jan 2006 15:04:05 MST"
)
