package normalize

// bandRange is one row of the frequency to band classification table.
// Boundaries are inclusive on both ends; ranges never overlap, so the
// first match wins.
type bandRange struct {
	minMHz float64
	maxMHz float64
	band   string
}

var bandTable = []bandRange{
	{1.8, 2.0, "160m"},
	{3.5, 4.0, "80m"},
	{5.3, 5.4, "60m"},
	{7.0, 7.3, "40m"},
	{10.1, 10.15, "30m"},
	{14.0, 14.35, "20m"},
	{18.068, 18.168, "17m"},
	{21.0, 21.45, "15m"},
	{24.89, 24.99, "12m"},
	{28.0, 29.7, "10m"},
	{50.0, 54.0, "6m"},
	{144.0, 148.0, "2m"},
	{420.0, 450.0, "70cm"},
}

const otherBand = "other"

// ClassifyBand maps a frequency in kHz to a band tag. NaN, negative, and
// any frequency outside every table range classifies as "other".
func ClassifyBand(frequencyKHz float64) string {
	if frequencyKHz != frequencyKHz { // NaN check without importing math
		return otherBand
	}
	if frequencyKHz < 0 {
		return otherBand
	}

	mhz := frequencyKHz / 1000.0
	for _, r := range bandTable {
		if mhz >= r.minMHz && mhz <= r.maxMHz {
			return r.band
		}
	}
	return otherBand
}
