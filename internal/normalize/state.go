package normalize

import "strings"

// stateBox is a coarse bounding box used for offline coordinate-to-state
// lookup. Boxes are intentionally approximate and in a few cases overlap
// at shared borders; this is aggregate attribution, not survey-grade
// geocoding.
type stateBox struct {
	state                  string
	minLat, maxLat         float64
	minLon, maxLon         float64
}

// coordStateTable is ordered west-to-east, north-to-south roughly; the
// first matching box wins when boxes overlap, giving deterministic
// tie-breaking consistent with the grid table below.
var coordStateTable = []stateBox{
	{"AK", 51.0, 71.5, -179.9, -129.9},
	{"HI", 18.5, 22.5, -160.5, -154.5},
	{"WA", 45.5, 49.1, -124.9, -116.9},
	{"OR", 41.9, 46.3, -124.6, -116.4},
	{"CA", 32.4, 42.1, -124.5, -114.0},
	{"NV", 35.0, 42.1, -120.1, -113.9},
	{"ID", 41.9, 49.1, -117.3, -110.9},
	{"UT", 36.9, 42.1, -114.1, -108.9},
	{"AZ", 31.3, 37.1, -114.9, -108.9},
	{"MT", 44.3, 49.1, -116.1, -103.9},
	{"WY", 40.9, 45.1, -111.1, -103.9},
	{"CO", 36.9, 41.1, -109.1, -101.9},
	{"NM", 31.2, 37.1, -109.1, -102.9},
	{"TX", 25.7, 36.6, -106.7, -93.4},
	{"ND", 45.9, 49.1, -104.1, -96.4},
	{"SD", 42.4, 46.1, -104.1, -96.3},
	{"NE", 39.9, 43.1, -104.1, -95.3},
	{"KS", 36.9, 40.1, -102.1, -94.5},
	{"OK", 33.6, 37.1, -103.1, -94.3},
	{"MN", 43.4, 49.4, -97.3, -89.4},
	{"IA", 40.3, 43.6, -96.7, -90.0},
	{"MO", 35.9, 40.7, -95.9, -89.0},
	{"AR", 32.9, 36.6, -94.7, -89.6},
	{"LA", 28.8, 33.1, -94.1, -88.8},
	{"WI", 42.4, 47.2, -92.9, -86.2},
	{"IL", 36.9, 42.6, -91.6, -87.4},
	{"MS", 30.1, 35.1, -91.7, -88.0},
	{"AL", 30.1, 35.1, -88.6, -84.8},
	{"MI", 41.6, 48.4, -90.5, -82.3},
	{"IN", 37.7, 41.9, -88.2, -84.7},
	{"OH", 38.3, 42.1, -84.9, -80.5},
	{"KY", 36.4, 39.2, -89.6, -81.9},
	{"TN", 34.9, 36.8, -90.4, -81.6},
	{"GA", 30.3, 35.1, -85.7, -80.7},
	{"FL", 24.3, 31.1, -87.7, -79.9},
	{"SC", 32.0, 35.3, -83.5, -78.4},
	{"NC", 33.7, 36.7, -84.4, -75.3},
	{"VA", 36.5, 39.5, -83.8, -75.1},
	{"WV", 37.1, 40.7, -82.7, -77.6},
	{"MD", 37.8, 39.8, -79.6, -74.9},
	{"DE", 38.4, 39.9, -75.8, -74.9},
	{"PA", 39.6, 42.3, -80.6, -74.6},
	{"NJ", 38.8, 41.4, -75.7, -73.8},
	{"NY", 40.4, 45.1, -79.9, -71.7},
	{"CT", 40.9, 42.1, -73.8, -71.7},
	{"RI", 41.1, 42.1, -71.9, -71.0},
	{"MA", 41.1, 43.0, -73.6, -69.8},
	{"VT", 42.6, 45.1, -73.5, -71.4},
	{"NH", 42.6, 45.4, -72.6, -70.6},
	{"ME", 42.9, 47.5, -71.2, -66.8},
}

// ResolveStateFromCoords returns the two-letter US state code whose
// bounding box contains (lat, lon), or nil if none does. Table lookup is
// deterministic: first matching row wins.
func ResolveStateFromCoords(lat, lon float64) *string {
	for _, box := range coordStateTable {
		if lat >= box.minLat && lat <= box.maxLat && lon >= box.minLon && lon <= box.maxLon {
			s := box.state
			return &s
		}
	}
	return nil
}

// gridState pairs a 4-character Maidenhead grid square with a state. The
// table intentionally carries duplicate grids (a grid square can span a
// state border); the first entry for a given grid in table order wins.
type gridState struct {
	grid  string
	state string
}

var gridStateTable = []gridState{
	{"CN83", "WA"},
	{"CN83", "OR"}, // CN83 spans the WA/OR border; WA wins per declared order
	{"CN85", "WA"},
	{"CN87", "WA"},
	{"CN74", "OR"},
	{"CN76", "OR"},
	{"CN80", "OR"},
	{"CN90", "MT"},
	{"DN07", "MT"},
	{"DN40", "CO"},
	{"DM79", "CO"},
	{"DM78", "NM"},
	{"DM65", "AZ"},
	{"DM04", "CA"},
	{"CM87", "CA"},
	{"CM97", "CA"},
	{"CM98", "NV"},
	{"DM09", "NV"},
	{"DM33", "TX"},
	{"EM10", "TX"},
	{"EM12", "OK"},
	{"EM28", "AR"},
	{"EM38", "MO"},
	{"EM48", "IL"},
	{"EM58", "IN"},
	{"EM69", "OH"},
	{"EM79", "WV"},
	{"EM84", "GA"},
	{"EM90", "VA"},
	{"FM06", "NC"},
	{"FM18", "VA"},
	{"FM19", "MD"},
	{"FM29", "NJ"},
	{"FN20", "NY"},
	{"FN31", "CT"},
	{"FN42", "MA"},
	{"FN43", "NH"},
	{"FN54", "ME"},
	{"EL89", "FL"},
	{"EM70", "TN"},
	{"EN52", "MI"},
	{"EN61", "WI"},
	{"EN34", "MN"},
	{"EN10", "SD"},
	{"DN70", "ND"},
	{"EN80", "IA"},
	{"EN61", "WI"},
	{"BP51", "AK"},
	{"BL11", "HI"},
}

// ResolveStateFromGrid returns the state mapped to a 4-character Maidenhead
// grid square, or nil if the grid is unknown or not exactly 4 characters.
func ResolveStateFromGrid(grid string) *string {
	g := strings.ToUpper(strings.TrimSpace(grid))
	if len(g) != 4 {
		return nil
	}
	for _, row := range gridStateTable {
		if row.grid == g {
			s := row.state
			return &s
		}
	}
	return nil
}

// ResolveState tries the coordinate lookup first, falls back to the grid
// table, and returns nil when neither matches.
func ResolveState(lat, lon float64, grid string) *string {
	if s := ResolveStateFromCoords(lat, lon); s != nil {
		return s
	}
	return ResolveStateFromGrid(grid)
}
