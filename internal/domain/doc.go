// Package domain models NASA Near-Earth Object (NEO) close-approach data.
//
// # Data Source
//
// Feed and lookup payloads originate from the NASA NeoWs REST API at
// https://api.nasa.gov/neo/rest/v1. The feed endpoint returns objects grouped
// by approach date over a window of at most seven days; the lookup endpoint
// returns a single object with its full approach history and orbital data.
//
// # NeoWs Data Conventions
//
// Date keys:
//
//	ISO-8601 calendar dates, e.g. "2025-08-19". The feed response groups
//	objects under a map keyed by approach date; lexicographic order of the
//	keys equals chronological order.
//
// Approach timestamps (three parallel encodings per approach, any of which
// may be absent in older records):
//
//	close_approach_date       "2025-08-19" (date only)
//	close_approach_date_full  "2025-Aug-19 14:58" (human-readable)
//	epoch_date_close_approach 1755615480000 (Unix milliseconds)
//
//	The epoch is the only reliably sortable encoding and drives all
//	approach-time ordering here.
//
// Numeric encoding:
//
//	Diameters arrive as JSON numbers; velocities and miss distances arrive
//	as decimal strings (e.g. "7.4234416826"). String numerics that fail to
//	parse become null in normalized output, never NaN and never a sentinel
//	value such as -1.
//
// Diameter:
//
//	estimated_diameter.kilometers carries estimated_diameter_min and
//	estimated_diameter_max. The normalized size of an object is the
//	arithmetic mean of the two bounds, or null when either bound is absent.
//
// # Normalized Shape
//
// Every optional field in normalized output is a pointer: nil means the
// upstream value was absent or unparseable. Consumers can therefore tell
// "not reported" apart from a legitimate zero. See [NEO] and [Approach].
package domain
