// Package formatter renders aggregated feed data for terminal output.
package formatter

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/ishaan-vashist/cosmic-event/internal/domain"
)

var feedHeader = []string{
	"DATE", "ID", "NAME", "HAZARDOUS", "AVG DIAM KM", "NEAREST APPROACH", "MISS KM", "VELOCITY KPS",
}

// FeedTable renders date groups as an aligned text table, one row per object
// in group order. Missing values render as "-". Padding uses display width,
// not rune count, so wide characters keep the columns aligned.
func FeedTable(groups []domain.DateGroup) string {
	rows := [][]string{feedHeader}
	for _, g := range groups {
		for _, obj := range g.Objects {
			rows = append(rows, feedRow(g.Date, obj))
		}
	}

	colWidths := make([]int, len(feedHeader))
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > colWidths[i] {
				colWidths[i] = w
			}
		}
	}

	var sb strings.Builder
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(cell)

			// The last column stays ragged so lines carry no trailing spaces.
			if i == len(row)-1 {
				continue
			}
			if padding := colWidths[i] - runewidth.StringWidth(cell); padding > 0 {
				sb.WriteString(strings.Repeat(" ", padding))
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func feedRow(date string, obj domain.NEO) []string {
	approach, miss, velocity := "-", "-", "-"
	if obj.NearestApproach != nil {
		approach = stringOrDash(obj.NearestApproach.Datetime)
		miss = floatOrDash(obj.NearestApproach.MissKm, 1)
		velocity = floatOrDash(obj.NearestApproach.VelocityKps, 2)
	}

	return []string{
		date,
		obj.ID,
		obj.Name,
		yesNo(obj.Hazardous),
		floatOrDash(obj.AvgDiameterKm, 3),
		approach,
		miss,
		velocity,
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func stringOrDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func floatOrDash(f *float64, prec int) string {
	if f == nil {
		return "-"
	}
	return strconv.FormatFloat(*f, 'f', prec, 64)
}
