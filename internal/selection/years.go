// Package selection holds the company and year pickers used to build an analysis.
package selection

// DefaultMaxYears bounds a YearSelection when no limit is given.
const DefaultMaxYears = 5

// YearSelection is an ordered set of fiscal years in selection order.
// Once Max years are selected, selecting another evicts the oldest selection.
type YearSelection struct {
	Max   int
	Years []int
}

// NewYearSelection returns an empty selection bounded by max.
func NewYearSelection(max int) YearSelection {
	if max <= 0 {
		max = DefaultMaxYears
	}
	return YearSelection{Max: max}
}

func (s YearSelection) limit() int {
	if s.Max <= 0 {
		return DefaultMaxYears
	}
	return s.Max
}

// Contains reports whether year is selected.
func (s YearSelection) Contains(year int) bool {
	return s.index(year) >= 0
}

func (s YearSelection) index(year int) int {
	for i, y := range s.Years {
		if y == year {
			return i
		}
	}
	return -1
}

// Select adds year. Already selected years leave the selection unchanged.
func (s YearSelection) Select(year int) YearSelection {
	if s.Contains(year) {
		return s
	}

	years := make([]int, 0, s.limit())
	years = append(years, s.Years...)
	years = append(years, year)
	if over := len(years) - s.limit(); over > 0 {
		years = years[over:]
	}
	return YearSelection{Max: s.Max, Years: years}
}

// Toggle deselects year if it is selected and selects it otherwise.
func (s YearSelection) Toggle(year int) YearSelection {
	i := s.index(year)
	if i < 0 {
		return s.Select(year)
	}

	years := make([]int, 0, len(s.Years)-1)
	years = append(years, s.Years[:i]...)
	years = append(years, s.Years[i+1:]...)
	return YearSelection{Max: s.Max, Years: years}
}

// SelectAll selects each year in order.
func (s YearSelection) SelectAll(years []int) YearSelection {
	for _, year := range years {
		s = s.Select(year)
	}
	return s
}
