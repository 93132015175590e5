// Package catalog holds the fixed reference data of the dashboard: indicator
// codes and display names, the goal grouping, the two peer regions and the
// per-goal colour themes.
package catalog

import "strings"

// Region names.
const (
	RegionAll       = "All"
	RegionSouthAsia = "South Asia"
	RegionSEAsia    = "South East Asia"
	RegionOther     = "Other"
)

// Focus is the country every comparison is centred on.
const Focus = "India"

// Indicator is one entry of the indicator catalog.
type Indicator struct {
	Code string
	Name string
	Goal string
}

var indicators = []Indicator{
	{Code: "2.1.1", Name: "2.1.1 Prevalence of undernourishment (%)", Goal: "SDG 2"},
	{Code: "2.2.1", Name: "2.2.1 Prevalence of stunting (height for age <-2 SD) (%)", Goal: "SDG 2"},
	{Code: "3.1.1", Name: "3.1.1 Maternal Mortality Ratio (per 100k births)", Goal: "SDG 3"},
	{Code: "3.2.1", Name: "3.2.1 Under-5 Mortality Rate (per 1,000 live births)", Goal: "SDG 3"},
	{Code: "6.1.1", Name: "6.1.1 Proportion of population using safely managed drinking water services (%)", Goal: "SDG 6"},
	{Code: "6.2.1", Name: "6.2.1 Proportion of population using safely managed sanitation services (%)", Goal: "SDG 6"},
}

var goals = []string{"SDG 2", "SDG 3", "SDG 6"}

// legacy display names (as written by older exports and the mock generator)
// mapped to the code-prefixed names used everywhere else.
var presentation = map[string]string{
	"Prevalence of Undernourishment (%)":             "2.1.1 Prevalence of undernourishment (%)",
	"Stunting in Children < 5 Years (%)":             "2.2.1 Prevalence of stunting (height for age <-2 SD) (%)",
	"Maternal Mortality Ratio (per 100k births)":     "3.1.1 Maternal Mortality Ratio (per 100k births)",
	"Under-5 Mortality Rate (per 1,000 live births)": "3.2.1 Under-5 Mortality Rate (per 1,000 live births)",
	"Safely Managed Drinking Water (%)":              "6.1.1 Proportion of population using safely managed drinking water services (%)",
	"Safely Managed Sanitation (%)":                  "6.2.1 Proportion of population using safely managed sanitation services (%)",
}

var southAsia = []string{"India", "Pakistan", "Bangladesh", "Nepal", "Sri Lanka", "Bhutan"}

var seAsia = []string{"Indonesia", "Viet Nam", "Thailand", "Myanmar", "Malaysia", "Philippines", "Singapore"}

// RegionList is an ordered region with its member countries.
type RegionList struct {
	Name      string
	Countries []string
}

// Indicators returns the catalog in goal order.
func Indicators() []Indicator {
	out := make([]Indicator, len(indicators))
	copy(out, indicators)
	return out
}

// CodeToName returns a fresh code -> display name map.
func CodeToName() map[string]string {
	m := make(map[string]string, len(indicators))
	for _, ind := range indicators {
		m[ind.Code] = ind.Name
	}
	return m
}

// DisplayName maps a raw indicator code to its display name.
func DisplayName(code string) (string, bool) {
	code = strings.TrimSpace(code)
	for _, ind := range indicators {
		if ind.Code == code {
			return ind.Name, true
		}
	}
	return "", false
}

// Goals lists the selectable goals in display order.
func Goals() []string {
	out := make([]string, len(goals))
	copy(out, goals)
	return out
}

// IsGoal reports whether g is a known goal.
func IsGoal(g string) bool {
	for _, x := range goals {
		if x == g {
			return true
		}
	}
	return false
}

// GoalIndicators returns the display names belonging to a goal.
func GoalIndicators(goal string) []string {
	var out []string
	for _, ind := range indicators {
		if ind.Goal == goal {
			out = append(out, ind.Name)
		}
	}
	return out
}

// AllIndicators flattens the goal map in goal order (SDG 2, SDG 3, SDG 6).
func AllIndicators() []string {
	var out []string
	for _, g := range goals {
		out = append(out, GoalIndicators(g)...)
	}
	return out
}

// Presentation returns the code-prefixed name for a legacy display name.
// Names that are already prefixed are returned unchanged.
func Presentation(name string) string {
	if p, ok := presentation[name]; ok {
		return p
	}
	return name
}

// PresentationMap returns a copy of the rename map.
func PresentationMap() map[string]string {
	m := make(map[string]string, len(presentation))
	for k, v := range presentation {
		m[k] = v
	}
	return m
}

// Regions returns the two peer regions in display order.
func Regions() []RegionList {
	return []RegionList{
		{Name: RegionSouthAsia, Countries: append([]string(nil), southAsia...)},
		{Name: RegionSEAsia, Countries: append([]string(nil), seAsia...)},
	}
}

// Countries returns the member countries of a region. RegionAll yields both
// lists, deduplicated, in order. Unknown regions yield nil.
func Countries(region string) []string {
	switch region {
	case RegionSouthAsia:
		return append([]string(nil), southAsia...)
	case RegionSEAsia:
		return append([]string(nil), seAsia...)
	case RegionAll:
		seen := map[string]struct{}{}
		var out []string
		for _, c := range append(append([]string(nil), southAsia...), seAsia...) {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
		return out
	default:
		return nil
	}
}

// IsRegionFilter reports whether r is a valid sidebar region value.
func IsRegionFilter(r string) bool {
	return r == RegionAll || r == RegionSouthAsia || r == RegionSEAsia
}

// InScope reports whether region is covered by the filter value.
func InScope(filter, region string) bool {
	return filter == RegionAll || filter == region
}
