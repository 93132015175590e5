package catalog

// Theme is the colour set of a goal.
type Theme struct {
	Background string // page background
	Main       string // primary dark colour for charts and text
	Light      string // lighter accent
}

var themes = map[string]Theme{
	"SDG 2": {Background: "#FFF9C4", Main: "#F57F17", Light: "#FFF176"},
	"SDG 3": {Background: "#C8E6C9", Main: "#2E7D32", Light: "#81C784"},
	"SDG 6": {Background: "#B3E5FC", Main: "#0277BD", Light: "#4FC3F7"},
}

// GoalTitles are the short names shown under the goal icons.
var GoalTitles = map[string]string{
	"SDG 2": "Goal 2: Zero Hunger",
	"SDG 3": "Goal 3: Good Health",
	"SDG 6": "Goal 6: Clean Water",
}

// ThemeFor returns the theme of a goal, or a neutral grey theme.
func ThemeFor(goal string) Theme {
	if t, ok := themes[goal]; ok {
		return t
	}
	return Theme{Background: "#FFFFFF", Main: "#333333", Light: "#CCCCCC"}
}
