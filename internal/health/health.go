package health

// Result is the classifier verdict for one ingredient list.
type Result struct {
	Rating float64 `json:"rating"`
	Level  string  `json:"level"`
	Color  string  `json:"color"`
}

// Health level labels produced by the classifier.
const (
	LevelExcellent = "Excellent"
	LevelGood      = "Good"
	LevelModerate  = "Moderate"
	LevelPoor      = "Poor"
	LevelVeryPoor  = "Very Poor"
)

var levelOrder = []string{
	LevelExcellent,
	LevelGood,
	LevelModerate,
	LevelPoor,
	LevelVeryPoor,
}

var descriptions = map[string]string{
	LevelExcellent: "These ingredients are highly nutritious and beneficial for your health. Great choice!",
	LevelGood:      "These ingredients are generally healthy with some nutritional value.",
	LevelModerate:  "These ingredients are acceptable but could be improved with healthier alternatives.",
	LevelPoor:      "These ingredients may have limited nutritional value or contain unhealthy components.",
	LevelVeryPoor:  "These ingredients are likely unhealthy and should be consumed sparingly or avoided.",
}

// Describe returns the explanation shown under a health level. Unknown
// labels yield the empty string.
func Describe(level string) string {
	return descriptions[level]
}

// Levels lists the recognised labels from healthiest to least healthy.
func Levels() []string {
	return append([]string(nil), levelOrder...)
}
