package health

import "strconv"

// View holds every value the results panel displays.
type View struct {
	Rating      string  `json:"rating"`
	RatingValue float64 `json:"ratingValue"`
	Level       string  `json:"level"`
	Color       string  `json:"color"`
	Description string  `json:"description"`
	Ingredients string  `json:"ingredients"`
	Gauge       Gauge   `json:"gauge"`
}

// Render derives the results view from a classifier result and the input
// that produced it. It is pure: equal arguments give equal views.
func Render(result Result, originalInput string, policy GaugePolicy) View {
	return View{
		Rating:      FormatRating(result.Rating),
		RatingValue: result.Rating,
		Level:       result.Level,
		Color:       result.Color,
		Description: Describe(result.Level),
		Ingredients: originalInput,
		Gauge:       NewGauge(result.Rating, result.Color, policy),
	}
}

// FormatRating prints a rating in its shortest decimal form ("9", "7.25").
func FormatRating(rating float64) string {
	return strconv.FormatFloat(rating, 'f', -1, 64)
}
