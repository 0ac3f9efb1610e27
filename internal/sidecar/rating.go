package sidecar

// Safety ratings understood by szurubooru.
const (
	SafetySafe    = "safe"
	SafetySketchy = "sketchy"
	SafetyUnsafe  = "unsafe"
)

var ratingMap = map[string]string{
	"safe":                SafetySafe,
	"s":                   SafetySafe,
	"g":                   SafetySafe,
	"general":             SafetySafe,
	"rating:safe":         SafetySafe,
	"questionable":        SafetySketchy,
	"q":                   SafetySketchy,
	"sensitive":           SafetySketchy,
	"rating:questionable": SafetySketchy,
	"explicit":            SafetyUnsafe,
	"e":                   SafetyUnsafe,
	"rating:explicit":     SafetyUnsafe,
}

// ConvertRating maps an upstream rating value onto the safety vocabulary.
// Unknown values fall back to unsafe.
func ConvertRating(rating string) string {
	if safety, ok := ratingMap[rating]; ok {
		return safety
	}
	return SafetyUnsafe
}

// ValidSafety reports whether value is one of the known safety ratings.
func ValidSafety(value string) bool {
	switch value {
	case SafetySafe, SafetySketchy, SafetyUnsafe:
		return true
	}
	return false
}
