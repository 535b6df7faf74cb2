package schema

// Time frequencies of a Container.
const (
	FrequencyDay   = "day"
	FrequencyMonth = "month"
	FrequencyYear  = "year"
)

type bucket struct {
	name     string
	min, max float64
}

var buckets = []bucket{
	{FrequencyDay, 1, 2},
	{FrequencyMonth, 28, 31},
	{FrequencyYear, 359, 366},
}

// TimeFrequency maps a time resolution in days to "day", "month" or
// "year". Bounds are inclusive. Resolutions outside of all buckets
// return UnrecognizedTemporalResolutionError.
func TimeFrequency(days float64) (string, error) {
	for _, b := range buckets {
		if days >= b.min && days <= b.max {
			return b.name, nil
		}
	}
	return "", UnrecognizedTemporalResolutionError(days)
}

// IsFrequency checks if s is one of the known time frequencies.
func IsFrequency(s string) bool {
	for _, b := range buckets {
		if b.name == s {
			return true
		}
	}
	return false
}
