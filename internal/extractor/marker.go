package extractor

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	durationPattern  = regexp.MustCompile(`duration (\d+)`)
	resourcesPattern = regexp.MustCompile(`Resources: \[([^\]]*)\]`)
)

// parseDuration extracts the integer following "duration " in a marker
// description.
func parseDuration(desc string) (int, bool) {
	m := durationPattern.FindStringSubmatch(desc)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseResources extracts the demand list of "Resources: [a, b, ...]". An
// empty list or any non-integer entry yields false.
func parseResources(desc string) ([]int, bool) {
	m := resourcesPattern.FindStringSubmatch(desc)
	if m == nil || strings.TrimSpace(m[1]) == "" {
		return nil, false
	}
	parts := strings.Split(m[1], ",")
	demands := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return nil, false
		}
		demands = append(demands, n)
	}
	return demands, true
}
