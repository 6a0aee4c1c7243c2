package vanilla

import "strings"

func componentControlID(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ""
	}
	return "cf-" + trimmed
}

func appendUnique(list []string, values ...string) []string {
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		seen := false
		for _, existing := range list {
			if existing == value {
				seen = true
				break
			}
		}
		if !seen {
			list = append(list, value)
		}
	}
	return list
}
