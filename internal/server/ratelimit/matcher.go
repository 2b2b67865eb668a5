package ratelimit

import "strings"

// MatchEndpoint returns the configuration whose pattern matches path and
// method, or nil. Literal segments must match exactly; a {name} segment
// matches any single non-empty segment.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	segments := splitPath(path)
	for i := range configs {
		config := &configs[i]
		if config.Method == method && matchSegments(splitPath(config.Path), segments) {
			return config
		}
	}
	return nil
}

func splitPath(path string) []string {
	return strings.Split(strings.Trim(path, "/"), "/")
}

func matchSegments(pattern, segments []string) bool {
	if len(pattern) != len(segments) {
		return false
	}
	for i, p := range pattern {
		if strings.HasPrefix(p, "{") && strings.HasSuffix(p, "}") {
			if segments[i] == "" {
				return false
			}
			continue
		}
		if p != segments[i] {
			return false
		}
	}
	return true
}
