// Package prompts holds the tailoring prompt templates and renders them for a
// resume, a job description and a professional focus. The templates live in
// tailoring.json, embedded at compile time.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

//go:embed tailoring.json
var templateFS embed.FS

var placeholderPattern = regexp.MustCompile(`\{\{\.([A-Za-z]+)\}\}`)

var (
	loadOnce  sync.Once
	templates map[string]string
	loadErr   error
)

func loadTemplates() (map[string]string, error) {
	loadOnce.Do(func() {
		data, err := templateFS.ReadFile(tailoringFile)
		if err != nil {
			loadErr = fmt.Errorf("failed to read %s: %w", tailoringFile, err)
			return
		}
		if err := json.Unmarshal(data, &templates); err != nil {
			loadErr = fmt.Errorf("failed to parse %s: %w", tailoringFile, err)
		}
	})
	return templates, loadErr
}

// Template returns the raw template stored under key.
func Template(key string) (string, error) {
	all, err := loadTemplates()
	if err != nil {
		return "", err
	}
	tmpl, ok := all[key]
	if !ok {
		return "", fmt.Errorf("prompt template %q not found in %s", key, tailoringFile)
	}
	return tmpl, nil
}

// mustTemplate panics when a template the builder depends on is missing;
// tailoring.json is compiled in, so that is a build defect.
func mustTemplate(key string) string {
	tmpl, err := Template(key)
	if err != nil {
		panic(err)
	}
	return tmpl
}

// Keys returns the template keys in sorted order.
func Keys() ([]string, error) {
	all, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(all))
	for key := range all {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// Placeholders lists the distinct {{.Name}} placeholders of a template in
// order of first use.
func Placeholders(template string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// Format replaces {{.Key}} placeholders with values from data in a single
// pass, so placeholder text inside a value is left as is. Unknown placeholders
// are kept.
func Format(template string, data map[string]string) string {
	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	oldnew := make([]string, 0, len(keys)*2)
	for _, key := range keys {
		oldnew = append(oldnew, "{{."+key+"}}", data[key])
	}
	return strings.NewReplacer(oldnew...).Replace(template)
}
