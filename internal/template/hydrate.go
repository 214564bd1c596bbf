package template

import (
	"regexp"
	"strings"
)

var markerPattern = regexp.MustCompile(`<mark>\[(.*?)\]</mark>`)

// Hydrate converts every <mark>[key]</mark> marker in a template into field
// markup. When the registry holds a non-empty value for the key the field is
// emitted pre-filled with mapped provenance; otherwise it keeps its
// placeholder. Fields whose base name starts with "days_" are governed by a
// not-yet-selected payment radio and hydrate disabled.
func Hydrate(tpl string, registry map[string]string) string {
	if tpl == "" {
		return ""
	}

	return markerPattern.ReplaceAllStringFunc(tpl, func(m string) string {
		key := markerPattern.FindStringSubmatch(m)[1]

		content := "[" + key + "]"
		source := ""
		if v := registry[key]; v != "" {
			content = v
			source = ` data-source="mapped"`
		}

		disabled := ""
		if strings.HasPrefix(key, "days_") {
			disabled = ` data-disabled="true"`
		}

		return `<span data-field-id="` + key + `"` + source + disabled + `>` + escapeText(content) + `</span>`
	})
}

func escapeText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
