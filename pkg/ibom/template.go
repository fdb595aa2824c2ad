package ibom

import (
	"io"

	"github.com/valyala/fasttemplate"
)

// Placeholders in the viewer template look like ///NAME///.
const tokenTag = "///"

// renderTemplate substitutes the given token values into the template text.
// Substitution is literal: values are inserted verbatim with no escaping.
// Tokens present in the template but absent from the map are written back
// unchanged, so a missing placeholder is a no-op rather than an error.
func renderTemplate(template string, tokens map[string]string) string {
	return fasttemplate.ExecuteFuncString(template, tokenTag, tokenTag,
		func(w io.Writer, tag string) (int, error) {
			if value, ok := tokens[tag]; ok {
				return io.WriteString(w, value)
			}
			return io.WriteString(w, tokenTag+tag+tokenTag)
		})
}
