package session

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the short date form substituted for {{date}}.
const DateLayout = "1/2/2006"

// RenderFooter substitutes {{pageNumber}}, {{totalPages}} and {{date}} in tmpl.
// Other placeholders are left as they are.
func RenderFooter(tmpl string, pageNumber, totalPages int, date time.Time) string {
	if !strings.Contains(tmpl, "{{") {
		return tmpl
	}
	r := strings.NewReplacer(
		"{{pageNumber}}", strconv.Itoa(pageNumber),
		"{{totalPages}}", strconv.Itoa(totalPages),
		"{{date}}", date.Format(DateLayout),
	)
	return r.Replace(tmpl)
}
