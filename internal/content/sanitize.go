package content

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Ampersand is replaced first so the entities produced for < and > are not
// encoded a second time.
var titleEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// SafeTitle normalizes a title to NFC and escapes markup characters.
func SafeTitle(title string) string {
	return titleEscaper.Replace(norm.NFC.String(title))
}
