package downloader

import "strings"

var idSanitizer = strings.NewReplacer(
	":", "",
	"-", "",
	"/", "_",
	"\\", "_",
)

// FileNameForID returns the output file name for a document id.
// Colons and hyphens are dropped, path separators become underscores.
func FileNameForID(documentID string) string {
	return idSanitizer.Replace(documentID) + ".json"
}
