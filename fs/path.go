// Package fs provides file-based document storage.
package fs

import (
	"fmt"
	"path"
	"strings"

	"github.com/fwojciec/lexdoc"
)

// DocumentPath returns the slash-separated path of doc relative to the
// storage root, partitioned by date.
// Example: document 32024R0001 dated 2024-03-04 → 2024/03/04/32024R0001.json
func DocumentPath(doc *lexdoc.Document) (string, error) {
	name := sanitizeID(doc.ID)
	if name == "" {
		return "", lexdoc.Errorf(lexdoc.EINVALID, "document ID required")
	}
	date := doc.Partition()
	if date.IsZero() {
		return "", lexdoc.Errorf(lexdoc.EINVALID, "document %s has no date to partition by", doc.ID)
	}
	y, m, d := date.Date()
	return path.Join(fmt.Sprintf("%04d", y), fmt.Sprintf("%02d", int(m)), fmt.Sprintf("%02d", d), name+".json"), nil
}

// sanitizeID maps an identifier to a safe file name. Characters outside
// [A-Za-z0-9._()-] become underscores and leading dots are dropped.
func sanitizeID(id string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(id) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_' || r == '(' || r == ')':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.TrimLeft(b.String(), ".")
}
