package netx

import (
	"strconv"
	"strings"
)

// FormatETag renders a document version as a quoted entity tag.
func FormatETag(version int64) string {
	return `"` + strconv.FormatInt(version, 10) + `"`
}

// ParseETag extracts the version from a quoted, bare or weak entity tag.
func ParseETag(tag string) (int64, error) {
	tag = strings.TrimPrefix(strings.TrimSpace(tag), "W/")
	tag = strings.Trim(tag, `"`)
	return strconv.ParseInt(tag, 10, 64)
}
