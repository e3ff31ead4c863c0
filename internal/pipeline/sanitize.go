package pipeline

import "strings"

const tagForbidden = `/\<>:"|?*`

// SanitizeTag validates a tag that becomes both a URL segment and a
// directory name. The trimmed value is returned unchanged when usable.
func SanitizeTag(raw string) (string, bool) {
	tag := strings.TrimSpace(raw)
	if isMissing(tag) {
		return "", false
	}
	if strings.Contains(tag, "..") || strings.ContainsAny(tag, tagForbidden) {
		return "", false
	}
	for _, r := range tag {
		if r < 0x20 || r == 0x7f {
			return "", false
		}
	}
	return tag, true
}

// isMissing reports an empty cell or the missing-value marker spreadsheet
// exports leave behind.
func isMissing(v string) bool {
	switch strings.TrimSpace(v) {
	case "", "nan", "NaN":
		return true
	}
	return false
}

// cellValue trims a cell and maps missing markers to "".
func cellValue(v string) string {
	v = strings.TrimSpace(v)
	if isMissing(v) {
		return ""
	}
	return v
}
