package site

import (
	"html/template"
	"strings"

	"bimqr/internal"
	"bimqr/internal/util"
)

var funcs = template.FuncMap{
	"truncate": util.Truncate,
	"fallback": func(fallback, v string) string {
		if strings.TrimSpace(v) == "" {
			return fallback
		}
		return v
	},
	"category": func(c string) string {
		if c == "" {
			return internal.OtherCategory
		}
		return c
	},
	"lower": strings.ToLower,
}
