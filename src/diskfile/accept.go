package diskfile

import (
	"mime"
	"strings"
)

// AcceptFilter is the parsed form of an HTML accept attribute.
type AcceptFilter struct {
	Extensions []string // lowercased, without the dot
	Types      []string // exact MIME types
	Wildcards  []string // "image/*" style patterns
}

func (a AcceptFilter) Any() bool {
	return len(a.Extensions) == 0 && len(a.Types) == 0 && len(a.Wildcards) == 0
}

func ParseAccept(accept string) AcceptFilter {
	var a AcceptFilter
	for _, part := range strings.Split(accept, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		switch {
		case part == "" || part == "*" || part == "*/*":
		case strings.HasPrefix(part, "."):
			if ext := strings.TrimPrefix(part, "."); ext != "" {
				a.Extensions = append(a.Extensions, ext)
			}
		case strings.HasSuffix(part, "/*"):
			a.Wildcards = append(a.Wildcards, part)
		case strings.Contains(part, "/"):
			a.Types = append(a.Types, part)
		}
	}
	return a
}

// DialogExtensions lists the extensions a native dialog filter can express:
// the explicit ones plus those registered for exact MIME types. Wildcards
// have no extension form and are dropped.
func (a AcceptFilter) DialogExtensions() []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(ext string) {
		ext = strings.TrimPrefix(strings.ToLower(ext), ".")
		if _, ok := seen[ext]; ok || ext == "" {
			return
		}
		seen[ext] = struct{}{}
		out = append(out, ext)
	}
	for _, ext := range a.Extensions {
		add(ext)
	}
	for _, t := range a.Types {
		exts, err := mime.ExtensionsByType(t)
		if err != nil {
			continue
		}
		for _, ext := range exts {
			add(ext)
		}
	}
	return out
}

// TypeByName guesses a MIME type from the file extension, without
// parameters, the way browsers fill File.type. Unknown extensions give "".
func TypeByName(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return ""
	}
	t := mime.TypeByExtension(strings.ToLower(name[i:]))
	if t == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(t)
	if err != nil {
		return ""
	}
	return mt
}
