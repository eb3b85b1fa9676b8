package scan

import "strings"

// Attr is one attribute in a tag, as written.
type Attr struct {
	// Name is the attribute name with its original case.
	Name string
	// Value is the unquoted value, empty when the attribute has none.
	Value string
	// Quote is '"' or '\'' for quoted values, 0 otherwise.
	Quote byte
	// HasValue is true when the attribute has an '=' part.
	HasValue bool
	// Start and End delimit the whole attribute ("name=value") in the source.
	Start int
	End   int
}

// ParseAttrs tokenizes the attribute list of a raw start tag such as
// `<img src="a.png" alt=x hidden>`, in order and keeping duplicates.
// base is the offset of raw within the source.
func ParseAttrs(raw string, base int) []Attr {
	i := strings.IndexByte(raw, '<')
	if i < 0 {
		return nil
	}
	i++
	// Skip the tag name.
	for i < len(raw) && !isSpace(raw[i]) && raw[i] != '>' && raw[i] != '/' {
		i++
	}

	var attrs []Attr
	for i < len(raw) {
		for i < len(raw) && (isSpace(raw[i]) || raw[i] == '/') {
			i++
		}
		if i >= len(raw) || raw[i] == '>' {
			break
		}

		start := i
		for i < len(raw) && !isSpace(raw[i]) && raw[i] != '=' && raw[i] != '>' && !(raw[i] == '/' && i+1 < len(raw) && raw[i+1] == '>') {
			i++
		}
		if i == start {
			// Stray '=' or similar; skip one byte so the loop advances.
			i++
			continue
		}
		attr := Attr{Name: raw[start:i], Start: base + start, End: base + i}

		j := SkipSpace(raw, i)
		if j < len(raw) && raw[j] == '=' {
			j = SkipSpace(raw, j+1)
			attr.HasValue = true
			switch {
			case j < len(raw) && (raw[j] == '"' || raw[j] == '\''):
				q := raw[j]
				end := strings.IndexByte(raw[j+1:], q)
				if end < 0 {
					end = len(raw) - j - 1
				}
				attr.Quote = q
				attr.Value = raw[j+1 : j+1+end]
				i = min(j+end+2, len(raw))
			default:
				k := j
				for k < len(raw) && !isSpace(raw[k]) && raw[k] != '>' {
					k++
				}
				attr.Value = raw[j:k]
				i = k
			}
			attr.End = base + i
		}
		attrs = append(attrs, attr)
	}
	return attrs
}

// FindAttr returns the first attribute named name (case-insensitive).
func FindAttr(attrs []Attr, name string) (Attr, bool) {
	for _, a := range attrs {
		if strings.EqualFold(a.Name, name) {
			return a, true
		}
	}
	return Attr{}, false
}
