package cdfwriter

import (
	"fmt"
	"strings"
	"time"
)

// DefaultConvention is the timestamp template embedded in generated
// filenames when no other convention is configured.
const DefaultConvention = "%Y%m%d%H%M00"

// A Convention is a strftime-style template that formats a record
// timestamp into the key embedded in generated filenames. The template
// also defines the split granularity: when automatic splitting is
// enabled, a new file starts whenever a record's key differs from the
// open file's key.
//
// Supported tokens: %Y %y %m %d %j %H %M %S %%. Other characters pass
// through verbatim.
type Convention struct {
	tmpl string
}

// ParseConvention validates a filename timestamp template.
func ParseConvention(tmpl string) (Convention, error) {
	if tmpl == "" {
		return Convention{}, fmt.Errorf("empty naming convention")
	}
	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] != '%' {
			continue
		}
		if i+1 >= len(tmpl) {
			return Convention{}, fmt.Errorf("naming convention %q: trailing %%", tmpl)
		}
		i++
		switch tmpl[i] {
		case 'Y', 'y', 'm', 'd', 'j', 'H', 'M', 'S', '%':
		default:
			return Convention{}, fmt.Errorf("naming convention %q: unsupported token %%%c", tmpl, tmpl[i])
		}
	}
	return Convention{tmpl: tmpl}, nil
}

// Key formats t (in UTC) according to the template.
func (c Convention) Key(t time.Time) string {
	t = t.UTC()
	var b strings.Builder
	for i := 0; i < len(c.tmpl); i++ {
		if c.tmpl[i] != '%' {
			b.WriteByte(c.tmpl[i])
			continue
		}
		i++
		switch c.tmpl[i] {
		case 'Y':
			fmt.Fprintf(&b, "%04d", t.Year())
		case 'y':
			fmt.Fprintf(&b, "%02d", t.Year()%100)
		case 'm':
			fmt.Fprintf(&b, "%02d", int(t.Month()))
		case 'd':
			fmt.Fprintf(&b, "%02d", t.Day())
		case 'j':
			fmt.Fprintf(&b, "%03d", t.YearDay())
		case 'H':
			fmt.Fprintf(&b, "%02d", t.Hour())
		case 'M':
			fmt.Fprintf(&b, "%02d", t.Minute())
		case 'S':
			fmt.Fprintf(&b, "%02d", t.Second())
		case '%':
			b.WriteByte('%')
		}
	}
	return b.String()
}

func (c Convention) String() string { return c.tmpl }

// fileName builds the final name of a file: <prefix>_<key>_v<version>.cdf,
// or <prefix>_v<version>.cdf for a file with no time records.
func fileName(prefix, key, version string) string {
	if key == "" {
		return prefix + "_v" + version + ".cdf"
	}
	return prefix + "_" + key + "_v" + version + ".cdf"
}

// validVersion checks the dotted n.n.n form, e.g. "4.2.0".
func validVersion(v string) bool {
	parts := strings.Split(v, ".")
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
		for _, r := range p {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}
