// Package localization resolves opaque string ids to user-facing text.
package localization

import (
	"embed"
	"fmt"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFiles embed.FS

// DefaultTag is used when a channel has no locale or an unknown one.
const DefaultTag = "en"

// Locale is a single language table.
type Locale struct {
	Tag     string            `yaml:"tag"`
	Strings map[string]string `yaml:"strings"`

	printer *message.Printer
}

// Catalog holds every loaded locale.
type Catalog struct {
	mu      sync.RWMutex
	locales map[string]*Locale
}

// LoadCatalog parses the embedded locale tables.
func LoadCatalog() (*Catalog, error) {
	entries, err := localeFiles.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("failed to list locales: %w", err)
	}

	c := &Catalog{locales: make(map[string]*Locale, len(entries))}
	for _, entry := range entries {
		data, err := localeFiles.ReadFile(path.Join("locales", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read locale %s: %w", entry.Name(), err)
		}
		if err := c.Add(data); err != nil {
			return nil, fmt.Errorf("locale %s: %w", entry.Name(), err)
		}
	}

	if _, ok := c.locales[DefaultTag]; !ok {
		return nil, fmt.Errorf("default locale %q missing", DefaultTag)
	}
	return c, nil
}

// Add parses and registers a YAML locale table.
func (c *Catalog) Add(data []byte) error {
	var l Locale
	if err := yaml.Unmarshal(data, &l); err != nil {
		return fmt.Errorf("failed to unmarshal locale: %w", err)
	}
	if l.Tag == "" {
		return fmt.Errorf("locale has no tag")
	}

	tag, err := language.Parse(l.Tag)
	if err != nil {
		tag = language.English
	}
	l.printer = message.NewPrinter(tag)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.locales == nil {
		c.locales = make(map[string]*Locale)
	}
	c.locales[l.Tag] = &l
	return nil
}

// Get returns the locale for tag, falling back to DefaultTag.
func (c *Catalog) Get(tag string) *Locale {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if l, ok := c.locales[tag]; ok {
		return l
	}
	return c.locales[DefaultTag]
}

// GetString resolves key and substitutes {0}, {1}, ... with args.
// Unknown keys resolve to the key itself.
func (l *Locale) GetString(key string, args ...any) string {
	tmpl, ok := l.Strings[key]
	if !ok {
		tmpl = key
	}
	if len(args) == 0 {
		return tmpl
	}

	replacements := make([]string, 0, len(args)*2)
	for i, a := range args {
		replacements = append(replacements, "{"+strconv.Itoa(i)+"}", l.format(a))
	}
	return strings.NewReplacer(replacements...).Replace(tmpl)
}

func (l *Locale) format(a any) string {
	switch v := a.(type) {
	case int:
		return l.FormatNumber(int64(v))
	case int64:
		return l.FormatNumber(v)
	case int32:
		return l.FormatNumber(int64(v))
	default:
		return fmt.Sprint(v)
	}
}

// FormatNumber prints n with the locale's digit grouping (1,234,567).
func (l *Locale) FormatNumber(n int64) string {
	if l.printer == nil {
		return strconv.FormatInt(n, 10)
	}
	return l.printer.Sprintf("%d", n)
}

// FormatDuration renders d as "2 hours, 5 minutes" using the largest two units.
func (l *Locale) FormatDuration(d time.Duration) string {
	if d < time.Second {
		return "0 " + l.GetString("time_seconds")
	}

	units := []struct {
		size           time.Duration
		single, plural string
	}{
		{24 * time.Hour, "time_day", "time_days"},
		{time.Hour, "time_hour", "time_hours"},
		{time.Minute, "time_minute", "time_minutes"},
		{time.Second, "time_second", "time_seconds"},
	}

	parts := make([]string, 0, 2)
	for _, u := range units {
		if len(parts) == 2 {
			break
		}
		n := d / u.size
		if n == 0 {
			continue
		}
		d -= n * u.size
		key := u.plural
		if n == 1 {
			key = u.single
		}
		parts = append(parts, fmt.Sprintf("%d %s", n, l.GetString(key)))
	}
	return strings.Join(parts, ", ")
}
