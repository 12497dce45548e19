package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed locales
var embedded embed.FS

const fallbackLocale = "en"

type Translations map[string]string

// Catalog holds notification message templates per locale. Templates use
// {name} placeholders.
type Catalog struct {
	mu      sync.RWMutex
	locales map[string]Translations
	locale  string
}

// Load reads every locales/<locale>/notifications.yaml embedded in the binary.
func Load(defaultLocale string) (*Catalog, error) {
	return LoadFS(embedded, "locales", defaultLocale)
}

func LoadFS(fsys fs.FS, root, defaultLocale string) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return nil, err
	}

	c := &Catalog{locales: make(map[string]Translations), locale: defaultLocale}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		locale := entry.Name()
		filePath := path.Join(root, locale, "notifications.yaml")

		data, err := fs.ReadFile(fsys, filePath)
		if err != nil {
			continue
		}

		var file struct {
			Notifications Translations `yaml:"NOTIFICATIONS"`
		}
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filePath, err)
		}
		c.locales[locale] = file.Notifications
	}

	if c.locale == "" {
		c.locale = fallbackLocale
	}
	return c, nil
}

// Render looks key up in the catalog's default locale, falling back to
// English and then to the key itself, and substitutes args.
func (c *Catalog) Render(key string, args map[string]string) string {
	return c.RenderLocale(c.locale, key, args)
}

func (c *Catalog) RenderLocale(locale, key string, args map[string]string) string {
	tmpl := c.lookup(locale, key)
	if len(args) == 0 {
		return tmpl
	}

	pairs := make([]string, 0, len(args)*2)
	for k, v := range args {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

func (c *Catalog) lookup(locale, key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if trans, ok := c.locales[locale]; ok {
		if val, ok := trans[key]; ok {
			return val
		}
	}

	if locale != fallbackLocale {
		if trans, ok := c.locales[fallbackLocale]; ok {
			if val, ok := trans[key]; ok {
				return val
			}
		}
	}

	return key
}
