// Package accountscontent holds the static achievement and background
// catalogues shipped with the bot.
package accountscontent

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFiles embed.FS

// ErrUnknown is returned for a name or id missing from a catalogue.
var ErrUnknown = errors.New("unknown catalogue entry")

// AchievementEntry is one rank of an achievement.
type AchievementEntry struct {
	Icon         string `yaml:"icon"`
	ResourceName string `yaml:"resource_name"`
	Points       int    `yaml:"points"`
}

// Achievement is a named ladder of ranks.
type Achievement struct {
	Name    string             `yaml:"name"`
	Entries []AchievementEntry `yaml:"entries"`
}

// Background is a purchasable profile background. Price 0 means not for sale.
type Background struct {
	ID       int    `yaml:"id"`
	Price    int64  `yaml:"price"`
	ImageURL string `yaml:"-"`
}

// Catalog indexes both catalogues.
type Catalog struct {
	achievements map[string]Achievement
	backgrounds  map[int]Background
}

type achievementsFile struct {
	Achievements []Achievement `yaml:"achievements"`
}

type backgroundsFile struct {
	ImageBase   string       `yaml:"image_base"`
	Backgrounds []Background `yaml:"backgrounds"`
}

// Load parses the embedded catalogues.
func Load() (*Catalog, error) {
	achievementData, err := dataFiles.ReadFile("data/achievements.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read achievements: %w", err)
	}
	backgroundData, err := dataFiles.ReadFile("data/backgrounds.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read backgrounds: %w", err)
	}
	return Parse(achievementData, backgroundData)
}

// Parse builds a catalogue from raw YAML documents.
func Parse(achievementData, backgroundData []byte) (*Catalog, error) {
	var af achievementsFile
	if err := yaml.Unmarshal(achievementData, &af); err != nil {
		return nil, fmt.Errorf("failed to parse achievements: %w", err)
	}
	var bf backgroundsFile
	if err := yaml.Unmarshal(backgroundData, &bf); err != nil {
		return nil, fmt.Errorf("failed to parse backgrounds: %w", err)
	}

	c := &Catalog{
		achievements: make(map[string]Achievement, len(af.Achievements)),
		backgrounds:  make(map[int]Background, len(bf.Backgrounds)),
	}
	for _, a := range af.Achievements {
		if a.Name == "" || len(a.Entries) == 0 {
			return nil, fmt.Errorf("achievement %q has no entries", a.Name)
		}
		c.achievements[a.Name] = a
	}
	base := strings.TrimRight(bf.ImageBase, "/")
	for _, b := range bf.Backgrounds {
		if _, dup := c.backgrounds[b.ID]; dup {
			return nil, fmt.Errorf("duplicate background id %d", b.ID)
		}
		b.ImageURL = fmt.Sprintf("%s/%d.png", base, b.ID)
		c.backgrounds[b.ID] = b
	}
	return c, nil
}

// AchievementEntry returns the entry unlocked at rank of the named achievement.
func (c *Catalog) AchievementEntry(name string, rank int) (AchievementEntry, error) {
	a, ok := c.achievements[name]
	if !ok || rank < 0 || rank >= len(a.Entries) {
		return AchievementEntry{}, fmt.Errorf("%w: achievement %s rank %d", ErrUnknown, name, rank)
	}
	return a.Entries[rank], nil
}

// Background looks up a background by id.
func (c *Catalog) Background(id int) (Background, error) {
	b, ok := c.backgrounds[id]
	if !ok {
		return Background{}, fmt.Errorf("%w: background %d", ErrUnknown, id)
	}
	return b, nil
}
