// Package site holds the portfolio content: links, page layout, route maps, projects and copy.
// The content ships embedded as YAML and can be replaced with a file at runtime.
package site

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	perrors "portfolio.dev/portfolio/internal/errors"
	"portfolio.dev/portfolio/internal/layout"
	"portfolio.dev/portfolio/internal/routemap"
)

//go:embed site.yaml
var embedded []byte

// Site is the full portfolio content.
type Site struct {
	Links       map[string]string       `yaml:"links"`
	Viewport    Viewport                `yaml:"viewport"`
	Sections    []Section               `yaml:"sections"`
	Anchors     []Anchor                `yaml:"anchors"`
	Connections [][2]string             `yaml:"connections"`
	Maps        map[string]routemap.Map `yaml:"maps"`
	Universe    []UniverseCard          `yaml:"universe"`
	Projects    []Project               `yaml:"projects"`
	Modules     []Module                `yaml:"modules"`
	Ideas       []Idea                  `yaml:"ideas"`
	Copy        map[string]Copy         `yaml:"copy"`
}

// Viewport is the default page size used for layout.
type Viewport struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Section is a full-width page band. Sections stack vertically in declaration order.
type Section struct {
	ID     string  `yaml:"id"`
	Height float64 `yaml:"height"`
}

// Anchor is a route-engine node placed relative to its section.
type Anchor struct {
	ID      string  `yaml:"id"`
	Section string  `yaml:"section"`
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
}

type UniverseCard struct {
	ID      string   `yaml:"id"`
	Title   string   `yaml:"title"`
	Icon    string   `yaml:"icon"`
	Summary string   `yaml:"summary"`
	Routes  []string `yaml:"routes"`
}

type Project struct {
	ID           string   `yaml:"id"`
	Title        string   `yaml:"title"`
	Tagline      string   `yaml:"tagline"`
	Status       string   `yaml:"status"`
	Updated      string   `yaml:"updated"`
	Progress     int      `yaml:"progress"`
	Platform     string   `yaml:"platform"`
	Modules      int      `yaml:"modules"`
	Badges       []string `yaml:"badges"`
	Architecture string   `yaml:"architecture"`
	Roadmap      []string `yaml:"roadmap"`
}

type Module struct {
	ID        string `yaml:"id"`
	Title     string `yaml:"title"`
	Icon      string `yaml:"icon"`
	Statement string `yaml:"statement"`
}

// Idea is a lab graph node.
type Idea struct {
	ID          string   `yaml:"id"`
	Title       string   `yaml:"title"`
	Type        string   `yaml:"type"`
	Energy      float64  `yaml:"energy"`
	X           float64  `yaml:"x"`
	Y           float64  `yaml:"y"`
	Connections []string `yaml:"connections"`
}

// Copy is the page text for one language.
type Copy struct {
	Title     string `yaml:"title"`
	Tagline   string `yaml:"tagline"`
	Universe  string `yaml:"universe"`
	Projects  string `yaml:"projects"`
	Modules   string `yaml:"modules"`
	Lab       string `yaml:"lab"`
	Contact   string `yaml:"contact"`
	Visits    string `yaml:"visits"`
	Followers string `yaml:"followers"`
}

// Load parses the embedded content.
func Load() (*Site, error) {
	return Parse(embedded)
}

// LoadFile parses content from path.
func LoadFile(path string) (*Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read site content: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML content.
func Parse(data []byte) (*Site, error) {
	var s Site
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse site content: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks that ids are unique and every reference resolves.
func (s *Site) Validate() error {
	sections := make(map[string]bool, len(s.Sections))
	for _, sec := range s.Sections {
		if sections[sec.ID] {
			return fmt.Errorf("duplicate section %q", sec.ID)
		}
		if sec.Height <= 0 {
			return fmt.Errorf("section %q has no height", sec.ID)
		}
		sections[sec.ID] = true
	}

	anchors := make(map[string]bool, len(s.Anchors))
	for _, a := range s.Anchors {
		if anchors[a.ID] {
			return fmt.Errorf("duplicate anchor %q", a.ID)
		}
		if !sections[a.Section] {
			return fmt.Errorf("anchor %q: unknown section %q", a.ID, a.Section)
		}
		anchors[a.ID] = true
	}

	for _, c := range s.Connections {
		for _, id := range c {
			if !anchors[id] {
				return &perrors.UnknownNodeError{Context: "connection", ID: id}
			}
		}
	}

	for _, name := range s.MapNames() {
		if err := validateMap(name, s.Maps[name]); err != nil {
			return err
		}
	}

	ideas := make(map[string]bool, len(s.Ideas))
	for _, idea := range s.Ideas {
		ideas[idea.ID] = true
	}
	for _, idea := range s.Ideas {
		for _, c := range idea.Connections {
			if !ideas[c] {
				return &perrors.UnknownNodeError{Context: "idea " + idea.ID, ID: c}
			}
		}
	}
	return nil
}

func validateMap(name string, m routemap.Map) error {
	nodes := make(map[string]bool, len(m.Nodes))
	for _, n := range m.Nodes {
		if nodes[n.ID] {
			return fmt.Errorf("map %s: duplicate node %q", name, n.ID)
		}
		nodes[n.ID] = true
	}
	routes := make(map[string]bool, len(m.Routes))
	for _, r := range m.Routes {
		if routes[r.ID] {
			return fmt.Errorf("map %s: duplicate route %q", name, r.ID)
		}
		routes[r.ID] = true
		if !nodes[r.From] {
			return &perrors.UnknownNodeError{Context: "map " + name, ID: r.From}
		}
		if !nodes[r.To] {
			return &perrors.UnknownNodeError{Context: "map " + name, ID: r.To}
		}
	}
	return nil
}

// MapNames returns the route map names, sorted.
func (s *Site) MapNames() []string {
	names := make([]string, 0, len(s.Maps))
	for name := range s.Maps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SectionTop returns the document offset of a section.
func (s *Site) SectionTop(id string) (float64, bool) {
	var top float64
	for _, sec := range s.Sections {
		if sec.ID == id {
			return top, true
		}
		top += sec.Height
	}
	return 0, false
}

// Height returns the total document height.
func (s *Site) Height() float64 {
	var h float64
	for _, sec := range s.Sections {
		h += sec.Height
	}
	return h
}

// AnchorRects returns the document-space rectangle of every anchor, keyed by id.
func (s *Site) AnchorRects() map[string]layout.Rect {
	out := make(map[string]layout.Rect, len(s.Anchors))
	for _, a := range s.Anchors {
		top, ok := s.SectionTop(a.Section)
		if !ok {
			continue
		}
		out[a.ID] = layout.Rect{Left: a.X, Top: top + a.Y, Width: a.Width, Height: a.Height}
	}
	return out
}

// CopyFor returns the copy for lang, falling back to Portuguese.
func (s *Site) CopyFor(lang string) Copy {
	if c, ok := s.Copy[lang]; ok {
		return c
	}
	return s.Copy["pt"]
}

// IdeaTypeColor returns the accent color for an idea type.
func IdeaTypeColor(ideaType string) string {
	switch ideaType {
	case "ia":
		return "#61CEF7"
	case "game":
		return "#742BEE"
	case "infra":
		return "#4EBFF5"
	default:
		return "#B1CAF3"
	}
}

// IdeaMap converts the lab ideas into a route map, one edge per connection.
func (s *Site) IdeaMap() routemap.Map {
	var m routemap.Map
	for _, idea := range s.Ideas {
		m.Nodes = append(m.Nodes, routemap.Node{ID: idea.ID, Label: idea.Title, X: idea.X, Y: idea.Y, Accent: IdeaTypeColor(idea.Type)})
	}
	for _, idea := range s.Ideas {
		for i, c := range idea.Connections {
			energy := idea.Energy
			curvature := 0.12
			if i%2 == 1 {
				curvature = -curvature
			}
			m.Routes = append(m.Routes, routemap.Edge{
				ID:        idea.ID + "-" + c,
				From:      idea.ID,
				To:        c,
				Curvature: curvature,
				Intensity: &energy,
				Color:     IdeaTypeColor(idea.Type),
			})
		}
	}
	return m
}
