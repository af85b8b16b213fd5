// Package content loads the site's profile, experience, projects and blog posts
// from YAML files.
package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/glazeradr/portfolio/internal/dotgrid"
)

var ErrNotFound = errors.New("content: not found")

// Files read by Load, relative to the content directory.
var Files = []string{"profile.yaml", "experience.yaml", "projects.yaml", "posts.yaml"}

const dateLayout = "2006-01-02"

type SkillGroup struct {
	Category string   `yaml:"category"`
	Skills   []string `yaml:"skills"`
}

type Profile struct {
	Name        string                    `yaml:"name"`
	Greeting    string                    `yaml:"greeting"`
	Headline    string                    `yaml:"headline"`
	Typewriter  []string                  `yaml:"typewriter"`
	TypingMs    int                       `yaml:"typing_ms"`
	PauseMs     int                       `yaml:"pause_ms"`
	Description string                    `yaml:"description"`
	About       []string                  `yaml:"about"`
	Skills      []SkillGroup              `yaml:"skills"`
	SiteURL     string                    `yaml:"site_url"`
	Backgrounds map[string]dotgrid.Config `yaml:"backgrounds"`
}

type Experience struct {
	Years        string   `yaml:"years"`
	Title        string   `yaml:"title"`
	Company      string   `yaml:"company"`
	Description  string   `yaml:"description"`
	Technologies []string `yaml:"technologies"`
	Type         string   `yaml:"type"`
}

func (e Experience) IsEducation() bool { return e.Type == "education" }

type Technology struct {
	Name    string `yaml:"name"`
	Purpose string `yaml:"purpose"`
}

type Project struct {
	ID              string       `yaml:"id"`
	Title           string       `yaml:"title"`
	Description     string       `yaml:"description"`
	LongDescription string       `yaml:"long_description"`
	Image           string       `yaml:"image"`
	Tags            []string     `yaml:"tags"`
	Category        string       `yaml:"category"`
	DemoURL         string       `yaml:"demo_url"`
	GithubURL       string       `yaml:"github_url"`
	Featured        bool         `yaml:"featured"`
	Technologies    []Technology `yaml:"technologies"`
	Challenges      []string     `yaml:"challenges"`
	Outcomes        []string     `yaml:"outcomes"`
	Duration        string       `yaml:"duration"`
	TeamSize        string       `yaml:"team_size"`
	Role            string       `yaml:"role"`
	Status          string       `yaml:"status"`
}

// Paragraphs splits the long description on blank lines.
func (p Project) Paragraphs() []string {
	var out []string
	for _, para := range strings.Split(p.LongDescription, "\n\n") {
		if para = strings.TrimSpace(para); para != "" {
			out = append(out, para)
		}
	}
	return out
}

// HasLink reports whether u points somewhere; "#" is the placeholder for none.
func HasLink(u string) bool {
	u = strings.TrimSpace(u)
	return u != "" && u != "#"
}

type Post struct {
	ID       string    `yaml:"id"`
	Title    string    `yaml:"title"`
	Excerpt  string    `yaml:"excerpt"`
	Content  string    `yaml:"content"`
	Date     string    `yaml:"date"`
	ReadTime string    `yaml:"read_time"`
	Tags     []string  `yaml:"tags"`
	Author   string    `yaml:"author"`
	Featured bool      `yaml:"featured"`
	Time     time.Time `yaml:"-"`
}

// DisplayDate formats the post date like "January 15, 2024".
func (p Post) DisplayDate() string {
	if p.Time.IsZero() {
		return p.Date
	}
	return p.Time.Format("January 2, 2006")
}

// Site is everything the pages render.
type Site struct {
	Profile     Profile
	Experiences []Experience
	Projects    []Project
	Posts       []Post
}

// Load reads and validates every content file in dir.
func Load(dir string) (*Site, error) {
	site := &Site{}
	var experiences struct {
		Experiences []Experience `yaml:"experiences"`
	}
	var projects struct {
		Projects []Project `yaml:"projects"`
	}
	var posts struct {
		Posts []Post `yaml:"posts"`
	}
	targets := []any{&site.Profile, &experiences, &projects, &posts}
	for i, name := range Files {
		if err := loadFile(filepath.Join(dir, name), targets[i]); err != nil {
			return nil, err
		}
	}
	site.Experiences = experiences.Experiences
	site.Projects = projects.Projects
	site.Posts = posts.Posts

	if err := site.validate(); err != nil {
		return nil, err
	}
	sort.SliceStable(site.Posts, func(i, j int) bool {
		return site.Posts[i].Time.After(site.Posts[j].Time)
	})
	return site, nil
}

func loadFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("content: load %s: %w", filepath.Base(path), err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("content: unmarshal %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (s *Site) validate() error {
	seen := make(map[string]bool)
	for _, p := range s.Projects {
		if p.ID == "" {
			return fmt.Errorf("content: project %q has no id", p.Title)
		}
		if seen[p.ID] {
			return fmt.Errorf("content: duplicate project id %q", p.ID)
		}
		seen[p.ID] = true
	}

	seen = make(map[string]bool)
	for i := range s.Posts {
		p := &s.Posts[i]
		if p.ID == "" {
			return fmt.Errorf("content: post %q has no id", p.Title)
		}
		if seen[p.ID] {
			return fmt.Errorf("content: duplicate post id %q", p.ID)
		}
		seen[p.ID] = true
		t, err := time.Parse(dateLayout, p.Date)
		if err != nil {
			return fmt.Errorf("content: post %q date: %w", p.ID, err)
		}
		p.Time = t
	}

	for name, cfg := range s.Profile.Backgrounds {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("content: background %q: %w", name, err)
		}
	}
	return nil
}

func (s *Site) Project(id string) (Project, error) {
	for _, p := range s.Projects {
		if p.ID == id {
			return p, nil
		}
	}
	return Project{}, fmt.Errorf("project %q: %w", id, ErrNotFound)
}

func (s *Site) Post(slug string) (Post, error) {
	for _, p := range s.Posts {
		if p.ID == slug {
			return p, nil
		}
	}
	return Post{}, fmt.Errorf("post %q: %w", slug, ErrNotFound)
}

func (s *Site) FeaturedProjects() []Project {
	var out []Project
	for _, p := range s.Projects {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

func (s *Site) FeaturedPosts() []Post {
	var out []Post
	for _, p := range s.Posts {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

// Categories lists project categories in first-seen order.
func (s *Site) Categories() []string {
	var out []string
	seen := make(map[string]bool)
	for _, p := range s.Projects {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

// ProjectsByCategory filters projects; "" and "all" return every project.
func (s *Site) ProjectsByCategory(category string) []Project {
	if category == "" || category == "all" {
		return s.Projects
	}
	var out []Project
	for _, p := range s.Projects {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out
}

// Background returns the dot-grid settings for a page section. Settings from
// profile.yaml win over the built-in presets.
func (s *Site) Background(name string) (dotgrid.Config, bool) {
	if cfg, ok := s.Profile.Backgrounds[name]; ok {
		return cfg, true
	}
	return dotgrid.Preset(name)
}

// Backgrounds returns every known section setting.
func (s *Site) Backgrounds() map[string]dotgrid.Config {
	out := make(map[string]dotgrid.Config, len(dotgrid.Presets)+len(s.Profile.Backgrounds))
	for name, cfg := range dotgrid.Presets {
		out[name] = cfg
	}
	for name, cfg := range s.Profile.Backgrounds {
		out[name] = cfg
	}
	return out
}
