package seed

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

// Fixtures is the data set inserted by a Seeder.
type Fixtures struct {
	Users      []User     `yaml:"users"`
	Categories []Category `yaml:"categories"`
	Posts      []Post     `yaml:"posts"`
}

// User is a seeded account, keyed by email.
type User struct {
	Email string `yaml:"email"`
	Name  string `yaml:"name"`
	Role  string `yaml:"role"`
}

// Category is keyed by slug.
type Category struct {
	Slug string `yaml:"slug"`
	Name string `yaml:"name"`
}

// Post references its author by email and its category by slug. Category is
// optional.
type Post struct {
	Slug      string `yaml:"slug"`
	Title     string `yaml:"title"`
	Body      string `yaml:"body"`
	Author    string `yaml:"author"`
	Category  string `yaml:"category"`
	Published bool   `yaml:"published"`
}

// DefaultFixtures returns the fixture set compiled into the binary.
func DefaultFixtures() (*Fixtures, error) {
	return ParseFixtures(defaultFixtures)
}

// LoadFixtures reads fixtures from a YAML file. An empty path yields the
// default set.
func LoadFixtures(path string) (*Fixtures, error) {
	if path == "" {
		return DefaultFixtures()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	return ParseFixtures(data)
}

// ParseFixtures decodes and validates a YAML fixture document.
func ParseFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks required keys and that every post reference resolves
// within the fixture set.
func (f *Fixtures) Validate() error {
	var errs []error

	users := make(map[string]bool, len(f.Users))
	for i, u := range f.Users {
		if u.Email == "" {
			errs = append(errs, fmt.Errorf("users[%d]: email is required", i))
			continue
		}
		if u.Name == "" {
			errs = append(errs, fmt.Errorf("user %q: name is required", u.Email))
		}
		users[u.Email] = true
	}

	categories := make(map[string]bool, len(f.Categories))
	for i, c := range f.Categories {
		if c.Slug == "" {
			errs = append(errs, fmt.Errorf("categories[%d]: slug is required", i))
			continue
		}
		categories[c.Slug] = true
	}

	for i, p := range f.Posts {
		if p.Slug == "" {
			errs = append(errs, fmt.Errorf("posts[%d]: slug is required", i))
			continue
		}
		if p.Title == "" {
			errs = append(errs, fmt.Errorf("post %q: title is required", p.Slug))
		}
		if !users[p.Author] {
			errs = append(errs, fmt.Errorf("post %q: unknown author %q", p.Slug, p.Author))
		}
		if p.Category != "" && !categories[p.Category] {
			errs = append(errs, fmt.Errorf("post %q: unknown category %q", p.Slug, p.Category))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid fixtures: %w", errors.Join(errs...))
	}
	return nil
}
