// Package seed provides the initial catalog contents and credential roster,
// either built in or loaded from a YAML file.
package seed

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/shelfsync/book-catalog/internal/core/domain"
)

// Credential is a roster entry as written in the seed file. Passwords are
// hashed when the roster is loaded into a repository.
type Credential struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Data is the content of a seed file.
type Data struct {
	Books []domain.Book `yaml:"books"`
	Users []Credential  `yaml:"users"`
}

// Default returns the built-in catalog: four books and two roster entries.
func Default() Data {
	return Data{
		Books: []domain.Book{
			{ID: "1", Title: "The Alchemist", Author: "Paulo Coelho", Genre: "Fiction", YearPublished: 1988},
			{ID: "2", Title: "Hobbit", Author: "J.R.R. Tolkien", Genre: "Fantasy", YearPublished: 1937},
			{ID: "3", Title: "Dune", Author: "Frank Herbert", Genre: "Sci-Fi", YearPublished: 1965},
			{ID: "4", Title: "Project Hail Mary", Author: "Andy Weir", Genre: "Sci-Fi", YearPublished: 2021},
		},
		Users: []Credential{
			{Username: "admin", Password: "admin123"},
			{Username: "user1", Password: "user123"},
		},
	}
}

// Load reads a seed file. An empty path returns Default(). Sections missing
// from the file fall back to the defaults.
func Load(path string) (Data, error) {
	if path == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Data{}, fmt.Errorf("reading seed file: %w", err)
	}
	return Parse(raw)
}

// Parse decodes YAML seed data.
func Parse(raw []byte) (Data, error) {
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return Data{}, fmt.Errorf("parsing seed YAML: %w", err)
	}

	def := Default()
	if d.Books == nil {
		d.Books = def.Books
	}
	if len(d.Users) == 0 {
		d.Users = def.Users
	}

	seen := make(map[string]struct{}, len(d.Books))
	for _, b := range d.Books {
		if b.ID == "" {
			return Data{}, fmt.Errorf("seed book %q has no id", b.Title)
		}
		if _, dup := seen[b.ID]; dup {
			return Data{}, fmt.Errorf("seed book id %q is duplicated", b.ID)
		}
		seen[b.ID] = struct{}{}
	}
	return d, nil
}
