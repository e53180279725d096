// Package router owns the navigable route surface and the guard that gates
// it on the presence of a cached session.
package router

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Route is one navigable view.
type Route struct {
	Path string `yaml:"path"`
	Name string `yaml:"name"`
}

// Table is the ordered route list plus the paths reachable without a
// session. Whether a route requires auth is derived from PublicPaths, never
// stored on the route itself.
type Table struct {
	Routes      []Route  `yaml:"routes"`
	PublicPaths []string `yaml:"public_paths"`
}

// DefaultTable mirrors the route surface of the banking UI.
func DefaultTable() *Table {
	return &Table{
		Routes: []Route{
			{Path: "/users/create", Name: "createUser"},
			{Path: "/login", Name: "login"},
			{Path: "/users", Name: "users"},
			{Path: "/accounts", Name: "accounts"},
			{Path: "/accounts/create", Name: "createAccount"},
			{Path: "/accounts/deposit", Name: "deposit"},
			{Path: "/accounts/transfer", Name: "transfer"},
			{Path: "/audits", Name: "audits"},
		},
		PublicPaths: []string{"/login", "/users/create"},
	}
}

// LoadTable reads a route table from a YAML file, falling back to the
// default table when path is empty or the file does not exist.
func LoadTable(path string) (*Table, error) {
	if path == "" {
		return DefaultTable(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultTable(), nil
		}
		return nil, fmt.Errorf("router: read route table: %w", err)
	}
	var table Table
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("router: parse route table: %w", err)
	}
	if len(table.Routes) == 0 {
		return nil, fmt.Errorf("router: route table %s declares no routes", path)
	}
	if len(table.PublicPaths) == 0 {
		table.PublicPaths = DefaultTable().PublicPaths
	}
	return &table, nil
}

// Lookup finds a route by name.
func (t *Table) Lookup(name string) (Route, bool) {
	for _, r := range t.Routes {
		if r.Name == name {
			return r, true
		}
	}
	return Route{}, false
}

// LookupPath finds a route by path.
func (t *Table) LookupPath(path string) (Route, bool) {
	for _, r := range t.Routes {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}

// IsPublic reports whether a path is reachable without a session.
func (t *Table) IsPublic(path string) bool {
	for _, p := range t.PublicPaths {
		if p == path {
			return true
		}
	}
	return false
}
