// Package router tracks which page section is visible.
package router

import (
	"errors"
	"fmt"
	"sync"
)

var ErrUnknownSection = errors.New("unknown section")

type Section string

const (
	Home     Section = "home"
	Analyzer Section = "analyzer"
	Results  Section = "results"
)

var order = []Section{Home, Analyzer, Results}

var labels = map[Section]string{
	Home:     "Início",
	Analyzer: "Analisador",
	Results:  "Resultados",
}

// NavItem is one entry of the navigation bar.
type NavItem struct {
	Section Section
	Label   string
	Active  bool
}

// ParseSection validates a section name.
func ParseSection(name string) (Section, error) {
	s := Section(name)
	if _, ok := labels[s]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSection, name)
	}
	return s, nil
}

// Router shows exactly one section at a time.
type Router struct {
	mu      sync.RWMutex
	current Section
}

func New() *Router {
	return &Router{current: Home}
}

// Show switches to the named section. Unknown names leave the current
// section untouched.
func (r *Router) Show(name string) error {
	s, err := ParseSection(name)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.current = s
	r.mu.Unlock()
	return nil
}

func (r *Router) Current() Section {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Nav returns the navigation entries with the current one marked active.
func (r *Router) Nav() []NavItem {
	current := r.Current()
	items := make([]NavItem, 0, len(order))
	for _, s := range order {
		items = append(items, NavItem{Section: s, Label: labels[s], Active: s == current})
	}
	return items
}

// Visible reports whether s is the section on screen.
func (r *Router) Visible(s Section) bool {
	return r.Current() == s
}
