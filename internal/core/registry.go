package core

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// CategorySchema lists the field terms a category's files must carry.
type CategorySchema struct {
	Category Category
	Label    string
	Required []string
}

// fallbackRequired applies to any category without a registered schema.
var fallbackRequired = []string{"id"}

var (
	registry   = make(map[Category]CategorySchema)
	registryMu sync.RWMutex
)

func init() {
	RegisterSchema(CategorySchema{
		Category: CategoryClients,
		Label:    "Clients",
		Required: []string{"id", "name", "email", "priority"},
	})
	RegisterSchema(CategorySchema{
		Category: CategoryWorkers,
		Label:    "Workers",
		Required: []string{"id", "name", "skills", "availability"},
	})
	RegisterSchema(CategorySchema{
		Category: CategoryTasks,
		Label:    "Tasks",
		Required: []string{"id", "title", "duration", "priority"},
	})
}

// RegisterSchema adds a category schema to the registry.
// Panics if the category is already registered; use ReplaceSchema to override.
func RegisterSchema(s CategorySchema) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[s.Category]; exists {
		panic(fmt.Sprintf("schema already registered: %s", s.Category))
	}
	registry[s.Category] = s
}

// ReplaceSchema registers or overwrites the schema for a category.
func ReplaceSchema(s CategorySchema) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[s.Category] = s
}

// LookupSchema returns the schema for a category.
// Returns false if not found.
func LookupSchema(c Category) (CategorySchema, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	s, ok := registry[c]
	return s, ok
}

// RequiredFields returns the ordered required field terms for a category.
// Unregistered categories require only "id".
func RequiredFields(c Category) []string {
	if s, ok := LookupSchema(c); ok {
		return append([]string(nil), s.Required...)
	}
	return append([]string(nil), fallbackRequired...)
}

// Categories returns all registered categories, sorted.
func Categories() []Category {
	registryMu.RLock()
	defer registryMu.RUnlock()

	out := make([]Category, 0, len(registry))
	for c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// MatchesField reports whether a header satisfies a required term: either one
// is a case-insensitive substring of the other, so "client_id" satisfies "id".
func MatchesField(header, required string) bool {
	h := strings.ToLower(header)
	r := strings.ToLower(required)
	if h == "" || r == "" {
		return h == r
	}
	return strings.Contains(h, r) || strings.Contains(r, h)
}

// MissingColumns returns the required terms of a category that no header satisfies,
// in schema order.
func MissingColumns(c Category, headers []string) []string {
	var missing []string
	for _, req := range RequiredFields(c) {
		found := false
		for _, h := range headers {
			if MatchesField(h, req) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, req)
		}
	}
	return missing
}

// InferCategory guesses a file's category from its name and headers.
func InferCategory(fileName string, headers []string) Category {
	haystack := strings.ToLower(fileName + " " + strings.Join(headers, " "))
	switch {
	case strings.Contains(haystack, "client") || strings.Contains(haystack, "customer"):
		return CategoryClients
	case strings.Contains(haystack, "worker") || strings.Contains(haystack, "employee"):
		return CategoryWorkers
	default:
		return CategoryTasks
	}
}

// ParseCategory converts a user-supplied string to a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case CategoryClients, CategoryWorkers, CategoryTasks:
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// categoryNoun is the singular entity noun used in key column names.
func categoryNoun(c Category) string {
	switch c {
	case CategoryClients:
		return "client"
	case CategoryWorkers:
		return "worker"
	case CategoryTasks:
		return "task"
	}
	return ""
}
