package element

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ErrEmptyTree is returned when a tree document declares no elements
var ErrEmptyTree = errors.New("tree contains no elements")

// LoadTree reads an element tree from a YAML file
func LoadTree(path string) (*Tree, error) {
	if err := validateTreePath(path); err != nil {
		return nil, fmt.Errorf("invalid tree path: %w", err)
	}

	// #nosec G304 - path is validated by validateTreePath()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tree file: %w", err)
	}

	tree, err := ParseTree(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load tree from %s: %w", path, err)
	}
	return tree, nil
}

// ParseTree parses and validates a YAML tree document.
// Nodes without an id get a generated one.
func ParseTree(data []byte) (*Tree, error) {
	var tree Tree
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(tree.Roots) == 0 {
		return nil, ErrEmptyTree
	}

	seen := make(map[string]string)
	for i, root := range tree.Roots {
		if err := normalize(root, fmt.Sprintf("elements[%d]", i), seen); err != nil {
			return nil, err
		}
	}
	return &tree, nil
}

func normalize(node *Node, path string, seen map[string]string) error {
	if node == nil {
		return fmt.Errorf("%s: empty node", path)
	}

	node.ID = strings.TrimSpace(node.ID)
	if node.ID == "" {
		node.ID = uuid.NewString()
	}
	if strings.TrimSpace(node.Name) == "" {
		return fmt.Errorf("%s: name is required", path)
	}
	if strings.TrimSpace(node.Type) == "" {
		return fmt.Errorf("%s: type is required", path)
	}
	if prev, dup := seen[node.ID]; dup {
		return fmt.Errorf("%s: duplicate id %q (first used at %s)", path, node.ID, prev)
	}
	seen[node.ID] = path

	for i, child := range node.Children {
		if err := normalize(child, fmt.Sprintf("%s.children[%d]", path, i), seen); err != nil {
			return err
		}
	}
	return nil
}

// validateTreePath validates that a tree path is safe to read
func validateTreePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("empty file path")
	}

	cleanPath := filepath.Clean(path)
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("tree file must have .yaml or .yml extension")
	}
	return nil
}

// DefaultTree returns the built-in demo tree used when no file is configured
func DefaultTree() *Tree {
	return &Tree{Roots: []*Node{
		{
			Element: Element{ID: "header", Name: "Header", Type: "section"},
			Children: []*Node{
				{Element: Element{ID: "logo", Name: "Logo", Type: "image", URL: "/logo.png"}},
				{Element: Element{ID: "nav", Name: "Navigation", Type: "menu"}},
			},
		},
		{
			Element: Element{ID: "main", Name: "Main content", Type: "section"},
			Children: []*Node{
				{Element: Element{ID: "hero", Name: "Hero banner", Type: "image", URL: "/hero.jpg"}},
				{Element: Element{ID: "signup", Name: "Sign up", Type: "link", URL: "/signup"}},
				{Element: Element{ID: "features", Name: "Features", Type: "list"}},
			},
		},
		{
			Element: Element{ID: "footer", Name: "Footer", Type: "section"},
			Children: []*Node{
				{Element: Element{ID: "privacy", Name: "Privacy policy", Type: "link", URL: "/privacy"}},
				{Element: Element{ID: "contact", Name: "Contact", Type: "link", URL: "mailto:hello@example.com"}},
			},
		},
	}}
}
