package internal

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// UnknownInterface is the interface name assigned to objects whose real
// interface could not be resolved from the trace or the catalog.
const UnknownInterface = "?"

// Catalog is the read-only protocol knowledge injected into an object
// table: which messages create objects (and of what interface) and which
// messages destroy their target.
type Catalog interface {
	// InterfaceFor returns the interface of the object created by the
	// given message at the given argument position, or "" when the
	// catalog has no entry.
	InterfaceFor(message string, argPos int) string

	// IsDestructor reports whether the message destroys its target
	// object of the given interface.
	IsDestructor(iface, message string) bool
}

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// CatalogEntry describes one object-creating message.
type CatalogEntry struct {
	Creates string `yaml:"creates"`
	Arg     int    `yaml:"arg"`
}

// ProtocolCatalog is the YAML-backed Catalog implementation. The default
// catalog covers the Wayland core and xdg-shell protocols and can be
// replaced with --protocols.
type ProtocolCatalog struct {
	Messages    map[string]CatalogEntry `yaml:"messages"`
	Destructors []string                `yaml:"destructors"`

	destructors map[string]bool
}

// DefaultCatalog returns the embedded catalog. The embedded data is
// validated by tests, so a parse failure here is a programming error.
func DefaultCatalog() *ProtocolCatalog {
	c, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// LoadCatalog reads a catalog from a YAML file.
func LoadCatalog(path string) (*ProtocolCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog parses catalog YAML.
func ParseCatalog(data []byte) (*ProtocolCatalog, error) {
	var c ProtocolCatalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	c.destructors = make(map[string]bool, len(c.Destructors))
	for _, name := range c.Destructors {
		c.destructors[name] = true
	}
	return &c, nil
}

// InterfaceFor returns the interface created by message at argPos, or ""
// when the catalog has no entry for it.
func (c *ProtocolCatalog) InterfaceFor(message string, argPos int) string {
	entry, ok := c.Messages[message]
	if !ok || entry.Arg != argPos {
		return ""
	}
	return entry.Creates
}

// IsDestructor reports whether message destroys its target. Entries may
// be bare message names or interface-qualified ("wl_buffer.destroy").
func (c *ProtocolCatalog) IsDestructor(iface, message string) bool {
	if c.destructors[message] {
		return true
	}
	return c.destructors[iface+"."+message]
}

// CatalogSummary returns a short description of the catalog contents for
// verbose logging.
func (c *ProtocolCatalog) CatalogSummary() string {
	return fmt.Sprintf("%d creating messages, destructors: %s",
		len(c.Messages), strings.Join(c.Destructors, ", "))
}
