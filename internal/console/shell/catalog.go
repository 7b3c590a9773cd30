package shell

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/GriffinCanCode/opsconsole/internal/console/style"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Tool describes one simulated external tool.
type Tool struct {
	Name        string
	Usage       string
	Description string
	Banner      []string
	// Latency overrides the simulator default when non-zero.
	Latency time.Duration
}

// Response is a canned answer selected by substring match.
type Response struct {
	Match string
	Lines []style.Text
}

// Catalog is the parsed tool catalog.
type Catalog struct {
	Tools     []Tool
	Responses []Response
}

type catalogDoc struct {
	Tools []struct {
		Name        string   `yaml:"name"`
		Usage       string   `yaml:"usage"`
		Description string   `yaml:"description"`
		Latency     string   `yaml:"latency"`
		Banner      []string `yaml:"banner"`
	} `yaml:"tools"`
	Responses []struct {
		Match string `yaml:"match"`
		Lines []struct {
			Text  string `yaml:"text"`
			Color string `yaml:"color"`
		} `yaml:"lines"`
	} `yaml:"responses"`
}

// LoadCatalog parses and validates a catalog document.
func LoadCatalog(data []byte) (*Catalog, error) {
	var doc catalogDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{}
	seen := make(map[string]bool)
	for _, t := range doc.Tools {
		name := strings.ToLower(strings.TrimSpace(t.Name))
		if name == "" {
			return nil, fmt.Errorf("parse catalog: tool without a name")
		}
		if seen[name] {
			return nil, fmt.Errorf("parse catalog: duplicate tool %q", name)
		}
		seen[name] = true

		tool := Tool{
			Name:        name,
			Usage:       t.Usage,
			Description: t.Description,
			Banner:      t.Banner,
		}
		if tool.Usage == "" {
			tool.Usage = name
		}
		if t.Latency != "" {
			d, err := time.ParseDuration(t.Latency)
			if err != nil || d < 0 {
				return nil, fmt.Errorf("parse catalog: tool %s: invalid latency %q", name, t.Latency)
			}
			tool.Latency = d
		}
		c.Tools = append(c.Tools, tool)
	}

	for _, r := range doc.Responses {
		if r.Match == "" {
			return nil, fmt.Errorf("parse catalog: response without a match")
		}
		resp := Response{Match: r.Match}
		for _, l := range r.Lines {
			color, err := style.ParseColor(l.Color)
			if err != nil {
				return nil, fmt.Errorf("parse catalog: response %q: %w", r.Match, err)
			}
			resp.Lines = append(resp.Lines, style.Paint(color, l.Text))
		}
		c.Responses = append(c.Responses, resp)
	}
	return c, nil
}

var (
	defaultCatalog     *Catalog
	defaultCatalogOnce sync.Once
)

// DefaultCatalog returns the embedded catalog.
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		c, err := LoadCatalog(catalogYAML)
		if err != nil {
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}
