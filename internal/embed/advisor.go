// Package embed decides whether a resource URL can be shown in an in-app
// frame and tracks the load state of the frames clients open.
package embed

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/terra-clan/learnpath/internal/models"
)

// DefaultAllowList holds the hosts known to permit framing
var DefaultAllowList = []string{
	"youtube.com",
	"youtu.be",
	"codepen.io",
	"codesandbox.io",
	"jsfiddle.net",
	"replit.com",
	"stackblitz.com",
	"developer.mozilla.org",
	"w3schools.com",
	"freecodecamp.org",
}

// Advisor matches resource hosts against an allow-list
type Advisor struct {
	domains []string
}

// NewAdvisor creates an advisor. An empty list selects DefaultAllowList.
func NewAdvisor(domains []string) *Advisor {
	cleaned := make([]string, 0, len(domains))
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" && !slices.Contains(cleaned, d) {
			cleaned = append(cleaned, d)
		}
	}
	if len(cleaned) == 0 {
		cleaned = slices.Clone(DefaultAllowList)
	}
	return &Advisor{domains: cleaned}
}

// Domains returns the active allow-list
func (a *Advisor) Domains() []string {
	return slices.Clone(a.domains)
}

// IsEmbeddable reports whether the lower-cased hostname of rawURL contains
// any allow-listed domain. Unparseable or host-less input is not embeddable.
//
// Matching is substring-based, so "notyoutube.com.evil.example" matches too.
func (a *Advisor) IsEmbeddable(rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}

	for _, d := range a.domains {
		if strings.Contains(host, d) {
			return true
		}
	}
	return false
}

// Advise returns the presentation mode for rawURL
func (a *Advisor) Advise(rawURL string) models.EmbedAdvice {
	if a.IsEmbeddable(rawURL) {
		return models.EmbedAdvice{URL: rawURL, Mode: models.EmbedInApp, Embeddable: true}
	}
	return models.EmbedAdvice{URL: rawURL, Mode: models.EmbedExternal}
}

type allowListFile struct {
	Domains []string `yaml:"domains"`
}

// LoadAllowList reads a YAML file with a top-level "domains" list
func LoadAllowList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read allow-list: %w", err)
	}

	var f allowListFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse allow-list %s: %w", path, err)
	}
	if len(f.Domains) == 0 {
		return nil, fmt.Errorf("allow-list %s has no domains", path)
	}

	return f.Domains, nil
}
