package config

import (
	"maps"
	"strings"
)

// SiteConfig holds probe settings for a single host.
type SiteConfig struct {
	// Cookie is sent with existence probes to this host.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers sent with existence probes.
	Headers map[string]string `yaml:"headers,omitempty"`

	// UserAgent overrides the global User-Agent for this host.
	UserAgent string `yaml:"userAgent,omitempty"`

	// ContactPaths are probed in addition to the built-in contact paths.
	ContactPaths []string `yaml:"contactPaths,omitempty"`

	// PrivacyPaths are probed in addition to the built-in privacy paths.
	PrivacyPaths []string `yaml:"privacyPaths,omitempty"`
}

// File represents the structure of the .checklinks configuration file.
type File struct {
	// Sites maps host names (e.g. "example.com") to their settings.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults apply to every host unless overridden in Sites.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// NewFile returns an empty configuration file.
func NewFile() *File {
	return &File{Sites: make(map[string]SiteConfig)}
}

// GetSiteConfig returns the settings for host merged over the defaults.
// Host matching is case-insensitive and ignores a leading "www.".
// The returned value shares no maps or slices with cf.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	if cf == nil {
		return SiteConfig{}
	}
	result := cf.Defaults.clone()

	site, ok := cf.lookup(host)
	if !ok {
		return result
	}

	if site.Cookie != "" {
		result.Cookie = site.Cookie
	}
	if site.UserAgent != "" {
		result.UserAgent = site.UserAgent
	}
	if len(site.Headers) > 0 {
		if result.Headers == nil {
			result.Headers = make(map[string]string, len(site.Headers))
		}
		maps.Copy(result.Headers, site.Headers)
	}
	result.ContactPaths = append(result.ContactPaths, site.ContactPaths...)
	result.PrivacyPaths = append(result.PrivacyPaths, site.PrivacyPaths...)

	return result
}

func (cf *File) lookup(host string) (SiteConfig, bool) {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	for _, candidate := range []string{host, strings.TrimPrefix(host, "www.")} {
		for key, site := range cf.Sites {
			if strings.EqualFold(key, candidate) {
				return site, true
			}
		}
	}
	return SiteConfig{}, false
}

func (s SiteConfig) clone() SiteConfig {
	out := s
	out.Headers = maps.Clone(s.Headers)
	out.ContactPaths = append([]string(nil), s.ContactPaths...)
	out.PrivacyPaths = append([]string(nil), s.PrivacyPaths...)
	return out
}
