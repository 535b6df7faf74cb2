package config

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Excludes runtime-only fields (HomeDir and Harvest settings).
func (c *Config) ToOptions() []Option {
	var res []Option
	var s string
	var i int

	s = c.Catalog.Backend
	if s != "" {
		res = append(res, OptCatalogBackend(s))
	}
	s = c.Catalog.Path
	if s != "" {
		res = append(res, OptCatalogPath(s))
	}
	s = c.Catalog.Host
	if s != "" {
		res = append(res, OptCatalogHost(s))
	}
	i = c.Catalog.Port
	if i > 0 {
		res = append(res, OptCatalogPort(i))
	}
	s = c.Catalog.User
	if s != "" {
		res = append(res, OptCatalogUser(s))
	}
	s = c.Catalog.Password
	if s != "" {
		res = append(res, OptCatalogPassword(s))
	}
	s = c.Catalog.Database
	if s != "" {
		res = append(res, OptCatalogDatabase(s))
	}
	s = c.Catalog.SSLMode
	if s != "" {
		res = append(res, OptCatalogSSLMode(s))
	}

	i = c.Server.Port
	if i > 0 {
		res = append(res, OptServerPort(i))
	}
	i = c.Server.CacheMinutes
	if i > 0 {
		res = append(res, OptServerCacheMinutes(i))
	}
	if len(c.Server.AllowedOrigins) > 0 {
		res = append(res, OptServerAllowedOrigins(c.Server.AllowedOrigins))
	}

	s = c.Executor.URL
	if s != "" {
		res = append(res, OptExecutorURL(s))
	}
	i = c.Executor.PollSeconds
	if i > 0 {
		res = append(res, OptExecutorPollSeconds(i))
	}
	i = c.Executor.TimeoutSeconds
	if i > 0 {
		res = append(res, OptExecutorTimeoutSeconds(i))
	}

	s = c.Log.Format
	if s != "" {
		res = append(res, OptLogFormat(s))
	}
	s = c.Log.Level
	if s != "" {
		res = append(res, OptLogLevel(s))
	}
	s = c.Log.Destination
	if s != "" {
		res = append(res, OptLogDestination(s))
	}

	i = c.JobsNumber
	if i > 0 {
		res = append(res, OptJobsNumber(i))
	}
	return res
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isValidURL(name, s string) bool {
	u, err := url.Parse(s)
	res := err == nil && (u.Scheme == "http" || u.Scheme == "https") &&
		u.Host != ""
	if !res {
		gn.Warn("<em>%s</em> is not a valid http(s) URL, ignoring '%s'",
			name, s)
	}
	return res
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Catalog.Backend": {"sqlite": s, "postgres": s},
		"Catalog.SSLMode": {"disable": s, "require": s,
			"verify-ca": s, "verify-full": s},
		"Log.Level":       {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":      {"json": s, "text": s, "tint": s},
		"Log.Destination": {"file": s, "stderr": s, "stdout": s},
	}
	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		line := fmt.Sprintf("  * %s", v)
		lines = append(lines, line)
	}
	if _, ok := data[name][val]; ok {
		return true
	}
	gn.Warn(
		"<em>%s</em> does not support '%s' as a value. "+
			"Valid values are: \n%s\nIgnoring...",
		name, val, strings.Join(lines, "\n"),
	)
	return false
}
