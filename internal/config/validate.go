package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate trims and dedupes list entries, then checks the
// result. The normalized copy is what should be saved.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	var sources []Source
	seen := map[string]bool{}
	for _, s := range out.Sources {
		s.Name = strings.TrimSpace(s.Name)
		s.URL = strings.TrimSpace(s.URL)
		if s.Name == "" && s.URL == "" {
			continue
		}
		key := strings.ToLower(s.Name)
		if seen[key] {
			res.addWarn("duplicate source name %q; keeping the first entry", s.Name)
			continue
		}
		seen[key] = true
		sources = append(sources, s)
	}
	out.Sources = sources

	var extras []Aggregator
	for _, a := range out.Harmonize.ExtraAggregators {
		a.Domain = strings.TrimSpace(a.Domain)
		a.Name = strings.TrimSpace(a.Name)
		if a.Domain == "" {
			continue
		}
		extras = append(extras, a)
	}
	out.Harmonize.ExtraAggregators = extras

	// ---- Validation rules ----

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	if out.Polling.IntervalSeconds <= 0 {
		res.addErr("polling.interval_seconds must be > 0")
	} else if out.Polling.IntervalSeconds < 60 {
		res.addWarn("polling.interval_seconds is very low (%d); public boards change slowly and hosts may rate-limit you.", out.Polling.IntervalSeconds)
	}

	if out.Fetch.RequestsPerSecond < 0 {
		res.addErr("fetch.requests_per_second must be >= 0")
	}

	enabled := 0
	for i, s := range out.Sources {
		if s.Name == "" {
			res.addErr("sources[%d].name is required", i)
		}
		if s.URL == "" {
			res.addErr("sources[%d].url is required", i)
		} else if !strings.HasPrefix(s.URL, "http://") && !strings.HasPrefix(s.URL, "https://") {
			res.addErr("sources[%d].url must be an http(s) URL", i)
		}
		if s.Enabled {
			enabled++
		}
	}
	if len(out.Sources) > 0 && enabled == 0 {
		res.addWarn("no sources are enabled; polling will do nothing")
	}

	for i, a := range out.Harmonize.ExtraAggregators {
		if a.Name == "" {
			res.addErr("harmonize.extra_aggregators[%d].name is required", i)
		}
	}

	return out, res
}
