package expr

import (
	"os"
	"strings"
)

// An Environment provides read-only access to the variables that
// describe the active locales.
type Environment interface {
	LookupEnv(string) (string, bool)
}

// OSEnv reads the process environment.
type OSEnv struct{}

// LookupEnv implements Environment.
func (OSEnv) LookupEnv(k string) (string, bool) {
	return os.LookupEnv(k)
}

// MapEnv is a fixed environment, mostly useful for tests and for
// callers that want to pin the locale.
type MapEnv map[string]string

// LookupEnv implements Environment.
func (m MapEnv) LookupEnv(k string) (string, bool) {
	v, ok := m[k]
	return v, ok
}

// Langs derives the runtime locale list.  LANGUAGE is a colon
// separated list and wins when it holds anything; otherwise LANG is
// a single locale.  A nil return means no locale is configured.
func Langs(env Environment) []string {
	if v, ok := env.LookupEnv("LANGUAGE"); ok {
		var langs []string
		for _, l := range strings.Split(v, ":") {
			if l != "" {
				langs = append(langs, l)
			}
		}
		if len(langs) > 0 {
			return langs
		}
	}
	if v, ok := env.LookupEnv("LANG"); ok && v != "" {
		return []string{v}
	}
	return nil
}
