package config

import "os"

// ThesisDefaults are the values applied to a submission when the form leaves
// the field blank. Overridable per deployment through the environment.
type ThesisDefaults struct {
	University string // THESIS_DEFAULT_UNIVERSITY, falls back to "State University"
	Language   string // THESIS_DEFAULT_LANGUAGE, falls back to "English"
	Status     string // THESIS_DEFAULT_STATUS, falls back to "APPROVED"
}

func LoadThesisDefaults() ThesisDefaults {
	return ThesisDefaults{
		University: getenvDefault("THESIS_DEFAULT_UNIVERSITY", "State University"),
		Language:   getenvDefault("THESIS_DEFAULT_LANGUAGE", "English"),
		Status:     getenvDefault("THESIS_DEFAULT_STATUS", "APPROVED"),
	}
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
