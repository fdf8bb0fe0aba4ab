package entity

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// EnvironmentNameFor derives the canonical environment name of a stage.
// Stage identifiers that differ only in case map to the same name.
func EnvironmentNameFor(stageID string) string {
	return cases.Lower(language.Und).String(stageID)
}
