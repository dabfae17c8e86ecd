package model

import "strings"

var shortNameReplacer = strings.NewReplacer(
	" Helper", "",
	" mini", "",
	"控制中心", "控制",
)

// ShortName shortens an owner name to fit under a shelf icon.
func ShortName(owner string) string {
	cleaned := shortNameReplacer.Replace(owner)
	runes := []rune(cleaned)
	if len(runes) > 6 {
		return string(runes[:5]) + "…"
	}
	return cleaned
}
