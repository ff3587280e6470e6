// pkg/core/country.go
package core

import "fmt"

// Faction is the allegiance a country fights for.
type Faction string

const (
	Allies         Faction = "Allies"
	Axis           Faction = "Axis"
	UnknownFaction Faction = "Unknown"
)

// CountryName maps COUNTRY codes to display names.
var CountryName = map[int]string{
	101: "USSR",
	102: "Great Britain",
	103: "USA",
	201: "Germany",
}

// CountryFaction maps COUNTRY codes to their faction.
var CountryFaction = map[int]Faction{
	101: Allies,
	102: Allies,
	103: Allies,
	201: Axis,
}

// CountryDisplayName returns the display name for a country code.
func CountryDisplayName(code int) string {
	if name, ok := CountryName[code]; ok {
		return name
	}
	return fmt.Sprintf("Country %d", code)
}

// FactionOf returns the faction of a country code.
func FactionOf(code int) Faction {
	if f, ok := CountryFaction[code]; ok {
		return f
	}
	return UnknownFaction
}
