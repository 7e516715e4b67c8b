package graph

import (
	"fmt"
	"strings"
)

// Biome labels the terrain of a cell.
type Biome uint8

const (
	Undefined Biome = iota
	Ocean
	Marsh
	Ice
	Lake
	Beach
	Snow
	Tundra
	Bare
	Scorched
	Taiga
	Shrubland
	TemperateDesert
	TemperateRainForest
	TemperateDeciduousForest
	Grassland
	TropicalRainForest
	TropicalSeasonalForest
	SubtropicalDesert
)

// NumBiomes is the number of defined biomes, Undefined excluded.
const NumBiomes = int(SubtropicalDesert)

var biomeNames = [...]string{
	Undefined:                "Undefined",
	Ocean:                    "Ocean",
	Marsh:                    "Marsh",
	Ice:                      "Ice",
	Lake:                     "Lake",
	Beach:                    "Beach",
	Snow:                     "Snow",
	Tundra:                   "Tundra",
	Bare:                     "Bare",
	Scorched:                 "Scorched",
	Taiga:                    "Taiga",
	Shrubland:                "Shrubland",
	TemperateDesert:          "Temperate_Desert",
	TemperateRainForest:      "Temperate_Rain_Forest",
	TemperateDeciduousForest: "Temperate_Deciduous_Forest",
	Grassland:                "Grassland",
	TropicalRainForest:       "Tropical_Rain_Forest",
	TropicalSeasonalForest:   "Tropical_Seasonal_Forest",
	SubtropicalDesert:        "Subtropical_Desert",
}

// AllBiomes lists every defined biome in declaration order.
func AllBiomes() []Biome {
	out := make([]Biome, 0, NumBiomes)
	for b := Ocean; b <= SubtropicalDesert; b++ {
		out = append(out, b)
	}
	return out
}

// Valid reports whether b is one of the defined biomes.
func (b Biome) Valid() bool {
	return b > Undefined && b <= SubtropicalDesert
}

// String returns the canonical biome name, e.g. "Temperate_Desert".
func (b Biome) String() string {
	if int(b) < len(biomeNames) {
		return biomeNames[b]
	}
	return "Unknown"
}

// MarshalText encodes the biome by name, in JSON values and map keys alike.
func (b Biome) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText decodes a biome name written by MarshalText.
func (b *Biome) UnmarshalText(text []byte) error {
	v, ok := BiomeByName(string(text))
	if !ok {
		return fmt.Errorf("unknown biome %q", text)
	}
	*b = v
	return nil
}

// BiomeByName resolves a canonical biome name, case-insensitively.
func BiomeByName(name string) (Biome, bool) {
	for _, b := range AllBiomes() {
		if strings.EqualFold(b.String(), name) {
			return b, true
		}
	}
	return Undefined, false
}
