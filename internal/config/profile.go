package config

import (
	"github.com/rotisserie/eris"
)

// Profile bundles the inputs, outputs and report shape of one analysis.
type Profile struct {
	// Input is the GeoJSON feature collection to read.
	Input string `yaml:"input" mapstructure:"input"`
	// Limit keeps the first N features of the file (0 keeps all). It is
	// applied before Region.
	Limit int `yaml:"limit" mapstructure:"limit"`
	// Region keeps features whose geog property equals it.
	Region string `yaml:"region" mapstructure:"region"`
	// Output is the analysis CSV path.
	Output string `yaml:"output" mapstructure:"output"`
	// Checkpoint is the progress file of the file checkpoint driver.
	Checkpoint string `yaml:"checkpoint" mapstructure:"checkpoint"`
	// UserAgent overrides nominatim.user_agent for this profile.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`

	// Report shaping.
	Area                string   `yaml:"area" mapstructure:"area"`
	Cities              []string `yaml:"cities" mapstructure:"cities"`
	HighlightTitle      string   `yaml:"highlight_title" mapstructure:"highlight_title"`
	HighlightKeywords   []string `yaml:"highlight_keywords" mapstructure:"highlight_keywords"`
	HighlightPlaceTypes []string `yaml:"highlight_place_types" mapstructure:"highlight_place_types"`
}

// DefaultInput is the feature collection both built-in profiles read.
const DefaultInput = "POIs_PUDO_Hotspots_20250910/Top_100_POIs.geojson"

// DefaultProfiles returns the built-in citywide and south_bay profiles.
func DefaultProfiles() map[string]Profile {
	return map[string]Profile{
		"citywide": {
			Input:      DefaultInput,
			Limit:      100,
			Output:     "complete_parking_analysis.csv",
			Checkpoint: "geocoding_progress.json",
			UserAgent:  "POI-Parking-Identifier/1.0",
			Area:       "Houston, Texas",
		},
		"south_bay": {
			Input:      DefaultInput,
			Region:     "South_Bay",
			Output:     "south_bay_parking_analysis.csv",
			Checkpoint: "south_bay_geocoding_progress.json",
			UserAgent:  "South-Bay-POI-Parking-Identifier/1.0",
			Area:       "South Bay Area, California",
			Cities: []string{
				"Palo Alto", "Mountain View", "Sunnyvale", "Cupertino",
				"Menlo Park", "Santa Clara", "Stanford",
			},
			HighlightTitle:      "TECH COMPANY CAMPUSES",
			HighlightKeywords:   []string{"google", "apple", "microsoft", "intuit", "uber", "databricks"},
			HighlightPlaceTypes: []string{"company", "it", "computer"},
		},
	}
}

// MergeProfiles overlays configured profiles on the built-ins. A configured
// profile with a built-in name replaces only the fields it sets.
func MergeProfiles(base, overrides map[string]Profile) map[string]Profile {
	out := make(map[string]Profile, len(base)+len(overrides))
	for name, p := range base {
		out[name] = p
	}
	for name, o := range overrides {
		out[name] = out[name].Overlay(o)
	}
	return out
}

// Overlay returns p with every non-zero field of o applied.
func (p Profile) Overlay(o Profile) Profile {
	if o.Input != "" {
		p.Input = o.Input
	}
	if o.Limit != 0 {
		p.Limit = o.Limit
	}
	if o.Region != "" {
		p.Region = o.Region
	}
	if o.Output != "" {
		p.Output = o.Output
	}
	if o.Checkpoint != "" {
		p.Checkpoint = o.Checkpoint
	}
	if o.UserAgent != "" {
		p.UserAgent = o.UserAgent
	}
	if o.Area != "" {
		p.Area = o.Area
	}
	if o.Cities != nil {
		p.Cities = o.Cities
	}
	if o.HighlightTitle != "" {
		p.HighlightTitle = o.HighlightTitle
	}
	if o.HighlightKeywords != nil {
		p.HighlightKeywords = o.HighlightKeywords
	}
	if o.HighlightPlaceTypes != nil {
		p.HighlightPlaceTypes = o.HighlightPlaceTypes
	}
	return p
}

// Validate checks that the profile can drive a run.
func (p Profile) Validate() error {
	switch {
	case p.Input == "":
		return eris.New("config: profile input is required")
	case p.Output == "":
		return eris.New("config: profile output is required")
	case p.Limit < 0:
		return eris.New("config: profile limit must be >= 0")
	}
	return nil
}
