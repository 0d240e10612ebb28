package classify

import (
	_ "embed"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

//go:embed keywords.yaml
var defaultKeywordsYAML []byte

// Keywords are the term lists the rules match against.
type Keywords struct {
	Parking            []string `yaml:"parking"`
	CategoryTerm       string   `yaml:"category_term"`
	Business           []string `yaml:"business"`
	BusinessPlaceTypes []string `yaml:"business_place_types"`
	NameScan           []string `yaml:"name_scan"`
}

func decodeKeywords(data []byte) (Keywords, error) {
	var kw Keywords
	if err := yaml.Unmarshal(data, &kw); err != nil {
		return Keywords{}, eris.Wrap(err, "classify: parse keywords")
	}
	return kw, nil
}

// DefaultKeywords returns the built-in keyword sets.
func DefaultKeywords() Keywords {
	kw, err := decodeKeywords(defaultKeywordsYAML)
	if err != nil {
		panic(err)
	}
	return kw
}

// ParseKeywords decodes YAML keyword data over the defaults: lists missing from
// data keep their built-in values.
func ParseKeywords(data []byte) (Keywords, error) {
	override, err := decodeKeywords(data)
	if err != nil {
		return Keywords{}, err
	}

	kw := DefaultKeywords()
	if override.Parking != nil {
		kw.Parking = override.Parking
	}
	if override.CategoryTerm != "" {
		kw.CategoryTerm = override.CategoryTerm
	}
	if override.Business != nil {
		kw.Business = override.Business
	}
	if override.BusinessPlaceTypes != nil {
		kw.BusinessPlaceTypes = override.BusinessPlaceTypes
	}
	if override.NameScan != nil {
		kw.NameScan = override.NameScan
	}
	if len(kw.Parking) == 0 {
		return Keywords{}, eris.New("classify: parking keyword list is empty")
	}
	return kw, nil
}

// LoadKeywords reads keyword overrides from a YAML file. An empty path
// returns the defaults.
func LoadKeywords(path string) (Keywords, error) {
	if path == "" {
		return DefaultKeywords(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Keywords{}, eris.Wrapf(err, "classify: read keywords %s", path)
	}
	return ParseKeywords(data)
}
