package normalizer

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/abbreviations.yaml
var abbreviationsYAML []byte

//go:embed data/variants.yaml
var variantsYAML []byte

// RulesConfig chứa các bảng tra cứu được load từ YAML nhúng
type RulesConfig struct {
	ProvinceAbbreviations map[string]string `yaml:"province_abbreviations"`
	DistrictVariants      map[string]string `yaml:"district_variants"`
	WardVariants          map[string]string `yaml:"ward_variants"`
}

// LoadRulesConfig load các bảng viết tắt và biến thể chính tả
func LoadRulesConfig() (*RulesConfig, error) {
	config := &RulesConfig{}

	if err := yaml.Unmarshal(abbreviationsYAML, config); err != nil {
		return nil, fmt.Errorf("parse abbreviations: %w", err)
	}
	if err := yaml.Unmarshal(variantsYAML, config); err != nil {
		return nil, fmt.Errorf("parse variants: %w", err)
	}

	return config, nil
}

// MergeAliases gộp các bảng alias, bảng sau ghi đè bảng trước; khóa được đưa về lowercase
func MergeAliases(tables ...map[string]string) map[string]string {
	merged := make(map[string]string)
	for _, table := range tables {
		for from, to := range table {
			key := strings.ToLower(Compose(strings.TrimSpace(from)))
			if key == "" || strings.TrimSpace(to) == "" {
				continue
			}
			merged[key] = strings.TrimSpace(to)
		}
	}
	return merged
}
