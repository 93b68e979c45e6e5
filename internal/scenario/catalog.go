// Package scenario provides the practice-scenario catalog. A built-in set of
// scenarios ships with the binary; deployments can replace it with a YAML
// file.
package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario describes one practice situation offered to learners.
type Scenario struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// builtin mirrors the scenarios the product launched with.
var builtin = []Scenario{
	{
		ID:          "cafe-ordering",
		Title:       "카페에서 주문하기",
		Description: "바리스타와 대화하며 커피나 음료를 주문하는 상황을 연습합니다.",
	},
	{
		ID:          "airport-checkin",
		Title:       "공항에서 체크인하기",
		Description: "항공사 직원과 대화하며 체크인 및 관련 질문을 처리합니다.",
	},
	{
		ID:          "job-interview",
		Title:       "취업 인터뷰",
		Description: "면접관과의 대화를 통해 취업 인터뷰 상황을 연습합니다.",
	},
}

// Catalog is an ordered, read-only set of scenarios.
type Catalog struct {
	scenarios []Scenario
	byID      map[string]Scenario
}

// Load builds the catalog. An empty path returns the built-in scenarios;
// otherwise the YAML file at path replaces them entirely.
func Load(path string) (*Catalog, error) {
	scenarios := builtin
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read scenario file: %w", err)
		}
		var loaded []Scenario
		if err := yaml.Unmarshal(data, &loaded); err != nil {
			return nil, fmt.Errorf("failed to parse scenario file: %w", err)
		}
		if len(loaded) == 0 {
			return nil, fmt.Errorf("scenario file %s defines no scenarios", path)
		}
		for i, sc := range loaded {
			if sc.ID == "" {
				return nil, fmt.Errorf("scenario %d in %s has no id", i, path)
			}
		}
		scenarios = loaded
	}

	byID := make(map[string]Scenario, len(scenarios))
	for _, sc := range scenarios {
		byID[sc.ID] = sc
	}
	return &Catalog{scenarios: scenarios, byID: byID}, nil
}

// List returns the scenarios in catalog order.
func (c *Catalog) List() []Scenario {
	out := make([]Scenario, len(c.scenarios))
	copy(out, c.scenarios)
	return out
}

// Describe resolves a scenario ID to its description text. Unknown IDs
// return false; callers then treat the raw value as a free-form scenario.
func (c *Catalog) Describe(id string) (Scenario, bool) {
	sc, ok := c.byID[id]
	return sc, ok
}
