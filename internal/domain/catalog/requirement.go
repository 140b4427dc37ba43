package catalog

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Requirement is one unlock predicate. The set of variants is closed: callers
// switch on the concrete type and treat anything else as unsatisfied.
type Requirement interface {
	requirement()
	String() string
}

type ResourceAtLeast struct {
	Resource string
	Amount   float64
}

type SkillLevelAtLeast struct {
	Skill string
	Level int
}

type LocationDiscovered struct {
	Location string
}

type ClassEquals struct {
	Class string
}

// Unrecognized keeps an entry whose shape matched no known kind.
type Unrecognized struct {
	Keys []string
}

func (ResourceAtLeast) requirement()    {}
func (SkillLevelAtLeast) requirement()  {}
func (LocationDiscovered) requirement() {}
func (ClassEquals) requirement()        {}
func (Unrecognized) requirement()       {}

func (r ResourceAtLeast) String() string {
	return fmt.Sprintf("%s >= %g", r.Resource, r.Amount)
}

func (r SkillLevelAtLeast) String() string {
	return fmt.Sprintf("%s level >= %d", r.Skill, r.Level)
}

func (r LocationDiscovered) String() string {
	return "discovered " + r.Location
}

func (r ClassEquals) String() string {
	return "class " + r.Class
}

func (r Unrecognized) String() string {
	return "unrecognized{" + strings.Join(r.Keys, ",") + "}"
}

// Requirements is an AND-list of predicates.
type Requirements []Requirement

type requirementDoc struct {
	Resource string  `yaml:"resource"`
	Amount   float64 `yaml:"amount"`
	Skill    string  `yaml:"skill"`
	Level    int     `yaml:"level"`
	Location string  `yaml:"location"`
	Class    string  `yaml:"class"`
}

func (rs *Requirements) UnmarshalYAML(node *yaml.Node) error {
	var raw []yaml.Node
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("requirements: %w", err)
	}
	out := make(Requirements, 0, len(raw))
	for i := range raw {
		var doc requirementDoc
		if err := raw[i].Decode(&doc); err != nil {
			return fmt.Errorf("requirements[%d]: %w", i, err)
		}
		out = append(out, doc.variant(mappingKeys(&raw[i])))
	}
	*rs = out
	return nil
}

func (d requirementDoc) variant(keys []string) Requirement {
	switch {
	case d.Resource != "" && only(keys, "resource", "amount"):
		return ResourceAtLeast{Resource: d.Resource, Amount: d.Amount}
	case d.Skill != "" && only(keys, "skill", "level"):
		return SkillLevelAtLeast{Skill: d.Skill, Level: d.Level}
	case d.Location != "" && only(keys, "location"):
		return LocationDiscovered{Location: d.Location}
	case d.Class != "" && only(keys, "class"):
		return ClassEquals{Class: d.Class}
	default:
		return Unrecognized{Keys: keys}
	}
}

func only(keys []string, allowed ...string) bool {
	for _, k := range keys {
		if !slices.Contains(allowed, k) {
			return false
		}
	}
	return true
}

func mappingKeys(node *yaml.Node) []string {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	keys := make([]string, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keys = append(keys, node.Content[i].Value)
	}
	sort.Strings(keys)
	return keys
}
