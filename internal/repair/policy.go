package repair

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Policy governs which stage-note fragments survive the merge into the case
// note. A fragment is kept when it matches a marker of any allowed category
// and no exclusion marker; exclusion wins.
type Policy struct {
	AllowedNoteCategories map[string][]string `yaml:"allowedNoteCategories"`
	ExclusionMarkers      []string            `yaml:"exclusionMarkers"`
}

// DefaultPolicy is the curated marker set for critical-illness riders.
// Exclusions catch payout-condition prose that belongs in the description,
// not the note.
func DefaultPolicy() Policy {
	return Policy{
		AllowedNoteCategories: map[string][]string{
			"cumulativeCount":     {"累计", "最多赔"},
			"terminationCap":      {"限赔", "给付以", "次为限"},
			"intervalRequirement": {"需间隔"},
			"grouping":            {"需属于", "不同组", "同组"},
			"waiver":              {"豁免"},
			"extraPayout":         {"额外给付", "需达到"},
		},
		ExclusionMarkers: []string{
			"等待期", "因意外", "确诊", "不给付", "不承担", "责任终止",
			"本项", "按", "赔付", "给付日", "当日", "首次", "无", "对应日", "初次",
		},
	}
}

// LoadPolicy reads a marker policy from a YAML file. An empty path yields
// the default policy.
func LoadPolicy(path string) (Policy, error) {
	if path == "" {
		return DefaultPolicy(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, eris.Wrap(err, "repair: read policy file")
	}
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Policy{}, eris.Wrap(err, "repair: parse policy file")
	}
	if len(p.AllowedNoteCategories) == 0 {
		return Policy{}, eris.New("repair: policy file defines no allowed note categories")
	}
	return p, nil
}

// Keep reports whether a note fragment survives the merge filter.
func (p Policy) Keep(fragment string) bool {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return false
	}
	for _, marker := range p.ExclusionMarkers {
		if strings.Contains(fragment, marker) {
			return false
		}
	}
	for _, markers := range p.AllowedNoteCategories {
		for _, marker := range markers {
			if strings.Contains(fragment, marker) {
				return true
			}
		}
	}
	return false
}
