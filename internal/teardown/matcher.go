package teardown

import (
	"fmt"
	"path"
	"strings"

	"github.com/schemaitat/lab/internal/provider"
	"github.com/schemaitat/lab/internal/util/labels"
)

// Class is the classification of a resource against a cluster.
type Class string

// Classes
const (
	ClassMatched      Class = "matched"
	ClassUnrelated    Class = "unrelated"
	ClassUnclassified Class = "unclassified"
)

// Matcher classifies resources by label and tags.
type Matcher struct {
	clusterID string
	pattern   string
}

// NewMatcher creates a Matcher. pattern is a path.Match glob applied to the
// whole label; clusterID is searched for as a substring of labels and tags.
func NewMatcher(clusterID, pattern string) (*Matcher, error) {
	if clusterID == "" {
		return nil, fmt.Errorf("cluster id is required")
	}
	if pattern != "" {
		if _, err := path.Match(pattern, ""); err != nil {
			return nil, fmt.Errorf("invalid naming pattern %q: %w", pattern, err)
		}
	}
	return &Matcher{clusterID: clusterID, pattern: pattern}, nil
}

// Classify returns the resource's class and, for matches, every reason it
// matched. A resource with neither label nor tags cannot be attributed and
// is unclassified.
func (m *Matcher) Classify(r provider.Resource) (Class, []string) {
	if r.Label == "" && len(r.Tags) == 0 {
		return ClassUnclassified, nil
	}

	var reasons []string
	if m.pattern != "" && r.Label != "" {
		if ok, _ := path.Match(m.pattern, r.Label); ok {
			reasons = append(reasons, fmt.Sprintf("label %q matches pattern %q", r.Label, m.pattern))
		}
	}
	if strings.Contains(r.Label, m.clusterID) {
		reasons = append(reasons, fmt.Sprintf("label %q contains cluster id %q", r.Label, m.clusterID))
	}
	if t, ok := labels.TagContaining(r.Tags, m.clusterID); ok {
		reasons = append(reasons, fmt.Sprintf("tag %q contains cluster id %q", t, m.clusterID))
	}

	if len(reasons) == 0 {
		return ClassUnrelated, nil
	}
	return ClassMatched, reasons
}

// PatternOnly reports whether r matched solely through the pattern, with no
// label or tag referencing the cluster id.
func (m *Matcher) PatternOnly(r provider.Resource) bool {
	if strings.Contains(r.Label, m.clusterID) {
		return false
	}
	_, tagged := labels.TagContaining(r.Tags, m.clusterID)
	return !tagged
}
