package scholarship

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ExcludedScholarships is the user-maintained list of scholarships to hide from results.
type ExcludedScholarships struct {
	Items []*ExcludedScholarship `yaml:"items" json:"items"`
}

type ExcludedScholarship struct {
	ID     string `yaml:"id" json:"id"`
	Title  string `yaml:"title,omitempty" json:"title,omitempty"`
	Reason string `yaml:"reason,omitempty" json:"reason,omitempty"`
}

// GetExcludedFromFile reads an exclude file in YAML or JSON. An empty file yields an empty list.
func GetExcludedFromFile(path string) (*ExcludedScholarships, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	excluded := &ExcludedScholarships{}
	if len(data) == 0 {
		return excluded, nil
	}

	if err := yaml.Unmarshal(data, excluded); err != nil {
		return nil, fmt.Errorf("decoding exclude file %q: %w", path, err)
	}

	return excluded, nil
}

func (e *ExcludedScholarships) IDs() []string {
	ids := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		if item == nil || item.ID == "" {
			continue
		}
		ids = append(ids, item.ID)
	}
	return ids
}
