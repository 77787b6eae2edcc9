package facts

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// tableFile is the on-disk layout of a fact table:
//
//	facts:
//	  - trigger: capital of france
//	    fact: The capital of France is Paris.
type tableFile struct {
	Facts []Entry `yaml:"facts"`
}

// LoadYAML reads a fact table from a YAML file.
func LoadYAML(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading fact table: %w", err)
	}
	return ParseYAML(data)
}

// ParseYAML parses a fact table document.
func ParseYAML(data []byte) (*Static, error) {
	var tf tableFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("error parsing fact table: %w", err)
	}
	if len(tf.Facts) == 0 {
		return nil, fmt.Errorf("fact table has no entries")
	}
	for i, e := range tf.Facts {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("fact %d: %w", i+1, err)
		}
	}
	return NewStatic(tf.Facts...)
}

// EncodeYAML writes entries in the layout ParseYAML reads.
func EncodeYAML(entries []Entry) ([]byte, error) {
	return yaml.Marshal(tableFile{Facts: entries})
}
