package content

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/vytor/studystream/internal/logger"
	"github.com/vytor/studystream/internal/models"
)

//go:embed data/topics.yaml
var defaultDataset []byte

//go:embed schema.json
var datasetSchema string

type dataset struct {
	Version int            `yaml:"version"`
	Topics  []models.Topic `yaml:"topics"`
}

// LoadDefault parses the dataset compiled into the binary.
func LoadDefault() (*Catalog, error) {
	return Parse(defaultDataset)
}

// Load reads a dataset file. An empty path falls back to the embedded dataset.
func Load(path string) (*Catalog, error) {
	log := logger.Default().WithPrefix("content")
	if path == "" {
		log.Debug("no content path configured, using embedded dataset")
		return LoadDefault()
	}

	log.Info("loading content from %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading content %s: %w", path, err)
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing content %s: %w", path, err)
	}
	log.Info("content loaded: %d topics, %d subjects", cat.Len(), len(cat.AllSubjects()))
	return cat, nil
}

// Parse validates a YAML (or JSON) dataset against the schema and builds a Catalog.
func Parse(data []byte) (*Catalog, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding dataset: %w", err)
	}
	if err := validateSchema(raw); err != nil {
		return nil, err
	}

	var ds dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("decoding topics: %w", err)
	}
	return NewCatalog(ds.Topics)
}

func validateSchema(doc any) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(datasetSchema),
		gojsonschema.NewGoLoader(doc),
	)
	if err != nil {
		return fmt.Errorf("validating dataset: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("dataset does not match schema: %s", strings.Join(msgs, "; "))
}
