// Package transfer reads and writes the YAML export document.
package transfer

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/becoming/internal/constants"
	"github.com/julianstephens/becoming/internal/models"
	"github.com/julianstephens/becoming/internal/records"
)

// FormatVersion is bumped when the document layout changes incompatibly.
const FormatVersion = 1

// Document is the on-disk export layout.
type Document struct {
	Format     int       `yaml:"format"`
	App        string    `yaml:"app"`
	AppVersion string    `yaml:"app_version"`
	ExportedAt time.Time `yaml:"exported_at"`

	models.Dataset `yaml:",inline"`
}

// Export writes ds as a YAML document.
func Export(w io.Writer, ds models.Dataset, now time.Time) error {
	doc := Document{
		Format:     FormatVersion,
		App:        constants.AppName,
		AppVersion: constants.Version,
		ExportedAt: now.UTC(),
		Dataset:    ds,
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return enc.Close()
}

// Import decodes a document and checks it builds a consistent record store.
func Import(r io.Reader) (models.Dataset, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return models.Dataset{}, fmt.Errorf("import document is empty")
		}
		return models.Dataset{}, fmt.Errorf("failed to decode import: %w", err)
	}

	if doc.Format != FormatVersion {
		return models.Dataset{}, fmt.Errorf("unsupported export format %d (expected %d)", doc.Format, FormatVersion)
	}
	if doc.App != "" && doc.App != constants.AppName {
		return models.Dataset{}, fmt.Errorf("document was exported by %q, not %s", doc.App, constants.AppName)
	}

	store, err := records.FromDataset(doc.Dataset)
	if err != nil {
		return models.Dataset{}, fmt.Errorf("import is inconsistent: %w", err)
	}
	return store.Dataset(), nil
}
