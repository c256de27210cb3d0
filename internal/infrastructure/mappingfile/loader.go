// Package mappingfile loads the optional user-supplied override mapping that
// adjusts codebook defaults per event signature.
package mappingfile

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/courtlog/nba-pbp/internal/domain/event"
)

// record is one override entry as written in the mapping file.
type record struct {
	Family     string   `yaml:"family" validate:"required,lowercase"`
	Subtype    string   `yaml:"subtype"`
	Descriptor string   `yaml:"descriptor"`
	Qualifiers []string `yaml:"qualifiers"`
	Subfamily  string   `yaml:"subfamily"`
	TypeCode   int      `yaml:"type_code" validate:"gte=0"`
	ActionCode int      `yaml:"action_code" validate:"gte=0"`
}

type document struct {
	Overrides []record `yaml:"overrides"`
}

// Loader reads override mapping files. A zero path means no mapping is
// configured and yields an empty table; a present but unreadable or
// malformed file is a hard configuration error.
type Loader struct {
	validate *validator.Validate
}

func NewLoader() *Loader {
	return &Loader{validate: validator.New()}
}

func (l *Loader) Load(path string) (event.OverrideTable, error) {
	table := make(event.OverrideTable)
	if path == "" {
		return table, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read override mapping %q", path)
	}

	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrapf(err, "parse override mapping %q", path)
	}

	for i, rec := range doc.Overrides {
		if err := l.validate.Struct(rec); err != nil {
			return nil, errors.Wrapf(err, "override mapping %q entry %d", path, i)
		}
		key := event.NewSignatureKey(rec.Family, rec.Subtype, rec.Descriptor, rec.Qualifiers)
		table[key] = event.Override{
			Subfamily:  rec.Subfamily,
			TypeCode:   rec.TypeCode,
			ActionCode: rec.ActionCode,
		}
	}
	return table, nil
}
