package models

import (
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrUndefinedFileName is returned when no schema rule matches a destination file name.
var ErrUndefinedFileName = errors.New("Undefined file name format")

// SchemaName identifies output CSV schema
type SchemaName string

const (
	// SchemaQualifying is for qualifying dataset
	SchemaQualifying SchemaName = "qualifying"
	// SchemaProbe is for probe dataset
	SchemaProbe SchemaName = "probe"
	// SchemaCombined is for combined (rating) dataset
	SchemaCombined SchemaName = "combined"
)

// Schema is fixed ordered column header of an output file category.
type Schema struct {
	Name    SchemaName `yaml:"name" json:"name"`
	Columns []string   `yaml:"columns" json:"columns"`
}

// Header returns header line without newline
func (x Schema) Header() string {
	return strings.Join(x.Columns, ",")
}

// SchemaRule maps a file name substring to Schema.
type SchemaRule struct {
	Substring string `yaml:"substring" json:"substring"`
	Schema    `yaml:",inline"`
}

// SchemaRules is ordered list of SchemaRule. The first matched rule wins.
type SchemaRules []SchemaRule

// DefaultSchemaRules returns built-in rules: qualifying, probe and combined in this order.
func DefaultSchemaRules() SchemaRules {
	return SchemaRules{
		{
			Substring: "qualifying",
			Schema:    Schema{Name: SchemaQualifying, Columns: []string{"MovieID", "CustomerID", "Date"}},
		},
		{
			Substring: "probe",
			Schema:    Schema{Name: SchemaProbe, Columns: []string{"MovieID", "CustomerID"}},
		},
		{
			Substring: "combined",
			Schema:    Schema{Name: SchemaCombined, Columns: []string{"MovieID", "CustomerID", "Rate", "Date"}},
		},
	}
}

// Select returns Schema of the first rule whose substring is contained in
// base name of filePath. Matching is case sensitive.
func (x SchemaRules) Select(filePath string) (*Schema, error) {
	name := filepath.Base(filePath)
	for i := range x {
		if strings.Contains(name, x[i].Substring) {
			schema := x[i].Schema
			return &schema, nil
		}
	}

	return nil, errors.Wrapf(ErrUndefinedFileName, "`%s`", name)
}

type schemaRuleFile struct {
	Rules SchemaRules `yaml:"rules"`
}

// LoadSchemaRules reads ordered schema rules from YAML file.
//
//   rules:
//     - substring: probe
//       name: probe
//       columns: [MovieID, CustomerID]
func LoadSchemaRules(path string) (SchemaRules, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Fail to read schema file: %s", path)
	}

	var f schemaRuleFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, errors.Wrapf(err, "Fail to parse schema file: %s", path)
	}

	if len(f.Rules) == 0 {
		return nil, errors.Errorf("No schema rule in %s", path)
	}
	for i, rule := range f.Rules {
		if rule.Substring == "" {
			return nil, errors.Errorf("Empty substring in schema rule #%d of %s", i, path)
		}
		if len(rule.Columns) == 0 {
			return nil, errors.Errorf("No columns in schema rule '%s' of %s", rule.Substring, path)
		}
	}

	return f.Rules, nil
}
