package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
)

// SupportedMajor is the catalog file major version this build reads.
const SupportedMajor = "v1"

//go:embed seed/catalog.json
var seedJSON []byte

//go:embed schema.json
var schemaJSON []byte

// File is the on-disk catalog document.
type File struct {
	Version  string     `json:"version"`
	Stimuli  []Stimulus `json:"stimuli"`
	Entities []Entity   `json:"entities,omitempty"`
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func fileSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			compileErr = fmt.Errorf("parse catalog schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("schema://catalog.json", doc); err != nil {
			compileErr = fmt.Errorf("add catalog schema: %w", err)
			return
		}
		compiled, compileErr = c.Compile("schema://catalog.json")
	})
	return compiled, compileErr
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Parse(seedJSON)
}

// Load reads a catalog file from disk.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse validates raw catalog JSON against the schema, checks the version
// and builds the catalog.
func Parse(data []byte) (*Catalog, error) {
	schema, err := fileSchema()
	if err != nil {
		return nil, err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("catalog schema: %w", err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := CheckVersion(f.Version); err != nil {
		return nil, err
	}
	return New(f.Version, f.Stimuli, f.Entities)
}

// CheckVersion rejects catalog versions whose major differs from SupportedMajor.
func CheckVersion(version string) error {
	v := version
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("catalog version %q is not semver", version)
	}
	if major := semver.Major(v); major != SupportedMajor {
		return fmt.Errorf("catalog version %s unsupported (want %s.x)", version, SupportedMajor)
	}
	return nil
}

// Write encodes f as indented JSON.
func Write(w io.Writer, f File) error {
	if f.Stimuli == nil {
		f.Stimuli = []Stimulus{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(f)
}
