package regression

import (
	"os"

	"github.com/pdp-systems/rvhart/rverr"
	"gopkg.in/yaml.v3"
)

// Case describes one regression test: a flat binary image, how many
// steps to run it for, and the register values it should produce.
type Case struct {
	Name    string            `yaml:"name"`
	Image   string            `yaml:"image"`
	MemSize uint32            `yaml:"memsize"`
	Steps   int               `yaml:"steps"`
	Expect  map[string]uint32 `yaml:"expect"`

	// Capture, when true, saves a full instruction trace of the run to a
	// captures/ directory next to the manifest, named uniquely per
	// invocation, so a failing case's full history survives past the
	// one-line summary.
	Capture bool `yaml:"capture"`
}

// Manifest is a named collection of Cases, loaded from a single YAML file.
type Manifest struct {
	Cases []Case `yaml:"cases"`
}

// LoadManifest reads and parses a YAML case manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, rverr.New(rverr.CaseFileCannotOpen, path)
		}
		return nil, rverr.New(rverr.CaseFileInvalid, path, err.Error())
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, rverr.New(rverr.CaseFileInvalid, path, err.Error())
	}
	return &m, nil
}
