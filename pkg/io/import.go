package io

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/sociogram/pkg/errors"
	"github.com/matzehuels/sociogram/pkg/preferences"
)

// Input formats understood by [Read].
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatCSV  = "csv"
)

// InputFormats lists the accepted values for an explicit input format.
var InputFormats = []string{FormatJSON, FormatYAML, FormatCSV}

var formatFromExt = map[string]string{
	".json": FormatJSON,
	".yaml": FormatYAML,
	".yml":  FormatYAML,
	".csv":  FormatCSV,
}

// FormatFromPath guesses the input format from a file extension.
// Returns an INVALID_FORMAT error for unknown extensions.
func FormatFromPath(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := formatFromExt[ext]; ok {
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer input format from %q (use .json, .yaml, .yml or .csv)", path)
}

// Read decodes a preference set from r in the given format.
//
// Every participant ID is trimmed and validated; peer names are trimmed and
// empty ones dropped. A participant appearing twice keeps their first
// position and their last list of peers. Read does not close r.
func Read(r io.Reader, format string) (*preferences.Set, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return ReadJSON(r)
	case FormatYAML:
		return ReadYAML(r)
	case FormatCSV:
		return ReadCSV(r)
	default:
		return nil, errors.ValidateFormat(format, InputFormats...)
	}
}

// ImportFile reads a preference file at path. If format is empty it is
// inferred from the extension with [FormatFromPath].
func ImportFile(path, format string) (*preferences.Set, error) {
	if format == "" {
		f, err := FormatFromPath(path)
		if err != nil {
			return nil, err
		}
		format = f
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, format)
}

// ReadJSON decodes either of two JSON shapes.
//
// An object keyed by participant, in submission order:
//
//	{"A": ["B", "C"], "B": "C", "D": []}
//
// Values may be arrays of names or a single comma-separated string.
//
// Or an array of entries:
//
//	[{"participant": "A", "preferences": ["B", "C"]}]
func ReadJSON(r io.Reader) (*preferences.Set, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode JSON")
	}

	set := preferences.New()
	switch tok {
	case json.Delim('{'):
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode JSON")
			}
			key, _ := keyTok.(string)
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "participant %q", key)
			}
			peers, err := peersFromJSON(raw)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "participant %q", key)
			}
			if err := put(set, key, peers); err != nil {
				return nil, err
			}
		}
	case json.Delim('['):
		for i := 0; dec.More(); i++ {
			var e struct {
				Participant string          `json:"participant"`
				Preferences json.RawMessage `json:"preferences"`
			}
			if err := dec.Decode(&e); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "entry %d", i)
			}
			peers, err := peersFromJSON(e.Preferences)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "entry %d", i)
			}
			if err := put(set, e.Participant, peers); err != nil {
				return nil, err
			}
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "expected JSON object or array")
	}
	return set, nil
}

func peersFromJSON(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("preferences must be a list of names or a comma-separated string")
	}
	return preferences.ParsePeers(s), nil
}

// ReadYAML decodes a YAML mapping or sequence with the same shapes as
// [ReadJSON]. Mapping order is preserved.
//
//	A: [B, C]
//	B: C
//	D: []
func ReadYAML(r io.Reader) (*preferences.Set, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return preferences.New(), nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode YAML")
	}

	set := preferences.New()
	if len(doc.Content) == 0 {
		return set, nil
	}
	root := doc.Content[0]
	switch root.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(root.Content); i += 2 {
			key := root.Content[i].Value
			peers, err := peersFromYAML(root.Content[i+1])
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "participant %q (line %d)", key, root.Content[i].Line)
			}
			if err := put(set, key, peers); err != nil {
				return nil, err
			}
		}
	case yaml.SequenceNode:
		for _, item := range root.Content {
			var e struct {
				Participant string    `yaml:"participant"`
				Preferences yaml.Node `yaml:"preferences"`
			}
			if err := item.Decode(&e); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "entry at line %d", item.Line)
			}
			peers, err := peersFromYAML(&e.Preferences)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "entry at line %d", item.Line)
			}
			if err := put(set, e.Participant, peers); err != nil {
				return nil, err
			}
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "expected YAML mapping or sequence")
	}
	return set, nil
}

func peersFromYAML(n *yaml.Node) ([]string, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.SequenceNode:
		var list []string
		if err := n.Decode(&list); err != nil {
			return nil, err
		}
		return list, nil
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return nil, nil
		}
		return preferences.ParsePeers(n.Value), nil
	default:
		return nil, fmt.Errorf("preferences must be a list of names or a comma-separated string")
	}
}

// ReadCSV decodes rows of the form participant,peer1,peer2,... Rows may have
// different lengths. A first row whose first cell is "participant" is
// treated as a header and skipped.
func ReadCSV(r io.Reader) (*preferences.Set, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	set := preferences.New()
	for line := 1; ; line++ { // record number, not physical line
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode CSV")
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "participant") {
			continue
		}
		if err := put(set, rec[0], rec[1:]); err != nil {
			return nil, fmt.Errorf("record %d: %w", line, err)
		}
	}
	return set, nil
}

// put validates and stores one submission the way the collection form does.
func put(set *preferences.Set, participant string, peers []string) error {
	participant = strings.TrimSpace(participant)
	if err := errors.ValidateParticipantID(participant); err != nil {
		return err
	}
	peers = preferences.Normalize(peers)
	for _, p := range peers {
		if err := errors.ValidatePeerName(p); err != nil {
			return err
		}
	}
	set.Put(participant, peers)
	return nil
}
