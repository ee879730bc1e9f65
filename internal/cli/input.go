package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	sgio "github.com/matzehuels/sociogram/pkg/io"
	"github.com/matzehuels/sociogram/pkg/pipeline"
	"github.com/matzehuels/sociogram/pkg/preferences"
)

// stdinPath selects standard input as the preference source.
const stdinPath = "-"

// loadSet reads a preference file. "-" reads stdin, which needs an explicit
// format since there is no extension to go by.
func loadSet(ctx context.Context, path, format string, stdin io.Reader) (*preferences.Set, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	var (
		set *preferences.Set
		err error
	)
	if path == stdinPath {
		if format == "" {
			return nil, fmt.Errorf("reading stdin requires --input-format (%s)", strings.Join(sgio.InputFormats, ", "))
		}
		set, err = sgio.Read(stdin, format)
	} else {
		set, err = sgio.ImportFile(path, format)
	}
	if err != nil {
		return nil, err
	}

	prog.done(fmt.Sprintf("Loaded %s from %s", plural(set.Len(), "submission"), displayPath(path)))
	return set, nil
}

func displayPath(path string) string {
	if path == stdinPath {
		return "stdin"
	}
	return path
}

// nopCloser wraps an io.Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns a writer for path, or stdout when path is empty or "-".
func openOutput(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "" || path == stdinPath {
		return nopCloser{stdout}, nil
	}
	return os.Create(path)
}

// basePath derives the output path prefix for plot artifacts. An explicit
// output loses a known format extension; otherwise the input file name is
// used without its extension, or "sociogram" for stdin.
func basePath(output, input string) string {
	if output != "" {
		ext := filepath.Ext(output)
		if pipeline.ValidateFormat(strings.TrimPrefix(ext, ".")) == nil {
			return strings.TrimSuffix(output, ext)
		}
		return output
	}
	if input == stdinPath {
		return appName
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}

// writeArtifacts writes each rendered format to base.<format> and lists
// the files written.
func writeArtifacts(artifacts map[string][]byte, formats []string, base string) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := base + "." + format
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
