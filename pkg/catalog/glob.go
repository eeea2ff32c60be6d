package catalog

import (
	"context"
	"os"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/matzehuels/originchart/pkg/errors"
	"github.com/matzehuels/originchart/pkg/origin"
)

// GlobSource merges every catalog file matching a doublestar pattern such
// as "catalogs/**/*.yaml". Files are read in lexical path order, so a
// catalog split into one file per step charts the same as the combined
// document. Issue indices are offset by the nodes read from earlier files.
type GlobSource struct {
	Pattern string
}

// IsGlob reports whether path holds glob metacharacters.
func IsGlob(path string) bool {
	return strings.ContainsAny(path, "*?[{")
}

// Open returns the source for a catalog argument: a [GlobSource] when it
// is a pattern, otherwise a [FileSource].
func Open(path string) Source {
	if IsGlob(path) {
		return GlobSource{Pattern: path}
	}
	return FileSource{Path: path}
}

// Load implements [Source].
func (s GlobSource) Load(ctx context.Context) (*Catalog, error) {
	if err := errors.ValidateCatalogPath(s.Pattern); err != nil {
		return nil, err
	}
	if !doublestar.ValidatePattern(s.Pattern) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid catalog pattern %q", s.Pattern)
	}
	paths, err := doublestar.FilepathGlob(s.Pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "glob %s", s.Pattern)
	}
	if len(paths) == 0 {
		return nil, errors.New(errors.ErrCodeFileNotFound, "no catalog files match %s", s.Pattern)
	}
	slices.Sort(paths)

	var (
		nodes  []origin.Node
		issues []Issue
	)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		format, err := FormatFromPath(path)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read catalog %s", path)
		}
		got, found, err := Decode(data, format)
		if err != nil {
			code := errors.GetCode(err)
			if code == "" {
				code = errors.ErrCodeInvalidCatalog
			}
			return nil, errors.Wrap(code, err, "load catalog %s", path)
		}
		for _, is := range found {
			is.Index += len(nodes)
			issues = append(issues, is)
		}
		nodes = append(nodes, got...)
	}
	return newCatalog(s.Pattern, nodes, issues), nil
}
