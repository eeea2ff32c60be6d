package catalog

import (
	"context"
	"io"
	"os"

	"github.com/matzehuels/originchart/pkg/errors"
)

// Source loads a catalog.
type Source interface {
	Load(ctx context.Context) (*Catalog, error)
}

// FileSource reads a catalog document from disk. The format is inferred
// from the extension unless Format is set.
type FileSource struct {
	Path   string
	Format Format
}

// Load implements [Source].
func (s FileSource) Load(ctx context.Context) (*Catalog, error) {
	if err := errors.ValidateCatalogPath(s.Path); err != nil {
		return nil, err
	}
	format := s.Format
	if format == "" {
		f, err := FormatFromPath(s.Path)
		if err != nil {
			return nil, err
		}
		format = f
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "catalog %s not found", s.Path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read catalog %s", s.Path)
	}
	return parse(s.Path, data, format)
}

// ReaderSource reads a catalog document from a stream, such as stdin or a
// request body.
type ReaderSource struct {
	Name   string
	Reader io.Reader
	Format Format
}

// Load implements [Source].
func (s ReaderSource) Load(ctx context.Context) (*Catalog, error) {
	if s.Reader == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "catalog reader is nil")
	}
	format := s.Format
	if format == "" {
		format = FormatJSON
	}
	data, err := io.ReadAll(s.Reader)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read catalog %s", s.name())
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return parse(s.name(), data, format)
}

func (s ReaderSource) name() string {
	if s.Name == "" {
		return "<stream>"
	}
	return s.Name
}

// Load reads the catalog at path. It is shorthand for FileSource.Load.
func Load(ctx context.Context, path string) (*Catalog, error) {
	return FileSource{Path: path}.Load(ctx)
}

func parse(name string, data []byte, f Format) (*Catalog, error) {
	nodes, issues, err := Decode(data, f)
	if err != nil {
		code := errors.GetCode(err)
		if code == "" {
			code = errors.ErrCodeInvalidCatalog
		}
		return nil, errors.Wrap(code, err, "load catalog %s", name)
	}
	return newCatalog(name, nodes, issues), nil
}
