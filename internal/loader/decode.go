// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/invoke-go/invoke/pkg/cueutil"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

//go:embed collection_schema.cue
var collectionSchema []byte

// Extensions lists the accepted collection file extensions in lookup order.
var Extensions = []string{".cue", ".yaml", ".yml", ".toml"}

// ErrUnsupportedFormat is returned for files whose extension is not one of
// Extensions.
var ErrUnsupportedFormat = errors.New("unsupported collection file format")

// decode parses data according to the extension of path.
func decode(path string, data []byte) (*collectionFile, error) {
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return nil, err
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".cue":
		res, err := cueutil.ParseAndDecode[collectionFile](collectionSchema, data, "#Collection",
			cueutil.WithFilename(path),
		)
		if err != nil {
			return nil, err
		}
		return res.Value, nil
	case ".yaml", ".yml":
		var f collectionFile
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return &f, nil
	case ".toml":
		var f collectionFile
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			var strict *toml.StrictMissingError
			if errors.As(err, &strict) {
				return nil, fmt.Errorf("%s: %w\n%s", path, err, strict.String())
			}
			var derr *toml.DecodeError
			if errors.As(err, &derr) {
				row, col := derr.Position()
				return nil, fmt.Errorf("%s:%d:%d: %w", path, row, col, err)
			}
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return &f, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}
