// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize caps the size of a document accepted for parsing (5MB).
const DefaultMaxFileSize int64 = 5 * 1024 * 1024

type (
	parseOptions struct {
		maxFileSize int64
		concrete    bool
		filename    string
	}

	// Option configures parsing.
	Option func(*parseOptions)
)

func defaultOptions() parseOptions {
	return parseOptions{
		maxFileSize: DefaultMaxFileSize,
		concrete:    true,
		filename:    "<input>",
	}
}

// WithMaxFileSize overrides DefaultMaxFileSize.
func WithMaxFileSize(size int64) Option {
	return func(o *parseOptions) { o.maxFileSize = size }
}

// WithConcrete controls whether every value must be concrete after
// unification. Configuration files leave optional fields unset, so they
// parse with WithConcrete(false).
func WithConcrete(concrete bool) Option {
	return func(o *parseOptions) { o.concrete = concrete }
}

// WithFilename names the document in error messages.
func WithFilename(name string) Option {
	return func(o *parseOptions) {
		if name != "" {
			o.filename = name
		}
	}
}
