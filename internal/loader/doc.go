// SPDX-License-Identifier: MPL-2.0

// Package loader finds task collection files and turns them into a
// namespace.
//
// A collection named NAME is looked up as NAME.cue, NAME.yaml, NAME.yml and
// NAME.toml, first in the search root and then in each parent directory. The
// first match wins. CUE files are validated against the embedded #Collection
// schema; YAML and TOML files decode into the same structure and go through
// the same semantic checks.
//
//	tasks: [
//		{name: "clean", run: ["rm -rf build"]},
//		{
//			name: "build"
//			help: "Build the project."
//			args: [{name: "target", default: "dev"}]
//			pre: [{task: "clean"}]
//			run: ["make $INVOKE_ARG_TARGET"]
//		},
//	]
//	collections: [{name: "docs", tasks: [{name: "serve", default: true, run: ["mkdocs serve"]}]}]
package loader
