// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates user-supplied CUE documents against embedded
// schemas.
//
// Both the configuration file and .cue collection files go through the same
// flow: compile the schema, compile the document, unify it with a schema
// definition, validate, then decode either into a struct (ParseAndDecode) or
// into a generic map (DecodeMap) for merging into Viper.
//
//	result, err := cueutil.ParseAndDecode[collectionFile](
//	    schemaBytes,
//	    data,
//	    "#Collection",
//	    cueutil.WithFilename("tasks.cue"),
//	)
//
// Errors carry the file name and a JSON-style path to the offending field,
// e.g. "tasks.cue: tasks[0].args[1].type: ...".
package cueutil
