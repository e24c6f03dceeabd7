// SPDX-License-Identifier: MPL-2.0

// Package namespace models tasks and the hierarchical collections that hold them.
//
// A Collection is a strict tree of tasks and subcollections. Each level may
// declare aliases and at most one default child. Once the tree is complete it
// is frozen with Build, which indexes every task by its real dotted path and
// validates pre-requisites. The resulting Namespace is read-only and safe for
// concurrent readers.
//
// Name resolution walks dot-separated segments: a literal child name is tried
// first, then an alias, and a path that ends on a collection follows that
// collection's default (recursively) until a task is reached.
package namespace
