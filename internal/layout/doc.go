// Package layout provides parsing and validation for NVM layout files.
//
// Layout files are the single source of truth for how a firmware image is
// organized: a settings section plus any number of named blocks, each with a
// header and a nested data tree of typed entries. This package turns a
// decoded document into a fully validated Config that the image builder can
// consume without re-checking structure.
package layout
