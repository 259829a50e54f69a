// Package catalog loads the inputs of a classification run.
//
// Category tables are written in CUE and unified with a built-in schema
// before being turned into taxonomy.Category values; the default table ships
// embedded in the binary. Chapter manifests are YAML.
//
// Errors carry codes shared with the CLI:
//   - E001-E009: loading (missing file, parse or build failure)
//   - E101-E109: table validation (see ValidateTable)
package catalog
