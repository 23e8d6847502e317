// Package model provides the snapshot types the LAB analysis engine
// consumes and the Finding types it produces.
//
// This package contains type definitions only. All other internal packages
// import model; model imports nothing internal. This keeps the data model
// the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - The engine never mutates a Snapshot; callers hand in read-only state
//   - Optional numeric fields are *float64 (absent vs zero is meaningful)
//   - Tag identity is the TagKey sum type, never a prefixed string
//   - All JSON tags use snake_case
package model
