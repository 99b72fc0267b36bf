// Package diag defines the diagnostic model shared by every phase of the compiler.
//
// # Purpose
//
//   - Provide deterministic data structures for findings produced while loading bound
//     trees, transforming them and generating output.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit diagnostics
//     without coupling to storage or formatting layers.
//
// # Scope
//
// Package diag does not perform formatting or IO. Rendering lives in internal/diagfmt,
// orchestration lives in internal/buildpipeline.
//
// # Taxonomy
//
// Codes are grouped by range:
//
//   - CFG – configuration problems. Fatal for the whole run.
//   - UPS – diagnostics forwarded from the front end. Fatal for a file only at SevError.
//   - GEN – code generation failures. A GEN error aborts the current file and no
//     output is produced for it; GEN warnings never abort.
//   - IO, PRJ, OBS – driver level.
//
// Passes and the generator return *CodegenError values; the driver converts them into
// diagnostics with ReportErr so the code and span survive.
package diag
