// Package mapping reads and writes placement mapping files.
//
// A mapping file is an ordered list of placement records. Every record has
// the same fields regardless of the wire form:
//
//	image_number  required, 1-based index into the image catalogue
//	slide_number  positive integer or "auto" (default "auto")
//	position      top-left | top-right | bottom-left | bottom-right |
//	              center | custom | auto (default "auto")
//	left, top, width, height   optional, inches
//
// # Wire Forms
//
// Three forms carry the same records:
//
//   - Sequential records: a JSON array of objects. YAML sequences and TOML
//     [[placement]] tables are read the same way.
//   - Delimited records: CSV with a header row naming the fields. The first
//     sheet of an XLSX workbook is read the same way.
//   - Line-oriented: one record per line,
//     image_number:slide_number:position:left:top:width:height, separated by
//     colons (or whitespace when a line has no colon). Trailing fields may be
//     omitted. Blank lines and lines starting with # are ignored.
//
// # Errors
//
// A bad record in the line-oriented form is skipped and reported in
// [Batch.Skipped]; the rest of the file is still read. In the other forms a
// bad record means the file is malformed, and [Read] fails with an
// INVALID_MAPPING error.
//
// # Normalization
//
// The token "auto" exists only on the wire. [Request.Slide] and
// [Request.Target] are nil when automatic assignment is requested, so no
// downstream code ever compares strings. Input order is preserved exactly.
package mapping
