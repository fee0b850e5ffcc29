// Package fields holds the PRISM FIELDS dictionary: the ordered column
// definitions that describe every record of a corpus key file.
//
// The dictionary is reference data. A Catalog is built once, checked for
// contiguous columns and unique names, and never mutated afterwards; lookups
// hand out copies so callers cannot alter the shared table. Loaders and
// protocol filters refer to columns through the catalog instead of hard-coded
// positions.
package fields
