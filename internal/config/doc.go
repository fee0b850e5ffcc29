// Package config loads, normalizes, and validates prism configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// PRISM_DATA_DIR and PRISM_CACHE_DIR. The Config type centralizes where the
// corpus lives, which databases are loaded, and how protocol items and logs
// are produced.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, upper-cased database names, and clear validation errors.
package config
