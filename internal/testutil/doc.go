// Package testutil contains helper builders and capability stubs used across
// tests to reduce boilerplate when constructing corpora, classifiers and
// generators. These helpers are intentionally minimal and are not intended
// for production usage.
package testutil
