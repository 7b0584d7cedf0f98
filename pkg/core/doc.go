// Package core defines the shared language of the concerto system.
//
// This package contains:
//   - Metamodel entities (Model, Declaration variants, Property, Decorator, TypeIdentifier)
//   - Validator descriptors (regex, length and numeric domain validators)
//   - The identifier and namespace grammar
//   - The error taxonomy returned by every validation entry point
//   - The JSON wire codec, which preserves the "$class" discriminator and field names
//
// The Golden Rule: pkg/core imports ONLY the standard library.
// All other packages depend on core, not the reverse.
package core
