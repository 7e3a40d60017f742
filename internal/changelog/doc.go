// Package changelog provides the Keep a Changelog document model for kac.
//
// This package implements:
//   - CHANGELOG.md parsing into an ordered list of releases (newest first)
//   - Release selection: latest released entry, promotion of an unreleased
//     entry to a dated release, creation of a new unreleased entry
//   - Markdown rendering in compact or markdownlint style, including the
//     footer comparison links built by pluggable TagNamer/TagLinker values
//
// Hosting provider specific link rules live in the provider package; this
// package only defines the capabilities they implement.
package changelog
