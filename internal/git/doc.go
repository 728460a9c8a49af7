// Package git describes the version-control state of a source tree.
//
// Runs record the commit a document tree was generated from, so a build
// description can be traced back to the revision that produced it. Trees that
// are not inside a repository are reported with ErrNotRepository and are
// otherwise fine.
package git
