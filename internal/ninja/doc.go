// Package ninja writes and reads the subset of the ninja build file grammar
// orgbuilder needs: rule declarations, build statements with indented
// variable bindings, and comments.
//
// Path tokens must go through Escape before being written as build inputs or
// outputs: ninja treats unescaped whitespace as a token separator.
package ninja
