// Package graph turns a document source tree into a ninja build description.
//
// Every primary (org) document becomes one convert edge whose output mirrors
// its relative path under the destination root with the extension rewritten.
// Every pass-through (markdown) document becomes one copy edge, unless a
// primary document already claimed the same output path.
//
// Generation runs in two phases. Phase one streams all primary edges and
// fills the claimed-outputs set; phase two streams pass-through edges and
// consults the completed set. The phases never interleave.
package graph
