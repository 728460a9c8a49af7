// Package site locates the Hugo site root from a section output directory.
//
// Hugo-oriented converters resolve site-relative references against the site
// root, which by convention is the parent of the "content" directory:
//
//	hugo-site/content/posts  ->  hugo-site
package site
