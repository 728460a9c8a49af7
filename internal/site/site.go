package site

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/orgbuilder/internal/foundation/errors"
)

// DefaultMarker is the path segment that separates the site root from its sections.
const DefaultMarker = "content"

// ErrMissingMarker indicates the destination path has no marker segment.
var ErrMissingMarker = errors.New("marker segment not found in output path")

// ResolveSiteRoot returns the site root for destRoot: the segments before the
// last occurrence of marker, with any earlier marker segments dropped.
//
//	/a/b/content/posts          -> /a/b
//	/a/b/content/x/content/y    -> /a/b/x
func ResolveSiteRoot(destRoot, marker string) (string, error) {
	if marker == "" {
		return "", ferrors.ConfigError("site marker segment must not be empty").Build()
	}
	if strings.ContainsRune(marker, filepath.Separator) {
		return "", ferrors.ConfigError("site marker must be a single path segment").
			WithContext("marker", marker).
			Build()
	}

	cleaned := filepath.Clean(destRoot)
	volume := filepath.VolumeName(cleaned)
	rest := cleaned[len(volume):]
	absolute := strings.HasPrefix(rest, string(filepath.Separator))

	segments := strings.Split(strings.Trim(rest, string(filepath.Separator)), string(filepath.Separator))
	last := -1
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] == marker {
			last = i
			break
		}
	}
	if last < 0 {
		return "", ferrors.WrapError(fmt.Errorf("%w: %q in %s", ErrMissingMarker, marker, destRoot), ferrors.CategoryConfig,
			fmt.Sprintf("output directory must contain a %q path component", marker)).
			Fatal().
			UserAction().
			WithContext(ferrors.ContextPath, destRoot).
			WithHint(fmt.Sprintf("Use an output directory like hugo-site/%s/posts", marker)).
			Build()
	}

	prefix := make([]string, 0, last)
	for _, seg := range segments[:last] {
		if seg != marker {
			prefix = append(prefix, seg)
		}
	}

	root := strings.Join(prefix, string(filepath.Separator))
	if absolute {
		root = string(filepath.Separator) + root
	}
	root = volume + root
	if root == "" {
		root = "."
	}
	return root, nil
}
