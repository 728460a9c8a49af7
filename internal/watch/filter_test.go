package watch

import (
	"testing"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"
)

func TestFilter_Relevant(t *testing.T) {
	f := Filter{Extensions: []string{".org", ".md"}}

	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"write org", fsnotify.Event{Name: "/s/a.org", Op: fsnotify.Write}, true},
		{"create md", fsnotify.Event{Name: "/s/notes/b.md", Op: fsnotify.Create}, true},
		{"other extension", fsnotify.Event{Name: "/s/img.png", Op: fsnotify.Write}, false},
		{"bare extension", fsnotify.Event{Name: "/s/.org", Op: fsnotify.Write}, false},
		{"chmod only", fsnotify.Event{Name: "/s/a.org", Op: fsnotify.Chmod}, false},
		{"emacs lock", fsnotify.Event{Name: "/s/.#a.org", Op: fsnotify.Create}, false},
		{"emacs autosave", fsnotify.Event{Name: "/s/#a.org#", Op: fsnotify.Write}, false},
		{"backup", fsnotify.Event{Name: "/s/a.org~", Op: fsnotify.Write}, false},
		{"vim swap", fsnotify.Event{Name: "/s/a.org.swp", Op: fsnotify.Write}, false},
		{"removed directory", fsnotify.Event{Name: "/s/notes", Op: fsnotify.Remove}, true},
		{"renamed directory", fsnotify.Event{Name: "/s/notes", Op: fsnotify.Rename}, true},
		{"hidden removed", fsnotify.Event{Name: "/s/.git", Op: fsnotify.Remove}, false},
		{"upper case without fold", fsnotify.Event{Name: "/s/A.ORG", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, f.Relevant(tt.ev))
		})
	}
}

func TestFilter_FoldCase(t *testing.T) {
	f := Filter{Extensions: []string{".org"}, FoldCase: true}
	require.True(t, f.Relevant(fsnotify.Event{Name: "/s/A.ORG", Op: fsnotify.Write}))
}
