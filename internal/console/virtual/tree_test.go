package virtual

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTreeListings(t *testing.T) {
	tree := DefaultTree()

	assert.Equal(t, 24, tree.Home.Total)
	require.Len(t, tree.Home.Entries, 6)
	assert.Equal(t, "projects", tree.Home.Entries[0].Name)
	assert.True(t, tree.Home.Entries[0].Dir)
	assert.Equal(t, "-rw-r--r--  1 user user  256 Dec 15 08:15", tree.Home.Entries[5].Attrs)

	assert.Equal(t, 68, tree.Root.Total)
	require.Len(t, tree.Root.Entries, 11)
	assert.Equal(t, "var", tree.Root.Entries[10].Name)
}

func TestDefaultTreeFiles(t *testing.T) {
	tree := DefaultTree()

	readme, ok := tree.Open("README.md")
	require.True(t, ok)
	lines := Lines(readme)
	require.Len(t, lines, 9)
	assert.Equal(t, "# DevOps IDE", lines[0])
	assert.Equal(t, "- Monitoring and logging", lines[8])

	_, ok = tree.Open("missing.txt")
	assert.False(t, ok)

	assert.True(t, tree.IsDir(""))
	assert.True(t, tree.IsDir("projects"))
	assert.True(t, tree.IsDir("projects/api"))
	assert.True(t, tree.IsDir(".config"))
	assert.False(t, tree.IsDir("README.md"))
	assert.True(t, tree.Exists("README.md"))
	assert.False(t, tree.Exists("nope"))
}

func TestWalk(t *testing.T) {
	tree := DefaultTree()

	assert.Equal(t, []string{
		"scripts/backup.sh",
		"scripts/deploy.sh",
	}, tree.Walk("scripts"))

	all := tree.Walk("")
	assert.Contains(t, all, "projects")
	assert.Contains(t, all, "projects/web/Dockerfile")
	assert.NotContains(t, all, "")
}

func TestLoadTreeRejectsEscapingPaths(t *testing.T) {
	_, err := LoadTree([]byte("files:\n  - path: ../etc/passwd\n    content: x\n"))
	assert.Error(t, err)

	_, err = LoadTree([]byte("files: [oops"))
	assert.Error(t, err)
}

func TestLoadTreeImpliesParentDirs(t *testing.T) {
	tree, err := LoadTree([]byte("files:\n  - path: a/b/c.txt\n    content: hi\n"))
	require.NoError(t, err)

	assert.True(t, tree.IsDir("a"))
	assert.True(t, tree.IsDir("a/b"))
	assert.Equal(t, []string{"a/b", "a/b/c.txt"}, tree.Walk("a"))
}

func TestLines(t *testing.T) {
	assert.Nil(t, Lines(""))
	assert.Equal(t, []string{"a"}, Lines("a\n"))
	assert.Equal(t, []string{"a", "", "b"}, Lines("a\n\nb"))
}
