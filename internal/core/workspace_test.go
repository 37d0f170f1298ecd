package core

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListProjects(t *testing.T) {
	ws := t.TempDir()
	writeTiapp(t, filepath.Join(ws, "shop"), sampleTiapp)
	writeTiapp(t, filepath.Join(ws, "agenda"), sampleTiapp)
	require.NoError(t, os.MkdirAll(filepath.Join(ws, "docs"), 0o755))

	branches := map[string]string{filepath.Join(ws, "shop"): "feature/cart"}
	projects, err := ListProjects(ws, func(dir string) string { return branches[dir] })
	require.NoError(t, err)
	require.Len(t, projects, 2)

	assert.Equal(t, "agenda", projects[0].Name)
	assert.Equal(t, "agenda", projects[0].Label)
	assert.Equal(t, "shop", projects[1].Name)
	assert.Equal(t, "shop [feature/cart]", projects[1].Label)
	assert.Equal(t, filepath.Join(ws, "shop"), projects[1].Dir)

	p, ok := FindProject(projects, "shop")
	assert.True(t, ok)
	assert.Equal(t, "feature/cart", p.Branch)
	_, ok = FindProject(projects, filepath.Join(ws, "agenda"))
	assert.True(t, ok)
}

func TestListProjectsAssertions(t *testing.T) {
	var aerr *AssertionError

	_, err := ListProjects(filepath.Join(t.TempDir(), "missing"), nil)
	require.True(t, errors.As(err, &aerr), "err = %v", err)
	assert.Contains(t, aerr.Msg, "does not exist")

	_, err = ListProjects("", nil)
	require.True(t, errors.As(err, &aerr))

	_, err = ListProjects(t.TempDir(), nil)
	require.True(t, errors.As(err, &aerr))
	assert.Contains(t, aerr.Msg, "empty")
}

func TestGitBranchOutsideRepo(t *testing.T) {
	assert.Equal(t, "", GitBranch(filepath.Join(t.TempDir(), "not-there")))
}
