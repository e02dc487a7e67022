package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSite(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"folio.yaml":                 "publish:\n  enabled: false\n",
		"templates/post_layout.html": "<h1>{{title}}</h1>{{content}}",
		"templates/blog_layout.html": "<ul>{{article_list}}</ul>",
		"posts/2024-01-01_First.md":  "Title: First\nDate: 2024-01-01\n\nfirst body",
	}
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
	return root
}

// run executes the CLI in-process and returns its stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() {
		cfgFile, rootDir, verbose = "", "", false
		newTitle, newBody, newBodyFile = "", "", ""
		editPath, editTitle, editBody, editBodyFile = "", "", "", ""
		deletePath, publishMessage = "", ""
		listJSON = false
		for _, c := range rootCmd.Commands() {
			c.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
		}
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestBuildCommand(t *testing.T) {
	root := setupSite(t)

	out, err := run(t, "build", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "Built 1 pages")
	assert.FileExists(t, filepath.Join(root, "2024-01-01_First.html"))
	assert.FileExists(t, filepath.Join(root, "blog.html"))
}

func TestBuildCommand_MissingTemplate(t *testing.T) {
	root := setupSite(t)
	require.NoError(t, os.Remove(filepath.Join(root, "templates", "post_layout.html")))

	_, err := run(t, "build", "--root", root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "template failed")
	assert.NoFileExists(t, filepath.Join(root, "blog.html"))
}

func TestNewAndListCommands(t *testing.T) {
	root := setupSite(t)

	out, err := run(t, "new", "--root", root, "--title", "Second Post", "--body", "hello")
	require.NoError(t, err)
	assert.Contains(t, out, "site rebuilt")

	out, err = run(t, "list", "--root", root, "--json")
	require.NoError(t, err)

	var rows []struct {
		Path  string `json:"path"`
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "Second Post", rows[0].Title)
	assert.True(t, strings.HasSuffix(rows[0].Path, "_Second_Post.md"))
}

func TestNewCommand_BodyFile(t *testing.T) {
	root := setupSite(t)
	bodyFile := filepath.Join(t.TempDir(), "body.md")
	require.NoError(t, os.WriteFile(bodyFile, []byte("from a file"), 0644))

	_, err := run(t, "new", "--root", root, "--title", "Filed", "--body-file", bodyFile)
	require.NoError(t, err)

	matches, err := filepath.Glob(filepath.Join(root, "posts", "*_Filed.md"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "\n\nfrom a file"))
}

func TestNewCommand_EmptyBody(t *testing.T) {
	root := setupSite(t)
	_, err := run(t, "new", "--root", root, "--title", "Empty")
	assert.EqualError(t, err, "title and body are required")
}

func TestEditCommand_KeepsPath(t *testing.T) {
	root := setupSite(t)

	_, err := run(t, "edit", "--root", root, "--path", "posts/2024-01-01_First.md", "--title", "Renamed")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "posts", "2024-01-01_First.md"))
	require.NoError(t, err)
	assert.Equal(t, "Title: Renamed\nDate: 2024-01-01\n\nfirst body", string(data))
}

func TestDeleteCommand(t *testing.T) {
	root := setupSite(t)
	_, err := run(t, "build", "--root", root)
	require.NoError(t, err)

	_, err = run(t, "delete", "--root", root, "--path", "posts/2024-01-01_First.md")
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(root, "posts", "2024-01-01_First.md"))
	assert.NoFileExists(t, filepath.Join(root, "2024-01-01_First.html"))
}

func TestPublishCommand_Disabled(t *testing.T) {
	root := setupSite(t)
	_, err := run(t, "publish", "--root", root, "-m", "msg")
	assert.ErrorContains(t, err, "publishing is disabled")
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "folio version "))
}
