package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/folio/pkg/adapters/fs"
	"github.com/aretw0/folio/pkg/core"
)

// setupRepo creates a repository rooted in a fresh temp directory.
func setupRepo(t *testing.T, opts ...func(*fs.Config)) (*fs.Repository, string) {
	t.Helper()

	root := t.TempDir()
	cfg := fs.Config{
		Root:   root,
		Layout: core.DefaultLayout(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return fs.NewRepository(cfg), root
}

func writeRaw(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "Hello_World", fs.Sanitize("Hello World"))
	assert.Equal(t, "a-b-c", fs.Sanitize(`a/b\c`))
	assert.Equal(t, "plain", fs.Sanitize("plain"))
}

func TestRepository_RoundTrip(t *testing.T) {
	repo, root := setupRepo(t)
	ctx := context.Background()

	p := repo.NewPath("2024-06-01", "Hello World")
	assert.Equal(t, "posts/2024-06-01_Hello_World.md", p)

	doc := core.Document{Title: "Hello World", Date: "2024-06-01", Body: "line one\nline two", Path: p}
	require.NoError(t, repo.Save(ctx, doc))

	raw, err := os.ReadFile(filepath.Join(root, "posts", "2024-06-01_Hello_World.md"))
	require.NoError(t, err)
	assert.Equal(t, "Title: Hello World\nDate: 2024-06-01\n\nline one\nline two", string(raw))

	got, err := repo.Get(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestRepository_SaveValidation(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	t.Run("Empty Title", func(t *testing.T) {
		err := repo.Save(ctx, core.Document{Title: " ", Date: "2024-01-01", Path: "posts/a.md"})
		assert.ErrorIs(t, err, core.ErrInvalidDocument)
	})

	t.Run("Multiline Title", func(t *testing.T) {
		err := repo.Save(ctx, core.Document{Title: "a\nb", Date: "2024-01-01", Path: "posts/a.md"})
		assert.ErrorIs(t, err, core.ErrInvalidDocument)
	})

	t.Run("Path Outside Root", func(t *testing.T) {
		err := repo.Save(ctx, core.Document{Title: "a", Date: "2024-01-01", Path: "../escape.md"})
		assert.ErrorIs(t, err, core.ErrInvalidDocument)
	})
}

func TestRepository_EscapeHeaders(t *testing.T) {
	repo, _ := setupRepo(t, func(c *fs.Config) { c.EscapeHeaders = true })
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, core.Document{
		Title: "<script>x</script>", Date: "2024-01-01", Body: "b", Path: "posts/x.md",
	}))

	got, err := repo.Get(ctx, "posts/x.md")
	require.NoError(t, err)
	assert.Equal(t, "&lt;script&gt;x&lt;/script&gt;", got.Title)
}

func TestRepository_EscapeHeaders_ResaveKeepsOneLayer(t *testing.T) {
	repo, _ := setupRepo(t, func(c *fs.Config) { c.EscapeHeaders = true })
	ctx := context.Background()
	p := "posts/2024-01-01_Tom_&_Jerry.md"

	require.NoError(t, repo.Save(ctx, core.Document{Title: "Tom & Jerry", Date: "2024-01-01", Body: "a", Path: p}))

	for i := 0; i < 3; i++ {
		doc, err := repo.Get(ctx, p)
		require.NoError(t, err)
		doc.Body = "edited"
		require.NoError(t, repo.Save(ctx, doc))
	}

	got, err := repo.Get(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "Tom &amp; Jerry", got.Title)
	assert.Equal(t, "edited", got.Body)
}

func TestRepository_OnlyContentFiles(t *testing.T) {
	repo, root := setupRepo(t)
	ctx := context.Background()
	writeRaw(t, root, "templates/post_layout.html", "<h1>{{title}}</h1>")
	writeRaw(t, root, "folio.yaml", "output_dir: .\n")
	writeRaw(t, root, "notes/a.md", "Title: A\nDate: 2024-01-01\n\na")
	writeRaw(t, root, "posts/a.txt", "Title: A\nDate: 2024-01-01\n\na")

	for _, p := range []string{"templates/post_layout.html", "folio.yaml", "notes/a.md", "posts/a.txt", "posts"} {
		t.Run(p, func(t *testing.T) {
			assert.ErrorIs(t, repo.Delete(ctx, p), core.ErrInvalidDocument)
			_, err := repo.Get(ctx, p)
			assert.ErrorIs(t, err, core.ErrInvalidDocument)
			err = repo.Save(ctx, core.Document{Title: "T", Date: "2024-01-01", Body: "b", Path: p})
			assert.ErrorIs(t, err, core.ErrInvalidDocument)
		})
	}

	assert.FileExists(t, filepath.Join(root, "templates", "post_layout.html"))
	assert.FileExists(t, filepath.Join(root, "folio.yaml"))
	assert.FileExists(t, filepath.Join(root, "notes", "a.md"))
}

func TestRepository_GetNotFound(t *testing.T) {
	repo, _ := setupRepo(t)
	_, err := repo.Get(context.Background(), "posts/missing.md")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestRepository_List(t *testing.T) {
	t.Run("Missing Content Directory", func(t *testing.T) {
		repo, _ := setupRepo(t)
		docs, err := repo.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("Lexical Order And Pattern", func(t *testing.T) {
		repo, root := setupRepo(t)
		writeRaw(t, root, "posts/b.md", "Title: B\nDate: 2024-01-02\n\nb")
		writeRaw(t, root, "posts/a.md", "Title: A\nDate: 2024-01-01\n\na")
		writeRaw(t, root, "posts/notes.txt", "not a post")
		writeRaw(t, root, "posts/drafts/c.md", "Title: C\nDate: 2024-01-03\n\nc")
		writeRaw(t, root, "posts/"+fs.TempFilePrefix+"123", "Title: T\nDate: x\n\n")

		docs, err := repo.List(context.Background())
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "posts/a.md", docs[0].Path)
		assert.Equal(t, "posts/b.md", docs[1].Path)
	})

	t.Run("Recursive Pattern", func(t *testing.T) {
		repo, root := setupRepo(t, func(c *fs.Config) { c.Pattern = "**/*.md" })
		writeRaw(t, root, "posts/a.md", "Title: A\nDate: 2024-01-01\n\na")
		writeRaw(t, root, "posts/drafts/c.md", "Title: C\nDate: 2024-01-03\n\nc")
		writeRaw(t, root, "posts/.hidden/d.md", "Title: D\nDate: 2024-01-04\n\nd")

		docs, err := repo.List(context.Background())
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "posts/drafts/c.md", docs[1].Path)
	})

	t.Run("Corrupt File Fails Loudly", func(t *testing.T) {
		repo, root := setupRepo(t)
		writeRaw(t, root, "posts/a.md", "Title: A\nDate: 2024-01-01\n\na")
		writeRaw(t, root, "posts/broken.md", "just some text")

		_, err := repo.List(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, core.ErrCorruptDocument)
		assert.Contains(t, err.Error(), "posts/broken.md")
	})
}

func TestRepository_Delete(t *testing.T) {
	repo, root := setupRepo(t)
	ctx := context.Background()

	p := "posts/2024-06-01_Gone.md"
	require.NoError(t, repo.Save(ctx, core.Document{Title: "Gone", Date: "2024-06-01", Body: "x", Path: p}))
	writeRaw(t, root, "2024-06-01_Gone.html", "<p>x</p>")

	require.NoError(t, repo.Delete(ctx, p))

	_, err := os.Stat(filepath.Join(root, "posts", "2024-06-01_Gone.md"))
	assert.True(t, os.IsNotExist(err), "source should be removed")
	_, err = os.Stat(filepath.Join(root, "2024-06-01_Gone.html"))
	assert.True(t, os.IsNotExist(err), "page should be removed")

	t.Run("Missing Source", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, p), core.ErrNotFound)
	})

	t.Run("Missing Page Is Fine", func(t *testing.T) {
		q := "posts/2024-06-02_NoPage.md"
		require.NoError(t, repo.Save(ctx, core.Document{Title: "NoPage", Date: "2024-06-02", Body: "x", Path: q}))
		assert.NoError(t, repo.Delete(ctx, q))
	})
}

func TestRepository_State(t *testing.T) {
	repo, root := setupRepo(t)
	writeRaw(t, root, "posts/a.md", "Title: A\nDate: 2024-01-01\n\na")

	_, err := repo.List(context.Background())
	require.NoError(t, err)

	state, ok := repo.State().(fs.RepositoryState)
	require.True(t, ok)
	assert.Equal(t, 1, state.LastListed)
	assert.Equal(t, "posts", state.ContentDir)
	assert.Equal(t, "document-store", repo.ComponentType())
}
