package platform

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindRoot(t *testing.T) {
	// Create a temp directory structure
	// /tmp/
	//   repo/ (folio.yaml)
	//     subdir/
	//       nested/
	//   empty/

	baseDir := t.TempDir()
	repoDir := filepath.Join(baseDir, "repo")
	subDir := filepath.Join(repoDir, "subdir")
	nestedDir := filepath.Join(subDir, "nested")
	emptyDir := filepath.Join(baseDir, "empty")

	if err := os.MkdirAll(nestedDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(emptyDir, 0755); err != nil {
		t.Fatal(err)
	}

	// Create marker
	if err := os.WriteFile(filepath.Join(repoDir, "folio.yaml"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		startPath string
		wantRoot  string
		wantErr   bool
	}{
		{
			name:      "Start at Root",
			startPath: repoDir,
			wantRoot:  repoDir,
			wantErr:   false,
		},
		{
			name:      "Start in Subdir",
			startPath: subDir,
			wantRoot:  repoDir,
			wantErr:   false,
		},
		{
			name:      "Start Nested Deeply",
			startPath: nestedDir,
			wantRoot:  repoDir,
			wantErr:   false,
		},
		{
			name:      "No Root Found",
			startPath: emptyDir,
			wantRoot:  "",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindRoot(tt.startPath)
			if (err != nil) != tt.wantErr {
				t.Errorf("FindRoot() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			// Compare cleaned paths to avoid trailing slash issues
			if got != "" {
				if filepath.Clean(got) != filepath.Clean(tt.wantRoot) {
					t.Errorf("FindRoot() = %v, want %v", got, tt.wantRoot)
				}
			}
		})
	}
}

func TestFindRoot_Markers(t *testing.T) {
	// /tmp/
	//   repo/ (.git)
	//     blog/ (folio.yaml)
	//       posts/
	//     docs/
	baseDir := t.TempDir()
	repoDir := filepath.Join(baseDir, "repo")
	blogDir := filepath.Join(repoDir, "blog")
	postsDir := filepath.Join(blogDir, "posts")
	docsDir := filepath.Join(repoDir, "docs")

	for _, dir := range []string{filepath.Join(repoDir, ".git"), postsDir, docsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(blogDir, "folio.yaml"), nil, 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		startPath string
		wantRoot  string
	}{
		{
			name:      "Config Wins Over Parent Repository",
			startPath: postsDir,
			wantRoot:  blogDir,
		},
		{
			name:      "Config Directory Itself",
			startPath: blogDir,
			wantRoot:  blogDir,
		},
		{
			name:      "Repository Without Config",
			startPath: docsDir,
			wantRoot:  repoDir,
		},
		{
			name:      "Repository Root",
			startPath: repoDir,
			wantRoot:  repoDir,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindRoot(tt.startPath)
			if err != nil {
				t.Fatalf("FindRoot() error = %v", err)
			}
			if filepath.Clean(got) != filepath.Clean(tt.wantRoot) {
				t.Errorf("FindRoot() = %v, want %v", got, tt.wantRoot)
			}
		})
	}
}
