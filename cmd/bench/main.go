package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/folio"
	"github.com/aretw0/folio/pkg/site"
)

func main() {
	count := flag.Int("count", 1000, "Number of posts to generate")
	runs := flag.Int("runs", 3, "Number of full rebuilds to time")
	keep := flag.Bool("keep", false, "Keep the benchmark site after running")
	flag.Parse()

	benchDir, err := os.MkdirTemp("", "folio_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	fmt.Printf("Generating %d posts in %s...\n", *count, benchDir)
	startGen := time.Now()
	if err := generate(benchDir, *count); err != nil {
		panic(err)
	}
	fmt.Printf("Generation took: %v\n", time.Since(startGen))

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	s, err := folio.Open(benchDir, folio.WithLogger(logger), folio.WithPublishing(false))
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	var total time.Duration
	for i := 1; i <= *runs; i++ {
		res, err := s.Build(ctx)
		if err != nil {
			panic(err)
		}
		total += res.Duration
		fmt.Printf("Run %d: %v (pages: %d)\n", i, res.Duration, res.PagesWritten)
	}
	if *runs > 0 {
		fmt.Printf("Average: %v\n", total/time.Duration(*runs))
	}

	state := s.Builder.State().(site.BuilderState)
	fmt.Printf("Builds: %d, failures: %d, last build: %s\n", state.Builds, state.Failures, state.LastBuildID)
}

// generate writes layouts and count posts spread over consecutive days.
func generate(root string, count int) error {
	layouts := map[string]string{
		"templates/post_layout.html": "<html><body><h1>{{title}}</h1><p>{{date}}</p>{{content}}</body></html>",
		"templates/blog_layout.html": "<html><body><ul>{{article_list}}</ul></body></html>",
	}
	for rel, content := range layouts {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			return err
		}
	}

	postsDir := filepath.Join(root, "posts")
	if err := os.MkdirAll(postsDir, 0755); err != nil {
		return err
	}
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		body := fmt.Sprintf("# Benchmark Post %d\nThis is a test post.\nIt has **two** lines.", i)
		content := fmt.Sprintf("Title: Post %d\nDate: %s\n\n%s", i, date, body)
		name := fmt.Sprintf("%s_Post_%d.md", date, i)
		if err := os.WriteFile(filepath.Join(postsDir, name), []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}
