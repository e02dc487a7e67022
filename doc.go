// Package folio is the composition root of a small static-site generator.
//
// A site is a directory of Markdown posts, each starting with a two-line
// header:
//
//	Title: Hello World
//	Date: 2024-06-01
//
//	Body text, where every newline is kept as a line break.
//
// A build renders every post into its own HTML page through a layout
// template and regenerates an index page listing all posts newest first.
// Builds are all-or-nothing: nothing is written unless every post rendered.
// Publishing stages, commits and pushes the working tree with git.
//
// Usage:
//
//	s, err := folio.Open("./blog", folio.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//
//	// Regenerate every page and the index.
//	res, err := s.Build(ctx)
//
//	// Or write a post, rebuild and publish in one step.
//	_, out := s.Editor.Save(ctx, editor.Session{}, "Hello World", "First post.")
package folio
