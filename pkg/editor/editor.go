// Package editor implements the save and delete actions an authoring front
// end performs. The document being edited is explicit Session state passed
// into and returned from every action.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/folio/pkg/core"
	"github.com/aretw0/folio/pkg/git"
	"github.com/aretw0/folio/pkg/site"
)

// DateFormat is the sortable date stamp given to new documents.
const DateFormat = "2006-01-02"

// Session identifies the document being edited. The zero value means a new
// document.
type Session struct {
	TargetPath string
}

// IsEdit reports whether the session targets an existing document.
func (s Session) IsEdit() bool { return s.TargetPath != "" }

// Request is what a front end submits for a save.
type Request struct {
	Title        string
	Body         string
	IsEdit       bool
	ExistingPath string
}

// Outcome is what a front end displays after an action.
type Outcome struct {
	Success bool
	Message string
	Path    string
}

// Store is the document store surface the editor needs.
type Store interface {
	core.Store
	NewPath(date, title string) string
	Layout() core.Layout
}

// Rebuilder regenerates the site.
type Rebuilder interface {
	Rebuild(ctx context.Context) (site.Result, error)
}

// Publisher pushes the regenerated site.
type Publisher interface {
	Publish(message string) git.Result
}

// Config wires a Service.
type Config struct {
	Store     Store
	Builder   Rebuilder
	Publisher Publisher // optional; nil only rebuilds
	Logger    *slog.Logger
	Now       func() time.Time
	LockPath  string // optional; serializes rebuild and publish across processes
}

// Service performs editor actions against the store, builder and publisher.
type Service struct {
	store     Store
	builder   Rebuilder
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
	lockPath  string
}

// New creates a Service.
func New(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:     cfg.Store,
		builder:   cfg.Builder,
		publisher: cfg.Publisher,
		logger:    logger,
		now:       now,
		lockPath:  cfg.LockPath,
	}
}

// Apply handles a Request from a front end that does not keep a Session.
func (s *Service) Apply(ctx context.Context, req Request) Outcome {
	var sess Session
	if req.IsEdit {
		if req.ExistingPath == "" {
			return failure("edit requested without an existing document path", "")
		}
		sess.TargetPath = req.ExistingPath
	}
	_, out := s.Save(ctx, sess, req.Title, req.Body)
	return out
}

// Open starts an edit session for the document at docPath.
func (s *Service) Open(ctx context.Context, docPath string) (Session, core.Document, error) {
	doc, err := s.store.Get(ctx, docPath)
	if err != nil {
		return Session{}, core.Document{}, err
	}
	return Session{TargetPath: doc.Path}, doc, nil
}

// List returns every document, newest file name first.
func (s *Service) List(ctx context.Context) ([]core.Document, error) {
	docs, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(docs, func(i, j int) bool { return docs[i].Path > docs[j].Path })
	return docs, nil
}

// Save writes the title and body, then rebuilds and publishes.
//
// A new document gets today's date and a path derived from it and the
// title. An edit keeps the original path and date, whatever the new title.
// On success the returned Session is cleared; on failure it targets the
// document so a retry edits it instead of creating another one.
func (s *Service) Save(ctx context.Context, sess Session, title, body string) (Session, Outcome) {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	if title == "" || body == "" {
		return sess, failure("title and body are required", sess.TargetPath)
	}

	doc := core.Document{Title: title, Body: body}
	if sess.IsEdit() {
		existing, err := s.store.Get(ctx, sess.TargetPath)
		if err != nil {
			return sess, failure(fmt.Sprintf("cannot open %s: %v", sess.TargetPath, err), sess.TargetPath)
		}
		doc.Path = existing.Path
		doc.Date = existing.Date
	} else {
		doc.Date = s.now().Format(DateFormat)
		doc.Path = s.store.NewPath(doc.Date, title)
		if _, err := s.store.Get(ctx, doc.Path); err == nil {
			return sess, failure(fmt.Sprintf("%s already exists; open it to edit", doc.Path), "")
		} else if !errors.Is(err, core.ErrNotFound) {
			return sess, failure(fmt.Sprintf("cannot check %s: %v", doc.Path, err), "")
		}
	}

	if err := s.store.Save(ctx, doc); err != nil {
		return sess, failure(fmt.Sprintf("save failed: %v", err), sess.TargetPath)
	}
	s.logger.Info("document saved", "path", doc.Path, "edit", sess.IsEdit())

	saved := Session{TargetPath: doc.Path}
	if out := s.rebuildAndPublish(ctx, "Update post: "+title); !out.Success {
		out.Path = doc.Path
		return saved, out
	}
	return Session{}, Outcome{Success: true, Message: s.successMessage("saved " + doc.Path), Path: doc.Path}
}

// Delete removes the session's document and its page, then rebuilds and
// publishes.
func (s *Service) Delete(ctx context.Context, sess Session) (Session, Outcome) {
	if !sess.IsEdit() {
		return sess, failure("no document selected", "")
	}

	if err := s.store.Delete(ctx, sess.TargetPath); err != nil {
		return sess, failure(fmt.Sprintf("delete failed: %v", err), sess.TargetPath)
	}
	s.logger.Info("document deleted", "path", sess.TargetPath)

	page := s.store.Layout().OutputName(sess.TargetPath)
	if out := s.rebuildAndPublish(ctx, "Delete post: "+page); !out.Success {
		out.Path = sess.TargetPath
		return Session{}, out
	}
	return Session{}, Outcome{Success: true, Message: s.successMessage("deleted " + sess.TargetPath), Path: sess.TargetPath}
}

func (s *Service) rebuildAndPublish(ctx context.Context, message string) Outcome {
	if s.lockPath != "" {
		unlock, err := git.Lock(s.lockPath, s.logger)
		if err != nil {
			return failure(err.Error(), "")
		}
		defer unlock()
	}

	if _, err := s.builder.Rebuild(ctx); err != nil {
		return failure(fmt.Sprintf("rebuild failed: %v", err), "")
	}
	if s.publisher == nil {
		return Outcome{Success: true}
	}

	res := s.publisher.Publish(message)
	if !res.OK {
		return failure(res.Message, "")
	}
	return Outcome{Success: true, Message: res.Message}
}

func (s *Service) successMessage(action string) string {
	if s.publisher == nil {
		return action + "; site rebuilt"
	}
	return action + "; site rebuilt and published"
}

func failure(msg, path string) Outcome {
	return Outcome{Success: false, Message: msg, Path: path}
}
