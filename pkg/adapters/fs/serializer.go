package fs

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/folio/pkg/core"
)

const (
	titlePrefix = "Title:"
	datePrefix  = "Date:"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// HeaderError describes why a source file could not be parsed.
// It unwraps to core.ErrCorruptDocument.
type HeaderError struct {
	Path   string
	Reason string
}

func (e *HeaderError) Error() string {
	return "corrupt document " + e.Path + ": " + e.Reason
}

func (e *HeaderError) Unwrap() error { return core.ErrCorruptDocument }

// Parse decodes a source file:
//
//	Title: <title>
//	Date: <date>
//	<blank>
//	<body...>
//
// The header shape is validated rather than trusted; a missing line, a wrong
// prefix, an empty value or a non-blank separator is a *HeaderError.
func Parse(docPath string, data []byte) (core.Document, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	rest := string(data)

	line1, rest, ok := nextLine(rest)
	if !ok {
		return core.Document{}, &HeaderError{Path: docPath, Reason: "empty file"}
	}
	title, err := headerValue(docPath, line1, titlePrefix, 1)
	if err != nil {
		return core.Document{}, err
	}

	line2, rest, ok := nextLine(rest)
	if !ok {
		return core.Document{}, &HeaderError{Path: docPath, Reason: "missing Date header on line 2"}
	}
	date, err := headerValue(docPath, line2, datePrefix, 2)
	if err != nil {
		return core.Document{}, err
	}

	sep, rest, ok := nextLine(rest)
	if ok && strings.TrimSpace(sep) != "" {
		return core.Document{}, &HeaderError{Path: docPath, Reason: "line 3 must be blank"}
	}

	return core.Document{
		Title: title,
		Date:  date,
		Body:  rest,
		Path:  docPath,
	}, nil
}

// Serialize encodes a document in the fixed header format.
func Serialize(doc core.Document) []byte {
	var buf bytes.Buffer
	buf.WriteString(titlePrefix + " " + doc.Title + "\n")
	buf.WriteString(datePrefix + " " + doc.Date + "\n\n")
	buf.WriteString(doc.Body)
	return buf.Bytes()
}

// validateHeader reports values that could not survive a Serialize/Parse round trip.
func validateHeader(doc core.Document) error {
	var problems []string
	for _, f := range []struct{ name, value string }{{"title", doc.Title}, {"date", doc.Date}} {
		switch {
		case strings.TrimSpace(f.value) == "":
			problems = append(problems, f.name+" is empty")
		case strings.ContainsAny(f.value, "\r\n"):
			problems = append(problems, f.name+" contains a line break")
		}
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", core.ErrInvalidDocument, strings.Join(problems, "; "))
}

// nextLine splits off one line, dropping a trailing carriage return.
// ok is false once s is exhausted.
func nextLine(s string) (line, rest string, ok bool) {
	if s == "" {
		return "", "", false
	}
	line, rest, _ = strings.Cut(s, "\n")
	return strings.TrimSuffix(line, "\r"), rest, true
}

func headerValue(docPath, line, prefix string, n int) (string, error) {
	if !strings.HasPrefix(line, prefix) {
		return "", &HeaderError{Path: docPath, Reason: "line " + strconv.Itoa(n) + " must start with " + prefix}
	}
	v := strings.TrimSpace(strings.TrimPrefix(line, prefix))
	if v == "" {
		return "", &HeaderError{Path: docPath, Reason: prefix + " header is empty"}
	}
	return v, nil
}
