package markup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/phanxgames/visor"
)

// maxDocumentSize bounds documents fetched over HTTP.
const maxDocumentSize = 8 << 20

// Loader turns markup documents into entity trees using a Registry.
// A Loader is not safe for concurrent use; entity construction happens on
// the calling goroutine, so load on the render thread or before the tree is
// attached to an App.
type Loader struct {
	Registry *Registry
	// Handles backs created entities and resources with foreign objects.
	// When nil, plain entities without handles are built.
	Handles *visor.Handles
	// Logger receives skipped-attribute and skipped-tag diagnostics. Nil
	// discards them.
	Logger *log.Logger
	// Client is used by ParseURI. Nil means http.DefaultClient.
	Client *http.Client

	source string
}

// NewLoader returns a loader for reg. hs may be nil.
func NewLoader(reg *Registry, hs *visor.Handles) *Loader {
	if reg == nil {
		panic("markup: NewLoader with nil Registry")
	}
	return &Loader{Registry: reg, Handles: hs}
}

func (l *Loader) logf(format string, args ...any) {
	if l.Logger == nil {
		return
	}
	l.Logger.Printf("markup: %s: "+format, append([]any{l.source}, args...)...)
}

func (l *Loader) newEntity() *visor.Entity {
	if l.Handles != nil {
		return l.Handles.NewEntity()
	}
	return visor.NewEntity()
}

func (l *Loader) allocate(kind visor.ResourceKind) *visor.Handle {
	if l.Handles == nil {
		return nil
	}
	return l.Handles.Allocate(kind)
}

// Parse decodes one document from r and builds its tree. source names the
// document in errors and log lines.
func (l *Loader) Parse(r io.Reader, source string, format Format) (*visor.Entity, error) {
	el, err := Decode(r, format)
	if err != nil {
		return nil, &Error{Source: source, Err: err}
	}
	return l.Build(el, source)
}

// ParseFile loads a document from disk. The format follows the extension.
func (l *Loader) ParseFile(name string) (*visor.Entity, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, &Error{Source: name, Err: err}
	}
	defer f.Close()
	return l.Parse(f, name, FormatForPath(name))
}

// ParseFS loads a document from an fs.FS, for embedded assets.
func (l *Loader) ParseFS(fsys fs.FS, name string) (*visor.Entity, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, &Error{Source: name, Err: err}
	}
	defer f.Close()
	return l.Parse(f, name, FormatForPath(name))
}

// ParseURI loads a document from an http(s) or file URI. The format follows
// the path extension, or a yaml Content-Type for HTTP responses.
func (l *Loader) ParseURI(ctx context.Context, uri string) (*visor.Entity, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, &Error{Source: uri, Err: err}
	}
	switch u.Scheme {
	case "file":
		return l.ParseFile(u.Path)
	case "http", "https":
	default:
		return nil, &Error{Source: uri, Err: fmt.Errorf("unsupported scheme %q", u.Scheme)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, &Error{Source: uri, Err: err}
	}
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{Source: uri, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Source: uri, Err: fmt.Errorf("http status %s", resp.Status)}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, &Error{Source: uri, Err: err}
	}

	format := FormatForPath(path.Base(u.Path))
	if strings.Contains(resp.Header.Get("Content-Type"), "yaml") {
		format = FormatYAML
	}
	return l.Parse(bytes.NewReader(data), uri, format)
}

// Build creates the entity tree for a decoded element.
func (l *Loader) Build(el *Element, source string) (*visor.Entity, error) {
	l.source = source
	fn, ok := l.Registry.tag(el.Tag)
	if !ok {
		return nil, &Error{Source: source, Err: fmt.Errorf("%w %q", ErrUnknownRoot, el.Tag)}
	}
	root, err := fn(l, el)
	if err != nil {
		return nil, &Error{Source: source, Err: err}
	}
	l.populate(root, el)
	return root, nil
}

// populate applies attributes in document order, then builds children.
func (l *Loader) populate(e *visor.Entity, el *Element) {
	for _, a := range el.Attrs {
		fn, ok := l.Registry.attr(a.Name)
		if !ok {
			continue
		}
		if err := fn(l, e, a.Value); err != nil {
			l.logf("<%s %s=%q>: %v", el.Tag, a.Name, a.Value, err)
		}
	}
	for _, c := range el.Children {
		if c.Tag == "scene" {
			l.logf("nested <scene> skipped")
			continue
		}
		fn, ok := l.Registry.tag(c.Tag)
		if !ok {
			l.logf("unknown tag <%s> skipped", c.Tag)
			continue
		}
		child, err := fn(l, c)
		if err != nil {
			l.logf("<%s>: %v", c.Tag, err)
			continue
		}
		l.populate(child, c)
		e.AddChild(child)
	}
}

func asScene(e *visor.Entity, source string, err error) (*visor.Scene, error) {
	if err != nil {
		return nil, err
	}
	if s := e.Scene(); s != nil {
		return s, nil
	}
	return nil, &Error{Source: source, Err: ErrNotScene}
}

// LoadScene is Parse for documents whose root is a scene tag.
func (l *Loader) LoadScene(r io.Reader, source string, format Format) (*visor.Scene, error) {
	e, err := l.Parse(r, source, format)
	return asScene(e, source, err)
}

// LoadSceneFile is ParseFile for scene documents.
func (l *Loader) LoadSceneFile(name string) (*visor.Scene, error) {
	e, err := l.ParseFile(name)
	return asScene(e, name, err)
}

// LoadSceneFS is ParseFS for scene documents.
func (l *Loader) LoadSceneFS(fsys fs.FS, name string) (*visor.Scene, error) {
	e, err := l.ParseFS(fsys, name)
	return asScene(e, name, err)
}

// LoadSceneURI is ParseURI for scene documents.
func (l *Loader) LoadSceneURI(ctx context.Context, uri string) (*visor.Scene, error) {
	e, err := l.ParseURI(ctx, uri)
	return asScene(e, uri, err)
}

// IsNotScene reports whether err came from loading a non-scene document
// through one of the LoadScene functions.
func IsNotScene(err error) bool {
	return errors.Is(err, ErrNotScene)
}
