package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"github.com/custodia-labs/ragman/internal/core/domain"
	"github.com/custodia-labs/ragman/internal/core/ports/driven"
)

// Ensure Connector implements the interface.
var _ driven.Connector = (*Connector)(nil)

// Connector ingests files from a local path. The path may be a
// directory, walked recursively, or a single file.
type Connector struct {
	sourceID   string
	rootPath   string
	extensions map[string]bool

	mu      sync.Mutex
	closed  bool
	watcher *fsnotify.Watcher
}

// New creates a filesystem connector rooted at rootPath. An empty
// extensions list admits every file; entries are matched against the
// file extension case-insensitively, with or without a leading dot.
func New(sourceID, rootPath string, extensions []string) *Connector {
	allow := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			allow[ext] = true
		}
	}
	return &Connector{
		sourceID:   sourceID,
		rootPath:   rootPath,
		extensions: allow,
	}
}

// Type returns the connector type identifier.
func (c *Connector) Type() string {
	return domain.SourceTypeFilesystem.String()
}

// SourceID returns the source identifier.
func (c *Connector) SourceID() string {
	return c.sourceID
}

// Capabilities returns the connector's capabilities.
func (c *Connector) Capabilities() driven.ConnectorCapabilities {
	return driven.ConnectorCapabilities{
		SupportsWatch:      true,
		SupportsValidation: true,
	}
}

// Validate checks that the configured path exists and is readable.
func (c *Connector) Validate(ctx context.Context) error {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return domain.ErrConnectorClosed
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	info, err := os.Stat(c.rootPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("path %s does not exist", c.rootPath)
		}
		return fmt.Errorf("path %s: %w", c.rootPath, err)
	}

	if info.IsDir() {
		if _, err := os.ReadDir(c.rootPath); err != nil {
			return fmt.Errorf("path %s is not readable: %w", c.rootPath, err)
		}
	}
	return nil
}

// Fetch walks the root path and emits one RawDocument per admitted
// file. Hidden files and directories are skipped. Both channels close
// when the walk completes or the context is cancelled.
func (c *Connector) Fetch(ctx context.Context) (<-chan domain.RawDocument, <-chan error) {
	docsChan := make(chan domain.RawDocument)
	errsChan := make(chan error, 1)

	go func() {
		defer close(docsChan)
		defer close(errsChan)

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			errsChan <- domain.ErrConnectorClosed
			return
		}
		c.mu.Unlock()

		info, err := os.Stat(c.rootPath)
		if err != nil {
			if os.IsNotExist(err) {
				errsChan <- fmt.Errorf("path %s does not exist", c.rootPath)
			} else {
				errsChan <- fmt.Errorf("stat %s: %w", c.rootPath, err)
			}
			return
		}

		// A single file bypasses the walk and the allowlist: the user
		// named it explicitly.
		if !info.IsDir() {
			doc, err := c.readDocument(c.rootPath)
			if err != nil {
				errsChan <- err
				return
			}
			select {
			case <-ctx.Done():
			case docsChan <- *doc:
			}
			return
		}

		walkErr := filepath.WalkDir(c.rootPath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			if d.IsDir() {
				if path != c.rootPath && isHidden(path) {
					return filepath.SkipDir
				}
				return nil
			}
			if isHidden(path) || !c.admits(path) {
				return nil
			}

			doc, err := c.readDocument(path)
			if err != nil {
				// One unreadable file should not abort the walk.
				select {
				case <-ctx.Done():
					return ctx.Err()
				case errsChan <- err:
				}
				return nil
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case docsChan <- *doc:
			}
			return nil
		})

		if walkErr != nil && ctx.Err() == nil {
			errsChan <- fmt.Errorf("walk %s: %w", c.rootPath, walkErr)
		}
	}()

	return docsChan, errsChan
}

// Watch emits change events for the root path until the context is
// cancelled. Subdirectories created while watching are added to the
// watch set.
func (c *Connector) Watch(ctx context.Context) (<-chan domain.RawDocumentChange, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, domain.ErrConnectorClosed
	}

	info, err := os.Stat(c.rootPath)
	if err != nil {
		return nil, fmt.Errorf("root path error: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	// Watch the root and every non-hidden subdirectory; fsnotify is
	// not recursive.
	if info.IsDir() {
		err = filepath.WalkDir(c.rootPath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if path != c.rootPath && isHidden(path) {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		})
	} else {
		err = watcher.Add(filepath.Dir(c.rootPath))
	}
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", c.rootPath, err)
	}

	c.watcher = watcher
	rootIsFile := !info.IsDir()
	changesChan := make(chan domain.RawDocumentChange)

	go func() {
		defer close(changesChan)
		defer watcher.Close()

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				// A single-file root watches its parent directory;
				// ignore the siblings.
				if rootIsFile && event.Name != c.rootPath {
					continue
				}
				// New directories join the watch set so their files
				// are seen.
				if event.Op.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						if !isHidden(event.Name) {
							_ = watcher.Add(event.Name)
						}
						continue
					}
				}
				change := c.handleFsEvent(event)
				if change == nil {
					continue
				}
				select {
				case <-ctx.Done():
					return
				case changesChan <- *change:
				}

			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return changesChan, nil
}

// Close releases watch resources. It is safe to call multiple times.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	if c.watcher != nil {
		err := c.watcher.Close()
		c.watcher = nil
		return err
	}
	return nil
}

// handleFsEvent translates one fsnotify event into a document change.
// Returns nil for events that should be ignored (directories, hidden
// files, attribute-only changes, filtered extensions).
func (c *Connector) handleFsEvent(event fsnotify.Event) *domain.RawDocumentChange {
	if isHidden(event.Name) {
		return nil
	}

	switch {
	case event.Op.Has(fsnotify.Create), event.Op.Has(fsnotify.Write):
		info, err := os.Stat(event.Name)
		if err != nil || info.IsDir() {
			return nil
		}
		if !c.admits(event.Name) {
			return nil
		}
		doc, err := c.readDocument(event.Name)
		if err != nil {
			return nil
		}
		changeType := domain.ChangeUpdated
		if event.Op.Has(fsnotify.Create) {
			changeType = domain.ChangeCreated
		}
		return &domain.RawDocumentChange{
			Type:     changeType,
			Document: *doc,
		}

	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		if !c.admits(event.Name) {
			return nil
		}
		// The file is gone; only identity fields can be populated.
		return &domain.RawDocumentChange{
			Type: domain.ChangeDeleted,
			Document: domain.RawDocument{
				ID:         DocumentID(event.Name),
				SourceID:   c.sourceID,
				Name:       filepath.Base(event.Name),
				URI:        event.Name,
				SourceKind: domain.SourceKindFile,
			},
		}

	default:
		return nil
	}
}

// readDocument reads one file into a RawDocument.
func (c *Connector) readDocument(path string) (*domain.RawDocument, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return &domain.RawDocument{
		ID:         DocumentID(path),
		SourceID:   c.sourceID,
		Name:       filepath.Base(path),
		URI:        path,
		MIMEType:   detectMIMEType(path),
		Content:    content,
		SourceKind: domain.SourceKindFile,
		FetchedAt:  time.Now(),
	}, nil
}

// admits reports whether the extension allowlist accepts the file.
func (c *Connector) admits(path string) bool {
	if len(c.extensions) == 0 {
		return true
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	return c.extensions[ext]
}

// DocumentID derives the stable document identifier for a file path.
// The same path always produces the same ID, so re-ingesting a file
// replaces its previous version.
func DocumentID(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+path)).String()
}

// fallbackMIMETypes covers extensions Go's mime package misses on a
// bare system.
var fallbackMIMETypes = map[string]string{
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".txt":      "text/plain",
	".go":       "text/x-go",
	".py":       "text/x-python",
	".rs":       "text/x-rust",
	".ts":       "text/typescript",
	".yaml":     "text/yaml",
	".yml":      "text/yaml",
	".toml":     "text/toml",
	".sh":       "text/x-shellscript",
	".sql":      "text/x-sql",
	".eml":      "message/rfc822",
	".docx":     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// detectMIMEType maps a filename to a MIME type. Extensionless files
// are assumed to be plain text, unknown extensions opaque bytes.
func detectMIMEType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return "text/plain"
	}

	if mimeType, ok := fallbackMIMETypes[ext]; ok {
		return mimeType
	}

	if mimeType := mime.TypeByExtension(ext); mimeType != "" {
		// Strip parameters such as charset.
		if idx := strings.Index(mimeType, ";"); idx != -1 {
			mimeType = strings.TrimSpace(mimeType[:idx])
		}
		return mimeType
	}

	return "application/octet-stream"
}

// isHidden reports whether any path component starts with a dot.
// The relative markers "." and ".." do not count.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == "." || part == ".." {
			continue
		}
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
