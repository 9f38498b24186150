package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragman/internal/core/domain"
	"github.com/custodia-labs/ragman/internal/core/ports/driven"
)

func TestNew(t *testing.T) {
	t.Run("creates connector with valid parameters", func(t *testing.T) {
		connector := New("test-source-123", "/tmp/test", nil)

		require.NotNil(t, connector)
		assert.Equal(t, "test-source-123", connector.sourceID)
		assert.Equal(t, "/tmp/test", connector.rootPath)
	})

	t.Run("implements Connector interface", func(t *testing.T) {
		var _ driven.Connector = New("test", "/tmp", nil)
	})

	t.Run("normalises extension allowlist", func(t *testing.T) {
		connector := New("test", "/tmp", []string{" .MD ", "txt", "", ".Go"})

		assert.True(t, connector.admits("notes.md"))
		assert.True(t, connector.admits("readme.TXT"))
		assert.True(t, connector.admits("main.go"))
		assert.False(t, connector.admits("data.json"))
	})

	t.Run("empty allowlist admits everything", func(t *testing.T) {
		connector := New("test", "/tmp", nil)

		assert.True(t, connector.admits("anything.xyz"))
		assert.True(t, connector.admits("no-extension"))
	})
}

func TestConnector_Type(t *testing.T) {
	connector := New("test-source", "/tmp/test", nil)

	assert.Equal(t, "filesystem", connector.Type())
}

func TestConnector_SourceID(t *testing.T) {
	connector := New("my-source-id", "/tmp/test", nil)

	assert.Equal(t, "my-source-id", connector.SourceID())
}

func TestConnector_Capabilities(t *testing.T) {
	connector := New("test-source", "/tmp/test", nil)

	caps := connector.Capabilities()

	assert.True(t, caps.SupportsWatch, "should support watch")
	assert.True(t, caps.SupportsValidation, "should support validation")
}

func TestConnector_Validate(t *testing.T) {
	t.Run("valid directory succeeds", func(t *testing.T) {
		connector := New("test-source", t.TempDir(), nil)

		assert.NoError(t, connector.Validate(context.Background()))
	})

	t.Run("single file succeeds", func(t *testing.T) {
		tempDir := t.TempDir()
		filePath := filepath.Join(tempDir, "file.txt")
		require.NoError(t, os.WriteFile(filePath, []byte("content"), 0644))

		connector := New("test-source", filePath, nil)

		assert.NoError(t, connector.Validate(context.Background()))
	})

	t.Run("non-existent path returns error", func(t *testing.T) {
		connector := New("test-source", "/non/existent/path/12345", nil)

		err := connector.Validate(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("cancelled context returns context error", func(t *testing.T) {
		connector := New("test-source", t.TempDir(), nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := connector.Validate(ctx)

		assert.Equal(t, context.Canceled, err)
	})

	t.Run("closed connector returns error", func(t *testing.T) {
		connector := New("test-source", t.TempDir(), nil)
		require.NoError(t, connector.Close())

		err := connector.Validate(context.Background())

		assert.ErrorIs(t, err, domain.ErrConnectorClosed)
	})
}

// collectDocs drains both fetch channels and returns what they produced.
func collectDocs(t *testing.T, ctx context.Context, connector *Connector) ([]domain.RawDocument, []error) {
	t.Helper()

	docsChan, errsChan := connector.Fetch(ctx)

	var docs []domain.RawDocument
	var errs []error
	for docsChan != nil || errsChan != nil {
		select {
		case doc, ok := <-docsChan:
			if !ok {
				docsChan = nil
				continue
			}
			docs = append(docs, doc)
		case err, ok := <-errsChan:
			if !ok {
				errsChan = nil
				continue
			}
			errs = append(errs, err)
		}
	}
	return docs, errs
}

func TestConnector_Fetch(t *testing.T) {
	t.Run("fetches files from directory", func(t *testing.T) {
		tempDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "file1.txt"), []byte("content 1"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "file2.md"), []byte("# Markdown"), 0644))

		connector := New("test-source", tempDir, nil)

		docs, errs := collectDocs(t, context.Background(), connector)

		assert.Empty(t, errs)
		assert.Len(t, docs, 2)
	})

	t.Run("skips hidden files and directories", func(t *testing.T) {
		tempDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "visible.txt"), []byte("visible"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, ".hidden.txt"), []byte("hidden"), 0644))

		hiddenDir := filepath.Join(tempDir, ".git")
		require.NoError(t, os.Mkdir(hiddenDir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(hiddenDir, "config"), []byte("cfg"), 0644))

		connector := New("test-source", tempDir, nil)

		docs, errs := collectDocs(t, context.Background(), connector)

		assert.Empty(t, errs)
		require.Len(t, docs, 1)
		assert.Contains(t, docs[0].URI, "visible.txt")
	})

	t.Run("extension allowlist filters files", func(t *testing.T) {
		tempDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "notes.md"), []byte("# Notes"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "data.json"), []byte("{}"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "readme.txt"), []byte("hi"), 0644))

		connector := New("test-source", tempDir, []string{"md", "txt"})

		docs, errs := collectDocs(t, context.Background(), connector)

		assert.Empty(t, errs)
		require.Len(t, docs, 2)
		for _, doc := range docs {
			assert.NotContains(t, doc.URI, "data.json")
		}
	})

	t.Run("single file root bypasses allowlist", func(t *testing.T) {
		tempDir := t.TempDir()
		filePath := filepath.Join(tempDir, "explicit.json")
		require.NoError(t, os.WriteFile(filePath, []byte(`{"a":1}`), 0644))

		connector := New("test-source", filePath, []string{"md"})

		docs, errs := collectDocs(t, context.Background(), connector)

		assert.Empty(t, errs)
		require.Len(t, docs, 1)
		assert.Equal(t, filePath, docs[0].URI)
	})

	t.Run("non-existent directory reports error", func(t *testing.T) {
		connector := New("test-source", "/non/existent/path", nil)

		docs, errs := collectDocs(t, context.Background(), connector)

		assert.Empty(t, docs)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0].Error(), "does not exist")
	})

	t.Run("closed connector reports error", func(t *testing.T) {
		connector := New("test-source", t.TempDir(), nil)
		require.NoError(t, connector.Close())

		docs, errs := collectDocs(t, context.Background(), connector)

		assert.Empty(t, docs)
		require.Len(t, errs, 1)
		assert.ErrorIs(t, errs[0], domain.ErrConnectorClosed)
	})

	t.Run("cancelled context closes channels", func(t *testing.T) {
		connector := New("test-source", t.TempDir(), nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		docsChan, errsChan := connector.Fetch(ctx)

		require.NotNil(t, docsChan)
		require.NotNil(t, errsChan)
		for range docsChan {
		}
		for range errsChan {
		}
	})

	t.Run("populates document fields", func(t *testing.T) {
		tempDir := t.TempDir()
		filePath := filepath.Join(tempDir, "test.txt")
		require.NoError(t, os.WriteFile(filePath, []byte("hello"), 0644))

		connector := New("test-source", tempDir, nil)

		docs, _ := collectDocs(t, context.Background(), connector)

		require.Len(t, docs, 1)
		doc := docs[0]
		assert.Equal(t, DocumentID(filePath), doc.ID)
		assert.Equal(t, "test-source", doc.SourceID)
		assert.Equal(t, "test.txt", doc.Name)
		assert.Equal(t, filePath, doc.URI)
		assert.Equal(t, "text/plain", doc.MIMEType)
		assert.Equal(t, []byte("hello"), doc.Content)
		assert.Equal(t, domain.SourceKindFile, doc.SourceKind)
		assert.False(t, doc.FetchedAt.IsZero())
	})

	t.Run("walks subdirectories", func(t *testing.T) {
		tempDir := t.TempDir()
		nested := filepath.Join(tempDir, "a", "b")
		require.NoError(t, os.MkdirAll(nested, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "root.txt"), []byte("r"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(nested, "deep.txt"), []byte("d"), 0644))

		connector := New("test-source", tempDir, nil)

		docs, errs := collectDocs(t, context.Background(), connector)

		assert.Empty(t, errs)
		assert.Len(t, docs, 2)
	})

	t.Run("document IDs are stable across fetches", func(t *testing.T) {
		tempDir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "stable.txt"), []byte("v1"), 0644))

		connector := New("test-source", tempDir, nil)

		first, _ := collectDocs(t, context.Background(), connector)
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, "stable.txt"), []byte("v2"), 0644))
		second, _ := collectDocs(t, context.Background(), connector)

		require.Len(t, first, 1)
		require.Len(t, second, 1)
		assert.Equal(t, first[0].ID, second[0].ID)
	})
}

func TestConnector_Watch(t *testing.T) {
	t.Run("emits create events", func(t *testing.T) {
		tempDir := t.TempDir()
		connector := New("test-source", tempDir, nil)
		defer connector.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changesChan, err := connector.Watch(ctx)
		require.NoError(t, err)

		testFile := filepath.Join(tempDir, "new-file.txt")
		go func() {
			time.Sleep(50 * time.Millisecond)
			os.WriteFile(testFile, []byte("content"), 0644)
		}()

		select {
		case change := <-changesChan:
			assert.Equal(t, domain.ChangeCreated, change.Type)
			assert.Equal(t, testFile, change.Document.URI)
			assert.Equal(t, DocumentID(testFile), change.Document.ID)
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for file change event")
		}
	})

	t.Run("emits update events", func(t *testing.T) {
		tempDir := t.TempDir()
		testFile := filepath.Join(tempDir, "test.txt")
		require.NoError(t, os.WriteFile(testFile, []byte("initial"), 0644))

		connector := New("test-source", tempDir, nil)
		defer connector.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changesChan, err := connector.Watch(ctx)
		require.NoError(t, err)

		go func() {
			time.Sleep(50 * time.Millisecond)
			os.WriteFile(testFile, []byte("modified"), 0644)
		}()

		select {
		case change := <-changesChan:
			assert.Equal(t, domain.ChangeUpdated, change.Type)
			assert.Equal(t, testFile, change.Document.URI)
			assert.Equal(t, []byte("modified"), change.Document.Content)
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for file modification event")
		}
	})

	t.Run("emits delete events with stable ID", func(t *testing.T) {
		tempDir := t.TempDir()
		testFile := filepath.Join(tempDir, "to-delete.txt")
		require.NoError(t, os.WriteFile(testFile, []byte("delete me"), 0644))

		connector := New("test-source", tempDir, nil)
		defer connector.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changesChan, err := connector.Watch(ctx)
		require.NoError(t, err)

		go func() {
			time.Sleep(50 * time.Millisecond)
			os.Remove(testFile)
		}()

		select {
		case change := <-changesChan:
			assert.Equal(t, domain.ChangeDeleted, change.Type)
			assert.Equal(t, testFile, change.Document.URI)
			assert.Equal(t, DocumentID(testFile), change.Document.ID)
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for file deletion event")
		}
	})

	t.Run("single file root ignores siblings", func(t *testing.T) {
		tempDir := t.TempDir()
		watched := filepath.Join(tempDir, "watched.txt")
		sibling := filepath.Join(tempDir, "sibling.txt")
		require.NoError(t, os.WriteFile(watched, []byte("w"), 0644))
		require.NoError(t, os.WriteFile(sibling, []byte("s"), 0644))

		connector := New("test-source", watched, nil)
		defer connector.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changesChan, err := connector.Watch(ctx)
		require.NoError(t, err)

		go func() {
			time.Sleep(50 * time.Millisecond)
			os.WriteFile(sibling, []byte("noise"), 0644)
			time.Sleep(100 * time.Millisecond)
			os.WriteFile(watched, []byte("signal"), 0644)
		}()

		select {
		case change := <-changesChan:
			assert.Equal(t, watched, change.Document.URI)
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for watched file event")
		}
	})

	t.Run("returns error for non-existent root", func(t *testing.T) {
		connector := New("test-source", "/non/existent/path", nil)

		changesChan, err := connector.Watch(context.Background())

		require.Error(t, err)
		assert.Nil(t, changesChan)
		assert.Contains(t, err.Error(), "root path error")
	})

	t.Run("returns error when connector is closed", func(t *testing.T) {
		connector := New("test-source", t.TempDir(), nil)
		require.NoError(t, connector.Close())

		changesChan, err := connector.Watch(context.Background())

		assert.ErrorIs(t, err, domain.ErrConnectorClosed)
		assert.Nil(t, changesChan)
	})

	t.Run("closes channel when context is cancelled", func(t *testing.T) {
		connector := New("test-source", t.TempDir(), nil)
		defer connector.Close()

		ctx, cancel := context.WithCancel(context.Background())

		changesChan, err := connector.Watch(ctx)
		require.NoError(t, err)

		cancel()

		select {
		case _, ok := <-changesChan:
			if ok {
				for range changesChan {
				}
			}
		case <-time.After(2 * time.Second):
			t.Fatal("channel did not close after context cancellation")
		}
	})
}

func TestConnector_Close(t *testing.T) {
	t.Run("close is idempotent", func(t *testing.T) {
		connector := New("test-source", "/tmp/test", nil)

		assert.NoError(t, connector.Close())
		assert.NoError(t, connector.Close())
	})

	t.Run("identity survives close", func(t *testing.T) {
		connector := New("test-source", "/tmp/test", nil)
		require.NoError(t, connector.Close())

		assert.Equal(t, "filesystem", connector.Type())
		assert.Equal(t, "test-source", connector.SourceID())
	})
}

func TestHandleFsEvent(t *testing.T) {
	tests := []struct {
		name           string
		setupFile      bool
		setupDir       bool
		setupHidden    bool
		extensions     []string
		operation      fsnotify.Op
		expectedChange bool
		expectedType   domain.ChangeType
	}{
		{
			name:           "create file event",
			setupFile:      true,
			operation:      fsnotify.Create,
			expectedChange: true,
			expectedType:   domain.ChangeCreated,
		},
		{
			name:           "write file event",
			setupFile:      true,
			operation:      fsnotify.Write,
			expectedChange: true,
			expectedType:   domain.ChangeUpdated,
		},
		{
			name:           "remove file event",
			operation:      fsnotify.Remove,
			expectedChange: true,
			expectedType:   domain.ChangeDeleted,
		},
		{
			name:           "rename file event",
			operation:      fsnotify.Rename,
			expectedChange: true,
			expectedType:   domain.ChangeDeleted,
		},
		{
			name:           "chmod event is ignored",
			setupFile:      true,
			operation:      fsnotify.Chmod,
			expectedChange: false,
		},
		{
			name:           "directory create is ignored",
			setupDir:       true,
			operation:      fsnotify.Create,
			expectedChange: false,
		},
		{
			name:           "hidden file is ignored",
			setupHidden:    true,
			operation:      fsnotify.Create,
			expectedChange: false,
		},
		{
			name:           "filtered extension is ignored",
			setupFile:      true,
			extensions:     []string{"md"},
			operation:      fsnotify.Write,
			expectedChange: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()

			var eventPath string
			switch {
			case tt.setupDir:
				eventPath = filepath.Join(tempDir, "testdir")
				require.NoError(t, os.Mkdir(eventPath, 0755))
			case tt.setupHidden:
				eventPath = filepath.Join(tempDir, ".hidden.txt")
				require.NoError(t, os.WriteFile(eventPath, []byte("hidden"), 0644))
			case tt.setupFile:
				eventPath = filepath.Join(tempDir, "test.txt")
				require.NoError(t, os.WriteFile(eventPath, []byte("content"), 0644))
			default:
				eventPath = filepath.Join(tempDir, "removed.txt")
			}

			connector := New("test-source", tempDir, tt.extensions)
			event := fsnotify.Event{Name: eventPath, Op: tt.operation}

			change := connector.handleFsEvent(event)

			if !tt.expectedChange {
				assert.Nil(t, change, "expected no change but got one")
				return
			}
			require.NotNil(t, change, "expected change but got nil")
			assert.Equal(t, tt.expectedType, change.Type)
			assert.Equal(t, eventPath, change.Document.URI)
			assert.Equal(t, "test-source", change.Document.SourceID)
			if tt.setupFile && tt.expectedType != domain.ChangeDeleted {
				assert.NotEmpty(t, change.Document.Content)
			}
		})
	}

	t.Run("combined write and chmod is an update", func(t *testing.T) {
		tempDir := t.TempDir()
		testFile := filepath.Join(tempDir, "test.txt")
		require.NoError(t, os.WriteFile(testFile, []byte("content"), 0644))

		connector := New("test-source", tempDir, nil)
		event := fsnotify.Event{Name: testFile, Op: fsnotify.Write | fsnotify.Chmod}

		change := connector.handleFsEvent(event)

		require.NotNil(t, change)
		assert.Equal(t, domain.ChangeUpdated, change.Type)
	})
}

func TestDetectMIMEType(t *testing.T) {
	tests := []struct {
		filename     string
		expectedMIME string
	}{
		// No extension is assumed text
		{"file", "text/plain"},
		{"Makefile", "text/plain"},

		// Fallback types
		{"doc.md", "text/markdown"},
		{"doc.markdown", "text/markdown"},
		{"notes.txt", "text/plain"},
		{"code.go", "text/x-go"},
		{"script.py", "text/x-python"},
		{"lib.rs", "text/x-rust"},
		{"app.ts", "text/typescript"},
		{"config.yaml", "text/yaml"},
		{"config.yml", "text/yaml"},
		{"config.toml", "text/toml"},
		{"script.sh", "text/x-shellscript"},
		{"query.sql", "text/x-sql"},
		{"mail.eml", "message/rfc822"},
		{"report.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},

		// Standard types from Go's mime package
		{"data.json", "application/json"},
		{"page.html", "text/html"},
		{"doc.pdf", "application/pdf"},

		// Unknown extensions are opaque
		{"file.zzzzunknown", "application/octet-stream"},

		// Case insensitive
		{"FILE.MD", "text/markdown"},
		{"File.Toml", "text/toml"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.expectedMIME, detectMIMEType(tt.filename))
		})
	}

	t.Run("strips charset parameters", func(t *testing.T) {
		for _, file := range []string{"file.html", "file.css", "file.js"} {
			mimeType := detectMIMEType(file)
			assert.NotContains(t, mimeType, "charset")
			assert.NotContains(t, mimeType, ";")
		}
	})
}

func TestIsHidden(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{".hidden", true},
		{"path/to/.hidden", true},
		{"/home/user/.ssh/id_rsa", true},
		{"dir/.git/config", true},

		{"file.txt", false},
		{"path/to/file.txt", false},
		{"file.hidden", false},

		// Relative markers do not count
		{".", false},
		{"..", false},
		{"path/./file", false},
		{"path/../file", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, isHidden(tt.path))
		})
	}
}

func TestDocumentID(t *testing.T) {
	t.Run("is deterministic", func(t *testing.T) {
		assert.Equal(t, DocumentID("/data/a.txt"), DocumentID("/data/a.txt"))
	})

	t.Run("differs per path", func(t *testing.T) {
		assert.NotEqual(t, DocumentID("/data/a.txt"), DocumentID("/data/b.txt"))
	})

	t.Run("is a valid UUID", func(t *testing.T) {
		_, err := uuid.Parse(DocumentID("/data/a.txt"))
		assert.NoError(t, err)
	})
}
