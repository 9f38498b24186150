// Package eml provides a Normaliser implementation for RFC 5322 email
// messages, parsed with stdlib net/mail. The subject line becomes the
// document name and the text body the content; HTML-only messages get
// their tags stripped the same way the markdown normaliser does.
package eml

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/ragman/internal/core/domain"
	"github.com/custodia-labs/ragman/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles email message documents.
type Normaliser struct{}

// New creates a new EML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"message/rfc822"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50 // Format-specific, above the plain text fallback
}

// Normalise extracts the subject and body text of an email message.
// A short provenance header (From, Date, Subject) keeps the message
// searchable by sender.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	msg, err := mail.ReadMessage(bytes.NewReader(raw.Content))
	if err != nil {
		return nil, fmt.Errorf("%w: parse message: %v", domain.ErrInvalidInput, err)
	}

	subject := decodeHeader(msg.Header.Get("Subject"))
	body := bodyText(msg)

	var sb strings.Builder
	if from := decodeHeader(msg.Header.Get("From")); from != "" {
		fmt.Fprintf(&sb, "From: %s\n", from)
	}
	if date := msg.Header.Get("Date"); date != "" {
		fmt.Fprintf(&sb, "Date: %s\n", date)
	}
	if subject != "" {
		fmt.Fprintf(&sb, "Subject: %s\n", subject)
	}
	if body != "" {
		sb.WriteString("\n")
		sb.WriteString(body)
	}

	doc := domain.Document{
		ID:       documentID(raw),
		SourceID: raw.SourceID,
		Content:  strings.TrimSpace(sb.String()),
		Metadata: domain.DocumentMetadata{
			Name:       documentName(raw, subject),
			SourceKind: raw.SourceKind,
			SizeBytes:  int64(len(raw.Content)),
		},
	}

	return &driven.NormaliseResult{
		Document: doc,
	}, nil
}

// bodyText returns the message body as plain text. Multipart messages
// prefer a text/plain part, then a tag-stripped text/html part.
func bodyText(msg *mail.Message) string {
	contentType := msg.Header.Get("Content-Type")
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		data, _ := io.ReadAll(msg.Body)
		if strings.HasPrefix(mediaType, "text/html") {
			return stripTags(string(data))
		}
		return strings.TrimSpace(string(data))
	}

	var plain, htmlPart string
	reader := multipart.NewReader(msg.Body, params["boundary"])
	for {
		part, err := reader.NextPart()
		if err != nil {
			break
		}
		partType, _, _ := mime.ParseMediaType(part.Header.Get("Content-Type"))
		data, _ := io.ReadAll(part)

		switch {
		case partType == "text/plain" && plain == "":
			plain = string(data)
		case partType == "text/html" && htmlPart == "":
			htmlPart = string(data)
		}
	}

	if plain != "" {
		return strings.TrimSpace(plain)
	}
	return stripTags(htmlPart)
}

var (
	allTags   = regexp.MustCompile(`<[^>]+>`)
	blankRuns = regexp.MustCompile(`\n{3,}`)
)

// stripTags flattens an HTML body to plain text.
func stripTags(s string) string {
	text := allTags.ReplaceAllString(s, " ")
	text = html.UnescapeString(text)
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// decodeHeader decodes RFC 2047 encoded-words, falling back to the
// raw value.
func decodeHeader(value string) string {
	dec := new(mime.WordDecoder)
	decoded, err := dec.DecodeHeader(value)
	if err != nil {
		return value
	}
	return decoded
}

// documentID keeps the connector-assigned identity so re-ingesting the
// same location replaces the stored document.
func documentID(raw *domain.RawDocument) string {
	if raw.ID != "" {
		return raw.ID
	}
	return uuid.New().String()
}

// documentName prefers the message subject, then the connector name,
// then a name derived from the URI.
func documentName(raw *domain.RawDocument, subject string) string {
	if subject != "" {
		return subject
	}
	if raw.Name != "" {
		return raw.Name
	}
	filename := filepath.Base(raw.URI)
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}
