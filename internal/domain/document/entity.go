// Package document implements the Document bounded context: the stored
// contract text that analyses are run against. Documents arrive as already
// extracted plain text; binary formats are rejected upstream. The aggregate
// owns content identity (size, hash) while blob placement belongs to the
// storage layer.
package document

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode/utf8"

	"github.com/turtacn/LexBridge-Intelligence/pkg/errors"
	"github.com/turtacn/LexBridge-Intelligence/pkg/types/common"
)

// Source identifies where an upload came from.
const (
	SourceAPI    = "api"
	SourceCLI    = "cli"
	SourceWorker = "worker"
)

// DefaultContentType is the only content type the platform stores.
const DefaultContentType = "text/plain; charset=utf-8"

// maxTitleRunes bounds stored titles; longer titles are cut, not rejected.
const maxTitleRunes = 512

// Document is the aggregate root for stored contract text. Content itself
// lives in object storage under StorageKey; the aggregate keeps the
// identity-bearing metadata.
type Document struct {
	common.BaseEntity

	Title         string `json:"title"`
	ContentType   string `json:"content_type"`
	SizeBytes     int64  `json:"size_bytes"`
	ContentSHA256 string `json:"content_sha256"`
	StorageKey    string `json:"storage_key,omitempty"`
	Source        string `json:"source"`
}

// New constructs a Document from raw text, enforcing construction
// invariants: content must be non-empty after trimming and must be valid
// UTF-8. The title falls back to "Untitled" and is bounded.
func New(title, content, source string) (*Document, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, errors.New(errors.ErrCodeDocumentEmpty, "document content is empty")
	}
	if !utf8.ValidString(content) {
		return nil, errors.NewInvalidInput("document content is not valid UTF-8 text")
	}
	if source == "" {
		source = SourceAPI
	}

	sum := sha256.Sum256([]byte(content))

	d := &Document{
		BaseEntity:    common.NewBaseEntity(),
		Title:         normalizeTitle(title),
		ContentType:   DefaultContentType,
		SizeBytes:     int64(len(content)),
		ContentSHA256: hex.EncodeToString(sum[:]),
		Source:        source,
	}
	return d, nil
}

// AttachStorageKey records where the blob was placed. Called by the
// application layer after a successful upload.
func (d *Document) AttachStorageKey(key string) {
	d.StorageKey = key
	d.Touch()
}

func normalizeTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Untitled"
	}
	runes := []rune(title)
	if len(runes) > maxTitleRunes {
		return string(runes[:maxTitleRunes])
	}
	return title
}

// HashContent returns the hex SHA-256 of content, the same identity the
// factory stamps on new documents. Used for upload deduplication lookups.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
