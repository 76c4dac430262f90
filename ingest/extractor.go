package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// TextExtractor turns a document source (file path or URL) into plain text.
// Rich-format parsing (PDF, DOCX, email) is an external concern; counsel
// consumes whatever plain text the extractor yields.
type TextExtractor interface {
	// Extract returns the plain text of the source.
	// Fails with ErrUnsupportedFormat, ErrDownloadFailed, or
	// ErrExtractionFailed.
	Extract(ctx context.Context, source string) (string, error)
}

// Plain-text source extensions the built-in extractor accepts.
var plainTextExtensions = map[string]bool{
	".txt":  true,
	".text": true,
	".md":   true,
	"":      true,
}

// PlainTextExtractor reads plain-text documents from local files or
// HTTP(S) URLs. Anything that is not plain text is rejected with
// ErrUnsupportedFormat.
type PlainTextExtractor struct {
	client *http.Client
	logger *slog.Logger
}

var _ TextExtractor = (*PlainTextExtractor)(nil)

// NewPlainTextExtractor creates the built-in plain-text extractor.
func NewPlainTextExtractor() *PlainTextExtractor {
	return &PlainTextExtractor{
		client: http.DefaultClient,
		logger: slog.Default().With("component", "text-extractor"),
	}
}

// Extract returns the plain text of a local file or URL source.
func (e *PlainTextExtractor) Extract(ctx context.Context, source string) (string, error) {
	if ext := strings.ToLower(filepath.Ext(strippedPath(source))); !plainTextExtensions[ext] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	var data []byte
	var err error
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		data, err = e.download(ctx, source)
	} else {
		data, err = os.ReadFile(source)
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrExtractionFailed, err)
		}
	}
	if err != nil {
		return "", err
	}

	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: source is not valid text", ErrExtractionFailed)
	}

	e.logger.Debug("extracted text", "source", source, "length", len(data))
	return string(data), nil
}

func (e *PlainTextExtractor) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrDownloadFailed, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDownloadFailed, err)
	}
	return data, nil
}

// strippedPath removes any URL query or fragment so extension checks work
// on URLs like https://host/policy.txt?token=abc.
func strippedPath(source string) string {
	if idx := strings.IndexAny(source, "?#"); idx >= 0 {
		return source[:idx]
	}
	return source
}
