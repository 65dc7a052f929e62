package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/ledongthuc/pdf"
)

// ErrEmptyScript is returned when a source yields no text.
var ErrEmptyScript = errors.New("importer: script is empty")

const defaultHTTPTimeout = 30 * time.Second

var (
	horizontalSpace = regexp.MustCompile(`[ \t\f\v]+`)
	blankRuns       = regexp.MustCompile(`\n{3,}`)
)

// Script is imported text plus a suggested title.
type Script struct {
	Title   string
	Content string
	Source  string
}

// Options configures an Importer. Zero values pick sensible defaults.
type Options struct {
	CacheDir  string
	Client    *http.Client
	Clipboard func() (string, error)
}

// Importer loads scripts from files, URLs and the clipboard.
type Importer struct {
	cacheDir  string
	client    *http.Client
	clipboard func() (string, error)
}

func New(opts Options) *Importer {
	imp := &Importer{cacheDir: opts.CacheDir, client: opts.Client, clipboard: opts.Clipboard}
	if imp.cacheDir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			base = os.TempDir()
		}
		imp.cacheDir = filepath.Join(base, "teleprompter", "imports")
	}
	if imp.client == nil {
		imp.client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	if imp.clipboard == nil {
		imp.clipboard = clipboard.ReadAll
	}
	return imp
}

// Load dispatches on the shape of source: http(s) URLs are fetched, anything
// else is read from disk.
func (i *Importer) Load(ctx context.Context, source string) (Script, error) {
	if IsURL(source) {
		return i.FromURL(ctx, source)
	}
	return i.FromFile(source)
}

// IsURL reports whether source looks like an http(s) URL.
func IsURL(source string) bool {
	u, err := url.Parse(source)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// FromFile reads a text or PDF file.
func (i *Importer) FromFile(filename string) (Script, error) {
	var (
		text string
		err  error
	)
	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		text, err = pdfText(filename)
	} else {
		var data []byte
		data, err = os.ReadFile(filename)
		text = string(data)
	}
	if err != nil {
		return Script{}, fmt.Errorf("importer: read %s: %w", filename, err)
	}
	return finish(text, filepath.Base(filename), filename)
}

// FromURL downloads a script through the on-disk cache.
func (i *Importer) FromURL(ctx context.Context, rawURL string) (Script, error) {
	cache, err := newURLCache(i.cacheDir, i.client)
	if err != nil {
		return Script{}, err
	}
	bodyPath, meta, err := cache.Fetch(ctx, rawURL)
	if err != nil {
		return Script{}, err
	}

	var text string
	if isPDF(rawURL, meta.ContentType) {
		text, err = pdfText(bodyPath)
	} else {
		var data []byte
		data, err = os.ReadFile(bodyPath)
		text = string(data)
	}
	if err != nil {
		return Script{}, fmt.Errorf("importer: read %s: %w", rawURL, err)
	}

	name := rawURL
	if u, perr := url.Parse(rawURL); perr == nil && path.Base(u.Path) != "/" && path.Base(u.Path) != "." {
		name = path.Base(u.Path)
	}
	return finish(text, name, rawURL)
}

// FromClipboard reads the system clipboard.
func (i *Importer) FromClipboard() (Script, error) {
	text, err := i.clipboard()
	if err != nil {
		return Script{}, fmt.Errorf("importer: read clipboard: %w", err)
	}
	return finish(text, "Clipboard", "clipboard")
}

func finish(text, fallbackTitle, source string) (Script, error) {
	text = normalize(text)
	if text == "" {
		return Script{}, fmt.Errorf("%w: %s", ErrEmptyScript, source)
	}
	return Script{Title: Title(text, fallbackTitle), Content: text, Source: source}, nil
}

// Title picks the first markdown heading, else the first non-empty line,
// else fallback with its extension removed.
func Title(text, fallback string) string {
	firstLine := ""
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			if heading := strings.TrimSpace(strings.TrimLeft(line, "#")); heading != "" {
				return heading
			}
		}
		if firstLine == "" {
			firstLine = line
		}
	}
	if name := strings.TrimSuffix(fallback, filepath.Ext(fallback)); name != "" && fallback != "Clipboard" {
		return name
	}
	if firstLine != "" {
		return firstLine
	}
	return fallback
}

func normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	for idx, line := range lines {
		lines[idx] = strings.TrimRight(line, " \t")
	}
	text = strings.Join(lines, "\n")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

func isPDF(rawURL, contentType string) bool {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil && mediaType == "application/pdf" {
		return true
	}
	if u, err := url.Parse(rawURL); err == nil {
		return strings.EqualFold(path.Ext(u.Path), ".pdf")
	}
	return false
}

func pdfText(filename string) (string, error) {
	file, reader, err := pdf.Open(filename)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer file.Close()

	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text: %w", err)
	}
	var builder strings.Builder
	if _, err := io.Copy(&builder, content); err != nil {
		return "", err
	}
	return horizontalSpace.ReplaceAllString(builder.String(), " "), nil
}

func logf(format string, args ...any) {
	log.Printf("[importer] "+format, args...)
}
