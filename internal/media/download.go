package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// sniffLen is how much of a response is read to detect its type.
const sniffLen = 3072

var plausibleExt = regexp.MustCompile(`^\.[A-Za-z0-9]{1,5}$`)

// DownloadItem is one media value to fetch.
type DownloadItem struct {
	ValueID         int64
	ValueTitle      string
	SubmissionTitle string
	Link            string
	// ExtHint is the extension reported by the upload, if any.
	ExtHint string
	// UpdatedAt is when the submission last changed; a local copy newer
	// than this is kept. Zero means always download.
	UpdatedAt time.Time
	// Hosted marks links into the upload folder, which are fetched with a
	// plain GET. Other links go through the Downloader's Extractor.
	Hosted bool
}

// Extractor fetches media behind pages that are not plain files, such as
// video hosting links.
type Extractor interface {
	// Extension reports the extension, with the dot, that link saves as.
	Extension(ctx context.Context, link string) (string, error)
	// Fetch saves the media behind link into dir and returns its path.
	Fetch(ctx context.Context, link, dir string) (string, error)
}

// Downloader fetches media values into a directory as "<value id>.<ext>".
type Downloader struct {
	HTTP    *http.Client
	Allowed Exts
	DryRun  bool
	Logger  *slog.Logger

	// Extractor handles links that are not Hosted; nil fetches them with GET.
	Extractor Extractor
}

// NewDownloader returns a Downloader using client, or a client with timeout
// when client is nil.
func NewDownloader(client *http.Client, timeout time.Duration, allowed Exts, dryRun bool, logger *slog.Logger) *Downloader {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Downloader{HTTP: client, Allowed: allowed, DryRun: dryRun, Logger: logger}
}

// Download fetches one item into dir. Fetch failures are reported in the
// Result; the error is reserved for problems writing to dir, which abort
// the run.
func (d *Downloader) Download(ctx context.Context, item DownloadItem, dir string) (Result, error) {
	res := Result{
		Filename:        InternalName(item.ValueID, ""),
		ValueTitle:      item.ValueTitle,
		SubmissionTitle: item.SubmissionTitle,
		Link:            item.Link,
	}
	if item.Link == "" {
		res.Status, res.Link = StatusFail, NotAttached
		return res, nil
	}

	existing, err := FindByID(dir, item.ValueID)
	if err != nil {
		return res, err
	}
	if existing != "" && fresh(existing, item.UpdatedAt) {
		res.Status, res.Filename = StatusOK, filepath.Base(existing)
		return res, nil
	}
	if !item.Hosted && d.Extractor != nil {
		return d.extract(ctx, item, dir, res)
	}

	resp, err := d.get(ctx, item.Link)
	if err != nil {
		d.Logger.Warn("media download failed", "link", item.Link, "error", err)
		res.Status = StatusFail
		return res, nil
	}
	defer resp.Body.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(resp.Body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		d.Logger.Warn("media download failed", "link", item.Link, "error", err)
		res.Status = StatusFail
		return res, nil
	}
	head = head[:n]

	mime := mimetype.Detect(head)
	if mime.Is("text/html") {
		d.Logger.Warn("media link is a web page", "link", item.Link)
		res.Status = StatusFail
		return res, nil
	}

	ext := extension(resp.Request.URL, item.ExtHint, mime)
	res.Filename = InternalName(item.ValueID, ext)
	if !d.Allowed.Allows(ext) {
		res.Status = StatusSkip
		return res, nil
	}
	if d.DryRun {
		res.Status = StatusOK
		return res, nil
	}

	if err := writeFile(filepath.Join(dir, res.Filename), io.MultiReader(bytes.NewReader(head), resp.Body)); err != nil {
		return res, fmt.Errorf("writing %s: %w", res.Filename, err)
	}
	if err := RemoveStale(dir, item.ValueID, res.Filename); err != nil {
		return res, err
	}
	res.Status = StatusOK
	return res, nil
}

// extract fetches a non-hosted link through the Extractor into a scratch
// folder under dir, then renames the result into place.
func (d *Downloader) extract(ctx context.Context, item DownloadItem, dir string, res Result) (Result, error) {
	ext, err := d.Extractor.Extension(ctx, item.Link)
	if err != nil {
		d.Logger.Warn("media extraction failed", "link", item.Link, "error", err)
		res.Status = StatusFail
		return res, nil
	}
	res.Filename = InternalName(item.ValueID, ext)
	if !d.Allowed.Allows(ext) {
		res.Status = StatusSkip
		return res, nil
	}
	if d.DryRun {
		res.Status = StatusOK
		return res, nil
	}

	scratch, err := os.MkdirTemp(dir, ".extract-*")
	if err != nil {
		return res, fmt.Errorf("writing %s: %w", res.Filename, err)
	}
	defer os.RemoveAll(scratch)

	got, err := d.Extractor.Fetch(ctx, item.Link, scratch)
	if err != nil {
		d.Logger.Warn("media extraction failed", "link", item.Link, "error", err)
		res.Status = StatusFail
		return res, nil
	}
	if ext := strings.ToLower(filepath.Ext(got)); ext != "" {
		res.Filename = InternalName(item.ValueID, ext)
	}
	if err := os.Rename(got, filepath.Join(dir, res.Filename)); err != nil {
		return res, fmt.Errorf("writing %s: %w", res.Filename, err)
	}
	if err := RemoveStale(dir, item.ValueID, res.Filename); err != nil {
		return res, err
	}
	res.Status = StatusOK
	return res, nil
}

func (d *Downloader) get(ctx context.Context, link string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, err
	}
	resp, err := d.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return resp, nil
}

// fresh reports whether the file at p was modified after updated.
func fresh(p string, updated time.Time) bool {
	if updated.IsZero() {
		return false
	}
	info, err := os.Stat(p)
	if err != nil {
		return false
	}
	return info.ModTime().After(updated)
}

// extension picks the file extension: from the final URL path, then the
// upload's own hint, then the sniffed content type.
func extension(u *url.URL, hint string, mime *mimetype.MIME) string {
	if u != nil {
		if ext := path.Ext(u.Path); plausibleExt.MatchString(ext) {
			return ext
		}
	}
	if hint != "" {
		if hint[0] != '.' {
			hint = "." + hint
		}
		if plausibleExt.MatchString(hint) {
			return hint
		}
	}
	if ext := mime.Extension(); ext != "" {
		return ext
	}
	return ".bin"
}

// writeFile streams r into p through a temporary file in the same directory.
func writeFile(p string, r io.Reader) error {
	tmp, err := os.CreateTemp(filepath.Dir(p), ".download-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, p); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
