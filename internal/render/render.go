package render

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/alexanderramin/fangen/internal/domain"
)

// DefaultUploadHost serves uploaded images and files.
const DefaultUploadHost = "cosplay2.ru"

// FileStyle selects how file values are rendered.
type FileStyle int

const (
	// FileLinks renders hosted files as download URLs and external links as-is.
	FileLinks FileStyle = iota
	// FileLabels renders "Файл: <name>" and "Ссылка: <link>".
	FileLabels
)

// Renderer converts raw values into display text.
type Renderer struct {
	UploadHost string
	Files      FileStyle
}

// New returns a Renderer for host; an empty host falls back to DefaultUploadHost.
func New(host string, files FileStyle) Renderer {
	if host == "" {
		host = DefaultUploadHost
	}
	return Renderer{UploadHost: host, Files: files}
}

// Owner identifies where a value's uploads live.
type Owner struct {
	EventID      int64
	SubmissionID int64
}

// Render returns the display text of v. The boolean is false when the value
// is absent; callers substitute their own placeholder. Malformed image, file
// and duration payloads fall back to the raw string.
func (r Renderer) Render(v domain.Value, owner Owner) (string, bool) {
	if v.Type == domain.ValueCheckbox {
		if Checked(v.Raw) {
			return "Да", true
		}
		return "Нет", true
	}
	if v.Raw == nil {
		return "", false
	}
	raw := *v.Raw

	switch v.Type {
	case domain.ValueImage:
		if img, err := ParseImage(raw); err == nil {
			return r.ImageURL(owner, img.Filename), true
		}
	case domain.ValueFile:
		f, err := ParseFile(raw)
		if errors.Is(err, ErrNoFile) {
			return "", false
		}
		if err == nil {
			return r.renderFile(f, owner), true
		}
	case domain.ValueDuration:
		if d, err := ParseDuration(raw); err == nil {
			return FormatDuration(d), true
		}
	}
	return raw, true
}

func (r Renderer) renderFile(f File, owner Owner) string {
	if r.Files == FileLabels {
		if f.Hosted() {
			return "Файл: " + f.Filename
		}
		return "Ссылка: " + f.Link
	}
	if f.Hosted() {
		return r.FileURL(owner, f.Filename)
	}
	return f.Link
}

// Link returns the download location of a media value: the hosted URL or the
// external link. Values without a file yield ErrNoFile.
func (r Renderer) Link(v domain.Value, owner Owner) (string, error) {
	if v.Raw == nil {
		return "", ErrNoFile
	}
	switch v.Type {
	case domain.ValueImage:
		img, err := ParseImage(*v.Raw)
		if err != nil {
			return "", err
		}
		return r.ImageURL(owner, img.Filename), nil
	case domain.ValueFile:
		f, err := ParseFile(*v.Raw)
		if err != nil {
			return "", err
		}
		if f.Hosted() {
			return r.FileURL(owner, f.Filename), nil
		}
		return f.Link, nil
	default:
		return "", fmt.Errorf("value type %q has no file: %w", v.Type, ErrNoFile)
	}
}

// Hosted reports whether link points into the upload folder of r's host.
func (r Renderer) Hosted(link string) bool {
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.UploadHost) && strings.HasPrefix(u.Path, "/uploads/")
}

// ImageURL builds the URL of an uploaded image.
func (r Renderer) ImageURL(owner Owner, filename string) string {
	return fmt.Sprintf("https://%s/uploads/%d/%d/%s.jpg", r.UploadHost, owner.EventID, owner.SubmissionID, filename)
}

// FileURL builds the URL of an uploaded file.
func (r Renderer) FileURL(owner Owner, filename string) string {
	return fmt.Sprintf("https://%s/uploads/%d/%d/%s", r.UploadHost, owner.EventID, owner.SubmissionID, filename)
}
