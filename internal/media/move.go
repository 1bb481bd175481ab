package media

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/alexanderramin/fangen/internal/template"
)

// Fallbacks for empty titles in destination paths.
const (
	NoTitle = "[notitle]"
	NoInfo  = "[noinfo]"
)

// Context keys the mover adds or adjusts.
const (
	KeyTitle      = "title"
	KeyInfo       = "info"
	KeySeq        = "n"
	KeyValueTitle = "value_title"
)

// MoveItem is one downloaded value to copy into the organized tree.
type MoveItem struct {
	ValueID         int64
	ValueTitle      string
	SubmissionTitle string
	// Seq is the 1-based position of the submission in the batch.
	Seq     int
	Context template.Context
}

// Mover copies downloaded files to paths built from a filename template.
type Mover struct {
	Template       string
	Dictionary     *template.Dictionary
	MaxTitleLength int
	Allowed        Exts
	DryRun         bool
}

// Destination returns the path of item relative to the output directory,
// as rendered from the template before segment sanitizing.
func (m *Mover) Destination(item MoveItem, ext string) string {
	ctx := item.Context.Clone()
	ctx.Set(KeySeq, fmt.Sprintf("%03d", item.Seq))
	ctx.Set(KeyValueTitle, item.ValueTitle)
	ctx.Set(KeyTitle, Truncate(fallback(ctx.Text(KeyTitle), NoTitle), m.MaxTitleLength))
	ctx.Set(KeyInfo, Truncate(fallback(ctx.Text(KeyInfo), NoInfo), m.MaxTitleLength))

	rendered := template.Substitute(m.Template, SanitizeContext(ctx), m.Dictionary)
	return rendered + "_" + strconv.FormatInt(item.ValueID, 10) + ext
}

func fallback(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// Move copies the file of item from in to its destination under out. The
// destination is never overwritten.
func (m *Mover) Move(item MoveItem, in, out string) (Result, error) {
	res := Result{
		Filename:        InternalName(item.ValueID, ""),
		ValueTitle:      item.ValueTitle,
		SubmissionTitle: item.SubmissionTitle,
	}

	src, err := FindByID(in, item.ValueID)
	if err != nil {
		return res, err
	}
	if src == "" {
		res.Status = StatusNotFound
		return res, nil
	}
	res.Filename = filepath.Base(src)

	ext := filepath.Ext(src)
	if !m.Allowed.Allows(ext) {
		res.Status = StatusSkip
		return res, nil
	}

	rel := m.Destination(item, ext)
	res.Status, res.Filename = StatusOK, rel
	if m.DryRun {
		return res, nil
	}
	if err := copyIfAbsent(src, SafeJoin(out, rel)); err != nil {
		return res, fmt.Errorf("copying %s: %w", src, err)
	}
	return res, nil
}

func copyIfAbsent(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	w, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return err
	}

	r, err := os.Open(src)
	if err != nil {
		w.Close()
		os.Remove(dst)
		return err
	}
	defer r.Close()

	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		os.Remove(dst)
		return err
	}
	return w.Close()
}
