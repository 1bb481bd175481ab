package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lrstanley/go-ytdlp"
)

// extractBase is the name, before the extension, yt-dlp saves media as.
const extractBase = "media"

var errNoExtension = errors.New("yt-dlp reported no extension")

// YTDLP is an Extractor backed by the yt-dlp executable.
type YTDLP struct {
	// Executable is the yt-dlp binary; empty looks it up on PATH.
	Executable string
}

func (y YTDLP) command() *ytdlp.Command {
	cmd := ytdlp.New().NoPlaylist().NoProgress()
	if y.Executable != "" {
		cmd.SetExecutable(y.Executable)
	}
	return cmd
}

func (y YTDLP) Extension(ctx context.Context, link string) (string, error) {
	res, err := y.command().Simulate().Print("%(ext)s").Run(ctx, link)
	if err != nil {
		return "", fmt.Errorf("yt-dlp %s: %w", link, err)
	}
	ext := lastLine(res.Stdout)
	if ext == "" || ext == "NA" {
		return "", fmt.Errorf("yt-dlp %s: %w", link, errNoExtension)
	}
	return "." + strings.ToLower(ext), nil
}

func (y YTDLP) Fetch(ctx context.Context, link, dir string) (string, error) {
	// yt-dlp expands %-sequences in the whole output template.
	tmpl := filepath.Join(strings.ReplaceAll(dir, "%", "%%"), extractBase+".%(ext)s")
	if _, err := y.command().Output(tmpl).Run(ctx, link); err != nil {
		return "", fmt.Errorf("yt-dlp %s: %w", link, err)
	}
	return savedFile(dir)
}

// savedFile returns the single finished download in dir.
func savedFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("listing %s: %w", dir, err)
	}
	for _, e := range entries {
		name := e.Name()
		if e.Type().IsRegular() && strings.HasPrefix(name, extractBase+".") && !strings.HasSuffix(name, ".part") {
			return filepath.Join(dir, name), nil
		}
	}
	return "", fmt.Errorf("no file saved in %s", dir)
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
