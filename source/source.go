// Package source provides the program text handed to the emulator: inline
// text, fenced code blocks, local files, and downloads by URL.
package source

import (
	"context"
	"io"
	"io/fs"
	"net/http"
	"os"
	"regexp"
	"strconv"

	"github.com/pkg/errors"

	"github.com/ezrec/nsb8/translate"
)

var f = translate.From

const (
	SIZE_LIMIT = 1 << 20 // Largest accepted program text, in bytes.
)

// Source is program text together with a status line describing where
// it came from. An empty Prefix adds nothing to the report.
type Source struct {
	Text   string
	Prefix string
}

// Provider fetches program text.
type Provider interface {
	Fetch(ctx context.Context) (src Source, err error)
}

var codeBlockRe = regexp.MustCompile("(?s)```(?:[A-Za-z0-9_+-]*\n)?(.*?)```")

// Text is program text typed inline. If it holds a fenced code block,
// only the first block is used.
type Text string

var _ Provider = Text("")

func (t Text) Fetch(ctx context.Context) (src Source, err error) {
	match := codeBlockRe.FindStringSubmatch(string(t))
	if match == nil {
		src.Text = string(t)
		return
	}

	src.Text = match[1]
	src.Prefix = f("Running code from code block.")
	return
}

// File is program text read from a file system.
type File struct {
	Path string
	FS   fs.FS // Defaults to the working directory.
}

var _ Provider = (*File)(nil)

func (fl *File) Fetch(ctx context.Context) (src Source, err error) {
	fsys := fl.FS
	if fsys == nil {
		fsys = os.DirFS(".")
	}

	info, err := fs.Stat(fsys, fl.Path)
	if err != nil {
		err = errors.Wrap(err, "read")
		return
	}
	if info.Size() > SIZE_LIMIT {
		err = errors.Errorf("read %v: file too large", fl.Path)
		return
	}

	data, err := fs.ReadFile(fsys, fl.Path)
	if err != nil {
		err = errors.Wrap(err, "read")
		return
	}

	src.Text = string(data)
	src.Prefix = f("Running code from file '%v'.", fl.Path)
	return
}

// URL is program text downloaded over HTTP.
type URL struct {
	Location string
	Client   *http.Client // Defaults to http.DefaultClient.
}

var _ Provider = (*URL)(nil)

func (u *URL) Fetch(ctx context.Context) (src Source, err error) {
	client := u.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.Location, nil)
	if err != nil {
		err = errors.Wrap(err, "fetch")
		return
	}

	resp, err := client.Do(req)
	if err != nil {
		err = errors.Wrap(err, "fetch")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = errors.Errorf("fetch %v: %v", u.Location, resp.Status)
		return
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, SIZE_LIMIT+1))
	if err != nil {
		err = errors.Wrap(err, "fetch")
		return
	}
	if len(data) > SIZE_LIMIT {
		err = errors.Errorf("fetch %v: larger than %v bytes", u.Location, strconv.Itoa(SIZE_LIMIT))
		return
	}

	src.Text = string(data)
	src.Prefix = f("Running code from downloaded file '%v'.", u.Location)
	return
}
