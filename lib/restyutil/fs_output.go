package restyutil

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/go-resty/resty/v2"
)

// Output receives the dump of every exchange.
type Output interface {
	Write(id string, contents string)
}

// DumpExchanges writes every request made by client and the response it got to out,
// ids are "<sequence>-<method>-<path>".
func DumpExchanges(client *resty.Client, out Output) {
	var counter uint64
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		n := atomic.AddUint64(&counter, 1)
		out.Write(exchangeId(n, res.Request.Method, res.Request.URL), FormatExchange(res))
		return nil
	})
}

func exchangeId(n uint64, method, rawUrl string) string {
	path := rawUrl
	parsed, err := url.Parse(rawUrl)
	if err == nil {
		path = parsed.Path
	}
	path = strings.Trim(strings.ReplaceAll(path, "/", "_"), "_")
	if path == "" {
		path = "root"
	}
	return fmt.Sprintf("%04d-%s-%s", n, strings.ToLower(method), path)
}

type FilesystemOutput struct {
	directory string
}

// NewFilesystemOutput writes each exchange to its own file in dir, dir is emptied first.
func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	err := os.RemoveAll(dir)
	if err != nil {
		return FilesystemOutput{}, err
	}
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return FilesystemOutput{}, err
	}
	return FilesystemOutput{directory: dir}, nil
}

func (o FilesystemOutput) Write(id string, contents string) {
	err := os.WriteFile(filepath.Join(o.directory, id), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write exchange dump", "id", id, "err", err)
	}
}

// MemoryOutput keeps dumps in memory.
type MemoryOutput struct {
	mu    sync.Mutex
	dumps map[string]string
}

func NewMemoryOutput() *MemoryOutput {
	return &MemoryOutput{dumps: map[string]string{}}
}

func (o *MemoryOutput) Write(id string, contents string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.dumps[id] = contents
}

func (o *MemoryOutput) Dumps() map[string]string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make(map[string]string, len(o.dumps))
	for k, v := range o.dumps {
		out[k] = v
	}
	return out
}
