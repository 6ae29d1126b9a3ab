package autoload

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/addonkit/internal/ctxlog"
	"github.com/vk/addonkit/internal/host"
	"github.com/vk/addonkit/internal/registry"
)

// recorder collects "+id" / "-id" for every register / unregister call.
type recorder struct {
	calls []string
}

func (r *recorder) registered() []string   { return r.filter('+') }
func (r *recorder) unregistered() []string { return r.filter('-') }

func (r *recorder) filter(sign byte) []string {
	var out []string
	for _, c := range r.calls {
		if c[0] == sign {
			out = append(out, c[1:])
		}
	}
	return out
}

// probe is a registrable test entity.
type probe struct {
	id             string
	rec            *recorder
	failRegister   error
	failUnregister error
	panicRegister  bool
}

func (p *probe) Register(ctx context.Context, h host.Host) error {
	p.rec.calls = append(p.rec.calls, "+"+p.id)
	if p.panicRegister {
		panic("kaboom")
	}
	return p.failRegister
}

func (p *probe) Unregister(ctx context.Context, h host.Host) error {
	p.rec.calls = append(p.rec.calls, "-"+p.id)
	return p.failUnregister
}

// notRegistrable lacks the capability marker.
type notRegistrable struct{}

// probeCatalog registers one class implementation per id, plus "helper",
// which is not registrable.
func probeCatalog(rec *recorder, ids ...string) *registry.Registry {
	reg := registry.New()
	for _, id := range ids {
		reg.RegisterClass(id, func() any { return &probe{id: id, rec: rec} })
	}
	reg.RegisterClass("helper", func() any { return &notRegistrable{} })
	return reg
}

// writeTree writes files (slash-separated relative path -> content) under a
// fresh temp directory and returns its path.
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
	return root
}

// logContext returns a context whose logger writes debug output into buf.
func logContext(buf *bytes.Buffer) context.Context {
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return ctxlog.WithLogger(context.Background(), logger)
}

func newTestLoader(root string, reg *registry.Registry) (*Loader, *host.Memory) {
	h := host.NewMemory(nil)
	return New(Config{Root: root, Package: "addons"}, reg, h), h
}

func classBlock(name, impl string) string {
	return "class \"" + name + "\" {\n  impl = \"" + impl + "\"\n}\n"
}

func funcBlock(name, impl string) string {
	return "function \"" + name + "\" {\n  impl = \"" + impl + "\"\n}\n"
}
