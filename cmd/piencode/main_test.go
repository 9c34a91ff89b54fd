package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/piencode/cache"
	"github.com/arloliu/piencode/digits"
	"github.com/arloliu/piencode/errs"
)

// newPageServer serves pages in which every group 000..255 occurs, and counts
// the requests it answered.
func newPageServer(t *testing.T) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start, err := strconv.Atoi(r.URL.Query().Get("start"))
		if err != nil {
			http.Error(w, "bad start", http.StatusBadRequest)
			return
		}
		hits.Add(1)

		page := make([]byte, 0, digits.PageSize)
		for i := 0; len(page) < digits.PageSize; i++ {
			g := (start + i) % 256
			page = append(page, byte('0'+g/100), byte('0'+g/10%10), byte('0'+g%10))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":"` + string(page[:digits.PageSize]) + `"}`))
	}))
	t.Cleanup(srv.Close)

	return srv, &hits
}

func TestRun_EncodeDecode(t *testing.T) {
	srv, hits := newPageServer(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "notes.txt")
	content := []byte("three point one four")
	require.NoError(t, os.WriteFile(input, content, 0o600))

	cacheFile := filepath.Join(dir, "pi.cache")
	fragFile := filepath.Join(dir, "pi.frags")
	common := []string{
		"--source-url", srv.URL,
		"--cache-file", cacheFile,
		"--frag-cache-file", fragFile,
		"--cache-frags",
		"--target-frag-size", "4",
		"--max-extensions", "1",
	}

	var stderr bytes.Buffer
	require.NoError(t, run(append([]string{"--encode", input}, common...), &stderr))

	encoded, err := os.ReadFile(input + ".pi")
	require.NoError(t, err)
	require.Equal(t, "π0@", string(encoded[:len("π0@")]))
	require.FileExists(t, cacheFile)

	memo, err := cache.LoadFragments(fragFile)
	require.NoError(t, err)
	require.NotEmpty(t, memo)

	fetched := hits.Load()
	output := filepath.Join(dir, "notes.decoded")
	require.NoError(t, run(append([]string{"--decode", "-o", output, input + ".pi"}, common...), &stderr))

	decoded, err := os.ReadFile(output)
	require.NoError(t, err)
	require.Equal(t, content, decoded)
	require.Equal(t, fetched, hits.Load(), "decode should be served from the digit cache")
}

func TestRun_DefaultDecodeOutput(t *testing.T) {
	srv, _ := newPageServer(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "hi.pi")
	// Groups 072 and 105 sit at offsets 216 and 315 of the first page.
	require.NoError(t, os.WriteFile(input, []byte("π0@216&3;315&3;"), 0o600))

	var stderr bytes.Buffer
	require.NoError(t, run([]string{"--decode", "--cache-pi=false", "--source-url", srv.URL, input}, &stderr))

	out, err := os.ReadFile(input + ".out")
	require.NoError(t, err)
	require.Equal(t, []byte("Hi"), out)
	require.NoFileExists(t, filepath.Join(dir, "pi.cache"))
}

func TestRun_ConfigFile(t *testing.T) {
	srv, _ := newPageServer(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "in.txt")
	require.NoError(t, os.WriteFile(input, []byte("ab"), 0o600))

	cfgPath := filepath.Join(dir, "piencode.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(
		"mode: ascii\ncache_pi: false\nsource_url: "+srv.URL+"\n"), 0o600))

	var stderr bytes.Buffer
	require.NoError(t, run([]string{"--encode", "--config", cfgPath, input}, &stderr))

	encoded, err := os.ReadFile(input + ".pi")
	require.NoError(t, err)
	require.Equal(t, "π1@", string(encoded[:len("π1@")]))

	// Flags win over the file.
	require.Error(t, run([]string{"--encode", "--config", cfgPath, "--mode", "nope", input}, &stderr))
}

func TestRun_CorruptCacheRecovered(t *testing.T) {
	srv, _ := newPageServer(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "hi.pi")
	require.NoError(t, os.WriteFile(input, []byte("π0@216&3;315&3;"), 0o600))

	cacheFile := filepath.Join(dir, "pi.cache")
	require.NoError(t, os.WriteFile(cacheFile, []byte(`{"length":5,"digits":"31"}`), 0o600))

	var stderr bytes.Buffer
	require.NoError(t, run([]string{"--decode", "--cache-file", cacheFile, "--source-url", srv.URL, input}, &stderr))
	require.Contains(t, stderr.String(), "discarding corrupt digit cache")

	snap, ok, err := mustFile(t, cacheFile).Load()
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, digits.PageSize, snap.Length)
}

func TestRun_DecodeRejectsFarRecords(t *testing.T) {
	srv, hits := newPageServer(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "far.pi")
	require.NoError(t, os.WriteFile(input, []byte("π0@999999999999&3;"), 0o600))

	var stderr bytes.Buffer
	err := run([]string{"--decode", "--cache-pi=false", "--source-url", srv.URL, input}, &stderr)
	require.ErrorIs(t, err, errs.ErrMalformedStream)
	require.Zero(t, hits.Load())

	// An explicit cap applies to decoding too.
	require.NoError(t, os.WriteFile(input, []byte("π0@1500&3;"), 0o600))
	err = run([]string{"--decode", "--cache-pi=false", "--max-digits", "1000", "--prefetch", "0",
		"--source-url", srv.URL, input}, &stderr)
	require.ErrorIs(t, err, errs.ErrMalformedStream)
	require.Zero(t, hits.Load())
}

func TestRun_Usage(t *testing.T) {
	var stderr bytes.Buffer

	require.Error(t, run([]string{"notes.txt"}, &stderr))
	require.Error(t, run([]string{"--encode", "--decode", "notes.txt"}, &stderr))
	require.Error(t, run([]string{"--encode"}, &stderr))
	require.Error(t, run([]string{"--encode", "--target-frag-size", "0", "x"}, &stderr))
	require.Error(t, run([]string{"--encode", "--cache-pi=false", filepath.Join(t.TempDir(), "missing")}, &stderr))

	stderr.Reset()
	require.NoError(t, run([]string{"--help"}, &stderr))
	require.Contains(t, stderr.String(), "--encode")
}

func TestDefaultOutput(t *testing.T) {
	require.Equal(t, "a.txt.pi", defaultOutput("a.txt", true))
	require.Equal(t, "a.txt.pi.out", defaultOutput("a.txt.pi", false))
}

func mustFile(t *testing.T, path string) *cache.File {
	t.Helper()
	f, err := cache.NewFile(path)
	require.NoError(t, err)

	return f
}
