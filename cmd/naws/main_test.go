package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toddlers/naws/internal/domain"
)

func feedServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func feed(items ...string) string {
	return `<?xml version="1.0" encoding="UTF-8"?><rss version="2.0"><channel><title>What's New</title>` +
		strings.Join(items, "") + `</channel></rss>`
}

func item(title, link string) string {
	return fmt.Sprintf("<item><title>%s</title><link>%s</link></item>", title, link)
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_ThreeItems(t *testing.T) {
	srv := feedServer(t, http.StatusOK, feed(
		item("New Lambda feature", "https://example.com/1"),
		item("EC2 update", "https://example.com/2"),
		item("S3 update", "https://example.com/3"),
	))

	code, stdout, stderr := runCLI(t, "--url", srv.URL)

	assert.Equal(t, exitOK, code)
	assert.Empty(t, stderr)
	assert.Equal(t, "📢 [https://example.com/1]\n"+
		"   New Lambda feature (1/3)\n"+
		"\n"+
		"📢 [https://example.com/2]\n"+
		"   EC2 update (2/3)\n"+
		"\n"+
		"📢 [https://example.com/3]\n"+
		"   S3 update (3/3)\n", stdout)
}

func TestRun_MoreMessage(t *testing.T) {
	items := make([]string, 15)
	for i := range items {
		items[i] = item(fmt.Sprintf("Item %d", i+1), fmt.Sprintf("https://example.com/%d", i+1))
	}
	srv := feedServer(t, http.StatusOK, feed(items...))

	code, stdout, _ := runCLI(t, "-u", srv.URL, "-l", "10")

	assert.Equal(t, exitOK, code)
	assert.Equal(t, 10, strings.Count(stdout, "📢"))
	assert.Contains(t, stdout, "   Item 10 (10/10)\n")
	assert.NotContains(t, stdout, "Item 11")
	assert.True(t, strings.HasSuffix(stdout, "\n...and 5 more announcements\n"))
}

func TestRun_Filter(t *testing.T) {
	srv := feedServer(t, http.StatusOK, feed(
		item("New Lambda feature", "https://example.com/1"),
		item("EC2 update", "https://example.com/2"),
	))

	code, stdout, _ := runCLI(t, "-u", srv.URL, "--filter", "LAMBDA")

	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "New Lambda feature (1/1)")
	assert.NotContains(t, stdout, "EC2")
}

func TestRun_Description(t *testing.T) {
	srv := feedServer(t, http.StatusOK, feed(
		`<item><title>t</title><link>l</link><description>&lt;p&gt;Hello &lt;b&gt;world&lt;/b&gt;&lt;/p&gt;</description></item>`,
	))

	code, stdout, _ := runCLI(t, "-u", srv.URL, "-d")

	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "  📄 Hello world\n")
}

func TestRun_Placeholders(t *testing.T) {
	srv := feedServer(t, http.StatusOK, feed(`<item><description>no title or link</description></item>`))

	code, stdout, _ := runCLI(t, "-u", srv.URL)

	assert.Equal(t, exitOK, code)
	assert.Equal(t, "📢 [#NoLink]\n   #Untitled (1/1)\n", stdout)
}

func TestRun_JSON(t *testing.T) {
	srv := feedServer(t, http.StatusOK, feed(
		item("A", "https://example.com/a"),
		item("B", "https://example.com/b"),
	))

	code, stdout, _ := runCLI(t, "-u", srv.URL, "--json", "--limit", "1")

	assert.Equal(t, exitOK, code)
	var decoded []domain.Announcement
	require.NoError(t, json.Unmarshal([]byte(stdout), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "A", decoded[0].Title)
	assert.NotContains(t, stdout, "more announcements")
}

func TestRun_MalformedXML(t *testing.T) {
	srv := feedServer(t, http.StatusOK, `<rss><channel><item><title>Broken</channel></rss>`)

	code, stdout, stderr := runCLI(t, "-u", srv.URL)

	assert.Equal(t, exitError, code)
	assert.Empty(t, stdout)
	assert.True(t, strings.HasPrefix(stderr, "ERROR: parse feed: failed to decode XML at line 1: "))
	assert.Equal(t, 1, strings.Count(stderr, "\n"), "only the error line is printed: %q", stderr)
}

func TestRun_HTTPError(t *testing.T) {
	srv := feedServer(t, http.StatusServiceUnavailable, "down")

	code, stdout, stderr := runCLI(t, "-u", srv.URL)

	assert.Equal(t, exitError, code)
	assert.Empty(t, stdout)
	assert.Equal(t, "ERROR: fetch feed: unexpected status code: 503 for url "+srv.URL+"\n", stderr)
}

func TestRun_HTTPError_VerboseShowsComponentLogs(t *testing.T) {
	srv := feedServer(t, http.StatusServiceUnavailable, "down")

	code, _, stderr := runCLI(t, "-u", srv.URL, "--verbose")

	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "ERROR [fetcher]")
	assert.Contains(t, stderr, "ERROR [announcements]")
	assert.True(t, strings.HasSuffix(stderr, "ERROR: fetch feed: unexpected status code: 503 for url "+srv.URL+"\n"))
}

func TestRun_Verbose(t *testing.T) {
	srv := feedServer(t, http.StatusOK, feed(item("A", "l")))

	code, stdout, stderr := runCLI(t, "-u", srv.URL, "--verbose", "--json")

	assert.Equal(t, exitOK, code)
	assert.Contains(t, stderr, "Feed loaded")
	assert.NotContains(t, stdout, "Feed loaded")
	assert.True(t, json.Valid([]byte(stdout)))
}

func TestRun_Version(t *testing.T) {
	code, stdout, _ := runCLI(t, "--version")

	assert.Equal(t, exitOK, code)
	assert.Equal(t, "naws dev\n", stdout)
}

func TestRun_Help(t *testing.T) {
	code, stdout, stderr := runCLI(t, "--help")

	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "Usage: naws")
	assert.Empty(t, stderr)
}

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		msg  string
	}{
		{name: "unknown flag", args: []string{"--nope"}, msg: "unknown flag: --nope"},
		{name: "negative limit", args: []string{"--limit", "-1"}, msg: "limit must not be negative"},
		{name: "bad url", args: []string{"--url", "not a url"}, msg: "invalid feed url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, tt.args...)

			assert.Equal(t, exitUsage, code)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, "ERROR: "+tt.msg)
			assert.Contains(t, stderr, "Usage: naws")
		})
	}
}

func TestRun_ContextCancelled(t *testing.T) {
	srv := feedServer(t, http.StatusOK, feed(item("A", "l")))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var stdout, stderr bytes.Buffer

	code := run(ctx, []string{"-u", srv.URL}, &stdout, &stderr)

	assert.Equal(t, exitError, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "context canceled")
}
