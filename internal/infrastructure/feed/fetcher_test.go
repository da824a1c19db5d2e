package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Тестови новини</title>
    <item>
      <title>Протест пред парламента</title>
      <description><![CDATA[<p>Стотици <b>граждани</b> се събраха
в центъра.</p>]]></description>
      <link>https://example.bg/articles/1</link>
      <guid>tag:example.bg,1</guid>
    </item>
    <item>
      <title>Втора новина</title>
      <description>Кратко описание</description>
      <link>https://example.bg/articles/2</link>
    </item>
    <item>
      <title>Трета новина</title>
      <link>https://example.bg/articles/3</link>
    </item>
  </channel>
</rss>`

func TestFetchParsesAndCleans(t *testing.T) {
	t.Parallel()

	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer server.Close()

	f := NewFetcher(5 * time.Second)
	entries, err := f.Fetch(context.Background(), server.URL, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, UserAgent, gotUA)
	assert.Equal(t, "Протест пред парламента", entries[0].Title)
	assert.Equal(t, "Стотици граждани се събраха в центъра.", entries[0].Summary)
	assert.Equal(t, "https://example.bg/articles/1", entries[0].Link)
	assert.Equal(t, "tag:example.bg,1", entries[0].GUID)

	// Entries without a guid still expose the link for the id fallback chain.
	assert.Empty(t, entries[1].GUID)
	assert.Equal(t, "https://example.bg/articles/2", entries[1].Link)
}

func TestFetchAppliesLimit(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer server.Close()

	f := NewFetcher(5 * time.Second)
	entries, err := f.Fetch(context.Background(), server.URL, 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestFetchErrorPropagates(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	f := NewFetcher(5 * time.Second)
	_, err := f.Fetch(context.Background(), server.URL, 10)
	require.Error(t, err)
}
