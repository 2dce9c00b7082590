package khinsider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

const searchPage = `<html><body>
<table id="albumlist">
<tr><th>Album</th><th>Platform</th></tr>
<tr>
  <td><img src="/thumbs/hollow.jpg"></td>
  <td><a href="/game-soundtracks/album/hollow-knight-ost">Hollow Knight OST</a></td>
</tr>
<tr>
  <td><a href="/game-soundtracks/album/hollow-knight-gods-nightmares">Hollow Knight: Gods and Nightmares</a></td>
</tr>
</table>
</body></html>`

const albumPage = `<html>
<head><title>Hollow Knight OST - Download MP3 - KHInsider</title></head>
<body>
<img src="/images/hollow-cover.jpg" alt="album cover">
<table id="songlist">
<tr id="songlist_header"><th>Song Name</th></tr>
<tr><td class="clickable-row"><a href="/game-soundtracks/album/hollow-knight-ost/01-enter-hallownest.mp3">Enter Hallownest</a></td></tr>
<tr><td class="clickable-row"><a href="/game-soundtracks/album/hollow-knight-ost/02-greenpath.mp3">Greenpath</a></td></tr>
<tr id="songlist_footer"><td>Total: 2</td></tr>
</table>
</body></html>`

const trackPage = `<html><body>
<audio src="https://vgmsite.com/soundtracks/hollow-knight-ost/01-enter-hallownest.mp3"></audio>
<a class="songDownloadLink" href="https://vgmsite.com/dl/01.mp3">Download</a>
</body></html>`

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient()
	c.BaseURL = srv.URL
	c.Backoff = func(context.Context, int) error { return nil }
	return c
}

func TestSearchParsesAlbumTable(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" || r.URL.Query().Get("search") != "hollow knight" {
			t.Errorf("unexpected request: %s", r.URL)
		}
		fmt.Fprint(w, searchPage)
	}))

	results, err := c.Search(context.Background(), "hollow knight")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d: %+v", len(results), results)
	}

	first := results[0]
	if first.ID != "hollow-knight-ost" {
		t.Errorf("ID = %q", first.ID)
	}
	if first.Name != "Hollow Knight OST" {
		t.Errorf("Name = %q", first.Name)
	}
	if first.URL != c.BaseURL+"/game-soundtracks/album/hollow-knight-ost" {
		t.Errorf("URL = %q", first.URL)
	}
	if first.Icon != c.BaseURL+"/thumbs/hollow.jpg" {
		t.Errorf("Icon = %q", first.Icon)
	}
	if results[1].Icon != "" {
		t.Errorf("second result should have no icon, got %q", results[1].Icon)
	}
}

func TestSearchFallsBackToLinkScan(t *testing.T) {
	page := `<html><body>
	<div><a href="/game-soundtracks/album/celeste-ost">Celeste Original Soundtrack</a></div>
	<a href="/game-soundtracks/album/x">x</a>
	</body></html>`
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, page)
	}))

	results, err := c.Search(context.Background(), "celeste")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	// The one-character link is noise and gets dropped.
	if len(results) != 1 || results[0].ID != "celeste-ost" {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestAlbumParsesTrackTable(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/game-soundtracks/album/hollow-knight-ost" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, albumPage)
	}))

	album, err := c.Album(context.Background(), "hollow-knight-ost")
	if err != nil {
		t.Fatalf("Album failed: %v", err)
	}
	if album.Title != "Hollow Knight OST" {
		t.Errorf("Title = %q, want noise stripped from the page title", album.Title)
	}
	if album.Icon != c.BaseURL+"/images/hollow-cover.jpg" {
		t.Errorf("Icon = %q", album.Icon)
	}
	if album.TotalTracks != 2 || len(album.Tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %+v", album.Tracks)
	}
	if album.Tracks[0].Number != 1 || album.Tracks[0].Name != "Enter Hallownest" {
		t.Errorf("first track = %+v", album.Tracks[0])
	}
	if album.Tracks[1].Number != 2 {
		t.Errorf("track numbering should skip header rows: %+v", album.Tracks[1])
	}
}

func TestAlbumWithoutTracksIsAnError(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body><p>nothing here</p></body></html>")
	}))

	if _, err := c.Album(context.Background(), "gone"); err == nil {
		t.Fatal("expected an error for album page without a track table")
	}
}

func TestStreamURLPrefersAudioElement(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, trackPage)
	}))

	got, err := c.StreamURL(context.Background(), c.BaseURL+"/track")
	if err != nil {
		t.Fatalf("StreamURL failed: %v", err)
	}
	if got != "https://vgmsite.com/soundtracks/hollow-knight-ost/01-enter-hallownest.mp3" {
		t.Errorf("StreamURL = %q, want the audio element source", got)
	}
}

func TestStreamURLFallsBackToDownloadLink(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><a class="songDownloadLink" href="https://vgmsite.com/dl/02.mp3">Download</a></body></html>`)
	}))

	got, err := c.StreamURL(context.Background(), c.BaseURL+"/track")
	if err != nil {
		t.Fatalf("StreamURL failed: %v", err)
	}
	if got != "https://vgmsite.com/dl/02.mp3" {
		t.Errorf("StreamURL = %q", got)
	}
}

func TestGetRetriesForbidden(t *testing.T) {
	var agents []string
	attempts := 0
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		agents = append(agents, r.Header.Get("User-Agent"))
		if attempts < 3 {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		fmt.Fprint(w, "ok")
	}))

	resp, err := c.Get(context.Background(), c.BaseURL+"/")
	if err != nil {
		t.Fatalf("Get should succeed on the third attempt: %v", err)
	}
	resp.Body.Close()

	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
	for _, ua := range agents {
		if ua == "" {
			t.Error("every attempt should carry a browser user agent")
		}
	}
}

func TestGetGivesUpAfterMaxRetries(t *testing.T) {
	attempts := 0
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusForbidden)
	}))

	_, err := c.Get(context.Background(), c.BaseURL+"/")
	if err == nil {
		t.Fatal("expected an error when every attempt is forbidden")
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestGetFailsFastOnNotFound(t *testing.T) {
	attempts := 0
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
	}))

	if _, err := c.Get(context.Background(), c.BaseURL+"/gone"); err == nil {
		t.Fatal("expected an error")
	}
	if attempts != 1 {
		t.Errorf("404 should not be retried, got %d attempts", attempts)
	}
}
