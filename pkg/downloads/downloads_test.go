package downloads

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/droidspec/droidspec/pkg/khinsider"
)

// stubResolver serves a fixed album whose tracks all resolve to audioURL.
// When blockStream is set, StreamURL parks until the context is cancelled.
type stubResolver struct {
	album       *khinsider.Album
	audioURL    string
	blockStream bool
}

func (s *stubResolver) Album(ctx context.Context, id string) (*khinsider.Album, error) {
	if s.album == nil || s.album.ID != id {
		return nil, fmt.Errorf("no album %q", id)
	}
	return s.album, nil
}

func (s *stubResolver) StreamURL(ctx context.Context, trackPageURL string) (string, error) {
	if s.blockStream {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return s.audioURL, nil
}

func audioServer(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
		fmt.Fprint(w, "ID3 not really audio but enough bytes to store")
	}))
	t.Cleanup(srv.Close)
	return srv.URL + "/track.mp3"
}

func testAlbum() *khinsider.Album {
	return &khinsider.Album{
		ID:    "hollow-knight-ost",
		Title: "Hollow Knight OST",
		Tracks: []khinsider.Track{
			{Number: 1, Name: "Enter Hallownest", URL: "https://example.test/t1"},
			{Number: 2, Name: "Greenpath", URL: "https://example.test/t2"},
		},
		TotalTracks: 2,
	}
}

func TestDownloadCompletes(t *testing.T) {
	m := NewManager(&stubResolver{album: testAlbum(), audioURL: audioServer(t)})
	out := t.TempDir()

	id := m.Start("hollow-knight-ost", out, nil)
	m.Wait(id)

	p, ok := m.Progress(id)
	if !ok {
		t.Fatal("progress entry missing")
	}
	if p.Status != StatusCompleted {
		t.Fatalf("status = %q, message = %q", p.Status, p.Message)
	}
	if p.TotalTracks != 2 || p.CurrentTrack != 2 {
		t.Errorf("track counts wrong: %+v", p)
	}

	albumDir := filepath.Join(out, "Hollow Knight OST")
	for _, f := range []string{"01 - Enter Hallownest.mp3", "02 - Greenpath.mp3"} {
		info, err := os.Stat(filepath.Join(albumDir, f))
		if err != nil {
			t.Errorf("expected %s: %v", f, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", f)
		}
	}
}

func TestDownloadSelectedTracksOnly(t *testing.T) {
	m := NewManager(&stubResolver{album: testAlbum(), audioURL: audioServer(t)})
	out := t.TempDir()

	id := m.Start("hollow-knight-ost", out, []string{"Greenpath"})
	m.Wait(id)

	p, _ := m.Progress(id)
	if p.Status != StatusCompleted || p.TotalTracks != 1 {
		t.Fatalf("progress = %+v", p)
	}

	albumDir := filepath.Join(out, "Hollow Knight OST")
	if _, err := os.Stat(filepath.Join(albumDir, "02 - Greenpath.mp3")); err != nil {
		t.Errorf("selected track missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(albumDir, "01 - Enter Hallownest.mp3")); err == nil {
		t.Error("unselected track should not be downloaded")
	}
}

func TestDownloadUnknownAlbumReportsError(t *testing.T) {
	m := NewManager(&stubResolver{album: testAlbum()})

	id := m.Start("no-such-album", t.TempDir(), nil)
	m.Wait(id)

	p, _ := m.Progress(id)
	if p.Status != StatusError {
		t.Fatalf("status = %q", p.Status)
	}
}

func TestDownloadNoMatchingTracksReportsError(t *testing.T) {
	m := NewManager(&stubResolver{album: testAlbum(), audioURL: audioServer(t)})

	id := m.Start("hollow-knight-ost", t.TempDir(), []string{"Not A Track"})
	m.Wait(id)

	p, _ := m.Progress(id)
	if p.Status != StatusError {
		t.Fatalf("status = %q, message = %q", p.Status, p.Message)
	}
}

func TestCancelStopsDownload(t *testing.T) {
	m := NewManager(&stubResolver{album: testAlbum(), blockStream: true})

	id := m.Start("hollow-knight-ost", t.TempDir(), nil)
	if !m.Cancel(id) {
		t.Fatal("Cancel should succeed for a running download")
	}

	p, _ := m.Progress(id)
	if p.Status != StatusCancelled {
		t.Fatalf("status = %q", p.Status)
	}

	// A second cancel finds the job already finished.
	if m.Cancel(id) {
		t.Error("Cancel should report false once the download is over")
	}
}

func TestCancelUnknownID(t *testing.T) {
	m := NewManager(&stubResolver{})
	if m.Cancel("download_404") {
		t.Error("Cancel of an unknown ID should report false")
	}
}

func TestSafeName(t *testing.T) {
	got := safeName(`Hollow Knight: Gods & Nightmares / B-side`)
	want := "Hollow Knight Gods  Nightmares  B-side"
	if got != want {
		t.Errorf("safeName = %q, want %q", got, want)
	}
}
