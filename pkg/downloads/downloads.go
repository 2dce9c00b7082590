// Package downloads runs album downloads in the background and tracks their
// progress so a UI can poll and cancel them.
package downloads

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/melbahja/got"

	"github.com/droidspec/droidspec/pkg/khinsider"
)

// Status values reported through Progress.
const (
	StatusStarting    = "starting"
	StatusDownloading = "downloading"
	StatusCompleted   = "completed"
	StatusCancelled   = "cancelled"
	StatusError       = "error"
)

// Progress is a point-in-time snapshot of one download job.
type Progress struct {
	Status       string `json:"status"`
	CurrentTrack int    `json:"current_track"`
	TotalTracks  int    `json:"total_tracks"`
	CurrentFile  string `json:"current_file"`
	Message      string `json:"message"`
}

// Resolver is the part of the catalog client the manager needs: the album
// listing and per-track audio URLs.
type Resolver interface {
	Album(ctx context.Context, id string) (*khinsider.Album, error)
	StreamURL(ctx context.Context, trackPageURL string) (string, error)
}

type job struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Manager starts, tracks, and cancels album downloads. The zero value is not
// usable; call NewManager.
type Manager struct {
	resolver Resolver

	mu       sync.Mutex
	progress map[string]Progress
	jobs     map[string]*job

	// now is replaceable for deterministic progress IDs in tests.
	now func() time.Time
}

// NewManager returns a Manager resolving tracks through r.
func NewManager(r Resolver) *Manager {
	return &Manager{
		resolver: r,
		progress: make(map[string]Progress),
		jobs:     make(map[string]*job),
		now:      time.Now,
	}
}

// Start launches a background download of albumID into outputDir and returns
// its progress ID. When selected is non-empty, only tracks whose names appear
// in it are downloaded.
func (m *Manager) Start(albumID, outputDir string, selected []string) string {
	ctx, cancel := context.WithCancel(context.Background())

	m.mu.Lock()
	id := fmt.Sprintf("download_%d", m.now().UnixMilli())
	for m.jobs[id] != nil {
		id += "x"
	}
	j := &job{cancel: cancel, done: make(chan struct{})}
	m.jobs[id] = j
	m.progress[id] = Progress{Status: StatusStarting, Message: "Getting album information..."}
	m.mu.Unlock()

	go func() {
		defer close(j.done)
		defer cancel()
		m.run(ctx, id, albumID, outputDir, selected)
	}()
	return id
}

// Progress returns the snapshot for a progress ID.
func (m *Manager) Progress(id string) (Progress, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.progress[id]
	return p, ok
}

// Cancel stops a running download. It reports false when the ID is unknown
// or the download already finished.
func (m *Manager) Cancel(id string) bool {
	m.mu.Lock()
	j, ok := m.jobs[id]
	m.mu.Unlock()
	if !ok {
		return false
	}

	select {
	case <-j.done:
		return false
	default:
	}
	j.cancel()
	<-j.done
	return true
}

// Wait blocks until the download finishes, for whatever reason.
func (m *Manager) Wait(id string) {
	m.mu.Lock()
	j, ok := m.jobs[id]
	m.mu.Unlock()
	if ok {
		<-j.done
	}
}

func (m *Manager) update(id string, fn func(*Progress)) {
	m.mu.Lock()
	p := m.progress[id]
	fn(&p)
	m.progress[id] = p
	m.mu.Unlock()
}

func (m *Manager) run(ctx context.Context, id, albumID, outputDir string, selected []string) {
	album, err := m.resolver.Album(ctx, albumID)
	if err != nil {
		m.update(id, func(p *Progress) {
			p.Status = StatusError
			p.Message = fmt.Sprintf("Album not found: %s", albumID)
		})
		return
	}

	tracks := album.Tracks
	if len(selected) > 0 {
		want := make(map[string]bool, len(selected))
		for _, name := range selected {
			want[name] = true
		}
		var filtered []khinsider.Track
		for _, t := range tracks {
			if want[t.Name] {
				filtered = append(filtered, t)
			}
		}
		tracks = filtered
	}
	total := len(tracks)
	if total == 0 {
		m.update(id, func(p *Progress) {
			p.Status = StatusError
			p.Message = "No tracks to download"
		})
		return
	}

	m.update(id, func(p *Progress) {
		p.Status = StatusDownloading
		p.TotalTracks = total
		p.Message = fmt.Sprintf("Downloading %d tracks from %q", total, album.Title)
	})

	albumDir := filepath.Join(outputDir, safeName(album.Title))
	if err := os.MkdirAll(albumDir, 0o755); err != nil {
		m.update(id, func(p *Progress) {
			p.Status = StatusError
			p.Message = fmt.Sprintf("Download failed: %v", err)
		})
		return
	}

	done := 0
	for i, track := range tracks {
		if ctx.Err() != nil {
			break
		}
		m.update(id, func(p *Progress) {
			p.CurrentTrack = i + 1
			p.CurrentFile = track.Name
			p.Message = fmt.Sprintf("Downloading: %s (%d/%d)", track.Name, i+1, total)
		})
		if err := m.downloadTrack(ctx, track, albumDir); err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Warn("track download failed", "album", albumID, "track", track.Name, "err", err)
			continue
		}
		done++
	}

	if ctx.Err() != nil {
		m.update(id, func(p *Progress) {
			p.Status = StatusCancelled
			p.Message = "Download cancelled"
		})
		return
	}
	m.update(id, func(p *Progress) {
		p.Status = StatusCompleted
		p.CurrentTrack = done
		p.Message = fmt.Sprintf("Downloaded %d/%d tracks to: %s", done, total, albumDir)
	})
}

func (m *Manager) downloadTrack(ctx context.Context, track khinsider.Track, dir string) error {
	audioURL, err := m.resolver.StreamURL(ctx, track.URL)
	if err != nil {
		return err
	}

	name := fmt.Sprintf("%02d - %s", track.Number, safeName(track.Name))
	if !hasAudioExt(name) {
		name += filepath.Ext(audioURL)
		if !hasAudioExt(name) {
			name += ".mp3"
		}
	}
	dest := filepath.Join(dir, name)

	dl := got.NewDownload(ctx, audioURL, dest)
	if err := dl.Init(); err != nil {
		return fmt.Errorf("failed to start download: %w", err)
	}
	if err := dl.Start(); err != nil {
		return fmt.Errorf("failed to download %s: %w", audioURL, err)
	}
	return nil
}

// safeName strips path-hostile characters the same way the album folder on
// device is named.
func safeName(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ', r == '-', r == '_', r == '.':
			sb.WriteRune(r)
		}
	}
	return strings.TrimSpace(sb.String())
}

func hasAudioExt(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range []string{".mp3", ".flac", ".ogg", ".wav"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
