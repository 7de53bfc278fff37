package api

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/james-see/midi2tab/pkg/midifile"
)

// StoredSong is an uploaded, parsed MIDI file
type StoredSong struct {
	ID         string
	Filename   string
	Song       *midifile.Song
	UploadedAt time.Time
}

// Store keeps uploaded songs in memory so a client can list tracks and map
// several of them without re-uploading.
type Store struct {
	mu    sync.RWMutex
	songs map[string]*StoredSong
}

// NewStore creates an empty song store
func NewStore() *Store {
	return &Store{songs: make(map[string]*StoredSong)}
}

// Put stores a song and returns its generated ID
func (s *Store) Put(filename string, song *midifile.Song) string {
	id := uuid.New().String()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.songs[id] = &StoredSong{ID: id, Filename: filename, Song: song, UploadedAt: time.Now()}
	return id
}

// Get returns a stored song
func (s *Store) Get(id string) (*StoredSong, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	song, ok := s.songs[id]
	return song, ok
}

// Delete removes a song, reporting whether it existed
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.songs[id]; !ok {
		return false
	}
	delete(s.songs, id)
	return true
}

// Len returns the number of stored songs
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.songs)
}
