// Package api provides the REST API server for midi2tab
package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	_ "github.com/james-see/midi2tab/docs"
	"github.com/james-see/midi2tab/pkg/analyzer"
	"github.com/james-see/midi2tab/pkg/converter"
	"github.com/james-see/midi2tab/pkg/converter/renderers"
	"github.com/james-see/midi2tab/pkg/midifile"
	"github.com/james-see/midi2tab/pkg/tab"
	"github.com/rs/cors"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title midi2tab API
// @version 1.0
// @description API for turning MIDI tracks into beginner-friendly guitar tablature
// @host localhost:8080
// @BasePath /

// maxUpload bounds the size of an uploaded MIDI file
const maxUpload = 8 << 20

type server struct {
	store *Store
}

// StartServer starts the API server on the specified port
func StartServer(port int) error {
	r := NewRouter(NewStore())
	slog.Info("api: listening", "port", port)
	return r.Run(fmt.Sprintf(":%d", port))
}

// NewRouter builds the gin engine with every route registered
func NewRouter(store *Store) *gin.Engine {
	s := &server{store: store}
	r := gin.Default()
	r.MaxMultipartMemory = maxUpload

	r.Use(corsMiddleware())

	r.GET("/health", healthCheck)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/formats", listFormats)
		v1.GET("/config/defaults", configDefaults)
		v1.POST("/tab", s.handleOneShot)
		v1.POST("/songs", s.handleUpload)
		v1.GET("/songs/:id/tracks", s.handleTracks)
		v1.GET("/songs/:id/preview", s.handlePreview)
		v1.POST("/songs/:id/tab", s.handleTab)
		v1.DELETE("/songs/:id", s.handleDelete)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	return r
}

func corsMiddleware() gin.HandlerFunc {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return func(ctx *gin.Context) {
		c.HandlerFunc(ctx.Writer, ctx.Request)
		if ctx.Request.Method == http.MethodOptions {
			ctx.AbortWithStatus(http.StatusNoContent)
			return
		}
		ctx.Next()
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "midi2tab",
	})
}

// listFormats godoc
// @Summary List output formats
// @Tags info
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/formats [get]
func listFormats(c *gin.Context) {
	var out []gin.H
	for _, r := range renderers.All() {
		out = append(out, gin.H{"format": r.Format(), "name": r.Name()})
	}
	c.JSON(http.StatusOK, gin.H{"formats": out})
}

// configDefaults godoc
// @Summary Default mapping configuration
// @Description Every field may be overridden with a query parameter of the same name
// @Tags info
// @Produce json
// @Success 200 {object} tab.MappingConfig
// @Router /api/v1/config/defaults [get]
func configDefaults(c *gin.Context) {
	c.JSON(http.StatusOK, tab.DefaultConfig())
}

// songResponse describes an uploaded song and its tracks
type songResponse struct {
	ID          string                  `json:"id"`
	Filename    string                  `json:"filename"`
	DurationSec float64                 `json:"durationSec"`
	BPM         *float64                `json:"bpm,omitempty"`
	Tracks      []analyzer.TrackSummary `json:"tracks"`
}

func newSongResponse(s *StoredSong) songResponse {
	return songResponse{
		ID:          s.ID,
		Filename:    s.Filename,
		DurationSec: s.Song.DurationSec,
		BPM:         s.Song.BPM,
		Tracks:      analyzer.Summarize(s.Song.Streams),
	}
}

// handleUpload godoc
// @Summary Upload a MIDI file
// @Description Parses the file and returns per-track statistics. The returned id is used by the other song routes.
// @Tags songs
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "MIDI file"
// @Success 201 {object} songResponse
// @Failure 400 {object} map[string]string
// @Failure 413 {object} map[string]string
// @Router /api/v1/songs [post]
func (s *server) handleUpload(c *gin.Context) {
	name, song, ok := readUpload(c)
	if !ok {
		return
	}
	id := s.store.Put(name, song)
	stored, _ := s.store.Get(id)
	c.JSON(http.StatusCreated, newSongResponse(stored))
}

// handleTracks godoc
// @Summary List the tracks of an uploaded song
// @Tags songs
// @Produce json
// @Param id path string true "Song ID"
// @Success 200 {object} songResponse
// @Failure 404 {object} map[string]string
// @Router /api/v1/songs/{id}/tracks [get]
func (s *server) handleTracks(c *gin.Context) {
	stored, ok := s.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, newSongResponse(stored))
}

// handlePreview godoc
// @Summary Map every melody candidate and compare playability
// @Tags songs
// @Produce json
// @Param id path string true "Song ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Router /api/v1/songs/{id}/preview [get]
func (s *server) handlePreview(c *gin.Context) {
	stored, ok := s.lookup(c)
	if !ok {
		return
	}
	opts, err := optionsFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	conv := converter.New(nil)
	conv.SetOptions(opts)
	previews, err := conv.Preview(c.Request.Context(), stored.Song)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": stored.ID, "previews": previews})
}

// handleTab godoc
// @Summary Map a track of an uploaded song to tablature
// @Tags songs
// @Produce json,plain,application/octet-stream
// @Param id path string true "Song ID"
// @Param track query string false "Track ID (all non-drum tracks when omitted)"
// @Param format query string false "text, json or midi (default json)"
// @Param maxFret query int false "Highest preferred fret (default 12)"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]interface{}
// @Router /api/v1/songs/{id}/tab [post]
func (s *server) handleTab(c *gin.Context) {
	stored, ok := s.lookup(c)
	if !ok {
		return
	}
	renderTab(c, stored.Filename, stored.Song)
}

// handleDelete godoc
// @Summary Forget an uploaded song
// @Tags songs
// @Param id path string true "Song ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /api/v1/songs/{id} [delete]
func (s *server) handleDelete(c *gin.Context) {
	if !s.store.Delete(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Song not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// handleOneShot godoc
// @Summary Upload a MIDI file and receive tablature in one request
// @Tags convert
// @Accept multipart/form-data
// @Produce json,plain,application/octet-stream
// @Param file formData file true "MIDI file"
// @Param track query string false "Track ID (all non-drum tracks when omitted)"
// @Param format query string false "text, json or midi (default json)"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Failure 413 {object} map[string]string
// @Router /api/v1/tab [post]
func (s *server) handleOneShot(c *gin.Context) {
	name, song, ok := readUpload(c)
	if !ok {
		return
	}
	renderTab(c, name, song)
}

func (s *server) lookup(c *gin.Context) (*StoredSong, bool) {
	stored, ok := s.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Song not found"})
		return nil, false
	}
	return stored, true
}

func readUpload(c *gin.Context) (string, *midifile.Song, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return "", nil, false
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxUpload+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return "", nil, false
	}
	if len(data) > maxUpload {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("file larger than %d bytes", maxUpload)})
		return "", nil, false
	}
	if !converter.IsMIDI(data) {
		c.JSON(http.StatusBadRequest, gin.H{"error": converter.ErrNotMIDI.Error()})
		return "", nil, false
	}
	song, err := midifile.Parse(data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", nil, false
	}
	return header.Filename, song, true
}

func renderTab(c *gin.Context, filename string, song *midifile.Song) {
	format := converter.ParseFormat(c.DefaultQuery("format", "json"))
	renderer, err := renderers.ForFormat(format)
	if err != nil {
		writeError(c, err)
		return
	}
	opts, err := optionsFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conv := converter.New(renderer)
	conv.SetOptions(opts)
	t, err := conv.Build(song, c.Query("track"))
	if err != nil {
		writeError(c, err)
		return
	}
	t.Source = filename

	result, err := renderer.Render(t)
	if err != nil {
		writeError(c, err)
		return
	}

	var contentType, ext string
	switch format {
	case converter.FormatMIDI:
		contentType, ext = "audio/midi", ".mid"
	case converter.FormatText:
		contentType, ext = "text/plain; charset=utf-8", ".txt"
	default:
		contentType, ext = "application/json", ".json"
	}
	if format == converter.FormatMIDI {
		base := strings.TrimSuffix(filename, filepath.Ext(filename))
		if base == "" {
			base = "tab"
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s-tab%s", base, ext))
	}
	c.Data(http.StatusOK, contentType, result)
}

func writeError(c *gin.Context, err error) {
	var invalid *tab.InvalidNoteError
	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": err.Error(),
			"index": invalid.Index,
			"field": invalid.Field,
		})
	case errors.Is(err, converter.ErrTrackNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, converter.ErrUnknownFormat), errors.Is(err, converter.ErrNotMIDI), errors.Is(err, midifile.ErrNoTracks):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		slog.Error("api: request failed", "path", c.FullPath(), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// optionsFromQuery reads mapping overrides from query parameters named like
// the MappingConfig JSON fields. Absent parameters keep their defaults.
func optionsFromQuery(c *gin.Context) (tab.Options, error) {
	var o tab.Options
	var err error
	if o.MaxFret, err = queryInt(c, "maxFret"); err != nil {
		return o, err
	}
	floats := map[string]**float64{
		"continuityWeight":       &o.ContinuityWeight,
		"openStringBonus":        &o.OpenStringBonus,
		"fretCostWeight":         &o.FretCostWeight,
		"continuityFretWeight":   &o.ContinuityFretWeight,
		"continuityStringWeight": &o.ContinuityStringWeight,
	}
	for key, dst := range floats {
		if *dst, err = queryFloat(c, key); err != nil {
			return o, err
		}
	}
	bools := map[string]**bool{
		"preferMelodyHighStrings":   &o.PreferMelodyHighStrings,
		"tieBreakPreferLowerString": &o.TieBreakPreferLowerString,
		"evaluateOctaveShifts":      &o.EvaluateOctaveShifts,
	}
	for key, dst := range bools {
		if *dst, err = queryBool(c, key); err != nil {
			return o, err
		}
	}
	return o, o.Validate()
}

func queryInt(c *gin.Context, key string) (*int, error) {
	raw, ok := c.GetQuery(key)
	if !ok {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return &v, nil
}

func queryFloat(c *gin.Context, key string) (*float64, error) {
	raw, ok := c.GetQuery(key)
	if !ok {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return &v, nil
}

func queryBool(c *gin.Context, key string) (*bool, error) {
	raw, ok := c.GetQuery(key)
	if !ok {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return &v, nil
}
