// Package library lists and uploads songs. Rows live in the backend songs
// table; audio and cover files live in object storage, addressed by
// bucket-relative paths that get resolved to public URLs on the way out.
package library

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"TamilFM/core/gateway"
	"TamilFM/logger"
	"TamilFM/model"
)

// TokenSource supplies the access token for backend calls.
type TokenSource interface {
	Token() string
}

// Library is the song list/upload service.
type Library struct {
	gw           *gateway.Client
	tokens       TokenSource
	songsBucket  string
	imagesBucket string
}

// NewLibrary creates a library over the given buckets.
func NewLibrary(gw *gateway.Client, tokens TokenSource, songsBucket, imagesBucket string) *Library {
	return &Library{
		gw:           gw,
		tokens:       tokens,
		songsBucket:  songsBucket,
		imagesBucket: imagesBucket,
	}
}

// List returns all songs, newest first, with locators resolved to public
// URLs. An empty table falls back to the built-in catalog so the player
// always has something to play.
func (l *Library) List(ctx context.Context) ([]model.Track, error) {
	var rows []model.SongRow
	err := l.gw.SelectList(ctx, l.tokens.Token(), gateway.Query{
		Table: "songs",
		Order: "created_at.desc",
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}

	if len(rows) == 0 {
		logger.Info("song table empty, using built-in catalog")
		return Catalog(), nil
	}

	tracks := make([]model.Track, 0, len(rows))
	for _, row := range rows {
		track := model.Track{
			ID:       row.ID,
			Title:    row.Title,
			Artist:   row.Artist,
			Album:    row.Album,
			Duration: float64(row.Duration),
			AudioURL: l.gw.PublicURL(l.songsBucket, row.AudioPath),
		}
		if row.ImagePath != nil && *row.ImagePath != "" {
			track.CoverURL = l.gw.PublicURL(l.imagesBucket, *row.ImagePath)
		}
		tracks = append(tracks, track)
	}
	return tracks, nil
}

// UploadRequest describes one song upload. AudioPath and CoverPath are local
// file paths; CoverPath may be empty.
type UploadRequest struct {
	Title     string
	Artist    string
	Album     string
	Duration  int // seconds
	AudioPath string
	CoverPath string
	UserID    string
}

// validate enforces the required fields and file categories before any
// network work happens.
func (r UploadRequest) validate() error {
	if r.Title == "" || r.Artist == "" || r.Album == "" || r.Duration <= 0 || r.AudioPath == "" {
		return fmt.Errorf("title, artist, album, duration and audio file are required: %w", model.ErrValidation)
	}
	if !strings.HasPrefix(mimeType(r.AudioPath), "audio/") {
		return fmt.Errorf("%s is not an audio file: %w", filepath.Base(r.AudioPath), model.ErrValidation)
	}
	if r.CoverPath != "" && !strings.HasPrefix(mimeType(r.CoverPath), "image/") {
		return fmt.Errorf("%s is not an image file: %w", filepath.Base(r.CoverPath), model.ErrValidation)
	}
	return nil
}

func mimeType(path string) string {
	return mime.TypeByExtension(filepath.Ext(path))
}

// Upload validates req, pushes the audio (and optional cover) into object
// storage under collision-free names, then inserts the songs row. A failing
// step aborts the remainder; objects already uploaded are not removed.
func (l *Library) Upload(ctx context.Context, req UploadRequest) (model.Track, error) {
	if err := req.validate(); err != nil {
		return model.Track{}, err
	}

	token := l.tokens.Token()
	prefix := uuid.NewString()

	audioPath := objectPath(prefix, req.AudioPath)
	if err := l.uploadFile(ctx, token, l.songsBucket, audioPath, req.AudioPath); err != nil {
		return model.Track{}, fmt.Errorf("audio upload failed: %w", err)
	}

	var imagePath *string
	if req.CoverPath != "" {
		p := objectPath(prefix, req.CoverPath)
		if err := l.uploadFile(ctx, token, l.imagesBucket, p, req.CoverPath); err != nil {
			return model.Track{}, fmt.Errorf("image upload failed: %w", err)
		}
		imagePath = &p
	}

	row := model.SongRow{
		Title:     req.Title,
		Artist:    req.Artist,
		Album:     req.Album,
		Duration:  req.Duration,
		AudioPath: audioPath,
		ImagePath: imagePath,
		UserID:    req.UserID,
	}
	if err := l.gw.InsertRow(ctx, token, "songs", row); err != nil {
		return model.Track{}, fmt.Errorf("song insert failed: %w", err)
	}

	logger.Info("song uploaded",
		logger.String("title", req.Title), logger.String("artist", req.Artist))

	track := model.Track{
		Title:    req.Title,
		Artist:   req.Artist,
		Album:    req.Album,
		Duration: float64(req.Duration),
		AudioURL: l.gw.PublicURL(l.songsBucket, audioPath),
	}
	if imagePath != nil {
		track.CoverURL = l.gw.PublicURL(l.imagesBucket, *imagePath)
	}
	return track, nil
}

func (l *Library) uploadFile(ctx context.Context, token, bucket, objPath, localPath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()

	return l.gw.UploadObject(ctx, token, bucket, objPath, mimeType(localPath), f)
}

// objectPath builds the bucket-relative path for an upload. The public/
// prefix keeps objects in the bucket's anonymously readable folder.
func objectPath(prefix, localPath string) string {
	return "public/" + prefix + "-" + filepath.Base(localPath)
}
