// Package media turns resolver output into what the HTTP endpoints return:
// video summaries, download file names and format selection policies.
package media

import (
	"context"
	"io"
	"time"
)

type Thumbnail struct {
	URL    string
	Width  uint
	Height uint
}

// Format describes one rendition offered by the video site.
type Format struct {
	Itag          int
	MimeType      string
	Container     string
	QualityLabel  string
	HasVideo      bool
	HasAudio      bool
	Width         int
	Height        int
	FPS           int
	Bitrate       int
	AudioBitrate  int
	AudioQuality  string
	ContentLength int64
}

// Info is the full video information returned by a Resolver.
type Info struct {
	ID            string
	Title         string
	Thumbnails    []Thumbnail
	LengthSeconds int64
	Author        string
	ViewCount     int64
	PublishDate   time.Time
	Formats       []Format
}

// Summary is the metadata endpoint's view of a video.
type Summary struct {
	Title      string   `json:"title"`
	Thumbnail  string   `json:"thumbnail,omitempty"`
	Duration   string   `json:"duration"`
	Author     string   `json:"author"`
	ViewCount  string   `json:"viewCount"`
	UploadDate string   `json:"uploadDate"`
	Qualities  []string `json:"qualities"`
	HasAudio   bool     `json:"hasAudio"`
}

// Resolver fetches video information and opens media streams. Both calls go
// to the network; Open resolves the video again before streaming.
type Resolver interface {
	GetInfo(ctx context.Context, url string) (*Info, error)
	Open(ctx context.Context, url string, sel Selection) (io.ReadCloser, int64, error)
}
