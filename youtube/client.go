// Package youtube adapts github.com/kkdai/youtube/v2 to media.Resolver.
package youtube

import (
	"context"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/kkdai/youtube/v2"
	"github.com/nijaru/yt-proxy/config"
	"github.com/nijaru/yt-proxy/logger"
	"github.com/nijaru/yt-proxy/media"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var ErrNoSuchFormat = errors.New("no such format found")

type Client struct {
	yt *youtube.Client
}

func NewClient(cfg config.UpstreamConfig) *Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = cfg.HeaderTimeout

	return &Client{
		yt: &youtube.Client{
			HTTPClient: &http.Client{Transport: transport},
			// One chunk at a time keeps bytes in upstream order.
			MaxRoutines: 1,
			ChunkSize:   cfg.ChunkSize,
		},
	}
}

func (c *Client) GetInfo(ctx context.Context, url string) (*media.Info, error) {
	video, err := c.yt.GetVideoContext(ctx, url)
	if err != nil {
		return nil, errors.Wrap(err, "error fetching video")
	}
	return toInfo(video), nil
}

func (c *Client) Open(ctx context.Context, url string, sel media.Selection) (io.ReadCloser, int64, error) {
	video, err := c.yt.GetVideoContext(ctx, url)
	if err != nil {
		return nil, 0, errors.Wrap(err, "error fetching video")
	}

	idx, err := chooseFormat(toFormats(video.Formats), sel)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "video %s", video.ID)
	}
	format := &video.Formats[idx]

	logger.FromContext(ctx).WithFields(logrus.Fields{
		"video_id":       video.ID,
		"itag":           format.ItagNo,
		"quality_label":  format.QualityLabel,
		"mime_type":      format.MimeType,
		"content_length": format.ContentLength,
	}).Debug("Opening media stream")

	stream, size, err := c.yt.GetStreamContext(ctx, video, format)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "error opening stream for itag %d", format.ItagNo)
	}
	return stream, size, nil
}

func toInfo(video *youtube.Video) *media.Info {
	info := &media.Info{
		ID:            video.ID,
		Title:         video.Title,
		LengthSeconds: int64(video.Duration.Seconds()),
		Author:        video.Author,
		ViewCount:     int64(video.Views),
		PublishDate:   video.PublishDate,
		Formats:       toFormats(video.Formats),
	}
	for _, t := range video.Thumbnails {
		info.Thumbnails = append(info.Thumbnails, media.Thumbnail{
			URL:    t.URL,
			Width:  t.Width,
			Height: t.Height,
		})
	}
	return info
}

func toFormats(formats youtube.FormatList) []media.Format {
	out := make([]media.Format, 0, len(formats))
	for _, f := range formats {
		hasVideo := f.QualityLabel != "" || strings.HasPrefix(f.MimeType, "video/")
		hasAudio := f.AudioChannels > 0
		out = append(out, media.Format{
			Itag:          f.ItagNo,
			MimeType:      f.MimeType,
			Container:     container(f.MimeType),
			QualityLabel:  f.QualityLabel,
			HasVideo:      hasVideo,
			HasAudio:      hasAudio,
			Width:         f.Width,
			Height:        f.Height,
			FPS:           f.FPS,
			Bitrate:       f.Bitrate,
			AudioBitrate:  audioBitrate(f, hasVideo, hasAudio),
			AudioQuality:  f.AudioQuality,
			ContentLength: f.ContentLength,
		})
	}
	return out
}

// container extracts "mp4" from `video/mp4; codecs="avc1.64001F, mp4a.40.2"`.
func container(mimeType string) string {
	base := strings.TrimSpace(strings.SplitN(mimeType, ";", 2)[0])
	if i := strings.IndexByte(base, '/'); i >= 0 {
		return base[i+1:]
	}
	return ""
}

// audioBitrate estimates kbps. Audio-only formats report their own bitrate;
// muxed formats only carry an audio quality bucket.
func audioBitrate(f youtube.Format, hasVideo, hasAudio bool) int {
	if !hasAudio {
		return 0
	}
	if !hasVideo {
		if f.AverageBitrate > 0 {
			return f.AverageBitrate / 1000
		}
		return f.Bitrate / 1000
	}
	switch f.AudioQuality {
	case "AUDIO_QUALITY_HIGH":
		return 192
	case "AUDIO_QUALITY_MEDIUM":
		return 128
	case "AUDIO_QUALITY_LOW":
		return 48
	default:
		return 0
	}
}

// chooseFormat returns the index in formats of the rendition sel asks for.
func chooseFormat(formats []media.Format, sel media.Selection) (int, error) {
	var candidates []int
	for i, f := range formats {
		if sel.Filter.Match(f) {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return 0, errors.Wrapf(ErrNoSuchFormat, "no format matches filter %s", sel.Filter)
	}

	switch sel.Quality {
	case media.QualityHighest:
		sort.SliceStable(candidates, func(a, b int) bool {
			return betterVideo(formats[candidates[a]], formats[candidates[b]])
		})
		return candidates[0], nil
	case media.QualityHighestAudio:
		sort.SliceStable(candidates, func(a, b int) bool {
			return betterAudio(formats[candidates[a]], formats[candidates[b]])
		})
		return candidates[0], nil
	}

	for _, i := range candidates {
		f := formats[i]
		if strconv.Itoa(f.Itag) == sel.Quality || strings.EqualFold(f.QualityLabel, sel.Quality) {
			return i, nil
		}
	}
	return 0, errors.Wrapf(ErrNoSuchFormat, "quality %q", sel.Quality)
}

func betterVideo(a, b media.Format) bool {
	if a.Height != b.Height {
		return a.Height > b.Height
	}
	if a.FPS != b.FPS {
		return a.FPS > b.FPS
	}
	if a.Bitrate != b.Bitrate {
		return a.Bitrate > b.Bitrate
	}
	return a.AudioBitrate > b.AudioBitrate
}

func betterAudio(a, b media.Format) bool {
	if a.AudioBitrate != b.AudioBitrate {
		return a.AudioBitrate > b.AudioBitrate
	}
	return a.Bitrate > b.Bitrate
}
