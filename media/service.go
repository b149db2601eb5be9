package media

import (
	"context"
	"io"
	"time"

	"github.com/nijaru/yt-proxy/logger"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Download is everything the download endpoint needs before streaming.
type Download struct {
	URL       string
	Title     string
	FileName  string
	Selection Selection
}

type Service struct {
	resolver       Resolver
	formatter      Formatter
	resolveTimeout time.Duration
}

func NewService(resolver Resolver, formatter Formatter, resolveTimeout time.Duration) *Service {
	return &Service{
		resolver:       resolver,
		formatter:      formatter,
		resolveTimeout: resolveTimeout,
	}
}

func (s *Service) resolve(ctx context.Context, url string) (*Info, error) {
	if s.resolveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.resolveTimeout)
		defer cancel()
	}

	start := time.Now()
	info, err := s.resolver.GetInfo(ctx, url)
	if err != nil {
		return nil, errors.Wrap(err, "error resolving video")
	}

	logger.FromContext(ctx).WithFields(logrus.Fields{
		"url":      url,
		"video_id": info.ID,
		"formats":  len(info.Formats),
		"duration": time.Since(start),
	}).Debug("Resolved video info")
	return info, nil
}

func (s *Service) Summarize(ctx context.Context, url string) (*Summary, error) {
	info, err := s.resolve(ctx, url)
	if err != nil {
		return nil, err
	}
	return BuildSummary(info, s.formatter), nil
}

func (s *Service) PrepareDownload(ctx context.Context, url, format, quality string) (*Download, error) {
	info, err := s.resolve(ctx, url)
	if err != nil {
		return nil, err
	}

	return &Download{
		URL:       url,
		Title:     info.Title,
		FileName:  FileName(info.Title),
		Selection: SelectionFor(format, quality),
	}, nil
}

// Open starts the media stream for d. The caller must close the reader; ctx
// cancellation tears down the upstream connection.
func (s *Service) Open(ctx context.Context, d *Download) (io.ReadCloser, int64, error) {
	stream, size, err := s.resolver.Open(ctx, d.URL, d.Selection)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "error opening %s stream", d.Selection.Filter)
	}
	return stream, size, nil
}
