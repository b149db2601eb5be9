package media

import (
	"fmt"
	"time"
)

// Formatter renders view counts and upload dates for a locale.
type Formatter interface {
	Number(n int64) string
	Date(t time.Time) string
}

func BuildSummary(info *Info, f Formatter) *Summary {
	summary := &Summary{
		Title:      info.Title,
		Duration:   FormatDuration(info.LengthSeconds),
		Author:     info.Author,
		ViewCount:  f.Number(info.ViewCount),
		UploadDate: f.Date(info.PublishDate),
		Qualities:  Qualities(info.Formats),
		HasAudio:   HasAudioOnly(info.Formats),
	}
	if len(info.Thumbnails) > 0 {
		summary.Thumbnail = info.Thumbnails[0].URL
	}
	return summary
}

// FormatDuration renders seconds as H:MM:SS when there is at least one hour,
// otherwise M:SS.
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// Qualities lists the quality labels of formats carrying both video and
// audio, in first-seen order, without duplicates or empty labels.
func Qualities(formats []Format) []string {
	seen := make(map[string]bool)
	qualities := []string{}
	for _, f := range FilterFormats(formats, FilterVideoAndAudio) {
		if f.QualityLabel == "" || seen[f.QualityLabel] {
			continue
		}
		seen[f.QualityLabel] = true
		qualities = append(qualities, f.QualityLabel)
	}
	return qualities
}

// HasAudioOnly reports whether any audio-only format exists.
func HasAudioOnly(formats []Format) bool {
	return len(FilterFormats(formats, FilterAudioOnly)) > 0
}
