package media

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

type Filter string

const (
	FilterAudioOnly        Filter = "audioonly"
	FilterVideoAndAudio    Filter = "videoandaudio"
	FilterMP4VideoAndAudio Filter = "mp4videoandaudio"
)

const (
	QualityHighest      = "highest"
	QualityHighestAudio = "highestaudio"
)

const (
	ContentTypeAudio = "audio/mp4"
	ContentTypeVideo = "video/mp4"
)

const maxFileNameLength = 100

// Match reports whether f passes the filter.
func (filter Filter) Match(f Format) bool {
	switch filter {
	case FilterAudioOnly:
		return f.HasAudio && !f.HasVideo
	case FilterVideoAndAudio:
		return f.HasVideo && f.HasAudio
	case FilterMP4VideoAndAudio:
		return f.Container == "mp4" && f.HasVideo && f.HasAudio
	default:
		return false
	}
}

func FilterFormats(formats []Format, filter Filter) []Format {
	var out []Format
	for _, f := range formats {
		if filter.Match(f) {
			out = append(out, f)
		}
	}
	return out
}

// Selection says which rendition a download should stream.
type Selection struct {
	Filter      Filter
	Quality     string
	ContentType string
}

// SelectionFor maps the caller's format and quality parameters to a policy:
// "audio" picks the best audio-only track, "best" the best combined track,
// anything else a combined mp4 track at the requested quality.
func SelectionFor(format, quality string) Selection {
	if format == "audio" {
		return Selection{
			Filter:      FilterAudioOnly,
			Quality:     QualityHighestAudio,
			ContentType: ContentTypeAudio,
		}
	}

	if quality == "best" {
		return Selection{
			Filter:      FilterVideoAndAudio,
			Quality:     QualityHighest,
			ContentType: ContentTypeVideo,
		}
	}

	if quality == "" {
		quality = QualityHighest
	}
	return Selection{
		Filter:      FilterMP4VideoAndAudio,
		Quality:     quality,
		ContentType: ContentTypeVideo,
	}
}

var (
	illegalFileChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	whitespaceRun    = regexp.MustCompile(`\s+`)
)

// SanitizeFileName strips characters file systems reject, collapses
// whitespace and truncates to 100 runes. Returns "video" if nothing is left.
func SanitizeFileName(title string) string {
	name := illegalFileChars.ReplaceAllString(title, "")
	name = whitespaceRun.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)

	if utf8.RuneCountInString(name) > maxFileNameLength {
		name = strings.TrimSpace(string([]rune(name)[:maxFileNameLength]))
	}

	if name == "" {
		return "video"
	}
	return name
}

// FileName is the attachment name for a download. Audio-only payloads are
// also labelled .mp4.
func FileName(title string) string {
	return SanitizeFileName(title) + ".mp4"
}
