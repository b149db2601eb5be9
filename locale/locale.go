// Package locale holds the client-facing message catalogue and the number and
// date conventions used when rendering video summaries.
package locale

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys. The English text doubles as the key.
const (
	MsgMethodNotAllowed = "Method not allowed"
	MsgInvalidURL       = "Invalid video URL"
	MsgInfoFailed       = "Error retrieving video information"
	MsgDownloadFailed   = "Error downloading video: %s"
	MsgStreamFailed     = "Error during download"
	MsgInternalError    = "Internal server error"
	MsgNotFound         = "Not found"
)

func init() {
	es := language.Spanish
	message.SetString(es, MsgMethodNotAllowed, "Método no permitido")
	message.SetString(es, MsgInvalidURL, "URL de YouTube inválida")
	message.SetString(es, MsgInfoFailed, "Error al obtener información del video")
	message.SetString(es, MsgDownloadFailed, "Error al descargar el video: %s")
	message.SetString(es, MsgStreamFailed, "Error durante la descarga")
	message.SetString(es, MsgInternalError, "Error interno del servidor")
	message.SetString(es, MsgNotFound, "No encontrado")
}

// Messages translates catalogue keys into one language.
type Messages struct {
	printer *message.Printer
}

func NewMessages(tag string) (*Messages, error) {
	t, err := language.Parse(tag)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid message language %q", tag)
	}
	return &Messages{printer: message.NewPrinter(t)}, nil
}

func (m *Messages) Get(key string, args ...interface{}) string {
	return m.printer.Sprintf(key, args...)
}

// Formatter renders numbers and dates the way a given locale writes them.
type Formatter struct {
	numbers *message.Printer
	date    dateStyle
}

type dateStyle struct {
	monthFirst bool
	sep        string
}

// Languages whose short numeric dates use a separator other than "/".
var dateSeparators = map[language.Base]string{
	mustBase("de"): ".",
	mustBase("ru"): ".",
	mustBase("pl"): ".",
	mustBase("fi"): ".",
	mustBase("tr"): ".",
	mustBase("cs"): ".",
	mustBase("nl"): "-",
}

// Regions that write the month before the day.
var monthFirstRegions = map[string]bool{
	"US": true,
	"PH": true,
	"PR": true,
}

func mustBase(s string) language.Base {
	return language.MustParseBase(s)
}

func NewFormatter(numberLocale, dateLocale string) (*Formatter, error) {
	numberTag, err := language.Parse(numberLocale)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid number locale %q", numberLocale)
	}
	dateTag, err := language.Parse(dateLocale)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid date locale %q", dateLocale)
	}

	base, _ := dateTag.Base()
	region, _ := dateTag.Region()

	style := dateStyle{sep: "/", monthFirst: monthFirstRegions[region.String()]}
	if sep, ok := dateSeparators[base]; ok {
		style.sep = sep
	}

	return &Formatter{
		numbers: message.NewPrinter(numberTag),
		date:    style,
	}, nil
}

// Number groups thousands per the number locale, e.g. 1234567 -> "1,234,567" in en-US.
func (f *Formatter) Number(n int64) string {
	return f.numbers.Sprintf("%d", n)
}

// Date renders t as a short numeric date in UTC, day and month unpadded.
// The zero time renders as "".
func (f *Formatter) Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	t = t.UTC()
	first, second := t.Day(), int(t.Month())
	if f.date.monthFirst {
		first, second = second, first
	}
	return fmt.Sprintf("%d%s%d%s%d", first, f.date.sep, second, f.date.sep, t.Year())
}
