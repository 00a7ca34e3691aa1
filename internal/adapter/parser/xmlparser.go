package parser

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/toddlers/naws/internal/domain"
)

var (
	// ErrUnsupportedFeed is returned for documents whose root element is not <rss> or <rdf:RDF>.
	ErrUnsupportedFeed = errors.New("unsupported feed type")
	// ErrMissingChannel is returned when the root element has no <channel> child.
	ErrMissingChannel = errors.New("missing <channel> element")
)

type rssXML struct {
	Channel *channelXML `xml:"channel"`
	// RSS 1.0 (RDF) keeps items next to the channel instead of inside it.
	Items []itemXML `xml:"item"`
}

type channelXML struct {
	Items []itemXML `xml:"item"`
}

type itemXML struct {
	Title       *textField  `xml:"title"`
	Link        *textField  `xml:"link"`
	Description *textField  `xml:"description"`
	PubDate     *textField  `xml:"pubDate"`
	Categories  []textField `xml:"category"`
}

// textField collects every character data fragment of an element, including CDATA
// sections and text nested in child elements. Fragments are trimmed and joined
// with a single space, so split text is never silently dropped.
type textField struct {
	value string
}

func (f *textField) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var parts []string
	depth := 0
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth == 0 {
				f.value = strings.Join(parts, " ")
				return nil
			}
			depth--
		case xml.CharData:
			if s := strings.TrimSpace(string(t)); s != "" {
				parts = append(parts, s)
			}
		}
	}
}

func (f *textField) ptr() *string {
	if f == nil {
		return nil
	}
	v := f.value
	return &v
}

func (f *textField) orDefault(def string) string {
	if f == nil || f.value == "" {
		return def
	}
	return f.value
}

// XMLParser turns RSS documents into announcements.
type XMLParser struct {
	log *slog.Logger
}

// NewXMLParser creates a parser that reports decode failures through log.
func NewXMLParser(log *slog.Logger) *XMLParser {
	return &XMLParser{
		log: log,
	}
}

// Parse decodes a buffered RSS document into announcements in document order.
// The declared character encoding is honoured: non UTF-8 documents are transcoded and
// undecodable bytes become U+FFFD, while invalid bytes in a UTF-8 document fail the parse.
// Every structural problem is reported as *domain.ParseError.
func (p *XMLParser) Parse(ctx context.Context, data []byte) ([]domain.Announcement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := p.log.With(slog.String("component", "parser"))

	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.CharsetReader = charset.NewReaderLabel
	decoder.Entity = xml.HTMLEntity

	root, err := rootElement(decoder)
	if err != nil {
		log.Error("Error decoding XML", slog.Any("error", err))
		return nil, newParseError(err)
	}
	if root == nil || !isRSSRoot(root.Name) {
		kind := "no root element"
		if root != nil {
			kind = "<" + root.Name.Local + ">"
		}
		log.Error("Unsupported feed document", slog.String("root", kind))
		return nil, &domain.ParseError{Err: fmt.Errorf("%w: %s", ErrUnsupportedFeed, kind)}
	}

	var rss rssXML
	if err := decoder.DecodeElement(&rss, root); err != nil {
		log.Error(
			"Error decoding XML",
			slog.Any("error", err),
		)
		return nil, newParseError(err)
	}
	if rss.Channel == nil {
		log.Error("Feed has no channel")
		return nil, &domain.ParseError{Err: ErrMissingChannel}
	}

	raw := append(rss.Channel.Items, rss.Items...)
	items := make([]domain.Announcement, 0, len(raw))
	for _, itemDTO := range raw {
		items = append(items, itemDTO.toDomain())
	}
	log.Debug("Feed parsed", slog.Int("items_found", len(items)))
	return items, nil
}

func (it itemXML) toDomain() domain.Announcement {
	categories := make([]string, 0, len(it.Categories))
	for _, c := range it.Categories {
		categories = append(categories, c.value)
	}
	return domain.Announcement{
		Title:           it.Title.orDefault(domain.UntitledPlaceholder),
		Link:            it.Link.orDefault(domain.NoLinkPlaceholder),
		Description:     it.Description.ptr(),
		PublicationDate: it.PubDate.ptr(),
		Categories:      categories,
	}
}

func newParseError(err error) *domain.ParseError {
	parseErr := &domain.ParseError{Err: err}
	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		parseErr.Line = syntaxErr.Line
	}
	return parseErr
}

// rootElement skips the prolog and returns the document element, or nil when the
// input ends before any element starts (empty input, plain text, JSON).
func rootElement(d *xml.Decoder) (*xml.StartElement, error) {
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return &start, nil
		}
	}
}

// isRSSRoot accepts RSS 0.9x/2.0 <rss> and RSS 1.0 <rdf:RDF> documents.
func isRSSRoot(name xml.Name) bool {
	return strings.EqualFold(name.Local, "rss") || name.Local == "RDF"
}
