package content

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// A post body ("document string") is markdown-like text with inline image
// markers in ![alt](url) form. The editor cannot work on that directly - it
// needs images as discrete, removable blocks with editable text gaps between
// them. The codec maps between the two shapes.

type SegmentKind string

const (
	SegmentText  SegmentKind = "text"
	SegmentImage SegmentKind = "image"
)

type Segment struct {
	ID      string      `json:"id"`
	Kind    SegmentKind `json:"kind"`
	Content string      `json:"content"` // text run, or the image URL
}

var imageMarkerRegex = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`)

// Decode splits a document into an ordered list of text and image segments.
// Every maximal run of non-marker text becomes one text segment, every
// well-formed image marker becomes one image segment. Malformed markers are
// not recognized and stay inside the surrounding text run. A blank document
// decodes to a single empty text segment, never to zero segments.
func Decode(document string) []Segment {
	if strings.TrimSpace(document) == "" {
		return []Segment{newTextSegment("")}
	}

	var segments []Segment
	lastIndex := 0
	for _, match := range imageMarkerRegex.FindAllStringSubmatchIndex(document, -1) {
		if match[0] > lastIndex {
			segments = append(segments, newTextSegment(document[lastIndex:match[0]]))
		}
		segments = append(segments, newImageSegment(document[match[4]:match[5]]))
		lastIndex = match[1]
	}

	if lastIndex < len(document) {
		segments = append(segments, newTextSegment(document[lastIndex:]))
	}

	if len(segments) == 0 {
		return []Segment{newTextSegment(document)}
	}

	return segments
}

// Encode is the inverse of Decode: segments concatenated in order, image
// segments serialized back to markers with placeholder alt text.
// Encode(Decode(d)) == d holds for documents with only well-formed markers.
func Encode(segments []Segment) string {
	var sb strings.Builder
	for _, seg := range segments {
		if seg.Kind == SegmentImage {
			sb.WriteString(fmt.Sprintf("![Image](%s)", seg.Content))
		} else {
			sb.WriteString(seg.Content)
		}
	}
	return sb.String()
}

// Document is the editable form of a post body. Mutation operations never
// fail; at least one text segment is present at all times.
type Document struct {
	segments []Segment
}

func Parse(document string) *Document {
	return &Document{segments: Decode(document)}
}

func (d *Document) Segments() []Segment {
	segments := make([]Segment, len(d.segments))
	copy(segments, d.segments)
	return segments
}

func (d *Document) String() string {
	return Encode(d.segments)
}

// InsertImageAfter puts a new image segment right after the given segment
// (at the very start when the id is unknown). When the image would end up
// last or directly before another image, an empty text segment is inserted
// after it so there is always an editable gap.
func (d *Document) InsertImageAfter(segmentID, imageURL string) {
	at := d.indexOf(segmentID) + 1

	segments := make([]Segment, 0, len(d.segments)+2)
	segments = append(segments, d.segments[:at]...)
	segments = append(segments, newImageSegment(imageURL))
	if at == len(d.segments) || d.segments[at].Kind == SegmentImage {
		segments = append(segments, newTextSegment(""))
	}
	segments = append(segments, d.segments[at:]...)

	d.segments = segments
}

// Remove drops the given segment. The segment list never becomes empty or
// all-images: a fresh empty text segment is appended when it would.
func (d *Document) Remove(segmentID string) {
	segments := d.segments[:0:0]
	for _, seg := range d.segments {
		if seg.ID != segmentID {
			segments = append(segments, seg)
		}
	}

	if !hasTextSegment(segments) {
		segments = append(segments, newTextSegment(""))
	}

	d.segments = segments
}

// ReplaceText swaps the content of a text segment; image segments and
// unknown ids are left alone.
func (d *Document) ReplaceText(segmentID, text string) {
	for i := range d.segments {
		if d.segments[i].ID == segmentID && d.segments[i].Kind == SegmentText {
			d.segments[i].Content = text
			return
		}
	}
}

func (d *Document) indexOf(segmentID string) int {
	for i := range d.segments {
		if d.segments[i].ID == segmentID {
			return i
		}
	}
	return -1
}

func hasTextSegment(segments []Segment) bool {
	for _, seg := range segments {
		if seg.Kind == SegmentText {
			return true
		}
	}
	return false
}

func newTextSegment(text string) Segment {
	return Segment{ID: uuid.NewString(), Kind: SegmentText, Content: text}
}

func newImageSegment(url string) Segment {
	return Segment{ID: uuid.NewString(), Kind: SegmentImage, Content: url}
}
