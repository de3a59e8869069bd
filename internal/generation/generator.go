package generation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
)

// MinSideLength is the minimum number of characters (after trimming) each side
// of a generated card must have.
const MinSideLength = 5

// Skip reasons
const (
	ReasonNoBack     = "block has no back lines"
	ReasonShortFront = "front is shorter than 5 characters"
	ReasonShortBack  = "back is shorter than 5 characters"
)

var blankLineSeparator = regexp.MustCompile(`\n[ \t]*\n`)

// Draft is a parsed card that has not been persisted yet.
type Draft struct {
	Front string
	Back  string
}

// Skipped describes a block or row that did not produce a card. Index is the
// zero-based block number for text and the one-based row number for sheets.
type Skipped struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// Result holds the drafts parsed from a source, in input order, together
// with everything that was skipped.
type Result struct {
	Drafts  []Draft
	Skipped []Skipped
}

// ParseText splits text into blocks separated by one or more blank lines.
// In each block the first line is the front and the remaining lines, joined
// by newlines, are the back.
func ParseText(text string) Result {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var res Result
	blocks := lo.Filter(blankLineSeparator.Split(text, -1), func(b string, _ int) bool {
		return strings.TrimSpace(b) != ""
	})

	for i, block := range blocks {
		lines := lo.FilterMap(strings.Split(block, "\n"), func(l string, _ int) (string, bool) {
			l = strings.TrimSpace(l)
			return l, l != ""
		})

		if len(lines) < 2 {
			res.Skipped = append(res.Skipped, Skipped{Index: i, Reason: ReasonNoBack})
			continue
		}

		draft, reason := newDraft(lines[0], strings.Join(lines[1:], "\n"))
		if reason != "" {
			res.Skipped = append(res.Skipped, Skipped{Index: i, Reason: reason})
			continue
		}
		res.Drafts = append(res.Drafts, draft)
	}

	return res
}

// newDraft trims and checks both sides, returning a skip reason on failure.
func newDraft(front, back string) (Draft, string) {
	front = strings.TrimSpace(front)
	back = strings.TrimSpace(back)

	if utf8.RuneCountInString(front) < MinSideLength {
		return Draft{}, ReasonShortFront
	}
	if utf8.RuneCountInString(back) < MinSideLength {
		return Draft{}, ReasonShortBack
	}
	return Draft{Front: front, Back: back}, ""
}
