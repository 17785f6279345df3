package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// IssueRange is a validated, 1-based inclusive range of issue numbers
type IssueRange struct {
	Start int
	End   int
}

// NewIssueRange validates start and end against the number of published issues
func NewIssueRange(start, end, count int) (IssueRange, error) {
	switch {
	case start < 1:
		return IssueRange{}, NewValidationError("start", start, "must be at least 1")
	case start > count:
		return IssueRange{}, NewValidationError("start", start,
			fmt.Sprintf("must not exceed the number of issues %d", count))
	case end < start:
		return IssueRange{}, NewValidationError("end", end,
			fmt.Sprintf("must not be less than start issue %d", start))
	case end > count:
		return IssueRange{}, NewValidationError("end", end,
			fmt.Sprintf("must not exceed the number of issues %d", count))
	}
	return IssueRange{Start: start, End: end}, nil
}

// ZeroBased returns the index range handed to the batch downloader: both
// bounds shifted down by one. The last requested issue is excluded unless
// Start == End, where normalization still yields that single issue.
func (r IssueRange) ZeroBased() (start, end int) {
	return r.Start - 1, r.End - 1
}

// ZeroBasedInclusive returns the 0-based, half-open index range covering
// every issue in r
func (r IssueRange) ZeroBasedInclusive() (start, end int) {
	return r.Start - 1, r.End
}

// Len returns the number of issues in the range
func (r IssueRange) Len() int {
	return r.End - r.Start + 1
}

// IssueDescriptor identifies one issue and where to find it
type IssueDescriptor struct {
	// Index is the 0-based position in the series
	Index int

	// Number is the padded, 1-based issue number ("01", "92")
	Number string

	MetadataURL string
	FileName    string
}

// Catalog derives issue descriptors from the configured templates
type Catalog struct {
	MetadataURLTemplate string
	FileNameTemplate    string

	// Count is the number of published issues
	Count int

	// FixedWidth pads every number to the digit count of Count
	FixedWidth bool
}

// PadNumber formats a 1-based issue number.
// Numbers below 10 get a single leading zero unless FixedWidth is set.
func (c Catalog) PadNumber(number int) string {
	width := 2
	if c.FixedWidth {
		if w := len(strconv.Itoa(c.Count)); w > width {
			width = w
		}
	}
	return fmt.Sprintf("%0*d", width, number)
}

// Describe returns the descriptor for the issue at the 0-based index
func (c Catalog) Describe(index int) IssueDescriptor {
	number := c.PadNumber(index + 1)
	return IssueDescriptor{
		Index:       index,
		Number:      number,
		MetadataURL: fmt.Sprintf(c.MetadataURLTemplate, number),
		FileName:    fmt.Sprintf(c.FileNameTemplate, number),
	}
}

// ValidateTemplate checks that tmpl has exactly one %s verb and no other verbs
func ValidateTemplate(tmpl string) error {
	stripped := strings.ReplaceAll(tmpl, "%%", "")
	if strings.Count(stripped, "%s") != 1 || strings.Count(stripped, "%") != 1 {
		return fmt.Errorf("%w: %q must contain exactly one %%s", ErrInvalidTemplate, tmpl)
	}
	return nil
}
