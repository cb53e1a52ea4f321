package document

import "github.com/sangkips/quotify-api/pkg/apperror"

// DefaultPageCapacity is the number of item rows per page.
const DefaultPageCapacity = 10

// Paginate partitions lines into pages of at most pageCapacity rows,
// preserving order. The page holding the final line is marked Final; with no
// lines at all a single empty final page is returned so the totals block
// still has a home. A count that divides evenly does not produce a trailing
// empty page.
func Paginate(lines []Line, pageCapacity int) ([]Page, error) {
	if pageCapacity < 1 {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "page_capacity", Message: "Page capacity must be at least 1"},
		})
	}

	if len(lines) == 0 {
		return []Page{{Index: 1, StartSerial: 1, Lines: []Line{}, Final: true}}, nil
	}

	var pages []Page
	for start := 0; start < len(lines); start += pageCapacity {
		end := start + pageCapacity
		if end > len(lines) {
			end = len(lines)
		}
		pages = append(pages, Page{
			Index:       len(pages) + 1,
			StartSerial: start + 1,
			Lines:       lines[start:end],
		})
	}
	pages[len(pages)-1].Final = true

	return pages, nil
}
