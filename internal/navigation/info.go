package navigation

// Info describes which navigation moves are valid from the current page.
type Info struct {
	HasPrevious  bool `json:"has_previous"`
	HasNext      bool `json:"has_next"`
	IsFirst      bool `json:"is_first"`
	IsLast       bool `json:"is_last"`
	PreviousPage int  `json:"previous_page,omitempty"` // 0 when HasPrevious is false
	NextPage     int  `json:"next_page,omitempty"`     // 0 when HasNext is false
}

// NewInfo computes navigation info for currentPage out of totalPages.
func NewInfo(currentPage, totalPages int) Info {
	info := Info{
		HasPrevious: currentPage > 1,
		HasNext:     currentPage < totalPages,
		IsFirst:     currentPage == 1,
		IsLast:      currentPage == totalPages,
	}
	if info.HasPrevious {
		info.PreviousPage = currentPage - 1
	}
	if info.HasNext {
		info.NextPage = currentPage + 1
	}
	return info
}

// maxWindowButtons is the number of numbered page buttons shown at once.
const maxWindowButtons = 10

// Window is the set of page numbers offered by page-view controls.
type Window struct {
	Pages    []int `json:"pages"`
	ShowLast bool  `json:"show_last"` // Offer a separate jump to the last page
	Last     int   `json:"last"`
}

// PageWindow returns up to ten page numbers around currentPage. Once the
// document has more than ten pages the window starts four pages before the
// current one.
func PageWindow(currentPage, totalPages int) Window {
	w := Window{Last: totalPages}
	if totalPages <= 0 {
		return w
	}
	if totalPages <= maxWindowButtons {
		for p := 1; p <= totalPages; p++ {
			w.Pages = append(w.Pages, p)
		}
		return w
	}

	start := max(1, currentPage-4)
	end := min(totalPages, start+maxWindowButtons-1)
	for p := start; p <= end; p++ {
		w.Pages = append(w.Pages, p)
	}
	w.ShowLast = currentPage < totalPages-5
	return w
}
