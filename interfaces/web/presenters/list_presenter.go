// Package presenters transforms domain data into UI-ready view models.
package presenters

import (
	"errors"
	"fmt"
	"net/http"

	"listkeeper/application"
	"listkeeper/domain/lists"
)

// NameListVM is the view model for the lists owned by a scope
type NameListVM struct {
	Title   string   `json:"title"`
	Lists   []string `json:"lists"`
	Empty   bool     `json:"empty"`
	Display []string `json:"display"`
}

// ListVM is the view model for a single list
type ListVM struct {
	Title string   `json:"title"`
	Name  string   `json:"name"`
	Items []string `json:"items"`
	Count int      `json:"count"`
}

// PickVM is the view model for a draw from a list
type PickVM struct {
	Title  string   `json:"title"`
	Name   string   `json:"name"`
	Picked []string `json:"picked"`
}

// ErrorVM is the view model for a failed request
type ErrorVM struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ListPresenter turns list service results into response bodies.
type ListPresenter struct{}

// NewListPresenter creates a list presenter.
func NewListPresenter() *ListPresenter {
	return &ListPresenter{}
}

// ToNameListViewModel renders a scope listing. Display always has at least one
// entry so chat-style surfaces can print it as is.
func (p *ListPresenter) ToNameListViewModel(title string, listing *application.NameListing) *NameListVM {
	if title == "" {
		title = "Lists:"
	}
	names := []string{}
	if !listing.IsEmpty() {
		names = listing.Names
	}
	return &NameListVM{
		Title:   title,
		Lists:   names,
		Empty:   listing.IsEmpty(),
		Display: listing.OrSentinel(),
	}
}

// CreatedTitle is the heading shown after a list is created.
func (p *ListPresenter) CreatedTitle(name string) string {
	return fmt.Sprintf("List %s created!", name)
}

// DeletedTitle is the heading shown after a list is deleted.
func (p *ListPresenter) DeletedTitle(name string) string {
	return fmt.Sprintf("List %s deleted!", name)
}

// ToListViewModel renders the items of a list.
func (p *ListPresenter) ToListViewModel(name string, items []string) *ListVM {
	if items == nil {
		items = []string{}
	}
	return &ListVM{
		Title: "List: " + name,
		Name:  name,
		Items: items,
		Count: len(items),
	}
}

// ToPickViewModel renders the result of a draw.
func (p *ListPresenter) ToPickViewModel(name string, picked []string) *PickVM {
	return &PickVM{
		Title:  "List: " + name,
		Name:   name,
		Picked: picked,
	}
}

// FormatError maps an error kind to an HTTP status and a user-facing message.
func (p *ListPresenter) FormatError(err error) (int, *ErrorVM) {
	switch {
	case errors.Is(err, lists.ErrInvalidArgument):
		return http.StatusBadRequest, &ErrorVM{Error: err.Error(), Code: "invalid_argument"}
	case errors.Is(err, lists.ErrNotFound):
		return http.StatusNotFound, &ErrorVM{Error: "Invalid list name.", Code: "not_found"}
	case errors.Is(err, lists.ErrDuplicateListName):
		return http.StatusConflict, &ErrorVM{Error: "A list with that name already exists.", Code: "duplicate_list_name"}
	case errors.Is(err, lists.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, &ErrorVM{Error: "Lists are temporarily unavailable, try again later.", Code: "storage_unavailable"}
	default:
		return http.StatusInternalServerError, &ErrorVM{Error: "Internal server error", Code: "internal"}
	}
}
