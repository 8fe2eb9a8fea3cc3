package presenters

import (
	"listkeeper/application"
)

// ListPresenterInterface defines the contract for list presentation logic.
type ListPresenterInterface interface {
	ToNameListViewModel(title string, listing *application.NameListing) *NameListVM
	ToListViewModel(name string, items []string) *ListVM
	ToPickViewModel(name string, picked []string) *PickVM
	FormatError(err error) (int, *ErrorVM)
}

// Ensure ListPresenter implements the interface.
var _ ListPresenterInterface = (*ListPresenter)(nil)
