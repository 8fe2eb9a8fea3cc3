// Package lists holds the list entity, its item encoding and the sampler.
package lists

// Scope is the ownership boundary for lists: a community id when the request
// comes from a shared community, otherwise the requesting individual's id.
type Scope int64

// ResolveScope derives the scope of a request. communityID is zero when the
// request has no community context, in which case the individual owns the lists.
func ResolveScope(communityID, individualID int64) Scope {
	if communityID != 0 {
		return Scope(communityID)
	}
	return Scope(individualID)
}

// NoListsFound is the placeholder a surface can show when a scope owns no lists.
const NoListsFound = "No lists found."

// DefaultPickCount is the number of draws made when the caller does not ask for one.
const DefaultPickCount = 1

// MaxPickCount is the largest number of draws a single pick may ask for.
const MaxPickCount = 1000

// List is a named, ordered collection of text items owned by exactly one scope.
type List struct {
	ID    int64 // assigned by storage, immutable
	Scope Scope
	Name  string
	Items []string
}
