package facts

import "strings"

const (
	// DefaultFactsPath is the facts collection
	DefaultFactsPath = "/animals/facts"
	// DefaultQueryPath is the question endpoint
	DefaultQueryPath = "/animals"
)

// Endpoints holds the two absolute URLs the client talks to. It is built
// once at startup and never changed.
type Endpoints struct {
	Facts string
	Query string
}

// NewEndpoints resolves the default paths against a base URL.
func NewEndpoints(baseURL string) Endpoints {
	return ResolveEndpoints(baseURL, DefaultFactsPath, DefaultQueryPath)
}

// ResolveEndpoints joins custom paths onto a base URL.
func ResolveEndpoints(baseURL, factsPath, queryPath string) Endpoints {
	base := strings.TrimRight(baseURL, "/")
	return Endpoints{
		Facts: base + ensureSlash(factsPath),
		Query: base + ensureSlash(queryPath),
	}
}

func ensureSlash(p string) string {
	if strings.HasPrefix(p, "/") {
		return p
	}
	return "/" + p
}

// FactURL addresses one fact. The id is appended as given.
func (e Endpoints) FactURL(factID string) string {
	return e.Facts + "/" + factID
}

// QueryURL carries the question as the q parameter, unencoded.
func (e Endpoints) QueryURL(question string) string {
	return e.Query + "?q=" + question
}
