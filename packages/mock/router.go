package mock

import (
	"net/http"
	"regexp"
	"strings"
)

// HandlerFunc serves a matched route. params holds the path parameters.
type HandlerFunc func(w http.ResponseWriter, r *http.Request, params map[string]string)

// Route represents a mock route
type Route struct {
	Method      string
	PathPattern string
	PathRegex   *regexp.Regexp
	Name        string
	Handler     HandlerFunc
}

// Router matches incoming requests to routes
type Router struct {
	routes []*Route
}

// NewRouter creates a new router
func NewRouter() *Router {
	return &Router{
		routes: make([]*Route, 0),
	}
}

// Handle registers a handler for a method and a path pattern such as
// /animals/facts/{{id}}
func (r *Router) Handle(method, pattern, name string, h HandlerFunc) {
	r.AddRoute(&Route{
		Method:      method,
		PathPattern: pattern,
		PathRegex:   createPathRegex(pattern),
		Name:        name,
		Handler:     h,
	})
}

// AddRoute adds a route to the router
func (r *Router) AddRoute(route *Route) {
	r.routes = append(r.routes, route)
}

// Match finds a route matching the given method and path
func (r *Router) Match(method, path string) (*Route, map[string]string) {
	// Normalize path
	path = normalizePath(path)

	for _, route := range r.routes {
		if !strings.EqualFold(route.Method, method) {
			continue
		}

		if params := matchPath(route, path); params != nil {
			return route, params
		}
	}

	return nil, nil
}

// Allowed lists the methods registered for a path
func (r *Router) Allowed(path string) []string {
	path = normalizePath(path)

	var methods []string
	for _, route := range r.routes {
		if matchPath(route, path) != nil {
			methods = append(methods, route.Method)
		}
	}
	return methods
}

func normalizePath(path string) string {
	// Ensure path starts with /
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	// Remove trailing slash (except for root)
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		path = path[:len(path)-1]
	}
	return path
}

func createPathRegex(pattern string) *regexp.Regexp {
	// Convert {{param}} to named capture groups
	quoted := regexp.QuoteMeta(pattern)
	quoted = strings.ReplaceAll(quoted, `\{\{`, "{{")
	quoted = strings.ReplaceAll(quoted, `\}\}`, "}}")
	regexPattern := regexp.MustCompile(`\{\{([^}]+)\}\}`).ReplaceAllString(quoted, `(?P<$1>[^/]+)`)

	regex, err := regexp.Compile("^" + regexPattern + "$")
	if err != nil {
		// Fallback to literal match
		return regexp.MustCompile("^" + regexp.QuoteMeta(pattern) + "$")
	}
	return regex
}

func matchPath(route *Route, path string) map[string]string {
	// Try regex match first
	if route.PathRegex != nil {
		matches := route.PathRegex.FindStringSubmatch(path)
		if matches != nil {
			params := make(map[string]string)
			names := route.PathRegex.SubexpNames()
			for i, name := range names {
				if i > 0 && name != "" && i < len(matches) {
					params[name] = matches[i]
				}
			}
			return params
		}
	}

	// Exact match
	if route.PathPattern == path {
		return make(map[string]string)
	}

	return nil
}
