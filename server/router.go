package server

import (
	"strings"
	"sync"

	"github.com/saiset-co/sai-pipeline/types"
)

var knownMethods = map[string]struct{}{
	"GET":     {},
	"POST":    {},
	"PUT":     {},
	"DELETE":  {},
	"PATCH":   {},
	"HEAD":    {},
	"OPTIONS": {},
}

type compiledRoute struct {
	method     string
	pattern    string
	segments   []string
	paramNames []string
	handler    types.RequestHandler
}

// Router resolves requests against a static route map first and falls
// back to compiled patterns with {param} segments.
type Router struct {
	mu            sync.RWMutex
	staticRoutes  map[string]*types.RouteInfo
	dynamicRoutes []*compiledRoute
}

func NewRouter() *Router {
	return &Router{
		staticRoutes:  make(map[string]*types.RouteInfo),
		dynamicRoutes: make([]*compiledRoute, 0),
	}
}

func (r *Router) Add(method, path string, handler types.RequestHandler) error {
	if _, ok := knownMethods[method]; !ok {
		return types.Errorf(types.ErrMethodUnknown, "%s", method)
	}

	if handler == nil {
		return types.Errorf(types.ErrHandlerIsNil, "%s %s", method, path)
	}

	path = normalizePath(path)

	r.mu.Lock()
	defer r.mu.Unlock()

	if !strings.Contains(path, "{") {
		key := method + ":" + path
		if _, exists := r.staticRoutes[key]; exists {
			return types.Errorf(types.ErrRouteExists, "%s", key)
		}
		r.staticRoutes[key] = &types.RouteInfo{
			Method:  method,
			Path:    path,
			Handler: handler,
		}
		return nil
	}

	for _, route := range r.dynamicRoutes {
		if route.method == method && route.pattern == path {
			return types.Errorf(types.ErrRouteExists, "%s:%s", method, path)
		}
	}

	segments := parsePathSegments(path)
	var paramNames []string
	for _, seg := range segments {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			paramNames = append(paramNames, seg[1:len(seg)-1])
		}
	}

	r.dynamicRoutes = append(r.dynamicRoutes, &compiledRoute{
		method:     method,
		pattern:    path,
		segments:   segments,
		paramNames: paramNames,
		handler:    handler,
	})

	return nil
}

func (r *Router) GET(path string, handler types.RequestHandler) error {
	return r.Add("GET", path, handler)
}

func (r *Router) POST(path string, handler types.RequestHandler) error {
	return r.Add("POST", path, handler)
}

func (r *Router) PUT(path string, handler types.RequestHandler) error {
	return r.Add("PUT", path, handler)
}

func (r *Router) DELETE(path string, handler types.RequestHandler) error {
	return r.Add("DELETE", path, handler)
}

func (r *Router) PATCH(path string, handler types.RequestHandler) error {
	return r.Add("PATCH", path, handler)
}

// Lookup returns the matched handler and, for dynamic routes, the
// extracted path parameters.
func (r *Router) Lookup(method, path string) (types.RequestHandler, map[string]string) {
	path = normalizePath(path)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if info, ok := r.staticRoutes[method+":"+path]; ok {
		return info.Handler, nil
	}

	pathSegments := parsePathSegments(path)

	for _, route := range r.dynamicRoutes {
		if route.method != method {
			continue
		}
		if params, ok := matchSegments(pathSegments, route); ok {
			return route.handler, params
		}
	}

	return nil, nil
}

func (r *Router) GetAllRoutes() map[string]types.RequestHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	routes := make(map[string]types.RequestHandler, len(r.staticRoutes)+len(r.dynamicRoutes))
	for key, info := range r.staticRoutes {
		routes[key] = info.Handler
	}
	for _, route := range r.dynamicRoutes {
		routes[route.method+":"+route.pattern] = route.handler
	}

	return routes
}

func matchSegments(pathSegments []string, route *compiledRoute) (map[string]string, bool) {
	if len(pathSegments) != len(route.segments) {
		return nil, false
	}

	var params map[string]string
	paramIdx := 0

	for i, routeSegment := range route.segments {
		if strings.HasPrefix(routeSegment, "{") {
			if params == nil {
				params = make(map[string]string, len(route.paramNames))
			}
			params[route.paramNames[paramIdx]] = pathSegments[i]
			paramIdx++
			continue
		}
		if routeSegment != pathSegments[i] {
			return nil, false
		}
	}

	return params, true
}

func parsePathSegments(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return []string{}
	}
	return strings.Split(path, "/")
}

func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if path[0] != '/' {
		path = "/" + path
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	return path
}
