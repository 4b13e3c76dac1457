package types

type HTTPServer interface {
	LifecycleManager
}

type HTTPRouter interface {
	Add(method, path string, handler RequestHandler) error
	GET(path string, handler RequestHandler) error
	POST(path string, handler RequestHandler) error
	PUT(path string, handler RequestHandler) error
	DELETE(path string, handler RequestHandler) error
	PATCH(path string, handler RequestHandler) error
	GetAllRoutes() map[string]RequestHandler
}

type RouteInfo struct {
	Method  string
	Path    string
	Handler RequestHandler
}
