package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-parsejson/pkg/apispec"
	"github.com/goliatone/go-parsejson/pkg/page"
)

// Mux is the minimal interface required to register a net/http handler.
// It is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// Routes lists the patterns RegisterRoutes mounted.
type Routes struct {
	Index   string
	Parse   string
	Static  string
	OpenAPI string
}

// NewHandler returns the complete service: every route on a fresh mux,
// wrapped in request logging.
func NewHandler(fns ...OptionFn) (http.Handler, error) {
	opts := NewOptions(fns...)
	mux := http.NewServeMux()
	if _, err := RegisterRoutesWithOptions(mux, "", opts); err != nil {
		return nil, err
	}
	return WithRequestLogging(mux, opts.Logger), nil
}

// RegisterRoutes mounts the service under basePath on mux.
func RegisterRoutes(mux Mux, basePath string, fns ...OptionFn) (Routes, error) {
	return RegisterRoutesWithOptions(mux, basePath, NewOptions(fns...))
}

// RegisterRoutesWithOptions mounts the service using a pre-built Options
// value. The embedded OpenAPI document is validated before anything is
// registered.
func RegisterRoutesWithOptions(mux Mux, basePath string, opts Options) (Routes, error) {
	if mux == nil {
		return Routes{}, fmt.Errorf("server: missing mux")
	}
	opts = NewOptions(func(o *Options) { *o = opts })

	if _, err := apispec.Load(context.Background()); err != nil {
		return Routes{}, fmt.Errorf("server: %w", err)
	}

	pages := opts.Pages
	if pages == nil {
		var err error
		pages, err = page.New()
		if err != nil {
			return Routes{}, fmt.Errorf("server: %w", err)
		}
	}

	routes := Routes{
		Index:   mountPath(basePath, "/"),
		Parse:   mountPath(basePath, opts.ParsePath),
		Static:  mountDir(mountPath(basePath, opts.StaticPath)),
		OpenAPI: mountPath(basePath, opts.OpenAPIPath),
	}

	index := page.IndexData{
		Title:        opts.Title,
		DataField:    opts.DataField,
		FileField:    opts.FileField,
		Endpoint:     routes.Parse,
		StaticPrefix: routes.Static,
		Script:       page.ScriptFor(opts.Mode),
	}

	mux.Handle(routes.Parse, ParseHandlerWithOptions(opts))
	mux.Handle(routes.Static, http.StripPrefix(routes.Static, http.FileServer(http.FS(page.StaticFS()))))
	mux.Handle(routes.OpenAPI, openAPIHandler())
	mux.Handle(mountDir(routes.Index), indexHandler(pages, index, routes.Index, opts))

	return routes, nil
}

func indexHandler(pages *page.Engine, data page.IndexData, path string, opts Options) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != path && r.URL.Path != mountDir(path) {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		body, err := pages.Index(data)
		if err != nil {
			LoggerFromContext(r.Context(), opts.Logger).Error("render index", zap.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write([]byte(body))
	})
}

func openAPIHandler() http.Handler {
	doc := apispec.Raw()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write(doc)
	})
}

func mountPath(basePath, routePath string) string {
	basePath = strings.TrimSpace(basePath)
	routePath = strings.TrimSpace(routePath)

	if routePath == "" {
		routePath = "/"
	}
	if !strings.HasPrefix(routePath, "/") {
		routePath = "/" + routePath
	}

	if basePath == "" || basePath == "/" {
		return routePath
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	basePath = strings.TrimRight(basePath, "/")
	if routePath == "/" {
		return basePath
	}
	return basePath + routePath
}

// mountDir turns a path into a subtree pattern.
func mountDir(path string) string {
	if strings.HasSuffix(path, "/") {
		return path
	}
	return path + "/"
}
