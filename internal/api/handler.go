package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Look up a key with the configured facade
	// (GET /v1/lookup)
	LookupQuery(w http.ResponseWriter, r *http.Request, q string)
	// Look up the raw request body with the configured facade
	// (POST /v1/lookup)
	LookupBody(w http.ResponseWriter, r *http.Request)
	// List strategies
	// (GET /v1/strategies)
	ListStrategies(w http.ResponseWriter, r *http.Request)
	// Look up a key with a single named strategy
	// (GET /v1/strategies/{name}/lookup)
	StrategyLookup(w http.ResponseWriter, r *http.Request, name string, q string)
	// Facade health
	// (GET /healthz)
	Health(w http.ResponseWriter, r *http.Request)
}

// ServerInterfaceWrapper converts request parameters into handler arguments.
type ServerInterfaceWrapper struct {
	Handler          ServerInterface
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// LookupQuery operation middleware
func (siw *ServerInterfaceWrapper) LookupQuery(w http.ResponseWriter, r *http.Request) {
	var q string
	if err := runtime.BindQueryParameter("form", true, true, "q", r.URL.Query(), &q); err != nil {
		siw.ErrorHandlerFunc(w, r, fmt.Errorf("Invalid format for parameter q: %w", err))
		return
	}
	siw.Handler.LookupQuery(w, r, q)
}

// LookupBody operation middleware
func (siw *ServerInterfaceWrapper) LookupBody(w http.ResponseWriter, r *http.Request) {
	siw.Handler.LookupBody(w, r)
}

// ListStrategies operation middleware
func (siw *ServerInterfaceWrapper) ListStrategies(w http.ResponseWriter, r *http.Request) {
	siw.Handler.ListStrategies(w, r)
}

// StrategyLookup operation middleware
func (siw *ServerInterfaceWrapper) StrategyLookup(w http.ResponseWriter, r *http.Request) {
	var name string
	err := runtime.BindStyledParameterWithOptions("simple", "name", chi.URLParam(r, "name"), &name,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, fmt.Errorf("Invalid format for parameter name: %w", err))
		return
	}

	var q string
	if err := runtime.BindQueryParameter("form", true, true, "q", r.URL.Query(), &q); err != nil {
		siw.ErrorHandlerFunc(w, r, fmt.Errorf("Invalid format for parameter q: %w", err))
		return
	}
	siw.Handler.StrategyLookup(w, r, name, q)
}

// Health operation middleware
func (siw *ServerInterfaceWrapper) Health(w http.ResponseWriter, r *http.Request) {
	siw.Handler.Health(w, r)
}

// HandlerOptions configures HandlerWithOptions.
type HandlerOptions struct {
	BaseRouter       chi.Router
	Middlewares      []func(http.Handler) http.Handler
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
	Metrics          http.Handler
}

// HandlerFromMux creates an http.Handler with routing matching the lookup
// API, mounted on r.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	return HandlerWithOptions(si, HandlerOptions{BaseRouter: r})
}

// HandlerWithOptions creates an http.Handler with additional options.
// Middlewares apply to the /v1 routes only.
func HandlerWithOptions(si ServerInterface, options HandlerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, r *http.Request, err error) {
			writeError(w, http.StatusBadRequest, err.Error())
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:          si,
		ErrorHandlerFunc: options.ErrorHandlerFunc,
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", wrapper.Health)
	if options.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", options.Metrics)
	}

	r.Group(func(r chi.Router) {
		for _, mw := range options.Middlewares {
			r.Use(mw)
		}
		r.Get("/v1/lookup", wrapper.LookupQuery)
		r.Post("/v1/lookup", wrapper.LookupBody)
		r.Get("/v1/strategies", wrapper.ListStrategies)
		r.Get("/v1/strategies/{name}/lookup", wrapper.StrategyLookup)
	})

	return r
}
