package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// pathID binds the {id} path parameter as a UUID. On failure it writes a 422
// and returns false.
func pathID(w http.ResponseWriter, r *http.Request) (openapi_types.UUID, bool) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		invalid(w, "invalid format for parameter id: "+err.Error())
		return id, false
	}
	return id, true
}

// pageParams binds the optional ?page= and ?limit= query parameters.
func pageParams(w http.ResponseWriter, r *http.Request) (page, limit *int, ok bool) {
	if err := runtime.BindQueryParameter("form", true, false, "page", r.URL.Query(), &page); err != nil {
		invalid(w, "invalid format for parameter page: "+err.Error())
		return nil, nil, false
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		invalid(w, "invalid format for parameter limit: "+err.Error())
		return nil, nil, false
	}
	return page, limit, true
}

// exportFormat binds the optional ?format= query parameter.
func exportFormat(w http.ResponseWriter, r *http.Request) (string, bool) {
	var format *string
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &format); err != nil {
		invalid(w, "invalid format for parameter format: "+err.Error())
		return "", false
	}
	if format == nil {
		return "json", true
	}
	switch *format {
	case "json", "csv":
		return *format, true
	}
	invalid(w, "format must be one of: json, csv")
	return "", false
}
