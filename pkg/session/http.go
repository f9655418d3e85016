package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/the-maldridge/ncomps/pkg/comps"
)

// HTTPEntry provides the mountpoint for this service into the shared
// webserver routing tree.
func (m *Manager) HTTPEntry() chi.Router {
	r := chi.NewRouter()

	r.Get("/summary", m.httpSummary)
	r.Get("/render", m.httpRender)
	r.Get("/components", m.httpComponents)
	r.Get("/components/{name}", m.httpComponent)
	r.Get("/packages/{name}", m.httpPackage)
	r.Get("/selected", m.httpSelected)
	r.Get("/size", m.httpSize)
	r.Get("/snapshots", m.httpSnapshots)

	r.Post("/components/{name}/select", m.httpNamed(m.Select))
	r.Post("/components/{name}/unselect", m.httpNamed(m.Unselect))
	r.Post("/packages/{name}/force-select", m.httpNamed(m.ForceSelect))
	r.Post("/packages/{name}/force-unselect", m.httpNamed(m.ForceUnselect))
	r.Post("/packages/{name}/unforce", m.httpNamed(m.Unforce))
	r.Post("/undo", m.httpUndo)
	r.Post("/snapshots/{name}", m.httpNamed(m.Save))
	r.Post("/snapshots/{name}/restore", m.httpNamed(m.Load))

	return r
}

func (m *Manager) httpSummary(w http.ResponseWriter, r *http.Request) {
	out, err := m.Summary()
	respond(w, out, err)
}

func (m *Manager) httpRender(w http.ResponseWriter, r *http.Request) {
	out, err := m.Render()
	if err != nil {
		jsonError(w, err, statusFor(err))
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(out))
}

func (m *Manager) httpComponents(w http.ResponseWriter, r *http.Request) {
	out, err := m.Components()
	respond(w, out, err)
}

func (m *Manager) httpComponent(w http.ResponseWriter, r *http.Request) {
	name, err := nameParam(r)
	if err != nil {
		jsonError(w, err, http.StatusBadRequest)
		return
	}
	out, err := m.Component(name)
	respond(w, out, err)
}

func (m *Manager) httpPackage(w http.ResponseWriter, r *http.Request) {
	name, err := nameParam(r)
	if err != nil {
		jsonError(w, err, http.StatusBadRequest)
		return
	}
	out, err := m.Package(name)
	respond(w, out, err)
}

func (m *Manager) httpSelected(w http.ResponseWriter, r *http.Request) {
	out, err := m.Selected()
	respond(w, out, err)
}

func (m *Manager) httpSize(w http.ResponseWriter, r *http.Request) {
	out, err := m.Size()
	respond(w, out, err)
}

func (m *Manager) httpSnapshots(w http.ResponseWriter, r *http.Request) {
	out, err := m.Snapshots()
	respond(w, out, err)
}

func (m *Manager) httpUndo(w http.ResponseWriter, r *http.Request) {
	if err := m.Undo(); err != nil {
		jsonError(w, err, statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// httpNamed adapts an operation on a named component, package or
// snapshot into a handler.
func (m *Manager) httpNamed(op func(string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, err := nameParam(r)
		if err != nil {
			jsonError(w, err, http.StatusBadRequest)
			return
		}
		if err := op(name); err != nil {
			jsonError(w, err, statusFor(err))
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// nameParam returns the {name} segment decoded.  chi routes on the
// raw path when the request escaped a reserved character such as
// '/', and then the parameter is still escaped.
func nameParam(r *http.Request) (string, error) {
	n := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return n, nil
	}
	return url.PathUnescape(n)
}

func respond(w http.ResponseWriter, v interface{}, err error) {
	if err != nil {
		jsonError(w, err, statusFor(err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNoSuchComponent),
		errors.Is(err, ErrNoSuchPackage),
		errors.Is(err, ErrNoSuchSnapshot):
		return http.StatusNotFound
	case errors.Is(err, ErrNothingToUndo), errors.Is(err, comps.ErrSnapshotMismatch):
		return http.StatusConflict
	case errors.Is(err, ErrNotBootstrapped), errors.Is(err, ErrNoStorage):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func jsonError(w http.ResponseWriter, err error, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	out := struct {
		Error string
	}{
		Error: err.Error(),
	}
	json.NewEncoder(w).Encode(out)
}
