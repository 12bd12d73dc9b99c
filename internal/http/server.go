package http

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"semaphore/portal/internal/action"
	"semaphore/portal/internal/api"
	"semaphore/portal/internal/auth"
	"semaphore/portal/internal/config"
	"semaphore/portal/internal/forms"
	"semaphore/portal/internal/guard"
)

const maxBodyBytes = 1 << 20

type Server struct {
	cfg     config.Config
	svc     *api.Services
	actions *action.Actions
	perms   guard.PermissionSource
}

func NewServer(cfg config.Config, svc *api.Services, actions *action.Actions, perms guard.PermissionSource) *Server {
	return &Server{cfg: cfg, svc: svc, actions: actions, perms: perms}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID, logRequests, middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.With(s.authMiddleware).Get("/api/me/permissions", s.handleMyPermissions)
	r.With(s.authMiddleware).Get("/api/forms/course", s.handleCourseForm)
	r.With(s.authMiddleware).Get("/api/{resource}", s.handleList)
	r.With(s.authMiddleware).Get("/api/{resource}/{id}", s.handleGet)

	r.With(s.authMiddleware, s.knownResource, s.requirePermission("create")).Post("/actions/{resource}", s.handleCreate)
	r.With(s.authMiddleware, s.knownResource, s.requirePermission("update")).Put("/actions/{resource}/{id}", s.handleUpdate)
	r.With(s.authMiddleware, s.knownResource, s.requirePermission("delete")).Delete("/actions/{resource}/{id}", s.handleDelete)

	return r
}

// Middleware

type requestIDKey struct{}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Printf("%s %s %d %s request_id=%s", r.Method, r.URL.Path, ww.Status(), time.Since(start).Round(time.Millisecond), requestIDFrom(r.Context()))
	})
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := auth.SessionFromRequest(r, s.cfg.JWTSecret, s.cfg.JWTIssuer)
		if err != nil {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithSession(r.Context(), session)))
	})
}

// knownResource answers 404 for action routes naming no registered
// resource, before any permission is looked up.
func (s *Server) knownResource(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.actions.Endpoint(chi.URLParam(r, "resource")); !ok {
			writeError(w, http.StatusNotFound, "unknown_resource")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requirePermission gates an action route on "<resource>.<operation>".
func (s *Server) requirePermission(operation string) func(http.Handler) http.Handler {
	return guard.Dynamic(s.perms, func(r *http.Request) guard.Requirement {
		return guard.Require(chi.URLParam(r, "resource") + "." + operation)
	}, nil)
}

// Reads

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	reader, ok := s.svc.Reader(chi.URLParam(r, "resource"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown_resource")
		return
	}
	out, err := reader.Fetch(r.Context(), api.QueryFromValues(r.URL.Query()))
	if err != nil {
		writeReadError(w, err)
		return
	}
	writeRaw(w, http.StatusOK, out)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	reader, ok := s.svc.Reader(chi.URLParam(r, "resource"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown_resource")
		return
	}
	out, err := reader.FetchOne(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeReadError(w, err)
		return
	}
	writeRaw(w, http.StatusOK, out)
}

func (s *Server) handleCourseForm(w http.ResponseWriter, r *http.Request) {
	form, err := forms.LoadCourseForm(r.Context(), s.svc, api.QueryFromValues(r.URL.Query()))
	if err != nil {
		writeReadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.Envelope[*forms.CourseForm]{Success: true, Message: "Form loaded", Data: form})
}

func (s *Server) handleMyPermissions(w http.ResponseWriter, r *http.Request) {
	set, err := s.perms.Permissions(r.Context())
	if err != nil {
		writeReadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, api.Envelope[api.PermissionSet]{Success: true, Message: "Permissions loaded", Data: set})
}

// Actions always answer 200; the outcome is in the envelope.

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	endpoint, body, ok := s.actionRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, endpoint.CreateJSON(r.Context(), body))
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	endpoint, body, ok := s.actionRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, endpoint.UpdateJSON(r.Context(), chi.URLParam(r, "id"), body))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	endpoint, ok := s.actions.Endpoint(chi.URLParam(r, "resource"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown_resource")
		return
	}
	writeJSON(w, http.StatusOK, endpoint.DeleteByID(r.Context(), chi.URLParam(r, "id")))
}

func (s *Server) actionRequest(w http.ResponseWriter, r *http.Request) (action.Endpoint, []byte, bool) {
	endpoint, ok := s.actions.Endpoint(chi.URLParam(r, "resource"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown_resource")
		return nil, nil, false
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return nil, nil, false
	}
	return endpoint, body, true
}

// Helpers

func writeReadError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	var reqErr *api.RequestError
	switch {
	case errors.Is(err, api.ErrNoSession):
		status = http.StatusUnauthorized
	case errors.As(err, &reqErr):
		status = reqErr.Status
	}
	writeJSON(w, status, action.FromError[json.RawMessage](err))
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeRaw relays a backend body byte for byte.
func writeRaw(w http.ResponseWriter, status int, body json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
