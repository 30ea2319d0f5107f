package api

import (
	"io"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"TodoPlans/config"
	"TodoPlans/db"
)

// UsernameHeader carries the caller's username on every /todos route.
const UsernameHeader = "username"

type API struct {
	Config *config.Config
	Store  db.Store
	Logger logrus.FieldLogger
}

func New(cfg *config.Config, store db.Store, logger logrus.FieldLogger) *API {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &API{Config: cfg, Store: store, Logger: logger}
}

// Init registers every route on router.
func (a *API) Init(r *mux.Router) {
	r.Handle("/users", a.handler(a.CreateUser)).Methods(http.MethodPost)
	r.Handle("/users/{id}", a.handler(a.GetUser)).Methods(http.MethodGet)
	r.Handle("/users/{id}/pro", a.handler(a.UpgradeUser)).Methods(http.MethodPatch)

	r.Handle("/todos", a.handler(a.ListTodos)).Methods(http.MethodGet)
	r.Handle("/todos", a.handler(a.CreateTodo)).Methods(http.MethodPost)
	r.Handle("/todos/{id}", a.handler(a.EditTodo)).Methods(http.MethodPut)
	r.Handle("/todos/{id}/done", a.handler(a.CompleteTodo)).Methods(http.MethodPatch)
	r.Handle("/todos/{id}", a.handler(a.DeleteTodo)).Methods(http.MethodDelete)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}).Methods(http.MethodGet)
}

// Handler returns the full HTTP handler: router, CORS, panic recovery and
// request logging.
func (a *API) Handler() http.Handler {
	router := mux.NewRouter()
	a.Init(router)

	origins := []string{"*"}
	if a.Config != nil && len(a.Config.AllowedOrigins) > 0 {
		origins = a.Config.AllowedOrigins
	}
	cors := handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{"GET", "HEAD", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", UsernameHeader}),
	)
	recovery := handlers.RecoveryHandler(handlers.RecoveryLogger(a.Logger), handlers.PrintRecoveryStack(true))

	return handlers.CustomLoggingHandler(io.Discard, recovery(cors(router)), a.logRequest)
}

func (a *API) logRequest(_ io.Writer, params handlers.LogFormatterParams) {
	a.Logger.WithFields(logrus.Fields{
		"method":      params.Request.Method,
		"path":        params.URL.Path,
		"status":      params.StatusCode,
		"size":        params.Size,
		"duration":    time.Since(params.TimeStamp).String(),
		"remote_addr": params.Request.RemoteAddr,
	}).Info("request")
}

type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// handler adapts fn so any error it returns is written as a JSON error body.
func (a *API) handler(fn handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		if err := fn(w, r); err != nil {
			a.writeError(w, r, err)
		}
	})
}
