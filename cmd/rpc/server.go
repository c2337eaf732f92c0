package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/JudioLam9/contracts-v3/lib"
	"github.com/JudioLam9/contracts-v3/metrics"
	"github.com/JudioLam9/contracts-v3/pool"
	"github.com/alecthomas/units"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

const (
	colon = ":"

	SoftwareVersion = "0.0.0-alpha"
	ContentType     = "Content-Type"
	ApplicationJSON = "application/json; charset=utf-8"
	localhost       = "localhost"
)

// Server serves the settlement state over two HTTP routers, a public query
// router and an admin router that is able to mutate and commit state.
type Server struct {
	// the versioned settlement database
	db lib.StoreI

	// node configuration
	config lib.Config

	// serializes admin operations, the database holds a single pending write set
	mu sync.Mutex

	// the underlying http servers for the query and admin routers
	rpc   *http.Server
	admin *http.Server

	logger lib.LoggerI
}

// NewServer constructs and returns a new RPC server over the settlement database
func NewServer(db lib.StoreI, config lib.Config, logger lib.LoggerI) *Server {
	return &Server{
		db:     db,
		config: config,
		logger: logger,
	}
}

// Start initializes the query and admin RPC servers
func (s *Server) Start() {
	s.rpc = s.newHTTPServer(createRouter(s), s.config.RPCPort)
	s.admin = s.newHTTPServer(createAdminRouter(s), s.config.AdminPort)

	// Start the query and admin RPC servers concurrently
	go s.startRPC(s.rpc, s.config.RPCPort)
	go s.startRPC(s.admin, s.config.AdminPort)

	// Start a task to refresh the telemetry gauges
	go s.updateMetrics()
}

// Stop gracefully shuts down the query and admin RPC servers
func (s *Server) Stop() {
	// allow in-flight requests a moment to complete
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, srv := range []*http.Server{s.rpc, s.admin} {
		if srv == nil {
			continue
		}
		if err := srv.Shutdown(ctx); err != nil {
			s.logger.Error(ErrServerClosed(err).Error())
		}
	}
	metrics.UpdateServiceStatus(false)
}

// newHTTPServer wraps a router with the CORS policy and the request timeout
func (s *Server) newHTTPServer(router *httprouter.Router, port string) *http.Server {
	// Create CORS policy
	cor := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS", "POST"},
	})

	// Create a default timeout for HTTP requests
	timeout := time.Duration(s.config.TimeoutS) * time.Second

	return &http.Server{
		Addr:    colon + port,
		Handler: cor.Handler(http.TimeoutHandler(router, timeout, ErrServerTimeout().Error())),
	}
}

// startRPC starts an RPC server and blocks until it is shut down
func (s *Server) startRPC(srv *http.Server, port string) {
	s.logger.Infof("Starting RPC server at 0.0.0.0:%s", port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Fatal(ErrServerClosed(err).Error())
	}
}

// updateMetrics() periodically refreshes the service telemetry gauges
func (s *Server) updateMetrics() {
	defer lib.CatchPanic(s.logger)
	metrics.UpdateServiceStatus(true)
	for range time.Tick(time.Second * 10) {
		err := s.readOnlyState(0, func(state *pool.StateMachine) lib.ErrorI {
			pools, err := state.GetPools()
			if err != nil {
				return err
			}
			withdrawals, err := state.GetWithdrawals()
			if err != nil {
				return err
			}
			metrics.UpdatePoolMetrics(len(pools), len(withdrawals))
			metrics.UpdateStoreVersion(state.Version())
			return nil
		})
		if err != nil {
			s.logger.Error(err.Error())
		}
	}
}

// readOnlyStateFromVersionParams is a helper function to safely wrap historical state access
func (s *Server) readOnlyStateFromVersionParams(w http.ResponseWriter, r *http.Request, ptr queryWithVersion, callback func(s *pool.StateMachine) lib.ErrorI) (err lib.ErrorI) {

	// Unmarshal request parameters
	if ok := unmarshal(w, r, ptr); !ok {
		return
	}

	return s.readOnlyState(ptr.GetVersion(), callback)
}

// readOnlyState is a helper function to safely wrap read only state access,
// version zero reads the latest committed version
func (s *Server) readOnlyState(version uint64, callback func(s *pool.StateMachine) lib.ErrorI) lib.ErrorI {
	if version == 0 {
		version = s.db.Version()
	}

	// Create a read only view fixed at the requested version
	ro, err := s.db.NewReadOnly(version)
	if err != nil {
		return err
	}

	// Release the view, ensuring proper cleanup is performed
	defer ro.Discard()

	// Execute the provided callback function with the read-only state
	return callback(pool.NewReadOnly(s.config, ro, ro.Version(), s.logger))
}

// commitState applies a mutation to the live state and commits it as the next version
func (s *Server) commitState(callback func(state *pool.StateMachine) lib.ErrorI) (version uint64, err lib.ErrorI) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Execute the mutation against the live database
	if err = callback(pool.New(s.config, s.db, s.logger)); err != nil {
		// drop the partial writes
		s.db.Discard()
		return
	}

	// Save the pending writes as the next version
	start := time.Now()
	version, err = s.db.Commit()
	if err != nil {
		s.db.Discard()
		return
	}
	metrics.UpdateCommitDuration(time.Since(start))
	metrics.UpdateStoreVersion(version)
	return
}

// logsHandler writes the service logfile, most recent lines first
func logsHandler(s *Server) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {

		// Construct the full file path of the log file
		filePath := filepath.Join(s.config.DataDirPath, lib.LogDirectory, lib.LogFileName)

		// Read the entire contents of the log file and split by newlines
		f, _ := os.ReadFile(filePath)
		split := bytes.Split(f, []byte("\n"))

		// Prepare a slice to hold the reversed lines
		var flipped []byte

		// Iterate over the lines in reverse order
		for i := len(split) - 1; i >= 0; i-- {
			// Append each line to the `flipped` slice followed by a newline character
			flipped = append(append(flipped, split[i]...), []byte("\n")...)
		}

		// Write the reversed lines to the HTTP response
		if _, err := w.Write(flipped); err != nil {
			s.logger.Error(err.Error())
		}
	}
}

// logHandler serves as a middleware that times incoming RPC calls
type logHandler struct {
	path string
	h    httprouter.Handle
}

// Handle times the actual handler call and records the duration per route
func (h logHandler) Handle(resp http.ResponseWriter, req *http.Request, p httprouter.Params) {
	start := time.Now()

	// Call the actual handler function with the response, request, and parameters.
	h.h(resp, req, p)

	metrics.UpdateRequestDuration(h.path, time.Since(start))
}

// unmarshal reads request body and unmarshals it into ptr
func unmarshal(w http.ResponseWriter, r *http.Request, ptr interface{}) bool {
	bz, err := io.ReadAll(io.LimitReader(r.Body, int64(units.MB)))
	if err != nil {
		write(w, ErrInvalidParams(err), http.StatusBadRequest)
		return false
	}
	defer func() { _ = r.Body.Close() }()
	if err = json.Unmarshal(bz, ptr); err != nil {
		write(w, ErrInvalidParams(err), http.StatusBadRequest)
		return false
	}
	return true
}

// write marshaled payload to w
func write(w http.ResponseWriter, payload interface{}, code int) {
	w.Header().Set(ContentType, ApplicationJSON)
	w.WriteHeader(code)

	// Marshal and indent the payload
	bz, _ := json.MarshalIndent(payload, "", "  ")
	_, _ = w.Write(bz)
}
