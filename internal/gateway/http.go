package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rahul/wayfarer/internal/auth"
	"github.com/rahul/wayfarer/internal/observability"
	"github.com/rahul/wayfarer/internal/store"
	"github.com/rahul/wayfarer/internal/task"
	"github.com/rahul/wayfarer/internal/travel"
	"github.com/rs/cors"
)

// HTTPGateway is the thin HTTP collaborator around the task router: request
// framing, auth enforcement, and trip persistence live here, never in the
// pipeline core.
type HTTPGateway struct {
	router  *task.Router
	store   *store.Store
	auth    *auth.Service
	logger  *observability.Logger
	metrics *observability.Metrics
	srv     *http.Server
}

func NewHTTPGateway(addr string, router *task.Router, st *store.Store, authSvc *auth.Service, logger *observability.Logger, metrics *observability.Metrics) *HTTPGateway {
	g := &HTTPGateway{
		router:  router,
		store:   st,
		auth:    authSvc,
		logger:  logger,
		metrics: metrics,
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/health", g.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	r.HandleFunc("/api/auth/register", g.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", g.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/logout", g.handleLogout).Methods(http.MethodPost)

	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(authSvc.Middleware)
	protected.HandleFunc("/auth/me", g.handleMe).Methods(http.MethodGet)
	protected.HandleFunc("/agent/plan", g.handlePlan).Methods(http.MethodPost)
	protected.HandleFunc("/trips", g.handleListTrips).Methods(http.MethodGet)
	protected.HandleFunc("/trips", g.handleSaveTrip).Methods(http.MethodPost)

	handler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	g.srv = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute, // a full pipeline may wait on several model calls
	}

	return g
}

// Handler exposes the configured handler for tests.
func (g *HTTPGateway) Handler() http.Handler {
	return g.srv.Handler
}

func (g *HTTPGateway) Start() error {
	log.Printf("HTTP gateway listening on %s", g.srv.Addr)
	if err := g.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (g *HTTPGateway) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return g.srv.Shutdown(ctx)
}

func (g *HTTPGateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "tasks": g.router.Types()})
}

// handlePlan is the inbound boundary to the orchestration core: it shapes
// the body into (task_type, payload), dispatches, and persists successful
// itineraries.
func (g *HTTPGateway) handlePlan(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"status":  travel.StatusError,
			"message": "Invalid JSON body",
		})
		return
	}

	taskType, _ := body["task_type"].(string)
	delete(body, "task_type")

	if taskType == "" {
		// Default to travel only when the payload looks like one.
		if _, hasDest := body["destination"]; !hasDest {
			if _, hasText := body["text"]; !hasText {
				writeJSON(w, http.StatusBadRequest, map[string]any{
					"status":  travel.StatusError,
					"message": "Missing task_type or valid payload",
				})
				return
			}
		}
		taskType = travel.TaskType
	}

	requestID := uuid.NewString()
	ctx := observability.WithRequestID(r.Context(), requestID)

	out, err := g.router.Dispatch(ctx, taskType, body)
	if err != nil {
		if errors.Is(err, task.ErrUnknownTask) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"status":  travel.StatusError,
				"message": err.Error(),
			})
			return
		}
		g.logger.LogError(requestID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"status":  travel.StatusError,
			"message": "Internal server error during agent processing",
			"stage":   "SYSTEM",
		})
		return
	}

	if outcome, ok := out.(*travel.Outcome); ok && outcome.Status == travel.StatusSuccess {
		g.persistOutcome(requestID, outcome)
	}

	writeJSON(w, http.StatusOK, out)
}

func (g *HTTPGateway) persistOutcome(requestID string, outcome *travel.Outcome) {
	plan, err := json.Marshal(outcome.FinalItinerary.FinalPlan)
	if err != nil {
		g.logger.LogError(requestID, err)
		return
	}
	trip := &store.Trip{
		Destination: outcome.OriginalRequest.Destination,
		Budget:      outcome.OriginalRequest.TotalBudget,
		Duration:    outcome.OriginalRequest.NumberOfDays,
		Travelers:   outcome.OriginalRequest.NumberOfPeople,
		Plan:        plan,
	}
	if err := g.store.SaveTrip(trip); err != nil {
		// Persistence is best-effort; the outcome still goes back to the caller.
		g.logger.LogError(requestID, err)
	}
}

func (g *HTTPGateway) handleListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := g.store.ListTrips(50)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"message": err.Error()})
		return
	}
	if trips == nil {
		trips = []store.Trip{}
	}
	writeJSON(w, http.StatusOK, trips)
}

func (g *HTTPGateway) handleSaveTrip(w http.ResponseWriter, r *http.Request) {
	var trip store.Trip
	if err := json.NewDecoder(r.Body).Decode(&trip); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Invalid JSON body"})
		return
	}
	if trip.Destination == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "destination is required"})
		return
	}
	if err := g.store.SaveTrip(&trip); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, trip)
}

func (g *HTTPGateway) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" || body.Email == "" || body.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Please enter all fields"})
		return
	}

	if existing, err := g.store.GetUserByEmail(body.Email); err == nil && existing != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "User already exists"})
		return
	}

	hash, err := g.auth.HashPassword(body.Password)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"message": err.Error()})
		return
	}

	user := &store.User{Name: body.Name, Email: body.Email, PasswordHash: hash}
	if err := g.store.CreateUser(user); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"message": err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "User registered successfully",
	})
}

func (g *HTTPGateway) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" || body.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Please enter all fields"})
		return
	}

	user, err := g.store.GetUserByEmail(body.Email)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid credentials"})
		return
	}
	if !g.auth.CheckPassword(user.PasswordHash, body.Password) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid credentials"})
		return
	}

	token, err := g.auth.IssueToken(user.ID, user.Role)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"message": err.Error()})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(g.auth.TTL().Seconds()),
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Login successful",
		"token":   token,
	})
}

func (g *HTTPGateway) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Logged out"})
}

func (g *HTTPGateway) handleMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Not authorized"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": claims.UserID, "role": claims.Role})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}
