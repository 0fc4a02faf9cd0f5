package rest

import (
	"net/http"

	"riskform/internal/cache"
	"riskform/internal/config"
	"riskform/internal/service"
	"riskform/internal/transport/rest/handler"
	"riskform/internal/transport/rest/middleware"
	"riskform/internal/transport/ws"

	"github.com/gorilla/mux"
)

// Container holds all dependencies for the router
type Container struct {
	Config            *config.Config
	AuthService       *service.AuthService
	SchemaService     *service.SchemaService
	BuilderService    *service.BuilderService
	SubmissionService *service.SubmissionService
	RiskService       *service.RiskService
	DraftCache        cache.DraftCache
	WSHub             *ws.Hub
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	schemaHandler := handler.NewSchemaHandler(c.SchemaService)
	ruleHandler := handler.NewRuleHandler(c.BuilderService)
	submissionHandler := handler.NewSubmissionHandler(c.SubmissionService)
	draftHandler := handler.NewDraftHandler(c.DraftCache)
	riskHandler := handler.NewRiskHandler(c.RiskService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.Config))

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/schema", schemaHandler.GetDocument).Methods("GET", "OPTIONS")
	v1.HandleFunc("/questionnaires", schemaHandler.List).Methods("GET", "OPTIONS")
	v1.HandleFunc("/questionnaires/{key}", schemaHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/questionnaires/{key}/evaluate", submissionHandler.Evaluate).Methods("POST", "OPTIONS")
	v1.HandleFunc("/questionnaires/{key}/submissions", submissionHandler.Submit).Methods("POST", "OPTIONS")
	v1.HandleFunc("/questionnaires/{key}/draft/{sessionId}", draftHandler.Save).Methods("PUT", "OPTIONS")
	v1.HandleFunc("/questionnaires/{key}/draft/{sessionId}", draftHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/questionnaires/{key}/draft/{sessionId}", draftHandler.Delete).Methods("DELETE", "OPTIONS")
	v1.HandleFunc("/systems/{systemId}/risks", riskHandler.ForSystem).Methods("GET", "OPTIONS")

	// WebSocket route (token in query param)
	v1.HandleFunc("/ws/editor", wsHandler.EditorWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Editor routes (require editor auth)
	editorRoutes := v1.NewRoute().Subrouter()
	editorRoutes.Use(authMW.RequireEditor)

	editorRoutes.HandleFunc("/schema", schemaHandler.ImportDocument).Methods("PUT", "OPTIONS")
	editorRoutes.HandleFunc("/questionnaires/{key}", schemaHandler.Publish).Methods("PUT", "OPTIONS")
	editorRoutes.HandleFunc("/questionnaires/{key}/validate", schemaHandler.Validate).Methods("POST", "OPTIONS")
	editorRoutes.HandleFunc("/questionnaires/{key}/questions/{questionKey}/rename", schemaHandler.RenameQuestion).Methods("POST", "OPTIONS")

	editorRoutes.HandleFunc("/questionnaires/{key}/questions/{questionKey}/rule", ruleHandler.GetQuestionRule).Methods("GET", "OPTIONS")
	editorRoutes.HandleFunc("/questionnaires/{key}/questions/{questionKey}/rule", ruleHandler.PutQuestionRule).Methods("PUT", "OPTIONS")
	editorRoutes.HandleFunc("/questionnaires/{key}/questions/{questionKey}/rule/groups", ruleHandler.AddQuestionGroup).Methods("POST", "OPTIONS")
	editorRoutes.HandleFunc("/questionnaires/{key}/questions/{questionKey}/rule/groups/move", ruleHandler.MoveQuestionGroup).Methods("POST", "OPTIONS")
	editorRoutes.HandleFunc("/questionnaires/{key}/questions/{questionKey}/rule/groups/{index}", ruleHandler.RemoveQuestionGroup).Methods("DELETE", "OPTIONS")

	editorRoutes.HandleFunc("/questionnaires/{key}/risks/{riskKey}/rule", ruleHandler.GetRiskRule).Methods("GET", "OPTIONS")
	editorRoutes.HandleFunc("/questionnaires/{key}/risks/{riskKey}/rule", ruleHandler.PutRiskRule).Methods("PUT", "OPTIONS")
	editorRoutes.HandleFunc("/questionnaires/{key}/risks/{riskKey}/rule/groups", ruleHandler.AddRiskGroup).Methods("POST", "OPTIONS")
	editorRoutes.HandleFunc("/questionnaires/{key}/risks/{riskKey}/rule/groups/move", ruleHandler.MoveRiskGroup).Methods("POST", "OPTIONS")
	editorRoutes.HandleFunc("/questionnaires/{key}/risks/{riskKey}/rule/groups/{index}", ruleHandler.RemoveRiskGroup).Methods("DELETE", "OPTIONS")

	editorRoutes.HandleFunc("/questionnaires/{key}/submissions", submissionHandler.List).Methods("GET", "OPTIONS")
	editorRoutes.HandleFunc("/submissions/{id}", submissionHandler.Delete).Methods("DELETE", "OPTIONS")

	return r
}

func corsMiddleware(cfg *config.Config) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", cfg.CORSAllowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", cfg.CORSAllowedMethods)
			w.Header().Set("Access-Control-Allow-Headers", cfg.CORSAllowedHeaders)

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
