package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"chirper/domain"
	"chirper/metrics"
	"chirper/revalidate"
)

// Server provides most of the http functionality of this app, namely routing,
// request handling, and middleware. It also performs authentication and
// authorization before handing things over to one of the database services.
type Server struct {
	router      *mux.Router
	us          domain.UserService
	ts          domain.TweetService
	fs          domain.FollowService
	ls          domain.LikeService
	feeds       domain.FeedService
	revalidator *revalidate.Hook
	jwtSecret   string
	clientURL   string
}

// NewServer returns a new instance of the server, registers all necessary
// routes and gives their handlers access to the app services passed in.
func NewServer(
	clientURL string,
	jwtSecret string,
	revalidator *revalidate.Hook,
	us domain.UserService,
	ts domain.TweetService,
	fs domain.FollowService,
	ls domain.LikeService,
	feeds domain.FeedService,
) *Server {

	// Construct a new Server with a gorilla router and the services passed in.
	s := &Server{
		router:      mux.NewRouter(),
		us:          us,
		ts:          ts,
		fs:          fs,
		ls:          ls,
		feeds:       feeds,
		revalidator: revalidator,
		jwtSecret:   jwtSecret,
		clientURL:   clientURL,
	}

	// Register routes of the auth system.
	s.registerAuthRoutes(s.router)

	// Register routes of the feed and mutation system.
	s.registerFeedRoutes(s.router)
	s.registerTweetRoutes(s.router)
	s.registerLikeRoutes(s.router)
	s.registerFollowRoutes(s.router)

	// Expose the prometheus scrape endpoint.
	s.router.Handle("/metrics", metrics.Handler()).Methods("GET")

	// Set up middleware that needs to run on every request.
	s.router.Use(setContentTypeJSON, logRequest, s.checkUser)
	return s
}

// ServeHTTP makes the Server itself usable as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// The setContentTypeJSON middleware sets the content type to "application/json".
func setContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// The logRequest middleware writes one structured line per request.
func logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Info("request")
		next.ServeHTTP(w, r)
	})
}

// Run starts to listen and serve on the specified port, with CORS opened up
// for the configured client origin and panic recovery around everything.
func (s *Server) Run(port int) {
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{s.clientURL}),
		handlers.AllowedMethods([]string{"GET", "POST", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
	)
	handler := handlers.RecoveryHandler()(cors(s.router))
	addr := ":" + strconv.Itoa(port)
	logrus.WithField("addr", addr).Info("server listening")
	logrus.Fatal(http.ListenAndServe(addr, handler))
}
