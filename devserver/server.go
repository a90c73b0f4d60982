// Package devserver is the in-repo reference backend for the Mingle API.
// It serves the same contract the SDK consumes in production deployments,
// backed by GORM, so integration tests and local development need no
// external collaborator.
package devserver

import (
	"log/slog"
	"sync"
	"time"

	"mingle/cache"
	"mingle/config"
	"mingle/database"
	"mingle/middleware"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// The Prometheus collectors register once per process; every app instance
// shares them (tests build many apps).
var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

func promMiddleware() *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = fiberprometheus.New("mingle-devserver")
	})
	return prom
}

// Server holds all dependencies and provides handlers.
type Server struct {
	config *config.Config
	db     *gorm.DB
	redis  *redis.Client
	log    *slog.Logger
}

// NewServer creates a server instance with a connected database and an
// optional Redis cache.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}

	cache.InitRedis(cfg.RedisURL)

	middleware.InitMiddleware(cfg)

	return &Server{
		config: cfg,
		db:     db,
		redis:  cache.GetClient(),
		log:    slog.Default(),
	}, nil
}

// NewServerWithDB wires a server over an existing database connection.
// Handler tests use this with an in-memory sqlite DB and no Redis.
func NewServerWithDB(cfg *config.Config, db *gorm.DB) *Server {
	middleware.InitMiddleware(cfg)
	return &Server{
		config: cfg,
		db:     db,
		log:    slog.Default(),
	}
}

// DB exposes the underlying connection for seeding.
func (s *Server) DB() *gorm.DB { return s.db }

// App assembles the Fiber application with middleware and routes.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "Mingle API",
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(requestid.New())
	app.Use(middleware.StructuredLogger())
	if s.config.TracingEnabled {
		app.Use(middleware.Tracing())
	}

	p := promMiddleware()
	p.RegisterAt(app, "/metrics")
	app.Use(p.Middleware)

	app.Use(cors.New(cors.Config{
		AllowOrigins: s.config.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	// Global rate limiting (300 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes registers the full API surface under /api/v1.
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", s.Register)
	auth.Post("/login", s.Login)
	auth.Post("/logout", middleware.AuthRequired, s.Logout)

	users := api.Group("/users")
	users.Get("/me", middleware.AuthRequired, s.Me)
	users.Put("/me", middleware.AuthRequired, s.UpdateMe)
	users.Get("/suggestions", middleware.AuthRequired, s.Suggestions)
	users.Get("/:id", middleware.AuthRequired, s.GetUser)
	users.Get("/:id/posts", middleware.AuthRequired, s.GetUserPosts)

	api.Get("/feed", middleware.OptionalAuth, s.Feed)

	posts := api.Group("/posts", middleware.AuthRequired)
	posts.Post("/", s.CreatePost)
	posts.Post("/:id/share", s.SharePost)

	api.Post("/files", middleware.AuthRequired, s.UploadFile)

	reactions := api.Group("/reactions", middleware.AuthRequired)
	reactions.Post("/", s.CreateReaction)
	reactions.Delete("/:userId/:targetId/:targetType", s.DeleteReaction)

	comments := api.Group("/comments")
	comments.Get("/", middleware.OptionalAuth, s.ListComments)
	comments.Post("/", middleware.AuthRequired, s.CreateComment)

	friends := api.Group("/friends", middleware.AuthRequired)
	friends.Get("/", s.ListFriends)
	friends.Get("/requests", s.ListFriendRequests)
	friends.Post("/:userId", s.SendFriendRequest)
	friends.Put("/:userId/accept", s.AcceptFriendRequest)
	friends.Delete("/:userId/reject", s.RejectFriendRequest)
	friends.Delete("/:userId", s.Unfriend)

	groups := api.Group("/groups", middleware.AuthRequired)
	groups.Get("/", s.ListGroups)
	groups.Post("/", s.CreateGroup)
	groups.Get("/my-groups", s.MyGroups)
	groups.Get("/:id", s.GetGroup)
	groups.Put("/:id", s.UpdateGroup)
	groups.Delete("/:id", s.DeleteGroup)
	groups.Get("/:id/members", s.GroupMembers)
	groups.Post("/:id/join", s.JoinGroup)
	groups.Post("/:id/leave", s.LeaveGroup)
	groups.Get("/:id/pending-requests", s.GroupPendingRequests)
	groups.Post("/:id/members/:userId/approve", s.ApproveGroupMember)
	groups.Post("/:id/members/:userId/reject", s.RejectGroupMember)
	groups.Post("/:id/members/:userId/ban", s.BanGroupMember)
	groups.Post("/:id/members/:userId/unban", s.UnbanGroupMember)
	groups.Post("/:id/members/:userId/role", s.SetGroupMemberRole)
	groups.Post("/:id/invite/:userId", s.InviteToGroup)
	groups.Get("/:id/posts", s.GroupPosts)

	api.Get("/group-rules", middleware.AuthRequired, s.ListGroupRules)
	api.Post("/group-rules", middleware.AuthRequired, s.CreateGroupRule)
	api.Delete("/group-rules/:id", middleware.AuthRequired, s.DeleteGroupRule)

	api.Get("/membership-questions", middleware.AuthRequired, s.ListMembershipQuestions)
	api.Post("/membership-questions", middleware.AuthRequired, s.CreateMembershipQuestion)
	api.Delete("/membership-questions/:id", middleware.AuthRequired, s.DeleteMembershipQuestion)

	pages := api.Group("/pages", middleware.AuthRequired)
	pages.Get("/", s.ListPages)
	pages.Post("/", s.CreatePage)
	pages.Get("/:id", s.GetPage)
	pages.Put("/:id", s.UpdatePage)
	pages.Delete("/:id", s.DeletePage)
	pages.Post("/:id/follow", s.FollowPage)
	pages.Delete("/:id/follow", s.UnfollowPage)
	pages.Get("/:id/posts", s.PagePosts)
	pages.Get("/:id/roles", s.PageRoles)
	pages.Post("/:id/roles", s.AssignPageRole)
	pages.Delete("/:id/roles/:userId", s.RemovePageRole)

	api.Get("/me/pages", middleware.AuthRequired, s.MyPages)

	events := api.Group("/events", middleware.AuthRequired)
	events.Get("/", s.ListEvents)
	events.Post("/", s.CreateEvent)
	events.Get("/:id", s.GetEvent)
	events.Put("/:id", s.UpdateEvent)
	events.Delete("/:id", s.DeleteEvent)
	events.Post("/:id/rsvp", s.RSVPEvent)
	events.Get("/:id/participants", s.EventParticipants)

	admin := api.Group("/admin", middleware.AuthRequired, s.AdminRequired)
	admin.Get("/users", s.AdminListUsers)
	admin.Post("/users", s.AdminCreateUser)
	admin.Put("/users/:id", s.AdminUpdateUser)
	admin.Delete("/users/:id", s.AdminDeleteUser)
	admin.Get("/roles", s.AdminListRoles)
	admin.Get("/stats", s.AdminStats)
	admin.Get("/posts-sentiment", s.AdminPostsSentiment)
}
