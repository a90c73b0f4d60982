package services_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mingle/client"
	"mingle/config"
	"mingle/database"
	"mingle/devserver"
	"mingle/models"
	"mingle/services"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// env runs the reference server over net/http so the SDK's real transport is
// exercised end to end against an in-memory database.
type env struct {
	db      *gorm.DB
	baseURL string
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		Env:            "test",
		Port:           "0",
		JWTSecret:      "test-secret-key",
		DBDriver:       "sqlite",
		AllowedOrigins: "*",
	}
	srv := httptest.NewServer(adaptor.FiberApp(devserver.NewServerWithDB(cfg, db).App()))
	t.Cleanup(func() {
		srv.Close()
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return &env{db: db, baseURL: srv.URL + "/api/v1"}
}

// signUp registers a fresh account and returns a service bundle whose client
// carries that account's token.
func (e *env) signUp(t *testing.T, name, email string) (*services.Services, uint) {
	t.Helper()

	api := client.New(e.baseURL)
	svc := services.New(api)
	sess, err := svc.Auth.Register(context.Background(), services.RegisterInput{
		DisplayName: name,
		Email:       email,
		Password:    "password123",
	})
	require.NoError(t, err)
	require.NotEmpty(t, sess.Token)
	require.NotNil(t, sess.User)
	require.NoError(t, api.SetToken(sess.Token))
	return svc, sess.User.ID
}

func (e *env) promoteToAdmin(t *testing.T, userID uint) {
	t.Helper()
	require.NoError(t, e.db.Model(&models.User{}).
		Where("id = ?", userID).Update("is_admin", true).Error)
}

func TestGroupLifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ada, _ := e.signUp(t, "Ada", "ada@example.com")
	ben, benID := e.signUp(t, "Ben", "ben@example.com")

	group, err := ada.Groups.Create(ctx, services.CreateGroupInput{
		Name:    "Secret Society",
		Privacy: models.GroupPrivate,
	})
	require.NoError(t, err)

	question, err := ada.Groups.CreateQuestion(ctx, services.CreateQuestionInput{
		GroupID:      group.ID,
		QuestionText: "Why do you want to join?",
		IsRequired:   true,
	})
	require.NoError(t, err)

	questions, err := ben.Groups.Questions(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, questions, 1)

	member, err := ben.Groups.Join(ctx, group.ID, []services.JoinAnswer{
		{QuestionID: question.ID, AnswerText: "to learn Go"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.MembershipPending, member.Status)

	pending, err := ada.Groups.PendingRequests(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, benID, pending[0].UserID)

	require.NoError(t, ada.Groups.ApproveMember(ctx, group.ID, benID))

	post, err := ben.Posts.Create(ctx, services.CreatePostInput{
		TextContent: "hello group",
		GroupID:     &group.ID,
	})
	require.NoError(t, err)

	groupPosts, err := ben.Groups.Posts(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, groupPosts, 1)
	assert.Equal(t, post.ID, groupPosts[0].ID)

	require.NoError(t, ada.Groups.SetMemberRole(ctx, group.ID, benID, models.GroupRoleModerator))
	members, err := ben.Groups.Members(ctx, group.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)

	require.NoError(t, ben.Groups.Leave(ctx, group.ID))
	require.NoError(t, ada.Groups.Delete(ctx, group.ID))
	_, err = ada.Groups.Get(ctx, group.ID)
	assert.ErrorIs(t, err, client.ErrNotFound)
}

func TestPagePublishingWithAttachments(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ada, _ := e.signUp(t, "Ada", "ada@example.com")
	ben, _ := e.signUp(t, "Ben", "ben@example.com")

	page, err := ada.Pages.Create(ctx, services.CreatePageInput{
		Name:     "Gopher News",
		Category: "Community",
	})
	require.NoError(t, err)

	post, err := ada.Posts.CreateWithAttachments(ctx,
		services.CreatePostInput{
			TextContent: "release notes attached",
			PageID:      &page.ID,
		},
		[]services.Attachment{
			{Filename: "notes.txt", ContentType: "text/plain", Reader: strings.NewReader("v1.0.0")},
		})
	require.NoError(t, err)
	require.Len(t, post.Files, 1)
	assert.NotEmpty(t, post.Files[0].URL)

	pagePosts, err := ada.Pages.Posts(ctx, page.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, pagePosts, 1)
	assert.Equal(t, post.ID, pagePosts[0].ID)

	require.NoError(t, ben.Pages.Follow(ctx, page.ID))
	assert.ErrorIs(t, ben.Pages.Follow(ctx, page.ID), client.ErrConflict)

	fetched, err := ben.Pages.Get(ctx, page.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fetched.FollowerCount)
	assert.True(t, fetched.IsFollowedBy)

	role, err := ada.Pages.AssignRole(ctx, page.ID, "ben@example.com", models.PageRoleEditor)
	require.NoError(t, err)
	assert.Equal(t, models.PageRoleEditor, role.Role)

	mine, err := ben.Pages.MyPages(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, page.ID, mine[0].ID)

	require.NoError(t, ben.Pages.Unfollow(ctx, page.ID))
}

func TestEventRSVPRoundTrip(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ada, _ := e.signUp(t, "Ada", "ada@example.com")
	ben, _ := e.signUp(t, "Ben", "ben@example.com")

	event, err := ada.Events.Create(ctx, services.CreateEventInput{
		Title:     "GopherCon Watch Party",
		Location:  "Online",
		StartTime: time.Now().Add(48 * time.Hour),
	})
	require.NoError(t, err)

	hosting, err := ada.Events.List(ctx, services.EventsHosting)
	require.NoError(t, err)
	require.Len(t, hosting, 1)
	assert.Equal(t, event.ID, hosting[0].ID)

	rsvp, err := ben.Events.RSVP(ctx, event.ID, models.RSVPInterested)
	require.NoError(t, err)
	assert.Equal(t, models.RSVPInterested, rsvp.Status)

	rsvp, err = ben.Events.RSVP(ctx, event.ID, models.RSVPGoing)
	require.NoError(t, err)
	assert.Equal(t, models.RSVPGoing, rsvp.Status)

	going, err := ben.Events.Participants(ctx, event.ID, models.RSVPGoing)
	require.NoError(t, err)
	assert.Len(t, going, 2, "the host plus one confirmed guest")

	attending, err := ben.Events.List(ctx, services.EventsGoing)
	require.NoError(t, err)
	require.Len(t, attending, 1)
	assert.Equal(t, event.ID, attending[0].ID)
}

func TestInteractionsThroughSDK(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ada, adaID := e.signUp(t, "Ada", "ada@example.com")
	ben, _ := e.signUp(t, "Ben", "ben@example.com")

	post, err := ben.Posts.Create(ctx, services.CreatePostInput{TextContent: "hello world"})
	require.NoError(t, err)
	target := models.PostTarget(post.ID)

	require.NoError(t, ada.Interactions.React(ctx, target))
	assert.ErrorIs(t, ada.Interactions.React(ctx, target), client.ErrConflict)

	comment, err := ada.Interactions.CreateComment(ctx, target, "nice one", nil)
	require.NoError(t, err)
	reply, err := ben.Interactions.CreateComment(ctx, target, "thanks", &comment.ID)
	require.NoError(t, err)
	require.NotNil(t, reply.ParentCommentID)
	assert.Equal(t, comment.ID, *reply.ParentCommentID)

	comments, err := ada.Interactions.Comments(ctx, target)
	require.NoError(t, err)
	assert.Len(t, comments, 2)

	feed, err := ada.Posts.Feed(ctx, 10)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.True(t, feed[0].IsLikedByMe)
	assert.Equal(t, 1, feed[0].Stats.Likes)
	assert.Equal(t, 2, feed[0].Stats.Comments)

	require.NoError(t, ada.Interactions.Unreact(ctx, adaID, target))
	assert.ErrorIs(t, ada.Interactions.Unreact(ctx, adaID, target), client.ErrNotFound)
}

func TestAdminReports(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	root, rootID := e.signUp(t, "Root", "root@example.com")
	e.promoteToAdmin(t, rootID)
	poster, posterID := e.signUp(t, "Poster", "poster@example.com")

	// Admin endpoints reject regular accounts.
	_, err := poster.Admin.Users(ctx)
	assert.ErrorIs(t, err, client.ErrForbidden)

	for _, text := range []string{
		"I love this awesome community",
		"this is terrible and awful",
		"the sky is blue",
	} {
		_, err := poster.Posts.Create(ctx, services.CreatePostInput{TextContent: text})
		require.NoError(t, err)
	}

	stats, err := root.Admin.Stats(ctx, time.Now().Year(), 2)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, posterID, stats[0].UserID)
	assert.Equal(t, 3, stats[0].TotalPosts)

	minScore := 0.5
	positive, err := root.Admin.PostsSentiment(ctx, services.SentimentQuery{MinScore: &minScore})
	require.NoError(t, err)
	require.Len(t, positive, 1)
	assert.Contains(t, positive[0].TextContent, "love")

	neutral, err := root.Admin.PostsSentiment(ctx, services.SentimentQuery{Text: "sky"})
	require.NoError(t, err)
	require.Len(t, neutral, 1)
	assert.Zero(t, neutral[0].Score)

	created, err := root.Admin.CreateUser(ctx, services.AdminUserInput{
		DisplayName: "Cam",
		Email:       "cam@example.com",
		Password:    "password123",
	})
	require.NoError(t, err)

	users, err := root.Admin.Users(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)

	require.NoError(t, root.Admin.DeleteUser(ctx, created.ID))
}
