package devserver

import (
	"errors"
	"sort"
	"strings"
	"time"

	"mingle/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminRequired gates the /admin group on the account's is_admin flag.
func (s *Server) AdminRequired(c *fiber.Ctx) error {
	var user models.User
	err := s.db.First(&user, currentUserID(c)).Error
	if err != nil || !user.IsAdmin {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Admin access required"))
	}
	return c.Next()
}

// AdminListUsers handles GET /api/v1/admin/users.
func (s *Server) AdminListUsers(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	query := s.db.Order("id ASC")
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(email) LIKE ? OR LOWER(display_name) LIKE ?", pattern, pattern)
	}

	var users []models.User
	if err := query.Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(users)
}

// AdminCreateUser handles POST /api/v1/admin/users.
func (s *Server) AdminCreateUser(c *fiber.Ctx) error {
	var req struct {
		DisplayName string `json:"display_name"`
		Email       string `json:"email"`
		Password    string `json:"password"`
		IsAdmin     bool   `json:"is_admin"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if req.DisplayName == "" || req.Email == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Display name, email, and password are required"))
	}

	var existing models.User
	err := s.db.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewConflictError("User already exists"))
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	user := &models.User{
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Password:    string(hashed),
		IsAdmin:     req.IsAdmin,
	}
	if err := s.db.Create(user).Error; err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// AdminUpdateUser handles PUT /api/v1/admin/users/:id.
func (s *Server) AdminUpdateUser(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	user, err := s.getUserOr404(c, userID)
	if err != nil {
		return nil
	}

	var req struct {
		DisplayName string  `json:"display_name"`
		Email       string  `json:"email"`
		Password    string  `json:"password"`
		Bio         *string `json:"bio"`
		IsAdmin     *bool   `json:"is_admin"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if name := strings.TrimSpace(req.DisplayName); name != "" {
		user.DisplayName = name
	}
	if email := strings.TrimSpace(strings.ToLower(req.Email)); email != "" {
		user.Email = email
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.IsAdmin != nil {
		user.IsAdmin = *req.IsAdmin
	}
	if req.Password != "" {
		hashed, hashErr := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if hashErr != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(hashErr))
		}
		user.Password = string(hashed)
	}

	if saveErr := s.db.Save(user).Error; saveErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, saveErr)
	}
	return c.JSON(user)
}

// AdminDeleteUser handles DELETE /api/v1/admin/users/:id. Admins cannot
// delete themselves.
func (s *Server) AdminDeleteUser(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if userID == currentUserID(c) {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Cannot delete your own account"))
	}
	user, err := s.getUserOr404(c, userID)
	if err != nil {
		return nil
	}

	if delErr := s.db.Delete(user).Error; delErr != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, delErr)
	}
	return c.JSON(fiber.Map{"message": "User deleted"})
}

// AdminListRoles handles GET /api/v1/admin/roles.
func (s *Server) AdminListRoles(c *fiber.Ctx) error {
	var roles []models.Role
	if err := s.db.Order("id ASC").Find(&roles).Error; err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(roles)
}

// AdminStats handles GET /api/v1/admin/stats?year=&min_posts=: users with
// at least min_posts posts in the given year, ranked by an activity score
// combining posts, comments, and reactions.
func (s *Server) AdminStats(c *fiber.Ctx) error {
	year := c.QueryInt("year", time.Now().Year())
	minPosts := c.QueryInt("min_posts", 1)
	if minPosts < 0 {
		minPosts = 0
	}

	yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := yearStart.AddDate(1, 0, 0)

	var users []models.User
	if err := s.db.Find(&users).Error; err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	stats := make([]models.ActiveUserStat, 0, len(users))
	for _, u := range users {
		var posts int64
		err := s.db.Model(&models.Post{}).
			Where("author_id = ? AND created_at >= ? AND created_at < ?",
				u.ID, yearStart, yearEnd).
			Count(&posts).Error
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if posts < int64(minPosts) {
			continue
		}

		var comments int64
		err = s.db.Model(&models.Comment{}).
			Where("author_id = ? AND created_at >= ? AND created_at < ?",
				u.ID, yearStart, yearEnd).
			Count(&comments).Error
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}

		var reactions int64
		err = s.db.Model(&models.Reaction{}).
			Where("reactor_user_id = ? AND created_at >= ? AND created_at < ?",
				u.ID, yearStart, yearEnd).
			Count(&reactions).Error
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}

		stats = append(stats, models.ActiveUserStat{
			UserID:        u.ID,
			Email:         u.Email,
			TotalPosts:    int(posts),
			ActivityScore: float64(posts) + 0.5*float64(comments) + 0.25*float64(reactions),
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		return stats[i].ActivityScore > stats[j].ActivityScore
	})
	return c.JSON(stats)
}

// AdminPostsSentiment handles GET /api/v1/admin/posts-sentiment. Posts are
// scored with a polarity lexicon and filtered by year, score range, and a
// text substring.
func (s *Server) AdminPostsSentiment(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	query := s.db.Preload("Author").Order("created_at DESC")
	if year := c.QueryInt("year", 0); year > 0 {
		yearStart := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		query = query.Where("created_at >= ? AND created_at < ?",
			yearStart, yearStart.AddDate(1, 0, 0))
	}
	if text := strings.TrimSpace(c.Query("text")); text != "" {
		query = query.Where("LOWER(text_content) LIKE ?", "%"+strings.ToLower(text)+"%")
	}

	var posts []models.Post
	if err := query.Find(&posts).Error; err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	minScore := c.QueryFloat("min_score", -1)
	maxScore := c.QueryFloat("max_score", 1)

	results := make([]models.SentimentPost, 0, limit)
	for _, p := range posts {
		score := scoreSentiment(p.TextContent)
		if score < minScore || score > maxScore {
			continue
		}
		results = append(results, models.SentimentPost{
			PostID:      p.ID,
			AuthorID:    p.AuthorID,
			AuthorEmail: p.Author.Email,
			TextContent: p.TextContent,
			Score:       score,
			CreatedAt:   p.CreatedAt,
		})
		if len(results) == limit {
			break
		}
	}
	return c.JSON(results)
}
