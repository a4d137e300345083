package server

import (
	"log/slog"

	"nhatro/internal/models"
	"nhatro/internal/repository"
	"nhatro/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Price           int    `json:"price"`
	RoomNum         int    `json:"room_num"`
	Area            int    `json:"area"`
	Type            string `json:"type"`
	Deposit         string `json:"deposit"`
	ElectricityFee  int    `json:"electricity_fee"`
	WaterFee        int    `json:"water_fee"`
	InternetFee     int    `json:"internet_fee"`
	VehicleFee      int    `json:"vehicle_fee"`
	FloorNum        string `json:"floor_num"`
	Province        string `json:"province"`
	District        string `json:"district"`
	Rural           string `json:"rural"`
	Street          string `json:"street"`
	DetailedAddress string `json:"detailed_address"`
}

type updatePostRequest struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	Price           *int    `json:"price"`
	RoomNum         *int    `json:"room_num"`
	Area            *int    `json:"area"`
	Type            *string `json:"type"`
	Deposit         *string `json:"deposit"`
	ElectricityFee  *int    `json:"electricity_fee"`
	WaterFee        *int    `json:"water_fee"`
	InternetFee     *int    `json:"internet_fee"`
	VehicleFee      *int    `json:"vehicle_fee"`
	FloorNum        *string `json:"floor_num"`
	Province        *string `json:"province"`
	District        *string `json:"district"`
	Rural           *string `json:"rural"`
	Street          *string `json:"street"`
	DetailedAddress *string `json:"detailed_address"`
}

// CreatePost submits a new listing into the moderation queue.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	actor := currentActor(c)

	var req createPostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewInvalidArgumentError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		UserID:          actor.ID,
		Title:           req.Title,
		Description:     req.Description,
		Price:           req.Price,
		RoomNum:         req.RoomNum,
		Area:            req.Area,
		Type:            req.Type,
		Deposit:         req.Deposit,
		ElectricityFee:  req.ElectricityFee,
		WaterFee:        req.WaterFee,
		InternetFee:     req.InternetFee,
		VehicleFee:      req.VehicleFee,
		FloorNum:        req.FloorNum,
		Province:        req.Province,
		District:        req.District,
		Rural:           req.Rural,
		Street:          req.Street,
		DetailedAddress: req.DetailedAddress,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	slog.InfoContext(c.UserContext(), "post submitted", "post_id", post.ID, "user_id", actor.ID)

	return success(c, fiber.StatusCreated, "Post submitted for review", fiber.Map{
		"post": post,
	})
}

// GetPosts returns the public listing page. The limit parameter is
// required here; the search endpoint defaults it instead.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	limit := queryInt(c, "limit", 0)
	offset := queryInt(c, "offset", 0)

	posts, err := s.postService.ListPosts(c.Context(), limit, offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return success(c, fiber.StatusOK, "Posts retrieved", fiber.Map{
		"posts": posts,
		"count": len(posts),
	})
}

// SearchPosts filters visible listings by location, attributes, price
// range and amenities.
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	filter := repository.ListingFilter{
		Province:   optString(c, "province"),
		District:   optString(c, "district"),
		Rural:      optString(c, "rural"),
		Type:       optString(c, "type"),
		RoomNum:    optInt(c, "room_num"),
		MinPrice:   optInt(c, "min_price"),
		MaxPrice:   optInt(c, "max_price"),
		HasWifi:    queryBool(c, "wifi"),
		HasAC:      queryBool(c, "air_conditioner"),
		HasParking: queryBool(c, "parking_lot"),
	}
	limit := queryInt(c, "limit", 0)
	offset := queryInt(c, "offset", 0)

	posts, err := s.postService.SearchPosts(c.Context(), filter, limit, offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return success(c, fiber.StatusOK, "Posts retrieved", fiber.Map{
		"posts": posts,
		"count": len(posts),
	})
}

// GetPost returns one listing. Owners and admins can see their hidden
// listings; everyone else gets 404 for anything not publicly visible.
// A successful public view bumps the view counter and, for logged-in
// viewers, their history.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	viewer := s.optionalActor(c)
	post, err := s.postService.GetPost(c.Context(), id, viewer)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	if post.Visible() {
		if err := s.postService.RegisterView(c.Context(), id); err != nil {
			slog.WarnContext(c.UserContext(), "view counter update failed", "post_id", id, "error", err)
		}
		if viewer != nil {
			if err := s.historyService.RecordView(c.Context(), viewer.ID, id); err != nil {
				slog.WarnContext(c.UserContext(), "history record failed", "post_id", id, "error", err)
			}
		}
	}

	return success(c, fiber.StatusOK, "Post retrieved", fiber.Map{
		"post": post,
	})
}

// GetUserPosts lists all posts belonging to a user, any status.
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	userID, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	posts, err := s.postService.GetPostsByUser(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return success(c, fiber.StatusOK, "Posts retrieved", fiber.Map{
		"posts": posts,
		"count": len(posts),
	})
}

// UpdatePost edits listing fields. Moderation state is never touched
// here; admins use the moderation endpoints for that.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	var req updatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewInvalidArgumentError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		Actor:           currentActor(c),
		PostID:          id,
		Title:           req.Title,
		Description:     req.Description,
		Price:           req.Price,
		RoomNum:         req.RoomNum,
		Area:            req.Area,
		Type:            req.Type,
		Deposit:         req.Deposit,
		ElectricityFee:  req.ElectricityFee,
		WaterFee:        req.WaterFee,
		InternetFee:     req.InternetFee,
		VehicleFee:      req.VehicleFee,
		FloorNum:        req.FloorNum,
		Province:        req.Province,
		District:        req.District,
		Rural:           req.Rural,
		Street:          req.Street,
		DetailedAddress: req.DetailedAddress,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return success(c, fiber.StatusOK, "Post updated", fiber.Map{
		"post": post,
	})
}

// DeletePost removes a listing and its dependents.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), currentActor(c), id); err != nil {
		return models.RespondWithError(c, err)
	}

	return success(c, fiber.StatusOK, "Post deleted", nil)
}

// ReportPost flags a listing for admin review. Any authenticated user
// can report.
func (s *Server) ReportPost(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	post, err := s.moderationService.ReportPost(c.Context(), currentActor(c), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return success(c, fiber.StatusOK, "Post reported", fiber.Map{
		"post": post,
	})
}
