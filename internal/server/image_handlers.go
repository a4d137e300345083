package server

import (
	"io"

	"nhatro/internal/models"
	"nhatro/internal/service"
	"nhatro/internal/storage"

	"github.com/gofiber/fiber/v2"
)

type addImageRequest struct {
	ImageURL string `json:"image_url"`
}

// AddImage attaches an externally hosted image URL to a post.
func (s *Server) AddImage(c *fiber.Ctx) error {
	postID, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	var req addImageRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewInvalidArgumentError("Invalid request body"))
	}

	image, err := s.imageService.AddImageURL(c.Context(), currentActor(c), postID, req.ImageURL)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return success(c, fiber.StatusCreated, "Image added", fiber.Map{
		"image": image,
	})
}

// UploadImages accepts multipart photo uploads for a post.
func (s *Server) UploadImages(c *fiber.Ctx) error {
	postID, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return models.RespondWithError(c, models.NewInvalidArgumentError("Expected multipart form data"))
	}

	var files []service.UploadFile
	for _, header := range form.File["images"] {
		if header.Size > storage.DefaultMaxUploadBytes {
			return models.RespondWithError(c, models.NewInvalidArgumentError(
				"Image "+header.Filename+" exceeds the upload size limit"))
		}
		f, err := header.Open()
		if err != nil {
			return models.RespondWithError(c, models.NewStoreError(err))
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return models.RespondWithError(c, models.NewStoreError(err))
		}
		files = append(files, service.UploadFile{
			Filename: header.Filename,
			Content:  content,
		})
	}

	images, err := s.imageService.UploadImages(c.Context(), service.UploadImagesInput{
		Actor:  currentActor(c),
		PostID: postID,
		Files:  files,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return success(c, fiber.StatusCreated, "Images uploaded", fiber.Map{
		"images": images,
		"count":  len(images),
	})
}

// GetImages lists a post's images.
func (s *Server) GetImages(c *fiber.Ctx) error {
	postID, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	images, err := s.imageService.ListImages(c.Context(), postID)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return success(c, fiber.StatusOK, "Images retrieved", fiber.Map{
		"images": images,
		"count":  len(images),
	})
}

// DeleteImage removes one image and its stored file.
func (s *Server) DeleteImage(c *fiber.Ctx) error {
	imageID, ok := parseID(c, "id")
	if !ok {
		return nil
	}

	if err := s.imageService.DeleteImage(c.Context(), currentActor(c), imageID); err != nil {
		return models.RespondWithError(c, err)
	}

	return success(c, fiber.StatusOK, "Image deleted", nil)
}
