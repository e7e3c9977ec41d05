package services

import (
	"errors"
	"log"
	"path/filepath"
	"strconv"

	"court-reservation-system/models"
	"court-reservation-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// CourtService owns the court catalog. Courts are read-mostly; writes are
// admin-only and go through multipart forms so an image can ride along.
type CourtService struct {
	DB *gorm.DB
}

func NewCourtService(db *gorm.DB) *CourtService {
	return &CourtService{DB: db}
}

func (s *CourtService) GetCourts(c *fiber.Ctx) error {
	var courts []models.Court
	if err := s.DB.Order("name ASC").Find(&courts).Error; err != nil {
		log.Printf("[Court] list failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}
	return c.JSON(courts)
}

func (s *CourtService) GetCourtByID(c *fiber.Ctx) error {
	var court models.Court
	if err := s.DB.First(&court, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "court not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}
	return c.JSON(court)
}

// AddCourt creates a court from form values; the optional court image is
// uploaded to R2 and referenced by URL.
func (s *CourtService) AddCourt(c *fiber.Ctx) error {
	court, err := courtFromForm(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	court.ID = uuid.NewString()
	court.Slug = slug.Make(court.Name)

	if image, err := c.FormFile("image"); err == nil && image.Size > 0 {
		ext := filepath.Ext(image.Filename)
		if ext == "" {
			ext = ".jpg"
		}
		key := "courts/" + uuid.NewString() + ext
		url, err := utils.UploadFileToR2(image, key)
		if err != nil {
			log.Printf("[Court] image upload failed: %v", err)
			return c.Status(500).JSON(fiber.Map{"error": "failed to upload court image"})
		}
		court.ImageURL = url
	}

	if err := s.DB.Create(&court).Error; err != nil {
		log.Printf("[Court] create failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to add court"})
	}
	return c.Status(201).JSON(fiber.Map{"message": "court added successfully", "court_id": court.ID})
}

// UpdateCourt overwrites the editable fields; the stored image is kept
// when no new one is uploaded.
func (s *CourtService) UpdateCourt(c *fiber.Ctx) error {
	var court models.Court
	if err := s.DB.First(&court, "id = ?", c.Params("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "court not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}

	updated, err := courtFromForm(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	court.Name = updated.Name
	court.Slug = slug.Make(updated.Name)
	court.Location = updated.Location
	court.PricePerHour = updated.PricePerHour
	court.PeakPrice = updated.PeakPrice
	court.OffPeakPrice = updated.OffPeakPrice
	court.AvailableSlots = updated.AvailableSlots
	court.ContactNumber = updated.ContactNumber

	if image, err := c.FormFile("image"); err == nil && image.Size > 0 {
		ext := filepath.Ext(image.Filename)
		if ext == "" {
			ext = ".jpg"
		}
		key := "courts/" + uuid.NewString() + ext
		url, err := utils.UploadFileToR2(image, key)
		if err != nil {
			log.Printf("[Court] image upload failed: %v", err)
			return c.Status(500).JSON(fiber.Map{"error": "failed to upload court image"})
		}
		court.ImageURL = url
	}

	if err := s.DB.Save(&court).Error; err != nil {
		log.Printf("[Court] update failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to update court"})
	}
	return c.JSON(fiber.Map{"message": "court updated successfully"})
}

// DeleteCourt soft-deletes the court; existing bookings keep their rows.
func (s *CourtService) DeleteCourt(c *fiber.Ctx) error {
	res := s.DB.Delete(&models.Court{}, "id = ?", c.Params("id"))
	if res.Error != nil {
		log.Printf("[Court] delete failed: %v", res.Error)
		return c.Status(500).JSON(fiber.Map{"error": "database error"})
	}
	if res.RowsAffected == 0 {
		return c.Status(404).JSON(fiber.Map{"error": "court not found"})
	}
	return c.JSON(fiber.Map{"message": "court deleted successfully"})
}

func courtFromForm(c *fiber.Ctx) (models.Court, error) {
	name := c.FormValue("name")
	if name == "" {
		return models.Court{}, errors.New("name is required")
	}
	court := models.Court{
		Name:          name,
		Location:      c.FormValue("location"),
		ContactNumber: c.FormValue("contact_number"),
	}
	var err error
	if court.PricePerHour, err = parsePrice(c.FormValue("price_per_hour")); err != nil {
		return models.Court{}, errors.New("price_per_hour must be a non-negative number")
	}
	if court.PeakPrice, err = parsePrice(c.FormValue("peak_price")); err != nil {
		return models.Court{}, errors.New("peak_price must be a non-negative number")
	}
	if court.OffPeakPrice, err = parsePrice(c.FormValue("off_peak_price")); err != nil {
		return models.Court{}, errors.New("off_peak_price must be a non-negative number")
	}
	if v := c.FormValue("available_slots"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return models.Court{}, errors.New("available_slots must be a non-negative integer")
		}
		court.AvailableSlots = n
	}
	return court, nil
}

func parsePrice(v string) (float64, error) {
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0, errors.New("invalid price")
	}
	return f, nil
}
