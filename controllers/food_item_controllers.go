package controllers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yeremiapane/restaurant-api/models"
	"github.com/yeremiapane/restaurant-api/services"
	"github.com/yeremiapane/restaurant-api/utils"
	"gorm.io/gorm"
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var errFoodItemNotFound = utils.ErrNotFound("Food item not found")

type FoodItemController struct {
	DB             *gorm.DB
	Cache          *services.CatalogCache
	UploadDir      string
	MaxUploadBytes int64
}

func NewFoodItemController(db *gorm.DB, cache *services.CatalogCache, uploadDir string, maxUploadBytes int64) *FoodItemController {
	return &FoodItemController{
		DB:             db,
		Cache:          cache,
		UploadDir:      uploadDir,
		MaxUploadBytes: maxUploadBytes,
	}
}

// foodItemRequest binds both multipart forms and JSON bodies
type foodItemRequest struct {
	Name          string  `form:"name" json:"name" binding:"required"`
	Price         float64 `form:"price" json:"price" binding:"gte=0"`
	Description   string  `form:"description" json:"description"`
	Category      string  `form:"category" json:"category"`
	ExistingImage string  `form:"existingImage" json:"existingImage"`
}

// GetAllFoodItems -> newest first, served from the cache when warm
func (fc *FoodItemController) GetAllFoodItems(c *gin.Context) {
	ctx := c.Request.Context()
	if items, ok := fc.Cache.Get(ctx); ok {
		c.JSON(http.StatusOK, items)
		return
	}

	items := []models.FoodItem{}
	if err := fc.DB.WithContext(ctx).Order("fid DESC").Find(&items).Error; err != nil {
		utils.RespondError(c, utils.ErrServer(err))
		return
	}

	fc.Cache.Set(ctx, items)
	c.JSON(http.StatusOK, items)
}

// GetFoodItemByID
func (fc *FoodItemController) GetFoodItemByID(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		utils.RespondError(c, errFoodItemNotFound)
		return
	}

	var item models.FoodItem
	if err := fc.DB.WithContext(c.Request.Context()).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, errFoodItemNotFound)
			return
		}
		utils.RespondError(c, utils.ErrServer(err))
		return
	}

	c.JSON(http.StatusOK, item)
}

// CreateFoodItem -> admin, optional `image` file
func (fc *FoodItemController) CreateFoodItem(c *gin.Context) {
	fc.limitBody(c)

	var req foodItemRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.RespondError(c, badRequest(err))
		return
	}

	image, err := fc.saveUpload(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	item := models.FoodItem{
		Name:        strings.TrimSpace(req.Name),
		Price:       req.Price,
		Description: req.Description,
		Category:    req.Category,
		Image:       image,
	}
	if err := fc.DB.WithContext(c.Request.Context()).Create(&item).Error; err != nil {
		fc.removeImage(image)
		utils.RespondError(c, utils.ErrServer(err))
		return
	}

	fc.Cache.Invalidate(c.Request.Context())
	utils.InfoLogger.Printf("Food item %d created: %s", item.ID, item.Name)
	c.JSON(http.StatusCreated, gin.H{
		"message":    "Food item added successfully",
		"foodItemId": item.ID,
	})
}

// UpdateFoodItem -> admin. Without a new upload, existingImage must be empty
// (clears the image) or the filename already recorded for this item.
func (fc *FoodItemController) UpdateFoodItem(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		utils.RespondError(c, errFoodItemNotFound)
		return
	}

	fc.limitBody(c)

	var req foodItemRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.RespondError(c, badRequest(err))
		return
	}

	db := fc.DB.WithContext(c.Request.Context())

	var item models.FoodItem
	if err := db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, errFoodItemNotFound)
			return
		}
		utils.RespondError(c, utils.ErrServer(err))
		return
	}

	upload, err := fc.saveUpload(c)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	image := upload
	if upload == nil {
		existing := strings.TrimSpace(req.ExistingImage)
		switch {
		case existing == "":
			image = nil
		case item.Image != nil && existing == *item.Image:
			image = item.Image
		default:
			utils.RespondError(c, utils.ErrBadRequest("Invalid existing image reference"))
			return
		}
	}

	err = db.Model(&models.FoodItem{}).Where("fid = ?", id).Updates(map[string]interface{}{
		"name":        strings.TrimSpace(req.Name),
		"price":       req.Price,
		"description": req.Description,
		"category":    req.Category,
		"image":       image,
	}).Error
	if err != nil {
		fc.removeImage(upload)
		utils.RespondError(c, utils.ErrServer(err))
		return
	}

	if item.Image != nil && (image == nil || *image != *item.Image) {
		fc.removeImage(item.Image)
	}

	fc.Cache.Invalidate(c.Request.Context())
	utils.RespondMessage(c, http.StatusOK, "Food item updated successfully")
}

// DeleteFoodItem -> admin; refused while order lines still reference the item
func (fc *FoodItemController) DeleteFoodItem(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		utils.RespondError(c, errFoodItemNotFound)
		return
	}

	db := fc.DB.WithContext(c.Request.Context())

	var item models.FoodItem
	if err := db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, errFoodItemNotFound)
			return
		}
		utils.RespondError(c, utils.ErrServer(err))
		return
	}

	var lines int64
	if err := db.Model(&models.OrderLine{}).Where("fid = ?", id).Count(&lines).Error; err != nil {
		utils.RespondError(c, utils.ErrServer(err))
		return
	}
	if lines > 0 {
		utils.RespondError(c, utils.ErrConflict("Food item is referenced by existing orders"))
		return
	}

	if err := db.Delete(&models.FoodItem{}, id).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			utils.RespondError(c, utils.ErrConflict("Food item is referenced by existing orders"))
			return
		}
		utils.RespondError(c, utils.ErrServer(err))
		return
	}

	fc.removeImage(item.Image)
	fc.Cache.Invalidate(c.Request.Context())
	utils.RespondMessage(c, http.StatusOK, "Food item deleted successfully")
}

func (fc *FoodItemController) limitBody(c *gin.Context) {
	if fc.MaxUploadBytes > 0 {
		// headroom for the other form fields
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, fc.MaxUploadBytes+1<<20)
	}
}

// saveUpload stores the optional `image` file and returns its generated filename
func (fc *FoodItemController) saveUpload(c *gin.Context) (*string, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return nil, nil
	}

	file, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, badRequest(err)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return nil, utils.ErrBadRequest("Only .jpg, .jpeg, .png, .gif and .webp images are allowed")
	}
	if fc.MaxUploadBytes > 0 && file.Size > fc.MaxUploadBytes {
		return nil, utils.ErrBadRequest(fmt.Sprintf("Image exceeds the %d MB limit", fc.MaxUploadBytes>>20))
	}

	filename := uploadFilename(ext)
	if err := fc.store(c, file, filename); err != nil {
		return nil, utils.ErrServer(err)
	}
	return &filename, nil
}

func (fc *FoodItemController) store(c *gin.Context, file *multipart.FileHeader, filename string) error {
	if err := os.MkdirAll(fc.UploadDir, 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}
	return c.SaveUploadedFile(file, filepath.Join(fc.UploadDir, filename))
}

// removeImage is best effort; a stale file is not worth failing a request
func (fc *FoodItemController) removeImage(image *string) {
	if image == nil || *image == "" {
		return
	}
	path := filepath.Join(fc.UploadDir, filepath.Base(*image))
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		utils.ErrorLogger.Errorf("Error removing image %s: %v", path, err)
	}
}

func uploadFilename(ext string) string {
	return fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.New().String()[:8], ext)
}
