package v1

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"go-profile-backend/internal/delivery/http/response"
	"go-profile-backend/internal/domain"
	"go-profile-backend/internal/usecase"
	"go-profile-backend/pkg/apperror"
	"go-profile-backend/pkg/security"
	"go-profile-backend/pkg/storage"
	"go-profile-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	photoMaxDimension = 1200
	photoJPEGQuality  = 80
)

type ProfileHandler struct {
	profileUC     domain.ProfileUsecase
	store         storage.Store
	maxPhotoSize  int64
	maxResumeSize int64
}

func NewProfileHandler(protected *gin.RouterGroup, profileUC domain.ProfileUsecase, store storage.Store, maxPhotoSize, maxResumeSize int64) {
	handler := &ProfileHandler{
		profileUC:     profileUC,
		store:         store,
		maxPhotoSize:  maxPhotoSize,
		maxResumeSize: maxResumeSize,
	}

	profile := protected.Group("/profile")
	{
		profile.GET("", handler.GetProfile)
		profile.PUT("", handler.UpdateProfile)
		profile.DELETE("", handler.DeleteProfile)
	}
}

// GetProfile godoc
// @Summary      Get the authenticated user's profile
// @Tags         profile
// @Produce      json
// @Success      200 {object} response.Response{data=domain.Profile}
// @Failure      401 {object} response.Response
// @Failure      404 {object} response.Response
// @Router       /api/profile [get]
// @Security     BearerAuth
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	profile, err := h.profileUC.GetProfile(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile", profile)
}

// UpdateProfile godoc
// @Summary      Merge a partial update onto the profile
// @Description  Accepts multipart form fields (with JSON-string-encoded skills/education/certificates and optional profilePhoto/resume files) or a JSON body. Omitted fields retain stored values.
// @Tags         profile
// @Accept       multipart/form-data
// @Produce      json
// @Success      200 {object} response.Response{data=domain.Profile}
// @Failure      401 {object} response.Response
// @Failure      413 {object} response.Response
// @Failure      415 {object} response.Response
// @Failure      422 {object} response.Response
// @Router       /api/profile [put]
// @Security     BearerAuth
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	form, err := h.bindForm(c)
	if err != nil {
		c.Error(apperror.BadRequest("Malformed request body"))
		return
	}

	// Collect every structural violation before normalization
	if problems := validation.ValidateProfileForm(form); problems != nil {
		c.Error(apperror.Unprocessable("Validation failed", problems))
		return
	}

	patch, err := usecase.NormalizeProfileForm(form)
	if err != nil {
		c.Error(err)
		return
	}

	// File references are replaced only when a new file arrives
	if path, appErr := h.saveUpload(c, security.SlotPhoto, h.maxPhotoSize); appErr != nil {
		c.Error(appErr)
		return
	} else if path != "" {
		patch.PhotoPath = &path
	}
	if path, appErr := h.saveUpload(c, security.SlotResume, h.maxResumeSize); appErr != nil {
		c.Error(appErr)
		return
	} else if path != "" {
		patch.ResumePath = &path
	}

	profile, err := h.profileUC.UpdateProfile(c.Request.Context(), userID, patch)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile updated", profile)
}

// DeleteProfile godoc
// @Summary      Delete the authenticated user's profile
// @Description  Idempotent; previously stored files are orphaned, not removed.
// @Tags         profile
// @Produce      json
// @Success      200 {object} response.Response
// @Failure      401 {object} response.Response
// @Router       /api/profile [delete]
// @Security     BearerAuth
func (h *ProfileHandler) DeleteProfile(c *gin.Context) {
	userID := c.GetString(string(domain.KeyUserID))

	if err := h.profileUC.DeleteProfile(c.Request.Context(), userID); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile deleted", nil)
}

// bindForm accepts either a JSON body or multipart form fields. Both land in
// the same raw form shape; the flex fields keep track of how they arrived.
func (h *ProfileHandler) bindForm(c *gin.Context) (*domain.ProfileForm, error) {
	if strings.HasPrefix(c.ContentType(), "application/json") {
		var form domain.ProfileForm
		if err := c.ShouldBindJSON(&form); err != nil {
			return nil, err
		}
		return &form, nil
	}

	form := &domain.ProfileForm{
		FirstName:       postFormPtr(c, "firstName"),
		LastName:        postFormPtr(c, "lastName"),
		Phone:           postFormPtr(c, "phone"),
		Address:         postFormPtr(c, "address"),
		Bio:             postFormPtr(c, "bio"),
		EducationLevel:  postFormPtr(c, "educationLevel"),
		University:      postFormPtr(c, "university"),
		CourseName:      postFormPtr(c, "courseName"),
		FieldOfStudy:    postFormPtr(c, "fieldOfStudy"),
		StartDate:       postFormPtr(c, "startDate"),
		EndDate:         postFormPtr(c, "endDate"),
		ExperienceLevel: postFormPtr(c, "experienceLevel"),
	}

	if v, ok := c.GetPostForm("currentlyStudying"); ok {
		b, _ := strconv.ParseBool(v)
		form.CurrentlyStudying = &b
	}

	skills, skillsPresent := c.GetPostForm("skills")
	form.Skills = domain.FlexFromForm(skills, skillsPresent)

	education, educationPresent := c.GetPostForm("education")
	form.Education = domain.FlexFromForm(education, educationPresent)

	certificates, certificatesPresent := c.GetPostForm("certificates")
	form.Certificates = domain.FlexFromForm(certificates, certificatesPresent)

	return form, nil
}

func postFormPtr(c *gin.Context, field string) *string {
	if v, ok := c.GetPostForm(field); ok {
		return &v
	}
	return nil
}

// saveUpload validates and persists one file slot. Returns "" when the slot
// was not part of the request. Photos are downscaled and re-encoded as JPEG
// before storage.
func (h *ProfileHandler) saveUpload(c *gin.Context, slot security.UploadSlot, maxSize int64) (string, *apperror.AppError) {
	fileHeader, err := c.FormFile(string(slot))
	if err != nil {
		return "", nil
	}

	if fileHeader.Size > maxSize {
		return "", apperror.PayloadTooLarge(fmt.Sprintf("%s exceeds the maximum size of %d bytes", slot, maxSize))
	}

	data, err := readUpload(fileHeader, maxSize)
	if err != nil {
		return "", apperror.Internal(err)
	}

	if appErr := security.ValidateUpload(slot, fileHeader.Filename, data, maxSize); appErr != nil {
		return "", appErr
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	contentType := http.DetectContentType(data)

	if slot == security.SlotPhoto {
		if compressed, err := security.CompressImage(data, photoMaxDimension, photoJPEGQuality); err == nil {
			data = compressed
			ext = ".jpg"
			contentType = "image/jpeg"
		}
	}

	key := fmt.Sprintf("%s/%s%s", slot, uuid.NewString(), ext)
	path, err := h.store.Save(c.Request.Context(), key, contentType, data)
	if err != nil {
		return "", apperror.Internal(err)
	}
	return path, nil
}

func readUpload(fileHeader *multipart.FileHeader, maxSize int64) ([]byte, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	// Size header is client-supplied; cap the actual read as well
	return io.ReadAll(io.LimitReader(src, maxSize+1))
}
