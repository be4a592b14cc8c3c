package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"jejakliqo_backend/internals/features/users/user/dto"
	uModel "jejakliqo_backend/internals/features/users/user/model"
	"jejakliqo_backend/internals/features/users/user/service"
	helper "jejakliqo_backend/internals/helpers"
	authHelper "jejakliqo_backend/internals/helpers/auth"
	"jejakliqo_backend/internals/helpers/storage"
)

// ProfileController: profile milik user yang sedang login.
type ProfileController struct {
	DB    *gorm.DB
	Store storage.Store
}

func NewProfileController(db *gorm.DB, store storage.Store) *ProfileController {
	return &ProfileController{DB: db, Store: store}
}

func (pc *ProfileController) withURL(p *uModel.ProfileModel) *uModel.ProfileModel {
	out := *p
	out.ProfilePicture = storage.URLOrEmpty(pc.Store, p.ProfilePicture)
	return &out
}

// GET /api/profile
func (pc *ProfileController) Get(c *fiber.Ctx) error {
	userID, err := authHelper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p, err := service.FindProfile(c.UserContext(), pc.DB, userID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Profile berhasil diambil", pc.withURL(p))
}

// PUT /api/profile
func (pc *ProfileController) Update(c *fiber.Ctx) error {
	userID, err := authHelper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.ProfileFields
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	req.Normalize()
	if err := helper.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	p, err := service.UpdateOwnProfile(c.UserContext(), pc.DB, userID, req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Profile berhasil diperbarui", pc.withURL(p))
}

// POST /api/profile/picture (multipart, field "picture")
func (pc *ProfileController) UploadPicture(c *fiber.Ctx) error {
	userID, err := authHelper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	fh, err := c.FormFile("picture")
	if err != nil {
		return helper.FieldError(c, "picture", "File foto wajib diunggah")
	}
	p, err := service.UpdateProfilePicture(c.UserContext(), pc.DB, pc.Store, userID, fh)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Foto profil berhasil diperbarui", pc.withURL(p))
}
