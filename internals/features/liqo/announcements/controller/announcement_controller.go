package controller

import (
	"log"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"jejakliqo_backend/internals/features/liqo/announcements/dto"
	"jejakliqo_backend/internals/features/liqo/announcements/model"
	"jejakliqo_backend/internals/features/liqo/announcements/service"
	helper "jejakliqo_backend/internals/helpers"
	authHelper "jejakliqo_backend/internals/helpers/auth"
	"jejakliqo_backend/internals/helpers/storage"
)

type AnnouncementController struct {
	DB    *gorm.DB
	Store storage.Store
}

func NewAnnouncementController(db *gorm.DB, store storage.Store) *AnnouncementController {
	return &AnnouncementController{DB: db, Store: store}
}

func (ac *AnnouncementController) fileURL(key string) string {
	return storage.URLOrEmpty(ac.Store, key)
}

func (ac *AnnouncementController) respond(c *fiber.Ctx, code int, msg string, a *model.AnnouncementModel) error {
	out, err := service.ToResponses(ac.DB.WithContext(c.UserContext()), []model.AnnouncementModel{*a}, ac.fileURL)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.SuccessWithCode(c, code, msg, out[0])
}

// parse: body JSON/multipart + lampiran opsional (field "file")
func (ac *AnnouncementController) parse(c *fiber.Ctx) (service.AnnouncementInput, bool, error) {
	var req dto.AnnouncementRequest
	if err := c.BodyParser(&req); err != nil {
		return service.AnnouncementInput{}, true, helper.Error(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	req.Normalize()
	if err := helper.Validate.Struct(req); err != nil {
		return service.AnnouncementInput{}, true, helper.ValidationError(c, err)
	}
	var file *multipart.FileHeader
	if fh, err := c.FormFile("file"); err == nil {
		file = fh
	}
	return service.InputFromRequest(req, file), false, nil
}

// GET /api/announcements?search=&archived=&upcoming=
func (ac *AnnouncementController) List(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 10, 100)
	f := service.AnnouncementFilter{
		Search:   c.Query("search"),
		Archived: helper.ParseBoolPtr(c.Query("archived")),
		Upcoming: c.QueryBool("upcoming", false),
	}
	data, total, err := service.ListAnnouncements(c.UserContext(), ac.DB, f, p, ac.fileURL)
	if err != nil {
		log.Printf("[ERROR] List pengumuman gagal: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.SuccessWithMeta(c, "Daftar pengumuman berhasil diambil", data, helper.BuildMeta(total, p))
}

// GET /api/announcements/:id
func (ac *AnnouncementController) Detail(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID pengumuman tidak valid")
	}
	a, err := service.FindAnnouncement(c.UserContext(), ac.DB, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return ac.respond(c, fiber.StatusOK, "Detail pengumuman berhasil diambil", a)
}

// POST /api/announcements
func (ac *AnnouncementController) Create(c *fiber.Ctx) error {
	actorID, err := authHelper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	in, handled, herr := ac.parse(c)
	if handled {
		return herr
	}
	a, err := service.CreateAnnouncement(c.UserContext(), ac.DB, ac.Store, in, actorID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return ac.respond(c, fiber.StatusCreated, "Pengumuman berhasil dibuat", a)
}

// PUT /api/announcements/:id
func (ac *AnnouncementController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID pengumuman tidak valid")
	}
	in, handled, herr := ac.parse(c)
	if handled {
		return herr
	}
	a, err := service.UpdateAnnouncement(c.UserContext(), ac.DB, ac.Store, id, in)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return ac.respond(c, fiber.StatusOK, "Pengumuman berhasil diperbarui", a)
}

// DELETE /api/announcements/:id
func (ac *AnnouncementController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID pengumuman tidak valid")
	}
	if err := service.DeleteAnnouncement(c.UserContext(), ac.DB, ac.Store, id); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Pengumuman berhasil dihapus", nil)
}

// PATCH /api/announcements/:id/archive
func (ac *AnnouncementController) Archive(c *fiber.Ctx) error {
	return ac.setArchived(c, true, "Pengumuman berhasil diarsipkan")
}

// PATCH /api/announcements/:id/unarchive
func (ac *AnnouncementController) Unarchive(c *fiber.Ctx) error {
	return ac.setArchived(c, false, "Pengumuman berhasil dikeluarkan dari arsip")
}

func (ac *AnnouncementController) setArchived(c *fiber.Ctx, archived bool, msg string) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID pengumuman tidak valid")
	}
	a, err := service.SetArchived(c.UserContext(), ac.DB, id, archived)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return ac.respond(c, fiber.StatusOK, msg, a)
}
