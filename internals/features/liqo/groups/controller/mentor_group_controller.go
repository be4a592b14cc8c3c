package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"jejakliqo_backend/internals/features/liqo/groups/dto"
	"jejakliqo_backend/internals/features/liqo/groups/service"
	helper "jejakliqo_backend/internals/helpers"
	authHelper "jejakliqo_backend/internals/helpers/auth"
)

// MentorGroupController: semua aksi dibatasi ke kelompok milik mentor yang login.
type MentorGroupController struct {
	DB *gorm.DB
}

func NewMentorGroupController(db *gorm.DB) *MentorGroupController {
	return &MentorGroupController{DB: db}
}

// GET /api/mentor/groups
func (mc *MentorGroupController) List(c *fiber.Ctx) error {
	mentorID, err := authHelper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	p := helper.ResolvePaging(c, 15, 100)
	f := service.GroupFilter{Search: c.Query("search"), MentorID: &mentorID}
	groups, total, err := service.ListGroups(c.UserContext(), mc.DB, f, p)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.SuccessWithMeta(c, "Daftar kelompok berhasil diambil", groups, helper.BuildMeta(total, p))
}

// GET /api/mentor/groups/:id
func (mc *MentorGroupController) Detail(c *fiber.Ctx) error {
	mentorID, err := authHelper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID kelompok tidak valid")
	}
	resp, err := service.GetGroupDetail(c.UserContext(), mc.DB, id, &mentorID, false)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Detail kelompok berhasil diambil", resp)
}

// POST /api/mentor/groups/:id/mentees/existing
func (mc *MentorGroupController) AddExistingMentees(c *fiber.Ctx) error {
	mentorID, err := authHelper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID kelompok tidak valid")
	}
	var req dto.MentorAddMenteesRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	if err := helper.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	ids, _ := helper.ParseUUIDs(req.MenteeIDs)

	moved, err := service.AddExistingMentees(c.UserContext(), mc.DB, mentorID, id, ids)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Mentee berhasil ditambahkan ke kelompok", dto.MoveResult{Moved: moved})
}

// POST /api/mentor/groups/:id/mentees/move
func (mc *MentorGroupController) MoveMentees(c *fiber.Ctx) error {
	mentorID, err := authHelper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID kelompok tidak valid")
	}
	var req dto.MentorMoveMenteesRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	if err := helper.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	ids, _ := helper.ParseUUIDs(req.MenteeIDs)
	target, _ := uuid.Parse(req.ToGroupID)

	moved, err := service.MoveMenteesBetweenOwnGroups(c.UserContext(), mc.DB, mentorID, id, target, ids)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Mentee berhasil dipindahkan", dto.MoveResult{Moved: moved})
}
