package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	groupService "jejakliqo_backend/internals/features/liqo/groups/service"
	"jejakliqo_backend/internals/features/liqo/mentees/service"
	helper "jejakliqo_backend/internals/helpers"
	authHelper "jejakliqo_backend/internals/helpers/auth"
)

type MentorMenteeController struct {
	DB *gorm.DB
}

func NewMentorMenteeController(db *gorm.DB) *MentorMenteeController {
	return &MentorMenteeController{DB: db}
}

// GET /api/mentor/mentees — mentee di kelompok milik mentor (?group_id= harus miliknya)
func (mc *MentorMenteeController) List(c *fiber.Ctx) error {
	mentorID, err := authHelper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	owned, err := groupService.OwnedGroupIDs(c.UserContext(), mc.DB, mentorID)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	groupID, err := helper.ParseUUIDPtr(c.Query("group_id"))
	if err != nil {
		return helper.FieldError(c, "group_id", "group_id tidak valid")
	}
	if groupID != nil && !containsID(owned, *groupID) {
		return helper.Error(c, fiber.StatusNotFound, groupService.ErrGroupNotFound.Message)
	}

	p := helper.ResolvePaging(c, 15, 100)
	f := service.MenteeFilter{
		Search:   c.Query("search"),
		Gender:   c.Query("gender"),
		Status:   c.Query("status"),
		GroupID:  groupID,
		GroupIDs: owned,
	}
	data, total, err := service.ListMentees(c.UserContext(), mc.DB, f, p)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.SuccessWithMeta(c, "Daftar mentee berhasil diambil", data, helper.BuildMeta(total, p))
}

// GET /api/mentor/mentees/unassigned — pool mentee tanpa kelompok
func (mc *MentorMenteeController) Unassigned(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 15, 100)
	f := service.MenteeFilter{
		Search:     c.Query("search"),
		Gender:     c.Query("gender"),
		Status:     c.Query("status"),
		Unassigned: true,
	}
	data, total, err := service.ListMentees(c.UserContext(), mc.DB, f, p)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.SuccessWithMeta(c, "Daftar mentee tanpa kelompok berhasil diambil", data, helper.BuildMeta(total, p))
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}
