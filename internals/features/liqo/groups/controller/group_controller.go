package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"jejakliqo_backend/internals/features/liqo/groups/dto"
	"jejakliqo_backend/internals/features/liqo/groups/service"
	helper "jejakliqo_backend/internals/helpers"
	authHelper "jejakliqo_backend/internals/helpers/auth"
	"jejakliqo_backend/internals/helpers/storage"
)

type GroupController struct {
	DB    *gorm.DB
	Store storage.Store
}

func NewGroupController(db *gorm.DB, store storage.Store) *GroupController {
	return &GroupController{DB: db, Store: store}
}

func (gc *GroupController) list(c *fiber.Ctx, trashed helper.Trashed) error {
	mentorID, err := helper.ParseUUIDPtr(c.Query("mentor_id"))
	if err != nil {
		return helper.FieldError(c, "mentor_id", "mentor_id tidak valid")
	}
	p := helper.ResolvePaging(c, 15, 100)
	f := service.GroupFilter{
		Search:   c.Query("search"),
		MentorID: mentorID,
		NoMentor: c.QueryBool("no_mentor", false),
		Trashed:  trashed,
	}
	groups, total, err := service.ListGroups(c.UserContext(), gc.DB, f, p)
	if err != nil {
		log.Printf("[ERROR] List kelompok gagal: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.SuccessWithMeta(c, "Daftar kelompok berhasil diambil", groups, helper.BuildMeta(total, p))
}

// GET /api/groups
func (gc *GroupController) List(c *fiber.Ctx) error {
	return gc.list(c, helper.ParseTrashed(c.Query("trashed")))
}

// GET /api/groups/trashed
func (gc *GroupController) Trashed(c *fiber.Ctx) error {
	return gc.list(c, helper.TrashedOnly)
}

// GET /api/groups/:id
func (gc *GroupController) Detail(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID kelompok tidak valid")
	}
	resp, err := service.GetGroupDetail(c.UserContext(), gc.DB, id, nil, true)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Detail kelompok berhasil diambil", resp)
}

// POST /api/groups
func (gc *GroupController) Create(c *fiber.Ctx) error {
	actorID, err := authHelper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.CreateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	req.Normalize()
	if err := helper.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	in := service.CreateGroupInput{GroupName: req.GroupName, Description: req.Description}
	if req.MentorID != nil {
		id, _ := uuid.Parse(*req.MentorID)
		in.MentorID = &id
	}
	in.MenteeIDs, _ = helper.ParseUUIDs(req.MenteeIDs)

	group, _, err := service.CreateGroup(c.UserContext(), gc.DB, in, actorID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	resp, err := service.GetGroupDetail(c.UserContext(), gc.DB, group.ID, nil, false)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Kelompok berhasil dibuat", resp)
}

// PUT /api/groups/:id
func (gc *GroupController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID kelompok tidak valid")
	}
	actorID, err := authHelper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.UpdateGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	req.Normalize()
	if err := helper.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	in := service.UpdateGroupInput{
		GroupName:   req.GroupName,
		Description: req.Description,
		MentorSet:   req.MentorID.Set,
	}
	if in.MentorSet {
		if in.MentorID, err = req.MentorID.UUID(); err != nil {
			return helper.FieldError(c, "mentor_id", "mentor_id tidak valid")
		}
	}
	if req.MenteeIDs != nil {
		ids, _ := helper.ParseUUIDs(*req.MenteeIDs)
		in.MenteeIDs = &ids
	}

	if _, err := service.UpdateGroup(c.UserContext(), gc.DB, id, in, actorID); err != nil {
		return helper.FromFiberError(c, err)
	}
	resp, err := service.GetGroupDetail(c.UserContext(), gc.DB, id, nil, false)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Kelompok berhasil diperbarui", resp)
}

// DELETE /api/groups/:id
func (gc *GroupController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID kelompok tidak valid")
	}
	actorID, err := authHelper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	released, err := service.DeleteGroup(c.UserContext(), gc.DB, id, actorID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Kelompok berhasil dihapus", fiber.Map{"released_mentees": released})
}

// POST /api/groups/:id/restore
func (gc *GroupController) Restore(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID kelompok tidak valid")
	}
	if _, _, err := service.RestoreGroup(c.UserContext(), gc.DB, id); err != nil {
		return helper.FromFiberError(c, err)
	}
	resp, err := service.GetGroupDetail(c.UserContext(), gc.DB, id, nil, false)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Kelompok berhasil dipulihkan", resp)
}

// DELETE /api/groups/:id/force
func (gc *GroupController) ForceDelete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID kelompok tidak valid")
	}
	actorID, err := authHelper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	photos, err := service.ForceDeleteGroup(c.UserContext(), gc.DB, id, actorID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	storage.DeleteQuietly(c.UserContext(), gc.Store, photos...)
	return helper.Success(c, "Kelompok berhasil dihapus permanen", nil)
}

// POST /api/groups/move-mentees
func (gc *GroupController) MoveMentees(c *fiber.Ctx) error {
	actorID, err := authHelper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.MoveMenteesRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	if err := helper.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	ids, _ := helper.ParseUUIDs(req.MenteeIDs)
	target, _ := uuid.Parse(req.ToGroupID)

	moved, err := service.AssignMenteesToGroup(c.UserContext(), gc.DB, ids, target, actorID)
	if err != nil {
		if errors.Is(err, service.ErrTargetGroupMissing) {
			return helper.FieldError(c, "to_group_id", err.Error())
		}
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Mentee berhasil dipindahkan", dto.MoveResult{Moved: moved})
}

// GET /api/groups/:id/mentor-histories
func (gc *GroupController) MentorHistories(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID kelompok tidak valid")
	}
	rows, err := service.GroupMentorHistories(c.UserContext(), gc.DB, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Riwayat mentor berhasil diambil", rows)
}

// GET /api/groups/:id/mentee-histories
func (gc *GroupController) MenteeHistories(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID kelompok tidak valid")
	}
	rows, err := service.GroupMenteeHistories(c.UserContext(), gc.DB, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Riwayat mentee berhasil diambil", rows)
}
