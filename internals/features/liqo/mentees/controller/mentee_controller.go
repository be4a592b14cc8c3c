package controller

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	groupService "jejakliqo_backend/internals/features/liqo/groups/service"
	"jejakliqo_backend/internals/features/liqo/mentees/dto"
	menteeModel "jejakliqo_backend/internals/features/liqo/mentees/model"
	"jejakliqo_backend/internals/features/liqo/mentees/service"
	helper "jejakliqo_backend/internals/helpers"
	authHelper "jejakliqo_backend/internals/helpers/auth"
)

type MenteeController struct {
	DB *gorm.DB
}

func NewMenteeController(db *gorm.DB) *MenteeController {
	return &MenteeController{DB: db}
}

// filterFromQuery: ?search=&gender=&status=&activity_class=&group_id=&unassigned=
func filterFromQuery(c *fiber.Ctx) (service.MenteeFilter, error) {
	groupID, err := helper.ParseUUIDPtr(c.Query("group_id"))
	if err != nil {
		return service.MenteeFilter{}, err
	}
	return service.MenteeFilter{
		Search:        c.Query("search"),
		Gender:        c.Query("gender"),
		Status:        c.Query("status"),
		ActivityClass: c.Query("activity_class"),
		GroupID:       groupID,
		Unassigned:    c.QueryBool("unassigned", false),
		Trashed:       helper.ParseTrashed(c.Query("trashed")),
	}, nil
}

func (mc *MenteeController) list(c *fiber.Ctx, f service.MenteeFilter) error {
	p := helper.ResolvePaging(c, 15, 100)
	data, total, err := service.ListMentees(c.UserContext(), mc.DB, f, p)
	if err != nil {
		log.Printf("[ERROR] List mentee gagal: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.SuccessWithMeta(c, "Daftar mentee berhasil diambil", data, helper.BuildMeta(total, p))
}

// GET /api/mentees
func (mc *MenteeController) List(c *fiber.Ctx) error {
	f, err := filterFromQuery(c)
	if err != nil {
		return helper.FieldError(c, "group_id", "group_id tidak valid")
	}
	return mc.list(c, f)
}

// GET /api/mentees/trashed
func (mc *MenteeController) Trashed(c *fiber.Ctx) error {
	f, err := filterFromQuery(c)
	if err != nil {
		return helper.FieldError(c, "group_id", "group_id tidak valid")
	}
	f.Trashed = helper.TrashedOnly
	return mc.list(c, f)
}

// GET /api/mentees/stats
func (mc *MenteeController) Stats(c *fiber.Ctx) error {
	stats, err := service.Stats(c.UserContext(), mc.DB)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "Statistik mentee berhasil diambil", stats)
}

// GET /api/mentees/export (CSV, filter sama dengan list)
func (mc *MenteeController) Export(c *fiber.Ctx) error {
	f, err := filterFromQuery(c)
	if err != nil {
		return helper.FieldError(c, "group_id", "group_id tidak valid")
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="mentees_%s.csv"`, time.Now().Format("20060102")))

	n, err := service.ExportCSV(c.UserContext(), mc.DB, f, c.Response().BodyWriter())
	if err != nil {
		log.Printf("[ERROR] Export mentee gagal: %v", err)
		c.Response().ResetBody()
		c.Set(fiber.HeaderContentDisposition, "")
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	log.Printf("[INFO] Export %d mentee", n)
	return nil
}

// GET /api/mentees/:id
func (mc *MenteeController) Detail(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID mentee tidak valid")
	}
	m, err := service.FindMentee(c.UserContext(), mc.DB, id, true)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	list, err := service.ToResponses(mc.DB.WithContext(c.UserContext()), []menteeModel.MenteeModel{*m})
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "Detail mentee berhasil diambil", list[0])
}

// GET /api/mentees/:id/histories
func (mc *MenteeController) Histories(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID mentee tidak valid")
	}
	if _, err := service.FindMentee(c.UserContext(), mc.DB, id, true); err != nil {
		return helper.FromFiberError(c, err)
	}
	rows, err := groupService.MenteeHistories(c.UserContext(), mc.DB, id)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "Riwayat kelompok mentee berhasil diambil", rows)
}

// POST /api/mentees
func (mc *MenteeController) Create(c *fiber.Ctx) error {
	actorID, err := authHelper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.CreateMenteeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	req.Normalize()
	if err := helper.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	in := service.CreateMenteeInput{Fields: req.MenteeFields}
	if req.GroupID != nil {
		in.GroupID, _ = helper.ParseUUIDPtr(*req.GroupID)
	}

	m, err := service.CreateMentee(c.UserContext(), mc.DB, in, actorID)
	if err != nil {
		if errors.Is(err, groupService.ErrTargetGroupMissing) {
			return helper.FieldError(c, "group_id", err.Error())
		}
		return helper.FromFiberError(c, err)
	}
	list, err := service.ToResponses(mc.DB.WithContext(c.UserContext()), []menteeModel.MenteeModel{*m})
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Mentee berhasil ditambahkan", list[0])
}

// PUT /api/mentees/:id
func (mc *MenteeController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID mentee tidak valid")
	}
	actorID, err := authHelper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	var req dto.UpdateMenteeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	req.Normalize()
	if err := helper.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}
	in := service.UpdateMenteeInput{Fields: req.MenteeFields, GroupSet: req.GroupID.Set}
	if in.GroupSet {
		if in.GroupID, err = req.GroupID.UUID(); err != nil {
			return helper.FieldError(c, "group_id", "group_id tidak valid")
		}
	}

	m, err := service.UpdateMentee(c.UserContext(), mc.DB, id, in, actorID)
	if err != nil {
		if errors.Is(err, groupService.ErrTargetGroupMissing) {
			return helper.FieldError(c, "group_id", err.Error())
		}
		return helper.FromFiberError(c, err)
	}
	list, err := service.ToResponses(mc.DB.WithContext(c.UserContext()), []menteeModel.MenteeModel{*m})
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "Mentee berhasil diperbarui", list[0])
}

// DELETE /api/mentees/:id
func (mc *MenteeController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID mentee tidak valid")
	}
	actorID, err := authHelper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := service.DeleteMentee(c.UserContext(), mc.DB, id, actorID); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Mentee berhasil dihapus", nil)
}

// POST /api/mentees/:id/restore
func (mc *MenteeController) Restore(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID mentee tidak valid")
	}
	m, err := service.RestoreMentee(c.UserContext(), mc.DB, id)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	list, err := service.ToResponses(mc.DB.WithContext(c.UserContext()), []menteeModel.MenteeModel{*m})
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "Mentee berhasil dipulihkan", list[0])
}

// DELETE /api/mentees/:id/force
func (mc *MenteeController) ForceDelete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID mentee tidak valid")
	}
	actorID, err := authHelper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := service.ForceDeleteMentee(c.UserContext(), mc.DB, id, actorID); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Mentee berhasil dihapus permanen", nil)
}
