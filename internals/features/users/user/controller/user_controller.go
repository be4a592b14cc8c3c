package controller

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"jejakliqo_backend/internals/constants"
	"jejakliqo_backend/internals/features/users/user/dto"
	uModel "jejakliqo_backend/internals/features/users/user/model"
	"jejakliqo_backend/internals/features/users/user/service"
	helper "jejakliqo_backend/internals/helpers"
	authHelper "jejakliqo_backend/internals/helpers/auth"
	"jejakliqo_backend/internals/helpers/storage"
)

// UserController melayani /api/admins dan /api/mentors; Role menentukan
// user mana yang boleh disentuh dan role apa yang dibuat.
type UserController struct {
	DB    *gorm.DB
	Store storage.Store
	Role  string
	Label string
}

func NewUserController(db *gorm.DB, store storage.Store, role, label string) *UserController {
	return &UserController{DB: db, Store: store, Role: role, Label: label}
}

func (uc *UserController) pictureURL(key string) string {
	return storage.URLOrEmpty(uc.Store, key)
}

func (uc *UserController) toResponses(c *fiber.Ctx, users []uModel.UserModel) ([]dto.UserResponse, error) {
	out := make([]dto.UserResponse, len(users))
	for i := range users {
		out[i] = dto.ToUserResponse(&users[i], uc.pictureURL)
	}
	if uc.Role != constants.RoleMentor || len(users) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}
	counts, err := service.CountGroupsByMentor(c.UserContext(), uc.DB, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		n := counts[out[i].ID]
		out[i].GroupsCount = &n
	}
	return out, nil
}

func (uc *UserController) toResponse(c *fiber.Ctx, u *uModel.UserModel) (dto.UserResponse, error) {
	list, err := uc.toResponses(c, []uModel.UserModel{*u})
	if err != nil {
		return dto.UserResponse{}, err
	}
	return list[0], nil
}

func (uc *UserController) list(c *fiber.Ctx, trashed helper.Trashed) error {
	p := helper.ResolvePaging(c, 15, 100)
	f := service.UserFilter{
		Role:    uc.Role,
		Search:  c.Query("search"),
		Gender:  c.Query("gender"),
		Status:  c.Query("status"),
		Blocked: helper.ParseBoolPtr(c.Query("blocked")),
		Trashed: trashed,
	}
	users, total, err := service.ListUsers(c.UserContext(), uc.DB, f, p)
	if err != nil {
		log.Printf("[ERROR] List %s gagal: %v", uc.Label, err)
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	data, err := uc.toResponses(c, users)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.SuccessWithMeta(c, "Daftar "+uc.Label+" berhasil diambil", data, helper.BuildMeta(total, p))
}

// GET /
func (uc *UserController) List(c *fiber.Ctx) error {
	return uc.list(c, helper.ParseTrashed(c.Query("trashed")))
}

// GET /trashed
func (uc *UserController) Trashed(c *fiber.Ctx) error {
	return uc.list(c, helper.TrashedOnly)
}

// GET /:id
func (uc *UserController) Detail(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	user, err := service.FindUser(c.UserContext(), uc.DB, id, uc.Role, true)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	resp, err := uc.toResponse(c, user)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, "Detail "+uc.Label+" berhasil diambil", resp)
}

// POST /
func (uc *UserController) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	req.Normalize()
	if err := helper.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	user, err := service.CreateUserWithProfile(c.UserContext(), uc.DB, uc.Role, req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return helper.FieldError(c, "email", err.Error())
		}
		return helper.FromFiberError(c, err)
	}
	resp, err := uc.toResponse(c, user)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, uc.Label+" berhasil dibuat", resp)
}

// PUT /:id
func (uc *UserController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	req.Normalize()
	if err := helper.Validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	user, err := service.UpdateUserWithProfile(c.UserContext(), uc.DB, id, uc.Role, req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return helper.FieldError(c, "email", err.Error())
		}
		return helper.FromFiberError(c, err)
	}
	resp, err := uc.toResponse(c, user)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, uc.Label+" berhasil diperbarui", resp)
}

// DELETE /:id
func (uc *UserController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	actorID, err := authHelper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := service.SoftDeleteUser(c.UserContext(), uc.DB, id, uc.Role, actorID, authHelper.IsSuperAdmin(c)); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, uc.Label+" berhasil dihapus", nil)
}

// POST /:id/restore
func (uc *UserController) Restore(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	user, err := service.RestoreUser(c.UserContext(), uc.DB, id, uc.Role)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	resp, err := uc.toResponse(c, user)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, uc.Label+" berhasil dipulihkan", resp)
}

// DELETE /:id/force
func (uc *UserController) ForceDelete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	actorID, err := authHelper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := service.ForceDeleteUser(c.UserContext(), uc.DB, uc.Store, id, uc.Role, actorID, authHelper.IsSuperAdmin(c)); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, uc.Label+" berhasil dihapus permanen", nil)
}

// POST /:id/block
func (uc *UserController) Block(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	actorID, err := authHelper.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	user, err := service.BlockUser(c.UserContext(), uc.DB, id, uc.Role, actorID, time.Now())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	resp, err := uc.toResponse(c, user)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	log.Printf("[INFO] %s %s diblokir oleh %s", uc.Label, id, actorID)
	return helper.Success(c, uc.Label+" berhasil diblokir", resp)
}

// POST /:id/unblock
func (uc *UserController) Unblock(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID tidak valid")
	}
	user, err := service.UnblockUser(c.UserContext(), uc.DB, id, uc.Role)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	resp, err := uc.toResponse(c, user)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.Success(c, uc.Label+" berhasil dibuka blokirnya", resp)
}
