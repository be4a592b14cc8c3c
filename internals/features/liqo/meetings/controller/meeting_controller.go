package controller

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	groupService "jejakliqo_backend/internals/features/liqo/groups/service"
	"jejakliqo_backend/internals/features/liqo/meetings/dto"
	meetingModel "jejakliqo_backend/internals/features/liqo/meetings/model"
	"jejakliqo_backend/internals/features/liqo/meetings/service"
	helper "jejakliqo_backend/internals/helpers"
	authHelper "jejakliqo_backend/internals/helpers/auth"
	"jejakliqo_backend/internals/helpers/dbtime"
	"jejakliqo_backend/internals/helpers/storage"
)

// MeetingController melayani panel admin dan panel mentor.
// Panel mentor: hanya kelompok milik mentor + kosakata kehadiran mentor.
type MeetingController struct {
	DB         *gorm.DB
	Store      storage.Store
	Codec      meetingModel.StatusCodec
	MentorOnly bool
}

func NewMeetingController(db *gorm.DB, store storage.Store) *MeetingController {
	return &MeetingController{DB: db, Store: store, Codec: meetingModel.AdminCodec}
}

func NewMentorMeetingController(db *gorm.DB, store storage.Store) *MeetingController {
	return &MeetingController{DB: db, Store: store, Codec: meetingModel.MentorCodec, MentorOnly: true}
}

func (mc *MeetingController) presenter() service.Presenter {
	return service.Presenter{
		Codec:    mc.Codec,
		PhotoURL: func(key string) string { return storage.URLOrEmpty(mc.Store, key) },
	}
}

func (mc *MeetingController) scope(c *fiber.Ctx) (service.Scope, error) {
	if !mc.MentorOnly {
		return service.AdminScope(), nil
	}
	mentorID, err := authHelper.GetUserIDFromToken(c)
	if err != nil {
		return service.Scope{}, err
	}
	return service.MentorScope(mentorID), nil
}

// toInput memvalidasi body lalu menerjemahkan status kehadiran ke nilai kanonik.
// Return (input, handled): handled=true berarti response error sudah ditulis.
func (mc *MeetingController) toInput(c *fiber.Ctx) (service.MeetingInput, bool, error) {
	var req dto.MeetingRequest
	if err := c.BodyParser(&req); err != nil {
		return service.MeetingInput{}, true, helper.Error(c, fiber.StatusBadRequest, "Format request tidak valid")
	}
	req.Normalize()
	if err := helper.Validate.Struct(req); err != nil {
		return service.MeetingInput{}, true, helper.ValidationError(c, err)
	}
	date, err := dbtime.ParseDate(req.MeetingDate, dbtime.AppLocation())
	if err != nil {
		return service.MeetingInput{}, true, helper.FieldError(c, "meeting_date", err.Error())
	}
	groupID, _ := uuid.Parse(req.GroupID)

	in := service.MeetingInput{
		GroupID:     groupID,
		Topic:       req.Topic,
		MeetingDate: date,
		MeetingType: req.MeetingType,
		Place:       req.Place,
		Notes:       req.Notes,
	}
	for i, a := range req.Attendances {
		status, err := mc.Codec.Decode(a.Status)
		if err != nil {
			field := fmt.Sprintf("attendances.%d.status", i)
			return service.MeetingInput{}, true, helper.FieldError(c, field,
				fmt.Sprintf("status harus salah satu dari: %v", mc.Codec.Labels()))
		}
		menteeID, _ := uuid.Parse(a.MenteeID)
		in.Attendances = append(in.Attendances, service.AttendanceEntry{
			MenteeID: menteeID,
			Status:   status,
			Notes:    a.Notes,
		})
	}
	return in, false, nil
}

func (mc *MeetingController) list(c *fiber.Ctx, trashed helper.Trashed) error {
	groupID, err := helper.ParseUUIDPtr(c.Query("group_id"))
	if err != nil {
		return helper.FieldError(c, "group_id", "group_id tidak valid")
	}
	f := service.MeetingFilter{
		Search:  c.Query("search"),
		GroupID: groupID,
		Type:    c.Query("meeting_type"),
		Trashed: trashed,
	}
	if f.DateFrom, err = dbtime.ParseDatePtr(c.Query("date_from"), dbtime.AppLocation()); err != nil {
		return helper.FieldError(c, "date_from", err.Error())
	}
	to, err := dbtime.ParseDatePtr(c.Query("date_to"), dbtime.AppLocation())
	if err != nil {
		return helper.FieldError(c, "date_to", err.Error())
	}
	if to != nil {
		end := dbtime.EndOfDay(*to)
		f.DateTo = &end
	}

	if mc.MentorOnly {
		mentorID, err := authHelper.GetUserIDFromToken(c)
		if err != nil {
			return helper.FromFiberError(c, err)
		}
		owned, err := groupService.OwnedGroupIDs(c.UserContext(), mc.DB, mentorID)
		if err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, err.Error())
		}
		f.GroupIDs = owned
	} else if f.MentorID, err = helper.ParseUUIDPtr(c.Query("mentor_id")); err != nil {
		return helper.FieldError(c, "mentor_id", "mentor_id tidak valid")
	}

	p := helper.ResolvePaging(c, 15, 100)
	data, total, err := service.ListMeetings(c.UserContext(), mc.DB, f, p, mc.presenter())
	if err != nil {
		log.Printf("[ERROR] List pertemuan gagal: %v", err)
		return helper.Error(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.SuccessWithMeta(c, "Daftar pertemuan berhasil diambil", data, helper.BuildMeta(total, p))
}

// GET /api/meetings, /api/mentor/meetings
func (mc *MeetingController) List(c *fiber.Ctx) error {
	if mc.MentorOnly {
		return mc.list(c, helper.TrashedNone)
	}
	return mc.list(c, helper.ParseTrashed(c.Query("trashed")))
}

// GET /api/meetings/trashed
func (mc *MeetingController) Trashed(c *fiber.Ctx) error {
	return mc.list(c, helper.TrashedOnly)
}

// GET /api/meetings/:id
func (mc *MeetingController) Detail(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID pertemuan tidak valid")
	}
	scope, err := mc.scope(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	resp, err := service.GetMeetingDetail(c.UserContext(), mc.DB, id, scope, !mc.MentorOnly, mc.presenter())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Detail pertemuan berhasil diambil", resp)
}

// POST /api/meetings
func (mc *MeetingController) Create(c *fiber.Ctx) error {
	scope, err := mc.scope(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	in, handled, herr := mc.toInput(c)
	if handled {
		return herr
	}
	m, err := service.CreateMeeting(c.UserContext(), mc.DB, in, scope)
	if err != nil {
		return mc.serviceError(c, err)
	}
	resp, err := service.GetMeetingDetail(c.UserContext(), mc.DB, m.ID, service.AdminScope(), false, mc.presenter())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Pertemuan berhasil dibuat", resp)
}

// PUT /api/meetings/:id
func (mc *MeetingController) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID pertemuan tidak valid")
	}
	scope, err := mc.scope(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	in, handled, herr := mc.toInput(c)
	if handled {
		return herr
	}
	if _, err := service.UpdateMeeting(c.UserContext(), mc.DB, id, in, scope); err != nil {
		return mc.serviceError(c, err)
	}
	resp, err := service.GetMeetingDetail(c.UserContext(), mc.DB, id, service.AdminScope(), false, mc.presenter())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Pertemuan berhasil diperbarui", resp)
}

// DELETE /api/meetings/:id
func (mc *MeetingController) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID pertemuan tidak valid")
	}
	scope, err := mc.scope(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if err := service.DeleteMeeting(c.UserContext(), mc.DB, id, scope); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Pertemuan berhasil dihapus", nil)
}

// POST /api/meetings/:id/restore
func (mc *MeetingController) Restore(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID pertemuan tidak valid")
	}
	if _, err := service.RestoreMeeting(c.UserContext(), mc.DB, id); err != nil {
		return helper.FromFiberError(c, err)
	}
	resp, err := service.GetMeetingDetail(c.UserContext(), mc.DB, id, service.AdminScope(), false, mc.presenter())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Pertemuan berhasil dipulihkan", resp)
}

// DELETE /api/meetings/:id/force
func (mc *MeetingController) ForceDelete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID pertemuan tidak valid")
	}
	if err := service.ForceDeleteMeeting(c.UserContext(), mc.DB, mc.Store, id); err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Pertemuan berhasil dihapus permanen", nil)
}

// POST /api/meetings/:id/photos (multipart, field "photos", boleh banyak)
func (mc *MeetingController) AddPhotos(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID pertemuan tidak valid")
	}
	scope, err := mc.scope(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	form, err := c.MultipartForm()
	if err != nil || len(form.File["photos"]) == 0 {
		return helper.FieldError(c, "photos", "Minimal satu foto wajib diunggah")
	}
	if _, err := service.AddPhotos(c.UserContext(), mc.DB, mc.Store, id, form.File["photos"], scope); err != nil {
		return helper.FromFiberError(c, err)
	}
	resp, err := service.GetMeetingDetail(c.UserContext(), mc.DB, id, service.AdminScope(), false, mc.presenter())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Foto pertemuan berhasil diunggah", resp)
}

// DELETE /api/meetings/:id/photos?key=
func (mc *MeetingController) RemovePhoto(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "ID pertemuan tidak valid")
	}
	key := c.Query("key")
	if key == "" {
		return helper.FieldError(c, "key", "key wajib diisi")
	}
	scope, err := mc.scope(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	if _, err := service.RemovePhoto(c.UserContext(), mc.DB, mc.Store, id, key, scope); err != nil {
		return helper.FromFiberError(c, err)
	}
	resp, err := service.GetMeetingDetail(c.UserContext(), mc.DB, id, service.AdminScope(), false, mc.presenter())
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Foto pertemuan berhasil dihapus", resp)
}

// serviceError: kelompok tak tersedia (termasuk milik mentor lain) → 422 di field group_id.
func (mc *MeetingController) serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrGroupNotAvailable):
		return helper.FieldError(c, "group_id", err.Error())
	case errors.Is(err, service.ErrAttendanceMentee), errors.Is(err, service.ErrAttendanceDuplicate):
		return helper.FieldError(c, "attendances", err.Error())
	}
	return helper.FromFiberError(c, err)
}
