package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	groupDto "jejakliqo_backend/internals/features/liqo/groups/dto"
	groupModel "jejakliqo_backend/internals/features/liqo/groups/model"
	"jejakliqo_backend/internals/features/liqo/meetings/dto"
	meetingModel "jejakliqo_backend/internals/features/liqo/meetings/model"
	menteeModel "jejakliqo_backend/internals/features/liqo/mentees/model"
	userRepo "jejakliqo_backend/internals/features/users/user/repository"
	helper "jejakliqo_backend/internals/helpers"
)

// MeetingFilter: DateFrom/DateTo inklusif; GroupIDs non-nil membatasi ke
// kelompok tertentu (kosong = tidak ada hasil).
type MeetingFilter struct {
	Search   string
	GroupID  *uuid.UUID
	GroupIDs []uuid.UUID
	MentorID *uuid.UUID
	Type     string
	DateFrom *time.Time
	DateTo   *time.Time
	Trashed  helper.Trashed
}

func (f MeetingFilter) Apply(db *gorm.DB) *gorm.DB {
	q := f.Trashed.Scope(db.Model(&meetingModel.MeetingModel{}), "meetings")
	q = helper.SearchWhere(q, f.Search, "meetings.topic", "meetings.place")
	if f.GroupID != nil {
		q = q.Where("meetings.group_id = ?", *f.GroupID)
	}
	if f.GroupIDs != nil {
		if len(f.GroupIDs) == 0 {
			q = q.Where("1 = 0")
		} else {
			q = q.Where("meetings.group_id IN ?", f.GroupIDs)
		}
	}
	if f.MentorID != nil {
		q = q.Where("meetings.mentor_id = ?", *f.MentorID)
	}
	if f.Type != "" {
		q = q.Where("meetings.meeting_type = ?", f.Type)
	}
	if f.DateFrom != nil {
		q = q.Where("meetings.meeting_date >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("meetings.meeting_date <= ?", *f.DateTo)
	}
	return q
}

// Presenter menentukan kosakata status kehadiran dan URL foto di response.
type Presenter struct {
	Codec    meetingModel.StatusCodec
	PhotoURL func(key string) string
}

func (p Presenter) photoURL(key string) string {
	if p.PhotoURL == nil {
		return key
	}
	return p.PhotoURL(key)
}

// ListMeetings: terbaru dulu (meeting_date desc), tanpa daftar kehadiran lengkap.
func ListMeetings(ctx context.Context, db *gorm.DB, f MeetingFilter, p helper.Paging, pr Presenter) ([]dto.MeetingResponse, int64, error) {
	q := f.Apply(db.WithContext(ctx))

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []meetingModel.MeetingModel
	if err := q.Order("meetings.meeting_date DESC").Order("meetings.created_at DESC").
		Offset(p.Offset).Limit(p.Limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out, err := buildMeetingResponses(db.WithContext(ctx), rows, pr, false)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// GetMeetingDetail termasuk daftar kehadiran (nama mentee ikut walau mentee sudah dihapus).
func GetMeetingDetail(ctx context.Context, db *gorm.DB, meetingID uuid.UUID, scope Scope, withTrashed bool, pr Presenter) (*dto.MeetingResponse, error) {
	tx := db.WithContext(ctx)
	m, err := findMeeting(tx, meetingID, scope, withTrashed)
	if err != nil {
		return nil, err
	}
	out, err := buildMeetingResponses(tx, []meetingModel.MeetingModel{*m}, pr, true)
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func buildMeetingResponses(db *gorm.DB, rows []meetingModel.MeetingModel, pr Presenter, withAttendances bool) ([]dto.MeetingResponse, error) {
	out := make([]dto.MeetingResponse, len(rows))
	if len(rows) == 0 {
		return out, nil
	}

	meetingIDs := make([]uuid.UUID, len(rows))
	groupIDs := make([]uuid.UUID, 0, len(rows))
	mentorIDs := make([]uuid.UUID, 0, len(rows))
	for i, m := range rows {
		meetingIDs[i] = m.ID
		groupIDs = append(groupIDs, m.GroupID)
		if m.MentorID != nil {
			mentorIDs = append(mentorIDs, *m.MentorID)
		}
	}

	var groups []groupModel.GroupModel
	if err := db.Unscoped().Select("id", "group_name").Where("id IN ?", groupIDs).Find(&groups).Error; err != nil {
		return nil, err
	}
	groupRefs := make(map[uuid.UUID]groupDto.GroupRef, len(groups))
	for _, g := range groups {
		groupRefs[g.ID] = groupDto.GroupRef{ID: g.ID, GroupName: g.GroupName}
	}
	mentors, err := userRepo.LoadBriefs(db, mentorIDs)
	if err != nil {
		return nil, err
	}

	var atts []meetingModel.AttendanceModel
	if err := db.Where("meeting_id IN ?", meetingIDs).Order("created_at ASC").Find(&atts).Error; err != nil {
		return nil, err
	}
	names := map[uuid.UUID]string{}
	if withAttendances && len(atts) > 0 {
		ids := make([]uuid.UUID, 0, len(atts))
		for _, a := range atts {
			ids = append(ids, a.MenteeID)
		}
		var mentees []menteeModel.MenteeModel
		if err := db.Unscoped().Select("id", "full_name").Where("id IN ?", ids).Find(&mentees).Error; err != nil {
			return nil, err
		}
		for _, m := range mentees {
			names[m.ID] = m.FullName
		}
	}
	byMeeting := make(map[uuid.UUID][]meetingModel.AttendanceModel, len(rows))
	for _, a := range atts {
		byMeeting[a.MeetingID] = append(byMeeting[a.MeetingID], a)
	}

	for i := range rows {
		m := &rows[i]
		resp := dto.MeetingResponse{
			ID:                m.ID,
			GroupID:           m.GroupID,
			MentorID:          m.MentorID,
			Mentor:            userRepo.BriefPtr(mentors, m.MentorID),
			Topic:             m.Topic,
			MeetingDate:       m.MeetingDate,
			MeetingType:       m.MeetingType,
			Place:             m.Place,
			Notes:             m.Notes,
			Photos:            []string{},
			AttendanceSummary: summarize(byMeeting[m.ID], pr.Codec),
			CreatedAt:         m.CreatedAt,
			UpdatedAt:         m.UpdatedAt,
		}
		if g, ok := groupRefs[m.GroupID]; ok {
			resp.Group = &g
		}
		for _, key := range m.PhotoKeys() {
			resp.Photos = append(resp.Photos, pr.photoURL(key))
		}
		if m.DeletedAt.Valid {
			t := m.DeletedAt.Time
			resp.DeletedAt = &t
		}
		if withAttendances {
			resp.Attendances = make([]dto.AttendanceResponse, 0, len(byMeeting[m.ID]))
			for _, a := range byMeeting[m.ID] {
				resp.Attendances = append(resp.Attendances, dto.AttendanceResponse{
					MenteeID:   a.MenteeID,
					MenteeName: names[a.MenteeID],
					Status:     pr.Codec.Encode(a.Status),
					Notes:      a.Notes,
				})
			}
		}
		out[i] = resp
	}
	return out, nil
}

// summarize: semua status selalu muncul (0 kalau tidak ada).
func summarize(atts []meetingModel.AttendanceModel, codec meetingModel.StatusCodec) map[string]int {
	out := make(map[string]int, len(meetingModel.AttendanceStatuses))
	for _, s := range meetingModel.AttendanceStatuses {
		out[codec.Encode(s)] = 0
	}
	for _, a := range atts {
		out[codec.Encode(a.Status)]++
	}
	return out
}
