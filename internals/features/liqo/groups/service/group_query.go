package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jejakliqo_backend/internals/features/liqo/groups/dto"
	groupModel "jejakliqo_backend/internals/features/liqo/groups/model"
	menteeModel "jejakliqo_backend/internals/features/liqo/mentees/model"
	userRepo "jejakliqo_backend/internals/features/users/user/repository"
	helper "jejakliqo_backend/internals/helpers"
)

// GroupFilter = query list kelompok (?search=&mentor_id=&trashed=).
type GroupFilter struct {
	Search   string
	MentorID *uuid.UUID
	// NoMentor: hanya kelompok tanpa mentor
	NoMentor bool
	Trashed  helper.Trashed
}

func (f GroupFilter) Apply(db *gorm.DB) *gorm.DB {
	q := f.Trashed.Scope(db.Model(&groupModel.GroupModel{}), "liqo_groups")
	q = helper.SearchWhere(q, f.Search, "liqo_groups.group_name", "liqo_groups.description")
	if f.MentorID != nil {
		q = q.Where("liqo_groups.mentor_id = ?", *f.MentorID)
	}
	if f.NoMentor {
		q = q.Where("liqo_groups.mentor_id IS NULL")
	}
	return q
}

func ListGroups(ctx context.Context, db *gorm.DB, f GroupFilter, p helper.Paging) ([]dto.GroupResponse, int64, error) {
	var total int64
	if err := f.Apply(db.WithContext(ctx)).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var groups []groupModel.GroupModel
	if err := f.Apply(db.WithContext(ctx)).
		Order("liqo_groups.group_name ASC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&groups).Error; err != nil {
		return nil, 0, err
	}
	out, err := buildGroupResponses(db.WithContext(ctx), groups)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// GetGroupDetail: kelompok + mentor + daftar mentee aktif.
// mentorID non-nil membatasi ke kelompok milik mentor tsb.
func GetGroupDetail(ctx context.Context, db *gorm.DB, groupID uuid.UUID, mentorID *uuid.UUID, withTrashed bool) (*dto.GroupResponse, error) {
	q := db.WithContext(ctx).Where("id = ?", groupID)
	if withTrashed {
		q = q.Unscoped()
	}
	if mentorID != nil {
		q = q.Where("mentor_id = ?", *mentorID)
	}
	var g groupModel.GroupModel
	if err := q.First(&g).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}
	list, err := buildGroupResponses(db.WithContext(ctx), []groupModel.GroupModel{g})
	if err != nil {
		return nil, err
	}
	resp := list[0]

	var mentees []menteeModel.MenteeModel
	if err := db.WithContext(ctx).Where("group_id = ?", g.ID).Order("full_name ASC").Find(&mentees).Error; err != nil {
		return nil, err
	}
	resp.Mentees = make([]dto.GroupMentee, len(mentees))
	for i, m := range mentees {
		resp.Mentees[i] = dto.GroupMentee{
			ID:            m.ID,
			FullName:      m.FullName,
			Nickname:      m.Nickname,
			Gender:        m.Gender,
			ActivityClass: m.ActivityClass,
			Status:        m.Status,
		}
	}
	return &resp, nil
}

// CountMenteesByGroup: jumlah mentee aktif per kelompok.
func CountMenteesByGroup(db *gorm.DB, groupIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(groupIDs))
	if len(groupIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		GroupID uuid.UUID
		Total   int64
	}
	if err := db.Model(&menteeModel.MenteeModel{}).
		Select("group_id, COUNT(*) AS total").
		Where("group_id IN ?", groupIDs).
		Group("group_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.GroupID] = r.Total
	}
	return out, nil
}

// GroupMentorHistories: terbaru dulu.
func GroupMentorHistories(ctx context.Context, db *gorm.DB, groupID uuid.UUID) ([]dto.MentorHistoryResponse, error) {
	if err := ensureGroupExists(db.WithContext(ctx), groupID); err != nil {
		return nil, err
	}
	var rows []groupModel.GroupMentorHistoryModel
	if err := db.WithContext(ctx).Where("group_id = ?", groupID).Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	var ids []uuid.UUID
	for _, r := range rows {
		ids = append(ids, r.ChangedBy)
		if r.FromMentorID != nil {
			ids = append(ids, *r.FromMentorID)
		}
		if r.ToMentorID != nil {
			ids = append(ids, *r.ToMentorID)
		}
	}
	briefs, err := userRepo.LoadBriefs(db.WithContext(ctx), ids)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MentorHistoryResponse, len(rows))
	for i, r := range rows {
		changedBy := r.ChangedBy
		out[i] = dto.MentorHistoryResponse{
			ID:         r.ID,
			GroupID:    r.GroupID,
			FromMentor: userRepo.BriefPtr(briefs, r.FromMentorID),
			ToMentor:   userRepo.BriefPtr(briefs, r.ToMentorID),
			ChangedBy:  userRepo.BriefPtr(briefs, &changedBy),
			CreatedAt:  r.CreatedAt,
		}
	}
	return out, nil
}

// GroupMenteeHistories: perpindahan mentee masuk/keluar kelompok ini.
func GroupMenteeHistories(ctx context.Context, db *gorm.DB, groupID uuid.UUID) ([]dto.MenteeHistoryResponse, error) {
	if err := ensureGroupExists(db.WithContext(ctx), groupID); err != nil {
		return nil, err
	}
	var rows []groupModel.MenteeGroupHistoryModel
	if err := db.WithContext(ctx).
		Where("from_group_id = ? OR to_group_id = ?", groupID, groupID).
		Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return BuildMenteeHistories(db.WithContext(ctx), rows)
}

// MenteeHistories: seluruh riwayat kelompok satu mentee.
func MenteeHistories(ctx context.Context, db *gorm.DB, menteeID uuid.UUID) ([]dto.MenteeHistoryResponse, error) {
	var rows []groupModel.MenteeGroupHistoryModel
	if err := db.WithContext(ctx).Where("mentee_id = ?", menteeID).Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return BuildMenteeHistories(db.WithContext(ctx), rows)
}

// BuildMenteeHistories melengkapi baris riwayat dengan nama mentee, kelompok, dan pelaku.
// Kelompok/mentee di tempat sampah tetap ditampilkan.
func BuildMenteeHistories(db *gorm.DB, rows []groupModel.MenteeGroupHistoryModel) ([]dto.MenteeHistoryResponse, error) {
	out := make([]dto.MenteeHistoryResponse, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	var (
		menteeIDs []uuid.UUID
		groupIDs  []uuid.UUID
		actorIDs  []uuid.UUID
	)
	for _, r := range rows {
		menteeIDs = append(menteeIDs, r.MenteeID)
		actorIDs = append(actorIDs, r.MovedBy)
		if r.FromGroupID != nil {
			groupIDs = append(groupIDs, *r.FromGroupID)
		}
		if r.ToGroupID != nil {
			groupIDs = append(groupIDs, *r.ToGroupID)
		}
	}

	var mentees []menteeModel.MenteeModel
	if err := db.Unscoped().Select("id", "full_name").Where("id IN ?", menteeIDs).Find(&mentees).Error; err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(mentees))
	for _, m := range mentees {
		names[m.ID] = m.FullName
	}

	groups := map[uuid.UUID]dto.GroupRef{}
	if len(groupIDs) > 0 {
		var gs []groupModel.GroupModel
		if err := db.Unscoped().Select("id", "group_name").Where("id IN ?", groupIDs).Find(&gs).Error; err != nil {
			return nil, err
		}
		for _, g := range gs {
			groups[g.ID] = dto.GroupRef{ID: g.ID, GroupName: g.GroupName}
		}
	}

	briefs, err := userRepo.LoadBriefs(db, actorIDs)
	if err != nil {
		return nil, err
	}

	ref := func(id *uuid.UUID) *dto.GroupRef {
		if id == nil {
			return nil
		}
		if g, ok := groups[*id]; ok {
			return &g
		}
		// kelompok sudah dihapus permanen
		return &dto.GroupRef{ID: *id}
	}
	for i, r := range rows {
		movedBy := r.MovedBy
		out[i] = dto.MenteeHistoryResponse{
			ID:         r.ID,
			MenteeID:   r.MenteeID,
			MenteeName: names[r.MenteeID],
			FromGroup:  ref(r.FromGroupID),
			ToGroup:    ref(r.ToGroupID),
			MovedBy:    userRepo.BriefPtr(briefs, &movedBy),
			CreatedAt:  r.CreatedAt,
		}
	}
	return out, nil
}

func buildGroupResponses(db *gorm.DB, groups []groupModel.GroupModel) ([]dto.GroupResponse, error) {
	out := make([]dto.GroupResponse, len(groups))
	if len(groups) == 0 {
		return out, nil
	}
	var groupIDs, mentorIDs []uuid.UUID
	for _, g := range groups {
		groupIDs = append(groupIDs, g.ID)
		if g.MentorID != nil {
			mentorIDs = append(mentorIDs, *g.MentorID)
		}
	}
	counts, err := CountMenteesByGroup(db, groupIDs)
	if err != nil {
		return nil, err
	}
	briefs, err := userRepo.LoadBriefs(db, mentorIDs)
	if err != nil {
		return nil, err
	}
	for i := range groups {
		out[i] = dto.ToGroupResponse(&groups[i], userRepo.BriefPtr(briefs, groups[i].MentorID), counts[groups[i].ID])
	}
	return out, nil
}

func ensureGroupExists(db *gorm.DB, groupID uuid.UUID) error {
	var n int64
	if err := db.Unscoped().Model(&groupModel.GroupModel{}).Where("id = ?", groupID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrGroupNotFound
	}
	return nil
}

// OwnedGroupIDs: kelompok aktif milik mentor. Selalu non-nil.
func OwnedGroupIDs(ctx context.Context, db *gorm.DB, mentorID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	err := db.WithContext(ctx).Model(&groupModel.GroupModel{}).
		Where("mentor_id = ?", mentorID).
		Pluck("id", &ids).Error
	return ids, err
}
