package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	groupModel "jejakliqo_backend/internals/features/liqo/groups/model"
	uModel "jejakliqo_backend/internals/features/users/user/model"
	helper "jejakliqo_backend/internals/helpers"
)

// UserFilter = query list admin/mentor (?search=&gender=&status=&blocked=&trashed=).
type UserFilter struct {
	Role    string
	Search  string
	Gender  string
	Status  string
	Blocked *bool
	Trashed helper.Trashed
}

func (f UserFilter) Apply(db *gorm.DB) *gorm.DB {
	q := f.Trashed.Scope(db.Model(&uModel.UserModel{}), "users").
		Joins("LEFT JOIN profiles ON profiles.user_id = users.id").
		Where("users.role = ?", f.Role)
	q = helper.SearchWhere(q, f.Search, "users.email", "profiles.full_name", "profiles.nickname")
	if f.Gender != "" {
		q = q.Where("profiles.gender = ?", f.Gender)
	}
	if f.Status != "" {
		q = q.Where("profiles.status = ?", f.Status)
	}
	if f.Blocked != nil {
		if *f.Blocked {
			q = q.Where("users.blocked_at IS NOT NULL")
		} else {
			q = q.Where("users.blocked_at IS NULL")
		}
	}
	return q
}

func ListUsers(ctx context.Context, db *gorm.DB, f UserFilter, p helper.Paging) ([]uModel.UserModel, int64, error) {
	var total int64
	if err := f.Apply(db.WithContext(ctx)).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []uModel.UserModel
	err := f.Apply(db.WithContext(ctx)).
		Select("users.*").
		Preload("Profile").
		Order("profiles.full_name ASC, users.created_at DESC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// CountGroupsByMentor: jumlah kelompok aktif per mentor.
func CountGroupsByMentor(ctx context.Context, db *gorm.DB, mentorIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(mentorIDs))
	if len(mentorIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		MentorID uuid.UUID
		Total    int64
	}
	err := db.WithContext(ctx).Model(&groupModel.GroupModel{}).
		Select("mentor_id, COUNT(*) AS total").
		Where("mentor_id IN ?", mentorIDs).
		Group("mentor_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.MentorID] = r.Total
	}
	return out, nil
}
