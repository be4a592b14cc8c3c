package service

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	groupDto "jejakliqo_backend/internals/features/liqo/groups/dto"
	groupModel "jejakliqo_backend/internals/features/liqo/groups/model"
	"jejakliqo_backend/internals/features/liqo/mentees/dto"
	menteeModel "jejakliqo_backend/internals/features/liqo/mentees/model"
	helper "jejakliqo_backend/internals/helpers"
	"jejakliqo_backend/internals/helpers/dbtime"
)

// MenteeFilter = query list mentee. GroupIDs dipakai untuk membatasi ke
// kelompok milik mentor (slice kosong non-nil → tidak ada hasil).
type MenteeFilter struct {
	Search        string
	Gender        string
	Status        string
	ActivityClass string
	GroupID       *uuid.UUID
	GroupIDs      []uuid.UUID
	Unassigned    bool
	Trashed       helper.Trashed
}

func (f MenteeFilter) Apply(db *gorm.DB) *gorm.DB {
	q := f.Trashed.Scope(db.Model(&menteeModel.MenteeModel{}), "mentees")
	q = helper.SearchWhere(q, f.Search, "mentees.full_name", "mentees.nickname", "mentees.phone_number")
	if f.Gender != "" {
		q = q.Where("mentees.gender = ?", f.Gender)
	}
	if f.Status != "" {
		q = q.Where("mentees.status = ?", f.Status)
	}
	if f.ActivityClass != "" {
		q = q.Where("mentees.activity_class = ?", f.ActivityClass)
	}
	if f.GroupID != nil {
		q = q.Where("mentees.group_id = ?", *f.GroupID)
	}
	if f.GroupIDs != nil {
		if len(f.GroupIDs) == 0 {
			q = q.Where("1 = 0")
		} else {
			q = q.Where("mentees.group_id IN ?", f.GroupIDs)
		}
	}
	if f.Unassigned {
		q = q.Where("mentees.group_id IS NULL")
	}
	return q
}

func ListMentees(ctx context.Context, db *gorm.DB, f MenteeFilter, p helper.Paging) ([]dto.MenteeResponse, int64, error) {
	var total int64
	if err := f.Apply(db.WithContext(ctx)).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var mentees []menteeModel.MenteeModel
	if err := f.Apply(db.WithContext(ctx)).
		Order("mentees.full_name ASC").
		Offset(p.Offset).Limit(p.Limit).
		Find(&mentees).Error; err != nil {
		return nil, 0, err
	}
	out, err := ToResponses(db.WithContext(ctx), mentees)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ToResponses melengkapi mentee dengan nama kelompoknya.
func ToResponses(db *gorm.DB, mentees []menteeModel.MenteeModel) ([]dto.MenteeResponse, error) {
	groups, err := groupRefs(db, mentees)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MenteeResponse, len(mentees))
	for i := range mentees {
		var ref *groupDto.GroupRef
		if gid := mentees[i].GroupID; gid != nil {
			if g, ok := groups[*gid]; ok {
				ref = &g
			}
		}
		out[i] = dto.ToMenteeResponse(&mentees[i], ref)
	}
	return out, nil
}

func groupRefs(db *gorm.DB, mentees []menteeModel.MenteeModel) (map[uuid.UUID]groupDto.GroupRef, error) {
	out := map[uuid.UUID]groupDto.GroupRef{}
	var ids []uuid.UUID
	for _, m := range mentees {
		if m.GroupID != nil {
			ids = append(ids, *m.GroupID)
		}
	}
	if len(ids) == 0 {
		return out, nil
	}
	var gs []groupModel.GroupModel
	if err := db.Unscoped().Select("id", "group_name").Where("id IN ?", ids).Find(&gs).Error; err != nil {
		return nil, err
	}
	for _, g := range gs {
		out[g.ID] = groupDto.GroupRef{ID: g.ID, GroupName: g.GroupName}
	}
	return out, nil
}

// Stats menghitung mentee aktif (bukan di tempat sampah).
func Stats(ctx context.Context, db *gorm.DB) (dto.MenteeStats, error) {
	out := dto.MenteeStats{ByStatus: map[string]int64{}, ByGender: map[string]int64{}}
	base := func() *gorm.DB { return db.WithContext(ctx).Model(&menteeModel.MenteeModel{}) }

	if err := base().Count(&out.Total).Error; err != nil {
		return out, err
	}
	if err := base().Where("group_id IS NOT NULL").Count(&out.Assigned).Error; err != nil {
		return out, err
	}
	out.Unassigned = out.Total - out.Assigned

	var rows []struct {
		Label string
		Total int64
	}
	if err := base().Select("status AS label, COUNT(*) AS total").Group("status").Scan(&rows).Error; err != nil {
		return out, err
	}
	for _, r := range rows {
		out.ByStatus[r.Label] = r.Total
	}
	rows = nil
	if err := base().Select("gender AS label, COUNT(*) AS total").Group("gender").Scan(&rows).Error; err != nil {
		return out, err
	}
	for _, r := range rows {
		out.ByGender[r.Label] = r.Total
	}
	return out, nil
}

var exportHeader = []string{
	"Nama Lengkap", "Panggilan", "Gender", "Tanggal Lahir", "No. HP",
	"Kelas", "Hobi", "Alamat", "Status", "Kelompok",
}

// ExportCSV menulis semua mentee yang cocok filter (tanpa paging).
func ExportCSV(ctx context.Context, db *gorm.DB, f MenteeFilter, w io.Writer) (int, error) {
	var mentees []menteeModel.MenteeModel
	if err := f.Apply(db.WithContext(ctx)).Order("mentees.full_name ASC").Find(&mentees).Error; err != nil {
		return 0, err
	}
	groups, err := groupRefs(db.WithContext(ctx), mentees)
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return 0, err
	}
	for _, m := range mentees {
		groupName := ""
		if m.GroupID != nil {
			groupName = groups[*m.GroupID].GroupName
		}
		record := []string{
			m.FullName, m.Nickname, m.Gender, dbtime.FormatDate(m.BirthDate), m.PhoneNumber,
			m.ActivityClass, m.Hobby, strings.ReplaceAll(m.Address, "\n", " "), m.Status, groupName,
		}
		if err := cw.Write(record); err != nil {
			return 0, err
		}
	}
	cw.Flush()
	return len(mentees), cw.Error()
}
