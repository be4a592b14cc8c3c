package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"jejakliqo_backend/internals/constants"
	"jejakliqo_backend/internals/databases/testdb"
	groupModel "jejakliqo_backend/internals/features/liqo/groups/model"
	groupService "jejakliqo_backend/internals/features/liqo/groups/service"
	meetingModel "jejakliqo_backend/internals/features/liqo/meetings/model"
	"jejakliqo_backend/internals/features/liqo/mentees/dto"
	menteeModel "jejakliqo_backend/internals/features/liqo/mentees/model"
	helper "jejakliqo_backend/internals/helpers"
)

var actor = uuid.MustParse("11111111-1111-1111-1111-111111111111")

func newGroup(t *testing.T, db *gorm.DB, name string) uuid.UUID {
	t.Helper()
	g := groupModel.GroupModel{GroupName: name}
	require.NoError(t, db.Create(&g).Error)
	return g.ID
}

func fields(name, gender string) dto.MenteeFields {
	return dto.MenteeFields{FullName: name, Gender: gender, ActivityClass: "Kelas A"}
}

func histories(t *testing.T, db *gorm.DB, menteeID uuid.UUID) []groupModel.MenteeGroupHistoryModel {
	t.Helper()
	var rows []groupModel.MenteeGroupHistoryModel
	require.NoError(t, db.Where("mentee_id = ?", menteeID).Order("id").Find(&rows).Error)
	return rows
}

func TestCreateMentee_WithGroupWritesHistory(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	g := newGroup(t, db, "Liqo A")

	m, err := CreateMentee(ctx, db, CreateMenteeInput{Fields: fields("Ahmad", constants.GenderIkhwan), GroupID: &g}, actor)
	require.NoError(t, err)
	require.NotNil(t, m.GroupID)
	assert.Equal(t, g, *m.GroupID)
	assert.Equal(t, constants.MenteeStatusActive, m.Status)

	rows := histories(t, db, m.ID)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].FromGroupID)
	assert.Equal(t, g, *rows[0].ToGroupID)
	assert.Equal(t, actor, rows[0].MovedBy)

	plain, err := CreateMentee(ctx, db, CreateMenteeInput{Fields: fields("Bakri", constants.GenderIkhwan)}, actor)
	require.NoError(t, err)
	assert.Nil(t, plain.GroupID)
	assert.Empty(t, histories(t, db, plain.ID))
}

func TestCreateMentee_UnknownGroupRollsBack(t *testing.T) {
	db := testdb.New(t)
	missing := uuid.New()
	_, err := CreateMentee(context.Background(), db, CreateMenteeInput{Fields: fields("Ahmad", constants.GenderIkhwan), GroupID: &missing}, actor)
	assert.ErrorIs(t, err, groupService.ErrTargetGroupMissing)

	var n int64
	require.NoError(t, db.Unscoped().Model(&menteeModel.MenteeModel{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestUpdateMentee_GroupChangesGoThroughTracker(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	a := newGroup(t, db, "A")
	b := newGroup(t, db, "B")
	m, err := CreateMentee(ctx, db, CreateMenteeInput{Fields: fields("Ahmad", constants.GenderIkhwan), GroupID: &a}, actor)
	require.NoError(t, err)

	// group_id tidak dikirim: kelompok tetap, tidak ada riwayat baru
	got, err := UpdateMentee(ctx, db, m.ID, UpdateMenteeInput{Fields: fields("Ahmad Baru", constants.GenderIkhwan)}, actor)
	require.NoError(t, err)
	assert.Equal(t, "Ahmad Baru", got.FullName)
	assert.Equal(t, a, *got.GroupID)
	assert.Len(t, histories(t, db, m.ID), 1)

	got, err = UpdateMentee(ctx, db, m.ID, UpdateMenteeInput{Fields: fields("Ahmad Baru", constants.GenderIkhwan), GroupSet: true, GroupID: &b}, actor)
	require.NoError(t, err)
	assert.Equal(t, b, *got.GroupID)

	got, err = UpdateMentee(ctx, db, m.ID, UpdateMenteeInput{Fields: fields("Ahmad Baru", constants.GenderIkhwan), GroupSet: true}, actor)
	require.NoError(t, err)
	assert.Nil(t, got.GroupID)

	rows := histories(t, db, m.ID)
	require.Len(t, rows, 3)
	assert.Equal(t, a, *rows[1].FromGroupID)
	assert.Equal(t, b, *rows[1].ToGroupID)
	assert.Equal(t, b, *rows[2].FromGroupID)
	assert.Nil(t, rows[2].ToGroupID)
}

func TestDeleteRestoreForceDelete(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	g := newGroup(t, db, "A")
	m, err := CreateMentee(ctx, db, CreateMenteeInput{Fields: fields("Ahmad", constants.GenderIkhwan), GroupID: &g}, actor)
	require.NoError(t, err)

	require.NoError(t, DeleteMentee(ctx, db, m.ID, actor))
	_, err = FindMentee(ctx, db, m.ID, false)
	assert.ErrorIs(t, err, ErrMenteeNotFound)
	trashed, err := FindMentee(ctx, db, m.ID, true)
	require.NoError(t, err)
	assert.Nil(t, trashed.GroupID, "dilepas dari kelompok saat dihapus")
	rows := histories(t, db, m.ID)
	require.Len(t, rows, 2)
	assert.Nil(t, rows[1].ToGroupID)

	restored, err := RestoreMentee(ctx, db, m.ID)
	require.NoError(t, err)
	assert.False(t, restored.DeletedAt.Valid)
	_, err = RestoreMentee(ctx, db, m.ID)
	assert.ErrorIs(t, err, ErrMenteeNotTrashed)

	meeting := meetingModel.MeetingModel{GroupID: g, Topic: "Kajian", MeetingType: constants.MeetingTypeOnline}
	require.NoError(t, db.Create(&meeting).Error)
	require.NoError(t, db.Create(&meetingModel.AttendanceModel{MeetingID: meeting.ID, MenteeID: m.ID, Status: meetingModel.AttendanceAbsent}).Error)

	require.NoError(t, ForceDeleteMentee(ctx, db, m.ID, actor))
	var n int64
	require.NoError(t, db.Model(&meetingModel.AttendanceModel{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, db.Unscoped().Model(&menteeModel.MenteeModel{}).Count(&n).Error)
	assert.Zero(t, n)
	assert.Len(t, histories(t, db, m.ID), 2)
}

func TestMenteeFilter(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	g := newGroup(t, db, "A")
	mk := func(name, gender, status string, group *uuid.UUID) {
		f := fields(name, gender)
		f.Status = status
		_, err := CreateMentee(ctx, db, CreateMenteeInput{Fields: f, GroupID: group}, actor)
		require.NoError(t, err)
	}
	mk("Ahmad", constants.GenderIkhwan, constants.MenteeStatusActive, &g)
	mk("Aisyah", constants.GenderAkhwat, constants.MenteeStatusActive, nil)
	mk("Budi 100%", constants.GenderIkhwan, constants.MenteeStatusGraduated, nil)

	p := helper.Paging{Page: 1, PerPage: 10, Limit: 10}
	count := func(f MenteeFilter) int64 {
		_, total, err := ListMentees(ctx, db, f, p)
		require.NoError(t, err)
		return total
	}
	assert.EqualValues(t, 3, count(MenteeFilter{}))
	assert.EqualValues(t, 2, count(MenteeFilter{Search: "a"}))
	assert.EqualValues(t, 1, count(MenteeFilter{Search: "100%"}))
	assert.EqualValues(t, 1, count(MenteeFilter{Gender: constants.GenderAkhwat}))
	assert.EqualValues(t, 1, count(MenteeFilter{Status: constants.MenteeStatusGraduated}))
	assert.EqualValues(t, 1, count(MenteeFilter{GroupID: &g}))
	assert.EqualValues(t, 2, count(MenteeFilter{Unassigned: true}))
	assert.EqualValues(t, 0, count(MenteeFilter{GroupIDs: []uuid.UUID{}}))
	assert.EqualValues(t, 1, count(MenteeFilter{GroupIDs: []uuid.UUID{g}}))

	data, _, err := ListMentees(ctx, db, MenteeFilter{GroupID: &g}, p)
	require.NoError(t, err)
	require.NotNil(t, data[0].Group)
	assert.Equal(t, "A", data[0].Group.GroupName)

	stats, err := Stats(ctx, db)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.Total)
	assert.EqualValues(t, 1, stats.Assigned)
	assert.EqualValues(t, 2, stats.Unassigned)
	assert.EqualValues(t, 2, stats.ByStatus[constants.MenteeStatusActive])
	assert.EqualValues(t, 2, stats.ByGender[constants.GenderIkhwan])
}

func TestExportCSV(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	g := newGroup(t, db, "Liqo, Utama")
	f := fields("Ahmad", constants.GenderIkhwan)
	f.BirthDate = "2001-02-03"
	_, err := CreateMentee(ctx, db, CreateMenteeInput{Fields: f, GroupID: &g}, actor)
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := ExportCSV(ctx, db, MenteeFilter{}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, exportHeader, records[0])
	assert.Equal(t, "Ahmad", records[1][0])
	assert.Equal(t, "2001-02-03", records[1][3])
	assert.Equal(t, "Liqo, Utama", records[1][9])
}
