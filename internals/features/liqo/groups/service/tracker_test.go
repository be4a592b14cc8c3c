package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"jejakliqo_backend/internals/constants"
	"jejakliqo_backend/internals/databases/testdb"
	groupModel "jejakliqo_backend/internals/features/liqo/groups/model"
	meetingModel "jejakliqo_backend/internals/features/liqo/meetings/model"
	menteeModel "jejakliqo_backend/internals/features/liqo/mentees/model"
	userModel "jejakliqo_backend/internals/features/users/user/model"
)

type fixture struct {
	t     *testing.T
	db    *gorm.DB
	ctx   context.Context
	admin uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{t: t, db: testdb.New(t), ctx: context.Background()}
	f.admin = f.user(constants.RoleAdmin, "admin@liqo.id")
	return f
}

func (f *fixture) user(role, email string) uuid.UUID {
	f.t.Helper()
	u := userModel.UserModel{Role: role, Email: email, Password: "x"}
	require.NoError(f.t, f.db.Create(&u).Error)
	require.NoError(f.t, f.db.Create(&userModel.ProfileModel{UserID: u.ID, FullName: "Ustadz " + email}).Error)
	return u.ID
}

func (f *fixture) group(name string, mentor *uuid.UUID) uuid.UUID {
	f.t.Helper()
	g := groupModel.GroupModel{GroupName: name, MentorID: mentor}
	require.NoError(f.t, f.db.Create(&g).Error)
	return g.ID
}

func (f *fixture) mentee(name string, group *uuid.UUID) uuid.UUID {
	f.t.Helper()
	m := menteeModel.MenteeModel{FullName: name, Gender: constants.GenderIkhwan, GroupID: group}
	require.NoError(f.t, f.db.Create(&m).Error)
	return m.ID
}

func (f *fixture) groupOf(menteeID uuid.UUID) *uuid.UUID {
	f.t.Helper()
	var m menteeModel.MenteeModel
	require.NoError(f.t, f.db.Unscoped().First(&m, "id = ?", menteeID).Error)
	return m.GroupID
}

func (f *fixture) menteeHistory(menteeID uuid.UUID) []groupModel.MenteeGroupHistoryModel {
	f.t.Helper()
	var rows []groupModel.MenteeGroupHistoryModel
	require.NoError(f.t, f.db.Where("mentee_id = ?", menteeID).Order("id").Find(&rows).Error)
	return rows
}

func (f *fixture) countMenteeHistory() int64 {
	var n int64
	require.NoError(f.t, f.db.Model(&groupModel.MenteeGroupHistoryModel{}).Count(&n).Error)
	return n
}

// group_id selalu sama dengan to_group_id riwayat terakhir
func (f *fixture) assertConsistent(menteeID uuid.UUID) {
	f.t.Helper()
	rows := f.menteeHistory(menteeID)
	current := f.groupOf(menteeID)
	if len(rows) == 0 {
		assert.Nil(f.t, current)
		return
	}
	last := rows[len(rows)-1]
	if last.ToGroupID == nil {
		assert.Nil(f.t, current)
	} else {
		require.NotNil(f.t, current)
		assert.Equal(f.t, *last.ToGroupID, *current)
	}
}

func TestAssignMenteesToGroup_MovesSubset(t *testing.T) {
	f := newFixture(t)
	g := f.group("Liqo G", nil)
	g2 := f.group("Liqo G2", nil)
	m1 := f.mentee("M1", &g)
	m2 := f.mentee("M2", &g)
	m3 := f.mentee("M3", &g)

	moved, err := AssignMenteesToGroup(f.ctx, f.db, []uuid.UUID{m1, m2}, g2, f.admin)
	require.NoError(t, err)
	assert.Equal(t, 2, moved)

	assert.Equal(t, g2, *f.groupOf(m1))
	assert.Equal(t, g2, *f.groupOf(m2))
	assert.Equal(t, g, *f.groupOf(m3))

	var rows []groupModel.MenteeGroupHistoryModel
	require.NoError(t, f.db.Where("to_group_id = ?", g2).Find(&rows).Error)
	require.Len(t, rows, 2)
	for _, r := range rows {
		require.NotNil(t, r.FromGroupID)
		assert.Equal(t, g, *r.FromGroupID)
		assert.Equal(t, f.admin, r.MovedBy)
	}
	assert.Empty(t, f.menteeHistory(m3))
}

func TestAssignMenteesToGroup_IgnoresUnknownIDs(t *testing.T) {
	f := newFixture(t)
	g := f.group("Liqo G", nil)
	m1 := f.mentee("M1", nil)

	moved, err := AssignMenteesToGroup(f.ctx, f.db, []uuid.UUID{m1, uuid.New()}, g, f.admin)
	require.NoError(t, err)
	assert.Equal(t, 1, moved)
	assert.EqualValues(t, 1, f.countMenteeHistory())

	rows := f.menteeHistory(m1)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].FromGroupID)
}

func TestAssignMenteesToGroup_TargetMustBeActive(t *testing.T) {
	f := newFixture(t)
	g := f.group("Liqo G", nil)
	m1 := f.mentee("M1", nil)
	_, err := UnassignGroup(f.ctx, f.db, g, f.admin)
	require.NoError(t, err)

	_, err = AssignMenteesToGroup(f.ctx, f.db, []uuid.UUID{m1}, g, f.admin)
	assert.ErrorIs(t, err, ErrTargetGroupMissing)
	_, err = AssignMenteesToGroup(f.ctx, f.db, []uuid.UUID{m1}, uuid.New(), f.admin)
	assert.ErrorIs(t, err, ErrTargetGroupMissing)
	assert.Nil(t, f.groupOf(m1))
}

func TestAssignMenteesToGroup_AllOrNothing(t *testing.T) {
	f := newFixture(t)
	g := f.group("Liqo G", nil)
	g2 := f.group("Liqo G2", nil)
	ids := []uuid.UUID{f.mentee("M1", &g), f.mentee("M2", &g), f.mentee("M3", &g)}

	// insert riwayat kedua gagal di tengah batch
	inserts := 0
	require.NoError(t, f.db.Callback().Create().Before("gorm:create").Register("test:fail_second_history", func(tx *gorm.DB) {
		if tx.Statement.Table != "mentee_group_histories" {
			return
		}
		inserts++
		if inserts == 2 {
			_ = tx.AddError(errors.New("koneksi putus"))
		}
	}))

	_, err := AssignMenteesToGroup(f.ctx, f.db, ids, g2, f.admin)
	require.Error(t, err)

	for _, id := range ids {
		assert.Equal(t, g, *f.groupOf(id))
	}
	assert.Zero(t, f.countMenteeHistory())
}

func TestUnassignGroup(t *testing.T) {
	f := newFixture(t)
	g := f.group("Liqo G", nil)
	other := f.group("Liqo Lain", nil)
	ids := []uuid.UUID{f.mentee("M1", &g), f.mentee("M2", &g), f.mentee("M3", &g)}
	outsider := f.mentee("M4", &other)

	released, err := UnassignGroup(f.ctx, f.db, g, f.admin)
	require.NoError(t, err)
	assert.Equal(t, 3, released)

	for _, id := range ids {
		assert.Nil(t, f.groupOf(id))
		rows := f.menteeHistory(id)
		require.Len(t, rows, 1)
		assert.Equal(t, g, *rows[0].FromGroupID)
		assert.Nil(t, rows[0].ToGroupID)
	}
	assert.Equal(t, other, *f.groupOf(outsider))

	var deleted groupModel.GroupModel
	require.NoError(t, f.db.Unscoped().First(&deleted, "id = ?", g).Error)
	assert.True(t, deleted.DeletedAt.Valid)

	_, err = UnassignGroup(f.ctx, f.db, g, f.admin)
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestUnassignGroup_SingleMentee(t *testing.T) {
	f := newFixture(t)
	g := f.group("Liqo G", nil)
	m1 := f.mentee("M1", &g)

	_, err := DeleteGroup(f.ctx, f.db, g, f.admin)
	require.NoError(t, err)

	assert.Nil(t, f.groupOf(m1))
	rows := f.menteeHistory(m1)
	require.Len(t, rows, 1)
	assert.Equal(t, m1, rows[0].MenteeID)
	assert.Equal(t, g, *rows[0].FromGroupID)
	assert.Nil(t, rows[0].ToGroupID)
}

func TestHistoryConsistency_AfterSequence(t *testing.T) {
	f := newFixture(t)
	a := f.group("A", nil)
	b := f.group("B", nil)
	c := f.group("C", nil)
	ms := []uuid.UUID{f.mentee("M1", nil), f.mentee("M2", nil), f.mentee("M3", nil), f.mentee("M4", nil)}

	steps := []func() error{
		func() error { _, err := AssignMenteesToGroup(f.ctx, f.db, ms, a, f.admin); return err },
		func() error { _, err := AssignMenteesToGroup(f.ctx, f.db, ms[:2], b, f.admin); return err },
		func() error { _, err := AssignMenteesToGroup(f.ctx, f.db, ms[1:3], c, f.admin); return err },
		func() error { _, err := UnassignGroup(f.ctx, f.db, c, f.admin); return err },
		func() error { _, err := AssignMenteesToGroup(f.ctx, f.db, ms[2:], b, f.admin); return err },
		func() error { _, err := UnassignGroup(f.ctx, f.db, a, f.admin); return err },
	}
	for i, step := range steps {
		require.NoError(t, step(), fmt.Sprintf("step %d", i))
		for _, m := range ms {
			f.assertConsistent(m)
		}
	}
}

func TestChangeGroupMentor(t *testing.T) {
	f := newFixture(t)
	mentorA := f.user(constants.RoleMentor, "a@liqo.id")
	mentorB := f.user(constants.RoleMentor, "b@liqo.id")
	g := f.group("Liqo G", &mentorA)

	changed, err := ChangeGroupMentor(f.ctx, f.db, g, &mentorB, f.admin)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = ChangeGroupMentor(f.ctx, f.db, g, &mentorB, f.admin)
	require.NoError(t, err)
	assert.False(t, changed)

	var rows []groupModel.GroupMentorHistoryModel
	require.NoError(t, f.db.Where("group_id = ?", g).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, mentorA, *rows[0].FromMentorID)
	assert.Equal(t, mentorB, *rows[0].ToMentorID)
	assert.Equal(t, f.admin, rows[0].ChangedBy)

	var got groupModel.GroupModel
	require.NoError(t, f.db.First(&got, "id = ?", g).Error)
	assert.Equal(t, mentorB, *got.MentorID)
}

func TestChangeGroupMentor_RejectsNonMentor(t *testing.T) {
	f := newFixture(t)
	g := f.group("Liqo G", nil)

	_, err := ChangeGroupMentor(f.ctx, f.db, g, &f.admin, f.admin)
	assert.ErrorIs(t, err, ErrMentorNotFound)
	missing := uuid.New()
	_, err = ChangeGroupMentor(f.ctx, f.db, g, &missing, f.admin)
	assert.ErrorIs(t, err, ErrMentorNotFound)

	var n int64
	require.NoError(t, f.db.Model(&groupModel.GroupMentorHistoryModel{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestRestoreGroup_ReattachesByRecordedPredicate(t *testing.T) {
	f := newFixture(t)
	g := f.group("Liqo G", nil)
	// masuk dari pool unassigned → punya baris {from: NULL, to: G}
	fromPool := f.mentee("Dari Pool", nil)
	_, err := AssignMenteesToGroup(f.ctx, f.db, []uuid.UUID{fromPool}, g, f.admin)
	require.NoError(t, err)
	// dibuat langsung di G tanpa riwayat masuk
	direct := f.mentee("Langsung", &g)

	_, err = UnassignGroup(f.ctx, f.db, g, f.admin)
	require.NoError(t, err)
	historyBefore := f.countMenteeHistory()

	restored, attached, err := RestoreGroup(f.ctx, f.db, g)
	require.NoError(t, err)
	assert.False(t, restored.DeletedAt.Valid)
	assert.Equal(t, 1, attached)

	assert.Equal(t, g, *f.groupOf(fromPool))
	// dilepas saat delete ({from: G, to: NULL}) tapi tidak cocok predikat
	assert.Nil(t, f.groupOf(direct))
	// penempelan ulang tidak menulis riwayat
	assert.Equal(t, historyBefore, f.countMenteeHistory())
}

func TestRestoreGroup_SkipsMenteesAlreadyElsewhere(t *testing.T) {
	f := newFixture(t)
	g := f.group("Liqo G", nil)
	other := f.group("Liqo Lain", nil)
	m := f.mentee("M", nil)
	_, err := AssignMenteesToGroup(f.ctx, f.db, []uuid.UUID{m}, g, f.admin)
	require.NoError(t, err)
	_, err = UnassignGroup(f.ctx, f.db, g, f.admin)
	require.NoError(t, err)
	_, err = AssignMenteesToGroup(f.ctx, f.db, []uuid.UUID{m}, other, f.admin)
	require.NoError(t, err)

	_, attached, err := RestoreGroup(f.ctx, f.db, g)
	require.NoError(t, err)
	assert.Zero(t, attached)
	assert.Equal(t, other, *f.groupOf(m))
}

func TestRestoreGroup_NotTrashed(t *testing.T) {
	f := newFixture(t)
	g := f.group("Liqo G", nil)

	_, _, err := RestoreGroup(f.ctx, f.db, g)
	assert.ErrorIs(t, err, ErrGroupNotTrashed)
	_, _, err = RestoreGroup(f.ctx, f.db, uuid.New())
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestCreateGroup_RecordsInitialAssignments(t *testing.T) {
	f := newFixture(t)
	mentor := f.user(constants.RoleMentor, "m@liqo.id")
	m1 := f.mentee("M1", nil)
	m2 := f.mentee("M2", nil)

	g, assigned, err := CreateGroup(f.ctx, f.db, CreateGroupInput{
		GroupName: "Liqo Baru",
		MentorID:  &mentor,
		MenteeIDs: []uuid.UUID{m1, m2},
	}, f.admin)
	require.NoError(t, err)
	assert.Equal(t, 2, assigned)
	assert.Equal(t, mentor, *g.MentorID)

	for _, id := range []uuid.UUID{m1, m2} {
		rows := f.menteeHistory(id)
		require.Len(t, rows, 1)
		assert.Nil(t, rows[0].FromGroupID)
		assert.Equal(t, g.ID, *rows[0].ToGroupID)
	}

	var mh []groupModel.GroupMentorHistoryModel
	require.NoError(t, f.db.Where("group_id = ?", g.ID).Find(&mh).Error)
	require.Len(t, mh, 1)
	assert.Nil(t, mh[0].FromMentorID)
	assert.Equal(t, mentor, *mh[0].ToMentorID)
}

func TestCreateGroup_InvalidMentorRollsBack(t *testing.T) {
	f := newFixture(t)
	bogus := uuid.New()
	_, _, err := CreateGroup(f.ctx, f.db, CreateGroupInput{GroupName: "X", MentorID: &bogus}, f.admin)
	assert.ErrorIs(t, err, ErrMentorNotFound)

	var n int64
	require.NoError(t, f.db.Unscoped().Model(&groupModel.GroupModel{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestUpdateGroup_SyncsMembers(t *testing.T) {
	f := newFixture(t)
	g := f.group("Liqo G", nil)
	stay := f.mentee("Tetap", nil)
	leave := f.mentee("Keluar", nil)
	join := f.mentee("Masuk", nil)
	_, err := AssignMenteesToGroup(f.ctx, f.db, []uuid.UUID{stay, leave}, g, f.admin)
	require.NoError(t, err)

	name := "Liqo G Baru"
	ids := []uuid.UUID{stay, join}
	got, err := UpdateGroup(f.ctx, f.db, g, UpdateGroupInput{GroupName: &name, MenteeIDs: &ids}, f.admin)
	require.NoError(t, err)
	assert.Equal(t, name, got.GroupName)

	assert.Equal(t, g, *f.groupOf(stay))
	assert.Nil(t, f.groupOf(leave))
	assert.Equal(t, g, *f.groupOf(join))
	// anggota yang tetap tidak dapat baris riwayat baru
	assert.Len(t, f.menteeHistory(stay), 1)
	require.Len(t, f.menteeHistory(leave), 2)
	assert.Nil(t, f.menteeHistory(leave)[1].ToGroupID)
	for _, id := range []uuid.UUID{stay, leave, join} {
		f.assertConsistent(id)
	}
}

func TestUpdateGroup_MentorUntouchedWhenNotSet(t *testing.T) {
	f := newFixture(t)
	mentor := f.user(constants.RoleMentor, "m@liqo.id")
	g := f.group("Liqo G", &mentor)

	desc := "deskripsi"
	got, err := UpdateGroup(f.ctx, f.db, g, UpdateGroupInput{Description: &desc}, f.admin)
	require.NoError(t, err)
	assert.Equal(t, mentor, *got.MentorID)

	got, err = UpdateGroup(f.ctx, f.db, g, UpdateGroupInput{MentorSet: true, MentorID: nil}, f.admin)
	require.NoError(t, err)
	assert.Nil(t, got.MentorID)
}

func TestForceDeleteGroup(t *testing.T) {
	f := newFixture(t)
	g := f.group("Liqo G", nil)
	m1 := f.mentee("M1", &g)

	meeting := meetingModel.MeetingModel{GroupID: g, Topic: "Kajian", MeetingType: constants.MeetingTypeOffline}
	require.NoError(t, meeting.SetPhotoKeys([]string{"meetings/a.webp", "meetings/b.webp"}))
	require.NoError(t, f.db.Create(&meeting).Error)
	require.NoError(t, f.db.Create(&meetingModel.AttendanceModel{
		MeetingID: meeting.ID, MenteeID: m1, Status: meetingModel.AttendancePresent,
	}).Error)

	keys, err := ForceDeleteGroup(f.ctx, f.db, g, f.admin)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"meetings/a.webp", "meetings/b.webp"}, keys)

	assert.Nil(t, f.groupOf(m1))
	var n int64
	require.NoError(t, f.db.Unscoped().Model(&groupModel.GroupModel{}).Where("id = ?", g).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, f.db.Unscoped().Model(&meetingModel.MeetingModel{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, f.db.Model(&meetingModel.AttendanceModel{}).Count(&n).Error)
	assert.Zero(t, n)
	// riwayat tetap ada
	assert.Len(t, f.menteeHistory(m1), 1)
}

func TestMentorScope(t *testing.T) {
	f := newFixture(t)
	mentor := f.user(constants.RoleMentor, "m@liqo.id")
	stranger := f.user(constants.RoleMentor, "x@liqo.id")
	own1 := f.group("Milik 1", &mentor)
	own2 := f.group("Milik 2", &mentor)
	foreign := f.group("Orang Lain", &stranger)

	pool := f.mentee("Pool", nil)
	taken := f.mentee("Sudah Ada", &foreign)

	moved, err := AddExistingMentees(f.ctx, f.db, mentor, own1, []uuid.UUID{pool, taken})
	require.NoError(t, err)
	assert.Equal(t, 1, moved)
	assert.Equal(t, own1, *f.groupOf(pool))
	assert.Equal(t, foreign, *f.groupOf(taken))
	rows := f.menteeHistory(pool)
	require.Len(t, rows, 1)
	assert.Equal(t, mentor, rows[0].MovedBy)

	_, err = AddExistingMentees(f.ctx, f.db, mentor, foreign, []uuid.UUID{pool})
	assert.ErrorIs(t, err, ErrGroupNotFound)
	_, err = AddExistingMentees(f.ctx, f.db, mentor, own1, nil)
	assert.ErrorIs(t, err, ErrNoMenteesSelected)

	moved, err = MoveMenteesBetweenOwnGroups(f.ctx, f.db, mentor, own1, own2, []uuid.UUID{pool, taken})
	require.NoError(t, err)
	assert.Equal(t, 1, moved)
	assert.Equal(t, own2, *f.groupOf(pool))

	_, err = MoveMenteesBetweenOwnGroups(f.ctx, f.db, mentor, own2, foreign, []uuid.UUID{pool})
	assert.ErrorIs(t, err, ErrGroupNotFound)
	_, err = MoveMenteesBetweenOwnGroups(f.ctx, f.db, mentor, own2, own2, []uuid.UUID{pool})
	assert.ErrorIs(t, err, ErrSameGroup)
	f.assertConsistent(pool)
}

func TestDetachMentorInTx(t *testing.T) {
	f := newFixture(t)
	mentor := f.user(constants.RoleMentor, "m@liqo.id")
	f.group("A", &mentor)
	f.group("B", &mentor)
	f.group("C", nil)

	var n int
	require.NoError(t, f.db.Transaction(func(tx *gorm.DB) error {
		var err error
		n, err = DetachMentorInTx(tx, mentor, f.admin)
		return err
	}))
	assert.Equal(t, 2, n)

	var count int64
	require.NoError(t, f.db.Model(&groupModel.GroupModel{}).Where("mentor_id IS NOT NULL").Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, f.db.Model(&groupModel.GroupMentorHistoryModel{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestDetachMentorInTx_IncludesTrashedGroups(t *testing.T) {
	f := newFixture(t)
	mentor := f.user(constants.RoleMentor, "m@liqo.id")
	active := f.group("Aktif", &mentor)
	trashed := f.group("Sampah", &mentor)
	require.NoError(t, f.db.Delete(&groupModel.GroupModel{}, "id = ?", trashed).Error)

	var n int
	require.NoError(t, f.db.Transaction(func(tx *gorm.DB) error {
		var err error
		n, err = DetachMentorInTx(tx, mentor, f.admin)
		return err
	}))
	assert.Equal(t, 2, n)

	for _, id := range []uuid.UUID{active, trashed} {
		var g groupModel.GroupModel
		require.NoError(t, f.db.Unscoped().First(&g, "id = ?", id).Error)
		assert.Nil(t, g.MentorID, g.GroupName)

		var hist []groupModel.GroupMentorHistoryModel
		require.NoError(t, f.db.Where("group_id = ?", id).Find(&hist).Error)
		require.Len(t, hist, 1)
		require.NotNil(t, hist[0].FromMentorID)
		assert.Equal(t, mentor, *hist[0].FromMentorID)
		assert.Nil(t, hist[0].ToMentorID)
	}

	restored, _, err := RestoreGroup(f.ctx, f.db, trashed)
	require.NoError(t, err)
	assert.Nil(t, restored.MentorID)
}
