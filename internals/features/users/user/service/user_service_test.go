package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"jejakliqo_backend/internals/constants"
	"jejakliqo_backend/internals/databases/testdb"
	groupModel "jejakliqo_backend/internals/features/liqo/groups/model"
	authModel "jejakliqo_backend/internals/features/users/auth/model"
	"jejakliqo_backend/internals/features/users/user/dto"
	uModel "jejakliqo_backend/internals/features/users/user/model"
	helper "jejakliqo_backend/internals/helpers"
	"jejakliqo_backend/internals/helpers/storage"
)

func newUserReq(email, name string) dto.CreateUserRequest {
	return dto.CreateUserRequest{
		Email:    email,
		Password: "rahasia123",
		ProfileFields: dto.ProfileFields{
			FullName:  name,
			Gender:    constants.GenderIkhwan,
			BirthDate: "1995-04-12",
		},
	}
}

func mustCreate(t *testing.T, db *gorm.DB, role, email string) *uModel.UserModel {
	t.Helper()
	u, err := CreateUserWithProfile(context.Background(), db, role, newUserReq(email, "User "+email))
	require.NoError(t, err)
	return u
}

func TestCreateUserWithProfile(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()

	u, err := CreateUserWithProfile(ctx, db, constants.RoleMentor, newUserReq("  Budi@Liqo.ID ", "Budi Santoso"))
	require.NoError(t, err)
	assert.Equal(t, "budi@liqo.id", u.Email)
	assert.NotEqual(t, "rahasia123", u.Password)
	require.NotNil(t, u.Profile)
	assert.Equal(t, u.ID, u.Profile.UserID)
	assert.Equal(t, constants.ProfileStatusActive, u.Profile.Status)

	got, err := FindUser(ctx, db, u.ID, constants.RoleMentor, false)
	require.NoError(t, err)
	require.NotNil(t, got.Profile)
	assert.Equal(t, "Budi Santoso", got.Profile.FullName)
	require.NotNil(t, got.Profile.BirthDate)
	assert.Equal(t, 1995, got.Profile.BirthDate.Year())

	_, err = FindUser(ctx, db, u.ID, constants.RoleAdmin, false)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCreateUserWithProfile_DuplicateEmail(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	admin := mustCreate(t, db, constants.RoleSuperAdmin, "root@liqo.id")
	u := mustCreate(t, db, constants.RoleMentor, "dupe@liqo.id")

	_, err := CreateUserWithProfile(ctx, db, constants.RoleAdmin, newUserReq("DUPE@liqo.id", "Lain"))
	assert.ErrorIs(t, err, ErrEmailTaken)

	// email user di tempat sampah tetap terpakai
	require.NoError(t, SoftDeleteUser(ctx, db, u.ID, constants.RoleMentor, admin.ID, true))
	_, err = CreateUserWithProfile(ctx, db, constants.RoleAdmin, newUserReq("dupe@liqo.id", "Lain"))
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestCreateUserWithProfile_RollsBackWhenProfileFails(t *testing.T) {
	db := testdb.New(t)
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_profiles", func(tx *gorm.DB) {
		if tx.Statement.Table == "profiles" {
			_ = tx.AddError(errors.New("profile gagal"))
		}
	}))

	_, err := CreateUserWithProfile(context.Background(), db, constants.RoleMentor, newUserReq("gagal@liqo.id", "Gagal"))
	require.Error(t, err)

	var n int64
	require.NoError(t, db.Unscoped().Model(&uModel.UserModel{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestCreateUserWithProfile_WeakPassword(t *testing.T) {
	db := testdb.New(t)
	req := newUserReq("lemah@liqo.id", "Lemah")
	req.Password = "hanyahuruf"
	_, err := CreateUserWithProfile(context.Background(), db, constants.RoleMentor, req)
	require.Error(t, err)
	assert.Contains(t, strings.ToLower(err.Error()), "lemah")
}

func TestUpdateUserWithProfile(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	u := mustCreate(t, db, constants.RoleMentor, "a@liqo.id")
	mustCreate(t, db, constants.RoleMentor, "b@liqo.id")

	got, err := UpdateUserWithProfile(ctx, db, u.ID, constants.RoleMentor, dto.UpdateUserRequest{
		Email:         "a.baru@liqo.id",
		ProfileFields: dto.ProfileFields{FullName: "Nama Baru", Status: constants.ProfileStatusLeave},
	})
	require.NoError(t, err)
	assert.Equal(t, "a.baru@liqo.id", got.Email)
	assert.Equal(t, "Nama Baru", got.Profile.FullName)
	assert.Equal(t, constants.ProfileStatusLeave, got.Profile.Status)
	assert.Equal(t, u.Password, got.Password, "password kosong tidak mengganti hash")

	_, err = UpdateUserWithProfile(ctx, db, u.ID, constants.RoleMentor, dto.UpdateUserRequest{
		Email:         "b@liqo.id",
		ProfileFields: dto.ProfileFields{FullName: "Nama Baru"},
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSoftDeleteMentor_DetachesGroupsWithHistory(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	admin := mustCreate(t, db, constants.RoleAdmin, "admin@liqo.id")
	mentor := mustCreate(t, db, constants.RoleMentor, "mentor@liqo.id")

	g1 := groupModel.GroupModel{GroupName: "Liqo A", MentorID: &mentor.ID}
	g2 := groupModel.GroupModel{GroupName: "Liqo B", MentorID: &mentor.ID}
	require.NoError(t, db.Create(&g1).Error)
	require.NoError(t, db.Create(&g2).Error)
	require.NoError(t, db.Create(&authModel.PersonalAccessTokenModel{
		ID: uuid.New(), UserID: mentor.ID, TokenHash: "x", ExpiresAt: time.Now().Add(time.Hour),
	}).Error)

	require.NoError(t, SoftDeleteUser(ctx, db, mentor.ID, constants.RoleMentor, admin.ID, false))

	var groups []groupModel.GroupModel
	require.NoError(t, db.Find(&groups).Error)
	require.Len(t, groups, 2)
	for _, g := range groups {
		assert.Nil(t, g.MentorID)
	}

	var hist []groupModel.GroupMentorHistoryModel
	require.NoError(t, db.Order("id").Find(&hist).Error)
	require.Len(t, hist, 2)
	for _, h := range hist {
		require.NotNil(t, h.FromMentorID)
		assert.Equal(t, mentor.ID, *h.FromMentorID)
		assert.Nil(t, h.ToMentorID)
		assert.Equal(t, admin.ID, h.ChangedBy)
	}

	var tokens int64
	require.NoError(t, db.Model(&authModel.PersonalAccessTokenModel{}).Count(&tokens).Error)
	assert.Zero(t, tokens)

	_, err := FindUser(ctx, db, mentor.ID, constants.RoleMentor, false)
	assert.ErrorIs(t, err, ErrUserNotFound)
	trashed, err := FindUser(ctx, db, mentor.ID, constants.RoleMentor, true)
	require.NoError(t, err)
	assert.True(t, trashed.DeletedAt.Valid)
}

func TestSoftDeleteUser_Self(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	admin := mustCreate(t, db, constants.RoleAdmin, "admin@liqo.id")

	assert.ErrorIs(t, SoftDeleteUser(ctx, db, admin.ID, constants.RoleAdmin, admin.ID, false), ErrCannotDeleteSelf)
	assert.NoError(t, SoftDeleteUser(ctx, db, admin.ID, constants.RoleAdmin, admin.ID, true))
}

func TestRestoreUser(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	admin := mustCreate(t, db, constants.RoleSuperAdmin, "root@liqo.id")
	u := mustCreate(t, db, constants.RoleMentor, "m@liqo.id")

	_, err := RestoreUser(ctx, db, u.ID, constants.RoleMentor)
	assert.ErrorIs(t, err, ErrUserNotTrashed)

	require.NoError(t, SoftDeleteUser(ctx, db, u.ID, constants.RoleMentor, admin.ID, true))
	got, err := RestoreUser(ctx, db, u.ID, constants.RoleMentor)
	require.NoError(t, err)
	assert.False(t, got.DeletedAt.Valid)
}

func TestForceDeleteUser_RemovesProfileAndPicture(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	store := storage.NewMemoryStore("http://localhost/storage")
	admin := mustCreate(t, db, constants.RoleSuperAdmin, "root@liqo.id")
	u := mustCreate(t, db, constants.RoleMentor, "m@liqo.id")

	key := "profile-pictures/2026/01/foto.webp"
	require.NoError(t, store.Put(ctx, key, strings.NewReader("img"), "image/webp"))
	require.NoError(t, db.Model(&uModel.ProfileModel{}).Where("user_id = ?", u.ID).Update("profile_picture", key).Error)

	require.NoError(t, ForceDeleteUser(ctx, db, store, u.ID, constants.RoleMentor, admin.ID, true))

	var users, profiles int64
	require.NoError(t, db.Unscoped().Model(&uModel.UserModel{}).Where("id = ?", u.ID).Count(&users).Error)
	require.NoError(t, db.Model(&uModel.ProfileModel{}).Where("user_id = ?", u.ID).Count(&profiles).Error)
	assert.Zero(t, users)
	assert.Zero(t, profiles)
	assert.False(t, store.Has(key))
}

func TestForceDeleteMentor_DetachesTrashedGroup(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	admin := mustCreate(t, db, constants.RoleSuperAdmin, "root@liqo.id")
	mentor := mustCreate(t, db, constants.RoleMentor, "m@liqo.id")

	g := groupModel.GroupModel{GroupName: "Liqo Sampah", MentorID: &mentor.ID}
	require.NoError(t, db.Create(&g).Error)
	require.NoError(t, db.Delete(&g).Error)

	require.NoError(t, ForceDeleteUser(ctx, db, nil, mentor.ID, constants.RoleMentor, admin.ID, true))

	var got groupModel.GroupModel
	require.NoError(t, db.Unscoped().First(&got, "id = ?", g.ID).Error)
	assert.True(t, got.DeletedAt.Valid)
	assert.Nil(t, got.MentorID)

	var hist []groupModel.GroupMentorHistoryModel
	require.NoError(t, db.Where("group_id = ?", g.ID).Find(&hist).Error)
	require.Len(t, hist, 1)
	require.NotNil(t, hist[0].FromMentorID)
	assert.Equal(t, mentor.ID, *hist[0].FromMentorID)
	assert.Nil(t, hist[0].ToMentorID)
	assert.Equal(t, admin.ID, hist[0].ChangedBy)
}

func TestBlockUnblock(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	admin := mustCreate(t, db, constants.RoleAdmin, "admin@liqo.id")
	u := mustCreate(t, db, constants.RoleMentor, "m@liqo.id")
	require.NoError(t, db.Create(&authModel.PersonalAccessTokenModel{
		ID: uuid.New(), UserID: u.ID, TokenHash: "x", ExpiresAt: time.Now().Add(time.Hour),
	}).Error)

	got, err := BlockUser(ctx, db, u.ID, constants.RoleMentor, admin.ID, time.Now())
	require.NoError(t, err)
	assert.True(t, got.IsBlocked())
	var tokens int64
	require.NoError(t, db.Model(&authModel.PersonalAccessTokenModel{}).Count(&tokens).Error)
	assert.Zero(t, tokens)

	_, err = BlockUser(ctx, db, admin.ID, constants.RoleAdmin, admin.ID, time.Now())
	assert.ErrorIs(t, err, ErrCannotBlockSelf)

	got, err = UnblockUser(ctx, db, u.ID, constants.RoleMentor)
	require.NoError(t, err)
	assert.False(t, got.IsBlocked())
}

func TestListUsers_Filter(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	admin := mustCreate(t, db, constants.RoleSuperAdmin, "root@liqo.id")
	a := mustCreate(t, db, constants.RoleMentor, "ahmad@liqo.id")
	mustCreate(t, db, constants.RoleMentor, "bakri@liqo.id")
	c := mustCreate(t, db, constants.RoleMentor, "cahya_x@liqo.id")
	require.NoError(t, SoftDeleteUser(ctx, db, c.ID, constants.RoleMentor, admin.ID, true))

	p := helper.Paging{Page: 1, PerPage: 10, Limit: 10}
	users, total, err := ListUsers(ctx, db, UserFilter{Role: constants.RoleMentor}, p)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, users, 2)
	assert.NotNil(t, users[0].Profile)

	users, total, err = ListUsers(ctx, db, UserFilter{Role: constants.RoleMentor, Search: "AHMAD"}, p)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, a.ID, users[0].ID)

	// underscore di-escape, bukan wildcard
	_, total, err = ListUsers(ctx, db, UserFilter{Role: constants.RoleMentor, Search: "i_l", Trashed: helper.TrashedWith}, p)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)

	users, total, err = ListUsers(ctx, db, UserFilter{Role: constants.RoleMentor, Trashed: helper.TrashedOnly}, p)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, c.ID, users[0].ID)

	counts, err := CountGroupsByMentor(ctx, db, []uuid.UUID{a.ID})
	require.NoError(t, err)
	assert.Zero(t, counts[a.ID])
}
