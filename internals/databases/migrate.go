package database

import (
	"log"

	"gorm.io/gorm"

	annModel "jejakliqo_backend/internals/features/liqo/announcements/model"
	groupModel "jejakliqo_backend/internals/features/liqo/groups/model"
	meetingModel "jejakliqo_backend/internals/features/liqo/meetings/model"
	menteeModel "jejakliqo_backend/internals/features/liqo/mentees/model"
	authModel "jejakliqo_backend/internals/features/users/auth/model"
	userModel "jejakliqo_backend/internals/features/users/user/model"
)

// Models berurutan sesuai dependensi FK (parent dulu).
func Models() []any {
	return []any{
		&userModel.UserModel{},
		&userModel.ProfileModel{},
		&authModel.PersonalAccessTokenModel{},
		&groupModel.GroupModel{},
		&menteeModel.MenteeModel{},
		&groupModel.GroupMentorHistoryModel{},
		&groupModel.MenteeGroupHistoryModel{},
		&meetingModel.MeetingModel{},
		&meetingModel.AttendanceModel{},
		&annModel.AnnouncementModel{},
	}
}

func AutoMigrate(db *gorm.DB) error {
	log.Println("[INFO] Menjalankan AutoMigrate...")
	if err := db.AutoMigrate(Models()...); err != nil {
		log.Printf("[ERROR] AutoMigrate gagal: %v", err)
		return err
	}
	log.Println("[SUCCESS] AutoMigrate selesai")
	return nil
}
