package handlers

import (
	"gorm.io/gorm"
)

var (
	DB *gorm.DB
)

func InitHandlers(db *gorm.DB) {
	DB = db
}

// isPrivileged reports whether a role may act on records owned by other
// users. Managers count here: they approve leave and review attendance
// but do not administer tasks or users.
func isPrivileged(role string) bool {
	return role == "admin" || role == "super-admin" || role == "manager"
}
