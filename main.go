package main

import (
	"log"

	"github.com/Iamyashsiwach/sparksync-app/config"
	"github.com/Iamyashsiwach/sparksync-app/handlers"
	"github.com/Iamyashsiwach/sparksync-app/models"
	"github.com/Iamyashsiwach/sparksync-app/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func initDB() (*gorm.DB, error) {
	// TranslateError maps SQLite unique violations to
	// gorm.ErrDuplicatedKey, which the handlers surface as 409.
	db, err := gorm.Open(sqlite.Open(config.AppConfig.DBPath), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Attendance{},
		&models.LeaveRequest{},
		&models.Task{},
	); err != nil {
		return nil, err
	}

	return db, nil
}

func main() {
	config.LoadConfig()
	utils.InitLogger()
	defer utils.Logger.Sync()

	db, err := initDB()
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	handlers.InitHandlers(db)

	app := fiber.New()
	handlers.RegisterRoutes(app)

	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
