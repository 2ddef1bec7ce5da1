package database

import (
	"fmt"
	"log"

	"api/config"
	"api/models"
	"api/utils"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

var DefaultPassword = "admin"

// Default catalog seeded on an empty database so the workflow is usable out of the box
var defaultChallenges = []models.Challenge{
	{Title: "Plastic Bottle Drive", Description: "Collect and drop off at least 20 plastic bottles at a certified recycling point. Photograph the bottles at the drop-off location.", PointsAvailable: 50, WasteKg: 1.5, IsActive: true},
	{Title: "E-Waste Roundup", Description: "Bring old electronics (phones, cables, chargers) to an e-waste collection center. Photograph the items being handed over.", PointsAvailable: 120, WasteKg: 4.0, IsActive: true},
	{Title: "Compost Starter", Description: "Set up a household compost bin and divert a week of food scraps. Photograph the filled bin.", PointsAvailable: 80, WasteKg: 3.0, IsActive: true},
}

// InitDB initializes the database connection and migrates the models and populates the database with default values if needed
func InitDB() {
    dsn := fmt.Sprintf("host=%s port=%s user=%s dbname=%s password=%s sslmode=disable TimeZone=Europe/Paris", config.PostgresHost, config.PostgresPort, config.PostgresUser, config.PostgresDB, config.PostgresPassword)

    var err error
    DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
    if err != nil {
        log.Fatal("failed to connect database: ", err)
    }

    err = DB.AutoMigrate(
        &models.User{},
        &models.Challenge{},
        &models.ChallengeAttempt{},
    )
    if err != nil {
        log.Fatal("failed to migrate database: ", err)
    }

    Populate()
}

// Populate populates the database with default values if needed
func Populate() {
    var countUser int64

    // Check if there is no user in the database
    DB.Model(&models.User{}).Count(&countUser)
    if countUser == 0 {
        // Create default user admin with a default hashed password either from the .env file or the DefaultPassword constant
        password := DefaultPassword
        if config.DefaultPassword != "" {
            password = config.DefaultPassword
        }

        password, err := utils.HashPassword(password)
        if err != nil {
            panic(err)
        }

        user := models.User{
            Email:     "admin@admin.com",
            Firstname: "Admin",
            Lastname:  "Admin",
            Password:  password,
            IsAdmin:   true,
            LastConnected: nil,
        }
        DB.Create(&user)
        log.Println("Default user admin created")
    }

    // Seed the default challenge catalog on an empty database
    var countChallenge int64
    DB.Model(&models.Challenge{}).Count(&countChallenge)
    if countChallenge == 0 {
        for _, challenge := range defaultChallenges {
            if err := DB.Create(&challenge).Error; err != nil {
                log.Println("Error while seeding challenge: ", err)
                continue
            }
            log.Println("Default challenge created: ", challenge.Title)
        }
    }
}
