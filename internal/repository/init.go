package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/courieros/courierstack/config"
	"github.com/courieros/courierstack/interfaces"
	"github.com/courieros/courierstack/internal/models"
)

type Repositories struct {
	CourierItemRepository interfaces.CourierItemRepository
}

func InitRepositories(courierDB *gorm.DB) *Repositories {
	return &Repositories{
		CourierItemRepository: NewCourierItemRepository(courierDB),
	}
}

func MigrateCourierDB(dbConfig *config.CourierDatabaseConfig, courierDB *gorm.DB) error {
	db, err := courierDB.DB()
	if err != nil {
		return err
	}

	db.SetMaxOpenConns(5)

	err = courierDB.AutoMigrate(
		&models.CourierItem{},
	)

	db.SetMaxIdleConns(dbConfig.MaxIdleConn)
	db.SetMaxOpenConns(dbConfig.MaxConn)
	db.SetConnMaxLifetime(time.Duration(dbConfig.ConnMaxLifetime) * time.Minute)

	return err
}
