package utils

import (
	"lms/database"
	"lms/models"
	"lms/progress"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[CONTRACT-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// DeactivateExpiredContracts flips contracts whose training window has
// ended and tears down the course progress rows they were backing.
func DeactivateExpiredContracts() {
	db := database.Database.Db
	now := time.Now()

	var expired []models.Contract
	if err := db.Where("end_date < ? AND active = ? AND is_deleted = ?", now, true, false).
		Find(&expired).Error; err != nil {
		logScheduler("Error fetching expired contracts: " + err.Error())
		return
	}

	for _, contract := range expired {
		ct := contract
		// Deactivation and teardown commit together; a failed teardown
		// leaves the contract active for the next pass to retry
		err := db.Transaction(func(tx *gorm.DB) error {
			ct.Active = false
			if err := tx.Save(&ct).Error; err != nil {
				return err
			}
			return progress.TeardownContract(tx, ct)
		})
		if err != nil {
			logScheduler("Error deactivating contract " + ct.OrganizationCode + ": " + err.Error())
			continue
		}
		logScheduler("Contract " + ct.OrganizationCode + " deactivated")
	}

	if len(expired) > 0 {
		logScheduler("Deactivation pass finished")
	}
}

// StartContractScheduler runs the expiry check once a day at midnight
func StartContractScheduler() {
	c := cron.New()

	if _, err := c.AddFunc("0 0 * * *", DeactivateExpiredContracts); err != nil {
		log.Fatalf("Failed to schedule contract expiry job: %v", err)
	}

	c.Start()
	logScheduler("Contract scheduler started")
}
