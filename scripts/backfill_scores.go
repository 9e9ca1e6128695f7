package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/anjha1/Fluenzy-AI-sub001/config"
	"github.com/anjha1/Fluenzy-AI-sub001/models"
	"github.com/anjha1/Fluenzy-AI-sub001/utils"
	"gorm.io/gorm"
)

// Recomputes aggregate scores for finished sessions using the current
// scoring rules. Useful after a rule change, when stored scores were
// produced by an older formula.
//
// Usage: go run scripts/backfill_scores.go [-dry-run]
func main() {
	dryRun := flag.Bool("dry-run", false, "print changes without writing them")
	flag.Parse()

	if err := utils.InitLogger(); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	if _, err := config.LoadConfig(); err != nil {
		log.Fatal("Error loading config:", err)
	}
	config.InitDB()

	var sessions []models.Session
	if err := config.DB.Preload("Transcripts", func(db *gorm.DB) *gorm.DB {
		return db.Order("turn_number ASC")
	}).Where("ended_at IS NOT NULL").Find(&sessions).Error; err != nil {
		log.Fatal("Failed to load sessions:", err)
	}
	fmt.Printf("Loaded %d finished sessions\n", len(sessions))

	updated := 0
	for _, session := range sessions {
		result := utils.ScoreSession(session.Transcripts)
		aggregate := float64(result.Score) / 100

		current := -1.0
		if session.AggregateScore != nil {
			current = *session.AggregateScore
		}
		if current == aggregate && session.Status == result.Status {
			continue
		}

		fmt.Printf("session %d: score %.2f -> %.2f, status %q -> %q\n",
			session.ID, current, aggregate, session.Status, result.Status)
		if *dryRun {
			updated++
			continue
		}

		if err := config.DB.Model(&models.Session{}).Where("id = ?", session.ID).Updates(map[string]interface{}{
			"aggregate_score": aggregate,
			"status":          result.Status,
		}).Error; err != nil {
			log.Fatalf("Failed to update session %d: %v", session.ID, err)
		}
		updated++
	}

	if *dryRun {
		fmt.Printf("Dry run: %d sessions would be updated\n", updated)
	} else {
		fmt.Printf("Updated %d sessions\n", updated)
	}
}
