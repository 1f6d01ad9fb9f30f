// workers/report_archiver.go
package workers

import (
	"context"
	"log"
	"time"

	"bounty-settlement-system/models"
	"bounty-settlement-system/services"
	"bounty-settlement-system/utils"

	"gorm.io/gorm"
)

// ReportArchiver watches for finished games that don't have an archived
// settlement report yet, renders the report, and ships it to R2 — or to the
// local export directory when R2 isn't configured. Archiving is best effort:
// a failed game is retried on the next pass.
type ReportArchiver struct {
	db       *gorm.DB
	interval time.Duration
}

func NewReportArchiver(db *gorm.DB) *ReportArchiver {
	return &ReportArchiver{
		db:       db,
		interval: 30 * time.Second,
	}
}

func (w *ReportArchiver) Start(ctx context.Context) {
	log.Println("🔁 Starting Settlement Report Archiver…")
	go w.run(ctx)
}

func (w *ReportArchiver) run(ctx context.Context) {
	// Initial pass picks up games finished while the service was down.
	w.archiveBatch(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.archiveBatch(ctx)
		case <-ctx.Done():
			log.Println("Report archiver stopping…")
			return
		}
	}
}

func (w *ReportArchiver) archiveBatch(ctx context.Context) {
	var games []models.Game
	err := w.db.Where("status = ? AND (report_url IS NULL OR report_url = '')", models.GameStatusFinished).
		Limit(10).Find(&games).Error
	if err != nil {
		log.Printf("❌ [Archiver] DB error: %v", err)
		return
	}

	for _, game := range games {
		if err := w.archiveGame(ctx, &game); err != nil {
			log.Printf("⚠️ [Archiver] Failed to archive game %s: %v", game.ID, err)
		}
	}
}

func (w *ReportArchiver) archiveGame(ctx context.Context, game *models.Game) error {
	body, err := services.BuildSettlementReport(game)
	if err != nil {
		return err
	}

	filename := services.ReportFilename(game)
	var location string
	if utils.R2Enabled() {
		location, err = utils.UploadReportToR2(ctx, "settlements/"+filename, body, "application/json")
	} else {
		location, err = utils.SaveReportLocally(filename, body)
	}
	if err != nil {
		return err
	}

	if err := w.db.Model(game).Update("report_url", location).Error; err != nil {
		return err
	}
	log.Printf("✅ Archived settlement report for %s → %s", game.Name, location)
	return nil
}
