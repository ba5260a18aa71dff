package app

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/pstuifzand/tui-annotator/internal/storage"
)

// generateSessionID returns the random id that groups the backups of one run
func generateSessionID() string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, 8)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}

// createBackup snapshots the task that was just saved. Failures are logged;
// they never fail the save.
func (a *App) createBackup() {
	if a.backupMgr == nil {
		return
	}
	path, err := a.backupMgr.CreateBackup(a.doc.Task, a.taskStore.FilePath, a.sessionID)
	if err != nil {
		log.Printf("backup of %s failed: %v", a.taskStore.FilePath, err)
		return
	}
	log.Printf("backup written to %s", path)
}

// showBackups opens the picker with the backups of the open task
func (a *App) showBackups() {
	if a.backupMgr == nil {
		a.SetStatus("Backups are disabled")
		return
	}
	original := a.taskStore.FilePath
	if a.originalPath != "" {
		original = a.originalPath
	}
	backups, err := a.backupMgr.FindBackupsForFile(original)
	if err != nil {
		a.SetStatus("Failed to read backups: " + err.Error())
		return
	}
	if len(backups) == 0 {
		a.SetStatus("No backups found for this file")
		return
	}
	a.backupPicker.Show(backups)
}

// openBackup replaces the view with a backup. Backups are read-only; the
// original file stays what ":backups" lists.
func (a *App) openBackup(backup storage.BackupMetadata) {
	if a.originalPath == "" {
		a.originalPath = a.taskStore.FilePath
	}
	if err := a.open(backup.FilePath, true); err != nil {
		a.SetStatus(fmt.Sprintf("Failed to open backup: %v", err))
		return
	}
	a.refreshComments()
	a.SetStatus(fmt.Sprintf("Backup %s (read-only)", backup.Timestamp.Local().Format("2006-01-02 15:04:05")))
}
