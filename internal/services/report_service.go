package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"pine-rivers/rangekiosk/internal/constants"
	"pine-rivers/rangekiosk/internal/logging"
	"pine-rivers/rangekiosk/internal/models/entities"
)

var (
	ErrNoRows             = errors.New(constants.MsgNoRows)
	ErrMissingSafetyBrief = errors.New(constants.MsgMissingSafetyBrief)
)

// FinalizeResult describes what happened to the participation report.
// NeedsConfig means the CSV was written but could not be emailed because no
// SMTP settings exist; the artifact is still on disk at SavedAs.
type FinalizeResult struct {
	Delivered   bool
	NeedsConfig bool
	SavedAs     string
	Folder      string
	Recipient   string
	Message     string
}

// ReportService writes the end-of-day participation CSV and hands it to the
// mailer for delivery
type ReportService struct {
	mailer     *MailerService
	exportsDir string
	clubName   string
}

func NewReportService(mailer *MailerService, exportsDir, clubName string) *ReportService {
	return &ReportService{mailer: mailer, exportsDir: exportsDir, clubName: clubName}
}

func csvRow(rec entities.CheckinRecord) []string {
	return []string{
		rec.Timestamp.Format(time.RFC3339),
		rec.ShootDate,
		rec.MemberID,
		rec.Name,
		string(rec.Firearm),
		rec.Klass,
		string(rec.Competition),
		string(rec.ParticipationType),
		string(rec.LicenceType),
		rec.LicenceNo,
		strconv.FormatBool(rec.LicenceVerified),
		rec.VerifiedBy,
	}
}

// writeCSV writes all rows in the order given and returns the file path
func (s *ReportService) writeCSV(rows []entities.CheckinRecord, dateTag string) (string, error) {
	dir := filepath.Join(s.exportsDir, "participation")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create participation folder: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("PRSC_Participation_%s.csv", dateTag))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create participation CSV: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(constants.CSVColumns); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, rec := range rows {
		if err := w.Write(csvRow(rec)); err != nil {
			return "", fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV: %w", err)
	}
	return path, nil
}

// Finalize validates the session, writes the CSV and attempts delivery.
// Precondition failures leave the filesystem untouched.
func (s *ReportService) Finalize(ctx context.Context, rows []entities.CheckinRecord, recipient, shootDate string, brief entities.SafetyBrief) (FinalizeResult, error) {
	if len(rows) == 0 {
		return FinalizeResult{}, ErrNoRows
	}
	if !brief.Complete() {
		return FinalizeResult{}, ErrMissingSafetyBrief
	}

	dateTag := shootDate
	if dateTag == "" {
		dateTag = time.Now().Format("2006-01-02")
	}

	path, err := s.writeCSV(rows, dateTag)
	if err != nil {
		return FinalizeResult{}, err
	}

	result := FinalizeResult{
		SavedAs:   path,
		Folder:    filepath.Dir(path),
		Recipient: recipient,
	}

	if !s.mailer.Configured() {
		result.NeedsConfig = true
		result.Message = "Report saved to " + path + " (email not configured)"
		logging.Info("Finalized session without delivery, SMTP not configured",
			"file", path, "rows", len(rows))
		return result, nil
	}

	subject := fmt.Sprintf("%s Participation Report — %s", s.clubName, fmtDMY(dateTag))
	body := fmt.Sprintf("Attached is the participation report for %s.\n\nEntries: %d\nSafety brief delivered by: %s\nSafety brief verified by: %s\n",
		fmtDMY(dateTag), len(rows), brief.DeliveredBy, brief.VerifiedBy)

	if err := s.mailer.SendReport(ctx, recipient, subject, body, path); err != nil {
		result.Message = "Report saved to " + path + " but delivery failed"
		logging.Error("Failed to deliver participation report", "error", err, "file", path)
		return result, err
	}

	result.Delivered = true
	result.Message = "Report emailed to " + recipient
	logging.Info("Finalized session", "file", path, "rows", len(rows), "recipient", recipient)
	return result, nil
}
