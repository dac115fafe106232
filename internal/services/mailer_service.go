package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	mail "github.com/wneessen/go-mail"

	"pine-rivers/rangekiosk/internal/constants"
	"pine-rivers/rangekiosk/internal/models/entities"
)

// MailerConfig carries the SMTP settings plus the club identity printed on
// confirmations. An empty Host means no delivery channel is configured.
type MailerConfig struct {
	Host     string
	Port     int
	User     string
	Pass     string
	From     string
	Club     string
	Location string
}

// MailerService sends the per-check-in confirmation (with a PDF attachment)
// and the finalisation report. When SMTP is not configured every artifact is
// still produced and saved locally; delivery is reported as needs-config.
type MailerService struct {
	cfg        MailerConfig
	exportsDir string
}

// NewMailerService creates a mailer rooted at the exports folder
func NewMailerService(cfg MailerConfig, exportsDir string) *MailerService {
	return &MailerService{cfg: cfg, exportsDir: exportsDir}
}

// Configured reports whether an SMTP delivery channel is available
func (s *MailerService) Configured() bool {
	return s.cfg.Host != ""
}

func (s *MailerService) client() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if s.cfg.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.User),
			mail.WithPassword(s.cfg.Pass),
		)
	}
	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}
	return client, nil
}

func fmtDMY(isoDate string) string {
	t, err := time.Parse("2006-01-02", isoDate)
	if err != nil {
		return isoDate
	}
	return t.Format("02/01/2006")
}

// ConfirmationSubject builds the member email subject line
func ConfirmationSubject(rec entities.CheckinRecord) string {
	return strings.TrimSpace(fmt.Sprintf("Competition Participation for %s %s — %s",
		rec.Firearm.Label(), rec.Klass, fmtDMY(rec.ShootDate)))
}

func (s *MailerService) confirmationBody(rec entities.CheckinRecord, verifier string) string {
	lines := []string{
		"Club: " + s.cfg.Club,
		"Location: " + s.cfg.Location,
		"Member Name: " + rec.Name,
		"Member #: " + rec.MemberID,
		"Competition date: " + fmtDMY(rec.ShootDate),
		"Category: " + rec.Firearm.Label(),
		"Class: " + rec.Klass,
		"Competition: " + rec.Competition.Label(),
	}
	if rec.LicenceType != constants.LicenceKindNone {
		lines = append(lines, "Licence: "+strings.TrimSpace(string(rec.LicenceType)+" "+rec.LicenceNo))
	}
	lines = append(lines, "Verified by Range Officer – "+verifier)
	return strings.Join(lines, "\n")
}

// confirmationPDF renders the participation confirmation document
func (s *MailerService) confirmationPDF(rec entities.CheckinRecord, verifier string) ([]byte, string, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(19, 19, 19)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, s.cfg.Club)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(51, 51, 51)
	pdf.Cell(0, 6, "Competition Participation Confirmation")
	pdf.Ln(8)
	pdf.SetDrawColor(153, 153, 153)
	pdf.Line(19, pdf.GetY(), 191, pdf.GetY())
	pdf.Ln(6)

	line := func(label, value string) {
		pdf.SetTextColor(17, 17, 17)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(55, 7, label+":")
		pdf.SetFont("Helvetica", "", 11)
		pdf.Cell(0, 7, value)
		pdf.Ln(7)
	}

	line("Location", s.cfg.Location)
	line("Member Name", rec.Name)
	line("Member #", rec.MemberID)
	line("Competition date", fmtDMY(rec.ShootDate))
	line("Category", rec.Firearm.Label())
	line("Class", rec.Klass)
	line("Competition", rec.Competition.Label())
	if rec.LicenceType != constants.LicenceKindNone {
		line("Licence", strings.TrimSpace(string(rec.LicenceType)+" "+rec.LicenceNo))
	}
	line("Verified by Range Officer", verifier)

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(85, 85, 85)
	pdf.Cell(0, 5, "Generated by the range check-in kiosk. Keep this document for your records.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to render confirmation PDF: %w", err)
	}

	memberID := unsafeFileChars.ReplaceAllString(rec.MemberID, "_")
	if memberID == "" {
		memberID = "member"
	}
	filename := fmt.Sprintf("PRSC_Confirmation_%s_%s.pdf", rec.ShootDate, memberID)
	return buf.Bytes(), filename, nil
}

// SendConfirmation emails the member their participation confirmation with
// the PDF attached. Without SMTP the PDF is saved locally instead and the
// result reports needs-config; the caller treats that as a soft outcome.
func (s *MailerService) SendConfirmation(ctx context.Context, to string, rec entities.CheckinRecord, verifier string) (bool, string, error) {
	pdfBytes, filename, err := s.confirmationPDF(rec, verifier)
	if err != nil {
		return false, "", err
	}

	if !s.Configured() {
		dir := filepath.Join(s.exportsDir, "confirmations", rec.ShootDate)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, "", fmt.Errorf("failed to create confirmations folder: %w", err)
		}
		path := filepath.Join(dir, filename)
		if err := os.WriteFile(path, pdfBytes, 0o644); err != nil {
			return false, "", fmt.Errorf("failed to save confirmation PDF: %w", err)
		}
		log.Printf("[Mailer] SMTP not configured; confirmation saved to %s", path)
		return false, "Check-in saved (confirmation PDF at " + path + ", email not configured)", nil
	}

	msg := mail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return false, "", fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return false, "", fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(ConfirmationSubject(rec))
	msg.SetBodyString(mail.TypeTextPlain, s.confirmationBody(rec, verifier))
	msg.AttachReader(filename, bytes.NewReader(pdfBytes))

	client, err := s.client()
	if err != nil {
		return false, "", err
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return false, "", fmt.Errorf("failed to send confirmation: %w", err)
	}
	return true, "smtp", nil
}

// SendReport emails the finalisation CSV to the club administrator
func (s *MailerService) SendReport(ctx context.Context, to, subject, body, attachmentPath string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	msg.AttachFile(attachmentPath)

	client, err := s.client()
	if err != nil {
		return err
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send report: %w", err)
	}
	return nil
}
