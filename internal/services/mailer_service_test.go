package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pine-rivers/rangekiosk/internal/constants"
	"pine-rivers/rangekiosk/internal/models/entities"
)

func confirmationRecord() entities.CheckinRecord {
	return entities.CheckinRecord{
		ID:                "rec-1",
		ShootDate:         "2026-09-01",
		MemberID:          "300",
		Name:              "Carol Shooter",
		Email:             "carol@example.org",
		Firearm:           constants.FirearmPistol,
		Klass:             "Centrefire",
		Competition:       constants.CompetitionTarget,
		ParticipationType: constants.ParticipationComp,
		LicenceType:       constants.LicenceKindLicensed,
		LicenceNo:         "QLD3333333",
		LicenceVerified:   true,
		VerifiedBy:        "Alice Officer",
	}
}

func TestConfirmationSubject(t *testing.T) {
	got := ConfirmationSubject(confirmationRecord())
	want := "Competition Participation for Pistol (H) Centrefire — 01/09/2026"
	if got != want {
		t.Errorf("Subject mismatch:\n got %s\nwant %s", got, want)
	}
}

func TestConfirmationBodyLines(t *testing.T) {
	svc := NewMailerService(MailerConfig{Club: "Test Club", Location: "Test Range"}, t.TempDir())

	body := svc.confirmationBody(confirmationRecord(), "Alice Officer")
	for _, want := range []string{
		"Club: Test Club",
		"Location: Test Range",
		"Member Name: Carol Shooter",
		"Member #: 300",
		"Competition date: 01/09/2026",
		"Category: Pistol (H)",
		"Class: Centrefire",
		"Competition: Target",
		"Licence: licensed QLD3333333",
		"Verified by Range Officer – Alice Officer",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Body missing line %q:\n%s", want, body)
		}
	}
}

func TestConfirmationBodyOmitsLicenceWhenAbsent(t *testing.T) {
	svc := NewMailerService(MailerConfig{Club: "Test Club", Location: "Test Range"}, t.TempDir())

	rec := confirmationRecord()
	rec.LicenceType = constants.LicenceKindNone
	rec.LicenceNo = ""

	body := svc.confirmationBody(rec, "Alice Officer")
	if strings.Contains(body, "Licence:") {
		t.Errorf("Expected no licence line:\n%s", body)
	}
}

func TestSendConfirmationSavesPDFWithoutSMTP(t *testing.T) {
	dir := t.TempDir()
	svc := NewMailerService(MailerConfig{From: "no-reply@example.org", Club: "Test Club", Location: "Test Range"}, dir)

	delivered, detail, err := svc.SendConfirmation(context.Background(), "carol@example.org", confirmationRecord(), "Alice Officer")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if delivered {
		t.Error("Expected not delivered without SMTP")
	}
	if !strings.Contains(detail, "email not configured") {
		t.Errorf("Expected needs-config detail, got %q", detail)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "confirmations", "2026-09-01"))
	if err != nil {
		t.Fatalf("Failed to read confirmations folder: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "PRSC_Confirmation_2026-09-01_300.pdf" {
		t.Errorf("Unexpected confirmation artifacts %+v", entries)
	}
}
