package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"pine-rivers/rangekiosk/internal/checkin"
	"pine-rivers/rangekiosk/internal/config"
	"pine-rivers/rangekiosk/internal/constants"
	"pine-rivers/rangekiosk/internal/db"
	"pine-rivers/rangekiosk/internal/db/repositories"
	"pine-rivers/rangekiosk/internal/metrics"
	"pine-rivers/rangekiosk/internal/models/dtos/requests"
	"pine-rivers/rangekiosk/internal/models/dtos/responses"
	"pine-rivers/rangekiosk/internal/models/entities"
	"pine-rivers/rangekiosk/internal/roster"
	"pine-rivers/rangekiosk/internal/scan"
	"pine-rivers/rangekiosk/internal/services"
	"pine-rivers/rangekiosk/internal/session"
)

// promauto registers into the default registry, so tests share one instance
var (
	metricsOnce sync.Once
	metricsInst *metrics.MetricsRegistry
)

func testMetrics() *metrics.MetricsRegistry {
	metricsOnce.Do(func() { metricsInst = metrics.NewMetricsRegistry() })
	return metricsInst
}

func newTestDeps(t *testing.T) *Dependencies {
	t.Helper()

	mirrorDB, err := db.ConnectMirror("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open mirror store: %v", err)
	}

	cfg := &config.Config{
		UnlockPIN:     "1234",
		TokenSecret:   "test-secret",
		ExportsDir:    t.TempDir(),
		AdminEmail:    "admin@example.org",
		SMTPFrom:      "no-reply@example.org",
		ClubName:      "Test Club",
		RangeLocation: "Test Range",
	}

	store := roster.NewStore()
	store.Replace([]entities.Member{
		{MemberID: "100", FullName: "Alice Officer", Email: "alice@example.org", IsRangeOfficer: true, IsCurrent: true},
		{MemberID: "200", FullName: "Bob Officer", IsRangeOfficer: true, IsCurrent: true},
		{MemberID: "300", FullName: "Carol Shooter", LicenceNo: "QLD3333333", IsCurrent: true},
	})

	lock := session.NewLock(cfg.UnlockPIN, 0)
	mirrorRepo := repositories.NewCheckinMirrorRepo(mirrorDB)
	mailer := services.NewMailerService(services.MailerConfig{
		From:     cfg.SMTPFrom,
		Club:     cfg.ClubName,
		Location: cfg.RangeLocation,
	}, cfg.ExportsDir)
	workflow := checkin.NewWorkflow(lock, store, checkin.NewLedger(), mirrorRepo, mailer)

	return &Dependencies{
		Config:      cfg,
		Metrics:     testMetrics(),
		MirrorDB:    mirrorDB,
		Roster:      store,
		Lock:        lock,
		Tokens:      session.NewTokenIssuer(cfg.TokenSecret),
		Accumulator: scan.NewAccumulator(scan.DefaultIdleGap),
		Workflow:    workflow,
		Repo:        &Repositories{Mirror: mirrorRepo},
		Services: &Services{
			QRExport: services.NewQRExportService(cfg.ExportsDir),
			Mailer:   mailer,
			Report:   services.NewReportService(mailer, cfg.ExportsDir, cfg.ClubName),
		},
	}
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	bodyBytes, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", path, bytes.NewReader(bodyBytes))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func decodeData[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var resp responses.APIResponse[T]
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Data == nil {
		t.Fatalf("Expected response data, got %+v", resp)
	}
	return *resp.Data
}

func TestUnlockWithPINHandler(t *testing.T) {
	handlers := NewHandlers(newTestDeps(t))

	rr := postJSON(t, handlers.UnlockWithPIN(), "/api/v1/session/unlock",
		requests.UnlockRequest{PIN: "9999", MemberID: "100"})
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for wrong PIN, got %d", rr.Code)
	}

	rr = postJSON(t, handlers.UnlockWithPIN(), "/api/v1/session/unlock",
		requests.UnlockRequest{PIN: "1234", MemberID: "100"})
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	data := decodeData[responses.UnlockResponse](t, rr)
	if data.UnlockedBy != "Alice Officer" || data.Token == "" {
		t.Errorf("Unexpected unlock response %+v", data)
	}
}

func TestUnlockRejectsNonRangeOfficer(t *testing.T) {
	handlers := NewHandlers(newTestDeps(t))

	rr := postJSON(t, handlers.UnlockWithPIN(), "/api/v1/session/unlock",
		requests.UnlockRequest{PIN: "1234", MemberID: "300"})
	if rr.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for non-RO, got %d", rr.Code)
	}
}

func TestUnlockRequiresRosterSelection(t *testing.T) {
	handlers := NewHandlers(newTestDeps(t))

	// roster has ROs, so a typed name is not accepted
	rr := postJSON(t, handlers.UnlockWithPIN(), "/api/v1/session/unlock",
		requests.UnlockRequest{PIN: "1234", Name: "Somebody"})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without a roster selection, got %d", rr.Code)
	}
}

func TestScanUnlocksSession(t *testing.T) {
	deps := newTestDeps(t)
	handlers := NewHandlers(deps)

	rr := postJSON(t, handlers.ScanLine(), "/api/v1/scan",
		requests.ScanRequest{Raw: "PRSC|100|Alice Officer|2010-01-15|financial|QLD1111111"})
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	data := decodeData[responses.ScanResponse](t, rr)
	if data.Outcome != "unlocked" || data.Token == "" {
		t.Errorf("Expected unlock outcome with token, got %+v", data)
	}
	if !deps.Lock.Unlocked() {
		t.Error("Expected lock open after RO scan")
	}
}

func TestScanRejectsNonROWhileLocked(t *testing.T) {
	deps := newTestDeps(t)
	handlers := NewHandlers(deps)

	rr := postJSON(t, handlers.ScanLine(), "/api/v1/scan", requests.ScanRequest{Raw: "300"})
	if rr.Code != http.StatusForbidden {
		t.Errorf("Expected 403, got %d", rr.Code)
	}
	if deps.Lock.Unlocked() {
		t.Error("Expected lock to stay closed")
	}
}

func TestScanPrefillsWhileUnlocked(t *testing.T) {
	deps := newTestDeps(t)
	handlers := NewHandlers(deps)

	if _, err := deps.Lock.UnlockWithPIN("1234", session.Identity{Name: "Alice Officer"}); err != nil {
		t.Fatalf("Failed to unlock: %v", err)
	}

	rr := postJSON(t, handlers.ScanLine(), "/api/v1/scan", requests.ScanRequest{Raw: "300"})
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	data := decodeData[responses.ScanResponse](t, rr)
	if data.Member == nil || data.Member.FullName != "Carol Shooter" {
		t.Errorf("Expected roster prefill, got %+v", data)
	}
}

func TestScanUnrecognized(t *testing.T) {
	handlers := NewHandlers(newTestDeps(t))

	rr := postJSON(t, handlers.ScanLine(), "/api/v1/scan", requests.ScanRequest{Raw: "zz"})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422, got %d", rr.Code)
	}
}

func TestCheckinFlow(t *testing.T) {
	deps := newTestDeps(t)
	handlers := NewHandlers(deps)

	// locked kiosk refuses check-ins
	start := requests.StartCheckinRequest{
		MemberID:          "300",
		Firearm:           constants.FirearmPistol,
		Klass:             "Centrefire",
		Competition:       constants.CompetitionTarget,
		ParticipationType: constants.ParticipationComp,
	}
	rr := postJSON(t, handlers.StartCheckin(), "/api/v1/checkin/start", start)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 while locked, got %d", rr.Code)
	}

	if _, err := deps.Lock.UnlockWithPIN("1234", session.Identity{MemberID: "100", Name: "Alice Officer"}); err != nil {
		t.Fatalf("Failed to unlock: %v", err)
	}

	rr = postJSON(t, handlers.StartCheckin(), "/api/v1/checkin/start", start)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	startResp := decodeData[responses.StartCheckinResponse](t, rr)
	if !startResp.AttestationNeeded {
		t.Error("Expected attestation needed for licensed member")
	}
	if len(startResp.VerifierCandidates) != 2 {
		t.Errorf("Expected 2 verifier candidates, got %d", len(startResp.VerifierCandidates))
	}

	// second start is rejected while one is pending
	rr = postJSON(t, handlers.StartCheckin(), "/api/v1/checkin/start", start)
	if rr.Code != http.StatusConflict {
		t.Errorf("Expected 409 for second draft, got %d", rr.Code)
	}

	rr = postJSON(t, handlers.CommitCheckin(), "/api/v1/checkin/commit",
		requests.CommitCheckinRequest{VerifierID: "100", Attested: true})
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	commitResp := decodeData[responses.CommitCheckinResponse](t, rr)
	if !commitResp.Record.LicenceVerified || commitResp.Record.VerifiedBy != "Alice Officer" {
		t.Errorf("Unexpected committed record %+v", commitResp.Record)
	}

	// ledger reflects the commit
	req := httptest.NewRequest("GET", "/api/v1/ledger", nil)
	lrr := httptest.NewRecorder()
	handlers.GetLedger().ServeHTTP(lrr, req)
	records := decodeData[[]entities.CheckinRecord](t, lrr)
	if len(records) != 1 || records[0].MemberID != "300" {
		t.Errorf("Unexpected ledger contents %+v", records)
	}

	// mirror holds the same record
	hreq := httptest.NewRequest("GET", "/api/v1/ledger/history?shoot_date="+commitResp.Record.ShootDate, nil)
	hrr := httptest.NewRecorder()
	handlers.GetLedgerHistory().ServeHTTP(hrr, hreq)
	mirrored := decodeData[[]entities.CheckinRecord](t, hrr)
	if len(mirrored) != 1 || mirrored[0].ID != commitResp.Record.ID {
		t.Errorf("Expected mirrored record, got %+v", mirrored)
	}
}

func TestFinalizePreconditions(t *testing.T) {
	handlers := NewHandlers(newTestDeps(t))

	// empty ledger
	rr := postJSON(t, handlers.Finalize(), "/api/v1/finalize", requests.FinalizeRequest{
		SafetyBrief: entities.SafetyBrief{DeliveredBy: "Alice", VerifiedBy: "Bob"},
	})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 on empty ledger, got %d", rr.Code)
	}
}

func TestFinalizeNeedsConfigWithoutSMTP(t *testing.T) {
	deps := newTestDeps(t)
	handlers := NewHandlers(deps)

	if _, err := deps.Lock.UnlockWithPIN("1234", session.Identity{MemberID: "100", Name: "Alice Officer"}); err != nil {
		t.Fatalf("Failed to unlock: %v", err)
	}
	if _, err := deps.Workflow.Start(checkin.StartInput{
		MemberID:          "300",
		Firearm:           constants.FirearmPistol,
		Klass:             "Centrefire",
		Competition:       constants.CompetitionTarget,
		ParticipationType: constants.ParticipationComp,
	}); err != nil {
		t.Fatalf("Failed to start: %v", err)
	}
	if _, err := deps.Workflow.Commit(context.Background(),
		checkin.CommitInput{VerifierID: "100", Attested: true}); err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}

	// missing safety brief blocks finalization
	rr := postJSON(t, handlers.Finalize(), "/api/v1/finalize", requests.FinalizeRequest{})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 without safety brief, got %d", rr.Code)
	}

	rr = postJSON(t, handlers.Finalize(), "/api/v1/finalize", requests.FinalizeRequest{
		SafetyBrief: entities.SafetyBrief{DeliveredBy: "Alice", VerifiedBy: "Bob"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	data := decodeData[responses.FinalizeResponse](t, rr)
	if data.Delivered || !data.NeedsConfig || data.SavedAs == "" {
		t.Errorf("Expected needs-config outcome with saved CSV, got %+v", data)
	}
}

func TestKioskModeHidesRoster(t *testing.T) {
	handlers := NewHandlers(newTestDeps(t))

	rr := postJSON(t, handlers.SetKioskMode(), "/api/v1/session/kiosk-mode",
		requests.KioskModeRequest{Enabled: true})
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	req := httptest.NewRequest("GET", "/api/v1/roster", nil)
	grr := httptest.NewRecorder()
	handlers.GetRoster().ServeHTTP(grr, req)
	if grr.Code != http.StatusForbidden {
		t.Errorf("Expected 403 in kiosk mode, got %d", grr.Code)
	}

	postJSON(t, handlers.SetKioskMode(), "/api/v1/session/kiosk-mode",
		requests.KioskModeRequest{Enabled: false})
	grr = httptest.NewRecorder()
	handlers.GetRoster().ServeHTTP(grr, req)
	if grr.Code != http.StatusOK {
		t.Errorf("Expected 200 after leaving kiosk mode, got %d", grr.Code)
	}
}

func TestSessionStatusAndRelock(t *testing.T) {
	deps := newTestDeps(t)
	handlers := NewHandlers(deps)

	if _, err := deps.Lock.UnlockWithPIN("1234", session.Identity{Name: "Alice Officer"}); err != nil {
		t.Fatalf("Failed to unlock: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/v1/session", nil)
	rr := httptest.NewRecorder()
	handlers.SessionStatus().ServeHTTP(rr, req)
	status := decodeData[responses.SessionStatusResponse](t, rr)
	if !status.Unlocked || status.UnlockedBy != "Alice Officer" {
		t.Errorf("Unexpected session status %+v", status)
	}

	rr = postJSON(t, handlers.Relock(), "/api/v1/session/relock", struct{}{})
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}
	if deps.Lock.Unlocked() {
		t.Error("Expected lock closed after relock")
	}
}
