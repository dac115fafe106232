package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/sync/errgroup"

	"pine-rivers/rangekiosk/internal/constants"
	"pine-rivers/rangekiosk/internal/models/entities"
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// QRExportService writes one scannable credential image per roster member.
// The payload format is fixed; the lock-screen decoder reads it back.
type QRExportService struct {
	exportsDir string
}

// NewQRExportService creates a QR exporter rooted at the exports folder
func NewQRExportService(exportsDir string) *QRExportService {
	return &QRExportService{exportsDir: exportsDir}
}

// Payload builds the pipe-delimited credential payload for one member
func Payload(m entities.Member) string {
	joinDate := ""
	if m.JoinDate != nil {
		joinDate = m.JoinDate.Format("2006-01-02")
	}
	return strings.Join([]string{
		constants.QRPayloadPrefix, m.MemberID, m.FullName, joinDate, "financial", m.LicenceNo,
	}, "|")
}

// Export writes one PNG per member under <exports>/qrcodes/<day>/ and
// returns the count and folder. Images are generated concurrently.
func (s *QRExportService) Export(ctx context.Context, members []entities.Member) (int, string, error) {
	if len(members) == 0 {
		return 0, "", fmt.Errorf("no rows")
	}

	dayTag := time.Now().Format("2006-01-02")
	dir := filepath.Join(s.exportsDir, "qrcodes", dayTag)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, "", fmt.Errorf("failed to create QR folder: %w", err)
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, m := range members {
		g.Go(func() error {
			name := m.MemberID
			if name == "" {
				name = "member"
			}
			file := filepath.Join(dir, unsafeFileChars.ReplaceAllString(name, "_")+".png")
			if err := qrcode.WriteFile(Payload(m), qrcode.Medium, 512, file); err != nil {
				return fmt.Errorf("failed to write QR for member %s: %w", m.MemberID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, dir, err
	}

	log.Printf("[QRExport] Saved %d QR codes to %s", len(members), dir)
	return len(members), dir, nil
}
