package providers

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"pine-rivers/rangekiosk/internal/models/entities"
)

// PostgresMemberProvider reads the club membership table. The flag columns
// arrive in whatever spelling the membership export used (booleans, -1/0
// integers, "Yes" strings), so they are scanned loosely and normalized once.
type PostgresMemberProvider struct {
	db *sqlx.DB
}

// Ensure PostgresMemberProvider implements MemberProvider
var _ MemberProvider = (*PostgresMemberProvider)(nil)

// NewPostgresMemberProvider creates a provider over the membership database
func NewPostgresMemberProvider(db *sqlx.DB) *PostgresMemberProvider {
	return &PostgresMemberProvider{db: db}
}

type memberRow struct {
	MemberNo   string         `db:"member_no"`
	GivenName  sql.NullString `db:"given_name"`
	Surname    sql.NullString `db:"surname"`
	Email      sql.NullString `db:"email"`
	LicenceNo  sql.NullString `db:"licence_no"`
	JoinDate   *time.Time     `db:"join_date"`
	RangeOff   interface{}    `db:"range_officer"`
	CurrentMem interface{}    `db:"current_member"`
}

const fetchMembersQuery = `
	SELECT
		member_no,
		given_name,
		surname,
		email,
		category_h_licence AS licence_no,
		commencement_date  AS join_date,
		range_officer,
		current_member
	FROM club_members
`

// FetchMembers returns all current members sorted by full name
func (p *PostgresMemberProvider) FetchMembers(ctx context.Context) ([]entities.Member, error) {
	if p.db == nil {
		return nil, fmt.Errorf("no roster data source configured")
	}

	rows, err := p.db.QueryxContext(ctx, fetchMembersQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query membership table: %w", err)
	}
	defer rows.Close()

	var members []entities.Member
	for rows.Next() {
		var row memberRow
		if err := rows.StructScan(&row); err != nil {
			return nil, fmt.Errorf("failed to scan member row: %w", err)
		}

		if !entities.TruthyFlag(row.CurrentMem) {
			continue
		}

		fullName := strings.TrimSpace(
			strings.TrimSpace(row.GivenName.String) + " " + strings.TrimSpace(row.Surname.String))

		members = append(members, entities.Member{
			MemberID:       strings.TrimSpace(row.MemberNo),
			FullName:       fullName,
			Email:          strings.TrimSpace(row.Email.String),
			LicenceNo:      strings.TrimSpace(row.LicenceNo.String),
			JoinDate:       row.JoinDate,
			IsRangeOfficer: entities.TruthyFlag(row.RangeOff),
			IsCurrent:      true,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading membership rows: %w", err)
	}

	sort.Slice(members, func(i, j int) bool {
		return members[i].FullName < members[j].FullName
	})

	return members, nil
}
