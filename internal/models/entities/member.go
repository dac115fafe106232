package entities

import (
	"strings"
	"time"
)

// Member is one row of the club roster snapshot. Immutable once loaded;
// the whole snapshot is replaced on re-sync.
type Member struct {
	MemberID       string     `json:"memberId" db:"member_no"`
	FullName       string     `json:"fullName"`
	Email          string     `json:"email" db:"email"`
	LicenceNo      string     `json:"licenceNo" db:"licence_no"`
	JoinDate       *time.Time `json:"joinDate" db:"join_date"`
	IsRangeOfficer bool       `json:"isRangeOfficer"`
	IsCurrent      bool       `json:"isCurrent"`
}

// TruthyFlag normalizes the assorted boolean spellings found in membership
// exports: true, 1, -1, "true", "yes" (any case) all count as set.
func TruthyFlag(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case int:
		return t == 1 || t == -1
	case int32:
		return t == 1 || t == -1
	case int64:
		return t == 1 || t == -1
	case float64:
		return t == 1 || t == -1
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		return s == "true" || s == "yes" || s == "1" || s == "-1"
	case []byte:
		return TruthyFlag(string(t))
	case nil:
		return false
	}
	return false
}
