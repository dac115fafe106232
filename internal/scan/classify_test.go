package scan

import (
	"testing"

	"pine-rivers/rangekiosk/internal/models/entities"
)

// mock roster lookup
type mockLookup struct {
	members map[string]entities.Member
}

func (m *mockLookup) Lookup(memberID string) (entities.Member, bool) {
	member, ok := m.members[memberID]
	return member, ok
}

func testRoster() *mockLookup {
	return &mockLookup{members: map[string]entities.Member{
		"123": {MemberID: "123", FullName: "Alice Officer", LicenceNo: "QLD1234567", IsRangeOfficer: true, IsCurrent: true},
		"456": {MemberID: "456", FullName: "Bob Member", IsRangeOfficer: false, IsCurrent: true},
		"789": {MemberID: "789", FullName: "Carol Former", IsRangeOfficer: true, IsCurrent: false},
	}}
}

func TestClassifyCardPayload(t *testing.T) {
	tok := Classify("PRSC|123|Alice Officer|2010-01-15|financial|QLD1234567", testRoster(), false)

	if tok.Kind != KindCard {
		t.Fatalf("Expected card, got %s", tok.Kind)
	}
	if tok.MemberID != "123" {
		t.Errorf("Expected member id 123, got %s", tok.MemberID)
	}
	if tok.Member == nil || tok.Member.FullName != "Alice Officer" {
		t.Errorf("Expected resolved roster member, got %+v", tok.Member)
	}
	if tok.LicenceNo != "QLD1234567" {
		t.Errorf("Expected licence QLD1234567, got %s", tok.LicenceNo)
	}
}

func TestClassifyStripsTimestampPrefix(t *testing.T) {
	tok := Classify("09:31:05|PRSC|123|Alice Officer|2010-01-15|financial|QLD1234567", testRoster(), false)
	if tok.Kind != KindCard {
		t.Fatalf("Expected card after timestamp strip, got %s", tok.Kind)
	}
	if tok.MemberID != "123" {
		t.Errorf("Expected member id 123, got %s", tok.MemberID)
	}
}

func TestClassifyFinancialSuffix(t *testing.T) {
	tok := Classify("garbled|financial|QLD1234567", testRoster(), false)
	if tok.Kind != KindLicence {
		t.Fatalf("Expected licence from financial suffix, got %s", tok.Kind)
	}
	if tok.LicenceNo != "QLD1234567" {
		t.Errorf("Expected QLD1234567, got %s", tok.LicenceNo)
	}
}

func TestClassifyLicenceBeatsLongDigits(t *testing.T) {
	cases := []string{"QLD1234567", "qld 1234567", "1234567"}
	for _, raw := range cases {
		tok := Classify(raw, testRoster(), false)
		if tok.Kind != KindLicence {
			t.Errorf("Classify(%q): expected licence, got %s", raw, tok.Kind)
		}
	}
}

func TestClassifyBareMemberID(t *testing.T) {
	tok := Classify("456", testRoster(), false)
	if tok.Kind != KindMemberID {
		t.Fatalf("Expected member_id, got %s", tok.Kind)
	}
	if tok.Member == nil || tok.Member.FullName != "Bob Member" {
		t.Errorf("Expected Bob Member resolved, got %+v", tok.Member)
	}
}

func TestClassifyMemberIDWithSuffix(t *testing.T) {
	tok := Classify("123-01", testRoster(), false)
	if tok.Kind != KindMemberID {
		t.Fatalf("Expected member_id for suffixed number, got %s", tok.Kind)
	}
}

func TestClassifyUnknownMemberID(t *testing.T) {
	tok := Classify("999", testRoster(), false)
	if tok.Kind != KindMemberID {
		t.Fatalf("Expected member_id, got %s", tok.Kind)
	}
	if tok.Member != nil {
		t.Errorf("Expected no roster resolution for unknown id")
	}
}

func TestClassifyUnrecognized(t *testing.T) {
	for _, raw := range []string{"", "hello world", "12"} {
		tok := Classify(raw, testRoster(), false)
		if tok.Kind != KindUnrecognized {
			t.Errorf("Classify(%q): expected unrecognized, got %s", raw, tok.Kind)
		}
	}
}

func TestClassifyLockedAuthorizesOnlyCurrentRO(t *testing.T) {
	tok := Classify("123", testRoster(), true)
	if tok.Kind == KindNotAuthorized || !tok.Authorized {
		t.Fatalf("Expected current RO to be authorized, got %s authorized=%v", tok.Kind, tok.Authorized)
	}

	// plain member
	tok = Classify("456", testRoster(), true)
	if tok.Kind != KindNotAuthorized {
		t.Errorf("Expected not_authorized for non-RO, got %s", tok.Kind)
	}

	// lapsed RO
	tok = Classify("789", testRoster(), true)
	if tok.Kind != KindNotAuthorized {
		t.Errorf("Expected not_authorized for lapsed RO, got %s", tok.Kind)
	}
}

func TestClassifyLockedIgnoresLicences(t *testing.T) {
	tok := Classify("QLD1234567", testRoster(), true)
	if tok.Kind != KindUnrecognized {
		t.Errorf("Expected licence scans to be unrecognized while locked, got %s", tok.Kind)
	}
}

func TestClassifyLockedCardPayload(t *testing.T) {
	tok := Classify("PRSC|123|Alice Officer|2010-01-15|financial|QLD1234567", testRoster(), true)
	if !tok.Authorized {
		t.Fatalf("Expected RO card to authorize unlock")
	}
	if tok.Member == nil || tok.Member.MemberID != "123" {
		t.Errorf("Expected resolved member 123, got %+v", tok.Member)
	}
}
