package scan

import (
	"regexp"
	"strings"

	"pine-rivers/rangekiosk/internal/constants"
	"pine-rivers/rangekiosk/internal/models/entities"
)

// Kind labels the classification of one scan line
type Kind string

const (
	// KindCard is a structured club credential payload (PRSC|...)
	KindCard Kind = "card"
	// KindMemberID is a bare membership number
	KindMemberID Kind = "member_id"
	// KindLicence is a firearms licence / identity number
	KindLicence Kind = "licence"
	// KindNotAuthorized is a locked-state scan that resolved to someone who
	// is not a current range officer (distinct from unrecognized)
	KindNotAuthorized Kind = "not_authorized"
	// KindUnrecognized is anything the decoder could not place
	KindUnrecognized Kind = "unrecognized"
)

// Token is the classified outcome of one scan line
type Token struct {
	Kind      Kind
	MemberID  string
	FullName  string
	LicenceNo string
	// Member is the resolved roster entry when the id matched the snapshot
	Member *entities.Member
	// Authorized is set for locked-state tokens from a current range officer
	Authorized bool
}

// MemberLookup resolves a member id against the roster snapshot
type MemberLookup interface {
	Lookup(memberID string) (entities.Member, bool)
}

var (
	// leading scanner timestamp segment, e.g. "00:00:00|"
	timestampPrefix = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\|`)
	// membership number: 3-4 digits, optional "-NN" suffix
	memberIDPattern = regexp.MustCompile(`^\d{3,4}(?:-\d{2})?$`)
	// licence: optional 2-4 letter prefix, 6-10 digits
	licencePattern = regexp.MustCompile(`(?i)^(?:[A-Z]{2,4}\s*)?\d{6,10}$`)
	// trailing "financial|<id>" suffix on partial credential scans
	financialSuffix = regexp.MustCompile(`(?i)(?:^|\|)financial\|([A-Za-z0-9-]+)$`)
	// characters safe to keep for the last-resort id lookup
	unsafeIDChars = regexp.MustCompile(`[^A-Za-z0-9-]`)
)

// Classify maps one raw scan line to exactly one token. When locked, only
// credential payloads and bare member ids are considered, and both require
// the resolved member to be a current range officer.
func Classify(raw string, roster MemberLookup, locked bool) Token {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Token{Kind: KindUnrecognized}
	}

	cleaned := timestampPrefix.ReplaceAllString(text, "")

	if locked {
		return classifyLocked(cleaned, roster)
	}

	// (1) structured credential payload
	if strings.HasPrefix(cleaned, constants.QRPayloadPrefix+"|") {
		return classifyCard(cleaned, roster)
	}

	// (2) trailing financial|<licence> suffix from a partial credential scan
	if m := financialSuffix.FindStringSubmatch(cleaned); m != nil {
		return Token{Kind: KindLicence, LicenceNo: m[1]}
	}

	trimmed := strings.TrimSpace(cleaned)

	// (3) licence before (4) member id: the more specific shape wins when
	// a numeric string could be either
	if licencePattern.MatchString(trimmed) {
		return Token{Kind: KindLicence, LicenceNo: trimmed}
	}

	if memberIDPattern.MatchString(trimmed) {
		return memberToken(trimmed, roster)
	}

	// (5) last resort: strip unsafe characters and try an id lookup
	if fallback := unsafeIDChars.ReplaceAllString(trimmed, ""); fallback != "" {
		if member, ok := roster.Lookup(fallback); ok {
			tok := memberToken(fallback, roster)
			tok.FullName = member.FullName
			return tok
		}
	}

	return Token{Kind: KindUnrecognized}
}

func classifyLocked(cleaned string, roster MemberLookup) Token {
	var memberID string
	var kind Kind

	switch {
	case strings.HasPrefix(cleaned, constants.QRPayloadPrefix+"|"):
		parts := strings.Split(cleaned, "|")
		if len(parts) > 1 {
			memberID = parts[1]
		}
		kind = KindCard
	case memberIDPattern.MatchString(strings.TrimSpace(cleaned)):
		memberID = strings.TrimSpace(cleaned)
		kind = KindMemberID
	default:
		return Token{Kind: KindUnrecognized}
	}

	member, ok := roster.Lookup(memberID)
	if !ok || !member.IsRangeOfficer || !member.IsCurrent {
		return Token{Kind: KindNotAuthorized, MemberID: memberID}
	}

	return Token{
		Kind:       kind,
		MemberID:   member.MemberID,
		FullName:   member.FullName,
		Member:     &member,
		Authorized: true,
	}
}

func classifyCard(cleaned string, roster MemberLookup) Token {
	parts := strings.Split(cleaned, "|")
	field := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}

	tok := Token{
		Kind:      KindCard,
		MemberID:  field(1),
		FullName:  field(2),
		LicenceNo: field(5),
	}

	// Roster data wins over whatever was baked into the card
	if member, ok := roster.Lookup(tok.MemberID); ok {
		tok.Member = &member
		if member.FullName != "" {
			tok.FullName = member.FullName
		}
		if member.LicenceNo != "" {
			tok.LicenceNo = member.LicenceNo
		}
	}
	return tok
}

func memberToken(memberID string, roster MemberLookup) Token {
	tok := Token{Kind: KindMemberID, MemberID: memberID}
	if member, ok := roster.Lookup(memberID); ok {
		tok.Member = &member
		tok.FullName = member.FullName
		tok.LicenceNo = member.LicenceNo
	}
	return tok
}
