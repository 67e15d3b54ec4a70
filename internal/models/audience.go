package models

// Audience is the level a formation, capsule or test is aimed at.
type Audience string

const (
	AudienceDebutant      Audience = "debutant"
	AudienceIntermediaire Audience = "intermediaire"
	AudienceAvance        Audience = "avance"
)

func Audiences() []string {
	return []string{string(AudienceDebutant), string(AudienceIntermediaire), string(AudienceAvance)}
}

func (a Audience) Valid() bool {
	switch a {
	case AudienceDebutant, AudienceIntermediaire, AudienceAvance:
		return true
	}
	return false
}

// AudienceForScore maps a test percentage to a level.
func AudienceForScore(percent float64) Audience {
	switch {
	case percent < 50:
		return AudienceDebutant
	case percent < 80:
		return AudienceIntermediaire
	default:
		return AudienceAvance
	}
}

// AudiencePtr returns a pointer for nullable columns; empty means null.
func AudiencePtr(s string) *Audience {
	if s == "" {
		return nil
	}
	a := Audience(s)
	return &a
}
