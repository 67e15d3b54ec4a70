// Package feedback turns graded quiz answers into a short written report
// produced by a text-generation API, with fixed reports when the API fails.
package feedback

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Report is the feedback shown to a user after a test.
type Report struct {
	PointsForts           []string `json:"points_forts"`
	DomainesDAmelioration []string `json:"domaines_d_amélioration"`
	Recommandations       []string `json:"recommandations"`
}

// Item is one answered (or skipped) question.
type Item struct {
	Question string
	Options  []string
	// Answer is the selected option index; -1 when the question was not answered.
	Answer  int
	Correct int
}

const notAnswered = "Non répondu"

func option(opts []string, i int) string {
	if i < 0 || i >= len(opts) {
		return notAnswered
	}
	return opts[i]
}

// BuildPrompt renders the items into a deterministic prompt.
func BuildPrompt(items []Item) string {
	var b strings.Builder
	b.WriteString("Tu es un coach de carrière. Analyse les réponses d'un étudiant à un test d'orientation.\n\n")
	for i, it := range items {
		fmt.Fprintf(&b, "Question %d: %s\n", i+1, it.Question)
		fmt.Fprintf(&b, "Réponse de l'étudiant: %s\n", option(it.Options, it.Answer))
		fmt.Fprintf(&b, "Bonne réponse: %s\n\n", option(it.Options, it.Correct))
	}
	b.WriteString("Réponds uniquement avec un objet JSON contenant exactement les champs ")
	b.WriteString(`"points_forts", "domaines_d_amélioration" et "recommandations", `)
	b.WriteString("chacun étant une liste de phrases courtes en français.")
	return b.String()
}

var (
	ErrMalformed  = errors.New("feedback: malformed response")
	ErrIncomplete = errors.New("feedback: missing fields")
)

// stripFences removes a surrounding markdown code fence, with or without a language tag.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}

// ParseReport extracts the JSON object from generated text. All three
// fields must be arrays of strings; null or any other shape counts as missing.
func ParseReport(text string) (Report, error) {
	s := stripFences(text)
	start, end := strings.IndexByte(s, '{'), strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return Report{}, ErrMalformed
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s[start:end+1]), &raw); err != nil {
		return Report{}, ErrMalformed
	}
	var r Report
	for _, f := range []struct {
		key string
		dst *[]string
	}{
		{"points_forts", &r.PointsForts},
		{"domaines_d_amélioration", &r.DomainesDAmelioration},
		{"recommandations", &r.Recommandations},
	} {
		v, ok := raw[f.key]
		if !ok || json.Unmarshal(v, f.dst) != nil || *f.dst == nil {
			return Report{}, ErrIncomplete
		}
	}
	return r, nil
}

// Fallback returns the fixed report for a failure cause.
func Fallback(cause error) Report {
	switch {
	case errors.Is(cause, ErrNoAPIKey):
		return Report{
			PointsForts:           []string{"Test complété avec succès."},
			DomainesDAmelioration: []string{"L'analyse détaillée n'est pas disponible pour le moment."},
			Recommandations:       []string{"Consultez les formations adaptées à votre niveau."},
		}
	case errors.Is(cause, ErrMalformed), errors.Is(cause, ErrIncomplete):
		return Report{
			PointsForts:           []string{"Vos réponses ont été enregistrées."},
			DomainesDAmelioration: []string{"Le rapport généré n'a pas pu être interprété."},
			Recommandations:       []string{"Repassez le test plus tard pour obtenir un retour détaillé."},
		}
	default:
		return Report{
			PointsForts:           []string{"Vos réponses ont été enregistrées."},
			DomainesDAmelioration: []string{"Le service d'analyse est momentanément indisponible."},
			Recommandations:       []string{"Réessayez plus tard ou contactez un coach."},
		}
	}
}
