// Package i18n holds the API message catalog (French by default, English on request).
package i18n

import (
	"context"
	"fmt"
	"strings"
)

const DefaultLang = "fr"

type langKey struct{}

// WithLang returns a context carrying the request language.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey{}, lang)
}

// LangFromContext returns the request language, defaulting to French.
func LangFromContext(ctx context.Context) string {
	if lang, ok := ctx.Value(langKey{}).(string); ok && lang != "" {
		return lang
	}
	return DefaultLang
}

// DetectLanguage picks a supported language from an Accept-Language header.
// Only the first listed language is considered.
func DetectLanguage(header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return DefaultLang
	}
	first := strings.SplitN(header, ",", 2)[0]
	first = strings.SplitN(first, ";", 2)[0]
	first = strings.ToLower(strings.TrimSpace(first))
	if strings.HasPrefix(first, "en") {
		return "en"
	}
	return DefaultLang
}

// T translates code for lang and formats it with args.
// Unknown languages fall back to French; unknown codes are returned unchanged.
func T(lang, code string, args ...any) string {
	msgs, ok := catalog[lang]
	if !ok {
		msgs = catalog[DefaultLang]
	}
	msg, ok := msgs[code]
	if !ok {
		msg, ok = catalog[DefaultLang][code]
		if !ok {
			return code
		}
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

var catalog = map[string]map[string]string{
	"fr": {
		"required": "Requis",

		"validation.required":         "Le champ %s est obligatoire.",
		"validation.string":           "Le champ %s doit être une chaîne de caractères.",
		"validation.integer":          "Le champ %s doit être un entier.",
		"validation.numeric":          "Le champ %s doit être un nombre.",
		"validation.boolean":          "Le champ %s doit être vrai ou faux.",
		"validation.date":             "Le champ %s n'est pas une date valide.",
		"validation.email":            "Le champ %s doit être une adresse e-mail valide.",
		"validation.url":              "Le format de l'URL de %s n'est pas valide.",
		"validation.array":            "Le champ %s doit être un tableau.",
		"validation.min.string":       "Le texte %s doit contenir au moins %d caractères.",
		"validation.max.string":       "Le texte %s ne peut contenir plus de %d caractères.",
		"validation.min.numeric":      "La valeur de %s doit être supérieure ou égale à %v.",
		"validation.max.numeric":      "La valeur de %s ne peut être supérieure à %v.",
		"validation.min.array":        "Le tableau %s doit contenir au moins %d éléments.",
		"validation.gte":              "Le champ %s doit être supérieur ou égal à %s.",
		"validation.in":               "La valeur sélectionnée pour %s est invalide.",
		"validation.exists":           "La valeur sélectionnée pour %s est invalide.",
		"validation.unique":           "La valeur du champ %s est déjà utilisée.",
		"validation.confirmed":        "Le champ de confirmation %s ne correspond pas.",
		"validation.after":            "Le champ %s doit être une date postérieure au %s.",
		"validation.file":             "Le champ %s doit être un fichier.",
		"validation.mimes":            "Le champ %s doit être un fichier de type : %s.",
		"validation.max.file":         "La taille du fichier de %s ne peut pas dépasser %d kilo-octets.",
		"validation.current_password": "Le mot de passe actuel est incorrect.",

		"error.unauthenticated": "Non authentifié.",
		"error.forbidden":       "Accès non autorisé.",
		"error.not_found":       "Ressource introuvable.",
		"error.validation":      "Les données fournies sont invalides.",
		"error.bad_request":     "Requête invalide.",
		"error.too_large":       "Le corps de la requête est trop volumineux.",

		"auth.failed":     "Email ou mot de passe incorrect",
		"auth.logged_out": "Déconnexion réussie",

		"conflict.job_already_applied":       "Vous avez déjà postulé à cette offre",
		"conflict.job_closed":                "Cette offre n'accepte plus de candidatures",
		"conflict.interview_already_applied": "Vous avez déjà postulé à cet entretien",
		"conflict.interview_confirmed":       "Cet entretien est déjà confirmé",
		"conflict.formation_completed":       "Vous avez déjà complété cette formation",
		"conflict.formation_paid":            "Vous avez déjà accès à cette formation",
		"conflict.global_paid":               "Vous disposez déjà d'un accès global",

		"notify.job_applied.title":           "Nouvelle candidature",
		"notify.job_applied.message":         "%s a postulé à votre offre « %s ».",
		"notify.application_status.title":    "Candidature mise à jour",
		"notify.application_status.message":  "Votre candidature à l'offre « %s » est maintenant : %s.",
		"notify.interview_created.title":     "Nouvel entretien à valider",
		"notify.interview_created.message":   "%s a créé l'entretien « %s ».",
		"notify.interview_applied.title":     "Nouveau candidat",
		"notify.interview_applied.message":   "%s a postulé à votre entretien « %s ».",
		"notify.interview_confirmed.title":   "Entretien confirmé",
		"notify.interview_confirmed.message": "Votre entretien « %s » a été confirmé.",

		"ok.deleted":          "Supprimé avec succès",
		"ok.password_updated": "Mot de passe mis à jour",
		"ok.profile_deleted":  "Compte supprimé",
	},
	"en": {
		"required": "Required",

		"validation.required":         "The %s field is required.",
		"validation.string":           "The %s field must be a string.",
		"validation.integer":          "The %s field must be an integer.",
		"validation.numeric":          "The %s field must be a number.",
		"validation.boolean":          "The %s field must be true or false.",
		"validation.date":             "The %s field must be a valid date.",
		"validation.email":            "The %s field must be a valid email address.",
		"validation.url":              "The %s field must be a valid URL.",
		"validation.array":            "The %s field must be an array.",
		"validation.min.string":       "The %s field must be at least %d characters.",
		"validation.max.string":       "The %s field must not be greater than %d characters.",
		"validation.min.numeric":      "The %s field must be at least %v.",
		"validation.max.numeric":      "The %s field must not be greater than %v.",
		"validation.min.array":        "The %s field must have at least %d items.",
		"validation.gte":              "The %s field must be greater than or equal to %s.",
		"validation.in":               "The selected %s is invalid.",
		"validation.exists":           "The selected %s is invalid.",
		"validation.unique":           "The %s has already been taken.",
		"validation.confirmed":        "The %s field confirmation does not match.",
		"validation.after":            "The %s field must be a date after %s.",
		"validation.file":             "The %s field must be a file.",
		"validation.mimes":            "The %s field must be a file of type: %s.",
		"validation.max.file":         "The %s field must not be greater than %d kilobytes.",
		"validation.current_password": "The current password is incorrect.",

		"error.unauthenticated": "Unauthenticated.",
		"error.forbidden":       "This action is unauthorized.",
		"error.not_found":       "Resource not found.",
		"error.validation":      "The given data was invalid.",
		"error.bad_request":     "Bad request.",
		"error.too_large":       "The request body is too large.",

		"auth.failed":     "Incorrect email or password",
		"auth.logged_out": "Logged out",

		"conflict.job_already_applied":       "You have already applied to this job offer",
		"conflict.job_closed":                "This job offer no longer accepts applications",
		"conflict.interview_already_applied": "You have already applied to this interview",
		"conflict.interview_confirmed":       "This interview is already confirmed",
		"conflict.formation_completed":       "You have already completed this formation",
		"conflict.formation_paid":            "You already have access to this formation",
		"conflict.global_paid":               "You already have global access",

		"notify.job_applied.title":           "New application",
		"notify.job_applied.message":         "%s applied to your job offer \"%s\".",
		"notify.application_status.title":    "Application updated",
		"notify.application_status.message":  "Your application to \"%s\" is now: %s.",
		"notify.interview_created.title":     "New interview to review",
		"notify.interview_created.message":   "%s created the interview \"%s\".",
		"notify.interview_applied.title":     "New candidate",
		"notify.interview_applied.message":   "%s applied to your interview \"%s\".",
		"notify.interview_confirmed.title":   "Interview confirmed",
		"notify.interview_confirmed.message": "Your interview \"%s\" has been confirmed.",

		"ok.deleted":          "Deleted",
		"ok.password_updated": "Password updated",
		"ok.profile_deleted":  "Account deleted",
	},
}
