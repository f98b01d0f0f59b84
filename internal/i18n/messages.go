package i18n

// Message codes that are not field validation codes.
const (
	CodeInvalidTransition   = "invalid_transition"
	CodeSubmissionInFlight  = "submission_in_flight"
	CodeBackendFailure      = "backend_failure"
	CodeSessionNotFound     = "session_not_found"
	CodeBeneficiaryNotFound = "beneficiary_not_found"
	CodeBadRequest          = "bad_request"
	CodeSubmissionAccepted  = "submission_accepted"
)

var catalog = map[string]map[string]string{
	French: {
		"amount_invalid":        "Veuillez entrer un montant valide",
		"amount_below_minimum":  "Le montant minimum n'est pas atteint",
		"preset_unknown":        "Ce montant n'est pas proposé",
		"frequency_invalid":     "Fréquence de paiement inconnue",
		"selection_required":    "Veuillez choisir une cause ou un bénéficiaire",
		"first_name_required":   "Veuillez remplir les champs obligatoires",
		"email_invalid":         "Veuillez entrer une adresse email valide",
		"phone_required":        "Veuillez entrer votre numéro de téléphone",
		"phone_length":          "Le numéro de téléphone n'a pas le bon nombre de chiffres",
		CodeInvalidTransition:   "Cette action n'est pas possible à cette étape",
		CodeSubmissionInFlight:  "Votre paiement est déjà en cours de traitement",
		CodeBackendFailure:      "Le paiement n'a pas pu être enregistré, veuillez réessayer",
		CodeSessionNotFound:     "Cette session de paiement a expiré",
		CodeBeneficiaryNotFound: "Bénéficiaire non trouvé",
		CodeBadRequest:          "Requête invalide",
		CodeSubmissionAccepted:  "Don traité avec succès ! JazakAllahu Khairan.",
	},
	English: {
		"amount_invalid":        "Please enter a valid amount",
		"amount_below_minimum":  "The amount is below the minimum",
		"preset_unknown":        "This amount is not offered",
		"frequency_invalid":     "Unknown payment frequency",
		"selection_required":    "Please choose a cause or a beneficiary",
		"first_name_required":   "Please fill in the required fields",
		"email_invalid":         "Please enter a valid email address",
		"phone_required":        "Please enter your phone number",
		"phone_length":          "The phone number has the wrong number of digits",
		CodeInvalidTransition:   "This action is not available at this step",
		CodeSubmissionInFlight:  "Your payment is already being processed",
		CodeBackendFailure:      "The payment could not be recorded, please try again",
		CodeSessionNotFound:     "This checkout session has expired",
		CodeBeneficiaryNotFound: "Beneficiary not found",
		CodeBadRequest:          "Invalid request",
		CodeSubmissionAccepted:  "Donation processed successfully! JazakAllahu Khairan.",
	},
}

// Message returns the localized text for code. Unknown codes are returned
// unchanged so nothing is silently swallowed.
func Message(locale, code string) string {
	if msg, ok := catalog[Normalize(locale)][code]; ok {
		return msg
	}
	if msg, ok := catalog[French][code]; ok {
		return msg
	}
	return code
}
