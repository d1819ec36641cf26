package payments

import "levelup/models"

type ReturnKind string

const (
	ReturnSuccess ReturnKind = "success"
	ReturnPending ReturnKind = "pending"
	ReturnFailure ReturnKind = "failure"
)

// ReturnOutcome is what the donor sees after the gateway redirects back.
// It is derived from the query string only and never touches the database.
type ReturnOutcome struct {
	Kind          ReturnKind
	Status        string
	TransactionID string
	Message       string
}

func ResolveReturn(status, transactionID string) ReturnOutcome {
	if status == "" {
		status = string(models.DonationError)
	}
	if transactionID == "" {
		transactionID = "N/A"
	}

	out := ReturnOutcome{Status: status, TransactionID: transactionID}
	switch models.DonationStatus(status) {
	case models.DonationApproved:
		out.Kind = ReturnSuccess
		out.Message = "¡Donación exitosa! Gracias por tu apoyo."
	case models.DonationPending:
		out.Kind = ReturnPending
		out.Message = "Tu pago está en estado pendiente. Recibirás una notificación cuando se apruebe."
	default:
		out.Kind = ReturnFailure
		out.Message = "La donación no pudo completarse o fue cancelada."
	}
	return out
}
