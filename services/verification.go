package services

import (
	"sort"
	"time"

	"fleet-admin-server/models"
)

// DocumentTypeSpec describes one category of compliance paperwork.
type DocumentTypeSpec struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Required bool   `json:"required"`
}

// DocumentTypes is configuration, not data. Adding or re-flagging a type
// changes this slice only; the Vehicle schema is untouched because documents
// live in a per-type map.
var DocumentTypes = []DocumentTypeSpec{
	{Key: "motCertificate", Label: "MOT certificate", Required: true},
	{Key: "privateHireLicense", Label: "Private hire licence", Required: true},
	{Key: "registrationDocument", Label: "Registration document (V5C)", Required: true},
	{Key: "insuranceCertificate", Label: "Insurance certificate", Required: false},
}

// ExpiryWarningWindow is the lookahead period used to warn operators before a
// document lapses. Documents expiring inside it need explicit acknowledgement
// before vehicle approval goes through.
const ExpiryWarningWindow = 30 * 24 * time.Hour

// VerificationDecision is the outcome of evaluating a vehicle's document set.
// It is ephemeral: computed on demand, returned to the caller, never stored.
type VerificationDecision struct {
	Allowed         bool     `json:"allowed"`
	BlockingReasons []string `json:"blockingReasons"`
	ExpiringSoon    []string `json:"expiringSoon"`
	Expired         []string `json:"expired"`
}

// EvaluateApproval decides whether a vehicle-level approval is permitted at
// `now`, given the vehicle's authoritative document map. Pure function: no
// store access, no ambient clock.
//
// A required type with no record or no file URL blocks approval. Any document
// (required or optional) whose expiry date is strictly before `now` blocks
// approval regardless of its review status. Documents expiring within the
// warning window are listed in ExpiringSoon but do not block by themselves.
func EvaluateApproval(docs map[string]models.DocumentRecord, now time.Time) VerificationDecision {
	decision := VerificationDecision{
		BlockingReasons: []string{},
		ExpiringSoon:    []string{},
		Expired:         []string{},
	}

	for _, spec := range DocumentTypes {
		if !spec.Required {
			continue
		}
		rec, ok := docs[spec.Key]
		if !ok || rec.URL == "" {
			decision.BlockingReasons = append(decision.BlockingReasons, spec.Key)
		}
	}

	warningCutoff := now.Add(ExpiryWarningWindow)
	for key, rec := range docs {
		if rec.ExpiryDate == nil {
			continue // never expires
		}
		switch {
		case rec.ExpiryDate.Before(now):
			decision.Expired = append(decision.Expired, key)
		case rec.ExpiryDate.After(now) && !rec.ExpiryDate.After(warningCutoff):
			decision.ExpiringSoon = append(decision.ExpiringSoon, key)
		}
	}

	// Map iteration order is random; keep the lists stable for responses
	// and comparisons.
	sort.Strings(decision.BlockingReasons)
	sort.Strings(decision.ExpiringSoon)
	sort.Strings(decision.Expired)

	decision.Allowed = len(decision.BlockingReasons) == 0 && len(decision.Expired) == 0
	return decision
}

// DocumentTypeByKey looks up a configured type. Second result is false for
// unknown keys.
func DocumentTypeByKey(key string) (DocumentTypeSpec, bool) {
	for _, spec := range DocumentTypes {
		if spec.Key == key {
			return spec, true
		}
	}
	return DocumentTypeSpec{}, false
}
