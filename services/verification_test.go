package services

import (
	"reflect"
	"testing"
	"time"

	"fleet-admin-server/models"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func docIn(days int) *time.Time {
	t := testNow.Add(time.Duration(days) * 24 * time.Hour)
	return &t
}

func validDoc(key string, expiryDays *int) models.DocumentRecord {
	rec := models.DocumentRecord{
		Type:   key,
		Status: models.DocumentPendingReview,
		URL:    "https://cdn.example.com/docs/" + key + ".pdf",
	}
	if expiryDays != nil {
		rec.ExpiryDate = docIn(*expiryDays)
	}
	return rec
}

func intp(n int) *int { return &n }

func completeDocs() map[string]models.DocumentRecord {
	return map[string]models.DocumentRecord{
		"motCertificate":       validDoc("motCertificate", intp(120)),
		"privateHireLicense":   validDoc("privateHireLicense", intp(200)),
		"registrationDocument": validDoc("registrationDocument", nil),
	}
}

func TestEvaluateApprovalAllRequiredPresent(t *testing.T) {
	decision := EvaluateApproval(completeDocs(), testNow)
	if !decision.Allowed {
		t.Fatalf("expected allowed, got blocked: %+v", decision)
	}
	if len(decision.BlockingReasons) != 0 || len(decision.Expired) != 0 || len(decision.ExpiringSoon) != 0 {
		t.Fatalf("expected clean decision, got %+v", decision)
	}
}

func TestEvaluateApprovalMissingRequired(t *testing.T) {
	docs := completeDocs()
	delete(docs, "registrationDocument")

	decision := EvaluateApproval(docs, testNow)
	if decision.Allowed {
		t.Fatal("expected blocked decision")
	}
	if !reflect.DeepEqual(decision.BlockingReasons, []string{"registrationDocument"}) {
		t.Fatalf("expected registrationDocument blocking, got %v", decision.BlockingReasons)
	}
}

func TestEvaluateApprovalRecordWithoutURLBlocks(t *testing.T) {
	docs := completeDocs()
	rec := docs["motCertificate"]
	rec.URL = ""
	docs["motCertificate"] = rec

	decision := EvaluateApproval(docs, testNow)
	if decision.Allowed {
		t.Fatal("a record without a file is missing, approval must be blocked")
	}
	if !reflect.DeepEqual(decision.BlockingReasons, []string{"motCertificate"}) {
		t.Fatalf("expected motCertificate blocking, got %v", decision.BlockingReasons)
	}
}

func TestEvaluateApprovalOptionalNeverBlocks(t *testing.T) {
	// No insuranceCertificate at all: still approvable.
	decision := EvaluateApproval(completeDocs(), testNow)
	if !decision.Allowed {
		t.Fatalf("optional document absence must not block: %+v", decision)
	}
}

func TestEvaluateApprovalExpiredBlocksRegardlessOfStatus(t *testing.T) {
	docs := completeDocs()
	yesterday := docIn(-1)
	docs["motCertificate"] = models.DocumentRecord{
		Type:       "motCertificate",
		Status:     models.DocumentApproved,
		URL:        "https://cdn.example.com/docs/mot.pdf",
		ExpiryDate: yesterday,
	}

	decision := EvaluateApproval(docs, testNow)
	if decision.Allowed {
		t.Fatal("expired document must block approval even when its status is approved")
	}
	if !reflect.DeepEqual(decision.Expired, []string{"motCertificate"}) {
		t.Fatalf("expected motCertificate expired, got %v", decision.Expired)
	}
	if len(decision.BlockingReasons) != 0 {
		t.Fatalf("expiry is not a completeness failure: %v", decision.BlockingReasons)
	}
}

func TestEvaluateApprovalExpiredOptionalBlocks(t *testing.T) {
	docs := completeDocs()
	docs["insuranceCertificate"] = validDoc("insuranceCertificate", intp(-3))

	decision := EvaluateApproval(docs, testNow)
	if decision.Allowed {
		t.Fatal("an expired optional document still blocks approval")
	}
	if !reflect.DeepEqual(decision.Expired, []string{"insuranceCertificate"}) {
		t.Fatalf("expected insuranceCertificate expired, got %v", decision.Expired)
	}
}

func TestEvaluateApprovalExpiringSoonWarnsWithoutBlocking(t *testing.T) {
	docs := completeDocs()
	docs["insuranceCertificate"] = validDoc("insuranceCertificate", intp(10))

	decision := EvaluateApproval(docs, testNow)
	if !decision.Allowed {
		t.Fatalf("expiring-soon must not block by itself: %+v", decision)
	}
	if !reflect.DeepEqual(decision.ExpiringSoon, []string{"insuranceCertificate"}) {
		t.Fatalf("expected insuranceCertificate expiring soon, got %v", decision.ExpiringSoon)
	}
}

func TestEvaluateApprovalWarningWindowBounds(t *testing.T) {
	cases := []struct {
		name     string
		expiry   time.Time
		expired  bool
		expiring bool
	}{
		{"exactly now", testNow, false, false},
		{"one second past expiry", testNow.Add(-time.Second), true, false},
		{"one second inside window", testNow.Add(time.Second), false, true},
		{"window boundary inclusive", testNow.Add(ExpiryWarningWindow), false, true},
		{"just outside window", testNow.Add(ExpiryWarningWindow + time.Second), false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			docs := completeDocs()
			rec := docs["motCertificate"]
			expiry := tc.expiry
			rec.ExpiryDate = &expiry
			docs["motCertificate"] = rec

			decision := EvaluateApproval(docs, testNow)
			if got := len(decision.Expired) == 1; got != tc.expired {
				t.Fatalf("expired=%v, want %v (decision %+v)", got, tc.expired, decision)
			}
			if got := len(decision.ExpiringSoon) == 1; got != tc.expiring {
				t.Fatalf("expiringSoon=%v, want %v (decision %+v)", got, tc.expiring, decision)
			}
		})
	}
}

func TestEvaluateApprovalNoExpiryNeverExpires(t *testing.T) {
	docs := completeDocs()
	decision := EvaluateApproval(docs, testNow.Add(100 * 365 * 24 * time.Hour))
	// motCertificate and privateHireLicense are long expired by then but
	// registrationDocument has no expiry and never trips either list.
	for _, key := range decision.Expired {
		if key == "registrationDocument" {
			t.Fatal("document without expiry date must never expire")
		}
	}
}

func TestEvaluateApprovalEmptyDocumentSet(t *testing.T) {
	decision := EvaluateApproval(map[string]models.DocumentRecord{}, testNow)
	if decision.Allowed {
		t.Fatal("empty document set must not be approvable")
	}
	want := []string{"motCertificate", "privateHireLicense", "registrationDocument"}
	if !reflect.DeepEqual(decision.BlockingReasons, want) {
		t.Fatalf("expected every required type blocking, got %v", decision.BlockingReasons)
	}
}

func TestDocumentTypeByKey(t *testing.T) {
	spec, ok := DocumentTypeByKey("insuranceCertificate")
	if !ok || spec.Required {
		t.Fatalf("insuranceCertificate should be a known optional type: %+v ok=%v", spec, ok)
	}
	if _, ok := DocumentTypeByKey("boilerServiceRecord"); ok {
		t.Fatal("unknown key must not resolve")
	}
}
